// Package tx implements the transaction façade: pinning, reading and writing
// pages on behalf of a caller while transparently acquiring locks and
// logging before-images, plus undo-only crash recovery.
package tx

import (
	"simpledb/buffer"
	"simpledb/common"
	"simpledb/concurrency"
	"simpledb/file"
	"simpledb/wal"
)

// endOfFile is the block number used purely as a lock tag standing for "the
// length of this file", distinct from any real, non-negative data block.
// Size and Append acquire a lock on it so that concurrent transactions
// cannot race to extend the same file.
const endOfFile = -1

// Manager creates transactions and owns the resources they share: the file
// manager, log manager, buffer pool and the process-wide lock table.
type Manager struct {
	fm        *file.Manager
	lm        *wal.Manager
	bp        *buffer.Pool
	lockTable *concurrency.LockTable
	nextTxNum int
}

// NewManager wires a transaction manager over the given lower layers and
// immediately runs crash recovery, undoing any transaction left unfinished
// by a previous run.
func NewManager(fm *file.Manager, lm *wal.Manager, bp *buffer.Pool, lockTable *concurrency.LockTable) (*Manager, error) {
	m := &Manager{fm: fm, lm: lm, bp: bp, lockTable: lockTable, nextTxNum: 1}
	recoveryTx := m.newTransaction(0)
	if err := recover(recoveryTx, lm, bp); err != nil {
		return nil, err
	}
	recoveryTx.conc.ReleaseAll()
	return m, nil
}

// NewTransaction starts a new, independently numbered transaction.
func (m *Manager) NewTransaction() (*Transaction, error) {
	txnum := m.nextTxNum
	m.nextTxNum++
	tx := m.newTransaction(txnum)
	if _, err := writeStartRecord(m.lm, txnum); err != nil {
		return nil, err
	}
	return tx, nil
}

func (m *Manager) newTransaction(txnum int) *Transaction {
	tx := &Transaction{
		fm:     m.fm,
		lm:     m.lm,
		bp:     m.bp,
		conc:   concurrency.NewManager(m.lockTable),
		txnum:  txnum,
		pinned: make(map[file.Block]*pinEntry),
	}
	tx.recovery = &recoveryMgr{lm: m.lm, bp: m.bp, tx: tx, txnum: txnum}
	return tx
}

// Transaction is the unit of work: every read or write of shared data goes
// through one, so that it can be locked, logged and undone as a whole.
type Transaction struct {
	fm       *file.Manager
	lm       *wal.Manager
	bp       *buffer.Pool
	conc     *concurrency.Manager
	recovery *recoveryMgr
	txnum    int
	pinned   map[file.Block]*pinEntry
}

// pinEntry refcounts a transaction's logical holds on a block, layered on
// top of a single real buffer-pool pin: only the first Pin call and the
// matching last Unpin call cross into the pool, so two scans sharing a
// transaction can each pin and unpin the same block independently.
type pinEntry struct {
	buf   *buffer.Buffer
	count int
}

// TxNumber returns the transaction's identifying number.
func (tx *Transaction) TxNumber() int {
	return tx.txnum
}

// Pin makes blk's contents available to GetInt/GetString/SetInt/SetString,
// pinning it in the buffer pool. Pins nest: a block may be pinned more than
// once, and must be unpinned an equal number of times.
func (tx *Transaction) Pin(blk file.Block) error {
	if entry, ok := tx.pinned[blk]; ok {
		entry.count++
		return nil
	}
	buf, err := tx.bp.Pin(blk)
	if err != nil {
		return err
	}
	tx.pinned[blk] = &pinEntry{buf: buf, count: 1}
	return nil
}

// Unpin releases one of the transaction's logical holds on blk, releasing
// the real buffer-pool pin only once every hold has been released.
func (tx *Transaction) Unpin(blk file.Block) {
	entry, ok := tx.pinned[blk]
	if !ok {
		return
	}
	entry.count--
	if entry.count > 0 {
		return
	}
	delete(tx.pinned, blk)
	tx.bp.Unpin(entry.buf)
}

func (tx *Transaction) buffer(blk file.Block) *buffer.Buffer {
	entry, ok := tx.pinned[blk]
	common.Assert(ok, "block %s not pinned by transaction %d", blk, tx.txnum)
	return entry.buf
}

// GetInt acquires a shared lock on blk and returns the int32 at offset.
func (tx *Transaction) GetInt(blk file.Block, offset int) (int32, error) {
	if err := tx.conc.SLock(blk); err != nil {
		return 0, err
	}
	return tx.buffer(blk).Contents().GetInt(offset), nil
}

// GetString acquires a shared lock on blk and returns the string at offset.
func (tx *Transaction) GetString(blk file.Block, offset int) (string, error) {
	if err := tx.conc.SLock(blk); err != nil {
		return "", err
	}
	return tx.buffer(blk).Contents().GetString(offset), nil
}

// SetInt acquires an exclusive lock on blk and writes val at offset. When
// log is true (the ordinary case), the old value is written to the log
// first so it can be restored on rollback or crash recovery; log is false
// only when undo itself is writing the before-image back.
func (tx *Transaction) SetInt(blk file.Block, offset int, val int32, log bool) error {
	if err := tx.conc.XLock(blk); err != nil {
		return err
	}
	buf := tx.buffer(blk)
	lsn := -1
	if log {
		oldval := buf.Contents().GetInt(offset)
		var err error
		lsn, err = writeSetI32Record(tx.lm, tx.txnum, blk, offset, oldval)
		if err != nil {
			return err
		}
	}
	buf.Contents().SetInt(offset, val)
	buf.SetModified(tx.txnum, lsn)
	return nil
}

// SetString acquires an exclusive lock on blk and writes val at offset,
// logging the old value exactly as SetInt does.
func (tx *Transaction) SetString(blk file.Block, offset int, val string, log bool) error {
	if err := tx.conc.XLock(blk); err != nil {
		return err
	}
	buf := tx.buffer(blk)
	lsn := -1
	if log {
		oldval := buf.Contents().GetString(offset)
		var err error
		lsn, err = writeSetStringRecord(tx.lm, tx.txnum, blk, offset, oldval)
		if err != nil {
			return err
		}
	}
	buf.Contents().SetString(offset, val)
	buf.SetModified(tx.txnum, lsn)
	return nil
}

// Size returns the number of blocks in filename, holding a shared lock on
// the file's end-of-file marker so that no other transaction can be
// extending it concurrently.
func (tx *Transaction) Size(filename string) (int, error) {
	dummy := file.New(filename, endOfFile)
	if err := tx.conc.SLock(dummy); err != nil {
		return 0, err
	}
	return tx.fm.Length(filename)
}

// Append extends filename by one block, holding an exclusive lock on its
// end-of-file marker, and returns the new block.
func (tx *Transaction) Append(filename string) (file.Block, error) {
	dummy := file.New(filename, endOfFile)
	if err := tx.conc.XLock(dummy); err != nil {
		return file.Block{}, err
	}
	return tx.fm.Append(filename)
}

// Remove deletes filename outright, bypassing locking and logging. It exists
// solely for dropping materialization scratch tables, which are never
// visible outside the transaction that created them and carry no durability
// guarantee.
func (tx *Transaction) Remove(filename string) error {
	return tx.fm.Remove(filename)
}

// BlockSize returns the file manager's fixed block size.
func (tx *Transaction) BlockSize() int {
	return tx.fm.BlockSize()
}

// Commit makes the transaction's writes permanent: it forces every buffer
// it modified to disk, writes and flushes a COMMIT record, releases its
// locks and unpins its buffers.
func (tx *Transaction) Commit() error {
	if err := tx.recovery.commit(); err != nil {
		return err
	}
	tx.conc.ReleaseAll()
	tx.unpinAll()
	return nil
}

// Rollback undoes every write the transaction made, releases its locks and
// unpins its buffers.
func (tx *Transaction) Rollback() error {
	if err := tx.recovery.rollback(); err != nil {
		return err
	}
	tx.conc.ReleaseAll()
	tx.unpinAll()
	return nil
}

func (tx *Transaction) unpinAll() {
	for blk, entry := range tx.pinned {
		tx.bp.Unpin(entry.buf)
		delete(tx.pinned, blk)
	}
}
