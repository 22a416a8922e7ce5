package tx

import (
	"simpledb/file"
	"simpledb/wal"
)

// Op identifies the kind of a write-ahead log record. Every record begins
// with a 4-byte kind tag matching one of these values.
type Op int32

const (
	// Checkpoint carries no payload; it marks the point recovery can stop
	// scanning backwards from.
	Checkpoint Op = iota + 1
	// Start records the beginning of a transaction.
	Start
	// Commit records that a transaction's effects are permanent.
	Commit
	// Rollback records that a transaction's effects have been undone.
	Rollback
	// SetI32 records the old value of an int32 field before a write, for
	// undo.
	SetI32
	// SetString records the old value of a string field before a write, for
	// undo.
	SetString
)

// record is the in-memory decoding of one log entry.
type record struct {
	op     Op
	txnum  int
	blk    file.Block
	offset int
	oldI32 int32
	oldStr string
}

// undoable reports whether this record type carries an old value that must
// be restored during rollback or crash recovery.
func (r record) undoable() bool {
	return r.op == SetI32 || r.op == SetString
}

// undo restores the record's before-image directly through tx, without
// generating a further log record (log=false), matching the design's
// mandate that undo itself is not logged.
func (r record) undo(tx *Transaction) error {
	switch r.op {
	case SetI32:
		if err := tx.Pin(r.blk); err != nil {
			return err
		}
		defer tx.Unpin(r.blk)
		return tx.SetInt(r.blk, r.offset, r.oldI32, false)
	case SetString:
		if err := tx.Pin(r.blk); err != nil {
			return err
		}
		defer tx.Unpin(r.blk)
		return tx.SetString(r.blk, r.offset, r.oldStr, false)
	default:
		return nil
	}
}

const opSize = 4

func decodeRecord(buf []byte) record {
	p := file.NewPageFromBytes(buf)
	op := Op(p.GetInt(0))
	r := record{op: op}
	switch op {
	case Checkpoint:
	case Start, Commit, Rollback:
		r.txnum = int(p.GetInt(opSize))
	case SetI32:
		pos := opSize
		r.txnum = int(p.GetInt(pos))
		pos += 4
		fname := p.GetString(pos)
		pos += file.MaxLength(len(fname))
		blknum := int(p.GetInt(pos))
		pos += 4
		offset := int(p.GetInt(pos))
		pos += 4
		oldval := p.GetInt(pos)
		r.blk = file.New(fname, blknum)
		r.offset = offset
		r.oldI32 = oldval
	case SetString:
		pos := opSize
		r.txnum = int(p.GetInt(pos))
		pos += 4
		fname := p.GetString(pos)
		pos += file.MaxLength(len(fname))
		blknum := int(p.GetInt(pos))
		pos += 4
		offset := int(p.GetInt(pos))
		pos += 4
		oldval := p.GetString(pos)
		r.blk = file.New(fname, blknum)
		r.offset = offset
		r.oldStr = oldval
	}
	return r
}

func writeCheckpointRecord(lm *wal.Manager) (int, error) {
	buf := make([]byte, opSize)
	file.NewPageFromBytes(buf).SetInt(0, int32(Checkpoint))
	return lm.Append(buf)
}

func writeTxOnlyRecord(lm *wal.Manager, op Op, txnum int) (int, error) {
	buf := make([]byte, opSize+4)
	p := file.NewPageFromBytes(buf)
	p.SetInt(0, int32(op))
	p.SetInt(opSize, int32(txnum))
	return lm.Append(buf)
}

func writeStartRecord(lm *wal.Manager, txnum int) (int, error) {
	return writeTxOnlyRecord(lm, Start, txnum)
}

func writeCommitRecord(lm *wal.Manager, txnum int) (int, error) {
	return writeTxOnlyRecord(lm, Commit, txnum)
}

func writeRollbackRecord(lm *wal.Manager, txnum int) (int, error) {
	return writeTxOnlyRecord(lm, Rollback, txnum)
}

func writeSetI32Record(lm *wal.Manager, txnum int, blk file.Block, offset int, oldval int32) (int, error) {
	size := opSize + 4 + file.MaxLength(len(blk.Filename)) + 4 + 4 + 4
	buf := make([]byte, size)
	p := file.NewPageFromBytes(buf)
	pos := 0
	p.SetInt(pos, int32(SetI32))
	pos += opSize
	p.SetInt(pos, int32(txnum))
	pos += 4
	p.SetString(pos, blk.Filename)
	pos += file.MaxLength(len(blk.Filename))
	p.SetInt(pos, int32(blk.Number))
	pos += 4
	p.SetInt(pos, int32(offset))
	pos += 4
	p.SetInt(pos, oldval)
	return lm.Append(buf)
}

func writeSetStringRecord(lm *wal.Manager, txnum int, blk file.Block, offset int, oldval string) (int, error) {
	size := opSize + 4 + file.MaxLength(len(blk.Filename)) + 4 + 4 + file.MaxLength(len(oldval))
	buf := make([]byte, size)
	p := file.NewPageFromBytes(buf)
	pos := 0
	p.SetInt(pos, int32(SetString))
	pos += opSize
	p.SetInt(pos, int32(txnum))
	pos += 4
	p.SetString(pos, blk.Filename)
	pos += file.MaxLength(len(blk.Filename))
	p.SetInt(pos, int32(blk.Number))
	pos += 4
	p.SetInt(pos, int32(offset))
	pos += 4
	p.SetString(pos, oldval)
	return lm.Append(buf)
}
