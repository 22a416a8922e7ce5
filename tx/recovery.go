package tx

import (
	"simpledb/buffer"
	"simpledb/wal"
)

// recoveryMgr writes the before-image log records a transaction's writes
// need, and drives undo-only rollback and crash recovery. There is no redo
// pass: buffers are forced to disk at commit, so a committed write can never
// be lost, and an uncommitted write is always undone instead of replayed.
type recoveryMgr struct {
	lm    *wal.Manager
	bp    *buffer.Pool
	tx    *Transaction
	txnum int
}

// commit flushes every buffer this transaction modified, writes and flushes
// a COMMIT record. Force-at-commit is what lets recovery skip a redo pass.
func (r *recoveryMgr) commit() error {
	if err := r.bp.FlushAll(r.txnum); err != nil {
		return err
	}
	lsn, err := writeCommitRecord(r.lm, r.txnum)
	if err != nil {
		return err
	}
	return r.lm.Flush(lsn)
}

// rollback undoes this transaction's writes by scanning the log backwards
// from its most recent record until this transaction's START, then writes
// and flushes a ROLLBACK record.
func (r *recoveryMgr) rollback() error {
	if err := r.doRollback(); err != nil {
		return err
	}
	if err := r.bp.FlushAll(r.txnum); err != nil {
		return err
	}
	lsn, err := writeRollbackRecord(r.lm, r.txnum)
	if err != nil {
		return err
	}
	return r.lm.Flush(lsn)
}

func (r *recoveryMgr) doRollback() error {
	it, err := r.lm.Iterator()
	if err != nil {
		return err
	}
	for it.HasNext() {
		bytes, err := it.Next()
		if err != nil {
			return err
		}
		rec := decodeRecord(bytes)
		if rec.txnum != r.txnum {
			continue
		}
		if rec.op == Start {
			return nil
		}
		if rec.undoable() {
			if err := rec.undo(r.tx); err != nil {
				return err
			}
		}
	}
	return nil
}

// recover undoes every transaction that was active (started but neither
// committed nor rolled back) at the time of a crash, scanning the log
// backwards from its end until the most recent CHECKPOINT, then writes a
// fresh CHECKPOINT so a future recovery need not scan past this point.
func recover(tx *Transaction, lm *wal.Manager, bp *buffer.Pool) error {
	finished := make(map[int]bool)
	it, err := lm.Iterator()
	if err != nil {
		return err
	}
	for it.HasNext() {
		bytes, err := it.Next()
		if err != nil {
			return err
		}
		rec := decodeRecord(bytes)
		if rec.op == Checkpoint {
			break
		}
		if rec.op == Commit || rec.op == Rollback {
			finished[rec.txnum] = true
			continue
		}
		if rec.undoable() && !finished[rec.txnum] {
			if err := rec.undo(tx); err != nil {
				return err
			}
		}
	}
	if err := bp.FlushAll(tx.txnum); err != nil {
		return err
	}
	lsn, err := writeCheckpointRecord(lm)
	if err != nil {
		return err
	}
	return lm.Flush(lsn)
}
