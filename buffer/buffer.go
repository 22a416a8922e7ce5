// Package buffer implements the buffer pool: pinning of (file, block)
// pairs into fixed frames, a replacement policy bounded by a wait timeout,
// and the flush discipline the write-ahead log's durability guarantee rests
// on (a dirty frame's log is durable before the frame itself is written).
package buffer

import (
	"simpledb/file"
	"simpledb/wal"
)

// Buffer is one frame of the pool: a page-sized slot that may currently hold
// the contents of some block, along with the bookkeeping the pool and the
// recovery manager need to decide when it is safe to evict or must be
// flushed first.
type Buffer struct {
	fm *file.Manager
	lm *wal.Manager

	contents    *file.Page
	blk         file.Block
	assigned    bool
	pins        int
	modifyingTx int
	lsn         int
}

func newBuffer(fm *file.Manager, lm *wal.Manager) *Buffer {
	return &Buffer{
		fm:          fm,
		lm:          lm,
		contents:    file.NewPage(fm.BlockSize()),
		modifyingTx: -1,
		lsn:         -1,
	}
}

// Contents returns the page held by this frame.
func (b *Buffer) Contents() *file.Page {
	return b.contents
}

// Block returns the block currently assigned to this frame.
func (b *Buffer) Block() file.Block {
	return b.blk
}

// SetModified marks the frame dirty on behalf of txnum. lsn is the LSN of
// the log record covering this modification; a negative lsn leaves the
// frame's recorded LSN untouched (used when a transaction re-modifies a page
// it already holds a more recent LSN for is not expected here, but mirrors
// the classic Buffer.setModified contract).
func (b *Buffer) SetModified(txnum int, lsn int) {
	b.modifyingTx = txnum
	if lsn >= 0 {
		b.lsn = lsn
	}
}

// ModifyingTx returns the transaction currently responsible for this
// frame's dirty bytes, or -1 if the frame is clean.
func (b *Buffer) ModifyingTx() int {
	return b.modifyingTx
}

// IsPinned reports whether any transaction currently holds this frame.
func (b *Buffer) IsPinned() bool {
	return b.pins > 0
}

func (b *Buffer) flush() error {
	if b.modifyingTx < 0 {
		return nil
	}
	if err := b.lm.Flush(b.lsn); err != nil {
		return err
	}
	if err := b.fm.Write(b.blk, b.contents); err != nil {
		return err
	}
	b.modifyingTx = -1
	return nil
}

func (b *Buffer) assignToBlock(blk file.Block) error {
	if err := b.flush(); err != nil {
		return err
	}
	b.blk = blk
	b.assigned = true
	if err := b.fm.Read(blk, b.contents); err != nil {
		return err
	}
	b.pins = 0
	return nil
}

func (b *Buffer) pin() {
	b.pins++
}

func (b *Buffer) unpin() {
	b.pins--
}
