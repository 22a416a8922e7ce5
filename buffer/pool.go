package buffer

import (
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"simpledb/common"
	"simpledb/file"
	"simpledb/wal"
)

// Pool manages a fixed set of K frames shared by every transaction. Pin uses
// a naive first-unpinned-frame scan for replacement, as the design permits;
// an xsync map indexes resident frames by block so that a repeat pin of an
// already-resident block finds its frame in O(1). Every Pin and Unpin still
// takes the pool-wide lock.
type Pool struct {
	fm *file.Manager
	lm *wal.Manager

	mu      sync.Mutex
	cond    *sync.Cond
	buffers []*Buffer
	byBlock *xsync.MapOf[file.Block, *Buffer]

	timeout time.Duration
}

// NewPool creates a pool of numBuffers frames.
func NewPool(fm *file.Manager, lm *wal.Manager, numBuffers int, timeout time.Duration) *Pool {
	p := &Pool{
		fm:      fm,
		lm:      lm,
		buffers: make([]*Buffer, numBuffers),
		byBlock: xsync.NewMapOf[file.Block, *Buffer](),
		timeout: timeout,
	}
	for i := range p.buffers {
		p.buffers[i] = newBuffer(fm, lm)
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Available returns the number of currently unpinned frames.
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buffers {
		if !b.IsPinned() {
			n++
		}
	}
	return n
}

// Pin returns the frame holding blk, pinning it so it cannot be evicted
// until a matching Unpin. If blk is not resident, a victim frame is chosen
// (flushing it first if dirty) and blk is read into it. If no frame becomes
// available within the pool's buffer-wait timeout, Pin fails with
// BufferAbort.
func (p *Pool) Pin(blk file.Block) (*Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	deadline := time.Now().Add(p.timeout)
	buf, err := p.tryToPin(blk)
	if err != nil {
		return nil, err
	}
	for buf == nil {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, common.New(common.BufferAbort, "no available buffer for %s within timeout", blk)
		}
		waitWithTimeout(p.cond, remaining)
		buf, err = p.tryToPin(blk)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// Unpin releases the caller's pin on buf. Once every pin on a frame is
// released it becomes eligible for replacement, and any transaction blocked
// in Pin is woken to retry.
func (p *Pool) Unpin(buf *Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	buf.unpin()
	if !buf.IsPinned() {
		p.cond.Broadcast()
	}
}

// FlushAll flushes every frame currently modified by txnum. Called on
// commit so that force-at-commit holds: a COMMIT record is not durable
// until every page the transaction touched is on disk.
func (p *Pool) FlushAll(txnum int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range p.buffers {
		if b.ModifyingTx() == txnum {
			if err := b.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// tryToPin must be called with mu held. It returns (nil, nil) when no frame
// is currently available, which the caller interprets as "wait and retry".
func (p *Pool) tryToPin(blk file.Block) (*Buffer, error) {
	if buf, ok := p.byBlock.Load(blk); ok {
		buf.pin()
		return buf, nil
	}

	victim := p.findUnpinnedFrame()
	if victim == nil {
		return nil, nil
	}
	if victim.assigned {
		p.byBlock.Delete(victim.blk)
	}
	if err := victim.assignToBlock(blk); err != nil {
		return nil, err
	}
	victim.pin()
	p.byBlock.Store(blk, victim)
	return victim, nil
}

func (p *Pool) findUnpinnedFrame() *Buffer {
	for _, b := range p.buffers {
		if !b.IsPinned() {
			return b
		}
	}
	return nil
}

// waitWithTimeout blocks on cond until either it is signalled or d elapses,
// whichever comes first. cond.L must be held by the caller, matching
// sync.Cond.Wait's contract.
func waitWithTimeout(cond *sync.Cond, d time.Duration) {
	timer := time.AfterFunc(d, func() {
		cond.L.Lock()
		cond.Broadcast()
		cond.L.Unlock()
	})
	cond.Wait()
	timer.Stop()
}
