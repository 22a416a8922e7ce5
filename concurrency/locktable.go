// Package concurrency implements block-level shared/exclusive locking with a
// deadlock-avoidance timeout, and the per-transaction bookkeeping needed to
// release every lock a transaction is holding at commit or rollback.
package concurrency

import (
	"sync"
	"time"

	"simpledb/common"
	"simpledb/file"
)

// LockTable is the single process-wide table of block locks. A positive
// entry counts the number of transactions holding a shared lock; -1 marks an
// exclusive lock. A block with no entry is unlocked.
type LockTable struct {
	mu      sync.Mutex
	cond    *sync.Cond
	locks   map[file.Block]int
	timeout time.Duration
}

// NewLockTable creates an empty lock table that waits up to timeout for a
// compatible lock before failing with LockAbort.
func NewLockTable(timeout time.Duration) *LockTable {
	lt := &LockTable{locks: make(map[file.Block]int), timeout: timeout}
	lt.cond = sync.NewCond(&lt.mu)
	return lt
}

// SLock blocks until blk carries no exclusive lock, then records a shared
// lock on it.
func (lt *LockTable) SLock(blk file.Block) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	deadline := time.Now().Add(lt.timeout)
	for lt.hasXLock(blk) {
		if !lt.waitUntil(deadline) {
			return common.New(common.LockAbort, "timed out waiting for shared lock on %s", blk)
		}
	}
	lt.locks[blk]++
	return nil
}

// XLock blocks until blk carries no lock other than (optionally) the
// caller's own shared lock, then upgrades/records an exclusive lock on it.
// Per the design, a caller must already hold an SLock before calling XLock.
func (lt *LockTable) XLock(blk file.Block) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	deadline := time.Now().Add(lt.timeout)
	for lt.hasOtherSLocks(blk) {
		if !lt.waitUntil(deadline) {
			return common.New(common.LockAbort, "timed out waiting for exclusive lock on %s", blk)
		}
	}
	lt.locks[blk] = -1
	return nil
}

// Unlock releases one lock (shared or exclusive) held on blk.
func (lt *LockTable) Unlock(blk file.Block) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	val := lt.locks[blk]
	if val > 1 {
		lt.locks[blk] = val - 1
	} else {
		delete(lt.locks, blk)
		lt.cond.Broadcast()
	}
}

func (lt *LockTable) hasXLock(blk file.Block) bool {
	return lt.locks[blk] < 0
}

func (lt *LockTable) hasOtherSLocks(blk file.Block) bool {
	return lt.locks[blk] > 1
}

// waitUntil blocks on lt.cond until it is signalled or deadline passes. It
// returns false once the deadline has passed (the caller should abort).
func (lt *LockTable) waitUntil(deadline time.Time) bool {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return false
	}
	timer := time.AfterFunc(remaining, func() {
		lt.mu.Lock()
		lt.cond.Broadcast()
		lt.mu.Unlock()
	})
	lt.cond.Wait()
	timer.Stop()
	return time.Now().Before(deadline)
}
