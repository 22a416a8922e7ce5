package concurrency

import "simpledb/file"

type lockKind int

const (
	shared lockKind = iota
	exclusive
)

// Manager tracks the locks a single transaction currently holds, so that
// strict two-phase locking can release them all at once at commit or
// rollback. It delegates actual blocking/granting to the shared LockTable.
type Manager struct {
	table *LockTable
	held  map[file.Block]lockKind
}

// NewManager creates a per-transaction concurrency manager backed by table.
func NewManager(table *LockTable) *Manager {
	return &Manager{table: table, held: make(map[file.Block]lockKind)}
}

// SLock acquires a shared lock on blk, if the transaction does not already
// hold a lock (shared or exclusive) on it.
func (m *Manager) SLock(blk file.Block) error {
	if _, ok := m.held[blk]; ok {
		return nil
	}
	if err := m.table.SLock(blk); err != nil {
		return err
	}
	m.held[blk] = shared
	return nil
}

// XLock acquires an exclusive lock on blk, first acquiring a shared lock if
// the transaction does not hold one yet (the design's implicit-SLock rule).
func (m *Manager) XLock(blk file.Block) error {
	if kind, ok := m.held[blk]; ok && kind == exclusive {
		return nil
	}
	if err := m.SLock(blk); err != nil {
		return err
	}
	if err := m.table.XLock(blk); err != nil {
		return err
	}
	m.held[blk] = exclusive
	return nil
}

// ReleaseAll releases every lock the transaction holds. Called exactly once,
// at commit or rollback, per strict two-phase locking.
func (m *Manager) ReleaseAll() {
	for blk := range m.held {
		m.table.Unlock(blk)
	}
	m.held = make(map[file.Block]lockKind)
}
