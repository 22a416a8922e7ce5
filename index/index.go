// Package index implements the engine's index types: a persistent static
// hash index and an in-memory B-tree index, both exposing the same cursor
// contract the planner and scan operators drive equality lookups through.
package index

import "simpledb/record"

// Index is the contract every index implementation satisfies: position at
// the entries matching a search key, walk them, and mutate entries.
type Index interface {
	// BeforeFirst positions the index before the first entry (if any)
	// whose key equals searchKey.
	BeforeFirst(searchKey record.Constant) error
	// Next advances to the next matching entry, returning false once
	// exhausted.
	Next() (bool, error)
	// DataRid returns the RID stored in the current entry.
	DataRid() (record.RID, error)
	// Insert adds an entry mapping dataval to rid.
	Insert(dataval record.Constant, rid record.RID) error
	// Delete removes the entry mapping dataval to rid, if present.
	Delete(dataval record.Constant, rid record.RID) error
	// Close releases any resources (pinned blocks, cursors) the index is
	// holding.
	Close() error
}
