package index

import (
	"sync"

	"github.com/tidwall/btree"

	"simpledb/record"
)

// btreeEntry is one (key, rid) pair stored in a BTreeIndex's tree. RID is
// part of the ordering so that non-unique keys (many rids per key) still
// give the tree a total order to store them under.
type btreeEntry struct {
	key record.Constant
	rid record.RID
}

func lessEntry(a, b btreeEntry) bool {
	if cmp := a.key.CompareTo(b.key); cmp != 0 {
		return cmp < 0
	}
	if a.rid.Blknum != b.rid.Blknum {
		return a.rid.Blknum < b.rid.Blknum
	}
	return a.rid.Slot < b.rid.Slot
}

var (
	treesMu sync.Mutex
	trees   = make(map[string]*btree.BTreeG[btreeEntry])
)

func treeFor(idxName string) *btree.BTreeG[btreeEntry] {
	treesMu.Lock()
	defer treesMu.Unlock()
	t, ok := trees[idxName]
	if !ok {
		t = btree.NewBTreeG(lessEntry)
		trees[idxName] = t
	}
	return t
}

// BTreeIndex is an in-memory index backed by a github.com/tidwall/btree
// ordered tree, keyed by index name so that separate BTreeIndex handles on
// the same name share one tree for the life of the process. It is
// intentionally not durable: nothing here is written to a table or the log,
// so an index built this way must be rebuilt from the base table after a
// restart.
type BTreeIndex struct {
	idxName   string
	tree      *btree.BTreeG[btreeEntry]
	searchKey record.Constant
	iter      btree.IterG[btreeEntry]
	iterValid bool
	started   bool
	current   btreeEntry
}

// NewBTreeIndex opens (or creates, on first use) the in-memory tree named
// idxName.
func NewBTreeIndex(idxName string) *BTreeIndex {
	return &BTreeIndex{idxName: idxName, tree: treeFor(idxName)}
}

// Len returns the number of entries currently held in the tree. Callers use
// this to detect a freshly-created or post-restart tree that needs
// rebuilding from its base table.
func (bi *BTreeIndex) Len() int {
	return bi.tree.Len()
}

// BeforeFirst positions the index at the first entry, if any, whose key
// equals searchKey.
func (bi *BTreeIndex) BeforeFirst(searchKey record.Constant) error {
	if bi.started {
		bi.iter.Release()
	}
	bi.searchKey = searchKey
	bi.iter = bi.tree.Iter()
	bi.started = true
	pivot := btreeEntry{key: searchKey}
	bi.iterValid = bi.iter.Seek(pivot)
	return nil
}

// Next advances to the next entry equal to the search key.
func (bi *BTreeIndex) Next() (bool, error) {
	if !bi.iterValid {
		return false, nil
	}
	item := bi.iter.Item()
	if !item.key.Equals(bi.searchKey) {
		bi.iterValid = false
		return false, nil
	}
	bi.current = item
	bi.iterValid = bi.iter.Next()
	return true, nil
}

// DataRid returns the current entry's RID.
func (bi *BTreeIndex) DataRid() (record.RID, error) {
	return bi.current.rid, nil
}

// Insert adds an entry mapping dataval to rid.
func (bi *BTreeIndex) Insert(dataval record.Constant, rid record.RID) error {
	bi.tree.Set(btreeEntry{key: dataval, rid: rid})
	return nil
}

// Delete removes the entry mapping dataval to rid, if present.
func (bi *BTreeIndex) Delete(dataval record.Constant, rid record.RID) error {
	bi.tree.Delete(btreeEntry{key: dataval, rid: rid})
	return nil
}

// Close releases the index's iterator, if one is open.
func (bi *BTreeIndex) Close() error {
	if bi.started {
		bi.iter.Release()
		bi.started = false
	}
	return nil
}
