package scan

import (
	"fmt"
	"sync/atomic"

	"simpledb/record"
	"simpledb/tx"
)

// nextTempTableID hands out unique suffixes for temp table names within
// this process; combined with the per-run block layout that already scopes
// tables to a single database directory, it is sufficient to avoid
// collisions without pulling in a UUID dependency the corpus does not carry.
var nextTempTableID int64

// TempTable is a scratch table used to materialise intermediate results
// during sorting and grouping. Its file is named "temp-<n>.tbl" and is
// deleted when Drop is called.
type TempTable struct {
	tx      *tx.Transaction
	tblname string
	layout  *record.Layout
}

// NewTempTable creates a new, empty temp table over schema.
func NewTempTable(t *tx.Transaction, schema *record.Schema) *TempTable {
	id := atomic.AddInt64(&nextTempTableID, 1)
	return &TempTable{
		tx:      t,
		tblname: fmt.Sprintf("temp-%d", id),
		layout:  record.NewLayout(schema),
	}
}

// TableName returns the temp table's underlying table name (without the
// ".tbl" extension record.TableScan appends).
func (tt *TempTable) TableName() string { return tt.tblname }

// Layout returns the temp table's record layout.
func (tt *TempTable) Layout() *record.Layout { return tt.layout }

// Open returns a fresh scan over the temp table.
func (tt *TempTable) Open() (*record.TableScan, error) {
	return record.NewTableScan(tt.tx, tt.tblname, tt.layout)
}

// Drop deletes the temp table's underlying file.
func (tt *TempTable) Drop() error {
	return tt.tx.Remove(tt.tblname + ".tbl")
}
