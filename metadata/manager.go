package metadata

import (
	"simpledb/record"
	"simpledb/tx"
)

// Manager is the single entry point into the catalog, composing the table,
// view, statistics and index managers a database needs.
type Manager struct {
	Tables *TableMgr
	Views  *ViewMgr
	Stats  *StatMgr
	Index  *IndexMgr
}

// NewManager bootstraps every catalog table on first run (isNew), or reads
// their existing definitions otherwise.
func NewManager(isNew bool, t *tx.Transaction) (*Manager, error) {
	tableMgr, err := NewTableMgr(isNew, t)
	if err != nil {
		return nil, err
	}
	viewMgr, err := NewViewMgr(isNew, tableMgr, t)
	if err != nil {
		return nil, err
	}
	statMgr, err := NewStatMgr(tableMgr, t)
	if err != nil {
		return nil, err
	}
	indexMgr, err := NewIndexMgr(isNew, tableMgr, statMgr, t)
	if err != nil {
		return nil, err
	}
	return &Manager{Tables: tableMgr, Views: viewMgr, Stats: statMgr, Index: indexMgr}, nil
}

// CreateTable is a convenience forward to Tables.CreateTable.
func (m *Manager) CreateTable(tblname string, schema *record.Schema, t *tx.Transaction) error {
	return m.Tables.CreateTable(tblname, schema, t)
}

// GetLayout is a convenience forward to Tables.GetLayout.
func (m *Manager) GetLayout(tblname string, t *tx.Transaction) (*record.Layout, error) {
	return m.Tables.GetLayout(tblname, t)
}
