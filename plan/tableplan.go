package plan

import (
	"simpledb/metadata"
	"simpledb/record"
	"simpledb/scan"
	"simpledb/tx"
)

// TablePlan is a leaf plan over one base table, backed by the catalog's
// layout and cached statistics for that table.
type TablePlan struct {
	tx      *tx.Transaction
	tblname string
	layout  *record.Layout
	stat    metadata.StatInfo
	indexes map[string]*metadata.IndexInfo
}

// NewTablePlan looks up tblname's layout, statistics and indexes in mdMgr.
func NewTablePlan(t *tx.Transaction, tblname string, mdMgr *metadata.Manager) (*TablePlan, error) {
	layout, err := mdMgr.GetLayout(tblname, t)
	if err != nil {
		return nil, err
	}
	stat, err := mdMgr.Stats.GetStatInfo(tblname, layout.Schema(), t)
	if err != nil {
		return nil, err
	}
	indexes, err := mdMgr.Index.GetIndexInfo(tblname, t)
	if err != nil {
		return nil, err
	}
	return &TablePlan{tx: t, tblname: tblname, layout: layout, stat: stat, indexes: indexes}, nil
}

// IndexInfo returns the catalog's index metadata for fieldname, or nil if
// tblname carries no index on it.
func (p *TablePlan) IndexInfo(fieldname string) *metadata.IndexInfo {
	return p.indexes[fieldname]
}

func (p *TablePlan) Open() (scan.Scan, error) {
	return record.NewTableScan(p.tx, p.tblname, p.layout)
}

func (p *TablePlan) BlocksAccessed() int {
	return p.stat.NumBlocks
}

func (p *TablePlan) RecordsOutput() int {
	return p.stat.NumRecords
}

func (p *TablePlan) DistinctValues(fieldname string) int {
	return p.stat.DistinctValues(fieldname)
}

func (p *TablePlan) Schema() *record.Schema {
	return p.layout.Schema()
}
