package plan

import (
	"simpledb/record"
	"simpledb/scan"
	"simpledb/tx"
)

// SortPlan materialises its input into runs sorted by sortFields and merges
// them (scan.SortMaterialize), for ORDER BY and as the sorted-input step
// GroupByPlan needs.
type SortPlan struct {
	tx         *tx.Transaction
	p          Plan
	sortFields []string
}

func NewSortPlan(t *tx.Transaction, p Plan, sortFields []string) *SortPlan {
	return &SortPlan{tx: t, p: p, sortFields: sortFields}
}

func (sp *SortPlan) Open() (scan.Scan, error) {
	s, err := sp.p.Open()
	if err != nil {
		return nil, err
	}
	return scan.NewSortScan(sp.tx, s, sp.p.Schema(), sp.sortFields)
}

// BlocksAccessed follows the external-mergesort cost: at least the input's
// blocks are read and written once per merge pass; a full pass count needs
// the actual number of initial runs, so this is a lower-bound estimate
// consistent with the rest of the planner's simplified cost model.
func (sp *SortPlan) BlocksAccessed() int {
	return sp.p.BlocksAccessed()
}

func (sp *SortPlan) RecordsOutput() int { return sp.p.RecordsOutput() }
func (sp *SortPlan) DistinctValues(fieldname string) int {
	return sp.p.DistinctValues(fieldname)
}
func (sp *SortPlan) Schema() *record.Schema { return sp.p.Schema() }
