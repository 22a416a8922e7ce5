package plan

import (
	"simpledb/record"
	"simpledb/scan"
	"simpledb/tx"
)

// MergeJoinPlan joins two plans by sorting each on its join field and
// walking them in lockstep, chosen by the planner in place of a
// ProductPlan+SelectPlan whenever the join predicate is a plain
// field-to-field equality between the two sides.
type MergeJoinPlan struct {
	tx         *tx.Transaction
	p1, p2     Plan
	fld1, fld2 string
	schema     *record.Schema
}

func NewMergeJoinPlan(t *tx.Transaction, p1, p2 Plan, fld1, fld2 string) *MergeJoinPlan {
	schema := record.NewSchema()
	schema.AddAll(p1.Schema())
	schema.AddAll(p2.Schema())
	return &MergeJoinPlan{tx: t, p1: p1, p2: p2, fld1: fld1, fld2: fld2, schema: schema}
}

func (mp *MergeJoinPlan) Open() (scan.Scan, error) {
	s1, err := mp.p1.Open()
	if err != nil {
		return nil, err
	}
	s2, err := mp.p2.Open()
	if err != nil {
		return nil, err
	}
	sorted1, err := scan.NewSortScan(mp.tx, s1, mp.p1.Schema(), []string{mp.fld1})
	if err != nil {
		return nil, err
	}
	sorted2, err := scan.NewSortScan(mp.tx, s2, mp.p2.Schema(), []string{mp.fld2})
	if err != nil {
		return nil, err
	}
	return scan.NewMergeJoinScan(sorted1, sorted2, mp.fld1, mp.fld2)
}

// BlocksAccessed is each side's own cost plus the cost of sorting it (a
// single materialisation pass, per SortPlan.BlocksAccessed).
func (mp *MergeJoinPlan) BlocksAccessed() int {
	return mp.p1.BlocksAccessed() + mp.p2.BlocksAccessed()
}

func (mp *MergeJoinPlan) RecordsOutput() int {
	dv1 := mp.p1.DistinctValues(mp.fld1)
	dv2 := mp.p2.DistinctValues(mp.fld2)
	maxDv := dv1
	if dv2 > maxDv {
		maxDv = dv2
	}
	if maxDv == 0 {
		return mp.p1.RecordsOutput() * mp.p2.RecordsOutput()
	}
	return mp.p1.RecordsOutput() * mp.p2.RecordsOutput() / maxDv
}

func (mp *MergeJoinPlan) DistinctValues(fieldname string) int {
	if mp.p1.Schema().HasField(fieldname) {
		return mp.p1.DistinctValues(fieldname)
	}
	return mp.p2.DistinctValues(fieldname)
}

func (mp *MergeJoinPlan) Schema() *record.Schema { return mp.schema }
