package plan

import (
	"simpledb/metadata"
	"simpledb/record"
	"simpledb/scan"
)

// IndexJoinPlan joins outer to a base table through an index on the join
// field, instead of a full ProductPlan+SelectPlan.
type IndexJoinPlan struct {
	outer     Plan
	tblPlan   *TablePlan
	ii        *metadata.IndexInfo
	joinField string
	schema    *record.Schema
}

func NewIndexJoinPlan(outer Plan, tblPlan *TablePlan, ii *metadata.IndexInfo, joinField string) *IndexJoinPlan {
	schema := record.NewSchema()
	schema.AddAll(outer.Schema())
	schema.AddAll(tblPlan.Schema())
	return &IndexJoinPlan{outer: outer, tblPlan: tblPlan, ii: ii, joinField: joinField, schema: schema}
}

func (jp *IndexJoinPlan) Open() (scan.Scan, error) {
	outerScan, err := jp.outer.Open()
	if err != nil {
		return nil, err
	}
	s, err := jp.tblPlan.Open()
	if err != nil {
		return nil, err
	}
	ts := s.(*record.TableScan)
	idx, err := jp.ii.Open()
	if err != nil {
		return nil, err
	}
	return scan.NewIndexJoinScan(outerScan, idx, jp.joinField, ts)
}

// BlocksAccessed is the outer side's cost plus one index lookup (and its
// matching rows) per outer row.
func (jp *IndexJoinPlan) BlocksAccessed() int {
	perLookup := jp.ii.BlocksAccessed() + jp.ii.RecordsOutput()
	return jp.outer.BlocksAccessed() + jp.outer.RecordsOutput()*perLookup
}

func (jp *IndexJoinPlan) RecordsOutput() int {
	return jp.outer.RecordsOutput() * jp.ii.RecordsOutput()
}

func (jp *IndexJoinPlan) DistinctValues(fieldname string) int {
	if jp.tblPlan.Schema().HasField(fieldname) {
		return jp.tblPlan.DistinctValues(fieldname)
	}
	return jp.outer.DistinctValues(fieldname)
}

func (jp *IndexJoinPlan) Schema() *record.Schema { return jp.schema }
