package plan

import (
	"strings"

	"simpledb/parse"
	"simpledb/record"
	"simpledb/scan"
	"simpledb/tx"
)

// GroupByPlan wraps a sort-order-guaranteed input in scan.GroupByScan,
// emitting one row per distinct group-key tuple with each aggregate
// finalised.
type GroupByPlan struct {
	p           *SortPlan
	groupFields []string
	aggSpecs    []parse.Aggregate
	schema      *record.Schema
}

// NewGroupByPlan sorts p by groupFields, then groups the result and computes
// aggSpecs per group.
func NewGroupByPlan(t *tx.Transaction, p Plan, groupFields []string, aggSpecs []parse.Aggregate) *GroupByPlan {
	sorted := NewSortPlan(t, p, groupFields)
	schema := record.NewSchema()
	for _, f := range groupFields {
		schema.Add(f, p.Schema())
	}
	for _, agg := range aggSpecs {
		name := strings.ToLower(string(agg.Func)) + "(" + agg.Field + ")"
		schema.AddI32Field(name)
	}
	return &GroupByPlan{p: sorted, groupFields: groupFields, aggSpecs: aggSpecs, schema: schema}
}

func (gp *GroupByPlan) Open() (scan.Scan, error) {
	s, err := gp.p.Open()
	if err != nil {
		return nil, err
	}
	return scan.NewGroupByScan(s, gp.groupFields, gp.aggSpecs), nil
}

func (gp *GroupByPlan) BlocksAccessed() int { return gp.p.BlocksAccessed() }

// RecordsOutput estimates one output row per distinct combination of the
// group fields, approximated as the largest single field's distinct-value
// count (a lower bound when multiple fields co-vary, matching the classic
// SimpleDB estimate).
func (gp *GroupByPlan) RecordsOutput() int {
	records := 1
	for _, f := range gp.groupFields {
		dv := gp.p.DistinctValues(f)
		if dv > records {
			records = dv
		}
	}
	return records
}

func (gp *GroupByPlan) DistinctValues(fieldname string) int {
	if gp.p.p.Schema().HasField(fieldname) {
		return gp.p.DistinctValues(fieldname)
	}
	return gp.RecordsOutput()
}

func (gp *GroupByPlan) Schema() *record.Schema { return gp.schema }
