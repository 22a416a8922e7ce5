package plan

import (
	"simpledb/parse"
	"simpledb/record"
	"simpledb/scan"
)

// ExtendPlan augments its input with one computed I32 field per aliased
// expression select item (arithmetic expressions are the only kind that need
// evaluating; string values only ever come from literals or bare fields).
type ExtendPlan struct {
	p      Plan
	items  []parse.SelectItem
	schema *record.Schema
}

func NewExtendPlan(p Plan, items []parse.SelectItem) *ExtendPlan {
	schema := record.NewSchema()
	schema.AddAll(p.Schema())
	for _, item := range items {
		if item.Agg != nil || item.Alias == "" {
			continue
		}
		if _, isField := item.Expr.(parse.FieldExpr); isField {
			continue
		}
		schema.AddI32Field(item.Alias)
	}
	return &ExtendPlan{p: p, items: items, schema: schema}
}

func (ep *ExtendPlan) Open() (scan.Scan, error) {
	s, err := ep.p.Open()
	if err != nil {
		return nil, err
	}
	return scan.NewExtendScan(s, ep.items), nil
}

func (ep *ExtendPlan) BlocksAccessed() int { return ep.p.BlocksAccessed() }
func (ep *ExtendPlan) RecordsOutput() int  { return ep.p.RecordsOutput() }
func (ep *ExtendPlan) DistinctValues(fieldname string) int {
	if !ep.p.Schema().HasField(fieldname) && ep.schema.HasField(fieldname) {
		return ep.RecordsOutput()
	}
	return ep.p.DistinctValues(fieldname)
}
func (ep *ExtendPlan) Schema() *record.Schema { return ep.schema }
