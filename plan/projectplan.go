package plan

import (
	"simpledb/record"
	"simpledb/scan"
)

// ProjectPlan restricts its input's visible fields to those named in a new,
// narrower schema.
type ProjectPlan struct {
	p      Plan
	schema *record.Schema
}

// NewProjectPlan projects p down to fieldlist, in the order given.
func NewProjectPlan(p Plan, fieldlist []string) *ProjectPlan {
	schema := record.NewSchema()
	src := p.Schema()
	for _, f := range fieldlist {
		schema.Add(f, src)
	}
	return &ProjectPlan{p: p, schema: schema}
}

func (pp *ProjectPlan) Open() (scan.Scan, error) {
	s, err := pp.p.Open()
	if err != nil {
		return nil, err
	}
	return scan.NewProjectScan(s, pp.schema.Fields()), nil
}

func (pp *ProjectPlan) BlocksAccessed() int { return pp.p.BlocksAccessed() }
func (pp *ProjectPlan) RecordsOutput() int  { return pp.p.RecordsOutput() }
func (pp *ProjectPlan) DistinctValues(fieldname string) int {
	return pp.p.DistinctValues(fieldname)
}
func (pp *ProjectPlan) Schema() *record.Schema { return pp.schema }
