package plan

import (
	"simpledb/record"
	"simpledb/scan"
)

// RenamePlan applies a SELECT list's final column naming and ordering: each
// outputs[i] is exposed in place of sources[i] on the underlying plan, which
// by this point already carries every extended or aggregate field the
// select list refers to.
type RenamePlan struct {
	p       Plan
	outputs []string
	sources []string
	schema  *record.Schema
}

func NewRenamePlan(p Plan, outputs, sources []string) *RenamePlan {
	schema := record.NewSchema()
	src := p.Schema()
	for i, out := range outputs {
		schema.AddField(out, src.Type(sources[i]), src.Length(sources[i]))
	}
	return &RenamePlan{p: p, outputs: outputs, sources: sources, schema: schema}
}

func (rp *RenamePlan) Open() (scan.Scan, error) {
	s, err := rp.p.Open()
	if err != nil {
		return nil, err
	}
	return scan.NewRenameScan(s, rp.outputs, rp.sources), nil
}

func (rp *RenamePlan) BlocksAccessed() int { return rp.p.BlocksAccessed() }
func (rp *RenamePlan) RecordsOutput() int  { return rp.p.RecordsOutput() }
func (rp *RenamePlan) DistinctValues(fieldname string) int {
	for i, out := range rp.outputs {
		if out == fieldname {
			return rp.p.DistinctValues(rp.sources[i])
		}
	}
	return rp.RecordsOutput()
}
func (rp *RenamePlan) Schema() *record.Schema { return rp.schema }
