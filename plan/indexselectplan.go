package plan

import (
	"simpledb/metadata"
	"simpledb/record"
	"simpledb/scan"
)

// IndexSelectPlan looks up p's rows matching val through an index instead of
// scanning p, chosen by the planner when a WHERE term equates an indexed
// field to a constant.
type IndexSelectPlan struct {
	p   *TablePlan
	ii  *metadata.IndexInfo
	val record.Constant
}

func NewIndexSelectPlan(p *TablePlan, ii *metadata.IndexInfo, val record.Constant) *IndexSelectPlan {
	return &IndexSelectPlan{p: p, ii: ii, val: val}
}

func (ip *IndexSelectPlan) Open() (scan.Scan, error) {
	s, err := ip.p.Open()
	if err != nil {
		return nil, err
	}
	ts := s.(*record.TableScan)
	idx, err := ip.ii.Open()
	if err != nil {
		return nil, err
	}
	return scan.NewIndexSelectScan(ts, idx, ip.val)
}

func (ip *IndexSelectPlan) BlocksAccessed() int {
	return ip.ii.BlocksAccessed() + ip.RecordsOutput()
}

func (ip *IndexSelectPlan) RecordsOutput() int {
	return ip.ii.RecordsOutput()
}

func (ip *IndexSelectPlan) DistinctValues(fieldname string) int {
	return ip.ii.DistinctValues(fieldname)
}

func (ip *IndexSelectPlan) Schema() *record.Schema {
	return ip.p.Schema()
}
