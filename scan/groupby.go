package scan

import (
	"simpledb/common"
	"simpledb/parse"
	"simpledb/record"
)

// GroupByScan consumes a scan already sorted by groupFields and emits one
// row per distinct group-key tuple, with each aggregate's accumulator
// finalised over that group's rows.
type GroupByScan struct {
	s           Scan
	groupFields []string
	aggSpecs    []parse.Aggregate
	aggs        []aggregator
	groupVal    map[string]record.Constant
	moreGroups  bool
}

// NewGroupByScan wraps s, already sorted by groupFields, computing aggSpecs
// once per group.
func NewGroupByScan(s Scan, groupFields []string, aggSpecs []parse.Aggregate) *GroupByScan {
	return &GroupByScan{s: s, groupFields: groupFields, aggSpecs: aggSpecs}
}

func (g *GroupByScan) BeforeFirst() error {
	if err := g.s.BeforeFirst(); err != nil {
		return err
	}
	ok, err := g.s.Next()
	if err != nil {
		return err
	}
	g.moreGroups = ok
	return nil
}

func (g *GroupByScan) currentGroupVal() (map[string]record.Constant, error) {
	vals := make(map[string]record.Constant, len(g.groupFields))
	for _, f := range g.groupFields {
		v, err := g.s.GetValue(f)
		if err != nil {
			return nil, err
		}
		vals[f] = v
	}
	return vals, nil
}

// sameGroup compares by CompareTo, not Equals, so that two NULL group keys
// are treated as the same group instead of Equals' SQL "NULL <> NULL" rule.
func sameGroup(a, b map[string]record.Constant, fields []string) bool {
	for _, f := range fields {
		if a[f].CompareTo(b[f]) != 0 {
			return false
		}
	}
	return true
}

// Next accumulates one group's rows and positions the scan on the finished
// summary row.
func (g *GroupByScan) Next() (bool, error) {
	if !g.moreGroups {
		return false, nil
	}
	groupVal, err := g.currentGroupVal()
	if err != nil {
		return false, err
	}
	g.groupVal = groupVal

	g.aggs = make([]aggregator, len(g.aggSpecs))
	for i, spec := range g.aggSpecs {
		a := newAggregator(spec)
		if err := a.reset(g.s); err != nil {
			return false, err
		}
		g.aggs[i] = a
	}

	for {
		ok, err := g.s.Next()
		if err != nil {
			return false, err
		}
		if !ok {
			g.moreGroups = false
			break
		}
		nextVal, err := g.currentGroupVal()
		if err != nil {
			return false, err
		}
		if !sameGroup(nextVal, g.groupVal, g.groupFields) {
			g.moreGroups = true
			break
		}
		for _, a := range g.aggs {
			if err := a.next(g.s); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

func (g *GroupByScan) GetValue(fieldname string) (record.Constant, error) {
	if v, ok := g.groupVal[fieldname]; ok {
		return v, nil
	}
	for _, a := range g.aggs {
		if a.fieldName() == fieldname {
			return a.value(), nil
		}
	}
	return record.Constant{}, common.New(common.PlanError, "field %q is neither a group field nor an aggregate", fieldname)
}

func (g *GroupByScan) GetInt(fieldname string) (int32, error) {
	v, err := g.GetValue(fieldname)
	if err != nil {
		return 0, err
	}
	return v.AsInt(), nil
}

func (g *GroupByScan) GetString(fieldname string) (string, error) {
	v, err := g.GetValue(fieldname)
	if err != nil {
		return "", err
	}
	return v.AsString(), nil
}

func (g *GroupByScan) IsNull(fieldname string) (bool, error) {
	v, err := g.GetValue(fieldname)
	if err != nil {
		return false, err
	}
	return v.IsNull(), nil
}

func (g *GroupByScan) HasField(fieldname string) bool {
	for _, f := range g.groupFields {
		if f == fieldname {
			return true
		}
	}
	for _, a := range g.aggs {
		if a.fieldName() == fieldname {
			return true
		}
	}
	return false
}

func (g *GroupByScan) Close() error { return g.s.Close() }
