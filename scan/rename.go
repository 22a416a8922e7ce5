package scan

import (
	"simpledb/common"
	"simpledb/record"
)

// RenameScan exposes chosen fields of an underlying scan under new output
// names, in a given order, and hides everything else. It is how the
// planner applies a SELECT list's "AS alias" naming and column ordering
// once every computed field (extended expression, aggregate) already
// exists on the underlying scan.
type RenameScan struct {
	s       Scan
	outputs []string
	sources []string
}

// NewRenameScan returns s with outputs[i] exposed in place of sources[i].
func NewRenameScan(s Scan, outputs, sources []string) *RenameScan {
	return &RenameScan{s: s, outputs: outputs, sources: sources}
}

func (rs *RenameScan) resolve(fieldname string) (string, bool) {
	for i, out := range rs.outputs {
		if out == fieldname {
			return rs.sources[i], true
		}
	}
	return "", false
}

func (rs *RenameScan) BeforeFirst() error  { return rs.s.BeforeFirst() }
func (rs *RenameScan) Next() (bool, error) { return rs.s.Next() }
func (rs *RenameScan) Close() error        { return rs.s.Close() }

func (rs *RenameScan) HasField(fieldname string) bool {
	_, ok := rs.resolve(fieldname)
	return ok
}

func (rs *RenameScan) GetValue(fieldname string) (record.Constant, error) {
	src, ok := rs.resolve(fieldname)
	if !ok {
		return record.Constant{}, common.New(common.PlanError, "field %s is not part of this result", fieldname)
	}
	return rs.s.GetValue(src)
}

func (rs *RenameScan) GetInt(fieldname string) (int32, error) {
	v, err := rs.GetValue(fieldname)
	if err != nil {
		return 0, err
	}
	return v.AsInt(), nil
}

func (rs *RenameScan) GetString(fieldname string) (string, error) {
	v, err := rs.GetValue(fieldname)
	if err != nil {
		return "", err
	}
	return v.AsString(), nil
}

func (rs *RenameScan) IsNull(fieldname string) (bool, error) {
	src, ok := rs.resolve(fieldname)
	if !ok {
		return false, common.New(common.PlanError, "field %s is not part of this result", fieldname)
	}
	return rs.s.IsNull(src)
}

func (rs *RenameScan) Previous() (bool, error) {
	bs, ok := rs.s.(Bidirectional)
	if !ok {
		return false, errNotBidirectional
	}
	return bs.Previous()
}

func (rs *RenameScan) AfterLast() error {
	bs, ok := rs.s.(Bidirectional)
	if !ok {
		return errNotBidirectional
	}
	return bs.AfterLast()
}

func (rs *RenameScan) Absolute(n int) (bool, error) {
	bs, ok := rs.s.(Bidirectional)
	if !ok {
		return false, errNotBidirectional
	}
	return bs.Absolute(n)
}
