package scan

import (
	"simpledb/common"
	"simpledb/record"
)

// ProjectScan restricts an underlying scan's visible fields to a fixed
// list, raising an error on access to any other field.
type ProjectScan struct {
	s      Scan
	fields map[string]bool
}

// NewProjectScan returns a scan over s exposing only fields.
func NewProjectScan(s Scan, fields []string) *ProjectScan {
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return &ProjectScan{s: s, fields: set}
}

func (ps *ProjectScan) check(fieldname string) error {
	if !ps.fields[fieldname] {
		return common.New(common.PlanError, "field %q is not projected", fieldname)
	}
	return nil
}

func (ps *ProjectScan) BeforeFirst() error   { return ps.s.BeforeFirst() }
func (ps *ProjectScan) Next() (bool, error)  { return ps.s.Next() }
func (ps *ProjectScan) HasField(f string) bool { return ps.fields[f] }
func (ps *ProjectScan) Close() error         { return ps.s.Close() }

func (ps *ProjectScan) GetInt(fieldname string) (int32, error) {
	if err := ps.check(fieldname); err != nil {
		return 0, err
	}
	return ps.s.GetInt(fieldname)
}

func (ps *ProjectScan) GetString(fieldname string) (string, error) {
	if err := ps.check(fieldname); err != nil {
		return "", err
	}
	return ps.s.GetString(fieldname)
}

func (ps *ProjectScan) GetValue(fieldname string) (record.Constant, error) {
	if err := ps.check(fieldname); err != nil {
		return record.Constant{}, err
	}
	return ps.s.GetValue(fieldname)
}

func (ps *ProjectScan) IsNull(fieldname string) (bool, error) {
	if err := ps.check(fieldname); err != nil {
		return false, err
	}
	return ps.s.IsNull(fieldname)
}

func (ps *ProjectScan) Previous() (bool, error) {
	bs, ok := ps.s.(Bidirectional)
	if !ok {
		return false, errNotBidirectional
	}
	return bs.Previous()
}

func (ps *ProjectScan) AfterLast() error {
	bs, ok := ps.s.(Bidirectional)
	if !ok {
		return errNotBidirectional
	}
	return bs.AfterLast()
}

func (ps *ProjectScan) Absolute(n int) (bool, error) {
	bs, ok := ps.s.(Bidirectional)
	if !ok {
		return false, errNotBidirectional
	}
	return bs.Absolute(n)
}
