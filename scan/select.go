package scan

import (
	"simpledb/parse"
	"simpledb/record"
)

// SelectScan wraps an underlying scan, exposing only the rows for which pred
// evaluates true.
type SelectScan struct {
	s    Scan
	pred *parse.Predicate
}

// NewSelectScan returns a scan over s filtered by pred (nil selects every
// row).
func NewSelectScan(s Scan, pred *parse.Predicate) *SelectScan {
	return &SelectScan{s: s, pred: pred}
}

func (ss *SelectScan) BeforeFirst() error { return ss.s.BeforeFirst() }

func (ss *SelectScan) Next() (bool, error) {
	for {
		ok, err := ss.s.Next()
		if err != nil || !ok {
			return ok, err
		}
		match, err := EvalPredicate(ss.pred, ss.s)
		if err != nil {
			return false, err
		}
		if match {
			return true, nil
		}
	}
}

func (ss *SelectScan) GetInt(fieldname string) (int32, error)    { return ss.s.GetInt(fieldname) }
func (ss *SelectScan) GetString(fieldname string) (string, error) { return ss.s.GetString(fieldname) }

func (ss *SelectScan) GetValue(fieldname string) (record.Constant, error) {
	return ss.s.GetValue(fieldname)
}

func (ss *SelectScan) IsNull(fieldname string) (bool, error) { return ss.s.IsNull(fieldname) }
func (ss *SelectScan) HasField(fieldname string) bool         { return ss.s.HasField(fieldname) }
func (ss *SelectScan) Close() error                           { return ss.s.Close() }

// bidirectional operations delegate to the underlying scan when it supports
// them; SelectScan itself has no state that needs adjusting.

func (ss *SelectScan) Previous() (bool, error) {
	bs, ok := ss.s.(Bidirectional)
	if !ok {
		return false, errNotBidirectional
	}
	for {
		ok, err := bs.Previous()
		if err != nil || !ok {
			return ok, err
		}
		match, err := EvalPredicate(ss.pred, ss.s)
		if err != nil {
			return false, err
		}
		if match {
			return true, nil
		}
	}
}

func (ss *SelectScan) AfterLast() error {
	bs, ok := ss.s.(Bidirectional)
	if !ok {
		return errNotBidirectional
	}
	return bs.AfterLast()
}

func (ss *SelectScan) Absolute(n int) (bool, error) {
	return false, errNoAbsoluteOnFilteredScan
}

// SetInt, SetString, SetValue, SetNull, Insert, Delete, GetRid and MoveToRid
// make SelectScan an UpdateScan when its underlying scan is one, matching
// the classic SimpleDB "updates flow through selects" design.

func (ss *SelectScan) update() (UpdateScan, bool) {
	us, ok := ss.s.(UpdateScan)
	return us, ok
}

func (ss *SelectScan) SetInt(fieldname string, val int32) error {
	us, ok := ss.update()
	if !ok {
		return errNotUpdatable
	}
	return us.SetInt(fieldname, val)
}

func (ss *SelectScan) SetString(fieldname string, val string) error {
	us, ok := ss.update()
	if !ok {
		return errNotUpdatable
	}
	return us.SetString(fieldname, val)
}

func (ss *SelectScan) SetValue(fieldname string, val record.Constant) error {
	us, ok := ss.update()
	if !ok {
		return errNotUpdatable
	}
	return us.SetValue(fieldname, val)
}

func (ss *SelectScan) SetNull(fieldname string) error {
	us, ok := ss.update()
	if !ok {
		return errNotUpdatable
	}
	return us.SetNull(fieldname)
}

func (ss *SelectScan) Insert() error {
	us, ok := ss.update()
	if !ok {
		return errNotUpdatable
	}
	return us.Insert()
}

func (ss *SelectScan) Delete() error {
	us, ok := ss.update()
	if !ok {
		return errNotUpdatable
	}
	return us.Delete()
}

func (ss *SelectScan) GetRid() record.RID {
	us, ok := ss.update()
	if !ok {
		return record.RID{}
	}
	return us.GetRid()
}

func (ss *SelectScan) MoveToRid(rid record.RID) error {
	us, ok := ss.update()
	if !ok {
		return errNotUpdatable
	}
	return us.MoveToRid(rid)
}
