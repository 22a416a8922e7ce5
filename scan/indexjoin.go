package scan

import (
	"simpledb/index"
	"simpledb/record"
)

// IndexJoinScan joins an outer scan to a table by looking each outer row's
// join field up in an index over the table instead of rescanning it, as
// ProductScan+SelectScan would.
type IndexJoinScan struct {
	outer     Scan
	idx       index.Index
	joinField string
	ts        *record.TableScan
}

// NewIndexJoinScan joins outer to ts, matching outer.joinField against idx.
func NewIndexJoinScan(outer Scan, idx index.Index, joinField string, ts *record.TableScan) (*IndexJoinScan, error) {
	ij := &IndexJoinScan{outer: outer, idx: idx, joinField: joinField, ts: ts}
	if err := ij.BeforeFirst(); err != nil {
		return nil, err
	}
	return ij, nil
}

func (ij *IndexJoinScan) resetIndex() error {
	val, err := ij.outer.GetValue(ij.joinField)
	if err != nil {
		return err
	}
	return ij.idx.BeforeFirst(val)
}

func (ij *IndexJoinScan) BeforeFirst() error {
	if err := ij.outer.BeforeFirst(); err != nil {
		return err
	}
	ok, err := ij.outer.Next()
	if err != nil || !ok {
		return err
	}
	return ij.resetIndex()
}

func (ij *IndexJoinScan) Next() (bool, error) {
	for {
		ok, err := ij.idx.Next()
		if err != nil {
			return false, err
		}
		if ok {
			rid, err := ij.idx.DataRid()
			if err != nil {
				return false, err
			}
			if err := ij.ts.MoveToRid(rid); err != nil {
				return false, err
			}
			return true, nil
		}
		ok, err = ij.outer.Next()
		if err != nil || !ok {
			return false, err
		}
		if err := ij.resetIndex(); err != nil {
			return false, err
		}
	}
}

func (ij *IndexJoinScan) field(fieldname string) Scan {
	if ij.ts.HasField(fieldname) {
		return ij.ts
	}
	return ij.outer
}

func (ij *IndexJoinScan) GetInt(fieldname string) (int32, error) {
	return ij.field(fieldname).GetInt(fieldname)
}

func (ij *IndexJoinScan) GetString(fieldname string) (string, error) {
	return ij.field(fieldname).GetString(fieldname)
}

func (ij *IndexJoinScan) GetValue(fieldname string) (record.Constant, error) {
	return ij.field(fieldname).GetValue(fieldname)
}

func (ij *IndexJoinScan) IsNull(fieldname string) (bool, error) {
	return ij.field(fieldname).IsNull(fieldname)
}

func (ij *IndexJoinScan) HasField(fieldname string) bool {
	return ij.ts.HasField(fieldname) || ij.outer.HasField(fieldname)
}

func (ij *IndexJoinScan) Close() error {
	if err := ij.idx.Close(); err != nil {
		return err
	}
	if err := ij.ts.Close(); err != nil {
		return err
	}
	return ij.outer.Close()
}
