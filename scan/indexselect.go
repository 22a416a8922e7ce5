package scan

import (
	"simpledb/index"
	"simpledb/record"
)

// IndexSelectScan returns the rows of ts whose indexed field equals
// searchKey, found by walking idx instead of scanning ts.
type IndexSelectScan struct {
	ts        *record.TableScan
	idx       index.Index
	searchKey record.Constant
}

// NewIndexSelectScan returns a scan of ts's rows matching searchKey via idx.
func NewIndexSelectScan(ts *record.TableScan, idx index.Index, searchKey record.Constant) (*IndexSelectScan, error) {
	is := &IndexSelectScan{ts: ts, idx: idx, searchKey: searchKey}
	if err := is.BeforeFirst(); err != nil {
		return nil, err
	}
	return is, nil
}

func (is *IndexSelectScan) BeforeFirst() error {
	return is.idx.BeforeFirst(is.searchKey)
}

func (is *IndexSelectScan) Next() (bool, error) {
	ok, err := is.idx.Next()
	if err != nil || !ok {
		return false, err
	}
	rid, err := is.idx.DataRid()
	if err != nil {
		return false, err
	}
	if err := is.ts.MoveToRid(rid); err != nil {
		return false, err
	}
	return true, nil
}

func (is *IndexSelectScan) GetInt(fieldname string) (int32, error) { return is.ts.GetInt(fieldname) }
func (is *IndexSelectScan) GetString(fieldname string) (string, error) {
	return is.ts.GetString(fieldname)
}
func (is *IndexSelectScan) GetValue(fieldname string) (record.Constant, error) {
	return is.ts.GetValue(fieldname)
}
func (is *IndexSelectScan) IsNull(fieldname string) (bool, error) { return is.ts.IsNull(fieldname) }
func (is *IndexSelectScan) HasField(fieldname string) bool         { return is.ts.HasField(fieldname) }

func (is *IndexSelectScan) Close() error {
	if err := is.idx.Close(); err != nil {
		return err
	}
	return is.ts.Close()
}
