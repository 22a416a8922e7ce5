package scan

import (
	"simpledb/record"
	"simpledb/tx"
)

// SortScan exposes a fully materialised, sorted temp table as a
// Bidirectional Scan, and drops the temp table when closed.
type SortScan struct {
	temp *TempTable
	ts   *record.TableScan
}

// NewSortScan sorts src by sortFields and returns a scan over the result.
func NewSortScan(t *tx.Transaction, src Scan, schema *record.Schema, sortFields []string) (*SortScan, error) {
	temp, err := SortMaterialize(t, src, schema, sortFields)
	if err != nil {
		return nil, err
	}
	ts, err := temp.Open()
	if err != nil {
		return nil, err
	}
	return &SortScan{temp: temp, ts: ts}, nil
}

func (s *SortScan) BeforeFirst() error  { return s.ts.BeforeFirst() }
func (s *SortScan) Next() (bool, error) { return s.ts.Next() }
func (s *SortScan) Previous() (bool, error) { return s.ts.Previous() }
func (s *SortScan) AfterLast() error        { return s.ts.AfterLast() }
func (s *SortScan) Absolute(n int) (bool, error) { return s.ts.Absolute(n) }

func (s *SortScan) GetInt(fieldname string) (int32, error)    { return s.ts.GetInt(fieldname) }
func (s *SortScan) GetString(fieldname string) (string, error) { return s.ts.GetString(fieldname) }
func (s *SortScan) GetValue(fieldname string) (record.Constant, error) {
	return s.ts.GetValue(fieldname)
}
func (s *SortScan) IsNull(fieldname string) (bool, error) { return s.ts.IsNull(fieldname) }
func (s *SortScan) HasField(fieldname string) bool         { return s.ts.HasField(fieldname) }

// Close closes the underlying scan and drops its temp table.
func (s *SortScan) Close() error {
	if err := s.ts.Close(); err != nil {
		return err
	}
	return s.temp.Drop()
}

// SavePosition returns the current row's identity, for MergeJoinScan to
// return to after peeking ahead on the other side of the join.
func (s *SortScan) SavePosition() record.RID {
	return s.ts.GetRid()
}

// RestorePosition moves back to a previously saved row.
func (s *SortScan) RestorePosition(rid record.RID) error {
	return s.ts.MoveToRid(rid)
}
