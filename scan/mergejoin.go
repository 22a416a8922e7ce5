package scan

import "simpledb/record"

// MergeJoinScan joins two scans already sorted on their respective join
// fields by walking them in lockstep, avoiding the nested-loop rescans a
// ProductScan+SelectScan pair would need.
type MergeJoinScan struct {
	s1      Scan
	s2      *SortScan
	fld1    string
	fld2    string
	joinVal record.Constant
	s2Pos   record.RID
}

// NewMergeJoinScan returns the join of s1 (sorted by fld1) and s2 (sorted by
// fld2), positioned before the first row.
func NewMergeJoinScan(s1 Scan, s2 *SortScan, fld1, fld2 string) (*MergeJoinScan, error) {
	mj := &MergeJoinScan{s1: s1, s2: s2, fld1: fld1, fld2: fld2}
	if err := mj.BeforeFirst(); err != nil {
		return nil, err
	}
	return mj, nil
}

func (mj *MergeJoinScan) BeforeFirst() error {
	if err := mj.s1.BeforeFirst(); err != nil {
		return err
	}
	return mj.s2.BeforeFirst()
}

// Next advances to the next joined row pair, per the classic sort-merge
// join scan: it first checks whether the right side has another row equal
// to the current join value, then advances the left side, and otherwise
// walks both sides forward until their join fields agree.
func (mj *MergeJoinScan) Next() (bool, error) {
	hasMore2, err := mj.s2.Next()
	if err != nil {
		return false, err
	}
	if hasMore2 {
		v2, err := mj.s2.GetValue(mj.fld2)
		if err != nil {
			return false, err
		}
		if v2.Equals(mj.joinVal) {
			return true, nil
		}
	}

	hasMore1, err := mj.s1.Next()
	if err != nil {
		return false, err
	}
	if hasMore1 {
		v1, err := mj.s1.GetValue(mj.fld1)
		if err != nil {
			return false, err
		}
		if v1.Equals(mj.joinVal) {
			if err := mj.s2.RestorePosition(mj.s2Pos); err != nil {
				return false, err
			}
			return true, nil
		}
	}

	for hasMore1 && hasMore2 {
		v1, err := mj.s1.GetValue(mj.fld1)
		if err != nil {
			return false, err
		}
		v2, err := mj.s2.GetValue(mj.fld2)
		if err != nil {
			return false, err
		}
		switch {
		case v1.CompareTo(v2) < 0:
			hasMore1, err = mj.s1.Next()
		case v1.CompareTo(v2) > 0:
			hasMore2, err = mj.s2.Next()
		default:
			mj.joinVal = v2
			mj.s2Pos = mj.s2.SavePosition()
			return true, nil
		}
		if err != nil {
			return false, err
		}
	}
	return false, nil
}

func (mj *MergeJoinScan) field(fieldname string) Scan {
	if mj.s1.HasField(fieldname) {
		return mj.s1
	}
	return mj.s2
}

func (mj *MergeJoinScan) GetInt(fieldname string) (int32, error) {
	return mj.field(fieldname).GetInt(fieldname)
}

func (mj *MergeJoinScan) GetString(fieldname string) (string, error) {
	return mj.field(fieldname).GetString(fieldname)
}

func (mj *MergeJoinScan) GetValue(fieldname string) (record.Constant, error) {
	return mj.field(fieldname).GetValue(fieldname)
}

func (mj *MergeJoinScan) IsNull(fieldname string) (bool, error) {
	return mj.field(fieldname).IsNull(fieldname)
}

func (mj *MergeJoinScan) HasField(fieldname string) bool {
	return mj.s1.HasField(fieldname) || mj.s2.HasField(fieldname)
}

func (mj *MergeJoinScan) Close() error {
	if err := mj.s1.Close(); err != nil {
		return err
	}
	return mj.s2.Close()
}
