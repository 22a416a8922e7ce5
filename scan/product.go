package scan

import "simpledb/record"

// ProductScan computes the Cartesian product of two scans by nested-loop
// join: the left side drives, and the right side is rewound to its
// beginning each time the left side advances.
type ProductScan struct {
	left, right Scan
}

// NewProductScan returns the product of left and right, positioned before
// the first row.
func NewProductScan(left, right Scan) (*ProductScan, error) {
	ps := &ProductScan{left: left, right: right}
	if err := ps.BeforeFirst(); err != nil {
		return nil, err
	}
	return ps, nil
}

func (ps *ProductScan) BeforeFirst() error {
	if err := ps.left.BeforeFirst(); err != nil {
		return err
	}
	if _, err := ps.left.Next(); err != nil {
		return err
	}
	return ps.right.BeforeFirst()
}

func (ps *ProductScan) Next() (bool, error) {
	ok, err := ps.right.Next()
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	ok, err = ps.left.Next()
	if err != nil || !ok {
		return false, err
	}
	if err := ps.right.BeforeFirst(); err != nil {
		return false, err
	}
	return ps.right.Next()
}

func (ps *ProductScan) field(fieldname string) Scan {
	if ps.left.HasField(fieldname) {
		return ps.left
	}
	return ps.right
}

func (ps *ProductScan) GetInt(fieldname string) (int32, error) {
	return ps.field(fieldname).GetInt(fieldname)
}

func (ps *ProductScan) GetString(fieldname string) (string, error) {
	return ps.field(fieldname).GetString(fieldname)
}

func (ps *ProductScan) GetValue(fieldname string) (record.Constant, error) {
	return ps.field(fieldname).GetValue(fieldname)
}

func (ps *ProductScan) IsNull(fieldname string) (bool, error) {
	return ps.field(fieldname).IsNull(fieldname)
}

func (ps *ProductScan) HasField(fieldname string) bool {
	return ps.left.HasField(fieldname) || ps.right.HasField(fieldname)
}

func (ps *ProductScan) Close() error {
	if err := ps.left.Close(); err != nil {
		return err
	}
	return ps.right.Close()
}
