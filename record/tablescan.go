package record

import (
	"simpledb/common"
	"simpledb/file"
	"simpledb/tx"
)

// TableScan walks a table's blocks record by record. A table is the
// sequence of blocks in a single file named "<table>.tbl"; a brand-new table
// has zero blocks, and the first Insert allocates its first one.
type TableScan struct {
	tx          *tx.Transaction
	layout      *Layout
	filename    string
	rp          *Page
	currentSlot int
}

// NewTableScan opens tableName under layout within tx, positioned before the
// first record.
func NewTableScan(t *tx.Transaction, tableName string, layout *Layout) (*TableScan, error) {
	ts := &TableScan{tx: t, layout: layout, filename: tableName + ".tbl"}
	size, err := t.Size(ts.filename)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		if err := ts.moveToNewBlock(); err != nil {
			return nil, err
		}
	} else if err := ts.moveToBlock(0); err != nil {
		return nil, err
	}
	return ts, nil
}

func (ts *TableScan) moveToBlock(blknum int) error {
	if err := ts.Close(); err != nil {
		return err
	}
	blk := file.New(ts.filename, blknum)
	if err := ts.tx.Pin(blk); err != nil {
		return err
	}
	ts.rp = NewPage(ts.tx, blk, ts.layout)
	ts.currentSlot = -1
	return nil
}

func (ts *TableScan) moveToNewBlock() error {
	if err := ts.Close(); err != nil {
		return err
	}
	blk, err := ts.tx.Append(ts.filename)
	if err != nil {
		return err
	}
	if err := ts.tx.Pin(blk); err != nil {
		return err
	}
	ts.rp = NewPage(ts.tx, blk, ts.layout)
	if err := ts.rp.Format(); err != nil {
		return err
	}
	ts.currentSlot = -1
	return nil
}

func (ts *TableScan) atLastBlock() (bool, error) {
	size, err := ts.tx.Size(ts.filename)
	if err != nil {
		return false, err
	}
	return ts.rp.Block().Number == size-1, nil
}

// Close unpins the currently held block, if any.
func (ts *TableScan) Close() error {
	if ts.rp != nil {
		ts.tx.Unpin(ts.rp.Block())
		ts.rp = nil
	}
	return nil
}

// BeforeFirst positions the scan before the first record of the table.
func (ts *TableScan) BeforeFirst() error {
	return ts.moveToBlock(0)
}

// AfterLast positions the scan after the last record of the table.
func (ts *TableScan) AfterLast() error {
	size, err := ts.tx.Size(ts.filename)
	if err != nil {
		return err
	}
	if err := ts.moveToBlock(size - 1); err != nil {
		return err
	}
	ts.currentSlot = ts.rp.NumSlots()
	return nil
}

// Next advances to the next used slot, crossing block boundaries as needed,
// and reports whether one was found.
func (ts *TableScan) Next() (bool, error) {
	for {
		slot, err := ts.rp.NextAfter(ts.currentSlot)
		if err != nil {
			return false, err
		}
		if slot >= 0 {
			ts.currentSlot = slot
			return true, nil
		}
		last, err := ts.atLastBlock()
		if err != nil {
			return false, err
		}
		if last {
			return false, nil
		}
		if err := ts.moveToBlock(ts.rp.Block().Number + 1); err != nil {
			return false, err
		}
	}
}

// Previous moves to the preceding used slot, crossing block boundaries
// backwards as needed, and reports whether one was found.
func (ts *TableScan) Previous() (bool, error) {
	for {
		slot, err := ts.rp.PrecedingBefore(ts.currentSlot)
		if err != nil {
			return false, err
		}
		if slot >= 0 {
			ts.currentSlot = slot
			return true, nil
		}
		if ts.rp.Block().Number == 0 {
			return false, nil
		}
		if err := ts.moveToBlock(ts.rp.Block().Number - 1); err != nil {
			return false, err
		}
		ts.currentSlot = ts.rp.NumSlots()
	}
}

// Insert positions the scan on a newly allocated, used slot, scanning
// forward from the current position and appending a fresh block only once
// every existing block is full.
func (ts *TableScan) Insert() error {
	for {
		slot, err := ts.rp.InsertAfter(ts.currentSlot)
		if err != nil {
			return err
		}
		if slot >= 0 {
			ts.currentSlot = slot
			return nil
		}
		last, err := ts.atLastBlock()
		if err != nil {
			return err
		}
		if last {
			if err := ts.moveToNewBlock(); err != nil {
				return err
			}
		} else if err := ts.moveToBlock(ts.rp.Block().Number + 1); err != nil {
			return err
		}
	}
}

// Delete marks the current slot empty.
func (ts *TableScan) Delete() error {
	return ts.rp.Delete(ts.currentSlot)
}

// GetRid returns the record identifier of the current slot.
func (ts *TableScan) GetRid() RID {
	return NewRID(ts.rp.Block().Number, ts.currentSlot)
}

// MoveToRid repositions the scan directly at rid.
func (ts *TableScan) MoveToRid(rid RID) error {
	size, err := ts.tx.Size(ts.filename)
	if err != nil {
		return err
	}
	if rid.Blknum < 0 || rid.Blknum >= size {
		return common.New(common.NotFound, "block %d out of range for %s", rid.Blknum, ts.filename)
	}
	if err := ts.moveToBlock(rid.Blknum); err != nil {
		return err
	}
	if rid.Slot < 0 || rid.Slot >= ts.rp.NumSlots() {
		return common.New(common.NotFound, "slot %d out of range in block %d of %s", rid.Slot, rid.Blknum, ts.filename)
	}
	ts.currentSlot = rid.Slot
	return nil
}

// HasField reports whether fieldname is part of this table's schema.
func (ts *TableScan) HasField(fieldname string) bool {
	return ts.layout.Schema().HasField(fieldname)
}

// GetInt returns the current record's fieldname value.
func (ts *TableScan) GetInt(fieldname string) (int32, error) {
	return ts.rp.GetInt(ts.currentSlot, fieldname)
}

// GetString returns the current record's fieldname value.
func (ts *TableScan) GetString(fieldname string) (string, error) {
	return ts.rp.GetString(ts.currentSlot, fieldname)
}

// IsNull reports whether the current record's fieldname is null.
func (ts *TableScan) IsNull(fieldname string) (bool, error) {
	return ts.rp.IsNull(ts.currentSlot, fieldname)
}

// SetInt writes val into the current record's fieldname.
func (ts *TableScan) SetInt(fieldname string, val int32) error {
	return ts.rp.SetInt(ts.currentSlot, fieldname, val)
}

// SetString writes val into the current record's fieldname.
func (ts *TableScan) SetString(fieldname string, val string) error {
	return ts.rp.SetString(ts.currentSlot, fieldname, val)
}

// SetNull marks the current record's fieldname null.
func (ts *TableScan) SetNull(fieldname string) error {
	return ts.rp.SetNull(ts.currentSlot, fieldname, true)
}

// GetValue returns the current record's fieldname value as a Constant,
// dispatching on the field's declared type, or a null Constant if the field
// is null.
func (ts *TableScan) GetValue(fieldname string) (Constant, error) {
	null, err := ts.IsNull(fieldname)
	if err != nil {
		return Constant{}, err
	}
	if null {
		return NullConstant(), nil
	}
	if ts.layout.Schema().Type(fieldname) == I32 {
		v, err := ts.GetInt(fieldname)
		if err != nil {
			return Constant{}, err
		}
		return IntConstant(v), nil
	}
	v, err := ts.GetString(fieldname)
	if err != nil {
		return Constant{}, err
	}
	return StringConstant(v), nil
}

// SetValue writes val into the current record's fieldname, dispatching on
// val's runtime kind; a null Constant marks the field null.
func (ts *TableScan) SetValue(fieldname string, val Constant) error {
	if val.IsNull() {
		return ts.SetNull(fieldname)
	}
	if val.IsString() {
		return ts.SetString(fieldname, val.AsString())
	}
	return ts.SetInt(fieldname, val.AsInt())
}

// Absolute repositions the scan at the nth used slot (0-based) in table
// order, by rewinding to the start and stepping forward n+1 times.
func (ts *TableScan) Absolute(n int) (bool, error) {
	if err := ts.BeforeFirst(); err != nil {
		return false, err
	}
	for i := 0; i <= n; i++ {
		ok, err := ts.Next()
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
