package record

import "fmt"

// RID identifies a record by the block it lives in (within its table's
// implicit file) and its slot number within that block.
type RID struct {
	Blknum int
	Slot   int
}

// NewRID returns the record identifier (blknum, slot).
func NewRID(blknum, slot int) RID {
	return RID{Blknum: blknum, Slot: slot}
}

func (r RID) String() string {
	return fmt.Sprintf("[%d, %d]", r.Blknum, r.Slot)
}
