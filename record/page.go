package record

import (
	"simpledb/common"
	"simpledb/file"
	"simpledb/tx"
)

// nullFlag values stored in each field's 4-byte null slot.
const (
	notNull int32 = 0
	isNull  int32 = 1
)

// Page wraps one block of a table with slotted-record primitives. Every slot
// begins with a 4-byte usage flag, then one 4-byte null flag per field, then
// the fields themselves at the fixed offsets Layout computed, in schema
// order.
type Page struct {
	tx     *tx.Transaction
	blk    file.Block
	layout *Layout
}

// NewPage wraps blk, which must already be pinned by t.
func NewPage(t *tx.Transaction, blk file.Block, layout *Layout) *Page {
	return &Page{tx: t, blk: blk, layout: layout}
}

// Block returns the block this page wraps.
func (p *Page) Block() file.Block {
	return p.blk
}

// NumSlots returns the number of slots a block can hold under this layout.
func (p *Page) NumSlots() int {
	return p.tx.BlockSize() / p.layout.SlotSize()
}

func (p *Page) slotOffset(slot int) int {
	return slot * p.layout.SlotSize()
}

func (p *Page) flag(slot int) (int32, error) {
	return p.tx.GetInt(p.blk, p.slotOffset(slot))
}

func (p *Page) setFlag(slot int, flag int32) error {
	return p.tx.SetInt(p.blk, p.slotOffset(slot), flag, true)
}

// Format initializes every slot in the block to empty with every field
// null, for a block just appended to a table. Formatting is not logged: an
// appended block has no committed prior state for undo to restore.
func (p *Page) Format() error {
	for slot := 0; p.isValidSlot(slot); slot++ {
		if err := p.tx.SetInt(p.blk, p.slotOffset(slot), flagEmpty, false); err != nil {
			return err
		}
		for _, name := range p.layout.Schema().Fields() {
			if err := p.tx.SetInt(p.blk, p.nullOffset(slot, name), isNull, false); err != nil {
				return err
			}
			fi := p.layout.Schema().info[name]
			offset := p.fieldOffset(slot, name)
			if fi.Type == Varchar {
				if err := p.tx.SetString(p.blk, offset, "", false); err != nil {
					return err
				}
			} else if err := p.tx.SetInt(p.blk, offset, 0, false); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Page) isValidSlot(slot int) bool {
	return p.slotOffset(slot+1) <= p.tx.BlockSize()
}

// NextAfter returns the first used slot after slot, or -1 if none remains in
// this block.
func (p *Page) NextAfter(slot int) (int, error) {
	return p.searchAfter(slot, flagUsed)
}

// InsertAfter finds the first empty slot after slot, marks it used and
// returns its number, or -1 if the block is full.
func (p *Page) InsertAfter(slot int) (int, error) {
	newSlot, err := p.searchAfter(slot, flagEmpty)
	if err != nil || newSlot < 0 {
		return newSlot, err
	}
	if err := p.setFlag(newSlot, flagUsed); err != nil {
		return -1, err
	}
	return newSlot, nil
}

func (p *Page) searchAfter(slot int, want int32) (int, error) {
	slot++
	for p.isValidSlot(slot) {
		got, err := p.flag(slot)
		if err != nil {
			return -1, err
		}
		if got == want {
			return slot, nil
		}
		slot++
	}
	return -1, nil
}

// PrecedingBefore returns the last used slot strictly before slot, or -1 if
// none remains in this block.
func (p *Page) PrecedingBefore(slot int) (int, error) {
	slot--
	for slot >= 0 {
		got, err := p.flag(slot)
		if err != nil {
			return -1, err
		}
		if got == flagUsed {
			return slot, nil
		}
		slot--
	}
	return -1, nil
}

// Delete marks slot empty.
func (p *Page) Delete(slot int) error {
	return p.setFlag(slot, flagEmpty)
}

func (p *Page) fieldOffset(slot int, fieldname string) int {
	return p.slotOffset(slot) + p.layout.Offset(fieldname)
}

func (p *Page) fieldIndex(fieldname string) int {
	for i, name := range p.layout.Schema().Fields() {
		if name == fieldname {
			return i
		}
	}
	common.Assert(false, "unknown field %q", fieldname)
	return -1
}

func (p *Page) nullOffset(slot int, fieldname string) int {
	return p.slotOffset(slot) + flagSize + p.fieldIndex(fieldname)*4
}

// IsNull reports whether fieldname's null flag is set for slot.
func (p *Page) IsNull(slot int, fieldname string) (bool, error) {
	v, err := p.tx.GetInt(p.blk, p.nullOffset(slot, fieldname))
	if err != nil {
		return false, err
	}
	return v == isNull, nil
}

// SetNull sets or clears fieldname's null flag for slot.
func (p *Page) SetNull(slot int, fieldname string, null bool) error {
	v := notNull
	if null {
		v = isNull
	}
	return p.tx.SetInt(p.blk, p.nullOffset(slot, fieldname), v, true)
}

// GetInt returns the value of an I32 field.
func (p *Page) GetInt(slot int, fieldname string) (int32, error) {
	return p.tx.GetInt(p.blk, p.fieldOffset(slot, fieldname))
}

// SetInt writes val into an I32 field and clears its null flag.
func (p *Page) SetInt(slot int, fieldname string, val int32) error {
	if err := p.SetNull(slot, fieldname, false); err != nil {
		return err
	}
	return p.tx.SetInt(p.blk, p.fieldOffset(slot, fieldname), val, true)
}

// GetString returns the value of a VARCHAR field.
func (p *Page) GetString(slot int, fieldname string) (string, error) {
	return p.tx.GetString(p.blk, p.fieldOffset(slot, fieldname))
}

// SetString writes val into a VARCHAR field and clears its null flag.
func (p *Page) SetString(slot int, fieldname string, val string) error {
	if err := p.SetNull(slot, fieldname, false); err != nil {
		return err
	}
	return p.tx.SetString(p.blk, p.fieldOffset(slot, fieldname), val, true)
}
