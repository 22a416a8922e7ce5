package record

import "simpledb/file"

// Layout derives, from a schema, the byte offset of every field within a
// slot and the slot's total size. Field order in the slot matches schema
// order exactly, so that layout is a pure function of schema: the same
// schema produces the same offsets and slot size on every run.
type Layout struct {
	schema   *Schema
	offsets  map[string]int
	slotSize int
}

// flag values stored in a slot's first 4 bytes.
const (
	flagEmpty int32 = 0
	flagUsed  int32 = 1
)

const flagSize = 4

// NewLayout computes offsets and slot size from scratch for schema.
func NewLayout(schema *Schema) *Layout {
	offsets := make(map[string]int)
	pos := flagSize + nullBitmapBytes(len(schema.Fields()))
	for _, name := range schema.Fields() {
		offsets[name] = pos
		pos += lengthInBytes(schema.info[name])
	}
	return &Layout{schema: schema, offsets: offsets, slotSize: pos}
}

// NewLayoutFromMetadata reconstructs a layout whose offsets and slot size
// were previously computed and stored in the catalog, avoiding recomputation
// (and guarding against it ever silently diverging from what's on disk).
func NewLayoutFromMetadata(schema *Schema, offsets map[string]int, slotSize int) *Layout {
	return &Layout{schema: schema, offsets: offsets, slotSize: slotSize}
}

// Schema returns the schema this layout was derived from.
func (l *Layout) Schema() *Schema {
	return l.schema
}

// Offset returns the byte offset of fieldname within a slot.
func (l *Layout) Offset(fieldname string) int {
	return l.offsets[fieldname]
}

// SlotSize returns the total size in bytes of one slot.
func (l *Layout) SlotSize() int {
	return l.slotSize
}

// nullBitmapBytes returns the size in bytes of the per-slot null bitmap.
// Each field gets its own 4-byte flag rather than a packed bit, so that
// clearing or setting one field's null-ness is an ordinary SETI32 write:
// the write-ahead log has no record kind for a partial-byte mutation, and a
// packed bitmap would need one.
func nullBitmapBytes(fieldCount int) int {
	return fieldCount * 4
}

func lengthInBytes(fi fieldInfo) int {
	if fi.Type == Varchar {
		return file.MaxLength(fi.Length)
	}
	return 4
}
