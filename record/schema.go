// Package record implements the slotted-page tuple format: schemas, the
// layout derived from a schema, per-block record primitives, and the
// TableScan that walks a table's blocks record by record.
package record

// FieldType is one of the two field types the engine supports.
type FieldType int

const (
	// I32 is a signed 32-bit integer field.
	I32 FieldType = iota
	// Varchar is a variable-length string field with a fixed reserved
	// length.
	Varchar
)

// fieldInfo describes one field's type and, for Varchar, its declared
// maximum length in bytes.
type fieldInfo struct {
	Type   FieldType
	Length int
}

// Schema is an ordered list of uniquely named fields. Field names are
// case-preserving and looked up case-sensitively.
type Schema struct {
	fields []string
	info   map[string]fieldInfo
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{info: make(map[string]fieldInfo)}
}

// AddField adds a field of the given type and (for Varchar) length.
func (s *Schema) AddField(name string, t FieldType, length int) {
	if _, exists := s.info[name]; exists {
		return
	}
	s.fields = append(s.fields, name)
	s.info[name] = fieldInfo{Type: t, Length: length}
}

// AddI32Field adds a signed 32-bit integer field.
func (s *Schema) AddI32Field(name string) {
	s.AddField(name, I32, 0)
}

// AddStringField adds a VARCHAR(length) field.
func (s *Schema) AddStringField(name string, length int) {
	s.AddField(name, Varchar, length)
}

// Add copies the field named name from another schema, keeping its type and
// length.
func (s *Schema) Add(name string, from *Schema) {
	fi := from.info[name]
	s.AddField(name, fi.Type, fi.Length)
}

// AddAll copies every field from another schema, in its order.
func (s *Schema) AddAll(from *Schema) {
	for _, name := range from.fields {
		s.Add(name, from)
	}
}

// Fields returns the schema's fields, in declaration order.
func (s *Schema) Fields() []string {
	return s.fields
}

// HasField reports whether name is a field of this schema.
func (s *Schema) HasField(name string) bool {
	_, ok := s.info[name]
	return ok
}

// Type returns the type of field name.
func (s *Schema) Type(name string) FieldType {
	return s.info[name].Type
}

// Length returns the declared VARCHAR length of field name (meaningless for
// I32 fields).
func (s *Schema) Length(name string) int {
	return s.info[name].Length
}
