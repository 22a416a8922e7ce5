package embedded

import (
	"simpledb/common"
	"simpledb/plan"
	"simpledb/record"
	"simpledb/scan"
)

// Type codes for ResultSetMetadata.ColumnType, matching the standard
// SQL/JDBC values used across the driver boundary.
const (
	TypeI32     = 4
	TypeVarchar = 12
)

// ResultSet is the outermost scan of a query plan, decorated with schema
// metadata and was-null tracking for the getters.
type ResultSet struct {
	conn   *Connection
	scan   scan.Scan
	schema *record.Schema

	wasNull bool
}

func newResultSet(p plan.Plan, conn *Connection) (*ResultSet, error) {
	s, err := p.Open()
	if err != nil {
		return nil, err
	}
	return &ResultSet{conn: conn, scan: s, schema: p.Schema()}, nil
}

// Metadata describes the shape of a ResultSet: column count, names, types
// and a suggested display width, per the embedded façade's contract.
type Metadata struct {
	schema *record.Schema
}

// GetMetadata returns column metadata for this result set's schema.
func (rs *ResultSet) GetMetadata() *Metadata {
	return &Metadata{schema: rs.schema}
}

// ColumnCount returns the number of columns in the result.
func (m *Metadata) ColumnCount() int {
	return len(m.schema.Fields())
}

// ColumnName returns the name of the column at index (0-based).
func (m *Metadata) ColumnName(index int) string {
	return m.schema.Fields()[index]
}

// ColumnType returns TypeI32 or TypeVarchar for the column at index.
func (m *Metadata) ColumnType(index int) int {
	if m.schema.Type(m.ColumnName(index)) == record.I32 {
		return TypeI32
	}
	return TypeVarchar
}

// ColumnDisplaySize returns a suggested rendering width for the column at
// index: the declared VARCHAR length for strings (never narrower than the
// column name), or a fixed width for I32.
func (m *Metadata) ColumnDisplaySize(index int) int {
	name := m.ColumnName(index)
	size := 12
	if m.schema.Type(name) == record.Varchar {
		size = m.schema.Length(name)
	}
	if len(name) > size {
		size = len(name)
	}
	return size
}

// BeforeFirst repositions the cursor before the first row.
func (rs *ResultSet) BeforeFirst() error {
	return rs.scan.BeforeFirst()
}

// Next advances to the next row, returning false when exhausted.
func (rs *ResultSet) Next() (bool, error) {
	return rs.scan.Next()
}

// Previous moves to the previous row. It fails with PlanError when the
// underlying plan (e.g. a group-by or merge-join) does not support
// backward movement.
func (rs *ResultSet) Previous() (bool, error) {
	bi, ok := rs.scan.(scan.Bidirectional)
	if !ok {
		return false, common.New(common.PlanError, "result set does not support backward movement")
	}
	return bi.Previous()
}

// AfterLast repositions the cursor after the last row.
func (rs *ResultSet) AfterLast() error {
	bi, ok := rs.scan.(scan.Bidirectional)
	if !ok {
		return common.New(common.PlanError, "result set does not support backward movement")
	}
	return bi.AfterLast()
}

// Absolute jumps directly to the n'th row (0-based).
func (rs *ResultSet) Absolute(n int) (bool, error) {
	bi, ok := rs.scan.(scan.Bidirectional)
	if !ok {
		return false, common.New(common.PlanError, "result set does not support random access")
	}
	return bi.Absolute(n)
}

// GetI32 returns the current row's value for fieldname, updating WasNull.
func (rs *ResultSet) GetI32(fieldname string) (int32, error) {
	null, err := rs.scan.IsNull(fieldname)
	if err != nil {
		return 0, err
	}
	rs.wasNull = null
	if null {
		return 0, nil
	}
	return rs.scan.GetInt(fieldname)
}

// GetString returns the current row's value for fieldname, updating
// WasNull.
func (rs *ResultSet) GetString(fieldname string) (string, error) {
	null, err := rs.scan.IsNull(fieldname)
	if err != nil {
		return "", err
	}
	rs.wasNull = null
	if null {
		return "", nil
	}
	return rs.scan.GetString(fieldname)
}

// WasNull reports whether the most recent GetI32/GetString call returned a
// NULL value.
func (rs *ResultSet) WasNull() bool {
	return rs.wasNull
}

// Close releases the underlying scan and commits the connection's
// transaction, matching the classic embedded contract of one transaction
// per query.
func (rs *ResultSet) Close() error {
	if err := rs.scan.Close(); err != nil {
		return err
	}
	return rs.conn.Commit()
}
