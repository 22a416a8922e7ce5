// Package remote implements the wire driver: a request/response RPC
// service pair (client and server) that expose the same
// Driver/Connection/Statement/ResultSet façade as driver/embedded, but
// over the network via net/rpc and encoding/gob.
//
// Every server-side object (connection, statement, result set) is named
// by a 64-bit handle the server assigns on creation; every subsequent
// call carries the handle of the object it operates on, and Close
// releases it.
package remote

// Handle names one server-side object.
type Handle int64

// Type codes for ColumnMeta.Type, matching driver/embedded's.
const (
	TypeI32     = 4
	TypeVarchar = 12
)

// ConnectArgs requests a new connection to the database at DBPath.
type ConnectArgs struct {
	DBPath        string
	BlockSize     int
	BufferPool    int
	BufferTimeout int // seconds
	LockTimeout   int // seconds
}

// ConnectReply carries the handle of the new connection.
type ConnectReply struct {
	Conn Handle
}

// HandleArgs is the shape of every call that only names the object it
// applies to (commit, rollback, close, create-statement).
type HandleArgs struct {
	Conn Handle
}

// HandleReply carries the handle of a newly created object.
type HandleReply struct {
	Handle Handle
}

// Empty is used for calls that carry no reply payload beyond success.
type Empty struct{}

// QueryArgs requests a query plan be opened and executed for SQL.
type QueryArgs struct {
	Stmt Handle
	SQL  string
}

// QueryReply carries the handle of the resulting result set.
type QueryReply struct {
	ResultSet Handle
}

// UpdateArgs requests an update statement be executed.
type UpdateArgs struct {
	Stmt Handle
	SQL  string
}

// UpdateReply carries the number of rows the statement affected.
type UpdateReply struct {
	RowsAffected int
}

// ResultSetArgs is the shape of every call that only names the result set
// it applies to (next, before-first, after-last, close, metadata).
type ResultSetArgs struct {
	ResultSet Handle
}

// BoolReply carries a single boolean, used for next/previous/absolute.
type BoolReply struct {
	Ok bool
}

// AbsoluteArgs requests a jump to row N (0-based).
type AbsoluteArgs struct {
	ResultSet Handle
	N         int
}

// GetFieldArgs requests a getter for one field of the current row.
type GetFieldArgs struct {
	ResultSet Handle
	Field     string
}

// GetI32Reply carries a getI32 result and whether it was NULL.
type GetI32Reply struct {
	Value  int32
	IsNull bool
}

// GetStringReply carries a getString result and whether it was NULL.
type GetStringReply struct {
	Value  string
	IsNull bool
}

// ColumnMeta describes one column of a result set.
type ColumnMeta struct {
	Name        string
	Type        int
	DisplaySize int
}

// MetadataReply carries every column's metadata for a result set.
type MetadataReply struct {
	Columns []ColumnMeta
}
