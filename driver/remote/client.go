package remote

import (
	"net/rpc"

	"simpledb/internal/config"
)

// Driver dials a remote simpledb server and speaks the four RPC services
// on the caller's behalf, presenting the same shape as driver/embedded.
type Driver struct {
	client *rpc.Client
}

// Dial connects to a running server at addr (host:port).
func Dial(addr string) (*Driver, error) {
	client, err := rpc.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Driver{client: client}, nil
}

// Connect opens (or creates) the database at dbPath on the server, using
// cfg's block size and buffer pool size (timeouts are server-side only).
func (d *Driver) Connect(dbPath string, cfg config.Config) (*Connection, error) {
	args := ConnectArgs{DBPath: dbPath, BlockSize: cfg.BlockSize, BufferPool: cfg.BufferPool}
	var reply ConnectReply
	if err := d.client.Call("DriverService.Connect", args, &reply); err != nil {
		return nil, err
	}
	return &Connection{client: d.client, handle: reply.Conn}, nil
}

// Close closes the underlying RPC connection.
func (d *Driver) Close() error {
	return d.client.Close()
}

// Connection is a handle to a connection living on the remote server.
type Connection struct {
	client *rpc.Client
	handle Handle
}

// CreateStatement returns a handle to a new statement on the server.
func (c *Connection) CreateStatement() (*Statement, error) {
	var reply HandleReply
	if err := c.client.Call("ConnectionService.CreateStatement", HandleArgs{Conn: c.handle}, &reply); err != nil {
		return nil, err
	}
	return &Statement{client: c.client, handle: reply.Handle}, nil
}

// Commit commits the connection's current transaction on the server.
func (c *Connection) Commit() error {
	return c.client.Call("ConnectionService.Commit", HandleArgs{Conn: c.handle}, &Empty{})
}

// Rollback aborts the connection's current transaction on the server.
func (c *Connection) Rollback() error {
	return c.client.Call("ConnectionService.Rollback", HandleArgs{Conn: c.handle}, &Empty{})
}

// Close releases the connection's server-side handle.
func (c *Connection) Close() error {
	return c.client.Call("ConnectionService.Close", HandleArgs{Conn: c.handle}, &Empty{})
}

// Statement is a handle to a statement living on the remote server.
type Statement struct {
	client *rpc.Client
	handle Handle
}

// ExecuteQuery runs sql as a SELECT and returns a handle to the result.
func (s *Statement) ExecuteQuery(sql string) (*ResultSet, error) {
	var reply QueryReply
	if err := s.client.Call("StatementService.ExecuteQuery", QueryArgs{Stmt: s.handle, SQL: sql}, &reply); err != nil {
		return nil, err
	}
	return &ResultSet{client: s.client, handle: reply.ResultSet}, nil
}

// ExecuteUpdate runs sql as an INSERT/DELETE/MODIFY/DDL statement and
// returns the number of rows it affected.
func (s *Statement) ExecuteUpdate(sql string) (int, error) {
	var reply UpdateReply
	if err := s.client.Call("StatementService.ExecuteUpdate", UpdateArgs{Stmt: s.handle, SQL: sql}, &reply); err != nil {
		return 0, err
	}
	return reply.RowsAffected, nil
}

// ResultSet is a handle to a result set's cursor on the remote server.
type ResultSet struct {
	client *rpc.Client
	handle Handle
}

// Metadata returns every column's name, type code and display size.
func (rs *ResultSet) Metadata() ([]ColumnMeta, error) {
	var reply MetadataReply
	if err := rs.client.Call("ResultSetService.Metadata", ResultSetArgs{ResultSet: rs.handle}, &reply); err != nil {
		return nil, err
	}
	return reply.Columns, nil
}

// BeforeFirst repositions the cursor before the first row.
func (rs *ResultSet) BeforeFirst() error {
	return rs.client.Call("ResultSetService.BeforeFirst", ResultSetArgs{ResultSet: rs.handle}, &Empty{})
}

// Next advances the cursor.
func (rs *ResultSet) Next() (bool, error) {
	var reply BoolReply
	err := rs.client.Call("ResultSetService.Next", ResultSetArgs{ResultSet: rs.handle}, &reply)
	return reply.Ok, err
}

// Previous moves the cursor backward.
func (rs *ResultSet) Previous() (bool, error) {
	var reply BoolReply
	err := rs.client.Call("ResultSetService.Previous", ResultSetArgs{ResultSet: rs.handle}, &reply)
	return reply.Ok, err
}

// AfterLast repositions the cursor after the last row.
func (rs *ResultSet) AfterLast() error {
	return rs.client.Call("ResultSetService.AfterLast", ResultSetArgs{ResultSet: rs.handle}, &Empty{})
}

// Absolute jumps the cursor to row n (0-based).
func (rs *ResultSet) Absolute(n int) (bool, error) {
	var reply BoolReply
	err := rs.client.Call("ResultSetService.Absolute", AbsoluteArgs{ResultSet: rs.handle, N: n}, &reply)
	return reply.Ok, err
}

// GetI32 returns the current row's value for field, and whether it was
// NULL.
func (rs *ResultSet) GetI32(field string) (int32, bool, error) {
	var reply GetI32Reply
	err := rs.client.Call("ResultSetService.GetI32", GetFieldArgs{ResultSet: rs.handle, Field: field}, &reply)
	return reply.Value, reply.IsNull, err
}

// GetString returns the current row's value for field, and whether it was
// NULL.
func (rs *ResultSet) GetString(field string) (string, bool, error) {
	var reply GetStringReply
	err := rs.client.Call("ResultSetService.GetString", GetFieldArgs{ResultSet: rs.handle, Field: field}, &reply)
	return reply.Value, reply.IsNull, err
}

// Close releases the result set's server-side handle.
func (rs *ResultSet) Close() error {
	return rs.client.Call("ResultSetService.Close", ResultSetArgs{ResultSet: rs.handle}, &Empty{})
}
