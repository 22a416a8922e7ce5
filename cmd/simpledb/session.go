package main

import (
	"simpledb/driver/embedded"
	"simpledb/driver/remote"
)

// columnInfo is the CLI's own reduced view of a result column: enough to
// render a table header, nothing more.
type columnInfo struct {
	Name string
	Type int
}

// resultSet is the common shape the REPL drives, satisfied by both the
// embedded and remote result sets despite their slightly different
// signatures (was-null tracking vs. a returned bool).
type resultSet interface {
	Metadata() ([]columnInfo, error)
	Next() (bool, error)
	GetI32(field string) (int32, bool, error)
	GetString(field string) (string, bool, error)
	Close() error
}

// statement is the common shape the REPL executes SQL through.
type statement interface {
	ExecuteQuery(sql string) (resultSet, error)
	ExecuteUpdate(sql string) (int, error)
}

// connection is the common shape the REPL opens statements through.
type connection interface {
	CreateStatement() (statement, error)
	Commit() error
	Close() error
}

// embeddedConn adapts *embedded.Connection to the connection interface.
type embeddedConn struct{ c *embedded.Connection }

func (e embeddedConn) CreateStatement() (statement, error) {
	return embeddedStmt{e.c.CreateStatement()}, nil
}
func (e embeddedConn) Commit() error { return e.c.Commit() }
func (e embeddedConn) Close() error  { return e.c.Close() }

type embeddedStmt struct{ s *embedded.Statement }

func (s embeddedStmt) ExecuteQuery(sql string) (resultSet, error) {
	rs, err := s.s.ExecuteQuery(sql)
	if err != nil {
		return nil, err
	}
	return embeddedResultSet{rs}, nil
}
func (s embeddedStmt) ExecuteUpdate(sql string) (int, error) {
	return s.s.ExecuteUpdate(sql)
}

type embeddedResultSet struct{ rs *embedded.ResultSet }

func (r embeddedResultSet) Metadata() ([]columnInfo, error) {
	md := r.rs.GetMetadata()
	cols := make([]columnInfo, md.ColumnCount())
	for i := range cols {
		cols[i] = columnInfo{Name: md.ColumnName(i), Type: md.ColumnType(i)}
	}
	return cols, nil
}
func (r embeddedResultSet) Next() (bool, error) { return r.rs.Next() }
func (r embeddedResultSet) GetI32(field string) (int32, bool, error) {
	v, err := r.rs.GetI32(field)
	return v, r.rs.WasNull(), err
}
func (r embeddedResultSet) GetString(field string) (string, bool, error) {
	v, err := r.rs.GetString(field)
	return v, r.rs.WasNull(), err
}
func (r embeddedResultSet) Close() error { return r.rs.Close() }

// remoteConn adapts *remote.Connection to the connection interface.
type remoteConn struct{ c *remote.Connection }

func (r remoteConn) CreateStatement() (statement, error) {
	s, err := r.c.CreateStatement()
	if err != nil {
		return nil, err
	}
	return remoteStmt{s}, nil
}
func (r remoteConn) Commit() error { return r.c.Commit() }
func (r remoteConn) Close() error  { return r.c.Close() }

type remoteStmt struct{ s *remote.Statement }

func (s remoteStmt) ExecuteQuery(sql string) (resultSet, error) {
	rs, err := s.s.ExecuteQuery(sql)
	if err != nil {
		return nil, err
	}
	return remoteResultSet{rs}, nil
}
func (s remoteStmt) ExecuteUpdate(sql string) (int, error) {
	return s.s.ExecuteUpdate(sql)
}

type remoteResultSet struct{ rs *remote.ResultSet }

func (r remoteResultSet) Metadata() ([]columnInfo, error) {
	cols, err := r.rs.Metadata()
	if err != nil {
		return nil, err
	}
	out := make([]columnInfo, len(cols))
	for i, c := range cols {
		out[i] = columnInfo{Name: c.Name, Type: c.Type}
	}
	return out, nil
}
func (r remoteResultSet) Next() (bool, error)                          { return r.rs.Next() }
func (r remoteResultSet) GetI32(field string) (int32, bool, error)     { return r.rs.GetI32(field) }
func (r remoteResultSet) GetString(field string) (string, bool, error) { return r.rs.GetString(field) }
func (r remoteResultSet) Close() error                                 { return r.rs.Close() }
