package remote

import (
	"net"
	"net/rpc"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"simpledb/common"
	"simpledb/driver/embedded"
	"simpledb/internal/config"
)

// registry holds every server-side object currently checked out by a
// remote client, keyed by the handle returned to that client.
type registry struct {
	driver *embedded.Driver
	nextID int64

	mu    sync.Mutex
	conns map[Handle]*embedded.Connection
	stmts map[Handle]*embedded.Statement
	rsets map[Handle]*embedded.ResultSet
}

func newRegistry() *registry {
	return &registry{
		driver: embedded.NewDriver(),
		conns:  make(map[Handle]*embedded.Connection),
		stmts:  make(map[Handle]*embedded.Statement),
		rsets:  make(map[Handle]*embedded.ResultSet),
	}
}

func (r *registry) alloc() Handle {
	return Handle(atomic.AddInt64(&r.nextID, 1))
}

func (r *registry) putConn(c *embedded.Connection) Handle {
	h := r.alloc()
	r.mu.Lock()
	r.conns[h] = c
	r.mu.Unlock()
	return h
}

func (r *registry) conn(h Handle) (*embedded.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[h]
	if !ok {
		return nil, common.New(common.NotFound, "unknown connection handle %d", h)
	}
	return c, nil
}

func (r *registry) putStmt(s *embedded.Statement) Handle {
	h := r.alloc()
	r.mu.Lock()
	r.stmts[h] = s
	r.mu.Unlock()
	return h
}

func (r *registry) stmt(h Handle) (*embedded.Statement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stmts[h]
	if !ok {
		return nil, common.New(common.NotFound, "unknown statement handle %d", h)
	}
	return s, nil
}

func (r *registry) putResultSet(rs *embedded.ResultSet) Handle {
	h := r.alloc()
	r.mu.Lock()
	r.rsets[h] = rs
	r.mu.Unlock()
	return h
}

func (r *registry) resultSet(h Handle) (*embedded.ResultSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rs, ok := r.rsets[h]
	if !ok {
		return nil, common.New(common.NotFound, "unknown result set handle %d", h)
	}
	return rs, nil
}

func (r *registry) dropConn(h Handle) {
	r.mu.Lock()
	delete(r.conns, h)
	r.mu.Unlock()
}

func (r *registry) dropResultSet(h Handle) {
	r.mu.Lock()
	delete(r.rsets, h)
	r.mu.Unlock()
}

// DriverService is the RPC entry point clients use to open a connection.
type DriverService struct{ reg *registry }

// Connect opens (or creates) the database at args.DBPath and returns a
// handle to the new connection.
func (d *DriverService) Connect(args ConnectArgs, reply *ConnectReply) error {
	cfg := config.Default()
	if args.BlockSize > 0 {
		cfg.BlockSize = args.BlockSize
	}
	if args.BufferPool > 0 {
		cfg.BufferPool = args.BufferPool
	}
	conn, err := d.reg.driver.Connect(args.DBPath, cfg)
	if err != nil {
		return err
	}
	reply.Conn = d.reg.putConn(conn)
	return nil
}

// ConnectionService exposes create-statement, commit, rollback and close
// for a connection named by handle.
type ConnectionService struct{ reg *registry }

// CreateStatement returns a handle to a new statement bound to args.Conn.
func (c *ConnectionService) CreateStatement(args HandleArgs, reply *HandleReply) error {
	conn, err := c.reg.conn(args.Conn)
	if err != nil {
		return err
	}
	reply.Handle = c.reg.putStmt(conn.CreateStatement())
	return nil
}

// Commit commits args.Conn's current transaction.
func (c *ConnectionService) Commit(args HandleArgs, _ *Empty) error {
	conn, err := c.reg.conn(args.Conn)
	if err != nil {
		return err
	}
	return conn.Commit()
}

// Rollback aborts args.Conn's current transaction.
func (c *ConnectionService) Rollback(args HandleArgs, _ *Empty) error {
	conn, err := c.reg.conn(args.Conn)
	if err != nil {
		return err
	}
	return conn.Rollback()
}

// Close releases args.Conn's server-side handle.
func (c *ConnectionService) Close(args HandleArgs, _ *Empty) error {
	conn, err := c.reg.conn(args.Conn)
	if err != nil {
		return err
	}
	defer c.reg.dropConn(args.Conn)
	return conn.Close()
}

// StatementService executes SQL against a statement named by handle.
type StatementService struct{ reg *registry }

// ExecuteQuery runs args.SQL as a SELECT and returns a handle to the
// resulting result set.
func (s *StatementService) ExecuteQuery(args QueryArgs, reply *QueryReply) error {
	stmt, err := s.reg.stmt(args.Stmt)
	if err != nil {
		return err
	}
	rs, err := stmt.ExecuteQuery(args.SQL)
	if err != nil {
		return err
	}
	reply.ResultSet = s.reg.putResultSet(rs)
	return nil
}

// ExecuteUpdate runs args.SQL as an INSERT/DELETE/MODIFY/DDL statement.
func (s *StatementService) ExecuteUpdate(args UpdateArgs, reply *UpdateReply) error {
	stmt, err := s.reg.stmt(args.Stmt)
	if err != nil {
		return err
	}
	n, err := stmt.ExecuteUpdate(args.SQL)
	if err != nil {
		return err
	}
	reply.RowsAffected = n
	return nil
}

// ResultSetService drives a cursor over a query's rows, and doubles as the
// façade's metadata service.
type ResultSetService struct{ reg *registry }

// Metadata returns every column's name, type code and display size.
func (r *ResultSetService) Metadata(args ResultSetArgs, reply *MetadataReply) error {
	rs, err := r.reg.resultSet(args.ResultSet)
	if err != nil {
		return err
	}
	md := rs.GetMetadata()
	cols := make([]ColumnMeta, md.ColumnCount())
	for i := range cols {
		cols[i] = ColumnMeta{
			Name:        md.ColumnName(i),
			Type:        md.ColumnType(i),
			DisplaySize: md.ColumnDisplaySize(i),
		}
	}
	reply.Columns = cols
	return nil
}

// BeforeFirst repositions the cursor before the first row.
func (r *ResultSetService) BeforeFirst(args ResultSetArgs, _ *Empty) error {
	rs, err := r.reg.resultSet(args.ResultSet)
	if err != nil {
		return err
	}
	return rs.BeforeFirst()
}

// Next advances the cursor.
func (r *ResultSetService) Next(args ResultSetArgs, reply *BoolReply) error {
	rs, err := r.reg.resultSet(args.ResultSet)
	if err != nil {
		return err
	}
	ok, err := rs.Next()
	reply.Ok = ok
	return err
}

// Previous moves the cursor backward.
func (r *ResultSetService) Previous(args ResultSetArgs, reply *BoolReply) error {
	rs, err := r.reg.resultSet(args.ResultSet)
	if err != nil {
		return err
	}
	ok, err := rs.Previous()
	reply.Ok = ok
	return err
}

// AfterLast repositions the cursor after the last row.
func (r *ResultSetService) AfterLast(args ResultSetArgs, _ *Empty) error {
	rs, err := r.reg.resultSet(args.ResultSet)
	if err != nil {
		return err
	}
	return rs.AfterLast()
}

// Absolute jumps the cursor to row args.N.
func (r *ResultSetService) Absolute(args AbsoluteArgs, reply *BoolReply) error {
	rs, err := r.reg.resultSet(args.ResultSet)
	if err != nil {
		return err
	}
	ok, err := rs.Absolute(args.N)
	reply.Ok = ok
	return err
}

// GetI32 returns the current row's value for args.Field.
func (r *ResultSetService) GetI32(args GetFieldArgs, reply *GetI32Reply) error {
	rs, err := r.reg.resultSet(args.ResultSet)
	if err != nil {
		return err
	}
	v, err := rs.GetI32(args.Field)
	if err != nil {
		return err
	}
	reply.Value = v
	reply.IsNull = rs.WasNull()
	return nil
}

// GetString returns the current row's value for args.Field.
func (r *ResultSetService) GetString(args GetFieldArgs, reply *GetStringReply) error {
	rs, err := r.reg.resultSet(args.ResultSet)
	if err != nil {
		return err
	}
	v, err := rs.GetString(args.Field)
	if err != nil {
		return err
	}
	reply.Value = v
	reply.IsNull = rs.WasNull()
	return nil
}

// Close releases args.ResultSet's server-side handle.
func (r *ResultSetService) Close(args ResultSetArgs, _ *Empty) error {
	rs, err := r.reg.resultSet(args.ResultSet)
	if err != nil {
		return err
	}
	defer r.reg.dropResultSet(args.ResultSet)
	return rs.Close()
}

// Serve registers the four services on their own net/rpc server and
// accepts connections on ln until it is closed.
func Serve(ln net.Listener) error {
	reg := newRegistry()
	srv := rpc.NewServer()
	if err := srv.RegisterName("DriverService", &DriverService{reg: reg}); err != nil {
		return err
	}
	if err := srv.RegisterName("ConnectionService", &ConnectionService{reg: reg}); err != nil {
		return err
	}
	if err := srv.RegisterName("StatementService", &StatementService{reg: reg}); err != nil {
		return err
	}
	if err := srv.RegisterName("ResultSetService", &ResultSetService{reg: reg}); err != nil {
		return err
	}
	log.WithField("addr", ln.Addr().String()).Info("simpledb rpc server listening")
	srv.Accept(ln)
	return nil
}
