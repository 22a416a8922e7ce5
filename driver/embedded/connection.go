package embedded

import (
	"sync"

	"simpledb/plan"
	"simpledb/server"
	"simpledb/tx"
)

// Connection is a single client session against a running database. It
// owns exactly one active transaction at a time: every statement executes
// against the current transaction, and Commit/Rollback replace it with a
// fresh one so the connection stays usable afterward.
type Connection struct {
	db      *server.SimpleDB
	planner *plan.Planner

	mu  sync.Mutex
	txn *tx.Transaction
}

func newConnection(db *server.SimpleDB) (*Connection, error) {
	txn, err := db.NewTx()
	if err != nil {
		return nil, err
	}
	return &Connection{
		db:      db,
		planner: plan.NewPlanner(db.MetadataMgr),
		txn:     txn,
	}, nil
}

// CreateStatement returns a Statement bound to this connection's current
// transaction.
func (c *Connection) CreateStatement() *Statement {
	return &Statement{conn: c}
}

func (c *Connection) currentTx() *tx.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txn
}

// Commit commits the connection's current transaction and starts a new one
// in its place.
func (c *Connection) Commit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.txn.Commit(); err != nil {
		return err
	}
	next, err := c.db.NewTx()
	if err != nil {
		return err
	}
	c.txn = next
	return nil
}

// Rollback aborts the connection's current transaction and starts a new
// one in its place.
func (c *Connection) Rollback() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.txn.Rollback(); err != nil {
		return err
	}
	next, err := c.db.NewTx()
	if err != nil {
		return err
	}
	c.txn = next
	return nil
}

// Close commits whatever work is outstanding on the connection's current
// transaction. There is no separate server-side handle to release for an
// embedded connection.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txn.Commit()
}
