// Package embedded is the in-process collaborator surface: Driver →
// Connection → Statement → ResultSet, mirroring a JDBC-style embedded
// client sitting directly on top of the engine's planner.
package embedded

import (
	"simpledb/internal/config"
	"simpledb/server"
)

// Driver opens SimpleDB databases in-process.
type Driver struct{}

// NewDriver returns an embedded Driver. It carries no state of its own;
// every open database lives in the Connection it returns.
func NewDriver() *Driver {
	return &Driver{}
}

// Connect opens (or creates) the database directory at dbPath using cfg,
// returning a Connection ready for statements.
func (d *Driver) Connect(dbPath string, cfg config.Config) (*Connection, error) {
	db, err := server.NewSimpleDB(dbPath, cfg)
	if err != nil {
		return nil, err
	}
	return newConnection(db)
}
