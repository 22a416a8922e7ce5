// Package server wires the storage, logging, buffering, locking,
// transaction and catalog layers together into one running database,
// running recovery before handing back control.
package server

import (
	"simpledb/buffer"
	"simpledb/concurrency"
	"simpledb/file"
	"simpledb/internal/config"
	"simpledb/metadata"
	"simpledb/tx"
	"simpledb/wal"

	log "github.com/sirupsen/logrus"
)

// SimpleDB is the top-level container every collaborator (embedded driver,
// remote driver, demo seeder) opens a database through.
type SimpleDB struct {
	FileMgr     *file.Manager
	LogMgr      *wal.Manager
	BufferPool  *buffer.Pool
	LockTable   *concurrency.LockTable
	TxMgr       *tx.Manager
	MetadataMgr *metadata.Manager
}

// NewSimpleDB opens (or creates) the database at dir using cfg's tunables,
// runs crash recovery (inside tx.NewManager), then runs an initial
// transaction that bootstraps (or reopens) the system catalog.
func NewSimpleDB(dir string, cfg config.Config) (*SimpleDB, error) {
	fm, err := file.NewManager(dir, cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	log.WithField("dir", dir).Info("file manager opened")

	lm, err := wal.NewManager(fm)
	if err != nil {
		return nil, err
	}

	bp := buffer.NewPool(fm, lm, cfg.BufferPool, cfg.BufferTimeout)
	lt := concurrency.NewLockTable(cfg.LockTimeout)

	txMgr, err := tx.NewManager(fm, lm, bp, lt)
	if err != nil {
		return nil, err
	}

	// tx.NewManager already ran crash recovery; this first transaction
	// only needs to bootstrap (or reopen) the catalog.
	txn, err := txMgr.NewTransaction()
	if err != nil {
		return nil, err
	}
	mdMgr, err := metadata.NewManager(fm.IsNew(), txn)
	if err != nil {
		return nil, err
	}
	if err := txn.Commit(); err != nil {
		return nil, err
	}
	log.WithField("isNew", fm.IsNew()).Info("catalog ready")

	return &SimpleDB{
		FileMgr:     fm,
		LogMgr:      lm,
		BufferPool:  bp,
		LockTable:   lt,
		TxMgr:       txMgr,
		MetadataMgr: mdMgr,
	}, nil
}

// NewTx starts a fresh transaction against the running database.
func (s *SimpleDB) NewTx() (*tx.Transaction, error) {
	return s.TxMgr.NewTransaction()
}
