package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simpledb/internal/config"
	"simpledb/record"
)

func TestNewSimpleDBBootstrapsCatalog(t *testing.T) {
	dir := t.TempDir()
	db, err := NewSimpleDB(dir, config.Default())
	require.NoError(t, err)
	require.NotNil(t, db.MetadataMgr)

	txn, err := db.NewTx()
	require.NoError(t, err)

	sch := record.NewSchema()
	sch.AddI32Field("id")
	require.NoError(t, db.MetadataMgr.CreateTable("widgets", sch, txn))

	layout, err := db.MetadataMgr.GetLayout("widgets", txn)
	require.NoError(t, err)
	require.Equal(t, []string{"id"}, layout.Schema().Fields())

	require.NoError(t, txn.Commit())
}

func TestNewSimpleDBReopensExistingCatalog(t *testing.T) {
	dir := t.TempDir()

	db1, err := NewSimpleDB(dir, config.Default())
	require.NoError(t, err)
	txn1, err := db1.NewTx()
	require.NoError(t, err)
	sch := record.NewSchema()
	sch.AddI32Field("id")
	require.NoError(t, db1.MetadataMgr.CreateTable("widgets", sch, txn1))
	require.NoError(t, txn1.Commit())

	db2, err := NewSimpleDB(dir, config.Default())
	require.NoError(t, err)
	txn2, err := db2.NewTx()
	require.NoError(t, err)
	layout, err := db2.MetadataMgr.GetLayout("widgets", txn2)
	require.NoError(t, err)
	require.Equal(t, []string{"id"}, layout.Schema().Fields())
	require.NoError(t, txn2.Commit())
}
