package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simpledb/buffer"
	"simpledb/concurrency"
	"simpledb/file"
	"simpledb/record"
	"simpledb/tx"
	"simpledb/wal"
)

func newTestTx(t *testing.T) (*tx.Manager, *tx.Transaction, bool) {
	t.Helper()
	dir := t.TempDir()
	fm, err := file.NewManager(dir, 400)
	require.NoError(t, err)
	lm, err := wal.NewManager(fm)
	require.NoError(t, err)
	bp := buffer.NewPool(fm, lm, 8, time.Second)
	lt := concurrency.NewLockTable(time.Second)
	mgr, err := tx.NewManager(fm, lm, bp, lt)
	require.NoError(t, err)
	txn, err := mgr.NewTransaction()
	require.NoError(t, err)
	return mgr, txn, fm.IsNew()
}

func TestCreateTableAndReconstructLayout(t *testing.T) {
	_, txn, isNew := newTestTx(t)
	mdMgr, err := NewManager(isNew, txn)
	require.NoError(t, err)

	schema := record.NewSchema()
	schema.AddI32Field("id")
	schema.AddStringField("name", 10)
	require.NoError(t, mdMgr.CreateTable("students", schema, txn))

	layout, err := mdMgr.GetLayout("students", txn)
	require.NoError(t, err)
	require.True(t, layout.Schema().HasField("id"))
	require.True(t, layout.Schema().HasField("name"))
	require.Equal(t, record.I32, layout.Schema().Type("id"))
	require.Equal(t, record.Varchar, layout.Schema().Type("name"))
	require.Equal(t, 10, layout.Schema().Length("name"))

	original := record.NewLayout(schema)
	require.Equal(t, original.SlotSize(), layout.SlotSize())
	require.Equal(t, original.Offset("id"), layout.Offset("id"))
	require.Equal(t, original.Offset("name"), layout.Offset("name"))

	require.NoError(t, txn.Commit())
}

func TestViewRoundTrip(t *testing.T) {
	_, txn, isNew := newTestTx(t)
	mdMgr, err := NewManager(isNew, txn)
	require.NoError(t, err)

	require.NoError(t, mdMgr.Views.CreateView("v1", "select id from students", txn))
	def, ok, err := mdMgr.Views.GetViewDef("v1", txn)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "select id from students", def)

	_, ok, err = mdMgr.Views.GetViewDef("missing", txn)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, txn.Commit())
}

func TestStatsReflectInsertedRows(t *testing.T) {
	_, txn, isNew := newTestTx(t)
	mdMgr, err := NewManager(isNew, txn)
	require.NoError(t, err)

	schema := record.NewSchema()
	schema.AddI32Field("id")
	require.NoError(t, mdMgr.CreateTable("t", schema, txn))
	layout, err := mdMgr.GetLayout("t", txn)
	require.NoError(t, err)

	ts, err := record.NewTableScan(txn, "t", layout)
	require.NoError(t, err)
	for i := int32(0); i < 5; i++ {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("id", i))
	}
	require.NoError(t, ts.Close())

	si, err := mdMgr.Stats.GetStatInfo("t", schema, txn)
	require.NoError(t, err)
	require.Equal(t, 5, si.NumRecords)

	require.NoError(t, txn.Commit())
}

func TestIndexInfoRoundTrip(t *testing.T) {
	_, txn, isNew := newTestTx(t)
	mdMgr, err := NewManager(isNew, txn)
	require.NoError(t, err)

	schema := record.NewSchema()
	schema.AddI32Field("id")
	require.NoError(t, mdMgr.CreateTable("t", schema, txn))
	require.NoError(t, mdMgr.Index.CreateIndex("idx_id", "t", "id", IndexKindHash, txn))

	infos, err := mdMgr.Index.GetIndexInfo("t", txn)
	require.NoError(t, err)
	info, ok := infos["id"]
	require.True(t, ok)
	require.Equal(t, "idx_id", info.IndexName)
	require.Equal(t, IndexKindHash, info.Kind)
	require.GreaterOrEqual(t, info.BlocksAccessed(), 0)

	idx, err := info.Open()
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	require.NoError(t, txn.Commit())
}

func TestIndexInfoBTreeRebuildsFromBaseTable(t *testing.T) {
	_, txn, isNew := newTestTx(t)
	mdMgr, err := NewManager(isNew, txn)
	require.NoError(t, err)

	schema := record.NewSchema()
	schema.AddI32Field("id")
	require.NoError(t, mdMgr.CreateTable("t2", schema, txn))
	require.NoError(t, mdMgr.Index.CreateIndex("idx_t2_id", "t2", "id", IndexKindBTree, txn))

	layout, err := mdMgr.GetLayout("t2", txn)
	require.NoError(t, err)
	ts, err := record.NewTableScan(txn, "t2", layout)
	require.NoError(t, err)
	require.NoError(t, ts.Insert())
	require.NoError(t, ts.SetInt("id", 7))
	require.NoError(t, ts.Close())

	infos, err := mdMgr.Index.GetIndexInfo("t2", txn)
	require.NoError(t, err)
	info := infos["id"]
	idx, err := info.Open()
	require.NoError(t, err)
	require.NoError(t, idx.BeforeFirst(record.IntConstant(7)))
	ok, err := idx.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, idx.Close())

	require.NoError(t, txn.Commit())
}
