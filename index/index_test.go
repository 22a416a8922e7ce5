package index

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

func newTestTx(t *testing.T) *tx.Transaction {
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
	return txn
}

func idxLayout() *record.Layout {
	schema := record.NewSchema()
	schema.AddI32Field("block")
	schema.AddI32Field("id")
	schema.AddI32Field("dataval")
	return record.NewLayout(schema)
}

func TestHashIndexInsertLookupDelete(t *testing.T) {
	txn := newTestTx(t)
	idx := NewHashIndex(txn, "idx_id", idxLayout())

	rid1 := record.NewRID(0, 1)
	rid2 := record.NewRID(0, 2)
	require.NoError(t, idx.Insert(record.IntConstant(42), rid1))
	require.NoError(t, idx.Insert(record.IntConstant(42), rid2))
	require.NoError(t, idx.Insert(record.IntConstant(7), record.NewRID(1, 0)))

	require.NoError(t, idx.BeforeFirst(record.IntConstant(42)))
	var found []record.RID
	for {
		ok, err := idx.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		rid, err := idx.DataRid()
		require.NoError(t, err)
		found = append(found, rid)
	}
	require.ElementsMatch(t, []record.RID{rid1, rid2}, found)

	require.NoError(t, idx.Delete(record.IntConstant(42), rid1))
	require.NoError(t, idx.BeforeFirst(record.IntConstant(42)))
	found = nil
	for {
		ok, err := idx.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		rid, err := idx.DataRid()
		require.NoError(t, err)
		found = append(found, rid)
	}
	require.Equal(t, []record.RID{rid2}, found)

	require.NoError(t, idx.Close())
	require.NoError(t, txn.Commit())
}

func TestBTreeIndexInsertLookupDelete(t *testing.T) {
	idx := NewBTreeIndex("bt_test_1")
	rid1 := record.NewRID(0, 1)
	rid2 := record.NewRID(0, 2)
	require.NoError(t, idx.Insert(record.StringConstant("a"), rid1))
	require.NoError(t, idx.Insert(record.StringConstant("a"), rid2))
	require.NoError(t, idx.Insert(record.StringConstant("b"), record.NewRID(2, 0)))

	require.NoError(t, idx.BeforeFirst(record.StringConstant("a")))
	var found []record.RID
	for {
		ok, err := idx.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		rid, err := idx.DataRid()
		require.NoError(t, err)
		found = append(found, rid)
	}
	require.ElementsMatch(t, []record.RID{rid1, rid2}, found)
	require.NoError(t, idx.Close())

	require.NoError(t, idx.Delete(record.StringConstant("a"), rid1))
	require.NoError(t, idx.BeforeFirst(record.StringConstant("a")))
	found = nil
	for {
		ok, err := idx.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		rid, err := idx.DataRid()
		require.NoError(t, err)
		found = append(found, rid)
	}
	require.Equal(t, []record.RID{rid2}, found)
	require.NoError(t, idx.Close())
}
