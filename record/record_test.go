package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simpledb/buffer"
	"simpledb/concurrency"
	"simpledb/file"
	"simpledb/tx"
	"simpledb/wal"
)

func newTestTx(t *testing.T) (*tx.Manager, *tx.Transaction) {
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
	return mgr, txn
}

func testSchema() *Schema {
	s := NewSchema()
	s.AddI32Field("id")
	s.AddStringField("name", 10)
	return s
}

func TestLayoutIsPureFunctionOfSchema(t *testing.T) {
	l1 := NewLayout(testSchema())
	l2 := NewLayout(testSchema())
	require.Equal(t, l1.SlotSize(), l2.SlotSize())
	require.Equal(t, l1.Offset("id"), l2.Offset("id"))
	require.Equal(t, l1.Offset("name"), l2.Offset("name"))
}

func TestTableScanRoundTripAndNulls(t *testing.T) {
	_, txn := newTestTx(t)
	layout := NewLayout(testSchema())

	ts, err := NewTableScan(txn, "t", layout)
	require.NoError(t, err)

	require.NoError(t, ts.Insert())
	require.NoError(t, ts.SetInt("id", 1))
	require.NoError(t, ts.SetString("name", "joe"))

	require.NoError(t, ts.Insert())
	require.NoError(t, ts.SetInt("id", 2))
	require.NoError(t, ts.SetNull("name"))

	require.NoError(t, ts.BeforeFirst())

	ok, err := ts.Next()
	require.NoError(t, err)
	require.True(t, ok)
	id, err := ts.GetInt("id")
	require.NoError(t, err)
	require.EqualValues(t, 1, id)
	name, err := ts.GetString("name")
	require.NoError(t, err)
	require.Equal(t, "joe", name)
	null, err := ts.IsNull("name")
	require.NoError(t, err)
	require.False(t, null)

	ok, err = ts.Next()
	require.NoError(t, err)
	require.True(t, ok)
	null, err = ts.IsNull("name")
	require.NoError(t, err)
	require.True(t, null)

	ok, err = ts.Next()
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, ts.Close())
	require.NoError(t, txn.Commit())
}

func TestTableScanPreviousIsReverseOfNext(t *testing.T) {
	_, txn := newTestTx(t)
	layout := NewLayout(testSchema())
	ts, err := NewTableScan(txn, "t", layout)
	require.NoError(t, err)

	var ids []int32
	for i := int32(0); i < 5; i++ {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("id", i))
		ids = append(ids, i)
	}

	require.NoError(t, ts.AfterLast())
	var seen []int32
	for {
		ok, err := ts.Previous()
		require.NoError(t, err)
		if !ok {
			break
		}
		id, err := ts.GetInt("id")
		require.NoError(t, err)
		seen = append(seen, id)
	}
	require.Len(t, seen, len(ids))
	for i, id := range seen {
		require.Equal(t, ids[len(ids)-1-i], id)
	}
	require.NoError(t, ts.Close())
	require.NoError(t, txn.Commit())
}

func TestTableScanDeleteThenScanSkipsIt(t *testing.T) {
	_, txn := newTestTx(t)
	layout := NewLayout(testSchema())
	ts, err := NewTableScan(txn, "t", layout)
	require.NoError(t, err)

	require.NoError(t, ts.Insert())
	require.NoError(t, ts.SetInt("id", 1))
	rid := ts.GetRid()

	require.NoError(t, ts.Insert())
	require.NoError(t, ts.SetInt("id", 2))

	require.NoError(t, ts.MoveToRid(rid))
	require.NoError(t, ts.Delete())

	require.NoError(t, ts.BeforeFirst())
	count := 0
	for {
		ok, err := ts.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, 1, count)
	require.NoError(t, ts.Close())
	require.NoError(t, txn.Commit())
}

func TestTableScanSpansMultipleBlocks(t *testing.T) {
	_, txn := newTestTx(t)
	layout := NewLayout(testSchema())
	ts, err := NewTableScan(txn, "t", layout)
	require.NoError(t, err)

	const n = 200
	for i := int32(0); i < n; i++ {
		require.NoError(t, ts.Insert())
		require.NoError(t, ts.SetInt("id", i))
	}

	require.NoError(t, ts.BeforeFirst())
	count := 0
	for {
		ok, err := ts.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		count++
	}
	require.Equal(t, n, count)
	require.NoError(t, ts.Close())
	require.NoError(t, txn.Commit())
}
