package tx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simpledb/buffer"
	"simpledb/concurrency"
	"simpledb/file"
	"simpledb/wal"
)

type harness struct {
	fm *file.Manager
	lm *wal.Manager
	bp *buffer.Pool
	lt *concurrency.LockTable
}

func newHarness(t *testing.T, numBuffers int) *harness {
	t.Helper()
	dir := t.TempDir()
	fm, err := file.NewManager(dir, 400)
	require.NoError(t, err)
	lm, err := wal.NewManager(fm)
	require.NoError(t, err)
	bp := buffer.NewPool(fm, lm, numBuffers, time.Second)
	lt := concurrency.NewLockTable(time.Second)
	return &harness{fm: fm, lm: lm, bp: bp, lt: lt}
}

// reopen simulates restarting the database against the same files: a fresh
// buffer pool and lock table, forcing NewManager's recovery pass to read
// everything back from the log and disk.
func (h *harness) reopen(numBuffers int) {
	h.bp = buffer.NewPool(h.fm, h.lm, numBuffers, time.Second)
	h.lt = concurrency.NewLockTable(time.Second)
}

func TestSetAndGetWithinOneTransaction(t *testing.T) {
	h := newHarness(t, 8)
	mgr, err := NewManager(h.fm, h.lm, h.bp, h.lt)
	require.NoError(t, err)

	txn, err := mgr.NewTransaction()
	require.NoError(t, err)
	blk, err := txn.Append("t.tbl")
	require.NoError(t, err)
	require.NoError(t, txn.Pin(blk))
	require.NoError(t, txn.SetInt(blk, 0, 42, true))
	require.NoError(t, txn.SetString(blk, 4, "hello", true))

	got, err := txn.GetInt(blk, 0)
	require.NoError(t, err)
	require.EqualValues(t, 42, got)

	gotStr, err := txn.GetString(blk, 4)
	require.NoError(t, err)
	require.Equal(t, "hello", gotStr)

	require.NoError(t, txn.Commit())
}

func TestCommitSurvivesEvictionAndRestart(t *testing.T) {
	h := newHarness(t, 1)
	mgr, err := NewManager(h.fm, h.lm, h.bp, h.lt)
	require.NoError(t, err)

	txn, err := mgr.NewTransaction()
	require.NoError(t, err)
	blk, err := txn.Append("t.tbl")
	require.NoError(t, err)
	require.NoError(t, txn.Pin(blk))
	require.NoError(t, txn.SetInt(blk, 0, 7, true))
	require.NoError(t, txn.Commit())

	h.reopen(1)
	mgr2, err := NewManager(h.fm, h.lm, h.bp, h.lt)
	require.NoError(t, err)
	txn2, err := mgr2.NewTransaction()
	require.NoError(t, err)
	require.NoError(t, txn2.Pin(blk))
	got, err := txn2.GetInt(blk, 0)
	require.NoError(t, err)
	require.EqualValues(t, 7, got)
	require.NoError(t, txn2.Commit())
}

func TestRollbackUndoesWrites(t *testing.T) {
	h := newHarness(t, 8)
	mgr, err := NewManager(h.fm, h.lm, h.bp, h.lt)
	require.NoError(t, err)

	setup, err := mgr.NewTransaction()
	require.NoError(t, err)
	blk, err := setup.Append("t.tbl")
	require.NoError(t, err)
	require.NoError(t, setup.Pin(blk))
	require.NoError(t, setup.SetInt(blk, 0, 1, true))
	require.NoError(t, setup.Commit())

	txn, err := mgr.NewTransaction()
	require.NoError(t, err)
	require.NoError(t, txn.Pin(blk))
	require.NoError(t, txn.SetInt(blk, 0, 999, true))
	require.NoError(t, txn.Rollback())

	verify, err := mgr.NewTransaction()
	require.NoError(t, err)
	require.NoError(t, verify.Pin(blk))
	got, err := verify.GetInt(blk, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, got)
	require.NoError(t, verify.Commit())
}

func TestRecoverUndoesUnfinishedTransaction(t *testing.T) {
	h := newHarness(t, 8)
	mgr, err := NewManager(h.fm, h.lm, h.bp, h.lt)
	require.NoError(t, err)

	setup, err := mgr.NewTransaction()
	require.NoError(t, err)
	blk, err := setup.Append("t.tbl")
	require.NoError(t, err)
	require.NoError(t, setup.Pin(blk))
	require.NoError(t, setup.SetInt(blk, 0, 5, true))
	require.NoError(t, setup.Commit())

	crashed, err := mgr.NewTransaction()
	require.NoError(t, err)
	require.NoError(t, crashed.Pin(blk))
	require.NoError(t, crashed.SetInt(blk, 0, 12345, true))
	// simulate a crash: no commit, no rollback, buffers force-written so the
	// log record is the only trace of the uncommitted change.
	require.NoError(t, h.bp.FlushAll(crashed.TxNumber()))

	h.reopen(8)
	mgr2, err := NewManager(h.fm, h.lm, h.bp, h.lt)
	require.NoError(t, err)
	verify, err := mgr2.NewTransaction()
	require.NoError(t, err)
	require.NoError(t, verify.Pin(blk))
	got, err := verify.GetInt(blk, 0)
	require.NoError(t, err)
	require.EqualValues(t, 5, got)
	require.NoError(t, verify.Commit())
}

func TestSizeAndAppend(t *testing.T) {
	h := newHarness(t, 8)
	mgr, err := NewManager(h.fm, h.lm, h.bp, h.lt)
	require.NoError(t, err)

	txn, err := mgr.NewTransaction()
	require.NoError(t, err)
	n, err := txn.Size("new.tbl")
	require.NoError(t, err)
	require.Equal(t, 0, n)

	_, err = txn.Append("new.tbl")
	require.NoError(t, err)
	_, err = txn.Append("new.tbl")
	require.NoError(t, err)

	n, err = txn.Size("new.tbl")
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.NoError(t, txn.Commit())
}
