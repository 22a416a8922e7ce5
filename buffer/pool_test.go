package buffer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simpledb/common"
	"simpledb/file"
	"simpledb/wal"
)

func newTestPool(t *testing.T, numBuffers int) (*Pool, *file.Manager) {
	t.Helper()
	dir := t.TempDir()
	fm, err := file.NewManager(dir, 400)
	require.NoError(t, err)
	lm, err := wal.NewManager(fm)
	require.NoError(t, err)
	return NewPool(fm, lm, numBuffers, 200*time.Millisecond), fm
}

func TestPinUnpinReuse(t *testing.T) {
	pool, fm := newTestPool(t, 2)
	blk, err := fm.Append("t.tbl")
	require.NoError(t, err)

	b1, err := pool.Pin(blk)
	require.NoError(t, err)
	b2, err := pool.Pin(blk)
	require.NoError(t, err)
	require.Same(t, b1, b2)
	require.Equal(t, 1, pool.Available())

	pool.Unpin(b1)
	pool.Unpin(b2)
	require.Equal(t, 2, pool.Available())
}

func TestPinTimesOutWhenFull(t *testing.T) {
	pool, fm := newTestPool(t, 1)
	blk0, err := fm.Append("t.tbl")
	require.NoError(t, err)
	blk1, err := fm.Append("t.tbl")
	require.NoError(t, err)

	_, err = pool.Pin(blk0)
	require.NoError(t, err)

	_, err = pool.Pin(blk1)
	require.Error(t, err)
	code, ok := common.CodeOf(err)
	require.True(t, ok)
	require.Equal(t, common.BufferAbort, code)
}

func TestFlushAllWritesDirtyFrames(t *testing.T) {
	pool, fm := newTestPool(t, 2)
	blk, err := fm.Append("t.tbl")
	require.NoError(t, err)

	buf, err := pool.Pin(blk)
	require.NoError(t, err)
	buf.Contents().SetInt(0, 99)
	buf.SetModified(7, -1)
	require.NoError(t, pool.FlushAll(7))

	page := file.NewPage(400)
	require.NoError(t, fm.Read(blk, page))
	require.EqualValues(t, 99, page.GetInt(0))
}
