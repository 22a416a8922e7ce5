package file

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageIntRoundTrip(t *testing.T) {
	p := NewPage(64)
	p.SetInt(4, -12345)
	require.EqualValues(t, -12345, p.GetInt(4))
}

func TestPageStringRoundTrip(t *testing.T) {
	p := NewPage(64)
	p.SetString(0, "hello")
	require.Equal(t, "hello", p.GetString(0))
	require.Equal(t, 9, MaxLength(5))
}

func TestManagerAppendReadWrite(t *testing.T) {
	dir := t.TempDir()
	fm, err := NewManager(dir, 400)
	require.NoError(t, err)
	require.True(t, fm.IsNew())

	blk, err := fm.Append("t.tbl")
	require.NoError(t, err)
	require.Equal(t, 0, blk.Number)

	n, err := fm.Length("t.tbl")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	p1 := NewPage(400)
	p1.SetInt(0, 42)
	require.NoError(t, fm.Write(blk, p1))

	p2 := NewPage(400)
	require.NoError(t, fm.Read(blk, p2))
	require.EqualValues(t, 42, p2.GetInt(0))

	read, written := fm.Stats()
	require.Equal(t, int64(1), read)
	require.True(t, written >= 2)
}

func TestManagerReopenIsNotNew(t *testing.T) {
	dir := t.TempDir()
	fm, err := NewManager(dir, 400)
	require.NoError(t, err)
	_, err = fm.Append("t.tbl")
	require.NoError(t, err)
	require.NoError(t, fm.Close())

	fm2, err := NewManager(dir, 400)
	require.NoError(t, err)
	require.False(t, fm2.IsNew())
}
