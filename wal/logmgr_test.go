package wal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"simpledb/file"
)

func TestAppendAndIterateBackwards(t *testing.T) {
	dir := t.TempDir()
	fm, err := file.NewManager(dir, 64)
	require.NoError(t, err)

	lm, err := NewManager(fm)
	require.NoError(t, err)

	var lsns []int
	records := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	for _, r := range records {
		lsn, err := lm.Append(r)
		require.NoError(t, err)
		lsns = append(lsns, lsn)
	}
	require.Equal(t, []int{1, 2, 3}, lsns)
	require.NoError(t, lm.Flush(lsns[len(lsns)-1]))

	it, err := lm.Iterator()
	require.NoError(t, err)

	var got [][]byte
	for it.HasNext() {
		rec, err := it.Next()
		require.NoError(t, err)
		got = append(got, rec)
	}
	require.Equal(t, [][]byte{[]byte("three"), []byte("two"), []byte("one")}, got)
}

func TestAppendSpillsAcrossPages(t *testing.T) {
	dir := t.TempDir()
	fm, err := file.NewManager(dir, 32)
	require.NoError(t, err)
	lm, err := NewManager(fm)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		_, err := lm.Append([]byte("payload-record"))
		require.NoError(t, err)
	}
	n, err := fm.Length("simpledb.log")
	require.NoError(t, err)
	require.Greater(t, n, 1)
}
