package concurrency

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simpledb/common"
	"simpledb/file"
)

func TestSharedLocksAreCompatible(t *testing.T) {
	lt := NewLockTable(100 * time.Millisecond)
	blk := file.New("t.tbl", 0)
	require.NoError(t, lt.SLock(blk))
	require.NoError(t, lt.SLock(blk))
}

func TestExclusiveLockExcludesShared(t *testing.T) {
	lt := NewLockTable(50 * time.Millisecond)
	blk := file.New("t.tbl", 0)
	require.NoError(t, lt.SLock(blk))
	require.NoError(t, lt.XLock(blk))

	done := make(chan error, 1)
	go func() {
		done <- lt.SLock(blk)
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		code, ok := common.CodeOf(err)
		require.True(t, ok)
		require.Equal(t, common.LockAbort, code)
	case <-time.After(2 * time.Second):
		t.Fatal("SLock should have timed out")
	}
}

func TestUnlockWakesWaiters(t *testing.T) {
	lt := NewLockTable(2 * time.Second)
	blk := file.New("t.tbl", 0)
	require.NoError(t, lt.SLock(blk))
	require.NoError(t, lt.XLock(blk))

	var wg sync.WaitGroup
	wg.Add(1)
	var slockErr error
	go func() {
		defer wg.Done()
		slockErr = lt.SLock(blk)
	}()

	time.Sleep(50 * time.Millisecond)
	lt.Unlock(blk)
	wg.Wait()
	require.NoError(t, slockErr)
}

func TestManagerReleaseAll(t *testing.T) {
	lt := NewLockTable(100 * time.Millisecond)
	blk := file.New("t.tbl", 0)

	m1 := NewManager(lt)
	require.NoError(t, m1.XLock(blk))

	m2 := NewManager(lt)
	errCh := make(chan error, 1)
	go func() { errCh <- m2.SLock(blk) }()

	select {
	case err := <-errCh:
		t.Fatalf("expected block, got %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	m1.ReleaseAll()
	require.NoError(t, <-errCh)
}
