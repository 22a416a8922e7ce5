package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"simpledb/common"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, common.DefaultBlockSize, cfg.BlockSize)
	require.Equal(t, common.DefaultBufferPoolSize, cfg.BufferPool)
	require.Equal(t, common.DefaultBufferTimeout, cfg.BufferTimeout)
	require.Equal(t, common.DefaultLockTimeout, cfg.LockTimeout)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.hcl"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverlaysGivenFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simpledb.hcl")
	body := `
block_size = 800
buffer_pool = 16
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 800, cfg.BlockSize)
	require.Equal(t, 16, cfg.BufferPool)
	// Unset fields keep their defaults.
	require.Equal(t, common.DefaultBufferTimeout, cfg.BufferTimeout)
	require.Equal(t, common.DefaultLockTimeout, cfg.LockTimeout)
}

func TestLoadOverlaysTimeouts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simpledb.hcl")
	body := `
buffer_timeout_seconds = 5
lock_timeout_seconds = 3
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.BufferTimeout)
	require.Equal(t, 3*time.Second, cfg.LockTimeout)
}
