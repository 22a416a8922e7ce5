// Package config loads database-open options from an optional HCL file,
// falling back to the engine's built-in defaults for anything the file
// leaves unset.
package config

import (
	"os"
	"time"

	"github.com/hashicorp/hcl"

	"simpledb/common"
)

// Config holds the tunables server.NewSimpleDB needs to open a database.
type Config struct {
	BlockSize     int
	BufferPool    int
	BufferTimeout time.Duration
	LockTimeout   time.Duration
}

// Default returns a Config populated entirely from common's built-in
// defaults.
func Default() Config {
	return Config{
		BlockSize:     common.DefaultBlockSize,
		BufferPool:    common.DefaultBufferPoolSize,
		BufferTimeout: common.DefaultBufferTimeout,
		LockTimeout:   common.DefaultLockTimeout,
	}
}

// Load reads path (an HCL file) and overlays its settings onto the
// defaults. A missing path is not an error: Load simply returns the
// defaults, matching the "in-code defaults when absent" contract.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	var raw struct {
		BlockSize            int `hcl:"block_size"`
		BufferPool           int `hcl:"buffer_pool"`
		BufferTimeoutSeconds int `hcl:"buffer_timeout_seconds"`
		LockTimeoutSeconds   int `hcl:"lock_timeout_seconds"`
	}
	if err := hcl.Decode(&raw, string(b)); err != nil {
		return cfg, err
	}
	if raw.BlockSize > 0 {
		cfg.BlockSize = raw.BlockSize
	}
	if raw.BufferPool > 0 {
		cfg.BufferPool = raw.BufferPool
	}
	if raw.BufferTimeoutSeconds > 0 {
		cfg.BufferTimeout = time.Duration(raw.BufferTimeoutSeconds) * time.Second
	}
	if raw.LockTimeoutSeconds > 0 {
		cfg.LockTimeout = time.Duration(raw.LockTimeoutSeconds) * time.Second
	}
	return cfg, nil
}
