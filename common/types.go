package common

import "time"

// Defaults mirror the values named in the design: a 400-byte block, an
// eight-frame buffer pool, and ten-second timeouts for both the buffer
// pool's replacement wait and the lock table's deadlock-avoidance wait.
const (
	DefaultBlockSize      = 400
	DefaultBufferPoolSize = 8
)

// DefaultBufferTimeout is how long Pool.Pin waits for a free frame before
// failing with BufferAbort.
var DefaultBufferTimeout = 10 * time.Second

// DefaultLockTimeout is how long the lock table waits for a compatible lock
// before failing with LockAbort.
var DefaultLockTimeout = 10 * time.Second
