package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"simpledb/common"
)

// Manager opens a database directory and serves paged I/O over the files in
// it. A single mutex serialises every operation; the design permits this
// because block I/O is expected to dominate over lock contention, and it
// keeps the append/length bookkeeping trivially correct.
type Manager struct {
	dbDirectory string
	blockSize   int
	isNew       bool

	mu    sync.Mutex
	files map[string]*os.File

	blocksRead    atomic.Int64
	blocksWritten atomic.Int64
}

// NewManager opens (creating if necessary) the database directory dbDirectory
// with the given block size. A directory that did not exist or held no files
// counts as a new database. On first creation of the directory, or on any
// open, stale temp-*.tbl files left behind by a prior materialization are
// removed.
func NewManager(dbDirectory string, blockSize int) (*Manager, error) {
	isNew := false
	if _, err := os.Stat(dbDirectory); os.IsNotExist(err) {
		isNew = true
		if err := os.MkdirAll(dbDirectory, 0o755); err != nil {
			return nil, common.Wrap(common.IoError, err, "creating database directory %s", dbDirectory)
		}
	}

	m := &Manager{
		dbDirectory: dbDirectory,
		blockSize:   blockSize,
		isNew:       isNew,
		files:       make(map[string]*os.File),
	}

	entries, err := os.ReadDir(dbDirectory)
	if err != nil {
		return nil, common.Wrap(common.IoError, err, "reading database directory %s", dbDirectory)
	}
	if len(entries) == 0 {
		m.isNew = true
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "temp-") {
			_ = os.Remove(filepath.Join(dbDirectory, e.Name()))
		}
	}

	return m, nil
}

// BlockSize returns the fixed block size this manager was opened with.
func (m *Manager) BlockSize() int {
	return m.blockSize
}

// IsNew reports whether the database directory did not exist or was empty
// prior to this open (used by the server bootstrap to decide whether to
// create the system catalog).
func (m *Manager) IsNew() bool {
	return m.isNew
}

func (m *Manager) getFile(filename string) (*os.File, error) {
	if f, ok := m.files[filename]; ok {
		return f, nil
	}
	path := filepath.Join(m.dbDirectory, filename)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, common.Wrap(common.IoError, err, "opening %s", path)
	}
	m.files[filename] = f
	return f, nil
}

// Read fills page with the contents of blk. Reading a block past the
// current end of file leaves the page's existing contents untouched, since
// a freshly extended file reads back as zeros on most filesystems anyway.
func (m *Manager) Read(blk Block, page *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.getFile(blk.Filename)
	if err != nil {
		return err
	}
	m.blocksRead.Add(1)
	_, err = f.ReadAt(page.Contents(), int64(blk.Number)*int64(m.blockSize))
	if err != nil && err.Error() != "EOF" {
		return common.Wrap(common.IoError, err, "reading %s", blk)
	}
	return nil
}

// Write flushes page's contents to blk.
func (m *Manager) Write(blk Block, page *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, err := m.getFile(blk.Filename)
	if err != nil {
		return err
	}
	m.blocksWritten.Add(1)
	if _, err := f.WriteAt(page.Contents(), int64(blk.Number)*int64(m.blockSize)); err != nil {
		return common.Wrap(common.IoError, err, "writing %s", blk)
	}
	return nil
}

// Append extends filename by one zero-filled block and returns its block
// number.
func (m *Manager) Append(filename string) (Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	newBlockNum, err := m.length(filename)
	if err != nil {
		return Block{}, err
	}
	blk := New(filename, newBlockNum)
	f, err := m.getFile(filename)
	if err != nil {
		return Block{}, err
	}
	zeros := make([]byte, m.blockSize)
	m.blocksWritten.Add(1)
	if _, err := f.WriteAt(zeros, int64(blk.Number)*int64(m.blockSize)); err != nil {
		return Block{}, common.Wrap(common.IoError, err, "appending to %s", filename)
	}
	return blk, nil
}

// Length returns the number of blocks currently allocated to filename.
func (m *Manager) Length(filename string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.length(filename)
}

func (m *Manager) length(filename string) (int, error) {
	f, err := m.getFile(filename)
	if err != nil {
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		return 0, common.Wrap(common.IoError, err, "stat %s", filename)
	}
	return int(info.Size()) / m.blockSize, nil
}

// Remove closes and deletes filename, for dropping materialization scratch
// files once a sort or group-by finishes with them. Removing a file that was
// never opened is not an error.
func (m *Manager) Remove(filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.files[filename]; ok {
		_ = f.Close()
		delete(m.files, filename)
	}
	path := filepath.Join(m.dbDirectory, filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return common.Wrap(common.IoError, err, "removing %s", path)
	}
	return nil
}

// Stats returns the number of blocks read and written since the manager was
// opened, for diagnostics.
func (m *Manager) Stats() (blocksRead, blocksWritten int64) {
	return m.blocksRead.Load(), m.blocksWritten.Load()
}

// Close closes every open file handle.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	for _, f := range m.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
