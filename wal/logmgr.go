// Package wal implements the write-ahead log: an append-only sequence of
// variable-length records, iterable from newest to oldest, with LSNs that
// are monotonically increasing record positions.
package wal

import (
	"sync"

	"simpledb/file"
)

const logFilename = "simpledb.log"

// Manager owns a single log file. Records are appended right-to-left within
// the current page, which is always the log file's last block, and a new
// page is appended once a record no longer fits in the current one.
// Byte 0 of every log page stores a "boundary" offset: the start of the most
// recently written record on that page.
type Manager struct {
	fm        *file.Manager
	logFile   string
	logPage   *file.Page
	currentBlk file.Block

	mu           sync.Mutex
	latestLSN    int
	lastSavedLSN int
}

// NewManager opens (or creates) the log file within fm's database directory.
func NewManager(fm *file.Manager) (*Manager, error) {
	m := &Manager{
		fm:      fm,
		logFile: logFilename,
	}

	size, err := fm.Length(logFilename)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		blk, err := m.appendNewBlock()
		if err != nil {
			return nil, err
		}
		m.currentBlk = blk
	} else {
		m.currentBlk = file.New(logFilename, size-1)
		page := file.NewPage(fm.BlockSize())
		if err := fm.Read(m.currentBlk, page); err != nil {
			return nil, err
		}
		m.logPage = page
	}
	return m, nil
}

// appendNewBlock allocates a fresh log page with the boundary set to the end
// of the page (i.e. empty), and writes it out.
func (m *Manager) appendNewBlock() (file.Block, error) {
	blk, err := m.fm.Append(logFilename)
	if err != nil {
		return file.Block{}, err
	}
	page := file.NewPage(m.fm.BlockSize())
	page.SetInt(0, int32(m.fm.BlockSize()))
	if err := m.fm.Write(blk, page); err != nil {
		return file.Block{}, err
	}
	m.logPage = page
	return blk, nil
}

// Append writes rec to the log and returns its LSN. Records grow right to
// left starting just before the previous record (or the end of the page for
// a fresh one); when rec would collide with the boundary offset itself, the
// current page is flushed and a new one is appended.
func (m *Manager) Append(rec []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	boundary := int(m.logPage.GetInt(0))
	recSize := len(rec)
	bytesNeeded := recSize + 4 // 4-byte length prefix, like a page byte-string
	if boundary-bytesNeeded < 4 {
		// Not enough room left in this page; flush it and start a new one.
		if err := m.flush(); err != nil {
			return 0, err
		}
		blk, err := m.appendNewBlock()
		if err != nil {
			return 0, err
		}
		m.currentBlk = blk
		boundary = int(m.logPage.GetInt(0))
	}

	recPos := boundary - bytesNeeded
	m.logPage.SetBytes(recPos, rec)
	m.logPage.SetInt(0, int32(recPos))
	m.latestLSN++
	return m.latestLSN, nil
}

// Flush ensures every record up to and including lsn is durable.
func (m *Manager) Flush(lsn int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lsn <= m.lastSavedLSN {
		return nil
	}
	return m.flush()
}

// flush must be called with mu held.
func (m *Manager) flush() error {
	if err := m.fm.Write(m.currentBlk, m.logPage); err != nil {
		return err
	}
	m.lastSavedLSN = m.latestLSN
	return nil
}

// Iterator returns a cursor over every appended record, newest first.
func (m *Manager) Iterator() (*Iterator, error) {
	m.mu.Lock()
	if err := m.flush(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.mu.Unlock()
	return newIterator(m.fm, m.currentBlk)
}

// Iterator walks the log backwards, from the most recently written record to
// the oldest, matching the "log monotonicity" testable property: reading the
// log backwards yields records in LIFO append order.
type Iterator struct {
	fm         *file.Manager
	blk        file.Block
	page       *file.Page
	currentPos int
	boundary   int
}

func newIterator(fm *file.Manager, blk file.Block) (*Iterator, error) {
	it := &Iterator{fm: fm, blk: blk}
	if err := it.moveToBlock(blk); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *Iterator) moveToBlock(blk file.Block) error {
	it.blk = blk
	page := file.NewPage(it.fm.BlockSize())
	if err := it.fm.Read(blk, page); err != nil {
		return err
	}
	it.page = page
	it.boundary = int(page.GetInt(0))
	it.currentPos = it.boundary
	return nil
}

// HasNext reports whether another (older) record remains.
func (it *Iterator) HasNext() bool {
	return it.currentPos < it.fm.BlockSize() || it.blk.Number > 0
}

// Next returns the next-oldest record's bytes.
func (it *Iterator) Next() ([]byte, error) {
	if it.currentPos == it.fm.BlockSize() {
		blk := file.New(it.blk.Filename, it.blk.Number-1)
		if err := it.moveToBlock(blk); err != nil {
			return nil, err
		}
	}
	rec := it.page.GetBytes(it.currentPos)
	it.currentPos += 4 + len(rec)
	return rec, nil
}

// LatestLSN returns the LSN most recently assigned by Append.
func (m *Manager) LatestLSN() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latestLSN
}
