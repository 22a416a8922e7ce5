package file

import "encoding/binary"

// Page is a raw, fixed-size byte buffer accessed by offset. It is the unit
// of transfer between the file manager and the buffer pool, and the
// substrate the record manager lays tuples out on.
//
// All multi-byte values are big-endian. Strings are stored as a 4-byte
// length prefix followed by their UTF-8 bytes (a "length-prefixed byte
// string" per the data model); Page makes no distinction between a raw byte
// string and a derived Go string beyond that encoding.
type Page struct {
	buf []byte
}

// NewPage allocates a zeroed page of the given block size.
func NewPage(blockSize int) *Page {
	return &Page{buf: make([]byte, blockSize)}
}

// NewPageFromBytes wraps an existing buffer (e.g. one just read from disk)
// as a Page without copying it.
func NewPageFromBytes(buf []byte) *Page {
	return &Page{buf: buf}
}

// Contents returns the page's underlying buffer.
func (p *Page) Contents() []byte {
	return p.buf
}

// GetInt reads a big-endian signed 32-bit integer at offset.
func (p *Page) GetInt(offset int) int32 {
	return int32(binary.BigEndian.Uint32(p.buf[offset:]))
}

// SetInt writes a big-endian signed 32-bit integer at offset.
func (p *Page) SetInt(offset int, n int32) {
	binary.BigEndian.PutUint32(p.buf[offset:], uint32(n))
}

// GetBytes reads a length-prefixed byte string starting at offset.
func (p *Page) GetBytes(offset int) []byte {
	length := int(binary.BigEndian.Uint32(p.buf[offset:]))
	start := offset + 4
	out := make([]byte, length)
	copy(out, p.buf[start:start+length])
	return out
}

// SetBytes writes b as a length-prefixed byte string at offset.
func (p *Page) SetBytes(offset int, b []byte) {
	binary.BigEndian.PutUint32(p.buf[offset:], uint32(len(b)))
	copy(p.buf[offset+4:], b)
}

// GetString reads a length-prefixed UTF-8 string at offset.
func (p *Page) GetString(offset int) string {
	return string(p.GetBytes(offset))
}

// SetString writes s as a length-prefixed UTF-8 string at offset.
func (p *Page) SetString(offset int, s string) {
	p.SetBytes(offset, []byte(s))
}

// MaxLength returns the number of bytes a length-prefixed string of at most
// strlen bytes occupies on a page (the 4-byte length prefix plus strlen
// bytes reserved regardless of the actual length written).
func MaxLength(strlen int) int {
	return 4 + strlen
}
