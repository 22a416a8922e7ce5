// Package file implements the lowest layer of the engine: fixed-size,
// byte-addressable pages backed by named files in a database directory.
package file

import "fmt"

// Block identifies one fixed-size page of a named file. Block numbers start
// at 0 and are dense: a file with N blocks has blocks [0, N).
type Block struct {
	Filename string
	Number   int
}

// New returns the block identified by filename and number.
func New(filename string, number int) Block {
	return Block{Filename: filename, Number: number}
}

func (b Block) String() string {
	return fmt.Sprintf("[file %s, block %d]", b.Filename, b.Number)
}
