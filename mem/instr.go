// Package mem provides the instruction and data memories: a read-only
// linear instruction array addressed by PC>>2, and a byte-addressable
// data array supporting byte/half/word access with sign extension and
// read-modify-write sub-word stores.
package mem

import "errors"

// ErrInstructionFetchOutOfRange is MemError::InstructionFetchOutOfRange:
// IF read past the end of the loaded image. The test driver uses this
// as a natural halt marker.
var ErrInstructionFetchOutOfRange = errors.New("mem: instruction fetch out of range")

// InstructionMemory is the read-only linear instruction array,
// addressed by pc>>2.
type InstructionMemory struct {
	words []uint32
}

// NewInstructionMemory creates an instruction memory preloaded with
// image, an ordered sequence of 32-bit words placed at addresses
// 0, 4, 8, ...
func NewInstructionMemory(image []uint32) *InstructionMemory {
	words := make([]uint32, len(image))
	copy(words, image)
	return &InstructionMemory{words: words}
}

// Fetch reads the instruction word at byte address pc. A pc past the
// end of the loaded image (or not word-aligned past it) is a fatal
// ErrInstructionFetchOutOfRange.
func (m *InstructionMemory) Fetch(pc uint32) (uint32, error) {
	idx := pc >> 2
	if int(idx) >= len(m.words) {
		return 0, ErrInstructionFetchOutOfRange
	}
	return m.words[idx], nil
}

// Len returns the number of words loaded.
func (m *InstructionMemory) Len() int {
	return len(m.words)
}
