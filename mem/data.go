package mem

import "fmt"

// ErrDataBadWidth is MemError::DataBadWidth: the width code decoded
// from the control word's ALUOP field is not one of {1, 2, 4} bytes.
type ErrDataBadWidth struct {
	AluOp uint32
}

func (e *ErrDataBadWidth) Error() string {
	return fmt.Sprintf("mem: bad data width (aluop=%d)", e.AluOp)
}

// DecodeWidth derives the access width (in bytes) and sign-extension
// flag from a latched ALUOP field: the three ALUOP bits are read as
// {sign:1, size:2}, size = 1<<(ALUOP&3) bytes, and sign-extension is
// enabled when bit 2 is clear (the RV32I convention where unsigned
// load variants LBU/LHU set that bit).
func DecodeWidth(aluOp uint32) (width uint8, signed bool, err error) {
	size := uint32(1) << (aluOp & 0x3)
	if size != 1 && size != 2 && size != 4 {
		return 0, false, &ErrDataBadWidth{AluOp: aluOp}
	}
	signed = aluOp&0x4 == 0
	return uint8(size), signed, nil
}

// DataMemory is the byte-addressable linear data array, accessed as
// byte/half/word under sign or unsigned extension.
type DataMemory struct {
	bytes []byte
}

// DefaultDataWords is the default data memory size in 32-bit words.
const DefaultDataWords = 1000

// NewDataMemory creates a data memory of sizeWords 32-bit words.
func NewDataMemory(sizeWords int) *DataMemory {
	return &DataMemory{bytes: make([]byte, sizeWords*4)}
}

// Read loads width bytes at addr, little-endian, sign- or
// zero-extending to 32 bits per signed. An out-of-range access returns
// 0 (implementations may tighten this to a fault).
func (m *DataMemory) Read(addr uint32, width uint8, signed bool) uint32 {
	if !m.inRange(addr, width) {
		return 0
	}
	var raw uint32
	for i := uint8(0); i < width; i++ {
		raw |= uint32(m.bytes[addr+uint32(i)]) << (8 * i)
	}
	if !signed {
		return raw
	}
	shift := 32 - 8*uint(width)
	return uint32(int32(raw<<shift) >> shift)
}

// Write stores the low width bytes of value at addr, little-endian,
// preserving the unmodified bytes of the containing word for sub-word
// writes (read-modify-write). An out-of-range access is ignored.
func (m *DataMemory) Write(addr uint32, width uint8, value uint32) {
	if !m.inRange(addr, width) {
		return
	}
	for i := uint8(0); i < width; i++ {
		m.bytes[addr+uint32(i)] = byte(value >> (8 * i))
	}
}

// Read8 reads a single byte, for use as an Akita-style backing-store
// primitive (see cachesim.MemoryBacking).
func (m *DataMemory) Read8(addr uint32) byte {
	if addr >= uint32(len(m.bytes)) {
		return 0
	}
	return m.bytes[addr]
}

// Write8 writes a single byte.
func (m *DataMemory) Write8(addr uint32, b byte) {
	if addr >= uint32(len(m.bytes)) {
		return
	}
	m.bytes[addr] = b
}

func (m *DataMemory) inRange(addr uint32, width uint8) bool {
	end := uint64(addr) + uint64(width)
	return end <= uint64(len(m.bytes))
}

// Size returns the data memory's size in bytes.
func (m *DataMemory) Size() int {
	return len(m.bytes)
}
