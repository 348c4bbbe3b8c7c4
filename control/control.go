// Package control derives the per-instruction control word from a
// decoded command field, and holds the closed DecodeError taxonomy for
// unsupported or malformed encodings.
//
// Control is represented as a packed 32-bit value so that it can
// travel across a wire.Graph latch like any other signal.
package control

import (
	"fmt"

	"github.com/StrangeAffair/RISC-V-SIM/isa"
)

// SRC2 selector values for the EX-stage second-operand mux.
const (
	Src2Reg Word = iota // rs2
	Src2ImmI
	Src2ImmS
	Src2ImmB
	Src2ImmU
	Src2ImmJ
)

// Word is the decoded control word: ALUOP, SRC2, and the four
// single-bit enables REG_WEN/MEM_WEN/MEM2REG/BRN_COND, packed into
// one 32-bit value.
type Word uint32

const (
	aluOpShift   = 0
	aluOpMask    = 0x7
	src2Shift    = 3
	src2Mask     = 0x7
	regWenBit    = 1 << 6
	memWenBit    = 1 << 7
	mem2RegBit   = 1 << 8
	brnCondBit   = 1 << 9
)

// Pack assembles a control Word from its fields.
func Pack(aluOp uint32, src2 Word, regWen, memWen, mem2Reg, brnCond bool) Word {
	w := Word((aluOp & aluOpMask) << aluOpShift)
	w |= (src2 & src2Mask) << src2Shift
	if regWen {
		w |= regWenBit
	}
	if memWen {
		w |= memWenBit
	}
	if mem2Reg {
		w |= mem2RegBit
	}
	if brnCond {
		w |= brnCondBit
	}
	return w
}

// ALUOp returns the 3-bit ALU/compare/width-sign selector.
func (w Word) ALUOp() uint32 { return uint32(w>>aluOpShift) & aluOpMask }

// SRC2 returns the EX second-operand selector.
func (w Word) SRC2() Word { return (w >> src2Shift) & src2Mask }

// RegWen reports whether this instruction writes the register file.
func (w Word) RegWen() bool { return w&regWenBit != 0 }

// MemWen reports whether this instruction writes data memory.
func (w Word) MemWen() bool { return w&memWenBit != 0 }

// Mem2Reg reports whether the write-back source is data memory.
func (w Word) Mem2Reg() bool { return w&mem2RegBit != 0 }

// BrnCond reports whether this instruction is a branch.
func (w Word) BrnCond() bool { return w&brnCondBit != 0 }

// UnsupportedError is DecodeError::Unsupported(op): the opcode family
// is recognized RV32I but not implemented by this subset.
type UnsupportedError struct {
	Command isa.Command
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("control: unsupported opcode family (command=0x%02x)", uint8(e.Command))
}

// ErrNotBase is DecodeError::NotBase: the instruction's low two opcode
// bits are not 11, so it is not a standard-width RV32I encoding.
var ErrNotBase = fmt.Errorf("control: opcode low bits are not a base (32-bit) RV32I encoding")

// Decode derives the control word for word, whose ALUOP field (the
// ALU/compare selector) is the instruction's funct3, and returns an
// error if the encoding is not a supported RV32I instruction.
func Decode(word uint32) (Word, error) {
	if !isa.IsBaseEncoding(word) {
		return 0, ErrNotBase
	}

	funct3 := isa.Funct3(word)
	cmd := isa.CommandOf(word)

	switch cmd {
	case isa.CommandBranch:
		return Pack(funct3, Src2ImmB, false, false, false, true), nil
	case isa.CommandLoad:
		return Pack(funct3, Src2ImmI, true, false, true, false), nil
	case isa.CommandStore:
		return Pack(funct3, Src2ImmS, false, true, false, false), nil
	case isa.CommandOpImm:
		return Pack(funct3, Src2ImmI, true, false, false, false), nil
	case isa.CommandOpReg:
		return Pack(funct3, Src2Reg, true, false, false, false), nil
	default:
		return 0, &UnsupportedError{Command: cmd}
	}
}
