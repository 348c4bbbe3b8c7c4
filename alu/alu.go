// Package alu implements the EX-stage ALU and branch comparator as a
// single selector dispatch keyed by the control word's ALUOP field.
package alu

import "fmt"

// Op selects an ALU function. Values 0-7 mirror ALUOP exactly; they
// are also the RV32I funct3 encoding for OP/OP-IMM, which is why
// ALUOP mirrors funct3 there.
type Op uint32

const (
	OpADD  Op = 0
	OpSL   Op = 1
	OpSLT  Op = 2
	OpSLTU Op = 3
	OpXOR  Op = 4
	OpSR   Op = 5
	OpOR   Op = 6
	OpAND  Op = 7
)

// BadOpError is ExecError::BadALUOP / ExecError::BadCMPOP: the control
// word carried an ALUOP value outside its documented range, which
// indicates a decoder bug rather than a user-facing condition.
type BadOpError struct {
	Kind string
	Op   uint32
}

func (e *BadOpError) Error() string {
	return fmt.Sprintf("alu: bad %s (op=%d)", e.Kind, e.Op)
}

// Execute computes the ALU result for op over operands a, b. SUB is
// not one of the eight ALUOP-addressed functions; callers that have
// determined (via the R-type funct7 bit) that this is a subtract call
// ExecuteSub instead.
func Execute(op Op, a, b uint32) (uint32, error) {
	switch op {
	case OpADD:
		return a + b, nil
	case OpSL:
		return a << (b & 31), nil
	case OpSLT:
		if int32(a) < int32(b) {
			return 1, nil
		}
		return 0, nil
	case OpSLTU:
		if a < b {
			return 1, nil
		}
		return 0, nil
	case OpXOR:
		return a ^ b, nil
	case OpSR:
		return a >> (b & 31), nil
	case OpOR:
		return a | b, nil
	case OpAND:
		return a & b, nil
	default:
		return 0, &BadOpError{Kind: "ALUOP", Op: uint32(op)}
	}
}

// ExecuteSub computes a - b, the register-register SUB variant that
// shares ALUOP/funct3 0 with ADD and is distinguished only by the
// R-type instruction's funct7 bit 30 (funct7 = 1<<5), exactly as
// ADDI/ADD/SUB all share opcode+funct3 space in the real ISA.
func ExecuteSub(a, b uint32) uint32 {
	return a - b
}

// Compare evaluates the branch condition for op over operands a, b.
// It reuses the ALUOP encoding
// (BEQ=0, BNE=1, BLT=4, BGE=5, BLTU=6, BGEU=7) since RV32I branch
// funct3 values are numerically identical to these selectors.
func Compare(op Op, a, b uint32) (bool, error) {
	switch op {
	case 0:
		return a == b, nil // BEQ
	case 1:
		return a != b, nil // BNE
	case 4:
		return int32(a) < int32(b), nil // BLT
	case 5:
		return int32(a) >= int32(b), nil // BGE
	case 6:
		return a < b, nil // BLTU
	case 7:
		return a >= b, nil // BGEU
	default:
		return false, &BadOpError{Kind: "CMPOP", Op: uint32(op)}
	}
}
