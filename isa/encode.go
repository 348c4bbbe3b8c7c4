package isa

// EncodeR assembles an R-type instruction word.
func EncodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) uint32 {
	return (opcode & 0x7f) |
		(rd&0x1f)<<7 |
		(funct3&0x7)<<12 |
		(rs1&0x1f)<<15 |
		(rs2&0x1f)<<20 |
		(funct7&0x7f)<<25
}

// EncodeI assembles an I-type instruction word. imm is truncated to
// its low 12 bits (callers pass a value in [-2048, 2047]).
func EncodeI(opcode, rd, funct3, rs1 uint32, imm int32) uint32 {
	return (opcode & 0x7f) |
		(rd&0x1f)<<7 |
		(funct3&0x7)<<12 |
		(rs1&0x1f)<<15 |
		(uint32(imm)&0xfff)<<20
}

// EncodeS assembles an S-type instruction word. imm is truncated to
// its low 12 bits.
func EncodeS(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	lo := u & 0x1f
	hi := (u >> 5) & 0x7f
	return (opcode & 0x7f) |
		lo<<7 |
		(funct3&0x7)<<12 |
		(rs1&0x1f)<<15 |
		(rs2&0x1f)<<20 |
		hi<<25
}

// EncodeB assembles a B-type instruction word. imm is the signed
// branch displacement in bytes; its bit 0 must be 0.
func EncodeB(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	b12 := (u >> 12) & 0x1
	b11 := (u >> 11) & 0x1
	b10_5 := (u >> 5) & 0x3f
	b4_1 := (u >> 1) & 0xf
	return (opcode & 0x7f) |
		b11<<7 |
		b4_1<<8 |
		(funct3&0x7)<<12 |
		(rs1&0x1f)<<15 |
		(rs2&0x1f)<<20 |
		b10_5<<25 |
		b12<<31
}

// Opcodes for the supported RV32I instruction classes.
const (
	opOpImm  = 0x13 // OP-IMM
	opOpReg  = 0x33 // OP
	opLoad   = 0x03 // LOAD
	opStore  = 0x23 // STORE
	opBranch = 0x63 // BRANCH
)

// funct3 values shared by both OP and OP-IMM classes.
const (
	f3ADD  = 0x0
	f3SLL  = 0x1
	f3SLT  = 0x2
	f3SLTU = 0x3
	f3XOR  = 0x4
	f3SR   = 0x5
	f3OR   = 0x6
	f3AND  = 0x7
)

// funct3 values for the branch class's comparator table.
const (
	f3BEQ  = 0x0
	f3BNE  = 0x1
	f3BLT  = 0x4
	f3BGE  = 0x5
	f3BLTU = 0x6
	f3BGEU = 0x7
)

// funct3 values for load/store width+sign.
const (
	f3LB  = 0x0
	f3LH  = 0x1
	f3LW  = 0x2
	f3LBU = 0x4
	f3LHU = 0x5
	f3SB  = 0x0
	f3SH  = 0x1
	f3SW  = 0x2
)

const funct7Sub = 1 << 5

// EncodeADDI encodes ADDI rd, rs1, imm.
func EncodeADDI(rd, rs1 uint32, imm int32) uint32 {
	return EncodeI(opOpImm, rd, f3ADD, rs1, imm)
}

// EncodeSLTI encodes SLTI rd, rs1, imm.
func EncodeSLTI(rd, rs1 uint32, imm int32) uint32 {
	return EncodeI(opOpImm, rd, f3SLT, rs1, imm)
}

// EncodeSLTIU encodes SLTIU rd, rs1, imm.
func EncodeSLTIU(rd, rs1 uint32, imm int32) uint32 {
	return EncodeI(opOpImm, rd, f3SLTU, rs1, imm)
}

// EncodeXORI encodes XORI rd, rs1, imm.
func EncodeXORI(rd, rs1 uint32, imm int32) uint32 {
	return EncodeI(opOpImm, rd, f3XOR, rs1, imm)
}

// EncodeORI encodes ORI rd, rs1, imm.
func EncodeORI(rd, rs1 uint32, imm int32) uint32 {
	return EncodeI(opOpImm, rd, f3OR, rs1, imm)
}

// EncodeANDI encodes ANDI rd, rs1, imm.
func EncodeANDI(rd, rs1 uint32, imm int32) uint32 {
	return EncodeI(opOpImm, rd, f3AND, rs1, imm)
}

// EncodeADD encodes ADD rd, rs1, rs2.
func EncodeADD(rd, rs1, rs2 uint32) uint32 {
	return EncodeR(opOpReg, rd, f3ADD, rs1, rs2, 0)
}

// EncodeSUB encodes SUB rd, rs1, rs2.
func EncodeSUB(rd, rs1, rs2 uint32) uint32 {
	return EncodeR(opOpReg, rd, f3ADD, rs1, rs2, funct7Sub)
}

// EncodeAND encodes AND rd, rs1, rs2.
func EncodeAND(rd, rs1, rs2 uint32) uint32 {
	return EncodeR(opOpReg, rd, f3AND, rs1, rs2, 0)
}

// EncodeOR encodes OR rd, rs1, rs2.
func EncodeOR(rd, rs1, rs2 uint32) uint32 {
	return EncodeR(opOpReg, rd, f3OR, rs1, rs2, 0)
}

// EncodeXOR encodes XOR rd, rs1, rs2.
func EncodeXOR(rd, rs1, rs2 uint32) uint32 {
	return EncodeR(opOpReg, rd, f3XOR, rs1, rs2, 0)
}

// EncodeSLT encodes SLT rd, rs1, rs2.
func EncodeSLT(rd, rs1, rs2 uint32) uint32 {
	return EncodeR(opOpReg, rd, f3SLT, rs1, rs2, 0)
}

// EncodeSLTU encodes SLTU rd, rs1, rs2.
func EncodeSLTU(rd, rs1, rs2 uint32) uint32 {
	return EncodeR(opOpReg, rd, f3SLTU, rs1, rs2, 0)
}

// EncodeSLL encodes SLL rd, rs1, rs2.
func EncodeSLL(rd, rs1, rs2 uint32) uint32 {
	return EncodeR(opOpReg, rd, f3SLL, rs1, rs2, 0)
}

// EncodeSRL encodes SRL rd, rs1, rs2.
func EncodeSRL(rd, rs1, rs2 uint32) uint32 {
	return EncodeR(opOpReg, rd, f3SR, rs1, rs2, 0)
}

// EncodeBEQ encodes BEQ rs1, rs2, delta, where delta is the signed
// byte displacement from this instruction's address to the target.
func EncodeBEQ(rs1, rs2 uint32, delta int32) uint32 {
	return EncodeB(opBranch, f3BEQ, rs1, rs2, delta)
}

// EncodeBNE encodes BNE rs1, rs2, delta.
func EncodeBNE(rs1, rs2 uint32, delta int32) uint32 {
	return EncodeB(opBranch, f3BNE, rs1, rs2, delta)
}

// EncodeBLT encodes BLT rs1, rs2, delta.
func EncodeBLT(rs1, rs2 uint32, delta int32) uint32 {
	return EncodeB(opBranch, f3BLT, rs1, rs2, delta)
}

// EncodeBGE encodes BGE rs1, rs2, delta.
func EncodeBGE(rs1, rs2 uint32, delta int32) uint32 {
	return EncodeB(opBranch, f3BGE, rs1, rs2, delta)
}

// EncodeBLTU encodes BLTU rs1, rs2, delta.
func EncodeBLTU(rs1, rs2 uint32, delta int32) uint32 {
	return EncodeB(opBranch, f3BLTU, rs1, rs2, delta)
}

// EncodeBGEU encodes BGEU rs1, rs2, delta.
func EncodeBGEU(rs1, rs2 uint32, delta int32) uint32 {
	return EncodeB(opBranch, f3BGEU, rs1, rs2, delta)
}

// EncodeLB encodes LB rd, offset(rs1).
func EncodeLB(rd, rs1 uint32, offset int32) uint32 {
	return EncodeI(opLoad, rd, f3LB, rs1, offset)
}

// EncodeLH encodes LH rd, offset(rs1).
func EncodeLH(rd, rs1 uint32, offset int32) uint32 {
	return EncodeI(opLoad, rd, f3LH, rs1, offset)
}

// EncodeLW encodes LW rd, offset(rs1).
func EncodeLW(rd, rs1 uint32, offset int32) uint32 {
	return EncodeI(opLoad, rd, f3LW, rs1, offset)
}

// EncodeLBU encodes LBU rd, offset(rs1).
func EncodeLBU(rd, rs1 uint32, offset int32) uint32 {
	return EncodeI(opLoad, rd, f3LBU, rs1, offset)
}

// EncodeLHU encodes LHU rd, offset(rs1).
func EncodeLHU(rd, rs1 uint32, offset int32) uint32 {
	return EncodeI(opLoad, rd, f3LHU, rs1, offset)
}

// EncodeSB encodes SB rs2, offset(rs1).
func EncodeSB(rs1, rs2 uint32, offset int32) uint32 {
	return EncodeS(opStore, f3SB, rs1, rs2, offset)
}

// EncodeSH encodes SH rs2, offset(rs1).
func EncodeSH(rs1, rs2 uint32, offset int32) uint32 {
	return EncodeS(opStore, f3SH, rs1, rs2, offset)
}

// EncodeSW encodes SW rs2, offset(rs1).
func EncodeSW(rs1, rs2 uint32, offset int32) uint32 {
	return EncodeS(opStore, f3SW, rs1, rs2, offset)
}
