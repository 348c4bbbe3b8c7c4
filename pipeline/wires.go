package pipeline

import "github.com/StrangeAffair/RISC-V-SIM/wire"

// signals names and registers every wire of the 5-stage datapath in
// the wire.Graph, so that any named wire can be observed from outside
// without the driver needing to know the internal wiring. Field names
// mirror the datapath's signal vocabulary directly (PC_DISP, V_EX,
// BP_MEM, ...).
type signals struct {
	g *wire.Graph

	// Fetch.
	pc     wire.Handle // flip-flop, input pcNext
	pcNext wire.Handle // combinational

	// IF/ID latches.
	pcDE        wire.Handle // flip-flop, input pc
	instruction wire.Handle // flip-flop, input imemD
	pcRF        wire.Handle // flip-flop, input pcR (one-cycle-delayed PC_R)

	imemD wire.Handle // combinational: word fetched this cycle

	// Decode combinational.
	rs1     wire.Handle
	rs2     wire.Handle
	control wire.Handle // packed control.Word
	vDE     wire.Handle // bool as 0/1

	// ID/EX latches.
	pcEX     wire.Handle
	controlEX wire.Handle
	rs1EX    wire.Handle
	rs2EX    wire.Handle
	instrEX  wire.Handle
	vEX      wire.Handle

	// Execute combinational.
	huRS1   wire.Handle // forwarding selector, 0/1/2
	huRS2   wire.Handle
	rs1v    wire.Handle // post-forwarding operand value
	rs2v    wire.Handle
	src2v   wire.Handle // selected second ALU operand
	immI    wire.Handle
	immS    wire.Handle
	immB    wire.Handle
	immU    wire.Handle
	immJ    wire.Handle
	pcDisp  wire.Handle // sign-extended B-immediate, driven from ImmB
	aluEX   wire.Handle // ALU result
	cmpEX   wire.Handle // comparator result, 0/1
	pcR     wire.Handle // branch-taken pulse
	memWenEX wire.Handle
	regWenEX wire.Handle
	storeData wire.Handle // RS2V, the value to store

	bpMEM wire.Handle // alias of aluMEM, exposed for forwarding

	// EX/MEM latches.
	pcMEM       wire.Handle
	aluMEM      wire.Handle
	controlMEM  wire.Handle
	instrMEM    wire.Handle
	storeDataMEM wire.Handle
	memWenMEM   wire.Handle
	regWenMEM   wire.Handle

	// Memory combinational.
	dmemRD wire.Handle
	wbDMEM wire.Handle // write-back data mux output, computed in MEM

	bpWB wire.Handle // alias of wbD, exposed for forwarding

	// MEM/WB latches.
	wbWE    wire.Handle
	wbD     wire.Handle
	instrWB wire.Handle

	// Write-back combinational.
	wbRD wire.Handle
}

func newSignals(g *wire.Graph) *signals {
	s := &signals{g: g}

	s.pcNext = g.Register("PC_NEXT")
	s.pc = g.RegisterLatch("PC", s.pcNext)

	s.imemD = g.Register("IMEM_D")
	s.pcDE = g.RegisterLatch("PC_DE", s.pc)
	s.instruction = g.RegisterLatch("INSTRUCTION", s.imemD)
	s.pcR = g.Register("PC_R")
	s.pcRF = g.RegisterLatch("PC_RF", s.pcR)

	s.rs1 = g.Register("RS1")
	s.rs2 = g.Register("RS2")
	s.control = g.Register("CONTROL")
	s.vDE = g.Register("V_DE")

	s.pcEX = g.RegisterLatch("PC_EX", s.pcDE)
	s.controlEX = g.RegisterLatch("CONTROL_EX", s.control)
	s.rs1EX = g.RegisterLatch("RS1_EX", s.rs1)
	s.rs2EX = g.RegisterLatch("RS2_EX", s.rs2)
	s.instrEX = g.RegisterLatch("INSTR_EX", s.instruction)
	s.vEX = g.RegisterLatch("V_EX", s.vDE)

	s.huRS1 = g.Register("HU_RS1")
	s.huRS2 = g.Register("HU_RS2")
	s.rs1v = g.Register("RS1V")
	s.rs2v = g.Register("RS2V")
	s.src2v = g.Register("SRC2V")
	s.immI = g.Register("IMM_I")
	s.immS = g.Register("IMM_S")
	s.immB = g.Register("IMM_B")
	s.immU = g.Register("IMM_U")
	s.immJ = g.Register("IMM_J")
	s.pcDisp = g.Register("PC_DISP")
	s.aluEX = g.Register("ALU_EX")
	s.cmpEX = g.Register("CMP_EX")
	s.memWenEX = g.Register("MEM_WEN_EX")
	s.regWenEX = g.Register("REG_WEN_EX")
	s.storeData = g.Register("MEM_STORE_DATA")
	s.bpMEM = g.Register("BP_MEM")

	s.pcMEM = g.RegisterLatch("PC_MEM", s.pcEX)
	s.aluMEM = g.RegisterLatch("ALU_MEM", s.aluEX)
	s.controlMEM = g.RegisterLatch("CONTROL_MEM", s.controlEX)
	s.instrMEM = g.RegisterLatch("INSTR_MEM", s.instrEX)
	s.storeDataMEM = g.RegisterLatch("MEM_STORE_DATA_MEM", s.storeData)
	s.memWenMEM = g.RegisterLatch("MEM_WEN_MEM", s.memWenEX)
	s.regWenMEM = g.RegisterLatch("REG_WEN_MEM", s.regWenEX)

	s.dmemRD = g.Register("DMEM_RD")
	s.wbDMEM = g.Register("WB_D_MEM")
	s.bpWB = g.Register("BP_WB")

	s.wbWE = g.RegisterLatch("WB_WE", s.regWenMEM)
	s.wbD = g.RegisterLatch("WB_D", s.wbDMEM)
	s.instrWB = g.RegisterLatch("INSTR_WB", s.instrMEM)

	s.wbRD = g.Register("WB_RD")

	return s
}
