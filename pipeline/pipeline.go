// Package pipeline assembles the signal graph, hazard unit, ALU, and
// memories of packages wire/isa/control/alu/regfile/mem/hazard into a
// 5-stage datapath: Fetch, Decode, Execute, Memory, Write-Back,
// connected by stage-boundary latches and a small control-flow cycle
// between EX and IF.
//
// Stages are evaluated tail-to-head into "next" register copies,
// synchronously swapped in at the end of the cycle, over a wire.Graph
// of named signals so that every signal is independently observable
// from outside the pipeline.
package pipeline

import (
	"fmt"

	"github.com/StrangeAffair/RISC-V-SIM/alu"
	"github.com/StrangeAffair/RISC-V-SIM/cachesim"
	"github.com/StrangeAffair/RISC-V-SIM/control"
	"github.com/StrangeAffair/RISC-V-SIM/hazard"
	"github.com/StrangeAffair/RISC-V-SIM/isa"
	"github.com/StrangeAffair/RISC-V-SIM/mem"
	"github.com/StrangeAffair/RISC-V-SIM/regfile"
	"github.com/StrangeAffair/RISC-V-SIM/wire"
)

// Stats holds cycle/stall/branch counters plus a derived CPI, and the
// optional L1 data-cache timing model's access counters (zero if no
// cache was wired in via NewWithCache).
type Stats struct {
	Cycles       uint64
	Instructions uint64
	Stalls       uint64
	Branches     uint64
	Squashes     uint64
	CPI          float64

	CacheAccesses uint64
	CacheHits     uint64
	CacheMisses   uint64
	CacheLatency  uint64 // sum of modeled per-access hit/miss latency, in cycles
}

// Pipeline drives the 5-stage datapath one tick at a time.
type Pipeline struct {
	g *wire.Graph
	s *signals

	regs *regfile.RegFile
	imem *mem.InstructionMemory
	dmem *mem.DataMemory

	cache *cachesim.Cache // nil unless wired in via NewWithCache

	tick uint64

	stats Stats

	halted  bool
	haltErr error
}

// New constructs a Pipeline over image (the instruction memory
// contents) and a data memory of dataWords 32-bit words, with no
// cache timing model in front of data memory.
func New(image []uint32, dataWords int) *Pipeline {
	g := wire.NewGraph()
	return &Pipeline{
		g:    g,
		s:    newSignals(g),
		regs: &regfile.RegFile{},
		imem: mem.NewInstructionMemory(image),
		dmem: mem.NewDataMemory(dataWords),
	}
}

// NewWithCache constructs a Pipeline exactly like New, additionally
// wiring an L1 data-cache timing model of the given configuration in
// front of data memory. Every load/store the MEM stage performs is
// also issued to this cache so its hit/miss/latency counters surface
// through Stats; the cache never changes the architectural result of
// an access, since the RV32I subset has no cache-visible behavior.
func NewWithCache(image []uint32, dataWords int, cacheCfg cachesim.Config) *Pipeline {
	p := New(image, dataWords)
	p.cache = cachesim.New(cacheCfg, cachesim.NewMemoryBacking(p.dmem))
	return p
}

// RegFile exposes the architectural register file for observability.
func (p *Pipeline) RegFile() *regfile.RegFile { return p.regs }

// DataMemory exposes the data memory for observability.
func (p *Pipeline) DataMemory() *mem.DataMemory { return p.dmem }

// Cache exposes the optional L1 data-cache timing model, or nil if
// none was wired in via NewWithCache.
func (p *Pipeline) Cache() *cachesim.Cache { return p.cache }

// Halted reports whether the pipeline has stopped advancing.
func (p *Pipeline) Halted() bool { return p.halted }

// HaltErr returns the error that stopped the pipeline, or nil if the
// pipeline has not halted.
func (p *Pipeline) HaltErr() error { return p.haltErr }

// Stats returns a snapshot of pipeline performance counters.
func (p *Pipeline) Stats() Stats {
	s := p.stats
	if s.Instructions > 0 {
		s.CPI = float64(s.Cycles) / float64(s.Instructions)
	}
	return s
}

// Wire returns the current and last-cycle value of the named wire, for
// driver-side observability. ok is false if no such wire is registered.
func (p *Pipeline) Wire(name string) (value, oldValue uint32, ok bool) {
	h, found := p.g.WireByName(name)
	if !found {
		return 0, 0, false
	}
	return p.g.MustRead(h), p.g.MustReadOld(h), true
}

// Tick advances the pipeline by one clock cycle. It evaluates stages
// tail-to-head (WB, MEM, EX, ID, IF, with WB as the true tail), then
// clocks every latch. A non-nil error halts the pipeline permanently;
// InstructionFetchOutOfRange is the expected end-of-program marker.
func (p *Pipeline) Tick() error {
	if p.halted {
		return p.haltErr
	}

	p.tick++
	p.g.SetCycle(p.tick)
	p.stats.Cycles++

	p.doWriteback()
	if err := p.doMemory(); err != nil {
		return p.fail(err)
	}
	branchTaken, err := p.doExecute()
	if err != nil {
		return p.fail(err)
	}
	stall, err := p.doDecode()
	if err != nil {
		return p.fail(err)
	}
	if err := p.doFetch(stall, branchTaken); err != nil {
		return p.fail(err)
	}

	if err := p.g.Clock(); err != nil {
		return p.fail(err)
	}
	return nil
}

func (p *Pipeline) fail(err error) error {
	p.halted = true
	p.haltErr = err
	return err
}

// Run advances the pipeline until it halts (normally on
// InstructionFetchOutOfRange) or maxCycles is reached, whichever comes
// first. It returns nil when the run ends on InstructionFetchOutOfRange
// or reaches maxCycles without halting, and the halting error for any
// other failure. Called on a pipeline that has already halted, it
// returns HaltErr.
func (p *Pipeline) Run(maxCycles uint64) error {
	for i := uint64(0); i < maxCycles; i++ {
		if p.halted {
			return p.haltErr
		}
		if err := p.Tick(); err != nil {
			if err == mem.ErrInstructionFetchOutOfRange {
				return nil
			}
			return err
		}
	}
	return nil
}

// --- Write-Back -------------------------------------------------------

func (p *Pipeline) doWriteback() {
	if p.tick < wbReadyAt {
		return
	}
	we := p.g.MustRead(p.s.wbWE) != 0
	d := p.g.MustRead(p.s.wbD)
	instrWord := p.g.MustRead(p.s.instrWB)
	rd := isa.Rd(instrWord)

	p.g.Write(p.s.wbRD, rd)
	p.g.Write(p.s.bpWB, d)

	if we {
		p.regs.Write(rd, d)
		p.stats.Instructions++
	}
}

// --- Memory -------------------------------------------------------

func (p *Pipeline) doMemory() error {
	if p.tick < memReadyAt {
		p.g.Write(p.s.bpMEM, 0)
		return nil
	}

	addr := p.g.MustRead(p.s.aluMEM)
	ctl := control.Word(p.g.MustRead(p.s.controlMEM))
	memWen := p.g.MustRead(p.s.memWenMEM) != 0
	storeVal := p.g.MustRead(p.s.storeDataMEM)

	var dmemRD uint32
	if ctl.Mem2Reg() || memWen {
		width, signed, err := mem.DecodeWidth(ctl.ALUOp())
		if err != nil {
			return err
		}
		if memWen {
			p.dmem.Write(addr, width, storeVal)
			if p.cache != nil {
				p.recordCacheAccess(p.cache.Write(addr, int(width), storeVal))
			}
		}
		if ctl.Mem2Reg() {
			dmemRD = p.dmem.Read(addr, width, signed)
			if p.cache != nil {
				p.recordCacheAccess(p.cache.Read(addr, int(width)))
			}
		}
	}

	wbD := addr
	if ctl.Mem2Reg() {
		wbD = dmemRD
	}

	p.g.Write(p.s.dmemRD, dmemRD)
	p.g.Write(p.s.wbDMEM, wbD)
	p.g.Write(p.s.bpMEM, addr)
	return nil
}

// --- Execute -------------------------------------------------------

func (p *Pipeline) doExecute() (branchTaken bool, err error) {
	if p.tick < exReadyAt {
		p.g.Write(p.s.pcR, 0)
		return false, nil
	}

	ctl := control.Word(p.g.MustRead(p.s.controlEX))
	instrWord := p.g.MustRead(p.s.instrEX)
	valid := p.g.MustRead(p.s.vEX) != 0
	rs1raw := p.g.MustRead(p.s.rs1EX)
	rs2raw := p.g.MustRead(p.s.rs2EX)

	memInfo := hazard.MemInfo{
		RegWen:  p.g.MustRead(p.s.regWenMEM) != 0,
		Mem2Reg: control.Word(p.g.MustRead(p.s.controlMEM)).Mem2Reg(),
		Rd:      isa.Rd(p.g.MustRead(p.s.instrMEM)),
	}
	wbInfo := hazard.WbInfo{
		RegWen: p.g.MustRead(p.s.wbWE) != 0,
		Rd:     isa.Rd(p.g.MustRead(p.s.instrWB)),
	}

	rs1Idx := isa.Rs1(instrWord)
	rs2Idx := isa.Rs2(instrWord)
	fwd1 := hazard.DetectForwarding(rs1Idx, memInfo, wbInfo)
	fwd2 := hazard.DetectForwarding(rs2Idx, memInfo, wbInfo)

	bpMEM := p.g.MustRead(p.s.bpMEM)
	bpWB := p.g.MustRead(p.s.bpWB)

	rs1v := applyForward(fwd1, rs1raw, bpMEM, bpWB)
	rs2v := applyForward(fwd2, rs2raw, bpMEM, bpWB)

	immI := isa.ImmI(instrWord)
	immS := isa.ImmS(instrWord)
	immB := isa.ImmB(instrWord)
	immU := isa.ImmU(instrWord)
	immJ := isa.ImmJ(instrWord)

	var src2 uint32
	switch ctl.SRC2() {
	case control.Src2Reg:
		src2 = rs2v
	case control.Src2ImmI:
		src2 = uint32(immI)
	case control.Src2ImmS:
		src2 = uint32(immS)
	case control.Src2ImmB:
		src2 = uint32(immB)
	case control.Src2ImmU:
		src2 = uint32(immU)
	case control.Src2ImmJ:
		src2 = uint32(immJ)
	default:
		return false, fmt.Errorf("pipeline: bad SRC2 selector %d: %w", ctl.SRC2(), errBadSRC2)
	}

	isOpReg := ctl.SRC2() == control.Src2Reg
	var aluResult uint32
	var execErr error
	if isOpReg && ctl.ALUOp() == uint32(alu.OpADD) && isa.Funct7Bit5(instrWord) {
		aluResult = alu.ExecuteSub(rs1v, src2)
	} else if ctl.Mem2Reg() || ctl.MemWen() {
		// Loads and stores carry their width/sign code in ALUOP, so their
		// effective address is always rs1 + immediate.
		aluResult = rs1v + src2
	} else {
		aluResult, execErr = alu.Execute(alu.Op(ctl.ALUOp()), rs1v, src2)
	}
	if execErr != nil {
		return false, execErr
	}

	var pcR uint32
	if ctl.BrnCond() {
		cmp, cmpErr := alu.Compare(alu.Op(ctl.ALUOp()), rs1v, rs2v)
		if cmpErr != nil {
			return false, cmpErr
		}
		p.g.Write(p.s.cmpEX, boolToU32(cmp))
		if valid && cmp {
			pcR = 1
		}
	}

	regWenEX := valid && !ctl.BrnCond() && ctl.RegWen()
	memWenEX := valid && !ctl.BrnCond() && ctl.MemWen()

	p.g.Write(p.s.huRS1, uint32(fwd1))
	p.g.Write(p.s.huRS2, uint32(fwd2))
	p.g.Write(p.s.rs1v, rs1v)
	p.g.Write(p.s.rs2v, rs2v)
	p.g.Write(p.s.src2v, src2)
	p.g.Write(p.s.immI, uint32(immI))
	p.g.Write(p.s.immS, uint32(immS))
	p.g.Write(p.s.immB, uint32(immB))
	p.g.Write(p.s.immU, uint32(immU))
	p.g.Write(p.s.immJ, uint32(immJ))
	p.g.Write(p.s.pcDisp, uint32(immB))
	p.g.Write(p.s.aluEX, aluResult)
	p.g.Write(p.s.pcR, pcR)
	p.g.Write(p.s.regWenEX, boolToU32(regWenEX))
	p.g.Write(p.s.memWenEX, boolToU32(memWenEX))
	p.g.Write(p.s.storeData, rs2v)

	if pcR != 0 {
		p.stats.Branches++
		p.stats.Squashes++
	}
	return pcR != 0, nil
}

func applyForward(sel hazard.ForwardSel, raw, bpMEM, bpWB uint32) uint32 {
	switch sel {
	case hazard.ForwardMem:
		return bpMEM
	case hazard.ForwardWB:
		return bpWB
	default:
		return raw
	}
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// recordCacheAccess folds one cache access's outcome into Stats.
func (p *Pipeline) recordCacheAccess(r cachesim.AccessResult) {
	p.stats.CacheAccesses++
	if r.Hit {
		p.stats.CacheHits++
	} else {
		p.stats.CacheMisses++
	}
	p.stats.CacheLatency += r.Latency
}

// --- Decode -------------------------------------------------------

// doDecode returns whether a load-use hazard requires IF/ID and PC to
// be held for this tick.
func (p *Pipeline) doDecode() (stall bool, err error) {
	if p.tick < idReadyAt {
		p.g.Write(p.s.vDE, 0)
		return false, nil
	}

	word := p.g.MustRead(p.s.instruction)
	ctl, decErr := control.Decode(word)
	if decErr != nil {
		return false, decErr
	}

	rs1Idx := isa.Rs1(word)
	rs2Idx := isa.Rs2(word)

	exMem2Reg := control.Word(p.g.MustRead(p.s.controlEX)).Mem2Reg()
	exVEX := p.g.MustRead(p.s.vEX) != 0
	exRd := isa.Rd(p.g.MustRead(p.s.instrEX))

	usesRs1 := true // every supported class reads rs1 as its first operand
	usesRs2 := ctl.SRC2() == control.Src2Reg || ctl.SRC2() == control.Src2ImmS || ctl.SRC2() == control.Src2ImmB

	stall = exVEX && hazard.DetectLoadUseHazard(exMem2Reg, exRd, rs1Idx, rs2Idx, usesRs1, usesRs2)

	p.g.Write(p.s.rs1, p.regs.Read(rs1Idx))
	p.g.Write(p.s.rs2, p.regs.Read(rs2Idx))
	p.g.Write(p.s.control, uint32(ctl))

	pcR := p.g.MustRead(p.s.pcR)
	pcRF := p.g.MustRead(p.s.pcRF)
	vDE := uint32(1)
	if pcR != 0 || pcRF != 0 || stall {
		// A load-use hazard inserts a bubble into ID/EX for this cycle:
		// the stalling instruction itself is re-decoded next cycle once
		// IF/ID has been held in place.
		vDE = 0
	}
	if stall {
		p.stats.Stalls++
		// PC is already one fetch ahead of the instruction sitting in
		// ID (it was advanced past this instruction's own address back
		// when IF fetched it), so freezing PC_NEXT alone does not stop
		// the IF/ID pair from being overwritten by that next fetch.
		// Hold PC_DE and INSTRUCTION themselves so they keep
		// re-presenting this same instruction next cycle instead.
		p.g.Hold(p.s.pcDE)
		p.g.Hold(p.s.instruction)
	}
	p.g.Write(p.s.vDE, vDE)
	return stall, nil
}

// --- Fetch -------------------------------------------------------

func (p *Pipeline) doFetch(stallID, branchTaken bool) error {
	pc := p.g.MustRead(p.s.pc)
	pcR := p.g.MustRead(p.s.pcR)

	var pcNext uint32
	if pcR != 0 {
		pcEX := p.g.MustRead(p.s.pcEX)
		pcDisp := p.g.MustRead(p.s.pcDisp)
		pcNext = pcEX + pcDisp
	} else if stallID {
		pcNext = pc
	} else {
		pcNext = pc + 4
	}
	p.g.Write(p.s.pcNext, pcNext)

	// This fetch always targets the word one slot ahead of whatever is
	// presently in ID. During a load-use stall that word is discarded:
	// doDecode holds PC_DE/INSTRUCTION for this cycle's Clock(), so the
	// fetched word here never actually reaches IF/ID, and the same
	// address is fetched again once the stall clears.
	word, err := p.imem.Fetch(pc)
	if err != nil {
		return err
	}
	p.g.Write(p.s.imemD, word)
	return nil
}

var errBadSRC2 = fmt.Errorf("control word carried an out-of-range SRC2 selector")

// Pipeline depth constants: the cycle number (1-based, as counted by
// p.tick) at which each stage first holds a genuinely fetched
// instruction rather than the graph's zero-valued reset state. Fetch
// starts producing at tick 1, so ID/EX/MEM/WB become meaningful one
// tick later each; this bootstrap gating avoids needing a parallel
// Valid flag per latch.
const (
	idReadyAt = 2
	exReadyAt = 3
	memReadyAt = 4
	wbReadyAt = 5
)
