// Package hazard implements forwarding and stall detection: EX/MEM and
// MEM/WB operand forwarding with EX/MEM priority, and the load-use
// stall that holds IF/ID in place for one cycle when a dependent
// instruction immediately follows a load.
//
// A load sitting in EX/MEM may not forward: its latched ALU result is
// the computed address, not the loaded data, which only becomes
// available once MEM completes.
package hazard

// ForwardSel selects the operand source feeding an EX-stage ALU input.
type ForwardSel uint8

const (
	// ForwardNone reads the operand straight from the register file.
	ForwardNone ForwardSel = iota
	// ForwardMem forwards the EX/MEM latched ALU result.
	ForwardMem
	// ForwardWB forwards the MEM/WB writeback value.
	ForwardWB
)

// MemInfo describes the instruction currently latched in EX/MEM, as
// seen by the hazard unit evaluating the following cycle's EX stage.
type MemInfo struct {
	RegWen  bool
	Mem2Reg bool
	Rd      uint32
}

// WbInfo describes the instruction currently latched in MEM/WB.
type WbInfo struct {
	RegWen bool
	Rd     uint32
}

// DetectForwarding decides how rs should be sourced in EX, given the
// instructions presently sitting one and two stages ahead of it.
// EX/MEM wins over MEM/WB on a simultaneous match: the most recent
// producer wins. A load in EX/MEM never forwards:
// its latched ALU result is a memory address, and the actual loaded
// word is not available until MEM completes.
func DetectForwarding(rs uint32, mi MemInfo, wi WbInfo) ForwardSel {
	if rs == 0 {
		return ForwardNone
	}
	if mi.RegWen && !mi.Mem2Reg && mi.Rd == rs {
		return ForwardMem
	}
	if wi.RegWen && wi.Rd == rs {
		return ForwardWB
	}
	return ForwardNone
}

// DetectLoadUseHazard reports whether the instruction now in ID must
// stall for one cycle because the instruction ahead of it in EX is a
// load whose result it consumes (rs1 or rs2). A stall here holds
// IF/ID and PC, and inserts one bubble into ID/EX.
func DetectLoadUseHazard(exMem2Reg bool, exRd, idRs1, idRs2 uint32, idUsesRs1, idUsesRs2 bool) bool {
	if !exMem2Reg || exRd == 0 {
		return false
	}
	if idUsesRs1 && idRs1 == exRd {
		return true
	}
	if idUsesRs2 && idRs2 == exRd {
		return true
	}
	return false
}
