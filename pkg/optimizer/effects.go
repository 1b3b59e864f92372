package optimizer

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/akhildatla/rspvu/pkg/vu"
)

// Resource is a set of unit state locations. Bits 0-31 are the vector
// registers; the rest name the accumulator slices, flag registers and
// the divider latch.
type Resource uint64

const (
	AccLo Resource = 1 << (vu.NumVectorRegs + iota)
	AccMd
	AccHi
	VCO
	VCC
	VCE
	Divider
)

const (
	AllRegisters Resource = 1<<vu.NumVectorRegs - 1
	AllAcc                = AccLo | AccMd | AccHi
	AllFlags              = VCO | VCC | VCE
	AllState              = AllRegisters | AllAcc | AllFlags | Divider
)

// Reg returns the resource for vector register i.
func Reg(i uint8) Resource {
	return 1 << (i & 31)
}

// Regs returns the union of the given registers.
func Regs(regs ...uint8) Resource {
	var r Resource
	for _, i := range regs {
		r |= Reg(i)
	}
	return r
}

// Count returns the number of locations in r.
func (r Resource) Count() int {
	return bits.OnesCount64(uint64(r))
}

// String lists the locations in r.
func (r Resource) String() string {
	names := []string{}
	for i := uint8(0); i < vu.NumVectorRegs; i++ {
		if r&Reg(i) != 0 {
			names = append(names, "$v"+strconv.Itoa(int(i)))
		}
	}
	for _, n := range []struct {
		bit  Resource
		name string
	}{
		{AccLo, "acc.lo"}, {AccMd, "acc.md"}, {AccHi, "acc.hi"},
		{VCO, "vco"}, {VCC, "vcc"}, {VCE, "vce"}, {Divider, "div"},
	} {
		if r&n.bit != 0 {
			names = append(names, n.name)
		}
	}
	return "{" + strings.Join(names, " ") + "}"
}

// Effects returns the locations an instruction reads and the locations
// it overwrites completely. Partial writes appear in both sets. Words
// that are not vector instructions stop a run, so they read everything.
func Effects(inst vu.Instruction) (reads, writes Resource) {
	if !inst.IsVector() {
		return AllState, 0
	}

	op := inst.Opcode()
	vd, vs, vt := Reg(inst.Vd()), Reg(inst.Vs()), Reg(inst.Vt())
	sources := vs | vt

	switch {
	case op == vu.OpVNOP:
		return 0, 0

	case op.IsReserved():
		return 0, vd

	case op == vu.OpVSAW:
		switch inst.Element() {
		case 8:
			return AccHi, vd
		case 9:
			return AccMd, vd
		case 10:
			return AccLo, vd
		}
		return 0, vd

	case laneMove(op):
		// vd is written one lane at a time.
		reads = vt | vd | Divider
		writes = vd | AccLo | Divider
		if op == vu.OpVMOV {
			reads &^= Divider
			writes &^= Divider
		}
		return reads, writes

	case op.IsMultiply():
		if op >= vu.OpVMACF {
			return sources | AllAcc, vd | AllAcc
		}
		return sources, vd | AllAcc
	}

	switch op {
	case vu.OpVADD, vu.OpVSUB:
		return sources | VCO, vd | AccLo | VCO
	case vu.OpVADDC, vu.OpVSUBC:
		return sources, vd | AccLo | VCO
	case vu.OpVLT, vu.OpVEQ, vu.OpVNE, vu.OpVGE:
		return sources | VCO, vd | AccLo | VCO | VCC
	case vu.OpVCL:
		return sources | AllFlags, vd | AccLo | AllFlags
	case vu.OpVCH, vu.OpVCR:
		return sources, vd | AccLo | AllFlags
	case vu.OpVMRG:
		return sources | VCC, vd | AccLo | VCO
	}

	// Remaining ops (VABS and the logical group) write vd and ACC LO.
	return sources, vd | AccLo
}

// laneMove reports whether op writes a single lane of vd selected by vs.
func laneMove(op vu.Opcode) bool {
	switch op {
	case vu.OpVRCP, vu.OpVRCPL, vu.OpVRCPH, vu.OpVMOV,
		vu.OpVRSQ, vu.OpVRSQL, vu.OpVRSQH:
		return true
	}
	return false
}
