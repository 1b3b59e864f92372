package vu

import (
	"fmt"
	"math"
)

const (
	NumVectorRegs = 32 // $v0-$v31
	Lanes         = 8  // 16-bit elements per vector
)

// Vector is one 128-bit register viewed as eight signed 16-bit lanes.
// Lane 0 is the most significant halfword in memory order.
type Vector [Lanes]int16

// Uint16 returns the lanes reinterpreted as unsigned.
func (v Vector) Uint16() [Lanes]uint16 {
	var out [Lanes]uint16
	for i, x := range v {
		out[i] = uint16(x)
	}
	return out
}

// VectorFromUint16 builds a vector from unsigned lane values.
func VectorFromUint16(lanes [Lanes]uint16) Vector {
	var v Vector
	for i, x := range lanes {
		v[i] = int16(x)
	}
	return v
}

// RegisterFile holds the 32 vector registers.
type RegisterFile struct {
	VR [NumVectorRegs]Vector
}

// NewRegisterFile creates a register file with all registers zeroed.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{}
}

// Read returns a copy of register i.
func (rf *RegisterFile) Read(i int) Vector {
	mustRegister(i)
	return rf.VR[i]
}

// Write stores v into register i.
func (rf *RegisterFile) Write(i int, v Vector) {
	mustRegister(i)
	rf.VR[i] = v
}

// Reset clears all registers.
func (rf *RegisterFile) Reset() {
	for i := range rf.VR {
		rf.VR[i] = Vector{}
	}
}

func mustRegister(i int) {
	if i < 0 || i >= NumVectorRegs {
		panic(fmt.Errorf("%w: $v%d", ErrInvalidRegister, i))
	}
}

// Accumulator is the per-lane 48-bit accumulator split into three slices.
type Accumulator struct {
	Hi Vector `json:"hi"` // bits 47-32
	Md Vector `json:"md"` // bits 31-16
	Lo Vector `json:"lo"` // bits 15-0
}

// Get returns lane i sign-extended from 48 bits.
func (a *Accumulator) Get(i int) int64 {
	return int64(a.Hi[i])<<32 | int64(uint16(a.Md[i]))<<16 | int64(uint16(a.Lo[i]))
}

// Set stores the low 48 bits of v into lane i.
func (a *Accumulator) Set(i int, v int64) {
	a.Hi[i] = int16(v >> 32)
	a.Md[i] = int16(v >> 16)
	a.Lo[i] = int16(v)
}

// high returns HI:MD of lane i as a signed 32-bit value.
func (a *Accumulator) high(i int) int32 {
	return int32(a.Hi[i])<<16 | int32(uint16(a.Md[i]))
}

// LoLane returns the low slice of lane i.
func (a *Accumulator) LoLane(i int) int16 { return a.Lo[i] }

// MdLane returns the middle slice of lane i.
func (a *Accumulator) MdLane(i int) int16 { return a.Md[i] }

// SaturateHigh clamps HI:MD of lane i to the signed 16-bit range.
func (a *Accumulator) SaturateHigh(i int) int16 {
	return ClampSigned16(int64(a.high(i)))
}

// SaturateLow returns LO of lane i when HI:MD fits in 16 signed bits,
// otherwise 0x0000 for negative and 0xFFFF for positive overflow.
func (a *Accumulator) SaturateLow(i int) int16 {
	switch h := a.high(i); {
	case h < math.MinInt16:
		return 0
	case h > math.MaxInt16:
		return -1
	default:
		return a.Lo[i]
	}
}

// SaturateUnsigned clamps HI:MD of lane i for the unsigned multiplies.
// Any value with bit 15 set saturates the whole lane.
func (a *Accumulator) SaturateUnsigned(i int) int16 {
	h := int64(a.high(i))
	if h > math.MaxInt16 {
		h = math.MaxUint16
	}
	return int16(ClampUnsigned16(h))
}

// Reset clears all three slices.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
