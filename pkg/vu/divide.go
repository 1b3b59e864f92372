package vu

import (
	"math"
	"math/bits"
)

// DivideState exposes the divide latches for debuggers and save states.
type DivideState struct {
	In     int16 `json:"in"`
	Out    int16 `json:"out"`
	Double bool  `json:"double"`
}

// Divide returns the divide latches.
func (u *Unit) Divide() DivideState {
	return DivideState{In: u.div.in, Out: u.div.out, Double: u.div.dp}
}

// SetDivide replaces the divide latches.
func (u *Unit) SetDivide(d DivideState) {
	u.div = divider{in: d.In, out: d.Out, dp: d.Double}
}

// Reciprocal computes the 32-bit result the unit produces for input.
// sqrt selects the inverse square root table.
func (u *Unit) Reciprocal(input int32, sqrt bool) int32 {
	mask := input >> 31
	data := input ^ mask
	if input > math.MinInt16 {
		data -= mask
	}
	switch {
	case data == 0:
		return math.MaxInt32
	case input == math.MinInt16:
		return -0x10000
	}

	shift := bits.LeadingZeros32(uint32(data))
	index := int(uint64(uint32(data)) << shift & 0x7FC00000 >> 22)

	var result uint32
	if sqrt {
		result = (0x10000 | uint32(u.tables.LookupInvSqrt(index&0x1FE|shift&1))) << 14
		result >>= (31 - shift) >> 1
	} else {
		result = (0x10000 | uint32(u.tables.Lookup(index))) << 14
		result >>= 31 - shift
	}
	return int32(result) ^ mask
}

// reciprocal runs VRCP/VRSQ and, with low set, their L forms which take
// the upper half of a 32-bit input from a preceding H instruction.
func (u *Unit) reciprocal(vd, vs, vt, e int, sqrt, low bool) {
	t := u.regs.VR[vt]
	lane := t[e&7]

	input := int32(lane)
	if low && u.div.dp {
		input = int32(uint32(uint16(u.div.in))<<16 | uint32(uint16(lane)))
	}
	result := u.Reciprocal(input, sqrt)

	u.div.dp = false
	u.div.out = int16(result >> 16)
	u.acc.Lo = Shuffle(t, e)
	u.regs.VR[vd][vs&7] = int16(result)
}

// reciprocalHigh stages the upper input half and reads back the upper
// result half of the previous operation.
func (u *Unit) reciprocalHigh(vd, vs, vt, e int) {
	t := u.regs.VR[vt]
	u.acc.Lo = Shuffle(t, e)
	u.div.dp = true
	u.div.in = t[e&7]
	u.regs.VR[vd][vs&7] = u.div.out
}

func (u *Unit) vrcp(vd, vs, vt, e int)  { u.reciprocal(vd, vs, vt, e, false, false) }
func (u *Unit) vrcpl(vd, vs, vt, e int) { u.reciprocal(vd, vs, vt, e, false, true) }
func (u *Unit) vrcph(vd, vs, vt, e int) { u.reciprocalHigh(vd, vs, vt, e) }
func (u *Unit) vrsq(vd, vs, vt, e int)  { u.reciprocal(vd, vs, vt, e, true, false) }
func (u *Unit) vrsql(vd, vs, vt, e int) { u.reciprocal(vd, vs, vt, e, true, true) }
func (u *Unit) vrsqh(vd, vs, vt, e int) { u.reciprocalHigh(vd, vs, vt, e) }

// VMOV copies one lane of vte into the same lane of vd. The lane is
// named by the low bits of the vs field.
func (u *Unit) vmov(vd, vs, vt, e int) {
	t := Shuffle(u.regs.VR[vt], e)
	u.regs.VR[vd][vs&7] = t[vs&7]
	u.acc.Lo = t
}

func (u *Unit) vnop(vd, vs, vt, e int) {}

// VSAW reads an accumulator slice: e=8 HI, e=9 MD, e=10 LO. Other
// selectors read zero. The accumulator is left unchanged.
func (u *Unit) vsaw(vd, vs, vt, e int) {
	switch e {
	case 8:
		u.regs.VR[vd] = u.acc.Hi
	case 9:
		u.regs.VR[vd] = u.acc.Md
	case 10:
		u.regs.VR[vd] = u.acc.Lo
	default:
		u.regs.VR[vd] = Vector{}
	}
}
