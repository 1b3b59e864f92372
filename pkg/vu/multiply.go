package vu

// product computes one lane's contribution to the accumulator.
type product func(s, t int16) int64

// view reads one lane's destination value back out of the accumulator.
type view func(a *Accumulator, i int) int16

func fractional(s, t int16) int64 {
	return int64(s) * int64(t) * 2
}

func fractionalRounded(s, t int16) int64 {
	return fractional(s, t) + 0x8000
}

func lowPartial(s, t int16) int64 {
	return int64(uint32(uint16(s)) * uint32(uint16(t)) >> 16)
}

func midPartial(s, t int16) int64 {
	return int64(s) * int64(uint16(t))
}

func midPartialN(s, t int16) int64 {
	return int64(uint16(s)) * int64(t)
}

func highPartial(s, t int16) int64 {
	return int64(s) * int64(t) << 16
}

// multiply forms p(vs, vte) per lane, optionally adds the accumulator,
// stores the 48-bit sum and writes v of the result to vd.
func (u *Unit) multiply(vd, vs, vt, e int, accumulate bool, p product, v view) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	var out Vector
	for i := range out {
		x := p(s[i], t[i])
		if accumulate {
			x += u.acc.Get(i)
		}
		u.acc.Set(i, x)
		out[i] = v(&u.acc, i)
	}
	u.regs.VR[vd] = out
}

func (u *Unit) vmulf(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, false, fractionalRounded, (*Accumulator).SaturateHigh)
}

func (u *Unit) vmulu(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, false, fractionalRounded, (*Accumulator).SaturateUnsigned)
}

func (u *Unit) vmudl(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, false, lowPartial, (*Accumulator).LoLane)
}

func (u *Unit) vmudm(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, false, midPartial, (*Accumulator).MdLane)
}

func (u *Unit) vmudn(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, false, midPartialN, (*Accumulator).LoLane)
}

func (u *Unit) vmudh(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, false, highPartial, (*Accumulator).SaturateHigh)
}

func (u *Unit) vmacf(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, true, fractional, (*Accumulator).SaturateHigh)
}

func (u *Unit) vmacu(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, true, fractional, (*Accumulator).SaturateUnsigned)
}

func (u *Unit) vmadl(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, true, lowPartial, (*Accumulator).SaturateLow)
}

func (u *Unit) vmadm(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, true, midPartial, (*Accumulator).SaturateHigh)
}

func (u *Unit) vmadn(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, true, midPartialN, (*Accumulator).SaturateLow)
}

func (u *Unit) vmadh(vd, vs, vt, e int) {
	u.multiply(vd, vs, vt, e, true, highPartial, (*Accumulator).SaturateHigh)
}
