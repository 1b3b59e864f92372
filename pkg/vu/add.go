package vu

func (u *Unit) carryIn(i int) int32 {
	if u.flags.Carry.IsSet(i) {
		return 1
	}
	return 0
}

// VADD: vd = sclamp(vs + vte + carry), ACCL gets the wrapped sum.
func (u *Unit) vadd(vd, vs, vt, e int) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	var out Vector
	for i := range out {
		r := int32(s[i]) + int32(t[i]) + u.carryIn(i)
		u.acc.Lo[i] = int16(r)
		out[i] = ClampSigned16(int64(r))
	}
	u.flags.clearVCO()
	u.regs.VR[vd] = out
}

// VSUB: vd = sclamp(vs - vte - carry).
func (u *Unit) vsub(vd, vs, vt, e int) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	var out Vector
	for i := range out {
		r := int32(s[i]) - int32(t[i]) - u.carryIn(i)
		u.acc.Lo[i] = int16(r)
		out[i] = ClampSigned16(int64(r))
	}
	u.flags.clearVCO()
	u.regs.VR[vd] = out
}

// VABS: vd = vte, 0 or -vte by the sign of vs. ACCL keeps the wrapped
// negation so -(-32768) reads back as 0x8000 there and 0x7FFF in vd.
func (u *Unit) vabs(vd, vs, vt, e int) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	var out Vector
	for i := range out {
		switch {
		case s[i] < 0:
			neg := -int32(t[i])
			u.acc.Lo[i] = int16(neg)
			out[i] = ClampSigned16(int64(neg))
		case s[i] > 0:
			u.acc.Lo[i] = t[i]
			out[i] = t[i]
		default:
			u.acc.Lo[i] = 0
		}
	}
	u.regs.VR[vd] = out
}

// VADDC: unsigned add, carry out to VCO low. VCO high is cleared.
func (u *Unit) vaddc(vd, vs, vt, e int) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	var out Vector
	var carry LaneMask
	for i := range out {
		sum := uint32(uint16(s[i])) + uint32(uint16(t[i]))
		out[i] = int16(sum)
		carry.Put(i, sum > 0xFFFF)
	}
	u.acc.Lo = out
	u.flags.Carry = carry
	u.flags.NotEqual = 0
	u.regs.VR[vd] = out
}

// VSUBC: unsigned subtract, borrow to VCO low, nonzero to VCO high.
func (u *Unit) vsubc(vd, vs, vt, e int) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	var out Vector
	var borrow, ne LaneMask
	for i := range out {
		diff := int32(uint16(s[i])) - int32(uint16(t[i]))
		out[i] = int16(diff)
		borrow.Put(i, diff < 0)
		ne.Put(i, diff != 0)
	}
	u.acc.Lo = out
	u.flags.Carry = borrow
	u.flags.NotEqual = ne
	u.regs.VR[vd] = out
}
