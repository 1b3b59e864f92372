package vu

// compare sets VCC low from pred, merges vs/vte by it into ACCL and vd,
// and clears VCC high and VCO.
func (u *Unit) compare(vd, vs, vt, e int, pred func(s, t int16, carry, ne bool) bool) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	var out Vector
	var mask LaneMask
	for i := range out {
		hit := pred(s[i], t[i], u.flags.Carry.IsSet(i), u.flags.NotEqual.IsSet(i))
		mask.Put(i, hit)
		if hit {
			out[i] = s[i]
		} else {
			out[i] = t[i]
		}
	}
	u.flags.Compare = mask
	u.flags.Clip = 0
	u.flags.clearVCO()
	u.acc.Lo = out
	u.regs.VR[vd] = out
}

func (u *Unit) vlt(vd, vs, vt, e int) {
	u.compare(vd, vs, vt, e, func(s, t int16, carry, ne bool) bool {
		return s < t || (s == t && carry && ne)
	})
}

func (u *Unit) veq(vd, vs, vt, e int) {
	u.compare(vd, vs, vt, e, func(s, t int16, _, ne bool) bool {
		return s == t && !ne
	})
}

func (u *Unit) vne(vd, vs, vt, e int) {
	u.compare(vd, vs, vt, e, func(s, t int16, _, ne bool) bool {
		return s != t || ne
	})
}

func (u *Unit) vge(vd, vs, vt, e int) {
	u.compare(vd, vs, vt, e, func(s, t int16, carry, ne bool) bool {
		return s > t || (s == t && !(carry && ne))
	})
}

// VCL clips against a low bound using the flags left by a prior VCH.
func (u *Unit) vcl(vd, vs, vt, e int) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	f := &u.flags
	var out Vector
	for i := range out {
		su, tu := uint16(s[i]), uint16(t[i])
		r := su
		switch carry, ne := f.Carry.IsSet(i), f.NotEqual.IsSet(i); {
		case carry && ne:
			if f.Compare.IsSet(i) {
				r = -tu
			}
		case carry:
			sum := uint32(su) + uint32(tu)
			zero := uint16(sum) == 0
			over := sum > 0xFFFF
			var le bool
			if f.Extension.IsSet(i) {
				le = zero || !over
			} else {
				le = zero && !over
			}
			f.Compare.Put(i, le)
			if le {
				r = -tu
			}
		case ne:
			if f.Clip.IsSet(i) {
				r = tu
			}
		default:
			ge := int32(su)-int32(tu) >= 0
			f.Clip.Put(i, ge)
			if ge {
				r = tu
			}
		}
		out[i] = int16(r)
	}
	f.clearVCO()
	f.Extension = 0
	u.acc.Lo = out
	u.regs.VR[vd] = out
}

// VCH clips against a high bound and primes the flags for VCL.
func (u *Unit) vch(vd, vs, vt, e int) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	var out Vector
	var f Flags
	for i := range out {
		si, ti := s[i], t[i]
		if (si ^ ti) < 0 {
			result := si + ti
			le := result <= 0
			if le {
				out[i] = -ti
			} else {
				out[i] = si
			}
			f.Compare.Put(i, le)
			f.Clip.Put(i, ti < 0)
			f.Carry.Set(i)
			f.NotEqual.Put(i, result != 0 && uint16(si) != ^uint16(ti))
			f.Extension.Put(i, result == -1)
		} else {
			result := si - ti
			ge := result >= 0
			if ge {
				out[i] = ti
			} else {
				out[i] = si
			}
			f.Compare.Put(i, ti < 0)
			f.Clip.Put(i, ge)
			f.NotEqual.Put(i, result != 0 && uint16(si) != ^uint16(ti))
		}
	}
	u.flags = f
	u.acc.Lo = out
	u.regs.VR[vd] = out
}

// VCR is the ones' complement form of VCH in a single step.
func (u *Unit) vcr(vd, vs, vt, e int) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	var out Vector
	var f Flags
	for i := range out {
		si, ti := s[i], t[i]
		if (si ^ ti) < 0 {
			le := int32(si)+int32(ti)+1 <= 0
			f.Clip.Put(i, ti < 0)
			f.Compare.Put(i, le)
			if le {
				out[i] = ^ti
			} else {
				out[i] = si
			}
		} else {
			ge := int32(si)-int32(ti) >= 0
			f.Compare.Put(i, ti < 0)
			f.Clip.Put(i, ge)
			if ge {
				out[i] = ti
			} else {
				out[i] = si
			}
		}
	}
	u.flags = f
	u.acc.Lo = out
	u.regs.VR[vd] = out
}

// VMRG selects vs where VCC low is set, vte elsewhere.
func (u *Unit) vmrg(vd, vs, vt, e int) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	var out Vector
	for i := range out {
		if u.flags.Compare.IsSet(i) {
			out[i] = s[i]
		} else {
			out[i] = t[i]
		}
	}
	u.flags.clearVCO()
	u.acc.Lo = out
	u.regs.VR[vd] = out
}
