package vu

func (u *Unit) logical(vd, vs, vt, e int, fn func(s, t uint16) uint16) {
	s := u.regs.VR[vs]
	t := Shuffle(u.regs.VR[vt], e)
	var out Vector
	for i := range out {
		out[i] = int16(fn(uint16(s[i]), uint16(t[i])))
	}
	u.acc.Lo = out
	u.regs.VR[vd] = out
}

func (u *Unit) vand(vd, vs, vt, e int) {
	u.logical(vd, vs, vt, e, func(s, t uint16) uint16 { return s & t })
}

func (u *Unit) vnand(vd, vs, vt, e int) {
	u.logical(vd, vs, vt, e, func(s, t uint16) uint16 { return ^(s & t) })
}

func (u *Unit) vor(vd, vs, vt, e int) {
	u.logical(vd, vs, vt, e, func(s, t uint16) uint16 { return s | t })
}

func (u *Unit) vnor(vd, vs, vt, e int) {
	u.logical(vd, vs, vt, e, func(s, t uint16) uint16 { return ^(s | t) })
}

func (u *Unit) vxor(vd, vs, vt, e int) {
	u.logical(vd, vs, vt, e, func(s, t uint16) uint16 { return s ^ t })
}

func (u *Unit) vnxor(vd, vs, vt, e int) {
	u.logical(vd, vs, vt, e, func(s, t uint16) uint16 { return ^(s ^ t) })
}
