package vu

// reservedVector backs every slot with no defined operation. It zeroes
// vd and nothing else; vs, vt and e never reach the result.
func (u *Unit) reservedVector(vd, vs, vt, e int) {
	u.regs.VR[vd] = Vector{}
}

// reservedMultiply covers the holes in the multiply rows.
func (u *Unit) reservedMultiply(vd, vs, vt, e int) {
	u.reservedVector(vd, vs, vt, e)
}
