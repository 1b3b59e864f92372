package vu

// Word-parallel forms of the handlers whose lanes do not interact with the
// accumulator's upper slices. Lanes 0-3 live in word 0 and lanes 4-7 in
// word 1, lane i%4 at bits 16*(i%4).

const (
	laneHigh = 0x8000800080008000
	laneLow  = 0x7FFF7FFF7FFF7FFF
)

type packed [2]uint64

func pack(v Vector) packed {
	var p packed
	for i, x := range v {
		p[i>>2] |= uint64(uint16(x)) << (16 * uint(i&3))
	}
	return p
}

func (p packed) unpack() Vector {
	var v Vector
	for i := range v {
		v[i] = int16(p[i>>2] >> (16 * uint(i&3)))
	}
	return v
}

// laneBits gathers bit 15 of every lane into a LaneMask.
func (p packed) laneBits() LaneMask {
	var m LaneMask
	for w, x := range p {
		x &= laneHigh
		for j := 0; j < 4; j++ {
			if x&(0x8000<<(16*uint(j))) != 0 {
				m |= 1 << uint(w*4+j)
			}
		}
	}
	return m
}

// expand turns a LaneMask into 0xFFFF/0x0000 lanes.
func expand(m LaneMask) packed {
	var p packed
	for i := 0; i < Lanes; i++ {
		if m.IsSet(i) {
			p[i>>2] |= 0xFFFF << (16 * uint(i&3))
		}
	}
	return p
}

// nonzero sets bit 15 of every lane that holds any set bit.
func nonzero(x uint64) uint64 {
	return ((x & laneLow) + laneLow | x) & laneHigh
}

func (u *Unit) operands(vs, vt, e int) (packed, packed) {
	return pack(u.regs.VR[vs]), pack(Shuffle(u.regs.VR[vt], e))
}

func (u *Unit) writeWide(vd int, r packed) {
	out := r.unpack()
	u.acc.Lo = out
	u.regs.VR[vd] = out
}

func (u *Unit) logicalWide(vd, vs, vt, e int, fn func(s, t uint64) uint64) {
	s, t := u.operands(vs, vt, e)
	u.writeWide(vd, packed{fn(s[0], t[0]), fn(s[1], t[1])})
}

func (u *Unit) vandWide(vd, vs, vt, e int) {
	u.logicalWide(vd, vs, vt, e, func(s, t uint64) uint64 { return s & t })
}

func (u *Unit) vnandWide(vd, vs, vt, e int) {
	u.logicalWide(vd, vs, vt, e, func(s, t uint64) uint64 { return ^(s & t) })
}

func (u *Unit) vorWide(vd, vs, vt, e int) {
	u.logicalWide(vd, vs, vt, e, func(s, t uint64) uint64 { return s | t })
}

func (u *Unit) vnorWide(vd, vs, vt, e int) {
	u.logicalWide(vd, vs, vt, e, func(s, t uint64) uint64 { return ^(s | t) })
}

func (u *Unit) vxorWide(vd, vs, vt, e int) {
	u.logicalWide(vd, vs, vt, e, func(s, t uint64) uint64 { return s ^ t })
}

func (u *Unit) vnxorWide(vd, vs, vt, e int) {
	u.logicalWide(vd, vs, vt, e, func(s, t uint64) uint64 { return ^(s ^ t) })
}

func (u *Unit) vaddcWide(vd, vs, vt, e int) {
	s, t := u.operands(vs, vt, e)
	var sum, carry packed
	for w := range sum {
		a, b := s[w], t[w]
		sum[w] = (a&laneLow + b&laneLow) ^ ((a ^ b) & laneHigh)
		carry[w] = (a&b | (a|b)&^sum[w]) & laneHigh
	}
	u.flags.Carry = carry.laneBits()
	u.flags.NotEqual = 0
	u.writeWide(vd, sum)
}

func (u *Unit) vsubcWide(vd, vs, vt, e int) {
	s, t := u.operands(vs, vt, e)
	var diff, borrow, ne packed
	for w := range diff {
		a, b := s[w], t[w]
		diff[w] = ((a | laneHigh) - (b &^ laneHigh)) ^ ((a ^ ^b) & laneHigh)
		borrow[w] = (^a&b | ^(a^b)&diff[w]) & laneHigh
		ne[w] = nonzero(diff[w])
	}
	u.flags.Carry = borrow.laneBits()
	u.flags.NotEqual = ne.laneBits()
	u.writeWide(vd, diff)
}

// mergeWide writes vs where mask is set and vte elsewhere.
func (u *Unit) mergeWide(vd int, s, t packed, mask LaneMask) {
	m := expand(mask)
	u.writeWide(vd, packed{
		s[0]&m[0] | t[0]&^m[0],
		s[1]&m[1] | t[1]&^m[1],
	})
}

func (u *Unit) equalLanes(s, t packed) LaneMask {
	return packed{nonzero(s[0] ^ t[0]), nonzero(s[1] ^ t[1])}.laneBits().Not()
}

func (u *Unit) veqWide(vd, vs, vt, e int) {
	s, t := u.operands(vs, vt, e)
	mask := u.equalLanes(s, t) &^ u.flags.NotEqual
	u.flags = Flags{Compare: mask, Extension: u.flags.Extension}
	u.mergeWide(vd, s, t, mask)
}

func (u *Unit) vneWide(vd, vs, vt, e int) {
	s, t := u.operands(vs, vt, e)
	mask := u.equalLanes(s, t).Not() | u.flags.NotEqual
	u.flags = Flags{Compare: mask, Extension: u.flags.Extension}
	u.mergeWide(vd, s, t, mask)
}

func (u *Unit) vmrgWide(vd, vs, vt, e int) {
	s, t := u.operands(vs, vt, e)
	u.flags.clearVCO()
	u.mergeWide(vd, s, t, u.flags.Compare)
}
