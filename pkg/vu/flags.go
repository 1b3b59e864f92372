package vu

import (
	"math/bits"
)

// LaneMask is an 8-lane bit vector. Bit i holds the flag for lane i.
type LaneMask uint8

// AllLanes has every lane set.
const AllLanes LaneMask = 0xFF

// Set sets the bit for lane i.
func (m *LaneMask) Set(i int) {
	*m |= 1 << uint(i)
}

// Clear clears the bit for lane i.
func (m *LaneMask) Clear(i int) {
	*m &^= 1 << uint(i)
}

// Put sets or clears the bit for lane i.
func (m *LaneMask) Put(i int, on bool) {
	if on {
		m.Set(i)
	} else {
		m.Clear(i)
	}
}

// IsSet returns true if the bit for lane i is 1.
func (m LaneMask) IsSet(i int) bool {
	return m&(1<<uint(i)) != 0
}

// PopCount returns the number of lanes set.
func (m LaneMask) PopCount() int {
	return bits.OnesCount8(uint8(m))
}

// And returns the intersection of two masks.
func (m LaneMask) And(other LaneMask) LaneMask { return m & other }

// Or returns the union of two masks.
func (m LaneMask) Or(other LaneMask) LaneMask { return m | other }

// Not returns the complement of the mask.
func (m LaneMask) Not() LaneMask { return ^m }

// Flags holds the vector control registers.
//
//	VCO  carry (low byte) and not-equal (high byte)
//	VCC  compare (low byte) and clip (high byte)
//	VCE  extension
type Flags struct {
	Carry     LaneMask `json:"carry"`
	NotEqual  LaneMask `json:"not_equal"`
	Compare   LaneMask `json:"compare"`
	Clip      LaneMask `json:"clip"`
	Extension LaneMask `json:"extension"`
}

// VCO returns the carry/not-equal register as CFC2 would read it.
func (f Flags) VCO() uint16 {
	return uint16(f.NotEqual)<<8 | uint16(f.Carry)
}

// VCC returns the compare/clip register.
func (f Flags) VCC() uint16 {
	return uint16(f.Clip)<<8 | uint16(f.Compare)
}

// VCE returns the extension register.
func (f Flags) VCE() uint8 {
	return uint8(f.Extension)
}

// SetVCO loads the carry/not-equal register.
func (f *Flags) SetVCO(v uint16) {
	f.Carry = LaneMask(v)
	f.NotEqual = LaneMask(v >> 8)
}

// SetVCC loads the compare/clip register.
func (f *Flags) SetVCC(v uint16) {
	f.Compare = LaneMask(v)
	f.Clip = LaneMask(v >> 8)
}

// SetVCE loads the extension register.
func (f *Flags) SetVCE(v uint8) {
	f.Extension = LaneMask(v)
}

func (f *Flags) clearVCO() {
	f.Carry, f.NotEqual = 0, 0
}

// Reset clears every control register.
func (f *Flags) Reset() {
	*f = Flags{}
}
