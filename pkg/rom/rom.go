// Package rom provides the divide unit's lookup tables.
//
// The signal processor carries a 1 KiB mask ROM: 512 reciprocal entries
// followed by 512 inverse square root entries. Each entry is the 16-bit
// fraction below an implicit leading one, so (0x10000|entry) is a 1.16
// fixed-point value in [1, 2).
//
// The tables are rebuilt here from the same integer derivation that
// reproduces the dumped ROM, so callers never embed 2 KiB of literals:
//
//	tables := rom.Default()
//	unit := vu.New(vu.WithTables(tables))
package rom

import (
	"math"
	"sync"
)

// Size is the number of entries in each table.
const Size = 512

// Tables holds both halves of the divide ROM.
type Tables struct {
	Reciprocal [Size]uint16
	InvSqrt    [Size]uint16
}

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Default returns the shared, read-only hardware tables.
func Default() *Tables {
	defaultOnce.Do(func() {
		defaultTables = Build()
	})
	return defaultTables
}

// Build derives a fresh copy of both tables.
func Build() *Tables {
	t := &Tables{}
	for i := range t.Reciprocal {
		t.Reciprocal[i] = reciprocalEntry(i)
	}
	for i := range t.InvSqrt {
		t.InvSqrt[i] = invSqrtEntry(i)
	}
	return t
}

// reciprocalEntry computes 1/x for the normalized 9-bit mantissa x = (512+i)/512.
// Entry 0 would need 17 fraction bits; the ROM saturates it to 0xFFFF.
func reciprocalEntry(i int) uint16 {
	a := uint64(i + Size)
	b := (uint64(1)<<34)/a + 1
	b >>= 8
	if b > 0x1FFFF {
		b = 0x1FFFF
	}
	return uint16(b)
}

// invSqrtEntry computes 1/sqrt(x). Bit 0 of the index carries the parity of
// the normalization shift, so odd entries cover the mantissa halved.
func invSqrtEntry(i int) uint16 {
	a := uint64(i + Size)
	if i&1 == 1 {
		a >>= 1
	}
	const limit = uint64(1) << 44

	// largest b with a*b*b < 2^44
	b := uint64(math.Sqrt(float64(limit) / float64(a)))
	for b > 0 && a*b*b >= limit {
		b--
	}
	for a*(b+1)*(b+1) < limit {
		b++
	}
	return uint16(b >> 1)
}

// Lookup returns the reciprocal entry for a 9-bit index.
func (t *Tables) Lookup(index int) uint16 {
	return t.Reciprocal[index&(Size-1)]
}

// LookupInvSqrt returns the inverse square root entry for a 9-bit index.
func (t *Tables) LookupInvSqrt(index int) uint16 {
	return t.InvSqrt[index&(Size-1)]
}

// Curve returns a table as real values in [1, 2), for plotting.
func Curve(entries []uint16) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = float64(0x10000|uint32(e)) / 0x10000
	}
	return out
}
