package vu

import (
	"math/rand"
	"testing"
)

// signExtend48 reduces v modulo 2^48 and sign-extends it.
func signExtend48(v int64) int64 {
	return v << 16 >> 16
}

func TestMultiply_Single(t *testing.T) {
	tests := []struct {
		name       string
		op         Opcode
		s, t       int16
		wantVD     int16
		wantAccAll int64
	}{
		{"VMULF half*half", OpVMULF, 0x4000, 0x4000, 0x2000, 0x2000_8000},
		{"VMULF min*min saturates", OpVMULF, -32768, -32768, 32767, 0x8000_8000},
		{"VMULF negative", OpVMULF, -0x4000, 0x4000, -0x2000, -0x2000_0000 + 0x8000},
		{"VMULU negative clamps to 0", OpVMULU, -0x4000, 0x4000, 0, -0x2000_0000 + 0x8000},
		{"VMULU bit 15 saturates", OpVMULU, -32768, -32768, -1, 0x8000_8000},
		{"VMULU in range", OpVMULU, 0x2000, 0x2000, 0x0800, 0x0800_8000},
		{"VMUDL", OpVMUDL, -1, -1, -2, 0xFFFE},
		{"VMUDM", OpVMUDM, -1, 2, -1, -2},
		{"VMUDN", OpVMUDN, -1, 2, -2, 0x1FFFE},
		{"VMUDH", OpVMUDH, 3, -4, -12, -12 << 16},
		{"VMUDH saturates", OpVMUDH, 32767, 32767, 32767, 0x3FFF0001 << 16},
		{"VMUDH zero", OpVMUDH, 0, -32768, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newScalar()
			u.SetAccumulator(Accumulator{Hi: splat(0x55), Md: splat(0x55), Lo: splat(0x55)})
			u.Write(1, splat(tt.s))
			u.Write(2, splat(tt.t))

			u.Execute(tt.op, 3, 1, 2, 0)

			if got := u.Read(3); got != splat(tt.wantVD) {
				t.Errorf("vd = %v, want all %d", got, tt.wantVD)
			}
			acc := u.Accumulator()
			for i := 0; i < Lanes; i++ {
				if got := acc.Get(i); got != signExtend48(tt.wantAccAll) {
					t.Errorf("acc[%d] = %#x, want %#x", i, got, signExtend48(tt.wantAccAll))
				}
			}
		})
	}
}

func TestMultiply_Accumulate(t *testing.T) {
	u := newScalar()
	u.Write(1, splat(0x4000))

	u.Execute(OpVMULF, 3, 1, 1, 0)
	u.Execute(OpVMACF, 3, 1, 1, 0)

	acc := u.Accumulator()
	if got := acc.Get(0); got != 0x4000_8000 {
		t.Errorf("acc = %#x, want 0x40008000", got)
	}
	if got := u.Read(3); got != splat(0x4000) {
		t.Errorf("vd = %v, want all 0x4000", got)
	}

	// two more push HI:MD past 0x7FFF
	u.Execute(OpVMACF, 3, 1, 1, 0)
	u.Execute(OpVMACF, 3, 1, 1, 0)
	if got := u.Read(3); got != splat(32767) {
		t.Errorf("VMACF vd = %v, want saturated", got)
	}
	u.Execute(OpVMACU, 4, 1, 1, 0)
	if got := u.Read(4); got != splat(-1) {
		t.Errorf("VMACU vd = %v, want 0xFFFF", got)
	}
}

func TestMultiply_LowSliceSaturation(t *testing.T) {
	tests := []struct {
		name string
		acc  int64
		op   Opcode
		want int16
	}{
		{"VMADL in range", 0x1234, OpVMADL, 0x1234},
		{"VMADL positive", 0x0001_0000_0000, OpVMADL, -1},
		{"VMADL negative", -0x1_0000_0000, OpVMADL, 0},
		{"VMADN in range", -0x10000 + 0x00AA, OpVMADN, 0x00AA},
		{"VMADN positive", 0x0000_8000_0000, OpVMADN, -1},
		{"VMADN negative", -0x0000_8000_0001, OpVMADN, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newScalar()
			var acc Accumulator
			for i := 0; i < Lanes; i++ {
				acc.Set(i, tt.acc)
			}
			u.SetAccumulator(acc)

			// zero operands leave the accumulator as is
			u.Execute(tt.op, 3, 0, 0, 0)

			if got := u.Read(3); got != splat(tt.want) {
				t.Errorf("vd = %v, want all %d", got, tt.want)
			}
		})
	}
}

func TestMultiply_HighThenLowMatchesReference(t *testing.T) {
	values := []int16{0, 1, -1, 2, -2, 0x1234, -0x1234, 0x7FFF, -0x7FFF, -0x8000, 0x4000, 0x00FF}

	for _, s := range values {
		for _, tv := range values {
			u := newScalar()
			u.Write(1, splat(s))
			u.Write(2, splat(tv))

			u.Execute(OpVMUDH, 3, 1, 2, 0)
			u.Execute(OpVMADL, 3, 1, 2, 0)

			want := int64(s)*int64(tv)<<16 + int64(uint32(uint16(s))*uint32(uint16(tv))>>16)
			want = signExtend48(want)
			acc := u.Accumulator()
			for i := 0; i < Lanes; i++ {
				if got := acc.Get(i); got != want {
					t.Fatalf("s=%d t=%d lane %d: acc = %#x, want %#x", s, tv, i, got, want)
				}
			}
		}
	}
}

func TestMultiply_DoublePrecisionChain(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	edges := []int32{0, 1, -1, 65535, 65536, -65536, 0x7FFFFFFF, -0x80000000, 0x12345678}

	for n := 0; n < 500; n++ {
		var a, b int32
		if n < len(edges)*len(edges) {
			a, b = edges[n/len(edges)], edges[n%len(edges)]
		} else {
			a, b = int32(r.Uint32()), int32(r.Uint32())
		}

		u := newScalar()
		u.Write(1, splat(int16(a)))
		u.Write(2, splat(int16(a>>16)))
		u.Write(3, splat(int16(b)))
		u.Write(4, splat(int16(b>>16)))

		u.Execute(OpVMUDL, 10, 1, 3, 0)
		u.Execute(OpVMADM, 10, 2, 3, 0)
		u.Execute(OpVMADN, 10, 1, 4, 0)
		u.Execute(OpVMADH, 10, 2, 4, 0)

		want := signExtend48(int64(a) * int64(b) >> 16)
		acc := u.Accumulator()
		if got := acc.Get(0); got != want {
			t.Fatalf("%d*%d: acc = %#x, want %#x", a, b, got, want)
		}
	}
}

func TestMultiply_ElementSelector(t *testing.T) {
	u := newScalar()
	u.Write(1, splat(1))
	u.Write(2, Vector{1, 2, 3, 4, 5, 6, 7, 8})

	u.Execute(OpVMUDH, 3, 1, 2, 15)

	if got := u.Read(3); got != splat(8) {
		t.Errorf("vd = %v, want all 8", got)
	}
}
