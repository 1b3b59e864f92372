package vu

import (
	"math"
	"testing"
)

func TestReciprocal_Values(t *testing.T) {
	u := newScalar()

	tests := []struct {
		name  string
		input int32
		sqrt  bool
		want  uint32
	}{
		{"rcp 1", 1, false, 0x7FFFC000},
		{"rcp 2", 2, false, 0x3FFFE000},
		{"rcp 0", 0, false, 0x7FFFFFFF},
		{"rcp -1", -1, false, 0x80003FFF},
		{"rcp -32768", math.MinInt16, false, 0xFFFF0000},
		{"rcp 65536", 65536, false, 0x00007FFF},
		{"rsq 1", 1, true, 0x7FFFC000},
		{"rsq 4", 4, true, 0x3FFFE000},
		{"rsq 0", 0, true, 0x7FFFFFFF},
		{"rsq -32768", math.MinInt16, true, 0xFFFF0000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := uint32(u.Reciprocal(tt.input, tt.sqrt)); got != tt.want {
				t.Errorf("Reciprocal(%d) = %#08x, want %#08x", tt.input, got, tt.want)
			}
		})
	}
}

func TestReciprocal_Monotonic(t *testing.T) {
	u := newScalar()
	prev := uint32(math.MaxUint32)
	for x := int32(1); x < 32768; x++ {
		got := uint32(u.Reciprocal(x, false))
		if got > prev {
			t.Fatalf("rcp(%d) = %#x exceeds rcp(%d) = %#x", x, got, x-1, prev)
		}
		prev = got
	}
}

func TestVRCP_WritesLaneAndLatches(t *testing.T) {
	u := newScalar()
	u.Write(1, Vector{7, 7, 7, 7, 7, 7, 7, 7})
	u.Write(2, Vector{0, 0, 0, 2, 0, 0, 0, 0})

	// input lane 3 of vt, result into lane 5 of vd
	u.Execute(OpVRCP, 1, 5, 2, 11)

	want := Vector{7, 7, 7, 7, 7, int16(-0x2000), 7, 7}
	if got := u.Read(1); got != want {
		t.Errorf("vd = %v, want %v", got, want)
	}
	if got := u.Accumulator().Lo; got != splat(2) {
		t.Errorf("ACCL = %v, want vte", got)
	}
	d := u.Divide()
	if d.Out != 0x3FFF || d.Double {
		t.Errorf("latches = %+v, want out=0x3fff single", d)
	}

	// VRCPH reads the high half back
	u.Execute(OpVRCPH, 4, 2, 2, 8)
	if got := u.Read(4)[2]; got != 0x3FFF {
		t.Errorf("VRCPH lane = %#x, want 0x3fff", got)
	}
}

func TestVRCPHThenVRCPL_DoublePrecision(t *testing.T) {
	u := newScalar()
	u.Write(1, Vector{1, 0, 0, 0, 0, 0, 0, 0})

	// high half 0x0001 from lane 0, low half 0x0000 from lane 1
	u.Execute(OpVRCPH, 2, 0, 1, 8)
	if d := u.Divide(); !d.Double || d.In != 1 {
		t.Fatalf("after VRCPH latches = %+v", d)
	}

	u.Execute(OpVRCPL, 3, 0, 1, 9)
	if got := u.Read(3)[0]; got != 0x7FFF {
		t.Errorf("VRCPL low = %#x, want 0x7fff", got)
	}
	if d := u.Divide(); d.Double || d.Out != 0 {
		t.Errorf("after VRCPL latches = %+v", d)
	}

	// without a preceding VRCPH the L form is single precision
	u.Execute(OpVRCPL, 4, 0, 1, 8)
	if got := uint16(u.Read(4)[0]); got != 0xC000 {
		t.Errorf("single VRCPL low = %#x, want 0xc000", got)
	}
	if d := u.Divide(); d.Out != 0x7FFF {
		t.Errorf("single VRCPL out = %#x, want 0x7fff", d.Out)
	}
}

func TestVRSQ(t *testing.T) {
	u := newScalar()
	u.Write(1, Vector{4})

	u.Execute(OpVRSQ, 2, 0, 1, 8)

	if got := uint16(u.Read(2)[0]); got != 0xE000 {
		t.Errorf("VRSQ low = %#x, want 0xe000", got)
	}
	u.Execute(OpVRSQH, 2, 1, 1, 8)
	if got := u.Read(2)[1]; got != 0x3FFF {
		t.Errorf("VRSQH high = %#x, want 0x3fff", got)
	}
}

func TestVMOV(t *testing.T) {
	u := newScalar()
	u.Write(1, splat(-1))
	u.Write(2, Vector{10, 11, 12, 13, 14, 15, 16, 17})

	u.Execute(OpVMOV, 1, 3, 2, 0)
	want := Vector{-1, -1, -1, 13, -1, -1, -1, -1}
	if got := u.Read(1); got != want {
		t.Errorf("VMOV vector = %v, want %v", got, want)
	}

	u.Execute(OpVMOV, 1, 6, 2, 9)
	want[6] = 11
	if got := u.Read(1); got != want {
		t.Errorf("VMOV broadcast = %v, want %v", got, want)
	}
	if got := u.Accumulator().Lo; got != splat(11) {
		t.Errorf("ACCL = %v, want vte", got)
	}
}

func TestVNOP(t *testing.T) {
	u := newScalar()
	before := randomStateForTest()
	u.Restore(before)

	u.Execute(OpVNOP, 1, 2, 3, 4)

	if u.Snapshot() != before {
		t.Error("VNOP changed state")
	}
}

func TestVSAW(t *testing.T) {
	acc := Accumulator{Hi: splat(1), Md: splat(2), Lo: splat(3)}
	tests := []struct {
		e    int
		want Vector
	}{
		{8, splat(1)},
		{9, splat(2)},
		{10, splat(3)},
		{0, Vector{}},
		{11, Vector{}},
	}

	for _, tt := range tests {
		u := newScalar()
		u.SetAccumulator(acc)
		u.Write(5, splat(99))

		u.Execute(OpVSAW, 5, 1, 2, tt.e)

		if got := u.Read(5); got != tt.want {
			t.Errorf("e=%d: vd = %v, want %v", tt.e, got, tt.want)
		}
		if u.Accumulator() != acc {
			t.Errorf("e=%d: accumulator changed", tt.e)
		}
	}
}
