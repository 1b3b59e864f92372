package vu

import (
	"testing"
)

func TestClampSigned16_Boundaries(t *testing.T) {
	tests := []struct {
		in   int64
		want int16
	}{
		{-32769, -32768},
		{-32768, -32768},
		{-32767, -32767},
		{-1, -1},
		{0, 0},
		{1, 1},
		{32766, 32766},
		{32767, 32767},
		{32768, 32767},
		{1 << 40, 32767},
		{-(1 << 40), -32768},
	}

	for _, tt := range tests {
		if got := ClampSigned16(tt.in); got != tt.want {
			t.Errorf("ClampSigned16(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClampUnsigned16_Boundaries(t *testing.T) {
	tests := []struct {
		in   int64
		want uint16
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{32767, 32767},
		{32768, 32768},
		{65534, 65534},
		{65535, 65535},
		{65536, 65535},
		{-(1 << 40), 0},
	}

	for _, tt := range tests {
		if got := ClampUnsigned16(tt.in); got != tt.want {
			t.Errorf("ClampUnsigned16(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClamp_IdempotentInRange(t *testing.T) {
	for v := int64(-32768); v <= 32767; v++ {
		once := ClampSigned16(v)
		if ClampSigned16(int64(once)) != once || int64(once) != v {
			t.Fatalf("ClampSigned16 not idempotent at %d", v)
		}
	}
	for v := int64(0); v <= 65535; v++ {
		once := ClampUnsigned16(v)
		if ClampUnsigned16(int64(once)) != once || int64(once) != v {
			t.Fatalf("ClampUnsigned16 not idempotent at %d", v)
		}
	}
}

func TestAccumulator_GetSet(t *testing.T) {
	var a Accumulator

	a.Set(0, -1)
	if a.Hi[0] != -1 || a.Md[0] != -1 || a.Lo[0] != -1 {
		t.Errorf("Set(-1) slices = %04x %04x %04x", uint16(a.Hi[0]), uint16(a.Md[0]), uint16(a.Lo[0]))
	}
	if a.Get(0) != -1 {
		t.Errorf("Get = %d, want -1", a.Get(0))
	}

	// wraps at 48 bits
	a.Set(1, 1<<47)
	if a.Get(1) != -(1 << 47) {
		t.Errorf("Get = %d, want %d", a.Get(1), int64(-(1 << 47)))
	}

	a.Set(2, 0x123456789ABC)
	if uint16(a.Hi[2]) != 0x1234 || uint16(a.Md[2]) != 0x5678 || uint16(a.Lo[2]) != 0x9ABC {
		t.Errorf("slices = %04x %04x %04x", uint16(a.Hi[2]), uint16(a.Md[2]), uint16(a.Lo[2]))
	}
}

func TestAccumulator_Saturate(t *testing.T) {
	tests := []struct {
		name              string
		value             int64
		high, low, uclamp int16
	}{
		{"zero", 0, 0, 0, 0},
		{"in range", 0x0000_1234_5678, 0x1234, 0x5678, 0x1234},
		{"md bit 15", 0x0000_8000_0001, 32767, -1, -1},
		{"negative in range", -0x10000, -1, 0, 0},
		{"negative min", -0x8000_0000, -32768, 0, 0},
		{"negative overflow", -0x8000_0001, -32768, 0, 0},
		{"positive overflow", 0x0001_0000_0000, 32767, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Accumulator
			a.Set(0, tt.value)
			if got := a.SaturateHigh(0); got != tt.high {
				t.Errorf("SaturateHigh = %d, want %d", got, tt.high)
			}
			if got := a.SaturateLow(0); got != tt.low {
				t.Errorf("SaturateLow = %d, want %d", got, tt.low)
			}
			if got := a.SaturateUnsigned(0); got != tt.uclamp {
				t.Errorf("SaturateUnsigned = %d, want %d", got, tt.uclamp)
			}
		})
	}
}
