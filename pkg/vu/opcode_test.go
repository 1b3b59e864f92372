package vu

import (
	"testing"
)

func TestOpcode_StringRoundTrip(t *testing.T) {
	seen := make(map[string]Opcode)
	for op := Opcode(0); op < NumOpcodes; op++ {
		name := op.String()
		if prev, dup := seen[name]; dup {
			t.Errorf("opcodes %#x and %#x share name %q", uint8(prev), uint8(op), name)
		}
		seen[name] = op

		got, ok := OpcodeFromString(name)
		if !ok || got != op {
			t.Errorf("OpcodeFromString(%q) = %s, %v; want %s", name, got, ok, op)
		}
	}
	if Opcode(64).String() != "UNKNOWN" {
		t.Errorf("Opcode(64).String() = %q", Opcode(64).String())
	}
}

func TestOpcodeFromString(t *testing.T) {
	tests := []struct {
		in   string
		want Opcode
		ok   bool
	}{
		{"vmulf", OpVMULF, true},
		{"VSAR", OpVSAW, true},
		{"vrsv12", 0x12, true},
		{"VRSV10", 0, false}, // 0x10 is VADD
		{"VRSVZZ", 0, false},
		{"VFOO", 0, false},
	}
	for _, tt := range tests {
		got, ok := OpcodeFromString(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("OpcodeFromString(%q) = %s, %v; want %s, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestOpcode_Classes(t *testing.T) {
	if !OpVMADH.IsMultiply() || OpVADD.IsMultiply() {
		t.Error("IsMultiply wrong")
	}
	for _, op := range []Opcode{0x02, 0x03, 0x0A, 0x0B, 0x12, 0x16, 0x17, 0x18, 0x1C, 0x1E, 0x1F, 0x2E, 0x2F, 0x38, 0x3F} {
		if !op.IsReserved() {
			t.Errorf("%#x should be reserved", uint8(op))
		}
	}
	for _, op := range []Opcode{OpVMULF, OpVSAW, OpVNOP, OpVNXOR} {
		if op.IsReserved() {
			t.Errorf("%s should not be reserved", op)
		}
	}
}
