package vu

import (
	"testing"
)

func TestEncodeInstruction(t *testing.T) {
	tests := []struct {
		name          string
		op            Opcode
		vd, vs, vt, e uint8
		want          uint32
	}{
		// vmulf $v1, $v2, $v3[7]
		{"vmulf", OpVMULF, 1, 2, 3, 15, 0x4BE31040},
		{"vnop", OpVNOP, 0, 0, 0, 0, 0x4A000037},
		{"vadd", OpVADD, 31, 31, 31, 0, 0x4A1FFFD0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := EncodeInstruction(tt.op, tt.vd, tt.vs, tt.vt, tt.e)
			if uint32(inst) != tt.want {
				t.Errorf("encoded %#08x, want %#08x", uint32(inst), tt.want)
			}
			if !inst.IsVector() {
				t.Error("IsVector = false")
			}
			if inst.Opcode() != tt.op || inst.Vd() != tt.vd || inst.Vs() != tt.vs ||
				inst.Vt() != tt.vt || inst.Element() != tt.e {
				t.Errorf("decoded %s %d %d %d %d", inst.Opcode(), inst.Vd(), inst.Vs(), inst.Vt(), inst.Element())
			}
		})
	}
}

func TestInstruction_IsVector(t *testing.T) {
	tests := []struct {
		word uint32
		want bool
	}{
		{0x4A000037, true},
		{0x48020800, false}, // mfc2
		{0xC8000000, false}, // lwc2
		{0x00000000, false},
	}
	for _, tt := range tests {
		if got := Instruction(tt.word).IsVector(); got != tt.want {
			t.Errorf("IsVector(%#08x) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestInstruction_String(t *testing.T) {
	tests := []struct {
		inst Instruction
		want string
	}{
		{EncodeInstruction(OpVMULF, 1, 2, 3, 15), "VMULF $v1, $v2, $v3[7]"},
		{EncodeInstruction(OpVADD, 4, 5, 6, 0), "VADD $v4, $v5, $v6"},
		{EncodeInstruction(OpVCH, 4, 5, 6, 5), "VCH $v4, $v5, $v6[1h]"},
		{Instruction(0x12345678), ".word 0x12345678"},
	}
	for _, tt := range tests {
		if got := tt.inst.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
