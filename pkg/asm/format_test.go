package asm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/akhildatla/rspvu/pkg/vu"
)

func sampleProgram() *vu.Program {
	return &vu.Program{Code: []vu.Instruction{
		vu.EncodeInstruction(vu.OpVMULF, 1, 2, 3, 15),
		vu.EncodeInstruction(vu.OpVMADH, 4, 5, 6, 4),
		vu.EncodeInstruction(vu.OpVNOP, 0, 0, 0, 0),
	}}
}

func TestMarshalProgram_RoundTrip(t *testing.T) {
	original := sampleProgram()

	data, err := MarshalProgram(original)
	if err != nil {
		t.Fatalf("MarshalProgram failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte(ProgramMagic)) {
		t.Errorf("missing magic: % x", data[:4])
	}
	if len(data) != 4+2+4+4*len(original.Code) {
		t.Errorf("image is %d bytes", len(data))
	}

	restored, err := UnmarshalProgram(data)
	if err != nil {
		t.Fatalf("UnmarshalProgram failed: %v", err)
	}
	if len(restored.Code) != len(original.Code) {
		t.Fatalf("expected %d instructions, got %d", len(original.Code), len(restored.Code))
	}
	for i := range original.Code {
		if restored.Code[i] != original.Code[i] {
			t.Errorf("instruction %d: expected %#08x, got %#08x", i, uint32(original.Code[i]), uint32(restored.Code[i]))
		}
	}
}

func TestMarshalProgram_Compressed(t *testing.T) {
	original := &vu.Program{}
	for i := 0; i < 512; i++ {
		original.Code = append(original.Code, vu.EncodeInstruction(vu.OpVADD, 1, 1, 2, 0))
	}

	data, err := MarshalProgramCompressed(original)
	if err != nil {
		t.Fatalf("MarshalProgramCompressed failed: %v", err)
	}
	if !bytes.HasPrefix(data, zstdMagic) {
		t.Fatalf("expected zstd frame, got % x", data[:4])
	}
	if len(data) >= 4*len(original.Code) {
		t.Errorf("compressed image not smaller: %d bytes", len(data))
	}

	restored, err := UnmarshalProgram(data)
	if err != nil {
		t.Fatalf("UnmarshalProgram failed: %v", err)
	}
	if len(restored.Code) != 512 || restored.Code[511] != original.Code[511] {
		t.Errorf("restored %d instructions", len(restored.Code))
	}
}

func TestUnmarshalProgram_Errors(t *testing.T) {
	good, _ := MarshalProgram(sampleProgram())

	badVersion := append([]byte(nil), good...)
	badVersion[4] = 9

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", []byte("DFBC\x01\x00\x00\x00\x00\x00"), ErrInvalidMagic},
		{"bad version", badVersion, ErrInvalidVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalProgram(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := UnmarshalProgram(good[:len(good)-1]); err == nil {
		t.Error("expected error for truncated image")
	}
	if _, err := UnmarshalProgram(append(good, 0)); err == nil {
		t.Error("expected error for trailing bytes")
	}
	if _, err := UnmarshalProgram([]byte("VU")); err == nil {
		t.Error("expected error for short image")
	}
}
