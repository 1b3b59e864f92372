package vu

import "fmt"

// Instruction is a 32-bit COP2 computational instruction word.
//
// Layout:
// ┌────────┬────┬───────┬──────┬──────┬──────┬────────┐
// │ COP2   │ CO │   e   │  vt  │  vs  │  vd  │ funct  │
// │ 010010 │ 1  │4 bits │5 bits│5 bits│5 bits│ 6 bits │
// └────────┴────┴───────┴──────┴──────┴──────┴────────┘
type Instruction uint32

const (
	cop2Major   = 0x12
	cop2CoBit   = 1 << 25
	cop2Pattern = cop2Major<<26 | cop2CoBit
	cop2Mask    = 0x3F<<26 | cop2CoBit
)

// EncodeInstruction packs an operation and its operands.
func EncodeInstruction(op Opcode, vd, vs, vt, e uint8) Instruction {
	var inst uint32 = cop2Pattern

	// Element in bits 24-21
	inst |= uint32(e&0xF) << 21

	// Registers in bits 20-16, 15-11, 10-6
	inst |= uint32(vt&0x1F) << 16
	inst |= uint32(vs&0x1F) << 11
	inst |= uint32(vd&0x1F) << 6

	// Function in bits 5-0
	inst |= uint32(op & 0x3F)

	return Instruction(inst)
}

// IsVector reports whether the word is a COP2 computational instruction.
func (i Instruction) IsVector() bool {
	return uint32(i)&cop2Mask == cop2Pattern
}

// Opcode returns the function field (bits 5-0).
func (i Instruction) Opcode() Opcode {
	return Opcode(i & 0x3F)
}

// Element returns the element selector (bits 24-21).
func (i Instruction) Element() uint8 {
	return uint8((i >> 21) & 0xF)
}

// Vt returns the shuffled source register (bits 20-16).
func (i Instruction) Vt() uint8 {
	return uint8((i >> 16) & 0x1F)
}

// Vs returns the first source register (bits 15-11).
func (i Instruction) Vs() uint8 {
	return uint8((i >> 11) & 0x1F)
}

// Vd returns the destination register (bits 10-6).
func (i Instruction) Vd() uint8 {
	return uint8((i >> 6) & 0x1F)
}

// String returns a human-readable representation of the instruction.
func (i Instruction) String() string {
	if !i.IsVector() {
		return fmt.Sprintf(".word 0x%08X", uint32(i))
	}
	return fmt.Sprintf("%s $v%d, $v%d, $v%d%s",
		i.Opcode(), i.Vd(), i.Vs(), i.Vt(), SelectorName(int(i.Element())))
}
