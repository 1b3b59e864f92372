package asm

import "testing"

func TestParser_Operands(t *testing.T) {
	p := NewParser("vmadh $v1, v2, $v3[2h]")
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(prog.Instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(prog.Instructions))
	}

	inst := prog.Instructions[0]
	if inst.Mnemonic != "vmadh" {
		t.Errorf("expected vmadh, got %s", inst.Mnemonic)
	}
	if len(inst.Operands) != 3 {
		t.Fatalf("expected 3 operands, got %d", len(inst.Operands))
	}
	for i, want := range []uint8{1, 2, 3} {
		if inst.Operands[i].Type != OperandReg || inst.Operands[i].RegNum != want {
			t.Errorf("operand %d = %+v, want $v%d", i, inst.Operands[i], want)
		}
	}
	if inst.Operands[2].Element != "2h" {
		t.Errorf("expected element 2h, got %q", inst.Operands[2].Element)
	}
}

func TestParser_LabelsAndListing(t *testing.T) {
	input := `start:
0000: vnop
loop:
0001: vxor $v0, $v0, $v0
.word 0x4A000037`

	prog, err := NewParser(input).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(prog.Instructions) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(prog.Instructions))
	}
	if prog.Labels["start"] != 0 || prog.Labels["loop"] != 1 {
		t.Errorf("labels = %v", prog.Labels)
	}

	word := prog.Instructions[2]
	if !word.Directive || word.Mnemonic != "word" || word.Line != 5 {
		t.Errorf("directive = %+v", word)
	}
	if word.Operands[0].Type != OperandInt || word.Operands[0].IntVal != 0x4A000037 {
		t.Errorf("directive operand = %+v", word.Operands[0])
	}
}

func TestParser_InvalidRegister(t *testing.T) {
	for _, input := range []string{"vadd $v32, $v1, $v2", "vadd $v1, $v1, 0x"} {
		if _, err := NewParser(input).Parse(); err == nil {
			t.Errorf("%q: expected error", input)
		}
	}
}

func TestParseElement(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"0q", 2, false},
		{"1Q", 3, false},
		{"2h", 6, false},
		{"5", 13, false},
		{"e15", 15, false},
		{"e16", 0, true},
		{"4h", 0, true},
		{"8", 0, true},
		{"x", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseElement(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseElement(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseElement(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
