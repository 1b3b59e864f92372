// Package asm assembles and disassembles vector unit programs.
//
// Source syntax follows the usual RSP listing conventions:
//
//	loop:
//	    vmudn $v1, $v2, $v3[2h]   ; comment
//	    vrcph $v4[0], $v5[1]
//	    .word 0x4A000037
package asm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/akhildatla/rspvu/pkg/vu"
)

// ErrSyntax is wrapped by all assembler errors.
var ErrSyntax = errors.New("syntax error")

// Assemble parses source and encodes it into a program.
func Assemble(source string) (*vu.Program, error) {
	parser := NewParser(source)
	asmProg, err := parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	a := &assembler{program: &vu.Program{Code: make([]vu.Instruction, 0, len(asmProg.Instructions))}}
	return a.assemble(asmProg)
}

type assembler struct {
	program *vu.Program
}

func (a *assembler) assemble(asmProg *AsmProgram) (*vu.Program, error) {
	for _, inst := range asmProg.Instructions {
		word, err := a.encode(inst)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", inst.Line, err)
		}
		a.program.Code = append(a.program.Code, word)
	}
	return a.program, nil
}

func (a *assembler) encode(inst AsmInstruction) (vu.Instruction, error) {
	if inst.Directive {
		return a.encodeDirective(inst)
	}

	op, ok := vu.OpcodeFromString(inst.Mnemonic)
	if !ok {
		return 0, fmt.Errorf("%w: unknown mnemonic %s", ErrSyntax, inst.Mnemonic)
	}

	for _, operand := range inst.Operands {
		if operand.Type != OperandReg {
			return 0, fmt.Errorf("%w: %s expects register operands", ErrSyntax, op)
		}
	}

	switch len(inst.Operands) {
	case 0:
		return vu.EncodeInstruction(op, 0, 0, 0, 0), nil

	case 2:
		// Scalar-lane form: OP $vd[de], $vt[e]
		if !isLaneMove(op) {
			return 0, fmt.Errorf("%w: %s takes three operands", ErrSyntax, op)
		}
		vd, vt := inst.Operands[0], inst.Operands[1]
		de, err := parseLane(vd.Element)
		if err != nil {
			return 0, err
		}
		e, err := ParseElement(vt.Element)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return vu.EncodeInstruction(op, vd.RegNum, uint8(de), vt.RegNum, uint8(e)), nil

	case 3:
		vd, vs, vt := inst.Operands[0], inst.Operands[1], inst.Operands[2]
		if vd.Element != "" || vs.Element != "" {
			return 0, fmt.Errorf("%w: element suffix only allowed on vt", ErrSyntax)
		}
		e, err := ParseElement(vt.Element)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return vu.EncodeInstruction(op, vd.RegNum, vs.RegNum, vt.RegNum, uint8(e)), nil

	default:
		return 0, fmt.Errorf("%w: %s expects 3 operands, got %d", ErrSyntax, op, len(inst.Operands))
	}
}

func (a *assembler) encodeDirective(inst AsmInstruction) (vu.Instruction, error) {
	switch inst.Mnemonic {
	case "word":
		if len(inst.Operands) != 1 || inst.Operands[0].Type != OperandInt {
			return 0, fmt.Errorf("%w: .word expects one integer", ErrSyntax)
		}
		v := inst.Operands[0].IntVal
		if v < -(1<<31) || v > 0xFFFFFFFF {
			return 0, fmt.Errorf("%w: .word value %d out of range", ErrSyntax, v)
		}
		return vu.Instruction(uint32(v)), nil
	default:
		return 0, fmt.Errorf("%w: unknown directive .%s", ErrSyntax, inst.Mnemonic)
	}
}

// isLaneMove reports whether op uses vs as a destination lane index.
func isLaneMove(op vu.Opcode) bool {
	switch op {
	case vu.OpVRCP, vu.OpVRCPL, vu.OpVRCPH, vu.OpVMOV,
		vu.OpVRSQ, vu.OpVRSQL, vu.OpVRSQH:
		return true
	}
	return false
}

func parseLane(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 1 || s[0] < '0' || s[0] > '7' {
		return 0, fmt.Errorf("%w: destination lane must be [0]-[7], got [%s]", ErrSyntax, s)
	}
	return int(s[0] - '0'), nil
}

// elementSuffix renders an element selector so that it reassembles to the
// same encoding. Selector 1 aliases 0 but keeps its raw spelling.
func elementSuffix(e uint8) string {
	if e == 1 {
		return "[e1]"
	}
	return vu.SelectorName(int(e))
}

// FormatInstruction renders a single instruction as assembly source.
func FormatInstruction(inst vu.Instruction) string {
	if !inst.IsVector() {
		return fmt.Sprintf(".word 0x%08X", uint32(inst))
	}
	op := inst.Opcode()
	name := strings.ToLower(op.String())
	if isLaneMove(op) && inst.Vs() < vu.Lanes {
		return fmt.Sprintf("%-6s $v%d[%d], $v%d%s", name, inst.Vd(), inst.Vs(), inst.Vt(), elementSuffix(inst.Element()))
	}
	return fmt.Sprintf("%-6s $v%d, $v%d, $v%d%s", name, inst.Vd(), inst.Vs(), inst.Vt(), elementSuffix(inst.Element()))
}

// Disassemble returns a listing of the program.
func Disassemble(p *vu.Program) string {
	var sb strings.Builder
	sb.WriteString("; Vector program\n")
	fmt.Fprintf(&sb, "; Instructions: %d\n", len(p.Code))
	sb.WriteString(";\n")

	for i, inst := range p.Code {
		fmt.Fprintf(&sb, "%04d: %s\n", i, FormatInstruction(inst))
	}

	return sb.String()
}
