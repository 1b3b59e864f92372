package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// OperandType represents the type of an operand.
type OperandType uint8

const (
	OperandReg OperandType = iota
	OperandInt
)

// Operand represents an instruction operand.
type Operand struct {
	Type    OperandType
	RegNum  uint8  // For registers
	IntVal  int64  // For integer literals
	Element string // Bracketed suffix, if any
}

// AsmInstruction represents a parsed assembly line.
type AsmInstruction struct {
	Mnemonic  string
	Directive bool
	Operands  []Operand
	Line      int
}

// AsmProgram represents a parsed assembly program.
type AsmProgram struct {
	Instructions []AsmInstruction
	Labels       map[string]int // label -> instruction index
}

// Parser parses vector assembly source.
type Parser struct {
	tokens  []Token
	pos     int
	program *AsmProgram
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	lexer := NewLexer(input)
	tokens := lexer.Tokenize()
	return &Parser{
		tokens: tokens,
		pos:    0,
		program: &AsmProgram{
			Instructions: []AsmInstruction{},
			Labels:       make(map[string]int),
		},
	}
}

// Parse parses the entire input and returns the program.
func (p *Parser) Parse() (*AsmProgram, error) {
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]

		switch tok.Type {
		case TokenEOF:
			return p.program, nil

		case TokenNewline:
			p.pos++

		case TokenIdent:
			if p.peek(1).Type == TokenColon {
				p.program.Labels[tok.Value] = len(p.program.Instructions)
				p.pos += 2
				continue
			}
			inst, err := p.parseInstruction(false)
			if err != nil {
				return nil, err
			}
			p.program.Instructions = append(p.program.Instructions, inst)

		case TokenDirective:
			inst, err := p.parseInstruction(true)
			if err != nil {
				return nil, err
			}
			p.program.Instructions = append(p.program.Instructions, inst)

		default:
			// Skip listing addresses and stray tokens
			p.pos++
		}
	}

	return p.program, nil
}

func (p *Parser) peek(n int) Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return Token{Type: TokenEOF}
}

func (p *Parser) parseInstruction(directive bool) (AsmInstruction, error) {
	inst := AsmInstruction{
		Mnemonic:  p.tokens[p.pos].Value,
		Directive: directive,
		Line:      p.tokens[p.pos].Line,
		Operands:  []Operand{},
	}
	p.pos++ // Consume mnemonic

	// Parse operands until newline or EOF
	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]

		if tok.Type == TokenNewline || tok.Type == TokenEOF {
			break
		}

		if tok.Type == TokenComma {
			p.pos++
			continue
		}

		operand, err := p.parseOperand()
		if err != nil {
			return inst, err
		}
		inst.Operands = append(inst.Operands, operand)
	}

	return inst, nil
}

func (p *Parser) parseOperand() (Operand, error) {
	tok := p.tokens[p.pos]

	switch tok.Type {
	case TokenReg:
		regNum, err := p.parseRegisterNumber(tok.Value, 1)
		if err != nil {
			return Operand{}, fmt.Errorf("line %d: %w", tok.Line, err)
		}
		p.pos++
		op := Operand{Type: OperandReg, RegNum: regNum}
		if p.peek(0).Type == TokenElement {
			op.Element = p.peek(0).Value
			p.pos++
		}
		return op, nil

	case TokenInt:
		intVal, err := strconv.ParseInt(tok.Value, 0, 64)
		if err != nil {
			return Operand{}, fmt.Errorf("line %d: invalid integer: %s", tok.Line, tok.Value)
		}
		p.pos++
		return Operand{Type: OperandInt, IntVal: intVal}, nil

	default:
		return Operand{}, fmt.Errorf("line %d: unexpected token: %s", tok.Line, tok.Value)
	}
}

func (p *Parser) parseRegisterNumber(value string, offset int) (uint8, error) {
	if len(value) <= offset {
		return 0, fmt.Errorf("invalid register: %s", value)
	}
	numStr := value[offset:]
	num, err := strconv.ParseUint(numStr, 10, 8)
	if err != nil || num > 31 {
		return 0, fmt.Errorf("invalid register number: %s", value)
	}
	return uint8(num), nil
}

// ParseElement converts a selector suffix to its 4-bit encoding.
//
//	""        0 (whole vector)
//	0q 1q     2 3
//	0h-3h     4-7
//	0-7       8-15 (single lane)
//	e0-e15    raw encoding
func ParseElement(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return 0, nil
	case strings.HasPrefix(s, "e"):
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 || n > 15 {
			return 0, fmt.Errorf("invalid element %q", s)
		}
		return n, nil
	case len(s) == 2 && s[1] == 'q' && s[0] >= '0' && s[0] <= '1':
		return 2 + int(s[0]-'0'), nil
	case len(s) == 2 && s[1] == 'h' && s[0] >= '0' && s[0] <= '3':
		return 4 + int(s[0]-'0'), nil
	case len(s) == 1 && s[0] >= '0' && s[0] <= '7':
		return 8 + int(s[0]-'0'), nil
	}
	return 0, fmt.Errorf("invalid element %q", s)
}
