package asm

import (
	"strings"
	"unicode"
)

// TokenType represents the type of a token.
type TokenType uint8

const (
	TokenEOF TokenType = iota
	TokenNewline
	TokenIdent     // mnemonics and labels
	TokenInt       // decimal or 0x hex literals
	TokenComma     // ,
	TokenColon     // : (for labels)
	TokenReg       // $v0-$v31
	TokenElement   // [2h], [0q], [5], [e1]
	TokenDirective // .word
)

// String returns the string representation of a token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenNewline:
		return "NEWLINE"
	case TokenIdent:
		return "IDENT"
	case TokenInt:
		return "INT"
	case TokenComma:
		return "COMMA"
	case TokenColon:
		return "COLON"
	case TokenReg:
		return "REG"
	case TokenElement:
		return "ELEMENT"
	case TokenDirective:
		return "DIRECTIVE"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Lexer tokenizes vector assembly source.
type Lexer struct {
	input  string
	pos    int
	line   int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		tokens: []Token{},
	}
}

// Tokenize tokenizes the entire input and returns the tokens.
func (l *Lexer) Tokenize() []Token {
	for l.pos < len(l.input) {
		l.skipWhitespace()
		if l.pos >= len(l.input) {
			break
		}

		ch := l.input[l.pos]

		switch {
		case ch == '\n':
			l.emit(TokenNewline, "\n")
			l.line++
			l.pos++

		case ch == ';' || ch == '#' || strings.HasPrefix(l.input[l.pos:], "//"):
			l.skipComment()

		case ch == ',':
			l.emit(TokenComma, ",")
			l.pos++

		case ch == ':':
			l.emit(TokenColon, ":")
			l.pos++

		case ch == '[':
			l.scanElement()

		case ch == '.':
			l.pos++
			l.emit(TokenDirective, strings.ToLower(l.scanWord()))

		case ch == '$':
			l.pos++
			word := l.scanWord()
			l.emit(l.classify(word), word)

		case ch == '-' || unicode.IsDigit(rune(ch)):
			l.scanNumber()

		case unicode.IsLetter(rune(ch)) || ch == '_':
			word := l.scanWord()
			l.emit(l.classify(word), word)

		default:
			// Unknown character, skip it
			l.pos++
		}
	}

	l.emit(TokenEOF, "")
	return l.tokens
}

func (l *Lexer) emit(t TokenType, value string) {
	l.tokens = append(l.tokens, Token{Type: t, Value: value, Line: l.line})
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.pos++
		} else {
			break
		}
	}
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.pos++
	}
}

func (l *Lexer) scanElement() {
	l.pos++ // Skip opening bracket
	start := l.pos

	for l.pos < len(l.input) && l.input[l.pos] != ']' && l.input[l.pos] != '\n' {
		l.pos++
	}

	l.emit(TokenElement, strings.TrimSpace(l.input[start:l.pos]))

	if l.pos < len(l.input) && l.input[l.pos] == ']' {
		l.pos++ // Skip closing bracket
	}
}

func (l *Lexer) scanNumber() {
	start := l.pos

	// Handle negative sign
	if l.input[l.pos] == '-' {
		l.pos++
	}

	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}

	l.emit(TokenInt, l.input[start:l.pos])
}

func (l *Lexer) scanWord() string {
	start := l.pos
	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
	return l.input[start:l.pos]
}

// classify separates register names (v0-v31) from mnemonics and labels.
func (l *Lexer) classify(value string) TokenType {
	upper := strings.ToUpper(value)
	if len(upper) >= 2 && upper[0] == 'V' && strings.IndexFunc(upper[1:], func(r rune) bool {
		return !unicode.IsDigit(r)
	}) < 0 {
		return TokenReg
	}
	return TokenIdent
}

func isWordChar(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_'
}
