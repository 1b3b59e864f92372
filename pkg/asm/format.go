package asm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/akhildatla/rspvu/pkg/vu"
	"github.com/klauspost/compress/zstd"
)

// Binary program format:
// - Magic: "VUBC" (4 bytes)
// - Version: uint16
// - Instruction count: uint32
// - Instructions: uint32 each
//
// The whole image may be wrapped in a zstd frame.

const (
	ProgramMagic   = "VUBC"
	ProgramVersion = 1
)

var (
	ErrInvalidMagic   = errors.New("invalid program magic")
	ErrInvalidVersion = errors.New("unsupported program version")
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// MarshalProgram serializes a program to its binary image.
func MarshalProgram(p *vu.Program) ([]byte, error) {
	buf := new(bytes.Buffer)

	// Write magic
	buf.WriteString(ProgramMagic)

	// Write version
	if err := binary.Write(buf, binary.LittleEndian, uint16(ProgramVersion)); err != nil {
		return nil, err
	}

	// Write instructions
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(p.Code))); err != nil {
		return nil, err
	}
	for _, inst := range p.Code {
		if err := binary.Write(buf, binary.LittleEndian, uint32(inst)); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// MarshalProgramCompressed serializes a program and wraps it in zstd.
func MarshalProgramCompressed(p *vu.Program) ([]byte, error) {
	raw, err := MarshalProgram(p)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

// UnmarshalProgram decodes a binary image, compressed or not.
func UnmarshalProgram(data []byte) (*vu.Program, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
	}

	buf := bytes.NewReader(data)

	// Read magic
	magic := make([]byte, 4)
	if _, err := io.ReadFull(buf, magic); err != nil {
		return nil, err
	}
	if string(magic) != ProgramMagic {
		return nil, ErrInvalidMagic
	}

	// Read version
	var version uint16
	if err := binary.Read(buf, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != ProgramVersion {
		return nil, ErrInvalidVersion
	}

	// Read instructions
	var numInst uint32
	if err := binary.Read(buf, binary.LittleEndian, &numInst); err != nil {
		return nil, err
	}
	if int64(numInst)*4 != int64(buf.Len()) {
		return nil, fmt.Errorf("program image: %d instructions declared, %d bytes remain", numInst, buf.Len())
	}
	code := make([]vu.Instruction, numInst)
	for i := range code {
		var inst uint32
		if err := binary.Read(buf, binary.LittleEndian, &inst); err != nil {
			return nil, err
		}
		code[i] = vu.Instruction(inst)
	}

	return &vu.Program{Code: code}, nil
}
