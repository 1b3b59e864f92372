package vu

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// State file format:
// - Magic: "VUST" (4 bytes)
// - Version: uint16
// - Words: [FlatWords]uint16, layout as in State.Flat

const (
	StateMagic   = "VUST"
	StateVersion = 1

	// FlatWords is the number of 16-bit words in a flat state image:
	// 256 register lanes, 24 accumulator lanes, VCO, VCC, VCE and the
	// three divide latches.
	FlatWords = NumVectorRegs*Lanes + 3*Lanes + 6
)

var (
	ErrInvalidMagic   = errors.New("invalid state magic")
	ErrInvalidVersion = errors.New("unsupported state version")
)

// State is a value copy of everything a Unit holds.
type State struct {
	Registers   [NumVectorRegs]Vector `json:"registers"`
	Accumulator Accumulator           `json:"accumulator"`
	Flags       Flags                 `json:"flags"`
	Divide      DivideState           `json:"divide"`
}

// Snapshot copies the unit's state.
func (u *Unit) Snapshot() State {
	return State{
		Registers:   u.regs.VR,
		Accumulator: u.acc,
		Flags:       u.flags,
		Divide:      u.Divide(),
	}
}

// Restore replaces the unit's state.
func (u *Unit) Restore(s State) {
	u.regs.VR = s.Registers
	u.acc = s.Accumulator
	u.flags = s.Flags
	u.SetDivide(s.Divide)
}

// Flat lays the state out as fixed-size 16-bit words: registers in
// order, then HI, MD, LO, then VCO, VCC, VCE, DivIn, DivOut, DivDP.
func (s State) Flat() [FlatWords]uint16 {
	var w [FlatWords]uint16
	n := 0
	put := func(v Vector) {
		for _, x := range v {
			w[n] = uint16(x)
			n++
		}
	}
	for _, r := range s.Registers {
		put(r)
	}
	put(s.Accumulator.Hi)
	put(s.Accumulator.Md)
	put(s.Accumulator.Lo)

	w[n+0] = s.Flags.VCO()
	w[n+1] = s.Flags.VCC()
	w[n+2] = uint16(s.Flags.VCE())
	w[n+3] = uint16(s.Divide.In)
	w[n+4] = uint16(s.Divide.Out)
	if s.Divide.Double {
		w[n+5] = 1
	}
	return w
}

// StateFromFlat is the inverse of State.Flat.
func StateFromFlat(w [FlatWords]uint16) State {
	var s State
	n := 0
	get := func() Vector {
		var v Vector
		for i := range v {
			v[i] = int16(w[n])
			n++
		}
		return v
	}
	for i := range s.Registers {
		s.Registers[i] = get()
	}
	s.Accumulator.Hi = get()
	s.Accumulator.Md = get()
	s.Accumulator.Lo = get()

	s.Flags.SetVCO(w[n+0])
	s.Flags.SetVCC(w[n+1])
	s.Flags.SetVCE(uint8(w[n+2]))
	s.Divide.In = int16(w[n+3])
	s.Divide.Out = int16(w[n+4])
	s.Divide.Double = w[n+5] != 0
	return s
}

// MarshalState serializes a state image.
func MarshalState(s State) ([]byte, error) {
	buf := new(bytes.Buffer)

	// Write magic
	buf.WriteString(StateMagic)

	// Write version
	if err := binary.Write(buf, binary.LittleEndian, uint16(StateVersion)); err != nil {
		return nil, fmt.Errorf("writing version: %w", err)
	}

	// Write words
	words := s.Flat()
	if err := binary.Write(buf, binary.LittleEndian, words[:]); err != nil {
		return nil, fmt.Errorf("writing state: %w", err)
	}

	return buf.Bytes(), nil
}

// UnmarshalState parses a state image written by MarshalState.
func UnmarshalState(data []byte) (State, error) {
	buf := bytes.NewReader(data)

	// Read and verify magic
	magic := make([]byte, 4)
	if _, err := io.ReadFull(buf, magic); err != nil {
		return State{}, fmt.Errorf("reading magic: %w", err)
	}
	if string(magic) != StateMagic {
		return State{}, ErrInvalidMagic
	}

	// Read and verify version
	var version uint16
	if err := binary.Read(buf, binary.LittleEndian, &version); err != nil {
		return State{}, fmt.Errorf("reading version: %w", err)
	}
	if version != StateVersion {
		return State{}, ErrInvalidVersion
	}

	var words [FlatWords]uint16
	if err := binary.Read(buf, binary.LittleEndian, words[:]); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrBadState, err)
	}
	if buf.Len() != 0 {
		return State{}, fmt.Errorf("%w: %d trailing bytes", ErrBadState, buf.Len())
	}
	return StateFromFlat(words), nil
}
