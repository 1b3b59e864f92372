// Package vu implements the vector unit of the Reality Signal Processor.
//
// A Unit holds the architectural state of the vector coprocessor:
//   - 32 vector registers ($v0-$v31) of eight signed 16-bit lanes
//   - a 48-bit accumulator per lane, split into HI, MD and LO slices
//   - the VCO, VCC and VCE control registers
//   - the divide unit's input, output and double-precision latches
//
// Every computational instruction is executed through a 64-entry dispatch
// table indexed by its function field:
//
//	u := vu.New()
//	u.Write(1, vu.Vector{1, 2, 3, 4, 5, 6, 7, 8})
//	u.Write(2, vu.Vector{8, 7, 6, 5, 4, 3, 2, 1})
//	u.Execute(vu.OpVADD, 3, 1, 2, 0)
//
// Out-of-range registers, selectors or opcodes are programming errors and
// panic with an error wrapping ErrInvalidRegister or ErrInvalidOpcode.
package vu

import (
	"errors"
	"fmt"

	"github.com/akhildatla/rspvu/pkg/rom"
)

// Error definitions
var (
	ErrInvalidRegister    = errors.New("invalid register")
	ErrInvalidOpcode      = errors.New("invalid opcode")
	ErrInvalidElement     = errors.New("invalid element selector")
	ErrStepLimitExceeded  = errors.New("step limit exceeded")
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrBadState           = errors.New("malformed state image")
)

// divider holds the latches shared by the reciprocal instructions.
type divider struct {
	in  int16 // upper half staged by VRCPH/VRSQH
	out int16 // upper half of the last result
	dp  bool  // next low-half op uses 32-bit input
}

// handler executes one instruction over all eight lanes.
type handler func(u *Unit, vd, vs, vt, e int)

// Unit is one vector unit instance. It is not safe for concurrent use;
// independent units share nothing but the read-only ROM tables.
type Unit struct {
	regs   RegisterFile
	acc    Accumulator
	flags  Flags
	div    divider
	tables *rom.Tables

	strategy Strategy
	ops      *[NumOpcodes]handler

	maxSteps int64
	stats    *RunStats
}

// Option configures a Unit.
type Option func(*Unit)

// WithStrategy selects the execution path. StrategyAuto checks the host CPU.
func WithStrategy(s Strategy) Option {
	return func(u *Unit) {
		u.strategy = s
	}
}

// WithTables overrides the divide ROM.
func WithTables(t *rom.Tables) Option {
	return func(u *Unit) {
		if t != nil {
			u.tables = t
		}
	}
}

// WithMaxSteps limits the number of instructions Run may execute.
func WithMaxSteps(n int64) Option {
	return func(u *Unit) {
		u.maxSteps = n
	}
}

// New creates a unit with zeroed state.
func New(opts ...Option) *Unit {
	u := &Unit{
		tables:   rom.Default(),
		strategy: StrategyAuto,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.strategy == StrategyAuto {
		u.strategy = SelectStrategy()
	}
	u.ops = tableFor(u.strategy)
	return u
}

// Strategy returns the execution path in use.
func (u *Unit) Strategy() Strategy {
	return u.strategy
}

// Execute runs one instruction.
func (u *Unit) Execute(op Opcode, vd, vs, vt, e int) {
	if op >= NumOpcodes {
		panic(fmt.Errorf("%w: 0x%02X", ErrInvalidOpcode, uint8(op)))
	}
	mustRegister(vd)
	mustRegister(vs)
	mustRegister(vt)
	if e < 0 || e > 15 {
		panic(fmt.Errorf("%w: %d", ErrInvalidElement, e))
	}
	u.ops[op](u, vd, vs, vt, e)
}

// ExecuteInstruction decodes and runs a COP2 instruction word.
func (u *Unit) ExecuteInstruction(inst Instruction) error {
	if !inst.IsVector() {
		return fmt.Errorf("%w: 0x%08X", ErrInvalidInstruction, uint32(inst))
	}
	u.Execute(inst.Opcode(), int(inst.Vd()), int(inst.Vs()), int(inst.Vt()), int(inst.Element()))
	return nil
}

// Read returns a copy of register i.
func (u *Unit) Read(i int) Vector {
	return u.regs.Read(i)
}

// Write stores v into register i.
func (u *Unit) Write(i int, v Vector) {
	u.regs.Write(i, v)
}

// Accumulator returns a copy of the accumulator.
func (u *Unit) Accumulator() Accumulator {
	return u.acc
}

// SetAccumulator replaces the accumulator.
func (u *Unit) SetAccumulator(a Accumulator) {
	u.acc = a
}

// Flags returns a copy of the control registers.
func (u *Unit) Flags() Flags {
	return u.flags
}

// SetFlags replaces the control registers.
func (u *Unit) SetFlags(f Flags) {
	u.flags = f
}

// Tables returns the divide ROM in use.
func (u *Unit) Tables() *rom.Tables {
	return u.tables
}

// Reset clears registers, accumulator, flags and divide latches.
func (u *Unit) Reset() {
	u.regs.Reset()
	u.acc.Reset()
	u.flags.Reset()
	u.div = divider{}
}
