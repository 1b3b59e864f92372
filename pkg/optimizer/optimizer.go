// Package optimizer rewrites straight-line vector programs without
// changing the state they leave behind.
package optimizer

import (
	"github.com/akhildatla/rspvu/pkg/vu"
)

// Optimizer applies optimizations to an assembled program.
type Optimizer struct {
	enableCanonicalize bool
	enableNopRemoval   bool
	enableDeadCode     bool

	// live is the state observable after the program ends.
	live Resource
}

// Option is a functional option for the Optimizer.
type Option func(*Optimizer)

// WithCanonicalize rewrites ignored instruction fields to zero.
func WithCanonicalize() Option {
	return func(o *Optimizer) {
		o.enableCanonicalize = true
	}
}

// WithNopRemoval removes VNOP instructions.
func WithNopRemoval() Option {
	return func(o *Optimizer) {
		o.enableNopRemoval = true
	}
}

// WithLiveOut restricts the state that must survive the program.
// By default all state is live.
func WithLiveOut(r Resource) Option {
	return func(o *Optimizer) {
		o.live = r
	}
}

// WithAllOptimizations enables all optimizations.
func WithAllOptimizations() Option {
	return func(o *Optimizer) {
		o.enableCanonicalize = true
		o.enableNopRemoval = true
		o.enableDeadCode = true
	}
}

// New creates a new Optimizer with the given options.
func New(opts ...Option) *Optimizer {
	opt := &Optimizer{live: AllState}
	for _, o := range opts {
		o(opt)
	}
	return opt
}

// Optimize applies enabled optimizations to the program.
func (o *Optimizer) Optimize(program *vu.Program) *vu.Program {
	result := program

	if o.enableCanonicalize {
		result = o.canonicalize(result)
	}

	if o.enableNopRemoval {
		result = o.nopRemoval(result)
	}

	if o.enableDeadCode {
		result = o.deadCodeElimination(result)
	}

	return result
}

// canonicalize zeroes fields an instruction does not read, so equal
// behavior encodes to equal words.
func (o *Optimizer) canonicalize(program *vu.Program) *vu.Program {
	newCode := make([]vu.Instruction, len(program.Code))
	for i, inst := range program.Code {
		newCode[i] = Canonical(inst)
	}
	return &vu.Program{Code: newCode}
}

// Canonical returns the canonical encoding of inst.
func Canonical(inst vu.Instruction) vu.Instruction {
	if !inst.IsVector() {
		return inst
	}
	op := inst.Opcode()
	vd, vs, vt, e := inst.Vd(), inst.Vs(), inst.Vt(), inst.Element()

	// Selector 1 behaves as 0 for shuffled operands. The divide and move
	// ops read lane e&7 directly, and VSAW decodes e itself.
	if e == 1 && !laneMove(op) && op != vu.OpVSAW {
		e = 0
	}

	switch {
	case op == vu.OpVNOP:
		vd, vs, vt, e = 0, 0, 0, 0
	case op.IsReserved():
		vs, vt, e = 0, 0, 0
	case op == vu.OpVSAW:
		vs, vt = 0, 0
		if e < 8 || e > 10 {
			e = 0
		}
	case laneMove(op):
		vs &= 7
	}
	return vu.EncodeInstruction(op, vd, vs, vt, e)
}

// nopRemoval drops VNOP instructions.
func (o *Optimizer) nopRemoval(program *vu.Program) *vu.Program {
	newCode := make([]vu.Instruction, 0, len(program.Code))
	for _, inst := range program.Code {
		if inst.IsVector() && inst.Opcode() == vu.OpVNOP {
			continue
		}
		newCode = append(newCode, inst)
	}
	if len(newCode) == len(program.Code) {
		return program
	}
	return &vu.Program{Code: newCode}
}
