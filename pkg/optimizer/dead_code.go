package optimizer

import (
	"github.com/akhildatla/rspvu/pkg/vu"
)

// WithDeadCodeElimination enables dead code elimination.
func WithDeadCodeElimination() Option {
	return func(o *Optimizer) {
		o.enableDeadCode = true
	}
}

// deadCodeElimination removes instructions whose every write is
// overwritten, or never observed, before anything reads it.
func (o *Optimizer) deadCodeElimination(program *vu.Program) *vu.Program {
	if len(program.Code) == 0 {
		return program
	}

	needed := Liveness(program.Code, o.live)

	// Count how many instructions we're keeping
	keepCount := 0
	for _, keep := range needed {
		if keep {
			keepCount++
		}
	}

	// If we're keeping everything, return original
	if keepCount == len(program.Code) {
		return program
	}

	// Build new code without dead instructions
	newCode := make([]vu.Instruction, 0, keepCount)
	for i, inst := range program.Code {
		if needed[i] {
			newCode = append(newCode, inst)
		}
	}

	return &vu.Program{Code: newCode}
}

// Liveness walks code backwards from the live-out set and reports, per
// instruction, whether any of its writes can be observed.
func Liveness(code []vu.Instruction, liveOut Resource) []bool {
	needed := make([]bool, len(code))
	live := liveOut

	for i := len(code) - 1; i >= 0; i-- {
		reads, writes := Effects(code[i])

		// Barriers have no writes but must stay.
		if !code[i].IsVector() {
			needed[i] = true
			live |= reads
			continue
		}

		if writes&live == 0 {
			continue
		}

		needed[i] = true
		live = live&^writes | reads
	}

	return needed
}
