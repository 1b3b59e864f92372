package vu

import (
	"context"
	"fmt"
	"time"
)

// Program is a straight-line sequence of vector instructions.
type Program struct {
	Code []Instruction
}

// RunStats contains metrics about the last Run.
type RunStats struct {
	StepsExecuted   int64          // Total instructions executed
	ExecutionTimeNs int64          // Execution time in nanoseconds
	ReservedHits    int64          // Reserved slots executed
	OpCounts        map[string]int // Count of each opcode executed
}

// SetMaxSteps limits the number of instructions Run may execute.
// Zero means no limit.
func (u *Unit) SetMaxSteps(n int64) {
	u.maxSteps = n
}

// EnableStats enables statistics collection for Run.
func (u *Unit) EnableStats() {
	u.stats = &RunStats{OpCounts: make(map[string]int)}
}

// Stats returns the statistics from the last Run, or nil if not enabled.
func (u *Unit) Stats() *RunStats {
	return u.stats
}

// Run executes p in order. Words that are not COP2 computational
// instructions stop the run with ErrInvalidInstruction.
func (u *Unit) Run(ctx context.Context, p *Program) error {
	if u.stats != nil {
		stats := u.stats
		startTime := time.Now()
		*stats = RunStats{OpCounts: make(map[string]int)}
		defer func() {
			stats.ExecutionTimeNs = time.Since(startTime).Nanoseconds()
		}()
	}

	var steps int64
	for pc, inst := range p.Code {
		// Context cancellation check
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		// Resource limit check
		steps++
		if u.maxSteps > 0 && steps > u.maxSteps {
			return ErrStepLimitExceeded
		}

		if !inst.IsVector() {
			return fmt.Errorf("%w at %d: 0x%08X", ErrInvalidInstruction, pc, uint32(inst))
		}
		op := inst.Opcode()

		// Track opcode execution if stats enabled
		if u.stats != nil {
			u.stats.StepsExecuted++
			u.stats.OpCounts[op.String()]++
			if op.IsReserved() {
				u.stats.ReservedHits++
			}
		}

		u.Execute(op, int(inst.Vd()), int(inst.Vs()), int(inst.Vt()), int(inst.Element()))
	}
	return nil
}
