// Package embed provides the Go embedding API for the vector unit.
//
// Pass assembly source, get the final unit state.
//
// Basic usage:
//
//	st, err := embed.Execute(`
//	    vmudn $v1, $v2, $v3[0]
//	    vmadh $v1, $v4, $v3[0]
//	`)
//
// With an initial state and limits:
//
//	res, err := embed.ExecuteWithOptions(code,
//	    embed.WithState(initial),
//	    embed.WithTimeout(time.Second),
//	    embed.WithMaxInstructions(10000),
//	)
package embed

import (
	"bytes"
	"context"
	"errors"
	"os"
	"time"

	"github.com/akhildatla/rspvu/pkg/asm"
	"github.com/akhildatla/rspvu/pkg/loader"
	"github.com/akhildatla/rspvu/pkg/optimizer"
	"github.com/akhildatla/rspvu/pkg/script"
	"github.com/akhildatla/rspvu/pkg/vu"
)

// Common errors
var (
	ErrTimeout          = errors.New("execution timeout exceeded")
	ErrInstructionLimit = errors.New("instruction limit exceeded")
)

// Execute assembles and runs code on a zeroed unit.
func Execute(code string) (vu.State, error) {
	res, err := ExecuteWithOptions(code)
	if err != nil {
		return vu.State{}, err
	}
	return res.State, nil
}

// ExecuteFile runs a program file. Binary program images are detected
// by content; anything else is treated as assembly source.
func ExecuteFile(path string, opts ...Option) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	program, err := asm.UnmarshalProgram(data)
	if err != nil {
		if bytes.HasPrefix(data, []byte(asm.ProgramMagic)) {
			return nil, err
		}
		if program, err = asm.Assemble(string(data)); err != nil {
			return nil, err
		}
	}
	return ExecuteProgram(program, opts...)
}

// ExecuteWithState runs code starting from initial.
func ExecuteWithState(code string, initial vu.State) (vu.State, error) {
	res, err := ExecuteWithOptions(code, WithState(initial))
	if err != nil {
		return vu.State{}, err
	}
	return res.State, nil
}

// Options configures execution behavior for ExecuteWithOptions.
type Options struct {
	// Initial is the state the unit starts from. Nil means zeroed.
	Initial *vu.State

	// SeedFile is a CSV, JSON or Parquet seed file applied over Initial.
	SeedFile string

	// Strategy selects the lane strategy. StrategyAuto checks the host CPU.
	Strategy vu.Strategy

	// Timeout sets maximum execution time. Zero means no timeout.
	Timeout time.Duration

	// MaxInstructions limits the number of instructions executed.
	// Zero means unlimited.
	MaxInstructions int64

	// Optimize runs the optimizer before execution.
	Optimize bool

	// Stats collects per-run statistics into Result.Stats.
	Stats bool

	// Context for cancellation. If nil, context.Background() is used.
	Context context.Context
}

// Option is a functional option for configuring execution.
type Option func(*Options)

// WithState sets the initial unit state.
func WithState(st vu.State) Option {
	return func(o *Options) {
		o.Initial = &st
	}
}

// WithSeedFile loads initial values from a seed file.
func WithSeedFile(path string) Option {
	return func(o *Options) {
		o.SeedFile = path
	}
}

// WithStrategy sets the lane strategy.
func WithStrategy(s vu.Strategy) Option {
	return func(o *Options) {
		o.Strategy = s
	}
}

// WithTimeout sets execution timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithMaxInstructions sets instruction limit.
func WithMaxInstructions(n int64) Option {
	return func(o *Options) {
		o.MaxInstructions = n
	}
}

// WithOptimize enables the optimizer.
func WithOptimize() Option {
	return func(o *Options) {
		o.Optimize = true
	}
}

// WithStats enables statistics collection.
func WithStats() Option {
	return func(o *Options) {
		o.Stats = true
	}
}

// WithContext sets the context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

// Result is the outcome of a run.
type Result struct {
	State    vu.State
	Stats    *vu.RunStats
	Strategy vu.Strategy
}

// ExecuteWithOptions assembles and runs code with advanced configuration.
func ExecuteWithOptions(code string, opts ...Option) (*Result, error) {
	program, err := asm.Assemble(code)
	if err != nil {
		return nil, err
	}
	return ExecuteProgram(program, opts...)
}

// ExecuteProgram runs an assembled program.
func ExecuteProgram(program *vu.Program, opts ...Option) (*Result, error) {
	options := apply(opts)

	unit, err := newUnit(options)
	if err != nil {
		return nil, err
	}

	if options.Optimize {
		program = optimizer.New(optimizer.WithAllOptimizations()).Optimize(program)
	}

	ctx, cancel := options.context()
	defer cancel()

	if err := unit.Run(ctx, program); err != nil {
		return nil, mapError(err)
	}

	return &Result{State: unit.Snapshot(), Stats: unit.Stats(), Strategy: unit.Strategy()}, nil
}

// ExecuteScript runs a Lua script against a fresh unit. See package
// script for the bindings.
func ExecuteScript(code string, opts ...Option) (*Result, error) {
	options := apply(opts)

	unit, err := newUnit(options)
	if err != nil {
		return nil, err
	}

	ctx, cancel := options.context()
	defer cancel()

	if err := script.Run(ctx, code, unit); err != nil {
		return nil, mapError(err)
	}
	return &Result{State: unit.Snapshot(), Strategy: unit.Strategy()}, nil
}

func apply(opts []Option) *Options {
	options := &Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

func (o *Options) context() (context.Context, context.CancelFunc) {
	ctx := o.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if o.Timeout > 0 {
		return context.WithTimeout(ctx, o.Timeout)
	}
	return context.WithCancel(ctx)
}

func newUnit(o *Options) (*vu.Unit, error) {
	unit := vu.New(vu.WithStrategy(o.Strategy), vu.WithMaxSteps(o.MaxInstructions))
	if o.Stats {
		unit.EnableStats()
	}

	var st vu.State
	if o.Initial != nil {
		st = *o.Initial
	}
	if o.SeedFile != "" {
		df, err := loader.LoadSeeds(o.SeedFile)
		if err != nil {
			return nil, err
		}
		if err := loader.ApplySeeds(df, &st); err != nil {
			return nil, err
		}
	}
	unit.Restore(st)
	return unit, nil
}

// mapError maps unit errors to embed package errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, vu.ErrStepLimitExceeded):
		return ErrInstructionLimit
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	}
	return err
}
