// Package trace checks vector programs against recorded unit state.
//
// A case pairs assembly source with an initial state and, optionally, the
// state the program must leave behind. Cases without an expectation are
// cross-checked: the scalar and wide strategies must agree.
package trace

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/akhildatla/rspvu/pkg/asm"
	"github.com/akhildatla/rspvu/pkg/vu"
)

var (
	ErrMismatch = errors.New("state mismatch")
	ErrNoCases  = errors.New("no cases")
)

// Case is one conformance check.
type Case struct {
	Name    string    `json:"name"`
	Program string    `json:"program"`
	Initial *vu.State `json:"initial,omitempty"`
	Seed    int64     `json:"seed,omitempty"` // random initial state when Initial is nil
	Expect  *vu.State `json:"expect,omitempty"`
}

// Result is the outcome of one case.
type Result struct {
	Name       string
	Got        vu.State
	Mismatches []Mismatch
	Err        error
}

// Passed reports whether the case ran and matched.
func (r Result) Passed() bool {
	return r.Err == nil && len(r.Mismatches) == 0
}

// Mismatch is one differing 16-bit word of the flat state image.
type Mismatch struct {
	Index int
	Want  uint16
	Got   uint16
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: want 0x%04X, got 0x%04X", FlatName(m.Index), m.Want, m.Got)
}

// FlatName names word i of a flat state image.
func FlatName(i int) string {
	regWords := vu.NumVectorRegs * vu.Lanes
	switch {
	case i < 0 || i >= vu.FlatWords:
		return fmt.Sprintf("word%d", i)
	case i < regWords:
		return fmt.Sprintf("$v%d[%d]", i/vu.Lanes, i%vu.Lanes)
	case i < regWords+3*vu.Lanes:
		j := i - regWords
		return fmt.Sprintf("acc.%s[%d]", [...]string{"hi", "md", "lo"}[j/vu.Lanes], j%vu.Lanes)
	}
	return [...]string{"vco", "vcc", "vce", "div.in", "div.out", "div.dp"}[i-regWords-3*vu.Lanes]
}

// Diff lists the words where got differs from want.
func Diff(want, got vu.State) []Mismatch {
	w, g := want.Flat(), got.Flat()
	var out []Mismatch
	for i := range w {
		if w[i] != g[i] {
			out = append(out, Mismatch{Index: i, Want: w[i], Got: g[i]})
		}
	}
	return out
}

// RandomState returns a reproducible, fully populated state.
func RandomState(seed int64) vu.State {
	rng := rand.New(rand.NewSource(seed))
	var w [vu.FlatWords]uint16
	for i := range w {
		w[i] = uint16(rng.Uint32())
	}
	w[vu.FlatWords-1] &= 1
	return vu.StateFromFlat(w)
}

func (c Case) initial() vu.State {
	switch {
	case c.Initial != nil:
		return *c.Initial
	case c.Seed != 0:
		return RandomState(c.Seed)
	}
	return vu.State{}
}

func (c Case) run(ctx context.Context, p *vu.Program, s vu.Strategy) (vu.State, error) {
	u := vu.New(vu.WithStrategy(s))
	u.Restore(c.initial())
	if err := u.Run(ctx, p); err != nil {
		return vu.State{}, err
	}
	return u.Snapshot(), nil
}

// Check runs one case.
func Check(ctx context.Context, c Case) Result {
	res := Result{Name: c.Name}

	p, err := asm.Assemble(c.Program)
	if err != nil {
		res.Err = err
		return res
	}

	res.Got, res.Err = c.run(ctx, p, vu.StrategyScalar)
	if res.Err != nil {
		return res
	}

	want := c.Expect
	if want == nil {
		wide, err := c.run(ctx, p, vu.StrategyWide)
		if err != nil {
			res.Err = err
			return res
		}
		want = &wide
	}

	res.Mismatches = Diff(*want, res.Got)
	if len(res.Mismatches) > 0 {
		res.Err = fmt.Errorf("%w: %s", ErrMismatch, res.Mismatches[0])
	}
	return res
}

// CheckAll runs cases concurrently on independent units. Results keep
// the order of cases. The returned error is the first failure, if any.
func CheckAll(ctx context.Context, cases []Case) ([]Result, error) {
	if len(cases) == 0 {
		return nil, ErrNoCases
	}

	results := make([]Result, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range cases {
		g.Go(func() error {
			results[i] = Check(gctx, cases[i])
			// Mismatches are reported per case and don't cancel the rest.
			if err := results[i].Err; err != nil && !errors.Is(err, ErrMismatch) {
				return fmt.Errorf("%s: %w", cases[i].Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	for _, r := range results {
		if !r.Passed() {
			return results, fmt.Errorf("%s: %w", r.Name, r.Err)
		}
	}
	return results, nil
}

// Record fills in c.Expect by running it on the scalar strategy.
func Record(ctx context.Context, c Case) (Case, error) {
	p, err := asm.Assemble(c.Program)
	if err != nil {
		return c, fmt.Errorf("%s: %w", c.Name, err)
	}
	got, err := c.run(ctx, p, vu.StrategyScalar)
	if err != nil {
		return c, fmt.Errorf("%s: %w", c.Name, err)
	}
	c.Expect = &got
	return c, nil
}
