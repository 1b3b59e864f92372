package vu

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/akhildatla/rspvu/pkg/rom"
)

func newScalar() *Unit {
	return New(WithStrategy(StrategyScalar))
}

func splat(x int16) Vector {
	return Vector{x, x, x, x, x, x, x, x}
}

func randomVector(r *rand.Rand) Vector {
	var v Vector
	for i := range v {
		switch r.Intn(8) {
		case 0:
			v[i] = -32768
		case 1:
			v[i] = 32767
		case 2:
			v[i] = int16(r.Intn(5) - 2)
		default:
			v[i] = int16(r.Uint32())
		}
	}
	return v
}

func randomState(r *rand.Rand) State {
	var s State
	for i := range s.Registers {
		s.Registers[i] = randomVector(r)
	}
	s.Accumulator = Accumulator{Hi: randomVector(r), Md: randomVector(r), Lo: randomVector(r)}
	s.Flags.SetVCO(uint16(r.Uint32()))
	s.Flags.SetVCC(uint16(r.Uint32()))
	s.Flags.SetVCE(uint8(r.Uint32()))
	s.Divide = DivideState{In: int16(r.Uint32()), Out: int16(r.Uint32()), Double: r.Intn(2) == 0}
	return s
}

func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", target)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, target) {
			t.Fatalf("expected panic wrapping %v, got %v", target, r)
		}
	}()
	fn()
}

func TestNew_Defaults(t *testing.T) {
	u := New()
	if u.Strategy() == StrategyAuto {
		t.Error("New should resolve StrategyAuto")
	}
	if u.Tables() != rom.Default() {
		t.Error("expected default ROM tables")
	}
	if u.Snapshot() != (State{}) {
		t.Error("new unit should have zero state")
	}
}

func TestNew_WithTables(t *testing.T) {
	tables := rom.Build()
	u := New(WithTables(tables), WithTables(nil))
	if u.Tables() != tables {
		t.Error("WithTables not applied")
	}
}

func TestExecute_ContractViolations(t *testing.T) {
	u := newScalar()

	expectPanic(t, ErrInvalidOpcode, func() { u.Execute(64, 0, 0, 0, 0) })
	expectPanic(t, ErrInvalidRegister, func() { u.Execute(OpVADD, 32, 0, 0, 0) })
	expectPanic(t, ErrInvalidRegister, func() { u.Execute(OpVADD, 0, -1, 0, 0) })
	expectPanic(t, ErrInvalidRegister, func() { u.Execute(OpVADD, 0, 0, 40, 0) })
	expectPanic(t, ErrInvalidElement, func() { u.Execute(OpVADD, 0, 0, 0, 16) })
	expectPanic(t, ErrInvalidRegister, func() { u.Read(32) })
	expectPanic(t, ErrInvalidRegister, func() { u.Write(-1, Vector{}) })
}

func TestExecute_DestinationAliasesSource(t *testing.T) {
	u := newScalar()
	u.Write(1, Vector{1, 2, 3, 4, 5, 6, 7, 8})

	u.Execute(OpVADD, 1, 1, 1, 0)

	want := Vector{2, 4, 6, 8, 10, 12, 14, 16}
	if got := u.Read(1); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExecuteInstruction(t *testing.T) {
	u := newScalar()
	u.Write(2, splat(3))
	u.Write(3, Vector{1, 2, 3, 4, 5, 6, 7, 8})

	if err := u.ExecuteInstruction(EncodeInstruction(OpVADD, 4, 2, 3, 13)); err != nil {
		t.Fatalf("ExecuteInstruction failed: %v", err)
	}
	if got := u.Read(4); got != splat(9) {
		t.Errorf("got %v, want all 9", got)
	}

	if err := u.ExecuteInstruction(0); !errors.Is(err, ErrInvalidInstruction) {
		t.Errorf("expected ErrInvalidInstruction, got %v", err)
	}
}

func TestReset(t *testing.T) {
	u := newScalar()
	u.Restore(randomState(rand.New(rand.NewSource(1))))

	u.Reset()

	if u.Snapshot() != (State{}) {
		t.Error("Reset should zero all state")
	}
}

func TestIndependentUnits(t *testing.T) {
	a := newScalar()
	b := newScalar()
	a.Write(0, splat(5))
	a.Execute(OpVADDC, 1, 0, 0, 0)

	if b.Read(0) != (Vector{}) || b.Flags() != (Flags{}) {
		t.Error("units must not share state")
	}
}
