// Package testutil provides testing utilities for vector unit tests.
package testutil

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/akhildatla/rspvu/pkg/vu"
)

// TempFile creates a temporary file with the given content and extension.
// The file is automatically cleaned up when the test finishes.
func TempFile(t *testing.T, content, ext string) string {
	t.Helper()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test"+ext)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// Splat returns a vector with every lane set to x.
func Splat(x int16) vu.Vector {
	var v vu.Vector
	for i := range v {
		v[i] = x
	}
	return v
}

// RandomVector returns a vector of uniformly random lanes.
func RandomVector(rng *rand.Rand) vu.Vector {
	var v vu.Vector
	for i := range v {
		v[i] = int16(rng.Uint32())
	}
	return v
}

// RandomState returns a reproducible, fully populated unit state.
func RandomState(seed int64) vu.State {
	rng := rand.New(rand.NewSource(seed))
	var s vu.State
	for i := range s.Registers {
		s.Registers[i] = RandomVector(rng)
	}
	s.Accumulator = vu.Accumulator{
		Hi: RandomVector(rng),
		Md: RandomVector(rng),
		Lo: RandomVector(rng),
	}
	s.Flags.SetVCO(uint16(rng.Uint32()))
	s.Flags.SetVCC(uint16(rng.Uint32()))
	s.Flags.SetVCE(uint8(rng.Uint32()))
	s.Divide = vu.DivideState{
		In:     int16(rng.Uint32()),
		Out:    int16(rng.Uint32()),
		Double: rng.Intn(2) == 1,
	}
	return s
}

// RandomProgram returns n random vector instructions whose register
// fields stay below regs. Small register windows produce frequent
// overwrites and reuse.
func RandomProgram(rng *rand.Rand, n, regs int) *vu.Program {
	p := &vu.Program{Code: make([]vu.Instruction, n)}
	for i := range p.Code {
		op := vu.Opcode(rng.Intn(vu.NumOpcodes))
		vd := uint8(rng.Intn(regs))
		vs := uint8(rng.Intn(regs))
		vt := uint8(rng.Intn(regs))
		e := uint8(rng.Intn(16))
		p.Code[i] = vu.EncodeInstruction(op, vd, vs, vt, e)
	}
	return p
}

// AssertStateEqual fails the test with a readable diff if the states differ.
func AssertStateEqual(t *testing.T, want, got vu.State) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}
