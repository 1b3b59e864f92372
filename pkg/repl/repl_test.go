package repl

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akhildatla/rspvu/internal/testutil"
	"github.com/akhildatla/rspvu/pkg/vu"
)

func newREPL() *REPL {
	return New(vu.New(vu.WithStrategy(vu.StrategyScalar)))
}

func TestREPL_New(t *testing.T) {
	r := New(nil)
	if r == nil || r.Unit() == nil {
		t.Fatal("New returned no unit")
	}
	if r.mode != ModeASM {
		t.Errorf("expected ASM mode, got %v", r.mode)
	}
}

func TestREPL_HandleCommand_Help(t *testing.T) {
	r := newREPL()
	var out bytes.Buffer

	for _, cmd := range []string{"help", "h", "?"} {
		out.Reset()
		if !r.handleCommand(cmd, &out) {
			t.Errorf("expected help command '%s' to be handled", cmd)
		}
		if !strings.Contains(out.String(), "Vector unit console commands") {
			t.Errorf("expected help text, got: %s", out.String())
		}
	}
}

func TestREPL_HandleCommand_Mode(t *testing.T) {
	r := newREPL()
	var out bytes.Buffer

	r.handleCommand("mode lua", &out)
	if r.mode != ModeLua {
		t.Errorf("expected Lua mode, got %v", r.mode)
	}

	out.Reset()
	r.handleCommand("mode", &out)
	if !strings.Contains(out.String(), "Lua") {
		t.Errorf("expected current mode, got: %s", out.String())
	}

	out.Reset()
	r.handleCommand("mode basic", &out)
	if !strings.Contains(out.String(), "Unknown mode") {
		t.Errorf("expected unknown mode message, got: %s", out.String())
	}
}

func TestREPL_HandleCommand_Unknown(t *testing.T) {
	r := newREPL()
	var out bytes.Buffer
	if r.handleCommand("vadd $v1, $v2, $v3", &out) {
		t.Error("instructions should not be handled as commands")
	}
}

func TestREPL_Eval_ASM(t *testing.T) {
	r := newREPL()
	r.Unit().Write(2, testutil.Splat(0x1234))
	var out bytes.Buffer

	r.eval("vor $v1, $v2, $v0", &out)

	if got := out.String(); got != "=> $v1 = [1234 1234 1234 1234 1234 1234 1234 1234]\n" {
		t.Errorf("output = %q", got)
	}
	if len(r.history) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(r.history))
	}
}

func TestREPL_Eval_Error(t *testing.T) {
	r := newREPL()
	var out bytes.Buffer

	r.eval("vbad $v1, $v2, $v3", &out)
	if !strings.HasPrefix(out.String(), "Error:") {
		t.Errorf("expected error, got: %s", out.String())
	}
}

func TestREPL_Eval_Lua(t *testing.T) {
	r := newREPL()
	r.SetMode(ModeLua)
	var out bytes.Buffer

	r.eval(`vu.set(3, {7, 7, 7, 7, 7, 7, 7, 7}); print(vu.get(3)[8])`, &out)

	if strings.TrimSpace(out.String()) != "7" {
		t.Errorf("output = %q", out.String())
	}
}

func TestREPL_Start_Session(t *testing.T) {
	r := newREPL()
	r.SetQuiet(true)

	input := `vnxor $v1, $v0, $v0
vaddc $v2, $v1, $v1 \
vsubc $v3, $v0, $v1

regs v2 $v3
flags
acc
quit
vnxor $v4, $v0, $v0
`
	var out bytes.Buffer
	r.Start(strings.NewReader(input), &out)

	if r.Unit().Read(4) != (vu.Vector{}) {
		t.Error("input after quit was evaluated")
	}
	if r.Unit().Read(2) != testutil.Splat(-2) {
		t.Errorf("$v2 = %v", r.Unit().Read(2))
	}
	for _, want := range []string{"$v2", "FFFE", "carry", "VCO=", "value"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), promptASM) {
		t.Error("quiet mode printed a prompt")
	}
}

func TestREPL_LoadSaveReset(t *testing.T) {
	r := newREPL()
	var out bytes.Buffer

	seeds := testutil.TempFile(t, "target,l0,l1,l2,l3,l4,l5,l6,l7\nv9,1,1,1,1,1,1,1,1\n", ".csv")
	r.handleCommand("load "+seeds, &out)
	if r.Unit().Read(9) != testutil.Splat(1) {
		t.Fatalf("seed not applied: %s", out.String())
	}

	path := filepath.Join(t.TempDir(), "state.csv")
	out.Reset()
	r.handleCommand("save "+path, &out)
	if !strings.Contains(out.String(), "Saved state") {
		t.Errorf("save output = %q", out.String())
	}

	r.handleCommand("reset", &out)
	if r.Unit().Read(9) != (vu.Vector{}) {
		t.Error("reset did not clear registers")
	}

	r.handleCommand("load "+path, &out)
	if r.Unit().Read(9) != testutil.Splat(1) {
		t.Error("saved state did not reload")
	}

	out.Reset()
	r.handleCommand("regs v40", &out)
	if !strings.Contains(out.String(), "invalid register") {
		t.Errorf("expected register error, got: %s", out.String())
	}
}

func TestFormatVector(t *testing.T) {
	if got := FormatVector(vu.Vector{0, -1, 0x7FFF, -32768, 1, 2, 3, 4}); got != "[0000 FFFF 7FFF 8000 0001 0002 0003 0004]" {
		t.Errorf("FormatVector = %q", got)
	}
}
