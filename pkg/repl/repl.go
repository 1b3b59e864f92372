// Package repl provides an interactive console around one vector unit.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/loggo"
	"golang.org/x/term"

	"github.com/akhildatla/rspvu/pkg/asm"
	"github.com/akhildatla/rspvu/pkg/loader"
	"github.com/akhildatla/rspvu/pkg/script"
	"github.com/akhildatla/rspvu/pkg/vu"
)

var logger = loggo.GetLogger("rspvu.repl")

const (
	promptASM  = "vu> "
	promptLua  = "lua> "
	promptCont = "...> "
)

// Mode represents the REPL input mode.
type Mode int

const (
	ModeASM Mode = iota // Assembly mode
	ModeLua             // Lua script mode
)

// REPL provides an interactive Read-Eval-Print Loop.
type REPL struct {
	mode        Mode
	unit        *vu.Unit
	history     []string
	multiline   strings.Builder
	inMultiline bool
	quiet       bool
	done        bool
}

// New creates a new REPL instance around u. A nil unit gets a fresh one.
func New(u *vu.Unit) *REPL {
	if u == nil {
		u = vu.New()
	}
	return &REPL{
		mode:    ModeASM,
		unit:    u,
		history: []string{},
	}
}

// Interactive reports whether f is a terminal.
func Interactive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SetMode sets the REPL input mode.
func (r *REPL) SetMode(mode Mode) {
	r.mode = mode
}

// SetQuiet suppresses the banner and prompts, for piped input.
func (r *REPL) SetQuiet(quiet bool) {
	r.quiet = quiet
}

// Unit returns the unit the REPL drives.
func (r *REPL) Unit() *vu.Unit {
	return r.unit
}

// Start starts the REPL loop.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	if !r.quiet {
		fmt.Fprintln(out, "RSP vector unit console")
		fmt.Fprintf(out, "Strategy: %s. Type 'help' for available commands, 'quit' to exit\n", r.unit.Strategy())
		fmt.Fprintln(out)
	}

	for !r.done {
		if !r.quiet {
			if r.inMultiline {
				fmt.Fprint(out, promptCont)
			} else if r.mode == ModeASM {
				fmt.Fprint(out, promptASM)
			} else {
				fmt.Fprint(out, promptLua)
			}
		}

		if !scanner.Scan() {
			break
		}

		line := scanner.Text()

		// Handle multiline input
		if r.inMultiline {
			if line == "" {
				// End multiline input
				r.inMultiline = false
				input := r.multiline.String()
				r.multiline.Reset()
				r.eval(input, out)
			} else {
				r.multiline.WriteString(line)
				r.multiline.WriteString("\n")
			}
			continue
		}

		// Check for special commands
		if handled := r.handleCommand(line, out); handled {
			continue
		}

		// Check for multiline start (ends with \)
		if strings.HasSuffix(line, "\\") {
			r.inMultiline = true
			r.multiline.WriteString(strings.TrimSuffix(line, "\\"))
			r.multiline.WriteString("\n")
			continue
		}

		r.eval(line, out)
	}
}

func (r *REPL) handleCommand(line string, out io.Writer) bool {
	trimmed := strings.TrimSpace(line)
	parts := strings.Fields(trimmed)

	if len(parts) == 0 {
		return true
	}

	switch parts[0] {
	case "quit", "exit", "q":
		if !r.quiet {
			fmt.Fprintln(out, "Goodbye!")
		}
		r.done = true
		return true

	case "help", "h", "?":
		r.printHelp(out)
		return true

	case "mode":
		if len(parts) > 1 {
			switch parts[1] {
			case "asm":
				r.mode = ModeASM
				fmt.Fprintln(out, "Switched to assembly mode")
			case "lua":
				r.mode = ModeLua
				fmt.Fprintln(out, "Switched to Lua mode")
			default:
				fmt.Fprintln(out, "Unknown mode. Use 'asm' or 'lua'")
			}
		} else {
			if r.mode == ModeASM {
				fmt.Fprintln(out, "Current mode: ASM")
			} else {
				fmt.Fprintln(out, "Current mode: Lua")
			}
		}
		return true

	case "regs":
		regs, err := parseRegisterList(parts[1:])
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return true
		}
		RenderRegisters(out, r.unit.Snapshot(), regs)
		return true

	case "acc":
		RenderAccumulator(out, r.unit.Accumulator())
		return true

	case "flags":
		RenderFlags(out, r.unit.Flags(), r.unit.Divide())
		return true

	case "reset":
		r.unit.Reset()
		fmt.Fprintln(out, "Unit reset")
		return true

	case "load":
		if len(parts) > 1 {
			r.loadSeeds(parts[1], out)
		} else {
			fmt.Fprintln(out, "Usage: load <seeds.csv|.json|.parquet>")
		}
		return true

	case "save":
		if len(parts) > 1 {
			if err := loader.SaveState(context.Background(), r.unit.Snapshot(), parts[1]); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			} else {
				fmt.Fprintf(out, "Saved state to %s\n", parts[1])
			}
		} else {
			fmt.Fprintln(out, "Usage: save <state.csv|.parquet>")
		}
		return true

	case "history":
		for i, cmd := range r.history {
			fmt.Fprintf(out, "%3d: %s\n", i+1, cmd)
		}
		return true
	}

	return false
}

func (r *REPL) eval(input string, out io.Writer) {
	if strings.TrimSpace(input) == "" {
		return
	}

	r.history = append(r.history, input)

	var err error
	if r.mode == ModeASM {
		err = r.evalASM(input, out)
	} else {
		err = script.Run(context.Background(), input, r.unit, script.WithOutput(out))
	}

	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}

func (r *REPL) evalASM(input string, out io.Writer) error {
	program, err := asm.Assemble(input)
	if err != nil {
		return err
	}

	if err := r.unit.Run(context.Background(), program); err != nil {
		return err
	}
	logger.Debugf("ran %d instructions", len(program.Code))

	// Echo the destination of a single instruction.
	if len(program.Code) == 1 && program.Code[0].IsVector() {
		inst := program.Code[0]
		fmt.Fprintf(out, "=> $v%d = %s\n", inst.Vd(), FormatVector(r.unit.Read(int(inst.Vd()))))
	}
	return nil
}

func (r *REPL) loadSeeds(path string, out io.Writer) {
	df, err := loader.LoadSeeds(path)
	if err != nil {
		fmt.Fprintf(out, "Error loading %s: %v\n", path, err)
		return
	}

	st := r.unit.Snapshot()
	if err := loader.ApplySeeds(df, &st); err != nil {
		fmt.Fprintf(out, "Error loading %s: %v\n", path, err)
		return
	}
	r.unit.Restore(st)
	fmt.Fprintf(out, "Loaded %d seed rows from %s\n", df.NRows(), path)
}

func parseRegisterList(args []string) ([]int, error) {
	if len(args) == 0 {
		regs := make([]int, vu.NumVectorRegs)
		for i := range regs {
			regs[i] = i
		}
		return regs, nil
	}

	regs := make([]int, 0, len(args))
	for _, a := range args {
		a = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(a), "$"), "v")
		n, err := strconv.Atoi(a)
		if err != nil || n < 0 || n >= vu.NumVectorRegs {
			return nil, fmt.Errorf("invalid register %q", a)
		}
		regs = append(regs, n)
	}
	return regs, nil
}

func (r *REPL) printHelp(out io.Writer) {
	help := `
Vector unit console commands:
  help, h, ?       Show this help message
  quit, exit, q    Exit the REPL
  mode [asm|lua]   Show or set input mode
  regs [v0 v1...]  Show registers (all by default)
  acc              Show the accumulator
  flags            Show VCO, VCC, VCE and the divide latch
  reset            Clear all unit state
  load <path>      Apply a seed file (csv, json, parquet)
  save <path>      Write the unit state (csv, parquet)
  history          Show command history

ASM Examples:
  vmudn $v1, $v2, $v3[0]
  vrcph $v4[0], $v5[1]

Lua Examples:
  vu.set(1, {1, 2, 3, 4, 5, 6, 7, 8})
  vu.exec("vadd", 2, 1, 1)
  print(vu.get(2)[1])

Tips:
  - End a line with \ for multiline input
  - Press Enter twice to execute multiline input
`
	fmt.Fprint(out, help)
}
