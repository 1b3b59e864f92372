// Package main provides the CLI entry point for the RSP vector unit.
//
// Usage:
//
//	vu run program.s               # Assemble and execute, print state
//	vu run -seeds s.csv program.s  # Start from a seed file
//	vu asm program.s               # Assemble to a program image (.vub)
//	vu exec program.vub            # Execute a program image
//	vu disasm program.vub          # Disassemble a program image
//	vu check cases.json            # Check recorded cases
//	vu script program.lua          # Run a Lua script against a unit
//	vu repl                        # Interactive console
//	vu rom -plot                   # Inspect the divide ROM
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/guptarohit/asciigraph"
	"github.com/juju/loggo"

	"github.com/akhildatla/rspvu/pkg/asm"
	"github.com/akhildatla/rspvu/pkg/config"
	"github.com/akhildatla/rspvu/pkg/embed"
	"github.com/akhildatla/rspvu/pkg/loader"
	"github.com/akhildatla/rspvu/pkg/optimizer"
	"github.com/akhildatla/rspvu/pkg/repl"
	"github.com/akhildatla/rspvu/pkg/rom"
	"github.com/akhildatla/rspvu/pkg/script"
	"github.com/akhildatla/rspvu/pkg/trace"
	"github.com/akhildatla/rspvu/pkg/vu"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var logger = loggo.GetLogger("rspvu.cli")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return printUsage(out)
	}

	cmd := args[0]

	switch cmd {
	case "run":
		return runCommand(args[1:], out)
	case "asm":
		return asmCommand(args[1:], out)
	case "exec":
		return execCommand(args[1:], out)
	case "disasm":
		return disasmCommand(args[1:], out)
	case "check":
		return checkCommand(args[1:], out)
	case "script":
		return scriptCommand(args[1:], out)
	case "repl":
		return replCommand(args[1:], out)
	case "rom":
		return romCommand(args[1:], out)
	case "version":
		fmt.Fprintf(out, "vu version %s\n", version)
		if commit != "none" {
			fmt.Fprintf(out, "  commit: %s\n", commit)
		}
		if date != "unknown" {
			fmt.Fprintf(out, "  built:  %s\n", date)
		}
		return nil
	case "help", "-h", "--help":
		return printUsage(out)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// common holds the flags shared by the commands that run programs.
type common struct {
	configPath *string
	strategy   *string
	verbose    *bool
	seeds      *string
	optimize   *bool
	stats      *bool
}

func addCommon(fs *flag.FlagSet) *common {
	return &common{
		configPath: fs.String("config", "", "YAML config file (default: $VU_CONFIG)"),
		strategy:   fs.String("strategy", "", "lane strategy: auto, scalar or wide"),
		verbose:    fs.Bool("v", false, "verbose output"),
		seeds:      fs.String("seeds", "", "seed file (csv, json, parquet) applied before running"),
		optimize:   fs.Bool("O", false, "run the optimizer first"),
		stats:      fs.Bool("stats", false, "print run statistics"),
	}
}

// load resolves the config, applies the flag overrides and sets up logging.
func (c *common) load() (config.Config, error) {
	cfg, err := config.Load(*c.configPath)
	if err != nil {
		return cfg, err
	}
	if *c.strategy != "" {
		cfg.Strategy = *c.strategy
	}
	if *c.optimize {
		cfg.Optimize = true
	}
	if *c.stats {
		cfg.Stats = true
	}
	if *c.verbose {
		cfg.Log = "<root>=DEBUG"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, cfg.ConfigureLogging()
}

func (c *common) options(cfg config.Config) ([]embed.Option, error) {
	s, err := vu.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	opts := []embed.Option{
		embed.WithStrategy(s),
		embed.WithMaxInstructions(cfg.MaxSteps),
	}
	if *c.seeds != "" {
		opts = append(opts, embed.WithSeedFile(*c.seeds))
	}
	if cfg.Optimize {
		opts = append(opts, embed.WithOptimize())
	}
	if cfg.Stats {
		opts = append(opts, embed.WithStats())
	}
	return opts, nil
}

// stateOutput describes how a final state is reported.
type stateOutput struct {
	regs   *string
	asJSON *bool
	save   *string
}

func addOutput(fs *flag.FlagSet) *stateOutput {
	return &stateOutput{
		regs:   fs.String("regs", "", "comma-separated registers to print (default: all non-zero)"),
		asJSON: fs.Bool("json", false, "print the final state as JSON"),
		save:   fs.String("o", "", "write the final state (.csv, .parquet or .vust)"),
	}
}

func runCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	c := addCommon(fs)
	o := addOutput(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: vu run <file.s>")
	}

	cfg, err := c.load()
	if err != nil {
		return err
	}
	opts, err := c.options(cfg)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	logger.Debugf("executing %s (strategy %s)", path, cfg.Strategy)

	res, err := embed.ExecuteFile(path, opts...)
	if err != nil {
		return err
	}
	return report(out, res, o)
}

func execCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("exec", flag.ExitOnError)
	c := addCommon(fs)
	o := addOutput(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: vu exec <file.vub>")
	}

	cfg, err := c.load()
	if err != nil {
		return err
	}
	opts, err := c.options(cfg)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	program, err := readProgram(path)
	if err != nil {
		return err
	}
	logger.Debugf("loaded %d instructions from %s", len(program.Code), path)

	res, err := embed.ExecuteProgram(program, opts...)
	if err != nil {
		return fmt.Errorf("executing: %w", err)
	}
	return report(out, res, o)
}

func asmCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("asm", flag.ExitOnError)
	output := fs.String("o", "", "output file (default: input with .vub extension)")
	verbose := fs.Bool("v", false, "verbose output")
	optimize := fs.Bool("O", false, "enable optimizations (canonicalize, nop removal, dead code elimination)")
	compress := fs.Bool("z", false, "zstd-compress the program image")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: vu asm [-o output.vub] <file.s>")
	}

	inputPath := fs.Arg(0)
	outputPath := *output

	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		outputPath = strings.TrimSuffix(inputPath, ext) + ".vub"
	}

	if *verbose {
		fmt.Fprintf(out, "Assembling: %s -> %s\n", inputPath, outputPath)
	}

	source, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}

	program, err := asm.Assemble(string(source))
	if err != nil {
		return fmt.Errorf("assembling: %w", err)
	}

	if *optimize {
		before := len(program.Code)
		program = optimizer.New(optimizer.WithAllOptimizations()).Optimize(program)
		if *verbose {
			fmt.Fprintf(out, "Optimized: %d -> %d instructions\n", before, len(program.Code))
		}
	}

	var image []byte
	if *compress {
		image, err = asm.MarshalProgramCompressed(program)
	} else {
		image, err = asm.MarshalProgram(program)
	}
	if err != nil {
		return fmt.Errorf("serializing: %w", err)
	}

	if err := os.WriteFile(outputPath, image, 0644); err != nil {
		return fmt.Errorf("writing program: %w", err)
	}

	if *verbose {
		fmt.Fprintf(out, "Assembled %d instructions\n", len(program.Code))
		fmt.Fprintf(out, "Output: %s (%d bytes)\n", outputPath, len(image))
	} else {
		fmt.Fprintf(out, "Assembled: %s\n", outputPath)
	}

	return nil
}

func disasmCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("disasm", flag.ExitOnError)
	output := fs.String("o", "", "output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: vu disasm [-o output.s] <file.vub>")
	}

	program, err := readProgram(fs.Arg(0))
	if err != nil {
		return err
	}

	text := asm.Disassemble(program)

	if *output != "" {
		if err := os.WriteFile(*output, []byte(text), 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Fprintf(out, "Disassembled to: %s\n", *output)
	} else {
		fmt.Fprint(out, text)
	}

	return nil
}

func checkCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	record := fs.Bool("record", false, "fill in expected states instead of checking")
	output := fs.String("o", "", "output file for -record (default: overwrite input)")
	verbose := fs.Bool("v", false, "list every case")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: vu check <cases.json[.zst]>")
	}

	path := fs.Arg(0)
	cases, err := trace.LoadCases(path)
	if err != nil {
		return err
	}

	ctx := context.Background()

	if *record {
		for i := range cases {
			if cases[i], err = trace.Record(ctx, cases[i]); err != nil {
				return err
			}
		}
		dst := *output
		if dst == "" {
			dst = path
		}
		if err := trace.SaveCases(dst, cases); err != nil {
			return err
		}
		fmt.Fprintf(out, "Recorded %d cases to %s\n", len(cases), dst)
		return nil
	}

	results, err := trace.CheckAll(ctx, cases)
	failed := 0
	for _, r := range results {
		switch {
		case r.Passed():
			if *verbose {
				fmt.Fprintf(out, "ok   %s\n", r.Name)
			}
		default:
			failed++
			fmt.Fprintf(out, "FAIL %s\n", r.Name)
			if len(r.Mismatches) == 0 && r.Err != nil {
				fmt.Fprintf(out, "     %v\n", r.Err)
			}
			for _, m := range r.Mismatches {
				fmt.Fprintf(out, "     %s\n", m)
			}
		}
	}
	fmt.Fprintf(out, "%d/%d cases passed\n", len(results)-failed, len(results))
	return err
}

func scriptCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("script", flag.ExitOnError)
	c := addCommon(fs)
	o := addOutput(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: vu script <file.lua>")
	}

	cfg, err := c.load()
	if err != nil {
		return err
	}
	unit, err := newUnit(cfg, *c.seeds)
	if err != nil {
		return err
	}

	if err := script.RunFile(context.Background(), fs.Arg(0), unit, script.WithOutput(out)); err != nil {
		return err
	}
	return report(out, &embed.Result{State: unit.Snapshot(), Strategy: unit.Strategy()}, o)
}

func replCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	c := addCommon(fs)
	luaMode := fs.Bool("lua", false, "start in Lua mode (default: assembly mode)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := c.load()
	if err != nil {
		return err
	}
	unit, err := newUnit(cfg, *c.seeds)
	if err != nil {
		return err
	}

	r := repl.New(unit)
	if *luaMode {
		r.SetMode(repl.ModeLua)
	}
	r.SetQuiet(!repl.Interactive(os.Stdin))

	r.Start(os.Stdin, out)
	return nil
}

func romCommand(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("rom", flag.ExitOnError)
	sqrt := fs.Bool("sqrt", false, "use the inverse square root table")
	plot := fs.Bool("plot", false, "plot the table")
	height := fs.Int("height", 16, "plot height in rows")
	index := fs.Int("index", -1, "print a single entry")

	if err := fs.Parse(args); err != nil {
		return err
	}

	tables := rom.Default()
	entries, name := tables.Reciprocal[:], "reciprocal"
	if *sqrt {
		entries, name = tables.InvSqrt[:], "inverse square root"
	}

	switch {
	case *index >= 0:
		if *index >= rom.Size {
			return fmt.Errorf("index %d out of range 0..%d", *index, rom.Size-1)
		}
		fmt.Fprintf(out, "%s[%d] = 0x%04X\n", name, *index, entries[*index])
	case *plot:
		graph := asciigraph.Plot(rom.Curve(entries),
			asciigraph.Height(*height),
			asciigraph.Width(64),
			asciigraph.Caption(name+" ROM, 1.16 fixed point"))
		fmt.Fprintln(out, graph)
	default:
		for i := 0; i < len(entries); i += 8 {
			fmt.Fprintf(out, "%03X:", i)
			for _, e := range entries[i : i+8] {
				fmt.Fprintf(out, " %04X", e)
			}
			fmt.Fprintln(out)
		}
	}
	return nil
}

func newUnit(cfg config.Config, seeds string) (*vu.Unit, error) {
	opts, err := cfg.UnitOptions()
	if err != nil {
		return nil, err
	}
	unit := vu.New(opts...)
	if seeds != "" {
		st, err := loader.LoadState(seeds)
		if err != nil {
			return nil, err
		}
		unit.Restore(st)
	}
	return unit, nil
}

func readProgram(path string) (*vu.Program, error) {
	image, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	program, err := asm.UnmarshalProgram(image)
	if err != nil {
		return nil, fmt.Errorf("deserializing: %w", err)
	}
	return program, nil
}

func report(out io.Writer, res *embed.Result, o *stateOutput) error {
	if *o.save != "" {
		if err := saveState(res.State, *o.save); err != nil {
			return err
		}
		logger.Infof("wrote state to %s", *o.save)
	}

	if *o.asJSON {
		data, err := json.MarshalIndent(res.State, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	regs, err := selectRegisters(res.State, *o.regs)
	if err != nil {
		return err
	}
	if len(regs) > 0 {
		repl.RenderRegisters(out, res.State, regs)
	}
	if res.State.Accumulator != (vu.Accumulator{}) {
		repl.RenderAccumulator(out, res.State.Accumulator)
	}
	if res.State.Flags != (vu.Flags{}) || res.State.Divide != (vu.DivideState{}) {
		repl.RenderFlags(out, res.State.Flags, res.State.Divide)
	}

	if s := res.Stats; s != nil {
		fmt.Fprintf(out, "steps=%d reserved=%d time=%dns strategy=%s\n",
			s.StepsExecuted, s.ReservedHits, s.ExecutionTimeNs, res.Strategy)
	}
	return nil
}

func saveState(st vu.State, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".vust") {
		data, err := vu.MarshalState(st)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	}
	return loader.SaveState(context.Background(), st, path)
}

// selectRegisters parses a comma-separated list. An empty list selects
// every non-zero register.
func selectRegisters(st vu.State, list string) ([]int, error) {
	if list == "" {
		var regs []int
		for i, v := range st.Registers {
			if v != (vu.Vector{}) {
				regs = append(regs, i)
			}
		}
		return regs, nil
	}

	var regs []int
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(strings.TrimPrefix(name, "$"), "v"), "%d", &n); err != nil || n < 0 || n >= vu.NumVectorRegs {
			return nil, errors.New("invalid register " + name)
		}
		regs = append(regs, n)
	}
	return regs, nil
}

func printUsage(out io.Writer) error {
	fmt.Fprintln(out, `VU - RSP vector unit emulator

Usage:
  vu <command> [arguments]

Commands:
  run <file.s>          Assemble and execute a program
  asm <file.s>          Assemble to a program image (.vub)
  exec <file.vub>       Execute a program image
  disasm <file.vub>     Disassemble a program image
  check <cases.json>    Check programs against recorded states
  script <file.lua>     Run a Lua script against a unit
  repl                  Start interactive console
  rom                   Print or plot the divide ROM
  version               Print version information
  help                  Show this help message

Run/Exec/Script Options:
  -config <file>        YAML config file (default: $VU_CONFIG)
  -strategy <name>      Lane strategy: auto, scalar, wide
  -seeds <file>         Seed file (csv, json, parquet)
  -O                    Run the optimizer first
  -stats                Print run statistics
  -regs v1,v2           Registers to print (default: all non-zero)
  -json                 Print the final state as JSON
  -o <file>             Write the final state (.csv, .parquet, .vust)
  -v                    Verbose output

Asm Options:
  -o <file>             Output file (default: input with .vub extension)
  -O                    Enable optimizations
  -z                    Compress the image with zstd
  -v                    Verbose output

Check Options:
  -record               Fill in expected states
  -o <file>             Output file for -record
  -v                    List every case

Rom Options:
  -sqrt                 Use the inverse square root table
  -plot                 Plot the table
  -index <n>            Print one entry

Examples:
  vu run -seeds seeds.csv -regs v1,v2 program.s
  vu asm -O -z -o program.vub program.s
  vu exec -strategy scalar program.vub
  vu disasm program.vub
  vu check -record cases.json
  vu rom -sqrt -plot`)
	return nil
}
