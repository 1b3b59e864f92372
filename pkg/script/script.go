// Package script drives a vector unit from Lua.
//
// Scripts see a global table "vu":
//
//	vu.exec(op, vd, vs, vt [, e])  run one instruction (op is a mnemonic or number)
//	vu.run(source)                 assemble and run a program
//	vu.set(reg, {l0, ..., l7})     write a register
//	vu.get(reg)                    read a register as a table of eight lanes
//	vu.acc()                       48-bit accumulator lanes
//	vu.setacc({l0, ..., l7})       write the accumulator from 48-bit lanes
//	vu.flags()                     {vco=, vcc=, vce=}
//	vu.setflags(vco, vcc, vce)     write the control registers
//	vu.reset()                     clear all state
//	vu.lanes                       8
package script

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/juju/loggo"
	lua "github.com/yuin/gopher-lua"

	"github.com/akhildatla/rspvu/pkg/asm"
	"github.com/akhildatla/rspvu/pkg/vu"
)

var logger = loggo.GetLogger("rspvu.script")

// ErrScript is wrapped by all script failures.
var ErrScript = errors.New("script error")

// Option configures a script run.
type Option func(*lua.LState)

// WithOutput redirects print to w.
func WithOutput(w io.Writer) Option {
	return func(L *lua.LState) {
		L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
			n := L.GetTop()
			for i := 1; i <= n; i++ {
				if i > 1 {
					fmt.Fprint(w, "\t")
				}
				fmt.Fprint(w, L.ToStringMeta(L.Get(i)).String())
			}
			fmt.Fprintln(w)
			return 0
		}))
	}
}

// Run executes src against u.
func Run(ctx context.Context, src string, u *vu.Unit, opts ...Option) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	Register(L, u)
	for _, opt := range opts {
		opt(L)
	}

	if err := L.DoString(src); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", ErrScript, err)
	}
	return nil
}

// RunFile executes the script at path against u.
func RunFile(ctx context.Context, path string, u *vu.Unit, opts ...Option) error {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	Register(L, u)
	for _, opt := range opts {
		opt(L)
	}

	if err := L.DoFile(path); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s: %v", ErrScript, path, err)
	}
	return nil
}

// Register installs the vu table in L, bound to u.
func Register(L *lua.LState, u *vu.Unit) {
	b := &binding{u: u}
	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"exec":     b.exec,
		"run":      b.run,
		"set":      b.set,
		"get":      b.get,
		"acc":      b.acc,
		"setacc":   b.setacc,
		"flags":    b.flags,
		"setflags": b.setflags,
		"reset":    b.reset,
	})
	L.SetField(mod, "lanes", lua.LNumber(vu.Lanes))
	L.SetGlobal("vu", mod)
}

type binding struct {
	u *vu.Unit
}

func checkRegister(L *lua.LState, n int) int {
	r := L.CheckInt(n)
	if r < 0 || r >= vu.NumVectorRegs {
		L.ArgError(n, fmt.Sprintf("register %d out of range", r))
	}
	return r
}

func checkOpcode(L *lua.LState, n int) vu.Opcode {
	switch v := L.Get(n).(type) {
	case lua.LString:
		op, ok := vu.OpcodeFromString(string(v))
		if !ok {
			L.ArgError(n, "unknown mnemonic "+string(v))
		}
		return op
	case lua.LNumber:
		if v < 0 || v >= vu.NumOpcodes || v != lua.LNumber(int(v)) {
			L.ArgError(n, fmt.Sprintf("opcode %v out of range", v))
		}
		return vu.Opcode(v)
	}
	L.TypeError(n, lua.LTString)
	return 0
}

func checkLanes(L *lua.LState, n int) [vu.Lanes]int64 {
	tbl := L.CheckTable(n)
	var out [vu.Lanes]int64
	for i := range out {
		v, ok := tbl.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			L.ArgError(n, fmt.Sprintf("lane %d is not a number", i))
		}
		out[i] = int64(v)
	}
	return out
}

func (b *binding) exec(L *lua.LState) int {
	op := checkOpcode(L, 1)
	vd := checkRegister(L, 2)
	vs := checkRegister(L, 3)
	vt := checkRegister(L, 4)
	e := L.OptInt(5, 0)
	if e < 0 || e > 15 {
		L.ArgError(5, fmt.Sprintf("element %d out of range", e))
	}
	logger.Tracef("exec %s $v%d, $v%d, $v%d e=%d", op, vd, vs, vt, e)
	b.u.Execute(op, vd, vs, vt, e)
	return 0
}

func (b *binding) run(L *lua.LState) int {
	p, err := asm.Assemble(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
	}
	if err := b.u.Run(L.Context(), p); err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(lua.LNumber(len(p.Code)))
	return 1
}

func (b *binding) set(L *lua.LState) int {
	r := checkRegister(L, 1)
	lanes := checkLanes(L, 2)
	var v vu.Vector
	for i, x := range lanes {
		v[i] = int16(x)
	}
	b.u.Write(r, v)
	return 0
}

func (b *binding) get(L *lua.LState) int {
	v := b.u.Read(checkRegister(L, 1))
	tbl := L.CreateTable(vu.Lanes, 0)
	for _, x := range v {
		tbl.Append(lua.LNumber(x))
	}
	L.Push(tbl)
	return 1
}

func (b *binding) acc(L *lua.LState) int {
	a := b.u.Accumulator()
	tbl := L.CreateTable(vu.Lanes, 0)
	for i := 0; i < vu.Lanes; i++ {
		tbl.Append(lua.LNumber(a.Get(i)))
	}
	L.Push(tbl)
	return 1
}

func (b *binding) setacc(L *lua.LState) int {
	lanes := checkLanes(L, 1)
	var a vu.Accumulator
	for i, x := range lanes {
		a.Set(i, x)
	}
	b.u.SetAccumulator(a)
	return 0
}

func (b *binding) flags(L *lua.LState) int {
	f := b.u.Flags()
	tbl := L.NewTable()
	L.SetField(tbl, "vco", lua.LNumber(f.VCO()))
	L.SetField(tbl, "vcc", lua.LNumber(f.VCC()))
	L.SetField(tbl, "vce", lua.LNumber(f.VCE()))
	L.Push(tbl)
	return 1
}

func (b *binding) setflags(L *lua.LState) int {
	var f vu.Flags
	f.SetVCO(uint16(L.CheckInt(1)))
	f.SetVCC(uint16(L.OptInt(2, 0)))
	f.SetVCE(uint8(L.OptInt(3, 0)))
	b.u.SetFlags(f)
	return 0
}

func (b *binding) reset(L *lua.LState) int {
	b.u.Reset()
	return 0
}
