package interp

import (
	"os"
	"os/exec"

	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/builtins"
	"github.com/hawklang/hawk/internal/compiler"
	"github.com/hawklang/hawk/internal/errors"
	"github.com/hawklang/hawk/internal/regexp"
	"github.com/hawklang/hawk/internal/value"
)

// BuiltinSigs is the table passed to compiler.Compile so the linker can
// validate arity and by-ref argument positions against the same intrinsic
// set internal/interp actually dispatches to at runtime.
var BuiltinSigs = map[string]compiler.BuiltinSig{
	"length":  {MinArgs: 0, MaxArgs: 1},
	"index":   {MinArgs: 2, MaxArgs: 2},
	"rindex":  {MinArgs: 2, MaxArgs: 2},
	"substr":  {MinArgs: 2, MaxArgs: 3},
	"split":   {MinArgs: 2, MaxArgs: 3, ByRef: []bool{false, true, false}},
	"splita":  {MinArgs: 2, MaxArgs: 4, ByRef: []bool{false, true, false, true}},
	"match":   {MinArgs: 2, MaxArgs: 2},
	"sub":     {MinArgs: 2, MaxArgs: 3},
	"gsub":    {MinArgs: 2, MaxArgs: 3},
	"sprintf": {MinArgs: 1, MaxArgs: -1},
	"tolower": {MinArgs: 1, MaxArgs: 1},
	"toupper": {MinArgs: 1, MaxArgs: 1},
	"close":   {MinArgs: 1, MaxArgs: 1},
	"fflush":  {MinArgs: 0, MaxArgs: 1},
	"system":  {MinArgs: 1, MaxArgs: 1},
}

func (ip *Interp) evalCall(n *ast.CallExpr) (value.Value, error) {
	if fn, ok := ip.compiled.Functions[n.Name]; ok {
		return ip.callUser(fn, n)
	}
	if fn, ok := ip.natives[n.Name]; ok {
		return ip.callNative(fn, n)
	}
	return ip.callBuiltin(n)
}

// callNative dispatches to a host-registered function (spec.md §4.3: "Host
// programs may register additional named functions with the same
// interface").
func (ip *Interp) callNative(fn *value.Fun, n *ast.CallExpr) (value.Value, error) {
	args := make([]value.Value, len(n.Args))
	if err := ip.evalArgs(n, args); err != nil {
		return value.NewNil(), err
	}
	v, err := fn.Native(args)
	if err != nil {
		return value.NewNil(), errors.New(errors.FNCIMPL, n.Pos(), "%s: %v", n.Name, err)
	}
	return v, nil
}

func (ip *Interp) callUser(fn *compiler.Function, n *ast.CallExpr) (value.Value, error) {
	if len(ip.frames) >= MaxCallDepth {
		return value.NewNil(), errors.New(errors.RECURSION, n.Pos(), "call depth exceeded %d", MaxCallDepth)
	}
	locals := make([]value.Value, len(fn.Decl.Params))
	for i := range fn.Decl.Params {
		if i >= len(n.Args) {
			locals[i] = value.NewNil()
			continue
		}
		arg := n.Args[i]
		byRef := i < len(fn.ByRef) && fn.ByRef[i]
		if byRef {
			m, err := ip.resolveMap(arg)
			if err != nil {
				return value.NewNil(), err
			}
			// Share the same underlying map so writes inside the callee are
			// visible to the caller (spec §4.5: "Arrays are passed by
			// reference").
			locals[i] = value.WrapMap(m)
		} else {
			v, err := ip.eval(arg)
			if err != nil {
				return value.NewNil(), err
			}
			locals[i] = v
		}
	}
	fr := &frame{fn: fn, locals: locals}
	ip.frames = append(ip.frames, fr)
	ip.stack.Push(fn.Decl.Name, n.Pos())
	sig, err := ip.execBlock(fn.Decl.Body)
	ip.stack.Pop()
	ip.frames = ip.frames[:len(ip.frames)-1]
	if err != nil {
		return value.NewNil(), err
	}
	if sig.Kind == SigReturn {
		return sig.Value, nil
	}
	return value.NewNil(), nil
}

func (ip *Interp) callBuiltin(n *ast.CallExpr) (value.Value, error) {
	args := make([]value.Value, len(n.Args))
	argExpr := func(i int) ast.Expr { return n.Args[i] }

	switch n.Name {
	case "length":
		if len(n.Args) == 0 {
			return value.NewInt(int64(ip.nf())), nil
		}
		v, err := ip.evalLengthArg(argExpr(0))
		if err != nil {
			return value.NewNil(), err
		}
		return value.NewInt(builtins.Length(v, ip.convfmt())), nil

	case "index":
		s, t, err := ip.eval2Str(n)
		if err != nil {
			return value.NewNil(), err
		}
		return value.NewInt(builtins.Index(s, t)), nil

	case "rindex":
		s, t, err := ip.eval2Str(n)
		if err != nil {
			return value.NewNil(), err
		}
		return value.NewInt(builtins.Rindex(s, t)), nil

	case "substr":
		if err := ip.evalArgs(n, args); err != nil {
			return value.NewNil(), err
		}
		s := args[0].ToStr(ip.convfmt())
		start := args[1].ToFlt()
		if len(args) >= 3 {
			return value.NewStr(builtins.Substr(s, start, true, args[2].ToFlt())), nil
		}
		return value.NewStr(builtins.Substr(s, start, false, 0)), nil

	case "split", "splita":
		return ip.callSplit(n)

	case "match":
		sv, err := ip.eval(argExpr(0))
		if err != nil {
			return value.NewNil(), err
		}
		re, err := ip.regexOf(argExpr(1))
		if err != nil {
			return value.NewNil(), err
		}
		rstart, rlength := builtins.Match(sv.ToStr(ip.convfmt()), re)
		ip.setGlobal(ip.slots.rstart, value.NewInt(rstart))
		ip.setGlobal(ip.slots.rlength, value.NewInt(rlength))
		return value.NewInt(rstart), nil

	case "sub", "gsub":
		return ip.callSubGsub(n)

	case "sprintf":
		if err := ip.evalArgs(n, args); err != nil {
			return value.NewNil(), err
		}
		return value.NewStr(builtins.Sprintf(args[0].ToStr(ip.convfmt()), args[1:], ip.convfmt())), nil

	case "tolower":
		v, err := ip.eval(argExpr(0))
		if err != nil {
			return value.NewNil(), err
		}
		return value.NewStr(builtins.Tolower(v.ToStr(ip.convfmt()))), nil

	case "toupper":
		v, err := ip.eval(argExpr(0))
		if err != nil {
			return value.NewNil(), err
		}
		return value.NewStr(builtins.Toupper(v.ToStr(ip.convfmt()))), nil

	case "close":
		v, err := ip.eval(argExpr(0))
		if err != nil {
			return value.NewNil(), err
		}
		return value.NewInt(int64(ip.closeHandle(v.ToStr(ip.convfmt())))), nil

	case "fflush":
		if len(n.Args) == 0 {
			ip.flushAll()
			return value.NewInt(0), nil
		}
		v, err := ip.eval(argExpr(0))
		if err != nil {
			return value.NewNil(), err
		}
		return value.NewInt(int64(ip.flushHandle(v.ToStr(ip.convfmt())))), nil

	case "system":
		v, err := ip.eval(argExpr(0))
		if err != nil {
			return value.NewNil(), err
		}
		return value.NewInt(int64(ip.runSystem(v.ToStr(ip.convfmt())))), nil
	}
	return value.NewNil(), errors.New(errors.UNDEF, n.Pos(), "undefined function %q", n.Name)
}

// evalLengthArg special-cases a bare array identifier: length(arr) must read
// the map without auto-vivifying a never-assigned name into one.
func (ip *Interp) evalLengthArg(e ast.Expr) (value.Value, error) {
	if id, ok := e.(*ast.Ident); ok {
		t, err := ip.lvalueOf(id)
		if err == nil {
			return t.Get(), nil
		}
	}
	return ip.eval(e)
}

func (ip *Interp) eval2Str(n *ast.CallExpr) (string, string, error) {
	a, err := ip.eval(n.Args[0])
	if err != nil {
		return "", "", err
	}
	b, err := ip.eval(n.Args[1])
	if err != nil {
		return "", "", err
	}
	return a.ToStr(ip.convfmt()), b.ToStr(ip.convfmt()), nil
}

func (ip *Interp) evalArgs(n *ast.CallExpr, out []value.Value) error {
	for i, a := range n.Args {
		v, err := ip.eval(a)
		if err != nil {
			return err
		}
		out[i] = v
	}
	return nil
}

func (ip *Interp) callSplit(n *ast.CallExpr) (value.Value, error) {
	sv, err := ip.eval(n.Args[0])
	if err != nil {
		return value.NewNil(), err
	}
	arr, err := ip.resolveMap(n.Args[1])
	if err != nil {
		return value.NewNil(), err
	}
	fs := ip.getGlobal(ip.slots.fs).ToStr(ip.convfmt())
	var re *regexp.Regex
	if len(n.Args) >= 3 {
		r, err := ip.regexOf(n.Args[2])
		if err != nil {
			return value.NewNil(), err
		}
		re = r
		fs = r.Source()
		// A separator string of at most one character keeps FS's
		// literal, whitespace and per-character modes.
		if _, lit := n.Args[2].(*ast.RegexLit); !lit && len([]rune(fs)) <= 1 {
			re = nil
		}
	} else if len([]rune(fs)) > 1 {
		// A multi-character FS is an ERE, as in record field splitting.
		if r, err := ip.compileRegex(fs); err == nil {
			re = r
		}
	}

	if n.Name == "split" {
		cnt := builtins.Split(sv.ToStr(ip.convfmt()), arr, fs, re)
		return value.NewInt(cnt), nil
	}
	var seps *value.Map
	if len(n.Args) >= 4 {
		seps, err = ip.resolveMap(n.Args[3])
		if err != nil {
			return value.NewNil(), err
		}
	}
	cnt := builtins.SplitA(sv.ToStr(ip.convfmt()), arr, seps, fs, re)
	return value.NewInt(cnt), nil
}

func (ip *Interp) callSubGsub(n *ast.CallExpr) (value.Value, error) {
	re, err := ip.regexOf(n.Args[0])
	if err != nil {
		return value.NewNil(), err
	}
	replv, err := ip.eval(n.Args[1])
	if err != nil {
		return value.NewNil(), err
	}
	repl := replv.ToStr(ip.convfmt())

	var target ast.Expr = fieldZero
	if len(n.Args) >= 3 {
		target = n.Args[2]
	}
	t, err := ip.lvalueOf(target)
	if err != nil {
		return value.NewNil(), err
	}
	cur := t.Get().ToStr(ip.convfmt())
	var out string
	var cnt int64
	if n.Name == "sub" {
		out, cnt = builtins.Sub(re, repl, cur)
	} else {
		out, cnt = builtins.Gsub(re, repl, cur)
	}
	if cnt > 0 {
		t.Set(value.NewStr(out))
	}
	return value.NewInt(cnt), nil
}

var fieldZero = &ast.FieldExpr{Index: &ast.IntLit{Value: 0}}

func (ip *Interp) runSystem(cmd string) int {
	ip.flushAll()
	c := exec.Command("sh", "-c", cmd)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return ee.ExitCode()
		}
		return -1
	}
	return 0
}
