// Package compiler implements spec §4.4's "compiler/linker" pass: it
// assigns stable integer slots to globals/locals/parameters, resolves
// identifier references (locals -> parameters -> globals -> function
// names, spec §4.3), decides each user function's by-value/by-reference
// parameter passing (spec §4.5), and validates the control-flow
// invariants (break/continue inside loops, return inside functions,
// next/nextfile outside BEGIN/END, getline targets are lvalues).
//
// Grounded on the teacher's semantic-analysis pass shape (a tree walk
// over the already-parsed AST that resolves names and reports errors
// through the same errors.Error type the parser uses) generalized from
// DWScript's static type resolution to Hawk's dynamic, arity-only
// resolution.
package compiler

import (
	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/errors"
)

// BuiltinGlobals are the scripting-visible globals of spec §6, assigned
// fixed slots 0..len-1 so the runtime can address them without a map
// lookup on every record.
var BuiltinGlobals = []string{
	"NR", "NF", "FNR", "FS", "OFS", "ORS", "RS", "FILENAME", "SUBSEP",
	"CONVFMT", "OFMT", "RLENGTH", "RSTART", "ENVIRON", "ARGC", "ARGV",
}

// BuiltinSig describes an intrinsic's call-site contract so the linker can
// validate arity and flag pass-by-reference (array) argument positions
// without this package depending on package builtins (which would create
// an import cycle through interp).
type BuiltinSig struct {
	MinArgs, MaxArgs int // MaxArgs == -1 means unbounded
	ByRef            []bool
}

// Function is a compiled function descriptor: the parsed body plus its
// parameter slot table and by-ref flags.
type Function struct {
	Decl   *ast.FuncDecl
	Locals map[string]int // param name -> slot 0..len(Params)-1
	ByRef  []bool
}

// Compiled is the linked program the runtime executes.
type Compiled struct {
	Program     *ast.Program
	GlobalSlots map[string]int
	NumGlobals  int
	Functions   map[string]*Function
}

type Compiler struct {
	prog     *ast.Program
	builtins map[string]BuiltinSig
	errs     errors.List
	globals  map[string]int
}

func New(prog *ast.Program, builtins map[string]BuiltinSig) *Compiler {
	return &Compiler{prog: prog, builtins: builtins, globals: map[string]int{}}
}

// Compile links a parsed Program into a Compiled one, or returns the
// accumulated errors.List as an error.
func Compile(prog *ast.Program, builtins map[string]BuiltinSig) (*Compiled, error) {
	return New(prog, builtins).Run()
}

func (c *Compiler) Run() (*Compiled, error) {
	for _, name := range BuiltinGlobals {
		c.slot(name)
	}
	for _, name := range c.prog.Globals {
		c.slot(name)
	}

	functions := make(map[string]*Function, len(c.prog.Functions))
	for name, decl := range c.prog.Functions {
		functions[name] = &Function{Decl: decl, Locals: paramSlots(decl.Params)}
	}

	// Pass 1: top-level blocks (BEGIN/END/rule patterns+actions) run with
	// no enclosing function: next/nextfile are legal in rule actions but not
	// in BEGIN/END, return is legal in none of them, and every bare
	// identifier not already a global becomes one.
	top := scope{}
	for _, b := range c.prog.Begin {
		c.walkStmt(b, nil, top.asBeginEnd())
	}
	for _, b := range c.prog.End {
		c.walkStmt(b, nil, top.asBeginEnd())
	}
	for _, r := range c.prog.Rules {
		if r.Start != nil {
			c.walkExpr(r.Start, nil)
		}
		if r.End != nil {
			c.walkExpr(r.End, nil)
		}
		c.walkStmt(r.Action, nil, top)
	}

	// Pass 2: each function gets its own local scope; this also infers
	// every parameter's scalar/map usage (spec §4.5) from its first use.
	for name, fn := range functions {
		byRef := make([]bool, len(fn.Decl.Params))
		classified := make([]bool, len(fn.Decl.Params))
		fc := &funcClassifier{
			locals:     fn.Locals,
			byRef:      byRef,
			classified: classified,
			fnName:     name,
			errs:       &c.errs,
		}
		c.walkStmt(fn.Decl.Body, fc, scope{inFunc: true})
		fn.ByRef = byRef
		fn.Decl.ByRef = byRef
	}

	// Pass 3: validate call arity/callee existence now that every
	// function's ByRef table is known.
	for _, fn := range functions {
		c.validateCalls(fn.Decl.Body, functions)
	}
	for _, b := range c.prog.Begin {
		c.validateCalls(b, functions)
	}
	for _, b := range c.prog.End {
		c.validateCalls(b, functions)
	}
	for _, r := range c.prog.Rules {
		c.validateCalls(r.Action, functions)
	}

	if len(c.errs) > 0 {
		return nil, c.errs
	}

	c.prog.GlobalSlots = c.globals
	return &Compiled{
		Program:     c.prog,
		GlobalSlots: c.globals,
		NumGlobals:  len(c.globals),
		Functions:   functions,
	}, nil
}

// slot assigns (or returns the existing) global slot for name — the
// mechanism by which a bare identifier not bound to any function's
// parameter list becomes an implicit global on first sight (spec §4.3).
func (c *Compiler) slot(name string) int {
	if i, ok := c.globals[name]; ok {
		return i
	}
	i := len(c.globals)
	c.globals[name] = i
	return i
}

func paramSlots(params []string) map[string]int {
	m := make(map[string]int, len(params))
	for i, p := range params {
		m[p] = i
	}
	return m
}

// scope tracks the control-flow context needed to validate break/continue/
// return/next/nextfile placement (spec §4.4). Passed by value: entering a
// loop or function body derives a new scope rather than mutating the
// caller's.
type scope struct {
	inLoop     bool
	inFunc     bool
	inBeginEnd bool
}

func (s scope) asLoop() scope     { s.inLoop = true; return s }
func (s scope) asBeginEnd() scope { s.inBeginEnd = true; return s }

func (c *Compiler) errorAt(pos errors.Position, kind errors.Kind, format string, args ...any) {
	c.errs = append(c.errs, errors.New(kind, pos, format, args...))
}
