package compiler

import (
	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/errors"
)

// funcClassifier carries the per-function state needed to infer each
// parameter's scalar/map usage (spec §4.5): the parameter slot table, the
// by-ref flags being decided, and which of them have already seen a use.
// nil everywhere a walk happens outside a function body (BEGIN/END/rule
// actions), so every identifier there resolves straight to a global.
type funcClassifier struct {
	locals     map[string]int
	byRef      []bool
	classified []bool
	fnName     string
	errs       *errors.List
}

func (fc *funcClassifier) classify(e ast.Expr, asMap bool) {
	if fc == nil {
		return
	}
	id, ok := e.(*ast.Ident)
	if !ok {
		return
	}
	idx, isParam := fc.locals[id.Name]
	if !isParam {
		return
	}
	if fc.classified[idx] {
		if fc.byRef[idx] != asMap {
			*fc.errs = append(*fc.errs, errors.New(errors.BADARG, id.Pos(),
				"parameter %q of function %q used as both scalar and array", id.Name, fc.fnName))
		}
		return
	}
	fc.classified[idx] = true
	fc.byRef[idx] = asMap
}

// isLocal reports whether name is one of the enclosing function's
// parameters, so the caller can skip implicit-global registration for it.
func (fc *funcClassifier) isLocal(name string) bool {
	if fc == nil {
		return false
	}
	_, ok := fc.locals[name]
	return ok
}

func (c *Compiler) walkStmt(s ast.Stmt, fc *funcClassifier, sc scope) {
	if s == nil {
		return
	}
	switch n := s.(type) {
	case *ast.BlockStmt:
		for _, st := range n.List {
			c.walkStmt(st, fc, sc)
		}
	case *ast.ExprStmt:
		c.walkExpr(n.X, fc)
	case *ast.PrintStmt:
		for _, a := range n.Args {
			c.walkExpr(a, fc)
		}
		if n.Dest != nil {
			c.walkExpr(n.Dest, fc)
		}
	case *ast.IfStmt:
		c.walkExpr(n.Cond, fc)
		c.walkStmt(n.Then, fc, sc)
		c.walkStmt(n.Else, fc, sc)
	case *ast.WhileStmt:
		c.walkExpr(n.Cond, fc)
		c.walkStmt(n.Body, fc, sc.asLoop())
	case *ast.DoWhileStmt:
		c.walkStmt(n.Body, fc, sc.asLoop())
		c.walkExpr(n.Cond, fc)
	case *ast.ForStmt:
		c.walkStmt(n.Init, fc, sc)
		if n.Cond != nil {
			c.walkExpr(n.Cond, fc)
		}
		c.walkStmt(n.Post, fc, sc)
		c.walkStmt(n.Body, fc, sc.asLoop())
	case *ast.ForInStmt:
		c.walkExpr(n.Key, fc)
		fc.classify(n.Array, true)
		c.resolveArrayIdent(n.Array, fc)
		c.walkStmt(n.Body, fc, sc.asLoop())
	case *ast.BreakStmt:
		if !sc.inLoop {
			c.errorAt(n.Pos(), errors.SYNTAX, "break outside a loop")
		}
	case *ast.ContinueStmt:
		if !sc.inLoop {
			c.errorAt(n.Pos(), errors.SYNTAX, "continue outside a loop")
		}
	case *ast.NextStmt:
		if sc.inFunc || sc.inBeginEnd {
			c.errorAt(n.Pos(), errors.SYNTAX, "next is not valid inside BEGIN, END, or a function body")
		}
	case *ast.NextfileStmt:
		if sc.inFunc || sc.inBeginEnd {
			c.errorAt(n.Pos(), errors.SYNTAX, "nextfile is not valid inside BEGIN, END, or a function body")
		}
	case *ast.ExitStmt:
		if n.Code != nil {
			c.walkExpr(n.Code, fc)
		}
	case *ast.ReturnStmt:
		if !sc.inFunc {
			c.errorAt(n.Pos(), errors.SYNTAX, "return outside a function body")
		}
		if n.Value != nil {
			c.walkExpr(n.Value, fc)
		}
	case *ast.DeleteStmt:
		fc.classify(n.Array, true)
		c.resolveArrayIdent(n.Array, fc)
		for _, idx := range n.Indices {
			c.walkExpr(idx, fc)
		}
	case *ast.EmptyStmt:
		// nothing to resolve
	default:
		c.errorAt(s.Pos(), errors.SYNTAX, "compiler: unhandled statement %T", s)
	}
}

func (c *Compiler) walkExpr(e ast.Expr, fc *funcClassifier) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Ident:
		if !fc.isLocal(n.Name) {
			if _, isFn := c.prog.Functions[n.Name]; !isFn {
				c.slot(n.Name)
			}
		}
		fc.classify(n, false)
	case *ast.IntLit, *ast.FloatLit, *ast.StringLit, *ast.RegexLit:
		// literals carry no names to resolve
	case *ast.FieldExpr:
		c.walkExpr(n.Index, fc)
	case *ast.IndexExpr:
		fc.classify(n.Array, true)
		c.resolveArrayIdent(n.Array, fc)
		for _, idx := range n.Indices {
			c.walkExpr(idx, fc)
		}
	case *ast.AssignExpr:
		if idx, ok := n.Target.(*ast.IndexExpr); ok {
			fc.classify(idx.Array, true)
			c.resolveArrayIdent(idx.Array, fc)
			for _, k := range idx.Indices {
				c.walkExpr(k, fc)
			}
		} else {
			c.walkExpr(n.Target, fc)
		}
		c.walkExpr(n.Value, fc)
	case *ast.TernaryExpr:
		c.walkExpr(n.Cond, fc)
		c.walkExpr(n.Then, fc)
		c.walkExpr(n.Else, fc)
	case *ast.BinaryExpr:
		c.walkExpr(n.Left, fc)
		c.walkExpr(n.Right, fc)
	case *ast.UnaryExpr:
		c.walkExpr(n.Operand, fc)
	case *ast.IncDecExpr:
		c.walkExpr(n.Target, fc)
	case *ast.MatchExpr:
		c.walkExpr(n.Left, fc)
		c.walkExpr(n.Right, fc)
	case *ast.InExpr:
		for _, k := range n.Keys {
			c.walkExpr(k, fc)
		}
		fc.classify(n.Array, true)
		c.resolveArrayIdent(n.Array, fc)
	case *ast.CallExpr:
		c.walkCall(n, fc)
	case *ast.GroupingExpr:
		c.walkExpr(n.Inner, fc)
	case *ast.GetlineExpr:
		if n.Target != nil {
			if !isLvalue(n.Target) {
				c.errorAt(n.Pos(), errors.LVALUE, "getline target must be a variable, field, or array element")
			}
			c.walkExpr(n.Target, fc)
		}
		if n.Source != nil {
			c.walkExpr(n.Source, fc)
		}
	default:
		c.errorAt(e.Pos(), errors.SYNTAX, "compiler: unhandled expression %T", e)
	}
}

// resolveArrayIdent registers the bare name used as an array (for
// in/delete/index/for-in) as an implicit global when it is not a
// function's local parameter — arrays never need a classify(asMap=false)
// counterpart since there is no scalar form of these constructs.
func (c *Compiler) resolveArrayIdent(e ast.Expr, fc *funcClassifier) {
	id, ok := e.(*ast.Ident)
	if !ok {
		return
	}
	if fc.isLocal(id.Name) {
		return
	}
	if _, isFn := c.prog.Functions[id.Name]; isFn {
		return
	}
	c.slot(id.Name)
}

func (c *Compiler) walkCall(n *ast.CallExpr, fc *funcClassifier) {
	sig, isBuiltin := c.builtins[n.Name]
	for i, a := range n.Args {
		if isBuiltin && i < len(sig.ByRef) && sig.ByRef[i] {
			fc.classify(a, true)
			c.resolveArrayIdent(a, fc)
			continue
		}
		c.walkExpr(a, fc)
	}
}

func isLvalue(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.FieldExpr, *ast.IndexExpr:
		return true
	default:
		return false
	}
}
