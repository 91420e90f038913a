package compiler

import (
	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/errors"
)

// validateCalls re-walks a statement tree checking every call's arity
// against its resolved callee: a user function may be called with fewer
// arguments than declared (the trailing ones bind Nil, spec §4.5's
// argument-as-local-variable convention) but never more; a builtin must
// fall within its declared [Min,Max] range.
func (c *Compiler) validateCalls(s ast.Stmt, functions map[string]*Function) {
	var walkS func(ast.Stmt)
	var walkE func(ast.Expr)

	walkS = func(s ast.Stmt) {
		if s == nil {
			return
		}
		switch n := s.(type) {
		case *ast.BlockStmt:
			for _, st := range n.List {
				walkS(st)
			}
		case *ast.ExprStmt:
			walkE(n.X)
		case *ast.PrintStmt:
			for _, a := range n.Args {
				walkE(a)
			}
			walkE(n.Dest)
		case *ast.IfStmt:
			walkE(n.Cond)
			walkS(n.Then)
			walkS(n.Else)
		case *ast.WhileStmt:
			walkE(n.Cond)
			walkS(n.Body)
		case *ast.DoWhileStmt:
			walkS(n.Body)
			walkE(n.Cond)
		case *ast.ForStmt:
			walkS(n.Init)
			walkE(n.Cond)
			walkS(n.Post)
			walkS(n.Body)
		case *ast.ForInStmt:
			walkE(n.Array)
			walkS(n.Body)
		case *ast.ExitStmt:
			walkE(n.Code)
		case *ast.ReturnStmt:
			walkE(n.Value)
		case *ast.DeleteStmt:
			for _, idx := range n.Indices {
				walkE(idx)
			}
		}
	}

	walkE = func(e ast.Expr) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case *ast.FieldExpr:
			walkE(n.Index)
		case *ast.IndexExpr:
			for _, idx := range n.Indices {
				walkE(idx)
			}
		case *ast.AssignExpr:
			walkE(n.Target)
			walkE(n.Value)
		case *ast.TernaryExpr:
			walkE(n.Cond)
			walkE(n.Then)
			walkE(n.Else)
		case *ast.BinaryExpr:
			walkE(n.Left)
			walkE(n.Right)
		case *ast.UnaryExpr:
			walkE(n.Operand)
		case *ast.IncDecExpr:
			walkE(n.Target)
		case *ast.MatchExpr:
			walkE(n.Left)
			walkE(n.Right)
		case *ast.InExpr:
			for _, k := range n.Keys {
				walkE(k)
			}
			walkE(n.Array)
		case *ast.GroupingExpr:
			walkE(n.Inner)
		case *ast.GetlineExpr:
			walkE(n.Target)
			walkE(n.Source)
		case *ast.CallExpr:
			for _, a := range n.Args {
				walkE(a)
			}
			c.checkCall(n, functions)
		}
	}

	walkS(s)
}

func (c *Compiler) checkCall(n *ast.CallExpr, functions map[string]*Function) {
	if fn, ok := functions[n.Name]; ok {
		if len(n.Args) > len(fn.Decl.Params) {
			c.errorAt(n.Pos(), errors.BADARG, "too many arguments to function %q: have %d, want at most %d",
				n.Name, len(n.Args), len(fn.Decl.Params))
		}
		return
	}
	if sig, ok := c.builtins[n.Name]; ok {
		if len(n.Args) < sig.MinArgs || (sig.MaxArgs >= 0 && len(n.Args) > sig.MaxArgs) {
			c.errorAt(n.Pos(), errors.BADARG, "wrong number of arguments to %q: have %d", n.Name, len(n.Args))
		}
		return
	}
	c.errorAt(n.Pos(), errors.UNDEF, "call to undefined function %q", n.Name)
}
