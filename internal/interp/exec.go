package interp

import (
	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/errors"
	"github.com/hawklang/hawk/internal/value"
)

// exec executes one statement, returning the control Signal it produces
// (spec.md §4.5: "Every statement returns a control signal"). A nil error
// with SigNormal means "fell through normally".
func (ip *Interp) exec(s ast.Stmt) (Signal, error) {
	if ip.halt {
		return Signal{Kind: SigExit}, nil
	}
	switch n := s.(type) {
	case *ast.EmptyStmt:
		return normal, nil

	case *ast.ExprStmt:
		_, err := ip.eval(n.X)
		return normal, err

	case *ast.BlockStmt:
		return ip.execBlock(n)

	case *ast.PrintStmt:
		return normal, ip.execPrint(n)

	case *ast.IfStmt:
		c, err := ip.eval(n.Cond)
		if err != nil {
			return normal, err
		}
		if c.ToBool() {
			return ip.exec(n.Then)
		}
		if n.Else != nil {
			return ip.exec(n.Else)
		}
		return normal, nil

	case *ast.WhileStmt:
		return ip.execWhile(n)

	case *ast.DoWhileStmt:
		return ip.execDoWhile(n)

	case *ast.ForStmt:
		return ip.execFor(n)

	case *ast.ForInStmt:
		return ip.execForIn(n)

	case *ast.BreakStmt:
		return Signal{Kind: SigBreak}, nil

	case *ast.ContinueStmt:
		return Signal{Kind: SigContinue}, nil

	case *ast.NextStmt:
		return Signal{Kind: SigNext}, nil

	case *ast.NextfileStmt:
		return Signal{Kind: SigNextfile}, nil

	case *ast.ExitStmt:
		code := int64(0)
		if n.Code != nil {
			v, err := ip.eval(n.Code)
			if err != nil {
				return normal, err
			}
			code = v.ToInt()
		}
		return Signal{Kind: SigExit, Code: code, HasCode: n.Code != nil}, nil

	case *ast.ReturnStmt:
		var v value.Value = value.NewNil()
		if n.Value != nil {
			var err error
			v, err = ip.eval(n.Value)
			if err != nil {
				return normal, err
			}
		}
		return Signal{Kind: SigReturn, Value: v}, nil

	case *ast.DeleteStmt:
		return normal, ip.execDelete(n)
	}
	return normal, errors.New(errors.INVAL, s.Pos(), "unexecutable statement %T", s)
}

func (ip *Interp) execBlock(b *ast.BlockStmt) (Signal, error) {
	for _, s := range b.List {
		sig, err := ip.exec(s)
		if err != nil {
			return normal, err
		}
		if sig.Kind != SigNormal {
			return sig, nil
		}
	}
	return normal, nil
}

func (ip *Interp) execWhile(n *ast.WhileStmt) (Signal, error) {
	for {
		if ip.halt {
			return Signal{Kind: SigExit}, nil
		}
		c, err := ip.eval(n.Cond)
		if err != nil {
			return normal, err
		}
		if !c.ToBool() {
			return normal, nil
		}
		sig, err := ip.exec(n.Body)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SigBreak:
			return normal, nil
		case SigContinue, SigNormal:
		default:
			return sig, nil
		}
	}
}

func (ip *Interp) execDoWhile(n *ast.DoWhileStmt) (Signal, error) {
	for {
		if ip.halt {
			return Signal{Kind: SigExit}, nil
		}
		sig, err := ip.exec(n.Body)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SigBreak:
			return normal, nil
		case SigContinue, SigNormal:
		default:
			return sig, nil
		}
		c, err := ip.eval(n.Cond)
		if err != nil {
			return normal, err
		}
		if !c.ToBool() {
			return normal, nil
		}
	}
}

func (ip *Interp) execFor(n *ast.ForStmt) (Signal, error) {
	if n.Init != nil {
		if _, err := ip.exec(n.Init); err != nil {
			return normal, err
		}
	}
	for {
		if ip.halt {
			return Signal{Kind: SigExit}, nil
		}
		if n.Cond != nil {
			c, err := ip.eval(n.Cond)
			if err != nil {
				return normal, err
			}
			if !c.ToBool() {
				return normal, nil
			}
		}
		sig, err := ip.exec(n.Body)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SigBreak:
			return normal, nil
		case SigContinue, SigNormal:
		default:
			return sig, nil
		}
		if n.Post != nil {
			if _, err := ip.exec(n.Post); err != nil {
				return normal, err
			}
		}
	}
}

func (ip *Interp) execForIn(n *ast.ForInStmt) (Signal, error) {
	m, err := ip.resolveMapReadOnly(n.Array)
	if err != nil {
		return normal, err
	}
	if m == nil {
		return normal, nil
	}
	kt, err := ip.lvalueOf(n.Key)
	if err != nil {
		return normal, err
	}
	// Snapshot keys up front: spec.md's associative-array iteration is
	// insertion-stable under concurrent deletion, which a live *Iterator
	// walk across a mutating body cannot guarantee as simply as a slice copy.
	keys := m.Keys()
	for _, k := range keys {
		if ip.halt {
			return Signal{Kind: SigExit}, nil
		}
		if !m.In(k) {
			continue
		}
		kt.Set(value.NewNumStr(k))
		sig, err := ip.exec(n.Body)
		if err != nil {
			return normal, err
		}
		switch sig.Kind {
		case SigBreak:
			return normal, nil
		case SigContinue, SigNormal:
		default:
			return sig, nil
		}
	}
	return normal, nil
}

func (ip *Interp) execDelete(n *ast.DeleteStmt) error {
	m, err := ip.resolveMap(n.Array)
	if err != nil {
		return err
	}
	if len(n.Indices) == 0 {
		m.Clear()
		return nil
	}
	key, err := ip.evalSubsep(n.Indices)
	if err != nil {
		return err
	}
	m.Delete(key)
	return nil
}
