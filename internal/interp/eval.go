package interp

import (
	"math"

	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/errors"
	"github.com/hawklang/hawk/internal/value"
)

func (ip *Interp) curFrame() *frame {
	if len(ip.frames) == 0 {
		return nil
	}
	return ip.frames[len(ip.frames)-1]
}

// eval evaluates e to a value (spec.md §4.5's expression evaluation:
// left-to-right, short-circuit &&/||/?:).
func (ip *Interp) eval(e ast.Expr) (value.Value, error) {
	switch n := e.(type) {
	case *ast.Ident:
		t, err := ip.lvalueOf(n)
		if err != nil {
			return value.NewNil(), err
		}
		return t.Get(), nil

	case *ast.IntLit:
		return value.NewInt(n.Value), nil
	case *ast.FloatLit:
		return value.NewFlt(n.Value), nil
	case *ast.StringLit:
		return value.NewStr(n.Value), nil

	case *ast.RegexLit:
		re, err := ip.compileRegex(n.Pattern)
		if err != nil {
			return value.NewNil(), err
		}
		// A bare /re/ used as a value is the result of matching it against
		// $0; a dynamic @/re/ literal is the compiled pattern itself (e.g.
		// an argument to a function expecting a regex). Regex arguments of
		// ~, match, split, sub and gsub go through regexOf instead.
		if !n.Dynamic {
			return boolValue(re.FindSubmatchIndex(ip.getField(0)) != nil), nil
		}
		return value.NewRegex(re), nil

	case *ast.FieldExpr:
		idx, err := ip.evalInt(n.Index)
		if err != nil {
			return value.NewNil(), err
		}
		return value.NewNumStr(ip.getField(idx)), nil

	case *ast.IndexExpr:
		t, err := ip.lvalueOf(n)
		if err != nil {
			return value.NewNil(), err
		}
		return t.Get(), nil

	case *ast.AssignExpr:
		return ip.evalAssign(n)

	case *ast.TernaryExpr:
		c, err := ip.eval(n.Cond)
		if err != nil {
			return value.NewNil(), err
		}
		if c.ToBool() {
			return ip.eval(n.Then)
		}
		return ip.eval(n.Else)

	case *ast.BinaryExpr:
		return ip.evalBinary(n)

	case *ast.UnaryExpr:
		v, err := ip.eval(n.Operand)
		if err != nil {
			return value.NewNil(), err
		}
		switch n.Op {
		case ast.NEG_OP:
			return value.NewFlt(-v.ToFlt()), nil
		case ast.NOT_OP:
			return boolValue(!v.ToBool()), nil
		default:
			return value.NewFlt(+v.ToFlt()), nil
		}

	case *ast.IncDecExpr:
		return ip.evalIncDec(n)

	case *ast.MatchExpr:
		return ip.evalMatch(n)

	case *ast.InExpr:
		return ip.evalIn(n)

	case *ast.CallExpr:
		return ip.evalCall(n)

	case *ast.GroupingExpr:
		return ip.eval(n.Inner)

	case *ast.GetlineExpr:
		return ip.evalGetline(n)
	}
	return value.NewNil(), errors.New(errors.INVAL, e.Pos(), "unevaluable expression %T", e)
}

func (ip *Interp) evalInt(e ast.Expr) (int, error) {
	v, err := ip.eval(e)
	if err != nil {
		return 0, err
	}
	return int(v.ToInt()), nil
}

func boolValue(b bool) value.Value {
	if b {
		return value.NewInt(1)
	}
	return value.NewStr("")
}

func (ip *Interp) evalBinary(n *ast.BinaryExpr) (value.Value, error) {
	switch n.Op {
	case ast.OR_OP:
		l, err := ip.eval(n.Left)
		if err != nil {
			return value.NewNil(), err
		}
		if l.ToBool() {
			return boolValue(true), nil
		}
		r, err := ip.eval(n.Right)
		if err != nil {
			return value.NewNil(), err
		}
		return boolValue(r.ToBool()), nil

	case ast.AND_OP:
		l, err := ip.eval(n.Left)
		if err != nil {
			return value.NewNil(), err
		}
		if !l.ToBool() {
			return boolValue(false), nil
		}
		r, err := ip.eval(n.Right)
		if err != nil {
			return value.NewNil(), err
		}
		return boolValue(r.ToBool()), nil
	}

	l, err := ip.eval(n.Left)
	if err != nil {
		return value.NewNil(), err
	}
	r, err := ip.eval(n.Right)
	if err != nil {
		return value.NewNil(), err
	}

	switch n.Op {
	case ast.LT_OP:
		return boolValue(value.Cmp(l, r, ip.convfmt()) < 0), nil
	case ast.LE_OP:
		return boolValue(value.Cmp(l, r, ip.convfmt()) <= 0), nil
	case ast.GT_OP:
		return boolValue(value.Cmp(l, r, ip.convfmt()) > 0), nil
	case ast.GE_OP:
		return boolValue(value.Cmp(l, r, ip.convfmt()) >= 0), nil
	case ast.EQ_OP:
		return boolValue(value.Cmp(l, r, ip.convfmt()) == 0), nil
	case ast.NE_OP:
		return boolValue(value.Cmp(l, r, ip.convfmt()) != 0), nil
	case ast.CONCAT_OP:
		return value.NewStr(l.ToStr(ip.convfmt()) + r.ToStr(ip.convfmt())), nil
	case ast.BOR_OP:
		return value.NewInt(l.ToInt() | r.ToInt()), nil
	case ast.BXOR_OP:
		return value.NewInt(l.ToInt() ^ r.ToInt()), nil
	case ast.BAND_OP:
		return value.NewInt(l.ToInt() & r.ToInt()), nil
	case ast.SHL_OP:
		return value.NewInt(l.ToInt() << uint(r.ToInt())), nil
	case ast.SHR_OP:
		return value.NewInt(l.ToInt() >> uint(r.ToInt())), nil
	case ast.ADD_OP:
		return value.NewFlt(l.ToFlt() + r.ToFlt()), nil
	case ast.SUB_OP:
		return value.NewFlt(l.ToFlt() - r.ToFlt()), nil
	case ast.MUL_OP:
		return value.NewFlt(l.ToFlt() * r.ToFlt()), nil
	case ast.DIV_OP:
		rf := r.ToFlt()
		if rf == 0 {
			return value.NewNil(), errors.New(errors.DIVBY0, n.Pos(), "division by zero")
		}
		return value.NewFlt(l.ToFlt() / rf), nil
	case ast.MOD_OP:
		rf := r.ToFlt()
		if rf == 0 {
			return value.NewNil(), errors.New(errors.DIVBY0, n.Pos(), "division by zero in %%")
		}
		return value.NewFlt(math.Mod(l.ToFlt(), rf)), nil
	case ast.POW_OP:
		return value.NewFlt(math.Pow(l.ToFlt(), r.ToFlt())), nil
	}
	return value.NewNil(), errors.New(errors.INVAL, n.Pos(), "unknown binary operator")
}

func (ip *Interp) evalIncDec(n *ast.IncDecExpr) (value.Value, error) {
	t, err := ip.lvalueOf(n.Target)
	if err != nil {
		return value.NewNil(), err
	}
	old := t.Get().ToFlt()
	delta := 1.0
	if !n.Incr {
		delta = -1.0
	}
	nv := value.NewFlt(old + delta)
	t.Set(nv)
	if n.Prefix {
		return nv, nil
	}
	return value.NewFlt(old), nil
}

func (ip *Interp) evalMatch(n *ast.MatchExpr) (value.Value, error) {
	l, err := ip.eval(n.Left)
	if err != nil {
		return value.NewNil(), err
	}
	re, err := ip.regexOf(n.Right)
	if err != nil {
		return value.NewNil(), err
	}
	m := re.MatchString(l.ToStr(ip.convfmt()))
	if n.Negate {
		m = !m
	}
	return boolValue(m), nil
}

func (ip *Interp) evalIn(n *ast.InExpr) (value.Value, error) {
	m, err := ip.resolveMapReadOnly(n.Array)
	if err != nil {
		return value.NewNil(), err
	}
	parts := make([]string, len(n.Keys))
	for i, k := range n.Keys {
		v, err := ip.eval(k)
		if err != nil {
			return value.NewNil(), err
		}
		parts[i] = v.ToStr(ip.convfmt())
	}
	key := joinSubsep(parts, ip.subsep())
	if m == nil {
		return boolValue(false), nil
	}
	return boolValue(m.In(key)), nil
}
