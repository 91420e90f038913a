package interp

import (
	"math"
	"strings"

	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/errors"
	"github.com/hawklang/hawk/internal/value"
)

// joinSubsep joins multi-dimensional subscripts with SUBSEP (spec §4.3's
// a[i,j] sugar for a[i SUBSEP j]).
func joinSubsep(parts []string, subsep string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts, subsep)
}

// lvalueOf resolves e to an assignable value.Target: a global slot, a local
// slot, a field, or a map entry. Identifiers resolve to locals first (inside
// a call frame), then globals; an identifier never used as a map stays a
// plain scalar target until first subscripted.
func (ip *Interp) lvalueOf(e ast.Expr) (value.Target, error) {
	switch n := e.(type) {
	case *ast.Ident:
		if fr := ip.curFrame(); fr != nil {
			if slot, ok := fr.fn.Locals[n.Name]; ok {
				return localTarget{fr: fr, slot: slot}, nil
			}
		}
		slot, ok := ip.compiled.GlobalSlots[n.Name]
		if !ok {
			return nil, errors.New(errors.UNDEF, n.Pos(), "undefined variable %q", n.Name)
		}
		return globalTarget{ip: ip, slot: slot}, nil

	case *ast.FieldExpr:
		idx, err := ip.evalInt(n.Index)
		if err != nil {
			return nil, err
		}
		if idx < 0 {
			return nil, errors.New(errors.NEGIDX, n.Pos(), "field index %d is negative", idx)
		}
		return fieldTarget{ip: ip, i: idx}, nil

	case *ast.IndexExpr:
		m, err := ip.resolveMap(n.Array)
		if err != nil {
			return nil, err
		}
		key, err := ip.evalSubsep(n.Indices)
		if err != nil {
			return nil, err
		}
		return mapTarget{m: m, key: key}, nil
	}
	return nil, errors.New(errors.LVALUE, e.Pos(), "not an lvalue: %T", e)
}

func (ip *Interp) evalSubsep(indices []ast.Expr) (string, error) {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		v, err := ip.eval(idx)
		if err != nil {
			return "", err
		}
		parts[i] = v.ToStr(ip.convfmt())
	}
	return joinSubsep(parts, ip.subsep()), nil
}

// resolveMap returns the *value.Map an array-position expression (base of an
// IndexExpr/InExpr, a for-in/delete target, a split destination, or an
// array-by-reference parameter) refers to, auto-vivifying a Nil scalar
// target into an empty map on first use (spec §3: arrays spring into
// existence on first subscript). A target already holding a non-map scalar
// is a SCALARTOMAP error; a bare array used where a scalar is expected is
// caught the symmetric way at the call site (MAPTOSCALAR), not here.
func (ip *Interp) resolveMap(e ast.Expr) (*value.Map, error) {
	t, err := ip.lvalueOf(e)
	if err != nil {
		return nil, err
	}
	cur := t.Get()
	if cur.IsMap() {
		return cur.Map(), nil
	}
	if cur.IsNil() {
		m := value.NewMap()
		t.Set(m)
		return m.Map(), nil
	}
	return nil, errors.New(errors.SCALARTOMAP, e.Pos(), "scalar value used as array")
}

// resolveMapReadOnly is resolveMap without auto-vivification, for `in` tests
// where a never-assigned name should simply test false rather than spring an
// empty array into existence.
func (ip *Interp) resolveMapReadOnly(e ast.Expr) (*value.Map, error) {
	t, err := ip.lvalueOf(e)
	if err != nil {
		return nil, err
	}
	cur := t.Get()
	if cur.IsMap() {
		return cur.Map(), nil
	}
	if cur.IsNil() {
		return nil, nil
	}
	return nil, errors.New(errors.SCALARTOMAP, e.Pos(), "scalar value used as array")
}

func (ip *Interp) evalAssign(n *ast.AssignExpr) (value.Value, error) {
	t, err := ip.lvalueOf(n.Target)
	if err != nil {
		return value.NewNil(), err
	}
	rv, err := ip.eval(n.Value)
	if err != nil {
		return value.NewNil(), err
	}
	if n.Op == ast.ASSIGN_SET {
		t.Set(rv)
		return rv, nil
	}
	old := t.Get().ToFlt()
	rf := rv.ToFlt()
	var nv value.Value
	switch n.Op {
	case ast.ASSIGN_ADD:
		nv = value.NewFlt(old + rf)
	case ast.ASSIGN_SUB:
		nv = value.NewFlt(old - rf)
	case ast.ASSIGN_MUL:
		nv = value.NewFlt(old * rf)
	case ast.ASSIGN_DIV:
		if rf == 0 {
			return value.NewNil(), errors.New(errors.DIVBY0, n.Pos(), "division by zero in /=")
		}
		nv = value.NewFlt(old / rf)
	case ast.ASSIGN_MOD:
		if rf == 0 {
			return value.NewNil(), errors.New(errors.DIVBY0, n.Pos(), "division by zero in %%=")
		}
		nv = value.NewFlt(math.Mod(old, rf))
	case ast.ASSIGN_POW:
		nv = value.NewFlt(math.Pow(old, rf))
	default:
		return value.NewNil(), errors.New(errors.INVAL, n.Pos(), "unknown assignment operator")
	}
	t.Set(nv)
	return nv, nil
}
