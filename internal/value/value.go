// Package value implements Hawk's dynamically-typed value system: the
// tagged union described in spec §3/§4.1 (Nil, Int, Flt, Str, NumericStr,
// Map, Ref, Fun, Regex), its coercion rules, and its associative-array
// container.
//
// Go already garbage-collects the heap payloads this package allocates
// (strings, maps, compiled patterns); the explicit Refup/Refdown pair kept
// here is not a substitute for that GC, but the move-only-handle discipline
// the teacher's object model would have used in a non-GC'd language,
// preserved so the refcount invariants spec §8 asks tests to verify still
// hold: a shared heap payload is never mutated in place, and the tests can
// observe "this heap cell's last reference just dropped" deterministically
// instead of depending on GC timing.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Kind tags which variant of the union a Value currently holds.
type Kind uint8

const (
	Nil Kind = iota
	Int
	Flt
	Str
	NumStr
	MapKind
	RefKind
	FunKind
	RegexKind
)

func (k Kind) String() string {
	switch k {
	case Nil:
		return "nil"
	case Int:
		return "int"
	case Flt:
		return "float"
	case Str:
		return "string"
	case NumStr:
		return "numstr"
	case MapKind:
		return "map"
	case RefKind:
		return "ref"
	case FunKind:
		return "fun"
	case RegexKind:
		return "regex"
	}
	return "unknown"
}

// strHeap is the ref-counted heap payload backing Str and NumStr values.
type strHeap struct {
	data    string
	numView float64 // parsed numeric view, valid when numOK
	numOK   bool
	refs    int32
}

// Fun is a compiled function descriptor, referenced (not owned) by a Fun
// value; the owning Program tree frees it with the interpreter instance.
type Fun struct {
	Name   string
	Arity  int
	Native func(args []Value) (Value, error)
}

// Regexper is satisfied by the regex package's compiled pattern type,
// kept as an interface here so package value does not import package
// regexp.
type Regexper interface {
	Source() string
	CaseInsensitive() bool
}

type regexHeap struct {
	pat  Regexper
	refs int32
}

// Ref is an lvalue handle: it addresses a slot holding a Value, a map
// element, or (conceptually) a field position — field refs are modeled by
// the interp package via a small adapter satisfying this same Target.
type Target interface {
	Get() Value
	Set(Value)
}

// Value is the tagged-union value described by spec §3. It is small and
// copied by Go assignment; Refup/Refdown manage the shared heap payload's
// refcount explicitly so tests can assert on it.
type Value struct {
	kind Kind
	i    int64
	f    float64
	str  *strHeap
	m    *Map
	ref  Target
	fn   *Fun
	re   *regexHeap
}

var zero = Value{kind: Nil}

// NewNil returns the distinguished nil/empty sentinel. Per spec it is never
// freed; refup/refdown on it are no-ops.
func NewNil() Value { return zero }

func NewInt(i int64) Value { return Value{kind: Int, i: i} }

func NewFlt(f float64) Value { return Value{kind: Flt, f: f} }

func NewStr(s string) Value {
	return Value{kind: Str, str: &strHeap{data: s, refs: 1}}
}

// NewNumStr builds a NumericStr: a string carrying a pre-parsed numeric
// view, as produced for input records that look numeric (spec §3). s is
// first NFC-normalized so that, e.g., a record read from a source using a
// decomposed accent form still classifies and compares the same as its
// precomposed equivalent.
func NewNumStr(s string) Value {
	s = norm.NFC.String(s)
	n, ok := ParseNumberStrict(s)
	return Value{kind: NumStr, str: &strHeap{data: s, numView: n, numOK: ok, refs: 1}}
}

func NewMap() Value {
	return Value{kind: MapKind, m: newMap()}
}

// WrapMap builds a Value that aliases an existing *Map rather than
// allocating a fresh one — how the interpreter implements "arrays are
// passed by reference" (spec §4.5): the callee's parameter Value shares the
// same underlying Map as the caller's argument.
func WrapMap(m *Map) Value {
	return Value{kind: MapKind, m: m}
}

func NewRef(t Target) Value {
	return Value{kind: RefKind, ref: t}
}

func NewFun(f *Fun) Value {
	return Value{kind: FunKind, fn: f}
}

func NewRegex(p Regexper) Value {
	return Value{kind: RegexKind, re: &regexHeap{pat: p, refs: 1}}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNil() bool { return v.kind == Nil }
func (v Value) IsMap() bool { return v.kind == MapKind }
func (v Value) IsRef() bool { return v.kind == RefKind }

func (v Value) Map() *Map {
	if v.kind != MapKind {
		return nil
	}
	return v.m
}

func (v Value) Ref() Target {
	if v.kind != RefKind {
		return nil
	}
	return v.ref
}

func (v Value) Fun() *Fun {
	if v.kind != FunKind {
		return nil
	}
	return v.fn
}

func (v Value) Regex() Regexper {
	if v.kind != RegexKind || v.re == nil {
		return nil
	}
	return v.re.pat
}

// Refup increments the shared heap payload's refcount, if any. Call this
// when a Value is stored into a new owning slot (global, local, map entry).
func (v Value) Refup() {
	switch v.kind {
	case Str, NumStr:
		if v.str != nil {
			v.str.refs++
		}
	case MapKind:
		if v.m != nil {
			v.m.refs++
		}
	case RegexKind:
		if v.re != nil {
			v.re.refs++
		}
	}
}

// Refdown decrements the shared heap payload's refcount. Once it reaches
// zero the payload is considered released: its fields are cleared so stale
// aliases cannot observe data that "shouldn't" be reachable anymore, and
// (for maps) its entries are recursively refdown'd.
func (v Value) Refdown() {
	switch v.kind {
	case Str, NumStr:
		if v.str == nil {
			return
		}
		v.str.refs--
		if v.str.refs <= 0 {
			v.str.data = ""
		}
	case MapKind:
		if v.m == nil {
			return
		}
		v.m.refs--
		if v.m.refs <= 0 {
			v.m.release()
		}
	case RegexKind:
		if v.re == nil {
			return
		}
		v.re.refs--
	}
}

// Refs reports the current refcount of the shared heap payload, or 0 for
// inline/sentinel values. Exposed for the refcount-invariant tests in §8.
func (v Value) Refs() int32 {
	switch v.kind {
	case Str, NumStr:
		if v.str != nil {
			return v.str.refs
		}
	case MapKind:
		if v.m != nil {
			return v.m.refs
		}
	case RegexKind:
		if v.re != nil {
			return v.re.refs
		}
	}
	return 0
}

// Dup returns a value usable as an independently-mutable copy: for inline
// kinds this is just v; for Str/NumStr/Map it is a fresh heap payload. Call
// before mutating a shared string/map whose Refs() > 1 (write barrier,
// spec's "duplicated on write when shared").
func (v Value) Dup() Value {
	switch v.kind {
	case Str:
		return NewStr(v.str.data)
	case NumStr:
		return NewNumStr(v.str.data)
	case MapKind:
		nm := newMap()
		v.m.each(func(k string, val Value) {
			nm.put(k, val.Dup())
		})
		return Value{kind: MapKind, m: nm}
	default:
		return v
	}
}

// ToBool implements the boolean-truth rule of spec §3.
func (v Value) ToBool() bool {
	switch v.kind {
	case Nil:
		return false
	case Int:
		return v.i != 0
	case Flt:
		return v.f != 0
	case Str:
		return v.str != nil && v.str.data != ""
	case NumStr:
		if v.str == nil {
			return false
		}
		return v.str.numOK && v.str.numView != 0 || v.str.data != ""
	default:
		return true
	}
}

// ToInt coerces per spec §3's string→number rule, truncating floats.
func (v Value) ToInt() int64 {
	switch v.kind {
	case Nil:
		return 0
	case Int:
		return v.i
	case Flt:
		return int64(v.f)
	case Str:
		n, _ := ParseNumberLenient(v.str.data)
		return int64(n)
	case NumStr:
		return int64(v.str.numView)
	default:
		return 0
	}
}

// ToFlt coerces to a float64 per spec §3.
func (v Value) ToFlt() float64 {
	switch v.kind {
	case Nil:
		return 0
	case Int:
		return float64(v.i)
	case Flt:
		return v.f
	case Str:
		n, _ := ParseNumberLenient(v.str.data)
		return n
	case NumStr:
		return v.str.numView
	default:
		return 0
	}
}

// ToStr renders the value using convfmt for non-integral floats, exactly
// the string a script would see from concatenation, comparison-as-string,
// or array subscripting. ofmt is used instead when rendering for print
// (callers pass CONVFMT for everything except the arguments of print).
func (v Value) ToStr(convfmt string) string {
	switch v.kind {
	case Nil:
		return ""
	case Int:
		return strconv.FormatInt(v.i, 10)
	case Flt:
		return formatFloat(v.f, convfmt)
	case Str, NumStr:
		if v.str == nil {
			return ""
		}
		return v.str.data
	case MapKind:
		return "" // a bare map used as a scalar is a semantic error elsewhere
	default:
		return ""
	}
}

// formatFloat renders an AWK float: integral values print without a
// decimal point, everything else goes through the printf-style fmt (e.g.
// CONVFMT "%.6g" or OFMT "%.6g").
func formatFloat(f float64, fmt_ string) string {
	if math.IsNaN(f) {
		return "nan"
	}
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e18 {
		return strconv.FormatInt(int64(f), 10)
	}
	return sprintf1(fmt_, f)
}

// sprintf1 formats a single float through a C-style format string
// containing exactly one numeric verb (CONVFMT/OFMT are always of this
// shape, e.g. "%.6g"). Kept minimal here; the general sprintf intrinsic
// lives in package builtins.
func sprintf1(format string, f float64) string {
	format = strings.TrimSpace(format)
	if format == "" {
		format = "%.6g"
	}
	return fmt.Sprintf(format, f)
}

// Cmp implements the three-way comparison of spec §3: numeric comparison
// when both sides are numbers or NumericStr, string comparison when either
// side is a pure string.
func Cmp(a, b Value, convfmt string) int {
	an, bn := isNumericish(a), isNumericish(b)
	if an && bn {
		af, bf := a.ToFlt(), b.ToFlt()
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := a.ToStr(convfmt), b.ToStr(convfmt)
	return stringCollator().CompareString(as, bs)
}

// stringCollator returns a fresh default-locale collator for one comparison.
// A *collate.Collator carries an internal scratch buffer and is not safe
// for concurrent reuse, and spec §5 allows multiple interpreter instances
// to run concurrently "sharing nothing mutable" — so Cmp builds its own
// rather than sharing one package-level instance across instances/threads.
func stringCollator() *collate.Collator {
	return collate.New(language.Und)
}

func isNumericish(v Value) bool {
	switch v.kind {
	case Nil, Int, Flt, NumStr:
		return true
	default:
		return false
	}
}
