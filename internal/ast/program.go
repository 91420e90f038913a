package ast

import "github.com/hawklang/hawk/internal/errors"

// PatternKind distinguishes the four pattern forms of spec §3.
type PatternKind int

const (
	PatternAlways PatternKind = iota // bare `{ action }`, runs for every record
	PatternExpr                      // bare boolean expression
	PatternRegex                     // /re/  (implicitly matches against $0)
	PatternRange                     // expr, expr
)

// Rule is one pattern-action pair (spec §3/§4.5). Range patterns carry one
// bit of "currently inside the range" state, owned by the runtime, not
// here — the Rule itself is immutable once parsed.
type Rule struct {
	Kind   PatternKind
	Start  Expr // PatternExpr/PatternRegex: the pattern; PatternRange: range start
	End    Expr // PatternRange only: range end
	Action *BlockStmt
}

// FuncDecl is a user-defined function (spec §3's function table entry).
// ByRef[i] records whether parameter i is used as a map (pass-by-reference)
// or a scalar (pass-by-value) inside Body, decided by the compiler/linker
// per spec §4.5.
type FuncDecl struct {
	Name   string
	Params []string
	Body   *BlockStmt
	Pos    errors.Position

	ByRef []bool
}

// Program is the compiled tree spec §3 describes: a global-slot table, a
// function table, and ordered BEGIN/END/pattern-action lists. Slot
// assignment (name -> index) is filled in by the compiler, not the parser;
// Globals here is just the parser's declaration order plus implicit-global
// discovery, the compiler turns it into GlobalSlots.
type Program struct {
	Globals   []string // declaration order (explicit @global + implicit)
	Functions map[string]*FuncDecl
	Begin     []*BlockStmt
	End       []*BlockStmt
	Rules     []*Rule

	// Filled in by the compiler (internal/compiler):
	GlobalSlots map[string]int
}

func NewProgram() *Program {
	return &Program{Functions: make(map[string]*FuncDecl)}
}
