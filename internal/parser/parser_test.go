package parser

import (
	"testing"

	"github.com/hawklang/hawk/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New("<test>", src)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func TestParseSimpleProgram(t *testing.T) {
	prog := mustParse(t, `{ sum += $2 } END { print sum }`)
	if len(prog.Rules) != 1 {
		t.Fatalf("want 1 rule, got %d", len(prog.Rules))
	}
	if len(prog.End) != 1 {
		t.Fatalf("want 1 END block, got %d", len(prog.End))
	}
	if prog.Rules[0].Kind != ast.PatternAlways {
		t.Fatalf("want PatternAlways, got %v", prog.Rules[0].Kind)
	}
}

func TestParseRegexPattern(t *testing.T) {
	prog := mustParse(t, `/^foo/ { print NR }`)
	if prog.Rules[0].Kind != ast.PatternRegex {
		t.Fatalf("want PatternRegex, got %v", prog.Rules[0].Kind)
	}
}

func TestParseRangePattern(t *testing.T) {
	prog := mustParse(t, `/start/,/stop/ { print }`)
	if prog.Rules[0].Kind != ast.PatternRange {
		t.Fatalf("want PatternRange, got %v", prog.Rules[0].Kind)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	prog := mustParse(t, `function f(n) { return n<=1?1:n*f(n-1) } BEGIN { print f(5) }`)
	if _, ok := prog.Functions["f"]; !ok {
		t.Fatalf("function f not registered")
	}
	if len(prog.Begin) != 1 {
		t.Fatalf("want 1 BEGIN block")
	}
}

func TestParsePrintRedirection(t *testing.T) {
	prog := mustParse(t, `BEGIN { print "x" > "out.txt" }`)
	stmt := prog.Begin[0].List[0].(*ast.PrintStmt)
	if stmt.Redirect != ast.RedirFile {
		t.Fatalf("want RedirFile, got %v", stmt.Redirect)
	}
}

func TestPrintGTNotComparisonUnlessParenthesized(t *testing.T) {
	prog := mustParse(t, `BEGIN { print (1 > 0) }`)
	stmt := prog.Begin[0].List[0].(*ast.PrintStmt)
	if stmt.Redirect != ast.RedirNone {
		t.Fatalf("parenthesized > must not be read as redirection")
	}
	if len(stmt.Args) != 1 {
		t.Fatalf("want 1 arg, got %d", len(stmt.Args))
	}
}

func TestConcatenationPrecedence(t *testing.T) {
	// 1 2 + 3  ==  "1" .. (2+3): '+' binds tighter than concatenation.
	prog := mustParse(t, `BEGIN { x = 1 2 + 3 }`)
	assign := prog.Begin[0].List[0].(*ast.ExprStmt).X.(*ast.AssignExpr)
	concat, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || concat.Op != ast.CONCAT_OP {
		t.Fatalf("expected top-level concatenation, got %#v", assign.Value)
	}
	rhs, ok := concat.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.ADD_OP {
		t.Fatalf("expected right side to be 2+3, got %#v", concat.Right)
	}
}

func TestGetlineForms(t *testing.T) {
	mustParse(t, `BEGIN { getline }`)
	mustParse(t, `BEGIN { getline x }`)
	mustParse(t, `BEGIN { getline < "f" }`)
	mustParse(t, `BEGIN { getline x < "f" }`)
	mustParse(t, `BEGIN { "cmd" | getline }`)
	mustParse(t, `BEGIN { "cmd" | getline x }`)
	mustParse(t, `BEGIN { "cmd" |& getline }`)
	mustParse(t, `BEGIN { "cmd" |& getline x }`)
}

func TestForInAndRangeIn(t *testing.T) {
	mustParse(t, `END { for (k in a) print k, a[k] }`)
	mustParse(t, `BEGIN { if ((1, 2) in a) print "yes" }`)
}

func TestGlobalDecl(t *testing.T) {
	p := New("<test>", `@global x, y
BEGIN { x = 1 }`)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(prog.Globals) != 2 {
		t.Fatalf("want 2 globals, got %d: %v", len(prog.Globals), prog.Globals)
	}
}

func TestDivisionByZeroParsesAsExpr(t *testing.T) {
	mustParse(t, `BEGIN { x = 10 / 0 }`)
}
