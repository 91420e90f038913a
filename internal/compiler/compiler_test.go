package compiler

import (
	"strings"
	"testing"

	"github.com/hawklang/hawk/internal/parser"
)

func mustCompile(t *testing.T, src string) *Compiled {
	t.Helper()
	prog, err := parser.New("<test>", src).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	cc, err := Compile(prog, nil)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return cc
}

func compileErr(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.New("<test>", src).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, err = Compile(prog, nil)
	return err
}

func TestImplicitGlobalDiscovery(t *testing.T) {
	cc := mustCompile(t, `{ total += $1 } END { print total }`)
	if _, ok := cc.GlobalSlots["total"]; !ok {
		t.Fatalf("expected implicit global %q, got %v", "total", cc.GlobalSlots)
	}
}

func TestBuiltinGlobalsPredeclared(t *testing.T) {
	cc := mustCompile(t, `BEGIN { print NR }`)
	for _, name := range BuiltinGlobals {
		if _, ok := cc.GlobalSlots[name]; !ok {
			t.Fatalf("missing builtin global slot for %q", name)
		}
	}
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	if err := compileErr(t, `BEGIN { break }`); err == nil {
		t.Fatalf("expected error for break outside loop")
	}
}

func TestBreakInsideLoopOK(t *testing.T) {
	mustCompile(t, `BEGIN { while (1) break }`)
}

func TestReturnOutsideFunctionIsError(t *testing.T) {
	if err := compileErr(t, `BEGIN { return 1 }`); err == nil {
		t.Fatalf("expected error for return outside function")
	}
}

func TestNextInsideFunctionIsError(t *testing.T) {
	if err := compileErr(t, `function f() { next } { f() }`); err == nil {
		t.Fatalf("expected error for next inside function")
	}
}

func TestNextInsideRuleActionOK(t *testing.T) {
	mustCompile(t, `{ if ($1 == "") next; print }`)
}

func TestNextInsideBeginIsError(t *testing.T) {
	if err := compileErr(t, `BEGIN { next }`); err == nil {
		t.Fatalf("expected error for next inside BEGIN")
	}
}

func TestTooManyArgsToUserFunctionIsError(t *testing.T) {
	src := `function f(a, b) { return a + b } BEGIN { print f(1, 2, 3) }`
	if err := compileErr(t, src); err == nil {
		t.Fatalf("expected arity error")
	}
}

func TestFewerArgsToUserFunctionOK(t *testing.T) {
	mustCompile(t, `function f(a, b) { return a } BEGIN { print f(1) }`)
}

func TestCallToUndefinedFunctionIsError(t *testing.T) {
	if err := compileErr(t, `BEGIN { print nosuchfunc(1) }`); err == nil {
		t.Fatalf("expected UNDEF error")
	}
}

func TestParamByRefInferredFromArrayUse(t *testing.T) {
	src := `function fill(arr) { arr["k"] = 1 } BEGIN { fill(seen) }`
	prog, err := parser.New("<test>", src).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	cc, err := Compile(prog, nil)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	fn := cc.Functions["fill"]
	if !fn.ByRef[0] {
		t.Fatalf("expected parameter 0 of fill to be by-reference")
	}
}

func TestParamConflictingUseIsError(t *testing.T) {
	src := `function f(x) { x = x + 1; x["k"] = 1 } BEGIN { print 1 }`
	err := compileErr(t, src)
	if err == nil || !strings.Contains(err.Error(), "both scalar and array") {
		t.Fatalf("expected scalar/array conflict error, got %v", err)
	}
}
