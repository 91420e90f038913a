package hawk

import (
	"bytes"
	"strings"
	"testing"
)

func TestEvalBasicProgram(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	e.output = &buf

	result, err := e.Eval(`BEGIN { print "hello", 1+2 }`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if strings.TrimRight(buf.String(), "\n") != "hello 3" {
		t.Fatalf("got %q", buf.String())
	}
	if result.Output != buf.String() {
		t.Fatalf("Result.Output = %q, want %q", result.Output, buf.String())
	}
}

func TestRegisterFunctionSimple(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterFunction("AddNumbers", func(a, b int64) int64 { return a + b }); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}

	var buf bytes.Buffer
	e.output = &buf
	result, err := e.Eval(`BEGIN { print AddNumbers(40, 2) }`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if strings.TrimRight(result.Output, "\n") != "42" {
		t.Fatalf("got %q", result.Output)
	}
}

func TestRegisterFunctionError(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterFunction("Divide", func(a, b int64) (int64, error) {
		if b == 0 {
			return 0, errDivZero
		}
		return a / b, nil
	}); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}

	_, err = e.Eval(`BEGIN { print Divide(10, 0) }`)
	if err == nil {
		t.Fatal("expected an error from the host function")
	}
}

func TestRegisterFunctionArraySlice(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.RegisterFunction("SumArray", func(numbers []int64) int64 {
		var sum int64
		for _, n := range numbers {
			sum += n
		}
		return sum
	}); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}

	var buf bytes.Buffer
	e.output = &buf
	src := `
BEGIN {
	a[1] = 10
	a[2] = 20
	a[3] = 12
	print SumArray(a)
}
`
	result, err := e.Eval(src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if strings.TrimRight(result.Output, "\n") != "42" {
		t.Fatalf("got %q", result.Output)
	}
}

func TestEngineWithArgsSeedsARGV(t *testing.T) {
	e, err := New(WithArgs("one", "two"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var buf bytes.Buffer
	e.output = &buf
	result, err := e.Eval(`BEGIN { print ARGC; print ARGV[1], ARGV[2] }`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	want := "3\none two\n"
	if result.Output != want {
		t.Fatalf("got %q want %q", result.Output, want)
	}
}

var errDivZero = divZeroError{}

type divZeroError struct{}

func (divZeroError) Error() string { return "division by zero" }
