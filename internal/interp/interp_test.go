package interp

import (
	"os"
	"strings"
	"testing"

	"github.com/hawklang/hawk/internal/compiler"
	"github.com/hawklang/hawk/internal/parser"
)

// compileProgram parses and links src against the BuiltinSigs table this
// package actually dispatches to, failing the test on any error.
func compileProgram(t *testing.T, src string) *compiler.Compiled {
	t.Helper()
	p := parser.New("test.hawk", src)
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	compiled, err := compiler.Compile(prog, BuiltinSigs)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return compiled
}

// runProgram runs src against stdin, capturing stdout, and returns it.
func runProgram(t *testing.T, src, stdin string, args ...string) string {
	t.Helper()
	compiled := compileProgram(t, src)

	tmp, err := os.CreateTemp(t.TempDir(), "hawk-stdout")
	if err != nil {
		t.Fatalf("tempfile: %v", err)
	}
	defer tmp.Close()

	oldStdin := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	go func() {
		w.WriteString(stdin)
		w.Close()
	}()
	defer func() { os.Stdin = oldStdin }()

	ip := New(compiled, Config{Args: args, Stdout: tmp})
	if _, err := ip.Run(); err != nil {
		t.Fatalf("run error: %v", err)
	}
	tmp.Sync()
	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return string(data)
}

func TestBeginOnlyProgramSkipsMainLoop(t *testing.T) {
	out := runProgram(t, `BEGIN { print "hello" }`, "ignored input\n")
	if out != "hello\n" {
		t.Fatalf("got %q", out)
	}
}

func TestFieldSplittingAndPrint(t *testing.T) {
	out := runProgram(t, `{ print $2, $1 }`, "foo bar\nbaz qux\n")
	want := "bar foo\nqux baz\n"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestFieldAssignmentRebuildsRecord(t *testing.T) {
	out := runProgram(t, `{ $2 = "X"; print }`, "a b c\n")
	if out != "a X c\n" {
		t.Fatalf("got %q", out)
	}
}

func TestArithmeticAndConcat(t *testing.T) {
	out := runProgram(t, `BEGIN { x = 2 + 3 * 4; print "r=" x }`, "")
	if out != "r=14\n" {
		t.Fatalf("got %q", out)
	}
}

func TestDivisionByZero(t *testing.T) {
	compiled := compileProgram(t, `BEGIN { x = 1/0 }`)
	ip := New(compiled, Config{Stdout: mustTemp(t)})
	if _, err := ip.Run(); err == nil {
		t.Fatal("expected division by zero error")
	}
}

func TestUserFunctionRecursion(t *testing.T) {
	src := `
function fact(n) {
	if (n <= 1) return 1
	return n * fact(n - 1)
}
BEGIN { print fact(5) }
`
	out := runProgram(t, src, "")
	if out != "120\n" {
		t.Fatalf("got %q", out)
	}
}

func TestArrayByReference(t *testing.T) {
	src := `
function fill(a) {
	a["x"] = 42
}
BEGIN {
	fill(arr)
	print arr["x"]
}
`
	out := runProgram(t, src, "")
	if out != "42\n" {
		t.Fatalf("got %q", out)
	}
}

func TestForInAndDelete(t *testing.T) {
	src := `
BEGIN {
	a["x"] = 1
	a["y"] = 2
	delete a["x"]
	n = 0
	for (k in a) n++
	print n
}
`
	out := runProgram(t, src, "")
	if out != "1\n" {
		t.Fatalf("got %q", out)
	}
}

func TestBreakContinueInLoop(t *testing.T) {
	src := `
BEGIN {
	total = 0
	for (i = 1; i <= 10; i++) {
		if (i == 5) continue
		if (i == 8) break
		total += i
	}
	print total
}
`
	out := runProgram(t, src, "")
	if out != "23\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRangePattern(t *testing.T) {
	src := `/start/,/end/ { print }`
	out := runProgram(t, src, "before\nstart\nmid\nend\nafter\n")
	want := "start\nmid\nend\n"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestNextSkipsRemainingRules(t *testing.T) {
	src := `
/skip/ { next }
{ print }
`
	out := runProgram(t, src, "keep\nskip\nkeep2\n")
	want := "keep\nkeep2\n"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestExitRunsEndBlock(t *testing.T) {
	src := `
{ if ($1 == "stop") exit 3 }
END { print "done" }
`
	compiled := compileProgram(t, src)
	tmp := mustTemp(t)
	ip := New(compiled, Config{Stdout: tmp})
	oldStdin := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	go func() { w.WriteString("go\nstop\n"); w.Close() }()
	defer func() { os.Stdin = oldStdin }()
	code, err := ip.Run()
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
	data, _ := os.ReadFile(tmp.Name())
	if !strings.Contains(string(data), "done") {
		t.Fatalf("END block did not run, got %q", data)
	}
}

func TestSprintfAndBuiltins(t *testing.T) {
	src := `BEGIN {
		print sprintf("%5.2f", 3.14159)
		print length("hello")
		print toupper("abc")
		print substr("hello world", 7)
	}`
	out := runProgram(t, src, "")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := []string{" 3.14", "5", "ABC", "world"}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestGetlineFromCommand(t *testing.T) {
	src := `BEGIN {
		while (("echo hi there" | getline line) > 0) {
			print line
		}
	}`
	out := runProgram(t, src, "")
	if out != "hi there\n" {
		t.Fatalf("got %q", out)
	}
}

func mustTemp(t *testing.T) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "hawk-stdout")
	if err != nil {
		t.Fatalf("tempfile: %v", err)
	}
	return f
}
