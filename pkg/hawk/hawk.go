// Package hawk is the embeddable facade over the core interpreter: the
// "external interfaces" spec.md §1 calls out as outside the core's scope
// (lexer/parser/runtime/value/regex) but that a host program links against
// to actually run a script.
//
// Grounded on the teacher's `pkg/dwscript` facade (its test suite — the
// package's own non-test sources were not carried in the retrieval pack,
// see DESIGN.md): an `Engine` built with functional options, `Engine.Eval`
// returning a `*Result{Success, Output}`, and a reflection-based
// `Engine.RegisterFunction(name string, fn any)` matching spec.md §4.3's
// "Host programs may register additional named functions with the same
// interface" as the intrinsic table.
package hawk

import (
	"fmt"
	"io"
	"os"

	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/compiler"
	"github.com/hawklang/hawk/internal/interp"
	"github.com/hawklang/hawk/internal/parser"
	"github.com/hawklang/hawk/internal/stream"
	"github.com/hawklang/hawk/internal/value"
)

// Engine is one independently configured embedding of Hawk: its own set of
// registered host functions, ARGV/ENVIRON defaults, and I/O provider.
// Two Engines share no mutable state (spec.md §5); a single Engine's
// Programs may be Run concurrently only if the host serializes access to
// any shared Provider.
type Engine struct {
	args     []string
	progName string
	env      map[string]string
	provider stream.Provider
	output   io.Writer
	vars     map[string]string

	builtins map[string]compiler.BuiltinSig
	natives  map[string]*value.Fun
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithArgs sets ARGV[1:] (and ARGC); each is parsed as a Hawk NumericStr,
// exactly like the command-line driver's positional arguments (spec.md §6).
func WithArgs(args ...string) Option {
	return func(e *Engine) { e.args = args }
}

// WithProgName overrides ARGV[0] (default "hawk").
func WithProgName(name string) Option {
	return func(e *Engine) { e.progName = name }
}

// WithEnv overrides ENVIRON; nil (the default) inherits os.Environ().
func WithEnv(env map[string]string) Option {
	return func(e *Engine) { e.env = env }
}

// WithProvider installs a host-supplied Stream backend (spec.md §6) in
// place of the default OS file/pipe handlers — e.g. a sandboxed provider
// that denies filesystem or subprocess access entirely.
func WithProvider(p stream.Provider) Option {
	return func(e *Engine) { e.provider = p }
}

// WithOutput redirects the script's print/printf output (and Result.Output)
// to w instead of os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.output = w }
}

// WithVar pre-assigns a global before BEGIN runs, the Go-API equivalent of
// awk's `-v name=value` command-line form (spec.md §6). The value is parsed
// as a NumericStr, so a numeric-looking string (e.g. "3") behaves as a
// number in arithmetic context just as it would from a real -v flag.
func WithVar(name, value string) Option {
	return func(e *Engine) {
		if e.vars == nil {
			e.vars = make(map[string]string)
		}
		e.vars[name] = value
	}
}

// WithFieldSeparator is sugar for WithVar("FS", sep).
func WithFieldSeparator(sep string) Option {
	return WithVar("FS", sep)
}

// New builds an Engine ready to compile and run scripts, or to have host
// functions registered against it before first use.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		progName: "hawk",
		builtins: cloneBuiltinSigs(),
		natives:  make(map[string]*value.Fun),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func cloneBuiltinSigs() map[string]compiler.BuiltinSig {
	m := make(map[string]compiler.BuiltinSig, len(interp.BuiltinSigs))
	for k, v := range interp.BuiltinSigs {
		m[k] = v
	}
	return m
}

// Program is a parsed and linked script, reusable across multiple Run
// calls without re-parsing (grounded on the teacher's Compile/Run split,
// `pkg/dwscript`'s CompileModeBytecode tests).
type Program struct {
	engine   *Engine
	compiled *compiler.Compiled
	source   string
}

// Result is the outcome of running a Program (or Engine.Eval), grounded on
// the teacher's `dwscript.Result{Success, Output}`.
type Result struct {
	Success  bool
	Output   string
	ExitCode int
}

// Parse parses src into an *ast.Program without linking it — exposed for
// hosts that want to inspect the tree (e.g. a `cmd/hawk parse` subcommand)
// before compiling.
func Parse(filename, src string) (*ast.Program, error) {
	p := parser.New(filename, src)
	return p.Parse()
}

// Compile parses and links src against this Engine's builtin table
// (including any host-registered functions), returning a reusable Program.
func (e *Engine) Compile(src string) (*Program, error) {
	prog, err := parser.New("<script>", src).Parse()
	if err != nil {
		return nil, err
	}
	compiled, err := compiler.Compile(prog, e.builtins)
	if err != nil {
		return nil, err
	}
	return &Program{engine: e, compiled: compiled, source: src}, nil
}

// Eval compiles and runs src in one step, the common case for a short
// host-invoked script (spec.md §1's "embeddable interpreter").
func (e *Engine) Eval(src string) (*Result, error) {
	prog, err := e.Compile(src)
	if err != nil {
		return nil, err
	}
	return prog.Run()
}

// Run executes a previously compiled Program. Each call builds a fresh
// interp.Interp, so the same Program may be Run repeatedly with a clean
// set of globals each time.
func (p *Program) Run() (*Result, error) {
	e := p.engine

	outFile, cleanup, err := outputFile(e.output)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	ip := interp.New(p.compiled, interp.Config{
		Args:      e.args,
		ProgName:  e.progName,
		Env:       e.env,
		Provider:  e.provider,
		Stdout:    outFile,
		Natives:   e.natives,
		Preassign: e.vars,
	})
	// Closes every I/O name (files, pipes, coprocesses) a script left open
	// without an explicit close(), in reverse open order (spec.md §5) — a
	// long-lived host calling Eval/Run repeatedly must not accumulate
	// orphaned subprocesses across calls.
	defer ip.Close()

	code, runErr := ip.Run()
	output, readErr := collectOutput(outFile, e.output)
	if readErr != nil && runErr == nil {
		runErr = readErr
	}
	return &Result{Success: runErr == nil && code == 0, Output: output, ExitCode: code}, runErr
}

// outputFile returns the *os.File the interp's console writes to, plus a
// cleanup func. When the host asked for an arbitrary io.Writer (not an
// *os.File) via WithOutput, a temp file stands in and its contents are
// copied to w by collectOutput once the run completes — interp.Config only
// ever deals in *os.File since that is what stream.OSConsole wraps.
func outputFile(w io.Writer) (*os.File, func(), error) {
	if w == nil {
		return os.Stdout, func() {}, nil
	}
	if f, ok := w.(*os.File); ok {
		return f, func() {}, nil
	}
	tmp, err := os.CreateTemp("", "hawk-output")
	if err != nil {
		return nil, nil, fmt.Errorf("hawk: allocating output buffer: %w", err)
	}
	return tmp, func() { tmp.Close(); os.Remove(tmp.Name()) }, nil
}

func collectOutput(f *os.File, dest io.Writer) (string, error) {
	if f == os.Stdout {
		return "", nil
	}
	f.Sync()
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	if dest != nil {
		if _, ok := dest.(*os.File); !ok {
			dest.Write(data)
		}
	}
	return string(data), nil
}
