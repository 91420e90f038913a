package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hawklang/hawk/internal/ast"
	"github.com/hawklang/hawk/internal/parser"
)

var parseEval string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a Hawk program and display its pattern-action structure",
	Long: `Parse Hawk source and print the resulting BEGIN/END/rule structure
(spec.md §3's Program tree). Reads from stdin if no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse inline code instead of reading from a file")
}

func runParse(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(parseEval, args)
	if err != nil {
		return err
	}

	prog, err := parser.New(filename, input).Parse()
	if err != nil {
		return err
	}

	dumpProgram(prog)
	return nil
}

func dumpProgram(prog *ast.Program) {
	fmt.Printf("Globals: %v\n", prog.Globals)

	for i, b := range prog.Begin {
		fmt.Printf("BEGIN #%d:\n", i+1)
		dumpStmt(b, 1)
	}
	for name, fn := range prog.Functions {
		fmt.Printf("function %s(%v):\n", name, fn.Params)
		dumpStmt(fn.Body, 1)
	}
	for i, r := range prog.Rules {
		fmt.Printf("rule #%d (%s):\n", i+1, patternKindName(r.Kind))
		if r.Start != nil {
			fmt.Printf("%spattern: %s\n", indent(1), r.Start.String())
		}
		if r.End != nil {
			fmt.Printf("%srange end: %s\n", indent(1), r.End.String())
		}
		if r.Action != nil {
			dumpStmt(r.Action, 1)
		}
	}
	for i, b := range prog.End {
		fmt.Printf("END #%d:\n", i+1)
		dumpStmt(b, 1)
	}
}

func patternKindName(k ast.PatternKind) string {
	switch k {
	case ast.PatternAlways:
		return "always"
	case ast.PatternExpr:
		return "expr"
	case ast.PatternRegex:
		return "regex"
	case ast.PatternRange:
		return "range"
	}
	return "unknown"
}

func dumpStmt(s ast.Stmt, depth int) {
	fmt.Printf("%s%s\n", indent(depth), s.String())
}

func indent(depth int) string {
	out := ""
	for i := 0; i < depth; i++ {
		out += "  "
	}
	return out
}
