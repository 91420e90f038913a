package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hawklang/hawk/internal/lexer"
)

var (
	lexEval    string
	showPos    bool
	showType   bool
	onlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a Hawk program and print the resulting tokens",
	Long: `Tokenize (lex) a Hawk program and print the resulting tokens.

Useful for debugging the lexer and the regex/division disambiguation
(spec.md §4.2). Reads from stdin if no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: lexSource,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "tokenize inline code instead of reading from a file")
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&showType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&onlyErrors, "only-errors", false, "show only ILLEGAL tokens")
}

func lexSource(_ *cobra.Command, args []string) error {
	input, filename, err := readSource(lexEval, args)
	if err != nil {
		return err
	}

	l := lexer.New(filename, input)
	errorCount := 0
	for {
		tok := l.Next()
		if tok.Type == lexer.ILLEGAL {
			errorCount++
		}
		if !onlyErrors || tok.Type == lexer.ILLEGAL {
			printToken(tok)
		}
		if tok.Type == lexer.EOF {
			break
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("found %d illegal token(s)", errorCount)
	}
	return nil
}

func printToken(tok lexer.Token) {
	var out string
	if showType {
		out = fmt.Sprintf("[%-12s]", tok.Type)
	}
	if tok.Literal == "" {
		out += fmt.Sprintf(" %s", tok.Type)
	} else {
		out += fmt.Sprintf(" %q", tok.Literal)
	}
	if showPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}
	fmt.Println(out)
}

// readSource resolves program source from -e, a single positional file
// argument, or stdin — the precedence shared by lex and parse.
func readSource(eval string, args []string) (string, string, error) {
	if eval != "" {
		return eval, "<eval>", nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), "<stdin>", nil
}
