package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hawklang/hawk/pkg/hawk"
)

var (
	progFile   string
	evalSource string
	fieldSep   string
	assigns    []string
	traceRun   bool
)

var runCmd = &cobra.Command{
	Use:   "run [program] [file...]",
	Short: "Run a Hawk program against one or more input files",
	Long: `Execute a Hawk (AWK) program, reading records from the given files
(or standard input if none are given).

Examples:
  # Run a program given directly on the command line
  hawk run '{ print $1, $3 }' access.log

  # Run a program stored in a file
  hawk run -f report.hawk sales.csv

  # Pre-assign a global before BEGIN runs
  hawk run -v threshold=10 -F, '{ if ($2 > threshold) print }' data.csv`,
	Args: cobra.ArbitraryArgs,
	RunE: runHawk,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&progFile, "file", "f", "", "read the program from a file instead of the command line")
	runCmd.Flags().StringVarP(&evalSource, "eval", "e", "", "inline program text (alternative to a positional program argument)")
	runCmd.Flags().StringVarP(&fieldSep, "field-separator", "F", "", "set FS before BEGIN runs")
	runCmd.Flags().StringArrayVarP(&assigns, "assign", "v", nil, "pre-assign a global as name=value (repeatable)")
	runCmd.Flags().BoolVar(&traceRun, "trace", false, "report the exit code to stderr")
}

func runHawk(_ *cobra.Command, args []string) error {
	source, inputFiles, err := resolveProgram(progFile, evalSource, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(defaultConfigPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", defaultConfigPath, err)
	}

	opts := []hawk.Option{hawk.WithArgs(inputFiles...), hawk.WithOutput(os.Stdout)}
	for name, val := range cfg.Vars {
		opts = append(opts, hawk.WithVar(name, val))
	}
	if cfg.FS != "" {
		opts = append(opts, hawk.WithFieldSeparator(cfg.FS))
	}
	if cfg.OFS != "" {
		opts = append(opts, hawk.WithVar("OFS", cfg.OFS))
	}
	if cfg.ORS != "" {
		opts = append(opts, hawk.WithVar("ORS", cfg.ORS))
	}
	if fieldSep != "" {
		opts = append(opts, hawk.WithFieldSeparator(fieldSep))
	}
	for _, assign := range assigns {
		name, val, ok := strings.Cut(assign, "=")
		if !ok {
			return fmt.Errorf("invalid -v assignment %q: want name=value", assign)
		}
		opts = append(opts, hawk.WithVar(name, val))
	}

	engine, err := hawk.New(opts...)
	if err != nil {
		return err
	}

	result, err := engine.Eval(source)
	if err != nil {
		return fmt.Errorf("hawk: %w", err)
	}
	if verbose || traceRun {
		fmt.Fprintf(os.Stderr, "exit code: %d\n", result.ExitCode)
	}
	if !result.Success {
		os.Exit(result.ExitCode)
	}
	return nil
}

// resolveProgram works out the program source and the remaining arguments
// that name input files, following awk's own precedence: -f/-e win over a
// positional program argument, which (when present) is always args[0].
func resolveProgram(file, eval string, args []string) (string, []string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", nil, fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), args, nil
	}
	if eval != "" {
		return eval, args, nil
	}
	if len(args) == 0 {
		return "", nil, fmt.Errorf("no program given: use -f FILE, -e PROGRAM, or a positional program argument")
	}
	return args[0], args[1:], nil
}
