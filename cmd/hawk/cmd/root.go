// Package cmd implements the hawk CLI's cobra command tree, grounded on
// cmd/dwscript/cmd/root.go's root-command-plus-subcommands layout.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information, set by build flags (ldflags -X), exactly as the
	// teacher's cmd/dwscript/cmd/root.go does.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "hawk",
	Short: "Hawk: an embeddable AWK-language interpreter",
	Long: `hawk is a Go implementation of the AWK programming language.

It provides pattern-action rule processing over text records, a
dynamically typed value system with automatic string/number coercion,
associative arrays, and a POSIX-ERE-plus-extensions regular-expression
engine — as both a command-line tool and an embeddable Go package
(see pkg/hawk).`,
	Version: Version,
}

// Execute runs the root command; main's only call into this package.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// No -v short flag here: AWK reserves -v for variable pre-assignment
	// (see run.go's -v name=value), unlike the teacher's --verbose/-v.
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose diagnostic output")
}
