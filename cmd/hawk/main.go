// Command hawk is the Hawk language CLI: a thin driver over pkg/hawk,
// grounded on cmd/dwscript's main/cmd package split (its own main.go was
// not carried into the retrieval pack, only cmd/dwscript/cmd/*.go — see
// DESIGN.md).
package main

import (
	"fmt"
	"os"

	"github.com/hawklang/hawk/cmd/hawk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
