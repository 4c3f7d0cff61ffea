// Package main is the entry point for the dofp CLI.
package main

import (
	"os"

	"github.com/five82/dofp/cmd/dofp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
