// Package main provides the CLI entrypoint for fieldmapper.
//
// fieldmapper executes declarative mapping definitions that move values
// between structured documents:
//   - run: execute a definition against JSON source documents
//   - validate: check definitions for structural problems
package main

import (
	"os"

	"fieldmapper/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
