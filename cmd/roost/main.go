// Package main is the entry point for the roost CLI tool.
package main

import (
	"os"

	"github.com/roostlabs/roost/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
