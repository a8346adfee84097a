// Package main is the entry point for the humblebridge CLI.
package main

import (
	"os"

	"github.com/humblebridge/humblebridge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
