// Package main is the entry point for the envdeck CLI.
package main

import (
	"os"

	"github.com/envdeck/envdeck/cmd/envdeck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
