// Package main is the entry point for the Orbit CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/orbit/cmd"
	"github.com/danielolaszy/orbit/internal/logging"
)

// main is the entry point of the application.
// It executes the root command and handles any errors that occur.
func main() {
	logging.Debug("starting orbit cli", "version", "1.0.0")

	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
