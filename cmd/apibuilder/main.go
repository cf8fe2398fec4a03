// Package main is the entry point for the apibuilder CLI.
package main

import (
	"fmt"
	"os"

	"github.com/apibuilder/apibuilder-cli/cmd/apibuilder/commands"
	"github.com/apibuilder/apibuilder-cli/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, exitErr.Suggestion)
		}
		os.Exit(errors.ExitCode(err))
	}
}
