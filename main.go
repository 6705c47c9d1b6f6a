package main

import (
	"fmt"
	"os"

	"github.com/ansys/pre-commit-hooks/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the pre-commit-hooks command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
