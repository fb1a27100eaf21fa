// Package main is the entry point for the Rowbase CLI application.
// It provides access to tables hosted on the Rowbase service.
package main

import (
	"rowbase/cli/cmd"
)

// main initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
