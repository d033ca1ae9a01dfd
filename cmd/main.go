package main

// Entry point of support-chart
// Runs the cobra root command, which generates chart.png when called without arguments
// Any error is printed and the process exits with status 1

import (
	"fmt"
	"os"

	"support-chart/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
