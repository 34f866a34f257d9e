// Package main provides the portfolio CV service and its maintenance commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "portfolio",
	Short:        "Portfolio CV service",
	Long:         "Serves portfolio content and generates one-page PDF CVs that are handed out through a short-lived temporary store.",
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
