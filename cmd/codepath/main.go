// Package main provides the entry point for the CodePath recommendation API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "codepath",
	Short: "CodePath recommendation API server",
	Long:  "CodePath serves personalized coding-project recommendations over a REST API, combining a rule-based filter with optional LLM re-ranking.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
