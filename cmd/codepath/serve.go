package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codepath/recommender/internal/server"
)

var (
	servePort   int
	serveMemory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the recommendation, auth, project, and GitHub profile endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "Run against an in-memory store instead of Postgres")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if !serveMemory && databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	// GEMINI_API_KEY is optional; without it the re-ranking stage is skipped.
	apiKey := os.Getenv("GEMINI_API_KEY")

	cfg := server.Config{
		Port:         servePort,
		DatabaseURL:  databaseURL,
		GeminiAPIKey: apiKey,
		InMemory:     serveMemory,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
