package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codepath/recommender/internal/db"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the starter project catalog into the database",
	Long:  `Insert the starter project catalog into Postgres. Reseeding is safe; existing rows are updated in place.`,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	projects := db.SeedProjects()
	for i := range projects {
		if err := database.CreateProject(ctx, &projects[i]); err != nil {
			return fmt.Errorf("failed to seed project %s: %w", projects[i].ID, err)
		}
	}

	fmt.Printf("Seeded %d projects\n", len(projects))
	return nil
}
