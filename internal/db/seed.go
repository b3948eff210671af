package db

import (
	"time"

	"github.com/codepath/recommender/internal/recommend"
)

// SeedProjects returns the starter project catalog. The in-memory store
// loads it on construction; `codepath seed` loads it into Postgres.
func SeedProjects() []recommend.Project {
	now := time.Now()
	return []recommend.Project{
		{
			ID:             "1",
			Title:          "Todo App with React",
			Description:    "Build a modern todo application using React and TypeScript",
			Difficulty:     recommend.LevelBeginner,
			Technologies:   []string{"React", "TypeScript", "CSS"},
			EstimatedHours: 8,
			Category:       "Frontend",
			CreatedAt:      now,
		},
		{
			ID:             "2",
			Title:          "REST API with Node.js",
			Description:    "Create a RESTful API using Node.js, Express, and MongoDB",
			Difficulty:     recommend.LevelIntermediate,
			Technologies:   []string{"Node.js", "Express", "MongoDB"},
			EstimatedHours: 16,
			Category:       "Backend",
			CreatedAt:      now,
		},
		{
			ID:             "3",
			Title:          "E-commerce Platform",
			Description:    "Full-stack e-commerce platform with payment integration",
			Difficulty:     recommend.LevelAdvanced,
			Technologies:   []string{"Next.js", "PostgreSQL", "Stripe"},
			EstimatedHours: 40,
			Category:       "Full Stack",
			CreatedAt:      now,
		},
	}
}
