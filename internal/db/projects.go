package db

import (
	"context"
	"fmt"

	"github.com/codepath/recommender/internal/recommend"
)

// recommendCap bounds the store-side personalized candidate set. The API
// layer truncates again to the caller's limit.
const recommendCap = 5

const projectColumns = `id, title, description, difficulty, technologies, estimated_hours, category, github_url, created_at`

// CreateProject inserts a project, replacing any existing record with the
// same id. Used by seeding; projects are otherwise immutable.
func (db *DB) CreateProject(ctx context.Context, p *recommend.Project) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO projects (id, title, description, difficulty, technologies, estimated_hours, category, github_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE
		 SET title = $2, description = $3, difficulty = $4, technologies = $5, estimated_hours = $6, category = $7, github_url = $8`,
		p.ID, p.Title, p.Description, p.Difficulty, p.Technologies, p.EstimatedHours, p.Category, p.GithubURL,
	)
	if err != nil {
		return fmt.Errorf("failed to create project %s: %w", p.ID, err)
	}
	return nil
}

// FindAll retrieves the whole project catalog in insertion order.
func (db *DB) FindAll(ctx context.Context) ([]recommend.Project, error) {
	return db.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at, id`)
}

// FindByDifficulty retrieves projects with the given difficulty.
func (db *DB) FindByDifficulty(ctx context.Context, difficulty string) ([]recommend.Project, error) {
	return db.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE difficulty = $1 ORDER BY created_at, id`,
		difficulty)
}

// FindByTechnology retrieves projects whose technology list contains the
// given technology, matched case-insensitively as a substring.
func (db *DB) FindByTechnology(ctx context.Context, technology string) ([]recommend.Project, error) {
	return db.queryProjects(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements_text(technologies) AS tech
			WHERE tech ILIKE '%' || $1 || '%'
		 )
		 ORDER BY created_at, id`,
		technology)
}

// RecommendForUser returns a user-tailored candidate set: the difficulty and
// time-commitment gates applied to the catalog, capped at recommendCap.
func (db *DB) RecommendForUser(ctx context.Context, user *recommend.UserProfile) ([]recommend.Project, error) {
	all, err := db.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	matched := recommend.Filter(all, recommend.Criteria{
		Experience:     user.Experience,
		TimeCommitment: user.TimeCommitment,
	})
	if len(matched) > recommendCap {
		matched = matched[:recommendCap]
	}
	return matched, nil
}

func (db *DB) queryProjects(ctx context.Context, query string, args ...any) ([]recommend.Project, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []recommend.Project
	for rows.Next() {
		var p recommend.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Difficulty,
			&p.Technologies, &p.EstimatedHours, &p.Category, &p.GithubURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
