// Package recommend implements the project recommendation engine: a
// deterministic rule-based filter over the project catalog, an optional
// LLM re-ranking stage, and the orchestration that assembles API results.
package recommend

import (
	"context"
	"time"
)

// Difficulty levels for projects and experience levels for users share the
// same vocabulary.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// ValidLevel reports whether s is a recognized difficulty level.
func ValidLevel(s string) bool {
	switch s {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Project is a recommendable practice project from the catalog.
// Projects are immutable once created.
type Project struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Difficulty     string    `json:"difficulty"`
	Technologies   []string  `json:"technologies"`
	EstimatedHours int       `json:"estimatedHours"`
	Category       string    `json:"category"`
	GithubURL      string    `json:"githubUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserProfile is the subset of a user record the matching logic consumes.
type UserProfile struct {
	ID                    string
	Experience            string
	Goals                 []string
	TimeCommitment        string // "min-max" or "min+", in hours per week
	PreferredTechnologies []string
}

// Candidate is a Project annotated with a match score and human-readable
// reasons for one specific request. Candidates are never persisted.
type Candidate struct {
	Project
	MatchScore int      `json:"matchScore"`
	Reasons    []string `json:"reasons"`
}

// Criteria describes a recommendation request.
type Criteria struct {
	Experience            string
	Interests             []string
	PreferredTechnologies []string
	TimeCommitment        string
}

// Result is the assembled recommendation payload returned to the transport
// layer. TotalCount is the candidate count before truncation.
type Result struct {
	Projects         []Candidate `json:"projects"`
	TotalCount       int         `json:"totalCount"`
	MatchingCriteria []string    `json:"matchingCriteria"`
}

// ProjectStore is the project collection the engine reads from.
type ProjectStore interface {
	FindAll(ctx context.Context) ([]Project, error)
	// RecommendForUser returns a user-tailored candidate set with the
	// difficulty and time-commitment gates already applied, capped at 5.
	RecommendForUser(ctx context.Context, user *UserProfile) ([]Project, error)
}

// UserStore resolves user ids to matching profiles. Unknown ids resolve to
// nil without error.
type UserStore interface {
	GetProfile(ctx context.Context, userID string) (*UserProfile, error)
}
