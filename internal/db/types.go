package db

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered CodePath user. PasswordHash is never
// serialized to JSON.
type User struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	GithubUsername string    `json:"githubUsername,omitempty"`
	Experience     string    `json:"experience"`
	Goals          []string  `json:"goals"`
	TimeCommitment string    `json:"timeCommitment"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Session is a server-side record of an issued auth token. A session whose
// expiry has passed is treated as nonexistent on lookup.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
