package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/codepath/recommender/internal/recommend"
)

// CreateUser inserts a new user record and returns its ID. Goals are stored
// as a JSONB array.
func (db *DB) CreateUser(ctx context.Context, u *User) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, email, password_hash, github_username, experience, goals, time_commitment)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.GithubUsername, u.Experience, u.Goals, u.TimeCommitment,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil without error when the user
// does not exist.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return db.scanUser(ctx,
		`SELECT id, first_name, last_name, email, password_hash, github_username, experience, goals, time_commitment, created_at, updated_at
		 FROM users WHERE id = $1`, id)
}

// GetUserByEmail retrieves a user by email. Returns nil without error when
// no user has that email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return db.scanUser(ctx,
		`SELECT id, first_name, last_name, email, password_hash, github_username, experience, goals, time_commitment, created_at, updated_at
		 FROM users WHERE email = $1`, email)
}

// CheckEmailExists reports whether a user with this email is registered.
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdateUser updates a user's mutable profile fields.
func (db *DB) UpdateUser(ctx context.Context, u *User) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE users
		 SET first_name = $1, last_name = $2, github_username = $3, experience = $4, goals = $5, time_commitment = $6, updated_at = NOW()
		 WHERE id = $7`,
		u.FirstName, u.LastName, u.GithubUsername, u.Experience, u.Goals, u.TimeCommitment, u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", u.ID)
	}
	return nil
}

// GetProfile resolves a user ID string to the matching profile consumed by
// the recommendation engine. Unknown or malformed ids resolve to nil, which
// the engine treats as "no personalization available".
func (db *DB) GetProfile(ctx context.Context, userID string) (*recommend.UserProfile, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	user, err := db.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return user.Profile(), nil
}

// Profile extracts the matching-relevant subset of a user record.
func (u *User) Profile() *recommend.UserProfile {
	return &recommend.UserProfile{
		ID:             u.ID.String(),
		Experience:     u.Experience,
		Goals:          u.Goals,
		TimeCommitment: u.TimeCommitment,
	}
}

func (db *DB) scanUser(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := db.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.GithubUsername, &u.Experience, &u.Goals, &u.TimeCommitment,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
