package db

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codepath/recommender/internal/recommend"
)

// MemStore is an in-memory implementation of the store surface. It backs
// tests and `serve --memory` runs where no database is available, seeded
// with the starter project catalog.
type MemStore struct {
	mu       sync.RWMutex
	users    []*User
	projects []recommend.Project
	sessions []*Session
}

// NewMemStore creates an in-memory store seeded with the starter projects.
func NewMemStore() *MemStore {
	return &MemStore{projects: SeedProjects()}
}

// CreateUser inserts a new user record and returns its ID.
func (m *MemStore) CreateUser(_ context.Context, u *User) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *u
	stored.ID = uuid.New()
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.users = append(m.users, &stored)
	return stored.ID, nil
}

// GetUser retrieves a user by ID, nil when absent.
func (m *MemStore) GetUser(_ context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// GetUserByEmail retrieves a user by email, nil when absent.
func (m *MemStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// CheckEmailExists reports whether a user with this email is registered.
func (m *MemStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

// UpdateUser updates a user's mutable profile fields.
func (m *MemStore) UpdateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.ID == u.ID {
			existing.FirstName = u.FirstName
			existing.LastName = u.LastName
			existing.GithubUsername = u.GithubUsername
			existing.Experience = u.Experience
			existing.Goals = u.Goals
			existing.TimeCommitment = u.TimeCommitment
			existing.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("user not found: %s", u.ID)
}

// GetProfile resolves a user ID string to a matching profile, nil when the
// id is malformed or unknown.
func (m *MemStore) GetProfile(ctx context.Context, userID string) (*recommend.UserProfile, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	user, err := m.GetUser(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	return user.Profile(), nil
}

// CreateProject inserts a project, replacing any existing one with the same id.
func (m *MemStore) CreateProject(_ context.Context, p *recommend.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.projects {
		if m.projects[i].ID == p.ID {
			m.projects[i] = *p
			return nil
		}
	}
	m.projects = append(m.projects, *p)
	return nil
}

// FindAll retrieves the whole project catalog in insertion order.
func (m *MemStore) FindAll(_ context.Context) ([]recommend.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]recommend.Project, len(m.projects))
	copy(out, m.projects)
	return out, nil
}

// FindByDifficulty retrieves projects with the given difficulty.
func (m *MemStore) FindByDifficulty(ctx context.Context, difficulty string) ([]recommend.Project, error) {
	all, _ := m.FindAll(ctx)
	var out []recommend.Project
	for _, p := range all {
		if p.Difficulty == difficulty {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindByTechnology retrieves projects whose technology list contains the
// given technology, matched case-insensitively as a substring.
func (m *MemStore) FindByTechnology(ctx context.Context, technology string) ([]recommend.Project, error) {
	all, _ := m.FindAll(ctx)
	var out []recommend.Project
	for _, p := range all {
		if containsTechnology(p.Technologies, technology) {
			out = append(out, p)
		}
	}
	return out, nil
}

// RecommendForUser returns a user-tailored candidate set, capped at the
// store-side limit.
func (m *MemStore) RecommendForUser(ctx context.Context, user *recommend.UserProfile) ([]recommend.Project, error) {
	all, err := m.FindAll(ctx)
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

// CreateSession records an issued token for a user.
func (m *MemStore) CreateSession(_ context.Context, userID uuid.UUID, token string, expiresAt time.Time) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	m.sessions = append(m.sessions, s)
	copied := *s
	return &copied, nil
}

// GetSessionByToken looks up a live session; expired sessions read as nil.
func (m *MemStore) GetSessionByToken(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sessions {
		if s.Token == token {
			if time.Now().After(s.ExpiresAt) {
				return nil, nil
			}
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

// DeleteSession removes a session by token; unknown tokens are a no-op.
func (m *MemStore) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, s := range m.sessions {
		if s.Token == token {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

func containsTechnology(technologies []string, technology string) bool {
	needle := strings.ToLower(technology)
	for _, t := range technologies {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
