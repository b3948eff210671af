// Package types provides the request and response types of the CodePath
// REST API.
package types

import (
	"time"

	"github.com/google/uuid"
)

// APIResponse is the envelope every API endpoint responds with.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// SignupRequest represents the signup form payload.
type SignupRequest struct {
	FirstName       string   `json:"firstName" validate:"required,min=1"`
	LastName        string   `json:"lastName" validate:"required,min=1"`
	Email           string   `json:"email" validate:"required,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	ConfirmPassword string   `json:"confirmPassword" validate:"required,eqfield=Password"`
	GithubUsername  string   `json:"githubUsername,omitempty"`
	Experience      string   `json:"experience" validate:"omitempty,oneof=beginner intermediate advanced"`
	Goals           []string `json:"goals,omitempty"`
	TimeCommitment  string   `json:"timeCommitment,omitempty"`
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest represents a profile update. Zero-value fields keep
// their stored values.
type UpdateProfileRequest struct {
	FirstName      string   `json:"firstName,omitempty"`
	LastName       string   `json:"lastName,omitempty"`
	GithubUsername string   `json:"githubUsername,omitempty"`
	Experience     string   `json:"experience,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Goals          []string `json:"goals,omitempty"`
	TimeCommitment string   `json:"timeCommitment,omitempty"`
}

// User is the public view of a user record; the password hash never leaves
// the server.
type User struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	GithubUsername string    `json:"githubUsername,omitempty"`
	Experience     string    `json:"experience"`
	Goals          []string  `json:"goals"`
	TimeCommitment string    `json:"timeCommitment"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AuthResponse is the payload of successful signup and login calls.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// RecommendationRequest is the body of the criteria-driven POST endpoint.
type RecommendationRequest struct {
	SkillLevel            string   `json:"skillLevel,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Interests             []string `json:"interests,omitempty"`
	PreferredTechnologies []string `json:"preferredTechnologies,omitempty"`
}
