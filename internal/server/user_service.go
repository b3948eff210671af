package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/codepath/recommender/internal/config"
	"github.com/codepath/recommender/internal/db"
	"github.com/codepath/recommender/internal/types"
)

// UserStore is the user persistence the auth layer depends on.
type UserStore interface {
	CreateUser(ctx context.Context, u *db.User) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdateUser(ctx context.Context, u *db.User) error
}

// UserService provides business logic for signup, login, and profile
// updates.
type UserService struct {
	store          UserStore
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{store: store, passwordConfig: passwordConfig}
}

// toAPIUser converts a db.User to the public API view, excluding the
// password hash.
func toAPIUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	goals := u.Goals
	if goals == nil {
		goals = []string{}
	}
	return &types.User{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		GithubUsername: u.GithubUsername,
		Experience:     u.Experience,
		Goals:          goals,
		TimeCommitment: u.TimeCommitment,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// Register creates a new user from the signup payload.
func (s *UserService) Register(ctx context.Context, req *types.SignupRequest) (*types.User, error) {
	exists, err := s.store.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &db.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PasswordHash:   passwordHash,
		GithubUsername: req.GithubUsername,
		Experience:     req.Experience,
		Goals:          req.Goals,
		TimeCommitment: req.TimeCommitment,
	}
	userID, err := s.store.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if created == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return toAPIUser(created), nil
}

// Login authenticates a user by email and password. Unknown email and wrong
// password both yield the same generic error.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if user == nil {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return toAPIUser(user), nil
}

// GetProfile returns the public view of a user.
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return toAPIUser(user), nil
}

// UpdateProfile applies non-empty fields from the update payload to the
// stored user and returns the updated view.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.GithubUsername != "" {
		user.GithubUsername = req.GithubUsername
	}
	if req.Experience != "" {
		user.Experience = req.Experience
	}
	if req.Goals != nil {
		user.Goals = req.Goals
	}
	if req.TimeCommitment != "" {
		user.TimeCommitment = req.TimeCommitment
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve updated user: %w", err)
	}
	return toAPIUser(updated), nil
}
