// Package server provides the HTTP REST API for the recommendation backend.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/codepath/recommender/internal/server/middleware"
	"github.com/codepath/recommender/internal/types"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService    *UserService
	sessionService *SessionService
	validator      *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, sessionService *SessionService) *AuthHandler {
	return &AuthHandler{
		userService:    userService,
		sessionService: sessionService,
		validator:      validator.New(),
	}
}

// Signup handles user registration requests. A successful signup also opens
// a session so the client is logged in immediately.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req types.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		failResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		failResponse(w, HTTPStatus(err), err.Error())
		return
	}

	token, err := h.sessionService.Issue(r.Context(), user.ID)
	if err != nil {
		failResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	successResponse(w, http.StatusCreated, types.AuthResponse{User: user, Token: token})
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		failResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		failResponse(w, HTTPStatus(err), err.Error())
		return
	}

	token, err := h.sessionService.Issue(r.Context(), user.ID)
	if err != nil {
		failResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	successResponse(w, http.StatusOK, types.AuthResponse{User: user, Token: token})
}

// Logout revokes the session named by the bearer token. Logging out with a
// missing or already-revoked token still succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token != "" {
		if err := h.sessionService.Revoke(r.Context(), token); err != nil {
			failResponse(w, http.StatusInternalServerError, "Failed to revoke session")
			return
		}
	}

	successResponse(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
