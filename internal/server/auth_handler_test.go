package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepath/recommender/internal/config"
	"github.com/codepath/recommender/internal/db"
	"github.com/codepath/recommender/internal/types"
)

// setupTestAuthHandler creates an AuthHandler backed by an in-memory store.
func setupTestAuthHandler(_ *testing.T) (*AuthHandler, *SessionService) {
	store := db.NewMemStore()
	passwordConfig := &config.PasswordConfig{
		BcryptCost: 10, // Lower cost for faster tests
		Pepper:     "",
	}
	jwtConfig := &config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 24,
	}

	userSvc := NewUserService(store, passwordConfig)
	sessionSvc := NewSessionService(NewJWTService(jwtConfig), store)
	return NewAuthHandler(userSvc, sessionSvc), sessionSvc
}

func signupBody() map[string]any {
	return map[string]any{
		"firstName":       "Ada",
		"lastName":        "Lovelace",
		"email":           "ada@example.com",
		"password":        "password123",
		"confirmPassword": "password123",
		"experience":      "intermediate",
		"goals":           []string{"learn backend development"},
		"timeCommitment":  "5-10",
	}
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) types.APIResponse {
	t.Helper()
	var envelope types.APIResponse
	require.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	return envelope
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	handler, sessionSvc := setupTestAuthHandler(t)

	body, _ := json.Marshal(signupBody())
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.Signup(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	envelope := decodeEnvelope(t, w.Body)
	assert.True(t, envelope.Success)

	var auth types.AuthResponse
	data, _ := json.Marshal(envelope.Data)
	require.NoError(t, json.Unmarshal(data, &auth))
	require.NotNil(t, auth.User)
	assert.Equal(t, "ada@example.com", auth.User.Email)
	assert.NotEmpty(t, auth.Token)
	assert.NotContains(t, w.Body.String(), "password", "the response must never carry password material")

	// The issued token opens a live session.
	userID, err := sessionSvc.ValidateToken(context.Background(), auth.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, userID)
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	handler, _ := setupTestAuthHandler(t)

	body, _ := json.Marshal(signupBody())
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Signup(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	w = httptest.NewRecorder()
	handler.Signup(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestAuthHandler_Signup_InvalidJSON(t *testing.T) {
	handler, _ := setupTestAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader([]byte("invalid json")))
	w := httptest.NewRecorder()

	handler.Signup(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestAuthHandler_Signup_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(map[string]any)
		description string
	}{
		{
			name:        "missing first name",
			mutate:      func(m map[string]any) { delete(m, "firstName") },
			description: "should return 400 when firstName is missing",
		},
		{
			name:        "invalid email",
			mutate:      func(m map[string]any) { m["email"] = "not-an-email" },
			description: "should return 400 when email is invalid",
		},
		{
			name:        "password too short",
			mutate:      func(m map[string]any) { m["password"], m["confirmPassword"] = "short", "short" },
			description: "should return 400 when password is under 8 characters",
		},
		{
			name:        "password mismatch",
			mutate:      func(m map[string]any) { m["confirmPassword"] = "different123" },
			description: "should return 400 when passwords do not match",
		},
		{
			name:        "unknown experience level",
			mutate:      func(m map[string]any) { m["experience"] = "wizard" },
			description: "should return 400 for an unrecognized experience level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := setupTestAuthHandler(t)

			payload := signupBody()
			tt.mutate(payload)
			body, _ := json.Marshal(payload)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Signup(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, tt.description)
			assert.Contains(t, w.Body.String(), "validation error", tt.description)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	handler, _ := setupTestAuthHandler(t)

	body, _ := json.Marshal(signupBody())
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Signup(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name       string
		email      string
		password   string
		wantStatus int
	}{
		{name: "valid credentials", email: "ada@example.com", password: "password123", wantStatus: http.StatusOK},
		{name: "wrong password", email: "ada@example.com", password: "wrong-password", wantStatus: http.StatusUnauthorized},
		{name: "unknown email", email: "nobody@example.com", password: "password123", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"email": tt.email, "password": tt.password})
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, w.Body.String(), "token")
			} else {
				// Unknown email and wrong password read identically.
				assert.Contains(t, w.Body.String(), "invalid email or password")
			}
		})
	}
}

func TestAuthHandler_Logout_RevokesSession(t *testing.T) {
	handler, sessionSvc := setupTestAuthHandler(t)

	body, _ := json.Marshal(signupBody())
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.Signup(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	envelope := decodeEnvelope(t, w.Body)
	var auth types.AuthResponse
	data, _ := json.Marshal(envelope.Data)
	require.NoError(t, json.Unmarshal(data, &auth))

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	w = httptest.NewRecorder()
	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	_, err := sessionSvc.ValidateToken(context.Background(), auth.Token)
	assert.Error(t, err, "a revoked token must no longer validate even before JWT expiry")
}

func TestAuthHandler_Logout_WithoutToken(t *testing.T) {
	handler, _ := setupTestAuthHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()

	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "logout without a token still succeeds")
}
