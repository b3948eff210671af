package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepath/recommender/internal/config"
	"github.com/codepath/recommender/internal/db"
	"github.com/codepath/recommender/internal/github"
	"github.com/codepath/recommender/internal/recommend"
	"github.com/codepath/recommender/internal/types"
)

// newTestServer builds a Server over the in-memory store with the LLM stage
// disabled, returning the server and its router.
func newTestServer(_ *testing.T) (*Server, http.Handler) {
	store := db.NewMemStore()
	passwordConfig := &config.PasswordConfig{BcryptCost: 10}
	jwtConfig := &config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: 24,
	}

	s := &Server{
		store:           store,
		github:          github.NewClient(),
		validator:       validator.New(),
		recommendations: recommend.NewService(store, store, nil),
		userService:     NewUserService(store, passwordConfig),
	}
	s.sessionService = NewSessionService(NewJWTService(jwtConfig), store)
	s.authHandler = NewAuthHandler(s.userService, s.sessionService)
	return s, s.routes()
}

// signupAndLogin registers a fresh user over the API and returns the auth
// payload.
func signupAndLogin(t *testing.T, router http.Handler, email string) types.AuthResponse {
	t.Helper()

	payload := signupBody()
	payload["email"] = email
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	envelope := decodeEnvelope(t, w.Body)
	var auth types.AuthResponse
	data, _ := json.Marshal(envelope.Data)
	require.NoError(t, json.Unmarshal(data, &auth))
	return auth
}

func decodeResult(t *testing.T, body *bytes.Buffer) recommend.Result {
	t.Helper()
	envelope := decodeEnvelope(t, body)
	var result recommend.Result
	data, _ := json.Marshal(envelope.Data)
	require.NoError(t, json.Unmarshal(data, &result))
	return result
}

func TestServer_Health(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestServer_GetRecommendations_General(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations?skillLevel=beginner", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeResult(t, w.Body)
	require.Len(t, result.Projects, 2, "beginners should not see the advanced seed project")
	assert.Equal(t, 90, result.Projects[0].MatchScore)
	assert.Equal(t, []string{"beginner"}, result.MatchingCriteria)
}

func TestServer_GetRecommendations_NoParams(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	result := decodeResult(t, w.Body)
	assert.Equal(t, []string{"general"}, result.MatchingCriteria)
	assert.NotEmpty(t, result.Projects)
}

func TestServer_GetRecommendations_UnknownUser(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/recommendations?userId=does-not-exist", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "an unknown user degrades to an empty result, not an error")
	result := decodeResult(t, w.Body)
	assert.Empty(t, result.Projects)
	assert.Zero(t, result.TotalCount)
	assert.Contains(t, w.Body.String(), `"projects":[]`, "projects must serialize as [] rather than null")
}

func TestServer_GetRecommendations_Personalized(t *testing.T) {
	_, router := newTestServer(t)
	auth := signupAndLogin(t, router, "personal@example.com")

	url := fmt.Sprintf("/api/recommendations?userId=%s", auth.User.ID)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeResult(t, w.Body)
	require.NotEmpty(t, result.Projects)
	assert.Equal(t, 95, result.Projects[0].MatchScore, "personalized scores start at 95")
	assert.Contains(t, result.Projects[0].Reasons, "Matches your intermediate level")
}

func TestServer_GetRecommendations_LimitValidation(t *testing.T) {
	_, router := newTestServer(t)

	for _, raw := range []string{"0", "-3", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/recommendations?limit="+raw, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "limit=%s should be rejected", raw)
	}
}

func TestServer_PostRecommendations(t *testing.T) {
	_, router := newTestServer(t)

	body, _ := json.Marshal(map[string]any{
		"skillLevel":            "advanced",
		"interests":             []string{"web development"},
		"preferredTechnologies": []string{"React"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeResult(t, w.Body)
	require.Len(t, result.Projects, 1, "only the seeded React project matches the preference")
	assert.Equal(t, "1", result.Projects[0].ID)
	assert.Equal(t, 95, result.Projects[0].MatchScore)
	assert.Equal(t, []string{"advanced", "web development", "React"}, result.MatchingCriteria)
}

func TestServer_PostRecommendations_EmptyBody(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", bytes.NewReader([]byte("{}")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	result := decodeResult(t, w.Body)
	assert.Equal(t, []string{"beginner"}, result.MatchingCriteria, "empty criteria default to beginner")
}

func TestServer_PostRecommendations_InvalidSkillLevel(t *testing.T) {
	_, router := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"skillLevel": "expert"})
	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation error")
}

func TestServer_ListProjects(t *testing.T) {
	_, router := newTestServer(t)

	tests := []struct {
		name       string
		url        string
		wantStatus int
		wantCount  int
	}{
		{name: "all projects", url: "/api/projects", wantStatus: http.StatusOK, wantCount: 3},
		{name: "by difficulty", url: "/api/projects?difficulty=beginner", wantStatus: http.StatusOK, wantCount: 1},
		{name: "by technology substring", url: "/api/projects?technology=script", wantStatus: http.StatusOK, wantCount: 1},
		{name: "no technology match", url: "/api/projects?technology=cobol", wantStatus: http.StatusOK, wantCount: 0},
		{name: "invalid difficulty", url: "/api/projects?difficulty=expert", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			envelope := decodeEnvelope(t, w.Body)
			var payload struct {
				Projects   []recommend.Project `json:"projects"`
				TotalCount int                 `json:"totalCount"`
			}
			data, _ := json.Marshal(envelope.Data)
			require.NoError(t, json.Unmarshal(data, &payload))
			assert.Len(t, payload.Projects, tt.wantCount)
			assert.Equal(t, tt.wantCount, payload.TotalCount)
		})
	}
}

func TestServer_UsersMe_RequiresAuth(t *testing.T) {
	_, router := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_UsersMe_GetAndUpdate(t *testing.T) {
	_, router := newTestServer(t)
	auth := signupAndLogin(t, router, "me@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "me@example.com")

	body, _ := json.Marshal(map[string]any{
		"experience":     "advanced",
		"timeCommitment": "10+",
	})
	req = httptest.NewRequest(http.MethodPut, "/api/users/me", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	envelope := decodeEnvelope(t, w.Body)
	var user types.User
	data, _ := json.Marshal(envelope.Data)
	require.NoError(t, json.Unmarshal(data, &user))
	assert.Equal(t, "advanced", user.Experience)
	assert.Equal(t, "10+", user.TimeCommitment)
	assert.Equal(t, "Ada", user.FirstName, "omitted fields keep their stored values")
}

func TestServer_LogoutClosesUsersMe(t *testing.T) {
	_, router := newTestServer(t)
	auth := signupAndLogin(t, router, "logout@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code, "a revoked session must not open protected routes")
}
