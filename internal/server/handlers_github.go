package server

import (
	"errors"
	"net/http"

	"github.com/codepath/recommender/internal/github"
)

// handleGithubProfile serves GET /api/github/{username}, proxying a public
// GitHub profile summary for prefill during signup.
func (s *Server) handleGithubProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		failResponse(w, http.StatusBadRequest, "username is required")
		return
	}

	profile, err := s.github.FetchProfile(r.Context(), username)
	if err != nil {
		var notFound *github.NotFoundError
		if errors.As(err, &notFound) {
			failResponse(w, http.StatusNotFound, notFound.Error())
			return
		}
		failResponse(w, http.StatusBadGateway, "Failed to fetch GitHub profile")
		return
	}

	successResponse(w, http.StatusOK, profile)
}
