package server

import (
	"encoding/json"
	"net/http"

	"github.com/codepath/recommender/internal/server/middleware"
	"github.com/codepath/recommender/internal/types"
)

// handleGetMe serves GET /api/users/me for the authenticated user.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		failResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.userService.GetProfile(r.Context(), userID)
	if err != nil {
		failResponse(w, HTTPStatus(err), err.Error())
		return
	}

	successResponse(w, http.StatusOK, user)
}

// handleUpdateMe serves PUT /api/users/me for the authenticated user.
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		failResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		failResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	user, err := s.userService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		failResponse(w, HTTPStatus(err), err.Error())
		return
	}

	successResponse(w, http.StatusOK, user)
}
