package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/codepath/recommender/internal/recommend"
	"github.com/codepath/recommender/internal/types"
)

// handleGetRecommendations serves GET /api/recommendations. All parameters
// are optional query values; an unknown userId degrades to an empty result.
func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := recommend.GetRequest{
		UserID:     q.Get("userId"),
		SkillLevel: q.Get("skillLevel"),
		Interests:  splitCSV(q.Get("interests")),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			failResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		req.Limit = limit
	}

	result, err := s.recommendations.Recommend(r.Context(), req)
	if err != nil {
		failResponse(w, http.StatusInternalServerError, "Failed to generate recommendations")
		return
	}

	successResponse(w, http.StatusOK, result)
}

// handlePostRecommendations serves POST /api/recommendations, the
// criteria-driven path that may consult the LLM re-ranker.
func (s *Server) handlePostRecommendations(w http.ResponseWriter, r *http.Request) {
	var req types.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.validator.Struct(req); err != nil {
		failResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	result, err := s.recommendations.RecommendByCriteria(r.Context(), recommend.CriteriaRequest{
		SkillLevel:            req.SkillLevel,
		Interests:             req.Interests,
		PreferredTechnologies: req.PreferredTechnologies,
	})
	if err != nil {
		failResponse(w, http.StatusInternalServerError, "Failed to generate recommendations")
		return
	}

	successResponse(w, http.StatusOK, result)
}

// splitCSV splits a comma-separated query value, trimming whitespace and
// dropping empty entries.
func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
