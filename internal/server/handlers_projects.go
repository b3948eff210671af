package server

import (
	"net/http"

	"github.com/codepath/recommender/internal/recommend"
)

// handleListProjects serves GET /api/projects. Optional ?difficulty= and
// ?technology= filters narrow the catalog; difficulty wins when both are
// present.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	difficulty := q.Get("difficulty")
	technology := q.Get("technology")

	if difficulty != "" && !recommend.ValidLevel(difficulty) {
		failResponse(w, http.StatusBadRequest, "difficulty must be one of beginner, intermediate, advanced")
		return
	}

	var (
		projects []recommend.Project
		err      error
	)
	switch {
	case difficulty != "":
		projects, err = s.store.FindByDifficulty(r.Context(), difficulty)
	case technology != "":
		projects, err = s.store.FindByTechnology(r.Context(), technology)
	default:
		projects, err = s.store.FindAll(r.Context())
	}
	if err != nil {
		failResponse(w, http.StatusInternalServerError, "Failed to load projects")
		return
	}

	if projects == nil {
		projects = []recommend.Project{}
	}
	successResponse(w, http.StatusOK, map[string]any{
		"projects":   projects,
		"totalCount": len(projects),
	})
}
