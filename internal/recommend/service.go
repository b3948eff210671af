package recommend

import (
	"context"
	"fmt"
)

// Truncation limits for the two entry paths. The read path defaults to 5 and
// honors a caller-supplied limit; the criteria path always caps at 10. The
// divergence is contractual, not an accident to unify.
const (
	DefaultLimit  = 5
	CriteriaLimit = 10
)

// GetRequest is the read-path recommendation request. When UserID is set the
// request is personalized; otherwise SkillLevel drives a general match.
type GetRequest struct {
	UserID     string
	SkillLevel string
	Interests  []string
	Limit      int
}

// CriteriaRequest is the rich criteria-driven request served by the POST
// endpoint, eligible for LLM re-ranking.
type CriteriaRequest struct {
	SkillLevel            string
	Interests             []string
	PreferredTechnologies []string
}

// Service orchestrates the filter and re-ranking stages over the injected
// stores. All request processing is stateless; the only shared state lives
// behind the store interfaces.
type Service struct {
	projects ProjectStore
	users    UserStore
	reranker *Reranker
}

// NewService creates the recommendation orchestrator. reranker may be nil,
// which disables the LLM stage entirely.
func NewService(projects ProjectStore, users UserStore, reranker *Reranker) *Service {
	return &Service{projects: projects, users: users, reranker: reranker}
}

// Recommend serves the read path. An unknown user id yields an empty result,
// not an error; only store failures propagate.
func (s *Service) Recommend(ctx context.Context, req GetRequest) (*Result, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	criteria := echoCriteria(req.SkillLevel, req.Interests)

	if req.UserID != "" {
		profile, err := s.users.GetProfile(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load user profile: %w", err)
		}
		if profile == nil {
			return assemble(nil, limit, criteria), nil
		}

		projects, err := s.projects.RecommendForUser(ctx, profile)
		if err != nil {
			return nil, fmt.Errorf("failed to load personalized projects: %w", err)
		}
		candidates := Annotate(projects, BasePersonalized, []string{
			fmt.Sprintf("Matches your %s level", profile.Experience),
			"Aligns with your interests",
		})
		return assemble(candidates, limit, criteria), nil
	}

	level := req.SkillLevel
	if level == "" {
		level = LevelBeginner
	}
	all, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	filtered := Filter(all, Criteria{Experience: level})
	candidates := Annotate(filtered, BaseGeneral, []string{
		fmt.Sprintf("Perfect for %s level", level),
		"Popular project type",
	})
	return assemble(candidates, limit, criteria), nil
}

// RecommendByCriteria serves the rich POST path: full rule-based filter,
// then the optional LLM re-ranking stage, truncated to the fixed cap.
func (s *Service) RecommendByCriteria(ctx context.Context, req CriteriaRequest) (*Result, error) {
	level := req.SkillLevel
	if level == "" {
		level = LevelBeginner
	}

	all, err := s.projects.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	criteria := Criteria{
		Experience:            level,
		Interests:             req.Interests,
		PreferredTechnologies: req.PreferredTechnologies,
	}
	filtered := Filter(all, Criteria{
		Experience:            level,
		PreferredTechnologies: req.PreferredTechnologies,
	})
	candidates := Annotate(filtered, BaseCriteria, []string{
		fmt.Sprintf("Matches %s level", level),
		"Uses preferred technologies",
	})
	candidates = s.reranker.Rerank(ctx, candidates, criteria)

	echo := append([]string{level}, req.Interests...)
	echo = append(echo, req.PreferredTechnologies...)
	return assemble(candidates, CriteriaLimit, echo), nil
}

// echoCriteria builds the matching-criteria echo for the read path: the
// supplied skill level plus interests, or the "general" marker.
func echoCriteria(skillLevel string, interests []string) []string {
	if skillLevel == "" {
		return []string{"general"}
	}
	return append([]string{skillLevel}, interests...)
}

func assemble(candidates []Candidate, limit int, criteria []string) *Result {
	total := len(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	if candidates == nil {
		candidates = []Candidate{}
	}
	return &Result{
		Projects:         candidates,
		TotalCount:       total,
		MatchingCriteria: criteria,
	}
}
