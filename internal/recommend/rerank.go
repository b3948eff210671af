package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/codepath/recommender/internal/llm"
	"github.com/codepath/recommender/internal/prompts"
)

// DefaultRerankTimeout bounds the single model call so a slow endpoint cannot
// stall a request; on expiry the stage falls back to rule-based order.
const DefaultRerankTimeout = 8 * time.Second

// jsonPattern extracts the first JSON object-or-array substring from model
// output that wraps its JSON in explanatory prose.
var jsonPattern = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)

// rerankSchema is the shape the model is asked to return. Payloads that do
// not validate are discarded and the input order is kept.
const rerankSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id"],
    "properties": {
      "id": {"type": ["string", "number"]},
      "score": {"type": "number"},
      "reasons": {"type": "array", "items": {"type": "string"}}
    }
  }
}`

type rerankEntry struct {
	ID      any      `json:"id"`
	Score   *float64 `json:"score"`
	Reasons []string `json:"reasons"`
}

// Reranker reorders and annotates candidates with a text-generation model.
// Every failure mode is absorbed: the stage returns its input unchanged and
// logs for operators. Model assistance is best-effort enrichment, never a
// hard dependency, and the call is attempted exactly once per request.
type Reranker struct {
	client  llm.Client
	timeout time.Duration
}

// NewReranker creates a re-ranking stage backed by the given client. A nil
// client yields a pass-through stage.
func NewReranker(client llm.Client) *Reranker {
	return &Reranker{client: client, timeout: DefaultRerankTimeout}
}

// Rerank asks the model to score the candidates against the criteria and
// merges the result. The returned slice always contains exactly the input
// candidates: the model can reorder and annotate, it cannot add or drop.
func (r *Reranker) Rerank(ctx context.Context, candidates []Candidate, c Criteria) []Candidate {
	if r == nil || r.client == nil || len(candidates) == 0 {
		return candidates
	}

	prompt, err := r.buildPrompt(candidates, c)
	if err != nil {
		log.Printf("rerank: failed to build prompt: %v", err)
		return candidates
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		log.Printf("rerank: model call failed, keeping rule-based order: %v", err)
		return candidates
	}

	entries, ok := parseRerankPayload(text)
	if !ok {
		log.Printf("rerank: unusable model payload, keeping rule-based order")
		return candidates
	}

	return mergeReranked(candidates, entries)
}

// compactProject is the trimmed candidate view serialized into the prompt.
type compactProject struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Difficulty   string   `json:"difficulty"`
}

func (r *Reranker) buildPrompt(candidates []Candidate, c Criteria) (string, error) {
	compact := make([]compactProject, 0, len(candidates))
	for _, cand := range candidates {
		compact = append(compact, compactProject{
			ID:           cand.ID,
			Title:        cand.Title,
			Description:  cand.Description,
			Technologies: cand.Technologies,
			Difficulty:   cand.Difficulty,
		})
	}

	projectsJSON, err := json.Marshal(compact)
	if err != nil {
		return "", fmt.Errorf("failed to marshal candidates: %w", err)
	}
	interestsJSON, err := json.Marshal(emptyIfNil(c.Interests))
	if err != nil {
		return "", fmt.Errorf("failed to marshal interests: %w", err)
	}
	technologiesJSON, err := json.Marshal(emptyIfNil(c.PreferredTechnologies))
	if err != nil {
		return "", fmt.Errorf("failed to marshal technologies: %w", err)
	}

	level := c.Experience
	if level == "" {
		level = LevelBeginner
	}

	template := prompts.MustGet("recommend.json", "rank-projects")
	return prompts.Format(template, map[string]string{
		"Level":        level,
		"Interests":    string(interestsJSON),
		"Technologies": string(technologiesJSON),
		"Projects":     string(projectsJSON),
	}), nil
}

// parseRerankPayload extracts and validates the ranked array from raw model
// text. Returns ok=false whenever the payload cannot be trusted.
func parseRerankPayload(text string) ([]rerankEntry, bool) {
	text = llm.CleanJSONBlock(text)

	raw := jsonPattern.FindString(text)
	if raw == "" {
		raw = strings.TrimSpace(text)
	}
	if raw == "" {
		return nil, false
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(rerankSchema),
		gojsonschema.NewStringLoader(raw),
	)
	if err != nil || !result.Valid() {
		return nil, false
	}

	var entries []rerankEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, false
	}
	return entries, true
}

// mergeReranked applies model scores and reasons onto the candidate set.
// Unknown ids are dropped, duplicates keep their first occurrence, and
// candidates the model omitted are appended afterwards in their original
// relative order, so the output is a permutation of the input.
func mergeReranked(candidates []Candidate, entries []rerankEntry) []Candidate {
	byID := make(map[string]Candidate, len(candidates))
	for _, cand := range candidates {
		byID[cand.ID] = cand
	}

	merged := make([]Candidate, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, entry := range entries {
		id := entryID(entry.ID)
		base, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		if entry.Score != nil {
			base.MatchScore = clampScore(int(math.Round(*entry.Score)))
		}
		if len(entry.Reasons) > 0 {
			base.Reasons = entry.Reasons
		}
		merged = append(merged, base)
		seen[id] = true
	}

	for _, cand := range candidates {
		if !seen[cand.ID] {
			merged = append(merged, cand)
		}
	}
	return merged
}

// entryID normalizes the model-returned id to a string; models reply with
// either "1" or 1 for the same candidate.
func entryID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
