package recommend

import (
	"strconv"
	"strings"
)

// Score bases for the rank-derived placeholder scores. Each entry path has
// its own base; scores decrease by 5 per rank and are clamped at zero.
const (
	BasePersonalized = 95
	BaseGeneral      = 90
	BaseCriteria     = 95
)

// Filter applies the rule-based predicate pipeline to the project list and
// returns the admitted projects in their original relative order. No sorting
// happens here.
//
// Gates, in order:
//  1. Difficulty: beginners never see advanced projects. Intermediate and
//     advanced users see everything. The asymmetry is intentional product
//     behavior, not an oversight.
//  2. Technology: when preferred technologies are set, a project must share
//     at least one technology (exact match) with the preference list.
//  3. Time commitment: when set, a project's estimated hours must fit the
//     parsed "min-max" or "min+" range.
func Filter(projects []Project, c Criteria) []Project {
	experience := c.Experience
	if experience == "" {
		experience = LevelBeginner
	}

	min, max, hasMax := ParseTimeCommitment(c.TimeCommitment)

	var out []Project
	for _, p := range projects {
		if !admitsDifficulty(experience, p.Difficulty) {
			continue
		}
		if len(c.PreferredTechnologies) > 0 && !sharesTechnology(p.Technologies, c.PreferredTechnologies) {
			continue
		}
		if c.TimeCommitment != "" {
			if p.EstimatedHours < min {
				continue
			}
			if hasMax && p.EstimatedHours > max {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// Annotate turns filtered projects into candidates with rank-derived scores
// and the given reasons. Rank is the zero-based position in the filtered
// sequence, so scores read base, base-5, base-10, ...
func Annotate(projects []Project, base int, reasons []string) []Candidate {
	candidates := make([]Candidate, 0, len(projects))
	for i, p := range projects {
		candidates = append(candidates, Candidate{
			Project:    p,
			MatchScore: MatchScore(base, i),
			Reasons:    reasons,
		})
	}
	return candidates
}

// MatchScore computes the placeholder score for a candidate at the given
// zero-based rank, clamped to be non-negative so large candidate sets never
// produce scores outside [0,100].
func MatchScore(base, rank int) int {
	score := base - 5*rank
	if score < 0 {
		return 0
	}
	return score
}

// ParseTimeCommitment parses a weekly time range like "5-10" or "10+".
// A trailing "+" means no upper bound. Unparseable input yields min 0 and no
// maximum, which admits everything.
func ParseTimeCommitment(s string) (min, max int, hasMax bool) {
	if s == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(s, "-", 2)
	min, _ = strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(parts[0]), "+"))
	if len(parts) == 2 {
		upper, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(parts[1]), "+"))
		if err == nil {
			return min, upper, true
		}
	}
	return min, 0, false
}

func admitsDifficulty(experience, difficulty string) bool {
	if experience == LevelBeginner {
		return difficulty != LevelAdvanced
	}
	return true
}

func sharesTechnology(have, want []string) bool {
	for _, tech := range have {
		for _, preferred := range want {
			if tech == preferred {
				return true
			}
		}
	}
	return false
}
