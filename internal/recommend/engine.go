// Package recommend filters, scores and ranks a candidate pool against a single requested role.
package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/mcabrera/teamquote/internal/experience"
	"github.com/mcabrera/teamquote/internal/matching"
	"github.com/mcabrera/teamquote/internal/salary"
	"github.com/mcabrera/teamquote/internal/types"
)

// maxRecommended is the size of the recommended shortlist per role.
const maxRecommended = 10

// minStrictResults is the shortlist size below which the relaxed pass runs.
const minStrictResults = 3

// Thresholds for the strict and relaxed inclusion rules and for the
// recommended flag.
const (
	strictHighScore   = 50
	strictLowScore    = 30
	relaxedMatchScore = 25
	relaxedOverall    = 60
	recommendedScore  = 70
)

// placeholderDenylist marks candidate records that are obviously seeded test
// data. Matched case-insensitively against both name and position.
var placeholderDenylist = []string{"test", "mock", "sample", "dummy", "placeholder", "asdf"}

// Request describes one role to match candidates against.
type Request struct {
	RoleTitle string
	Level     types.ExperienceLevel
	Industry  string
}

// Recommend scores the candidate pool against the requested role and returns
// a shortlist of at most ten candidates.
//
// Candidates are dropped up front when their work status is incomplete,
// their expected salary does not parse, or they look like placeholder data.
// A match score below 20 always excludes a candidate as unrelated. The
// strict inclusion pass keeps candidates whose inferred level matches the
// request or whose match score clears the strict thresholds; when the strict
// shortlist holds fewer than three candidates, a relaxed pass is tried and
// its result used if it is larger.
//
// An empty or missing pool is not an error: the result simply reports zero
// candidates.
func Recommend(req Request, pool []types.CandidateRecord) types.RoleRecommendations {
	scored := scorePool(req, pool)

	strict := includeWith(scored, func(c types.CandidateRecommendation) bool {
		return c.InferredLevel == req.Level ||
			c.MatchScore >= strictHighScore ||
			c.MatchScore >= strictLowScore
	})

	selected := strict
	if len(strict) < minStrictResults {
		relaxed := includeWith(scored, func(c types.CandidateRecommendation) bool {
			return c.MatchScore >= relaxedMatchScore || c.OverallScore >= relaxedOverall
		})
		if len(relaxed) > len(strict) {
			selected = relaxed
		}
	}

	if len(selected) > maxRecommended {
		selected = selected[:maxRecommended]
	}

	return types.RoleRecommendations{
		TotalCandidates:       len(scored),
		RecommendedCandidates: selected,
		AverageSalary:         averageSalary(selected),
	}
}

// scorePool pre-filters the pool and computes scores and levels for the
// survivors. Candidates scoring below the relatedness floor are dropped here.
func scorePool(req Request, pool []types.CandidateRecord) []types.CandidateRecommendation {
	scored := make([]types.CandidateRecommendation, 0, len(pool))
	for i := range pool {
		c := &pool[i]
		if !c.WorkStatusCompleted || isPlaceholder(c) {
			continue
		}
		expected := salary.Parse(c.ExpectedSalary)
		if expected == 0 {
			continue
		}

		matchScore := matching.Score(c.Position, req.RoleTitle)
		if matchScore < matching.MinRelatedScore {
			continue
		}

		scored = append(scored, types.CandidateRecommendation{
			CandidateID:    c.ID,
			Name:           c.Name,
			Position:       c.Position,
			MatchScore:     matchScore,
			OverallScore:   c.OverallScore,
			InferredLevel:  experience.Classify(c),
			ExpectedSalary: expected,
			IsRecommended:  matchScore >= recommendedScore && c.OverallScore >= recommendedScore,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].MatchScore != scored[j].MatchScore {
			return scored[i].MatchScore > scored[j].MatchScore
		}
		return scored[i].OverallScore > scored[j].OverallScore
	})

	return scored
}

// includeWith applies an inclusion rule, preserving the sorted order.
func includeWith(scored []types.CandidateRecommendation, keep func(types.CandidateRecommendation) bool) []types.CandidateRecommendation {
	included := make([]types.CandidateRecommendation, 0, len(scored))
	for _, c := range scored {
		if keep(c) {
			included = append(included, c)
		}
	}
	return included
}

// isPlaceholder reports whether the record's name or position matches the
// seeded-data denylist.
func isPlaceholder(c *types.CandidateRecord) bool {
	name := strings.ToLower(c.Name)
	position := strings.ToLower(c.Position)
	for _, marker := range placeholderDenylist {
		if strings.Contains(name, marker) || strings.Contains(position, marker) {
			return true
		}
	}
	return false
}

// averageSalary returns the integer-rounded mean expected salary, or 0 for
// an empty shortlist.
func averageSalary(selected []types.CandidateRecommendation) int {
	if len(selected) == 0 {
		return 0
	}
	total := 0
	for _, c := range selected {
		total += c.ExpectedSalary
	}
	return int(math.Round(float64(total) / float64(len(selected))))
}
