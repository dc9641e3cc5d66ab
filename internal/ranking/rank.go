// Package ranking merges per-role recommendation sets into one global candidate ranking.
package ranking

import (
	"sort"

	"github.com/mcabrera/teamquote/internal/types"
)

// Overall-score thresholds for the display tiers.
const (
	goldThreshold   = 80
	silverThreshold = 60
)

// Rank merges the recommendation sets of all roles in a quote into a single
// ranked list.
//
// A candidate shortlisted for several roles appears once: the first
// occurrence wins, in role order then shortlist order. The merged set is
// sorted by overall score, ties broken by match score, and ranks are
// assigned 1..N. Tiers are derived from the overall score alone.
func Rank(perRole []types.RoleRecommendations) []types.RankedCandidate {
	seen := make(map[string]bool)
	merged := make([]types.CandidateRecommendation, 0)
	for _, role := range perRole {
		for _, c := range role.RecommendedCandidates {
			if seen[c.CandidateID] {
				continue
			}
			seen[c.CandidateID] = true
			merged = append(merged, c)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].OverallScore != merged[j].OverallScore {
			return merged[i].OverallScore > merged[j].OverallScore
		}
		return merged[i].MatchScore > merged[j].MatchScore
	})

	ranked := make([]types.RankedCandidate, len(merged))
	for i, c := range merged {
		ranked[i] = types.RankedCandidate{
			CandidateRecommendation: c,
			Rank:                    i + 1,
			Tier:                    TierFor(c.OverallScore),
		}
	}
	return ranked
}

// TierFor maps an overall score to its display tier.
func TierFor(overallScore int) types.Tier {
	switch {
	case overallScore >= goldThreshold:
		return types.TierGold
	case overallScore >= silverThreshold:
		return types.TierSilver
	default:
		return types.TierBronze
	}
}
