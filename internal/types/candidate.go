// Package types provides type definitions for structured data used throughout the teamquote system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExperienceEntry represents one entry in a candidate's work history.
// Duration is free text from the upstream profile, e.g. "2 years" or "8 months".
type ExperienceEntry struct {
	Duration string `json:"duration"`
}

// CandidateRecord represents a raw candidate profile as returned by the pool provider.
type CandidateRecord struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Position            string            `json:"position"`
	ExpectedSalary      string            `json:"expected_salary"` // free text, may contain a range
	Skills              []string          `json:"skills,omitempty"`
	OverallScore        int               `json:"overall_score"`
	Experience          []ExperienceEntry `json:"experience,omitempty"`
	WorkStatusCompleted bool              `json:"work_status_completed"`
}

// CandidateRecommendation represents one candidate scored against a requested role.
type CandidateRecommendation struct {
	CandidateID    string          `json:"candidate_id"`
	Name           string          `json:"name"`
	Position       string          `json:"position"`
	MatchScore     int             `json:"match_score"`
	OverallScore   int             `json:"overall_score"`
	InferredLevel  ExperienceLevel `json:"inferred_level"`
	ExpectedSalary int             `json:"expected_salary"` // parsed monthly figure in PHP
	IsRecommended  bool            `json:"is_recommended"`
}

// RoleRecommendations is the result of matching the candidate pool against one role.
type RoleRecommendations struct {
	RoleID                string                    `json:"role_id,omitempty"`
	TotalCandidates       int                       `json:"total_candidates"`
	RecommendedCandidates []CandidateRecommendation `json:"recommended_candidates"`
	AverageSalary         int                       `json:"average_salary"`
}

// Tier is the display bucket derived from a candidate's overall score.
type Tier string

// Display tiers for ranked candidates.
const (
	TierGold   Tier = "gold"
	TierSilver Tier = "silver"
	TierBronze Tier = "bronze"
)

// RankedCandidate represents a candidate's position in the cross-role global ranking.
type RankedCandidate struct {
	CandidateRecommendation
	Rank int  `json:"rank"`
	Tier Tier `json:"tier"`
}
