// Package types provides type definitions for structured data used throughout the teamquote system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// RoleCost holds the computed monthly cost breakdown for one role requirement.
type RoleCost struct {
	Role            RoleRequirement `json:"role"`
	BaseSalaryPHP   float64         `json:"base_salary_php"`
	ConvertedSalary float64         `json:"converted_salary"`
	LevelMultiplier float64         `json:"level_multiplier"`
	StaffCost       float64         `json:"staff_cost"`
	WorkspaceCost   float64         `json:"workspace_cost"`
	TotalCost       float64         `json:"total_cost"`
}

// Quote is a persisted pricing proposal produced by one completed wizard run.
// CurrencyRate is the PHP-to-target rate frozen at finalization time; later
// rate refreshes never alter a finalized quote.
type Quote struct {
	ID                 uuid.UUID             `json:"id"`
	MemberCount        int                   `json:"member_count"`
	Industry           string                `json:"industry,omitempty"`
	Roles              []RoleCost            `json:"roles"`
	TotalStaffCost     float64               `json:"total_staff_cost"`
	TotalWorkspaceCost float64               `json:"total_workspace_cost"`
	TotalMonthlyCost   float64               `json:"total_monthly_cost"`
	CurrencyCode       string                `json:"currency_code"`
	CurrencyRate       float64               `json:"currency_rate"`
	Recommendations    []RoleRecommendations `json:"recommendations,omitempty"`
	RankedCandidates   []RankedCandidate     `json:"ranked_candidates,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
}
