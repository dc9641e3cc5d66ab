// Package types provides type definitions for structured data used throughout the teamquote system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ExperienceLevel is the seniority bucket assigned to a candidate or requested for a role.
type ExperienceLevel string

// Experience levels, from least to most senior.
const (
	LevelEntry  ExperienceLevel = "entry"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
)

// Valid reports whether the level is one of the three known buckets.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case LevelEntry, LevelMid, LevelSenior:
		return true
	}
	return false
}

// WorkspaceType determines the fixed monthly workspace add-on cost for a role.
type WorkspaceType string

// Workspace types, from cheapest to most expensive tier.
const (
	WorkspaceWFH    WorkspaceType = "wfh"
	WorkspaceHybrid WorkspaceType = "hybrid"
	WorkspaceOffice WorkspaceType = "office"
)

// Valid reports whether the workspace type is one of the three known tiers.
func (w WorkspaceType) Valid() bool {
	switch w {
	case WorkspaceWFH, WorkspaceHybrid, WorkspaceOffice:
		return true
	}
	return false
}

// RoleRequirement represents one requested position in a quote.
// Each requirement is exactly one person; "same role for N people" is
// expanded into N separate requirements before it reaches the engine.
type RoleRequirement struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	WorkspaceType   WorkspaceType   `json:"workspace_type,omitempty"`
	Completed       bool            `json:"completed,omitempty"`
}
