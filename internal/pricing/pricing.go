// Package pricing computes per-role and aggregate monthly costs for a quote.
package pricing

import (
	"strings"

	"github.com/mcabrera/teamquote/internal/currency"
	"github.com/mcabrera/teamquote/internal/types"
)

// levelMultipliers is the computational multiplier table. Lower seniority
// carries a higher multiplier because recruitment and supervision overhead
// dominates the smaller base salary.
var levelMultipliers = map[types.ExperienceLevel]float64{
	types.LevelEntry:  1.7,
	types.LevelMid:    1.5,
	types.LevelSenior: 1.4,
}

// Multiplier returns the level multiplier for a role's experience level.
// Unknown levels are priced as mid.
func Multiplier(level types.ExperienceLevel) float64 {
	if m, ok := levelMultipliers[level]; ok {
		return m
	}
	return levelMultipliers[types.LevelMid]
}

// fallbackSalaries holds monthly PHP base salaries by role category and
// level, used when no candidate pool average is available for a role.
var fallbackSalaries = map[string]map[types.ExperienceLevel]float64{
	"developer":  {types.LevelEntry: 35000, types.LevelMid: 55000, types.LevelSenior: 85000},
	"designer":   {types.LevelEntry: 28000, types.LevelMid: 42000, types.LevelSenior: 65000},
	"marketing":  {types.LevelEntry: 26000, types.LevelMid: 40000, types.LevelSenior: 60000},
	"accounting": {types.LevelEntry: 26000, types.LevelMid: 42000, types.LevelSenior: 65000},
	"sales":      {types.LevelEntry: 25000, types.LevelMid: 38000, types.LevelSenior: 58000},
	"support":    {types.LevelEntry: 24000, types.LevelMid: 34000, types.LevelSenior: 50000},
	"admin":      {types.LevelEntry: 22000, types.LevelMid: 32000, types.LevelSenior: 48000},
}

// defaultSalaries applies when a role title matches no known category.
var defaultSalaries = map[types.ExperienceLevel]float64{
	types.LevelEntry:  25000,
	types.LevelMid:    40000,
	types.LevelSenior: 60000,
}

// FallbackSalaryPHP returns the lookup-table base salary for a role title
// and level, in PHP.
func FallbackSalaryPHP(roleTitle string, level types.ExperienceLevel) float64 {
	if !level.Valid() {
		level = types.LevelMid
	}
	lower := strings.ToLower(roleTitle)
	for category, byLevel := range fallbackSalaries {
		if strings.Contains(lower, category) {
			return byLevel[level]
		}
	}
	return defaultSalaries[level]
}

// workspaceCosts is the fixed three-tier monthly workspace add-on per
// currency. Values are flat per-currency figures, not live conversions.
var workspaceCosts = map[string]map[types.WorkspaceType]float64{
	"PHP": {types.WorkspaceWFH: 8000, types.WorkspaceHybrid: 12000, types.WorkspaceOffice: 16000},
	"USD": {types.WorkspaceWFH: 140, types.WorkspaceHybrid: 210, types.WorkspaceOffice: 280},
	"AUD": {types.WorkspaceWFH: 216, types.WorkspaceHybrid: 324, types.WorkspaceOffice: 432},
	"CAD": {types.WorkspaceWFH: 194, types.WorkspaceHybrid: 290, types.WorkspaceOffice: 387},
	"GBP": {types.WorkspaceWFH: 111, types.WorkspaceHybrid: 167, types.WorkspaceOffice: 222},
	"EUR": {types.WorkspaceWFH: 130, types.WorkspaceHybrid: 196, types.WorkspaceOffice: 261},
	"NZD": {types.WorkspaceWFH: 234, types.WorkspaceHybrid: 350, types.WorkspaceOffice: 467},
	"SGD": {types.WorkspaceWFH: 189, types.WorkspaceHybrid: 283, types.WorkspaceOffice: 378},
}

// SupportsCurrency reports whether quotes can be priced in a currency. The
// workspace add-on is a flat per-currency table, so a live exchange rate
// alone is not enough; a currency outside the table would price workspaces
// at zero.
func SupportsCurrency(currencyCode string) bool {
	_, ok := workspaceCosts[currencyCode]
	return ok
}

// WorkspaceCost returns the fixed monthly workspace cost for a workspace
// type in the given currency. Unknown currencies fall back to converting
// nothing; they return 0 and false.
func WorkspaceCost(workspace types.WorkspaceType, currencyCode string) (float64, bool) {
	byType, ok := workspaceCosts[currencyCode]
	if !ok {
		return 0, false
	}
	cost, ok := byType[workspace]
	return cost, ok
}

// RoleInput pairs a role requirement with the salary basis derived from its
// candidate pool. PoolAverageSalary of 0 means no usable pool average.
type RoleInput struct {
	Role              types.RoleRequirement
	PoolAverageSalary int
}

// Totals aggregates the cost components across all roles of a quote.
type Totals struct {
	StaffCost     float64
	WorkspaceCost float64
	MonthlyCost   float64
}

// Engine prices role requirements in a target currency.
type Engine struct {
	converter *currency.Converter
}

// NewEngine creates a pricing engine backed by the given currency converter.
func NewEngine(converter *currency.Converter) *Engine {
	return &Engine{converter: converter}
}

// PriceRoleAt computes the monthly cost breakdown for one role requirement
// using an explicit PHP-to-target rate. Every requirement is exactly one
// person; no quantity is applied anywhere.
func PriceRoleAt(input RoleInput, currencyCode string, rate float64) types.RoleCost {
	base := float64(input.PoolAverageSalary)
	if base <= 0 {
		base = FallbackSalaryPHP(input.Role.Title, input.Role.ExperienceLevel)
	}

	converted := base * rate
	multiplier := Multiplier(input.Role.ExperienceLevel)
	staff := converted * multiplier
	workspace, _ := WorkspaceCost(input.Role.WorkspaceType, currencyCode)

	return types.RoleCost{
		Role:            input.Role,
		BaseSalaryPHP:   base,
		ConvertedSalary: converted,
		LevelMultiplier: multiplier,
		StaffCost:       staff,
		WorkspaceCost:   workspace,
		TotalCost:       staff + workspace,
	}
}

// PriceRole prices one role at the converter's current rate.
func (e *Engine) PriceRole(input RoleInput, currencyCode string) types.RoleCost {
	return PriceRoleAt(input, currencyCode, e.converter.Rate(currencyCode))
}

// Price computes per-role costs and quote-level totals. The rate is read
// from the converter exactly once and returned so callers can freeze it
// into the quote; a background rate refresh mid-computation cannot produce
// mixed-rate totals. The grand total is exactly the sum of the per-role
// totals.
func (e *Engine) Price(inputs []RoleInput, currencyCode string) ([]types.RoleCost, Totals, float64) {
	rate := e.converter.Rate(currencyCode)
	costs := make([]types.RoleCost, 0, len(inputs))
	var totals Totals
	for _, input := range inputs {
		cost := PriceRoleAt(input, currencyCode, rate)
		costs = append(costs, cost)
		totals.StaffCost += cost.StaffCost
		totals.WorkspaceCost += cost.WorkspaceCost
	}
	totals.MonthlyCost = totals.StaffCost + totals.WorkspaceCost
	return costs, totals, rate
}
