// Package experience infers a candidate's seniority level from their profile.
package experience

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mcabrera/teamquote/internal/types"
)

// Total years of experience required for each bucket.
const (
	seniorYears = 5.0
	midYears    = 2.0
)

// Overall-score thresholds used when no work history is available.
const (
	seniorScore = 85
	midScore    = 70
)

var (
	yearsPattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:years?|yrs?)`)
	monthsPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:months?|mos?)`)

	seniorKeywords = []string{"senior", "lead", "manager", "director", "head", "chief"}
	entryKeywords  = []string{"junior", "associate", "entry", "trainee", "intern"}
)

// Classify assigns exactly one experience level to a candidate. It never
// returns an empty or unknown level.
//
// Signals are consulted in priority order: total duration of the work
// history, then the overall score, then seniority keywords in the position
// title. A candidate with no usable signal defaults to mid.
func Classify(c *types.CandidateRecord) types.ExperienceLevel {
	if len(c.Experience) > 0 {
		total := 0.0
		for _, entry := range c.Experience {
			total += parseDurationYears(entry.Duration)
		}
		switch {
		case total >= seniorYears:
			return types.LevelSenior
		case total >= midYears:
			return types.LevelMid
		default:
			return types.LevelEntry
		}
	}

	if c.OverallScore >= seniorScore {
		return types.LevelSenior
	}
	if c.OverallScore >= midScore {
		return types.LevelMid
	}

	if level, ok := classifyTitle(c.Position); ok {
		return level
	}

	return types.LevelMid
}

// parseDurationYears converts a free-text duration like "3 years" or
// "8 months" into years. Unparseable text counts as zero.
func parseDurationYears(text string) float64 {
	lower := strings.ToLower(text)
	total := 0.0

	if m := yearsPattern.FindStringSubmatch(lower); m != nil {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += years
		}
	}
	if m := monthsPattern.FindStringSubmatch(lower); m != nil {
		if months, err := strconv.ParseFloat(m[1], 64); err == nil {
			total += months / 12
		}
	}

	return total
}

// classifyTitle inspects a position title for seniority keywords.
func classifyTitle(title string) (types.ExperienceLevel, bool) {
	lower := strings.ToLower(title)
	for _, kw := range seniorKeywords {
		if strings.Contains(lower, kw) {
			return types.LevelSenior, true
		}
	}
	for _, kw := range entryKeywords {
		if strings.Contains(lower, kw) {
			return types.LevelEntry, true
		}
	}
	return "", false
}
