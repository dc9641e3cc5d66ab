// Package matching scores how well a candidate's job title fits a requested role.
package matching

import (
	"math"
	"strings"
)

// Score bands returned by the rule ladder.
const (
	scoreContainment = 100
	scoreCategory    = 85
	maxTokenScore    = 70
	scoreWeak        = 20
	scoreUnrelated   = 10

	// MinRelatedScore is the floor below which a candidate is treated as
	// belonging to an unrelated domain entirely.
	MinRelatedScore = 20
)

// roleCategories maps a category name, as it may appear inside a requested
// role title, to synonyms commonly found in candidate position titles.
var roleCategories = map[string][]string{
	"developer": {
		"developer", "programmer", "engineer", "software", "frontend",
		"backend", "full stack", "fullstack", "web", "mobile", "devops",
	},
	"designer": {
		"designer", "design", "ui", "ux", "graphic", "creative", "illustrator",
	},
	"marketing": {
		"marketing", "seo", "social media", "content", "brand", "digital marketing",
	},
	"sales": {
		"sales", "account executive", "business development", "lead generation", "telemarketer",
	},
	"accounting": {
		"accounting", "accountant", "bookkeeper", "bookkeeping", "payroll", "audit", "finance",
	},
	"healthcare": {
		"healthcare", "nurse", "nursing", "medical", "clinical", "health", "caregiver",
	},
	"support": {
		"support", "customer service", "customer care", "helpdesk", "help desk", "csr",
	},
	"admin": {
		"admin", "administrative", "virtual assistant", "executive assistant",
		"office assistant", "secretary", "data entry",
	},
	"recruitment": {
		"recruitment", "recruiter", "talent", "sourcing", "hr", "human resources",
	},
	"engineer": {
		"engineer", "engineering", "developer", "architect", "technician",
	},
	"real estate": {
		"real estate", "property", "realty", "leasing", "broker",
	},
	"legal": {
		"legal", "paralegal", "lawyer", "attorney", "compliance",
	},
	"writer": {
		"writer", "writing", "copywriter", "editor", "content", "transcription",
	},
}

// Score rates the similarity between a candidate's position title and a
// requested role on a 0-100 scale.
//
// The rule ladder, most specific first:
//  1. one title contains the other: 100
//  2. the target names a known category and the candidate title carries one
//     of that category's synonyms: 85
//  3. token overlap, scaled so full overlap of the target's tokens is 70
//  4. no overlap and the candidate clearly belongs to a different domain: 10
//  5. otherwise a weak, unknown match: 20
//
// Score is deliberately asymmetric: only the target side is checked for a
// category name, so Score(a, b) and Score(b, a) can differ.
func Score(candidateTitle, targetRole string) int {
	candidate := normalize(candidateTitle)
	target := normalize(targetRole)
	if candidate == "" || target == "" {
		return 0
	}

	if strings.Contains(candidate, target) || strings.Contains(target, candidate) {
		return scoreContainment
	}

	for category, synonyms := range roleCategories {
		if !strings.Contains(target, category) {
			continue
		}
		for _, synonym := range synonyms {
			if strings.Contains(candidate, synonym) {
				return scoreCategory
			}
		}
	}

	targetTokens := significantTokens(target)
	candidateTokens := significantTokens(candidate)
	matched := 0
	for _, token := range targetTokens {
		for _, other := range candidateTokens {
			if token == other {
				matched++
				break
			}
		}
	}
	if matched > 0 && len(targetTokens) > 0 {
		ratio := float64(matched) / float64(len(targetTokens))
		return int(math.Round(ratio * maxTokenScore))
	}

	if belongsToForeignDomain(candidate, target) {
		return scoreUnrelated
	}

	return scoreWeak
}

// normalize lowercases and trims a title for comparison.
func normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// significantTokens splits on whitespace and keeps tokens longer than two
// characters, dropping filler like "of" and "to".
func significantTokens(s string) []string {
	fields := strings.Fields(s)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// belongsToForeignDomain reports whether the candidate title names a known
// category that the target title shows no trace of. A bookkeeper measured
// against a developer role lands here.
func belongsToForeignDomain(candidate, target string) bool {
	for category, synonyms := range roleCategories {
		if strings.Contains(target, category) {
			continue
		}
		targetInCategory := false
		for _, synonym := range synonyms {
			if strings.Contains(target, synonym) {
				targetInCategory = true
				break
			}
		}
		if targetInCategory {
			continue
		}
		for _, synonym := range synonyms {
			if strings.Contains(candidate, synonym) {
				return true
			}
		}
	}
	return false
}
