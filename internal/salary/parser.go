// Package salary extracts and validates monthly salary figures from free text.
package salary

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Validation bounds for a monthly salary in PHP. Values outside this range
// are treated as placeholder or mock data and rejected.
const (
	MinMonthlyPHP = 15000
	MaxMonthlyPHP = 200000
)

// numberPattern matches numeric tokens, allowing thousands separators
// ("25,000") and decimal fractions ("25000.50").
var numberPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// Parse extracts a monthly salary in PHP from free text.
//
// The text may contain currency symbols, thousands separators, and ranges
// ("₱25,000 - ₱35,000"). A range is resolved to the integer-rounded average
// of its two endpoints. Parse never fails: any input that does not yield a
// value inside [MinMonthlyPHP, MaxMonthlyPHP] returns 0, which callers treat
// as "exclude this candidate".
func Parse(text string) int {
	tokens := numberPattern.FindAllString(text, -1)
	if len(tokens) == 0 {
		return 0
	}

	first, ok := parseToken(tokens[0])
	if !ok {
		return 0
	}

	value := first
	if len(tokens) >= 2 {
		if second, ok := parseToken(tokens[1]); ok {
			value = math.Round((first + second) / 2)
		}
	}

	rounded := int(math.Round(value))
	if rounded < MinMonthlyPHP || rounded > MaxMonthlyPHP {
		return 0
	}
	return rounded
}

// parseToken converts a matched numeric token to a float, dropping thousands separators.
func parseToken(token string) (float64, bool) {
	cleaned := strings.ReplaceAll(token, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
