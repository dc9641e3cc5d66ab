package salary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_SingleValue(t *testing.T) {
	assert.Equal(t, 25000, Parse("₱25,000"))
	assert.Equal(t, 45000, Parse("45000 per month"))
	assert.Equal(t, 60000, Parse("PHP 60,000.00"))
}

func TestParse_RangeAveragesEndpoints(t *testing.T) {
	assert.Equal(t, 30000, Parse("₱25,000 - ₱35,000"))
	assert.Equal(t, 50000, Parse("40000-60000"))
	// Odd sums round to the nearest integer
	assert.Equal(t, 25001, Parse("25000 - 25001"))
}

func TestParse_RejectsOutOfBounds(t *testing.T) {
	// Annual figures and placeholder values fall outside the monthly band
	assert.Equal(t, 0, Parse("₱7,500,000"))
	assert.Equal(t, 0, Parse("1000"))
	assert.Equal(t, 0, Parse("14999"))
	assert.Equal(t, 0, Parse("200001"))
}

func TestParse_BoundsAreInclusive(t *testing.T) {
	assert.Equal(t, 15000, Parse("15000"))
	assert.Equal(t, 200000, Parse("200,000"))
}

func TestParse_NoNumericToken(t *testing.T) {
	assert.Equal(t, 0, Parse(""))
	assert.Equal(t, 0, Parse("negotiable"))
	assert.Equal(t, 0, Parse("to be discussed"))
}

func TestParse_NeverOutsideValidSet(t *testing.T) {
	// For any input, the result is 0 or within the valid monthly band.
	inputs := []string{
		"", "abc", "₱25,000 - ₱35,000", "999999999", "0", "-5000",
		"12k", "25,000", "PHP30000 to PHP50000 depending on experience",
	}
	for _, in := range inputs {
		got := Parse(in)
		if got != 0 {
			assert.GreaterOrEqual(t, got, MinMonthlyPHP, "input %q", in)
			assert.LessOrEqual(t, got, MaxMonthlyPHP, "input %q", in)
		}
	}
}
