package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGoalTitle(t *testing.T) {
	assert.NoError(t, ValidateGoalTitle("meditate"))
	assert.Error(t, ValidateGoalTitle(""))
	assert.Error(t, ValidateGoalTitle("   "))
	assert.Error(t, ValidateGoalTitle(strings.Repeat("a", 101)))
}

func TestValidateWeeklyFrequency(t *testing.T) {
	for f := 1; f <= 7; f++ {
		assert.NoError(t, ValidateWeeklyFrequency(f))
	}
	assert.Error(t, ValidateWeeklyFrequency(0))
	assert.Error(t, ValidateWeeklyFrequency(8))
	assert.Error(t, ValidateWeeklyFrequency(-1))
}
