package validation

import (
	"errors"
	"strings"

	"github.com/orbitapp/orbit/internal/model"
)

// ValidateGoalTitle validates a goal title
func ValidateGoalTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("title is required")
	}

	if len(trimmed) > 100 {
		return errors.New("title is too long (max 100 characters)")
	}

	return nil
}

// ValidateWeeklyFrequency validates a goal's desired weekly frequency
func ValidateWeeklyFrequency(frequency int) error {
	if frequency < model.MinWeeklyFrequency || frequency > model.MaxWeeklyFrequency {
		return errors.New("desired weekly frequency must be between 1 and 7")
	}

	return nil
}
