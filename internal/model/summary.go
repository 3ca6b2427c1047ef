package model

import (
	"time"
)

// SummaryEntry is one completion as shown in the week summary.
type SummaryEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	CompletedAt time.Time `json:"completedAt"`
}

// SummaryDay groups a local calendar date with its completions, newest
// first.
type SummaryDay struct {
	Date        string         `json:"date"`
	Completions []SummaryEntry `json:"completions"`
}

// WeekSummary is the read model for one ISO week of activity. Days are
// ordered by date descending.
type WeekSummary struct {
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
	PerDay    []SummaryDay `json:"goalsPerDay"`
}

// PendingGoal is a goal whose current-week completion count is below its
// desired weekly frequency.
type PendingGoal struct {
	ID                     string `db:"id" json:"id"`
	Title                  string `db:"title" json:"title"`
	DesiredWeeklyFrequency int    `db:"desired_weekly_frequency" json:"desiredWeeklyFrequency"`
	CompletionCount        int    `db:"completion_count" json:"completionCount"`
}
