package model

import (
	"time"
)

const (
	MinWeeklyFrequency = 1
	MaxWeeklyFrequency = 7
)

type Goal struct {
	ID                     string    `db:"id"`
	UserID                 string    `db:"user_id"`
	Title                  string    `db:"title"`
	DesiredWeeklyFrequency int       `db:"desired_weekly_frequency"`
	CreatedAt              time.Time `db:"created_at"`
}
