package models

import "time"

type ChallengeType string

const (
	ChallengeStreak      ChallengeType = "streak"
	ChallengeCompletion  ChallengeType = "completion"
	ChallengeConsistency ChallengeType = "consistency"
	ChallengeMultiHabit  ChallengeType = "multi-habit"
)

// Challenge is a time-boxed target. Its progress is always recomputed.
type Challenge struct {
	ID           string        `json:"id" validate:"required"`
	Name         string        `json:"name" validate:"required,max=100"`
	Description  string        `json:"description,omitempty"`
	Type         ChallengeType `json:"type" validate:"required,oneof=streak completion consistency multi-habit"`
	Target       float64       `json:"target" validate:"gt=0"`
	DurationDays int           `json:"duration" validate:"gte=1"`
	StartDate    string        `json:"start_date" validate:"required,datetime=2006-01-02"` // YYYY-MM-DD format
	EndDate      string        `json:"end_date" validate:"omitempty,datetime=2006-01-02"`  // YYYY-MM-DD format
	Active       bool          `json:"active"`
	HabitIDs     []string      `json:"habit_ids,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
