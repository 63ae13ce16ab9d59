package models

// BestWeek describes the seven-day block with the most completions.
type BestWeek struct {
	Start       string `json:"start"` // YYYY-MM-DD format
	End         string `json:"end"`   // YYYY-MM-DD format
	Completions int    `json:"completions"`
}

// HabitStats is derived from a habit's logs on demand and never persisted.
type HabitStats struct {
	CurrentStreak    int      `json:"current_streak"`
	LongestStreak    int      `json:"longest_streak"`
	TotalCompletions int      `json:"total_completions"`
	MissedDays       int      `json:"missed_days"`
	CompletionRate   float64  `json:"completion_rate"`   // 0-100
	WeeklyProgress   float64  `json:"weekly_progress"`   // 0-100
	MonthlyProgress  float64  `json:"monthly_progress"`  // 0-100
	BestWeek         BestWeek `json:"best_week"`
	ConsistencyScore float64  `json:"consistency_score"` // 0-100
}
