package achievements

import (
	"time"

	"github.com/julianstephens/habitlens/internal/constants"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/stats"
	"github.com/julianstephens/habitlens/internal/utils"
)

// ProgressFunc measures live progress toward a goal for a habit collection at now.
type ProgressFunc func(habits []models.Habit, now time.Time) float64

// Definition is a static, code-defined achievement. IDs are persisted in
// unlock records, so they must never change.
type Definition struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Goal        float64
	Progress    ProgressFunc
}

var definitions = []Definition{
	{ID: "first_step", Name: "First Step", Description: "Complete a habit for the first time", Icon: "🌱", Goal: 1, Progress: totalCompletions},
	{ID: "week_warrior", Name: "Week Warrior", Description: "Reach a 7-day streak on any habit", Icon: "🔥", Goal: 7, Progress: maxCurrentStreak},
	{ID: "fortnight_focus", Name: "Fortnight Focus", Description: "Reach a 14-day streak on any habit", Icon: "💪", Goal: 14, Progress: maxCurrentStreak},
	{ID: "month_master", Name: "Month Master", Description: "Reach a 30-day streak on any habit", Icon: "🏆", Goal: 30, Progress: maxCurrentStreak},
	{ID: "century", Name: "Century", Description: "Log 100 completions in total", Icon: "💯", Goal: 100, Progress: totalCompletions},
	{ID: "habit_collector", Name: "Habit Collector", Description: "Track 5 active habits", Icon: "📚", Goal: 5, Progress: activeHabitCount},
	{ID: "perfect_week", Name: "Perfect Week", Description: "Complete a habit every day for a week", Icon: "📅", Goal: 100, Progress: maxWeeklyProgress},
	{ID: "consistency_king", Name: "Consistency King", Description: "Reach a consistency score of 90 on a habit done every week", Icon: "👑", Goal: 90, Progress: maxConsistency},
}

// Definitions returns the static achievement catalogue in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

func totalCompletions(habits []models.Habit, _ time.Time) float64 {
	total := 0
	for _, h := range habits {
		total += h.CompletedCount()
	}
	return float64(total)
}

func maxCurrentStreak(habits []models.Habit, now time.Time) float64 {
	best := 0
	for _, h := range habits {
		if s := stats.CurrentStreak(h, now); s > best {
			best = s
		}
	}
	return float64(best)
}

func activeHabitCount(habits []models.Habit, _ time.Time) float64 {
	return float64(len(models.ActiveHabits(habits)))
}

func maxWeeklyProgress(habits []models.Habit, now time.Time) float64 {
	best := 0.0
	for _, h := range habits {
		if p := stats.Calculate(h, now).WeeklyProgress; p > best {
			best = p
		}
	}
	return best
}

// maxConsistency skips habits with a week lacking any completion. A single
// completion in the window scores near 100 otherwise.
func maxConsistency(habits []models.Habit, now time.Time) float64 {
	best := 0.0
	for _, h := range habits {
		if !completedEveryWeek(h, now) {
			continue
		}
		if c := stats.Calculate(h, now).ConsistencyScore; c > best {
			best = c
		}
	}
	return best
}

func completedEveryWeek(h models.Habit, now time.Time) bool {
	days := utils.Window(now, constants.AnalysisWindowDays)
	for i := 0; i < len(days); i += constants.WeekDays {
		end := min(i+constants.WeekDays, len(days))
		done := false
		for _, day := range days[i:end] {
			if h.LogOn(day) == models.Completed {
				done = true
				break
			}
		}
		if !done {
			return false
		}
	}
	return true
}
