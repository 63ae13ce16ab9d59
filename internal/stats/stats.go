// Package stats derives per-habit statistics from a habit's sparse log over a
// fixed trailing window. Every function is pure: the reference time is always
// passed in and nothing is cached between calls.
package stats

import (
	"math"
	"time"

	"github.com/julianstephens/habitlens/internal/constants"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/utils"
)

// block is one non-overlapping seven-day slice of the analysis window. The
// last block may be shorter when the window length is not a multiple of seven.
type block struct {
	start, end  string
	completions int
}

// Calculate derives statistics for habit over the analysis window ending at ref.
func Calculate(habit models.Habit, ref time.Time) models.HabitStats {
	days := utils.Window(ref, constants.AnalysisWindowDays)
	states := statesFor(habit, days)

	var st models.HabitStats
	st.CurrentStreak = currentStreak(states)
	st.LongestStreak, st.TotalCompletions, st.MissedDays = runTotals(states)
	st.CompletionRate = Round2(Percent(st.TotalCompletions, st.TotalCompletions+st.MissedDays))
	st.WeeklyProgress = Round2(Percent(countCompleted(tail(states, constants.WeekDays)), constants.WeekDays))
	st.MonthlyProgress = Round2(Percent(countCompleted(tail(states, constants.MonthDays)), constants.MonthDays))

	blocks := weeklyBlocks(days, states)
	st.BestWeek = bestWeek(blocks)
	if st.TotalCompletions > 0 {
		st.ConsistencyScore = Round2(consistency(blocks))
	}

	return st
}

// CalculateAll computes statistics for every habit, keyed by habit ID.
func CalculateAll(habits []models.Habit, ref time.Time) map[string]models.HabitStats {
	result := make(map[string]models.HabitStats, len(habits))
	for _, h := range habits {
		result[h.ID] = Calculate(h, ref)
	}
	return result
}

// CurrentStreak is a shortcut for callers that only need the streak.
func CurrentStreak(habit models.Habit, ref time.Time) int {
	days := utils.Window(ref, constants.AnalysisWindowDays)
	return currentStreak(statesFor(habit, days))
}

// CompletedOn counts how many of habits were completed on day.
func CompletedOn(habits []models.Habit, day string) int {
	count := 0
	for _, h := range habits {
		if h.LogOn(day) == models.Completed {
			count++
		}
	}
	return count
}

// Percent returns part/whole*100, or 0 when whole is not positive.
func Percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func statesFor(habit models.Habit, days []string) []models.LogState {
	states := make([]models.LogState, len(days))
	for i, day := range days {
		states[i] = habit.LogOn(day)
	}
	return states
}

// currentStreak walks backward from the last day. An unlogged last day is
// skipped because today may not be logged yet; any other gap or a miss ends
// the walk.
func currentStreak(states []models.LogState) int {
	streak := 0
	for i := len(states) - 1; i >= 0; i-- {
		switch states[i] {
		case models.Completed:
			streak++
		case models.Unlogged:
			if i == len(states)-1 {
				continue
			}
			return streak
		default:
			return streak
		}
	}
	return streak
}

func runTotals(states []models.LogState) (longest, completed, missed int) {
	run := 0
	for _, s := range states {
		switch s {
		case models.Completed:
			completed++
			run++
			if run > longest {
				longest = run
			}
		case models.Missed:
			missed++
			run = 0
		default:
			run = 0
		}
	}
	return longest, completed, missed
}

func countCompleted(states []models.LogState) int {
	count := 0
	for _, s := range states {
		if s == models.Completed {
			count++
		}
	}
	return count
}

func tail(states []models.LogState, n int) []models.LogState {
	if n >= len(states) {
		return states
	}
	return states[len(states)-n:]
}

func weeklyBlocks(days []string, states []models.LogState) []block {
	var blocks []block
	for i := 0; i < len(days); i += constants.WeekDays {
		end := i + constants.WeekDays
		if end > len(days) {
			end = len(days)
		}
		blocks = append(blocks, block{
			start:       days[i],
			end:         days[end-1],
			completions: countCompleted(states[i:end]),
		})
	}
	return blocks
}

// bestWeek keeps the oldest block on ties. A window without completions has no best week.
func bestWeek(blocks []block) models.BestWeek {
	var best models.BestWeek
	for _, b := range blocks {
		if b.completions > best.Completions {
			best = models.BestWeek{Start: b.start, End: b.end, Completions: b.completions}
		}
	}
	return best
}

// consistency is 100 minus the population variance of the weekly completion
// fraction, scaled to percent. Every block is divided by seven, including a
// short trailing block.
func consistency(blocks []block) float64 {
	if len(blocks) == 0 {
		return 0
	}

	fractions := make([]float64, len(blocks))
	mean := 0.0
	for i, b := range blocks {
		fractions[i] = float64(b.completions) / float64(constants.WeekDays)
		mean += fractions[i]
	}
	mean /= float64(len(fractions))

	variance := 0.0
	for _, f := range fractions {
		variance += (f - mean) * (f - mean)
	}
	variance /= float64(len(fractions))

	return math.Max(0, 100-variance*100)
}
