// Package challenges computes progress toward time-boxed habit challenges.
package challenges

import (
	"math"
	"time"

	"github.com/julianstephens/habitlens/internal/constants"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/stats"
	"github.com/julianstephens/habitlens/internal/utils"
)

// Progress returns the challenge's completion percentage in [0, 100].
// Unknown types and non-positive targets report 0.
func Progress(challenge models.Challenge, habits []models.Habit, now time.Time) float64 {
	if challenge.Target <= 0 {
		return 0
	}

	var value float64
	switch challenge.Type {
	case models.ChallengeStreak:
		value = ratio(float64(maxStreak(relevant(challenge, habits), now)), challenge.Target)
	case models.ChallengeCompletion:
		value = ratio(float64(totalCompletions(relevant(challenge, habits))), challenge.Target)
	case models.ChallengeConsistency:
		// Consistency is a pass/fail threshold over every habit.
		mean := meanConsistency(habits, now)
		if mean >= challenge.Target {
			return 100
		}
		value = ratio(mean, challenge.Target)
	case models.ChallengeMultiHabit:
		value = ratio(float64(multiHabitDays(challenge, relevant(challenge, habits), now)), challenge.Target)
	default:
		return 0
	}

	return stats.Round2(math.Min(value, 100))
}

// relevant returns the habits named by the challenge, or every habit when it names none.
func relevant(challenge models.Challenge, habits []models.Habit) []models.Habit {
	if len(challenge.HabitIDs) == 0 {
		return habits
	}

	wanted := make(map[string]struct{}, len(challenge.HabitIDs))
	for _, id := range challenge.HabitIDs {
		wanted[id] = struct{}{}
	}

	var out []models.Habit
	for _, h := range habits {
		if _, ok := wanted[h.ID]; ok {
			out = append(out, h)
		}
	}
	return out
}

func maxStreak(habits []models.Habit, now time.Time) int {
	best := 0
	for _, h := range habits {
		if s := stats.CurrentStreak(h, now); s > best {
			best = s
		}
	}
	return best
}

func totalCompletions(habits []models.Habit) int {
	total := 0
	for _, h := range habits {
		total += h.CompletedCount()
	}
	return total
}

func meanConsistency(habits []models.Habit, now time.Time) float64 {
	if len(habits) == 0 {
		return 0
	}
	sum := 0.0
	for _, h := range habits {
		sum += stats.Calculate(h, now).ConsistencyScore
	}
	return sum / float64(len(habits))
}

// multiHabitDays counts days from the start date through the earlier of today
// and the challenge's last day on which enough relevant habits were completed.
func multiHabitDays(challenge models.Challenge, habits []models.Habit, now time.Time) int {
	start, err := utils.ParseDay(challenge.StartDate, now.Location())
	if err != nil {
		return 0
	}

	last := utils.StartOfDay(now)
	if challenge.DurationDays > 0 {
		if end := start.AddDate(0, 0, challenge.DurationDays-1); end.Before(last) {
			last = end
		}
	}

	count := 0
	for day := start; !day.After(last); day = day.AddDate(0, 0, 1) {
		if stats.CompletedOn(habits, utils.DayKey(day)) >= constants.MultiHabitMinCompletions {
			count++
		}
	}
	return count
}

func ratio(value, target float64) float64 {
	if target <= 0 || math.IsNaN(value) {
		return 0
	}
	return math.Max(0, value/target*100)
}
