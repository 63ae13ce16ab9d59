// Package insights aggregates per-habit statistics across a collection of
// active habits into fleet-level trends.
package insights

import (
	"time"

	"github.com/julianstephens/habitlens/internal/constants"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/stats"
	"github.com/julianstephens/habitlens/internal/utils"
)

// HabitRate pairs a habit with its completion rate.
type HabitRate struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	CompletionRate float64 `json:"completion_rate"`
}

// Weekday is a day of week (0 = Sunday) and its completion rate over the trailing month.
type Weekday struct {
	Day  time.Weekday `json:"day"`
	Name string       `json:"name"`
	Rate float64      `json:"rate"`
}

// InsightData is the fleet-level summary shown on the dashboard.
type InsightData struct {
	TotalHabits         int         `json:"total_habits"`
	ActiveHabits        int         `json:"active_habits"`
	CompletedToday      int         `json:"completed_today"`
	AverageStreak       float64     `json:"average_streak"`
	BestPerformingHabit *HabitRate  `json:"best_performing_habit,omitempty"`
	StrugglingHabits    []HabitRate `json:"struggling_habits"`
	WeeklyTrend         float64     `json:"weekly_trend"`
	MonthlyTrend        float64     `json:"monthly_trend"`
	BestDay             Weekday     `json:"best_day"`
	WorstDay            Weekday     `json:"worst_day"`
	ConsistencyScore    float64     `json:"consistency_score"`
}

// Generate builds insights for the non-archived habits in habits, relative to ref.
func Generate(habits []models.Habit, ref time.Time) InsightData {
	active := models.ActiveHabits(habits)
	data := InsightData{
		TotalHabits:      len(habits),
		ActiveHabits:     len(active),
		StrugglingHabits: []HabitRate{},
	}

	days := utils.Window(ref, constants.AnalysisWindowDays)
	data.CompletedToday = stats.CompletedOn(active, days[len(days)-1])

	streakSum := 0
	consistencySum := 0.0
	for _, h := range active {
		st := stats.Calculate(h, ref)
		streakSum += st.CurrentStreak
		consistencySum += st.ConsistencyScore

		rate := HabitRate{ID: h.ID, Name: h.Name, CompletionRate: st.CompletionRate}
		if data.BestPerformingHabit == nil || st.CompletionRate > data.BestPerformingHabit.CompletionRate {
			best := rate
			data.BestPerformingHabit = &best
		}
		if st.CompletionRate < constants.StrugglingRateThreshold && h.CompletedCount() > 0 {
			data.StrugglingHabits = append(data.StrugglingHabits, rate)
		}
	}

	if len(active) > 0 {
		data.AverageStreak = stats.Round2(float64(streakSum) / float64(len(active)))
		data.ConsistencyScore = stats.Round2(consistencySum / float64(len(active)))
	}

	week := constants.WeekDays
	month := constants.MonthDays
	n := len(days)
	data.WeeklyTrend = stats.Round2(
		fleetRate(active, days[n-week:]) - fleetRate(active, days[n-2*week:n-week]),
	)
	data.MonthlyTrend = stats.Round2(
		fleetRate(active, days[n-month:]) - fleetRate(active, days[n-2*month:n-month]),
	)

	data.BestDay, data.WorstDay = weekdayExtremes(active, utils.WindowTimes(ref, month))

	return data
}

// fleetRate is completions across all habits over the window divided by the
// number of habit-days in it, as a percentage.
func fleetRate(habits []models.Habit, days []string) float64 {
	completed := 0
	for _, day := range days {
		completed += stats.CompletedOn(habits, day)
	}
	return stats.Percent(completed, len(days)*len(habits))
}

// weekdayExtremes buckets the given days by weekday and returns the first
// weekday with the highest rate and the first with the lowest. Both are
// picked independently, so with all rates equal they are the same day.
func weekdayExtremes(habits []models.Habit, days []time.Time) (best, worst Weekday) {
	var completed, total [7]int
	for _, d := range days {
		wd := d.Weekday()
		key := utils.DayKey(d)
		completed[wd] += stats.CompletedOn(habits, key)
		total[wd] += len(habits)
	}

	var rates [7]float64
	for wd := range rates {
		rates[wd] = stats.Round2(stats.Percent(completed[wd], total[wd]))
	}

	bestIdx, worstIdx := 0, 0
	for wd := 1; wd < len(rates); wd++ {
		if rates[wd] > rates[bestIdx] {
			bestIdx = wd
		}
		if rates[wd] < rates[worstIdx] {
			worstIdx = wd
		}
	}

	best = Weekday{Day: time.Weekday(bestIdx), Name: time.Weekday(bestIdx).String(), Rate: rates[bestIdx]}
	worst = Weekday{Day: time.Weekday(worstIdx), Name: time.Weekday(worstIdx).String(), Rate: rates[worstIdx]}
	return best, worst
}
