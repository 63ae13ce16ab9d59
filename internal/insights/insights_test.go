package insights

import (
	"testing"
	"time"

	"github.com/julianstephens/habitlens/internal/constants"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/stats"
	"github.com/julianstephens/habitlens/internal/utils"
)

var ref = time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

func window() []string {
	return utils.Window(ref, constants.AnalysisWindowDays)
}

// habitWithRate logs completed and missed days in the last week.
func habitWithRate(id string, completed, missed int) models.Habit {
	days := window()
	h := models.Habit{ID: id, Name: id}
	i := len(days) - 1
	for c := 0; c < completed; c, i = c+1, i-1 {
		h.SetLog(days[i], models.Completed)
	}
	for m := 0; m < missed; m, i = m+1, i-1 {
		h.SetLog(days[i], models.Missed)
	}
	return h
}

func TestGenerateBestAndStruggling(t *testing.T) {
	good := habitWithRate("good", 4, 1)
	poor := habitWithRate("poor", 1, 4)

	data := Generate([]models.Habit{poor, good}, ref)

	if data.BestPerformingHabit == nil || data.BestPerformingHabit.ID != "good" {
		t.Fatalf("expected best performing habit 'good', got %+v", data.BestPerformingHabit)
	}
	if data.BestPerformingHabit.CompletionRate != 80 {
		t.Errorf("expected best rate 80, got %v", data.BestPerformingHabit.CompletionRate)
	}
	if len(data.StrugglingHabits) != 1 || data.StrugglingHabits[0].ID != "poor" {
		t.Errorf("expected only 'poor' to be struggling, got %+v", data.StrugglingHabits)
	}
}

func TestGenerateNewHabitIsNotStruggling(t *testing.T) {
	fresh := models.Habit{ID: "fresh", Name: "fresh"}
	missOnly := habitWithRate("misses", 0, 3)

	data := Generate([]models.Habit{fresh, missOnly}, ref)
	if len(data.StrugglingHabits) != 0 {
		t.Errorf("expected no struggling habits without completions, got %+v", data.StrugglingHabits)
	}
}

func TestGenerateBestTieKeepsFirst(t *testing.T) {
	a := habitWithRate("a", 2, 2)
	b := habitWithRate("b", 2, 2)

	data := Generate([]models.Habit{a, b}, ref)
	if data.BestPerformingHabit.ID != "a" {
		t.Errorf("expected first habit to win a tie, got %s", data.BestPerformingHabit.ID)
	}
}

func TestGenerateIgnoresArchived(t *testing.T) {
	active := habitWithRate("active", 2, 0)
	archived := habitWithRate("archived", 7, 0)
	archived.Archived = true

	data := Generate([]models.Habit{active, archived}, ref)

	if data.TotalHabits != 2 || data.ActiveHabits != 1 {
		t.Errorf("expected 2 total and 1 active, got %d and %d", data.TotalHabits, data.ActiveHabits)
	}
	if data.BestPerformingHabit.ID != "active" {
		t.Errorf("archived habit must not be reported, got %s", data.BestPerformingHabit.ID)
	}
	if data.AverageStreak != 2 {
		t.Errorf("expected average streak 2, got %v", data.AverageStreak)
	}
	if data.CompletedToday != 1 {
		t.Errorf("expected 1 completed today, got %d", data.CompletedToday)
	}
}

func TestGenerateEmpty(t *testing.T) {
	data := Generate(nil, ref)

	if data.BestPerformingHabit != nil {
		t.Errorf("expected no best habit, got %+v", data.BestPerformingHabit)
	}
	if data.AverageStreak != 0 || data.ConsistencyScore != 0 || data.WeeklyTrend != 0 || data.MonthlyTrend != 0 {
		t.Errorf("expected zero aggregates, got %+v", data)
	}
	if data.StrugglingHabits == nil {
		t.Error("expected empty, non-nil struggling list")
	}
}

func TestGenerateConsistencyIsActiveMean(t *testing.T) {
	days := window()
	steady := models.Habit{ID: "steady", Name: "steady"}
	for i := 0; i < len(days); i += constants.WeekDays {
		steady.SetLog(days[i], models.Completed)
	}
	burst := habitWithRate("burst", 10, 2)
	archived := habitWithRate("archived", 3, 0)
	archived.Archived = true

	a := stats.Calculate(steady, ref).ConsistencyScore
	b := stats.Calculate(burst, ref).ConsistencyScore
	if a == b || a == 0 || b == 0 {
		t.Fatalf("fixture needs two distinct non-zero scores, got %v and %v", a, b)
	}
	if stats.Calculate(archived, ref).ConsistencyScore == 0 {
		t.Fatal("archived fixture should have a score that would skew the mean")
	}

	data := Generate([]models.Habit{steady, archived, burst}, ref)

	want := stats.Round2((a + b) / 2)
	if data.ConsistencyScore != want {
		t.Errorf("expected consistency %v (mean of %v and %v), got %v", want, a, b, data.ConsistencyScore)
	}
	if data.TotalHabits != 3 || data.ActiveHabits != 2 {
		t.Errorf("expected 3 total and 2 active habits, got %d and %d", data.TotalHabits, data.ActiveHabits)
	}
}

func TestWeeklyTrendSign(t *testing.T) {
	days := window()
	n := len(days)

	build := func(recent, prior int) models.Habit {
		h := models.Habit{ID: "h"}
		for i := 0; i < recent; i++ {
			h.SetLog(days[n-1-i], models.Completed)
		}
		for i := 0; i < prior; i++ {
			h.SetLog(days[n-8-i], models.Completed)
		}
		return h
	}

	tests := []struct {
		name          string
		recent, prior int
		check         func(float64) bool
	}{
		{"improving", 5, 2, func(v float64) bool { return v > 0 }},
		{"declining", 1, 6, func(v float64) bool { return v < 0 }},
		{"flat", 3, 3, func(v float64) bool { return v == 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := Generate([]models.Habit{build(tt.recent, tt.prior)}, ref)
			if !tt.check(data.WeeklyTrend) {
				t.Errorf("unexpected weekly trend %v for recent=%d prior=%d", data.WeeklyTrend, tt.recent, tt.prior)
			}
		})
	}
}

func TestWeeklyTrendValue(t *testing.T) {
	days := window()
	n := len(days)
	a := models.Habit{ID: "a"}
	b := models.Habit{ID: "b"}
	// recent week: 7 of 14 habit-days, prior week: 0
	for i := 0; i < 7; i++ {
		a.SetLog(days[n-1-i], models.Completed)
	}

	data := Generate([]models.Habit{a, b}, ref)
	if data.WeeklyTrend != 50 {
		t.Errorf("expected weekly trend 50, got %v", data.WeeklyTrend)
	}
}

func TestMonthlyTrendComparesPriorMonth(t *testing.T) {
	days := window()
	h := models.Habit{ID: "h"}
	// only the older half of the window has completions
	for i := 0; i < 30; i++ {
		h.SetLog(days[i], models.Completed)
	}

	data := Generate([]models.Habit{h}, ref)
	if data.MonthlyTrend != -100 {
		t.Errorf("expected monthly trend -100, got %v", data.MonthlyTrend)
	}
}

func TestBestAndWorstWeekday(t *testing.T) {
	h := models.Habit{ID: "mondays"}
	for _, d := range utils.WindowTimes(ref, constants.MonthDays) {
		if d.Weekday() == time.Monday {
			h.SetLog(utils.DayKey(d), models.Completed)
		}
	}

	data := Generate([]models.Habit{h}, ref)
	if data.BestDay.Day != time.Monday || data.BestDay.Rate != 100 {
		t.Errorf("expected Monday at 100%%, got %+v", data.BestDay)
	}
	if data.WorstDay.Day != time.Sunday {
		t.Errorf("expected first minimum (Sunday), got %+v", data.WorstDay)
	}
}

func TestWeekdayTieReportsFirst(t *testing.T) {
	data := Generate([]models.Habit{{ID: "idle"}}, ref)
	if data.BestDay.Day != time.Sunday || data.WorstDay.Day != time.Sunday {
		t.Errorf("expected Sunday for both on a full tie, got %v and %v", data.BestDay.Day, data.WorstDay.Day)
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	habits := []models.Habit{habitWithRate("a", 3, 1), habitWithRate("b", 1, 2)}

	first := Generate(habits, ref)
	second := Generate(habits, ref)

	if first.WeeklyTrend != second.WeeklyTrend ||
		first.ConsistencyScore != second.ConsistencyScore ||
		first.BestPerformingHabit.ID != second.BestPerformingHabit.ID ||
		len(first.StrugglingHabits) != len(second.StrugglingHabits) {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}
