package achievements

import (
	"testing"
	"time"

	"github.com/julianstephens/habitlens/internal/constants"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/stats"
	"github.com/julianstephens/habitlens/internal/utils"
)

var now = time.Date(2024, 6, 30, 20, 0, 0, 0, time.UTC)

func streakHabit(id string, length int) models.Habit {
	days := utils.Window(now, constants.AnalysisWindowDays)
	h := models.Habit{ID: id, Name: id}
	for i := 0; i < length; i++ {
		h.SetLog(days[len(days)-1-i], models.Completed)
	}
	return h
}

var weekStreakOnly = []Definition{
	{ID: "week_warrior", Name: "Week Warrior", Goal: 7, Progress: maxCurrentStreak},
}

func TestCheckNewMintsOnce(t *testing.T) {
	habits := []models.Habit{streakHabit("a", 7), streakHabit("b", 3)}

	fresh := checkNewFor(weekStreakOnly, habits, nil, now)
	if len(fresh) != 1 {
		t.Fatalf("expected exactly one new achievement, got %d", len(fresh))
	}
	if fresh[0].ID != "week_warrior" || !fresh[0].UnlockedAt.Equal(now) {
		t.Errorf("unexpected achievement %+v", fresh[0])
	}

	unlocked := Merge(nil, fresh)
	again := checkNewFor(weekStreakOnly, habits, unlocked, now)
	if len(again) != 0 {
		t.Errorf("expected no duplicate unlocks, got %+v", again)
	}
}

func TestCheckNewBelowGoal(t *testing.T) {
	fresh := checkNewFor(weekStreakOnly, []models.Habit{streakHabit("a", 6)}, nil, now)
	if len(fresh) != 0 {
		t.Errorf("expected nothing unlocked at streak 6, got %+v", fresh)
	}
}

func TestCheckNewFullCatalogue(t *testing.T) {
	fresh := CheckNew([]models.Habit{streakHabit("a", 7)}, nil, now)

	got := make(map[string]bool)
	for _, a := range fresh {
		if got[a.ID] {
			t.Errorf("achievement %s emitted twice", a.ID)
		}
		got[a.ID] = true
	}

	for _, id := range []string{"first_step", "week_warrior", "perfect_week"} {
		if !got[id] {
			t.Errorf("expected %s to unlock", id)
		}
	}
	for _, id := range []string{"fortnight_focus", "month_master", "century", "habit_collector"} {
		if got[id] {
			t.Errorf("did not expect %s to unlock", id)
		}
	}
}

func TestConsistencyKingNeedsEveryWeek(t *testing.T) {
	days := utils.Window(now, constants.AnalysisWindowDays)
	weekly := models.Habit{ID: "weekly", Name: "weekly"}
	for i := 0; i < len(days); i += constants.WeekDays {
		weekly.SetLog(days[i], models.Completed)
	}
	single := models.Habit{ID: "single", Name: "single"}
	single.SetLog(days[len(days)-1], models.Completed)

	tests := []struct {
		name   string
		habit  models.Habit
		unlock bool
	}{
		{"single completion", single, false},
		{"nine day streak", streakHabit("burst", 9), false},
		{"once a week", weekly, true},
		{"every day", streakHabit("daily", constants.AnalysisWindowDays), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := false
			for _, a := range CheckNew([]models.Habit{tt.habit}, nil, now) {
				if a.ID == "consistency_king" {
					got = true
				}
			}
			if got != tt.unlock {
				t.Errorf("consistency_king unlocked = %v, want %v (score %v)",
					got, tt.unlock, stats.Calculate(tt.habit, now).ConsistencyScore)
			}
		})
	}
}

func TestStatusKeepsPersistedUnlock(t *testing.T) {
	unlockedAt := now.AddDate(0, 0, -3)
	unlocked := []models.Achievement{{ID: "month_master", UnlockedAt: unlockedAt}}

	// the habit that earned the streak has since been deleted
	statuses := Status(nil, unlocked, now)

	var found bool
	for _, st := range statuses {
		if st.ID != "month_master" {
			continue
		}
		found = true
		if !st.Unlocked || st.UnlockedAt == nil {
			t.Fatalf("expected month_master to stay unlocked, got %+v", st)
		}
		if !st.UnlockedAt.Equal(unlockedAt) {
			t.Errorf("expected persisted unlock time %v, got %v", unlockedAt, *st.UnlockedAt)
		}
		if st.Progress != st.Goal {
			t.Errorf("expected unlocked progress to equal goal, got %v", st.Progress)
		}
	}
	if !found {
		t.Fatal("month_master missing from status list")
	}
}

func TestStatusClampsLiveProgress(t *testing.T) {
	statuses := statusFor(weekStreakOnly, []models.Habit{streakHabit("a", 12)}, nil, now)
	if len(statuses) != 1 {
		t.Fatalf("expected one status, got %d", len(statuses))
	}

	st := statuses[0]
	if st.Progress != 7 {
		t.Errorf("expected progress clamped to 7, got %v", st.Progress)
	}
	if !st.Unlocked || st.UnlockedAt != nil {
		t.Errorf("expected reached-but-unrecorded status, got %+v", st)
	}
}

func TestStatusOnePerDefinition(t *testing.T) {
	statuses := Status([]models.Habit{streakHabit("a", 2)}, nil, now)
	if len(statuses) != len(Definitions()) {
		t.Errorf("expected %d statuses, got %d", len(Definitions()), len(statuses))
	}
	for _, st := range statuses {
		if st.Progress < 0 || st.Progress > st.Goal {
			t.Errorf("%s progress %v outside [0, %v]", st.ID, st.Progress, st.Goal)
		}
	}
}

func TestMergeKeepsEarliest(t *testing.T) {
	early := now.AddDate(0, 0, -10)
	existing := []models.Achievement{{ID: "first_step", UnlockedAt: early}}
	fresh := []models.Achievement{{ID: "first_step", UnlockedAt: now}, {ID: "century", UnlockedAt: now}}

	merged := Merge(existing, fresh)
	if len(merged) != 2 {
		t.Fatalf("expected 2 achievements, got %d", len(merged))
	}
	if merged[0].ID != "first_step" || !merged[0].UnlockedAt.Equal(early) {
		t.Errorf("expected earliest first_step unlock kept, got %+v", merged[0])
	}
	if merged[1].ID != "century" {
		t.Errorf("expected century appended, got %+v", merged[1])
	}
}

func TestDefinitionsIsACopy(t *testing.T) {
	defs := Definitions()
	defs[0].Goal = 999
	if Definitions()[0].Goal == 999 {
		t.Error("mutating the returned slice must not change the catalogue")
	}
}
