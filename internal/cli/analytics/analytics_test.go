package analytics

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitlens/internal/cli"
	"github.com/julianstephens/habitlens/internal/config"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/storage"
)

var fixedNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:  store,
		Config: &config.Config{Timezone: "UTC"},
		Clock:  func() time.Time { return fixedNow },
		Out:    out,
	}, out
}

// seed stores a habit completed on each of the last n days ending today.
func seed(t *testing.T, ctx *cli.Context, id, name string, n int, mutate func(*models.Habit)) {
	t.Helper()
	habit := models.Habit{
		ID:               id,
		Name:             name,
		Category:         models.CategoryHealth,
		Difficulty:       models.DifficultyEasy,
		Priority:         models.PriorityMedium,
		EstimatedMinutes: 10,
		CreatedAt:        fixedNow.AddDate(0, -3, 0),
		Logs:             models.Logs{},
	}
	for i := 0; i < n; i++ {
		habit.Logs[fixedNow.AddDate(0, 0, -i).Format("2006-01-02")] = models.Completed
	}
	if mutate != nil {
		mutate(&habit)
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
}

func TestStatsCmd_SingleHabit(t *testing.T) {
	ctx, out := setupTestContext(t)
	seed(t, ctx, "h1", "Read", 6, nil)

	if err := (&StatsCmd{Name: "Read"}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Read", "Current streak", "6 days", "Last 7 days"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestStatsCmd_ReferenceDate(t *testing.T) {
	ctx, out := setupTestContext(t)
	seed(t, ctx, "h1", "Read", 6, nil)

	// Three days back, the run is four days long
	if err := (&StatsCmd{Name: "Read", Date: "2024-05-07"}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out.String(), "3 days") {
		t.Errorf("expected a 3 day streak, got:\n%s", out.String())
	}
}

func TestStatsCmd_Empty(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(out.String(), "No habits found.") {
		t.Errorf("unexpected output: %q", out.String())
	}

	if err := (&StatsCmd{Name: "Missing"}).Run(ctx); err == nil {
		t.Error("expected error for unknown habit")
	}
}

func TestInsightsCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	seed(t, ctx, "h1", "Read", 10, nil)
	seed(t, ctx, "h2", "Run", 0, func(h *models.Habit) {
		h.Logs["2024-04-01"] = models.Completed
		h.Logs["2024-05-08"] = models.Missed
		h.Logs["2024-05-09"] = models.Missed
	})

	if err := (&InsightsCmd{}).Run(ctx); err != nil {
		t.Fatalf("insights failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"2 active / 2 total", "Best habit", "Read", "Struggling habits", "Run"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestInsightsCmd_NoHabits(t *testing.T) {
	ctx, out := setupTestContext(t)
	if err := (&InsightsCmd{}).Run(ctx); err != nil {
		t.Fatalf("insights failed: %v", err)
	}
	if strings.Contains(out.String(), "Best day") {
		t.Errorf("weekday extremes should be hidden without habits:\n%s", out.String())
	}
}

func TestAchievementsCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	seed(t, ctx, "h1", "Read", 7, nil)

	if err := (&AchievementsCmd{}).Run(ctx); err != nil {
		t.Fatalf("achievements failed: %v", err)
	}
	if !strings.Contains(out.String(), "run --check to record") {
		t.Errorf("expected unrecorded unlock hint, got:\n%s", out.String())
	}
	stored, _ := ctx.Store.GetAchievements()
	if len(stored) != 0 {
		t.Fatalf("listing must not persist unlocks, got %+v", stored)
	}

	out.Reset()
	if err := (&AchievementsCmd{Check: true}).Run(ctx); err != nil {
		t.Fatalf("achievements --check failed: %v", err)
	}
	if !strings.Contains(out.String(), "Week Warrior") || !strings.Contains(out.String(), "unlocked 2024-05-10") {
		t.Errorf("expected recorded unlocks, got:\n%s", out.String())
	}

	stored, _ = ctx.Store.GetAchievements()
	ids := make(map[string]bool)
	for _, a := range stored {
		ids[a.ID] = true
	}
	if !ids["first_step"] || !ids["week_warrior"] || ids["fortnight_focus"] {
		t.Errorf("unexpected persisted unlocks: %+v", stored)
	}
}

func TestAchievementsCmd_CheckIgnoresDate(t *testing.T) {
	ctx, _ := setupTestContext(t)
	seed(t, ctx, "h1", "Read", 0, func(h *models.Habit) {
		for i := 0; i < 7; i++ {
			h.Logs[fixedNow.AddDate(0, 0, -30-i).Format("2006-01-02")] = models.Completed
		}
	})

	if err := (&AchievementsCmd{Check: true, Date: "2024-04-10"}).Run(ctx); err != nil {
		t.Fatalf("achievements --check failed: %v", err)
	}

	stored, err := ctx.Store.GetAchievements()
	if err != nil {
		t.Fatalf("GetAchievements failed: %v", err)
	}
	for _, a := range stored {
		if a.ID == "week_warrior" {
			t.Errorf("week_warrior recorded for a past streak: %+v", a)
		}
		if !a.UnlockedAt.Equal(fixedNow) {
			t.Errorf("%s unlocked at %v, want %v", a.ID, a.UnlockedAt, fixedNow)
		}
	}
}

func writeFilter(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "filter.json")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write filter: %v", err)
	}
	return path
}

func TestFilterCmd(t *testing.T) {
	ctx, out := setupTestContext(t)
	seed(t, ctx, "h1", "Read", 6, nil)
	seed(t, ctx, "h2", "Run", 2, nil)
	seed(t, ctx, "h3", "Sleep", 0, func(h *models.Habit) { h.Category = models.CategoryMindfulness })

	path := writeFilter(t, `{
		"logic": "AND",
		"groups": [{
			"id": "g1",
			"active": true,
			"logic": "AND",
			"criteria": [
				{"field": "category", "operator": "equals", "value": "health"},
				{"field": "streak", "operator": "greater_equal", "value": 3}
			]
		}]
	}`)

	if err := (&FilterCmd{File: path}).Run(ctx); err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "1 of 3 habits match") || !strings.Contains(got, "Read") {
		t.Errorf("unexpected output:\n%s", got)
	}
	if strings.Contains(got, "Run") || strings.Contains(got, "Sleep") {
		t.Errorf("non-matching habits listed:\n%s", got)
	}
}

func TestFilterCmd_FailOpenAndStrict(t *testing.T) {
	ctx, out := setupTestContext(t)
	seed(t, ctx, "h1", "Read", 1, nil)

	path := writeFilter(t, `{"groups": [{"id": "g1", "active": true, "criteria": [
		{"field": "mood", "operator": "equals", "value": "happy"}
	]}]}`)

	if err := (&FilterCmd{File: path}).Run(ctx); err != nil {
		t.Fatalf("filter failed: %v", err)
	}
	if !strings.Contains(out.String(), "problems") || !strings.Contains(out.String(), "1 of 1 habits match") {
		t.Errorf("expected warning and fail-open match, got:\n%s", out.String())
	}

	if err := (&FilterCmd{File: path, Strict: true}).Run(ctx); err == nil {
		t.Error("expected strict mode to refuse the filter")
	}
}

func TestFilterCmd_BadFile(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&FilterCmd{File: filepath.Join(t.TempDir(), "missing.json")}).Run(ctx); err == nil {
		t.Error("expected error for missing file")
	}
	if err := (&FilterCmd{File: writeFilter(t, `{"groups": "nope"}`)}).Run(ctx); err == nil {
		t.Error("expected error for malformed filter")
	}
}
