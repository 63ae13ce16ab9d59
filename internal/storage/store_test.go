package storage

import (
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/habitlens/internal/errors"
	"github.com/julianstephens/habitlens/internal/models"
)

var created = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) *SQLStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "habitlens.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newHabit(id, name string, offset int) models.Habit {
	return models.Habit{
		ID:               id,
		Name:             name,
		Category:         models.CategoryHealth,
		Difficulty:       models.DifficultyEasy,
		Priority:         models.PriorityHigh,
		EstimatedMinutes: 15,
		CreatedAt:        created.Add(time.Duration(offset) * time.Hour),
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !apperrors.Is(err, apperrors.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := store.GetAllHabits(true); !apperrors.Is(err, apperrors.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized before load, got %v", err)
	}
}

func TestInitThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "habitlens.db")
	store := NewSQLiteStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.AddHabit(newHabit("h1", "Read", 0)); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	store.Close()

	reopened := NewSQLiteStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.GetHabit("h1"); err != nil {
		t.Errorf("expected habit after reopen, got %v", err)
	}
	if reopened.GetConfigPath() != path {
		t.Errorf("unexpected config path %s", reopened.GetConfigPath())
	}
}

func TestHabitRoundTrip(t *testing.T) {
	store := setupStore(t)

	h := newHabit("h1", "Read", 0)
	h.SetLog("2024-01-02", models.Completed)
	h.SetLog("2024-01-03", models.Missed)
	h.SetNote("2024-01-02", "chapter 3")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	got, err := store.GetHabit("h1")
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != "Read" || got.Category != models.CategoryHealth || got.EstimatedMinutes != 15 {
		t.Errorf("attributes not round-tripped: %+v", got)
	}
	if !got.CreatedAt.Equal(h.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", h.CreatedAt, got.CreatedAt)
	}
	if got.LogOn("2024-01-02") != models.Completed || got.LogOn("2024-01-03") != models.Missed {
		t.Errorf("logs not round-tripped: %v", got.Logs)
	}
	if got.LogOn("2024-01-04") != models.Unlogged {
		t.Error("expected missing day to stay unlogged")
	}
	if got.Notes["2024-01-02"] != "chapter 3" {
		t.Errorf("notes not round-tripped: %v", got.Notes)
	}

	byName, err := store.GetHabitByName("  READ ")
	if err != nil || byName.ID != "h1" {
		t.Errorf("expected case-insensitive name lookup, got %v, %v", byName.ID, err)
	}

	if _, err := store.GetHabit("nope"); !apperrors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestSetLogTriState(t *testing.T) {
	store := setupStore(t)
	if err := store.AddHabit(newHabit("h1", "Walk", 0)); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	steps := []models.LogState{models.Completed, models.Missed, models.Unlogged, models.Completed}
	for _, state := range steps {
		if err := store.SetLog("h1", "2024-02-01", state); err != nil {
			t.Fatalf("SetLog(%v) failed: %v", state, err)
		}
		got, _ := store.GetHabit("h1")
		if got.LogOn("2024-02-01") != state {
			t.Errorf("expected %v, got %v", state, got.LogOn("2024-02-01"))
		}
		_, present := got.Logs["2024-02-01"]
		if present != (state != models.Unlogged) {
			t.Errorf("state %v: unexpected presence %v", state, present)
		}
	}

	if err := store.SetLog("h1", "02/01/2024", models.Completed); err == nil {
		t.Error("expected invalid day to be rejected")
	}
	if err := store.SetLog("ghost", "2024-02-01", models.Completed); !apperrors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestSetNote(t *testing.T) {
	store := setupStore(t)
	if err := store.AddHabit(newHabit("h1", "Walk", 0)); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	if err := store.SetNote("h1", "2024-02-01", "rainy"); err != nil {
		t.Fatalf("SetNote failed: %v", err)
	}
	if err := store.SetNote("h1", "2024-02-01", "sunny"); err != nil {
		t.Fatalf("SetNote overwrite failed: %v", err)
	}
	got, _ := store.GetHabit("h1")
	if got.Notes["2024-02-01"] != "sunny" {
		t.Errorf("expected overwritten note, got %v", got.Notes)
	}

	if err := store.SetNote("h1", "2024-02-01", ""); err != nil {
		t.Fatalf("SetNote clear failed: %v", err)
	}
	got, _ = store.GetHabit("h1")
	if len(got.Notes) != 0 {
		t.Errorf("expected note removed, got %v", got.Notes)
	}
}

func TestArchiveAndList(t *testing.T) {
	store := setupStore(t)
	for i, name := range []string{"A", "B", "C"} {
		if err := store.AddHabit(newHabit(name, name, i)); err != nil {
			t.Fatalf("AddHabit failed: %v", err)
		}
	}

	if err := store.ArchiveHabit("B"); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}

	active, _ := store.GetAllHabits(false)
	if len(active) != 2 || active[0].ID != "A" || active[1].ID != "C" {
		t.Errorf("expected A, C in creation order, got %+v", active)
	}

	all, _ := store.GetAllHabits(true)
	if len(all) != 3 || !all[1].Archived {
		t.Errorf("expected archived B in full list, got %+v", all)
	}

	if err := store.UnarchiveHabit("B"); err != nil {
		t.Fatalf("UnarchiveHabit failed: %v", err)
	}
	active, _ = store.GetAllHabits(false)
	if len(active) != 3 {
		t.Errorf("expected 3 active habits, got %d", len(active))
	}

	if err := store.ArchiveHabit("missing"); !apperrors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestUpdateHabitKeepsLogs(t *testing.T) {
	store := setupStore(t)
	h := newHabit("h1", "Read", 0)
	h.SetLog("2024-01-05", models.Completed)
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	h.Name = "Read more"
	h.Priority = models.PriorityLow
	h.Logs = nil
	if err := store.UpdateHabit(h); err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}

	got, _ := store.GetHabit("h1")
	if got.Name != "Read more" || got.Priority != models.PriorityLow {
		t.Errorf("attributes not updated: %+v", got)
	}
	if got.LogOn("2024-01-05") != models.Completed {
		t.Error("expected logs to survive an attribute update")
	}

	if err := store.UpdateHabit(newHabit("ghost", "x", 0)); !apperrors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestDeleteHabitRemovesHistory(t *testing.T) {
	store := setupStore(t)
	h := newHabit("h1", "Read", 0)
	h.SetLog("2024-01-05", models.Completed)
	h.SetNote("2024-01-05", "done")
	if err := store.AddHabit(h); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	if err := store.DeleteHabit("h1"); err != nil {
		t.Fatalf("DeleteHabit failed: %v", err)
	}
	if _, err := store.GetHabit("h1"); !apperrors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}

	// Re-adding under the same id must start with a clean history.
	if err := store.AddHabit(newHabit("h1", "Read", 0)); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	got, _ := store.GetHabit("h1")
	if len(got.Logs) != 0 || len(got.Notes) != 0 {
		t.Errorf("expected no leftover history, got %v %v", got.Logs, got.Notes)
	}

	if err := store.DeleteHabit("h1-missing"); !apperrors.Is(err, apperrors.ErrHabitNotFound) {
		t.Errorf("expected ErrHabitNotFound, got %v", err)
	}
}

func TestAchievementsInsertOnly(t *testing.T) {
	store := setupStore(t)
	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	later := first.AddDate(0, 1, 0)

	if err := store.SaveAchievements([]models.Achievement{{ID: "first_step", UnlockedAt: first}}); err != nil {
		t.Fatalf("SaveAchievements failed: %v", err)
	}
	if err := store.SaveAchievements([]models.Achievement{
		{ID: "first_step", UnlockedAt: later},
		{ID: "week_warrior", UnlockedAt: later},
	}); err != nil {
		t.Fatalf("SaveAchievements failed: %v", err)
	}
	if err := store.SaveAchievements(nil); err != nil {
		t.Fatalf("SaveAchievements(nil) failed: %v", err)
	}

	got, err := store.GetAchievements()
	if err != nil {
		t.Fatalf("GetAchievements failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 achievements, got %+v", got)
	}
	if got[0].ID != "first_step" || !got[0].UnlockedAt.Equal(first) {
		t.Errorf("expected original unlock time kept, got %+v", got[0])
	}
}

func TestChallengeCRUD(t *testing.T) {
	store := setupStore(t)
	c := models.Challenge{
		ID:           "c1",
		Name:         "Streak week",
		Type:         models.ChallengeStreak,
		Target:       7,
		DurationDays: 7,
		StartDate:    "2024-04-01",
		EndDate:      "2024-04-07",
		Active:       true,
		HabitIDs:     []string{"h2", "h1", "h2"},
		CreatedAt:    created,
	}
	if err := store.AddChallenge(c); err != nil {
		t.Fatalf("AddChallenge failed: %v", err)
	}

	got, err := store.GetChallenge("c1")
	if err != nil {
		t.Fatalf("GetChallenge failed: %v", err)
	}
	if got.Type != models.ChallengeStreak || got.Target != 7 || !got.Active {
		t.Errorf("challenge not round-tripped: %+v", got)
	}
	if len(got.HabitIDs) != 2 || got.HabitIDs[0] != "h2" || got.HabitIDs[1] != "h1" {
		t.Errorf("expected ordered, de-duplicated habit ids, got %v", got.HabitIDs)
	}

	c.Active = false
	c.HabitIDs = []string{"h3"}
	if err := store.UpdateChallenge(c); err != nil {
		t.Fatalf("UpdateChallenge failed: %v", err)
	}
	all, _ := store.GetAllChallenges()
	if len(all) != 1 || all[0].Active || len(all[0].HabitIDs) != 1 || all[0].HabitIDs[0] != "h3" {
		t.Errorf("update not applied: %+v", all)
	}

	if err := store.DeleteChallenge("c1"); err != nil {
		t.Fatalf("DeleteChallenge failed: %v", err)
	}
	if _, err := store.GetChallenge("c1"); !apperrors.Is(err, apperrors.ErrChallengeNotFound) {
		t.Errorf("expected ErrChallengeNotFound, got %v", err)
	}
	if err := store.DeleteChallenge("c1"); !apperrors.Is(err, apperrors.ErrChallengeNotFound) {
		t.Errorf("expected ErrChallengeNotFound on second delete, got %v", err)
	}
}
