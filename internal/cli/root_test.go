package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitlens/internal/config"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/storage"
)

var fixedNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)

func setupTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	return &Context{
		Store:  store,
		Config: &config.Config{Timezone: "UTC"},
		Clock:  func() time.Time { return fixedNow },
		Out:    out,
	}, out
}

func TestRefTime(t *testing.T) {
	ctx, _ := setupTestContext(t)

	now, err := ctx.RefTime("")
	if err != nil || !now.Equal(fixedNow) {
		t.Errorf("RefTime(\"\") = %v, %v; want %v", now, err, fixedNow)
	}

	ref, err := ctx.RefTime("2024-05-01")
	if err != nil {
		t.Fatalf("RefTime failed: %v", err)
	}
	if got := ref.Format("2006-01-02 15:04:05"); got != "2024-05-01 23:59:59" {
		t.Errorf("RefTime(2024-05-01) = %s", got)
	}

	if _, err := ctx.RefTime("05/01/2024"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestNowUsesConfiguredTimezone(t *testing.T) {
	ctx, _ := setupTestContext(t)
	ctx.Config.Timezone = "Asia/Tokyo"

	now := ctx.Now()
	if now.Location().String() != "Asia/Tokyo" {
		t.Errorf("expected Asia/Tokyo, got %s", now.Location())
	}
	if !now.Equal(fixedNow) {
		t.Errorf("Now changed the instant: %v", now)
	}

	ctx.Config.Timezone = "Not/AZone"
	if ctx.Location() != time.Local {
		t.Error("invalid timezone should fall back to local time")
	}
}

func TestFindHabit(t *testing.T) {
	ctx, _ := setupTestContext(t)
	habit := models.Habit{ID: "h1", Name: "Read", CreatedAt: fixedNow}
	if err := ctx.Store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	for _, key := range []string{"Read", "read", "h1"} {
		got, err := ctx.FindHabit(key)
		if err != nil || got.ID != "h1" {
			t.Errorf("FindHabit(%q) = %v, %v", key, got.ID, err)
		}
	}

	if _, err := ctx.FindHabit("Write"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestCheckAchievementsPersistsOnce(t *testing.T) {
	ctx, out := setupTestContext(t)
	habit := models.Habit{ID: "h1", Name: "Read", CreatedAt: fixedNow}
	if err := ctx.Store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}
	if err := ctx.Store.SetLog("h1", "2024-05-10", models.Completed); err != nil {
		t.Fatalf("SetLog failed: %v", err)
	}

	fresh, err := ctx.CheckAchievements(fixedNow)
	if err != nil {
		t.Fatalf("CheckAchievements failed: %v", err)
	}
	if len(fresh) == 0 || fresh[0].ID != "first_step" {
		t.Fatalf("expected first_step to unlock first, got %+v", fresh)
	}

	ctx.AnnounceUnlocks(fresh)
	if !strings.Contains(out.String(), "First Step") {
		t.Errorf("expected announcement, got %q", out.String())
	}

	again, err := ctx.CheckAchievements(fixedNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("second check failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("expected no new unlocks, got %+v", again)
	}

	stored, err := ctx.Store.GetAchievements()
	if err != nil {
		t.Fatalf("GetAchievements failed: %v", err)
	}
	if len(stored) != len(fresh) {
		t.Fatalf("expected %d stored achievements, got %+v", len(fresh), stored)
	}
	for _, a := range stored {
		if !a.UnlockedAt.Equal(fixedNow) {
			t.Errorf("achievement %s unlock time changed: %v", a.ID, a.UnlockedAt)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0%"},
		{50, "50%"},
		{100, "100%"},
		{33.33, "33.33%"},
		{12.5, "12.5%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTrend(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 pts"},
		{12.5, "+12.5 pts"},
		{-3, "-3 pts"},
	}
	for _, tt := range tests {
		if got := FormatTrend(tt.in); got != tt.want {
			t.Errorf("FormatTrend(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
