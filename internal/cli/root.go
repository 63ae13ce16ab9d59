package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitlens/internal/achievements"
	"github.com/julianstephens/habitlens/internal/backup"
	"github.com/julianstephens/habitlens/internal/config"
	apperrors "github.com/julianstephens/habitlens/internal/errors"
	"github.com/julianstephens/habitlens/internal/logger"
	"github.com/julianstephens/habitlens/internal/metrics"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/storage"
	"github.com/julianstephens/habitlens/internal/utils"
)

type Context struct {
	Store  storage.Provider
	Config *config.Config
	// Clock defaults to time.Now. Tests pin it.
	Clock func() time.Time
	// Out defaults to os.Stdout.
	Out io.Writer
}

// Writer returns the destination for command output.
func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Printf writes formatted command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

// Print writes unformatted command output.
func (c *Context) Print(args ...any) {
	fmt.Fprint(c.Writer(), args...)
}

// Println writes a line of command output.
func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

// AutoBackup snapshots a SQLite database before a destructive change.
// Failures are logged and never block the command.
func (c *Context) AutoBackup() {
	path := c.Store.GetConfigPath()
	if storage.IsPostgres(path) {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	if _, err := backup.NewManager(path, backup.WithClock(c.Now)).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Location is the configured timezone, falling back to the local zone.
func (c *Context) Location() *time.Location {
	if c.Config == nil {
		return time.Local
	}
	loc, err := c.Config.Location()
	if err != nil {
		logger.Warn("Invalid timezone in config, using local time", "timezone", c.Config.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// Now is the current instant in the configured timezone.
func (c *Context) Now() time.Time {
	clock := c.Clock
	if clock == nil {
		clock = time.Now
	}
	return clock().In(c.Location())
}

// RefTime resolves a --date flag. An empty value is now; a day key is the
// end of that day, so the whole day counts as "today".
func (c *Context) RefTime(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return c.Now(), nil
	}
	day, err := utils.ParseDay(date, c.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	return day.AddDate(0, 0, 1).Add(-time.Second), nil
}

// FindHabit looks a habit up by name, then by id.
func (c *Context) FindHabit(nameOrID string) (models.Habit, error) {
	habit, err := c.Store.GetHabitByName(nameOrID)
	if err == nil {
		return habit, nil
	}
	if !errors.Is(err, apperrors.ErrHabitNotFound) {
		return models.Habit{}, err
	}
	habit, err = c.Store.GetHabit(nameOrID)
	if err != nil {
		if errors.Is(err, apperrors.ErrHabitNotFound) {
			return models.Habit{}, fmt.Errorf("habit %q not found", nameOrID)
		}
		return models.Habit{}, err
	}
	return habit, nil
}

// CheckAchievements runs the unlock check against the current snapshot and
// persists any new unlocks in one write. It returns the new unlocks.
func (c *Context) CheckAchievements(now time.Time) ([]models.Achievement, error) {
	return CheckAchievements(c.Store, now)
}

// CheckAchievements is the store-level unlock check shared with the TUI.
func CheckAchievements(store storage.Provider, now time.Time) ([]models.Achievement, error) {
	habits, err := store.GetAllHabits(true)
	if err != nil {
		return nil, err
	}
	unlocked, err := store.GetAchievements()
	if err != nil {
		return nil, err
	}

	fresh := achievements.CheckNew(habits, unlocked, now)
	if len(fresh) == 0 {
		return nil, nil
	}
	if err := store.SaveAchievements(fresh); err != nil {
		return nil, fmt.Errorf("failed to save achievements: %w", err)
	}

	metrics.AchievementsUnlocked.Add(float64(len(fresh)))
	for _, a := range fresh {
		logger.Info("Achievement unlocked", "id", a.ID)
	}
	return fresh, nil
}

// AnnounceUnlocks prints one line per newly unlocked achievement.
func (c *Context) AnnounceUnlocks(fresh []models.Achievement) {
	if len(fresh) == 0 {
		return
	}
	names := make(map[string]achievements.Definition)
	for _, def := range achievements.Definitions() {
		names[def.ID] = def
	}
	for _, a := range fresh {
		def, ok := names[a.ID]
		if !ok {
			continue
		}
		c.Println(SuccessStyle.Render(fmt.Sprintf("%s Achievement unlocked: %s", def.Icon, def.Name)))
	}
}

// FormatPercent renders a 0-100 value with at most two decimals.
func FormatPercent(v float64) string {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
	return s + "%"
}

// FormatTrend renders a signed percentage-point change.
func FormatTrend(v float64) string {
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%+.2f", v), "0"), ".")
	if s == "+0" || s == "-0" {
		s = "0"
	}
	return s + " pts"
}
