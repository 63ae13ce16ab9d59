package habits

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/habitlens/internal/cli"
	apperrors "github.com/julianstephens/habitlens/internal/errors"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/stats"
	"github.com/julianstephens/habitlens/internal/tui"
	"github.com/julianstephens/habitlens/internal/utils"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Toggle    HabitToggleCmd    `cmd:"" help:"Cycle or set a habit's log for a day."`
	Note      HabitNoteCmd      `cmd:"" help:"Attach a note to a habit for a day."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Restore an archived habit."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit and its history."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Category    string `help:"Category." default:"Other"`
	Difficulty  string `help:"Difficulty (easy, medium, hard)." enum:"easy,medium,hard" default:"medium"`
	Priority    string `help:"Priority (low, medium, high)." enum:"low,medium,high" default:"medium"`
	Minutes     int    `help:"Estimated minutes per day." default:"15"`
	Interactive bool   `short:"i" help:"Fill in the habit with an interactive form."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	fm := tui.NewHabitFormModel()
	if c.Interactive {
		fm.Name = c.Name
		if err := tui.NewHabitForm(fm).Run(); err != nil {
			return fmt.Errorf("habit form cancelled: %w", err)
		}
	} else {
		if strings.TrimSpace(c.Name) == "" {
			return errors.New("habit name is required (or use --interactive)")
		}
		fm.Name = c.Name
		fm.Category = models.Category(c.Category)
		fm.Difficulty = models.Difficulty(c.Difficulty)
		fm.Priority = models.Priority(c.Priority)
		fm.Minutes = fmt.Sprint(c.Minutes)
	}

	habit, err := fm.Habit(ctx.Now())
	if err != nil {
		return err
	}

	// Check if habit with same name already exists
	if _, err := ctx.Store.GetHabitByName(habit.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", habit.Name)
	} else if !errors.Is(err, apperrors.ErrHabitNotFound) {
		return err
	}

	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	ctx.Printf("Added habit: %s\n", habit.Name)
	if !habit.Category.Known() {
		ctx.Println(cli.WarningStyle.Render(fmt.Sprintf("  note: %q is not a built-in category", habit.Category)))
	}

	fresh, err := ctx.CheckAchievements(ctx.Now())
	if err != nil {
		return err
	}
	ctx.AnnounceUnlocks(fresh)
	return nil
}

type HabitListCmd struct {
	Archived bool   `help:"Include archived habits."`
	Date     string `help:"Reference day in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	ref, err := ctx.RefTime(c.Date)
	if err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(c.Archived)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	sort.SliceStable(habits, func(i, j int) bool {
		return strings.ToLower(habits[i].Name) < strings.ToLower(habits[j].Name)
	})

	today := utils.DayKey(ref)
	for _, habit := range habits {
		status := ""
		if habit.Archived {
			status = cli.MutedStyle.Render(" [ARCHIVED]")
		}
		streak := stats.CurrentStreak(habit, ref)
		ctx.Printf("%s %-24s %-13s streak %3d%s\n",
			cli.StateMark(habit.LogOn(today)),
			habit.Name,
			habit.Category,
			streak,
			status,
		)
	}

	return nil
}

type HabitToggleCmd struct {
	Name  string `arg:"" help:"Habit name or id."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	State string `help:"Set an explicit state (completed, missed, unlogged) instead of cycling." default:""`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	ref, err := ctx.RefTime(c.Date)
	if err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}

	day := utils.DayKey(ref)
	next := habit.Toggle(day)
	if c.State != "" {
		state, ok := models.ParseLogState(c.State)
		if !ok {
			return fmt.Errorf("invalid state %q (expected completed, missed or unlogged)", c.State)
		}
		next = state
	}

	if err := ctx.Store.SetLog(habit.ID, day, next); err != nil {
		return err
	}
	ctx.Printf("%s %s for %s: %s\n", cli.StateMark(next), habit.Name, day, next)

	fresh, err := ctx.CheckAchievements(ctx.Now())
	if err != nil {
		return err
	}
	ctx.AnnounceUnlocks(fresh)
	return nil
}

type HabitNoteCmd struct {
	Name string `arg:"" help:"Habit name or id."`
	Text string `arg:"" optional:"" help:"Note text. Leave empty to clear the note."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitNoteCmd) Run(ctx *cli.Context) error {
	ref, err := ctx.RefTime(c.Date)
	if err != nil {
		return err
	}

	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}

	day := utils.DayKey(ref)
	note := strings.TrimSpace(c.Text)
	if err := ctx.Store.SetNote(habit.ID, day, note); err != nil {
		return err
	}

	if note == "" {
		ctx.Printf("Cleared note for %s on %s\n", habit.Name, day)
	} else {
		ctx.Printf("Saved note for %s on %s\n", habit.Name, day)
	}
	return nil
}

type HabitArchiveCmd struct {
	Name string `arg:"" help:"Habit name or id."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}

	if habit.Archived {
		ctx.Printf("Habit %q is already archived\n", habit.Name)
		return nil
	}

	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Archived habit: %s\n", habit.Name)
	return nil
}

type HabitUnarchiveCmd struct {
	Name string `arg:"" help:"Habit name or id."`
}

func (c *HabitUnarchiveCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}

	if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Restored habit: %s\n", habit.Name)

	fresh, err := ctx.CheckAchievements(ctx.Now())
	if err != nil {
		return err
	}
	ctx.AnnounceUnlocks(fresh)
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name or id."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Name)
	if err != nil {
		return err
	}

	ctx.AutoBackup()
	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}

	ctx.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}
