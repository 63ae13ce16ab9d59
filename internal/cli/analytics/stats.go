package analytics

import (
	"fmt"

	"github.com/julianstephens/habitlens/internal/cli"
	"github.com/julianstephens/habitlens/internal/metrics"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/stats"
)

type StatsCmd struct {
	Name     string `arg:"" optional:"" help:"Habit name or id. Omit to show every active habit."`
	Date     string `help:"Reference day in YYYY-MM-DD format (default: today)." default:""`
	Archived bool   `help:"Include archived habits when no name is given."`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	ref, err := ctx.RefTime(c.Date)
	if err != nil {
		return err
	}

	var habits []models.Habit
	if c.Name != "" {
		habit, err := ctx.FindHabit(c.Name)
		if err != nil {
			return err
		}
		habits = []models.Habit{habit}
	} else {
		habits, err = ctx.Store.GetAllHabits(c.Archived)
		if err != nil {
			return err
		}
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	metrics.PipelineRuns.Inc()
	for i, habit := range habits {
		if i > 0 {
			ctx.Println()
		}
		printStats(ctx, habit, stats.Calculate(habit, ref))
	}
	return nil
}

func printStats(ctx *cli.Context, habit models.Habit, st models.HabitStats) {
	title := habit.Name
	if habit.Archived {
		title += " [ARCHIVED]"
	}
	ctx.Println(cli.HeaderStyle.Render(title))
	ctx.Println(cli.Field("Current streak", fmt.Sprintf("%d days", st.CurrentStreak)))
	ctx.Println(cli.Field("Longest streak", fmt.Sprintf("%d days", st.LongestStreak)))
	ctx.Println(cli.Field("Completions", fmt.Sprintf("%d", st.TotalCompletions)))
	ctx.Println(cli.Field("Missed days", fmt.Sprintf("%d", st.MissedDays)))
	ctx.Println(cli.Field("Completion rate", cli.FormatPercent(st.CompletionRate)))
	ctx.Println(cli.Field("Last 7 days", cli.FormatPercent(st.WeeklyProgress)))
	ctx.Println(cli.Field("Last 30 days", cli.FormatPercent(st.MonthlyProgress)))
	ctx.Println(cli.Field("Consistency", cli.FormatPercent(st.ConsistencyScore)))
	if st.BestWeek.Completions > 0 {
		ctx.Println(cli.Field("Best week", fmt.Sprintf("%s → %s (%d)", st.BestWeek.Start, st.BestWeek.End, st.BestWeek.Completions)))
	} else {
		ctx.Println(cli.Field("Best week", cli.MutedStyle.Render("none yet")))
	}
}
