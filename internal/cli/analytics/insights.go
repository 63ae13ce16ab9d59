package analytics

import (
	"fmt"

	"github.com/julianstephens/habitlens/internal/cli"
	"github.com/julianstephens/habitlens/internal/insights"
	"github.com/julianstephens/habitlens/internal/metrics"
)

type InsightsCmd struct {
	Date string `help:"Reference day in YYYY-MM-DD format (default: today)." default:""`
}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	ref, err := ctx.RefTime(c.Date)
	if err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}

	metrics.PipelineRuns.Inc()
	data := insights.Generate(habits, ref)

	ctx.Println(cli.HeaderStyle.Render("Insights"))
	ctx.Println(cli.Field("Habits", fmt.Sprintf("%d active / %d total", data.ActiveHabits, data.TotalHabits)))
	ctx.Println(cli.Field("Completed today", fmt.Sprintf("%d", data.CompletedToday)))
	ctx.Println(cli.Field("Average streak", fmt.Sprintf("%.2f days", data.AverageStreak)))
	ctx.Println(cli.Field("Consistency", cli.FormatPercent(data.ConsistencyScore)))
	ctx.Println(cli.Field("Weekly trend", trend(data.WeeklyTrend)))
	ctx.Println(cli.Field("Monthly trend", trend(data.MonthlyTrend)))

	if data.ActiveHabits == 0 {
		return nil
	}

	ctx.Println(cli.Field("Best day", fmt.Sprintf("%s (%s)", data.BestDay.Name, cli.FormatPercent(data.BestDay.Rate))))
	ctx.Println(cli.Field("Worst day", fmt.Sprintf("%s (%s)", data.WorstDay.Name, cli.FormatPercent(data.WorstDay.Rate))))
	if data.BestPerformingHabit != nil {
		best := data.BestPerformingHabit
		ctx.Println(cli.Field("Best habit", fmt.Sprintf("%s (%s)", best.Name, cli.FormatPercent(best.CompletionRate))))
	}

	if len(data.StrugglingHabits) == 0 {
		return nil
	}
	ctx.Println()
	ctx.Println(cli.WarningStyle.Render("Struggling habits"))
	for _, h := range data.StrugglingHabits {
		ctx.Printf("  %-24s %s\n", h.Name, cli.FormatPercent(h.CompletionRate))
	}
	return nil
}

func trend(v float64) string {
	switch {
	case v > 0:
		return cli.SuccessStyle.Render(cli.FormatTrend(v))
	case v < 0:
		return cli.DangerStyle.Render(cli.FormatTrend(v))
	default:
		return cli.FormatTrend(v)
	}
}
