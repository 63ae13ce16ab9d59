package system

import (
	"github.com/julianstephens/habitlens/internal/achievements"
	"github.com/julianstephens/habitlens/internal/cli"
	"github.com/julianstephens/habitlens/internal/filter"
	"github.com/julianstephens/habitlens/internal/insights"
	"github.com/julianstephens/habitlens/internal/metrics"
	"github.com/julianstephens/habitlens/internal/models"
)

// MetricsCmd recomputes the dashboard once and prints the process counters,
// which include criteria that failed open and records skipped while loading.
type MetricsCmd struct {
	Date   string `help:"Reference day in YYYY-MM-DD format (default: today)." default:""`
	Filter string `help:"Also evaluate this filter definition." type:"existingfile"`
}

func (c *MetricsCmd) Run(ctx *cli.Context) error {
	ref, err := ctx.RefTime(c.Date)
	if err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}
	unlocked, err := ctx.Store.GetAchievements()
	if err != nil {
		return err
	}

	metrics.PipelineRuns.Inc()
	insights.Generate(habits, ref)
	achievements.Status(habits, unlocked, ref)

	if c.Filter != "" {
		f, err := readFilterFile(c.Filter)
		if err != nil {
			return err
		}
		filter.New(ref).FilterCollection(models.ActiveHabits(habits), f)
	}

	return metrics.WriteText(ctx.Writer())
}
