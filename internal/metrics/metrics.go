package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Registry holds every habitlens collector. It is separate from the
	// default registry so the CLI does not dump Go runtime metrics.
	Registry = prometheus.NewRegistry()

	// FilterCriterionFailures counts criteria that failed open during filter evaluation.
	FilterCriterionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "habitlens",
			Name:      "filter_criterion_failures_total",
			Help:      "Filter criteria that could not be evaluated and were treated as passing.",
		},
		[]string{"field", "reason"},
	)

	// AchievementsUnlocked counts achievements minted by the unlock check.
	AchievementsUnlocked = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "habitlens",
		Name:      "achievements_unlocked_total",
		Help:      "Achievements newly unlocked by the unlock check.",
	})

	// SkippedRecords counts stored records ignored while hydrating habits.
	SkippedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "habitlens",
			Name:      "skipped_records_total",
			Help:      "Malformed stored records that were skipped while loading.",
		},
		[]string{"kind"},
	)

	// PipelineRuns counts full analytics recomputations.
	PipelineRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "habitlens",
		Name:      "pipeline_runs_total",
		Help:      "Full statistics and insights recomputations.",
	})
)

func init() {
	Registry.MustRegister(FilterCriterionFailures, AchievementsUnlocked, SkippedRecords, PipelineRuns)
}

// WriteText writes every non-empty sample in a flat "name{labels} value" form.
func WriteText(w io.Writer) error {
	families, err := Registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
