// Package filter evaluates advanced habit filters: active groups of criteria
// combined with AND/OR logic. A criterion that cannot be evaluated passes and
// is reported instead of aborting the whole filter.
package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitlens/internal/logger"
	"github.com/julianstephens/habitlens/internal/metrics"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/stats"
	"github.com/julianstephens/habitlens/internal/utils"
)

// Failure reasons passed to a Reporter.
const (
	ReasonUnknownField    = "unknown_field"
	ReasonInvalidOperator = "invalid_operator"
	ReasonInvalidValue    = "invalid_value"
	ReasonPanic           = "panic"
)

const epsilon = 1e-9

var (
	errUnknownField    = errors.New("unknown filter field")
	errInvalidOperator = errors.New("operator not valid for field")
	errInvalidValue    = errors.New("value cannot be compared")
)

// Reporter receives criteria that failed open.
type Reporter interface {
	CriterionFailed(criterion models.FilterCriteria, reason string, err error)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(criterion models.FilterCriteria, reason string, err error)

func (f ReporterFunc) CriterionFailed(criterion models.FilterCriteria, reason string, err error) {
	f(criterion, reason, err)
}

// LogReporter logs a warning and counts the failure.
var LogReporter Reporter = ReporterFunc(func(c models.FilterCriteria, reason string, err error) {
	logger.Warn("Filter criterion failed open", "field", c.Field, "operator", c.Operator, "value", c.Value, "reason", reason, "error", err)
	metrics.FilterCriterionFailures.WithLabelValues(string(c.Field), reason).Inc()
})

// Evaluator applies filters relative to a fixed reference time.
type Evaluator struct {
	ref      time.Time
	reporter Reporter
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithReporter replaces the default LogReporter.
func WithReporter(r Reporter) Option {
	return func(e *Evaluator) {
		if r != nil {
			e.reporter = r
		}
	}
}

// New creates an Evaluator whose "today" and statistics are taken at ref.
func New(ref time.Time, opts ...Option) *Evaluator {
	e := &Evaluator{ref: ref, reporter: LogReporter}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate reports whether habit satisfies f. Inactive and empty groups are
// ignored; a filter without any remaining group passes everything.
func (e *Evaluator) Evaluate(habit models.Habit, f models.AdvancedFilter) bool {
	var results []bool
	for _, g := range f.Groups {
		if !g.Active || len(g.Criteria) == 0 {
			continue
		}
		results = append(results, e.evaluateGroup(habit, g))
	}
	if len(results) == 0 {
		return true
	}
	return combine(f.Logic, results)
}

// FilterCollection returns the habits that satisfy f in their original order.
func (e *Evaluator) FilterCollection(habits []models.Habit, f models.AdvancedFilter) []models.Habit {
	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if e.Evaluate(h, f) {
			out = append(out, h)
		}
	}
	return out
}

func (e *Evaluator) evaluateGroup(habit models.Habit, g models.FilterGroup) bool {
	results := make([]bool, len(g.Criteria))
	for i, c := range g.Criteria {
		results[i] = e.evaluateCriterion(habit, c)
	}
	return combine(g.Logic, results)
}

// combine treats any logic other than OR as AND.
func combine(logic models.LogicalOperator, results []bool) bool {
	if strings.EqualFold(string(logic), string(models.LogicOr)) {
		for _, r := range results {
			if r {
				return true
			}
		}
		return false
	}
	for _, r := range results {
		if !r {
			return false
		}
	}
	return true
}

func (e *Evaluator) evaluateCriterion(habit models.Habit, c models.FilterCriteria) (pass bool) {
	defer func() {
		if r := recover(); r != nil {
			e.reporter.CriterionFailed(c, ReasonPanic, fmt.Errorf("%v", r))
			pass = true
		}
	}()

	ok, reason, err := e.match(habit, c)
	if err != nil {
		e.reporter.CriterionFailed(c, reason, err)
		return true
	}
	return ok
}

func (e *Evaluator) match(habit models.Habit, c models.FilterCriteria) (bool, string, error) {
	kind := c.Field.Kind()
	if kind == models.KindUnknown {
		return false, ReasonUnknownField, fmt.Errorf("%w: %q", errUnknownField, c.Field)
	}
	if !c.Operator.ValidFor(kind) {
		return false, ReasonInvalidOperator, fmt.Errorf("%w: %q on %q", errInvalidOperator, c.Operator, c.Field)
	}

	value := strings.TrimSpace(string(c.Value))

	switch kind {
	case models.KindString:
		return compareStrings(e.stringField(habit, c.Field), value, c.Operator), "", nil
	case models.KindStatus:
		if !knownStatus(value) {
			return false, ReasonInvalidValue, fmt.Errorf("%w: status %q", errInvalidValue, value)
		}
		return compareStrings(e.status(habit), value, c.Operator), "", nil
	default:
		want, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(want) {
			return false, ReasonInvalidValue, fmt.Errorf("%w: %q is not a number", errInvalidValue, value)
		}
		return compareNumbers(e.numericField(habit, c.Field), want, c.Operator), "", nil
	}
}

func (e *Evaluator) stringField(habit models.Habit, field models.FilterField) string {
	switch field {
	case models.FieldCategory:
		return string(habit.Category)
	case models.FieldPriority:
		return string(habit.Priority)
	case models.FieldDifficulty:
		return string(habit.Difficulty)
	case models.FieldArchived:
		return strconv.FormatBool(habit.Archived)
	}
	return ""
}

// numericField computes derived values per criterion; nothing is cached between calls.
func (e *Evaluator) numericField(habit models.Habit, field models.FilterField) float64 {
	switch field {
	case models.FieldCompletionRate:
		return stats.Calculate(habit, e.ref).CompletionRate
	case models.FieldStreak:
		return float64(stats.CurrentStreak(habit, e.ref))
	case models.FieldEstimatedTime:
		return float64(habit.EstimatedMinutes)
	}
	return 0
}

// status classifies today's log. An archived habit without an entry has no status.
func (e *Evaluator) status(habit models.Habit) string {
	switch habit.LogOn(utils.DayKey(e.ref)) {
	case models.Completed:
		return models.StatusCompletedToday
	case models.Missed:
		return models.StatusMissedToday
	}
	if habit.Archived {
		return ""
	}
	return models.StatusPendingToday
}

func knownStatus(value string) bool {
	switch strings.ToLower(value) {
	case models.StatusCompletedToday, models.StatusPendingToday, models.StatusMissedToday:
		return true
	}
	return false
}

func compareStrings(actual, want string, op models.FilterOperator) bool {
	equal := strings.EqualFold(actual, want)
	if op == models.OpNotEquals {
		return !equal
	}
	return equal
}

func compareNumbers(actual, want float64, op models.FilterOperator) bool {
	switch op {
	case models.OpEquals:
		return math.Abs(actual-want) < epsilon
	case models.OpNotEquals:
		return math.Abs(actual-want) >= epsilon
	case models.OpGreaterThan:
		return actual > want
	case models.OpLessThan:
		return actual < want
	case models.OpGreaterEqual:
		return actual >= want
	case models.OpLessEqual:
		return actual <= want
	}
	return false
}
