package validation

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/julianstephens/habitlens/internal/errors"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/utils"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct checks v against its validate tags and flattens the failures into
// one readable error.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrInvalid, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param())
	}
}

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidField       ConflictType = "invalid_field"
	ConflictDuplicateHabitName ConflictType = "duplicate_habit_name"
	ConflictInvalidDayKey      ConflictType = "invalid_day_key"
	ConflictUnknownCategory    ConflictType = "unknown_category"
	ConflictUnknownHabit       ConflictType = "unknown_habit"
	ConflictInvalidCriterion   ConflictType = "invalid_criterion"
	ConflictInvalidValue       ConflictType = "invalid_value"
)

// Conflict represents a problem found in stored or imported data
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Names involved
	IDs         []string // IDs of habits or challenges involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks habits, challenges and filters for problems the analytics
// would otherwise silently skip.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabits reports tag failures, duplicate names, malformed day keys and
// categories outside the built-in set.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	nameIDs := make(map[string][]string)
	for _, h := range habits {
		if err := Struct(h); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidField,
				Description: fmt.Sprintf("Habit \"%s\": %v", h.Name, err),
				Items:       []string{h.Name},
				IDs:         []string{h.ID},
			})
		}

		if h.Name != "" && !h.Archived {
			key := strings.ToLower(h.Name)
			nameIDs[key] = append(nameIDs[key], h.ID)
		}

		if h.Category != "" && !h.Category.Known() {
			result.add(Conflict{
				Type:        ConflictUnknownCategory,
				Description: fmt.Sprintf("Habit \"%s\" uses custom category \"%s\"", h.Name, h.Category),
				Items:       []string{h.Name},
				IDs:         []string{h.ID},
			})
		}

		for _, day := range badKeys(h) {
			result.add(Conflict{
				Type:        ConflictInvalidDayKey,
				Description: fmt.Sprintf("Habit \"%s\" has a log or note under invalid day \"%s\"", h.Name, day),
				Items:       []string{h.Name, day},
				IDs:         []string{h.ID},
			})
		}
	}

	names := make([]string, 0, len(nameIDs))
	for name := range nameIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if ids := nameIDs[name]; len(ids) > 1 {
			result.add(Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: \"%s\" (IDs: %v)", name, ids),
				Items:       []string{name},
				IDs:         ids,
			})
		}
	}

	return result
}

func badKeys(h models.Habit) []string {
	seen := make(map[string]struct{})
	for day := range h.Logs {
		if !utils.IsDayKey(day) {
			seen[day] = struct{}{}
		}
	}
	for day := range h.Notes {
		if !utils.IsDayKey(day) {
			seen[day] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for day := range seen {
		keys = append(keys, day)
	}
	sort.Strings(keys)
	return keys
}

// ValidateChallenges reports tag failures and references to habits that no longer exist.
func (v *Validator) ValidateChallenges(challenges []models.Challenge, habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	known := make(map[string]struct{}, len(habits))
	for _, h := range habits {
		known[h.ID] = struct{}{}
	}

	for _, c := range challenges {
		if err := Struct(c); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidField,
				Description: fmt.Sprintf("Challenge \"%s\": %v", c.Name, err),
				Items:       []string{c.Name},
				IDs:         []string{c.ID},
			})
		}
		for _, id := range c.HabitIDs {
			if _, ok := known[id]; !ok {
				result.add(Conflict{
					Type:        ConflictUnknownHabit,
					Description: fmt.Sprintf("Challenge \"%s\" references unknown habit %s", c.Name, id),
					Items:       []string{c.Name},
					IDs:         []string{c.ID, id},
				})
			}
		}
	}

	return result
}

// ValidateFilter reports criteria that evaluation would fail open on.
func (v *Validator) ValidateFilter(f models.AdvancedFilter) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	for gi, g := range f.Groups {
		for ci, c := range g.Criteria {
			where := fmt.Sprintf("group %d (%s) criterion %d", gi+1, g.ID, ci+1)

			if !c.Valid() {
				result.add(Conflict{
					Type:        ConflictInvalidCriterion,
					Description: fmt.Sprintf("%s: operator %q is not valid for field %q", where, c.Operator, c.Field),
					Items:       []string{string(c.Field), string(c.Operator)},
					IDs:         []string{g.ID},
				})
				continue
			}

			if msg := valueProblem(c); msg != "" {
				result.add(Conflict{
					Type:        ConflictInvalidValue,
					Description: fmt.Sprintf("%s: %s", where, msg),
					Items:       []string{string(c.Field), string(c.Value)},
					IDs:         []string{g.ID},
				})
			}
		}
	}

	return result
}

func valueProblem(c models.FilterCriteria) string {
	value := strings.TrimSpace(string(c.Value))
	switch c.Field.Kind() {
	case models.KindNumeric:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Sprintf("%q is not a number", c.Value)
		}
	case models.KindStatus:
		switch strings.ToLower(value) {
		case models.StatusCompletedToday, models.StatusPendingToday, models.StatusMissedToday:
		default:
			return fmt.Sprintf("%q is not a known status", c.Value)
		}
	}
	return ""
}
