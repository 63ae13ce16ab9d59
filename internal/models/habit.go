package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Category is an open set: the known values are offered in forms and templates,
// anything else is kept as entered.
type Category string

const (
	CategoryHealth       Category = "Health"
	CategoryFitness      Category = "Fitness"
	CategoryProductivity Category = "Productivity"
	CategoryLearning     Category = "Learning"
	CategoryMindfulness  Category = "Mindfulness"
	CategorySocial       Category = "Social"
	CategoryFinance      Category = "Finance"
	CategoryCreativity   Category = "Creativity"
	CategoryOther        Category = "Other"
)

// KnownCategories lists the built-in categories in display order.
var KnownCategories = []Category{
	CategoryHealth,
	CategoryFitness,
	CategoryProductivity,
	CategoryLearning,
	CategoryMindfulness,
	CategorySocial,
	CategoryFinance,
	CategoryCreativity,
	CategoryOther,
}

// Known reports whether c matches a built-in category, ignoring case.
func (c Category) Known() bool {
	for _, k := range KnownCategories {
		if strings.EqualFold(string(k), string(c)) {
			return true
		}
	}
	return false
}

// LogState is the tri-state value of a habit on one day. The zero value is
// Unlogged, so reading a missing map key never looks like a miss.
type LogState int

const (
	Unlogged LogState = iota
	Completed
	Missed
)

func (s LogState) String() string {
	switch s {
	case Completed:
		return "completed"
	case Missed:
		return "missed"
	default:
		return "unlogged"
	}
}

// Next returns the state a toggle moves to: unlogged -> completed -> missed -> unlogged.
func (s LogState) Next() LogState {
	switch s {
	case Unlogged:
		return Completed
	case Completed:
		return Missed
	default:
		return Unlogged
	}
}

// ParseLogState accepts the String() forms plus "true"/"false"/"done"/"skip".
func ParseLogState(s string) (LogState, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "completed", "true", "done", "yes":
		return Completed, true
	case "missed", "false", "skip", "no":
		return Missed, true
	case "unlogged", "none", "clear", "":
		return Unlogged, true
	}
	return Unlogged, false
}

// MarshalJSON encodes completed as true and missed as false. Unlogged entries
// are never kept in a Logs map, but encode as null if they appear.
func (s LogState) MarshalJSON() ([]byte, error) {
	switch s {
	case Completed:
		return []byte("true"), nil
	case Missed:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON treats anything other than a JSON boolean as no data.
func (s *LogState) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		*s = Unlogged
		return nil
	}
	if b {
		*s = Completed
	} else {
		*s = Missed
	}
	return nil
}

// Logs maps a canonical day key (YYYY-MM-DD) to its log state.
type Logs map[string]LogState

// Habit represents a recurring practice to track
type Habit struct {
	ID               string            `json:"id" validate:"required"`
	Name             string            `json:"name" validate:"required,max=100"`
	Category         Category          `json:"category" validate:"max=50"`
	Difficulty       Difficulty        `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Priority         Priority          `json:"priority" validate:"omitempty,oneof=low medium high"`
	EstimatedMinutes int               `json:"estimated_time" validate:"gte=0"`
	CreatedAt        time.Time         `json:"created_at"`
	Archived         bool              `json:"archived"`
	Logs             Logs              `json:"logs"`
	Notes            map[string]string `json:"notes,omitempty"`
}

// LogOn returns the state recorded for day. It is the only way analytics code
// reads the log map.
func (h Habit) LogOn(day string) LogState {
	if h.Logs == nil {
		return Unlogged
	}
	return h.Logs[day]
}

// SetLog records state for day, removing the entry when state is Unlogged.
func (h *Habit) SetLog(day string, state LogState) {
	if state == Unlogged {
		delete(h.Logs, day)
		return
	}
	if h.Logs == nil {
		h.Logs = make(Logs)
	}
	h.Logs[day] = state
}

// Toggle advances the state for day and returns the new state.
func (h *Habit) Toggle(day string) LogState {
	next := h.LogOn(day).Next()
	h.SetLog(day, next)
	return next
}

// SetNote stores a note for day; an empty note removes it.
func (h *Habit) SetNote(day, note string) {
	if note == "" {
		delete(h.Notes, day)
		return
	}
	if h.Notes == nil {
		h.Notes = make(map[string]string)
	}
	h.Notes[day] = note
}

// CompletedCount counts completed entries over the whole history.
func (h Habit) CompletedCount() int {
	count := 0
	for _, state := range h.Logs {
		if state == Completed {
			count++
		}
	}
	return count
}

// ActiveHabits returns the non-archived habits, preserving order.
func ActiveHabits(habits []Habit) []Habit {
	active := make([]Habit, 0, len(habits))
	for _, h := range habits {
		if !h.Archived {
			active = append(active, h)
		}
	}
	return active
}
