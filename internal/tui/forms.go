package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/validation"
)

// HabitFormModel holds the raw values of the add-habit form.
type HabitFormModel struct {
	Name       string
	Category   models.Category
	Difficulty models.Difficulty
	Priority   models.Priority
	Minutes    string
}

// NewHabitFormModel returns a form model with the usual defaults.
func NewHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Category:   models.CategoryOther,
		Difficulty: models.DifficultyMedium,
		Priority:   models.PriorityMedium,
		Minutes:    "15",
	}
}

// NewHabitForm creates a new form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	categories := make([]huh.Option[models.Category], 0, len(models.KnownCategories))
	for _, c := range models.KnownCategories {
		categories = append(categories, huh.NewOption(string(c), c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.Category]().
				Title("Category").
				Options(categories...).
				Value(&fm.Category),
			huh.NewSelect[models.Difficulty]().
				Title("Difficulty").
				Options(
					huh.NewOption("Easy", models.DifficultyEasy),
					huh.NewOption("Medium", models.DifficultyMedium),
					huh.NewOption("Hard", models.DifficultyHard),
				).
				Value(&fm.Difficulty),
			huh.NewSelect[models.Priority]().
				Title("Priority").
				Options(
					huh.NewOption("Low", models.PriorityLow),
					huh.NewOption("Medium", models.PriorityMedium),
					huh.NewOption("High", models.PriorityHigh),
				).
				Value(&fm.Priority),
			huh.NewInput().
				Title("Estimated time (min)").
				Value(&fm.Minutes).
				Validate(validateMinutes),
		),
	).WithTheme(huh.ThemeDracula())
}

func validateMinutes(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	if i < 0 {
		return fmt.Errorf("estimated time cannot be negative")
	}
	return nil
}

// Habit builds and validates a new habit from the form values.
func (fm *HabitFormModel) Habit(now time.Time) (models.Habit, error) {
	minutes := 0
	if s := strings.TrimSpace(fm.Minutes); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return models.Habit{}, fmt.Errorf("invalid estimated time %q: %w", fm.Minutes, err)
		}
		minutes = n
	}

	habit := models.Habit{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(fm.Name),
		Category:         fm.Category,
		Difficulty:       fm.Difficulty,
		Priority:         fm.Priority,
		EstimatedMinutes: minutes,
		CreatedAt:        now,
		Logs:             models.Logs{},
	}
	if err := validation.Struct(habit); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}
