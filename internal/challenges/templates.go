package challenges

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/utils"
)

// Template is a predefined challenge that can be started on any day.
type Template struct {
	ID           string
	Name         string
	Description  string
	Type         models.ChallengeType
	Target       float64
	DurationDays int
}

var templates = []Template{
	{ID: "seven-day-streak", Name: "7-Day Streak", Description: "Keep any habit going for a full week", Type: models.ChallengeStreak, Target: 7, DurationDays: 7},
	{ID: "thirty-completions", Name: "30 Completions", Description: "Log 30 completions across your habits", Type: models.ChallengeCompletion, Target: 30, DurationDays: 30},
	{ID: "steady-eighty", Name: "Steady 80", Description: "Hold an average consistency score of 80", Type: models.ChallengeConsistency, Target: 80, DurationDays: 30},
	{ID: "juggler", Name: "Juggler", Description: "Complete 3 habits on the same day 5 times", Type: models.ChallengeMultiHabit, Target: 5, DurationDays: 14},
}

// Templates returns the predefined challenges.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// TemplateByID looks up a predefined challenge.
func TemplateByID(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// FromTemplate instantiates tpl as an active challenge beginning on start's day.
func FromTemplate(tpl Template, start time.Time) models.Challenge {
	first := utils.StartOfDay(start)
	return models.Challenge{
		ID:           uuid.New().String(),
		Name:         tpl.Name,
		Description:  tpl.Description,
		Type:         tpl.Type,
		Target:       tpl.Target,
		DurationDays: tpl.DurationDays,
		StartDate:    utils.DayKey(first),
		EndDate:      utils.DayKey(first.AddDate(0, 0, tpl.DurationDays-1)),
		Active:       true,
		CreatedAt:    start,
	}
}

// EndDay returns the challenge's last day key, deriving it from the start date
// and duration when no explicit end date is stored.
func EndDay(challenge models.Challenge, loc *time.Location) (string, bool) {
	if challenge.EndDate != "" {
		return challenge.EndDate, true
	}
	if challenge.DurationDays <= 0 {
		return "", false
	}
	start, err := utils.ParseDay(challenge.StartDate, loc)
	if err != nil {
		return "", false
	}
	return utils.DayKey(start.AddDate(0, 0, challenge.DurationDays-1)), true
}

// IsExpired reports whether now falls after the challenge's last day.
func IsExpired(challenge models.Challenge, now time.Time) bool {
	end, ok := EndDay(challenge, now.Location())
	if !ok {
		return false
	}
	return utils.DayKey(now) > end
}
