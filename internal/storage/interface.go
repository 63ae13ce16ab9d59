package storage

import "github.com/julianstephens/habitlens/internal/models"

// Provider is the persistence boundary. Habits come back fully hydrated with
// their logs and notes, so callers always analyse one consistent snapshot.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived bool) ([]models.Habit, error)
	// UpdateHabit writes the habit's attributes. Logs and notes are changed
	// through SetLog and SetNote.
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	// DeleteHabit removes the habit with its logs and notes.
	DeleteHabit(id string) error

	// Logs and notes. Setting a log to Unlogged removes the entry.
	SetLog(habitID, day string, state models.LogState) error
	SetNote(habitID, day, note string) error

	// Achievements. SaveAchievements only inserts ids that are not yet stored,
	// so an unlock time is never overwritten.
	GetAchievements() ([]models.Achievement, error)
	SaveAchievements([]models.Achievement) error

	// Challenges
	AddChallenge(models.Challenge) error
	GetChallenge(id string) (models.Challenge, error)
	GetAllChallenges() ([]models.Challenge, error)
	UpdateChallenge(models.Challenge) error
	DeleteChallenge(id string) error

	// Utils
	GetConfigPath() string
}
