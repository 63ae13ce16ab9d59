package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/julianstephens/habitlens/internal/errors"
	"github.com/julianstephens/habitlens/internal/logger"
	"github.com/julianstephens/habitlens/internal/metrics"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/utils"
)

const habitColumns = "id, name, category, difficulty, priority, estimated_minutes, archived, created_at"

// AddHabit inserts the habit together with any logs and notes it carries.
func (s *SQLStore) AddHabit(habit models.Habit) error {
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(s.q(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		habit.ID, habit.Name, string(habit.Category), string(habit.Difficulty), string(habit.Priority),
		habit.EstimatedMinutes, habit.Archived, formatTime(habit.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert habit: %w", err)
	}

	for day, state := range habit.Logs {
		if state == models.Unlogged {
			continue
		}
		if err := s.upsertLog(tx, habit.ID, day, state); err != nil {
			return err
		}
	}
	for day, note := range habit.Notes {
		if note == "" {
			continue
		}
		if err := s.upsertNote(tx, habit.ID, day, note); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLStore) GetHabit(id string) (models.Habit, error) {
	return s.getHabitWhere("id = ?", id)
}

// GetHabitByName matches names case-insensitively.
func (s *SQLStore) GetHabitByName(name string) (models.Habit, error) {
	return s.getHabitWhere("LOWER(name) = LOWER(?)", strings.TrimSpace(name))
}

func (s *SQLStore) getHabitWhere(cond string, arg any) (models.Habit, error) {
	if err := s.ready(); err != nil {
		return models.Habit{}, err
	}

	habits, err := s.loadHabits("WHERE "+cond+" ORDER BY created_at, id", arg)
	if err != nil {
		return models.Habit{}, err
	}
	if len(habits) == 0 {
		return models.Habit{}, apperrors.ErrHabitNotFound
	}
	return habits[0], nil
}

// GetAllHabits returns habits in creation order.
func (s *SQLStore) GetAllHabits(includeArchived bool) ([]models.Habit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	clause := "ORDER BY created_at, id"
	if !includeArchived {
		clause = "WHERE archived = ? " + clause
		return s.loadHabits(clause, false)
	}
	return s.loadHabits(clause)
}

// loadHabits reads matching habits and attaches their logs and notes inside
// one transaction, so a concurrent toggle is either fully visible or not at all.
func (s *SQLStore) loadHabits(clause string, args ...any) ([]models.Habit, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.Query(s.q("SELECT "+habitColumns+" FROM habits "+clause), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}

	habits := []models.Habit{}
	index := make(map[string]int)
	for rows.Next() {
		var h models.Habit
		var category, difficulty, priority, createdAt string
		if err := rows.Scan(&h.ID, &h.Name, &category, &difficulty, &priority, &h.EstimatedMinutes, &h.Archived, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		h.Category = models.Category(category)
		h.Difficulty = models.Difficulty(difficulty)
		h.Priority = models.Priority(priority)
		if h.CreatedAt, err = parseTime(createdAt); err != nil {
			logger.Warn("Habit has unreadable created_at", "habit", h.ID, "value", createdAt)
		}
		index[h.ID] = len(habits)
		habits = append(habits, h)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if len(habits) == 0 {
		return habits, nil
	}

	if err := s.attachLogs(tx, habits, index); err != nil {
		return nil, err
	}
	if err := s.attachNotes(tx, habits, index); err != nil {
		return nil, err
	}

	return habits, tx.Commit()
}

// attachLogs skips rows whose day key is malformed: one bad row must not hide
// the rest of a habit's history.
func (s *SQLStore) attachLogs(tx *sql.Tx, habits []models.Habit, index map[string]int) error {
	rows, err := tx.Query("SELECT habit_id, day, completed FROM habit_logs")
	if err != nil {
		return fmt.Errorf("failed to query habit logs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var habitID, day string
		var completed bool
		if err := rows.Scan(&habitID, &day, &completed); err != nil {
			return fmt.Errorf("failed to scan habit log: %w", err)
		}
		i, ok := index[habitID]
		if !ok {
			continue
		}
		if !utils.IsDayKey(day) {
			skip("log", habitID, day)
			continue
		}
		state := models.Missed
		if completed {
			state = models.Completed
		}
		habits[i].SetLog(day, state)
	}
	return rows.Err()
}

func (s *SQLStore) attachNotes(tx *sql.Tx, habits []models.Habit, index map[string]int) error {
	rows, err := tx.Query("SELECT habit_id, day, note FROM habit_notes")
	if err != nil {
		return fmt.Errorf("failed to query habit notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var habitID, day, note string
		if err := rows.Scan(&habitID, &day, &note); err != nil {
			return fmt.Errorf("failed to scan habit note: %w", err)
		}
		i, ok := index[habitID]
		if !ok {
			continue
		}
		if !utils.IsDayKey(day) {
			skip("note", habitID, day)
			continue
		}
		habits[i].SetNote(day, note)
	}
	return rows.Err()
}

func skip(kind, habitID, day string) {
	logger.Warn("Skipping stored record with invalid day", "kind", kind, "habit", habitID, "day", day)
	metrics.SkippedRecords.WithLabelValues(kind).Inc()
}

func (s *SQLStore) UpdateHabit(habit models.Habit) error {
	if err := s.ready(); err != nil {
		return err
	}

	res, err := s.db.Exec(s.q(`
		UPDATE habits SET name = ?, category = ?, difficulty = ?, priority = ?, estimated_minutes = ?, archived = ?
		WHERE id = ?`),
		habit.Name, string(habit.Category), string(habit.Difficulty), string(habit.Priority),
		habit.EstimatedMinutes, habit.Archived, habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return expectRow(res, apperrors.ErrHabitNotFound)
}

func (s *SQLStore) ArchiveHabit(id string) error {
	return s.setArchived(id, true)
}

func (s *SQLStore) UnarchiveHabit(id string) error {
	return s.setArchived(id, false)
}

func (s *SQLStore) setArchived(id string, archived bool) error {
	if err := s.ready(); err != nil {
		return err
	}
	res, err := s.db.Exec(s.q("UPDATE habits SET archived = ? WHERE id = ?"), archived, id)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return expectRow(res, apperrors.ErrHabitNotFound)
}

func (s *SQLStore) DeleteHabit(id string) error {
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"habit_logs", "habit_notes"} {
		if _, err := tx.Exec(s.q("DELETE FROM "+table+" WHERE habit_id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	res, err := tx.Exec(s.q("DELETE FROM habits WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if err := expectRow(res, apperrors.ErrHabitNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

// SetLog records state for day. Unlogged deletes the row instead of storing a false.
func (s *SQLStore) SetLog(habitID, day string, state models.LogState) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !utils.IsDayKey(day) {
		return fmt.Errorf("invalid day %q: expected YYYY-MM-DD", day)
	}
	if err := s.habitExists(habitID); err != nil {
		return err
	}

	if state == models.Unlogged {
		_, err := s.db.Exec(s.q("DELETE FROM habit_logs WHERE habit_id = ? AND day = ?"), habitID, day)
		if err != nil {
			return fmt.Errorf("failed to clear log: %w", err)
		}
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	if err := s.upsertLog(tx, habitID, day, state); err != nil {
		return err
	}
	return tx.Commit()
}

// SetNote stores a note for day; an empty note removes it.
func (s *SQLStore) SetNote(habitID, day, note string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if !utils.IsDayKey(day) {
		return fmt.Errorf("invalid day %q: expected YYYY-MM-DD", day)
	}
	if err := s.habitExists(habitID); err != nil {
		return err
	}

	if note == "" {
		_, err := s.db.Exec(s.q("DELETE FROM habit_notes WHERE habit_id = ? AND day = ?"), habitID, day)
		if err != nil {
			return fmt.Errorf("failed to clear note: %w", err)
		}
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	if err := s.upsertNote(tx, habitID, day, note); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) upsertLog(tx *sql.Tx, habitID, day string, state models.LogState) error {
	if !utils.IsDayKey(day) {
		return fmt.Errorf("invalid day %q: expected YYYY-MM-DD", day)
	}
	_, err := tx.Exec(s.q(`
		INSERT INTO habit_logs (habit_id, day, completed) VALUES (?, ?, ?)
		ON CONFLICT (habit_id, day) DO UPDATE SET completed = excluded.completed`),
		habitID, day, state == models.Completed)
	if err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}
	return nil
}

func (s *SQLStore) upsertNote(tx *sql.Tx, habitID, day, note string) error {
	if !utils.IsDayKey(day) {
		return fmt.Errorf("invalid day %q: expected YYYY-MM-DD", day)
	}
	_, err := tx.Exec(s.q(`
		INSERT INTO habit_notes (habit_id, day, note) VALUES (?, ?, ?)
		ON CONFLICT (habit_id, day) DO UPDATE SET note = excluded.note`),
		habitID, day, note)
	if err != nil {
		return fmt.Errorf("failed to write note: %w", err)
	}
	return nil
}

func (s *SQLStore) habitExists(id string) error {
	var one int
	err := s.db.QueryRow(s.q("SELECT 1 FROM habits WHERE id = ?"), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrHabitNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up habit: %w", err)
	}
	return nil
}

func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
