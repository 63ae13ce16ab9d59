package storage

import (
	"database/sql"
	"fmt"

	apperrors "github.com/julianstephens/habitlens/internal/errors"
	"github.com/julianstephens/habitlens/internal/logger"
	"github.com/julianstephens/habitlens/internal/models"
)

const challengeColumns = "id, name, description, type, target, duration_days, start_date, end_date, active, created_at"

func (s *SQLStore) AddChallenge(c models.Challenge) error {
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(s.q(`
		INSERT INTO challenges (`+challengeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		c.ID, c.Name, c.Description, string(c.Type), c.Target, c.DurationDays,
		c.StartDate, c.EndDate, c.Active, formatTime(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert challenge: %w", err)
	}
	if err := s.writeChallengeHabits(tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) GetChallenge(id string) (models.Challenge, error) {
	if err := s.ready(); err != nil {
		return models.Challenge{}, err
	}
	list, err := s.loadChallenges("WHERE id = ?", id)
	if err != nil {
		return models.Challenge{}, err
	}
	if len(list) == 0 {
		return models.Challenge{}, apperrors.ErrChallengeNotFound
	}
	return list[0], nil
}

func (s *SQLStore) GetAllChallenges() ([]models.Challenge, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.loadChallenges("")
}

func (s *SQLStore) loadChallenges(where string, args ...any) ([]models.Challenge, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	rows, err := tx.Query(s.q("SELECT "+challengeColumns+" FROM challenges "+where+" ORDER BY created_at, id"), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}

	list := []models.Challenge{}
	index := make(map[string]int)
	for rows.Next() {
		var c models.Challenge
		var typ, createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &typ, &c.Target, &c.DurationDays,
			&c.StartDate, &c.EndDate, &c.Active, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		c.Type = models.ChallengeType(typ)
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			logger.Warn("Challenge has unreadable created_at", "challenge", c.ID, "value", createdAt)
		}
		index[c.ID] = len(list)
		list = append(list, c)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	links, err := tx.Query("SELECT challenge_id, habit_id FROM challenge_habits ORDER BY challenge_id, position")
	if err != nil {
		return nil, fmt.Errorf("failed to query challenge habits: %w", err)
	}
	defer links.Close()
	for links.Next() {
		var challengeID, habitID string
		if err := links.Scan(&challengeID, &habitID); err != nil {
			return nil, fmt.Errorf("failed to scan challenge habit: %w", err)
		}
		if i, ok := index[challengeID]; ok {
			list[i].HabitIDs = append(list[i].HabitIDs, habitID)
		}
	}
	if err := links.Err(); err != nil {
		return nil, err
	}

	return list, tx.Commit()
}

func (s *SQLStore) UpdateChallenge(c models.Challenge) error {
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.Exec(s.q(`
		UPDATE challenges SET name = ?, description = ?, type = ?, target = ?, duration_days = ?,
			start_date = ?, end_date = ?, active = ?
		WHERE id = ?`),
		c.Name, c.Description, string(c.Type), c.Target, c.DurationDays, c.StartDate, c.EndDate, c.Active, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update challenge: %w", err)
	}
	if err := expectRow(res, apperrors.ErrChallengeNotFound); err != nil {
		return err
	}
	if _, err := tx.Exec(s.q("DELETE FROM challenge_habits WHERE challenge_id = ?"), c.ID); err != nil {
		return fmt.Errorf("failed to clear challenge habits: %w", err)
	}
	if err := s.writeChallengeHabits(tx, c); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) DeleteChallenge(id string) error {
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(s.q("DELETE FROM challenge_habits WHERE challenge_id = ?"), id); err != nil {
		return fmt.Errorf("failed to delete challenge habits: %w", err)
	}
	res, err := tx.Exec(s.q("DELETE FROM challenges WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if err := expectRow(res, apperrors.ErrChallengeNotFound); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) writeChallengeHabits(tx *sql.Tx, c models.Challenge) error {
	seen := make(map[string]struct{}, len(c.HabitIDs))
	for pos, habitID := range c.HabitIDs {
		if _, dup := seen[habitID]; dup {
			continue
		}
		seen[habitID] = struct{}{}
		if _, err := tx.Exec(s.q("INSERT INTO challenge_habits (challenge_id, habit_id, position) VALUES (?, ?, ?)"), c.ID, habitID, pos); err != nil {
			return fmt.Errorf("failed to link habit %s: %w", habitID, err)
		}
	}
	return nil
}
