package storage

import (
	"fmt"

	"github.com/julianstephens/habitlens/internal/logger"
	"github.com/julianstephens/habitlens/internal/models"
)

func (s *SQLStore) GetAchievements() ([]models.Achievement, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT id, unlocked_at FROM achievements ORDER BY unlocked_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	list := []models.Achievement{}
	for rows.Next() {
		var a models.Achievement
		var unlockedAt string
		if err := rows.Scan(&a.ID, &unlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		// An unreadable time still counts as unlocked.
		if a.UnlockedAt, err = parseTime(unlockedAt); err != nil {
			logger.Warn("Achievement has unreadable unlocked_at", "achievement", a.ID, "value", unlockedAt)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// SaveAchievements inserts achievements whose id is not stored yet. Existing
// records keep their original unlock time.
func (s *SQLStore) SaveAchievements(list []models.Achievement) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(list) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, a := range list {
		_, err := tx.Exec(s.q(`
			INSERT INTO achievements (id, unlocked_at) VALUES (?, ?)
			ON CONFLICT (id) DO NOTHING`),
			a.ID, formatTime(a.UnlockedAt))
		if err != nil {
			return fmt.Errorf("failed to save achievement %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}
