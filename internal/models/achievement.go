package models

import "time"

// Achievement is an unlocked milestone. Once persisted it is never revoked.
type Achievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// AchievementStatus is the display view of one achievement definition.
type AchievementStatus struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Goal        float64    `json:"goal"`
	Progress    float64    `json:"progress"` // clamped to [0, Goal]
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}
