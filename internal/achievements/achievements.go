// Package achievements evaluates the static achievement catalogue against a
// habit collection. Unlocks are one-way: Status trusts the persisted records,
// and CheckNew is the only function that mints new ones.
package achievements

import (
	"math"
	"time"

	"github.com/julianstephens/habitlens/internal/models"
)

// Status reports one entry per definition. A persisted unlock always wins over
// live progress, so deleting habits never re-locks an achievement. For
// achievements without a record, Unlocked reflects live progress and
// UnlockedAt stays nil until CheckNew mints the record.
func Status(habits []models.Habit, unlocked []models.Achievement, now time.Time) []models.AchievementStatus {
	return statusFor(definitions, habits, unlocked, now)
}

// CheckNew returns an achievement for every definition that has no unlock
// record yet and whose live progress meets its goal. The caller merges the
// result into the persisted set exactly once.
func CheckNew(habits []models.Habit, unlocked []models.Achievement, now time.Time) []models.Achievement {
	return checkNewFor(definitions, habits, unlocked, now)
}

// Merge unions fresh into existing by ID, keeping the earliest unlock time.
func Merge(existing, fresh []models.Achievement) []models.Achievement {
	merged := make([]models.Achievement, 0, len(existing)+len(fresh))
	index := make(map[string]int, len(existing)+len(fresh))
	for _, a := range append(append([]models.Achievement{}, existing...), fresh...) {
		if i, ok := index[a.ID]; ok {
			if a.UnlockedAt.Before(merged[i].UnlockedAt) {
				merged[i].UnlockedAt = a.UnlockedAt
			}
			continue
		}
		index[a.ID] = len(merged)
		merged = append(merged, a)
	}
	return merged
}

func statusFor(defs []Definition, habits []models.Habit, unlocked []models.Achievement, now time.Time) []models.AchievementStatus {
	records := byID(unlocked)
	result := make([]models.AchievementStatus, 0, len(defs))

	for _, def := range defs {
		st := models.AchievementStatus{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Goal:        def.Goal,
		}

		if rec, ok := records[def.ID]; ok {
			at := rec.UnlockedAt
			st.Unlocked = true
			st.UnlockedAt = &at
			st.Progress = def.Goal
		} else {
			live := liveProgress(def, habits, now)
			st.Progress = clamp(live, def.Goal)
			st.Unlocked = live >= def.Goal
		}

		result = append(result, st)
	}

	return result
}

func checkNewFor(defs []Definition, habits []models.Habit, unlocked []models.Achievement, now time.Time) []models.Achievement {
	seen := byID(unlocked)
	var fresh []models.Achievement

	for _, def := range defs {
		if _, ok := seen[def.ID]; ok {
			continue
		}
		if liveProgress(def, habits, now) >= def.Goal {
			a := models.Achievement{ID: def.ID, UnlockedAt: now}
			fresh = append(fresh, a)
			seen[def.ID] = a
		}
	}

	return fresh
}

// liveProgress never lets a bad progress value through: NaN counts as no progress.
func liveProgress(def Definition, habits []models.Habit, now time.Time) float64 {
	if def.Progress == nil {
		return 0
	}
	v := def.Progress(habits, now)
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func clamp(v, goal float64) float64 {
	return math.Max(0, math.Min(v, goal))
}

func byID(list []models.Achievement) map[string]models.Achievement {
	m := make(map[string]models.Achievement, len(list))
	for _, a := range list {
		if existing, ok := m[a.ID]; ok && existing.UnlockedAt.Before(a.UnlockedAt) {
			continue
		}
		m[a.ID] = a
	}
	return m
}
