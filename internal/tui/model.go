package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlens/internal/achievements"
	"github.com/julianstephens/habitlens/internal/filter"
	"github.com/julianstephens/habitlens/internal/insights"
	"github.com/julianstephens/habitlens/internal/logger"
	"github.com/julianstephens/habitlens/internal/metrics"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/stats"
	"github.com/julianstephens/habitlens/internal/storage"
	"github.com/julianstephens/habitlens/internal/tui/components/habits"
	insightspanel "github.com/julianstephens/habitlens/internal/tui/components/insights"
	"github.com/julianstephens/habitlens/internal/utils"
	"github.com/julianstephens/habitlens/internal/validation"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StateAddHabit
	StateConfirmArchive
)

// Clock returns the current instant in the user's timezone.
type Clock func() time.Time

// UnlockFunc runs the achievement check after a mutation and returns the new unlocks.
type UnlockFunc func(store storage.Provider, now time.Time) ([]models.Achievement, error)

type Model struct {
	store     storage.Provider
	clock     Clock
	filter    *models.AdvancedFilter
	unlock    UnlockFunc
	state     SessionState
	keys      KeyMap
	help      help.Model
	habits    habits.Model
	panel     insightspanel.Model
	form      *huh.Form
	habitForm *HabitFormModel
	quitting  bool
	width     int
	height    int

	archiveID   string
	archiveName string

	// status is the last action's outcome, err the last failure.
	status            string
	err               error
	validationWarning string
}

// NewModel builds the dashboard. f, when set, limits the table to matching habits.
func NewModel(store storage.Provider, clock Clock, f *models.AdvancedFilter, unlock UnlockFunc) Model {
	if clock == nil {
		clock = time.Now
	}
	m := Model{
		store:  store,
		clock:  clock,
		filter: f,
		unlock: unlock,
		state:  StateDashboard,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		habits: habits.New(0, 0),
		panel:  insightspanel.New(0, 0),
	}
	m.reload()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// reload takes a fresh snapshot from the store and recomputes every figure
// on screen from it.
func (m *Model) reload() {
	now := m.clock()
	all, err := m.store.GetAllHabits(true)
	if err != nil {
		m.err = err
		return
	}
	unlocked, err := m.store.GetAchievements()
	if err != nil {
		m.err = err
		return
	}

	metrics.PipelineRuns.Inc()
	active := models.ActiveHabits(all)
	if m.filter != nil {
		active = filter.New(now).FilterCollection(active, *m.filter)
	}

	today := utils.DayKey(now)
	rows := make([]habits.Row, len(active))
	for i, h := range active {
		rows[i] = habits.Row{Habit: h, Stats: stats.Calculate(h, now), Today: h.LogOn(today)}
	}
	m.habits.SetRows(rows)
	m.panel.SetData(insights.Generate(all, now), achievements.Status(all, unlocked, now))

	result := validation.New().ValidateHabits(all)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

// afterMutation runs the unlock check, then reloads.
func (m *Model) afterMutation(status string) {
	m.err = nil
	m.status = status
	if m.unlock != nil {
		fresh, err := m.unlock(m.store, m.clock())
		if err != nil {
			logger.Warn("Achievement check failed", "error", err)
			m.err = err
		}
		for _, a := range fresh {
			m.status += fmt.Sprintf("  🏅 unlocked %s", a.ID)
		}
	}
	m.reload()
}

func (m *Model) resize() {
	panelWidth := 36
	tableWidth := m.width - panelWidth - 8
	if tableWidth < 40 {
		tableWidth = 40
	}
	bodyHeight := m.height - 8
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	m.habits.SetSize(tableWidth, bodyHeight)
	m.panel.SetSize(panelWidth, bodyHeight)
}
