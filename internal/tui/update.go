package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlens/internal/tui/components/habits"
	"github.com/julianstephens/habitlens/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil
	}

	switch m.state {
	case StateAddHabit:
		return m.updateAddHabit(msg)
	case StateConfirmArchive:
		return m.updateConfirmArchive(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case habits.AddHabitMsg:
		m.habitForm = NewHabitFormModel()
		m.form = NewHabitForm(m.habitForm)
		m.state = StateAddHabit
		return m, m.form.Init()

	case habits.ToggleHabitMsg:
		m.toggle(msg.ID)
		return m, nil

	case habits.ArchiveHabitMsg:
		m.archiveID = msg.ID
		m.archiveName = msg.Name
		m.state = StateConfirmArchive
		return m, nil
	}

	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	return m, cmd
}

// toggle cycles today's entry for the habit: unlogged, completed, missed.
func (m *Model) toggle(id string) {
	habit, err := m.store.GetHabit(id)
	if err != nil {
		m.err = err
		return
	}
	day := utils.DayKey(m.clock())
	next := habit.Toggle(day)
	if err := m.store.SetLog(id, day, next); err != nil {
		m.err = err
		return
	}
	m.afterMutation(fmt.Sprintf("%s: %s", habit.Name, next))
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateDashboard
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		habit, err := m.habitForm.Habit(m.clock())
		if err == nil {
			if _, lookupErr := m.store.GetHabitByName(habit.Name); lookupErr == nil {
				err = fmt.Errorf("habit with name %q already exists", habit.Name)
			} else {
				err = m.store.AddHabit(habit)
			}
		}
		m.state = StateDashboard
		if err != nil {
			m.err = err
			return m, nil
		}
		m.afterMutation("Added " + habit.Name)
		return m, nil
	case huh.StateAborted:
		m.state = StateDashboard
	}
	return m, cmd
}

func (m Model) updateConfirmArchive(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		m.state = StateDashboard
		if err := m.store.ArchiveHabit(m.archiveID); err != nil {
			m.err = err
			return m, nil
		}
		m.afterMutation("Archived " + m.archiveName)
	case key.Matches(keyMsg, m.keys.Cancel):
		m.state = StateDashboard
	}
	return m, nil
}
