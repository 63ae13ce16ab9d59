package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlens/internal/models"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID string
}

type ArchiveHabitMsg struct {
	ID   string
	Name string
}

// Row is one habit with the figures shown for it.
type Row struct {
	Habit models.Habit
	Stats models.HabitStats
	Today models.LogState
}

type KeyMap struct {
	Toggle  key.Binding
	Add     key.Binding
	Archive key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle today"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
	}
}

type Model struct {
	table table.Model
	keys  KeyMap
	rows  []Row
}

func columns(width int) []table.Column {
	name := width - 48
	if name < 16 {
		name = 16
	}
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Habit", Width: name},
		{Title: "Category", Width: 13},
		{Title: "Streak", Width: 7},
		{Title: "Rate", Width: 8},
		{Title: "7d", Width: 8},
	}
}

func New(width, height int) Model {
	t := table.New(
		table.WithColumns(columns(width)),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return Model{table: t, keys: DefaultKeyMap()}
}

// SetRows replaces the table contents, keeping the cursor where possible.
func (m *Model) SetRows(rows []Row) {
	m.rows = rows
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{
			mark(r.Today),
			r.Habit.Name,
			string(r.Habit.Category),
			fmt.Sprintf("%d", r.Stats.CurrentStreak),
			fmt.Sprintf("%.0f%%", r.Stats.CompletionRate),
			fmt.Sprintf("%.0f%%", r.Stats.WeeklyProgress),
		}
	}
	m.table.SetRows(out)
	if c := m.table.Cursor(); c >= len(out) && len(out) > 0 {
		m.table.SetCursor(len(out) - 1)
	}
}

func mark(state models.LogState) string {
	switch state {
	case models.Completed:
		return "✓"
	case models.Missed:
		return "✗"
	default:
		return "·"
	}
}

// Selected returns the highlighted row.
func (m Model) Selected() (Row, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[c], true
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if r, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: r.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Archive):
			if r, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ArchiveHabitMsg{ID: r.Habit.ID, Name: r.Habit.Name} }
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.rows) == 0 {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)
	m.table.SetHeight(height)
}
