package insights

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	core "github.com/julianstephens/habitlens/internal/insights"
	"github.com/julianstephens/habitlens/internal/models"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Model is the insights panel with the achievement strip underneath.
type Model struct {
	viewport viewport.Model
	data     *core.InsightData
	statuses []models.AchievementStatus
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetData(data core.InsightData, statuses []models.AchievementStatus) {
	m.data = &data
	m.statuses = statuses
	m.Render()
}

func (m *Model) Render() {
	if m.data == nil {
		m.viewport.SetContent("No insights yet.")
		return
	}

	d := m.data
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	line("Active habits", fmt.Sprintf("%d / %d", d.ActiveHabits, d.TotalHabits))
	line("Done today", fmt.Sprintf("%d", d.CompletedToday))
	line("Avg streak", fmt.Sprintf("%.1f", d.AverageStreak))
	line("Consistency", fmt.Sprintf("%.0f%%", d.ConsistencyScore))
	line("Weekly trend", trend(d.WeeklyTrend))
	line("Monthly trend", trend(d.MonthlyTrend))
	if d.ActiveHabits > 0 {
		line("Best day", fmt.Sprintf("%s %.0f%%", d.BestDay.Name, d.BestDay.Rate))
		line("Worst day", fmt.Sprintf("%s %.0f%%", d.WorstDay.Name, d.WorstDay.Rate))
	}
	if d.BestPerformingHabit != nil {
		line("Top habit", d.BestPerformingHabit.Name)
	}
	if n := len(d.StrugglingHabits); n > 0 {
		names := make([]string, n)
		for i, h := range d.StrugglingHabits {
			names[i] = h.Name
		}
		line("Struggling", strings.Join(names, ", "))
	}

	b.WriteString("\n")
	for _, st := range m.statuses {
		if st.Unlocked {
			b.WriteString(st.Icon + " ")
		} else {
			b.WriteString(lockedStyle.Render("○") + " ")
		}
	}
	m.viewport.SetContent(b.String())
}

func trend(v float64) string {
	s := fmt.Sprintf("%+.1f pts", v)
	switch {
	case v > 0:
		return upStyle.Render(s)
	case v < 0:
		return downStyle.Render(s)
	}
	return s
}
