package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlens/internal/models"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// StateMark renders a log state as a single glyph.
func StateMark(state models.LogState) string {
	switch state {
	case models.Completed:
		return SuccessStyle.Render("✓")
	case models.Missed:
		return DangerStyle.Render("✗")
	default:
		return MutedStyle.Render("·")
	}
}

// Field renders an aligned "label value" line.
func Field(label string, value string) string {
	return LabelStyle.Render(padRight(label, 20)) + value
}

func padRight(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s + " "
	}
	for ; n < width; n++ {
		s += " "
	}
	return s
}
