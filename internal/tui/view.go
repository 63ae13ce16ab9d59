package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlens/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit:
		content = m.form.View()
	case StateConfirmArchive:
		content = m.viewConfirmArchive()
	default:
		content = lipgloss.JoinHorizontal(
			lipgloss.Top,
			panelStyle.Render(m.habits.View()),
			panelStyle.Render(m.panel.View()),
		)
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m.keys),
	)
	return docStyle.Render(ui)
}

func (m Model) viewHeader() string {
	header := titleStyle.Render("habitlens") + " " + utils.DayKey(m.clock())
	if m.filter != nil {
		header += "  (filtered)"
	}
	return header
}

func (m Model) viewStatus() string {
	line := ""
	switch {
	case m.err != nil:
		line = dangerStyle.Render("Error: " + m.err.Error())
	case m.status != "":
		line = statusStyle.Render(m.status)
	}
	if m.validationWarning != "" {
		if line != "" {
			line += "  "
		}
		line += m.validationWarning
	}
	return line
}

func (m Model) viewConfirmArchive() string {
	return dangerStyle.Render("Archive \""+m.archiveName+"\"?") + "\n\n" +
		"Its history is kept and it can be restored with 'habitlens habit unarchive'.\n\n" +
		"(y) confirm  (n) cancel"
}
