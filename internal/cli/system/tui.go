package system

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlens/internal/cli"
	"github.com/julianstephens/habitlens/internal/filter"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/tui"
)

type TuiCmd struct {
	Filter string `help:"Only show habits matching this filter definition." type:"existingfile"`
}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	var f *models.AdvancedFilter
	if c.Filter != "" {
		parsed, err := readFilterFile(c.Filter)
		if err != nil {
			return err
		}
		f = &parsed
	}

	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Now, f, cli.CheckAchievements), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func readFilterFile(path string) (models.AdvancedFilter, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.AdvancedFilter{}, err
	}
	defer file.Close()
	return filter.ParseFilter(file)
}
