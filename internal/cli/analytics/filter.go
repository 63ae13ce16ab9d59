package analytics

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitlens/internal/cli"
	"github.com/julianstephens/habitlens/internal/filter"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/validation"
)

type FilterCmd struct {
	File     string `short:"f" required:"" help:"Filter definition as JSON. Use - to read from stdin."`
	Date     string `help:"Reference day in YYYY-MM-DD format (default: today)." default:""`
	Archived bool   `help:"Include archived habits in the candidate set."`
	Strict   bool   `help:"Refuse to run a filter with unknown fields, operators or values."`
}

func (c *FilterCmd) Run(ctx *cli.Context) error {
	ref, err := ctx.RefTime(c.Date)
	if err != nil {
		return err
	}

	f, err := c.readFilter()
	if err != nil {
		return err
	}

	report := validation.New().ValidateFilter(f)
	if report.HasConflicts() {
		if c.Strict {
			return fmt.Errorf("filter has problems:\n%s", report.FormatReport())
		}
		ctx.Println(cli.WarningStyle.Render("Filter has problems; affected criteria will pass:"))
		ctx.Print(report.FormatReport())
	}

	habits, err := ctx.Store.GetAllHabits(c.Archived)
	if err != nil {
		return err
	}

	matches := filter.New(ref).FilterCollection(habits, f)
	if len(matches) == 0 {
		ctx.Println("No habits match.")
		return nil
	}

	ctx.Println(cli.HeaderStyle.Render(fmt.Sprintf("%d of %d habits match", len(matches), len(habits))))
	for _, h := range matches {
		ctx.Printf("  %-24s %-13s %s\n", h.Name, h.Category, h.Priority)
	}
	return nil
}

func (c *FilterCmd) readFilter() (models.AdvancedFilter, error) {
	if c.File == "-" {
		return filter.ParseFilter(os.Stdin)
	}

	file, err := os.Open(c.File)
	if err != nil {
		return models.AdvancedFilter{}, fmt.Errorf("failed to open filter file: %w", err)
	}
	defer file.Close()
	return filter.ParseFilter(file)
}
