package challenges

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlens/internal/challenges"
	"github.com/julianstephens/habitlens/internal/cli"
	"github.com/julianstephens/habitlens/internal/metrics"
	"github.com/julianstephens/habitlens/internal/models"
	"github.com/julianstephens/habitlens/internal/utils"
	"github.com/julianstephens/habitlens/internal/validation"
)

type ChallengeCmd struct {
	Add       ChallengeAddCmd       `cmd:"" help:"Start a new challenge."`
	List      ChallengeListCmd      `cmd:"" help:"List challenges."`
	Progress  ChallengeProgressCmd  `cmd:"" help:"Show progress on challenges."`
	Delete    ChallengeDeleteCmd    `cmd:"" help:"Delete a challenge."`
	Templates ChallengeTemplatesCmd `cmd:"" help:"List predefined challenges."`
}

type ChallengeAddCmd struct {
	Template    string   `short:"t" help:"Start from a predefined challenge (see 'challenge templates')."`
	Name        string   `help:"Challenge name."`
	Description string   `help:"Challenge description."`
	Type        string   `help:"Challenge type." enum:",streak,completion,consistency,multi-habit" default:""`
	Target      float64  `help:"Target value."`
	Duration    int      `help:"Duration in days."`
	Habits      []string `help:"Habit names or ids the challenge applies to (default: all habits)."`
	Start       string   `help:"Start day in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ChallengeAddCmd) Run(ctx *cli.Context) error {
	start, err := ctx.RefTime(c.Start)
	if err != nil {
		return err
	}

	tpl := challenges.Template{
		Name:         c.Name,
		Description:  c.Description,
		Type:         models.ChallengeType(c.Type),
		Target:       c.Target,
		DurationDays: c.Duration,
	}
	if c.Template != "" {
		base, ok := challenges.TemplateByID(c.Template)
		if !ok {
			return fmt.Errorf("unknown challenge template %q", c.Template)
		}
		tpl = overlay(base, tpl)
	} else if c.Name == "" || c.Type == "" {
		return errors.New("either --template or both --name and --type are required")
	}

	challenge := challenges.FromTemplate(tpl, start)
	challenge.CreatedAt = ctx.Now()
	for _, name := range c.Habits {
		habit, err := ctx.FindHabit(name)
		if err != nil {
			return err
		}
		challenge.HabitIDs = append(challenge.HabitIDs, habit.ID)
	}

	if err := validation.Struct(challenge); err != nil {
		return err
	}

	if err := ctx.Store.AddChallenge(challenge); err != nil {
		return err
	}

	ctx.Printf("Started challenge: %s (%s → %s)\n", challenge.Name, challenge.StartDate, challenge.EndDate)
	return nil
}

// overlay applies the explicitly set fields of custom on top of base.
func overlay(base, custom challenges.Template) challenges.Template {
	if custom.Name != "" {
		base.Name = custom.Name
	}
	if custom.Description != "" {
		base.Description = custom.Description
	}
	if custom.Type != "" {
		base.Type = custom.Type
	}
	if custom.Target > 0 {
		base.Target = custom.Target
	}
	if custom.DurationDays > 0 {
		base.DurationDays = custom.DurationDays
	}
	return base
}

type ChallengeListCmd struct {
	Date string `help:"Reference day in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ChallengeListCmd) Run(ctx *cli.Context) error {
	ref, err := ctx.RefTime(c.Date)
	if err != nil {
		return err
	}

	list, err := ctx.Store.GetAllChallenges()
	if err != nil {
		return err
	}

	if len(list) == 0 {
		ctx.Println("No challenges found.")
		return nil
	}

	for _, ch := range list {
		status := ""
		switch {
		case !ch.Active:
			status = cli.MutedStyle.Render(" [INACTIVE]")
		case challenges.IsExpired(ch, ref):
			status = cli.MutedStyle.Render(" [ENDED]")
		default:
			status = daysLeft(ch, ref)
		}
		ctx.Printf("%-24s %-12s target %-6g %s → %s%s\n",
			ch.Name, ch.Type, ch.Target, ch.StartDate, endOf(ctx, ch), status)
	}
	return nil
}

type ChallengeProgressCmd struct {
	Name string `arg:"" optional:"" help:"Challenge name or id. Omit to show every challenge."`
	Date string `help:"Reference day in YYYY-MM-DD format (default: today)." default:""`
}

func (c *ChallengeProgressCmd) Run(ctx *cli.Context) error {
	ref, err := ctx.RefTime(c.Date)
	if err != nil {
		return err
	}

	list, err := ctx.Store.GetAllChallenges()
	if err != nil {
		return err
	}
	if c.Name != "" {
		ch, err := find(list, c.Name)
		if err != nil {
			return err
		}
		list = []models.Challenge{ch}
	}

	if len(list) == 0 {
		ctx.Println("No challenges found.")
		return nil
	}

	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}

	metrics.PipelineRuns.Inc()
	for _, ch := range list {
		progress := challenges.Progress(ch, habits, ref)
		ctx.Printf("%-24s %s %s\n", ch.Name, bar(progress), cli.FormatPercent(progress))
	}
	return nil
}

type ChallengeDeleteCmd struct {
	Name string `arg:"" help:"Challenge name or id."`
}

func (c *ChallengeDeleteCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Store.GetAllChallenges()
	if err != nil {
		return err
	}
	ch, err := find(list, c.Name)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeleteChallenge(ch.ID); err != nil {
		return err
	}

	ctx.Printf("Deleted challenge: %s\n", ch.Name)
	return nil
}

type ChallengeTemplatesCmd struct{}

func (c *ChallengeTemplatesCmd) Run(ctx *cli.Context) error {
	for _, tpl := range challenges.Templates() {
		ctx.Printf("%-20s %-12s %-6g %3d days  %s\n",
			tpl.ID, tpl.Type, tpl.Target, tpl.DurationDays, cli.LabelStyle.Render(tpl.Description))
	}
	return nil
}

func find(list []models.Challenge, nameOrID string) (models.Challenge, error) {
	for _, ch := range list {
		if ch.ID == nameOrID || strings.EqualFold(ch.Name, nameOrID) {
			return ch, nil
		}
	}
	return models.Challenge{}, fmt.Errorf("challenge %q not found", nameOrID)
}

func endOf(ctx *cli.Context, ch models.Challenge) string {
	end, ok := challenges.EndDay(ch, ctx.Location())
	if !ok {
		return "open"
	}
	return end
}

func daysLeft(ch models.Challenge, ref time.Time) string {
	end, ok := challenges.EndDay(ch, ref.Location())
	if !ok {
		return ""
	}
	endDay, err := utils.ParseDay(end, ref.Location())
	if err != nil {
		return ""
	}
	n := utils.DaysBetween(ref, endDay) + 1
	if n == 1 {
		return " (last day)"
	}
	return fmt.Sprintf(" (%d days left)", n)
}

func bar(progress float64) string {
	const width = 20
	filled := int(progress / 100 * width)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return cli.SuccessStyle.Render(strings.Repeat("█", filled)) +
		cli.MutedStyle.Render(strings.Repeat("░", width-filled))
}
