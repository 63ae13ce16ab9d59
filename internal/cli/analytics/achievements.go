package analytics

import (
	"fmt"

	"github.com/julianstephens/habitlens/internal/achievements"
	"github.com/julianstephens/habitlens/internal/cli"
	"github.com/julianstephens/habitlens/internal/constants"
)

type AchievementsCmd struct {
	Check bool   `help:"Run the unlock check and persist new unlocks before listing."`
	Date  string `help:"Reference day for the progress listing in YYYY-MM-DD format (default: today). Unlock checks always use today." default:""`
}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	ref, err := ctx.RefTime(c.Date)
	if err != nil {
		return err
	}

	if c.Check {
		fresh, err := ctx.CheckAchievements(ctx.Now())
		if err != nil {
			return err
		}
		if len(fresh) == 0 {
			ctx.Println("No new achievements.")
		}
		ctx.AnnounceUnlocks(fresh)
	}

	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}
	unlocked, err := ctx.Store.GetAchievements()
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render("Achievements"))
	for _, st := range achievements.Status(habits, unlocked, ref) {
		mark := cli.MutedStyle.Render("○")
		detail := fmt.Sprintf("%g/%g", st.Progress, st.Goal)
		if st.Unlocked {
			mark = cli.SuccessStyle.Render("●")
			if st.UnlockedAt != nil {
				detail = "unlocked " + st.UnlockedAt.In(ctx.Location()).Format(constants.DateFormat)
			} else {
				detail = "reached, run --check to record"
			}
		}
		ctx.Printf("%s %s %-18s %s\n", mark, st.Icon, st.Name, cli.LabelStyle.Render(detail))
	}
	return nil
}
