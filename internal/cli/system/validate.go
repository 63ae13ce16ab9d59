package system

import (
	"errors"

	"github.com/julianstephens/habitlens/internal/cli"
	"github.com/julianstephens/habitlens/internal/validation"
)

type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true)
	if err != nil {
		return err
	}
	challenges, err := ctx.Store.GetAllChallenges()
	if err != nil {
		return err
	}

	v := validation.New()
	result := v.ValidateHabits(habits)
	result.Conflicts = append(result.Conflicts, v.ValidateChallenges(challenges, habits).Conflicts...)

	ctx.Print(result.FormatReport())
	if !result.HasConflicts() {
		ctx.Println()
		return nil
	}
	return errors.New("validation found problems")
}
