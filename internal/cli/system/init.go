package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitlens/internal/cli"
	"github.com/julianstephens/habitlens/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy habits, achievements and challenges from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// Only a SQLite file can be reset by removing it
	if c.Force && !storage.IsPostgres(ctx.Store.GetConfigPath()) {
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			ctx.AutoBackup()
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitlens storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", storage.RedactConnString(c.Source))
		if err := c.copyData(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) copyData(ctx *cli.Context) error {
	source, err := storage.Open(c.Source)
	if err != nil {
		return err
	}
	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	habits, err := source.GetAllHabits(true)
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, habit := range habits {
		if err := ctx.Store.AddHabit(habit); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", habit.ID, err)
		}
	}
	ctx.Printf("  Copied %d habits\n", len(habits))

	challenges, err := source.GetAllChallenges()
	if err != nil {
		return fmt.Errorf("failed to get challenges from source: %w", err)
	}
	for _, ch := range challenges {
		if err := ctx.Store.AddChallenge(ch); err != nil {
			return fmt.Errorf("failed to add challenge %s: %w", ch.ID, err)
		}
	}
	ctx.Printf("  Copied %d challenges\n", len(challenges))

	unlocked, err := source.GetAchievements()
	if err != nil {
		return fmt.Errorf("failed to get achievements from source: %w", err)
	}
	if err := ctx.Store.SaveAchievements(unlocked); err != nil {
		return fmt.Errorf("failed to save achievements: %w", err)
	}
	ctx.Printf("  Copied %d achievements\n", len(unlocked))

	return nil
}
