package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing data before initialization."`
	Source string `help:"Data file path or connection string to copy habits and categories from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	fb, fileBacked := ctx.Provider.(storage.FileBacked)

	if c.Force && fileBacked {
		dataPath := fb.DataFile()
		// Don't delete if it's the source (user error protection)
		if c.Source != "" && samePath(c.Source, dataPath) {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dataPath)
		}
		if _, err := os.Stat(dataPath); err == nil {
			if err := ctx.Provider.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(dataPath); err != nil {
				return fmt.Errorf("failed to delete existing data: %w", err)
			}
			ctx.Printf("Deleted existing data at: %s\n", dataPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing data: %w", err)
		}
	}

	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	defer ctx.Provider.Close()

	// Remote stores survive Init, so a forced reset clears their entries.
	if c.Force && !fileBacked {
		if err := clearEntries(ctx.Provider); err != nil {
			return err
		}
	}
	ctx.Printf("Initialized habitgrid storage at: %s\n", ctx.Provider.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", c.Source)
		n, err := copyEntries(ctx, c.Source)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Printf("Copied %d collection(s)\n", n)
	}

	if ctx.ConfigPath != "" {
		if _, err := os.Stat(ctx.ConfigPath); errors.Is(err, os.ErrNotExist) {
			if err := ctx.Config.Save(ctx.ConfigPath); err != nil {
				return err
			}
			ctx.Printf("Wrote config to: %s\n", ctx.ConfigPath)
		}
	}
	return nil
}

func copyEntries(ctx *cli.Context, source string) (int, error) {
	src, err := cli.NewProvider(&config.Config{Store: config.ExpandPath(source), DBConnection: ctx.Config.DBConnection})
	if err != nil {
		return 0, err
	}
	if err := src.Load(); err != nil {
		return 0, fmt.Errorf("failed to load source store: %w", err)
	}
	defer src.Close()

	copied := 0
	for _, key := range []string{constants.HabitsKey, constants.CategoriesKey} {
		data, err := src.Get(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if err := ctx.Provider.Set(key, data); err != nil {
			return copied, fmt.Errorf("failed to write %s: %w", key, err)
		}
		copied++
	}
	return copied, nil
}

func clearEntries(p storage.Provider) error {
	keys, err := p.Keys()
	if err != nil {
		return fmt.Errorf("failed to list existing data: %w", err)
	}
	for _, key := range keys {
		if err := p.Delete(key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(config.ExpandPath(a))
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
