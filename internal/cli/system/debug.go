package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show storage path."`
	Keys         *DebugKeysCmd         `cmd:"" help:"List raw storage keys."`
	DumpHabit    *DebugDumpHabitCmd    `cmd:"" help:"Dump habit data as JSON."`
	DumpCategory *DebugDumpCategoryCmd `cmd:"" help:"Dump category data as JSON."`
	DumpDay      *DebugDumpDayCmd      `cmd:"" help:"Dump the due habits and summary for a day as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	// Output in machine-readable format
	return printJSON(ctx, map[string]string{
		"path": ctx.Provider.GetConfigPath(),
	})
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *cli.Context) error {
	if err := ctx.Provider.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	keys, err := ctx.Provider.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	return printJSON(ctx, keys)
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit ID, ID prefix or title."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	defer ctx.Close()

	h, err := cli.ResolveHabit(ctx.Store.Habits(), cmd.Habit)
	if err != nil {
		return err
	}
	return printJSON(ctx, h)
}

type DebugDumpCategoryCmd struct {
	Category string `arg:"" help:"Category ID, ID prefix or name."`
}

func (cmd *DebugDumpCategoryCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	defer ctx.Close()

	c, err := cli.ResolveCategory(ctx.Store.Categories(), cmd.Category)
	if err != nil {
		return err
	}
	return printJSON(ctx, c)
}

type DebugDumpDayCmd struct {
	Date string `arg:"" optional:"" help:"Date to dump (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	defer ctx.Close()

	// Handle 'today' as a special case
	date := cmd.Date
	if date == "" || date == "today" {
		var err error
		if date, err = ctx.Today(); err != nil {
			return err
		}
	}
	if !utils.IsDateKey(date) {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", date)
	}

	summary := ctx.Store.Summary(date)
	return printJSON(ctx, struct {
		Date      string         `json:"date"`
		Due       []models.Habit `json:"due"`
		Completed int            `json:"completed"`
		Rate      int            `json:"rate"`
		Perfect   bool           `json:"perfect"`
	}{
		Date:      date,
		Due:       ctx.Store.HabitsForDate(date),
		Completed: summary.Completed,
		Rate:      summary.Rate,
		Perfect:   summary.Perfect,
	})
}
