package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// errWarning marks a check result that is reported but does not fail the run.
type errWarning struct{ error }

type check struct {
	name       string
	needsStore bool
	run        func(ctx *cli.Context) error
}

// migrator is implemented by the SQL stores.
type migrator interface {
	PendingMigrations() (int, error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{"Storage reachable", false, checkStoreReachable},
		{"Migrations complete", true, checkMigrationsComplete},
		{"Stored data readable", true, checkStoredData},
		{"Data validation", true, checkValidation},
		{"Backups present", false, checkBackupsPresent},
		{"Clock/timezone", false, checkClockTimezone},
	}

	hasError := false
	reachable := false
	for i, c := range checks {
		if c.needsStore && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (storage not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		var warn errWarning
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
			if i == 0 {
				reachable = true
			}
		case errors.As(err, &warn):
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", warn.error)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}
	ctx.Provider.Close()

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Provider.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	// For SQLite, also try a simple query
	if sqliteStore, ok := ctx.Provider.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Provider.(migrator)
	if !ok {
		// JSON store doesn't have migrations
		return nil
	}
	pending, err := m.PendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending; run 'habitgrid init' to apply them", pending)
	}
	return nil
}

// checkStoredData parses the raw entries. The tracker silently falls back to
// defaults for unreadable data, so this is the only place it surfaces.
func checkStoredData(ctx *cli.Context) error {
	var habits []models.Habit
	var categories []models.Category
	for key, dst := range map[string]any{
		constants.HabitsKey:     &habits,
		constants.CategoriesKey: &categories,
	} {
		data, err := ctx.Provider.Get(key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("%s is not valid and will be replaced by defaults on next save: %w", key, err)
		}
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	if err := ctx.Open(false); err != nil {
		return err
	}
	defer ctx.Close()
	result := ctx.Validation().CheckState(ctx.Store.Habits(), ctx.Store.Categories())

	switch {
	case result.HasErrors():
		return errors.New(result.FormatReport())
	case result.HasConflicts():
		return errWarning{errors.New(result.FormatReport())}
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return errWarning{err}
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return errWarning{fmt.Errorf("failed to list backups: %w", err)}
	}
	if len(backups) == 0 {
		return errWarning{fmt.Errorf("no backups found - consider creating one with 'habitgrid backup create'")}
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	tz := constants.DefaultTimezone
	if ctx.Config != nil && ctx.Config.Timezone != "" {
		tz = ctx.Config.Timezone
	}
	if !utils.ValidateTimezone(tz) {
		return fmt.Errorf("invalid timezone %q", tz)
	}
	return nil
}
