package system

import (
	"fmt"

	"github.com/julianstephens/habitgrid/internal/cli"
)

// schemaMigrator is implemented by the SQL stores.
type schemaMigrator interface {
	Migrate(logFn func(string)) (int, error)
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Provider.(schemaMigrator)
	if !ok {
		return fmt.Errorf("migrate only applies to SQLite and PostgreSQL storage")
	}

	if err := ctx.Provider.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	defer ctx.Provider.Close()

	count, err := m.Migrate(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
