package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitgrid/internal/backup"
	"github.com/julianstephens/habitgrid/internal/config"
	apperrors "github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/keyring"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/postgres"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

// PostgresKeyword selects PostgreSQL with the connection string taken from
// HABITGRID_DB_CONNECTION or the OS keyring.
const PostgresKeyword = "postgres"

// ErrNoConnectionString is returned when PostgreSQL is selected but no
// connection string could be found.
var ErrNoConnectionString = errors.New("no PostgreSQL connection string configured")

// NewProvider picks the storage backend for cfg.Store: a postgres:// URL or
// the "postgres" keyword, a .db/.sqlite file, or a JSON file.
func NewProvider(cfg *config.Config) (storage.Provider, error) {
	store := strings.TrimSpace(cfg.Store)
	switch {
	case postgres.IsConnString(store):
		// Credentials on the command line or in the config file end up in
		// shell history and dotfiles.
		if _, err := postgres.ValidateConnString(store); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, apperrors.WithHint(err,
					"store the full string with 'habitgrid keyring set' or HABITGRID_DB_CONNECTION instead")
			}
			return nil, err
		}
		return postgres.New(store), nil
	case store == PostgresKeyword:
		connStr, err := connectionString(cfg)
		if err != nil {
			return nil, err
		}
		if _, err := postgres.ValidateConnString(connStr); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		return postgres.New(connStr), nil
	case backup.IsSQLitePath(store):
		return sqlite.NewStore(store), nil
	default:
		return storage.NewJSONStore(store), nil
	}
}

func connectionString(cfg *config.Config) (string, error) {
	if cfg.DBConnection != "" {
		return cfg.DBConnection, nil
	}
	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		return connStr, nil
	case errors.Is(err, keyring.ErrNotFound):
		return "", apperrors.WithHint(ErrNoConnectionString, "set HABITGRID_DB_CONNECTION or run 'habitgrid keyring set'")
	default:
		return "", fmt.Errorf("%w: %v", ErrNoConnectionString, err)
	}
}
