package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitgrid"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/habitgrid"
	DefaultStorePath   = "~/.config/habitgrid/habitgrid.json"
	ConfigFileName     = "config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Storage keys shared by every backend
	HabitsKey     = "habit-tracker-habits"
	CategoriesKey = "habit-tracker-categories"

	// Backup constants
	MaxBackups    = 14
	BackupDirName = "backups"
	BackupPrefix  = "habitgrid-"

	LockFileSuffix = ".lock"
	WatchDebounce  = 250 * time.Millisecond

	// Environment variables
	EnvStore        = "HABITGRID_STORE"
	EnvTimezone     = "HABITGRID_TIMEZONE"
	EnvDebug        = "HABITGRID_DEBUG"
	EnvPersistEmpty = "HABITGRID_PERSIST_EMPTY"
	EnvDBConnection = "HABITGRID_DB_CONNECTION"
	EnvMaxBackups   = "HABITGRID_MAX_BACKUPS"

	DefaultTimezone = "Local" // Use system local timezone by default
)

const (
	StateToday SessionState = iota
	StateCategories
	StateAddHabit
	StateEditHabit
	StateAddCategory
	StateEditCategory
	StateConfirmDeleteHabit
	StateConfirmDeleteCategory
)

// CategoryPalette holds the colors offered for new categories.
var CategoryPalette = []string{
	"#22c55e", "#3b82f6", "#f59e0b", "#ec4899",
	"#8b5cf6", "#14b8a6", "#ef4444", "#64748b",
}
