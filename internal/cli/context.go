package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/habitgrid/internal/backup"
	"github.com/julianstephens/habitgrid/internal/config"
	apperrors "github.com/julianstephens/habitgrid/internal/errors"
	"github.com/julianstephens/habitgrid/internal/lock"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/tracker"
	"github.com/julianstephens/habitgrid/internal/utils"
	"github.com/julianstephens/habitgrid/internal/validation"
)

// Context is handed to every command's Run method.
type Context struct {
	Config     *config.Config
	ConfigPath string
	Provider   storage.Provider
	Validator  *validation.Validator
	Out        io.Writer
	In         io.Reader

	// Now overrides the wall clock. Nil means time.Now.
	Now func() time.Time

	Store *tracker.Store
	lock  *lock.Lock
}

// NewContext builds a Context for cfg, picking the storage backend from
// cfg.Store.
func NewContext(cfg *config.Config) (*Context, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &Context{
		Config:    cfg,
		Provider:  provider,
		Validator: validation.New(),
		Out:       os.Stdout,
		In:        os.Stdin,
	}, nil
}

// Open loads the provider and builds the tracker store. Mutating commands
// also take the data-file lock so two processes never interleave writes.
func (c *Context) Open(mutating bool) error {
	if c.Store != nil {
		return nil
	}
	if err := c.Provider.Load(); err != nil {
		if errors.Is(err, storage.ErrNotInitialized) {
			return apperrors.WithHint(err, "run 'habitgrid init' first")
		}
		return err
	}

	if fb, ok := c.Provider.(storage.FileBacked); ok && mutating {
		l, err := lock.Acquire(fb.DataFile())
		if err != nil {
			c.Provider.Close()
			return err
		}
		c.lock = l
	}

	loc, err := utils.LoadLocation(c.timezone())
	if err != nil {
		c.release()
		return fmt.Errorf("invalid timezone: %w", err)
	}

	opts := []tracker.Option{
		tracker.WithLocation(loc),
		tracker.WithPersistEmpty(c.Config != nil && c.Config.PersistEmpty),
	}
	if c.Now != nil {
		opts = append(opts, tracker.WithClock(c.Now))
	}
	c.Store = tracker.Open(c.Provider, opts...)
	return nil
}

// Close reports a swallowed persistence failure, then releases the store
// and the lock.
func (c *Context) Close() error {
	if c.Store == nil {
		return nil
	}
	if err := c.Store.Err(); err != nil {
		logger.Warn("Last save failed", "error", err)
		fmt.Fprintf(c.out(), "⚠ Warning: changes may not have been saved: %v\n", err)
	}
	err := c.Store.Close()
	c.Store = nil
	if rerr := c.releaseLock(); rerr != nil {
		err = errors.Join(err, rerr)
	}
	return err
}

func (c *Context) release() {
	c.Provider.Close()
	c.releaseLock()
}

func (c *Context) releaseLock() error {
	l := c.lock
	c.lock = nil
	return l.Release()
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	fb, ok := c.Provider.(storage.FileBacked)
	if !ok {
		return
	}
	mgr := backup.NewManager(fb.DataFile(), c.maxBackups())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// BackupManager returns a manager for the current data file, or an error
// for backends that have no local file.
func (c *Context) BackupManager() (*backup.Manager, error) {
	fb, ok := c.Provider.(storage.FileBacked)
	if !ok {
		return nil, fmt.Errorf("backups are only supported for file-based stores (JSON or SQLite)")
	}
	return backup.NewManager(fb.DataFile(), c.maxBackups()), nil
}

// Today returns today's date key in the configured timezone.
func (c *Context) Today() (string, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return utils.GetTodayInTimezone(c.timezone(), now())
}

// Validation returns the input validator, creating it on first use.
func (c *Context) Validation() *validation.Validator {
	if c.Validator == nil {
		c.Validator = validation.New()
	}
	return c.Validator
}

func (c *Context) timezone() string {
	if c.Config == nil {
		return ""
	}
	return c.Config.Timezone
}

func (c *Context) maxBackups() int {
	if c.Config == nil {
		return 0
	}
	return c.Config.Backups.Max
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Printf writes to the command output.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

// Println writes a line to the command output.
func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}
