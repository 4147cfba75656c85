// Package lock guards a data file against concurrent writers with an
// advisory lockfile holding the owner's PID and executable name.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/logger"
)

// ErrLocked is returned when another live process holds the lock.
var ErrLocked = errors.New("data file is in use by another habitgrid process")

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// Lock is a held lockfile.
type Lock struct {
	path string
}

// PathFor returns the lockfile path for a data file.
func PathFor(dataFile string) string {
	return dataFile + constants.LockFileSuffix
}

// Acquire takes the lock for dataFile. A lockfile left behind by a process
// that is no longer running is replaced.
func Acquire(dataFile string) (*Lock, error) {
	path := PathFor(dataFile)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		err := create(path)
		if err == nil {
			return &Lock{path: path}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		pid, exe, err := readOwner(path)
		if err == nil && pid == getpidFunc() {
			return &Lock{path: path}, nil
		}
		if err == nil && isAlive(pid, exe) {
			return nil, fmt.Errorf("%w (pid %d)", ErrLocked, pid)
		}

		logger.Warn("Removing stale lockfile", "path", path, "pid", pid, "error", err)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: lockfile keeps reappearing at %s", ErrLocked, path)
}

// Release removes the lockfile. Releasing a nil or already released lock
// does nothing.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	path := l.path
	l.path = ""
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the lockfile location.
func (l *Lock) Path() string {
	return l.path
}

func create(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	_, werr := fmt.Fprintf(f, "%d|%s", getpidFunc(), executableName())
	cerr := f.Close()
	if werr != nil {
		os.Remove(path)
		return werr
	}
	return cerr
}

func readOwner(path string) (int, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, "", err
	}
	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return 0, "", errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return 0, "", errors.New("invalid process ID in lockfile")
	}
	return pid, parts[1], nil
}

// isAlive reports whether pid is running the executable that wrote the
// lock. A recycled PID belonging to another program does not count.
func isAlive(pid int, exe string) bool {
	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return false
	}
	if exe == "" {
		return true
	}
	return process.Executable() == exe
}

func executableName() string {
	path, err := os.Executable()
	if err != nil {
		return constants.AppName
	}
	return filepath.Base(path)
}
