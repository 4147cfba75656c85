package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// IDFunc generates identifiers for new habits and categories.
type IDFunc func() string

// Clock returns the current time.
type Clock func() time.Time

// Option configures a Store.
type Option func(*Store)

// WithIDFunc replaces the default UUID generator.
func WithIDFunc(f IDFunc) Option {
	return func(s *Store) { s.newID = f }
}

// WithClock replaces time.Now.
func WithClock(c Clock) Option {
	return func(s *Store) { s.now = c }
}

// WithLocation sets the timezone that decides which calendar date is today.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithPersistEmpty makes the store write collections even when they are
// empty. By default an emptied collection is left as last stored.
func WithPersistEmpty(enabled bool) Option {
	return func(s *Store) { s.persistEmpty = enabled }
}

// Store owns the tracker State and keeps the storage provider in step with
// it. It is not safe for concurrent use; callers drive it from one
// goroutine.
type Store struct {
	provider     storage.Provider
	state        State
	newID        IDFunc
	now          Clock
	loc          *time.Location
	persistEmpty bool
	lastErr      error

	// synced holds, per key, the bytes last read from or written to the
	// provider. Keys that were absent map to nil.
	synced map[string][]byte
}

// Open loads habits and categories from provider. Missing or unreadable
// collections fall back to defaults; Open never fails.
func Open(provider storage.Provider, opts ...Option) *Store {
	s := &Store{
		provider: provider,
		newID:    uuid.NewString,
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reload()
	return s
}

// Close releases the storage provider.
func (s *Store) Close() error {
	return s.provider.Close()
}

// Provider returns the storage provider the store writes to.
func (s *Store) Provider() storage.Provider {
	return s.provider
}

// Reload replaces the in-memory state with what storage currently holds.
func (s *Store) Reload() {
	state := NewState()
	s.synced = make(map[string][]byte, 2)

	var habits []models.Habit
	if s.load(constants.HabitsKey, &habits) && habits != nil {
		for i := range habits {
			if habits[i].Completions == nil {
				habits[i].Completions = map[string]bool{}
			}
		}
		state.Habits = habits
	}

	var categories []models.Category
	if s.load(constants.CategoriesKey, &categories) && len(categories) > 0 {
		state.Categories = categories
	}

	s.state = state
	logger.Debug("Loaded tracker state", "habits", len(state.Habits), "categories", len(state.Categories))
}

func (s *Store) load(key string, dst any) bool {
	data, err := s.provider.Get(key)
	s.synced[key] = data
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read stored collection, using defaults", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn("Stored collection is malformed, using defaults", "key", key, "error", err)
		return false
	}
	return true
}

// commit installs next and persists the collections named in change.
func (s *Store) commit(next State, change Change) {
	if change == 0 {
		return
	}
	s.state = next
	s.persist(change)
}

func (s *Store) persist(change Change) {
	s.lastErr = nil
	if change.Has(HabitsChanged) {
		s.write(constants.HabitsKey, s.state.Habits, len(s.state.Habits))
	}
	if change.Has(CategoriesChanged) {
		s.write(constants.CategoriesKey, s.state.Categories, len(s.state.Categories))
	}
}

func (s *Store) write(key string, v any, n int) {
	if n == 0 && !s.persistEmpty {
		logger.Debug("Skipping write of empty collection", "key", key)
		return
	}
	data, err := json.Marshal(v)
	if err == nil {
		err = s.provider.Set(key, data)
	}
	if err != nil {
		logger.Warn("Failed to persist collection", "key", key, "error", err)
		s.lastErr = errors.Join(s.lastErr, err)
		return
	}
	s.synced[key] = data
}

// ReloadIfChanged reloads the state only when the provider holds something
// other than what this store last read or wrote, and reports whether it
// did. A change event caused by the store's own write leaves unsaved state
// alone: an emptied collection that was not written, or a failed write.
func (s *Store) ReloadIfChanged() bool {
	for _, key := range []string{constants.HabitsKey, constants.CategoriesKey} {
		data, err := s.provider.Get(key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.Warn("Failed to read stored collection, keeping current state", "key", key, "error", err)
			return false
		}
		if !bytes.Equal(data, s.synced[key]) {
			logger.Debug("Stored collection changed", "key", key)
			s.Reload()
			return true
		}
	}
	return false
}

// Err returns the storage error from the most recent mutation, if any.
// Mutations never fail because of storage; this lets callers warn the user.
func (s *Store) Err() error {
	return s.lastErr
}

// Habits returns a copy of all habits in insertion order.
func (s *Store) Habits() []models.Habit {
	return s.state.Clone().Habits
}

// Categories returns a copy of all categories.
func (s *Store) Categories() []models.Category {
	return s.state.Clone().Categories
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	return s.state.Clone()
}

// Habit returns the habit with the given id.
func (s *Store) Habit(id string) (models.Habit, bool) {
	i := s.state.habitIndex(id)
	if i < 0 {
		return models.Habit{}, false
	}
	return s.state.Habits[i].Clone(), true
}

// Category returns the category with the given id.
func (s *Store) Category(id string) (models.Category, bool) {
	i := s.state.categoryIndex(id)
	if i < 0 {
		return models.Category{}, false
	}
	return s.state.Categories[i], true
}

// AddHabit creates a habit with a fresh id, the current time and no
// completions.
func (s *Store) AddHabit(in models.HabitInput) models.Habit {
	next, h, change := s.state.AddHabit(in, s.newID(), s.now().UTC().Truncate(time.Millisecond))
	s.commit(next, change)
	logger.Debug("Added habit", "id", h.ID, "title", h.Title)
	return h
}

// UpdateHabit applies patch to a habit. It reports false for unknown ids.
func (s *Store) UpdateHabit(id string, patch models.HabitPatch) bool {
	next, change := s.state.UpdateHabit(id, patch)
	s.commit(next, change)
	return change != 0
}

// DeleteHabit removes a habit. It reports false for unknown ids.
func (s *Store) DeleteHabit(id string) bool {
	next, change := s.state.DeleteHabit(id)
	s.commit(next, change)
	return change != 0
}

// ToggleHabitCompletion flips a habit's completion on date (YYYY-MM-DD).
// It reports false for unknown habits or malformed dates.
func (s *Store) ToggleHabitCompletion(habitID, date string) bool {
	next, change := s.state.ToggleCompletion(habitID, date)
	s.commit(next, change)
	return change != 0
}

// AddCategory creates a category and returns its id.
func (s *Store) AddCategory(in models.CategoryInput) string {
	next, c, change := s.state.AddCategory(in, s.newID())
	s.commit(next, change)
	logger.Debug("Added category", "id", c.ID, "name", c.Name)
	return c.ID
}

// UpdateCategory applies patch to a category. It reports false for unknown ids.
func (s *Store) UpdateCategory(id string, patch models.CategoryPatch) bool {
	next, change := s.state.UpdateCategory(id, patch)
	s.commit(next, change)
	return change != 0
}

// DeleteCategory moves the category's habits to the first remaining
// category and removes it. Unknown ids are ignored; deleting the last
// category returns ErrLastCategory.
func (s *Store) DeleteCategory(id string) error {
	next, change, err := s.state.DeleteCategory(id)
	if err != nil {
		return err
	}
	s.commit(next, change)
	return nil
}

// HabitsForDate returns the habits due on date (YYYY-MM-DD).
func (s *Store) HabitsForDate(date string) []models.Habit {
	return s.state.HabitsForDate(date)
}

// Today returns the current calendar date in the store's timezone.
func (s *Store) Today() string {
	return utils.FormatDate(s.now().In(s.loc))
}

// TodaysHabits returns the habits due today.
func (s *Store) TodaysHabits() []models.Habit {
	return s.HabitsForDate(s.Today())
}

// Summary reports progress for date.
func (s *Store) Summary(date string) DaySummary {
	return s.state.Summary(date)
}
