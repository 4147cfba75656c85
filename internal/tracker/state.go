// Package tracker holds habits and categories. State is a plain value with
// pure transitions; Store owns a State and persists it after each change.
package tracker

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// ErrLastCategory is returned when deleting a category would leave none
// for habits to fall back to.
var ErrLastCategory = errors.New("cannot delete the last category")

// Change records which collections a transition modified.
type Change uint8

const (
	HabitsChanged Change = 1 << iota
	CategoriesChanged
)

// Has reports whether every bit of o is set in c.
func (c Change) Has(o Change) bool {
	return c&o == o && o != 0
}

// DefaultCategories returns the seed categories used when none are stored.
func DefaultCategories() []models.Category {
	return []models.Category{
		{ID: "1", Name: "Health", Color: "#22c55e"},
		{ID: "2", Name: "Productivity", Color: "#3b82f6"},
		{ID: "3", Name: "Learning", Color: "#f59e0b"},
		{ID: "4", Name: "Personal", Color: "#ec4899"},
	}
}

// State is the full tracker data set. Transitions return a new State and
// never modify the receiver's slices or maps, so earlier values stay valid.
type State struct {
	Habits     []models.Habit
	Categories []models.Category
}

// NewState returns an empty habit list with the seed categories.
func NewState() State {
	return State{
		Habits:     []models.Habit{},
		Categories: DefaultCategories(),
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	habits := make([]models.Habit, len(s.Habits))
	for i, h := range s.Habits {
		habits[i] = h.Clone()
	}
	return State{
		Habits:     habits,
		Categories: slices.Clone(s.Categories),
	}
}

func (s State) habitIndex(id string) int {
	return slices.IndexFunc(s.Habits, func(h models.Habit) bool { return h.ID == id })
}

func (s State) categoryIndex(id string) int {
	return slices.IndexFunc(s.Categories, func(c models.Category) bool { return c.ID == id })
}

// withHabit returns a copy of s whose habit at i is replaced by h.
func (s State) withHabit(i int, h models.Habit) State {
	next := s
	next.Habits = slices.Clone(s.Habits)
	next.Habits[i] = h
	return next
}

// AddHabit appends a habit built from in. The caller supplies the id and
// creation time.
func (s State) AddHabit(in models.HabitInput, id string, now time.Time) (State, models.Habit, Change) {
	h := models.Habit{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Frequency:   in.Frequency,
		WeekDays:    slices.Clone(in.WeekDays),
		Completions: map[string]bool{},
		CreatedAt:   now,
	}

	next := s
	next.Habits = append(slices.Clip(s.Habits), h)
	return next, h.Clone(), HabitsChanged
}

// UpdateHabit merges patch into the habit with the given id. An unknown id
// leaves the state unchanged and reports no change.
func (s State) UpdateHabit(id string, patch models.HabitPatch) (State, Change) {
	i := s.habitIndex(id)
	if i < 0 {
		return s, 0
	}
	h := s.Habits[i].Clone()
	patch.Apply(&h)
	return s.withHabit(i, h), HabitsChanged
}

// DeleteHabit removes the habit with the given id.
func (s State) DeleteHabit(id string) (State, Change) {
	i := s.habitIndex(id)
	if i < 0 {
		return s, 0
	}
	next := s
	next.Habits = slices.Delete(slices.Clone(s.Habits), i, i+1)
	return next, HabitsChanged
}

// ToggleCompletion flips the completion flag of a habit on date. A date
// that was never toggled counts as not completed. Unknown habits and
// malformed dates are ignored.
func (s State) ToggleCompletion(habitID, date string) (State, Change) {
	i := s.habitIndex(habitID)
	if i < 0 || !utils.IsDateKey(date) {
		return s, 0
	}
	h := s.Habits[i].Clone()
	h.Completions[date] = !h.Completions[date]
	return s.withHabit(i, h), HabitsChanged
}

// AddCategory appends a category with the caller-supplied id.
func (s State) AddCategory(in models.CategoryInput, id string) (State, models.Category, Change) {
	c := models.Category{ID: id, Name: in.Name, Color: in.Color}
	next := s
	next.Categories = append(slices.Clip(s.Categories), c)
	return next, c, CategoriesChanged
}

// UpdateCategory merges patch into the category with the given id.
func (s State) UpdateCategory(id string, patch models.CategoryPatch) (State, Change) {
	i := s.categoryIndex(id)
	if i < 0 {
		return s, 0
	}
	next := s
	next.Categories = slices.Clone(s.Categories)
	patch.Apply(&next.Categories[i])
	return next, CategoriesChanged
}

// DeleteCategory removes a category after moving its habits to the first
// remaining category. The last category cannot be deleted.
func (s State) DeleteCategory(id string) (State, Change, error) {
	i := s.categoryIndex(id)
	if i < 0 {
		return s, 0, nil
	}
	if len(s.Categories) == 1 {
		return s, 0, ErrLastCategory
	}

	next := s
	next.Categories = slices.Delete(slices.Clone(s.Categories), i, i+1)
	fallback := next.Categories[0].ID

	cloned := false
	for j, h := range s.Habits {
		if h.CategoryID != id {
			continue
		}
		if !cloned {
			next.Habits = slices.Clone(s.Habits)
			cloned = true
		}
		moved := h.Clone()
		moved.CategoryID = fallback
		next.Habits[j] = moved
	}
	// Both collections are written even when no habit moved.
	return next, CategoriesChanged | HabitsChanged, nil
}

// HabitsForDate returns the habits due on date in insertion order. Daily
// habits are always due; weekly habits are due when their weekdays include
// the date's weekday. A malformed date yields only the daily habits.
func (s State) HabitsForDate(date string) []models.Habit {
	wd, err := utils.WeekdayOf(date)
	valid := err == nil

	due := make([]models.Habit, 0, len(s.Habits))
	for _, h := range s.Habits {
		if h.Frequency == models.FrequencyDaily || (valid && h.DueOn(wd)) {
			due = append(due, h.Clone())
		}
	}
	return due
}

// DaySummary describes progress on one date.
type DaySummary struct {
	Date      string
	Due       int
	Completed int

	// Rate is the completed share of due habits as a whole percentage.
	Rate int

	// Perfect is set when at least one habit is due and all are done.
	Perfect bool
}

// Summary computes progress over the habits due on date.
func (s State) Summary(date string) DaySummary {
	sum := DaySummary{Date: date}
	for _, h := range s.HabitsForDate(date) {
		sum.Due++
		if h.IsCompleted(date) {
			sum.Completed++
		}
	}
	if sum.Due > 0 {
		sum.Rate = int(math.Round(float64(sum.Completed) / float64(sum.Due) * 100))
	}
	sum.Perfect = sum.Due > 0 && sum.Completed == sum.Due
	return sum
}
