package state

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/tracker"
	"github.com/julianstephens/habitgrid/internal/tui/components/categories"
	"github.com/julianstephens/habitgrid/internal/tui/components/habits"
	"github.com/julianstephens/habitgrid/internal/validation"
)

// HabitFormModel holds the values bound to the habit form
type HabitFormModel struct {
	Title       string
	Description string
	CategoryID  string
	Frequency   models.Frequency
	WeekDays    []time.Weekday
}

// Input converts the form values into a normalized habit input.
func (fm *HabitFormModel) Input() models.HabitInput {
	return validation.NormalizeHabitInput(models.HabitInput{
		Title:       fm.Title,
		Description: fm.Description,
		CategoryID:  fm.CategoryID,
		Frequency:   fm.Frequency,
		WeekDays:    fm.WeekDays,
	})
}

// CategoryFormModel holds the values bound to the category form
type CategoryFormModel struct {
	Name  string
	Color string
}

func (fm *CategoryFormModel) Input() models.CategoryInput {
	return validation.NormalizeCategoryInput(models.CategoryInput{
		Name:  fm.Name,
		Color: fm.Color,
	})
}

// Model represents the shared state for the TUI
type Model struct {
	Store               *tracker.Store
	Validator           *validation.Validator
	Changes             <-chan struct{} // data file change signals, nil when not watching
	State               constants.SessionState
	PreviousState       constants.SessionState
	Keys                KeyMap
	Help                help.Model
	Date                string
	HabitsModel         habits.Model
	CategoriesModel     categories.Model
	Form                *huh.Form
	HabitForm           *HabitFormModel
	CategoryForm        *CategoryFormModel
	EditingHabitID      string // empty when the form adds a new habit
	EditingCategoryID   string
	HabitToDeleteID     string
	CategoryToDeleteID  string
	Quitting            bool
	Width               int
	Height              int
	ValidationWarning   string                // Validation warning message to display
	ValidationConflicts []validation.Conflict // Detailed conflict information
	FormError           string                // Error message to display for form operations
	StorageWarning      string                // Set when the last write did not reach storage
}

// New creates a new state Model showing today's habits
func New(store *tracker.Store, changes <-chan struct{}) Model {
	today := store.Today()
	m := Model{
		Store:           store,
		Validator:       validation.New(),
		Changes:         changes,
		State:           constants.StateToday,
		Keys:            DefaultKeyMap(),
		Help:            help.New(),
		Date:            today,
		HabitsModel:     habits.New(store.HabitsForDate(today), store.Categories(), today, 0, 0),
		CategoriesModel: categories.New(store.Categories(), store.Habits(), 0, 0),
	}
	m.UpdateValidationStatus()
	return m
}

// Refresh rebuilds the lists from the store and records any write failure.
func (m *Model) Refresh() {
	m.HabitsModel.SetHabits(m.Store.HabitsForDate(m.Date), m.Store.Categories(), m.Date)
	m.CategoriesModel.SetCategories(m.Store.Categories(), m.Store.Habits())
	m.UpdateValidationStatus()

	if err := m.Store.Err(); err != nil {
		m.StorageWarning = "⚠ Changes may not have been saved: " + err.Error()
	} else {
		m.StorageWarning = ""
	}
}

// SetDate moves the day view to date.
func (m *Model) SetDate(date string) {
	m.Date = date
	m.HabitsModel.SetHabits(m.Store.HabitsForDate(date), m.Store.Categories(), date)
}

// IsToday reports whether the day view shows the current date.
func (m *Model) IsToday() bool {
	return m.Date == m.Store.Today()
}

// CategoryName returns the category's name, or the id when it is unknown.
func (m *Model) CategoryName(id string) string {
	if c, ok := m.Store.Category(id); ok {
		return c.Name
	}
	return id
}
