package handlers

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/tracker"
	"github.com/julianstephens/habitgrid/internal/tui/state"
)

// HandleConfirmDeleteHabitState handles the habit delete confirmation state
func HandleConfirmDeleteHabitState(m *state.Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			if m.HabitToDeleteID != "" {
				if m.Store.DeleteHabit(m.HabitToDeleteID) {
					m.Refresh()
				}
				m.HabitToDeleteID = ""
			}
			m.State = constants.StateToday
		case "n", "N", "esc":
			m.HabitToDeleteID = ""
			m.State = constants.StateToday
		}
	}
	return nil
}

// HandleConfirmDeleteCategoryState handles the category delete confirmation state
func HandleConfirmDeleteCategoryState(m *state.Model, msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			if m.CategoryToDeleteID != "" {
				err := m.Store.DeleteCategory(m.CategoryToDeleteID)
				switch {
				case errors.Is(err, tracker.ErrLastCategory):
					m.FormError = "Cannot delete the last category. Add another category first."
				case err != nil:
					m.FormError = err.Error()
				default:
					m.Refresh()
				}
				m.CategoryToDeleteID = ""
			}
			m.State = constants.StateCategories
		case "n", "N", "esc":
			m.CategoryToDeleteID = ""
			m.State = constants.StateCategories
		}
	}
	return nil
}
