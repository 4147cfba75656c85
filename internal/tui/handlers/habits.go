package handlers

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/tui/components/habits"
	"github.com/julianstephens/habitgrid/internal/tui/state"
)

// HandleHabitFormState handles the add and edit habit states
func HandleHabitFormState(m *state.Model, msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.FormError = "" // Clear error on cancel
		m.EditingHabitID = ""
		m.State = constants.StateToday
		return nil
	}

	form, cmd := m.Form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.Form = f
	}
	cmds = append(cmds, cmd)

	switch m.Form.State {
	case huh.StateCompleted:
		in := m.HabitForm.Input()
		if err := m.Validator.HabitInput(in, m.Store.Categories()); err != nil {
			m.FormError = fmt.Sprintf("Invalid habit: %v", err)
			m.Form.State = huh.StateNormal
			return tea.Batch(cmds...)
		}
		if in.Frequency == models.FrequencyWeekly && len(in.WeekDays) == 0 {
			m.FormError = "Invalid habit: weekly habits need at least one day"
			m.Form.State = huh.StateNormal
			return tea.Batch(cmds...)
		}

		if m.EditingHabitID == "" {
			h := m.Store.AddHabit(in)
			logger.Debug("Added habit from TUI", "id", h.ID)
		} else if !m.Store.UpdateHabit(m.EditingHabitID, fullPatch(in)) {
			// Removed by another process while the form was open
			m.FormError = "Habit no longer exists"
			m.Form.State = huh.StateNormal
			return tea.Batch(cmds...)
		}

		m.Refresh()
		m.FormError = ""
		m.EditingHabitID = ""
		m.State = constants.StateToday
	case huh.StateAborted:
		m.FormError = ""
		m.EditingHabitID = ""
		m.State = constants.StateToday
	}
	return tea.Batch(cmds...)
}

func fullPatch(in models.HabitInput) models.HabitPatch {
	days := slices.Clone(in.WeekDays)
	return models.HabitPatch{
		Title:       &in.Title,
		Description: &in.Description,
		CategoryID:  &in.CategoryID,
		Frequency:   &in.Frequency,
		WeekDays:    &days,
	}
}

// HandleHabitMessages handles messages from the habits component
func HandleHabitMessages(m *state.Model, msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		categories := m.Store.Categories()
		m.HabitForm = &state.HabitFormModel{
			Frequency: models.FrequencyDaily,
		}
		if len(categories) > 0 {
			m.HabitForm.CategoryID = categories[0].ID
		}
		m.EditingHabitID = ""
		m.FormError = ""
		m.Form = NewHabitForm(m.HabitForm, categories, m.Validator)
		m.State = constants.StateAddHabit
		return true, m.Form.Init()

	case habits.EditHabitMsg:
		h, ok := m.Store.Habit(msg.ID)
		if !ok {
			return true, nil
		}
		m.HabitForm = &state.HabitFormModel{
			Title:       h.Title,
			Description: h.Description,
			CategoryID:  h.CategoryID,
			Frequency:   h.Frequency,
			WeekDays:    slices.Clone(h.WeekDays),
		}
		m.EditingHabitID = h.ID
		m.FormError = ""
		m.Form = NewHabitForm(m.HabitForm, m.Store.Categories(), m.Validator)
		m.State = constants.StateEditHabit
		return true, m.Form.Init()

	case habits.ToggleHabitMsg:
		if m.Store.ToggleHabitCompletion(msg.ID, m.Date) {
			m.Refresh()
		}
		return true, nil

	case habits.DeleteHabitMsg:
		m.HabitToDeleteID = msg.ID
		m.State = constants.StateConfirmDeleteHabit
		return true, nil
	}
	return false, nil
}
