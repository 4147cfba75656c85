package handlers

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/tui/state"
	"github.com/julianstephens/habitgrid/internal/utils"
)

// HandleGlobalKeys handles key presses shared by the list views. It must
// not be called while a form or confirmation is active, or while a list
// is being filtered.
func HandleGlobalKeys(m *state.Model, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
		return true, nil
	case key.Matches(msg, m.Keys.Tab), key.Matches(msg, m.Keys.ShiftTab):
		// Two views, so both directions land on the other one
		if m.State == constants.StateToday {
			m.State = constants.StateCategories
		} else {
			m.State = constants.StateToday
		}
		m.FormError = ""
		return true, nil
	}

	if m.State != constants.StateToday {
		return false, nil
	}

	switch {
	case key.Matches(msg, m.Keys.PrevDay):
		shiftDay(m, -1)
		return true, nil
	case key.Matches(msg, m.Keys.NextDay):
		shiftDay(m, 1)
		return true, nil
	case key.Matches(msg, m.Keys.Today):
		m.SetDate(m.Store.Today())
		return true, nil
	}
	return false, nil
}

func shiftDay(m *state.Model, days int) {
	date, err := utils.ShiftDate(m.Date, days)
	if err != nil {
		logger.Warn("Failed to change date", "date", m.Date, "error", err)
		return
	}
	m.SetDate(date)
}
