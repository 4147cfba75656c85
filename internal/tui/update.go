package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/tui/handlers"
)

// chromeHeight is the space taken by the tabs, header, banners and help.
const chromeHeight = 12

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		h, v := docStyle.GetFrameSize()
		listHeight := max(msg.Height-chromeHeight-v, 3)
		m.HabitsModel.SetSize(msg.Width-h, listHeight)
		m.CategoriesModel.SetSize(msg.Width-h, listHeight)
		m.Help.Width = msg.Width
		return m, nil

	case handlers.DataChangedMsg:
		return m, handlers.HandleDataChanged(&m.Model)
	}

	// Forms and confirmations own all input until they finish
	switch m.State {
	case constants.StateAddHabit, constants.StateEditHabit:
		return m, handlers.HandleHabitFormState(&m.Model, msg)
	case constants.StateAddCategory, constants.StateEditCategory:
		return m, handlers.HandleCategoryFormState(&m.Model, msg)
	case constants.StateConfirmDeleteHabit:
		return m, handlers.HandleConfirmDeleteHabitState(&m.Model, msg)
	case constants.StateConfirmDeleteCategory:
		return m, handlers.HandleConfirmDeleteCategoryState(&m.Model, msg)
	}

	if handled, cmd := handlers.HandleHabitMessages(&m.Model, msg); handled {
		return m, cmd
	}
	if handled, cmd := handlers.HandleCategoryMessages(&m.Model, msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.filtering() {
		if handled, cmd := handlers.HandleGlobalKeys(&m.Model, msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	switch m.State {
	case constants.StateToday:
		m.HabitsModel, cmd = m.HabitsModel.Update(msg)
	case constants.StateCategories:
		m.CategoriesModel, cmd = m.CategoriesModel.Update(msg)
	}
	return m, cmd
}

func (m Model) filtering() bool {
	switch m.State {
	case constants.StateToday:
		return m.HabitsModel.Filtering()
	case constants.StateCategories:
		return m.CategoriesModel.Filtering()
	}
	return false
}
