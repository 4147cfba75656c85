// Package tui is the interactive terminal interface: a day view of due
// habits and a categories view, both backed by a tracker.Store.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/tracker"
	"github.com/julianstephens/habitgrid/internal/tui/handlers"
	"github.com/julianstephens/habitgrid/internal/tui/state"
)

type Model struct {
	state.Model
}

// NewModel builds the TUI for store. changes may be nil; when set, each
// signal reloads the store from storage.
func NewModel(store *tracker.Store, changes <-chan struct{}) Model {
	return Model{Model: state.New(store, changes)}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.Keys.Tab, m.Keys.Quit, m.Keys.Help}
	switch m.State {
	case constants.StateToday:
		keys = append(keys, m.Keys.Toggle, m.Keys.Add, m.Keys.PrevDay, m.Keys.NextDay)
	case constants.StateCategories:
		keys = append(keys, m.Keys.Add, m.Keys.Edit, m.Keys.Delete)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.Keys.Tab, m.Keys.ShiftTab, m.Keys.Quit, m.Keys.Help}
	navigation := []key.Binding{m.Keys.Up, m.Keys.Down}

	var actions []key.Binding
	switch m.State {
	case constants.StateToday:
		navigation = append(navigation, m.Keys.PrevDay, m.Keys.NextDay, m.Keys.Today)
		actions = []key.Binding{m.Keys.Toggle, m.Keys.Add, m.Keys.Edit, m.Keys.Delete}
	case constants.StateCategories:
		actions = []key.Binding{m.Keys.Add, m.Keys.Edit, m.Keys.Delete}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return handlers.WaitForChange(m.Changes)
}
