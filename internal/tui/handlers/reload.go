package handlers

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgrid/internal/logger"
	"github.com/julianstephens/habitgrid/internal/tui/state"
)

// DataChangedMsg is sent when the data file was modified on disk.
type DataChangedMsg struct{}

// WaitForChange blocks until the next change signal. It returns nil when
// there is nothing to watch or the channel is closed.
func WaitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return DataChangedMsg{}
	}
}

// HandleDataChanged rereads storage and, when another writer changed it,
// rebuilds the views. Events raised by the session's own saves are
// ignored. It then waits for the next change.
func HandleDataChanged(m *state.Model) tea.Cmd {
	if err := m.Store.Provider().Load(); err != nil {
		logger.Warn("Failed to reload storage", "error", err)
		return WaitForChange(m.Changes)
	}
	if !m.Store.ReloadIfChanged() {
		logger.Debug("Ignoring data file event, contents match this session")
		return WaitForChange(m.Changes)
	}
	m.Refresh()
	logger.Debug("Reloaded data after external change")
	return WaitForChange(m.Changes)
}
