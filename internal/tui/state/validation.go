package state

import "fmt"

// UpdateValidationStatus audits the store and updates the warning message
func (m *Model) UpdateValidationStatus() {
	result := m.Validator.CheckState(m.Store.Habits(), m.Store.Categories())
	m.ValidationConflicts = result.Conflicts

	if result.HasConflicts() {
		m.ValidationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.ValidationWarning = ""
	}
}
