package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/utils"
)

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var content string

	switch m.State {
	case constants.StateToday:
		content = m.viewToday()
	case constants.StateCategories:
		content = m.viewCategories()
	case constants.StateAddHabit, constants.StateEditHabit,
		constants.StateAddCategory, constants.StateEditCategory:
		content = m.viewForm()
	case constants.StateConfirmDeleteHabit:
		content = m.viewConfirmDeleteHabit()
	case constants.StateConfirmDeleteCategory:
		content = m.viewConfirmDeleteCategory()
	}

	var banners []string
	if m.StorageWarning != "" {
		banners = append(banners, dangerStyle.Render(m.StorageWarning))
	}
	if m.ValidationWarning != "" {
		banners = append(banners, bannerStyle.Render(m.ValidationWarning))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		lipgloss.JoinVertical(lipgloss.Left, banners...),
		content,
		m.Help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Today", "Categories"}
	for i, title := range tabTitles {
		if m.activeTab() == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// activeTab maps sub-states back to the tab they belong to.
func (m Model) activeTab() constants.SessionState {
	switch m.State {
	case constants.StateCategories, constants.StateAddCategory,
		constants.StateEditCategory, constants.StateConfirmDeleteCategory:
		return constants.StateCategories
	}
	return constants.StateToday
}

func (m Model) viewToday() string {
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		"",
		m.HabitsModel.View(),
	))
}

// viewHeader renders the date line, the stats cards and, when every due
// habit is done, the perfect day banner.
func (m Model) viewHeader() string {
	dateLine := m.Date
	if t, err := utils.ParseDate(m.Date); err == nil {
		dateLine = t.Format("Monday, January 2 2006")
	}
	if m.IsToday() {
		dateLine = dateStyle.Render(dateLine) + mutedStyle.Render("  (today)")
	} else {
		dateLine = dateStyle.Render(dateLine) + mutedStyle.Render("  (press t for today)")
	}

	summary := m.Store.Summary(m.Date)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Habits", fmt.Sprintf("%d", summary.Due)),
		statCard("Done", fmt.Sprintf("%d", summary.Completed)),
		statCard("Rate", fmt.Sprintf("%d%%", summary.Rate)),
	)

	rows := []string{dateLine, cards}
	if summary.Perfect {
		rows = append(rows, perfectDayStyle.Render("🎉 Perfect Day! Every habit is done."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func statCard(label, value string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		cardValueStyle.Render(value),
		mutedStyle.Render(label),
	))
}

func (m Model) viewCategories() string {
	content := m.CategoriesModel.View()
	if m.FormError != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, dangerStyle.Render(m.FormError), content)
	}
	return docStyle.Render(content)
}

func (m Model) viewForm() string {
	if m.Form == nil {
		return ""
	}
	content := m.Form.View()
	if m.FormError != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, dangerStyle.Render(m.FormError))
	}
	return docStyle.Render(content)
}

func (m Model) viewConfirmDeleteHabit() string {
	title := m.HabitToDeleteID
	if h, ok := m.Store.Habit(m.HabitToDeleteID); ok {
		title = h.Title
	}
	return lipgloss.Place(m.Width, m.Height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete habit %q?", title)),
			"Its completion history is deleted too.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewConfirmDeleteCategory() string {
	name := m.CategoryName(m.CategoryToDeleteID)

	var fallback string
	for _, c := range m.Store.Categories() {
		if c.ID != m.CategoryToDeleteID {
			fallback = c.Name
			break
		}
	}

	note := "This is the last category and cannot be deleted."
	if fallback != "" {
		note = fmt.Sprintf("Its habits will move to %q.", fallback)
	}

	return lipgloss.Place(m.Width, m.Height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete category %q?", name)),
			warningStyle.Render(note),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
