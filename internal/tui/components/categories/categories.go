package categories

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitgrid/internal/models"
)

type AddCategoryMsg struct{}

type EditCategoryMsg struct {
	ID string
}

type DeleteCategoryMsg struct {
	ID string
}

type Item struct {
	Category   models.Category
	HabitCount int
}

func (i Item) Title() string {
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(i.Category.Color)).Render("■")
	return swatch + " " + i.Category.Name
}

func (i Item) Description() string {
	return fmt.Sprintf("%s · %d habit(s)", i.Category.Color, i.HabitCount)
}

func (i Item) FilterValue() string { return i.Category.Name }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(categories []models.Category, habits []models.Habit, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Categories"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Delete}
	}

	m := Model{list: l, keys: keys}
	m.SetCategories(categories, habits)
	return m
}

func (m *Model) SetCategories(categories []models.Category, habits []models.Habit) {
	counts := make(map[string]int, len(categories))
	for _, h := range habits {
		counts[h.CategoryID]++
	}

	items := make([]list.Item, len(categories))
	for i, c := range categories {
		items[i] = Item{Category: c, HabitCount: counts[c.ID]}
	}
	m.list.SetItems(items)
}

func (m Model) Selected() (models.Category, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Category, true
	}
	return models.Category{}, false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddCategoryMsg{} }
		case key.Matches(msg, m.keys.Edit):
			if c, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditCategoryMsg{ID: c.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if c, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteCategoryMsg{ID: c.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No categories.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
