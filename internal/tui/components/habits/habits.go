package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/utils"
)

type AddHabitMsg struct{}

type EditHabitMsg struct {
	ID string
}

type ToggleHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit     models.Habit
	Category  models.Category
	Completed bool
}

func (i Item) Title() string {
	if i.Completed {
		return "✓ " + i.Habit.Title
	}
	return "○ " + i.Habit.Title
}

func (i Item) Description() string {
	freq := string(i.Habit.Frequency)
	if i.Habit.Frequency == models.FrequencyWeekly {
		freq = "weekly on " + utils.FormatWeekdays(i.Habit.WeekDays)
	}
	desc := fmt.Sprintf("%s · %s", i.Category.Name, freq)
	if i.Habit.Description != "" {
		desc += " · " + i.Habit.Description
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Title }

type KeyMap struct {
	Toggle key.Binding
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
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

// Model lists the habits due on one date.
type Model struct {
	list list.Model
	keys KeyMap
	date string
}

func New(habits []models.Habit, categories []models.Category, date string, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	// q and esc belong to the app, not the list
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Edit, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Add, keys.Edit, keys.Delete}
	}

	m := Model{list: l, keys: keys}
	m.SetHabits(habits, categories, date)
	return m
}

// SetHabits replaces the items with the given due habits for date. The
// cursor stays on the same index so toggling does not jump around.
func (m *Model) SetHabits(habits []models.Habit, categories []models.Category, date string) {
	m.date = date
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{
			Habit:     h,
			Category:  byID[h.CategoryID],
			Completed: h.IsCompleted(date),
		}
	}
	m.list.SetItems(items)
}

// Date returns the date the list was built for.
func (m Model) Date() string {
	return m.date
}

// Selected returns the highlighted habit, if any.
func (m Model) Selected() (models.Habit, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Habit, true
	}
	return models.Habit{}, false
}

// Filtering reports whether the user is typing a filter, in which case
// keys belong to the list.
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
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: h.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Edit):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditHabitMsg{ID: h.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if h, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: h.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits due.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
