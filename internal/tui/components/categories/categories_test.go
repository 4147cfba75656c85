package categories

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgrid/internal/models"
)

func TestHabitCounts(t *testing.T) {
	categories := []models.Category{
		{ID: "1", Name: "Health", Color: "#22c55e"},
		{ID: "2", Name: "Learning", Color: "#f59e0b"},
	}
	habits := []models.Habit{
		{ID: "h1", CategoryID: "1"},
		{ID: "h2", CategoryID: "1"},
	}

	m := New(categories, habits, 80, 20)
	items := m.list.Items()
	if got := items[0].(Item).HabitCount; got != 2 {
		t.Errorf("Health count = %d, want 2", got)
	}
	if got := items[1].(Item).Description(); got != "#f59e0b · 0 habit(s)" {
		t.Errorf("Description() = %q", got)
	}
	if !strings.Contains(items[0].(Item).Title(), "Health") {
		t.Errorf("Title() = %q", items[0].(Item).Title())
	}
}

func TestKeysEmitMessages(t *testing.T) {
	categories := []models.Category{{ID: "1", Name: "Health", Color: "#22c55e"}}

	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"a", AddCategoryMsg{}},
		{"e", EditCategoryMsg{ID: "1"}},
		{"d", DeleteCategoryMsg{ID: "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := New(categories, nil, 80, 20)
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if got := cmd(); got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}
