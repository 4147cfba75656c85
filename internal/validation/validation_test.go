package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitgrid/internal/models"
)

var testCategories = []models.Category{
	{ID: "1", Name: "Health", Color: "#22c55e"},
	{ID: "2", Name: "Productivity", Color: "#3b82f6"},
}

func TestNormalizeHabitInput(t *testing.T) {
	tests := []struct {
		name string
		in   models.HabitInput
		want models.HabitInput
	}{
		{
			name: "trims text",
			in:   models.HabitInput{Title: "  Read  ", Description: " 20 pages ", CategoryID: " 3 ", Frequency: models.FrequencyDaily},
			want: models.HabitInput{Title: "Read", Description: "20 pages", CategoryID: "3", Frequency: models.FrequencyDaily},
		},
		{
			name: "daily drops weekdays",
			in:   models.HabitInput{Title: "Walk", CategoryID: "1", Frequency: models.FrequencyDaily, WeekDays: []time.Weekday{time.Monday}},
			want: models.HabitInput{Title: "Walk", CategoryID: "1", Frequency: models.FrequencyDaily},
		},
		{
			name: "weekly sorts and dedupes",
			in:   models.HabitInput{Title: "Gym", CategoryID: "1", Frequency: models.FrequencyWeekly, WeekDays: []time.Weekday{5, 1, 5, 3}},
			want: models.HabitInput{Title: "Gym", CategoryID: "1", Frequency: models.FrequencyWeekly, WeekDays: []time.Weekday{1, 3, 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHabitInput(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeHabitInput mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHabitInput(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		in      models.HabitInput
		wantErr string
	}{
		{
			name: "valid daily",
			in:   models.HabitInput{Title: "Meditate", CategoryID: "1", Frequency: models.FrequencyDaily},
		},
		{
			name: "valid weekly without days",
			in:   models.HabitInput{Title: "Review", CategoryID: "2", Frequency: models.FrequencyWeekly},
		},
		{
			name:    "missing title",
			in:      models.HabitInput{CategoryID: "1", Frequency: models.FrequencyDaily},
			wantErr: "title is required",
		},
		{
			name:    "bad frequency",
			in:      models.HabitInput{Title: "X", CategoryID: "1", Frequency: "monthly"},
			wantErr: "frequency must be one of: daily, weekly",
		},
		{
			name:    "weekday out of range",
			in:      models.HabitInput{Title: "X", CategoryID: "1", Frequency: models.FrequencyWeekly, WeekDays: []time.Weekday{7}},
			wantErr: "weekDays[0] must be at most 6",
		},
		{
			name:    "unknown category",
			in:      models.HabitInput{Title: "X", CategoryID: "99", Frequency: models.FrequencyDaily},
			wantErr: `unknown category "99"`,
		},
		{
			name:    "title too long",
			in:      models.HabitInput{Title: strings.Repeat("a", 121), CategoryID: "1", Frequency: models.FrequencyDaily},
			wantErr: "title must be at most 120 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.HabitInput(tt.in, testCategories)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("HabitInput() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCategoryInput(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		in      models.CategoryInput
		wantErr bool
	}{
		{"valid long hex", models.CategoryInput{Name: "Social", Color: "#a855f7"}, false},
		{"valid short hex", models.CategoryInput{Name: "Social", Color: "#fff"}, false},
		{"missing name", models.CategoryInput{Color: "#a855f7"}, true},
		{"not a color", models.CategoryInput{Name: "Social", Color: "purple"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.CategoryInput(NormalizeCategoryInput(tt.in))
			if (err != nil) != tt.wantErr {
				t.Errorf("CategoryInput() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestField(t *testing.T) {
	v := New()
	if err := v.Field("color", "#22c55e", "required,hexcolor"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := v.Field("color", "green", "required,hexcolor")
	if err == nil || !strings.HasPrefix(err.Error(), "color must be a hex color") {
		t.Errorf("Field() error = %v", err)
	}
}

func conflictTypes(r ValidationResult) []ConflictType {
	var types []ConflictType
	for _, c := range r.Conflicts {
		types = append(types, c.Type)
	}
	return types
}

func TestCheckState(t *testing.T) {
	v := New()

	t.Run("clean state", func(t *testing.T) {
		habits := []models.Habit{
			{ID: "h1", Title: "Water", CategoryID: "1", Frequency: models.FrequencyDaily, Completions: map[string]bool{"2024-01-15": true}},
			{ID: "h2", Title: "Gym", CategoryID: "2", Frequency: models.FrequencyWeekly, WeekDays: []time.Weekday{1, 3}},
		}
		result := v.CheckState(habits, testCategories)
		if result.HasConflicts() {
			t.Errorf("expected no conflicts, got %s", result.FormatReport())
		}
		if result.FormatReport() != "No conflicts detected." {
			t.Errorf("unexpected report: %q", result.FormatReport())
		}
	})

	t.Run("each problem is reported", func(t *testing.T) {
		habits := []models.Habit{
			{ID: "h1", Title: "Water", CategoryID: "gone", Frequency: models.FrequencyDaily},
			{ID: "h1", Title: "Dup", CategoryID: "1", Frequency: models.FrequencyDaily},
			{ID: "h3", Title: "Odd", CategoryID: "1", Frequency: "hourly"},
			{ID: "h4", Title: "Bad day", CategoryID: "1", Frequency: models.FrequencyWeekly, WeekDays: []time.Weekday{9}},
			{ID: "h5", Title: "Bad key", CategoryID: "1", Frequency: models.FrequencyDaily, Completions: map[string]bool{"yesterday": true}},
			{ID: "h6", Title: " ", CategoryID: "1", Frequency: models.FrequencyDaily},
		}
		got := conflictTypes(v.CheckState(habits, testCategories))
		want := []ConflictType{
			ConflictDanglingCategory,
			ConflictDuplicateHabitID,
			ConflictInvalidFrequency,
			ConflictInvalidWeekday,
			ConflictInvalidCompletion,
			ConflictEmptyTitle,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("conflict types mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("warnings only", func(t *testing.T) {
		habits := []models.Habit{
			{ID: "h1", Title: "Someday", CategoryID: "1", Frequency: models.FrequencyWeekly},
		}
		categories := []models.Category{{ID: "1", Name: "Health", Color: "green"}}
		result := v.CheckState(habits, categories)
		if !result.HasConflicts() {
			t.Fatal("expected warnings")
		}
		if result.HasErrors() {
			t.Errorf("warnings should not count as errors: %s", result.FormatReport())
		}
		if !strings.Contains(result.FormatReport(), "(warning)") {
			t.Errorf("report should mark warnings: %q", result.FormatReport())
		}
	})

	t.Run("no categories", func(t *testing.T) {
		got := conflictTypes(v.CheckState(nil, nil))
		if diff := cmp.Diff([]ConflictType{ConflictNoCategories}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}
