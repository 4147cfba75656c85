package categories

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/constants"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/tracker"
)

func setupTestContext(t *testing.T) (*cli.Context, *storage.MemoryStore, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Timezone = "UTC"
	mem := storage.NewMemoryStore()
	out := &bytes.Buffer{}
	return &cli.Context{
		Config:   cfg,
		Provider: mem,
		Out:      out,
		Now:      func() time.Time { return time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC) },
	}, mem, out
}

func TestCategoryAdd(t *testing.T) {
	ctx, mem, out := setupTestContext(t)

	if err := (&CategoryAddCmd{Name: " Mindfulness ", Color: "#8B5CF6"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Added category: Mindfulness") {
		t.Errorf("unexpected output: %q", out.String())
	}

	cats := tracker.Open(mem).Categories()
	if len(cats) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(cats))
	}
	got := cats[4]
	if got.Name != "Mindfulness" || got.Color != "#8b5cf6" {
		t.Errorf("unexpected category: %+v", got)
	}
}

func TestCategoryAddDefaultColor(t *testing.T) {
	ctx, mem, _ := setupTestContext(t)

	if err := (&CategoryAddCmd{Name: "Chores"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	cats := tracker.Open(mem).Categories()
	// The four seed categories use the first four palette colors.
	if got := cats[len(cats)-1].Color; got != constants.CategoryPalette[4] {
		t.Errorf("Color = %s, want %s", got, constants.CategoryPalette[4])
	}
}

func TestCategoryAddInvalid(t *testing.T) {
	ctx, _, _ := setupTestContext(t)

	if err := (&CategoryAddCmd{Name: "", Color: "#ffffff"}).Run(ctx); err == nil {
		t.Error("expected error for empty name")
	}
	if err := (&CategoryAddCmd{Name: "Chores", Color: "blue"}).Run(ctx); err == nil {
		t.Error("expected error for non-hex color")
	}
}

func TestCategoryEdit(t *testing.T) {
	ctx, mem, _ := setupTestContext(t)

	name := "Fitness"
	if err := (&CategoryEditCmd{Category: "health", Name: &name}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	cat, ok := tracker.Open(mem).Category("1")
	if !ok || cat.Name != "Fitness" || cat.Color != "#22c55e" {
		t.Errorf("unexpected category after edit: %+v", cat)
	}

	if err := (&CategoryEditCmd{Category: "1"}).Run(ctx); err == nil {
		t.Error("expected error for edit without flags")
	}
	bad := "#12"
	if err := (&CategoryEditCmd{Category: "1", Color: &bad}).Run(ctx); err == nil {
		t.Error("expected error for invalid color")
	}
}

func TestCategoryDeleteMovesHabits(t *testing.T) {
	ctx, mem, out := setupTestContext(t)

	store := tracker.Open(mem)
	store.AddHabit(models.HabitInput{Title: "Read", CategoryID: "3", Frequency: models.FrequencyDaily})
	store.AddHabit(models.HabitInput{Title: "Run", CategoryID: "1", Frequency: models.FrequencyDaily})

	if err := (&CategoryDeleteCmd{Category: "Learning"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Moved 1 habit(s) to Health") {
		t.Errorf("unexpected output: %q", out.String())
	}

	reloaded := tracker.Open(mem)
	if _, ok := reloaded.Category("3"); ok {
		t.Error("category 3 still present")
	}
	for _, h := range reloaded.Habits() {
		if h.CategoryID != "1" {
			t.Errorf("habit %s in category %s, want 1", h.Title, h.CategoryID)
		}
	}
}

func TestCategoryDeleteLast(t *testing.T) {
	ctx, mem, _ := setupTestContext(t)

	for _, name := range []string{"Health", "Productivity", "Learning"} {
		if err := (&CategoryDeleteCmd{Category: name}).Run(ctx); err != nil {
			t.Fatalf("delete %s: %v", name, err)
		}
	}

	err := (&CategoryDeleteCmd{Category: "Personal"}).Run(ctx)
	if !errors.Is(err, tracker.ErrLastCategory) {
		t.Fatalf("Run() error = %v, want ErrLastCategory", err)
	}
	if n := len(tracker.Open(mem).Categories()); n != 1 {
		t.Errorf("expected 1 category left, got %d", n)
	}
}

func TestCategoryList(t *testing.T) {
	ctx, mem, out := setupTestContext(t)
	tracker.Open(mem).AddHabit(models.HabitInput{Title: "Read", CategoryID: "3", Frequency: models.FrequencyDaily})

	if err := (&CategoryListCmd{ShowIDs: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := out.String()
	for _, want := range []string{"Health (ID: 1) #22c55e - 0 habit(s)", "Learning (ID: 3) #f59e0b - 1 habit(s)"} {
		if !strings.Contains(got, want) {
			t.Errorf("list output missing %q:\n%s", want, got)
		}
	}
}

func TestNextColor(t *testing.T) {
	if got := NextColor(nil); got != constants.CategoryPalette[0] {
		t.Errorf("NextColor(nil) = %s", got)
	}

	var all []models.Category
	for _, c := range constants.CategoryPalette {
		all = append(all, models.Category{Color: c})
	}
	if got := NextColor(all); got != constants.CategoryPalette[0] {
		t.Errorf("NextColor(full palette) = %s, want wrap to first color", got)
	}
}
