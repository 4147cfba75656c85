package system

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/habitgrid/internal/cli"
	"github.com/julianstephens/habitgrid/internal/config"
	"github.com/julianstephens/habitgrid/internal/models"
	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
	"github.com/julianstephens/habitgrid/internal/tracker"
)

func setupTestInitContext(t *testing.T, name string) (*cli.Context, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	dataPath := filepath.Join(dir, name)

	cfg := config.DefaultConfig()
	cfg.Store = dataPath
	cfg.Timezone = "UTC"
	provider, err := cli.NewProvider(cfg)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Config:     cfg,
		ConfigPath: filepath.Join(dir, "config.yaml"),
		Provider:   provider,
		Out:        out,
	}
	t.Cleanup(func() { provider.Close() })
	return ctx, dataPath, out
}

func TestInitCmd_Success(t *testing.T) {
	for _, name := range []string{"habitgrid.json", "habitgrid.db"} {
		t.Run(name, func(t *testing.T) {
			ctx, dataPath, out := setupTestInitContext(t, name)

			if err := (&InitCmd{}).Run(ctx); err != nil {
				t.Fatalf("init command failed: %v", err)
			}
			if _, err := os.Stat(dataPath); os.IsNotExist(err) {
				t.Errorf("data file was not created at %s", dataPath)
			}
			if _, err := os.Stat(ctx.ConfigPath); err != nil {
				t.Errorf("config file was not written: %v", err)
			}
			if !strings.Contains(out.String(), "Initialized habitgrid storage at: "+dataPath) {
				t.Errorf("unexpected output: %q", out.String())
			}
		})
	}
}

func TestInitCmd_KeepsExistingConfig(t *testing.T) {
	ctx, _, out := setupTestInitContext(t, "habitgrid.json")
	if err := os.WriteFile(ctx.ConfigPath, []byte("timezone: Asia/Tokyo\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	data, _ := os.ReadFile(ctx.ConfigPath)
	if string(data) != "timezone: Asia/Tokyo\n" {
		t.Errorf("init overwrote existing config: %q", data)
	}
	if strings.Contains(out.String(), "Wrote config") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestInitCmd_JSONRefusesReinit(t *testing.T) {
	ctx, _, _ := setupTestInitContext(t, "habitgrid.json")
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := (&InitCmd{}).Run(ctx); err == nil {
		t.Error("expected second init of a JSON store to fail without --force")
	}
}

func TestInitCmd_SQLiteIdempotent(t *testing.T) {
	ctx, _, _ := setupTestInitContext(t, "habitgrid.db")
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, dataPath, out := setupTestInitContext(t, "habitgrid.json")
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}

	js := storage.NewJSONStore(dataPath)
	if err := js.Load(); err != nil {
		t.Fatal(err)
	}
	tracker.Open(js).AddHabit(models.HabitInput{Title: "Read", CategoryID: "1", Frequency: models.FrequencyDaily})

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("init with force failed: %v", err)
	}
	if !strings.Contains(out.String(), "Deleted existing data at") {
		t.Errorf("unexpected output: %q", out.String())
	}

	fresh := storage.NewJSONStore(dataPath)
	if err := fresh.Load(); err != nil {
		t.Fatalf("failed to load store after force: %v", err)
	}
	if n := len(tracker.Open(fresh).Habits()); n != 0 {
		t.Errorf("expected no habits after force, got %d", n)
	}
}

func TestInitCmd_ForceRejectsSameSource(t *testing.T) {
	ctx, dataPath, _ := setupTestInitContext(t, "habitgrid.json")
	if err := (&InitCmd{Force: true, Source: dataPath}).Run(ctx); err == nil {
		t.Error("expected error when source equals destination")
	}
}

func TestInitCmd_CopiesFromSource(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "old.db")
	src := sqlite.NewStore(srcPath)
	if err := src.Init(); err != nil {
		t.Fatal(err)
	}
	store := tracker.Open(src)
	store.AddHabit(models.HabitInput{Title: "Read", CategoryID: "1", Frequency: models.FrequencyDaily})
	store.AddCategory(models.CategoryInput{Name: "Chores", Color: "#64748b"})
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	ctx, dataPath, out := setupTestInitContext(t, "habitgrid.json")
	if err := (&InitCmd{Source: srcPath}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}
	if !strings.Contains(out.String(), "Copied 2 collection(s)") {
		t.Errorf("unexpected output: %q", out.String())
	}

	js := storage.NewJSONStore(dataPath)
	if err := js.Load(); err != nil {
		t.Fatal(err)
	}
	copied := tracker.Open(js)
	if len(copied.Habits()) != 1 || len(copied.Categories()) != 5 {
		t.Errorf("copied %d habits and %d categories, want 1 and 5",
			len(copied.Habits()), len(copied.Categories()))
	}
}
