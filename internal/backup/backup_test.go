package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitgrid/internal/storage"
	"github.com/julianstephens/habitgrid/internal/storage/sqlite"
)

const habitsKey = "habit-tracker-habits"

func setupJSONStore(t *testing.T) (string, *storage.JSONStore) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitgrid.json")
	s := storage.NewJSONStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := s.Set(habitsKey, []byte(`[{"id":"h1","title":"Read"}]`)); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return path, s
}

func setupSQLiteStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitgrid.db")
	s := sqlite.NewStore(path)
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if err := s.Set(habitsKey, []byte(`[{"id":"h1"}]`)); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

// stepClock returns a clock that advances one minute per call.
func stepClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Minute)
		return t
	}
}

func readHabits(t *testing.T, path string) string {
	t.Helper()
	s := storage.NewJSONStore(path)
	if err := s.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	data, err := s.Get(habitsKey)
	if err != nil {
		t.Fatalf("failed to read habits: %v", err)
	}
	return string(data)
}

func TestCreateBackupJSON(t *testing.T) {
	path, _ := setupJSONStore(t)
	mgr := NewManager(path, 0)
	mgr.now = func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.Local) }

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Base(backupPath) != "habitgrid-20240115-103000.json" {
		t.Errorf("unexpected backup name %s", filepath.Base(backupPath))
	}
	if filepath.Dir(backupPath) != mgr.GetBackupDir() {
		t.Errorf("backup written outside %s", mgr.GetBackupDir())
	}
	if got := readHabits(t, backupPath); got != `[{"id":"h1","title":"Read"}]` {
		t.Errorf("backup content = %s", got)
	}
}

func TestCreateBackupSQLite(t *testing.T) {
	path := setupSQLiteStore(t)
	mgr := NewManager(path, 0)

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}
	if !strings.HasSuffix(backupPath, ".db") {
		t.Errorf("expected .db backup, got %s", backupPath)
	}

	restored := sqlite.NewStore(backupPath)
	if err := restored.Load(); err != nil {
		t.Fatalf("backup is not a usable database: %v", err)
	}
	defer restored.Close()
	data, err := restored.Get(habitsKey)
	if err != nil || string(data) != `[{"id":"h1"}]` {
		t.Errorf("backup Get = %s, %v", data, err)
	}
}

func TestCreateBackupMissingSource(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "absent.json"), 0)
	if _, err := mgr.CreateBackup(); err == nil {
		t.Error("expected error when the data file does not exist")
	}
}

func TestCreateBackupRejectsCorruptJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitgrid.json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager(path, 0).CreateBackup(); err == nil {
		t.Error("expected error backing up a corrupt store")
	}
}

func TestBackupRotation(t *testing.T) {
	path, _ := setupJSONStore(t)
	mgr := NewManager(path, 3)
	mgr.now = stepClock(time.Date(2024, 1, 15, 8, 0, 0, 0, time.Local))

	var created []string
	for i := 0; i < 5; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup %d failed: %v", i, err)
		}
		created = append(created, p)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups after rotation, got %d", len(backups))
	}
	for i, b := range backups {
		if want := created[4-i]; b.Path != want {
			t.Errorf("backup %d = %s, want %s", i, b.Path, want)
		}
	}
}

func TestUniqueBackupFilenames(t *testing.T) {
	path, _ := setupJSONStore(t)
	mgr := NewManager(path, 10)
	fixed := time.Date(2024, 1, 15, 8, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup failed: %v", err)
		}
		if seen[p] {
			t.Fatalf("duplicate backup path %s", p)
		}
		seen[p] = true
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 4 {
		t.Fatalf("expected 4 backups, got %d", len(backups))
	}
	if !strings.HasSuffix(backups[0].Path, "-3.json") {
		t.Errorf("newest backup should carry the highest counter, got %s", backups[0].Path)
	}
}

func TestListBackupsIgnoresForeignFiles(t *testing.T) {
	path, _ := setupJSONStore(t)
	mgr := NewManager(path, 0)
	if err := os.MkdirAll(mgr.GetBackupDir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", "habitgrid-garbage.json", "habitgrid-20240115-103000.db"} {
		if err := os.WriteFile(filepath.Join(mgr.GetBackupDir(), name), []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %v", backups)
	}
}

func TestListBackupsNoDirectory(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "habitgrid.json"), 0)
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected empty list, got %d", len(backups))
	}
}

func TestRestoreBackup(t *testing.T) {
	path, s := setupJSONStore(t)
	mgr := NewManager(path, 0)
	mgr.now = stepClock(time.Date(2024, 1, 15, 8, 0, 0, 0, time.Local))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if err := s.Set(habitsKey, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}

	preRestore, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup failed: %v", err)
	}
	if got := readHabits(t, path); got != `[{"id":"h1","title":"Read"}]` {
		t.Errorf("restored content = %s", got)
	}
	if preRestore == "" {
		t.Fatal("expected a pre-restore backup")
	}
	if got := readHabits(t, preRestore); got != `[]` {
		t.Errorf("pre-restore backup content = %s", got)
	}
}

func TestRestoreBackupErrors(t *testing.T) {
	path, _ := setupJSONStore(t)
	mgr := NewManager(path, 0)

	if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing backup")
	}

	corrupt := filepath.Join(t.TempDir(), "habitgrid-20240115-103000.json")
	if err := os.WriteFile(corrupt, []byte(`{"entries":{}}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(corrupt); err == nil {
		t.Error("expected error for backup without a version")
	}
	if got := readHabits(t, path); got != `[{"id":"h1","title":"Read"}]` {
		t.Errorf("failed restore modified the data file: %s", got)
	}
}

func TestRestoreSQLiteRejectsNonDatabase(t *testing.T) {
	path := setupSQLiteStore(t)
	mgr := NewManager(path, 0)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite, just text padding the header out"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.RestoreBackup(bogus); err == nil {
		t.Error("expected error restoring a non-database file")
	}
}

func TestIsSQLitePath(t *testing.T) {
	tests := map[string]bool{
		"habits.db":     true,
		"habits.SQLITE": true,
		"habits.json":   false,
		"habits":        false,
	}
	for path, want := range tests {
		if got := IsSQLitePath(path); got != want {
			t.Errorf("IsSQLitePath(%q) = %v, want %v", path, got, want)
		}
	}
}
