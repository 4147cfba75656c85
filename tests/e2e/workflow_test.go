package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	binDir := os.Getenv("HABITGRID_BIN_DIR")
	if binDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			t.Fatalf("Failed to get cwd: %v", err)
		}
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)

	cliPath := filepath.Join(binDir, "habitgrid")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with 'go build -o bin/habitgrid ./cmd/habitgrid'.", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	t.Logf("Running test in temp dir: %s", tempDir)

	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "HABITGRID_") {
			env = append(env, e)
		}
	}
	env = append(env,
		fmt.Sprintf("HOME=%s", tempDir),
		"HABITGRID_TIMEZONE=UTC",
	)

	// The run is pinned to one date so the day cannot roll over mid-test.
	today := time.Now().UTC()
	date := today.Format("2006-01-02")
	weekday := strings.ToLower(today.Weekday().String()[:3])

	// 2. Initialize storage
	out := runCmd(t, cliPath, env, "init")
	assertContains(t, out, "Initialized habitgrid storage")
	dataFile := filepath.Join(tempDir, ".config", "habitgrid", "habitgrid.json")
	if _, err := os.Stat(dataFile); err != nil {
		t.Fatalf("data file not created: %v", err)
	}

	// 3. Categories and habits
	runCmd(t, cliPath, env, "category", "add", "Fitness", "--color", "#8b5cf6")
	runCmd(t, cliPath, env, "habit", "add", "Morning run", "--category", "fitness")
	runCmd(t, cliPath, env, "habit", "add", "Swim", "--frequency", "weekly", "--days", weekday)

	out = runCmd(t, cliPath, env, "today", "--date", date)
	assertContains(t, out, "[ ] Morning run")
	assertContains(t, out, "[ ] Swim")
	assertContains(t, out, "Done: 0/2 (0%)")

	// 4. Completions
	runCmd(t, cliPath, env, "habit", "toggle", "morning run", "--date", date)
	out = runCmd(t, cliPath, env, "today", "--date", date)
	assertContains(t, out, "[x] Morning run")
	assertContains(t, out, "Done: 1/2 (50%)")

	runCmd(t, cliPath, env, "habit", "toggle", "swim", "--date", date)
	out = runCmd(t, cliPath, env, "today", "--date", date)
	assertContains(t, out, "Perfect day!")

	// 5. Deleting a category moves its habits
	out = runCmd(t, cliPath, env, "category", "delete", "Fitness")
	assertContains(t, out, "Moved 1 habit(s) to Health")
	out = runCmd(t, cliPath, env, "habit", "list")
	assertContains(t, out, "Morning run - daily [Health]")

	// 6. Backups and diagnostics
	runCmd(t, cliPath, env, "backup", "create")
	out = runCmd(t, cliPath, env, "backup", "list")
	assertContains(t, out, "habitgrid-")

	out = runCmd(t, cliPath, env, "doctor")
	assertContains(t, out, "All diagnostics passed!")

	// 7. No lockfile is left behind
	if _, err := os.Stat(dataFile + ".lock"); !os.IsNotExist(err) {
		t.Errorf("lockfile left behind after commands: %v", err)
	}
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func assertContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("output missing %q:\n%s", want, out)
	}
}
