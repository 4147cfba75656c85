package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

const debounce = 50 * time.Millisecond

func startWatcher(t *testing.T, ctx context.Context, file string) *Watcher {
	t.Helper()
	w, err := New(file, debounce)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return w
}

func expectChange(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change signal")
	}
}

func expectQuiet(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Changes():
		t.Fatal("unexpected change signal")
	case <-time.After(4 * debounce):
	}
}

func TestWatcherSignalsWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	file := filepath.Join(t.TempDir(), "habitgrid.json")
	if err := os.WriteFile(file, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	w := startWatcher(t, context.Background(), file)
	defer w.Stop()

	if err := os.WriteFile(file, []byte(`{"version":1}`), 0600); err != nil {
		t.Fatal(err)
	}
	expectChange(t, w)
}

func TestWatcherSeesAtomicReplace(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	file := filepath.Join(dir, "habitgrid.json")
	w := startWatcher(t, context.Background(), file)
	defer w.Stop()

	tmp := filepath.Join(dir, "habitgrid.json.tmp-1")
	if err := os.WriteFile(tmp, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, file); err != nil {
		t.Fatal(err)
	}
	expectChange(t, w)
}

func TestWatcherDebouncesBursts(t *testing.T) {
	defer goleak.VerifyNone(t)

	file := filepath.Join(t.TempDir(), "habitgrid.json")
	w := startWatcher(t, context.Background(), file)
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(file, []byte{byte('0' + i)}, 0600); err != nil {
			t.Fatal(err)
		}
	}
	expectChange(t, w)
	expectQuiet(t, w)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w := startWatcher(t, context.Background(), filepath.Join(dir, "habitgrid.json"))
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "habitgrid.json.lock"), []byte("1|x"), 0600); err != nil {
		t.Fatal(err)
	}
	expectQuiet(t, w)
}

func TestWatcherStopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w := startWatcher(t, ctx, filepath.Join(t.TempDir(), "habitgrid.json"))
	cancel()

	select {
	case <-w.doneCh:
	case <-time.After(5 * time.Second):
		t.Fatal("event loop did not exit after cancel")
	}
	w.Stop()
}

func TestStopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(filepath.Join(t.TempDir(), "habitgrid.json"), debounce)
	if err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}
