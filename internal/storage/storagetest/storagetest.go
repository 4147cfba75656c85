// Package storagetest holds behavior checks shared by every storage.Provider.
package storagetest

import (
	"errors"
	"testing"

	"github.com/julianstephens/habitgrid/internal/storage"
)

// Run exercises the Provider contract against an initialized provider
// returned by open. open is called once per subtest.
func Run(t *testing.T, open func(t *testing.T) storage.Provider) {
	t.Run("missing key", func(t *testing.T) {
		p := open(t)
		if _, err := p.Get("absent"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get(absent) error = %v, want ErrNotFound", err)
		}
		if err := p.Delete("absent"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Delete(absent) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		p := open(t)
		want := `[{"id":"1","name":"Health","color":"#22c55e"}]`
		if err := p.Set("categories", []byte(want)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := p.Get("categories")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != want {
			t.Errorf("Get() = %s, want %s", got, want)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		p := open(t)
		if err := p.Set("habits", []byte(`[]`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := p.Set("habits", []byte(`[{"id":"x"}]`)); err != nil {
			t.Fatalf("second Set failed: %v", err)
		}
		got, err := p.Get("habits")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != `[{"id":"x"}]` {
			t.Errorf("Get() = %s after overwrite", got)
		}
	})

	t.Run("keys and delete", func(t *testing.T) {
		p := open(t)
		for _, k := range []string{"b", "a"} {
			if err := p.Set(k, []byte(`{}`)); err != nil {
				t.Fatalf("Set(%s) failed: %v", k, err)
			}
		}
		keys, err := p.Keys()
		if err != nil {
			t.Fatalf("Keys failed: %v", err)
		}
		if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
			t.Errorf("Keys() = %v, want [a b]", keys)
		}

		if err := p.Delete("a"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := p.Get("a"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get after Delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("returned bytes are a copy", func(t *testing.T) {
		p := open(t)
		if err := p.Set("k", []byte(`[1]`)); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, _ := p.Get("k")
		got[1] = '9'
		again, _ := p.Get("k")
		if string(again) != `[1]` {
			t.Errorf("stored value was mutated through Get result: %s", again)
		}
	})
}
