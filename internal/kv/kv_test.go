package kv

import (
	"context"
	"path/filepath"
	"testing"
)

// backends under test; redis is exercised only against a live instance and
// is covered indirectly by sharing the Store contract.
func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func TestSetGetRemove(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok=%v err=%v, want absent", ok, err)
			}

			if err := s.Set(ctx, "k", "v1"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			v, ok, err := s.Get(ctx, "k")
			if err != nil || !ok || v != "v1" {
				t.Fatalf("Get(k) = %q ok=%v err=%v", v, ok, err)
			}

			// Overwrite replaces the whole value
			if err := s.Set(ctx, "k", "v2"); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			v, _, _ = s.Get(ctx, "k")
			if v != "v2" {
				t.Errorf("after overwrite got %q, want v2", v)
			}

			if err := s.Remove(ctx, "k"); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if _, ok, _ := s.Get(ctx, "k"); ok {
				t.Error("key still present after Remove")
			}

			// Removing an absent key is not an error
			if err := s.Remove(ctx, "k"); err != nil {
				t.Errorf("Remove(absent): %v", err)
			}
		})
	}
}

func TestKeysAndRemoveMany(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"a", "b", "c"} {
				if err := s.Set(ctx, k, "x"); err != nil {
					t.Fatalf("Set(%s): %v", k, err)
				}
			}

			keys, err := s.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			if len(keys) != 3 {
				t.Fatalf("expected 3 keys, got %d: %v", len(keys), keys)
			}

			if err := s.RemoveMany(ctx, []string{"a", "c", "never-existed"}); err != nil {
				t.Fatalf("RemoveMany: %v", err)
			}
			keys, _ = s.Keys(ctx)
			if len(keys) != 1 || keys[0] != "b" {
				t.Errorf("after RemoveMany keys = %v, want [b]", keys)
			}

			if err := s.RemoveMany(ctx, nil); err != nil {
				t.Errorf("RemoveMany(nil): %v", err)
			}
		})
	}
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, "k", "survives"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	s.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	v, ok, err := s2.Get(ctx, "k")
	if err != nil || !ok || v != "survives" {
		t.Errorf("Get after reopen = %q ok=%v err=%v", v, ok, err)
	}
}

func TestSQLiteCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "deep", "test.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("opening db in nested dir: %v", err)
	}
	s.Close()
}
