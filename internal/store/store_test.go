package store_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amit/captainhub/internal/store"
)

func exerciseStore(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := st.Load(ctx, "missing"); err != nil || ok {
		t.Fatalf("Load(missing) ok=%v err=%v", ok, err)
	}

	blob := []byte(`{"teamName":"Spartan Warriors","version":"1.0"}`)
	if err := st.Save(ctx, "team", blob); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, ok, err := st.Load(ctx, "team")
	if err != nil || !ok {
		t.Fatalf("Load() err=%v ok=%v", err, ok)
	}
	if len(got) == 0 {
		t.Fatal("expected stored blob, got empty")
	}

	updated := []byte(`{"teamName":"Spartan Warriors","strategyNotes":"go left","version":"1.0"}`)
	if err := st.Save(ctx, "team", updated); err != nil {
		t.Fatalf("Save(overwrite) error = %v", err)
	}
	got, _, _ = st.Load(ctx, "team")
	if !strings.Contains(string(got), "go left") {
		t.Fatalf("expected overwritten blob, got %s", got)
	}

	if err := st.Delete(ctx, "team"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := st.Load(ctx, "team"); ok {
		t.Fatal("expected blob to be gone after Delete")
	}
	if err := st.Delete(ctx, "team"); err != nil {
		t.Fatalf("Delete(absent) error = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, store.NewMemory())
}

func TestJSONStore(t *testing.T) {
	t.Parallel()
	exerciseStore(t, mustJSONStore(t, filepath.Join(t.TempDir(), "data", "captainhub.json")))
}

func TestJSONStoreReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "captainhub.json")

	st := mustJSONStore(t, path)
	if err := st.Save(ctx, "team", []byte(`{"teamName":"Argonauts"}`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reopened := mustJSONStore(t, path)
	got, ok, err := reopened.Load(ctx, "team")
	if err != nil || !ok {
		t.Fatalf("Load() after reopen err=%v ok=%v", err, ok)
	}
	if !strings.Contains(string(got), "Argonauts") {
		t.Fatalf("unexpected blob after reopen: %s", got)
	}
}

func TestJSONStoreRejectsInvalidBlob(t *testing.T) {
	t.Parallel()
	st := mustJSONStore(t, filepath.Join(t.TempDir(), "captainhub.json"))
	if err := st.Save(context.Background(), "team", []byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON blob")
	}
}

func TestSQLiteStore(t *testing.T) {
	t.Parallel()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "captainhub.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	exerciseStore(t, st)
}

func TestNewByEngine(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	cases := []struct {
		engine string
		path   string
	}{
		{store.EngineMemory, ""},
		{store.EngineJSON, filepath.Join(dir, "a.json")},
		{store.EngineSQLite, filepath.Join(dir, "a.db")},
		{"", filepath.Join(dir, "b.db")},
	}
	for _, tc := range cases {
		st, err := store.NewByEngine(context.Background(), store.Options{Engine: tc.engine, Path: tc.path})
		if err != nil {
			t.Fatalf("NewByEngine(%q) error = %v", tc.engine, err)
		}
		if closer, ok := st.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	if _, err := store.NewByEngine(context.Background(), store.Options{Engine: "etcd"}); err == nil {
		t.Fatal("expected error for unsupported engine")
	}
}

func mustJSONStore(t *testing.T, path string) *store.JSONStore {
	t.Helper()
	st, err := store.NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore() error = %v", err)
	}
	return st
}
