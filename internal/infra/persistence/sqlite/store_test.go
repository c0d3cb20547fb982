package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStoreLoadMissingBucket(t *testing.T) {
	st, err := NewStore(filepath.Join(t.TempDir(), "weektrack.db"), "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = st.Close() }()
	_, found, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found {
		t.Fatalf("expected no snapshot in fresh database")
	}
}

func TestStoreSaveReplacesAndSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "weektrack.db")
	st, err := NewStore(path, "projects")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Save(ctx, `{"version":1,"projects":[]}`); err != nil {
		t.Fatalf("save first: %v", err)
	}
	want := `{"version":1,"projects":[{"id":"p1","name":"Thesis","weeks":[]}]}`
	if err := st.Save(ctx, want); err != nil {
		t.Fatalf("save second: %v", err)
	}
	var rows int
	if err := st.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM state`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected a single state row, got %d", rows)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, "projects")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	got, found, err := reopened.Load(ctx)
	if err != nil || !found {
		t.Fatalf("load after reopen: found=%v err=%v", found, err)
	}
	if got != want {
		t.Fatalf("payload mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestStoreBucketsAreIsolated(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "weektrack.db")
	a, err := NewStore(path, "a")
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	defer func() { _ = a.Close() }()
	if err := a.Save(ctx, "[]"); err != nil {
		t.Fatalf("save a: %v", err)
	}
	b, err := NewStore(path, "b")
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer func() { _ = b.Close() }()
	if _, found, err := b.Load(ctx); err != nil || found {
		t.Fatalf("expected bucket b empty: found=%v err=%v", found, err)
	}
}

func TestStoreClearRemovesOnlyItsBucket(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "weektrack.db")
	a, err := NewStore(path, "a")
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	defer func() { _ = a.Close() }()
	b, err := NewStore(path, "b")
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer func() { _ = b.Close() }()
	for _, st := range []*Store{a, b} {
		if err := st.Save(ctx, "[]"); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if removed, err := a.Clear(ctx); err != nil || !removed {
		t.Fatalf("clear a: removed=%v err=%v", removed, err)
	}
	if removed, err := a.Clear(ctx); err != nil || removed {
		t.Fatalf("second clear should report nothing removed: removed=%v err=%v", removed, err)
	}
	if _, found, err := a.Load(ctx); err != nil || found {
		t.Fatalf("expected bucket a empty: found=%v err=%v", found, err)
	}
	if _, found, err := b.Load(ctx); err != nil || !found {
		t.Fatalf("bucket b should survive: found=%v err=%v", found, err)
	}
}
