package accounts

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestSQLiteSource(t *testing.T) *SQLiteSource {
	t.Helper()
	src, err := NewSQLiteSource(filepath.Join(t.TempDir(), "accounts.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite source: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestSQLiteSource_LoadOrdered(t *testing.T) {
	src := newTestSQLiteSource(t)

	// Insert out of position order; Load must come back sorted.
	inserts := []struct {
		position int
		name     string
		key      string
		desc     string
	}{
		{3, "gamma", "sk-c", ""},
		{1, "alpha", "sk-a", "primary"},
		{2, "beta", "sk-b", "secondary"},
	}
	for _, in := range inserts {
		_, err := src.db.Exec(
			`INSERT INTO accounts (position, name, api_key, description) VALUES (?, ?, ?, ?)`,
			in.position, in.name, in.key, in.desc,
		)
		if err != nil {
			t.Fatalf("insert %s: %v", in.name, err)
		}
	}

	list, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []string{"alpha", "beta", "gamma"}
	if len(list) != len(want) {
		t.Fatalf("expected %d accounts, got %d", len(want), len(list))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, list[i].Name)
		}
	}
	if list[0].APIKey != "sk-a" || list[0].Description != "primary" {
		t.Errorf("unexpected first account: %+v", list[0])
	}
}

func TestSQLiteSource_EmptyDatabase(t *testing.T) {
	src := newTestSQLiteSource(t)

	list, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list from fresh database, got %d", len(list))
	}

	// The empty set is rejected at the store level, not the source level.
	store := NewStore(src)
	if err := store.Load(context.Background()); err == nil {
		t.Error("expected store load to reject an empty account set")
	}
}

func TestSQLiteSource_ReloadSeesChanges(t *testing.T) {
	src := newTestSQLiteSource(t)
	if _, err := src.db.Exec(
		`INSERT INTO accounts (position, name, api_key) VALUES (1, 'alpha', 'sk-a')`,
	); err != nil {
		t.Fatalf("insert: %v", err)
	}

	store := NewStore(src)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 account, got %d", store.Len())
	}

	if _, err := src.db.Exec(
		`INSERT INTO accounts (position, name, api_key) VALUES (2, 'beta', 'sk-b')`,
	); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 accounts after reload, got %d", store.Len())
	}
}
