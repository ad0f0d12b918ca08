package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupKV(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := OpenSQLite(filepath.Join(t.TempDir(), "evcal-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestSQLiteKVSetGetDelete(t *testing.T) {
	kv := setupKV(t)
	ctx := context.Background()

	if _, err := kv.Get(ctx, KeyEvents); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}
	if err := kv.Set(ctx, KeyEvents, `[]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, KeyEvents, `[{"id":1}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := kv.Get(ctx, KeyEvents)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != `[{"id":1}]` {
		t.Fatalf("unexpected value: %q", got)
	}

	if err := kv.Delete(ctx, KeyEvents); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := kv.Get(ctx, KeyEvents); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteKVUpdatedAt(t *testing.T) {
	kv := setupKV(t)
	fixed := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	kv.now = func() time.Time { return fixed }

	if err := kv.Set(testContext(t), KeyLastID, "4"); err != nil {
		t.Fatalf("set: %v", err)
	}
	at, err := kv.UpdatedAt(testContext(t), KeyLastID)
	if err != nil {
		t.Fatalf("updated at: %v", err)
	}
	if !at.Equal(fixed) {
		t.Fatalf("unexpected updated_at: %s", at)
	}
}

func TestSQLiteKVPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "evcal.db")
	kv, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := kv.Set(testContext(t), KeyLastID, "12"); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = kv.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(testContext(t), KeyLastID)
	if err != nil || got != "12" {
		t.Fatalf("expected persisted lastId 12, got %q err=%v", got, err)
	}
}

func TestMigrateRoundTripCompatibility(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate-roundtrip.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	kv, err := NewSQLiteKV(db)
	if err != nil {
		t.Fatalf("new kv: %v", err)
	}
	if err := kv.Set(testContext(t), KeyTheme, ThemeLight); err != nil {
		t.Fatalf("set after roundtrip failed: %v", err)
	}
}

func TestThemeDefaultsAndRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	theme, err := LoadTheme(testContext(t), kv)
	if err != nil || theme != ThemeDark {
		t.Fatalf("expected dark default, got %q err=%v", theme, err)
	}
	if err := SaveTheme(testContext(t), kv, ThemeLight); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	if theme, _ = LoadTheme(testContext(t), kv); theme != ThemeLight {
		t.Fatalf("expected light theme, got %q", theme)
	}
	if err := SaveTheme(testContext(t), kv, "neon"); err != nil {
		t.Fatalf("save theme: %v", err)
	}
	if theme, _ = LoadTheme(testContext(t), kv); theme != ThemeDark {
		t.Fatalf("expected unknown theme to store dark, got %q", theme)
	}
}
