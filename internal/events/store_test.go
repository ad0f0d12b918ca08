package events

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandeepkv93/evcal/internal/model"
	"github.com/sandeepkv93/evcal/internal/query"
	"github.com/sandeepkv93/evcal/internal/storage"
)

func newMemoryStore(t *testing.T) (*Store, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	s, err := Open(testContext(t), kv)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s, kv
}

func snapshot(t *testing.T, kv storage.KV) string {
	t.Helper()
	raw, err := kv.Get(context.Background(), storage.KeyEvents)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("read snapshot: %v", err)
	}
	return raw
}

func TestAddThenByDateReturnsRecord(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := testContext(t)
	if _, err := s.Add(ctx, model.Event{Title: "Other day", Date: "2024-03-02", Time: "10:00"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	added, err := s.Add(ctx, model.Event{Title: "Standup", Date: "2024-03-01", Time: "09:00", Category: "Work"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got := query.ByDate(s.All(), "2024-03-01")
	if len(got) != 1 || got[0] != added {
		t.Fatalf("expected exactly the added record, got %+v", got)
	}
}

func TestAddValidationLeavesStoreUnchanged(t *testing.T) {
	s, kv := newMemoryStore(t)
	ctx := testContext(t)
	if _, err := s.Add(ctx, model.Event{Title: "Keep", Date: "2024-03-01", Time: "09:00"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	before := snapshot(t, kv)
	beforeLen := s.Len()
	lastID := s.Allocator().Last()

	bad := []model.Event{
		{Title: "", Date: "2024-03-01", Time: "09:00"},
		{Title: "x", Date: "", Time: "09:00"},
		{Title: "x", Date: "2024-03-01", Time: ""},
		{Title: "x", Date: "2024-13-01", Time: "09:00"},
	}
	for _, ev := range bad {
		_, err := s.Add(ctx, ev)
		var ve *model.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("add %+v: expected ValidationError, got %v", ev, err)
		}
	}
	if s.Len() != beforeLen || snapshot(t, kv) != before {
		t.Fatalf("store changed after failed adds")
	}
	if s.Allocator().Last() != lastID {
		t.Fatalf("failed adds consumed ids: %d -> %d", lastID, s.Allocator().Last())
	}
}

func TestAddAssignsStrictlyIncreasingIDs(t *testing.T) {
	s, kv := newMemoryStore(t)
	var prev int64
	for i := 0; i < 5; i++ {
		ev, err := s.Add(testContext(t), model.Event{Title: "e", Date: "2024-03-01", Time: "09:00"})
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		if ev.ID <= prev {
			t.Fatalf("id %d not greater than previous %d", ev.ID, prev)
		}
		prev = ev.ID
	}
	raw, err := kv.Get(testContext(t), storage.KeyLastID)
	if err != nil || raw != "5" {
		t.Fatalf("expected persisted lastId 5, got %q err=%v", raw, err)
	}
}

func TestAllocatorSurvivesReopen(t *testing.T) {
	kv := storage.NewMemoryKV()
	first, err := Open(testContext(t), kv)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	a, _ := first.Add(testContext(t), model.Event{Title: "a", Date: "2024-03-01", Time: "09:00"})

	second, err := Open(testContext(t), kv)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	b, _ := second.Add(testContext(t), model.Event{Title: "b", Date: "2024-03-01", Time: "09:00"})
	if b.ID <= a.ID {
		t.Fatalf("expected id after reopen to exceed %d, got %d", a.ID, b.ID)
	}
	if second.Len() != 2 {
		t.Fatalf("expected reloaded snapshot plus new event, got %d", second.Len())
	}
}

func TestAddRejectsDuplicateExplicitID(t *testing.T) {
	s, _ := newMemoryStore(t)
	if _, err := s.Add(testContext(t), model.Event{ID: 9, Title: "a", Date: "2024-03-01", Time: "09:00"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, err := s.Add(testContext(t), model.Event{ID: 9, Title: "b", Date: "2024-03-01", Time: "09:00"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestUpdateReplacesFields(t *testing.T) {
	s, _ := newMemoryStore(t)
	ev, _ := s.Add(testContext(t), model.Event{Title: "Draft", Date: "2024-03-01", Time: "09:00", Category: "Work"})

	updated, err := s.Update(testContext(t), ev.ID, model.EventFields{Title: "Final", Date: "2024-03-02", Time: "11:15"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != ev.ID || updated.Title != "Final" || updated.Date != "2024-03-02" || updated.Category != "General" {
		t.Fatalf("unexpected updated record: %+v", updated)
	}
	if got, _ := s.Get(ev.ID); got != updated {
		t.Fatalf("store not updated: %+v", got)
	}

	_, err = s.Update(testContext(t), 999, model.EventFields{Title: "x", Date: "2024-03-02", Time: "11:15"})
	var nf *model.NotFoundError
	if !errors.As(err, &nf) || nf.ID != 999 {
		t.Fatalf("expected NotFoundError, got %v", err)
	}

	_, err = s.Update(testContext(t), ev.ID, model.EventFields{Title: "", Date: "2024-03-02", Time: "11:15"})
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got, _ := s.Get(ev.ID); got != updated {
		t.Fatalf("failed update changed record: %+v", got)
	}
}

func TestRemoveAndMissingIDIsNoop(t *testing.T) {
	s, kv := newMemoryStore(t)
	a, _ := s.Add(testContext(t), model.Event{Title: "a", Date: "2024-03-01", Time: "09:00"})
	b, _ := s.Add(testContext(t), model.Event{Title: "b", Date: "2024-03-01", Time: "10:00"})

	if err := s.Remove(testContext(t), a.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	for _, ev := range query.ByDate(s.All(), "2024-03-01") {
		if ev.ID == a.ID {
			t.Fatalf("removed id %d still present", a.ID)
		}
	}

	before := snapshot(t, kv)
	if err := s.Remove(testContext(t), 12345); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if after := snapshot(t, kv); after != before {
		t.Fatalf("snapshot changed after removing missing id:\n%s\n%s", before, after)
	}
	if s.Len() != 1 || s.All()[0].ID != b.ID {
		t.Fatalf("unexpected remaining events: %+v", s.All())
	}
}

func TestClearPersistsEmptyArray(t *testing.T) {
	s, kv := newMemoryStore(t)
	_, _ = s.Add(testContext(t), model.Event{Title: "a", Date: "2024-03-01", Time: "09:00"})
	if err := s.Clear(testContext(t)); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.Len() != 0 || snapshot(t, kv) != "[]" {
		t.Fatalf("expected empty store, got len=%d snapshot=%q", s.Len(), snapshot(t, kv))
	}
}

func TestImportBatchBackfillsIDsAndCategory(t *testing.T) {
	s, _ := newMemoryStore(t)
	payload := `[
		{"title": "no id", "date": "2024-03-01", "time": "09:00"},
		{"id": 40, "title": "kept id", "date": "2024-03-02", "time": "10:00", "category": "Urgent"},
		{"title": "", "date": "garbage", "time": ""},
		{"title": 5, "date": "2024-03-03", "time": "09:00"},
		{"id": "7", "title": "quoted id", "date": "2024-03-04", "time": 930, "category": null},
		{"id": 1.5, "title": true, "date": ["x"], "time": "10:00"}
	]`
	imported, err := s.ImportBatch(testContext(t), strings.NewReader(payload))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(imported) != 6 || s.Len() != 6 {
		t.Fatalf("expected 6 imported records, got %d (store %d)", len(imported), s.Len())
	}
	if imported[0].ID != 1 || imported[0].Category != "General" {
		t.Fatalf("expected allocated id and default category: %+v", imported[0])
	}
	if imported[1].ID != 40 || imported[1].Category != "Urgent" {
		t.Fatalf("expected preserved id and category: %+v", imported[1])
	}
	if imported[2].ID != 2 || imported[2].Date != "garbage" {
		t.Fatalf("expected permissive import of malformed record: %+v", imported[2])
	}
	if imported[3].ID != 3 || imported[3].Title != "5" {
		t.Fatalf("expected numeric title kept as text: %+v", imported[3])
	}
	if imported[4].ID != 4 || imported[4].Time != "930" || imported[4].Category != "General" {
		t.Fatalf("expected quoted id reallocated and loose fields: %+v", imported[4])
	}
	if imported[5].ID != 5 || imported[5].Title != "true" || imported[5].Date != "" {
		t.Fatalf("expected fractional id reallocated: %+v", imported[5])
	}
}

func TestImportBatchRejectsBadShape(t *testing.T) {
	payloads := []string{
		`{"title": "object"}`,
		`null`,
		`"text"`,
		`[1, 2]`,
		`[{"title": "ok"}, "nope"]`,
		`[{"title": "ok"}, null]`,
		`[[{"title": "nested"}]]`,
		`[{"title": "unterminated"`,
	}
	for _, payload := range payloads {
		s, kv := newMemoryStore(t)
		_, _ = s.Add(testContext(t), model.Event{Title: "keep", Date: "2024-03-01", Time: "09:00"})
		before := snapshot(t, kv)

		_, err := s.ImportBatch(testContext(t), strings.NewReader(payload))
		var ie *model.ImportError
		if !errors.As(err, &ie) {
			t.Fatalf("import %q: expected ImportError, got %v", payload, err)
		}
		if s.Len() != 1 || snapshot(t, kv) != before {
			t.Fatalf("import %q: store changed after failure", payload)
		}
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newMemoryStore(t)
	_, _ = src.Add(testContext(t), model.Event{Title: "Standup", Date: "2024-03-01", Time: "09:00", Category: "Work"})
	_, _ = src.Add(testContext(t), model.Event{Title: "Gym", Date: "2024-03-02", Time: "18:30", Category: "personal"})

	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  {\n    \"id\": 1,") {
		t.Fatalf("expected two-space indented export, got:\n%s", buf.String())
	}

	dst, _ := newMemoryStore(t)
	if _, err := dst.ImportBatch(testContext(t), &buf); err != nil {
		t.Fatalf("import: %v", err)
	}
	want, got := src.All(), dst.All()
	if len(want) != len(got) {
		t.Fatalf("length mismatch: %d vs %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("record %d mismatch: %+v vs %+v", i, want[i], got[i])
		}
	}
}

func TestStoreWithSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	kv, err := storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := Open(testContext(t), kv)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := s.Add(testContext(t), model.Event{Title: "Persisted", Date: "2024-03-01", Time: "09:00"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	_ = kv.Close()

	kv, err = storage.OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer kv.Close()
	reloaded, err := Open(testContext(t), kv)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	if reloaded.Len() != 1 || reloaded.All()[0].Title != "Persisted" {
		t.Fatalf("unexpected reloaded events: %+v", reloaded.All())
	}
}

func TestExportFileImportFileJSONAndICS(t *testing.T) {
	ctx := testContext(t)
	src, err := Open(ctx, storage.NewMemoryKV())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := src.Add(ctx, model.Event{Title: "Standup", Date: "2024-03-01", Time: "09:00", Category: "Work"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	dir := t.TempDir()
	for _, name := range []string{"out/events.json", "out/events.ics"} {
		path := filepath.Join(dir, name)
		n, err := src.ExportFile(path)
		if err != nil {
			t.Fatalf("export %s: %v", name, err)
		}
		if n != 1 {
			t.Fatalf("export %s: expected 1 event, got %d", name, n)
		}

		dst, err := Open(ctx, storage.NewMemoryKV())
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		imported, err := dst.ImportFile(ctx, path)
		if err != nil {
			t.Fatalf("import %s: %v", name, err)
		}
		if len(imported) != 1 || imported[0] != src.All()[0] {
			t.Fatalf("import %s: unexpected records %+v", name, imported)
		}
	}
}

func TestImportFileMissingIsImportError(t *testing.T) {
	s, err := Open(testContext(t), storage.NewMemoryKV())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = s.ImportFile(testContext(t), filepath.Join(t.TempDir(), "nope.json"))
	var importErr *model.ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("expected ImportError, got %v", err)
	}
}

func TestLoadNullSnapshotExportsEmptyArray(t *testing.T) {
	kv := storage.NewMemoryKV()
	if err := kv.Set(testContext(t), storage.KeyEvents, "null"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s, err := Open(testContext(t), kv)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Fatalf("expected empty array export, got %q", got)
	}
}
