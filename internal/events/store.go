package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/sandeepkv93/evcal/internal/model"
	"github.com/sandeepkv93/evcal/internal/storage"
)

// ExportFileName is the default name for Export output.
const ExportFileName = "events.json"

var ErrDuplicateID = errors.New("events: id already exists")

// Store owns the ordered event list and mirrors it to storage.KeyEvents
// after every mutation. In-memory state changes only once the write
// succeeds. A Store is not safe for concurrent use.
type Store struct {
	kv     storage.KV
	ids    *Allocator
	events []model.Event
}

func New(kv storage.KV, ids *Allocator) *Store {
	return &Store{kv: kv, ids: ids, events: []model.Event{}}
}

// Open builds the allocator and loads the persisted snapshot.
func Open(ctx context.Context, kv storage.KV) (*Store, error) {
	ids, err := NewAllocator(ctx, kv)
	if err != nil {
		return nil, err
	}
	s := New(kv, ids)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, storage.KeyEvents)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.events = []model.Event{}
			return nil
		}
		return fmt.Errorf("read %s: %w", storage.KeyEvents, err)
	}
	loaded := make([]model.Event, 0)
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		return fmt.Errorf("decode %s: %w", storage.KeyEvents, err)
	}
	if loaded == nil {
		loaded = []model.Event{}
	}
	s.events = loaded
	return nil
}

func (s *Store) Allocator() *Allocator {
	return s.ids
}

// All returns a copy of every event in insertion order.
func (s *Store) All() []model.Event {
	return slices.Clone(s.events)
}

func (s *Store) Len() int {
	return len(s.events)
}

func (s *Store) Get(id int64) (model.Event, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.events[i], true
	}
	return model.Event{}, false
}

// Add validates ev, assigns an id when ev.ID is zero and appends it.
func (s *Store) Add(ctx context.Context, ev model.Event) (model.Event, error) {
	if err := ev.Validate(); err != nil {
		return model.Event{}, err
	}
	if ev.ID != 0 && s.indexOf(ev.ID) >= 0 {
		return model.Event{}, fmt.Errorf("%w: %d", ErrDuplicateID, ev.ID)
	}
	ev = ev.WithFields(ev.Fields())
	if ev.ID == 0 {
		id, err := s.ids.Next(ctx)
		if err != nil {
			return model.Event{}, err
		}
		ev.ID = id
	}
	next := append(slices.Clone(s.events), ev)
	if err := s.commit(ctx, next); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

// Update replaces every field but the id of the first event with that id.
func (s *Store) Update(ctx context.Context, id int64, fields model.EventFields) (model.Event, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Event{}, &model.NotFoundError{ID: id}
	}
	if err := fields.Validate(); err != nil {
		return model.Event{}, err
	}
	next := slices.Clone(s.events)
	next[idx] = next[idx].WithFields(fields)
	if err := s.commit(ctx, next); err != nil {
		return model.Event{}, err
	}
	return next[idx], nil
}

// Remove drops every event with that id. A missing id is not an error and
// rewrites the same snapshot.
func (s *Store) Remove(ctx context.Context, id int64) error {
	next := slices.DeleteFunc(slices.Clone(s.events), func(ev model.Event) bool {
		return ev.ID == id
	})
	return s.commit(ctx, next)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.commit(ctx, []model.Event{})
}

// ImportBatch reads a JSON array of event objects. Only the shape is
// checked; missing ids and categories are filled in and nothing else is
// validated. Any decode failure returns *model.ImportError and leaves the
// store untouched.
func (s *Store) ImportBatch(ctx context.Context, r io.Reader) ([]model.Event, error) {
	records, err := decodeImport(r)
	if err != nil {
		return nil, err
	}
	return s.ImportRecords(ctx, records)
}

// ImportRecords appends already-decoded records with the same backfill
// rules as ImportBatch and persists once.
func (s *Store) ImportRecords(ctx context.Context, records []model.Event) ([]model.Event, error) {
	imported := make([]model.Event, 0, len(records))
	for _, rec := range records {
		if rec.ID == 0 {
			id, err := s.ids.Next(ctx)
			if err != nil {
				return nil, err
			}
			rec.ID = id
		}
		if rec.Category == "" {
			rec.Category = string(model.CategoryGeneral)
		}
		imported = append(imported, rec)
	}
	next := append(slices.Clone(s.events), imported...)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return imported, nil
}

func decodeImport(r io.Reader) ([]model.Event, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, &model.ImportError{Err: err}
	}
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &model.ImportError{Err: errors.New("top-level value is not an array")}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &model.ImportError{Err: err}
	}
	out := make([]model.Event, 0, len(items))
	for i, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return nil, &model.ImportError{Err: fmt.Errorf("record %d: not an object", i)}
		}
		out = append(out, model.Event{
			ID:       looseID(fields["id"]),
			Title:    looseText(fields["title"]),
			Date:     looseText(fields["date"]),
			Time:     looseText(fields["time"]),
			Category: looseText(fields["category"]),
		})
	}
	return out, nil
}

// looseID keeps a positive whole number and returns 0 for anything else,
// leaving the id to the allocator.
func looseID(raw json.RawMessage) int64 {
	var f float64
	if len(raw) == 0 || json.Unmarshal(raw, &f) != nil {
		return 0
	}
	if f < 1 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

// looseText keeps strings as they are and writes numbers and booleans as
// text. Null, objects and arrays read as empty.
func looseText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return n.String()
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

// Export writes the full event list as a JSON array indented by two spaces.
func (s *Store) Export(w io.Writer) error {
	data, err := json.MarshalIndent(s.events, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func (s *Store) commit(ctx context.Context, next []model.Event) error {
	if next == nil {
		next = []model.Event{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode %s: %w", storage.KeyEvents, err)
	}
	if err := s.kv.Set(ctx, storage.KeyEvents, string(data)); err != nil {
		return fmt.Errorf("persist %s: %w", storage.KeyEvents, err)
	}
	s.events = next
	return nil
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.events, func(ev model.Event) bool { return ev.ID == id })
}
