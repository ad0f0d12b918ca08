package events

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandeepkv93/evcal/internal/ics"
	"github.com/sandeepkv93/evcal/internal/model"
)

// ImportFile imports a JSON array or, for .ics paths, an iCalendar file.
// Read and parse failures are *model.ImportError.
func (s *Store) ImportFile(ctx context.Context, path string) ([]model.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &model.ImportError{Err: err}
	}
	defer f.Close()

	if !ics.IsICSPath(path) {
		return s.ImportBatch(ctx, f)
	}
	records, err := ics.Import(f, time.Local)
	if err != nil {
		return nil, err
	}
	return s.ImportRecords(ctx, records)
}

// ExportFile writes the store to path as JSON, or as iCalendar for .ics
// paths, and returns how many events were written.
func (s *Store) ExportFile(path string) (int, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}

	n := len(s.events)
	if ics.IsICSPath(path) {
		n, err = ics.Export(f, s.events, time.Now())
	} else {
		err = s.Export(f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("export %s: %w", path, err)
	}
	return n, nil
}
