package ics

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/evcal/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	events := []model.Event{
		{ID: 1, Title: "Standup", Date: "2024-03-01", Time: "09:00", Category: "Work"},
		{ID: 2, Title: "Gym", Date: "2024-03-02", Time: "18:30", Category: "Personal"},
		{ID: 3, Title: "Broken", Date: "soon", Time: "09:00", Category: "Work"},
	}
	var buf bytes.Buffer
	n, err := Export(&buf, events, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 exported events, got %d", n)
	}
	if !strings.Contains(buf.String(), "BEGIN:VCALENDAR") || !strings.Contains(buf.String(), UID(2)) {
		t.Fatalf("unexpected calendar:\n%s", buf.String())
	}

	got, err := Import(&buf, time.Local)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 imported events, got %d", len(got))
	}
	byID := map[int64]model.Event{}
	for _, ev := range got {
		byID[ev.ID] = ev
	}
	for _, want := range events[:2] {
		if byID[want.ID] != want {
			t.Fatalf("round trip mismatch: got %+v want %+v", byID[want.ID], want)
		}
	}
}

func TestImportForeignCalendar(t *testing.T) {
	data := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//other//EN",
		"BEGIN:VEVENT",
		"UID:abc-123@example.com",
		"DTSTAMP:20240101T000000Z",
		"DTSTART:20240315T140000Z",
		"SUMMARY:Review",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	got, err := Import(strings.NewReader(data), time.UTC)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one event, got %d", len(got))
	}
	want := model.Event{ID: 0, Title: "Review", Date: "2024-03-15", Time: "14:00", Category: "General"}
	if got[0] != want {
		t.Fatalf("unexpected event %+v", got[0])
	}
}

func TestImportEmptyCalendarIsImportError(t *testing.T) {
	data := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//x//EN\r\nEND:VCALENDAR\r\n"
	_, err := Import(strings.NewReader(data), time.UTC)
	var importErr *model.ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("expected ImportError, got %v", err)
	}
}

func TestIsICSPath(t *testing.T) {
	if !IsICSPath("backup/Events.ICS") || IsICSPath("events.json") || IsICSPath("dir.ics/file") {
		t.Fatal("unexpected extension detection")
	}
}
