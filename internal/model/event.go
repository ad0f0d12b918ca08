package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	timeLayoutSeconds = "15:04:05"
)

var ErrInvalidInstant = errors.New("model: invalid date/time")

type Category string

const (
	CategoryGeneral  Category = "General"
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryUrgent   Category = "Urgent"
)

func (c Category) IsKnown() bool {
	switch c {
	case CategoryGeneral, CategoryWork, CategoryPersonal, CategoryUrgent:
		return true
	default:
		return false
	}
}

// Categories lists the recognized labels in the order the form cycles them.
func Categories() []Category {
	return []Category{CategoryGeneral, CategoryWork, CategoryPersonal, CategoryUrgent}
}

// NormalizeCategory keeps free text as-is and falls back to General when empty.
func NormalizeCategory(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return string(CategoryGeneral)
	}
	return trimmed
}

// MarkerKind maps a category label to one of the four marker kinds.
func MarkerKind(category string) string {
	switch key := strings.ToLower(strings.TrimSpace(category)); key {
	case "urgent", "work", "personal":
		return key
	default:
		return "general"
	}
}

type Event struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Category string `json:"category"`
}

// EventFields holds everything on an event except its id.
type EventFields struct {
	Title    string
	Date     string
	Time     string
	Category string
}

func (e Event) Fields() EventFields {
	return EventFields{Title: e.Title, Date: e.Date, Time: e.Time, Category: e.Category}
}

// WithFields returns a copy of e carrying f, normalized.
func (e Event) WithFields(f EventFields) Event {
	f = f.Normalize()
	e.Title = f.Title
	e.Date = f.Date
	e.Time = f.Time
	e.Category = f.Category
	return e
}

func (f EventFields) Normalize() EventFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Date = strings.TrimSpace(f.Date)
	f.Time = strings.TrimSpace(f.Time)
	f.Category = NormalizeCategory(f.Category)
	return f
}

func (f EventFields) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Message: MsgTitleRequired}
	}
	if strings.TrimSpace(f.Date) == "" {
		return &ValidationError{Message: MsgDateRequired}
	}
	if strings.TrimSpace(f.Time) == "" {
		return &ValidationError{Message: MsgTimeRequired}
	}
	if _, err := ParseInstant(f.Date, f.Time, time.Local); err != nil {
		return &ValidationError{Message: MsgInvalidInstant}
	}
	return nil
}

func (e Event) Validate() error {
	return e.Fields().Validate()
}

// Instant combines date and time in the local zone.
func (e Event) Instant() (time.Time, error) {
	return e.InstantIn(time.Local)
}

func (e Event) InstantIn(loc *time.Location) (time.Time, error) {
	return ParseInstant(e.Date, e.Time, loc)
}

func ParseInstant(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if out, err := time.ParseInLocation(DateLayout+"T"+TimeLayout, date+"T"+clock, loc); err == nil {
		return out, nil
	}
	out, err := time.ParseInLocation(DateLayout+"T"+timeLayoutSeconds, date+"T"+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidInstant, date, clock)
	}
	return out, nil
}

// ISODate formats t as YYYY-MM-DD in its own location.
func ISODate(t time.Time) string {
	return t.Format(DateLayout)
}
