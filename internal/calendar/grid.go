// Package calendar lays out a month as day cells annotated with the
// categories of that day's events. Months are 1-indexed (time.Month).
package calendar

import (
	"strings"
	"time"

	"github.com/sandeepkv93/evcal/internal/model"
)

type Input struct {
	Year      int
	Month     time.Month
	Events    []model.Event
	Selected  string
	Today     time.Time
	WeekStart time.Weekday
}

// Marker is one dot on a day cell. Key is the lowercase category used for
// dedup; Kind is the style bucket.
type Marker struct {
	Key   string
	Label string
	Kind  string
}

type Cell struct {
	Day        int
	Date       string
	IsToday    bool
	IsSelected bool
	Markers    []Marker
}

// Blank reports a padding cell outside the month.
func (c Cell) Blank() bool {
	return c.Day == 0
}

type Grid struct {
	Year      int
	Month     time.Month
	WeekStart time.Weekday
	Leading   int
	Days      []Cell
}

// Build is a pure function of its input.
func Build(in Input) Grid {
	first := time.Date(in.Year, in.Month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := DaysIn(in.Year, in.Month)
	todayISO := ""
	if !in.Today.IsZero() {
		todayISO = model.ISODate(in.Today)
	}

	byDate := make(map[string][]model.Event)
	for _, ev := range in.Events {
		byDate[ev.Date] = append(byDate[ev.Date], ev)
	}

	grid := Grid{
		Year:      first.Year(),
		Month:     first.Month(),
		WeekStart: in.WeekStart,
		Leading:   LeadingBlanks(first.Weekday(), in.WeekStart),
		Days:      make([]Cell, 0, daysInMonth),
	}
	for day := 1; day <= daysInMonth; day++ {
		iso := model.ISODate(time.Date(grid.Year, grid.Month, day, 0, 0, 0, 0, time.UTC))
		grid.Days = append(grid.Days, Cell{
			Day:        day,
			Date:       iso,
			IsToday:    iso == todayISO,
			IsSelected: in.Selected != "" && iso == in.Selected,
			Markers:    markersFor(byDate[iso]),
		})
	}
	return grid
}

// DaysIn uses day zero of the following month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func LeadingBlanks(firstWeekday, weekStart time.Weekday) int {
	return (int(firstWeekday) - int(weekStart) + 7) % 7
}

func markersFor(events []model.Event) []Marker {
	if len(events) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(events))
	out := make([]Marker, 0, len(events))
	for _, ev := range events {
		label := model.NormalizeCategory(ev.Category)
		key := strings.ToLower(label)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Marker{Key: key, Label: label, Kind: model.MarkerKind(label)})
	}
	return out
}

// Weeks splits the grid into rows of seven, padding both ends with blank
// cells.
func (g Grid) Weeks() [][]Cell {
	cells := make([]Cell, 0, g.Leading+len(g.Days)+6)
	for i := 0; i < g.Leading; i++ {
		cells = append(cells, Cell{})
	}
	cells = append(cells, g.Days...)
	for len(cells)%7 != 0 {
		cells = append(cells, Cell{})
	}
	rows := make([][]Cell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		rows = append(rows, cells[i:i+7])
	}
	return rows
}

// Cell returns the cell for a day of the month.
func (g Grid) Cell(day int) (Cell, bool) {
	if day < 1 || day > len(g.Days) {
		return Cell{}, false
	}
	return g.Days[day-1], true
}

// WeekdayHeaders returns two-letter labels starting at the grid's week start.
func (g Grid) WeekdayHeaders() []string {
	out := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		wd := time.Weekday((int(g.WeekStart) + i) % 7)
		out = append(out, wd.String()[:2])
	}
	return out
}

// ParseWeekStart accepts "sunday" or "monday"; anything else is Sunday.
func ParseWeekStart(raw string) time.Weekday {
	if strings.EqualFold(strings.TrimSpace(raw), "monday") {
		return time.Monday
	}
	return time.Sunday
}
