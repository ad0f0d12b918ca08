package calendar

import (
	"testing"
	"time"

	"github.com/sandeepkv93/evcal/internal/model"
)

func TestBuildFebruary2024LeapYear(t *testing.T) {
	grid := Build(Input{Year: 2024, Month: time.February, WeekStart: time.Sunday})
	if len(grid.Days) != 29 {
		t.Fatalf("expected 29 day cells, got %d", len(grid.Days))
	}
	if grid.Leading != 4 {
		t.Fatalf("expected 4 leading blanks (Thursday start), got %d", grid.Leading)
	}
	weeks := grid.Weeks()
	if len(weeks) != 5 {
		t.Fatalf("expected 5 week rows, got %d", len(weeks))
	}
	if !weeks[0][3].Blank() || weeks[0][4].Day != 1 {
		t.Fatalf("unexpected first row: %+v", weeks[0])
	}
}

func TestBuildMonthLengthsAndMondayStart(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		days  int
	}{
		{2023, time.February, 28},
		{2100, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tc := range cases {
		if got := DaysIn(tc.year, tc.month); got != tc.days {
			t.Fatalf("DaysIn(%d, %s) = %d, want %d", tc.year, tc.month, got, tc.days)
		}
	}

	grid := Build(Input{Year: 2024, Month: time.February, WeekStart: time.Monday})
	if grid.Leading != 3 {
		t.Fatalf("expected 3 leading blanks for monday start, got %d", grid.Leading)
	}
	if h := grid.WeekdayHeaders(); h[0] != "Mo" || h[6] != "Su" {
		t.Fatalf("unexpected monday headers: %v", h)
	}
}

func TestBuildFlagsAndDedupedMarkers(t *testing.T) {
	events := []model.Event{
		{ID: 1, Date: "2024-03-05", Time: "09:00", Category: "Work"},
		{ID: 2, Date: "2024-03-05", Time: "10:00", Category: "work"},
		{ID: 3, Date: "2024-03-05", Time: "11:00", Category: "Urgent"},
		{ID: 4, Date: "2024-03-05", Time: "12:00", Category: "Errands"},
		{ID: 5, Date: "2024-03-05", Time: "13:00", Category: ""},
		{ID: 6, Date: "2024-04-05", Time: "13:00", Category: "Personal"},
	}
	grid := Build(Input{
		Year:     2024,
		Month:    time.March,
		Events:   events,
		Selected: "2024-03-05",
		Today:    time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC),
	})

	cell, ok := grid.Cell(5)
	if !ok || !cell.IsSelected || cell.IsToday {
		t.Fatalf("unexpected flags on day 5: %+v", cell)
	}
	if len(cell.Markers) != 4 {
		t.Fatalf("expected 4 deduplicated markers, got %+v", cell.Markers)
	}
	kinds := map[string]string{}
	for _, m := range cell.Markers {
		kinds[m.Key] = m.Kind
	}
	if kinds["work"] != "work" || kinds["urgent"] != "urgent" || kinds["errands"] != "general" || kinds["general"] != "general" {
		t.Fatalf("unexpected marker kinds: %v", kinds)
	}

	today, _ := grid.Cell(14)
	if !today.IsToday || today.IsSelected || len(today.Markers) != 0 {
		t.Fatalf("unexpected today cell: %+v", today)
	}
	for _, c := range grid.Days {
		if c.Date == "2024-04-05" {
			t.Fatal("april event leaked into march grid")
		}
	}
}

func TestBuildIsPure(t *testing.T) {
	in := Input{Year: 2024, Month: time.March, Events: []model.Event{{Date: "2024-03-01", Category: "Work"}}}
	a := Build(in)
	b := Build(in)
	if len(a.Days) != len(b.Days) || len(a.Days[0].Markers) != len(b.Days[0].Markers) {
		t.Fatal("expected identical output for identical input")
	}
}

func TestParseWeekStart(t *testing.T) {
	if ParseWeekStart("Monday") != time.Monday || ParseWeekStart("") != time.Sunday || ParseWeekStart("friday") != time.Sunday {
		t.Fatal("unexpected week start parsing")
	}
}
