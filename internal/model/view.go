package model

import (
	"strings"
	"time"
)

// ViewState is the non-persisted state the list and grid are derived from.
// An empty SelectedDate means every event is shown.
type ViewState struct {
	SelectedDate string
	Year         int
	Month        time.Month
	SearchTerm   string
}

func NewViewState(now time.Time) ViewState {
	return ViewState{Year: now.Year(), Month: now.Month()}
}

func (v ViewState) ShiftMonth(delta int) ViewState {
	first := time.Date(v.Year, v.Month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	v.Year = first.Year()
	v.Month = first.Month()
	return v
}

// JumpToday shows the month containing now and selects today.
func (v ViewState) JumpToday(now time.Time) ViewState {
	v.Year = now.Year()
	v.Month = now.Month()
	v.SelectedDate = ISODate(now)
	return v
}

func (v ViewState) Select(iso string) ViewState {
	v.SelectedDate = strings.TrimSpace(iso)
	return v
}

func (v ViewState) ShowAll() ViewState {
	v.SelectedDate = ""
	return v
}

func (v ViewState) HasSelection() bool {
	return v.SelectedDate != ""
}
