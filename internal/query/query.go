// Package query derives read-only views over an event list. Nothing here
// mutates its input.
package query

import (
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/evcal/internal/model"
)

type Badge string

const (
	BadgeToday    Badge = "Today"
	BadgePast     Badge = "Past"
	BadgeUpcoming Badge = "Upcoming"
)

func ByDate(events []model.Event, iso string) []model.Event {
	out := make([]model.Event, 0)
	for _, ev := range events {
		if ev.Date == iso {
			out = append(out, ev)
		}
	}
	return out
}

// Search keeps events whose title contains term, ignoring case. A blank
// term returns the input unchanged.
func Search(events []model.Event, term string) []model.Event {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return events
	}
	out := make([]model.Event, 0)
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Title), needle) {
			out = append(out, ev)
		}
	}
	return out
}

// SortedByWhen returns a stably sorted copy. Events with an unparseable
// date/time sort as the zero instant.
func SortedByWhen(events []model.Event, ascending bool, loc *time.Location) []model.Event {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b model.Event) int {
		c := instantOrZero(a, loc).Compare(instantOrZero(b, loc))
		if !ascending {
			return -c
		}
		return c
	})
	return out
}

// Upcoming returns at most n events strictly after now, soonest first.
func Upcoming(events []model.Event, now time.Time, n int) []model.Event {
	if n <= 0 {
		return []model.Event{}
	}
	future := make([]model.Event, 0)
	for _, ev := range events {
		when, err := ev.InstantIn(now.Location())
		if err != nil {
			continue
		}
		if when.After(now) {
			future = append(future, ev)
		}
	}
	future = SortedByWhen(future, true, now.Location())
	if len(future) > n {
		future = future[:n]
	}
	return future
}

// Visible is the main list: selected-date filter, then search, then
// ascending by instant.
func Visible(events []model.Event, view model.ViewState, loc *time.Location) []model.Event {
	list := events
	if view.HasSelection() {
		list = ByDate(list, view.SelectedDate)
	}
	list = Search(list, view.SearchTerm)
	return SortedByWhen(list, true, loc)
}

// Badges evaluates Today, Past and Upcoming independently, so an event
// earlier today carries both Today and Past.
func Badges(ev model.Event, now time.Time) []Badge {
	when, err := ev.InstantIn(now.Location())
	if err != nil {
		return nil
	}
	out := make([]Badge, 0, 2)
	if model.ISODate(when) == model.ISODate(now) {
		out = append(out, BadgeToday)
	}
	if when.Before(now) {
		out = append(out, BadgePast)
	}
	if when.After(now) {
		out = append(out, BadgeUpcoming)
	}
	return out
}

func instantOrZero(ev model.Event, loc *time.Location) time.Time {
	when, err := ev.InstantIn(loc)
	if err != nil {
		return time.Time{}
	}
	return when
}
