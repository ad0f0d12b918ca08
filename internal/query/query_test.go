package query

import (
	"testing"
	"time"

	"github.com/sandeepkv93/evcal/internal/model"
)

func ids(events []model.Event) []int64 {
	out := make([]int64, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID)
	}
	return out
}

func sameIDs(got []model.Event, want ...int64) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestUpcomingReturnsSoonestWithStableTies(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	events := []model.Event{
		{ID: 1, Title: "e1", Date: "2024-03-05", Time: "09:00"},
		{ID: 2, Title: "e2", Date: "2024-03-02", Time: "09:00"},
		{ID: 3, Title: "e3", Date: "2024-03-03", Time: "09:00"},
		{ID: 4, Title: "e4", Date: "2024-03-02", Time: "09:00"},
		{ID: 5, Title: "e5", Date: "2024-03-04", Time: "09:00"},
	}
	got := Upcoming(events, now, 3)
	if !sameIDs(got, 2, 4, 3) {
		t.Fatalf("unexpected upcoming order: %v", ids(got))
	}
}

func TestUpcomingExcludesPastNowAndInvalid(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []model.Event{
		{ID: 1, Date: "2024-03-01", Time: "09:00"},
		{ID: 2, Date: "2024-03-01", Time: "08:59"},
		{ID: 3, Date: "garbage", Time: "09:00"},
		{ID: 4, Date: "2024-03-01", Time: "09:01"},
	}
	if got := Upcoming(events, now, 10); !sameIDs(got, 4) {
		t.Fatalf("unexpected upcoming: %v", ids(got))
	}
	if got := Upcoming(events, now, 0); len(got) != 0 {
		t.Fatalf("expected empty result for n=0, got %v", ids(got))
	}
}

func TestSearchIsCaseInsensitiveAndBlankIsIdentity(t *testing.T) {
	events := []model.Event{
		{ID: 1, Title: "Team Standup"},
		{ID: 2, Title: "Dentist"},
		{ID: 3, Title: "standup notes"},
	}
	if got := Search(events, "  STANDUP "); !sameIDs(got, 1, 3) {
		t.Fatalf("unexpected search result: %v", ids(got))
	}
	if got := Search(events, "   "); !sameIDs(got, 1, 2, 3) {
		t.Fatalf("blank search should be identity: %v", ids(got))
	}
}

func TestSortedByWhenDescendingAndStable(t *testing.T) {
	events := []model.Event{
		{ID: 1, Date: "2024-03-01", Time: "10:00"},
		{ID: 2, Date: "2024-03-01", Time: "09:00"},
		{ID: 3, Date: "2024-03-01", Time: "10:00"},
	}
	if got := SortedByWhen(events, true, time.UTC); !sameIDs(got, 2, 1, 3) {
		t.Fatalf("unexpected ascending order: %v", ids(got))
	}
	if got := SortedByWhen(events, false, time.UTC); !sameIDs(got, 1, 3, 2) {
		t.Fatalf("unexpected descending order: %v", ids(got))
	}
	if events[0].ID != 1 || events[1].ID != 2 {
		t.Fatal("input slice was mutated")
	}
}

func TestVisibleAppliesSelectionSearchAndSort(t *testing.T) {
	events := []model.Event{
		{ID: 1, Title: "Lunch", Date: "2024-03-01", Time: "12:00"},
		{ID: 2, Title: "Breakfast", Date: "2024-03-01", Time: "08:00"},
		{ID: 3, Title: "Lunch again", Date: "2024-03-02", Time: "12:00"},
	}
	all := Visible(events, model.ViewState{}, time.UTC)
	if !sameIDs(all, 2, 1, 3) {
		t.Fatalf("unexpected unfiltered list: %v", ids(all))
	}
	day := Visible(events, model.ViewState{SelectedDate: "2024-03-01"}, time.UTC)
	if !sameIDs(day, 2, 1) {
		t.Fatalf("unexpected day list: %v", ids(day))
	}
	lunch := Visible(events, model.ViewState{SearchTerm: "lunch"}, time.UTC)
	if !sameIDs(lunch, 1, 3) {
		t.Fatalf("unexpected search list: %v", ids(lunch))
	}
}

func TestBadgesAreIndependent(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		ev   model.Event
		want []Badge
	}{
		{model.Event{Date: "2024-03-01", Time: "09:00"}, []Badge{BadgeToday, BadgePast}},
		{model.Event{Date: "2024-03-01", Time: "15:00"}, []Badge{BadgeToday, BadgeUpcoming}},
		{model.Event{Date: "2024-02-28", Time: "15:00"}, []Badge{BadgePast}},
		{model.Event{Date: "2024-03-02", Time: "15:00"}, []Badge{BadgeUpcoming}},
		{model.Event{Date: "2024-03-01", Time: "12:00"}, []Badge{BadgeToday}},
		{model.Event{Date: "bad", Time: "12:00"}, nil},
	}
	for _, tc := range cases {
		got := Badges(tc.ev, now)
		if len(got) != len(tc.want) {
			t.Fatalf("badges for %+v: got %v want %v", tc.ev, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("badges for %+v: got %v want %v", tc.ev, got, tc.want)
			}
		}
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		when time.Time
		want string
	}{
		{now.Add(10 * time.Second), "in 10 seconds"},
		{now, "now"},
		{now.Add(5 * time.Minute), "in 5 minutes"},
		{now.Add(-1 * time.Minute), "1 minute ago"},
		{now.Add(-90 * time.Second), "1 minute ago"},
		{now.Add(90 * time.Second), "in 2 minutes"},
		{now.Add(-2 * time.Hour), "2 hours ago"},
		{now.Add(24 * time.Hour), "tomorrow"},
		{now.Add(-24 * time.Hour), "yesterday"},
		{now.Add(72 * time.Hour), "in 3 days"},
	}
	for _, tc := range cases {
		if got := Relative(tc.when, now); got != tc.want {
			t.Fatalf("Relative(%s) = %q, want %q", tc.when.Sub(now), got, tc.want)
		}
	}
}
