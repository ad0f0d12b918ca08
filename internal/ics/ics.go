// Package ics converts events to and from iCalendar.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/sandeepkv93/evcal/internal/log"
	"github.com/sandeepkv93/evcal/internal/model"
)

const (
	ProductID     = "-//evcal//evcal//EN"
	FileExtension = ".ics"
	uidSuffix     = "@evcal"
	uidPrefix     = "evcal-"
)

// DefaultDuration is the DTEND offset written for events, which only
// carry a start.
const DefaultDuration = 30 * time.Minute

var ErrEmptyCalendar = errors.New("ics: empty calendar")

// IsICSPath reports whether path names an iCalendar file.
func IsICSPath(path string) bool {
	return strings.EqualFold(pathExt(path), FileExtension)
}

func pathExt(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || strings.ContainsAny(path[i:], `/\`) {
		return ""
	}
	return path[i:]
}

func UID(id int64) string {
	return uidPrefix + strconv.FormatInt(id, 10) + uidSuffix
}

// idFromUID recovers the id written by UID; foreign UIDs yield 0.
func idFromUID(uid string) int64 {
	if !strings.HasPrefix(uid, uidPrefix) || !strings.HasSuffix(uid, uidSuffix) {
		return 0
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(uid, uidPrefix), uidSuffix)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// Export writes one VEVENT per event with a parseable instant and returns
// how many were written.
func Export(w io.Writer, events []model.Event, stamp time.Time) (int, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	written := 0
	for _, ev := range events {
		start, err := ev.Instant()
		if err != nil {
			log.Debug("ics export skipped event", "id", ev.ID, "err", err)
			continue
		}
		vev := cal.AddEvent(UID(ev.ID))
		vev.SetDtStampTime(stamp.UTC())
		vev.SetStartAt(start.UTC())
		vev.SetEndAt(start.Add(DefaultDuration).UTC())
		vev.SetSummary(ev.Title)
		vev.SetProperty(ical.ComponentPropertyCategories, model.NormalizeCategory(ev.Category))
		written++
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return 0, fmt.Errorf("ics: write calendar: %w", err)
	}
	return written, nil
}

// Import turns VEVENTs into event records in loc. Ids come from evcal
// UIDs when present and are otherwise left for the store to allocate.
// The first CATEGORIES value becomes the category.
func Import(r io.Reader, loc *time.Location) ([]model.Event, error) {
	if loc == nil {
		loc = time.Local
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, &model.ImportError{Err: fmt.Errorf("ics: parse: %w", err)}
	}
	vevents := cal.Events()
	if len(vevents) == 0 {
		return nil, &model.ImportError{Err: ErrEmptyCalendar}
	}

	out := make([]model.Event, 0, len(vevents))
	for _, vev := range vevents {
		uid := ""
		if p := vev.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
			uid = p.Value
		}
		start, err := vev.GetStartAt()
		if err != nil {
			log.Error("ics vevent skipped", err, "uid", uid)
			continue
		}
		start = start.In(loc)
		ev := model.Event{
			ID:       idFromUID(uid),
			Date:     model.ISODate(start),
			Time:     start.Format(model.TimeLayout),
			Category: string(model.CategoryGeneral),
		}
		if p := vev.GetProperty(ical.ComponentPropertySummary); p != nil {
			ev.Title = strings.TrimSpace(p.Value)
		}
		if p := vev.GetProperty(ical.ComponentPropertyCategories); p != nil {
			first, _, _ := strings.Cut(p.Value, ",")
			ev.Category = model.NormalizeCategory(first)
		}
		out = append(out, ev)
	}
	log.Info("ics import parsed", "events", len(out))
	return out, nil
}
