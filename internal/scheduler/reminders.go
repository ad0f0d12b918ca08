package scheduler

import (
	"strconv"
	"sync"
	"time"

	"github.com/sandeepkv93/evcal/internal/model"
)

const DefaultLookahead = 60 * time.Minute

// InWindow reports whether instant falls in (now, now+lookahead] and, if
// so, how long until it arrives.
func InWindow(instant, now time.Time, lookahead time.Duration) (time.Duration, bool) {
	diff := instant.Sub(now)
	if diff <= 0 || diff > lookahead {
		return 0, false
	}
	return diff, true
}

// ReminderKey identifies one reminder: an event id at one instant. Editing
// an event's time yields a new key.
func ReminderKey(id int64, instant time.Time) string {
	return strconv.FormatInt(id, 10) + "@" + instant.Format(time.RFC3339)
}

// Reminders arms one-shot reminders on an Engine and tracks their state.
// Armed reminders are never cancelled.
type Reminders struct {
	engine    *Engine
	lookahead time.Duration
	loc       *time.Location

	mu     sync.Mutex
	states map[string]model.ReminderState
}

func NewReminders(engine *Engine, lookahead time.Duration) *Reminders {
	if lookahead <= 0 {
		lookahead = DefaultLookahead
	}
	return &Reminders{
		engine:    engine,
		lookahead: lookahead,
		loc:       time.Local,
		states:    make(map[string]model.ReminderState),
	}
}

func (r *Reminders) Lookahead() time.Duration {
	return r.lookahead
}

func (r *Reminders) C() <-chan ReminderEvent {
	return r.engine.C()
}

// ScheduleOne arms a reminder for ev when its instant is inside the window.
// Events with an unparseable instant, outside the window, or already armed
// or fired are left alone.
func (r *Reminders) ScheduleOne(ev model.Event, nowFn func() time.Time) (model.ReminderState, error) {
	instant, err := ev.InstantIn(r.loc)
	if err != nil {
		return model.ReminderUnarmed, nil
	}
	key := ReminderKey(ev.ID, instant)

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.stateLocked(key)
	if current != model.ReminderUnarmed {
		return current, nil
	}
	diff, ok := InWindow(instant, nowFn(), r.lookahead)
	if !ok {
		return model.ReminderUnarmed, nil
	}
	next, err := current.Transition(model.ReminderArmed)
	if err != nil {
		return current, err
	}
	re := ReminderEvent{
		Key:      key,
		EventID:  ev.ID,
		Title:    ev.Title,
		Time:     ev.Time,
		Category: ev.Category,
		Instant:  instant,
	}
	if err := r.engine.ScheduleAfter(re, diff); err != nil {
		return current, err
	}
	r.states[key] = next
	return next, nil
}

// RearmAll schedules every event and returns how many were newly armed.
func (r *Reminders) RearmAll(events []model.Event, nowFn func() time.Time) (int, error) {
	armed := 0
	for _, ev := range events {
		before := r.stateFor(ev)
		state, err := r.ScheduleOne(ev, nowFn)
		if err != nil {
			return armed, err
		}
		if before == model.ReminderUnarmed && state == model.ReminderArmed {
			armed++
		}
	}
	return armed, nil
}

// MarkFired moves an armed reminder to Fired. It reports false for a
// reminder that was not armed, so duplicates are delivered once.
func (r *Reminders) MarkFired(ev ReminderEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := r.stateLocked(ev.Key).Transition(model.ReminderFired)
	if err != nil {
		return false
	}
	r.states[ev.Key] = next
	return true
}

func (r *Reminders) State(key string) model.ReminderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked(key)
}

func (r *Reminders) stateFor(ev model.Event) model.ReminderState {
	instant, err := ev.InstantIn(r.loc)
	if err != nil {
		return model.ReminderUnarmed
	}
	return r.State(ReminderKey(ev.ID, instant))
}

func (r *Reminders) stateLocked(key string) model.ReminderState {
	if s, ok := r.states[key]; ok {
		return s
	}
	return model.ReminderUnarmed
}
