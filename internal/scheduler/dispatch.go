package scheduler

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/evcal/internal/log"
	"github.com/sandeepkv93/evcal/internal/notify"
)

const NotificationTitle = "Reminder"

func Message(ev ReminderEvent) string {
	return fmt.Sprintf("🔔 Upcoming: \"%s\" at %s", ev.Title, ev.Time)
}

// Dispatcher turns fired reminders into a notification plus a tone.
type Dispatcher struct {
	reminders *Reminders
	notifier  notify.Notifier
	tone      notify.Tone
}

func NewDispatcher(reminders *Reminders, notifier notify.Notifier, tone notify.Tone) *Dispatcher {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	if tone == nil {
		tone = notify.SilentTone{}
	}
	return &Dispatcher{reminders: reminders, notifier: notifier, tone: tone}
}

// Deliver notifies once per reminder. It returns the message and whether
// anything was delivered.
func (d *Dispatcher) Deliver(ev ReminderEvent) (string, bool) {
	if !d.reminders.MarkFired(ev) {
		return "", false
	}
	msg := Message(ev)
	n := notify.Notification{
		Title: NotificationTitle,
		Body:  msg,
		Level: notify.LevelInfo,
		At:    ev.TriggerAt,
	}
	if err := d.notifier.Send(n); err != nil {
		log.Error("reminder notification failed", err, "key", ev.Key)
	}
	if err := d.tone.Beep(); err != nil {
		log.Debug("reminder tone failed", "err", err)
	}
	log.Info("reminder fired", "id", ev.EventID, "title", ev.Title, "at", ev.Time)
	return msg, true
}

// Run delivers reminders until ctx is done or the engine stops.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-d.reminders.C():
			if !ok {
				return nil
			}
			d.Deliver(ev)
		}
	}
}
