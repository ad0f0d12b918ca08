package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robfig/cron/v3"

	"github.com/sandeepkv93/evcal/internal/model"
	"github.com/sandeepkv93/evcal/internal/notify"
	"github.com/sandeepkv93/evcal/internal/scheduler"
)

const reminderTitle = scheduler.NotificationTitle

func waitForReminderCmd(ch <-chan scheduler.ReminderEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

// refreshCmd waits for the next activation of schedule so relative times
// and the today marker stay current.
func refreshCmd(schedule cron.Schedule, now time.Time) tea.Cmd {
	if schedule == nil {
		return nil
	}
	next := schedule.Next(now)
	if next.IsZero() {
		return nil
	}
	return tea.Tick(next.Sub(now), func(at time.Time) tea.Msg { return RefreshTickMsg{At: at} })
}

func (m Model) onReminderDue(ev scheduler.ReminderEvent) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.dispatcher != nil {
		if msg, ok := m.dispatcher.Deliver(ev); ok {
			m.pushNotification(reminderTitle, msg, notify.LevelInfo)
			m.statusSeq++
			m.Status = StatusBar{Text: msg, seq: m.statusSeq}
		}
	}
	if m.reminders != nil {
		cmds = append(cmds, waitForReminderCmd(m.reminders.C()))
	}
	return m, tea.Batch(cmds...)
}

// onRefresh redraws. When the day rolls over, a cursor resting on the old
// today follows to the new one.
func (m Model) onRefresh(at time.Time) (Model, tea.Cmd) {
	now := m.now()
	today := model.ISODate(now)
	if today != m.today && m.cursorDate() == m.today {
		m.ViewState.Year = now.Year()
		m.ViewState.Month = now.Month()
		m.CursorDay = now.Day()
	}
	m.today = today
	m.syncBubbleData()
	return m, refreshCmd(m.refresh, at)
}
