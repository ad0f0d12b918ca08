package update

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/evcal/internal/log"
	"github.com/sandeepkv93/evcal/internal/model"
	"github.com/sandeepkv93/evcal/internal/notify"
	"github.com/sandeepkv93/evcal/internal/storage"
)

const (
	msgAdded    = "Event added"
	msgUpdated  = "Event updated"
	msgDeleted  = "Event deleted"
	msgImported = "Imported"
	msgImportKO = "Import failed"
	msgExported = "Exported"
	msgCleared  = "All cleared"

	confirmClearPrompt = "Delete all events?"
)

func (m Model) addEvent(fields model.EventFields) (Model, tea.Cmd, error) {
	ev, err := m.store.Add(m.ctx, model.Event{}.WithFields(fields))
	if err != nil {
		return m, nil, err
	}
	log.Info("event added", "id", ev.ID, "date", ev.Date, "time", ev.Time)
	m.armReminder(ev)
	m.syncBubbleData()
	next, cmd := m.setStatus(msgAdded, false)
	return next, cmd, nil
}

func (m Model) updateEvent(id int64, fields model.EventFields) (Model, tea.Cmd, error) {
	ev, err := m.store.Update(m.ctx, id, fields)
	if err != nil {
		return m, nil, err
	}
	log.Info("event updated", "id", ev.ID, "date", ev.Date, "time", ev.Time)
	m.armReminder(ev)
	m.syncBubbleData()
	next, cmd := m.setStatus(msgUpdated, false)
	return next, cmd, nil
}

func (m Model) deleteEvent(id int64) (Model, tea.Cmd) {
	if err := m.store.Remove(m.ctx, id); err != nil {
		return m.fail(err)
	}
	log.Info("event deleted", "id", id)
	m.syncBubbleData()
	return m.setStatus(msgDeleted, false)
}

func (m Model) importFile(path string) (Model, tea.Cmd) {
	imported, err := m.store.ImportFile(m.ctx, path)
	if err != nil {
		log.Error("import failed", err, "path", path)
		var ie *model.ImportError
		if errors.As(err, &ie) {
			return m.setStatus(msgImportKO, true)
		}
		return m.fail(err)
	}
	log.Info("events imported", "path", path, "count", len(imported))
	if m.reminders != nil {
		if _, err := m.reminders.RearmAll(imported, m.now); err != nil {
			log.Error("rearm after import failed", err)
		}
	}
	m.syncBubbleData()
	return m.setStatus(msgImported, false)
}

func (m Model) exportFile(path string) (Model, tea.Cmd) {
	n, err := m.store.ExportFile(path)
	if err != nil {
		return m.fail(err)
	}
	log.Info("events exported", "path", path, "count", n)
	return m.setStatus(msgExported, false)
}

func (m Model) clearAll() (Model, tea.Cmd) {
	m.ConfirmClear = false
	if err := m.store.Clear(m.ctx); err != nil {
		return m.fail(err)
	}
	log.Info("events cleared")
	m.syncBubbleData()
	return m.setStatus(msgCleared, false)
}

// setTheme persists theme; an empty theme toggles.
func (m Model) setTheme(theme string) (Model, tea.Cmd) {
	if theme == "" {
		theme = storage.ThemeLight
		if m.Theme == storage.ThemeLight {
			theme = storage.ThemeDark
		}
	}
	if err := storage.SaveTheme(m.ctx, m.kv, theme); err != nil {
		return m.fail(err)
	}
	m.Theme = theme
	m.detailKey = ""
	m.syncBubbleData()
	return m.setStatus(fmt.Sprintf("Theme: %s", theme), false)
}

func (m *Model) armReminder(ev model.Event) {
	if m.reminders == nil {
		return
	}
	state, err := m.reminders.ScheduleOne(ev, m.now)
	if err != nil {
		log.Error("reminder scheduling failed", err, "id", ev.ID)
		return
	}
	log.Debug("reminder evaluated", "id", ev.ID, "state", state)
}

// setStatus shows a transient message and records it as a notification.
func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.statusSeq++
	m.Status = StatusBar{Text: text, IsError: isErr, seq: m.statusSeq}
	m.pushNotification("Status", text, notify.LevelFromError(isErr))
	seq := m.statusSeq
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg { return ClearStatusMsg{Seq: seq} })
}

func (m Model) fail(err error) (Model, tea.Cmd) {
	m.LastError = err
	log.Error("action failed", err)
	return m.setStatus(err.Error(), true)
}

func (m *Model) pushNotification(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, notify.Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now(),
	})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}
