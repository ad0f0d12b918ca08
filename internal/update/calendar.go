package update

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/evcal/internal/calendar"
	"github.com/sandeepkv93/evcal/internal/model"
	"github.com/sandeepkv93/evcal/internal/views"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.Keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.Keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.Keys.Up):
		m.moveCursor(-7)
	case key.Matches(msg, m.Keys.Down):
		m.moveCursor(7)
	case key.Matches(msg, m.Keys.Select):
		m.ViewState = m.ViewState.Select(m.cursorDate())
		m.syncBubbleData()
	}
	return m
}

// moveCursor steps the day cursor, crossing into adjacent months.
func (m *Model) moveCursor(days int) {
	current := time.Date(m.ViewState.Year, m.ViewState.Month, m.CursorDay, 0, 0, 0, 0, time.UTC)
	next := current.AddDate(0, 0, days)
	m.ViewState.Year = next.Year()
	m.ViewState.Month = next.Month()
	m.CursorDay = next.Day()
}

func (m *Model) shiftMonth(delta int) {
	m.ViewState = m.ViewState.ShiftMonth(delta)
	m.clampCursor()
	m.syncBubbleData()
}

func (m *Model) jumpToday() {
	now := m.now()
	m.ViewState = m.ViewState.JumpToday(now)
	m.CursorDay = now.Day()
	m.syncBubbleData()
}

// gotoMonth shows year/month and, when date is set, selects it.
func (m *Model) gotoMonth(year int, month time.Month, date string) {
	m.ViewState.Year = year
	m.ViewState.Month = month
	if date != "" {
		m.ViewState = m.ViewState.Select(date)
		if d, err := time.Parse(model.DateLayout, date); err == nil {
			m.CursorDay = d.Day()
		}
	}
	m.clampCursor()
	m.syncBubbleData()
}

func (m *Model) clampCursor() {
	days := calendar.DaysIn(m.ViewState.Year, m.ViewState.Month)
	if m.CursorDay > days {
		m.CursorDay = days
	}
	if m.CursorDay < 1 {
		m.CursorDay = 1
	}
}

func (m Model) cursorDate() string {
	return model.ISODate(time.Date(m.ViewState.Year, m.ViewState.Month, m.CursorDay, 0, 0, 0, 0, time.UTC))
}

func (m Model) renderCalendarView() string {
	return views.RenderCalendar(views.CalendarData{
		Grid:    m.Grid(),
		Cursor:  m.CursorDay,
		Focused: m.Focus == PaneCalendar,
	}, m.theme())
}
