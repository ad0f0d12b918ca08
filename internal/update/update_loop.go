package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/evcal/internal/views"
)

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.reminders != nil {
		cmds = append(cmds, waitForReminderCmd(m.reminders.C()))
	}
	cmds = append(cmds, refreshCmd(m.refresh, m.now()))
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handleKey(typed)
	case SetStatusMsg:
		return m.setStatus(typed.Text, typed.IsError)
	case ClearStatusMsg:
		if typed.Seq == m.Status.seq {
			m.Status = StatusBar{}
		}
		return m, nil
	case AppErrorMsg:
		if typed.Err == nil {
			return m, nil
		}
		return m.fail(typed.Err)
	case ReminderDueMsg:
		return m.onReminderDue(typed.Event)
	case RefreshTickMsg:
		return m.onRefresh(typed.At)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.Form.Active:
		return m.handleFormKey(msg)
	case m.ConfirmClear:
		if msg.String() == "y" || msg.String() == "Y" {
			return m.clearAll()
		}
		m.ConfirmClear = false
		return m, nil
	case m.Palette.Active:
		return m.handlePaletteKey(msg)
	case m.Search.Active:
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, m.Keys.Search):
		m.Search = InputState{Active: true, Input: m.ViewState.SearchTerm}
		m.searchInput.SetValue(m.Search.Input)
		m.searchInput.CursorEnd()
		m.searchInput.Focus()
		return m, nil
	case key.Matches(msg, m.Keys.Palette):
		return m.openPalette(), nil
	case key.Matches(msg, m.Keys.Add):
		return m.openAddForm(), nil
	case key.Matches(msg, m.Keys.ToggleTheme):
		return m.setTheme("")
	case key.Matches(msg, m.Keys.Clear):
		m.ConfirmClear = true
		return m, nil
	case key.Matches(msg, m.Keys.PrevMonth):
		m.shiftMonth(-1)
		return m, nil
	case key.Matches(msg, m.Keys.NextMonth):
		m.shiftMonth(1)
		return m, nil
	case key.Matches(msg, m.Keys.Today):
		m.jumpToday()
		return m, nil
	case key.Matches(msg, m.Keys.ShowAll):
		m.ViewState = m.ViewState.ShowAll()
		m.syncBubbleData()
		return m, nil
	case key.Matches(msg, m.Keys.SwitchPane):
		if m.Focus == PaneCalendar {
			m.Focus = PaneEvents
		} else {
			m.Focus = PaneCalendar
		}
		m.syncBubbleData()
		return m, nil
	}

	if m.Focus == PaneCalendar {
		return m.handleCalendarKey(msg), nil
	}
	return m.handleEventsKey(msg)
}

func (m Model) handleEventsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Edit), key.Matches(msg, m.Keys.Select):
		if ev, ok := m.selectedEvent(); ok {
			return m.openEditForm(ev.ID), nil
		}
		return m, nil
	case key.Matches(msg, m.Keys.Delete):
		if ev, ok := m.selectedEvent(); ok {
			return m.deleteEvent(ev.ID)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.eventTable, cmd = m.eventTable.Update(msg)
	m.syncBubbleData()
	return m, cmd
}

// handleSearchKey filters as the user types. Enter keeps the term, esc
// clears it.
func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.Search.Active = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.Search = InputState{}
		m.ViewState.SearchTerm = ""
		m.searchInput.Blur()
		m.syncBubbleData()
		return m, nil
	}
	var cmd tea.Cmd
	if msg.Type == tea.KeyRunes {
		m.searchInput.SetValue(m.searchInput.Value() + string(msg.Runes))
		m.searchInput.CursorEnd()
	} else {
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	m.Search.Input = m.searchInput.Value()
	m.ViewState.SearchTerm = m.Search.Input
	m.syncBubbleData()
	return m, cmd
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		status = "status: " + m.Status.Text
	}
	selected := "all"
	if m.ViewState.HasSelection() {
		selected = m.ViewState.SelectedDate
	}

	hm := m.helpModel
	hm.ShowAll = false
	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("evcal | %s %d | pane: %s | showing: %s | events: %d", m.ViewState.Month, m.ViewState.Year, m.Focus, selected, m.store.Len()),
		Calendar:      m.renderCalendarView(),
		Events:        m.renderEventsView(),
		Upcoming:      m.renderUpcomingView(),
		Side:          m.renderSideView(),
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  m.renderNotificationView(),
		Footer:        hm.View(m.Keys),
	}, m.theme())
}
