package update

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/evcal/internal/model"
	"github.com/sandeepkv93/evcal/internal/query"
	"github.com/sandeepkv93/evcal/internal/views"
)

func (m *Model) initBubbleComponents() {
	cols := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Date", Width: 10},
		{Title: "Time", Width: 5},
		{Title: "Category", Width: 9},
		{Title: "Title", Width: 18},
		{Title: "When", Width: 24},
	}
	m.eventTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithHeight(10))

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "search> "
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 40

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.detail = viewport.New(54, 8)
}

// visibleEvents is the main list for the current view state.
func (m Model) visibleEvents() []model.Event {
	return query.Visible(m.store.All(), m.ViewState, m.now().Location())
}

func (m *Model) syncBubbleData() {
	visible := m.visibleEvents()
	rows := make([]table.Row, 0, len(visible))
	for _, ev := range visible {
		rows = append(rows, table.Row{
			strconv.FormatInt(ev.ID, 10),
			ev.Date,
			ev.Time,
			model.NormalizeCategory(ev.Category),
			ev.Title,
			m.whenFor(ev),
		})
	}
	m.eventTable.SetRows(rows)
	if c := m.eventTable.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.eventTable.SetCursor(len(rows) - 1)
	}
	if m.Focus == PaneEvents {
		m.eventTable.Focus()
	} else {
		m.eventTable.Blur()
	}

	m.searchInput.SetValue(m.Search.Input)
	m.commandInput.SetValue(m.Palette.Input)

	if ev, ok := m.selectedEvent(); ok {
		key := fmt.Sprintf("%d|%s|%s|%s|%s|%s", ev.ID, ev.Title, ev.Date, ev.Time, ev.Category, m.Theme)
		if key != m.detailKey {
			m.detailKey = key
			m.detail.SetContent(views.RenderMarkdown(eventMarkdown(ev), m.theme()))
		}
	} else if m.detailKey != "" {
		m.detailKey = ""
		m.detail.SetContent("")
	}
}

// selectedEvent is the event under the list cursor.
func (m Model) selectedEvent() (model.Event, bool) {
	row := m.eventTable.SelectedRow()
	if len(row) == 0 {
		return model.Event{}, false
	}
	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return model.Event{}, false
	}
	return m.store.Get(id)
}

func (m Model) relativeFor(ev model.Event) string {
	when, err := ev.InstantIn(m.now().Location())
	if err != nil {
		return "-"
	}
	return query.Relative(when, m.now())
}

// whenFor is the relative time followed by the row's badges.
func (m Model) whenFor(ev model.Event) string {
	parts := append([]string{m.relativeFor(ev)}, badgeLabels(query.Badges(ev, m.now()))...)
	return strings.Join(parts, " ")
}

func eventMarkdown(ev model.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", ev.Title)
	fmt.Fprintf(&b, "- **When:** %s %s\n", ev.Date, ev.Time)
	fmt.Fprintf(&b, "- **Category:** %s\n", model.NormalizeCategory(ev.Category))
	fmt.Fprintf(&b, "- **Id:** %d\n", ev.ID)
	return b.String()
}

func (m Model) theme() views.Theme {
	return views.ThemeFor(m.Theme)
}

func (m Model) renderEventsView() string {
	heading := "All events"
	if m.ViewState.HasSelection() {
		heading = "Events on " + m.ViewState.SelectedDate
	}
	if term := strings.TrimSpace(m.ViewState.SearchTerm); term != "" {
		heading += fmt.Sprintf(" matching %q", term)
	}

	visible := m.visibleEvents()
	rows := make([]views.EventRow, 0, len(visible))
	for _, ev := range visible {
		rows = append(rows, views.EventRow{ID: ev.ID, Title: ev.Title})
	}

	out := views.RenderEventList(views.EventListData{
		Heading:   heading,
		TableView: m.eventTable.View(),
		Rows:      rows,
	}, m.theme())
	if m.Search.Active {
		out += "\n" + views.RenderInputLine("", m.searchInput.View())
	}
	return out
}

func badgeLabels(badges []query.Badge) []string {
	out := make([]string, 0, len(badges))
	for _, b := range badges {
		out = append(out, string(b))
	}
	return out
}

func (m Model) renderUpcomingView() string {
	now := m.now()
	upcoming := query.Upcoming(m.store.All(), now, m.UpcomingCount)
	rows := make([]views.EventRow, 0, len(upcoming))
	for _, ev := range upcoming {
		rows = append(rows, views.EventRow{
			ID:       ev.ID,
			Title:    ev.Title,
			Date:     ev.Date,
			Time:     ev.Time,
			Category: ev.Category,
			Kind:     model.MarkerKind(ev.Category),
			Badges:   badgeLabels(query.Badges(ev, now)),
			Relative: m.relativeFor(ev),
		})
	}
	return views.RenderUpcoming(rows, m.theme())
}

// renderSideView shows, in priority order, the form, clear confirmation,
// palette, help, or the selected event's details.
func (m Model) renderSideView() string {
	switch {
	case m.Form.Active:
		return m.renderForm()
	case m.ConfirmClear:
		return views.RenderConfirm(confirmClearPrompt, m.theme())
	case m.Palette.Active:
		return views.RenderInputLine("", m.commandInput.View())
	case m.HelpVisible:
		return m.renderHelpView()
	}
	if _, ok := m.selectedEvent(); ok && m.Focus == PaneEvents {
		return m.detail.View()
	}
	return ""
}

func (m Model) renderNotificationView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	if n.Title != reminderTitle {
		return ""
	}
	return views.RenderNotification(n.Level, n.Body)
}
