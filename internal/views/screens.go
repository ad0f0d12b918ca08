package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/evcal/internal/calendar"
)

const (
	cellWidth   = 6
	markerGlyph = "•"
	maxMarkers  = 3
)

type CalendarData struct {
	Grid calendar.Grid
	// Cursor is the day under the keyboard cursor, 0 for none.
	Cursor  int
	Focused bool
}

func RenderCalendar(data CalendarData, theme Theme) string {
	g := data.Grid
	var b strings.Builder

	title := fmt.Sprintf("%s %d", g.Month, g.Year)
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Width(cellWidth * 7).Align(lipgloss.Center).Render(title))
	b.WriteString("\n")

	headers := make([]string, 0, 7)
	for _, h := range g.WeekdayHeaders() {
		headers = append(headers, lipgloss.NewStyle().Width(cellWidth).Foreground(theme.Muted).Render(h))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, headers...))

	for _, week := range g.Weeks() {
		cells := make([]string, 0, len(week))
		for _, cell := range week {
			cells = append(cells, renderCell(cell, data.Cursor, data.Focused, theme))
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return b.String()
}

func renderCell(cell calendar.Cell, cursor int, focused bool, theme Theme) string {
	style := lipgloss.NewStyle().Width(cellWidth)
	if cell.Blank() {
		return style.Render("")
	}

	day := fmt.Sprintf("%2d", cell.Day)
	dayStyle := lipgloss.NewStyle().Foreground(theme.Text)
	if cell.IsToday {
		dayStyle = dayStyle.Bold(true).Foreground(theme.Accent)
	}
	if cell.IsSelected {
		dayStyle = dayStyle.Background(theme.Selected)
	}
	if focused && cell.Day == cursor {
		dayStyle = dayStyle.Underline(true).Reverse(true)
	}

	markers := make([]string, 0, maxMarkers)
	for i, mk := range cell.Markers {
		if i == maxMarkers {
			break
		}
		markers = append(markers, lipgloss.NewStyle().Foreground(theme.marker(mk.Kind)).Render(markerGlyph))
	}
	return style.Render(dayStyle.Render(day) + strings.Join(markers, ""))
}

type EventRow struct {
	ID       int64
	Title    string
	Date     string
	Time     string
	Category string
	Kind     string
	Badges   []string
	Relative string
}

type EventListData struct {
	Heading   string
	TableView string
	Rows      []EventRow
}

func RenderEventList(data EventListData, theme Theme) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(data.Heading))
	b.WriteString("\n")
	if len(data.Rows) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Muted).Render("No events."))
		return b.String()
	}
	b.WriteString(data.TableView)
	return b.String()
}

func RenderUpcoming(rows []EventRow, theme Theme) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Upcoming"))
	if len(rows) == 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Muted).Render("No upcoming events."))
		return b.String()
	}
	for _, row := range rows {
		dot := lipgloss.NewStyle().Foreground(theme.marker(row.Kind)).Render(markerGlyph)
		when := lipgloss.NewStyle().Foreground(theme.Muted).Render(fmt.Sprintf("%s %s (%s)", row.Date, row.Time, row.Relative))
		b.WriteString(fmt.Sprintf("\n%s %s\n  %s", dot, row.Title, when))
		if len(row.Badges) > 0 {
			b.WriteString(" " + Badges(row.Badges, theme))
		}
	}
	return b.String()
}

// Badges renders badge labels as bracketed tags.
func Badges(labels []string, theme Theme) string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		c := theme.Muted
		switch l {
		case "Today":
			c = theme.Accent
		case "Upcoming":
			c = theme.Success
		}
		out = append(out, lipgloss.NewStyle().Foreground(c).Render("["+l+"]"))
	}
	return strings.Join(out, " ")
}

type FormData struct {
	Editing bool
	Labels  []string
	Inputs  []string
	Focus   int
	Error   string
}

func RenderForm(data FormData, theme Theme) string {
	var b strings.Builder
	title := "Add event"
	if data.Editing {
		title = "Edit event"
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Render(title))
	for i, input := range data.Inputs {
		label := ""
		if i < len(data.Labels) {
			label = data.Labels[i]
		}
		labelStyle := lipgloss.NewStyle().Width(10).Foreground(theme.Muted)
		if i == data.Focus {
			labelStyle = labelStyle.Foreground(theme.Accent)
		}
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(label) + input)
	}
	if data.Error != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render(data.Error))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Muted).Render("[tab] next field  [enter] save  [esc] cancel"))
	return b.String()
}

func RenderConfirm(prompt string, theme Theme) string {
	return lipgloss.NewStyle().Foreground(theme.Error).Bold(true).Render(prompt) + "\n[y] yes  [n] no"
}

func RenderInputLine(prefix, view string) string {
	return prefix + view
}

func RenderHelpPanel(bindings []string, helpView string) string {
	return fmt.Sprintf("Keys\n%s\n%s", strings.Join(bindings, "\n"), helpView)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("[%s] %s", strings.ToUpper(level), body)
}
