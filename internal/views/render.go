package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header        string
	Calendar      string
	Events        string
	Upcoming      string
	Side          string
	StatusLine    string
	StatusIsError bool
	Footer        string
	Notification  string
}

type Theme struct {
	Name     string
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Success  lipgloss.Color
	Error    lipgloss.Color
	Border   lipgloss.Color
	Selected lipgloss.Color
	Markers  map[string]lipgloss.Color
}

var (
	darkTheme = Theme{
		Name:     "dark",
		Accent:   lipgloss.Color("12"),
		Text:     lipgloss.Color("15"),
		Muted:    lipgloss.Color("8"),
		Success:  lipgloss.Color("10"),
		Error:    lipgloss.Color("9"),
		Border:   lipgloss.Color("240"),
		Selected: lipgloss.Color("62"),
		Markers: map[string]lipgloss.Color{
			"general":  lipgloss.Color("14"),
			"work":     lipgloss.Color("12"),
			"personal": lipgloss.Color("10"),
			"urgent":   lipgloss.Color("9"),
		},
	}
	lightTheme = Theme{
		Name:     "light",
		Accent:   lipgloss.Color("25"),
		Text:     lipgloss.Color("0"),
		Muted:    lipgloss.Color("245"),
		Success:  lipgloss.Color("28"),
		Error:    lipgloss.Color("160"),
		Border:   lipgloss.Color("250"),
		Selected: lipgloss.Color("153"),
		Markers: map[string]lipgloss.Color{
			"general":  lipgloss.Color("30"),
			"work":     lipgloss.Color("25"),
			"personal": lipgloss.Color("28"),
			"urgent":   lipgloss.Color("160"),
		},
	}
)

// ThemeFor returns the light theme for "light" and the dark one otherwise.
func ThemeFor(name string) Theme {
	if name == lightTheme.Name {
		return lightTheme
	}
	return darkTheme
}

func (t Theme) panel() lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Border).Padding(0, 1)
}

func (t Theme) marker(kind string) lipgloss.Color {
	if c, ok := t.Markers[kind]; ok {
		return c
	}
	return t.Markers["general"]
}

func RenderApp(data AppData, theme Theme) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(theme.Accent).Render(data.Header)

	left := lipgloss.JoinVertical(lipgloss.Left,
		theme.panel().Render(data.Calendar),
		theme.panel().Width(44).Render(data.Upcoming),
	)
	rightParts := []string{theme.panel().Width(80).Render(data.Events)}
	if strings.TrimSpace(data.Side) != "" {
		rightParts = append(rightParts, theme.panel().Width(80).Render(data.Side))
	}
	right := lipgloss.JoinVertical(lipgloss.Left, rightParts...)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	statusStyle := lipgloss.NewStyle().Foreground(theme.Success)
	if data.StatusIsError {
		statusStyle = statusStyle.Foreground(theme.Error)
	}

	lines := []string{header, row}
	if data.StatusLine != "" {
		lines = append(lines, statusStyle.Render(data.StatusLine))
	}
	if data.Notification != "" {
		lines = append(lines, theme.panel().BorderForeground(theme.Accent).Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Muted).Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders md for the terminal, falling back to the raw text
// when glamour fails.
func RenderMarkdown(md string, theme Theme) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, theme.Name)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
