package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/evcal/internal/views"
)

type KeyMap struct {
	Left        key.Binding
	Right       key.Binding
	Up          key.Binding
	Down        key.Binding
	SwitchPane  key.Binding
	Select      key.Binding
	PrevMonth   key.Binding
	NextMonth   key.Binding
	Today       key.Binding
	ShowAll     key.Binding
	Add         key.Binding
	Edit        key.Binding
	Delete      key.Binding
	Search      key.Binding
	Palette     key.Binding
	ToggleTheme key.Binding
	Clear       key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("h/←", "previous day")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("l/→", "next day")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/↑", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/↓", "down")),
		SwitchPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select day / edit event")),
		PrevMonth:   key.NewBinding(key.WithKeys("[", "p"), key.WithHelp("[", "previous month")),
		NextMonth:   key.NewBinding(key.WithKeys("]", "n"), key.WithHelp("]", "next month")),
		Today:       key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		ShowAll:     key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "show all")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add event")),
		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit event")),
		Delete:      key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete event")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Palette:     key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		ToggleTheme: key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "toggle theme")),
		Clear:       key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Search, k.Palette, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.SwitchPane, k.Select},
		{k.PrevMonth, k.NextMonth, k.Today, k.ShowAll},
		{k.Add, k.Edit, k.Delete, k.Search, k.Palette},
		{k.ToggleTheme, k.Clear, k.Help, k.Quit},
	}
}

var paletteCommands = []string{
	"add <YYYY-MM-DD> <HH:MM> <title> [#category]",
	"edit <id>",
	"delete <id>",
	"search [term]",
	"goto <YYYY-MM | YYYY-MM-DD>",
	"today | all | clear",
	"export [path.json | path.ics]",
	"import <path.json | path.ics>",
	"theme [light | dark]",
}

func (m Model) renderHelpView() string {
	lines := make([]string, 0, len(paletteCommands)+1)
	lines = append(lines, "commands:")
	for _, c := range paletteCommands {
		lines = append(lines, fmt.Sprintf("  :%s", c))
	}
	hm := m.helpModel
	hm.ShowAll = true
	return views.RenderHelpPanel(lines, hm.View(m.Keys))
}
