package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/evcal/internal/commands"
	"github.com/sandeepkv93/evcal/internal/model"
)

func (m Model) openPalette() Model {
	m.Palette = InputState{Active: true}
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	return m
}

func (m Model) closePalette() Model {
	m.Palette = InputState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closePalette(), nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	if msg.Type == tea.KeyRunes {
		m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
		m.commandInput.CursorEnd()
		m.Palette.Input = m.commandInput.Value()
		return m, nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

// executePaletteCommand runs the typed command. Handlers write their
// effects onto next; the palette always closes.
func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		return m.setStatus(err.Error(), true)
	}

	next := m
	var out tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			n, c, err := next.addEvent(a.Fields)
			if err != nil {
				return commands.Result{}, err
			}
			next, out = n, c
			return commands.Result{}, nil
		},
		Edit: func(a commands.IDArgs) (commands.Result, error) {
			if _, ok := next.store.Get(a.ID); !ok {
				return commands.Result{}, &model.NotFoundError{ID: a.ID}
			}
			next = next.openEditForm(a.ID)
			return commands.Result{}, nil
		},
		Delete: func(a commands.IDArgs) (commands.Result, error) {
			next, out = next.deleteEvent(a.ID)
			return commands.Result{}, nil
		},
		Search: func(a commands.SearchArgs) (commands.Result, error) {
			next.ViewState.SearchTerm = a.Term
			next.Search.Input = a.Term
			next.syncBubbleData()
			return commands.Result{Message: searchStatus(a.Term)}, nil
		},
		Goto: func(a commands.GotoArgs) (commands.Result, error) {
			next.gotoMonth(a.Year, a.Month, a.Date)
			return commands.Result{Message: fmt.Sprintf("%s %d", a.Month, a.Year)}, nil
		},
		Today: func() (commands.Result, error) {
			next.jumpToday()
			return commands.Result{}, nil
		},
		All: func() (commands.Result, error) {
			next.ViewState = next.ViewState.ShowAll()
			next.syncBubbleData()
			return commands.Result{}, nil
		},
		Export: func(a commands.PathArgs) (commands.Result, error) {
			next, out = next.exportFile(a.Path)
			return commands.Result{}, nil
		},
		Import: func(a commands.PathArgs) (commands.Result, error) {
			next, out = next.importFile(a.Path)
			return commands.Result{}, nil
		},
		Clear: func() (commands.Result, error) {
			next.ConfirmClear = true
			return commands.Result{}, nil
		},
		Theme: func(a commands.ThemeArgs) (commands.Result, error) {
			next, out = next.setTheme(a.Theme)
			return commands.Result{}, nil
		},
	})
	if err != nil {
		return next.formFailedOrStatus(err)
	}
	if res.Message != "" {
		return next.setStatus(res.Message, false)
	}
	return next, out
}

func (m Model) formFailedOrStatus(err error) (Model, tea.Cmd) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return m.setStatus(ve.Message, true)
	}
	return m.setStatus(err.Error(), true)
}

func searchStatus(term string) string {
	if strings.TrimSpace(term) == "" {
		return "Search cleared"
	}
	return fmt.Sprintf("Search: %s", term)
}
