package cli

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/evcal/internal/log"
	"github.com/sandeepkv93/evcal/internal/notify"
	"github.com/sandeepkv93/evcal/internal/scheduler"
	"github.com/sandeepkv93/evcal/internal/storage"
	"github.com/sandeepkv93/evcal/internal/update"
)

func runTUI(ctx context.Context, app *App, args []string) int {
	fs := newFlagSet(app, "tui", "tui")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	// The alternate screen owns the terminal, so log lines go to a file
	// or nowhere.
	var logOut io.Writer = io.Discard
	if app.cfg.LogFile != "" {
		f, err := os.OpenFile(app.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fail(app, err)
		}
		defer f.Close()
		logOut = f
	}
	log.SetOutput(logOut)
	defer log.SetOutput(app.stderr)

	theme, err := storage.LoadTheme(ctx, app.kv)
	if err != nil {
		log.Error("load theme failed", err)
		theme = storage.ThemeDark
	}

	engine := scheduler.NewEngine(app.cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	reminders := scheduler.NewReminders(engine, app.cfg.Lookahead())
	dispatcher := scheduler.NewDispatcher(reminders, app.notifier(notify.NoopNotifier{}), app.tone(true))
	armed, err := reminders.RearmAll(app.store.All(), now)
	if err != nil {
		log.Error("rearm reminders failed", err)
	}
	log.Info("evcal starting", "events", app.store.Len(), "armed", armed, "theme", theme)

	m := update.NewModel(update.Options{
		Context:       ctx,
		Store:         app.store,
		KV:            app.kv,
		Reminders:     reminders,
		Dispatcher:    dispatcher,
		UpcomingCount: app.cfg.UpcomingCount,
		WeekStart:     app.cfg.WeekStartDay(),
		Refresh:       app.cfg.RefreshSchedule(),
		Theme:         theme,
		Now:           now,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		log.Error("tui failed", err)
		return fail(app, err)
	}
	log.Info("evcal exiting")
	return exitOK
}
