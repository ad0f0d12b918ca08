package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sandeepkv93/evcal/internal/events"
	"github.com/sandeepkv93/evcal/internal/model"
	"github.com/sandeepkv93/evcal/internal/query"
	"github.com/sandeepkv93/evcal/internal/storage"
)

func runList(_ context.Context, app *App, args []string) int {
	fs := newFlagSet(app, "list", "list [--date YYYY-MM-DD] [--search TEXT]")
	date := fs.String("date", "", "Only events on this date")
	search := fs.String("search", "", "Only events whose title contains this text")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	list := app.store.All()
	if *date != "" {
		list = query.ByDate(list, strings.TrimSpace(*date))
	}
	list = query.Search(list, *search)
	list = query.SortedByWhen(list, true, time.Local)
	if len(list) == 0 {
		fmt.Fprintln(app.stdout, "No events.")
		return exitOK
	}
	fmt.Fprintln(app.stdout, eventTable(list, now()))
	return exitOK
}

func runUpcoming(_ context.Context, app *App, args []string) int {
	fs := newFlagSet(app, "upcoming", "upcoming [-n COUNT]")
	count := fs.Int("n", app.cfg.UpcomingCount, "How many events to show")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	at := now()
	list := query.Upcoming(app.store.All(), at, *count)
	if len(list) == 0 {
		fmt.Fprintln(app.stdout, "No upcoming events.")
		return exitOK
	}
	fmt.Fprintln(app.stdout, eventTable(list, at))
	return exitOK
}

func runAdd(ctx context.Context, app *App, args []string) int {
	fs := newFlagSet(app, "add", "add [--category NAME] DATE TIME TITLE...")
	category := fs.String("category", string(model.CategoryGeneral), "Event category")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	rest := fs.Args()
	if len(rest) < 3 {
		fs.Usage()
		return exitUsage
	}

	ev, err := app.store.Add(ctx, model.Event{
		Title:    strings.Join(rest[2:], " "),
		Date:     rest[0],
		Time:     rest[1],
		Category: *category,
	})
	if err != nil {
		return fail(app, err)
	}
	fmt.Fprintf(app.stdout, "Event added: #%d %q on %s at %s\n", ev.ID, ev.Title, ev.Date, ev.Time)
	return exitOK
}

func runDelete(ctx context.Context, app *App, args []string) int {
	fs := newFlagSet(app, "delete", "delete ID")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	id, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(app.stderr, "evcal: invalid id %q\n", fs.Arg(0))
		return exitUsage
	}

	_, existed := app.store.Get(id)
	if err := app.store.Remove(ctx, id); err != nil {
		return fail(app, err)
	}
	if !existed {
		return fail(app, &model.NotFoundError{ID: id})
	}
	fmt.Fprintf(app.stdout, "Event deleted: #%d\n", id)
	return exitOK
}

func runImport(ctx context.Context, app *App, args []string) int {
	fs := newFlagSet(app, "import", "import PATH")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}

	added, err := app.store.ImportFile(ctx, fs.Arg(0))
	if err != nil {
		var importErr *model.ImportError
		if errors.As(err, &importErr) {
			fmt.Fprintf(app.stderr, "Import failed: %v\n", importErr.Err)
			return exitError
		}
		return fail(app, err)
	}
	fmt.Fprintf(app.stdout, "Imported %d events\n", len(added))
	return exitOK
}

func runExport(_ context.Context, app *App, args []string) int {
	fs := newFlagSet(app, "export", "export [PATH]")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return exitUsage
	}
	path := events.ExportFileName
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	}

	n, err := app.store.ExportFile(path)
	if err != nil {
		return fail(app, err)
	}
	fmt.Fprintf(app.stdout, "Exported %d events to %s\n", n, path)
	return exitOK
}

func runInfo(ctx context.Context, app *App, args []string) int {
	fs := newFlagSet(app, "info", "info")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	theme, err := storage.LoadTheme(ctx, app.kv)
	if err != nil {
		return fail(app, err)
	}
	updated := "never"
	at, err := app.kv.UpdatedAt(ctx, storage.KeyEvents)
	switch {
	case err == nil:
		updated = at.Local().Format(time.DateTime)
	case !errors.Is(err, storage.ErrNotFound):
		return fail(app, err)
	}

	fmt.Fprintf(app.stdout, "config:    %s\n", app.configPath)
	fmt.Fprintf(app.stdout, "database:  %s\n", app.cfg.DBPath)
	fmt.Fprintf(app.stdout, "events:    %d\n", app.store.Len())
	fmt.Fprintf(app.stdout, "last id:   %d\n", app.store.Allocator().Last())
	fmt.Fprintf(app.stdout, "updated:   %s\n", updated)
	fmt.Fprintf(app.stdout, "theme:     %s\n", theme)
	fmt.Fprintf(app.stdout, "lookahead: %s\n", app.cfg.Lookahead())
	return exitOK
}

// eventTable renders events as a borderless table with a relative-time
// column.
func eventTable(list []model.Event, at time.Time) string {
	rows := make([][]string, 0, len(list))
	for _, ev := range list {
		rows = append(rows, []string{
			strconv.FormatInt(ev.ID, 10),
			ev.Date,
			ev.Time,
			ev.Category,
			ev.Title,
			whenColumn(ev, at),
		})
	}
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "DATE", "TIME", "CATEGORY", "TITLE", "WHEN").
		Rows(rows...).
		String()
}

func whenColumn(ev model.Event, at time.Time) string {
	when, err := ev.InstantIn(at.Location())
	if err != nil {
		return "-"
	}
	parts := []string{query.Relative(when, at)}
	for _, badge := range query.Badges(ev, at) {
		parts = append(parts, string(badge))
	}
	return strings.Join(parts, " · ")
}
