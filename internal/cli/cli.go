// Package cli dispatches evcal subcommands. With no subcommand on a
// terminal it starts the interactive calendar.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/sandeepkv93/evcal/internal/config"
	"github.com/sandeepkv93/evcal/internal/events"
	"github.com/sandeepkv93/evcal/internal/log"
	"github.com/sandeepkv93/evcal/internal/notify"
	"github.com/sandeepkv93/evcal/internal/storage"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var (
	now        = time.Now
	isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
)

// App is the state shared by every subcommand.
type App struct {
	cfg        *config.Config
	configPath string
	kv         *storage.SQLiteKV
	store      *events.Store
	stdout     io.Writer
	stderr     io.Writer
}

// Open loads the event store from the configured database.
func Open(ctx context.Context, cfg *config.Config, configPath string, stdout, stderr io.Writer) (*App, error) {
	kv, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	store, err := events.Open(ctx, kv)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return &App{
		cfg:        cfg,
		configPath: configPath,
		kv:         kv,
		store:      store,
		stdout:     stdout,
		stderr:     stderr,
	}, nil
}

func (a *App) Close() error {
	return a.kv.Close()
}

// notifier adds the desktop notifier to base when enabled.
func (a *App) notifier(base notify.Notifier) notify.Notifier {
	if !a.cfg.DesktopNotifications {
		return base
	}
	return notify.Multi{base, notify.ExecDesktopNotifier{}}
}

func (a *App) tone(enabled bool) notify.Tone {
	if !enabled || !a.cfg.Sound {
		return notify.SilentTone{}
	}
	return notify.NewAudioTone()
}

type subcommand struct {
	name  string
	usage string
	run   func(ctx context.Context, app *App, args []string) int
}

var subcommands = []subcommand{
	{"list", "list [--date YYYY-MM-DD] [--search TEXT]", runList},
	{"upcoming", "upcoming [-n COUNT]", runUpcoming},
	{"add", "add [--category NAME] DATE TIME TITLE...", runAdd},
	{"delete", "delete ID", runDelete},
	{"import", "import PATH", runImport},
	{"export", "export [PATH]", runExport},
	{"watch", "watch [--quiet]", runWatch},
	{"info", "info", runInfo},
	{"tui", "tui", runTUI},
}

func lookup(name string) (subcommand, bool) {
	for _, sc := range subcommands {
		if sc.name == name {
			return sc, true
		}
	}
	return subcommand{}, false
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: evcal [OPTIONS] [COMMAND]\n\n")
	fmt.Fprintf(w, "Without a command evcal opens the calendar when stdout is a terminal\n")
	fmt.Fprintf(w, "and prints upcoming events otherwise.\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, sc := range subcommands {
		fmt.Fprintf(w, "  %s\n", sc.usage)
	}
	fmt.Fprintf(w, "\nOptions:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nEnvironment Variables:\n")
	fmt.Fprintf(w, "  EVCAL_CONFIG   Path to config file (default: %s)\n", config.DefaultPath())
	fmt.Fprintf(w, "  EVCAL_DB       Path to the SQLite database\n")
}

// Run executes one invocation and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("evcal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "Path to config file")
	dbPath := fs.String("db", "", "Path to the SQLite database (overrides config)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(stdout, fs)
			return exitOK
		}
		fmt.Fprintf(stderr, "evcal: %v\n", err)
		usage(stderr, fs)
		return exitUsage
	}
	rest := fs.Args()

	name := ""
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}
	if name == "help" {
		usage(stdout, fs)
		return exitOK
	}
	if name == "" {
		name = "upcoming"
		if isTerminal() {
			name = "tui"
		}
	}
	sc, ok := lookup(name)
	if !ok {
		fmt.Fprintf(stderr, "evcal: unknown command %q\n", name)
		usage(stderr, fs)
		return exitUsage
	}

	cfg, path, err := config.LoadWithEnv(*configPath)
	if err != nil {
		if cfg == nil {
			fmt.Fprintf(stderr, "evcal: load config: %v\n", err)
			return exitError
		}
		log.Error("failed to write default config", err, "config_path", path)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	log.SetLevel(log.ParseLevel(cfg.LogLevel))

	app, err := Open(ctx, cfg, path, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "evcal: %v\n", err)
		return exitError
	}
	defer app.Close()

	log.Debug("command starting", "command", sc.name, "db_path", cfg.DBPath, "events", app.store.Len())
	return sc.run(ctx, app, rest)
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(app *App, name, usageLine string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(app.stderr)
	fs.Usage = func() {
		fmt.Fprintf(app.stderr, "Usage: evcal %s\n", usageLine)
		fs.PrintDefaults()
	}
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK, false
		}
		return exitUsage, false
	}
	return exitOK, true
}

func fail(app *App, err error) int {
	fmt.Fprintf(app.stderr, "evcal: %v\n", err)
	return exitError
}
