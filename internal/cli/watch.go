package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/sandeepkv93/evcal/internal/log"
	"github.com/sandeepkv93/evcal/internal/notify"
	"github.com/sandeepkv93/evcal/internal/scheduler"
)

// runWatch prints reminders as they fire. On every refresh tick it reloads
// the snapshot and arms whatever entered the lookahead window, the same as
// a restart would.
func runWatch(ctx context.Context, app *App, args []string) int {
	fs := newFlagSet(app, "watch", "watch [--quiet]")
	quiet := fs.Bool("quiet", false, "Do not play a tone")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			log.Info("signal received, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	engine := scheduler.NewEngine(app.cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	reminders := scheduler.NewReminders(engine, app.cfg.Lookahead())
	dispatcher := scheduler.NewDispatcher(
		reminders,
		app.notifier(notify.WriterNotifier{W: app.stdout}),
		app.tone(!*quiet),
	)

	armed, err := reminders.RearmAll(app.store.All(), now)
	if err != nil {
		return fail(app, err)
	}
	fmt.Fprintf(app.stdout, "Watching %d events, %d reminders armed (lookahead %s)\n",
		app.store.Len(), armed, reminders.Lookahead())

	sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := sched.AddFunc(app.cfg.Refresh, func() { rearm(ctx, app, reminders) }); err != nil {
		return fail(app, err)
	}
	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fail(app, err)
	}
	log.Info("watch stopped", "dropped", engine.Dropped())
	return exitOK
}

func rearm(ctx context.Context, app *App, reminders *scheduler.Reminders) {
	if ctx.Err() != nil {
		return
	}
	if err := app.store.Load(ctx); err != nil {
		log.Error("reload events failed", err, "db_path", app.cfg.DBPath)
		return
	}
	armed, err := reminders.RearmAll(app.store.All(), now)
	if err != nil {
		log.Error("rearm reminders failed", err)
		return
	}
	if armed > 0 {
		log.Info("reminders armed", "count", armed)
	}
}
