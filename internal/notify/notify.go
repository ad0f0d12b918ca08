package notify

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const (
	LevelInfo  = "info"
	LevelError = "error"
)

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

// Notifier displays a short message. Implementations must not block for
// long; callers ignore most errors.
type Notifier interface {
	Send(Notification) error
}

type NoopNotifier struct{}

func (NoopNotifier) Send(Notification) error { return nil }

// ExecDesktopNotifier shells out to notify-send or osascript.
type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// WriterNotifier prints one line per notification.
type WriterNotifier struct {
	W io.Writer
}

func (w WriterNotifier) Send(n Notification) error {
	at := n.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := fmt.Fprintf(w.W, "%s [%s] %s\n", at.Format("15:04:05"), n.Title, n.Body)
	return err
}

// Multi fans a notification out to every notifier.
type Multi []Notifier

func (m Multi) Send(n Notification) error {
	var errs []error
	for _, target := range m {
		if target == nil {
			continue
		}
		if err := target.Send(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func LevelFromError(isErr bool) string {
	if isErr {
		return LevelError
	}
	return LevelInfo
}
