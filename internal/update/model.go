package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/robfig/cron/v3"

	"github.com/sandeepkv93/evcal/internal/calendar"
	"github.com/sandeepkv93/evcal/internal/events"
	"github.com/sandeepkv93/evcal/internal/model"
	"github.com/sandeepkv93/evcal/internal/notify"
	"github.com/sandeepkv93/evcal/internal/scheduler"
	"github.com/sandeepkv93/evcal/internal/storage"
)

type Pane string

const (
	PaneCalendar Pane = "Calendar"
	PaneEvents   Pane = "Events"
)

const (
	defaultUpcomingCount = 5
	statusTTL            = 3 * time.Second
	maxNotifications     = 40
)

type StatusBar struct {
	Text    string
	IsError bool
	seq     int
}

// Options wires the model to its collaborators. Store and KV are
// required; the rest have usable zero values.
type Options struct {
	Context       context.Context
	Store         *events.Store
	KV            storage.KV
	Reminders     *scheduler.Reminders
	Dispatcher    *scheduler.Dispatcher
	UpcomingCount int
	WeekStart     time.Weekday
	Refresh       cron.Schedule
	Theme         string
	Now           func() time.Time
}

type Model struct {
	ctx        context.Context
	store      *events.Store
	kv         storage.KV
	reminders  *scheduler.Reminders
	dispatcher *scheduler.Dispatcher
	refresh    cron.Schedule
	now        func() time.Time

	UpcomingCount int
	WeekStart     time.Weekday
	Theme         string

	ViewState model.ViewState
	Focus     Pane
	CursorDay int

	Form          FormState
	Search        InputState
	Palette       InputState
	ConfirmClear  bool
	HelpVisible   bool
	Status        StatusBar
	Notifications []notify.Notification
	Keys          KeyMap
	Quitting      bool
	LastError     error

	eventTable   table.Model
	searchInput  textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
	detail       viewport.Model
	detailKey    string
	statusSeq    int
	today        string
}

type InputState struct {
	Active bool
	Input  string
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct {
	Seq int
}

type AppErrorMsg struct {
	Err error
}

type ReminderDueMsg struct {
	Event scheduler.ReminderEvent
}

type RefreshTickMsg struct {
	At time.Time
}

func NewModel(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	upcoming := opts.UpcomingCount
	if upcoming <= 0 {
		upcoming = defaultUpcomingCount
	}
	theme := opts.Theme
	if theme != storage.ThemeLight {
		theme = storage.ThemeDark
	}

	today := now()
	m := Model{
		ctx:           ctx,
		store:         opts.Store,
		kv:            opts.KV,
		reminders:     opts.Reminders,
		dispatcher:    opts.Dispatcher,
		refresh:       opts.Refresh,
		now:           now,
		UpcomingCount: upcoming,
		WeekStart:     opts.WeekStart,
		Theme:         theme,
		ViewState:     model.NewViewState(today),
		Focus:         PaneCalendar,
		CursorDay:     today.Day(),
		today:         model.ISODate(today),
		Keys:          DefaultKeyMap(),
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

// Grid is the calendar for the displayed month.
func (m Model) Grid() calendar.Grid {
	return calendar.Build(calendar.Input{
		Year:      m.ViewState.Year,
		Month:     m.ViewState.Month,
		Events:    m.store.All(),
		Selected:  m.ViewState.SelectedDate,
		Today:     m.now(),
		WeekStart: m.WeekStart,
	})
}
