package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrEngineStopped      = errors.New("scheduler: engine stopped")
)

// ReminderEvent is what the engine emits when a reminder comes due. It
// carries a copy of the event taken at scheduling time.
type ReminderEvent struct {
	Key       string
	EventID   int64
	Title     string
	Time      string
	Category  string
	Instant   time.Time
	TriggerAt time.Time
}

// pending orders reminders by trigger time, then by arrival.
type pending struct {
	ev    ReminderEvent
	order uint64
}

type dueHeap []pending

func (h dueHeap) Len() int { return len(h) }

func (h dueHeap) Less(i, j int) bool {
	a, b := h[i].ev.TriggerAt, h[j].ev.TriggerAt
	if !a.Equal(b) {
		return a.Before(b)
	}
	return h[i].order < h[j].order
}

func (h dueHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *dueHeap) Push(x any) { *h = append(*h, x.(pending)) }

func (h *dueHeap) Pop() any {
	last := len(*h) - 1
	p := (*h)[last]
	*h = (*h)[:last]
	return p
}

// Engine runs one goroutine that sleeps until the earliest reminder is
// due. Delivery on C never blocks; a full buffer bumps Dropped instead.
type Engine struct {
	mu      sync.Mutex
	due     dueHeap
	order   uint64
	running bool
	closed  bool

	now     func() time.Time
	out     chan ReminderEvent
	kick    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	dropped atomic.Uint64
}

func NewEngine(bufferSize int) *Engine {
	return &Engine{
		now:  time.Now,
		out:  make(chan ReminderEvent, max(bufferSize, 1)),
		kick: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan ReminderEvent {
	return e.out
}

// Start launches the loop. Reminders scheduled before Start are kept.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running || e.closed {
		return
	}
	e.running = true
	go e.run()
}

// Stop ends the loop and closes C. Pending reminders are discarded.
func (e *Engine) Stop() {
	e.mu.Lock()
	wasRunning := e.running && !e.closed
	e.closed = true
	e.mu.Unlock()
	if !wasRunning {
		return
	}
	close(e.quit)
	<-e.done
}

func (e *Engine) Schedule(ev ReminderEvent) error {
	if ev.TriggerAt.IsZero() {
		return ErrInvalidTriggerTime
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrEngineStopped
	}
	e.order++
	heap.Push(&e.due, pending{ev: ev, order: e.order})
	e.mu.Unlock()

	select {
	case e.kick <- struct{}{}:
	default:
	}
	return nil
}

// ScheduleAfter fires ev once delay has elapsed on the engine's clock.
func (e *Engine) ScheduleAfter(ev ReminderEvent, delay time.Duration) error {
	if delay < 0 {
		return ErrInvalidTriggerTime
	}
	ev.TriggerAt = e.now().Add(delay)
	return e.Schedule(ev)
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.due.Len()
}

// NextDue reports the earliest trigger time still queued.
func (e *Engine) NextDue() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.due.Len() == 0 {
		return time.Time{}, false
	}
	return e.due[0].ev.TriggerAt, true
}

func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

func (e *Engine) run() {
	defer close(e.done)
	defer close(e.out)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		var fire <-chan time.Time
		if at, ok := e.NextDue(); ok {
			timer.Reset(max(at.Sub(e.now()), 0))
			fire = timer.C
		}

		select {
		case <-fire:
			e.deliver(e.takeDue(e.now()))
		case <-e.kick:
			timer.Stop()
		case <-e.quit:
			return
		}
	}
}

func (e *Engine) deliver(batch []ReminderEvent) {
	for _, ev := range batch {
		select {
		case e.out <- ev:
		default:
			e.dropped.Add(1)
		}
	}
}

// takeDue pops every reminder whose trigger time is not after now.
func (e *Engine) takeDue(now time.Time) []ReminderEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	var batch []ReminderEvent
	for e.due.Len() > 0 && !e.due[0].ev.TriggerAt.After(now) {
		batch = append(batch, heap.Pop(&e.due).(pending).ev)
	}
	return batch
}
