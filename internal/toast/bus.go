// Package toast implements the in-memory notification bus for transient
// user-facing messages. Entries live only in memory and auto-dismiss after a
// configurable duration, matching the web client's toast behavior.
package toast

import (
	"fmt"
	"sync"
	"time"
)

// Severity is the display class of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// DefaultDuration is how long a notification stays visible unless overridden.
const DefaultDuration = 4 * time.Second

// Toast is one transient notification.
type Toast struct {
	CreatedAt time.Time
	ID        string
	Message   string
	Severity  Severity
}

// Bus holds the ordered sequence of active notifications. Append order is
// display order.
type Bus struct {
	mu       sync.Mutex
	nextID   int64
	nextSub  int
	toasts   []Toast
	subs     map[int]func([]Toast)
	schedule func(d time.Duration, fn func())
	now      func() time.Time
}

// Option configures a Bus.
type Option func(*Bus)

// WithScheduler replaces the timer used for auto-dismissal. Tests use this to
// drive a simulated clock.
func WithScheduler(schedule func(d time.Duration, fn func())) Option {
	return func(b *Bus) { b.schedule = schedule }
}

// WithNow replaces the time source used for CreatedAt stamps.
func WithNow(now func() time.Time) Option {
	return func(b *Bus) { b.now = now }
}

// NewBus creates an empty notification bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		subs: make(map[int]func([]Toast)),
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Notify appends a notification and returns its id. A positive duration
// schedules automatic dismissal; duration 0 keeps the notification until it
// is dismissed explicitly.
func (b *Bus) Notify(message string, severity Severity, duration time.Duration) string {
	b.mu.Lock()
	b.nextID++
	id := fmt.Sprintf("t%d", b.nextID)
	b.toasts = append(b.toasts, Toast{
		ID:        id,
		Message:   message,
		Severity:  severity,
		CreatedAt: b.now(),
	})
	snapshot, subs := b.snapshotLocked()
	b.mu.Unlock()

	notifySubs(subs, snapshot)

	if duration > 0 {
		b.schedule(duration, func() { b.Dismiss(id) })
	}

	return id
}

// Success appends a success notification with the default duration.
func (b *Bus) Success(message string) string {
	return b.Notify(message, SeveritySuccess, DefaultDuration)
}

// Error appends an error notification with the default duration.
func (b *Bus) Error(message string) string {
	return b.Notify(message, SeverityError, DefaultDuration)
}

// Info appends an info notification with the default duration.
func (b *Bus) Info(message string) string {
	return b.Notify(message, SeverityInfo, DefaultDuration)
}

// Dismiss removes the notification with the given id. Dismissing an id that
// is already gone is a no-op; the auto-timeout and a manual close may race.
func (b *Bus) Dismiss(id string) {
	b.mu.Lock()
	found := false
	for i, t := range b.toasts {
		if t.ID == id {
			b.toasts = append(b.toasts[:i], b.toasts[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		b.mu.Unlock()
		return
	}
	snapshot, subs := b.snapshotLocked()
	b.mu.Unlock()

	notifySubs(subs, snapshot)
}

// Active returns the current ordered sequence of notifications.
func (b *Bus) Active() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Toast, len(b.toasts))
	copy(out, b.toasts)
	return out
}

// Subscribe registers fn to receive the full active sequence after every
// append or removal. The returned function removes the subscription.
func (b *Bus) Subscribe(fn func([]Toast)) func() {
	b.mu.Lock()
	b.nextSub++
	id := b.nextSub
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

func (b *Bus) snapshotLocked() ([]Toast, []func([]Toast)) {
	snapshot := make([]Toast, len(b.toasts))
	copy(snapshot, b.toasts)

	subs := make([]func([]Toast), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	return snapshot, subs
}

func notifySubs(subs []func([]Toast), snapshot []Toast) {
	for _, fn := range subs {
		fn(snapshot)
	}
}
