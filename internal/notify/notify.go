// Package notify delivers fire-and-forget display requests. Senders never
// wait for acknowledgment and never see delivery errors except through the
// sink's own logging.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Kind string

const (
	KindReminder    Kind = "reminder"
	KindAchievement Kind = "achievement"
	KindToast       Kind = "toast"
	KindWarning     Kind = "warning"
)

const (
	LongDismiss  = 5 * time.Second
	ShortDismiss = 3 * time.Second
)

type Notification struct {
	Kind    Kind
	Title   string
	Body    string
	Dismiss time.Duration
	At      time.Time
}

func Reminder(title string, at time.Time) Notification {
	return Notification{
		Kind:    KindReminder,
		Title:   "Study Reminder",
		Body:    fmt.Sprintf("%s - starting in 15 minutes", title),
		Dismiss: LongDismiss,
		At:      at,
	}
}

func Achievement(title, description string, at time.Time) Notification {
	return Notification{
		Kind:    KindAchievement,
		Title:   "Achievement Unlocked!",
		Body:    fmt.Sprintf("%s - %s", title, description),
		Dismiss: LongDismiss,
		At:      at,
	}
}

func Toast(body string, at time.Time) Notification {
	return Notification{Kind: KindToast, Body: body, Dismiss: ShortDismiss, At: at}
}

func Warning(body string, at time.Time) Notification {
	return Notification{Kind: KindWarning, Title: "Warning", Body: body, Dismiss: LongDismiss, At: at}
}

// Expired reports whether n should no longer be displayed at now.
func (n Notification) Expired(now time.Time) bool {
	return n.Dismiss > 0 && !now.Before(n.At.Add(n.Dismiss))
}

type Sink interface {
	Send(Notification)
}

type Noop struct{}

func (Noop) Send(Notification) {}

// Multi fans a notification out to every sink in order.
type Multi []Sink

func (m Multi) Send(n Notification) {
	for _, s := range m {
		if s != nil {
			s.Send(n)
		}
	}
}

// Gate forwards to Sink only while Enabled reports true.
type Gate struct {
	Sink    Sink
	Enabled func() bool
}

func (g Gate) Send(n Notification) {
	if g.Sink == nil || (g.Enabled != nil && !g.Enabled()) {
		return
	}
	g.Sink.Send(n)
}

// Buffer keeps the most recent notifications for a UI to drain.
type Buffer struct {
	mu    sync.Mutex
	limit int
	items []Notification
}

func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = 40
	}
	return &Buffer{limit: limit}
}

func (b *Buffer) Send(n Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, n)
	if len(b.items) > b.limit {
		b.items = b.items[len(b.items)-b.limit:]
	}
}

// Drain returns buffered notifications and empties the buffer.
func (b *Buffer) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	return out
}

func (b *Buffer) Snapshot() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Notification, len(b.items))
	copy(out, b.items)
	return out
}

// Log writes every notification to a zap logger.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Send(n Notification) {
	if l.Logger == nil {
		return
	}
	l.Logger.Info("notification",
		zap.String("kind", string(n.Kind)),
		zap.String("title", n.Title),
		zap.String("body", n.Body),
		zap.Duration("dismiss", n.Dismiss),
	)
}

// Desktop shells out to the platform notifier. Failures are logged and
// otherwise ignored.
type Desktop struct {
	Logger *zap.Logger
	run    func(name string, args ...string) error
}

func NewDesktop(logger *zap.Logger) *Desktop {
	return &Desktop{
		Logger: logger,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

func (d *Desktop) Send(n Notification) {
	title := n.Title
	if title == "" {
		title = "studyd"
	}
	var err error
	switch runtime.GOOS {
	case "linux":
		err = d.run("notify-send", "-t", fmt.Sprint(n.Dismiss.Milliseconds()), title, n.Body)
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(title))
		err = d.run("osascript", "-e", script)
	default:
		return
	}
	if err != nil && d.Logger != nil {
		d.Logger.Warn("desktop notification failed", zap.Error(err))
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
