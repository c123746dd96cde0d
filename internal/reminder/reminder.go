// Package reminder turns task due times into one-shot notifications fired
// fifteen minutes ahead, plus a periodic sweep for anything the one-shot
// path missed.
package reminder

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/notify"
	"github.com/sandeepkv93/studyd/internal/scheduler"
)

const (
	Lead          = 15 * time.Minute
	SweepInterval = time.Minute
)

// TaskLookup resolves the current version of a task at fire time.
type TaskLookup interface {
	Get(id string) (model.Task, error)
}

type Scheduler struct {
	engine  *scheduler.Engine
	tasks   TaskLookup
	sink    notify.Sink
	logger  *zap.Logger
	loc     *time.Location
	enabled func() bool
}

type Option func(*Scheduler)

func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEnabled installs the gate consulted before anything is sent.
func WithEnabled(fn func() bool) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.enabled = fn
		}
	}
}

func New(engine *scheduler.Engine, tasks TaskLookup, sink notify.Sink, opts ...Option) *Scheduler {
	if sink == nil {
		sink = notify.Noop{}
	}
	s := &Scheduler{
		engine:  engine,
		tasks:   tasks,
		sink:    sink,
		logger:  zap.NewNop(),
		loc:     time.Local,
		enabled: func() bool { return true },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events exposes fired reminders; the consumer hands each one to Fire.
func (s *Scheduler) Events() <-chan scheduler.ReminderEvent {
	return s.engine.C()
}

// FireAt is the instant a task's reminder is due, if it has one.
func (s *Scheduler) FireAt(t model.Task) (time.Time, bool) {
	due, ok := t.Due(s.loc)
	if !ok {
		return time.Time{}, false
	}
	return due.Add(-Lead), true
}

// Arm schedules t's reminder. Completed tasks and tasks whose fire time is
// not after now are skipped and reported as not armed. Any earlier pending
// reminder for the same task is replaced.
func (s *Scheduler) Arm(t model.Task, now time.Time) (bool, error) {
	if t.Completed {
		return false, nil
	}
	fireAt, ok := s.FireAt(t)
	if !ok || !fireAt.After(now) {
		return false, nil
	}
	s.engine.Cancel(t.ID)
	ev := scheduler.ReminderEvent{
		ID:        fmt.Sprintf("%s@%s", t.ID, fireAt.Format(time.RFC3339)),
		TaskID:    t.ID,
		Title:     t.Title,
		TriggerAt: fireAt,
	}
	if err := s.engine.Schedule(ev); err != nil {
		return false, fmt.Errorf("arm reminder %s: %w", t.ID, err)
	}
	s.logger.Debug("reminder armed", zap.String("task_id", t.ID), zap.Time("fire_at", fireAt))
	return true, nil
}

func (s *Scheduler) Disarm(taskID string) {
	s.engine.Cancel(taskID)
}

// RearmAll drops every pending reminder and arms each incomplete task
// again. It returns how many were armed.
func (s *Scheduler) RearmAll(tasks []model.Task, now time.Time) int {
	s.engine.Clear()
	armed := 0
	for _, t := range tasks {
		ok, err := s.Arm(t, now)
		if err != nil {
			s.logger.Warn("rearm failed", zap.String("task_id", t.ID), zap.Error(err))
			continue
		}
		if ok {
			armed++
		}
	}
	return armed
}

// Fire handles an event delivered by the engine. The task is looked up
// again so deleted or completed tasks are dropped without a notification.
func (s *Scheduler) Fire(ev scheduler.ReminderEvent, now time.Time) bool {
	t, err := s.tasks.Get(ev.TaskID)
	if err != nil {
		s.logger.Debug("reminder suppressed, task gone", zap.String("task_id", ev.TaskID))
		return false
	}
	if t.Completed {
		s.logger.Debug("reminder suppressed, task completed", zap.String("task_id", ev.TaskID))
		return false
	}
	return s.send(t, now)
}

// SweepUpcoming notifies every incomplete task due within (now, now+Lead].
// A task may also have been announced by its one-shot reminder.
func (s *Scheduler) SweepUpcoming(tasks []model.Task, now time.Time) int {
	sent := 0
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		due, ok := t.Due(s.loc)
		if !ok {
			continue
		}
		until := due.Sub(now)
		if until <= 0 || until > Lead {
			continue
		}
		if s.send(t, now) {
			sent++
		}
	}
	return sent
}

func (s *Scheduler) send(t model.Task, now time.Time) bool {
	if !s.enabled() {
		return false
	}
	s.sink.Send(notify.Reminder(t.Title, now))
	s.logger.Info("reminder sent", zap.String("task_id", t.ID), zap.String("title", t.Title))
	return true
}

func (s *Scheduler) Pending() int {
	return s.engine.Len()
}
