// Package planner owns the application state: tasks, goals, exams,
// materials, study sessions, achievements and settings. It is the single
// writer of every collection and persists each one after it changes.
package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sandeepkv93/studyd/internal/achievement"
	"github.com/sandeepkv93/studyd/internal/analytics"
	"github.com/sandeepkv93/studyd/internal/backup"
	"github.com/sandeepkv93/studyd/internal/clock"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/notify"
	"github.com/sandeepkv93/studyd/internal/reminder"
	"github.com/sandeepkv93/studyd/internal/scheduler"
	"github.com/sandeepkv93/studyd/internal/storage"
	"github.com/sandeepkv93/studyd/internal/timer"
)

const (
	msgSessionDone = "Study session completed! Time for a break!"
	msgBreakDone   = "Break time over! Ready for another study session?"
)

// Planner is not safe for concurrent use; the UI loop owns it.
type Planner struct {
	kv     storage.KV
	clock  clock.Clock
	loc    *time.Location
	logger *zap.Logger
	sink   notify.Sink

	tasks        *TaskStore
	goals        []model.Goal
	exams        []model.Exam
	materials    []model.Material
	sessions     []model.StudySession
	settings     model.Settings
	achievements *achievement.Engine

	timer     *timer.Engine
	reminders *reminder.Scheduler
}

type Option func(*Planner)

func WithClock(c clock.Clock) Option {
	return func(p *Planner) {
		if c != nil {
			p.clock = c
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(p *Planner) {
		if loc != nil {
			p.loc = loc
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithSink(s notify.Sink) Option {
	return func(p *Planner) {
		if s != nil {
			p.sink = s
		}
	}
}

// New loads persisted state from kv, arms reminders for incomplete tasks on
// engine and evaluates achievements once. Only a failing storage backend
// is an error; malformed values are replaced with defaults.
func New(ctx context.Context, kv storage.KV, engine *scheduler.Engine, opts ...Option) (*Planner, error) {
	if kv == nil {
		return nil, errors.New("planner: nil store")
	}
	if engine == nil {
		return nil, errors.New("planner: nil scheduler engine")
	}
	p := &Planner{
		kv:     kv,
		clock:  clock.Real(),
		loc:    time.Local,
		logger: zap.NewNop(),
		sink:   notify.Noop{},
	}
	for _, opt := range opts {
		opt(p)
	}

	st, err := loadState(ctx, kv, p.logger)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	p.tasks = NewTaskStore(nil)
	p.apply(st)

	p.timer = timer.NewEngine(p.clock,
		time.Duration(p.settings.DefaultStudyMinutes)*time.Minute,
		time.Duration(p.settings.DefaultBreakMinutes)*time.Minute)
	p.reminders = reminder.New(engine, p.tasks, p.sink,
		reminder.WithLocation(p.loc),
		reminder.WithLogger(p.logger.Named("reminder")),
		reminder.WithEnabled(func() bool { return p.settings.Reminders }))

	now := p.now()
	armed := p.reminders.RearmAll(p.tasks.All(), now)
	p.logger.Info("planner loaded",
		zap.Int("tasks", p.tasks.Len()),
		zap.Int("sessions", len(p.sessions)),
		zap.Int("reminders_armed", armed))

	if _, err := p.CheckAchievements(ctx); err != nil {
		p.logger.Warn("initial achievement save failed", zap.Error(err))
	}
	return p, nil
}

func (p *Planner) apply(st state) {
	p.tasks.Replace(st.tasks)
	p.goals = cloneSlice(st.goals)
	p.exams = cloneSlice(st.exams)
	p.materials = cloneSlice(st.materials)
	p.sessions = cloneSlice(st.sessions)
	p.settings = st.settings
	p.achievements = achievement.NewEngine(st.achievements)
}

func (p *Planner) now() time.Time {
	return p.clock.Now().In(p.loc)
}

func (p *Planner) Now() time.Time { return p.now() }

func (p *Planner) Location() *time.Location { return p.loc }

// Tasks

// CreateTask validates and stores a new task, then arms its reminder. On a
// persistence failure the task is kept in memory and returned together
// with the error.
func (p *Planner) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	now := p.now()
	t, err := p.tasks.Create(in, now)
	if err != nil {
		return model.Task{}, err
	}
	saveErr := p.saveTasks(ctx)
	if _, err := p.reminders.Arm(t, now); err != nil {
		p.logger.Warn("arm reminder failed", zap.String("task_id", t.ID), zap.Error(err))
	}
	return t, saveErr
}

// DeleteTask removes id. Unknown ids are ignored.
func (p *Planner) DeleteTask(ctx context.Context, id string) error {
	if p.tasks.Delete(id) {
		p.reminders.Disarm(id)
	}
	return p.saveTasks(ctx)
}

// ToggleTask flips completion on id. Unknown ids are ignored. Completing a
// task drops its pending reminder; reopening it arms a fresh one.
func (p *Planner) ToggleTask(ctx context.Context, id string) error {
	now := p.now()
	t, ok := p.tasks.Toggle(id, now)
	if !ok {
		return p.saveTasks(ctx)
	}
	if t.Completed {
		p.reminders.Disarm(id)
	} else if _, err := p.reminders.Arm(t, now); err != nil {
		p.logger.Warn("arm reminder failed", zap.String("task_id", id), zap.Error(err))
	}
	if err := p.saveTasks(ctx); err != nil {
		return err
	}
	_, err := p.CheckAchievements(ctx)
	return err
}

func (p *Planner) Task(id string) (model.Task, error) { return p.tasks.Get(id) }

func (p *Planner) AllTasks() []model.Task { return p.tasks.All() }

func (p *Planner) Tasks(f Filter) []model.Task { return p.tasks.Query(f, p.now()) }

// Sessions

func (p *Planner) Sessions() []model.StudySession {
	out := make([]model.StudySession, len(p.sessions))
	copy(out, p.sessions)
	return out
}

func (p *Planner) recordSession(ctx context.Context, s model.StudySession) error {
	p.sessions = append(p.sessions, s)
	return p.saveSessions(ctx)
}

// Timer

func (p *Planner) Timer() *timer.Engine { return p.timer }

// TickTimer advances the timer one second. A completed study phase logs a
// session and re-evaluates achievements; every phase change sends a short
// toast. The returned bool reports whether a phase ended.
func (p *Planner) TickTimer(ctx context.Context) (timer.Transition, bool, error) {
	tr, ok := p.timer.Tick()
	if !ok {
		return tr, false, nil
	}
	return tr, true, p.onTransition(ctx, tr)
}

// SkipPhase ends the current phase now with the same bookkeeping as
// running it out.
func (p *Planner) SkipPhase(ctx context.Context) (timer.Transition, error) {
	tr := p.timer.Skip()
	return tr, p.onTransition(ctx, tr)
}

func (p *Planner) onTransition(ctx context.Context, tr timer.Transition) error {
	now := p.now()
	if tr.Session == nil {
		p.sink.Send(notify.Toast(msgBreakDone, now))
		return nil
	}
	p.sink.Send(notify.Toast(msgSessionDone, now))
	// Streaks count days in the planner's location, not the clock's.
	tr.Session.Date = model.DayOf(tr.Session.CompletedAt.In(p.loc))
	if err := p.recordSession(ctx, *tr.Session); err != nil {
		return err
	}
	_, err := p.CheckAchievements(ctx)
	return err
}

// Analytics and achievements

func (p *Planner) Analytics() analytics.Engine {
	return analytics.New(p.tasks.All(), p.Sessions())
}

func (p *Planner) Snapshot() analytics.Snapshot {
	return p.Analytics().Snapshot(p.now())
}

// CheckAchievements unlocks anything newly earned, persists and announces
// it. It returns the new unlocks.
func (p *Planner) CheckAchievements(ctx context.Context) ([]model.Achievement, error) {
	now := p.now()
	fresh := p.achievements.Evaluate(achievement.FromSnapshot(p.Analytics().Snapshot(now)), now)
	if len(fresh) == 0 {
		return nil, nil
	}
	for _, a := range fresh {
		p.logger.Info("achievement unlocked", zap.String("id", a.ID))
		p.sink.Send(notify.Achievement(a.Title, a.Description, now))
	}
	return fresh, p.saveAchievements(ctx)
}

func (p *Planner) Achievements() []model.Achievement { return p.achievements.Unlocked() }

func (p *Planner) RecentAchievements(n int) []model.Achievement { return p.achievements.Recent(n) }

func (p *Planner) AchievementProgress() achievement.Progress {
	return achievement.ProgressOf(achievement.FromSnapshot(p.Snapshot()))
}

// Reminders

func (p *Planner) ReminderEvents() <-chan scheduler.ReminderEvent { return p.reminders.Events() }

// HandleReminder runs on the UI loop for each event the engine delivers.
func (p *Planner) HandleReminder(ev scheduler.ReminderEvent) bool {
	return p.reminders.Fire(ev, p.now())
}

// SweepReminders announces every incomplete task starting within the next
// fifteen minutes.
func (p *Planner) SweepReminders() int {
	return p.reminders.SweepUpcoming(p.tasks.All(), p.now())
}

func (p *Planner) PendingReminders() int { return p.reminders.Pending() }

// Settings

func (p *Planner) Settings() model.Settings { return p.settings }

// UpdateSettings applies fn, persists, and forwards changed timer
// durations to the timer engine.
func (p *Planner) UpdateSettings(ctx context.Context, fn func(*model.Settings)) error {
	next := p.settings
	fn(&next)
	next = next.Normalize()
	prev := p.settings
	p.settings = next
	if next.DefaultStudyMinutes != prev.DefaultStudyMinutes {
		p.timer.SetStudyMinutes(next.DefaultStudyMinutes)
	}
	if next.DefaultBreakMinutes != prev.DefaultBreakMinutes {
		p.timer.SetBreakMinutes(next.DefaultBreakMinutes)
	}
	return p.saveSettings(ctx)
}

// Export, import, clear

func (p *Planner) Document() backup.Document {
	settings := p.settings
	return backup.Document{
		Tasks:        p.tasks.All(),
		Goals:        cloneSlice(p.goals),
		Exams:        cloneSlice(p.exams),
		Materials:    cloneSlice(p.materials),
		Sessions:     p.Sessions(),
		Achievements: p.achievements.Unlocked(),
		Settings:     &settings,
		ExportDate:   p.now(),
	}
}

func (p *Planner) Export(w io.Writer) error {
	return backup.Encode(w, p.Document())
}

// Import replaces all state with the document read from r. The document is
// decoded completely first, so a malformed one leaves state untouched and
// yields a *model.ParseError.
func (p *Planner) Import(ctx context.Context, r io.Reader) error {
	doc, err := backup.Decode(r)
	if err != nil {
		return err
	}
	return p.Restore(ctx, doc)
}

// Restore installs doc, persists every key, re-arms reminders and
// re-evaluates achievements.
func (p *Planner) Restore(ctx context.Context, doc backup.Document) error {
	settings := p.settings
	if doc.Settings != nil {
		settings = doc.Settings.Normalize()
	}
	p.apply(state{
		tasks:        doc.Tasks,
		goals:        doc.Goals,
		exams:        doc.Exams,
		materials:    doc.Materials,
		sessions:     doc.Sessions,
		achievements: doc.Achievements,
		settings:     settings,
	})
	p.timer.SetStudyMinutes(settings.DefaultStudyMinutes)
	p.timer.SetBreakMinutes(settings.DefaultBreakMinutes)

	saveErr := p.saveAll(ctx)
	armed := p.reminders.RearmAll(p.tasks.All(), p.now())
	p.logger.Info("state restored", zap.Int("tasks", p.tasks.Len()), zap.Int("reminders_armed", armed))
	if _, err := p.CheckAchievements(ctx); err != nil && saveErr == nil {
		saveErr = err
	}
	return saveErr
}

// ClearAll wipes storage and resets every collection to its default. The
// timer returns to idle.
func (p *Planner) ClearAll(ctx context.Context) error {
	p.reminders.RearmAll(nil, p.now())
	p.apply(state{settings: model.DefaultSettings()})
	p.timer = timer.NewEngine(p.clock,
		time.Duration(p.settings.DefaultStudyMinutes)*time.Minute,
		time.Duration(p.settings.DefaultBreakMinutes)*time.Minute)
	if err := p.kv.Clear(ctx); err != nil {
		p.logger.Error("clear storage failed", zap.Error(err))
		return &model.PersistenceError{Key: "*", Err: err}
	}
	p.logger.Info("all data cleared")
	return nil
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
