// Package timer implements the Pomodoro study/break loop as a state machine
// advanced by explicit one-second ticks.
package timer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/studyd/internal/clock"
	"github.com/sandeepkv93/studyd/internal/model"
)

type Phase string

const (
	PhaseStudy Phase = "study"
	PhaseBreak Phase = "break"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

const (
	DefaultStudy = 25 * time.Minute
	DefaultBreak = 5 * time.Minute
)

// Transition describes a completed phase. Session is set only when a study
// phase ended.
type Transition struct {
	From    Phase
	To      Phase
	Session *model.StudySession
}

type State struct {
	Status       Status
	Phase        Phase
	Remaining    time.Duration
	Total        time.Duration
	SessionCount int
	BreakCount   int
}

type Engine struct {
	clock        clock.Clock
	study        time.Duration
	brk          time.Duration
	status       Status
	phase        Phase
	remaining    time.Duration
	sessionCount int
	breakCount   int
	// generation changes whenever a tick loop should be abandoned
	generation uint64
}

func NewEngine(c clock.Clock, study, brk time.Duration) *Engine {
	if c == nil {
		c = clock.Real()
	}
	if study < time.Second {
		study = DefaultStudy
	}
	if brk < time.Second {
		brk = DefaultBreak
	}
	return &Engine{
		clock:     c,
		study:     study,
		brk:       brk,
		status:    StatusIdle,
		phase:     PhaseStudy,
		remaining: study,
	}
}

func (e *Engine) State() State {
	return State{
		Status:       e.status,
		Phase:        e.phase,
		Remaining:    e.remaining,
		Total:        e.phaseDuration(e.phase),
		SessionCount: e.sessionCount,
		BreakCount:   e.breakCount,
	}
}

// Generation identifies the current run. Tick sources capture it at Start
// and drop ticks once it no longer matches.
func (e *Engine) Generation() uint64 { return e.generation }

// Start moves Idle or Paused to Running. It reports false if already
// running.
func (e *Engine) Start() bool {
	if e.status == StatusRunning {
		return false
	}
	e.status = StatusRunning
	e.generation++
	return true
}

// Pause moves Running to Paused and preserves the remaining time exactly.
func (e *Engine) Pause() bool {
	if e.status != StatusRunning {
		return false
	}
	e.status = StatusPaused
	e.generation++
	return true
}

func (e *Engine) Reset() {
	e.status = StatusIdle
	e.phase = PhaseStudy
	e.remaining = e.study
	e.generation++
}

// Tick advances the countdown by one second. It is a no-op unless the
// engine is Running, so a tick delivered after Pause changes nothing.
func (e *Engine) Tick() (Transition, bool) {
	if e.status != StatusRunning {
		return Transition{}, false
	}
	e.remaining -= time.Second
	if e.remaining > 0 {
		return Transition{}, false
	}
	return e.completePhase(), true
}

// Skip ends the current phase immediately with the same bookkeeping as a
// natural expiry.
func (e *Engine) Skip() Transition {
	return e.completePhase()
}

func (e *Engine) completePhase() Transition {
	if e.phase == PhaseStudy {
		e.sessionCount++
		now := e.clock.Now()
		session := model.StudySession{
			ID:              uuid.Must(uuid.NewV7()).String(),
			Date:            model.DayOf(now),
			DurationMinutes: int(e.study / time.Minute),
			Type:            model.SessionTypeStudy,
			CompletedAt:     now,
		}
		e.phase = PhaseBreak
		e.remaining = e.brk
		return Transition{From: PhaseStudy, To: PhaseBreak, Session: &session}
	}
	e.breakCount++
	e.phase = PhaseStudy
	e.remaining = e.study
	return Transition{From: PhaseBreak, To: PhaseStudy}
}

// SetStudyDuration applies to the current interval only while Idle in the
// study phase; otherwise it takes effect at the next study phase.
func (e *Engine) SetStudyDuration(d time.Duration) {
	if d < time.Second {
		return
	}
	e.study = d
	if e.status == StatusIdle && e.phase == PhaseStudy {
		e.remaining = d
	}
}

// SetBreakDuration only affects future breaks.
func (e *Engine) SetBreakDuration(d time.Duration) {
	if d < time.Second {
		return
	}
	e.brk = d
}

func (e *Engine) StudyDuration() time.Duration { return e.study }

func (e *Engine) BreakDuration() time.Duration { return e.brk }

func (e *Engine) phaseDuration(p Phase) time.Duration {
	if p == PhaseBreak {
		return e.brk
	}
	return e.study
}

// Progress is the elapsed fraction of the current phase in [0, 1].
func (s State) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	p := 1 - float64(s.Remaining)/float64(s.Total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (e *Engine) SetStudyMinutes(n int) { e.SetStudyDuration(time.Duration(n) * time.Minute) }

func (e *Engine) SetBreakMinutes(n int) { e.SetBreakDuration(time.Duration(n) * time.Minute) }

// FormatRemaining renders a duration as MM:SS.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
