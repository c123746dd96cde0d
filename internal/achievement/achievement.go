// Package achievement evaluates the fixed badge catalog against analytics
// metrics. Unlocks are append-only and never revoked.
package achievement

import (
	"time"

	"github.com/sandeepkv93/studyd/internal/analytics"
	"github.com/sandeepkv93/studyd/internal/model"
)

const (
	WeekStreak   = "week_streak"
	MonthStreak  = "month_streak"
	TaskMaster   = "task_master"
	TaskChampion = "task_champion"
	StudyHours   = "study_hours"
)

// Metrics is the subset of analytics the rules read.
type Metrics struct {
	Streak         int
	CompletedTasks int
	StudyHours     float64
}

func FromSnapshot(s analytics.Snapshot) Metrics {
	return Metrics{Streak: s.Streak, CompletedTasks: s.CompletedTasks, StudyHours: s.TotalStudyHours}
}

type Rule struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Satisfied   func(Metrics) bool
}

// Catalog is evaluated in this order; new unlocks are appended in it.
var Catalog = []Rule{
	{WeekStreak, "Week Warrior", "7-day study streak!", "fas fa-fire", func(m Metrics) bool { return m.Streak >= 7 }},
	{MonthStreak, "Monthly Master", "30-day study streak!", "fas fa-calendar-alt", func(m Metrics) bool { return m.Streak >= 30 }},
	{TaskMaster, "Task Master", "Completed 10 tasks!", "fas fa-check-circle", func(m Metrics) bool { return m.CompletedTasks >= 10 }},
	{TaskChampion, "Task Champion", "Completed 100 tasks!", "fas fa-trophy", func(m Metrics) bool { return m.CompletedTasks >= 100 }},
	{StudyHours, "Study Hours", "50 hours of study!", "fas fa-clock", func(m Metrics) bool { return m.StudyHours >= 50 }},
}

type Engine struct {
	unlocked []model.Achievement
}

// NewEngine seeds the engine with previously persisted unlocks. Duplicate
// ids keep their first occurrence.
func NewEngine(existing []model.Achievement) *Engine {
	e := &Engine{}
	seen := map[string]struct{}{}
	for _, a := range existing {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		e.unlocked = append(e.unlocked, a)
	}
	return e
}

func (e *Engine) Has(id string) bool {
	for _, a := range e.unlocked {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Evaluate unlocks every satisfied rule not yet held, stamping now, and
// returns only the new ones. Calling it again with the same metrics
// returns nothing.
func (e *Engine) Evaluate(m Metrics, now time.Time) []model.Achievement {
	var fresh []model.Achievement
	for _, rule := range Catalog {
		if e.Has(rule.ID) || !rule.Satisfied(m) {
			continue
		}
		a := model.Achievement{
			ID:          rule.ID,
			Title:       rule.Title,
			Description: rule.Description,
			Icon:        rule.Icon,
			UnlockedAt:  now,
		}
		e.unlocked = append(e.unlocked, a)
		fresh = append(fresh, a)
	}
	return fresh
}

func (e *Engine) Unlocked() []model.Achievement {
	out := make([]model.Achievement, len(e.unlocked))
	copy(out, e.unlocked)
	return out
}

// Recent returns up to n most recent unlocks, newest first.
func (e *Engine) Recent(n int) []model.Achievement {
	if n <= 0 {
		return nil
	}
	start := len(e.unlocked) - n
	if start < 0 {
		start = 0
	}
	out := make([]model.Achievement, 0, len(e.unlocked)-start)
	for i := len(e.unlocked) - 1; i >= start; i-- {
		out = append(out, e.unlocked[i])
	}
	return out
}

// ProgressTargets are the bar scales shown next to the counters.
const (
	StreakTarget = 7
	TasksTarget  = 50
	HoursTarget  = 100
)

type Progress struct {
	Streak float64
	Tasks  float64
	Hours  float64
}

func ProgressOf(m Metrics) Progress {
	return Progress{
		Streak: fraction(float64(m.Streak), StreakTarget),
		Tasks:  fraction(float64(m.CompletedTasks), TasksTarget),
		Hours:  fraction(m.StudyHours, HoursTarget),
	}
}

func fraction(v, target float64) float64 {
	if v <= 0 {
		return 0
	}
	if v >= target {
		return 1
	}
	return v / target
}
