// Package analytics derives read-only metrics from tasks and study sessions.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/sandeepkv93/studyd/internal/model"
)

// MaxStreakDays bounds how far back CurrentStreak looks.
const MaxStreakDays = 365

// Engine holds a point-in-time view of the collections it reports on.
// Callers build a fresh one after every mutation.
type Engine struct {
	tasks    []model.Task
	sessions []model.StudySession
}

func New(tasks []model.Task, sessions []model.StudySession) Engine {
	return Engine{tasks: tasks, sessions: sessions}
}

// CurrentStreak counts consecutive qualifying days ending at today. A day
// qualifies with a study session of positive length or a completed task
// dated that day.
func (e Engine) CurrentStreak(today time.Time) int {
	active := make(map[string]struct{}, len(e.sessions)+len(e.tasks))
	for _, s := range e.sessions {
		if s.DurationMinutes > 0 {
			active[s.Date] = struct{}{}
		}
	}
	for _, t := range e.tasks {
		if t.Completed {
			active[t.Date] = struct{}{}
		}
	}

	y, m, d := today.Date()
	streak := 0
	for i := 0; i < MaxStreakDays; i++ {
		day := model.DayOf(time.Date(y, m, d-i, 12, 0, 0, 0, today.Location()))
		if _, ok := active[day]; !ok {
			break
		}
		streak++
	}
	return streak
}

// WeeklyCompletionRate is the rounded percentage of this week's tasks that
// are completed, or 0 when the week has none.
func (e Engine) WeeklyCompletionRate(now time.Time) int {
	total, done := 0, 0
	for _, t := range e.tasks {
		if !model.InWeek(t.Date, now) {
			continue
		}
		total++
		if t.Completed {
			done++
		}
	}
	return percent(done, total)
}

// OverallProgress is the rounded percentage of all tasks completed.
func (e Engine) OverallProgress() int {
	return percent(e.CompletedTaskCount(), len(e.tasks))
}

type SubjectCount struct {
	Subject string
	Count   int
}

// SubjectDistribution counts tasks per non-empty subject, ordered by first
// appearance.
func (e Engine) SubjectDistribution() []SubjectCount {
	index := map[string]int{}
	var out []SubjectCount
	for _, t := range e.tasks {
		if t.Subject == "" {
			continue
		}
		if i, ok := index[t.Subject]; ok {
			out[i].Count++
			continue
		}
		index[t.Subject] = len(out)
		out = append(out, SubjectCount{Subject: t.Subject, Count: 1})
	}
	return out
}

// TotalStudyHours sums the duration of completed tasks, unrounded.
func (e Engine) TotalStudyHours() float64 {
	minutes := 0
	for _, t := range e.tasks {
		if t.Completed {
			minutes += t.DurationMinutes
		}
	}
	return float64(minutes) / 60
}

// WeeklyHours sums completed task minutes inside now's week, rounded to a
// tenth of an hour.
func (e Engine) WeeklyHours(now time.Time) float64 {
	minutes := 0
	for _, t := range e.tasks {
		if t.Completed && model.InWeek(t.Date, now) {
			minutes += t.DurationMinutes
		}
	}
	return roundTenth(float64(minutes) / 60)
}

// TodayHours sums completed task minutes dated today, rounded to a tenth.
func (e Engine) TodayHours(now time.Time) float64 {
	today := model.DayOf(now)
	minutes := 0
	for _, t := range e.tasks {
		if t.Completed && t.Date == today {
			minutes += t.DurationMinutes
		}
	}
	return roundTenth(float64(minutes) / 60)
}

func (e Engine) CompletedTaskCount() int {
	n := 0
	for _, t := range e.tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// SessionMinutes sums logged study session minutes per date, dates ascending.
func (e Engine) SessionMinutes() []DayMinutes {
	byDay := map[string]int{}
	for _, s := range e.sessions {
		byDay[s.Date] += s.DurationMinutes
	}
	out := make([]DayMinutes, 0, len(byDay))
	for day, mins := range byDay {
		out = append(out, DayMinutes{Date: day, Minutes: mins})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

type DayMinutes struct {
	Date    string
	Minutes int
}

// Snapshot bundles every metric the UI and the achievement rules read.
type Snapshot struct {
	Streak               int
	CompletedTasks       int
	TotalTasks           int
	TotalStudyHours      float64
	WeeklyHours          float64
	TodayHours           float64
	WeeklyCompletionRate int
	OverallProgress      int
	SessionCount         int
	Subjects             []SubjectCount
}

func (e Engine) Snapshot(now time.Time) Snapshot {
	return Snapshot{
		Streak:               e.CurrentStreak(now),
		CompletedTasks:       e.CompletedTaskCount(),
		TotalTasks:           len(e.tasks),
		TotalStudyHours:      e.TotalStudyHours(),
		WeeklyHours:          e.WeeklyHours(now),
		TodayHours:           e.TodayHours(now),
		WeeklyCompletionRate: e.WeeklyCompletionRate(now),
		OverallProgress:      e.OverallProgress(),
		SessionCount:         len(e.sessions),
		Subjects:             e.SubjectDistribution(),
	}
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
