package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/studyd/internal/model"
)

func newID() string { return uuid.Must(uuid.NewV7()).String() }

// Goals

func (p *Planner) AddGoal(ctx context.Context, in model.GoalInput) (model.Goal, error) {
	if err := in.Validate(); err != nil {
		return model.Goal{}, err
	}
	g := model.Goal{
		ID:          newID(),
		Title:       strings.TrimSpace(in.Title),
		Subject:     strings.TrimSpace(in.Subject),
		Deadline:    strings.TrimSpace(in.Deadline),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   p.now(),
	}
	p.goals = append(p.goals, g)
	return g, p.saveGoals(ctx)
}

func (p *Planner) DeleteGoal(ctx context.Context, id string) error {
	p.goals = removeByID(p.goals, id, func(g model.Goal) string { return g.ID })
	return p.saveGoals(ctx)
}

func (p *Planner) Goals() []model.Goal { return cloneSlice(p.goals) }

// Exams

func (p *Planner) AddExam(ctx context.Context, in model.ExamInput) (model.Exam, error) {
	if err := in.Validate(); err != nil {
		return model.Exam{}, err
	}
	when, _ := model.ParseDateTime(in.DateTime, p.loc)
	e := model.Exam{
		ID:              newID(),
		Title:           strings.TrimSpace(in.Title),
		Subject:         strings.TrimSpace(in.Subject),
		DateTime:        when.Format(model.DateTimeLayout),
		DurationMinutes: in.DurationMinutes,
		Type:            strings.TrimSpace(in.Type),
		Notes:           strings.TrimSpace(in.Notes),
		CreatedAt:       p.now(),
	}
	p.exams = append(p.exams, e)
	return e, p.saveExams(ctx)
}

func (p *Planner) DeleteExam(ctx context.Context, id string) error {
	p.exams = removeByID(p.exams, id, func(e model.Exam) string { return e.ID })
	return p.saveExams(ctx)
}

// Exams returns every exam ordered by date and time. Exams with an
// unreadable date sort last.
func (p *Planner) Exams() []model.Exam {
	out := cloneSlice(p.exams)
	sort.SliceStable(out, func(i, j int) bool {
		ti, okI := p.examTime(out[i])
		tj, okJ := p.examTime(out[j])
		if okI != okJ {
			return okI
		}
		return ti.Before(tj)
	})
	return out
}

func (p *Planner) examTime(e model.Exam) (time.Time, bool) {
	t, err := model.ParseDateTime(e.DateTime, p.loc)
	return t, err == nil
}

// UpcomingExamLimit is how many countdowns are shown.
const UpcomingExamLimit = 3

type ExamCountdown struct {
	Exam    model.Exam
	Label   string
	Expired bool
}

// ExamCountdowns labels the first three exams in date order relative to
// now. Past exams are included and marked expired.
func (p *Planner) ExamCountdowns(now time.Time) []ExamCountdown {
	exams := p.Exams()
	if len(exams) > UpcomingExamLimit {
		exams = exams[:UpcomingExamLimit]
	}
	out := make([]ExamCountdown, 0, len(exams))
	for _, e := range exams {
		at, ok := p.examTime(e)
		if !ok {
			out = append(out, ExamCountdown{Exam: e, Label: "EXPIRED", Expired: true})
			continue
		}
		label, expired := CountdownLabel(at.Sub(now))
		out = append(out, ExamCountdown{Exam: e, Label: label, Expired: expired})
	}
	return out
}

// CountdownLabel formats the time left as "Xd Yh Zm", "Yh Zm" or "Zm", or
// "EXPIRED" once it is not positive.
func CountdownLabel(left time.Duration) (string, bool) {
	if left <= 0 {
		return "EXPIRED", true
	}
	days := int(left / (24 * time.Hour))
	hours := int(left % (24 * time.Hour) / time.Hour)
	minutes := int(left % time.Hour / time.Minute)
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes), false
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes), false
	default:
		return fmt.Sprintf("%dm", minutes), false
	}
}

// Materials

func (p *Planner) AddMaterial(ctx context.Context, in model.MaterialInput) (model.Material, error) {
	if err := in.Validate(); err != nil {
		return model.Material{}, err
	}
	m := model.Material{
		ID:          newID(),
		Title:       strings.TrimSpace(in.Title),
		Type:        strings.TrimSpace(in.Type),
		Subject:     strings.TrimSpace(in.Subject),
		URL:         strings.TrimSpace(in.URL),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   p.now(),
	}
	p.materials = append(p.materials, m)
	return m, p.saveMaterials(ctx)
}

func (p *Planner) DeleteMaterial(ctx context.Context, id string) error {
	p.materials = removeByID(p.materials, id, func(m model.Material) string { return m.ID })
	return p.saveMaterials(ctx)
}

func (p *Planner) Materials() []model.Material { return cloneSlice(p.materials) }

func removeByID[T any](in []T, id string, key func(T) string) []T {
	out := in[:0]
	for _, item := range in {
		if key(item) != id {
			out = append(out, item)
		}
	}
	return out
}
