package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidPriority = errors.New("model: invalid task priority")

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting; unknown values sort with low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityLow, nil
	}
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

const DefaultTaskMinutes = 60

type Task struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	Priority        Priority   `json:"priority"`
	Subject         string     `json:"subject"`
	DurationMinutes int        `json:"duration"`
	Completed       bool       `json:"completed"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt"`
}

// TaskInput carries the user-supplied fields for a new task.
type TaskInput struct {
	Title           string
	Date            string
	Time            string
	Priority        string
	Subject         string
	DurationMinutes int
}

func (in TaskInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(in.Date) == "" {
		return &ValidationError{Field: "date", Message: "date is required"}
	}
	if _, err := ParseDate(in.Date, time.UTC); err != nil {
		return &ValidationError{Field: "date", Message: err.Error()}
	}
	if strings.TrimSpace(in.Time) == "" {
		return &ValidationError{Field: "time", Message: "time is required"}
	}
	if _, _, err := ParseClock(in.Time); err != nil {
		return &ValidationError{Field: "time", Message: err.Error()}
	}
	if _, err := ParsePriority(in.Priority); err != nil {
		return &ValidationError{Field: "priority", Message: err.Error()}
	}
	if in.DurationMinutes < 0 {
		return &ValidationError{Field: "duration", Message: "duration must be positive"}
	}
	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.Completed && t.CompletedAt == nil {
		return errors.New("model: completed_at is required when task is completed")
	}
	if !t.Completed && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task is not completed")
	}
	return nil
}

// Due returns the task's scheduled instant in loc. Tasks without a clock
// time are not schedulable.
func (t Task) Due(loc *time.Location) (time.Time, bool) {
	if strings.TrimSpace(t.Time) == "" {
		return time.Time{}, false
	}
	day, err := ParseDate(t.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	h, m, err := ParseClock(t.Time)
	if err != nil {
		return time.Time{}, false
	}
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location()), true
}

// SetCompleted flips completion and keeps CompletedAt in step with it.
func (t *Task) SetCompleted(done bool, at time.Time) {
	t.Completed = done
	if done {
		stamp := at
		t.CompletedAt = &stamp
		return
	}
	t.CompletedAt = nil
}
