package planner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/studyd/internal/model"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterToday     Filter = "today"
	FilterThisWeek  Filter = "this-week"
)

var Filters = []Filter{FilterAll, FilterPending, FilterCompleted, FilterToday, FilterThisWeek}

func ParseFilter(raw string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case "":
		return FilterAll, nil
	case "week", "thisweek":
		return FilterThisWeek, nil
	}
	for _, known := range Filters {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q", raw)
}

// TaskStore is the in-memory task collection in insertion order. It does
// no I/O; the Planner persists after each mutation.
type TaskStore struct {
	tasks []model.Task
}

func NewTaskStore(tasks []model.Task) *TaskStore {
	s := &TaskStore{}
	s.Replace(tasks)
	return s
}

// Create validates in and appends a new task stamped with now.
func (s *TaskStore) Create(in model.TaskInput, now time.Time) (model.Task, error) {
	if err := in.Validate(); err != nil {
		return model.Task{}, err
	}
	priority, _ := model.ParsePriority(in.Priority)
	duration := in.DurationMinutes
	if duration == 0 {
		duration = model.DefaultTaskMinutes
	}
	t := model.Task{
		ID:              uuid.Must(uuid.NewV7()).String(),
		Title:           strings.TrimSpace(in.Title),
		Date:            strings.TrimSpace(in.Date),
		Time:            strings.TrimSpace(in.Time),
		Priority:        priority,
		Subject:         strings.TrimSpace(in.Subject),
		DurationMinutes: duration,
		CreatedAt:       now,
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

// Delete removes id and reports whether it existed.
func (s *TaskStore) Delete(id string) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle flips completion on id, returning the updated task.
func (s *TaskStore) Toggle(id string, now time.Time) (model.Task, bool) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].SetCompleted(!s.tasks[i].Completed, now)
			return s.tasks[i], true
		}
	}
	return model.Task{}, false
}

func (s *TaskStore) Get(id string) (model.Task, error) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
}

func (s *TaskStore) All() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *TaskStore) Len() int { return len(s.tasks) }

func (s *TaskStore) Replace(tasks []model.Task) {
	s.tasks = make([]model.Task, len(tasks))
	copy(s.tasks, tasks)
}

// Query returns the tasks matching f, incomplete first, then by priority
// high to low, otherwise in insertion order.
func (s *TaskStore) Query(f Filter, now time.Time) []model.Task {
	today := model.DayOf(now)
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if matches(t, f, today, now) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}
		return out[i].Priority.Rank() > out[j].Priority.Rank()
	})
	return out
}

func matches(t model.Task, f Filter, today string, now time.Time) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	case FilterToday:
		return t.Date == today
	case FilterThisWeek:
		return model.InWeek(t.Date, now)
	default:
		return true
	}
}
