package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/planner"
	"github.com/sandeepkv93/studyd/internal/views"
)

func (m Model) visibleTasks() []model.Task {
	return m.Planner.Tasks(m.Filter)
}

func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.visibleTasks()
	if m.TaskCursor < 0 || m.TaskCursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.TaskCursor], true
}

// taskAt resolves a 1-based index into the visible list.
func (m Model) taskAt(index int) (model.Task, error) {
	tasks := m.visibleTasks()
	if index < 1 || index > len(tasks) {
		return model.Task{}, fmt.Errorf("no task #%d in %s view", index, m.Filter)
	}
	return tasks[index-1], nil
}

func (m Model) handleTasksKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.TaskCursor = clampCursor(m.TaskCursor+1, len(m.visibleTasks()))
	case "k", "up":
		m.TaskCursor = clampCursor(m.TaskCursor-1, len(m.visibleTasks()))
	case " ", "x":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if err := m.Planner.ToggleTask(m.ctx, t.ID); err != nil {
			m.fail(err)
			return m, nil
		}
		if t.Completed {
			m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", t.Title)}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("completed: %s", t.Title)}
		}
	case "d":
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if err := m.Planner.DeleteTask(m.ctx, t.ID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", t.Title)}
	case "f":
		m.Filter = nextFilter(m.Filter)
		m.TaskCursor = 0
		m.Status = StatusBar{Text: fmt.Sprintf("filter: %s", m.Filter)}
	case "a":
		return m.openPalette("add "), nil
	}
	return m, nil
}

func nextFilter(f planner.Filter) planner.Filter {
	for i, known := range planner.Filters {
		if known == f {
			return planner.Filters[(i+1)%len(planner.Filters)]
		}
	}
	return planner.FilterAll
}

func (m Model) renderTasksView() string {
	tasks := m.visibleTasks()
	rows := make([]views.TaskRowData, 0, len(tasks))
	for i, t := range tasks {
		rows = append(rows, views.TaskRowData{
			Index:     i + 1,
			Title:     t.Title,
			Date:      t.Date,
			Time:      t.Time,
			Priority:  string(t.Priority),
			Subject:   t.Subject,
			Minutes:   t.DurationMinutes,
			Completed: t.Completed,
		})
	}
	snap := m.Planner.Snapshot()
	return views.RenderTasksPanel(views.TasksPanelData{
		Filter:    string(m.Filter),
		TableView: m.taskTable.View(),
		Rows:      rows,
		Cursor:    m.TaskCursor,
		Total:     snap.TotalTasks,
		Done:      snap.CompletedTasks,
		Progress:  snap.OverallProgress,
		TodayHrs:  snap.TodayHours,
	})
}
