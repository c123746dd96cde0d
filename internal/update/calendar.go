package update

import (
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/views"
)

type CalendarMode string

const (
	CalendarModeWeek  CalendarMode = "week"
	CalendarModeMonth CalendarMode = "month"
)

type CalendarState struct {
	Mode      CalendarMode
	FocusDate time.Time
}

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	m.ensureCalendarState()
	switch msg.String() {
	case "w":
		m.Calendar.Mode = CalendarModeWeek
		m.Status = StatusBar{Text: "calendar mode: week"}
	case "m":
		m.Calendar.Mode = CalendarModeMonth
		m.Status = StatusBar{Text: "calendar mode: month"}
	case "h", "left":
		m.shiftCalendarFocus(-1)
	case "l", "right":
		m.shiftCalendarFocus(1)
	case "t":
		m.Calendar.FocusDate = m.Planner.Now()
		m.Status = StatusBar{Text: "calendar focus: today"}
	}
	return m
}

func (m *Model) shiftCalendarFocus(delta int) {
	focus := m.Calendar.FocusDate
	switch m.Calendar.Mode {
	case CalendarModeMonth:
		// Pin to the 1st so Jan 31 + 1 month lands in February.
		y, mo, _ := focus.Date()
		m.Calendar.FocusDate = time.Date(y, mo+time.Month(delta), 1, 0, 0, 0, 0, focus.Location())
	default:
		m.Calendar.FocusDate = focus.AddDate(0, 0, 7*delta)
	}
	m.Status = StatusBar{Text: fmt.Sprintf("calendar focus: %s", model.DayOf(m.Calendar.FocusDate))}
}

func (m *Model) ensureCalendarState() {
	if m.Calendar.Mode == "" {
		m.Calendar.Mode = CalendarModeWeek
	}
	if m.Calendar.FocusDate.IsZero() {
		m.Calendar.FocusDate = m.Planner.Now()
	}
}

// calendarDays lists the days of the focused period with their tasks,
// ordered by start time.
func (m Model) calendarDays() []views.CalendarDayData {
	byDate := make(map[string][]model.Task)
	for _, t := range m.Planner.AllTasks() {
		byDate[t.Date] = append(byDate[t.Date], t)
	}
	today := model.DayOf(m.Planner.Now())

	focus := m.Calendar.FocusDate
	var first time.Time
	var n int
	if m.Calendar.Mode == CalendarModeMonth {
		y, mo, _ := focus.Date()
		first = time.Date(y, mo, 1, 0, 0, 0, 0, focus.Location())
		n = first.AddDate(0, 1, -1).Day()
	} else {
		start, _ := model.WeekWindow(focus)
		parsed, err := model.ParseDate(start, focus.Location())
		if err != nil {
			return nil
		}
		first, n = parsed, 7
	}

	days := make([]views.CalendarDayData, 0, n)
	for i := 0; i < n; i++ {
		day := first.AddDate(0, 0, i)
		date := model.DayOf(day)
		tasks := byDate[date]
		sort.SliceStable(tasks, func(a, b int) bool { return tasks[a].Time < tasks[b].Time })
		rows := make([]views.CalendarTaskData, 0, len(tasks))
		for _, t := range tasks {
			rows = append(rows, views.CalendarTaskData{
				Time:      t.Time,
				Title:     t.Title,
				Priority:  string(t.Priority),
				Minutes:   t.DurationMinutes,
				Completed: t.Completed,
			})
		}
		days = append(days, views.CalendarDayData{
			Date:    date,
			Weekday: day.Weekday().String()[:3],
			Day:     day.Day(),
			Today:   date == today,
			Tasks:   rows,
		})
	}
	return days
}

func (m Model) renderCalendarView() string {
	m.ensureCalendarState()
	days := m.calendarDays()
	data := views.CalendarPanelData{Mode: string(m.Calendar.Mode), Days: days}
	if m.Calendar.Mode == CalendarModeMonth {
		data.Title = m.Calendar.FocusDate.Format("January 2006")
		if len(days) > 0 {
			first, _ := model.ParseDate(days[0].Date, time.UTC)
			data.Lead = int(first.Weekday())
		}
	} else {
		start, end := model.WeekWindow(m.Calendar.FocusDate)
		data.Title = fmt.Sprintf("%s to %s", start, end)
	}
	return views.RenderCalendarPanel(data)
}
