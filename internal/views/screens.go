package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	Index     int
	Title     string
	Date      string
	Time      string
	Priority  string
	Subject   string
	Minutes   int
	Completed bool
}

type TasksPanelData struct {
	Filter    string
	TableView string
	Rows      []TaskRowData
	Cursor    int
	Total     int
	Done      int
	Progress  int
	TodayHrs  float64
}

type TimerPanelData struct {
	Phase        string
	Status       string
	Remaining    string
	ProgressView string
	ProgressPct  int
	Sessions     int
	Breaks       int
	StudyMinutes int
	BreakMinutes int
}

type ExamRowData struct {
	Title     string
	When      string
	Minutes   int
	Subject   string
	Countdown string
	Expired   bool
}

type ExamsPanelData struct {
	Section        string
	TableView      string
	Countdowns     []ExamRowData
	Goals          []string
	GoalCursor     int
	Materials      []string
	MaterialCursor int
}

type CalendarTaskData struct {
	Time      string
	Title     string
	Priority  string
	Minutes   int
	Completed bool
}

type CalendarDayData struct {
	Date    string
	Weekday string
	Day     int
	Today   bool
	Tasks   []CalendarTaskData
}

// CalendarPanelData.Lead is the number of blank cells before day 1 in
// month mode.
type CalendarPanelData struct {
	Mode  string
	Title string
	Lead  int
	Days  []CalendarDayData
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

type ToastData struct {
	Kind  string
	Title string
	Body  string
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("tasks: %s\n", data.Filter))
	b.WriteString(fmt.Sprintf("%d tasks | %d completed | %d%% complete | %.1fh today\n", data.Total, data.Done, data.Progress, data.TodayHrs))
	b.WriteString("actions: [j/k]move [x]toggle [d]delete [f]filter [a]add\n")
	if len(data.Rows) == 0 {
		b.WriteString("\nNo tasks found. Add some study tasks to get started!")
		return b.String()
	}
	if data.TableView != "" {
		b.WriteString(data.TableView)
		return strings.TrimSpace(b.String())
	}
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		check := "[ ]"
		if row.Completed {
			check = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %d. %s %s %s %s %s", cursor, row.Index, check, priorityBadge(row.Priority), row.Title, row.Date, row.Time))
		if row.Subject != "" {
			b.WriteString(" #" + row.Subject)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderTimerPanel(data TimerPanelData) string {
	var b strings.Builder
	b.WriteString("timer:\n")
	b.WriteString(fmt.Sprintf("phase: %s (%s)\n", strings.ToUpper(data.Phase), data.Status))
	b.WriteString(fmt.Sprintf("remaining: %s\n", data.Remaining))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("sessions: %d | breaks: %d\n", data.Sessions, data.Breaks))
	b.WriteString(fmt.Sprintf("study %dm / break %dm\n", data.StudyMinutes, data.BreakMinutes))
	b.WriteString("actions: [space]start/pause [r]reset [n]skip phase")
	return b.String()
}

func RenderExamsPanel(data ExamsPanelData) string {
	var b strings.Builder
	b.WriteString(sectionTitle("exams", data.Section) + "\n")
	if len(data.Countdowns) == 0 {
		b.WriteString("  No exams scheduled. Add your first exam!\n")
	}
	for _, c := range data.Countdowns {
		b.WriteString(fmt.Sprintf("  %s  %s (%s, %dm)\n", padRight(c.Countdown, 12), c.Title, c.When, c.Minutes))
	}
	if data.TableView != "" {
		b.WriteString("\n" + data.TableView + "\n")
	}
	b.WriteString("\n" + sectionTitle("goals", data.Section) + "\n")
	writeList(&b, data.Goals, cursorFor("goals", data.Section, data.GoalCursor))
	b.WriteString("\n" + sectionTitle("materials", data.Section) + "\n")
	writeList(&b, data.Materials, cursorFor("materials", data.Section, data.MaterialCursor))
	b.WriteString("actions: [s]section [j/k]move [d]delete")
	return b.String()
}

const (
	// monthPreview caps how many tasks a day lists before "+N more".
	monthPreview = 3
	monthCell    = 8
)

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("calendar: %s | %s\n", data.Mode, data.Title))
	b.WriteString("actions: [w]week [m]month [h/l]period [t]today\n")
	if data.Mode == "month" {
		writeMonthGrid(&b, data)
		for _, day := range data.Days {
			if len(day.Tasks) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("\n%s:\n", day.Date))
			for i, task := range day.Tasks {
				if i == monthPreview {
					b.WriteString(fmt.Sprintf("  +%d more\n", len(day.Tasks)-monthPreview))
					break
				}
				b.WriteString(fmt.Sprintf("  %s %s\n", checkMark(task.Completed), truncate(task.Title, 15)))
			}
		}
		return strings.TrimSpace(b.String())
	}

	for _, day := range data.Days {
		marker := " "
		if day.Today {
			marker = "*"
		}
		b.WriteString(fmt.Sprintf("\n%s %s %2d (%s)\n", marker, day.Weekday, day.Day, day.Date))
		if len(day.Tasks) == 0 {
			b.WriteString("    -\n")
			continue
		}
		for _, task := range day.Tasks {
			b.WriteString(fmt.Sprintf("    %s %s %s %s %dmin\n", checkMark(task.Completed), task.Time, priorityBadge(task.Priority), task.Title, task.Minutes))
		}
	}
	return strings.TrimSpace(b.String())
}

// writeMonthGrid draws a Sunday-first grid; days with tasks show a count.
func writeMonthGrid(b *strings.Builder, data CalendarPanelData) {
	b.WriteString("\n")
	for _, name := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		b.WriteString(padRight(" "+name, monthCell))
	}
	b.WriteString("\n")
	col := 0
	for ; col < data.Lead; col++ {
		b.WriteString(strings.Repeat(" ", monthCell))
	}
	for _, day := range data.Days {
		cell := fmt.Sprintf("%3d", day.Day)
		if day.Today {
			cell = fmt.Sprintf("[%2d]", day.Day)
		}
		if n := len(day.Tasks); n > 0 {
			cell += fmt.Sprintf("(%d)", n)
		}
		b.WriteString(padRight(cell, monthCell))
		col++
		if col%7 == 0 {
			b.WriteString("\n")
		}
	}
	if col%7 != 0 {
		b.WriteString("\n")
	}
}

func checkMark(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderToasts(toasts []ToastData) string {
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		line := fmt.Sprintf("[%s] %s", strings.ToUpper(t.Kind), t.Body)
		if t.Title != "" {
			line = fmt.Sprintf("[%s] %s: %s", strings.ToUpper(t.Kind), t.Title, t.Body)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

// writeList marks the row at cursor; pass -1 for no marker.
func writeList(b *strings.Builder, items []string, cursor int) {
	if len(items) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for i, item := range items {
		marker := "  - "
		if i == cursor {
			marker = "> - "
		}
		b.WriteString(marker + item + "\n")
	}
}

func sectionTitle(name, focused string) string {
	title := name + ":"
	if name == "exams" {
		title = "upcoming exams:"
	}
	if name == focused {
		return "* " + title
	}
	return title
}

func cursorFor(name, focused string, cursor int) int {
	if name != focused {
		return -1
	}
	return cursor
}

func priorityBadge(p string) string {
	switch p {
	case "high":
		return "[RED]"
	case "medium":
		return "[YELLOW]"
	default:
		return "[GREEN]"
	}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
