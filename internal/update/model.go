package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/studyd/internal/notify"
	"github.com/sandeepkv93/studyd/internal/planner"
	"github.com/sandeepkv93/studyd/internal/reminder"
	"github.com/sandeepkv93/studyd/internal/scheduler"
)

type View string

const (
	ViewTasks    View = "Tasks"
	ViewTimer    View = "Timer"
	ViewStats    View = "Stats"
	ViewExams    View = "Exams"
	ViewCalendar View = "Calendar"
)

var viewOrder = []View{ViewTasks, ViewTimer, ViewStats, ViewExams, ViewCalendar}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks    string
	Timer    string
	Stats    string
	Exams    string
	Calendar string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// reminderLogLimit bounds ReminderLog.
const reminderLogLimit = 20

type Model struct {
	CurrentView    View
	Filter         planner.Filter
	TaskCursor     int
	Section        Section
	ExamCursor     int
	GoalCursor     int
	MaterialCursor int
	Calendar       CalendarState
	Planner        *planner.Planner
	ReminderLog    []scheduler.ReminderEvent
	Toasts         []notify.Notification
	Palette        CommandPaletteState
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	ctx           context.Context
	toastBuf      *notify.Buffer
	sweepInterval time.Duration

	taskTable     table.Model
	examTable     table.Model
	commandInput  textinput.Model
	timerProgress progress.Model
	helpModel     help.Model
	statsViewport viewport.Model
}

type Options struct {
	// Toasts is the buffer the planner's sink writes to; the model drains
	// it after every update.
	Toasts        *notify.Buffer
	SweepInterval time.Duration
	Context       context.Context
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// TimerTickMsg carries the timer generation that scheduled it.
type TimerTickMsg struct {
	Gen uint64
}

// ClockTickMsg refreshes countdowns and expires toasts.
type ClockTickMsg struct{}

type SweepTickMsg struct{}

type ReminderDueMsg struct {
	Event scheduler.ReminderEvent
}

func NewModel(p *planner.Planner, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	interval := opts.SweepInterval
	if interval <= 0 {
		interval = reminder.SweepInterval
	}
	m := Model{
		CurrentView: ViewTasks,
		Filter:      planner.FilterAll,
		Section:     SectionExams,
		Planner:     p,
		Keys: GlobalKeyMap{
			Tasks:    "1",
			Timer:    "2",
			Stats:    "3",
			Exams:    "4",
			Calendar: "5",
			Help:     "?",
			Quit:     "q",
		},
		ctx:           ctx,
		toastBuf:      opts.Toasts,
		sweepInterval: interval,
	}
	if p != nil {
		m.ensureCalendarState()
	}
	m.initBubbleComponents()
	m.collectToasts()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	taskCols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "", Width: 3},
		{Title: "Title", Width: 20},
		{Title: "Date", Width: 10},
		{Title: "Time", Width: 5},
		{Title: "Pri", Width: 6},
	}
	m.taskTable = table.New(table.WithColumns(taskCols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(12))

	examCols := []table.Column{
		{Title: "When", Width: 16},
		{Title: "Title", Width: 20},
		{Title: "Subject", Width: 10},
		{Title: "Min", Width: 4},
	}
	m.examTable = table.New(table.WithColumns(examCols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(6))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.timerProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	m.helpModel = help.New()
	m.statsViewport = viewport.New(56, 20)
}

func (m *Model) syncBubbleData() {
	if m.Planner == nil {
		return
	}
	tasks := m.visibleTasks()
	rows := make([]table.Row, 0, len(tasks))
	for i, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		rows = append(rows, table.Row{itoa(i + 1), check, t.Title, t.Date, t.Time, string(t.Priority)})
	}
	m.taskTable.SetRows(rows)
	m.TaskCursor = clampCursor(m.TaskCursor, len(rows))
	if len(rows) > 0 {
		m.taskTable.SetCursor(m.TaskCursor)
	}

	exams := m.Planner.Exams()
	examRows := make([]table.Row, 0, len(exams))
	for _, e := range exams {
		examRows = append(examRows, table.Row{e.DateTime, e.Title, e.Subject, itoa(e.DurationMinutes)})
	}
	m.examTable.SetRows(examRows)
	m.ExamCursor = clampCursor(m.ExamCursor, len(examRows))
	if len(examRows) > 0 {
		m.examTable.SetCursor(m.ExamCursor)
	}

	m.GoalCursor = clampCursor(m.GoalCursor, len(m.Planner.Goals()))
	m.MaterialCursor = clampCursor(m.MaterialCursor, len(m.Planner.Materials()))

	m.statsViewport.SetContent(m.renderStatsMarkdown())
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
