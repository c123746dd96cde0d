package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/studyd/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForReminderCmd(m.Planner.ReminderEvents()),
		clockTickCmd(),
		sweepTickCmd(m.sweepInterval),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.collectToasts()
	next.syncBubbleData()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}

		switch typed.String() {
		case "/":
			return m.openPalette(""), nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			return m, nil
		case m.Keys.Timer:
			m.CurrentView = ViewTimer
			return m, nil
		case m.Keys.Stats:
			m.CurrentView = ViewStats
			return m, nil
		case m.Keys.Exams:
			m.CurrentView = ViewExams
			return m, nil
		case m.Keys.Calendar:
			m.CurrentView = ViewCalendar
			return m, nil
		case "tab":
			m.CurrentView = nextView(m.CurrentView)
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewTasks:
			return m.handleTasksKey(typed)
		case ViewTimer:
			return m.handleTimerKey(typed)
		case ViewStats:
			return m.handleStatsKey(typed)
		case ViewExams:
			return m.handleExamsKey(typed)
		case ViewCalendar:
			return m.handleCalendarKey(typed), nil
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.fail(typed.Err)
		return m, nil
	case TimerTickMsg:
		return m.onTimerTick(typed)
	case ClockTickMsg:
		return m, clockTickCmd()
	case SweepTickMsg:
		if n := m.Planner.SweepReminders(); n > 0 {
			m.Status = StatusBar{Text: fmt.Sprintf("%d task(s) starting soon", n)}
		}
		return m, sweepTickCmd(m.sweepInterval)
	case ReminderDueMsg:
		return m.onReminder(typed.Event)
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTasksView()
	case ViewTimer:
		leftPane = m.renderTimerView()
	case ViewStats:
		leftPane = m.statsViewport.View()
	case ViewExams:
		leftPane = m.renderExamsView()
	case ViewCalendar:
		leftPane = m.renderCalendarView()
	}
	rightPane := strings.TrimSpace(strings.Join([]string{
		m.renderCommandPalette(),
		m.renderHelpIfVisible(),
		m.renderLastReminder(),
	}, "\n"))

	tabs := make([]string, len(viewOrder))
	active := 0
	for i, v := range viewOrder {
		tabs[i] = string(v)
		if v == m.CurrentView {
			active = i
		}
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("studyd | %s | streak: %d", m.Planner.Now().Format("Mon Jan 2 15:04"), m.Planner.Snapshot().Streak),
		Tabs:       tabs,
		ActiveTab:  active,
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		IsError:    m.Status.IsError,
		Toasts:     m.toastData(),
		Footer:     fmt.Sprintf("keys: %s tasks | %s timer | %s stats | %s exams | %s calendar | / cmd | %s help | %s quit", m.Keys.Tasks, m.Keys.Timer, m.Keys.Stats, m.Keys.Exams, m.Keys.Calendar, m.Keys.Help, m.Keys.Quit),
		Dark:       m.Planner.Settings().DarkMode,
	})
}

func isKnownView(v View) bool {
	for _, known := range viewOrder {
		if v == known {
			return true
		}
	}
	return false
}

func nextView(v View) View {
	for i, known := range viewOrder {
		if known == v {
			return viewOrder[(i+1)%len(viewOrder)]
		}
	}
	return ViewTasks
}
