package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/studyd/internal/scheduler"
)

func (m Model) onReminder(ev scheduler.ReminderEvent) (Model, tea.Cmd) {
	m.ReminderLog = append(m.ReminderLog, ev)
	if len(m.ReminderLog) > reminderLogLimit {
		m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-reminderLogLimit:]
	}
	if m.Planner.HandleReminder(ev) {
		m.Status = StatusBar{Text: fmt.Sprintf("reminder: %s", ev.Title)}
	}
	return m, waitForReminderCmd(m.Planner.ReminderEvents())
}

func (m Model) renderLastReminder() string {
	if len(m.ReminderLog) == 0 {
		return ""
	}
	last := m.ReminderLog[len(m.ReminderLog)-1]
	return fmt.Sprintf("last-reminder: %s @ %s", last.Title, last.TriggerAt.Format("15:04"))
}

func waitForReminderCmd(ch <-chan scheduler.ReminderEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

func sweepTickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg { return SweepTickMsg{} })
}
