package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/studyd/internal/timer"
	"github.com/sandeepkv93/studyd/internal/views"
)

func (m Model) handleTimerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	engine := m.Planner.Timer()
	switch msg.String() {
	case " ":
		if engine.State().Status == timer.StatusRunning {
			engine.Pause()
			m.Status = StatusBar{Text: "timer paused"}
			return m, nil
		}
		engine.Start()
		m.Status = StatusBar{Text: "timer running"}
		return m, timerTickCmd(engine.Generation())
	case "r":
		engine.Reset()
		m.Status = StatusBar{Text: "timer reset"}
	case "n":
		tr, err := m.Planner.SkipPhase(m.ctx)
		if err != nil {
			m.fail(err)
		}
		cmd := m.afterTransition(tr)
		return m, cmd
	}
	return m, nil
}

// onTimerTick drops ticks from an earlier run so pause/start never stacks
// two tick chains.
func (m Model) onTimerTick(msg TimerTickMsg) (Model, tea.Cmd) {
	engine := m.Planner.Timer()
	if msg.Gen != engine.Generation() || engine.State().Status != timer.StatusRunning {
		return m, nil
	}
	tr, ended, err := m.Planner.TickTimer(m.ctx)
	if err != nil {
		m.fail(err)
	}
	next := timerTickCmd(msg.Gen)
	if !ended {
		return m, next
	}
	cmd := m.afterTransition(tr)
	return m, tea.Batch(next, cmd)
}

func (m *Model) afterTransition(tr timer.Transition) tea.Cmd {
	if tr.To == timer.PhaseBreak {
		m.Status = StatusBar{Text: "study session logged; break started"}
	} else {
		m.Status = StatusBar{Text: "break over; study phase started"}
	}
	if !m.Planner.Settings().Sounds {
		return nil
	}
	return tea.Printf("\a")
}

func (m Model) renderTimerView() string {
	engine := m.Planner.Timer()
	st := engine.State()
	return views.RenderTimerPanel(views.TimerPanelData{
		Phase:        string(st.Phase),
		Status:       string(st.Status),
		Remaining:    timer.FormatRemaining(st.Remaining),
		ProgressView: m.timerProgress.ViewAs(st.Progress()),
		ProgressPct:  int(st.Progress() * 100),
		Sessions:     st.SessionCount,
		Breaks:       st.BreakCount,
		StudyMinutes: int(engine.StudyDuration() / time.Minute),
		BreakMinutes: int(engine.BreakDuration() / time.Minute),
	})
}

func timerTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return TimerTickMsg{Gen: gen} })
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return ClockTickMsg{} })
}
