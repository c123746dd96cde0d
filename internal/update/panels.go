package update

import (
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/notify"
	"github.com/sandeepkv93/studyd/internal/views"
)

// toastLimit bounds how many toasts are on screen at once.
const toastLimit = 4

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.commandInput.View())
}

// collectToasts moves fresh notifications from the sink buffer onto the
// screen and drops the ones whose dismiss time has passed.
func (m *Model) collectToasts() {
	if m.Planner == nil {
		return
	}
	if m.toastBuf != nil {
		m.Toasts = append(m.Toasts, m.toastBuf.Drain()...)
	}
	now := m.Planner.Now()
	kept := m.Toasts[:0]
	for _, n := range m.Toasts {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	if len(kept) > toastLimit {
		kept = kept[len(kept)-toastLimit:]
	}
	m.Toasts = kept
}

func (m Model) toastData() []views.ToastData {
	out := make([]views.ToastData, 0, len(m.Toasts))
	for _, n := range m.Toasts {
		out = append(out, views.ToastData{Kind: string(n.Kind), Title: n.Title, Body: n.Body})
	}
	return out
}

// fail shows err on the status line. Storage failures also raise a warning
// toast since the in-memory change was kept.
func (m *Model) fail(err error) {
	if err == nil {
		return
	}
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	if model.IsPersistence(err) {
		m.Toasts = append(m.Toasts, notify.Warning("Changes could not be saved: "+err.Error(), m.Planner.Now()))
	}
}
