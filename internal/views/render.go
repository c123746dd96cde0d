package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header     string
	Tabs       []string
	ActiveTab  int
	LeftPane   string
	RightPane  string
	StatusLine string
	IsError    bool
	Toasts     []ToastData
	Footer     string
	Dark       bool
}

type theme struct {
	header lipgloss.Style
	status lipgloss.Style
	err    lipgloss.Style
	panel  lipgloss.Style
	footer lipgloss.Style
	tab    lipgloss.Style
	active lipgloss.Style
}

func themeFor(dark bool) theme {
	accent, muted, ok := lipgloss.Color("12"), lipgloss.Color("8"), lipgloss.Color("10")
	if !dark {
		accent, muted, ok = lipgloss.Color("4"), lipgloss.Color("244"), lipgloss.Color("2")
	}
	return theme{
		header: lipgloss.NewStyle().Bold(true).Foreground(accent),
		status: lipgloss.NewStyle().Foreground(ok),
		err:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		footer: lipgloss.NewStyle().Foreground(muted),
		tab:    lipgloss.NewStyle().Padding(0, 1).Foreground(muted),
		active: lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true).Foreground(accent),
	}
}

func RenderApp(data AppData) string {
	th := themeFor(data.Dark)
	left := th.panel.Width(58).Render(data.LeftPane)
	row := left
	if strings.TrimSpace(data.RightPane) != "" {
		right := th.panel.Width(58).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	tabs := make([]string, 0, len(data.Tabs))
	for i, name := range data.Tabs {
		if i == data.ActiveTab {
			tabs = append(tabs, th.active.Render(name))
			continue
		}
		tabs = append(tabs, th.tab.Render(name))
	}

	status := th.status.Render(data.StatusLine)
	if data.IsError {
		status = th.err.Render(data.StatusLine)
	}

	lines := []string{
		th.header.Render(data.Header),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		row,
		status,
	}
	if toasts := RenderToasts(data.Toasts); toasts != "" {
		lines = append(lines, th.panel.Render(toasts))
	}
	if data.Footer != "" {
		lines = append(lines, th.footer.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders md with the glamour style matching the theme and
// falls back to the raw text if rendering fails.
func RenderMarkdown(md string, dark bool) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := "light"
	if dark {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
