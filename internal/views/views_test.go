package views

import (
	"strings"
	"testing"
)

func TestRenderTasksPanelEmptyAndRows(t *testing.T) {
	empty := RenderTasksPanel(TasksPanelData{Filter: "all"})
	if !strings.Contains(empty, "No tasks found") {
		t.Fatalf("expected empty hint, got %q", empty)
	}

	out := RenderTasksPanel(TasksPanelData{
		Filter: "pending",
		Rows: []TaskRowData{
			{Index: 1, Title: "Read", Date: "2026-03-11", Time: "09:00", Priority: "high", Subject: "bio"},
			{Index: 2, Title: "Write", Priority: "low", Completed: true},
		},
		Cursor: 1,
	})
	if !strings.Contains(out, "1. [ ] [RED] Read") || !strings.Contains(out, "#bio") {
		t.Fatalf("unexpected first row: %q", out)
	}
	if !strings.Contains(out, "> 2. [x] [GREEN] Write") {
		t.Fatalf("expected cursor on second row: %q", out)
	}
}

func TestRenderToasts(t *testing.T) {
	if RenderToasts(nil) != "" {
		t.Fatal("expected empty toasts")
	}
	out := RenderToasts([]ToastData{{Kind: "reminder", Title: "Study Reminder", Body: "Read - starting in 15 minutes"}})
	if out != "[REMINDER] Study Reminder: Read - starting in 15 minutes" {
		t.Fatalf("unexpected toast: %q", out)
	}
}

func TestStatsMarkdownSections(t *testing.T) {
	md := StatsMarkdown(StatsData{Streak: 3, Subjects: []SubjectData{{"math", 2}}, Recent: []BadgeData{{Title: "Task Master"}}})
	for _, want := range []string{"| Study streak | 3 days |", "**math**: 2", "**Task Master**"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
}

func TestRenderMarkdownFallsBackOnEmpty(t *testing.T) {
	if RenderMarkdown("  ", true) != "" {
		t.Fatal("expected empty output for blank markdown")
	}
}

func TestRenderAppShowsErrorsAndTabs(t *testing.T) {
	out := RenderApp(AppData{
		Header:     "studyd",
		Tabs:       []string{"Tasks", "Timer"},
		ActiveTab:  1,
		LeftPane:   "left",
		StatusLine: "status: error: boom",
		IsError:    true,
		Toasts:     []ToastData{{Kind: "toast", Body: "saved"}},
	})
	for _, want := range []string{"studyd", "Tasks", "Timer", "left", "boom", "[TOAST] saved"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in app view", want)
		}
	}
}

func TestRenderCalendarMonthGrid(t *testing.T) {
	out := RenderCalendarPanel(CalendarPanelData{
		Mode:  "month",
		Title: "April 2026",
		Lead:  3,
		Days: []CalendarDayData{
			{Date: "2026-04-01", Day: 1, Today: true, Tasks: []CalendarTaskData{{Title: "Organic chemistry review"}}},
			{Date: "2026-04-02", Day: 2},
		},
	})
	if !strings.Contains(out, "[ 1](1)") {
		t.Fatalf("expected today marker with task count: %q", out)
	}
	if !strings.Contains(out, "Organic chemist...") {
		t.Fatalf("expected truncated title: %q", out)
	}
	if strings.Contains(out, "2026-04-02:") {
		t.Fatalf("expected empty days left out of the agenda: %q", out)
	}
}
