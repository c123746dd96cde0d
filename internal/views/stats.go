package views

import (
	"fmt"
	"strings"
)

type SubjectData struct {
	Subject string
	Count   int
}

type BadgeData struct {
	Title       string
	Description string
	UnlockedAt  string
}

type StatsData struct {
	Streak         int
	CompletionRate int
	WeeklyHours    float64
	TotalHours     float64
	CompletedTasks int
	Sessions       int
	Subjects       []SubjectData
	StreakBar      string
	TasksBar       string
	HoursBar       string
	Recent         []BadgeData
}

// StatsMarkdown builds the analytics and achievements report rendered by
// glamour.
func StatsMarkdown(d StatsData) string {
	var b strings.Builder
	b.WriteString("# Analytics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	b.WriteString(fmt.Sprintf("| Study streak | %d days |\n", d.Streak))
	b.WriteString(fmt.Sprintf("| Weekly completion | %d%% |\n", d.CompletionRate))
	b.WriteString(fmt.Sprintf("| Hours this week | %.1f |\n", d.WeeklyHours))
	b.WriteString(fmt.Sprintf("| Study sessions | %d |\n", d.Sessions))
	b.WriteString("\n## Subjects\n\n")
	if len(d.Subjects) == 0 {
		b.WriteString("_No subjects yet._\n")
	}
	for _, s := range d.Subjects {
		b.WriteString(fmt.Sprintf("- **%s**: %d\n", s.Subject, s.Count))
	}
	b.WriteString("\n# Achievements\n\n")
	b.WriteString(fmt.Sprintf("- Streak %d/7 %s\n", d.Streak, d.StreakBar))
	b.WriteString(fmt.Sprintf("- Tasks %d/50 %s\n", d.CompletedTasks, d.TasksBar))
	b.WriteString(fmt.Sprintf("- Hours %.0f/100 %s\n", d.TotalHours, d.HoursBar))
	b.WriteString("\n## Recent badges\n\n")
	if len(d.Recent) == 0 {
		b.WriteString("_Complete tasks and study sessions to earn badges._\n")
	}
	for _, badge := range d.Recent {
		b.WriteString(fmt.Sprintf("- **%s** %s (%s)\n", badge.Title, badge.Description, badge.UnlockedAt))
	}
	return b.String()
}
