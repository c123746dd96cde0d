package update

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/studyd/internal/views"
)

// recentBadges is how many unlocks the stats view lists.
const recentBadges = 3

func (m Model) handleStatsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.statsViewport, cmd = m.statsViewport.Update(msg)
	return m, cmd
}

func (m Model) renderStatsMarkdown() string {
	snap := m.Planner.Snapshot()
	prog := m.Planner.AchievementProgress()

	subjects := make([]views.SubjectData, 0, len(snap.Subjects))
	for _, s := range snap.Subjects {
		subjects = append(subjects, views.SubjectData{Subject: s.Subject, Count: s.Count})
	}
	recent := m.Planner.RecentAchievements(recentBadges)
	badges := make([]views.BadgeData, 0, len(recent))
	for _, a := range recent {
		badges = append(badges, views.BadgeData{
			Title:       a.Title,
			Description: a.Description,
			UnlockedAt:  a.UnlockedAt.In(m.Planner.Location()).Format("Jan 2"),
		})
	}

	md := views.StatsMarkdown(views.StatsData{
		Streak:         snap.Streak,
		CompletionRate: snap.WeeklyCompletionRate,
		WeeklyHours:    snap.WeeklyHours,
		TotalHours:     snap.TotalStudyHours,
		CompletedTasks: snap.CompletedTasks,
		Sessions:       snap.SessionCount,
		Subjects:       subjects,
		StreakBar:      progressBar(prog.Streak, 20),
		TasksBar:       progressBar(prog.Tasks, 20),
		HoursBar:       progressBar(prog.Hours, 20),
		Recent:         badges,
	})
	return views.RenderMarkdown(md, m.Planner.Settings().DarkMode)
}
