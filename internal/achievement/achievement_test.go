package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/studyd/internal/analytics"
	"github.com/sandeepkv93/studyd/internal/model"
)

var now = time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)

func ids(list []model.Achievement) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestEvaluateUnlocksSatisfiedRulesOnce(t *testing.T) {
	e := NewEngine(nil)
	fresh := e.Evaluate(Metrics{Streak: 8, CompletedTasks: 12}, now)
	require.Equal(t, []string{WeekStreak, TaskMaster}, ids(fresh))
	require.Equal(t, now, fresh[0].UnlockedAt)
	require.Equal(t, "Week Warrior", fresh[0].Title)
	require.Equal(t, "fas fa-fire", fresh[0].Icon)

	require.Empty(t, e.Evaluate(Metrics{Streak: 8, CompletedTasks: 12}, now.Add(time.Hour)))
	require.Len(t, e.Unlocked(), 2)
}

func TestUnlocksAreNeverRevoked(t *testing.T) {
	e := NewEngine(nil)
	e.Evaluate(Metrics{CompletedTasks: 10}, now)
	require.Empty(t, e.Evaluate(Metrics{}, now))
	require.True(t, e.Has(TaskMaster))
}

func TestStudyHoursThreshold(t *testing.T) {
	e := NewEngine(nil)
	require.Empty(t, e.Evaluate(Metrics{StudyHours: 49.9}, now))
	require.Equal(t, []string{StudyHours}, ids(e.Evaluate(Metrics{StudyHours: 50}, now)))
}

func TestNewEngineDropsDuplicateIDs(t *testing.T) {
	e := NewEngine([]model.Achievement{{ID: TaskMaster}, {ID: TaskMaster}, {ID: WeekStreak}})
	require.Equal(t, []string{TaskMaster, WeekStreak}, ids(e.Unlocked()))
	require.Empty(t, e.Evaluate(Metrics{CompletedTasks: 10, Streak: 7}, now))
}

func TestRecentNewestFirst(t *testing.T) {
	e := NewEngine([]model.Achievement{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	require.Equal(t, []string{"c", "b"}, ids(e.Recent(2)))
	require.Equal(t, []string{"c", "b", "a"}, ids(e.Recent(5)))
	require.Empty(t, e.Recent(0))
}

func TestProgressClamps(t *testing.T) {
	p := ProgressOf(Metrics{Streak: 14, CompletedTasks: 25, StudyHours: 10})
	require.Equal(t, 1.0, p.Streak)
	require.Equal(t, 0.5, p.Tasks)
	require.InDelta(t, 0.1, p.Hours, 1e-9)
}

func TestFromSnapshot(t *testing.T) {
	m := FromSnapshot(analytics.Snapshot{Streak: 3, CompletedTasks: 4, TotalStudyHours: 5.5})
	require.Equal(t, Metrics{Streak: 3, CompletedTasks: 4, StudyHours: 5.5}, m)
}
