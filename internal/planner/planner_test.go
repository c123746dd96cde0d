package planner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/studyd/internal/achievement"
	"github.com/sandeepkv93/studyd/internal/clock"
	"github.com/sandeepkv93/studyd/internal/model"
	"github.com/sandeepkv93/studyd/internal/notify"
	"github.com/sandeepkv93/studyd/internal/scheduler"
	"github.com/sandeepkv93/studyd/internal/storage"
	"github.com/sandeepkv93/studyd/internal/timer"
)

var t0 = time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)

type fixture struct {
	kv    *storage.MemoryKV
	clock *clock.FakeClock
	sink  *notify.Buffer
	p     *Planner
}

func newFixture(t *testing.T, kv *storage.MemoryKV) fixture {
	t.Helper()
	if kv == nil {
		kv = storage.NewMemoryKV()
	}
	fc := clock.Fake(t0)
	sink := notify.NewBuffer(100)
	p, err := New(context.Background(), kv, scheduler.NewEngineWithClock(16, fc),
		WithClock(fc), WithLocation(time.UTC), WithSink(sink))
	require.NoError(t, err)
	return fixture{kv: kv, clock: fc, sink: sink, p: p}
}

func input(title, date, clk string) model.TaskInput {
	return model.TaskInput{Title: title, Date: date, Time: clk}
}

func kinds(list []notify.Notification) []notify.Kind {
	out := make([]notify.Kind, 0, len(list))
	for _, n := range list {
		out = append(out, n.Kind)
	}
	return out
}

func TestCreateTaskPersistsAndArms(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	task, err := f.p.CreateTask(ctx, input("Algebra", "2026-03-11", "10:00"))
	require.NoError(t, err)
	require.Equal(t, 1, f.p.PendingReminders())

	raw, ok, err := f.kv.Get(ctx, storage.KeyTasks)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, raw, task.ID)

	reloaded := newFixture(t, f.kv)
	got, err := reloaded.p.Task(task.ID)
	require.NoError(t, err)
	require.Equal(t, "Algebra", got.Title)
	require.Equal(t, 1, reloaded.p.PendingReminders())
}

func TestCreateTaskSoonIsNotArmed(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.p.CreateTask(context.Background(), input("Soon", "2026-03-11", "08:10"))
	require.NoError(t, err)
	require.Zero(t, f.p.PendingReminders())
	require.Equal(t, 1, f.p.SweepReminders())
	require.Equal(t, []notify.Kind{notify.KindReminder}, kinds(f.sink.Drain()))
}

func TestValidationErrorLeavesStateAlone(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.p.CreateTask(context.Background(), input("", "2026-03-11", "10:00"))
	require.True(t, model.IsValidation(err))
	require.Empty(t, f.p.AllTasks())
	require.Zero(t, f.kv.Len())
}

func TestPersistenceFailureKeepsMemoryState(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.kv.SetFailure(errors.New("quota exceeded"))

	task, err := f.p.CreateTask(ctx, input("Kept", "2026-03-12", "10:00"))
	require.Error(t, err)
	require.True(t, model.IsPersistence(err))
	_, getErr := f.p.Task(task.ID)
	require.NoError(t, getErr)

	f.kv.SetFailure(nil)
	_, err = f.p.CreateTask(ctx, input("Next", "2026-03-12", "11:00"))
	require.NoError(t, err)

	reloaded := newFixture(t, f.kv)
	require.Len(t, reloaded.p.AllTasks(), 2)
}

func TestDeleteAndToggleUnknownAreSilent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.p.DeleteTask(ctx, "nope"))
	require.NoError(t, f.p.ToggleTask(ctx, "nope"))
}

func TestToggleDisarmsAndRearms(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	task, err := f.p.CreateTask(ctx, input("A", "2026-03-11", "12:00"))
	require.NoError(t, err)
	require.Equal(t, 1, f.p.PendingReminders())

	require.NoError(t, f.p.ToggleTask(ctx, task.ID))
	require.Zero(t, f.p.PendingReminders())
	require.False(t, f.p.HandleReminder(scheduler.ReminderEvent{TaskID: task.ID}))

	require.NoError(t, f.p.ToggleTask(ctx, task.ID))
	require.Equal(t, 1, f.p.PendingReminders())

	require.NoError(t, f.p.DeleteTask(ctx, task.ID))
	require.Zero(t, f.p.PendingReminders())
	require.False(t, f.p.HandleReminder(scheduler.ReminderEvent{TaskID: task.ID}))
}

func TestCompletingTenTasksUnlocksTaskMaster(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		task, err := f.p.CreateTask(ctx, input("t", "2026-03-10", "09:00"))
		require.NoError(t, err)
		require.NoError(t, f.p.ToggleTask(ctx, task.ID))
	}
	unlocked := f.p.Achievements()
	require.Len(t, unlocked, 1)
	require.Equal(t, achievement.TaskMaster, unlocked[0].ID)
	require.Contains(t, kinds(f.sink.Drain()), notify.KindAchievement)

	// toggling back never revokes
	require.NoError(t, f.p.ToggleTask(ctx, f.p.AllTasks()[0].ID))
	require.Len(t, f.p.Achievements(), 1)

	reloaded := newFixture(t, f.kv)
	require.Len(t, reloaded.p.Achievements(), 1)
}

func TestTimerSessionIsLoggedAndPersisted(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tr, err := f.p.SkipPhase(ctx)
	require.NoError(t, err)
	require.NotNil(t, tr.Session)
	require.Equal(t, 25, tr.Session.DurationMinutes)
	require.Len(t, f.p.Sessions(), 1)
	require.Equal(t, 1, f.p.Snapshot().Streak)

	_, err = f.p.SkipPhase(ctx)
	require.NoError(t, err)
	require.Len(t, f.p.Sessions(), 1)
	require.Equal(t, []notify.Kind{notify.KindToast, notify.KindToast}, kinds(f.sink.Drain()))

	reloaded := newFixture(t, f.kv)
	require.Len(t, reloaded.p.Sessions(), 1)
	require.Equal(t, timer.StatusIdle, reloaded.p.Timer().State().Status)
}

func TestSessionDateUsesPlannerLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 02:00 UTC on the 11th is still the evening of the 10th in New York.
	fc := clock.Fake(time.Date(2026, 3, 11, 2, 0, 0, 0, time.UTC))
	p, err := New(context.Background(), storage.NewMemoryKV(), scheduler.NewEngineWithClock(4, fc),
		WithClock(fc), WithLocation(ny), WithSink(notify.NewBuffer(10)))
	require.NoError(t, err)

	tr, err := p.SkipPhase(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2026-03-10", tr.Session.Date)
	require.Equal(t, "2026-03-10", p.Sessions()[0].Date)
}

func TestTickTimerRunsOnlyWhenStarted(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, ended, err := f.p.TickTimer(ctx)
	require.NoError(t, err)
	require.False(t, ended)

	f.p.Timer().Start()
	before := f.p.Timer().State().Remaining
	_, ended, err = f.p.TickTimer(ctx)
	require.NoError(t, err)
	require.False(t, ended)
	require.Equal(t, before-time.Second, f.p.Timer().State().Remaining)
}

func TestUpdateSettingsForwardsToTimer(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.p.UpdateSettings(ctx, func(s *model.Settings) {
		s.DefaultStudyMinutes = 50
		s.DefaultBreakMinutes = 10
		s.DarkMode = true
	}))
	require.Equal(t, 50*time.Minute, f.p.Timer().State().Remaining)
	require.Equal(t, 10*time.Minute, f.p.Timer().BreakDuration())

	reloaded := newFixture(t, f.kv)
	require.True(t, reloaded.p.Settings().DarkMode)
	require.Equal(t, 50*time.Minute, reloaded.p.Timer().StudyDuration())
}

func TestRemindersSettingSuppressesNotifications(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	task, err := f.p.CreateTask(ctx, input("A", "2026-03-11", "08:05"))
	require.NoError(t, err)
	require.NoError(t, f.p.UpdateSettings(ctx, func(s *model.Settings) { s.Reminders = false }))
	require.Zero(t, f.p.SweepReminders())
	require.False(t, f.p.HandleReminder(scheduler.ReminderEvent{TaskID: task.ID}))
}

func TestMalformedStorageFallsBackToDefaults(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, storage.KeyTasks, "{not json"))
	require.NoError(t, kv.Set(ctx, storage.KeySettings, "[]"))
	require.NoError(t, kv.Set(ctx, storage.KeyGoals, `[{"id":1712,"title":"Old goal","deadline":"2026-04-01"}]`))

	f := newFixture(t, kv)
	require.Empty(t, f.p.AllTasks())
	require.Equal(t, model.DefaultSettings(), f.p.Settings())
	require.Len(t, f.p.Goals(), 1)
	require.Equal(t, "1712", f.p.Goals()[0].ID)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newFixture(t, nil)
	ctx := context.Background()
	_, err := src.p.CreateTask(ctx, model.TaskInput{Title: "Bio", Date: "2026-03-12", Time: "09:30", Priority: "high", Subject: "biology", DurationMinutes: 45})
	require.NoError(t, err)
	_, err = src.p.AddGoal(ctx, model.GoalInput{Title: "Pass", Deadline: "2026-06-01"})
	require.NoError(t, err)
	_, err = src.p.AddExam(ctx, model.ExamInput{Title: "Midterm", DateTime: "2026-04-01 09:00", DurationMinutes: 90})
	require.NoError(t, err)
	_, err = src.p.AddMaterial(ctx, model.MaterialInput{Title: "Slides"})
	require.NoError(t, err)
	_, err = src.p.SkipPhase(ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.p.Export(&buf))

	dst := newFixture(t, nil)
	require.NoError(t, dst.p.Import(ctx, &buf))

	want, got := src.p.Document(), dst.p.Document()
	require.Equal(t, want.Tasks, got.Tasks)
	require.Equal(t, want.Goals, got.Goals)
	require.Equal(t, want.Exams, got.Exams)
	require.Equal(t, want.Materials, got.Materials)
	require.Equal(t, want.Sessions, got.Sessions)
	require.Equal(t, want.Achievements, got.Achievements)
	require.Equal(t, want.Settings, got.Settings)
	require.Equal(t, 1, dst.p.PendingReminders())

	reloaded := newFixture(t, dst.kv)
	require.Equal(t, want.Tasks, reloaded.p.Document().Tasks)
}

func TestImportMalformedLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.p.CreateTask(ctx, input("Keep me", "2026-03-12", "10:00"))
	require.NoError(t, err)

	err = f.p.Import(ctx, strings.NewReader(`{"tasks": "oops"}`))
	var pe *model.ParseError
	require.ErrorAs(t, err, &pe)
	require.Len(t, f.p.AllTasks(), 1)
	require.Equal(t, 1, f.p.PendingReminders())
}

func TestImportWithoutSettingsKeepsCurrent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.p.UpdateSettings(ctx, func(s *model.Settings) { s.Sounds = false }))
	require.NoError(t, f.p.Import(ctx, strings.NewReader(`{"tasks": []}`)))
	require.False(t, f.p.Settings().Sounds)
}

func TestClearAllWipesEverything(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.p.CreateTask(ctx, input("A", "2026-03-12", "10:00"))
	require.NoError(t, err)
	_, err = f.p.AddMaterial(ctx, model.MaterialInput{Title: "Book"})
	require.NoError(t, err)
	f.p.Timer().Start()

	require.NoError(t, f.p.ClearAll(ctx))
	require.Empty(t, f.p.AllTasks())
	require.Empty(t, f.p.Materials())
	require.Zero(t, f.p.PendingReminders())
	require.Zero(t, f.kv.Len())
	require.Equal(t, timer.StatusIdle, f.p.Timer().State().Status)
}

func TestExamCountdowns(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	for _, dt := range []string{"2026-03-14 11:05", "2026-03-10 09:00", "2026-03-11 10:30", "2026-03-11 08:07", "2026-04-01 09:00"} {
		_, err := f.p.AddExam(ctx, model.ExamInput{Title: dt, DateTime: dt, DurationMinutes: 60})
		require.NoError(t, err)
	}
	got := f.p.ExamCountdowns(t0)
	require.Len(t, got, 3)
	require.Equal(t, "EXPIRED", got[0].Label)
	require.True(t, got[0].Expired)
	require.Equal(t, "7m", got[1].Label)
	require.Equal(t, "2h 30m", got[2].Label)

	label, _ := CountdownLabel(3*24*time.Hour + 3*time.Hour + 5*time.Minute)
	require.Equal(t, "3d 3h 5m", label)
}

func TestGoalAndMaterialValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, err := f.p.AddGoal(ctx, model.GoalInput{Title: "No deadline"})
	require.True(t, model.IsValidation(err))
	_, err = f.p.AddExam(ctx, model.ExamInput{Title: "x", DateTime: "2026-04-01 09:00"})
	require.True(t, model.IsValidation(err))
	_, err = f.p.AddMaterial(ctx, model.MaterialInput{})
	require.True(t, model.IsValidation(err))

	g, err := f.p.AddGoal(ctx, model.GoalInput{Title: "G", Deadline: "2026-05-01"})
	require.NoError(t, err)
	require.Zero(t, g.Progress)
	require.False(t, g.Completed)
	require.NoError(t, f.p.DeleteGoal(ctx, "unknown"))
	require.Len(t, f.p.Goals(), 1)
	require.NoError(t, f.p.DeleteGoal(ctx, g.ID))
	require.Empty(t, f.p.Goals())
}
