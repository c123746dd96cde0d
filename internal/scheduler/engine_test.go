package scheduler

import (
	"testing"
	"time"

	"github.com/sandeepkv93/studyd/internal/clock"
)

func TestEngineEmitsInTriggerOrder(t *testing.T) {
	engine := NewEngine(8)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC()
	if err := engine.Schedule(ReminderEvent{ID: "later", TriggerAt: now.Add(80 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule later: %v", err)
	}
	if err := engine.Schedule(ReminderEvent{ID: "sooner", TriggerAt: now.Add(20 * time.Millisecond)}); err != nil {
		t.Fatalf("schedule sooner: %v", err)
	}

	first := waitEvent(t, engine.C(), time.Second)
	second := waitEvent(t, engine.C(), time.Second)
	if first.ID != "sooner" || second.ID != "later" {
		t.Fatalf("unexpected order: first=%s second=%s", first.ID, second.ID)
	}
}

func TestEngineFiresOnFakeClock(t *testing.T) {
	start := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	fake := clock.Fake(start)
	engine := NewEngineWithClock(4, fake)
	engine.Start()
	defer engine.Stop()

	if err := engine.Schedule(ReminderEvent{ID: "r1", TaskID: "t1", TriggerAt: start.Add(10 * time.Minute)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	select {
	case ev := <-engine.C():
		t.Fatalf("fired before clock advanced: %+v", ev)
	case <-time.After(30 * time.Millisecond):
	}

	fake.Advance(10 * time.Minute)
	ev := waitEvent(t, engine.C(), time.Second)
	if ev.ID != "r1" || ev.TaskID != "t1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestEngineCancelRemovesTaskEvents(t *testing.T) {
	engine := NewEngine(4)
	now := time.Now().UTC()
	_ = engine.Schedule(ReminderEvent{ID: "a", TaskID: "t1", TriggerAt: now.Add(time.Hour)})
	_ = engine.Schedule(ReminderEvent{ID: "b", TaskID: "t2", TriggerAt: now.Add(time.Hour)})
	_ = engine.Schedule(ReminderEvent{ID: "c", TaskID: "t1", TriggerAt: now.Add(2 * time.Hour)})

	if removed := engine.Cancel("t1"); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if engine.Len() != 1 {
		t.Fatalf("expected 1 pending, got %d", engine.Len())
	}
	engine.Clear()
	if engine.Len() != 0 {
		t.Fatalf("expected empty queue after clear, got %d", engine.Len())
	}
}

func TestEngineNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	defer engine.Stop()

	now := time.Now().UTC().Add(20 * time.Millisecond)
	for i := 0; i < 25; i++ {
		if err := engine.Schedule(ReminderEvent{
			ID:        "evt",
			TriggerAt: now,
		}); err != nil {
			t.Fatalf("schedule event: %v", err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if engine.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", engine.Dropped())
	}
}

func TestScheduleValidatesTriggerTime(t *testing.T) {
	engine := NewEngine(1)
	if err := engine.Schedule(ReminderEvent{ID: "bad"}); err != ErrInvalidTriggerTime {
		t.Fatalf("expected ErrInvalidTriggerTime, got %v", err)
	}
}

func TestScheduleAfterStopFails(t *testing.T) {
	engine := NewEngine(1)
	engine.Start()
	engine.Stop()
	if err := engine.Schedule(ReminderEvent{ID: "late", TriggerAt: time.Now()}); err != ErrEngineStopped {
		t.Fatalf("expected ErrEngineStopped, got %v", err)
	}
}

func waitEvent(t *testing.T, ch <-chan ReminderEvent, timeout time.Duration) ReminderEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for event")
		return ReminderEvent{}
	}
}
