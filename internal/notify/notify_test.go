package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDismissDelays(t *testing.T) {
	at := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	require.Equal(t, 5*time.Second, Reminder("Calculus", at).Dismiss)
	require.Equal(t, 5*time.Second, Achievement("Week Warrior", "7-day study streak!", at).Dismiss)
	require.Equal(t, 3*time.Second, Toast("saved", at).Dismiss)
}

func TestExpired(t *testing.T) {
	at := time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)
	n := Toast("saved", at)
	require.False(t, n.Expired(at.Add(2*time.Second)))
	require.True(t, n.Expired(at.Add(3*time.Second)))
}

func TestBufferKeepsMostRecent(t *testing.T) {
	b := NewBuffer(2)
	at := time.Now()
	b.Send(Toast("one", at))
	b.Send(Toast("two", at))
	b.Send(Toast("three", at))

	got := b.Drain()
	require.Len(t, got, 2)
	require.Equal(t, "two", got[0].Body)
	require.Equal(t, "three", got[1].Body)
	require.Empty(t, b.Drain())
}

func TestMultiAndLogSinks(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	b := NewBuffer(4)
	sink := Multi{b, Log{Logger: zap.New(core)}, nil}

	sink.Send(Reminder("Physics", time.Now()))

	require.Len(t, b.Snapshot(), 1)
	require.Equal(t, 1, logs.FilterMessage("notification").Len())
	entry := logs.All()[0]
	require.Equal(t, "reminder", entry.ContextMap()["kind"])
}

func TestDesktopUsesRunner(t *testing.T) {
	var calls [][]string
	d := &Desktop{run: func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		return nil
	}}
	d.Send(Toast(`say "hi"`, time.Now()))
	if len(calls) > 0 {
		require.Contains(t, []string{"notify-send", "osascript"}, calls[0][0])
	}
}

func TestGateFollowsSwitch(t *testing.T) {
	buf := NewBuffer(4)
	on := false
	g := Gate{Sink: buf, Enabled: func() bool { return on }}
	g.Send(Toast("hidden", time.Now()))
	on = true
	g.Send(Toast("shown", time.Now()))
	got := buf.Drain()
	require.Len(t, got, 1)
	require.Equal(t, "shown", got[0].Body)
}
