package ui

import (
	"testing"
	"time"

	termui "github.com/gizak/termui/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/netwatch/internal/config"
	"firestige.xyz/netwatch/internal/state"
	"firestige.xyz/netwatch/internal/stats"
)

func testDashboard() (*Dashboard, *state.Controller) {
	ctl := state.NewController(stats.New(stats.DefaultWindowSize))
	d := New(ctl, config.UIConfig{PollInterval: 10 * time.Millisecond}, "test0")
	d.render = func() {} // no terminal in tests
	return d, ctl
}

func key(id string) termui.Event {
	return termui.Event{Type: termui.KeyboardEvent, ID: id}
}

func TestQuitKeyStopsAndReturnsImmediately(t *testing.T) {
	d, ctl := testDashboard()

	events := make(chan termui.Event, 1)
	events <- key("q")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.loop(events)
	}()

	select {
	case <-done:
	case <-time.After(d.pollInterval + 100*time.Millisecond):
		t.Fatal("loop did not return within one poll cycle of the quit key")
	}

	assert.False(t, ctl.Running())
}

func TestWindowKeysAdjustWindow(t *testing.T) {
	d, ctl := testDashboard()

	assert.False(t, d.handleEvent(key("+")))
	assert.Equal(t, stats.DefaultWindowSize+stats.WindowStep, ctl.Snapshot().WindowSize)

	assert.False(t, d.handleEvent(key("-")))
	assert.False(t, d.handleEvent(key("-")))
	assert.Equal(t, stats.DefaultWindowSize-stats.WindowStep, ctl.Snapshot().WindowSize)
}

func TestUnknownKeyIsIgnored(t *testing.T) {
	d, ctl := testDashboard()

	assert.False(t, d.handleEvent(key("x")))

	snap := ctl.Snapshot()
	assert.True(t, snap.Running)
	assert.Equal(t, stats.DefaultWindowSize, snap.WindowSize)
}

func TestLoopExitsOnExternalStop(t *testing.T) {
	d, ctl := testDashboard()

	events := make(chan termui.Event)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.loop(events)
	}()

	ctl.WithLock(func(a *stats.Aggregator) { a.RequestStop() })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not observe the external stop request")
	}
}

func TestInterruptKeyQuits(t *testing.T) {
	d, ctl := testDashboard()

	require.True(t, d.handleEvent(key("<C-c>")))
	assert.False(t, ctl.Running())
}

func TestQuitIsIdempotentAcrossEvents(t *testing.T) {
	d, ctl := testDashboard()

	require.True(t, d.handleEvent(key("q")))
	require.True(t, d.handleEvent(key("q")))
	assert.False(t, ctl.Running())
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}

func TestPlotValuesPadsSparseHistory(t *testing.T) {
	assert.Equal(t, []float64{0, 0}, plotValues(nil))
	assert.Equal(t, []float64{0, 0}, plotValues([]stats.Sample{{Time: 1, Value: 9}}))
	assert.Equal(t, []float64{1, 2}, plotValues([]stats.Sample{{Value: 1}, {Value: 2}}))
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0, clampPercent(-3))
	assert.Equal(t, 42, clampPercent(42.7))
	assert.Equal(t, 100, clampPercent(150))
}
