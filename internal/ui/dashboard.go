// Package ui implements the interactive terminal dashboard on gizak/termui.
//
// The dashboard loop is the consumer side of the shared stats state: each
// frame it copies a snapshot under the lock, releases the lock, and only then
// draws. Keyboard input mutates window size or requests a stop.
package ui

import (
	"fmt"
	"time"

	termui "github.com/gizak/termui/v3"

	"firestige.xyz/netwatch/internal/config"
	"firestige.xyz/netwatch/internal/metrics"
	"firestige.xyz/netwatch/internal/state"
	"firestige.xyz/netwatch/internal/stats"
)

// Keybindings, part of the behavioral contract independent of rendering:
// q quits, + widens the window by one step, - narrows it (floor applies).
const (
	keyQuit      = "q"
	keyInterrupt = "<C-c>"
	keyWiden     = "+"
	keyNarrow    = "-"
	keyResize    = "<Resize>"
)

// rateInterval is how often the dashboard asks the aggregator to recompute
// packets/sec and bytes/sec.
const rateInterval = time.Second

// Dashboard drives the render/input loop over one shared state controller.
type Dashboard struct {
	ctl          *state.Controller
	device       string
	pollInterval time.Duration

	w widgetSet

	// render is d.draw in production; tests stub it out so the loop runs
	// without a terminal.
	render func()

	lastRates time.Time
}

// New creates a dashboard over the given controller. device is only used for
// display and metric labels.
func New(ctl *state.Controller, cfg config.UIConfig, device string) *Dashboard {
	d := &Dashboard{
		ctl:          ctl,
		device:       device,
		pollInterval: cfg.PollInterval,
	}
	d.render = d.draw
	return d
}

// Run enters interactive terminal mode, runs the dashboard loop, and restores
// the terminal on every exit path.
func (d *Dashboard) Run() error {
	if err := termui.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer termui.Close()

	d.w.build()
	d.w.layout(termui.TerminalDimensions())

	return d.loop(termui.PollEvents())
}

// loop is one iteration per frame: render a snapshot, poll input with a fixed
// timeout, then re-check the running flag. Separated from Run so tests can
// feed events without a terminal.
func (d *Dashboard) loop(events <-chan termui.Event) error {
	timer := time.NewTimer(d.pollInterval)
	defer timer.Stop()

	for {
		d.maybeUpdateRates()
		d.render()

		timer.Reset(d.pollInterval)
		select {
		case e := <-events:
			if quit := d.handleEvent(e); quit {
				return nil
			}
		case <-timer.C:
			// No input this frame.
		}

		if !d.ctl.Running() {
			return nil
		}
	}
}

// handleEvent applies one input event. It returns true when the loop must
// terminate immediately, without waiting for the next poll cycle.
func (d *Dashboard) handleEvent(e termui.Event) bool {
	switch e.ID {
	case keyQuit, keyInterrupt:
		d.ctl.WithLock(func(a *stats.Aggregator) { a.RequestStop() })
		return true
	case keyWiden:
		d.ctl.WithLock(func(a *stats.Aggregator) { a.AdjustWindow(stats.WindowStep) })
	case keyNarrow:
		d.ctl.WithLock(func(a *stats.Aggregator) { a.AdjustWindow(-stats.WindowStep) })
	case keyResize:
		if r, ok := e.Payload.(termui.Resize); ok {
			d.w.layout(r.Width, r.Height)
			termui.Clear()
		}
	}
	return false
}

func (d *Dashboard) maybeUpdateRates() {
	now := time.Now()
	if now.Sub(d.lastRates) < rateInterval {
		return
	}
	d.lastRates = now
	d.ctl.WithLock(func(a *stats.Aggregator) { a.UpdateRates() })
}

// draw renders one frame. The snapshot copy is the only lock-scoped work;
// widget updates and terminal writes happen after the lock is released.
func (d *Dashboard) draw() {
	snap := d.ctl.Snapshot()
	metrics.WindowSize.Set(float64(snap.WindowSize))

	d.w.update(snap, d.device)
	termui.Render(d.w.drawables()...)
}
