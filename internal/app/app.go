// Package app wires the capture loop and the dashboard loop together.
//
// Exactly two goroutines run for the life of the process: the calling
// goroutine reads packets and feeds the shared aggregator, a second one runs
// the dashboard. They share nothing but the state controller.
package app

import (
	"errors"
	"io"
	"log/slog"

	"firestige.xyz/netwatch/internal/capture"
	"firestige.xyz/netwatch/internal/config"
	"firestige.xyz/netwatch/internal/metrics"
	"firestige.xyz/netwatch/internal/state"
	"firestige.xyz/netwatch/internal/stats"
	"firestige.xyz/netwatch/internal/ui"
)

// dropPollEvery is how many packets pass between polls of the capture drop
// counter on a busy link. Idle links poll on every read timeout instead.
const dropPollEvery = 512

// PacketSource is the capture collaborator as the orchestrator sees it.
// capture.Source implements it; tests substitute fakes.
type PacketSource interface {
	// ReadPacket blocks until the next packet (returning its byte length),
	// a timeout (capture.ErrTimeout), end of stream (io.EOF), or a device
	// fault.
	ReadPacket() (int, error)
	// Dropped reports the cumulative kernel-side drop counter.
	Dropped() (uint64, error)
}

// Run opens the capture source and drives both loops until the user quits or
// the dashboard fails. A capture fault ends only the producer side; the
// dashboard keeps rendering the last known state until the user quits.
func Run(cfg *config.Config) error {
	agg := stats.New(cfg.UI.WindowSize)
	ctl := state.NewController(agg)

	src, err := capture.Open(cfg.Capture)
	if err != nil {
		return err
	}
	defer src.Close()

	if cfg.Metrics.Enabled {
		srv := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
		if err := srv.Start(); err != nil {
			return err
		}
		defer srv.Stop()
	}

	dash := ui.New(ctl, cfg.UI, src.Device())
	uiErr := runDashboard(ctl, dash.Run)

	captureLoop(ctl, src, src.Device())

	// The producer is done. If it ended on a capture fault the dashboard is
	// still live; wait for the user to quit it either way.
	return <-uiErr
}

// runDashboard runs the dashboard on its own goroutine and requests a stop
// once it returns, whether the user quit or the render surface failed. The
// second case matters: without the stop request a failed terminal would leave
// the capture loop running with nobody left to quit it.
func runDashboard(ctl *state.Controller, run func() error) <-chan error {
	errc := make(chan error, 1)
	go func() {
		err := run()
		ctl.WithLock(func(a *stats.Aggregator) { a.RequestStop() })
		errc <- err
	}()
	return errc
}

// captureLoop feeds the aggregator until a stop is requested or the source
// ends. Each packet is one critical section; timeout reads refresh the drop
// counter and give the loop a chance to observe a stop request on a silent
// wire.
func captureLoop(ctl *state.Controller, src PacketSource, device string) {
	for {
		size, err := src.ReadPacket()
		switch {
		case err == nil:
			var n uint64
			ctl.WithLock(func(a *stats.Aggregator) {
				a.RecordPacket(size)
				n = a.PacketsCaptured()
			})
			metrics.PacketsTotal.WithLabelValues(device).Inc()
			metrics.BytesTotal.WithLabelValues(device).Add(float64(size))
			if n%dropPollEvery == 0 {
				pollDrops(ctl, src, device)
			}
		case errors.Is(err, capture.ErrTimeout):
			// No packet this interval. A quiet wire still accumulates
			// kernel drops, so poll the counter here before the running
			// check.
			pollDrops(ctl, src, device)
		case errors.Is(err, io.EOF):
			slog.Info("capture stream ended")
			return
		default:
			slog.Error("capture read failed", "error", err)
			return
		}

		if !ctl.Running() {
			slog.Debug("stop requested, capture loop exiting")
			return
		}
	}
}

func pollDrops(ctl *state.Controller, src PacketSource, device string) {
	dropped, err := src.Dropped()
	if err != nil {
		slog.Warn("failed to read capture drop counter", "error", err)
		return
	}
	ctl.WithLock(func(a *stats.Aggregator) { a.SetDropped(dropped) })
	metrics.DropsTotal.WithLabelValues(device).Set(float64(dropped))
}
