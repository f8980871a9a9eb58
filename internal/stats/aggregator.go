// Package stats implements the windowed traffic aggregator. It is pure data:
// no I/O, no locking. Concurrent access goes through internal/state.
package stats

import (
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// DefaultWindowSize is the number of samples retained per metric window.
	DefaultWindowSize = 60
	// MinWindowSize is the floor the window can never shrink below.
	MinWindowSize = 10
	// WindowStep is the amount a single resize keypress changes the window by.
	WindowStep = 10

	// Packet-size histogram bounds. 64 KiB covers the largest IP datagram.
	sizeHistMin = 1
	sizeHistMax = 64 * 1024
)

// sizeBinBounds are the upper bounds (inclusive) of the display bins for the
// size-distribution bar chart. The last bin is open-ended.
var sizeBinBounds = [3]int{64, 512, 1500}

// SizeBinLabels name the display bins, index-aligned with Snapshot.SizeBins.
var SizeBinLabels = [4]string{"<=64B", "<=512B", "<=1500B", ">1500B"}

// Sample is one point in a metric window: elapsed seconds since the
// aggregator was created, and the metric value at that instant.
type Sample struct {
	Time  float64
	Value float64
}

// Aggregator accumulates capture totals and two bounded, time-ordered sample
// windows (throughput in KiB, packet size in bytes). One instance exists per
// process, owned by a state.Controller for its whole life.
type Aggregator struct {
	totalBytes        uint64
	packetsCaptured   uint64
	currentThroughput uint64
	dropped           uint64

	throughputHistory []Sample
	packetSizeHistory []Sample
	windowSize        int

	sizeHist *hdrhistogram.Histogram
	sizeBins [4]uint64

	packetsPerSec   float64
	bytesPerSec     float64
	lastRateTime    time.Time
	lastRateBytes   uint64
	lastRatePackets uint64

	startTime time.Time
	running   bool

	now func() time.Time
}

// New creates an aggregator with the given window size. Sizes below the floor
// are raised to it.
func New(windowSize int) *Aggregator {
	if windowSize < MinWindowSize {
		windowSize = MinWindowSize
	}
	now := time.Now()
	return &Aggregator{
		throughputHistory: make([]Sample, 0, windowSize),
		packetSizeHistory: make([]Sample, 0, windowSize),
		windowSize:        windowSize,
		sizeHist:          hdrhistogram.New(sizeHistMin, sizeHistMax, 3),
		startTime:         now,
		lastRateTime:      now,
		running:           true,
		now:               time.Now,
	}
}

// RecordPacket folds one observed packet of the given size into the totals,
// the sample windows and the size distribution. Size 0 is legal and records a
// zero-valued sample. A single call is one critical section for the caller.
func (a *Aggregator) RecordPacket(size int) {
	if size < 0 {
		return
	}
	a.totalBytes += uint64(size)
	a.packetsCaptured++
	a.currentThroughput = uint64(size)

	elapsed := a.now().Sub(a.startTime).Seconds()
	a.throughputHistory = append(a.throughputHistory, Sample{Time: elapsed, Value: float64(size) / 1024.0})
	a.packetSizeHistory = append(a.packetSizeHistory, Sample{Time: elapsed, Value: float64(size)})

	for len(a.throughputHistory) > a.windowSize {
		a.throughputHistory = a.throughputHistory[1:]
	}
	for len(a.packetSizeHistory) > a.windowSize {
		a.packetSizeHistory = a.packetSizeHistory[1:]
	}

	a.recordSize(size)
}

func (a *Aggregator) recordSize(size int) {
	v := int64(size)
	if v > sizeHistMax {
		v = sizeHistMax
	}
	// RecordValue only fails for values outside the configured range, which
	// the clamp above rules out.
	_ = a.sizeHist.RecordValue(v)

	switch {
	case size <= sizeBinBounds[0]:
		a.sizeBins[0]++
	case size <= sizeBinBounds[1]:
		a.sizeBins[1]++
	case size <= sizeBinBounds[2]:
		a.sizeBins[2]++
	default:
		a.sizeBins[3]++
	}
}

// AdjustWindow changes the window size by delta, flooring at MinWindowSize.
// Histories are not truncated here; a shrink converges as later RecordPacket
// calls trim from the front.
func (a *Aggregator) AdjustWindow(delta int) {
	a.windowSize += delta
	if a.windowSize < MinWindowSize {
		a.windowSize = MinWindowSize
	}
}

// UpdateRates recomputes packets/sec and bytes/sec from the deltas since the
// previous call. Callers drive this on a coarse cadence (about once a second).
func (a *Aggregator) UpdateRates() {
	now := a.now()
	elapsed := now.Sub(a.lastRateTime).Seconds()
	if elapsed <= 0 {
		return
	}
	a.packetsPerSec = float64(a.packetsCaptured-a.lastRatePackets) / elapsed
	a.bytesPerSec = float64(a.totalBytes-a.lastRateBytes) / elapsed
	a.lastRatePackets = a.packetsCaptured
	a.lastRateBytes = a.totalBytes
	a.lastRateTime = now
}

// SetDropped records the kernel-side drop counter reported by the capture
// handle. The counter is cumulative, so the value replaces the previous one.
func (a *Aggregator) SetDropped(n uint64) {
	a.dropped = n
}

// RequestStop marks the aggregator as stopping. Idempotent.
func (a *Aggregator) RequestStop() {
	a.running = false
}

// Running reports whether a stop has been requested yet.
func (a *Aggregator) Running() bool {
	return a.running
}

// WindowSize returns the current sample window bound.
func (a *Aggregator) WindowSize() int {
	return a.windowSize
}

// TotalBytes returns the cumulative byte count.
func (a *Aggregator) TotalBytes() uint64 {
	return a.totalBytes
}

// PacketsCaptured returns the cumulative packet count.
func (a *Aggregator) PacketsCaptured() uint64 {
	return a.packetsCaptured
}
