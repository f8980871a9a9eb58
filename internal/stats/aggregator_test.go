package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPacketTotals(t *testing.T) {
	a := New(DefaultWindowSize)

	sizes := []int{100, 0, 2048, 64, 1500}
	var want uint64
	for _, s := range sizes {
		a.RecordPacket(s)
		want += uint64(s)
	}

	assert.Equal(t, want, a.TotalBytes())
	assert.Equal(t, uint64(len(sizes)), a.PacketsCaptured())
	assert.Equal(t, uint64(1500), a.Snapshot().CurrentThroughput)
}

func TestWindowBoundHeldAfterEveryRecord(t *testing.T) {
	a := New(MinWindowSize)

	for i := 0; i < 100; i++ {
		a.RecordPacket(i)
		snap := a.Snapshot()
		assert.LessOrEqual(t, len(snap.Throughput), snap.WindowSize)
		assert.LessOrEqual(t, len(snap.PacketSizes), snap.WindowSize)
	}
}

func TestSampleTimesNonDecreasing(t *testing.T) {
	a := New(DefaultWindowSize)
	for i := 0; i < 200; i++ {
		a.RecordPacket(100)
	}

	snap := a.Snapshot()
	for _, hist := range [][]Sample{snap.Throughput, snap.PacketSizes} {
		for i := 1; i < len(hist); i++ {
			assert.GreaterOrEqual(t, hist[i].Time, hist[i-1].Time)
		}
	}
}

func TestThroughputSampleIsKiB(t *testing.T) {
	a := New(DefaultWindowSize)
	a.RecordPacket(2048)

	snap := a.Snapshot()
	require.Len(t, snap.Throughput, 1)
	assert.Equal(t, 2.0, snap.Throughput[0].Value)
	assert.Equal(t, 2048.0, snap.PacketSizes[0].Value)
}

func TestEvictionKeepsNewestSamples(t *testing.T) {
	a := New(MinWindowSize)
	a.windowSize = 2 // below the public floor on purpose, exercises eviction

	for _, s := range []int{100, 200, 300} {
		a.RecordPacket(s)
	}

	snap := a.Snapshot()
	require.Len(t, snap.PacketSizes, 2)
	assert.Equal(t, 200.0, snap.PacketSizes[0].Value)
	assert.Equal(t, 300.0, snap.PacketSizes[1].Value)
	assert.Equal(t, uint64(600), snap.TotalBytes)
	assert.Equal(t, uint64(3), snap.PacketsCaptured)
}

func TestAdjustWindowFloor(t *testing.T) {
	a := New(DefaultWindowSize)

	for i := 0; i < 6; i++ {
		a.AdjustWindow(-WindowStep)
	}
	assert.Equal(t, MinWindowSize, a.WindowSize())

	// One more decrement still holds at the floor.
	a.AdjustWindow(-WindowStep)
	assert.Equal(t, MinWindowSize, a.WindowSize())

	a.AdjustWindow(WindowStep)
	assert.Equal(t, MinWindowSize+WindowStep, a.WindowSize())
}

func TestShrinkTrimsLazily(t *testing.T) {
	a := New(30)
	for i := 0; i < 30; i++ {
		a.RecordPacket(100)
	}

	a.AdjustWindow(-WindowStep)
	// No retroactive truncation on shrink.
	assert.Len(t, a.Snapshot().PacketSizes, 30)

	// The next records converge the histories onto the new bound.
	for i := 0; i < 10; i++ {
		a.RecordPacket(100)
	}
	assert.Len(t, a.Snapshot().PacketSizes, 20)
}

func TestRequestStopIdempotent(t *testing.T) {
	a := New(DefaultWindowSize)
	require.True(t, a.Running())

	a.RequestStop()
	a.RequestStop()
	assert.False(t, a.Running())
}

func TestNewFloorsWindowSize(t *testing.T) {
	assert.Equal(t, MinWindowSize, New(3).WindowSize())
	assert.Equal(t, 100, New(100).WindowSize())
}

func TestUpdateRates(t *testing.T) {
	a := New(DefaultWindowSize)
	clock := a.startTime
	a.now = func() time.Time { return clock }

	for i := 0; i < 10; i++ {
		a.RecordPacket(512)
	}
	clock = clock.Add(2 * time.Second)
	a.UpdateRates()

	snap := a.Snapshot()
	assert.InDelta(t, 5.0, snap.PacketsPerSec, 1e-9)
	assert.InDelta(t, 2560.0, snap.BytesPerSec, 1e-9)

	// No traffic in the next interval drops the rates to zero.
	clock = clock.Add(time.Second)
	a.UpdateRates()
	assert.Zero(t, a.Snapshot().PacketsPerSec)
}

func TestSizeDistribution(t *testing.T) {
	a := New(DefaultWindowSize)
	for _, s := range []int{40, 64, 65, 512, 600, 1500, 9000} {
		a.RecordPacket(s)
	}

	snap := a.Snapshot()
	assert.Equal(t, [4]uint64{2, 2, 2, 1}, snap.SizeBins)
	assert.NotZero(t, snap.SizeP50)
	assert.GreaterOrEqual(t, snap.SizeP99, snap.SizeP50)
}

func TestSnapshotCopiesHistories(t *testing.T) {
	a := New(DefaultWindowSize)
	a.RecordPacket(100)

	snap := a.Snapshot()
	snap.PacketSizes[0].Value = 999

	assert.Equal(t, 100.0, a.Snapshot().PacketSizes[0].Value)
}
