package stats

// Snapshot is a point-in-time copy of aggregator state used for one render
// frame. Histories are copied, never aliased, so the render side can read it
// after the lock is released.
type Snapshot struct {
	TotalBytes        uint64
	PacketsCaptured   uint64
	CurrentThroughput uint64
	Dropped           uint64
	WindowSize        int
	Running           bool

	PacketsPerSec float64
	BytesPerSec   float64

	Throughput  []Sample // value = packet size in KiB
	PacketSizes []Sample // value = packet size in bytes

	SizeBins [4]uint64 // display bins, see SizeBinLabels
	SizeP50  int64
	SizeP90  int64
	SizeP99  int64
}

// Snapshot copies the state a render frame needs.
func (a *Aggregator) Snapshot() Snapshot {
	s := Snapshot{
		TotalBytes:        a.totalBytes,
		PacketsCaptured:   a.packetsCaptured,
		CurrentThroughput: a.currentThroughput,
		Dropped:           a.dropped,
		WindowSize:        a.windowSize,
		Running:           a.running,
		PacketsPerSec:     a.packetsPerSec,
		BytesPerSec:       a.bytesPerSec,
		SizeBins:          a.sizeBins,
		Throughput:        make([]Sample, len(a.throughputHistory)),
		PacketSizes:       make([]Sample, len(a.packetSizeHistory)),
	}
	copy(s.Throughput, a.throughputHistory)
	copy(s.PacketSizes, a.packetSizeHistory)
	if a.sizeHist.TotalCount() > 0 {
		s.SizeP50 = a.sizeHist.ValueAtQuantile(50)
		s.SizeP90 = a.sizeHist.ValueAtQuantile(90)
		s.SizeP99 = a.sizeHist.ValueAtQuantile(99)
	}
	return s
}
