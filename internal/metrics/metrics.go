// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PacketsTotal counts packets observed on the capture interface.
	PacketsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netwatch_capture_packets_total",
			Help: "Total number of packets observed",
		},
		[]string{"interface"},
	)

	// BytesTotal counts bytes observed on the capture interface.
	BytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netwatch_capture_bytes_total",
			Help: "Total number of bytes observed",
		},
		[]string{"interface"},
	)

	// DropsTotal tracks the kernel-side drop counter reported by pcap.
	DropsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netwatch_capture_drops_total",
			Help: "Packets dropped by the capture layer (cumulative, kernel-reported)",
		},
		[]string{"interface"},
	)

	// WindowSize tracks the current per-metric sample window bound.
	WindowSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "netwatch_window_size",
			Help: "Current number of samples retained per metric window",
		},
	)
)
