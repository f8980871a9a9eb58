package ui

import (
	"fmt"

	termui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"firestige.xyz/netwatch/internal/stats"
	"firestige.xyz/netwatch/internal/sysinfo"
)

// widgetSet holds the dashboard widgets and their layout.
type widgetSet struct {
	totals  *widgets.Paragraph
	packets *widgets.Paragraph
	rates   *widgets.Paragraph
	cpu     *widgets.Gauge
	mem     *widgets.Gauge

	throughput  *widgets.Plot
	packetSizes *widgets.Plot
	sizeBars    *widgets.BarChart

	help *widgets.Paragraph
}

func (w *widgetSet) build() {
	w.totals = widgets.NewParagraph()
	w.totals.Title = "Total Data"

	w.packets = widgets.NewParagraph()
	w.packets.Title = "Packets"

	w.rates = widgets.NewParagraph()
	w.rates.Title = "Rates"

	w.cpu = widgets.NewGauge()
	w.cpu.Title = "Host CPU"
	w.cpu.BarColor = termui.ColorGreen

	w.mem = widgets.NewGauge()
	w.mem.Title = "Host Memory"
	w.mem.BarColor = termui.ColorMagenta

	w.throughput = widgets.NewPlot()
	w.throughput.Title = "Throughput (KiB per packet)"
	w.throughput.Marker = widgets.MarkerBraille
	w.throughput.LineColors = []termui.Color{termui.ColorCyan}
	w.throughput.Data = [][]float64{{0, 0}}

	w.packetSizes = widgets.NewPlot()
	w.packetSizes.Title = "Packet Sizes (bytes)"
	w.packetSizes.Marker = widgets.MarkerBraille
	w.packetSizes.LineColors = []termui.Color{termui.ColorBlue}
	w.packetSizes.Data = [][]float64{{0, 0}}

	w.sizeBars = widgets.NewBarChart()
	w.sizeBars.Title = "Size Distribution"
	w.sizeBars.Labels = stats.SizeBinLabels[:]
	w.sizeBars.BarWidth = 9
	w.sizeBars.BarColors = []termui.Color{termui.ColorYellow}

	w.help = widgets.NewParagraph()
	w.help.Border = false
	w.help.Text = "[q](fg:red) quit   [+](fg:green) widen window   [-](fg:green) narrow window"
	w.help.TextStyle = termui.NewStyle(termui.ColorWhite)
}

// layout positions the widgets for a w x h terminal. Called at startup and on
// every resize event.
func (w *widgetSet) layout(width, height int) {
	third := width / 3
	w.totals.SetRect(0, 0, third, 3)
	w.packets.SetRect(third, 0, 2*third, 3)
	w.rates.SetRect(2*third, 0, width, 3)

	w.cpu.SetRect(0, 3, width/2, 6)
	w.mem.SetRect(width/2, 3, width, 6)

	// Charts fill the middle; bar chart and help take the bottom rows.
	barTop := height - 9
	if barTop < 6 {
		barTop = 6
	}
	w.throughput.SetRect(0, 6, width/2, barTop)
	w.packetSizes.SetRect(width/2, 6, width, barTop)

	w.sizeBars.SetRect(0, barTop, width, height-2)
	w.help.SetRect(0, height-2, width, height)
}

// update refreshes widget contents from one snapshot. Host stats are read
// here as well; they never touch the shared lock.
func (w *widgetSet) update(snap stats.Snapshot, device string) {
	w.totals.Text = fmt.Sprintf("[%s](fg:white,mod:bold) on %s", formatBytes(snap.TotalBytes), device)
	w.packets.Text = fmt.Sprintf("[%d](fg:white,mod:bold) captured, %d dropped", snap.PacketsCaptured, snap.Dropped)
	w.rates.Text = fmt.Sprintf("%.0f pps  %s/s  last %s",
		snap.PacketsPerSec, formatBytes(uint64(snap.BytesPerSec)), formatBytes(snap.CurrentThroughput))

	if host, err := sysinfo.Collect(); err == nil {
		w.cpu.Percent = clampPercent(host.CPUPercent)
		w.cpu.Label = fmt.Sprintf("%.1f%%", host.CPUPercent)
		w.mem.Percent = clampPercent(host.MemPercent)
		w.mem.Label = fmt.Sprintf("%s / %s", formatBytes(host.MemUsed), formatBytes(host.MemTotal))
	}

	w.throughput.Title = fmt.Sprintf("Throughput (KiB per packet, window=%d)", snap.WindowSize)
	w.throughput.Data = [][]float64{plotValues(snap.Throughput)}

	w.packetSizes.Title = fmt.Sprintf("Packet Sizes (bytes, window=%d)%s", snap.WindowSize, timeRange(snap.PacketSizes))
	w.packetSizes.Data = [][]float64{plotValues(snap.PacketSizes)}

	w.sizeBars.Title = fmt.Sprintf("Size Distribution  p50=%dB p90=%dB p99=%dB", snap.SizeP50, snap.SizeP90, snap.SizeP99)
	w.sizeBars.Data = binValues(snap.SizeBins)
}

func (w *widgetSet) drawables() []termui.Drawable {
	return []termui.Drawable{
		w.totals, w.packets, w.rates,
		w.cpu, w.mem,
		w.throughput, w.packetSizes, w.sizeBars,
		w.help,
	}
}

// plotValues extracts the value series for a Plot. termui requires at least
// two points per series, so sparse histories are padded with zeros.
func plotValues(samples []stats.Sample) []float64 {
	if len(samples) < 2 {
		return []float64{0, 0}
	}
	vals := make([]float64, len(samples))
	for i, s := range samples {
		vals[i] = s.Value
	}
	return vals
}

// timeRange renders the elapsed-seconds span of a history for a chart title.
func timeRange(samples []stats.Sample) string {
	if len(samples) == 0 {
		return ""
	}
	return fmt.Sprintf("  t=%.0fs..%.0fs", samples[0].Time, samples[len(samples)-1].Time)
}

func binValues(bins [4]uint64) []float64 {
	out := make([]float64, len(bins))
	for i, b := range bins {
		out[i] = float64(b)
	}
	return out
}

func clampPercent(p float64) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return int(p)
	}
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
