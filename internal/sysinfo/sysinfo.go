// Package sysinfo reads host CPU and memory usage for the dashboard's host
// panel. Collection happens on the UI side, never under the shared stats lock.
package sysinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Stats is one host usage reading.
type Stats struct {
	CPUPercent float64
	MemUsed    uint64
	MemTotal   uint64
	MemPercent float64
}

// Collect reads current CPU and memory usage. The CPU figure is the usage
// since the previous Collect call (the first call reports zero).
func Collect() (Stats, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Stats{}, fmt.Errorf("read memory stats: %w", err)
	}

	// interval 0 = non-blocking, measured against the previous call.
	pcts, err := cpu.Percent(0, false)
	if err != nil {
		return Stats{}, fmt.Errorf("read cpu stats: %w", err)
	}

	s := Stats{
		MemUsed:    vm.Used,
		MemTotal:   vm.Total,
		MemPercent: vm.UsedPercent,
	}
	if len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	return s, nil
}
