package capture

import (
	"fmt"
	"strings"

	"github.com/google/gopacket/pcap"
)

// Device describes one capture candidate for the `devices` command.
type Device struct {
	Name        string
	Description string
	Addresses   []string
}

// Devices lists the interfaces pcap can capture on.
func Devices() ([]Device, error) {
	devs, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("enumerate capture devices: %w", err)
	}

	out := make([]Device, 0, len(devs))
	for _, d := range devs {
		dev := Device{Name: d.Name, Description: d.Description}
		for _, a := range d.Addresses {
			dev.Addresses = append(dev.Addresses, a.IP.String())
		}
		out = append(out, dev)
	}
	return out, nil
}

// defaultDevice picks the first non-loopback interface with an address,
// falling back to the first device when nothing better exists.
func defaultDevice(devs []pcap.Interface) (string, error) {
	if len(devs) == 0 {
		return "", fmt.Errorf("no capture devices found")
	}
	for _, d := range devs {
		if isLoopback(d.Name, d.Description) {
			continue
		}
		if len(d.Addresses) == 0 {
			continue
		}
		return d.Name, nil
	}
	return devs[0].Name, nil
}

func isLoopback(name, description string) bool {
	low := strings.ToLower(name + description)
	return strings.HasPrefix(low, "lo") || strings.Contains(low, "loopback")
}
