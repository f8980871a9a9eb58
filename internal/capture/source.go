// Package capture implements the packet source on top of gopacket/pcap.
//
// The source delivers one packet-size event per read. Reads block for at most
// the configured timeout so the caller can re-check its stop condition on a
// silent wire.
package capture

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/gopacket/pcap"

	"firestige.xyz/netwatch/internal/config"
)

// ErrTimeout is returned by ReadPacket when no packet arrived within the
// configured read timeout. It is not a fault; callers should loop.
var ErrTimeout = errors.New("capture: read timed out")

// Source is an open capture handle on one interface.
type Source struct {
	handle *pcap.Handle
	device string
}

// Open resolves the capture device and opens a live pcap handle on it. An
// empty interface name selects the first usable non-loopback device.
func Open(cfg config.CaptureConfig) (*Source, error) {
	device := cfg.Interface
	if device == "" {
		devs, err := pcap.FindAllDevs()
		if err != nil {
			return nil, fmt.Errorf("enumerate capture devices: %w", err)
		}
		device, err = defaultDevice(devs)
		if err != nil {
			return nil, err
		}
	}

	timeout := cfg.ReadTimeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}

	handle, err := pcap.OpenLive(device, int32(cfg.SnapLen), cfg.Promiscuous, timeout)
	if err != nil {
		return nil, fmt.Errorf("open capture on %s: %w", device, err)
	}

	slog.Info("capture opened",
		"interface", device,
		"snap_len", cfg.SnapLen,
		"promiscuous", cfg.Promiscuous,
		"read_timeout", timeout)

	return &Source{handle: handle, device: device}, nil
}

// ReadPacket blocks until the next packet arrives, the read timeout expires
// (ErrTimeout), or the stream ends (io.EOF). On success it returns the
// packet's byte length.
func (s *Source) ReadPacket() (int, error) {
	data, _, err := s.handle.ReadPacketData()
	switch {
	case err == nil:
		return len(data), nil
	case errors.Is(err, pcap.NextErrorTimeoutExpired):
		return 0, ErrTimeout
	case errors.Is(err, io.EOF):
		return 0, io.EOF
	default:
		return 0, fmt.Errorf("read packet on %s: %w", s.device, err)
	}
}

// Dropped returns the cumulative kernel-side drop count for this handle.
func (s *Source) Dropped() (uint64, error) {
	st, err := s.handle.Stats()
	if err != nil {
		return 0, fmt.Errorf("read capture stats: %w", err)
	}
	return uint64(st.PacketsDropped + st.PacketsIfDropped), nil
}

// Device returns the resolved interface name.
func (s *Source) Device() string {
	return s.device
}

// Close releases the pcap handle.
func (s *Source) Close() {
	s.handle.Close()
}
