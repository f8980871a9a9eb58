// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"firestige.xyz/netwatch/internal/stats"
)

// Config is the top-level static configuration.
// Maps to the `netwatch:` root key in YAML.
type Config struct {
	Capture CaptureConfig `mapstructure:"capture"`
	UI      UIConfig      `mapstructure:"ui"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Log     LogConfig     `mapstructure:"log"`
}

// configRoot wraps Config under the `netwatch:` key.
type configRoot struct {
	Netwatch Config `mapstructure:"netwatch"`
}

// ─── Capture ───

// CaptureConfig configures the pcap capture source.
type CaptureConfig struct {
	Interface   string `mapstructure:"interface"` // empty = first non-loopback device
	SnapLen     int    `mapstructure:"snap_len"`
	Promiscuous bool   `mapstructure:"promiscuous"`
	// ReadTimeout bounds how long a single packet read blocks. It also bounds
	// shutdown latency on a silent wire, since the capture loop can only
	// observe a stop request between reads.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

// ─── Dashboard ───

// UIConfig configures the dashboard loop.
type UIConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"` // input poll timeout per frame
	WindowSize   int           `mapstructure:"window_size"`   // samples retained per metric
}

// ─── Metrics ───

// MetricsConfig configures the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

// ─── Logging ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level"`  // debug | info | warn | error
	Format  string           `mapstructure:"format"` // json | text
	Outputs LogOutputsConfig `mapstructure:"outputs"`
}

// LogOutputsConfig contains log output settings. There is no stdout output:
// the dashboard owns the terminal while running, and log lines written to it
// would corrupt the screen. Without a file output, logs are discarded.
type LogOutputsConfig struct {
	File FileOutputConfig `mapstructure:"file"`
}

// FileOutputConfig configures rotated file logging.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig contains lumberjack rotation settings.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// Load reads the config file at path, applies env overrides and defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Environment variable overrides. The `netwatch.` key prefix maps
	// naturally via the key replacer (e.g., key "netwatch.log.level" → env
	// "NETWATCH_LOG_LEVEL").
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Netwatch

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load, except a missing file at the given path
// falls back to the built-in defaults instead of failing. Used for the
// default config location so the tool runs without any config file at all.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var root configRoot
	// Decoding pure defaults cannot fail.
	_ = v.Unmarshal(&root)
	cfg := root.Netwatch
	return &cfg
}

func setDefaults(v *viper.Viper) {
	// Capture defaults
	v.SetDefault("netwatch.capture.interface", "")
	v.SetDefault("netwatch.capture.snap_len", 65535)
	v.SetDefault("netwatch.capture.promiscuous", true)
	v.SetDefault("netwatch.capture.read_timeout", "500ms")

	// UI defaults
	v.SetDefault("netwatch.ui.poll_interval", "100ms")
	v.SetDefault("netwatch.ui.window_size", stats.DefaultWindowSize)

	// Metrics defaults
	v.SetDefault("netwatch.metrics.enabled", false)
	v.SetDefault("netwatch.metrics.listen", "127.0.0.1:9091")
	v.SetDefault("netwatch.metrics.path", "/metrics")

	// Log defaults
	v.SetDefault("netwatch.log.level", "info")
	v.SetDefault("netwatch.log.format", "text")
	v.SetDefault("netwatch.log.outputs.file.enabled", false)
	v.SetDefault("netwatch.log.outputs.file.path", "/var/log/netwatch/netwatch.log")
	v.SetDefault("netwatch.log.outputs.file.rotation.max_size_mb", 100)
	v.SetDefault("netwatch.log.outputs.file.rotation.max_age_days", 30)
	v.SetDefault("netwatch.log.outputs.file.rotation.max_backups", 5)
	v.SetDefault("netwatch.log.outputs.file.rotation.compress", true)
}

// Validate checks the loaded configuration.
func (cfg *Config) Validate() error {
	// ── Log validation ──
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json/text)", cfg.Log.Format)
	}

	// ── Capture validation ──
	if cfg.Capture.SnapLen <= 0 {
		return fmt.Errorf("capture.snap_len must be positive, got %d", cfg.Capture.SnapLen)
	}
	if cfg.Capture.ReadTimeout <= 0 {
		return fmt.Errorf("capture.read_timeout must be positive, got %v", cfg.Capture.ReadTimeout)
	}

	// ── UI validation ──
	if cfg.UI.PollInterval <= 0 {
		return fmt.Errorf("ui.poll_interval must be positive, got %v", cfg.UI.PollInterval)
	}
	if cfg.UI.WindowSize < stats.MinWindowSize {
		return fmt.Errorf("ui.window_size must be at least %d, got %d", stats.MinWindowSize, cfg.UI.WindowSize)
	}

	// ── Metrics validation ──
	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen is required when metrics.enabled=true")
	}

	return nil
}
