package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/piethoff/udp-to-csv/internal/decode"
)

// Config represents the complete service configuration. It is constructed
// once at startup and never mutated afterwards.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Decode  DecodeConfig  `yaml:"decode"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains the UDP listener configuration.
type ServerConfig struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`
	// BufferSize is the fixed receive buffer in bytes. Datagrams longer
	// than this are truncated by the transport; known limitation.
	BufferSize int `yaml:"buffer_size"`
}

// DecodeConfig selects how packet payloads are interpreted.
type DecodeConfig struct {
	// DataType is one of bool, u8, i8, u16, i16 (case-insensitive;
	// "boolean" is accepted for bool).
	DataType string `yaml:"data_type"`
}

// OutputConfig selects the CSV destination. An empty path streams to
// stdout, flushed per packet; a non-empty path appends batches to the file.
type OutputConfig struct {
	Path           string `yaml:"path"`
	FlushThreshold int    `yaml:"flush_threshold"`
}

// MetricsConfig contains the optional Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// LoggingConfig contains logging configuration. Output may be "stderr",
// "stdout" or a file path; file output is rotated.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used when no config file is given.
// Listener values mirror the original command-line defaults; the CSV goes
// to stdout until an output path is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BindAddress: "0.0.0.0",
			BufferSize:  512,
		},
		Decode: DecodeConfig{
			DataType: "u16",
		},
		Output: OutputConfig{
			FlushThreshold: 1000,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1",
			Port:    9100,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load reads and parses the configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

// Validate performs validation of the complete configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Decode.Validate(); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output config: %w", err)
	}

	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates the listener configuration.
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}

	if s.BindAddress == "" {
		return fmt.Errorf("bind_address cannot be empty")
	}

	if s.BufferSize < 1 {
		return fmt.Errorf("buffer_size must be positive, got %d", s.BufferSize)
	}

	return nil
}

// Validate validates the decode configuration.
func (d *DecodeConfig) Validate() error {
	if _, err := decode.ParseElementType(d.DataType); err != nil {
		return err
	}
	return nil
}

// ElementType returns the parsed element type. Validate must have passed.
func (d *DecodeConfig) ElementType() decode.ElementType {
	t, _ := decode.ParseElementType(d.DataType)
	return t
}

// Validate validates the output configuration.
func (o *OutputConfig) Validate() error {
	if o.FlushThreshold < 1 {
		return fmt.Errorf("flush_threshold must be at least 1, got %d", o.FlushThreshold)
	}
	return nil
}

// Validate validates the metrics configuration.
func (m *MetricsConfig) Validate() error {
	if m.Enabled {
		if m.Port < 1 || m.Port > 65535 {
			return fmt.Errorf("metrics port must be between 1 and 65535, got %d", m.Port)
		}

		if m.Address == "" {
			return fmt.Errorf("metrics address cannot be empty when metrics are enabled")
		}
	}

	return nil
}

// Validate validates the logging configuration.
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	if l.MaxSizeMB < 1 {
		return fmt.Errorf("max_size_mb must be at least 1, got %d", l.MaxSizeMB)
	}

	return nil
}
