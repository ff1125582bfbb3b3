package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ─── Section configs ────────────────────────────────────────────────────

type SerialConfig struct {
	Port          string `yaml:"port"`
	BaudRate      int    `yaml:"baud_rate"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ReadTimeout bounds how long one tick may block on the transport.
func (c SerialConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

type DisplayConfig struct {
	TickIntervalMs int  `yaml:"tick_interval_ms"`
	Headless       bool `yaml:"headless"`
}

func (c DisplayConfig) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

type StorageConfig struct {
	CSVPath       string `yaml:"csv_path"`
	SessionPrefix string `yaml:"session_prefix"`
	Fsync         bool   `yaml:"fsync"`
}

type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

type SimulationConfig struct {
	Enabled      bool `yaml:"enabled"`
	SampleRateHz int  `yaml:"sample_rate_hz"`
}

// Config is the top-level structure for logger.yaml.
type Config struct {
	Serial     SerialConfig     `yaml:"serial"`
	Display    DisplayConfig    `yaml:"display"`
	Storage    StorageConfig    `yaml:"storage"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Serial: SerialConfig{
			BaudRate:      115200,
			ReadTimeoutMs: 1000,
		},
		Display: DisplayConfig{
			TickIntervalMs: 50,
		},
		Storage: StorageConfig{
			SessionPrefix: "pushup_data",
			Fsync:         true,
		},
		Simulation: SimulationConfig{
			SampleRateHz: 20,
		},
	}
}

// ─── Loader ─────────────────────────────────────────────────────────────

// LoadConfig reads logger.yaml on top of DefaultConfig. Keys missing from
// the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings that the pipeline cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.Serial.Port == "" && !c.Simulation.Enabled {
		errs = append(errs, errors.New("serial.port is required unless simulation is enabled"))
	}
	if c.Serial.BaudRate <= 0 {
		errs = append(errs, fmt.Errorf("serial.baud_rate must be positive, got %d", c.Serial.BaudRate))
	}
	if c.Serial.ReadTimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("serial.read_timeout_ms must be positive, got %d", c.Serial.ReadTimeoutMs))
	}
	if c.Display.TickIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("display.tick_interval_ms must be positive, got %d", c.Display.TickIntervalMs))
	}
	if c.Storage.CSVPath == "" && c.Storage.SessionPrefix == "" {
		errs = append(errs, errors.New("storage.csv_path or storage.session_prefix is required"))
	}
	if c.Simulation.Enabled && c.Simulation.SampleRateHz <= 0 {
		errs = append(errs, fmt.Errorf("simulation.sample_rate_hz must be positive, got %d", c.Simulation.SampleRateHz))
	}
	return errors.Join(errs...)
}
