package intc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Architectural limits shared with the register layout.
const (
	// MaxDevices is the highest supported interrupt source id. Source 0 is
	// reserved to mean "no interrupt".
	MaxDevices = 1023

	// MaxContexts bounds the number of consumer contexts the register
	// window can address.
	MaxContexts = 15872

	// DefaultBase is the conventional MMIO base for the controller.
	DefaultBase uint64 = 0x0c00_0000
)

// Config describes a controller instance. All counts are fixed at
// construction; the controller never grows or shrinks afterwards.
type Config struct {
	// Devices is the number of interrupt sources, excluding reserved id 0.
	Devices int `yaml:"devices"`

	// Contexts is the number of independent consumers (e.g. hart/mode
	// pairs), each with its own enable mask and threshold.
	Contexts int `yaml:"contexts"`

	// Priorities is the configured number of priority levels. The
	// effective level count is min(Priorities, Devices). Zero selects the
	// degenerate fixed-priority mode: priorities read as 1, thresholds as
	// 0, and writes to either are ignored.
	Priorities int `yaml:"priorities"`

	// Base is the MMIO base address used when the controller is placed on
	// a bus. Defaults to DefaultBase.
	Base uint64 `yaml:"base,omitempty"`
}

func (c *Config) normalize() {
	if c.Base == 0 {
		c.Base = DefaultBase
	}
}

// Validate checks the configured bounds.
func (c Config) Validate() error {
	if c.Devices < 0 || c.Devices > MaxDevices {
		return fmt.Errorf("intc: device count %d out of range [0, %d]", c.Devices, MaxDevices)
	}
	if c.Contexts < 1 {
		return fmt.Errorf("intc: context count %d must be at least 1", c.Contexts)
	}
	if c.Contexts > MaxContexts {
		return fmt.Errorf("intc: context count %d exceeds maximum %d", c.Contexts, MaxContexts)
	}
	if c.Priorities < 0 {
		return fmt.Errorf("intc: priority level count %d must not be negative", c.Priorities)
	}
	return nil
}

// priorityLevels returns the effective number of priority levels.
func (c Config) priorityLevels() int {
	if c.Priorities > c.Devices {
		return c.Devices
	}
	return c.Priorities
}

// LoadConfig reads a yaml controller configuration from path and applies
// defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("intc: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("intc: parse config %q: %w", path, err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
