package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the host-side configuration. The rig's channel set
// (count, resolution, topology, voltage range) and the statistics
// window capacity are fixed at build time and deliberately absent here.
type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Monitor MonitorConfig `yaml:"monitor"`
	Sim     SimConfig     `yaml:"sim"`
}

// SerialConfig contains serial link configuration for report output.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// MonitorConfig contains monitoring loop parameters.
type MonitorConfig struct {
	SamplePeriod   time.Duration `yaml:"sample_period"`   // time between readings
	AcquireTimeout time.Duration `yaml:"acquire_timeout"` // bound on one conversion wait
	MaxReadings    uint64        `yaml:"max_readings"`    // stop after this many readings (0 = run forever)
}

// SimConfig contains simulated peripheral configuration.
type SimConfig struct {
	BiasVolts       []float64     `yaml:"bias_volts,flow"` // per-channel bias voltage (V)
	NoiseVolts      float64       `yaml:"noise_volts"`     // noise amplitude (V)
	ConversionDelay time.Duration `yaml:"conversion_delay"`
	Railed          []bool        `yaml:"railed,flow"` // per-channel stuck-at-rail injection
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0",
			BaudRate: 115200,
		},
		Monitor: MonitorConfig{
			SamplePeriod:   time.Second,
			AcquireTimeout: 100 * time.Millisecond,
			MaxReadings:    0,
		},
		Sim: SimConfig{
			BiasVolts:       []float64{0.25, 1.2},
			NoiseVolts:      0.002,
			ConversionDelay: 100 * time.Microsecond,
			Railed:          []bool{false, false},
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist
// or fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Monitor.SamplePeriod == 0 {
		c.Monitor.SamplePeriod = def.Monitor.SamplePeriod
	}
	if c.Monitor.AcquireTimeout == 0 {
		c.Monitor.AcquireTimeout = def.Monitor.AcquireTimeout
	}

	if len(c.Sim.BiasVolts) == 0 {
		c.Sim.BiasVolts = def.Sim.BiasVolts
	}
	if c.Sim.NoiseVolts == 0 {
		c.Sim.NoiseVolts = def.Sim.NoiseVolts
	}
	if c.Sim.ConversionDelay == 0 {
		c.Sim.ConversionDelay = def.Sim.ConversionDelay
	}
	if len(c.Sim.Railed) == 0 {
		c.Sim.Railed = def.Sim.Railed
	}
}
