package benchmark

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-bbox/postprocess"
)

// Config represents the overall benchmark configuration.
//
// DetectionsPath is an optional CSV fixture, or a directory of frame-N.csv
// files, to run detection-level NMS over with the NMS settings.
type Config struct {
	OutputDir      string                 `json:"output_dir"      yaml:"output_dir"`
	Scenarios      []Scenario             `json:"scenarios"       yaml:"scenarios"`
	DetectionsPath string                 `json:"detections_path" yaml:"detections_path"`
	NMS            *postprocess.NMSConfig `json:"nms"             yaml:"nms"`
	Timeout        time.Duration          `json:"timeout"         yaml:"timeout"`
	MaxSamples     int                    `json:"max_samples"     yaml:"max_samples"`
}

// DefaultConfig returns a default benchmark configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:  "./benchmark_results",
		Scenarios:  QuickScenarios().Scenarios,
		NMS:        postprocess.DefaultNMSConfig(),
		Timeout:    30 * time.Minute,
		MaxSamples: 1000,
	}
}

// applyDefaults fills zero fields from DefaultConfig.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if len(c.Scenarios) == 0 {
		c.Scenarios = def.Scenarios
	}
	if c.NMS == nil {
		c.NMS = def.NMS
	}
	if c.NMS.NumWorkers <= 0 {
		c.NMS.NumWorkers = def.NMS.NumWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.MaxSamples <= 0 {
		c.MaxSamples = def.MaxSamples
	}

	for i := range c.Scenarios {
		s := &c.Scenarios[i]
		if s.Iterations == 0 {
			s.Iterations = 100
		}
		if s.Seed == 0 {
			s.Seed = 1
		}
	}
}

// Validate checks every scenario.
func (c *Config) Validate() error {
	for _, s := range c.Scenarios {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig loads a benchmark configuration from a YAML file.
//
// Zero fields take their DefaultConfig values. A scenario without iterations
// runs 100 of them and a scenario without a seed uses seed 1.
//
// Arguments:
//   - filename: Path to the YAML file.
//
// Returns:
//   - *Config: The loaded configuration.
//   - error: Error if the file cannot be read or parsed, or a scenario is invalid.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config file %s", filename)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config file %s", filename)
	}

	return &config, nil
}

// SaveConfig saves the benchmark configuration to a YAML file.
func (c *Config) SaveConfig(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}
