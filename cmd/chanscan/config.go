package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-sigdetect/dsp/detect"
	"github.com/cwbudde/algo-sigdetect/dsp/fft"
)

// Config is the YAML layout of a chanscan configuration file.
type Config struct {
	Detector detect.Params `yaml:"detector"`
	Backend  string        `yaml:"backend"`
	Chunk    int           `yaml:"chunk"` // samples per FeedBulk call
}

const defaultChunk = 8192

func defaultConfig() Config {
	return Config{
		Detector: detect.DefaultParams(),
		Backend:  fft.BackendAlgoFFT.String(),
		Chunk:    defaultChunk,
	}
}

// LoadConfig reads filename over the defaults. Keys missing from the file
// keep their default values.
func LoadConfig(filename string) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Chunk <= 0 {
		cfg.Chunk = defaultChunk
	}

	return cfg, nil
}

// Dump writes cfg as YAML.
func (c Config) Dump() ([]byte, error) {
	return yaml.Marshal(c)
}
