// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"spectrum/internal/log"
)

// Load loads configuration from a YAML file specified by path. If path
// is empty, it searches the default location ("spectrum.yaml"). If no
// file is found, it uses built-in defaults. After loading defaults or
// from file, it applies environment variable overrides, installs the
// configured log level and validates the final configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("spectrum.yaml"); err == nil {
			path = "spectrum.yaml"
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Apply environment variable overrides AFTER loading from file.
	cfg.applyEnvOverrides()

	if level, ok := log.ParseLevel(cfg.LogLevel); ok {
		log.SetLevel(level)
	} else {
		log.Warnf("configuration: unknown log_level %q, keeping %s", cfg.LogLevel, log.GetLevel())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies SPECTRUM_* environment variables on top of
// whatever the file (or the defaults) provided. Unparseable values are
// ignored, the file value stands.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("SPECTRUM_LOG_LEVEL"); ok {
		c.LogLevel = val
		log.Debugf("configuration: overriding log_level from env: %s", val)
	}
	if val, ok := os.LookupEnv("SPECTRUM_SAMPLE_RATE"); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.SampleRate = f
			log.Debugf("configuration: overriding sample_rate from env: %v", f)
		}
	}
	if val, ok := os.LookupEnv("SPECTRUM_SMOOTHING"); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.Smoothing = f
			log.Debugf("configuration: overriding smoothing from env: %v", f)
		}
	}
	if val, ok := os.LookupEnv("SPECTRUM_WEIGHTING"); ok {
		c.Weighting = val
		log.Debugf("configuration: overriding weighting from env: %s", val)
	}
	if val, ok := os.LookupEnv("SPECTRUM_FILL"); ok {
		c.Fill = val
		log.Debugf("configuration: overriding fill from env: %s", val)
	}
	if val, ok := os.LookupEnv("SPECTRUM_MASK"); ok {
		c.Mask = val
		log.Debugf("configuration: overriding mask from env: %s", val)
	}
	if val, ok := os.LookupEnv("SPECTRUM_LOGARITHMIC"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Logarithmic = b
			log.Debugf("configuration: overriding logarithmic from env: %v", b)
		}
	}
}
