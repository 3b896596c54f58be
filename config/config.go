// SPDX-License-Identifier: MIT
package config

import "fmt"

// Core configuration constants that define the boundaries and defaults
// for the spectrum renderer.
const (
	// Default values for the renderer configuration
	DefaultMinFrequency = 20.0    // Lower edge of the rendered band (Hz)
	DefaultMaxFrequency = 20000.0 // Upper edge of the rendered band (Hz)
	DefaultMinDecibels  = -100.0  // Magnitude mapped to the plot floor (dBFS)
	DefaultMaxDecibels  = -20.0   // Magnitude mapped to the plot ceiling (dBFS)
	DefaultSmoothing    = 0.5     // Temporal blend factor between frames
	DefaultSnap         = 0.0     // Decibel quantization (0 disables)
	DefaultSampleRate   = 44100.0 // CD-quality audio
	DefaultDetails      = 1.0     // Plot columns per device pixel
	DefaultAlign        = 0.0     // Baseline at the bottom edge
	DefaultWeighting    = ""      // No perceptual weighting
	DefaultFill         = "heat"  // Built-in color ramp name
	DefaultMask         = ""      // Opaque solid mask
	DefaultLogLevel     = "info"

	// Processing limits
	MinSampleRate = 8000.0   // Minimum usable sample rate (Hz)
	MaxSampleRate = 192000.0 // Maximum supported sample rate (Hz)
)

// Config holds all runtime options for the spectrum renderer. It is
// constructed from defaults, optionally a YAML file, and environment
// variable overrides.
type Config struct {
	// Frequency axis
	MinFrequency float64 `yaml:"min_frequency"` // Lower band edge in Hz.
	MaxFrequency float64 `yaml:"max_frequency"` // Upper band edge in Hz, at most Nyquist.
	Logarithmic  bool    `yaml:"logarithmic"`   // Log-frequency horizontal axis.
	SampleRate   float64 `yaml:"sample_rate"`   // Sample rate of the analyzed signal in Hz.

	// Magnitude axis
	MinDecibels float64 `yaml:"min_decibels"` // Magnitude mapped to 0.
	MaxDecibels float64 `yaml:"max_decibels"` // Magnitude mapped to 1.
	Smoothing   float64 `yaml:"smoothing"`    // Temporal blend in [0,1]; 0 freezes, 1 tracks.
	Snap        float64 `yaml:"snap"`         // Quantization steps per dB (0 disables).
	Weighting   string  `yaml:"weighting"`    // Perceptual curve: "a", "b", "c", "d", "468" or "".

	// Plot shape
	Group   float64 `yaml:"group"`   // Columns per bar; <= 0.5 renders a line plot.
	Details float64 `yaml:"details"` // Columns per device pixel.
	Align   float64 `yaml:"align"`   // Baseline position in [0,1].

	// Appearance
	Fill        string     `yaml:"fill"`         // Built-in ramp name.
	FillInverse bool       `yaml:"fill_inverse"` // Reverse the ramp direction.
	Background  [4]float32 `yaml:"background"`   // RGBA backdrop, channels in [0,1].
	Mask        string     `yaml:"mask"`         // Built-in mask pattern name.

	LogLevel string `yaml:"log_level"` // "debug", "info", "warn" or "error".
}

// Default returns a Config populated with the built-in defaults. This
// is the base configuration before file or environment overrides.
func Default() Config {
	return Config{
		MinFrequency: DefaultMinFrequency,
		MaxFrequency: DefaultMaxFrequency,
		MinDecibels:  DefaultMinDecibels,
		MaxDecibels:  DefaultMaxDecibels,
		Smoothing:    DefaultSmoothing,
		Snap:         DefaultSnap,
		SampleRate:   DefaultSampleRate,
		Details:      DefaultDetails,
		Align:        DefaultAlign,
		Weighting:    DefaultWeighting,
		Fill:         DefaultFill,
		Mask:         DefaultMask,
		Background:   [4]float32{0, 0, 0, 1},
		LogLevel:     DefaultLogLevel,
	}
}

// Validate checks every field against its documented bounds. It
// returns the first violation found so callers can surface a single
// actionable message.
func (c *Config) Validate() error {
	if c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("sample_rate %v outside [%v, %v]", c.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.MinFrequency <= 0 {
		return fmt.Errorf("min_frequency %v must be positive", c.MinFrequency)
	}
	if c.MaxFrequency <= c.MinFrequency {
		return fmt.Errorf("max_frequency %v must exceed min_frequency %v", c.MaxFrequency, c.MinFrequency)
	}
	if nyquist := c.SampleRate / 2; c.MaxFrequency > nyquist {
		return fmt.Errorf("max_frequency %v exceeds the Nyquist limit %v", c.MaxFrequency, nyquist)
	}
	if c.MaxDecibels <= c.MinDecibels {
		return fmt.Errorf("max_decibels %v must exceed min_decibels %v", c.MaxDecibels, c.MinDecibels)
	}
	if c.Smoothing < 0 || c.Smoothing > 1 {
		return fmt.Errorf("smoothing %v outside [0, 1]", c.Smoothing)
	}
	if c.Snap < 0 {
		return fmt.Errorf("snap %v must not be negative", c.Snap)
	}
	if c.Group < 0 {
		return fmt.Errorf("group %v must not be negative", c.Group)
	}
	if c.Details <= 0 {
		return fmt.Errorf("details %v must be positive", c.Details)
	}
	if c.Align < 0 || c.Align > 1 {
		return fmt.Errorf("align %v outside [0, 1]", c.Align)
	}
	for i, v := range c.Background {
		if v < 0 || v > 1 {
			return fmt.Errorf("background channel %d = %v outside [0, 1]", i, v)
		}
	}
	return nil
}
