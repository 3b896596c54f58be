// SPDX-License-Identifier: MIT
package render

import "math"

// FrequencyMapper converts a normalized horizontal ratio into the
// magnitude texture sample coordinate, on a linear or logarithmic
// frequency axis. This is the CPU mirror of the vertex stage: the
// formulas (including the step-function axis selection) are kept
// branch-free so they match the shader bit for bit in spirit, and the
// external grid renderer can invert them for labeling.
type FrequencyMapper struct {
	MinFrequency float64
	MaxFrequency float64
	SampleRate   float64
	Logarithmic  bool
}

// step mirrors the GLSL step() builtin: 0 below edge, 1 at or above.
func step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

// mix mirrors the GLSL mix() builtin: linear blend of a and b by t.
func mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// SampleCoord maps the ratio r in [0,1] to the texture x coordinate in
// Nyquist-relative units: r=0 lands on MinFrequency/halfRate, r=1 on
// MaxFrequency/halfRate, with logarithmic warping in between when the
// log axis is selected.
func (m FrequencyMapper) SampleCoord(r float64) float64 {
	halfRate := m.SampleRate / 2

	// Position of the log-scale candidate frequency on a linear axis.
	logMin := math.Log10(m.MinFrequency)
	logMax := math.Log10(m.MaxFrequency)
	logF := math.Pow(10, logMin+r*(logMax-logMin))
	linRatio := (logF - m.MinFrequency) / (m.MaxFrequency - m.MinFrequency)

	logFlag := 0.0
	if m.Logarithmic {
		logFlag = 1
	}
	ratio := mix(r, linRatio, step(0.5, logFlag))

	lo := m.MinFrequency / halfRate
	hi := m.MaxFrequency / halfRate
	return lo + ratio*(hi-lo)
}
