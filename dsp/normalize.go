// SPDX-License-Identifier: MIT
package dsp

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Magnitude clamp bounds (dB) applied after perceptual weighting.
// Weighting multipliers below unity can push quiet bins far under the
// display floor; the post-weighting window is tighter than the raw one.
const (
	minWeighted = -100.0
	maxWeighted = 0.0
)

// Pipeline maps a smoothed magnitude buffer (dB) into texture-ready
// values. Steps, in order: perceptual weighting, optional snap
// quantization, decibel range rescaling. The rescaled output is
// intentionally not clamped to [0,1]; the texture stage relies on
// clamp-to-edge addressing downstream.
type Pipeline struct {
	// Weighting is the perceptual curve multiplier, nil to disable.
	Weighting WeightingFunc
	// Snap is the quantization step divisor, 0 to disable.
	Snap float64
	// MinDecibels and MaxDecibels bound the display range
	// (MinDecibels < MaxDecibels).
	MinDecibels float64
	MaxDecibels float64
	// SampleRate in Hz determines the frequency of each bin.
	SampleRate float64
}

// Run applies the pipeline to src and returns the result. dst is reused
// when large enough, so a caller holding a scratch slice pays no
// allocation in steady state. Run is a pure function of (src, Pipeline):
// re-running it over the same buffer yields identical output.
func (p Pipeline) Run(dst, src []float64) []float64 {
	if cap(dst) < len(src) {
		dst = make([]float64, len(src))
	}
	dst = dst[:len(src)]
	if len(src) == 0 {
		return dst
	}
	copy(dst, src)

	if p.Weighting != nil {
		// Each bin i covers the band centered at i*binWidth Hz.
		binWidth := (p.SampleRate / 2) / float64(len(src))
		for i := range dst {
			dst[i] += 20 * math.Log10(p.Weighting(float64(i)*binWidth))
			dst[i] = math.Max(minWeighted, math.Min(maxWeighted, dst[i]))
		}
	}

	if p.Snap > 0 {
		for i := range dst {
			dst[i] = math.Round(dst[i]*p.Snap) / p.Snap
		}
	}

	// (v - min) / (max - min), left unclamped.
	scale := 1 / (p.MaxDecibels - p.MinDecibels)
	floats.Scale(scale, dst)
	floats.AddConst(-p.MinDecibels*scale, dst)
	return dst
}
