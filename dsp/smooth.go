// SPDX-License-Identifier: MIT

// Package dsp implements the magnitude post-processing pipeline for the
// spectrum display: temporal smoothing with variable-length resampling,
// perceptual frequency weighting, and decibel range normalization.
// Magnitudes arrive pre-computed in decibels; no FFT happens here.
package dsp

import "math"

// Magnitude clamp bounds (dB). Every stored or incoming magnitude is
// clamped into this window before blending.
const (
	MinMagnitude = -200.0
	MaxMagnitude = 0.0
)

// DefaultBufferSize is the initial magnitude buffer capacity.
const DefaultBufferSize = 512

// NewBuffer allocates a magnitude buffer pre-filled with the
// minimum-decibel sentinel. Each instance owns its own buffer;
// buffers are never shared.
func NewBuffer(size int) []float64 {
	if size <= 0 {
		size = DefaultBufferSize
	}
	buf := make([]float64, size)
	for i := range buf {
		buf[i] = MinMagnitude
	}
	return buf
}

// Blend reconciles an incoming magnitude sequence with the current
// buffer and returns the new buffer, whose length is the larger of the
// two. The longer sequence is walked index by index; the shorter one is
// resampled by nearest-neighbor floor mapping (no interpolation, for
// parity with the reference shader pipeline). Both sides are clamped to
// [MinMagnitude, MaxMagnitude] before blending.
//
// The incoming data always carries weight smoothing and the stored data
// 1-smoothing, regardless of which side is longer: smoothing=0 freezes
// the display, smoothing=1 tracks the input exactly.
//
// When the incoming sequence is not longer than the current buffer the
// result is written into current in place and current is returned,
// preserving the mutate-then-reuse-as-baseline semantics of the buffer.
func Blend(current, incoming []float64, smoothing float64) []float64 {
	if len(incoming) == 0 {
		return current
	}
	if len(current) == 0 {
		out := make([]float64, len(incoming))
		for i, v := range incoming {
			out[i] = clampMagnitude(v)
		}
		return out
	}

	// Ties favor the existing buffer as the bigger side.
	bigger, shorter := current, incoming
	s := 1 - smoothing
	out := current
	if len(incoming) > len(current) {
		bigger, shorter = incoming, current
		s = smoothing
		out = make([]float64, len(incoming))
	}

	n := len(bigger)
	m := len(shorter)
	for i := 0; i < n; i++ {
		a := clampMagnitude(bigger[i])
		b := clampMagnitude(shorter[m*i/n])
		out[i] = a*s + b*(1-s)
	}
	return out
}

func clampMagnitude(v float64) float64 {
	return math.Max(MinMagnitude, math.Min(MaxMagnitude, v))
}
