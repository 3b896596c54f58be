// SPDX-License-Identifier: MIT
package render

import "math"

// Perceptual intensity tuning constants. These are calibrated values,
// not free parameters: the 0.85 exponent flattens the near-peak
// response and the 0.85/0.15 bounds keep contrast readable when the
// alignment baseline sits near an edge.
const (
	intensityExponent = 0.85
	alignCeiling      = 0.85
	alignFloor        = 0.15
)

// Compositor is the CPU mirror of the fragment stage: magnitude and
// baseline distance in, final pixel color out.
type Compositor struct {
	// Align is the baseline position: 0 bottom, 1 top, else split.
	Align float64
	// Ramp supplies the fill color by intensity.
	Ramp Ramp
	// Mask scales the fill alpha; nil means fully opaque.
	Mask *Mask
	// Background is composited under the masked fill.
	Background [4]float32
}

// Intensity maps the distance from the alignment baseline to the color
// ramp coordinate. Contrast is biased by how centered the baseline is:
// a centered split plot gets the full ceiling, an edge-anchored plot a
// narrower band.
func (c *Compositor) Intensity(dist float64) float64 {
	maxAlign := math.Min(math.Max(c.Align, 1-c.Align), alignCeiling)
	minAlign := math.Max(1-maxAlign, alignFloor)
	return (1-math.Pow(1-dist, intensityExponent))*maxAlign + minAlign
}

// Pixel computes the final color for one fragment. x is the normalized
// horizontal position, dist the distance from the alignment baseline.
// For grouped rendering barLeft/barRight bound the current bar and the
// mask is sampled bar-relative; ungrouped fragments sample the mask
// center column. The ramp coordinate is floored at 0; values above 1
// rely on the ramp's clamped sampling (the unclamped normalization
// overshoot ends up here).
func (c *Compositor) Pixel(x, dist, barLeft, barRight float64, grouped bool) [4]float32 {
	intensity := c.Intensity(dist)
	fill := c.Ramp.Sample(math.Max(0, intensity))

	u := 0.5
	if grouped && barRight > barLeft {
		u = (x - barLeft) / (barRight - barLeft)
	}
	var luma float32 = 1
	if c.Mask != nil {
		luma = c.Mask.Luminosity(u, dist)
	}

	alpha := fill[3] * luma
	var out [4]float32
	for i := 0; i < 3; i++ {
		out[i] = fill[i]*alpha + c.Background[i]*(1-alpha)
	}
	out[3] = alpha + c.Background[3]*(1-alpha)
	return out
}
