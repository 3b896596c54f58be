// SPDX-License-Identifier: MIT
package render

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"spectrum/pkg/bitint"
)

// DefaultShades is the color ramp resolution used when callers pass 0.
const DefaultShades = 128

// Ramp is a color ramp: consecutive RGBA float quadruples in [0,1],
// length 4*shades.
type Ramp []float32

// Named ramp gradient stops, blended in Lab space. The heat stops match
// the classic blue-to-red thermal palette.
var rampStops = map[string][]string{
	"heat":    {"#101946", "#00AEFF", "#14FFA1", "#FFE65C", "#FF503C"},
	"rainbow": {"#FF0000", "#FFFF00", "#00FF00", "#00FFFF", "#0000FF", "#FF00FF"},
	"cool":    {"#0B1026", "#234A8C", "#3C9DD0", "#9BE8E3"},
	"mono":    {"#000000", "#FFFFFF"},
}

// NewRamp builds a named ramp with the given shade count (0 means
// DefaultShades). The shade count must be a power of two so the ramp
// texture addresses exactly under clamped linear filtering. Unknown
// names fail with ErrUnknownRamp before any state is touched.
func NewRamp(name string, shades int, inverse bool) (Ramp, error) {
	if shades == 0 {
		shades = DefaultShades
	}
	if !bitint.IsPowerOfTwo(shades) {
		return nil, fmt.Errorf("%w: shade count %d is not a power of two", ErrInvalidRamp, shades)
	}
	stops, ok := rampStops[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRamp, name)
	}

	colors := make([]colorful.Color, len(stops))
	for i, hex := range stops {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("%w: stop %q: %v", ErrInvalidRamp, hex, err)
		}
		colors[i] = c
	}

	out := make(Ramp, 0, shades*4)
	segs := float64(len(colors) - 1)
	for i := 0; i < shades; i++ {
		t := 0.0
		if shades > 1 {
			t = float64(i) / float64(shades-1)
		}
		pos := t * segs
		j := int(pos)
		if j >= len(colors)-1 {
			j = len(colors) - 2
		}
		c := colors[j].BlendLab(colors[j+1], pos-float64(j)).Clamped()
		out = append(out, float32(c.R), float32(c.G), float32(c.B), 1)
	}
	if inverse {
		return out.Invert(), nil
	}
	return out, nil
}

// RampFromValues builds a ramp from a literal RGBA float array. The
// length must be a positive multiple of 4 and every channel must lie
// in [0,1]; malformed input fails with ErrInvalidRamp.
func RampFromValues(values []float64, inverse bool) (Ramp, error) {
	if len(values) == 0 || len(values)%4 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a positive multiple of 4", ErrInvalidRamp, len(values))
	}
	out := make(Ramp, len(values))
	for i, v := range values {
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: channel %d = %v outside [0,1]", ErrInvalidRamp, i, v)
		}
		out[i] = float32(v)
	}
	if inverse {
		return out.Invert(), nil
	}
	return out, nil
}

// Shades returns the number of RGBA entries in the ramp.
func (r Ramp) Shades() int {
	return len(r) / 4
}

// Invert returns a new ramp with the RGBA entries in reverse order.
// Inversion is an involution: r.Invert().Invert() equals r.
func (r Ramp) Invert() Ramp {
	out := make(Ramp, len(r))
	n := r.Shades()
	for i := 0; i < n; i++ {
		copy(out[i*4:i*4+4], r[(n-1-i)*4:(n-1-i)*4+4])
	}
	return out
}

// Sample returns the linearly interpolated RGBA color at t in [0,1],
// clamped at the edges (the CPU mirror of a clamped linear lookup).
func (r Ramp) Sample(t float64) [4]float32 {
	n := r.Shades()
	if n == 0 {
		return [4]float32{}
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(n-1)
	j := int(pos)
	if j >= n-1 {
		return [4]float32{r[(n-1)*4], r[(n-1)*4+1], r[(n-1)*4+2], r[(n-1)*4+3]}
	}
	frac := float32(pos - float64(j))
	var out [4]float32
	for k := 0; k < 4; k++ {
		a := r[j*4+k]
		b := r[(j+1)*4+k]
		out[k] = a + (b-a)*frac
	}
	return out
}

// Texture returns the ramp as a 1-D RGBA texture descriptor.
func (r Ramp) Texture() Texture {
	return Texture{
		Width:    r.Shades(),
		Height:   1,
		Channels: 4,
		Data:     []float32(r),
		Filter:   FilterLinear,
		Wrap:     WrapClampToEdge,
	}
}
