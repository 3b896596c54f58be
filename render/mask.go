// SPDX-License-Identifier: MIT
package render

import (
	"fmt"
	"math"
	"strings"
)

// Mask controls the visual shape of the rendered mark. It is either a
// uniform color (whose luminance scales the fill alpha everywhere) or
// a 2-D luminosity grid sampled with bar-relative coordinates.
type Mask struct {
	width, height int
	luma          []float32
	solid         [4]float32
	isSolid       bool
}

const maskGridSize = 16

// SolidMask returns a uniform-color mask. Channels are clamped to [0,1].
func SolidMask(rgba [4]float32) *Mask {
	for i, v := range rgba {
		if v < 0 {
			rgba[i] = 0
		}
		if v > 1 {
			rgba[i] = 1
		}
	}
	return &Mask{width: 1, height: 1, solid: rgba, isSolid: true}
}

// PatternMask builds a mask from a luminosity grid. len(luma) must be
// width*height and every value must lie in [0,1].
func PatternMask(width, height int, luma []float32) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidMask, width, height)
	}
	if len(luma) != width*height {
		return nil, fmt.Errorf("%w: %d values for %dx%d grid", ErrInvalidMask, len(luma), width, height)
	}
	for i, v := range luma {
		if v < 0 || v > 1 || v != v {
			return nil, fmt.Errorf("%w: luminosity %v at %d outside [0,1]", ErrInvalidMask, v, i)
		}
	}
	m := &Mask{width: width, height: height, luma: make([]float32, len(luma))}
	copy(m.luma, luma)
	return m, nil
}

// PatternByName resolves a built-in mask pattern. An empty name yields
// the opaque solid default.
func PatternByName(name string) (*Mask, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "solid":
		return SolidMask([4]float32{1, 1, 1, 1}), nil
	case "bar":
		return BarMask(), nil
	case "dot":
		return DotMask(), nil
	case "line":
		return LineMask(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMask, name)
	}
}

// BarMask is a vertical band with one-texel transparent gutters, so
// adjacent grouped bars read as separate marks.
func BarMask() *Mask {
	luma := make([]float32, maskGridSize*maskGridSize)
	for y := 0; y < maskGridSize; y++ {
		for x := 0; x < maskGridSize; x++ {
			if x > 0 && x < maskGridSize-1 {
				luma[y*maskGridSize+x] = 1
			}
		}
	}
	m, _ := PatternMask(maskGridSize, maskGridSize, luma)
	return m
}

// DotMask is a radial falloff disc centered in the cell.
func DotMask() *Mask {
	luma := make([]float32, maskGridSize*maskGridSize)
	for y := 0; y < maskGridSize; y++ {
		for x := 0; x < maskGridSize; x++ {
			dx := (float64(x)+0.5)/maskGridSize - 0.5
			dy := (float64(y)+0.5)/maskGridSize - 0.5
			d := math.Hypot(dx, dy) * 2
			v := 1 - d
			if v < 0 {
				v = 0
			}
			luma[y*maskGridSize+x] = float32(v)
		}
	}
	m, _ := PatternMask(maskGridSize, maskGridSize, luma)
	return m
}

// LineMask keeps only a thin band at the magnitude edge of the mark.
func LineMask() *Mask {
	luma := make([]float32, maskGridSize*maskGridSize)
	for x := 0; x < maskGridSize; x++ {
		luma[(maskGridSize-1)*maskGridSize+x] = 1
		luma[(maskGridSize-2)*maskGridSize+x] = 1
	}
	m, _ := PatternMask(maskGridSize, maskGridSize, luma)
	return m
}

// Luminosity samples the mask at (u, v) in [0,1]^2 with clamped
// nearest addressing. A solid mask returns the Rec. 709 luma of its
// color scaled by its alpha.
func (m *Mask) Luminosity(u, v float64) float32 {
	if m.isSolid {
		l := 0.2126*m.solid[0] + 0.7152*m.solid[1] + 0.0722*m.solid[2]
		return l * m.solid[3]
	}
	x := clampIndex(int(u*float64(m.width)), m.width)
	y := clampIndex(int(v*float64(m.height)), m.height)
	return m.luma[y*m.width+x]
}

// Texture returns the mask as a single-channel texture descriptor.
// Solid masks collapse to one texel.
func (m *Mask) Texture() Texture {
	if m.isSolid {
		l := 0.2126*m.solid[0] + 0.7152*m.solid[1] + 0.0722*m.solid[2]
		return Texture{
			Width: 1, Height: 1, Channels: 1,
			Data:   []float32{l * m.solid[3]},
			Filter: FilterLinear, Wrap: WrapClampToEdge,
		}
	}
	data := make([]float32, len(m.luma))
	copy(data, m.luma)
	return Texture{
		Width: m.width, Height: m.height, Channels: 1,
		Data:   data,
		Filter: FilterLinear, Wrap: WrapClampToEdge,
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
