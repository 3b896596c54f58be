// SPDX-License-Identifier: MIT

// Package render holds the GPU-facing half of the spectrum pipeline:
// the resource binder contract, vertex geometry generation, color
// ramps, mask patterns, and CPU mirrors of the shader-level frequency
// mapping and compositing math.
package render

import (
	"errors"
	"fmt"
)

// Filter selects the texture sampling filter.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
)

// Wrap selects the texture addressing mode.
type Wrap uint8

const (
	WrapClampToEdge Wrap = iota
	WrapRepeat
)

// DrawMode selects the primitive assembly for a draw call.
type DrawMode uint8

const (
	DrawTriangleStrip DrawMode = iota
	DrawTriangleFan
	DrawLineStrip
)

// String returns the wire/debug name of the draw mode.
func (m DrawMode) String() string {
	switch m {
	case DrawTriangleStrip:
		return "triangle-strip"
	case DrawTriangleFan:
		return "triangle-fan"
	case DrawLineStrip:
		return "line-strip"
	default:
		return "unknown"
	}
}

// Texture describes a texture upload. Data holds Width*Height*Channels
// float32 values in row-major order.
type Texture struct {
	Width    int
	Height   int
	Channels int
	Data     []float32
	Filter   Filter
	Wrap     Wrap
}

// Capabilities reports what the bound GPU context supports.
type Capabilities struct {
	// FloatTextures is required: the magnitude texture is a
	// single-channel float texture.
	FloatTextures  bool
	MaxTextureSize int
}

// Binder is the sole GPU-writing surface the core uses. Implementations
// own program/texture/attribute binding; the core only names resources
// and hands over data. All methods are called synchronously from the
// update path.
type Binder interface {
	// Capabilities reports context support; queried once at construction.
	Capabilities() Capabilities

	// Viewport returns the current drawable rectangle in pixels.
	Viewport() (x, y, width, height int)

	// SetTexture uploads (or replaces) the named texture.
	SetTexture(name string, tex Texture)

	// SetAttribute uploads the named vertex attribute buffer.
	SetAttribute(name string, data []float32)

	// SetUniform sets the named uniform to the given scalar or vector.
	SetUniform(name string, values ...float32)

	// Draw issues one draw call over the bound attributes.
	Draw(mode DrawMode, first, count int)
}

// CapabilityError reports a missing GPU capability. It is raised once
// at construction and is not recoverable: the caller must not proceed.
type CapabilityError struct {
	Missing string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("render: required GPU capability unavailable: %s", e.Missing)
}

// Configuration error sentinels. Setters wrap these with detail via
// fmt.Errorf("%w: ..."); callers match with errors.Is.
var (
	ErrUnknownRamp = errors.New("render: unknown color ramp")
	ErrInvalidRamp = errors.New("render: invalid color ramp data")
	ErrInvalidMask = errors.New("render: invalid mask pattern")
)
