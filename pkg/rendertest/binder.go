// SPDX-License-Identifier: MIT

// Package rendertest provides an in-memory render.Binder that records
// every call, for asserting on renderer output without a GPU or a
// network transport.
package rendertest

import "spectrum/render"

// DrawCall records one Draw invocation.
type DrawCall struct {
	Mode  render.DrawMode
	First int
	Count int
}

// Binder is a recording render.Binder. The zero value is not usable;
// construct with New.
type Binder struct {
	Caps         render.Capabilities
	ViewportRect [4]int

	Textures   map[string]render.Texture
	Attributes map[string][]float32
	Uniforms   map[string][]float32
	Draws      []DrawCall

	// Per-name write counters, for asserting how often a resource was
	// re-uploaded.
	TextureWrites   map[string]int
	AttributeWrites map[string]int
}

// New returns a recording binder with float-texture support and the
// given viewport size.
func New(width, height int) *Binder {
	return &Binder{
		Caps: render.Capabilities{
			FloatTextures:  true,
			MaxTextureSize: 16384,
		},
		ViewportRect:    [4]int{0, 0, width, height},
		Textures:        make(map[string]render.Texture),
		Attributes:      make(map[string][]float32),
		Uniforms:        make(map[string][]float32),
		TextureWrites:   make(map[string]int),
		AttributeWrites: make(map[string]int),
	}
}

func (b *Binder) Capabilities() render.Capabilities {
	return b.Caps
}

func (b *Binder) Viewport() (x, y, width, height int) {
	return b.ViewportRect[0], b.ViewportRect[1], b.ViewportRect[2], b.ViewportRect[3]
}

// Resize changes the viewport rectangle.
func (b *Binder) Resize(width, height int) {
	b.ViewportRect[2], b.ViewportRect[3] = width, height
}

func (b *Binder) SetTexture(name string, tex render.Texture) {
	// Snapshot the data: the renderer reuses its scratch buffers.
	data := make([]float32, len(tex.Data))
	copy(data, tex.Data)
	tex.Data = data
	b.Textures[name] = tex
	b.TextureWrites[name]++
}

func (b *Binder) SetAttribute(name string, data []float32) {
	buf := make([]float32, len(data))
	copy(buf, data)
	b.Attributes[name] = buf
	b.AttributeWrites[name]++
}

func (b *Binder) SetUniform(name string, values ...float32) {
	buf := make([]float32, len(values))
	copy(buf, values)
	b.Uniforms[name] = buf
}

func (b *Binder) Draw(mode render.DrawMode, first, count int) {
	b.Draws = append(b.Draws, DrawCall{Mode: mode, First: first, Count: count})
}

var _ render.Binder = (*Binder)(nil)
