// SPDX-License-Identifier: MIT

// Package transport bridges the renderer's binder calls onto wire
// protocols so a remote surface (typically a browser canvas) can
// execute them. Every binder call becomes one Message; stateful
// resources are cached so late-joining clients receive the full scene.
package transport

import "spectrum/render"

// Message kinds carried on the wire.
const (
	KindTexture   = "texture"
	KindAttribute = "attribute"
	KindUniform   = "uniform"
	KindDraw      = "draw"
	KindViewport  = "viewport"
)

// Message is the wire representation of a single binder call. Fields
// irrelevant to the kind are omitted from the encoding.
type Message struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`

	// Texture payload.
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Channels int    `json:"channels,omitempty"`
	Filter   string `json:"filter,omitempty"`
	Wrap     string `json:"wrap,omitempty"`

	// Texture, attribute and uniform payloads share the data slot.
	Data []float32 `json:"data,omitempty"`

	// Draw payload.
	Mode  string `json:"mode,omitempty"`
	First int    `json:"first,omitempty"`
	Count int    `json:"count,omitempty"`

	// Viewport payload.
	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`
}

func filterName(f render.Filter) string {
	if f == render.FilterNearest {
		return "nearest"
	}
	return "linear"
}

func wrapName(w render.Wrap) string {
	if w == render.WrapRepeat {
		return "repeat"
	}
	return "clamp"
}
