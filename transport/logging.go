// SPDX-License-Identifier: MIT
package transport

import (
	"spectrum/internal/log"
	"spectrum/render"
)

// LoggingBinder wraps another binder and traces every call at debug
// level. Useful when diagnosing what the renderer actually pushes
// without attaching a client.
type LoggingBinder struct {
	Next render.Binder
}

func (b *LoggingBinder) Capabilities() render.Capabilities {
	caps := b.Next.Capabilities()
	log.Debugf("binder: capabilities float-textures=%v max-texture-size=%d", caps.FloatTextures, caps.MaxTextureSize)
	return caps
}

func (b *LoggingBinder) Viewport() (x, y, width, height int) {
	x, y, width, height = b.Next.Viewport()
	log.Debugf("binder: viewport %d,%d %dx%d", x, y, width, height)
	return x, y, width, height
}

func (b *LoggingBinder) SetTexture(name string, tex render.Texture) {
	log.Debugf("binder: texture %q %dx%dx%d (%d values)", name, tex.Width, tex.Height, tex.Channels, len(tex.Data))
	b.Next.SetTexture(name, tex)
}

func (b *LoggingBinder) SetAttribute(name string, data []float32) {
	log.Debugf("binder: attribute %q (%d values)", name, len(data))
	b.Next.SetAttribute(name, data)
}

func (b *LoggingBinder) SetUniform(name string, values ...float32) {
	log.Debugf("binder: uniform %q = %v", name, values)
	b.Next.SetUniform(name, values...)
}

func (b *LoggingBinder) Draw(mode render.DrawMode, first, count int) {
	log.Debugf("binder: draw %s first=%d count=%d", mode, first, count)
	b.Next.Draw(mode, first, count)
}

var _ render.Binder = (*LoggingBinder)(nil)
