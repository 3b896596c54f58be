// SPDX-License-Identifier: MIT

// Package spectrum renders an audio frequency spectrum through a
// GPU-style resource binder. The caller feeds pre-computed decibel
// magnitudes; the package smooths them over time, applies perceptual
// weighting and range normalization, and pushes textures, vertex
// geometry and uniforms through the binder each frame.
package spectrum

import (
	"errors"
	"fmt"
	"strconv"

	"spectrum/config"
	"spectrum/dsp"
	"spectrum/internal/log"
	"spectrum/render"
)

// ErrNilBinder is returned by New when no binder is supplied.
var ErrNilBinder = errors.New("spectrum: binder is required")

// Resource names pushed through the binder. A client shader addresses
// the scene by these.
const (
	textureMagnitudes = "magnitudes"
	textureFill       = "fill"
	textureMask       = "mask"
	attributePosition = "position"
)

// Orientation selects the screen direction of an Axis.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// Axis describes one labeled plot edge for an external grid renderer.
type Axis struct {
	Min         float64
	Max         float64
	Orientation Orientation
	Logarithmic bool
	// Format renders a tick value as a label.
	Format func(float64) string
}

// GridRenderer receives the current axis layout whenever a setting
// that changes it is applied. Implementations draw rulers, grids or
// labels outside the plot; the core never draws them itself.
type GridRenderer interface {
	SetAxes(axes []Axis)
}

// FormatHertz renders a frequency tick label, switching to kHz at 1000.
func FormatHertz(v float64) string {
	if v >= 1000 {
		return strconv.FormatFloat(v/1000, 'f', -1, 64) + " kHz"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " Hz"
}

// FormatDecibels renders a magnitude tick label.
func FormatDecibels(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " dB"
}

// Spectrum is the orchestrator: it owns the magnitude buffer, the
// derived GPU resources and the configuration, and keeps all of them
// consistent as data arrives and settings change. It is not safe for
// concurrent use; drive it from one goroutine.
type Spectrum struct {
	binder render.Binder
	grid   GridRenderer

	cfg       config.Config
	weighting dsp.WeightingFunc
	ramp      render.Ramp
	mask      *render.Mask

	// buffer holds the smoothed magnitudes (dB); normalized and texData
	// are reused scratch so steady-state frames do not allocate.
	buffer     []float64
	normalized []float64
	texData    []float32
	geometry   []float32

	// geometryDirty debounces resizes: any number of OnResize calls
	// between frames costs one regeneration on the next OnRenderFrame.
	geometryDirty bool
}

// New constructs a Spectrum over the given binder. A nil cfg uses the
// defaults. The binder's context must support float textures; without
// them the magnitude pipeline cannot run and New fails with a
// *render.CapabilityError.
func New(binder render.Binder, cfg *config.Config) (*Spectrum, error) {
	if binder == nil {
		return nil, ErrNilBinder
	}
	if !binder.Capabilities().FloatTextures {
		return nil, &render.CapabilityError{Missing: "float textures"}
	}

	c := config.Default()
	if cfg != nil {
		c = *cfg
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}

	s := &Spectrum{
		binder: binder,
		cfg:    c,
		buffer: dsp.NewBuffer(0),
	}

	if err := s.resolveWeighting(c.Weighting); err != nil {
		return nil, err
	}
	ramp, err := render.NewRamp(c.Fill, 0, c.FillInverse)
	if err != nil {
		return nil, err
	}
	s.ramp = ramp
	mask, err := render.PatternByName(c.Mask)
	if err != nil {
		return nil, err
	}
	s.mask = mask

	s.Update()
	return s, nil
}

// SetGrid attaches an external grid renderer and pushes the current
// axis layout to it immediately.
func (s *Spectrum) SetGrid(grid GridRenderer) {
	s.grid = grid
	s.pushAxes()
}

// Config returns a copy of the active configuration.
func (s *Spectrum) Config() config.Config {
	return s.cfg
}

// SetFrequencies feeds one frame of magnitudes in decibels. The input
// is blended into the smoothed buffer, normalized and uploaded as the
// magnitude texture. An empty input is a no-op; the previous frame
// stays on screen.
func (s *Spectrum) SetFrequencies(magnitudes []float64) error {
	if len(magnitudes) == 0 {
		return nil
	}
	s.buffer = dsp.Blend(s.buffer, magnitudes, s.cfg.Smoothing)
	s.uploadMagnitudes()
	return nil
}

func (s *Spectrum) pipeline() dsp.Pipeline {
	return dsp.Pipeline{
		Weighting:   s.weighting,
		Snap:        s.cfg.Snap,
		MinDecibels: s.cfg.MinDecibels,
		MaxDecibels: s.cfg.MaxDecibels,
		SampleRate:  s.cfg.SampleRate,
	}
}

// uploadMagnitudes runs the normalization pipeline over the smoothed
// buffer and replaces the magnitude texture.
func (s *Spectrum) uploadMagnitudes() {
	s.normalized = s.pipeline().Run(s.normalized, s.buffer)

	if cap(s.texData) < len(s.normalized) {
		s.texData = make([]float32, len(s.normalized))
	}
	s.texData = s.texData[:len(s.normalized)]
	for i, v := range s.normalized {
		s.texData[i] = float32(v)
	}

	s.binder.SetTexture(textureMagnitudes, render.Texture{
		Width:    len(s.texData),
		Height:   1,
		Channels: 1,
		Data:     s.texData,
		Filter:   render.FilterLinear,
		Wrap:     render.WrapClampToEdge,
	})
}

func (s *Spectrum) resolveWeighting(name string) error {
	if name == "" {
		s.weighting = nil
		return nil
	}
	w, err := dsp.Weighting(name)
	if err != nil {
		return err
	}
	s.weighting = w
	return nil
}

// validateCandidate checks a mutated copy of the configuration so a
// rejected setter leaves the live state untouched.
func (s *Spectrum) validateCandidate(mutate func(*config.Config)) (config.Config, error) {
	c := s.cfg
	mutate(&c)
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("spectrum: %w", err)
	}
	return c, nil
}

// SetSmoothing changes the temporal blend factor. Takes effect on the
// next SetFrequencies call.
func (s *Spectrum) SetSmoothing(v float64) error {
	c, err := s.validateCandidate(func(c *config.Config) { c.Smoothing = v })
	if err != nil {
		return err
	}
	s.cfg = c
	return nil
}

// SetFrequencyRange changes the rendered band edges.
func (s *Spectrum) SetFrequencyRange(min, max float64) error {
	c, err := s.validateCandidate(func(c *config.Config) {
		c.MinFrequency, c.MaxFrequency = min, max
	})
	if err != nil {
		return err
	}
	s.cfg = c
	s.pushFrequencyUniforms()
	s.pushAxes()
	return nil
}

// SetDecibelRange changes the displayed magnitude window and
// renormalizes the current buffer against it.
func (s *Spectrum) SetDecibelRange(min, max float64) error {
	c, err := s.validateCandidate(func(c *config.Config) {
		c.MinDecibels, c.MaxDecibels = min, max
	})
	if err != nil {
		return err
	}
	s.cfg = c
	s.uploadMagnitudes()
	s.pushAxes()
	return nil
}

// SetSnap changes the decibel quantization and renormalizes.
func (s *Spectrum) SetSnap(v float64) error {
	c, err := s.validateCandidate(func(c *config.Config) { c.Snap = v })
	if err != nil {
		return err
	}
	s.cfg = c
	s.uploadMagnitudes()
	return nil
}

// SetLogarithmic switches the frequency axis scale.
func (s *Spectrum) SetLogarithmic(v bool) {
	s.cfg.Logarithmic = v
	s.pushFrequencyUniforms()
	s.pushAxes()
}

// SetSampleRate changes the assumed sample rate of incoming data and
// renormalizes (weighting depends on per-bin frequency).
func (s *Spectrum) SetSampleRate(v float64) error {
	c, err := s.validateCandidate(func(c *config.Config) { c.SampleRate = v })
	if err != nil {
		return err
	}
	s.cfg = c
	s.uploadMagnitudes()
	s.pushFrequencyUniforms()
	s.pushAxes()
	return nil
}

// SetGroup changes the bar grouping (0 disables, values above 0.5 give
// the bar width in columns) and regenerates the plot geometry.
func (s *Spectrum) SetGroup(v float64) error {
	c, err := s.validateCandidate(func(c *config.Config) { c.Group = v })
	if err != nil {
		return err
	}
	s.cfg = c
	s.binder.SetUniform("group", float32(v))
	s.geometryDirty = true
	return nil
}

// SetGrouped is the boolean convenience for SetGroup: true means a
// one-column bar width.
func (s *Spectrum) SetGrouped(v bool) error {
	if v {
		return s.SetGroup(1)
	}
	return s.SetGroup(0)
}

// SetDetails changes the column density and regenerates the geometry.
func (s *Spectrum) SetDetails(v float64) error {
	c, err := s.validateCandidate(func(c *config.Config) { c.Details = v })
	if err != nil {
		return err
	}
	s.cfg = c
	s.geometryDirty = true
	return nil
}

// SetAlign moves the plot baseline: 0 bottom, 1 top, in between splits
// the plot around the baseline.
func (s *Spectrum) SetAlign(v float64) error {
	c, err := s.validateCandidate(func(c *config.Config) { c.Align = v })
	if err != nil {
		return err
	}
	s.cfg = c
	s.binder.SetUniform("align", float32(v))
	s.pushAxes()
	return nil
}

// SetWeighting switches the perceptual weighting curve by name and
// renormalizes. An unknown name fails with dsp.ErrUnknownWeighting and
// leaves the display unchanged.
func (s *Spectrum) SetWeighting(name string) error {
	if err := s.resolveWeighting(name); err != nil {
		return err
	}
	s.cfg.Weighting = name
	s.uploadMagnitudes()
	return nil
}

// SetFill switches to a named built-in color ramp.
func (s *Spectrum) SetFill(name string, inverse bool) error {
	ramp, err := render.NewRamp(name, 0, inverse)
	if err != nil {
		return err
	}
	s.cfg.Fill, s.cfg.FillInverse = name, inverse
	s.ramp = ramp
	s.binder.SetTexture(textureFill, ramp.Texture())
	return nil
}

// SetFillRamp installs a caller-supplied RGBA ramp.
func (s *Spectrum) SetFillRamp(values []float64, inverse bool) error {
	ramp, err := render.RampFromValues(values, inverse)
	if err != nil {
		return err
	}
	s.ramp = ramp
	s.binder.SetTexture(textureFill, ramp.Texture())
	return nil
}

// SetBackground changes the backdrop color composited under the fill.
func (s *Spectrum) SetBackground(rgba [4]float32) error {
	c, err := s.validateCandidate(func(c *config.Config) { c.Background = rgba })
	if err != nil {
		return err
	}
	s.cfg = c
	s.binder.SetUniform("background", rgba[0], rgba[1], rgba[2], rgba[3])
	return nil
}

// SetMask installs a caller-supplied mask; nil restores the opaque
// solid default.
func (s *Spectrum) SetMask(mask *render.Mask) error {
	if mask == nil {
		mask = render.SolidMask([4]float32{1, 1, 1, 1})
	}
	s.mask = mask
	s.binder.SetTexture(textureMask, mask.Texture())
	return nil
}

// SetMaskPattern switches the mark shape to a named built-in pattern.
func (s *Spectrum) SetMaskPattern(name string) error {
	mask, err := render.PatternByName(name)
	if err != nil {
		return err
	}
	s.cfg.Mask = name
	s.mask = mask
	s.binder.SetTexture(textureMask, mask.Texture())
	return nil
}

// Update rederives and re-pushes the whole scene: every texture,
// uniform, the geometry and the axis layout. Called once from New;
// callers can invoke it after mutating many settings at once.
func (s *Spectrum) Update() {
	s.binder.SetTexture(textureFill, s.ramp.Texture())
	s.binder.SetTexture(textureMask, s.mask.Texture())
	s.binder.SetUniform("align", float32(s.cfg.Align))
	s.binder.SetUniform("group", float32(s.cfg.Group))
	bg := s.cfg.Background
	s.binder.SetUniform("background", bg[0], bg[1], bg[2], bg[3])
	s.pushFrequencyUniforms()
	s.uploadMagnitudes()
	s.regenerateGeometry()
	s.pushAxes()
}

func (s *Spectrum) pushFrequencyUniforms() {
	logFlag := float32(0)
	if s.cfg.Logarithmic {
		logFlag = 1
	}
	s.binder.SetUniform("minFrequency", float32(s.cfg.MinFrequency))
	s.binder.SetUniform("maxFrequency", float32(s.cfg.MaxFrequency))
	s.binder.SetUniform("sampleRate", float32(s.cfg.SampleRate))
	s.binder.SetUniform("logarithmic", logFlag)
}

func (s *Spectrum) regenerateGeometry() {
	_, _, width, _ := s.binder.Viewport()
	s.geometry = render.Generate(width, s.cfg.Details, s.cfg.Group)
	s.binder.SetAttribute(attributePosition, s.geometry)
	s.geometryDirty = false
	log.Debugf("spectrum: geometry regenerated, %d vertices", len(s.geometry)/2)
}

// OnResize marks the geometry stale. The actual regeneration happens
// on the next OnRenderFrame, so a burst of resize events costs one
// rebuild.
func (s *Spectrum) OnResize() {
	s.geometryDirty = true
}

// OnRenderFrame regenerates stale geometry and issues the frame's draw
// calls: a triangle-strip fill pass and a line-strip edge overlay over
// the same vertex buffer.
func (s *Spectrum) OnRenderFrame() {
	if s.geometryDirty {
		s.regenerateGeometry()
		s.pushAxes()
	}
	count := len(s.geometry) / 2
	if count == 0 {
		return
	}
	s.binder.Draw(render.DrawTriangleStrip, 0, count)
	s.binder.Draw(render.DrawLineStrip, 0, count)
}

// pushAxes rebuilds the axis layout for the attached grid renderer. A
// split-aligned plot mirrors the magnitude scale on both sides of the
// baseline, so it pushes two vertical axes.
func (s *Spectrum) pushAxes() {
	if s.grid == nil {
		return
	}
	axes := []Axis{{
		Min:         s.cfg.MinFrequency,
		Max:         s.cfg.MaxFrequency,
		Orientation: Horizontal,
		Logarithmic: s.cfg.Logarithmic,
		Format:      FormatHertz,
	}, {
		Min:         s.cfg.MinDecibels,
		Max:         s.cfg.MaxDecibels,
		Orientation: Vertical,
		Format:      FormatDecibels,
	}}
	if s.cfg.Align > 0 && s.cfg.Align < 1 {
		axes = append(axes, Axis{
			Min:         s.cfg.MaxDecibels,
			Max:         s.cfg.MinDecibels,
			Orientation: Vertical,
			Format:      FormatDecibels,
		})
	}
	s.grid.SetAxes(axes)
}
