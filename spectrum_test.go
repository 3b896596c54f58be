// SPDX-License-Identifier: MIT
package spectrum

import (
	"errors"
	"math"
	"testing"

	"spectrum/config"
	"spectrum/dsp"
	"spectrum/pkg/rendertest"
	"spectrum/render"
)

type gridStub struct {
	axes  []Axis
	calls int
}

func (g *gridStub) SetAxes(axes []Axis) {
	g.axes = axes
	g.calls++
}

func newTestSpectrum(t *testing.T, cfg *config.Config) (*Spectrum, *rendertest.Binder) {
	t.Helper()
	binder := rendertest.New(800, 200)
	s, err := New(binder, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, binder
}

func TestNewRequiresBinder(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, ErrNilBinder) {
		t.Errorf("expected ErrNilBinder, got %v", err)
	}
}

func TestNewRequiresFloatTextures(t *testing.T) {
	binder := rendertest.New(800, 200)
	binder.Caps.FloatTextures = false

	_, err := New(binder, nil)
	var capErr *render.CapabilityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *render.CapabilityError, got %v", err)
	}
	if capErr.Missing != "float textures" {
		t.Errorf("missing capability = %q", capErr.Missing)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Smoothing = 7
	if _, err := New(rendertest.New(800, 200), &cfg); err == nil {
		t.Error("expected validation error, got nil")
	}
}

func TestNewPushesFullScene(t *testing.T) {
	_, binder := newTestSpectrum(t, nil)

	for _, name := range []string{"magnitudes", "fill", "mask"} {
		if _, ok := binder.Textures[name]; !ok {
			t.Errorf("texture %q not uploaded at construction", name)
		}
	}
	if _, ok := binder.Attributes["position"]; !ok {
		t.Error("position attribute not uploaded at construction")
	}
	for _, name := range []string{"align", "group", "background", "minFrequency", "maxFrequency", "sampleRate", "logarithmic"} {
		if _, ok := binder.Uniforms[name]; !ok {
			t.Errorf("uniform %q not set at construction", name)
		}
	}

	// Before any data arrives the magnitude texture is the sentinel
	// buffer at its default size.
	tex := binder.Textures["magnitudes"]
	if tex.Width != dsp.DefaultBufferSize || tex.Height != 1 || tex.Channels != 1 {
		t.Errorf("magnitude texture %dx%dx%d, want %dx1x1", tex.Width, tex.Height, tex.Channels, dsp.DefaultBufferSize)
	}
}

func TestSetFrequenciesNormalizes(t *testing.T) {
	cfg := config.Default()
	cfg.Smoothing = 1 // track the input exactly
	s, binder := newTestSpectrum(t, &cfg)

	magnitudes := make([]float64, 16)
	for i := range magnitudes {
		magnitudes[i] = -60 // midpoint of the -100..-20 window
	}
	s.SetFrequencies(magnitudes)

	tex := binder.Textures["magnitudes"]
	for i, v := range tex.Data {
		if math.Abs(float64(v)-0.5) > 1e-6 {
			t.Fatalf("texel %d = %v, want 0.5", i, v)
		}
	}
}

func TestSetFrequenciesEmptyIsNoOp(t *testing.T) {
	s, binder := newTestSpectrum(t, nil)
	writes := binder.TextureWrites["magnitudes"]

	s.SetFrequencies(nil)
	s.SetFrequencies([]float64{})

	if binder.TextureWrites["magnitudes"] != writes {
		t.Error("empty input must not touch the magnitude texture")
	}
}

func TestBufferGrowsWithInput(t *testing.T) {
	s, binder := newTestSpectrum(t, nil)

	long := make([]float64, dsp.DefaultBufferSize*2)
	for i := range long {
		long[i] = -50
	}
	s.SetFrequencies(long)

	if w := binder.Textures["magnitudes"].Width; w != len(long) {
		t.Errorf("magnitude texture width = %d, want %d", w, len(long))
	}

	// A subsequent shorter frame keeps the grown size.
	s.SetFrequencies([]float64{-40, -40})
	if w := binder.Textures["magnitudes"].Width; w != len(long) {
		t.Errorf("texture width after short frame = %d, want %d", w, len(long))
	}
}

func TestSetWeightingUnknownLeavesDisplayUnchanged(t *testing.T) {
	s, binder := newTestSpectrum(t, nil)
	writes := binder.TextureWrites["magnitudes"]

	err := s.SetWeighting("bogus")
	if !errors.Is(err, dsp.ErrUnknownWeighting) {
		t.Fatalf("expected ErrUnknownWeighting, got %v", err)
	}
	if binder.TextureWrites["magnitudes"] != writes {
		t.Error("failed weighting switch must not re-upload magnitudes")
	}
	if s.Config().Weighting != "" {
		t.Error("failed weighting switch must not change the configuration")
	}
}

func TestSetWeightingRenormalizes(t *testing.T) {
	s, binder := newTestSpectrum(t, nil)
	writes := binder.TextureWrites["magnitudes"]

	if err := s.SetWeighting("a"); err != nil {
		t.Fatalf("SetWeighting: %v", err)
	}
	if binder.TextureWrites["magnitudes"] != writes+1 {
		t.Error("weighting switch must renormalize the magnitude texture")
	}
}

func TestSetterValidationLeavesStateUntouched(t *testing.T) {
	s, _ := newTestSpectrum(t, nil)

	if err := s.SetSmoothing(2); err == nil {
		t.Error("expected error for smoothing above 1")
	}
	if got := s.Config().Smoothing; got != config.DefaultSmoothing {
		t.Errorf("smoothing = %v after rejected set, want default", got)
	}

	if err := s.SetFrequencyRange(500, 100); err == nil {
		t.Error("expected error for inverted band")
	}
	if got := s.Config().MinFrequency; got != config.DefaultMinFrequency {
		t.Errorf("min frequency = %v after rejected set, want default", got)
	}
}

func TestResizeDebounce(t *testing.T) {
	s, binder := newTestSpectrum(t, nil)
	writes := binder.AttributeWrites["position"]

	binder.Resize(400, 100)
	s.OnResize()
	s.OnResize()
	s.OnResize()
	s.OnRenderFrame()

	if got := binder.AttributeWrites["position"]; got != writes+1 {
		t.Errorf("position writes = %d after resize burst, want %d", got, writes+1)
	}

	// A quiet frame does not regenerate.
	s.OnRenderFrame()
	if got := binder.AttributeWrites["position"]; got != writes+1 {
		t.Error("frame without resize must not regenerate geometry")
	}
}

func TestOnRenderFrameDrawCalls(t *testing.T) {
	s, binder := newTestSpectrum(t, nil)
	binder.Draws = nil

	s.OnRenderFrame()

	if len(binder.Draws) != 2 {
		t.Fatalf("draw calls = %d, want fill pass plus edge overlay", len(binder.Draws))
	}
	count := len(binder.Attributes["position"]) / 2
	fill, edge := binder.Draws[0], binder.Draws[1]
	if fill.Mode != render.DrawTriangleStrip || fill.Count != count {
		t.Errorf("fill pass = %+v, want triangle strip over %d vertices", fill, count)
	}
	if edge.Mode != render.DrawLineStrip || edge.Count != count {
		t.Errorf("edge overlay = %+v, want line strip over %d vertices", edge, count)
	}
}

func TestGeometryFollowsGroupSetting(t *testing.T) {
	s, binder := newTestSpectrum(t, nil)

	// 800 px, details 1: line plot has 800 columns x 8 scalars.
	if got := len(binder.Attributes["position"]); got != 800*8 {
		t.Fatalf("line geometry scalars = %d, want %d", got, 800*8)
	}

	if err := s.SetGroup(4); err != nil {
		t.Fatalf("SetGroup: %v", err)
	}
	s.OnRenderFrame()
	if got := len(binder.Attributes["position"]); got != 200*16 {
		t.Errorf("bar geometry scalars = %d, want %d", got, 200*16)
	}
	if u := binder.Uniforms["group"]; len(u) != 1 || u[0] != 4 {
		t.Errorf("group uniform = %v, want [4]", u)
	}
}

func TestAxesLayout(t *testing.T) {
	s, _ := newTestSpectrum(t, nil)
	grid := &gridStub{}
	s.SetGrid(grid)

	if len(grid.axes) != 2 {
		t.Fatalf("axes = %d, want frequency plus magnitude", len(grid.axes))
	}
	freq, mag := grid.axes[0], grid.axes[1]
	if freq.Orientation != Horizontal || freq.Min != config.DefaultMinFrequency || freq.Max != config.DefaultMaxFrequency {
		t.Errorf("frequency axis = %+v", freq)
	}
	if mag.Orientation != Vertical || mag.Min != config.DefaultMinDecibels || mag.Max != config.DefaultMaxDecibels {
		t.Errorf("magnitude axis = %+v", mag)
	}

	// A split baseline mirrors the magnitude scale.
	if err := s.SetAlign(0.5); err != nil {
		t.Fatalf("SetAlign: %v", err)
	}
	if len(grid.axes) != 3 {
		t.Errorf("axes after split align = %d, want 3", len(grid.axes))
	}

	calls := grid.calls
	if err := s.SetFrequencyRange(100, 10000); err != nil {
		t.Fatalf("SetFrequencyRange: %v", err)
	}
	if grid.calls != calls+1 {
		t.Error("frequency range change must push a new axis layout")
	}
	if grid.axes[0].Min != 100 || grid.axes[0].Max != 10000 {
		t.Errorf("frequency axis not updated: %+v", grid.axes[0])
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		format func(float64) string
		in     float64
		want   string
	}{
		{FormatHertz, 440, "440 Hz"},
		{FormatHertz, 1000, "1 kHz"},
		{FormatHertz, 2500, "2.5 kHz"},
		{FormatDecibels, -60, "-60 dB"},
	}
	for _, tt := range tests {
		if got := tt.format(tt.in); got != tt.want {
			t.Errorf("format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSetFillSwitchesRamp(t *testing.T) {
	s, binder := newTestSpectrum(t, nil)

	if err := s.SetFill("rainbow", false); err != nil {
		t.Fatalf("SetFill: %v", err)
	}
	if binder.Textures["fill"].Width != render.DefaultShades {
		t.Errorf("fill texture width = %d, want %d", binder.Textures["fill"].Width, render.DefaultShades)
	}

	if err := s.SetFill("bogus", false); !errors.Is(err, render.ErrUnknownRamp) {
		t.Errorf("expected ErrUnknownRamp, got %v", err)
	}
	if s.Config().Fill != "rainbow" {
		t.Error("failed fill switch must not change the configuration")
	}
}

func TestSetMaskPatternSwitches(t *testing.T) {
	s, binder := newTestSpectrum(t, nil)
	if err := s.SetMaskPattern("bar"); err != nil {
		t.Fatalf("SetMaskPattern: %v", err)
	}
	if binder.Textures["mask"].Width == 1 {
		t.Error("bar mask must upload a pattern grid, not a solid texel")
	}

	if err := s.SetMaskPattern("squiggle"); !errors.Is(err, render.ErrInvalidMask) {
		t.Errorf("expected ErrInvalidMask, got %v", err)
	}
	if s.Config().Mask != "bar" {
		t.Error("failed mask switch must not change the configuration")
	}
}

func TestSetMaskNilRestoresSolid(t *testing.T) {
	s, binder := newTestSpectrum(t, nil)
	if err := s.SetMaskPattern("dot"); err != nil {
		t.Fatalf("SetMaskPattern: %v", err)
	}
	if err := s.SetMask(nil); err != nil {
		t.Fatalf("SetMask: %v", err)
	}
	tex := binder.Textures["mask"]
	if tex.Width != 1 || tex.Height != 1 || len(tex.Data) != 1 || tex.Data[0] != 1 {
		t.Errorf("nil mask texture = %+v, want opaque solid texel", tex)
	}
}
