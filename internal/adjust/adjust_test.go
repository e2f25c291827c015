package adjust

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukkan78/film-simulator/internal/frame"
)

func apply(t *testing.T, r, g, b uint8, s Settings, baseSat float64) (uint8, uint8, uint8) {
	t.Helper()
	buf := frame.Filled(2, 2, r, g, b, 255)
	require.NoError(t, Apply(context.Background(), buf, s, baseSat))
	or, og, ob, oa := buf.At(1, 1)
	require.Equal(t, uint8(255), oa, "alpha must not change")
	return or, og, ob
}

func TestNeutralSettingsAreNoOp(t *testing.T) {
	buf := frame.Filled(2, 2, 128, 128, 128, 255)
	buf.Set(0, 0, 12, 200, 77, 10)
	want := buf.Clone()
	require.NoError(t, Apply(context.Background(), buf, DefaultSettings(), 1))
	if !buf.Equal(want) {
		t.Fatalf("expected unchanged buffer, got %v", buf.Pix)
	}
}

func TestContrastPivotsAroundMidGray(t *testing.T) {
	s := Settings{Contrast: 50}
	r, g, b := apply(t, 128, 128, 128, s, 1)
	assert.Equal(t, [3]uint8{128, 128, 128}, [3]uint8{r, g, b})

	r, _, _ = apply(t, 100, 100, 100, s, 1)
	assert.Equal(t, uint8(78), r) // 128 - 28*1.8

	r, _, _ = apply(t, 200, 200, 200, s, 1)
	assert.Equal(t, uint8(255), r)

	r, _, _ = apply(t, 100, 100, 100, Settings{Contrast: -50}, 1)
	assert.Equal(t, uint8(117), r) // 128 - 28*0.4 = 116.8
}

func TestBrightnessIsExposure(t *testing.T) {
	r, g, b := apply(t, 60, 30, 10, Settings{Brightness: 50}, 1)
	assert.Equal(t, [3]uint8{120, 60, 20}, [3]uint8{r, g, b})

	r, _, _ = apply(t, 60, 30, 10, Settings{Brightness: -50}, 1)
	assert.Equal(t, uint8(30), r)
}

func TestSaturation(t *testing.T) {
	// -50 drives the effective factor to zero: every channel becomes luma.
	r, g, b := apply(t, 200, 100, 50, Settings{Saturation: -50}, 1)
	assert.Equal(t, [3]uint8{124, 124, 124}, [3]uint8{r, g, b})

	// A monochrome profile desaturates regardless of the slider.
	r, g, b = apply(t, 200, 100, 50, Settings{Saturation: 40}, 0)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)

	// The factor never goes negative.
	r, g, b = apply(t, 200, 100, 50, Settings{Saturation: -100}, 1)
	assert.Equal(t, [3]uint8{124, 124, 124}, [3]uint8{r, g, b})

	r, _, b = apply(t, 200, 100, 50, Settings{Saturation: 50}, 1)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(0), b)
}

func TestTemperature(t *testing.T) {
	r, g, b := apply(t, 128, 128, 128, Settings{Temperature: 50}, 1)
	assert.Equal(t, [3]uint8{158, 136, 98}, [3]uint8{r, g, b})
	r, g, b = apply(t, 128, 128, 128, Settings{Temperature: -50}, 1)
	assert.Equal(t, [3]uint8{98, 120, 158}, [3]uint8{r, g, b})
}

func TestFade(t *testing.T) {
	r, _, _ := apply(t, 0, 0, 0, Settings{Fade: 50}, 1)
	assert.Equal(t, uint8(128), r)
	r, _, _ = apply(t, 255, 255, 255, Settings{Fade: 50}, 1)
	assert.Equal(t, uint8(255), r)
	r, _, _ = apply(t, 0, 0, 0, Settings{Fade: -50}, 1)
	assert.Equal(t, uint8(0), r)
}

func TestBlacksCrushesShadows(t *testing.T) {
	r, _, _ := apply(t, 128, 128, 128, Settings{Blacks: 100}, 1)
	assert.InDelta(t, 74, int(r), 1)
	r, _, _ = apply(t, 255, 255, 255, Settings{Blacks: 100}, 1)
	assert.Equal(t, uint8(255), r)
}

func TestShadowsAndHighlightsTargetTheirRange(t *testing.T) {
	r, _, _ := apply(t, 30, 30, 30, Settings{Shadows: 100}, 1)
	assert.Greater(t, r, uint8(30))
	r, _, _ = apply(t, 30, 30, 30, Settings{Shadows: -100}, 1)
	assert.Less(t, r, uint8(30))
	r, _, _ = apply(t, 220, 220, 220, Settings{Shadows: 100}, 1)
	assert.Equal(t, uint8(220), r)

	r, _, _ = apply(t, 240, 240, 240, Settings{Highlights: -100}, 1)
	assert.Less(t, r, uint8(240))
	assert.Greater(t, r, uint8(153))
	r, _, _ = apply(t, 200, 200, 200, Settings{Highlights: 100}, 1)
	assert.Greater(t, r, uint8(200))
	r, _, _ = apply(t, 60, 60, 60, Settings{Highlights: 100}, 1)
	assert.Equal(t, uint8(60), r)
}

func TestExtremesClamp(t *testing.T) {
	r, g, b := apply(t, 250, 5, 128, Settings{Brightness: 100, Contrast: 100, Temperature: 100}, 1)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(255), b)

	// Out-of-range sliders behave like their bound.
	r, g, b = apply(t, 10, 90, 170, Settings{Brightness: -1000, Contrast: -1000}, 1)
	wr, wg, wb := apply(t, 10, 90, 170, Settings{Brightness: -100, Contrast: -100}, 1)
	assert.Equal(t, [3]uint8{wr, wg, wb}, [3]uint8{r, g, b})
}

func TestClamped(t *testing.T) {
	s := Settings{Strength: 300, GrainIntensity: -4, GrainSize: 99, Contrast: -400, Vignette: -1, Blacks: 101}.Clamped()
	assert.Equal(t, 100, s.Strength)
	assert.Equal(t, 0, s.GrainIntensity)
	assert.Equal(t, MaxGrainSize, s.GrainSize)
	assert.Equal(t, -100, s.Contrast)
	assert.Equal(t, 0, s.Vignette)
	assert.Equal(t, 100, s.Blacks)
}

func TestKey(t *testing.T) {
	a := DefaultSettings()
	b := a
	assert.Equal(t, a.Key(), b.Key())
	b.Blacks = 1
	assert.NotEqual(t, a.Key(), b.Key())
	assert.True(t, a.IsNeutral())
	assert.False(t, b.IsNeutral())
}
