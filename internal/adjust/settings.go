// Package adjust implements the user-facing tone and color sliders and the
// vignette.
package adjust

import "fmt"

// Settings are the slider values of one processing request.
type Settings struct {
	Strength       int `json:"strength" yaml:"strength"`
	GrainIntensity int `json:"grainIntensity" yaml:"grain_intensity"`
	GrainSize      int `json:"grainSize" yaml:"grain_size"`
	Brightness     int `json:"brightness" yaml:"brightness"`
	Contrast       int `json:"contrast" yaml:"contrast"`
	Saturation     int `json:"saturation" yaml:"saturation"`
	Temperature    int `json:"temperature" yaml:"temperature"`
	Vignette       int `json:"vignette" yaml:"vignette"`
	Fade           int `json:"fade" yaml:"fade"`
	Shadows        int `json:"shadows" yaml:"shadows"`
	Highlights     int `json:"highlights" yaml:"highlights"`
	Blacks         int `json:"blacks" yaml:"blacks"`
}

// Slider bounds.
const (
	MaxGrainSize = 10
	SymmetricMax = 100
)

func DefaultSettings() Settings {
	return Settings{Strength: 100, GrainIntensity: 50, GrainSize: 1}
}

// Clamped returns s with every slider inside its range.
func (s Settings) Clamped() Settings {
	s.Strength = clampInt(s.Strength, 0, 100)
	s.GrainIntensity = clampInt(s.GrainIntensity, 0, 100)
	s.GrainSize = clampInt(s.GrainSize, 0, MaxGrainSize)
	s.Brightness = clampInt(s.Brightness, -SymmetricMax, SymmetricMax)
	s.Contrast = clampInt(s.Contrast, -SymmetricMax, SymmetricMax)
	s.Saturation = clampInt(s.Saturation, -SymmetricMax, SymmetricMax)
	s.Temperature = clampInt(s.Temperature, -SymmetricMax, SymmetricMax)
	s.Fade = clampInt(s.Fade, -SymmetricMax, SymmetricMax)
	s.Shadows = clampInt(s.Shadows, -SymmetricMax, SymmetricMax)
	s.Highlights = clampInt(s.Highlights, -SymmetricMax, SymmetricMax)
	s.Vignette = clampInt(s.Vignette, 0, 100)
	s.Blacks = clampInt(s.Blacks, 0, 100)
	return s
}

// Key is a stable identity for s, used to skip repeated identical requests.
func (s Settings) Key() string {
	return fmt.Sprintf("%d-%d-%d-%d-%d-%d-%d-%d-%d-%d-%d-%d",
		s.Strength, s.GrainIntensity, s.GrainSize, s.Brightness, s.Contrast, s.Saturation,
		s.Temperature, s.Vignette, s.Fade, s.Shadows, s.Highlights, s.Blacks)
}

// IsNeutral reports whether Apply would leave pixels unchanged for a profile
// with base saturation 1.
func (s Settings) IsNeutral() bool {
	c := s.Clamped()
	return c.Brightness == 0 && c.Contrast == 0 && c.Saturation == 0 && c.Temperature == 0 &&
		c.Fade <= 0 && c.Shadows == 0 && c.Highlights == 0 && c.Blacks == 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
