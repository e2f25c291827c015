package profile

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Spec is the YAML form of a profile, used to extend the catalog from config.
type Spec struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Category    Category  `yaml:"category"`
	Kind        *LookKind `yaml:"kind,omitempty"`
	LUT         string    `yaml:"lut,omitempty"`

	Grain struct {
		Intensity float64 `yaml:"intensity"`
		Size      float64 `yaml:"size"`
		ISO       int     `yaml:"iso"`
	} `yaml:"grain"`

	Brightness float64  `yaml:"brightness,omitempty"`
	Contrast   float64  `yaml:"contrast,omitempty"`
	Saturation *float64 `yaml:"saturation,omitempty"`

	Process    Process         `yaml:"process,omitempty"`
	Halation   *HalationSpec   `yaml:"halation,omitempty"`
	ColorShift *ColorShiftSpec `yaml:"color_shift,omitempty"`
}

type HalationSpec struct {
	Intensity float64 `yaml:"intensity"`
	Radius    int     `yaml:"radius"`
	Threshold float64 `yaml:"threshold"`
	Color     string  `yaml:"color"` // hex, e.g. "#ff5a32"
}

type ColorShiftSpec struct {
	Temperature float64    `yaml:"temperature"`
	Tint        float64    `yaml:"tint"`
	Shadows     [3]float64 `yaml:"shadows,flow"`
	Highlights  [3]float64 `yaml:"highlights,flow"`
}

// Profile builds a catalog entry, filling the defaults a hand-written entry may omit.
func (s Spec) Profile() (Profile, error) {
	sat := 1.0
	if s.Saturation != nil {
		sat = *s.Saturation
	}
	p := stock(s.Category, s.ID, s.Name, s.Description, s.LUT,
		Grain{Intensity: s.Grain.Intensity, Size: s.Grain.Size, ISO: s.Grain.ISO}, s.Contrast, sat)
	p.Base.Brightness = s.Brightness
	if p.Grain.Intensity == 0 {
		p.Grain.Intensity = 0.2
	}
	if p.Grain.Size == 0 {
		p.Grain.Size = 1
	}
	if p.Grain.ISO == 0 {
		p.Grain.ISO = 400
	}
	if s.Kind != nil {
		p.Kind = *s.Kind
	}
	p.Process = s.Process

	if h := s.Halation; h != nil {
		glow := RGB8{255, 90, 50}
		if h.Color != "" {
			c, err := colorful.Hex(h.Color)
			if err != nil {
				return Profile{}, fmt.Errorf("profile %s: halation color: %w", s.ID, err)
			}
			glow.R, glow.G, glow.B = c.RGB255()
		}
		p.Halation = &Halation{
			Enabled:   true,
			Intensity: h.Intensity,
			Radius:    h.Radius,
			Threshold: h.Threshold,
			Color:     glow,
		}
		if p.Process == ProcessNone {
			p.Process = ProcessHalation
		}
	}
	if cs := s.ColorShift; cs != nil {
		p.ColorShift = &ColorShift{
			Temperature: cs.Temperature,
			Tint:        cs.Tint,
			Shadows:     RGBOffset{cs.Shadows[0], cs.Shadows[1], cs.Shadows[2]},
			Highlights:  RGBOffset{cs.Highlights[0], cs.Highlights[1], cs.Highlights[2]},
		}
	}
	return p, p.Validate()
}

// Hex formats an 8-bit color as "#rrggbb".
func (c RGB8) Hex() string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// FromSpecs converts a list of specs, stopping at the first invalid one.
func FromSpecs(specs []Spec) ([]Profile, error) {
	out := make([]Profile, 0, len(specs))
	for _, s := range specs {
		p, err := s.Profile()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
