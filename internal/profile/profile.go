// Package profile describes film stocks and holds the built-in catalog.
package profile

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("profile: not found")

// Category groups profiles for display.
type Category string

const (
	CategoryColor   Category = "color"
	CategorySlide   Category = "slide"
	CategoryBW      Category = "bw"
	CategoryInstant Category = "instant"
)

// LookKind selects how grain and tone treat a stock.
type LookKind int

const (
	NegativeColor LookKind = iota
	Slide
	Monochrome
	Instant
)

var kindNames = [...]string{"negative", "slide", "monochrome", "instant"}

func (k LookKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("LookKind(%d)", int(k))
	}
	return kindNames[k]
}

func (k LookKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *LookKind) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range kindNames {
		if s == n {
			*k = LookKind(i)
			return nil
		}
	}
	return fmt.Errorf("profile: unknown kind %q", s)
}

// Process selects a profile-specific color transform that replaces LUT sampling.
type Process int

const (
	ProcessNone Process = iota
	ProcessHalation
)

func (p Process) String() string {
	switch p {
	case ProcessNone:
		return "none"
	case ProcessHalation:
		return "halation"
	}
	return fmt.Sprintf("Process(%d)", int(p))
}

func (p Process) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Process) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "none":
		*p = ProcessNone
	case "halation":
		*p = ProcessHalation
	default:
		return fmt.Errorf("profile: unknown process %q", string(b))
	}
	return nil
}

type Grain struct {
	Intensity float64 `json:"intensity"`
	Size      float64 `json:"size"`
	ISO       int     `json:"iso"`
}

// Base holds the stock's own tone character. Only Saturation feeds the
// adjustment engine; it multiplies the user's saturation slider.
type Base struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
}

type RGB8 struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

type RGBOffset struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Halation is the red glow bleeding around bright areas on film without an
// anti-halation layer.
type Halation struct {
	Enabled   bool    `json:"enabled"`
	Intensity float64 `json:"intensity"`
	Radius    int     `json:"radius"`
	Threshold float64 `json:"threshold"`
	Color     RGB8    `json:"color"`
}

// ColorShift is a tungsten-balance grade with separate shadow and highlight tints.
type ColorShift struct {
	Temperature float64   `json:"temperature"`
	Tint        float64   `json:"tint"`
	Shadows     RGBOffset `json:"shadows"`
	Highlights  RGBOffset `json:"highlights"`
}

type Profile struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Kind        LookKind `json:"kind"`
	// LUT is a reference resolved by a lutsource.Source. Empty means no LUT.
	LUT        string      `json:"lut,omitempty"`
	Grain      Grain       `json:"grain"`
	Base       Base        `json:"base"`
	Process    Process     `json:"process"`
	Halation   *Halation   `json:"halation,omitempty"`
	ColorShift *ColorShift `json:"colorShift,omitempty"`
}

func (p Profile) Monochrome() bool { return p.Kind == Monochrome }

// Validate checks the fields the pipeline relies on.
func (p Profile) Validate() error {
	if p.ID == "" {
		return errors.New("profile: empty id")
	}
	switch p.Category {
	case CategoryColor, CategorySlide, CategoryBW, CategoryInstant:
	default:
		return fmt.Errorf("profile %s: unknown category %q", p.ID, p.Category)
	}
	if p.Base.Saturation < 0 {
		return fmt.Errorf("profile %s: negative base saturation", p.ID)
	}
	if p.Grain.Intensity < 0 || p.Grain.Size < 0 || p.Grain.ISO < 0 {
		return fmt.Errorf("profile %s: negative grain parameter", p.ID)
	}
	if p.Process == ProcessHalation && p.Halation == nil && p.ColorShift == nil {
		return fmt.Errorf("profile %s: halation process without parameters", p.ID)
	}
	return nil
}
