// Package effects holds profile-specific color processing that replaces LUT
// sampling: a tungsten color grade and red halation around highlights.
package effects

import (
	"context"
	"math"

	"github.com/lukkan78/film-simulator/internal/frame"
	"github.com/lukkan78/film-simulator/internal/profile"
)

const (
	// MaxBlurRadius caps the halation box blur.
	MaxBlurRadius = 10
	// minGlow skips additions too faint to matter.
	minGlow       = 0.01
	shiftContrast = 1.05
)

// Process runs the color shift and then the halation pass of p over buf.
// strength (0..1) blends both toward the input.
func Process(ctx context.Context, buf *frame.Buffer, p profile.Profile, strength float64) error {
	if p.ColorShift != nil {
		if err := ShiftColor(ctx, buf, *p.ColorShift, strength); err != nil {
			return err
		}
	}
	if h := p.Halation; h != nil && h.Enabled && strength > 0 {
		return Halate(ctx, buf, *h, strength)
	}
	return nil
}

// ShiftColor applies cs with a slight contrast boost around mid gray.
func ShiftColor(ctx context.Context, buf *frame.Buffer, cs profile.ColorShift, strength float64) error {
	w := buf.Width
	return frame.Rows(ctx, buf.Height, func(_, y0, y1 int) error {
		pix := buf.Pix[4*w*y0 : 4*w*y1]
		for i := 0; i < len(pix); i += 4 {
			or, og, ob := float64(pix[i]), float64(pix[i+1]), float64(pix[i+2])
			lum := (or + og + ob) / 3
			sw := math.Max(0, 1-lum/128)
			hw := math.Max(0, (lum-128)/128)

			r := or + cs.Temperature*0.3 + cs.Shadows.R*sw + cs.Highlights.R*hw
			g := og + cs.Tint*0.3 + cs.Shadows.G*sw + cs.Highlights.G*hw
			b := ob - cs.Temperature*0.5 + cs.Shadows.B*sw + cs.Highlights.B*hw

			r = 128 + (r-128)*shiftContrast
			g = 128 + (g-128)*shiftContrast
			b = 128 + (b-128)*shiftContrast

			pix[i] = frame.Clamp8(or + (r-or)*strength)
			pix[i+1] = frame.Clamp8(og + (g-og)*strength)
			pix[i+2] = frame.Clamp8(ob + (b-ob)*strength)
		}
		return nil
	})
}

// Halate adds h.Color around pixels brighter than h.Threshold.
func Halate(ctx context.Context, buf *frame.Buffer, h profile.Halation, strength float64) error {
	w, ht := buf.Width, buf.Height
	mask := HighlightMask(buf, h.Threshold)
	if err := Blur(ctx, mask, w, ht, min(h.Radius, MaxBlurRadius)); err != nil {
		return err
	}
	k := h.Intensity * strength
	cr, cg, cb := float64(h.Color.R), float64(h.Color.G), float64(h.Color.B)
	return frame.Rows(ctx, ht, func(_, y0, y1 int) error {
		for i := y0 * w; i < y1*w; i++ {
			amount := float64(mask[i]) * k
			if amount <= minGlow {
				continue
			}
			p := buf.Pix[4*i : 4*i+3]
			p[0] = frame.Clamp8(float64(p[0]) + cr*amount)
			p[1] = frame.Clamp8(float64(p[1]) + cg*amount)
			p[2] = frame.Clamp8(float64(p[2]) + cb*amount)
		}
		return nil
	})
}

// HighlightMask returns ((lum-thr)/(255-thr))^1.5 for pixels whose channel
// mean exceeds thr, and 0 elsewhere.
func HighlightMask(buf *frame.Buffer, thr float64) []float32 {
	n := buf.Width * buf.Height
	mask := make([]float32, n)
	span := 255 - thr
	if span <= 0 {
		return mask
	}
	for i := 0; i < n; i++ {
		p := buf.Pix[4*i : 4*i+3]
		lum := (float64(p[0]) + float64(p[1]) + float64(p[2])) / 3
		if lum > thr {
			mask[i] = float32(math.Pow((lum-thr)/span, 1.5))
		}
	}
	return mask
}

// Blur runs two passes of a separable, edge-clamped box blur over mask in place.
func Blur(ctx context.Context, mask []float32, w, h, radius int) error {
	if radius < 0 {
		radius = 0
	}
	tmp := make([]float32, len(mask))
	taps := float32(2*radius + 1)
	for pass := 0; pass < 2; pass++ {
		err := frame.Rows(ctx, h, func(_, y0, y1 int) error {
			for y := y0; y < y1; y++ {
				row := mask[y*w : (y+1)*w]
				for x := 0; x < w; x++ {
					var sum float32
					for dx := -radius; dx <= radius; dx++ {
						sum += row[clampIndex(x+dx, w)]
					}
					tmp[y*w+x] = sum / taps
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		err = frame.Rows(ctx, h, func(_, y0, y1 int) error {
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					var sum float32
					for dy := -radius; dy <= radius; dy++ {
						sum += tmp[clampIndex(y+dy, h)*w+x]
					}
					mask[y*w+x] = sum / taps
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
