package adjust

import (
	"context"
	"math"

	"github.com/lukkan78/film-simulator/internal/frame"
)

// params holds the per-request constants derived from Settings.
type params struct {
	shadows, highlights     float64
	brightness, exposure    float64
	contrast, contrastScale float64
	temperature             float64
	saturation              float64
	fade                    float64
	blacksGamma             float64
}

func newParams(s Settings, baseSaturation float64) params {
	s = s.Clamped()
	p := params{
		shadows:     float64(s.Shadows) / 50,
		highlights:  float64(s.Highlights) / 50,
		brightness:  float64(s.Brightness),
		exposure:    math.Pow(2, float64(s.Brightness)/50),
		contrast:    float64(s.Contrast) / 50,
		temperature: float64(s.Temperature) / 50,
		saturation:  math.Max(0, (1+float64(s.Saturation)/50)*baseSaturation),
	}
	if p.contrast > 0 {
		p.contrastScale = 1 + p.contrast*0.8
	} else {
		p.contrastScale = 1 + p.contrast*0.6
	}
	if s.Fade > 0 {
		p.fade = float64(s.Fade) * 2.55
	}
	if s.Blacks > 0 {
		p.blacksGamma = 1 + float64(s.Blacks)/100*0.8
	}
	return p
}

func luma(r, g, b float64) float64 {
	return (0.299*r + 0.587*g + 0.114*b) / 255
}

// pixel runs the adjustment stages on one color. Values are unclamped 0..255 floats.
func (p *params) pixel(r, g, b float64) (float64, float64, float64) {
	lum := luma(r, g, b)

	if p.shadows != 0 {
		w := math.Pow(math.Max(0, 1-lum*2), 1.5)
		var d float64
		if p.shadows > 0 {
			d = (math.Pow(lum, 1-p.shadows*w*0.4) - lum) * 255
		} else {
			d = p.shadows * w * 60
		}
		r, g, b = r+d, g+d, b+d
		lum = luma(r, g, b)
	}

	if p.highlights != 0 {
		w := math.Pow(math.Max(0, (lum-0.5)*2), 1.5)
		if p.highlights > 0 {
			d := p.highlights * w * 50
			r, g, b = r+d, g+d, b+d
		} else {
			k := -p.highlights * w * 0.5
			const target = 0.6 * 255
			r -= (r - target) * k
			g -= (g - target) * k
			b -= (b - target) * k
		}
	}

	if p.brightness != 0 {
		r, g, b = r*p.exposure, g*p.exposure, b*p.exposure
	}

	if p.contrast != 0 {
		const pivot = 128
		r = pivot + (r-pivot)*p.contrastScale
		g = pivot + (g-pivot)*p.contrastScale
		b = pivot + (b-pivot)*p.contrastScale
	}

	if p.temperature != 0 {
		r += p.temperature * 30
		g += p.temperature * 8
		b -= p.temperature * 30
	}

	if p.saturation != 1 {
		gray := 0.299*r + 0.587*g + 0.114*b
		r = gray + (r-gray)*p.saturation
		g = gray + (g-gray)*p.saturation
		b = gray + (b-gray)*p.saturation
	}

	if p.fade > 0 {
		k := (255 - p.fade) / 255
		r, g, b = p.fade+r*k, p.fade+g*k, p.fade+b*k
	}

	if p.blacksGamma > 0 {
		r = 255 * math.Pow(math.Max(0, r)/255, p.blacksGamma)
		g = 255 * math.Pow(math.Max(0, g)/255, p.blacksGamma)
		b = 255 * math.Pow(math.Max(0, b)/255, p.blacksGamma)
	}
	return r, g, b
}

// Apply runs shadows, highlights, exposure, contrast, temperature, saturation,
// fade and blacks over buf in place. baseSaturation is the film profile's
// saturation multiplier (1 is neutral, 0 is monochrome).
func Apply(ctx context.Context, buf *frame.Buffer, s Settings, baseSaturation float64) error {
	p := newParams(s, baseSaturation)
	w := buf.Width
	return frame.Rows(ctx, buf.Height, func(_, y0, y1 int) error {
		pix := buf.Pix[4*w*y0 : 4*w*y1]
		for i := 0; i < len(pix); i += 4 {
			r, g, b := p.pixel(float64(pix[i]), float64(pix[i+1]), float64(pix[i+2]))
			pix[i] = frame.Clamp8(r)
			pix[i+1] = frame.Clamp8(g)
			pix[i+2] = frame.Clamp8(b)
		}
		return nil
	})
}
