// Package grain adds film-like luminance-dependent noise to a frame.
package grain

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/lukkan78/film-simulator/internal/frame"
)

// Options describe the grain for one frame.
type Options struct {
	// Intensity is the overall amount, typically 0..1.
	Intensity float64
	// Size is carried for callers that scale grain clumps; per-pixel grain ignores it.
	Size float64
	// ISO scales the amplitude by sqrt(ISO/100). Non-positive values mean 100.
	ISO float64
	// Monochrome uses one deviate for all channels.
	Monochrome bool
	// Seed fixes the noise. Zero picks a time-derived seed.
	Seed int64
}

// Per-channel amplitude weights for color film. Green is finest, blue coarsest.
const (
	weightR = 1.0
	weightG = 0.85
	weightB = 1.1
)

// Amplitude returns the grain standard deviation for a pixel of luma lum (0..1).
func (o Options) Amplitude(lum float64) float64 {
	iso := o.ISO
	if iso <= 0 {
		iso = 100
	}
	response := 0.4 + lum*(1-lum)*2.4
	return o.Intensity * 35 * math.Sqrt(iso/100) * response
}

// Apply adds grain to buf in place. Intensity <= 0 is a no-op.
func Apply(ctx context.Context, buf *frame.Buffer, o Options) error {
	if o.Intensity <= 0 {
		return nil
	}
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w := buf.Width
	return frame.Rows(ctx, buf.Height, func(band, y0, y1 int) error {
		rng := rand.New(rand.NewSource(seed + int64(band)*0x9E3779B9))
		pix := buf.Pix[4*w*y0 : 4*w*y1]
		for i := 0; i < len(pix); i += 4 {
			r, g, b := float64(pix[i]), float64(pix[i+1]), float64(pix[i+2])
			amp := o.Amplitude((0.299*r + 0.587*g + 0.114*b) / 255)
			if o.Monochrome {
				n := gaussian(rng) * amp
				r, g, b = r+n, g+n, b+n
			} else {
				r += gaussian(rng) * amp * weightR
				g += gaussian(rng) * amp * weightG
				b += gaussian(rng) * amp * weightB
			}
			pix[i] = frame.Clamp8(r)
			pix[i+1] = frame.Clamp8(g)
			pix[i+2] = frame.Clamp8(b)
		}
		return nil
	})
}

// gaussian draws a standard normal deviate with the Box-Muller transform.
func gaussian(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	if u1 == 0 {
		u1 = 0.0001
	}
	u2 := rng.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
