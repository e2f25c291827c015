package lut

import (
	"context"
	"math"

	"github.com/lukkan78/film-simulator/internal/frame"
)

// Sample maps a normalized color through the table and blends the result
// toward the input by strength (0 keeps the input, 1 is the full lookup).
// The table must be Valid.
func (t *Table) Sample(in RGB, strength float64) RGB {
	r0, r1, fr := corner(in.R, t.Size)
	g0, g1, fg := corner(in.G, t.Size)
	b0, b1, fb := corner(in.B, t.Size)

	c000 := t.At(r0, g0, b0)
	c100 := t.At(r1, g0, b0)
	c010 := t.At(r0, g1, b0)
	c110 := t.At(r1, g1, b0)
	c001 := t.At(r0, g0, b1)
	c101 := t.At(r1, g0, b1)
	c011 := t.At(r0, g1, b1)
	c111 := t.At(r1, g1, b1)

	c00 := lerp(c000, c100, fr)
	c10 := lerp(c010, c110, fr)
	c01 := lerp(c001, c101, fr)
	c11 := lerp(c011, c111, fr)
	c0 := lerp(c00, c10, fg)
	c1 := lerp(c01, c11, fg)
	s := lerp(c0, c1, fb)

	return RGB{
		R: in.R + (s.R-in.R)*strength,
		G: in.G + (s.G-in.G)*strength,
		B: in.B + (s.B-in.B)*strength,
	}
}

// corner returns the two grid indices bracketing c and the fraction between them.
func corner(c float64, size int) (i0, i1 int, f float64) {
	if c != c || c < 0 {
		c = 0
	} else if c > 1 {
		c = 1
	}
	idx := c * float64(size-1)
	i0 = int(math.Floor(idx))
	if i0 > size-1 {
		i0 = size - 1
	}
	i1 = min(i0+1, size-1)
	return i0, i1, idx - float64(i0)
}

func lerp(a, b RGB, f float64) RGB {
	return RGB{
		R: a.R + (b.R-a.R)*f,
		G: a.G + (b.G-a.G)*f,
		B: a.B + (b.B-a.B)*f,
	}
}

// Apply samples every pixel of buf through t in place. Alpha is untouched.
func Apply(ctx context.Context, buf *frame.Buffer, t *Table, strength float64) error {
	if !t.Valid() {
		return ErrInvalidTable
	}
	w := buf.Width
	return frame.Rows(ctx, buf.Height, func(_, y0, y1 int) error {
		pix := buf.Pix[4*w*y0 : 4*w*y1]
		for i := 0; i < len(pix); i += 4 {
			out := t.Sample(RGB{
				R: float64(pix[i]) / 255,
				G: float64(pix[i+1]) / 255,
				B: float64(pix[i+2]) / 255,
			}, strength)
			pix[i] = frame.Clamp8(out.R * 255)
			pix[i+1] = frame.Clamp8(out.G * 255)
			pix[i+2] = frame.Clamp8(out.B * 255)
		}
		return nil
	})
}
