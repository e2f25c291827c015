// Package frame holds the RGBA8 pixel buffer the pipeline works on and the
// helpers for moving it in and out of image.Image.
package frame

import (
	"bytes"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Buffer is a row-major, non-premultiplied RGBA8 image.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed w×h buffer.
func New(w, h int) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Buffer{Width: w, Height: h, Pix: make([]uint8, 4*w*h)}
}

// Filled returns a w×h buffer with every pixel set to (r,g,b,a).
func Filled(w, h int, r, g, b, a uint8) *Buffer {
	f := New(w, h)
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = r, g, b, a
	}
	return f
}

// Valid reports whether the dimensions and the pixel slice agree.
func (b *Buffer) Valid() bool {
	return b != nil && b.Width > 0 && b.Height > 0 && len(b.Pix) == 4*b.Width*b.Height
}

func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	c := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.Width == o.Width && b.Height == o.Height && bytes.Equal(b.Pix, o.Pix)
}

// At returns the RGBA of pixel (x,y).
func (b *Buffer) At(x, y int) (r, g, bl, a uint8) {
	i := 4 * (y*b.Width + x)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Set writes pixel (x,y).
func (b *Buffer) Set(x, y int, r, g, bl, a uint8) {
	i := 4 * (y*b.Width + x)
	b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3] = r, g, bl, a
}

// Image wraps the buffer as an *image.NRGBA without copying.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// FromImage copies any image into a new Buffer.
func FromImage(img image.Image) *Buffer {
	n := imaging.Clone(img)
	w, h := n.Rect.Dx(), n.Rect.Dy()
	out := New(w, h)
	for y := 0; y < h; y++ {
		copy(out.Pix[y*4*w:(y+1)*4*w], n.Pix[y*n.Stride:y*n.Stride+4*w])
	}
	return out
}

// Fit bounds the buffer's longest side to maxDim using Lanczos resampling.
// The input is returned as is when it already fits or maxDim <= 0.
func Fit(b *Buffer, maxDim int) *Buffer {
	if maxDim <= 0 || (b.Width <= maxDim && b.Height <= maxDim) {
		return b
	}
	return FromImage(imaging.Fit(b.Image(), maxDim, maxDim, imaging.Lanczos))
}

// Clamp8 rounds v to the nearest integer and clamps it into [0,255].
func Clamp8(v float64) uint8 {
	if v != v || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
