package frame

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsIndependent(t *testing.T) {
	a := Filled(2, 2, 10, 20, 30, 255)
	b := a.Clone()
	require.True(t, a.Equal(b))
	b.Pix[0] = 99
	assert.False(t, a.Equal(b))
	assert.Equal(t, uint8(10), a.Pix[0])
}

func TestValid(t *testing.T) {
	assert.True(t, New(3, 2).Valid())
	assert.False(t, New(0, 2).Valid())
	assert.False(t, (&Buffer{Width: 2, Height: 2, Pix: make([]uint8, 15)}).Valid())
	var nilBuf *Buffer
	assert.False(t, nilBuf.Valid())
}

func TestImageRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 8, 7))
	src.Set(5, 5, color.RGBA{255, 0, 0, 255})
	src.Set(7, 6, color.RGBA{0, 0, 255, 255})

	b := FromImage(src)
	require.Equal(t, 3, b.Width)
	require.Equal(t, 2, b.Height)
	r, g, bl, a := b.At(0, 0)
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, [4]uint8{r, g, bl, a})
	r, g, bl, a = b.At(2, 1)
	assert.Equal(t, [4]uint8{0, 0, 255, 255}, [4]uint8{r, g, bl, a})

	back := FromImage(b.Image())
	assert.True(t, b.Equal(back))
}

func TestFit(t *testing.T) {
	small := New(10, 5)
	if got := Fit(small, 800); got != small {
		t.Fatalf("expected small buffer to be returned as is")
	}
	big := Filled(1600, 400, 128, 128, 128, 255)
	fit := Fit(big, 800)
	assert.Equal(t, 800, fit.Width)
	assert.Equal(t, 200, fit.Height)
	r, _, _, _ := fit.At(400, 100)
	assert.InDelta(t, 128, int(r), 1)
}

func TestClamp8(t *testing.T) {
	cases := map[float64]uint8{-5: 0, 0: 0, 0.4: 0, 0.5: 1, 127.6: 128, 255: 255, 300: 255}
	for in, want := range cases {
		if got := Clamp8(in); got != want {
			t.Fatalf("Clamp8(%v): expected %d, got %d", in, want, got)
		}
	}
}

func TestRowsCoversEveryRowOnce(t *testing.T) {
	const h = 100
	var seen [h]int32
	err := Rows(context.Background(), h, func(_, y0, y1 int) error {
		for y := y0; y < y1; y++ {
			atomic.AddInt32(&seen[y], 1)
		}
		return nil
	})
	require.NoError(t, err)
	for y, n := range seen {
		if n != 1 {
			t.Fatalf("row %d visited %d times", y, n)
		}
	}
}

func TestRowsRecoversPanic(t *testing.T) {
	err := Rows(context.Background(), 64, func(band, _, _ int) error {
		if band == 1 {
			panic("boom")
		}
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRowsHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Rows(ctx, 64, func(int, int, int) error { return nil })
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
