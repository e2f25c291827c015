package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			c := color.NRGBA{200, 40, 90, 255}
			if (x+y)%2 == 0 {
				c = color.NRGBA{10, 220, 130, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestPNGRoundTripIsLossless(t *testing.T) {
	src := checker()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, PNG, 0))
	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), got.Bounds())
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			assert.Equal(t, src.NRGBAAt(x, y), color.NRGBAModel.Convert(got.At(x, y)))
		}
	}
}

func TestJPEGEncodes(t *testing.T) {
	var hi, lo bytes.Buffer
	require.NoError(t, Encode(&hi, checker(), JPEG, 100))
	require.NoError(t, Encode(&lo, checker(), JPEG, 5))
	assert.Greater(t, hi.Len(), lo.Len())

	img, err := Decode(&hi)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestWebPEncodeUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, checker(), WebP, 90)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat), "got %v", err)
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"jpg": JPEG, ".JPEG": JPEG, "png": PNG, "webp": WebP}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("tiff")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	f, err := FormatFromPath("/tmp/out.PNG")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
	assert.Equal(t, "image/jpeg", JPEG.ContentType())
}

func TestSaveAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, Save(path, checker(), PNG, 0))
	img, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())

	_, err = Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
