// Package imageio decodes and encodes the image files the pipeline works on.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the WebP decoder
)

var ErrUnsupportedFormat = errors.New("imageio: unsupported output format")

type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	WebP Format = "webp"
)

const DefaultJPEGQuality = 95

// ParseFormat accepts a format name or file extension, with or without the dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "jpg", "jpeg":
		return JPEG, nil
	case "png":
		return PNG, nil
	case "webp":
		return WebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	return "image/" + string(f)
}

// Decode reads a JPEG, PNG, GIF, BMP, TIFF or WebP image and applies its
// EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}

func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return img, nil
}

// Encode writes img as f. quality applies to JPEG only; values outside 1..100
// select DefaultJPEGQuality.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	var err error
	switch f {
	case JPEG:
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case PNG:
		err = imaging.Encode(w, img, imaging.PNG)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// Save encodes img to path, creating or truncating it.
func Save(path string, img image.Image, f Format, quality int) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return Encode(out, img, f, quality)
}
