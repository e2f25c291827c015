// Package lut reads and writes Adobe .cube 3D lookup tables and samples them
// with trilinear interpolation.
package lut

import "errors"

// MaxSize is the largest LUT_3D_SIZE accepted.
const MaxSize = 256

var (
	ErrNoSize       = errors.New("lut: missing or non-positive LUT_3D_SIZE")
	ErrSizeMismatch = errors.New("lut: data length does not match LUT_3D_SIZE")
	ErrInvalidTable = errors.New("lut: invalid table")
)

// RGB is one output color in normalized [0,1] units.
type RGB struct {
	R, G, B float64
}

// Table is a parsed 3D LUT. Data is laid out red-fastest: the entry for
// grid point (r,g,b) lives at b*Size*Size + g*Size + r.
type Table struct {
	Title string
	Size  int
	Data  []RGB
}

// Valid reports whether the table can be sampled.
func (t *Table) Valid() bool {
	return t != nil && t.Size > 0 && t.Size <= MaxSize && len(t.Data) == t.Size*t.Size*t.Size
}

// At returns the grid entry at (r,g,b).
func (t *Table) At(r, g, b int) RGB {
	return t.Data[(b*t.Size+g)*t.Size+r]
}

// Identity returns an n³ table that maps every color to itself.
func Identity(n int) *Table {
	if n < 1 {
		n = 1
	}
	t := &Table{Title: "identity", Size: n, Data: make([]RGB, 0, n*n*n)}
	scale := 1.0
	if n > 1 {
		scale = float64(n - 1)
	}
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				t.Data = append(t.Data, RGB{float64(r) / scale, float64(g) / scale, float64(b) / scale})
			}
		}
	}
	return t
}
