package lut

import (
	"bufio"
	"fmt"
	"io"
)

// Encode writes t as canonical .cube text.
func Encode(w io.Writer, t *Table) error {
	if !t.Valid() {
		return ErrInvalidTable
	}
	bw := bufio.NewWriter(w)
	if t.Title != "" {
		fmt.Fprintf(bw, "TITLE \"%s\"\n", t.Title)
	}
	fmt.Fprintf(bw, "LUT_3D_SIZE %d\n\n", t.Size)
	for _, c := range t.Data {
		fmt.Fprintf(bw, "%.6f %.6f %.6f\n", c.R, c.G, c.B)
	}
	return bw.Flush()
}
