package lut

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Parse reads .cube text. The returned table is never nil; the error is
// ErrNoSize or ErrSizeMismatch when the table cannot be sampled.
func Parse(text string) (*Table, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseReader is Parse over a stream. Malformed data rows are skipped.
// A size above MaxSize yields ErrInvalidTable.
func ParseReader(r io.Reader) (*Table, error) {
	t := &Table{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "LUT_3D_SIZE"):
			fields := strings.Fields(line)
			if len(fields) > 1 {
				if n, err := strconv.Atoi(fields[1]); err == nil {
					t.Size = n
				}
			}
			continue
		case strings.HasPrefix(line, "TITLE"):
			t.Title = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "TITLE")), `"`)
			continue
		case strings.HasPrefix(line, "DOMAIN_"):
			continue
		}
		if rgb, ok := parseRow(line); ok {
			t.Data = append(t.Data, rgb)
		}
	}
	if err := sc.Err(); err != nil {
		return t, fmt.Errorf("lut: read: %w", err)
	}
	if t.Size <= 0 {
		return t, ErrNoSize
	}
	if t.Size > MaxSize {
		return t, fmt.Errorf("%w: LUT_3D_SIZE %d exceeds %d", ErrInvalidTable, t.Size, MaxSize)
	}
	if want := t.Size * t.Size * t.Size; len(t.Data) != want {
		return t, fmt.Errorf("%w: size %d wants %d rows, got %d", ErrSizeMismatch, t.Size, want, len(t.Data))
	}
	return t, nil
}

func parseRow(line string) (RGB, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return RGB{}, false
	}
	var v [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return RGB{}, false
		}
		v[i] = f
	}
	return RGB{v[0], v[1], v[2]}, true
}
