package adjust

import (
	"context"
	"math"

	"github.com/lukkan78/film-simulator/internal/frame"
)

// Vignette darkens buf toward its edges with an elliptical falloff.
// intensity is 0..100; values <= 0 leave buf untouched.
func Vignette(ctx context.Context, buf *frame.Buffer, intensity int) error {
	if intensity <= 0 {
		return nil
	}
	strength := float64(min(intensity, 100)) / 100
	w := buf.Width
	cx, cy := float64(w)/2, float64(buf.Height)/2
	return frame.Rows(ctx, buf.Height, func(_, y0, y1 int) error {
		for y := y0; y < y1; y++ {
			dy := (float64(y) - cy) / cy
			row := buf.Pix[4*w*y : 4*w*(y+1)]
			for x := 0; x < w; x++ {
				dx := (float64(x) - cx) / cx
				d := math.Sqrt(dx*dx+dy*dy) * 0.7
				f := math.Max(0, 1-d*d*strength)
				i := 4 * x
				row[i] = frame.Clamp8(float64(row[i]) * f)
				row[i+1] = frame.Clamp8(float64(row[i+1]) * f)
				row[i+2] = frame.Clamp8(float64(row[i+2]) * f)
			}
		}
		return nil
	})
}
