package frame

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BandRows is the height of one work unit handed to a worker. Bands are fixed
// so that per-band state (such as seeded noise) does not depend on the CPU count.
const BandRows = 32

// Rows splits [0,height) into bands of BandRows rows and runs fn on them over
// runtime.NumCPU() workers. A panic inside fn is returned as an error.
func Rows(ctx context.Context, height int, fn func(band, y0, y1 int) error) error {
	if height <= 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for band, y0 := 0, 0; y0 < height; band, y0 = band+1, y0+BandRows {
		band, y0 := band, y0
		y1 := min(y0+BandRows, height)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("frame: band %d panicked: %v", band, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(band, y0, y1)
		})
	}
	return g.Wait()
}
