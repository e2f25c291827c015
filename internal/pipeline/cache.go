package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/lukkan78/film-simulator/internal/lut"
	"github.com/lukkan78/film-simulator/internal/lutsource"
	"github.com/lukkan78/film-simulator/internal/profile"
)

var ErrNoSource = errors.New("pipeline: no LUT source configured")

// lutCache maps profile IDs to parsed tables. A nil table means the profile's
// LUT was unusable and the profile runs without one. Entries are never evicted.
type lutCache struct {
	src     lutsource.Source
	timeout time.Duration
	log     zerolog.Logger

	tables  sync.Map // string -> *lut.Table
	group   singleflight.Group
	fetches atomic.Int64
}

func (c *lutCache) lookup(id string) (*lut.Table, bool) {
	v, ok := c.tables.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*lut.Table), true
}

// get returns the table for p, loading it on first use. Concurrent first
// callers share a single fetch. Fetch failures are returned and not cached.
func (c *lutCache) get(ctx context.Context, p profile.Profile) (*lut.Table, error) {
	if p.LUT == "" {
		return nil, nil
	}
	if t, ok := c.lookup(p.ID); ok {
		return t, nil
	}
	ch := c.group.DoChan(p.ID, func() (any, error) {
		if t, ok := c.lookup(p.ID); ok {
			return t, nil
		}
		if c.src == nil {
			return nil, ErrNoSource
		}
		// The fetch outlives the first caller so that waiters are not
		// cancelled with it.
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		c.fetches.Add(1)
		text, err := c.src.Fetch(fctx, p.LUT)
		if err != nil {
			return nil, err
		}
		return c.store(p.ID, text), nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*lut.Table), nil
	}
}

// store parses text and records the result for id, keeping an earlier entry if one exists.
func (c *lutCache) store(id, text string) *lut.Table {
	t, err := lut.Parse(text)
	if err != nil {
		c.log.Warn().Err(err).Str("profile", id).Msg("unusable LUT; continuing without it")
		t = nil
	}
	actual, _ := c.tables.LoadOrStore(id, t)
	return actual.(*lut.Table)
}

func (c *lutCache) len() int {
	n := 0
	c.tables.Range(func(_, v any) bool {
		if v.(*lut.Table) != nil {
			n++
		}
		return true
	})
	return n
}
