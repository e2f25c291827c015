package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukkan78/film-simulator/internal/frame"
	"github.com/lukkan78/film-simulator/internal/lutsource"
)

func TestNewerSubmitSupersedesOlder(t *testing.T) {
	src := &countingSource{
		src:     lutsource.Static{"id.cube": identityCube(t)},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	defer close(src.release)
	sess := NewSession(New(Options{Source: src}))
	img := frame.Filled(4, 4, 100, 100, 100, 255)

	older := make(chan error, 1)
	go func() {
		_, err := sess.Submit(context.Background(), Request{Source: img, Profile: lutProfile("slow", "id.cube"), Settings: plain(), Mode: Preview})
		older <- err
	}()

	select {
	case <-src.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first request never reached the LUT source")
	}

	res, err := sess.Submit(context.Background(), Request{Source: img, Profile: mustGet(t, "original"), Settings: plain(), Mode: Preview})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), res.Generation)
	assert.True(t, res.Buffer.Equal(img))

	select {
	case err := <-older:
		assert.True(t, errors.Is(err, ErrSuperseded), "got %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("older request did not return")
	}
}

func TestNewestOfConcurrentSubmitsSucceeds(t *testing.T) {
	sess := NewSession(New(Options{}))
	img := frame.Filled(8, 8, 100, 100, 100, 255)

	type outcome struct {
		gen uint64
		err error
	}
	for round := 0; round < 50; round++ {
		const n = 8
		results := make(chan outcome, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			s := plain()
			s.Contrast = round*n + i + 1
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := sess.Submit(context.Background(), Request{Source: img, Profile: mustGet(t, "original"), Settings: s, Mode: Preview})
				results <- outcome{res.Generation, err}
			}()
		}
		wg.Wait()
		close(results)

		newest := outcome{}
		for r := range results {
			if r.err != nil && !errors.Is(r.err, ErrSuperseded) {
				t.Fatalf("expected success or ErrSuperseded, got %v", r.err)
			}
			if r.gen > newest.gen {
				newest = r
			}
		}
		if newest.err != nil {
			t.Fatalf("round %d: expected generation %d to succeed, got %v", round, newest.gen, newest.err)
		}
		assert.Equal(t, sess.Generation(), newest.gen)
	}
}

func TestIdenticalRequestIsReused(t *testing.T) {
	sess := NewSession(New(Options{}))
	img := frame.Filled(4, 4, 100, 100, 100, 255)
	req := Request{Source: img, Profile: mustGet(t, "original"), Settings: plain(), Mode: Preview}

	first, err := sess.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Reused)

	second, err := sess.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Reused)
	assert.Same(t, first.Buffer, second.Buffer)
	assert.Equal(t, uint64(2), second.Generation)

	req.Settings.Contrast = 10
	third, err := sess.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, third.Reused)
}

func TestResetForgetsLastResult(t *testing.T) {
	sess := NewSession(New(Options{}))
	img := frame.Filled(4, 4, 100, 100, 100, 255)
	req := Request{Source: img, Profile: mustGet(t, "original"), Settings: plain()}
	_, err := sess.Submit(context.Background(), req)
	require.NoError(t, err)

	sess.Reset()
	res, err := sess.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Reused)
	assert.Equal(t, uint64(3), sess.Generation())
}

func TestRequestKey(t *testing.T) {
	a := Request{Profile: mustGet(t, "portra400"), Settings: plain(), Mode: Preview}
	b := a
	assert.Equal(t, a.Key(), b.Key())
	b.Mode = Export
	assert.NotEqual(t, a.Key(), b.Key())
	b = a
	b.Settings.Contrast = 500
	c := a
	c.Settings.Contrast = 100
	assert.Equal(t, c.Key(), b.Key())
}
