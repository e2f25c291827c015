package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lukkan78/film-simulator/internal/adjust"
	"github.com/lukkan78/film-simulator/internal/frame"
	"github.com/lukkan78/film-simulator/internal/profile"
)

var ErrSuperseded = errors.New("pipeline: request superseded by a newer one")

type Request struct {
	Source   *frame.Buffer
	Profile  profile.Profile
	Settings adjust.Settings
	Mode     Mode
}

// Key identifies the output of r for a given source.
func (r Request) Key() string {
	return fmt.Sprintf("%s-%s-%s", r.Mode, r.Profile.ID, r.Settings.Clamped().Key())
}

type Result struct {
	Buffer     *frame.Buffer
	Report     Report
	Generation uint64
	// Reused is set when the result of the previous identical request was returned.
	Reused bool
}

// Session serializes interactive requests with last-request-wins semantics:
// each Submit cancels the one in flight, and a request that finishes after a
// newer one was issued returns ErrSuperseded instead of its result.
type Session struct {
	proc *Processor
	gen  atomic.Uint64

	mu         sync.Mutex
	cancel     context.CancelFunc
	last       Result
	lastKey    string
	lastSource *frame.Buffer
}

func NewSession(p *Processor) *Session {
	return &Session{proc: p}
}

// Generation is the number of the most recent request.
func (s *Session) Generation() uint64 { return s.gen.Load() }

// Submit processes req unless a newer request overtakes it.
func (s *Session) Submit(ctx context.Context, req Request) (Result, error) {
	key := req.Key()

	// The generation is taken under the lock so that generation order is
	// the order in which requests cancel each other.
	s.mu.Lock()
	gen := s.gen.Add(1)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.last.Buffer != nil && key == s.lastKey && req.Source == s.lastSource {
		res := s.last
		res.Generation = gen
		res.Reused = true
		s.mu.Unlock()
		return res, nil
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	out, rep, err := s.proc.Run(ctx, req.Mode, req.Source, req.Profile, req.Settings)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen.Load() != gen {
		return Result{Generation: gen}, ErrSuperseded
	}
	s.cancel = nil
	res := Result{Buffer: out, Report: rep, Generation: gen}
	if err != nil {
		return res, err
	}
	s.last, s.lastKey, s.lastSource = res, key, req.Source
	return res, nil
}

// Reset drops the remembered result and supersedes any request in flight.
// Call it when the session's source image changes.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen.Add(1)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.last, s.lastKey, s.lastSource = Result{}, "", nil
}
