// Package pipeline runs a film profile over a frame: LUT or custom color
// transform, user adjustments, vignette, then grain.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lukkan78/film-simulator/internal/adjust"
	"github.com/lukkan78/film-simulator/internal/effects"
	"github.com/lukkan78/film-simulator/internal/frame"
	"github.com/lukkan78/film-simulator/internal/grain"
	"github.com/lukkan78/film-simulator/internal/lut"
	"github.com/lukkan78/film-simulator/internal/lutsource"
	"github.com/lukkan78/film-simulator/internal/profile"
)

var ErrInvalidBuffer = errors.New("pipeline: invalid pixel buffer")

// Stage names a step of one Process call.
type Stage string

const (
	StageLoadingLUT     Stage = "loading-lut"
	StageColorTransform Stage = "color-transform"
	StageAdjustments    Stage = "adjustments"
	StageVignette       Stage = "vignette"
	StageGrain          Stage = "grain"
)

// Mode selects the working resolution.
type Mode string

const (
	Export  Mode = "export"
	Preview Mode = "preview"
)

const (
	DefaultMaxPreviewDim = 800
	DefaultFetchTimeout  = 30 * time.Second
	defaultISO           = 400
)

// StageError reports the stage that failed. Panics are wrapped the same way.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("pipeline: %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

type Timing struct {
	Stage Stage   `json:"stage"`
	MS    float64 `json:"ms"`
}

// Report describes one Process call.
type Report struct {
	Profile  string   `json:"profile"`
	Mode     Mode     `json:"mode"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Stages   []Timing `json:"stages"`
	TotalMS  float64  `json:"total_ms"`
	LUT      bool     `json:"lut"`
	LUTError string   `json:"lut_error,omitempty"`
	FellBack bool     `json:"fell_back"`
}

type Options struct {
	Source        lutsource.Source
	Catalog       *profile.Catalog
	FetchTimeout  time.Duration
	MaxPreviewDim int
	// Seed fixes grain noise; zero draws a new seed per call.
	Seed   int64
	Logger *zerolog.Logger
}

// Processor is safe for concurrent use.
type Processor struct {
	catalog    *profile.Catalog
	maxPreview int
	seed       int64
	log        zerolog.Logger
	cache      *lutCache
}

func New(opts Options) *Processor {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	if opts.Catalog == nil {
		opts.Catalog = profile.Default()
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.MaxPreviewDim <= 0 {
		opts.MaxPreviewDim = DefaultMaxPreviewDim
	}
	return &Processor{
		catalog:    opts.Catalog,
		maxPreview: opts.MaxPreviewDim,
		seed:       opts.Seed,
		log:        log,
		cache:      &lutCache{src: opts.Source, timeout: opts.FetchTimeout, log: log},
	}
}

func (p *Processor) Catalog() *profile.Catalog { return p.catalog }

// Process applies prof and s to a copy of buf. On any stage failure it
// returns buf itself, unmodified, with the error.
func (p *Processor) Process(ctx context.Context, buf *frame.Buffer, prof profile.Profile, s adjust.Settings) (*frame.Buffer, Report, error) {
	return p.process(ctx, Export, buf, prof, s)
}

// Preview is Process on a copy bounded to the preview dimension.
func (p *Processor) Preview(ctx context.Context, buf *frame.Buffer, prof profile.Profile, s adjust.Settings) (*frame.Buffer, Report, error) {
	if !buf.Valid() {
		return buf, Report{Profile: prof.ID, Mode: Preview, FellBack: true}, ErrInvalidBuffer
	}
	return p.process(ctx, Preview, frame.Fit(buf, p.maxPreview), prof, s)
}

// Run dispatches on mode.
func (p *Processor) Run(ctx context.Context, mode Mode, buf *frame.Buffer, prof profile.Profile, s adjust.Settings) (*frame.Buffer, Report, error) {
	if mode == Preview {
		return p.Preview(ctx, buf, prof, s)
	}
	return p.Process(ctx, buf, prof, s)
}

func (p *Processor) process(ctx context.Context, mode Mode, buf *frame.Buffer, prof profile.Profile, s adjust.Settings) (*frame.Buffer, Report, error) {
	start := time.Now()
	rep := Report{Profile: prof.ID, Mode: mode}
	if !buf.Valid() {
		rep.FellBack = true
		return buf, rep, ErrInvalidBuffer
	}
	rep.Width, rep.Height = buf.Width, buf.Height

	work := buf.Clone()
	err := run(ctx, work, p.plan(prof, s.Clamped(), &rep), &rep)
	rep.TotalMS = ms(time.Since(start))
	if err != nil {
		rep.FellBack = true
		p.log.Warn().Err(err).Str("profile", prof.ID).Str("mode", string(mode)).Msg("processing failed; returning original")
		return buf, rep, err
	}
	p.log.Debug().Str("profile", prof.ID).Str("mode", string(mode)).
		Int("w", rep.Width).Int("h", rep.Height).Float64("total_ms", rep.TotalMS).Msg("processed")
	return work, rep, nil
}

type stage struct {
	name Stage
	run  func(ctx context.Context, b *frame.Buffer) error
}

// plan lists the stages for prof and s. Strength only scales the color transform.
func (p *Processor) plan(prof profile.Profile, s adjust.Settings, rep *Report) []stage {
	strength := float64(s.Strength) / 100
	var stages []stage

	if strength > 0 {
		switch prof.Process {
		case profile.ProcessHalation:
			stages = append(stages, stage{StageColorTransform, func(ctx context.Context, b *frame.Buffer) error {
				return effects.Process(ctx, b, prof, strength)
			}})
		default:
			if prof.LUT != "" {
				var table *lut.Table
				stages = append(stages,
					stage{StageLoadingLUT, func(ctx context.Context, _ *frame.Buffer) error {
						t, err := p.cache.get(ctx, prof)
						if err != nil {
							if ctx.Err() != nil {
								return ctx.Err()
							}
							rep.LUTError = err.Error()
							p.log.Warn().Err(err).Str("profile", prof.ID).Str("lut", prof.LUT).Msg("LUT unavailable; continuing without it")
							return nil
						}
						table = t
						rep.LUT = t != nil
						return nil
					}},
					stage{StageColorTransform, func(ctx context.Context, b *frame.Buffer) error {
						if table == nil {
							return nil
						}
						return lut.Apply(ctx, b, table, strength)
					}})
			}
		}
	}

	if !s.IsNeutral() || prof.Base.Saturation != 1 {
		stages = append(stages, stage{StageAdjustments, func(ctx context.Context, b *frame.Buffer) error {
			return adjust.Apply(ctx, b, s, prof.Base.Saturation)
		}})
	}

	if s.Vignette > 0 {
		stages = append(stages, stage{StageVignette, func(ctx context.Context, b *frame.Buffer) error {
			return adjust.Vignette(ctx, b, s.Vignette)
		}})
	}

	if g := grainOptions(prof, s, p.seed); g.Intensity > 0 {
		stages = append(stages, stage{StageGrain, func(ctx context.Context, b *frame.Buffer) error {
			return grain.Apply(ctx, b, g)
		}})
	}
	return stages
}

func grainOptions(prof profile.Profile, s adjust.Settings, seed int64) grain.Options {
	iso := prof.Grain.ISO
	if iso <= 0 {
		iso = defaultISO
	}
	return grain.Options{
		Intensity:  float64(s.GrainIntensity) / 100 * prof.Grain.Intensity,
		Size:       float64(s.GrainSize+1) * prof.Grain.Size,
		ISO:        float64(iso),
		Monochrome: prof.Monochrome(),
		Seed:       seed,
	}
}

// run executes stages in order on b, stopping at the first failure.
func run(ctx context.Context, b *frame.Buffer, stages []stage, rep *Report) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := runStage(ctx, b, st); err != nil {
			return err
		}
		rep.Stages = append(rep.Stages, Timing{Stage: st.name, MS: ms(time.Since(start))})
	}
	return nil
}

func runStage(ctx context.Context, b *frame.Buffer, st stage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &StageError{Stage: st.name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if err := st.run(ctx, b); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &StageError{Stage: st.name, Err: err}
	}
	return nil
}

// Preload warms the LUT cache for the given profile IDs. It returns the
// joined errors of every profile that could not be loaded.
func (p *Processor) Preload(ctx context.Context, ids ...string) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(4)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			prof, err := p.catalog.Get(id)
			if err == nil {
				_, err = p.cache.get(ctx, prof)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("preload %s: %w", id, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// CacheLUT stores client-supplied .cube text for a profile. An existing entry wins.
func (p *Processor) CacheLUT(id, text string) error {
	t, err := lut.Parse(text)
	if err != nil {
		return err
	}
	p.cache.tables.LoadOrStore(id, t)
	return nil
}

// CachedLUTs is the number of usable tables in the cache.
func (p *Processor) CachedLUTs() int { return p.cache.len() }

// Fetches counts LUT source fetches issued so far.
func (p *Processor) Fetches() int64 { return p.cache.fetches.Load() }

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000.0 }
