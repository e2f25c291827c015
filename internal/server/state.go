// Package server exposes the pipeline as an interactive preview service over
// HTTP and websockets.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lukkan78/film-simulator/internal/adjust"
	"github.com/lukkan78/film-simulator/internal/config"
	diag "github.com/lukkan78/film-simulator/internal/diagnostics"
	"github.com/lukkan78/film-simulator/internal/imageio"
	"github.com/lukkan78/film-simulator/internal/pipeline"
	"github.com/lukkan78/film-simulator/internal/profile"
)

// maxMessageBytes bounds one websocket message; uploads arrive base64 encoded.
const maxMessageBytes = 64 << 20

type Options struct {
	Processor *pipeline.Processor
	Preview   config.PreviewCfg
	Defaults  adjust.Settings
	Logger    *zerolog.Logger
}

type State struct {
	mu          sync.RWMutex
	diagClients map[*websocket.Conn]bool
	sessions    int

	proc     *pipeline.Processor
	maxDim   int
	format   imageio.Format
	quality  int
	defaults adjust.Settings
	log      zerolog.Logger
	upgrader websocket.Upgrader

	startTime  time.Time
	frames     atomic.Uint64
	superseded atomic.Uint64
	failures   atomic.Uint64
}

func NewState(opts Options) *State {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	if opts.Processor == nil {
		opts.Processor = pipeline.New(pipeline.Options{Logger: opts.Logger})
	}
	format, err := imageio.ParseFormat(opts.Preview.Format)
	if err != nil || format == imageio.WebP {
		format = imageio.JPEG
	}
	if opts.Defaults == (adjust.Settings{}) {
		opts.Defaults = adjust.DefaultSettings()
	}
	return &State{
		diagClients: map[*websocket.Conn]bool{},
		proc:        opts.Processor,
		maxDim:      config.FirstNonZero(opts.Preview.MaxDim, pipeline.DefaultMaxPreviewDim),
		format:      format,
		quality:     opts.Preview.Quality,
		defaults:    opts.Defaults,
		log:         log,
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		startTime:   time.Now(),
	}
}

// Handler routes the preview endpoints.
func (s *State) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/session", s.HandleSessionWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/profiles", s.HandleProfiles)
	mux.HandleFunc("/health", s.HandleHealth)
	return withCORS(mux)
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.diagClients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	sessions, diags := s.sessions, len(s.diagClients)
	s.mu.RUnlock()
	resp := map[string]any{
		"uptime_s":     time.Since(s.startTime).Seconds(),
		"sessions":     sessions,
		"diag_clients": diags,
		"frames":       s.frames.Load(),
		"superseded":   s.superseded.Load(),
		"failures":     s.failures.Load(),
		"luts_cached":  s.proc.CachedLUTs(),
		"lut_fetches":  s.proc.Fetches(),
		"profiles":     s.proc.Catalog().Len(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type categoryJSON struct {
	ID       profile.Category  `json:"id"`
	Profiles []profile.Profile `json:"profiles"`
}

// HandleProfiles lists the catalog grouped by category; ?category= filters.
func (s *State) HandleProfiles(w http.ResponseWriter, r *http.Request) {
	cat := s.proc.Catalog()
	var out []categoryJSON
	want := profile.Category(r.URL.Query().Get("category"))
	for _, c := range cat.Categories() {
		if want != "" && c != want {
			continue
		}
		out = append(out, categoryJSON{ID: c, Profiles: cat.ByCategory(c)})
	}
	if want != "" && len(out) == 0 {
		http.Error(w, "unknown category", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"categories": out})
}

func (s *State) pushDiag(d diag.Diagnostic) {
	if d.Time.IsZero() {
		d.Time = time.Now()
	}
	b, _ := json.Marshal(d)
	// Exclusive: a websocket allows one writer at a time.
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.diagClients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			s.log.Debug().Err(err).Msg("write diag")
		}
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
