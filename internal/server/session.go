package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lukkan78/film-simulator/internal/adjust"
	diag "github.com/lukkan78/film-simulator/internal/diagnostics"
	"github.com/lukkan78/film-simulator/internal/frame"
	"github.com/lukkan78/film-simulator/internal/imageio"
	"github.com/lukkan78/film-simulator/internal/pipeline"
)

// inMsg is any client message; Type selects which fields are read.
//
//	{"type":"image","data":"<base64 or data URL>"}
//	{"type":"process","profile":"portra400","settings":{...}}
//	{"type":"preload","profiles":["portra400","trix400"]}
//	{"type":"lut","profile":"house","data":"<.cube text>"}
type inMsg struct {
	Type     string           `json:"type"`
	Data     string           `json:"data,omitempty"`
	Profile  string           `json:"profile,omitempty"`
	Settings *adjust.Settings `json:"settings,omitempty"`
	Profiles []string         `json:"profiles,omitempty"`
}

type imageMsg struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type frameMsg struct {
	Type       string          `json:"type"`
	Generation uint64          `json:"generation"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Format     imageio.Format  `json:"format"`
	MIME       string          `json:"mime"`
	Data       string          `json:"data"`
	Reused     bool            `json:"reused,omitempty"`
	Timings    pipeline.Report `json:"timings"`
}

type ackMsg struct {
	Type     string   `json:"type"`
	Profiles []string `json:"profiles,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type errorMsg struct {
	Type       string `json:"type"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Generation uint64 `json:"generation,omitempty"`
}

// client is one /session connection. src is only touched by the read loop.
type client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
	sess *pipeline.Session
	src  *frame.Buffer
}

func (c *client) send(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_ = c.conn.WriteMessage(websocket.TextMessage, b)
}

func (c *client) sendError(code string, err error, gen uint64) {
	c.send(errorMsg{Type: "error", Code: code, Message: err.Error(), Generation: gen})
}

// HandleSessionWS serves one interactive editing session.
func (s *State) HandleSessionWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn.SetReadLimit(maxMessageBytes)
	ctx, cancel := context.WithCancel(context.Background())
	c := &client{conn: conn, sess: pipeline.NewSession(s.proc)}

	s.mu.Lock()
	s.sessions++
	s.mu.Unlock()
	defer func() {
		cancel()
		s.mu.Lock()
		s.sessions--
		s.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg inMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(diag.CodeBadMessage, err, 0)
			continue
		}
		s.dispatch(ctx, c, msg)
	}
}

func (s *State) dispatch(ctx context.Context, c *client, msg inMsg) {
	switch msg.Type {
	case "image":
		buf, err := decodeUpload(msg.Data)
		if err != nil {
			c.sendError(diag.CodeImageDecode, err, 0)
			s.pushDiag(diag.Diagnostic{Severity: diag.Warn, Code: diag.CodeImageDecode, Summary: "Upload could not be decoded", Detail: err.Error()})
			return
		}
		c.src = frame.Fit(buf, s.maxDim)
		c.sess.Reset()
		s.log.Info().Int("w", buf.Width).Int("h", buf.Height).Int("preview_w", c.src.Width).Int("preview_h", c.src.Height).Msg("image loaded")
		s.pushDiag(diag.Diagnostic{Severity: diag.Info, Code: diag.CodeImageLoaded, Summary: "Image loaded",
			Evidence: map[string]any{"width": buf.Width, "height": buf.Height}})
		c.send(imageMsg{Type: "image", Width: c.src.Width, Height: c.src.Height})

	case "process":
		if c.src == nil {
			c.sendError(diag.CodeBadMessage, errors.New("no image loaded"), 0)
			return
		}
		prof, err := s.proc.Catalog().Get(msg.Profile)
		if err != nil {
			c.sendError(diag.CodeProfileUnknown, err, 0)
			return
		}
		settings := s.defaults
		if msg.Settings != nil {
			settings = *msg.Settings
		}
		req := pipeline.Request{Source: c.src, Profile: prof, Settings: settings, Mode: pipeline.Preview}
		go s.process(ctx, c, req)

	case "preload":
		ids := msg.Profiles
		go func() {
			ack := ackMsg{Type: "preloaded", Profiles: ids}
			if err := s.proc.Preload(ctx, ids...); err != nil {
				ack.Error = err.Error()
				s.log.Warn().Err(err).Strs("profiles", ids).Msg("preload incomplete")
			}
			c.send(ack)
		}()

	case "lut":
		if err := s.proc.CacheLUT(msg.Profile, msg.Data); err != nil {
			c.sendError(diag.CodeLUTInvalid, err, 0)
			return
		}
		c.send(ackMsg{Type: "lut", Profiles: []string{msg.Profile}})

	default:
		c.sendError(diag.CodeBadMessage, fmt.Errorf("unknown message type %q", msg.Type), 0)
	}
}

func (s *State) process(ctx context.Context, c *client, req pipeline.Request) {
	res, err := c.sess.Submit(ctx, req)
	if errors.Is(err, pipeline.ErrSuperseded) {
		s.superseded.Add(1)
		return
	}
	if err != nil {
		s.failures.Add(1)
		d := diag.FromError(err)
		d.Evidence = merge(d.Evidence, map[string]any{"profile": req.Profile.ID, "generation": res.Generation})
		s.pushDiag(d)
		if ctx.Err() != nil || res.Buffer == nil {
			return
		}
	}
	if res.Report.LUTError != "" {
		s.pushDiag(diag.Diagnostic{Severity: diag.Warn, Code: diag.CodeLUTUnavailable, Summary: "Film LUT unavailable; showing adjustments only",
			Detail: res.Report.LUTError, Evidence: map[string]any{"profile": req.Profile.ID}})
	}
	// On failure the pipeline hands back the unprocessed image, which is still a valid frame.
	var b bytes.Buffer
	if err := imageio.Encode(&b, res.Buffer.Image(), s.format, s.quality); err != nil {
		c.sendError(diag.CodeFallback, err, res.Generation)
		return
	}
	s.frames.Add(1)
	c.send(frameMsg{
		Type:       "frame",
		Generation: res.Generation,
		Width:      res.Buffer.Width,
		Height:     res.Buffer.Height,
		Format:     s.format,
		MIME:       s.format.ContentType(),
		Data:       base64.StdEncoding.EncodeToString(b.Bytes()),
		Reused:     res.Reused,
		Timings:    res.Report,
	})
}

// decodeUpload accepts raw base64 or a data URL.
func decodeUpload(data string) (*frame.Buffer, error) {
	if i := strings.Index(data, ","); strings.HasPrefix(data, "data:") && i >= 0 {
		data = data[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	img, err := imageio.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return frame.FromImage(img), nil
}

func merge(a, b map[string]any) map[string]any {
	if a == nil {
		return b
	}
	for k, v := range b {
		a[k] = v
	}
	return a
}
