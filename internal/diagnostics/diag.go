// Package diagnostics defines the structured records pushed to /diag clients.
package diagnostics

import (
	"errors"
	"time"

	"github.com/lukkan78/film-simulator/internal/imageio"
	"github.com/lukkan78/film-simulator/internal/lut"
	"github.com/lukkan78/film-simulator/internal/lutsource"
	"github.com/lukkan78/film-simulator/internal/pipeline"
	"github.com/lukkan78/film-simulator/internal/profile"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes.
const (
	CodeImageLoaded    = "IMAGE.LOADED"
	CodeImageDecode    = "IMAGE.DECODE"
	CodeProfileUnknown = "PROFILE.UNKNOWN"
	CodeLUTUnavailable = "LUT.UNAVAILABLE"
	CodeLUTInvalid     = "LUT.INVALID"
	CodeFallback       = "PIPELINE.FALLBACK"
	CodeBadMessage     = "SESSION.BAD_MESSAGE"
)

type Diagnostic struct {
	Time           time.Time      `json:"time"`
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// FromError classifies err into a diagnostic with causes and fixes filled in.
func FromError(err error) Diagnostic {
	d := Diagnostic{Time: time.Now(), Severity: Err, Code: CodeFallback, Summary: "Processing failed; original image returned", Detail: err.Error()}
	var se *pipeline.StageError
	if errors.As(err, &se) {
		d.Evidence = map[string]any{"stage": string(se.Stage)}
	}
	switch {
	case errors.Is(err, profile.ErrNotFound):
		d.Severity, d.Code, d.Summary = Warn, CodeProfileUnknown, "Unknown film profile"
		d.SuggestedFixes = []string{"List available profiles with GET /profiles"}
	case errors.Is(err, lut.ErrNoSize), errors.Is(err, lut.ErrSizeMismatch), errors.Is(err, lut.ErrInvalidTable):
		d.Code, d.Summary = CodeLUTInvalid, "LUT file is malformed"
		d.LikelyCauses = []string{"Truncated download", "LUT_3D_SIZE does not match the number of data rows"}
		d.SuggestedFixes = []string{"Check the file with `filmsim lut validate`"}
	case errors.Is(err, lutsource.ErrNotFound):
		d.Severity, d.Code, d.Summary = Warn, CodeLUTUnavailable, "LUT could not be found"
		d.LikelyCauses = []string{"luts.dir does not contain the file", "luts.base_url is wrong"}
	case errors.Is(err, imageio.ErrUnsupportedFormat):
		d.Code, d.Summary = CodeImageDecode, "Unsupported image format"
	}
	return d
}
