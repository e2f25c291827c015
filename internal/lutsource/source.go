// Package lutsource fetches .cube text by reference from disk, HTTP or memory.
package lutsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var ErrNotFound = errors.New("lutsource: not found")

// maxLUTBytes bounds a single download; a 65³ table is about 7 MiB of text.
const maxLUTBytes = 64 << 20

// Source resolves a LUT reference to its .cube text.
type Source interface {
	Fetch(ctx context.Context, ref string) (string, error)
}

// Dir reads references relative to Root.
type Dir struct {
	Root string
}

func (d Dir) Fetch(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel := filepath.FromSlash(ref)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("lutsource: %q escapes %s: %w", ref, d.Root, ErrNotFound)
	}
	b, err := os.ReadFile(filepath.Join(d.Root, rel))
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("lutsource: %s: %w", ref, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// HTTP downloads references from BaseURL. Absolute URLs are fetched as is.
type HTTP struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTP(baseURL string, timeout time.Duration) *HTTP {
	return &HTTP{BaseURL: baseURL, Client: &http.Client{Timeout: timeout}}
}

func (h *HTTP) resolve(ref string) (string, error) {
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref, nil
	}
	if h.BaseURL == "" {
		return "", fmt.Errorf("lutsource: relative ref %q without base url", ref)
	}
	return url.JoinPath(h.BaseURL, ref)
}

func (h *HTTP) Fetch(ctx context.Context, ref string) (string, error) {
	u, err := h.resolve(ref)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("lutsource: get %s: %w", u, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("lutsource: %s: %w", u, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("lutsource: get %s: %s", u, resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxLUTBytes))
	if err != nil {
		return "", fmt.Errorf("lutsource: read %s: %w", u, err)
	}
	return string(b), nil
}

// Chain tries each source in order and returns the first success.
type Chain []Source

func (c Chain) Fetch(ctx context.Context, ref string) (string, error) {
	var errs []error
	for _, s := range c {
		text, err := s.Fetch(ctx, ref)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", fmt.Errorf("lutsource: %s: %w", ref, ErrNotFound)
	}
	return "", errors.Join(errs...)
}

// Static serves LUT text from memory.
type Static map[string]string

func (s Static) Fetch(ctx context.Context, ref string) (string, error) {
	if text, ok := s[strings.TrimPrefix(ref, "/")]; ok {
		return text, nil
	}
	return "", fmt.Errorf("lutsource: %s: %w", ref, ErrNotFound)
}
