package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lukkan78/film-simulator/internal/adjust"
	"github.com/lukkan78/film-simulator/internal/lutsource"
	"github.com/lukkan78/film-simulator/internal/profile"
)

type ServerCfg struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type PreviewCfg struct {
	MaxDim  int    `yaml:"max_dim"`
	Format  string `yaml:"format"`  // "jpeg" | "png"
	Quality int    `yaml:"quality"` // JPEG only
}

type ExportCfg struct {
	Format  string `yaml:"format"`
	Quality int    `yaml:"quality"`
}

type LUTCfg struct {
	Dir     string        `yaml:"dir,omitempty"`      // local .cube tree, tried first
	BaseURL string        `yaml:"base_url,omitempty"` // remote fallback
	Timeout time.Duration `yaml:"timeout"`
}

type Config struct {
	LogLevel string          `yaml:"log_level"`
	Server   ServerCfg       `yaml:"server"`
	Preview  PreviewCfg      `yaml:"preview"`
	Export   ExportCfg       `yaml:"export"`
	LUTs     LUTCfg          `yaml:"luts"`
	Defaults adjust.Settings `yaml:"defaults"`
	Profiles []profile.Spec  `yaml:"profiles,omitempty"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server:   ServerCfg{Addr: ":8080", ReadTimeout: 5 * time.Second, WriteTimeout: 10 * time.Second},
		Preview:  PreviewCfg{MaxDim: 800, Format: "jpeg", Quality: 85},
		Export:   ExportCfg{Format: "jpeg", Quality: 95},
		LUTs:     LUTCfg{BaseURL: profile.DefaultLUTBaseURL, Timeout: 30 * time.Second},
		Defaults: adjust.DefaultSettings(),
	}
}

// Load reads path over the defaults, so omitted keys keep their default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Catalog returns the built-in catalog extended with the configured profiles.
func (c *Config) Catalog() (*profile.Catalog, error) {
	if len(c.Profiles) == 0 {
		return profile.Default(), nil
	}
	extra, err := profile.FromSpecs(c.Profiles)
	if err != nil {
		return nil, err
	}
	return profile.Default().Merge(extra...)
}

// Source builds the LUT source chain: local directory first, then HTTP.
func (c *Config) Source() lutsource.Source {
	var chain lutsource.Chain
	if c.LUTs.Dir != "" {
		chain = append(chain, lutsource.Dir{Root: c.LUTs.Dir})
	}
	if c.LUTs.BaseURL != "" {
		chain = append(chain, lutsource.NewHTTP(c.LUTs.BaseURL, c.LUTs.Timeout))
	}
	if len(chain) == 1 {
		return chain[0]
	}
	return chain
}

// FirstNonZero returns v unless it is the zero value, else fallback.
func FirstNonZero[T comparable](v, fallback T) T {
	var zero T
	if v != zero {
		return v
	}
	return fallback
}
