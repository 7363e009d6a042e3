// Package env loads lnreader configuration from environment variables.
package env

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fwojciec/lnreader"
)

// Prefix is prepended to every variable name.
const Prefix = "LNREADER_"

// DefaultDir is the directory under the user's home holding the database
// and mirrored images.
const DefaultDir = ".lnreader"

// settings maps environment variables onto lnreader.Config.
type settings struct {
	BaseURL           string        `env:"BASE_URL"`
	Timeout           time.Duration `env:"TIMEOUT"`
	PageRetries       *int          `env:"PAGE_RETRIES"`
	ImageRetries      *int          `env:"IMAGE_RETRIES"`
	CheckIntervalDays *int          `env:"CHECK_INTERVAL_DAYS"`
	ImageRoot         string        `env:"IMAGE_ROOT"`
	Divider           string        `env:"DIVIDER"`
	DBPath            string        `env:"DB"`
	RequestsPerSecond *float64      `env:"RPS"`
}

// Load returns the default configuration overridden by any LNREADER_*
// variables set in the process environment.
func Load() (lnreader.Config, error) {
	return LoadFrom(env.ToMap(os.Environ()), userHome())
}

// LoadFrom is like Load but reads variables from vars and resolves default
// paths under home. An empty home places defaults in the working directory.
func LoadFrom(vars map[string]string, home string) (lnreader.Config, error) {
	var s settings
	if err := env.ParseWithOptions(&s, env.Options{
		Prefix:      Prefix,
		Environment: vars,
	}); err != nil {
		return lnreader.Config{}, lnreader.Wrapf(lnreader.EINVALID, err, "invalid environment")
	}

	cfg := lnreader.DefaultConfig()
	dir := filepath.Join(home, DefaultDir)
	cfg.ImageRoot = filepath.Join(dir, "images")
	cfg.DBPath = filepath.Join(dir, "lnreader.db")

	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	if s.Timeout != 0 {
		cfg.Timeout = s.Timeout
	}
	if s.PageRetries != nil {
		cfg.PageRetries = *s.PageRetries
	}
	if s.ImageRetries != nil {
		cfg.ImageRetries = *s.ImageRetries
	}
	if s.CheckIntervalDays != nil {
		cfg.CheckIntervalDays = *s.CheckIntervalDays
	}
	if s.ImageRoot != "" {
		cfg.ImageRoot = s.ImageRoot
	}
	if s.Divider != "" {
		cfg.Divider = s.Divider
	}
	if s.DBPath != "" {
		cfg.DBPath = s.DBPath
	}
	if s.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *s.RequestsPerSecond
	}

	if err := cfg.Validate(); err != nil {
		return lnreader.Config{}, err
	}
	return cfg, nil
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
