package lnreader

import (
	"net/url"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultBaseURL           = "https://www.baka-tsuki.org/project"
	DefaultTimeout           = 60 * time.Second
	DefaultPageRetries       = 3
	DefaultImageRetries      = 3
	DefaultCheckIntervalDays = 7
	DefaultRequestsPerSecond = 2.0
)

// Config holds the settings consumed by the mirror core.
type Config struct {
	// BaseURL is the wiki script root, e.g. https://host/project.
	BaseURL string

	// Timeout bounds every single fetch attempt.
	Timeout time.Duration

	// PageRetries and ImageRetries bound transient retries per asset class.
	PageRetries  int
	ImageRetries int

	// CheckIntervalDays is the staleness interval for cached catalogs.
	CheckIntervalDays int

	// ImageRoot is the local directory images are mirrored under.
	ImageRoot string

	// Divider joins a novel key and book title into a chapter parent key.
	Divider string

	// DBPath is the SQLite database location.
	DBPath string

	// RequestsPerSecond limits requests per host. Zero disables limiting.
	RequestsPerSecond float64
}

// DefaultConfig returns a Config with every field set to its default.
// ImageRoot and DBPath are left for the caller to fill.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		Timeout:           DefaultTimeout,
		PageRetries:       DefaultPageRetries,
		ImageRetries:      DefaultImageRetries,
		CheckIntervalDays: DefaultCheckIntervalDays,
		Divider:           DefaultDivider,
		RequestsPerSecond: DefaultRequestsPerSecond,
	}
}

// Validate returns an error if the configuration cannot be used.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "base URL %q must be an absolute http(s) URL", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	if c.PageRetries < 0 || c.ImageRetries < 0 {
		return Errorf(EINVALID, "retry limits must not be negative")
	}
	if c.CheckIntervalDays < 0 {
		return Errorf(EINVALID, "check interval must not be negative")
	}
	if c.ImageRoot == "" {
		return Errorf(EINVALID, "image root required")
	}
	if c.Divider == "" {
		return Errorf(EINVALID, "chapter divider required")
	}
	if c.RequestsPerSecond < 0 {
		return Errorf(EINVALID, "requests per second must not be negative")
	}
	return nil
}

// CheckInterval returns the staleness interval as a duration.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(c.CheckIntervalDays) * 24 * time.Hour
}

// Origin returns the scheme and host of BaseURL, e.g. https://host.
func (c *Config) Origin() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// LinkPrefix returns the href prefix the wiki uses for internal links,
// e.g. /project/index.php?title=.
func (c *Config) LinkPrefix() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "/index.php?title="
	}
	return strings.TrimSuffix(u.Path, "/") + "/index.php?title="
}

// PageURL returns the URL of the rendered wiki page.
func (c *Config) PageURL(page string) string {
	return c.base() + "/index.php?title=" + page
}

// PageInfoURL returns the info API URL reporting when page was last touched.
func (c *Config) PageInfoURL(page string) string {
	return c.base() + "/api.php?action=query&prop=info&format=xml&titles=" + page
}

// ParseURL returns the parse API URL wrapping the rendered body of page.
func (c *Config) ParseURL(page string) string {
	return c.base() + "/api.php?action=parse&format=xml&prop=text|images&page=" + page
}

// FileURL returns the URL of an image description page.
func (c *Config) FileURL(name string) string {
	return c.base() + "/index.php?title=File:" + strings.TrimPrefix(name, "File:")
}

// ImagesPrefix returns the path under which the wiki serves uploaded files,
// e.g. /project/images/.
func (c *Config) ImagesPrefix() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "/images/"
	}
	return strings.TrimSuffix(u.Path, "/") + "/images/"
}

func (c *Config) base() string {
	return strings.TrimSuffix(c.BaseURL, "/")
}
