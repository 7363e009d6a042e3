package lnreader

import "context"

// Fetcher retrieves raw documents (HTML pages or API XML) from URLs.
type Fetcher interface {
	// Fetch issues a GET for url and returns the response body.
	// Transport failures worth retrying are reported as ETRANSIENT.
	// The context controls cancellation; the fetcher owns the timeout.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases transport resources.
	Close() error
}

// Downloader retrieves binary assets to local files.
type Downloader interface {
	// Download writes the body served at url to dest, replacing any
	// existing file, and returns the number of bytes written.
	Download(ctx context.Context, url string, dest string) (int64, error)
}

// Connectivity reports whether the network is usable.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// AlwaysOnline is a Connectivity that always reports true.
type AlwaysOnline struct{}

// Online always returns true.
func (AlwaysOnline) Online(context.Context) bool { return true }

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
