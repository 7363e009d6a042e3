// Package http provides net/http implementations of lnreader.Fetcher and
// lnreader.Connectivity for the wiki's static pages and XML API.
package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	neturl "net/url"
	"syscall"
	"time"

	"github.com/fwojciec/lnreader"
)

// DefaultUserAgent identifies the mirror to the wiki.
const DefaultUserAgent = "lnreader/1.0 (+offline mirror)"

// Ensure Fetcher implements lnreader.Fetcher at compile time.
var _ lnreader.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves documents from URLs using plain HTTP requests.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for a single request.
// Defaults to lnreader.DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   lnreader.DefaultTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the body served at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", lnreader.Wrapf(lnreader.EINVALID, err, "invalid URL %q", url)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", ClassifyError(ctx, err, url)
	}
	defer resp.Body.Close()

	if err := CheckStatus(resp.StatusCode, url); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ClassifyError(ctx, err, url)
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// CheckStatus maps a non-200 status code to an application error.
func CheckStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return lnreader.Errorf(lnreader.ENOTFOUND, "HTTP %d for %s", code, url)
	case code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500:
		return lnreader.Errorf(lnreader.ETRANSIENT, "HTTP %d for %s", code, url)
	default:
		return lnreader.Errorf(lnreader.EINTERNAL, "HTTP %d for %s", code, url)
	}
}

// ClassifyError maps a transport error to an application error. Caller
// cancellation is returned as the context's error so it is never retried.
// Timeouts, dropped connections and network failures are transient. Any
// other failure, such as an unsupported URL scheme, is internal.
func ClassifyError(ctx context.Context, err error, url string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	// *url.Error satisfies net.Error itself, so look at its cause.
	cause := err
	var urlErr *neturl.Error
	if errors.As(err, &urlErr) {
		cause = urlErr.Err
	}
	var netErr net.Error
	switch {
	case errors.Is(cause, io.EOF), errors.Is(cause, io.ErrUnexpectedEOF), errors.Is(cause, syscall.ECONNRESET):
		return lnreader.Wrapf(lnreader.ETRANSIENT, err, "connection closed while fetching %s", url)
	case errors.Is(cause, context.DeadlineExceeded):
		return lnreader.Wrapf(lnreader.ETRANSIENT, err, "timeout fetching %s", url)
	case errors.As(cause, &netErr):
		return lnreader.Wrapf(lnreader.ETRANSIENT, err, "network error fetching %s", url)
	default:
		return lnreader.Wrapf(lnreader.EINTERNAL, err, "failed to fetch %s", url)
	}
}
