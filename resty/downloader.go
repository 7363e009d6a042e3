// Package resty implements lnreader.Downloader on top of the resty HTTP
// client for fetching binary assets such as chapter illustrations.
package resty

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/lnreader"
	lnhttp "github.com/fwojciec/lnreader/http"
	"github.com/go-resty/resty/v2"
)

// Ensure Downloader implements lnreader.Downloader at compile time.
var _ lnreader.Downloader = (*Downloader)(nil)

// Downloader writes remote files to disk. It does not retry; retries are
// driven by the caller.
type Downloader struct {
	client *resty.Client
}

// Option configures a Downloader.
type Option func(*resty.Client)

// WithTimeout sets the timeout for a single download.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// WithReferer sets the Referer header sent with every download. Image
// hosts commonly reject hotlinked requests without one.
func WithReferer(referer string) Option {
	return func(c *resty.Client) {
		c.SetHeader("Referer", referer)
	}
}

// NewDownloader creates a Downloader.
func NewDownloader(opts ...Option) *Downloader {
	client := resty.New().
		SetLogger(discardLogger{}).
		SetRetryCount(0).
		SetTimeout(lnreader.DefaultTimeout).
		SetHeader("User-Agent", lnhttp.DefaultUserAgent)
	for _, opt := range opts {
		opt(client)
	}
	return &Downloader{client: client}
}

// Download fetches url into dest. The body is written to a uniquely named
// temporary file next to dest and renamed into place once complete, so an
// interrupted download never leaves a truncated file behind and concurrent
// downloads of the same file do not share a temporary file.
func (d *Downloader) Download(ctx context.Context, url string, dest string) (int64, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return 0, lnhttp.ClassifyError(ctx, err, url)
	}
	body := resp.RawBody()
	defer body.Close()

	if err := lnhttp.CheckStatus(resp.StatusCode(), url); err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, lnreader.Wrapf(lnreader.EINTERNAL, err, "failed to create directory for %s", dest)
	}

	part, n, err := writeTemp(dest, body)
	if err != nil {
		if part != "" {
			_ = os.Remove(part)
		}
		if lnreader.ErrorCode(err) == lnreader.EINTERNAL {
			return 0, err
		}
		return 0, lnhttp.ClassifyError(ctx, err, url)
	}

	if err := os.Rename(part, dest); err != nil {
		_ = os.Remove(part)
		return 0, lnreader.Wrapf(lnreader.EINTERNAL, err, "failed to move %s into place", dest)
	}
	return n, nil
}

// writeTemp copies r into a new temporary file beside dest and returns its
// path. File system failures are reported as EINTERNAL, read failures are
// returned as is.
func writeTemp(dest string, r io.Reader) (string, int64, error) {
	f, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.part")
	if err != nil {
		return "", 0, lnreader.Wrapf(lnreader.EINTERNAL, err, "failed to create temporary file for %s", dest)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return f.Name(), 0, lnreader.Wrapf(lnreader.EINTERNAL, err, "failed to set mode of %s", f.Name())
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		return f.Name(), 0, copyErr
	}
	if closeErr != nil {
		return f.Name(), 0, lnreader.Wrapf(lnreader.EINTERNAL, closeErr, "failed to close %s", f.Name())
	}
	return f.Name(), n, nil
}

// discardLogger silences resty's own logging; callers log through the slog
// decorators.
type discardLogger struct{}

func (discardLogger) Errorf(string, ...any) {}
func (discardLogger) Warnf(string, ...any)  {}
func (discardLogger) Debugf(string, ...any) {}
