package mock

import (
	"context"

	"github.com/fwojciec/lnreader"
)

// Compile-time interface verification.
var (
	_ lnreader.Fetcher       = (*Fetcher)(nil)
	_ lnreader.Downloader    = (*Downloader)(nil)
	_ lnreader.Connectivity  = (*Connectivity)(nil)
	_ lnreader.DomainLimiter = (*DomainLimiter)(nil)
)

// Fetcher is a mock implementation of lnreader.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// Downloader is a mock implementation of lnreader.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string, dest string) (int64, error)
}

func (d *Downloader) Download(ctx context.Context, url string, dest string) (int64, error) {
	return d.DownloadFn(ctx, url, dest)
}

// Connectivity is a mock implementation of lnreader.Connectivity.
type Connectivity struct {
	OnlineFn func(ctx context.Context) bool
}

func (c *Connectivity) Online(ctx context.Context) bool {
	return c.OnlineFn(ctx)
}

// DomainLimiter is a mock implementation of lnreader.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
