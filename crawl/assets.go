package crawl

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fwojciec/lnreader"
	"github.com/fwojciec/lnreader/fs"
)

// AssetDownloader saves binary assets under the image root, mirroring the
// remote URL path, with the image retry bound.
type AssetDownloader struct {
	Downloader lnreader.Downloader
	Retrier    *Retrier
	ImageRoot  string
	Retries    int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Download fetches url to its local path, overwriting any earlier copy.
// There is no freshness check; callers decide whether to download.
func (a *AssetDownloader) Download(ctx context.Context, url string, notify lnreader.ProgressFunc) (*lnreader.Image, error) {
	dest, err := fs.ImagePath(a.ImageRoot, url)
	if err != nil {
		return nil, err
	}

	r := a.Retrier
	if r == nil {
		r = &Retrier{}
	}
	err = r.WithNotify(notify).Do(ctx, url, a.Retries, func(ctx context.Context) error {
		_, err := a.Downloader.Download(ctx, url, dest)
		return err
	})
	if err != nil {
		return nil, err
	}

	now := a.now()
	return &lnreader.Image{
		Name:       filepath.Base(dest),
		URL:        url,
		LocalPath:  dest,
		LastUpdate: now,
		LastCheck:  now,
	}, nil
}

func (a *AssetDownloader) now() time.Time {
	if a.Now == nil {
		return time.Now().UTC()
	}
	return a.Now().UTC()
}
