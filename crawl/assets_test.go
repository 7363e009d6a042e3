package crawl_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/lnreader"
	"github.com/fwojciec/lnreader/crawl"
	"github.com/fwojciec/lnreader/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetDownloader_Download(t *testing.T) {
	t.Parallel()

	const imageURL = "https://www.baka-tsuki.org/project/images/a/ab/Pic.jpg"

	t.Run("downloads to mirrored path", func(t *testing.T) {
		t.Parallel()

		var dest string
		a := &crawl.AssetDownloader{
			Downloader: &mock.Downloader{
				DownloadFn: func(ctx context.Context, url string, d string) (int64, error) {
					dest = d
					return 3, nil
				},
			},
			ImageRoot: "/data/images",
			Retries:   2,
			Now:       func() time.Time { return fixedNow },
		}

		image, err := a.Download(context.Background(), imageURL, nil)

		require.NoError(t, err)
		want := filepath.Join("/data/images", "project", "images", "a", "ab", "Pic.jpg")
		assert.Equal(t, want, dest)
		assert.Equal(t, want, image.LocalPath)
		assert.Equal(t, "Pic.jpg", image.Name)
		assert.Equal(t, imageURL, image.URL)
		assert.Equal(t, fixedNow, image.LastUpdate)
	})

	t.Run("retries with image bound", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var messages []string
		a := &crawl.AssetDownloader{
			Downloader: &mock.Downloader{
				DownloadFn: func(ctx context.Context, url string, d string) (int64, error) {
					calls++
					return 0, lnreader.Errorf(lnreader.ETRANSIENT, "reset")
				},
			},
			Retrier:   &crawl.Retrier{},
			ImageRoot: "/data/images",
			Retries:   2,
		}

		_, err := a.Download(context.Background(), imageURL, func(m string) { messages = append(messages, m) })

		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []string{
			"Retrying: " + imageURL + " (1 of 2)",
			"Retrying: " + imageURL + " (2 of 2)",
		}, messages)
	})

	t.Run("fails without network", func(t *testing.T) {
		t.Parallel()

		a := &crawl.AssetDownloader{
			Downloader: &mock.Downloader{},
			Retrier: &crawl.Retrier{Connectivity: &mock.Connectivity{
				OnlineFn: func(ctx context.Context) bool { return false },
			}},
			ImageRoot: "/data/images",
		}

		_, err := a.Download(context.Background(), imageURL, nil)

		require.Error(t, err)
		assert.Equal(t, lnreader.ENOCONN, lnreader.ErrorCode(err))
	})
}
