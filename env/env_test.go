package env_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/lnreader"
	"github.com/fwojciec/lnreader/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults under home", func(t *testing.T) {
		t.Parallel()

		cfg, err := env.LoadFrom(map[string]string{}, "/home/reader")
		require.NoError(t, err)

		assert.Equal(t, lnreader.DefaultBaseURL, cfg.BaseURL)
		assert.Equal(t, lnreader.DefaultTimeout, cfg.Timeout)
		assert.Equal(t, lnreader.DefaultPageRetries, cfg.PageRetries)
		assert.Equal(t, lnreader.DefaultImageRetries, cfg.ImageRetries)
		assert.Equal(t, lnreader.DefaultCheckIntervalDays, cfg.CheckIntervalDays)
		assert.Equal(t, lnreader.DefaultDivider, cfg.Divider)
		assert.Equal(t, filepath.Join("/home/reader", ".lnreader", "images"), cfg.ImageRoot)
		assert.Equal(t, filepath.Join("/home/reader", ".lnreader", "lnreader.db"), cfg.DBPath)
	})

	t.Run("applies overrides", func(t *testing.T) {
		t.Parallel()

		cfg, err := env.LoadFrom(map[string]string{
			"LNREADER_BASE_URL":            "http://localhost:8080/wiki",
			"LNREADER_TIMEOUT":             "5s",
			"LNREADER_PAGE_RETRIES":        "0",
			"LNREADER_IMAGE_RETRIES":       "5",
			"LNREADER_CHECK_INTERVAL_DAYS": "1",
			"LNREADER_IMAGE_ROOT":          "/data/images",
			"LNREADER_DIVIDER":             "|",
			"LNREADER_DB":                  "/data/test.db",
			"LNREADER_RPS":                 "0",
		}, "/home/reader")
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:8080/wiki", cfg.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, 0, cfg.PageRetries)
		assert.Equal(t, 5, cfg.ImageRetries)
		assert.Equal(t, 1, cfg.CheckIntervalDays)
		assert.Equal(t, "/data/images", cfg.ImageRoot)
		assert.Equal(t, "|", cfg.Divider)
		assert.Equal(t, "/data/test.db", cfg.DBPath)
		assert.Zero(t, cfg.RequestsPerSecond)
	})

	t.Run("ignores variables without prefix", func(t *testing.T) {
		t.Parallel()

		cfg, err := env.LoadFrom(map[string]string{"BASE_URL": "http://other"}, "/home/reader")
		require.NoError(t, err)
		assert.Equal(t, lnreader.DefaultBaseURL, cfg.BaseURL)
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		t.Parallel()

		_, err := env.LoadFrom(map[string]string{"LNREADER_PAGE_RETRIES": "many"}, "/home/reader")
		require.Error(t, err)
		assert.Equal(t, lnreader.EINVALID, lnreader.ErrorCode(err))
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		t.Parallel()

		_, err := env.LoadFrom(map[string]string{"LNREADER_BASE_URL": "ftp://example.com"}, "/home/reader")
		require.Error(t, err)
		assert.Equal(t, lnreader.EINVALID, lnreader.ErrorCode(err))
	})

	t.Run("rejects negative retries", func(t *testing.T) {
		t.Parallel()

		_, err := env.LoadFrom(map[string]string{"LNREADER_IMAGE_RETRIES": "-1"}, "/home/reader")
		require.Error(t, err)
		assert.Equal(t, lnreader.EINVALID, lnreader.ErrorCode(err))
	})
}
