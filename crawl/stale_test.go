package crawl_test

import (
	"testing"
	"time"

	"github.com/fwojciec/lnreader/crawl"
	"github.com/stretchr/testify/assert"
)

func TestIsStale(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour

	tests := []struct {
		name      string
		lastCheck time.Time
		online    bool
		want      bool
	}{
		{"never checked", time.Time{}, false, true},
		{"checked 8 days ago while online", now.Add(-8 * 24 * time.Hour), true, true},
		{"checked 8 days ago while offline", now.Add(-8 * 24 * time.Hour), false, false},
		{"checked 1 day ago while online", now.Add(-24 * time.Hour), true, false},
		{"checked exactly at interval", now.Add(-week), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, crawl.IsStale(tt.lastCheck, now, week, tt.online))
		})
	}
}
