package crawl

import "time"

// IsStale reports whether cached data last checked at lastCheck should be
// refreshed. Data that was never checked is always stale. Otherwise it is
// stale once older than interval, but only while the network is usable so
// that offline readers keep getting the cached copy.
func IsStale(lastCheck, now time.Time, interval time.Duration, online bool) bool {
	if lastCheck.IsZero() {
		return true
	}
	return now.Sub(lastCheck) > interval && online
}
