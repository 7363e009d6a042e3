package crawl

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash returns the hex xxhash of a chapter body. A changed hash marks
// a chapter whose text was edited on the wiki.
func ComputeHash(content string) string {
	return strconv.FormatUint(xxhash.Sum64String(content), 16)
}

// FormatBytes renders a size for progress output, e.g. "1.5 KB".
func FormatBytes(n int64) string {
	if n < 1024 {
		return strconv.FormatInt(n, 10) + " B"
	}
	size := float64(n) / 1024
	unit := "KB"
	for _, next := range []string{"MB", "GB"} {
		if size < 1024 {
			break
		}
		size /= 1024
		unit = next
	}
	return strconv.FormatFloat(size, 'f', 1, 64) + " " + unit
}
