package sqlite

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// formatTime formats a timestamp for storage. Times are stored in UTC with
// nanosecond precision so they round-trip unchanged.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a stored timestamp.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseTime(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// newID returns a fresh record identifier.
func newID() string {
	return uuid.New().String()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
