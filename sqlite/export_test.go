package sqlite

import "context"

// ScanRow runs a single-row query under the database lock and scans the
// result into dest.
func (db *DB) ScanRow(ctx context.Context, query string, dest ...any) error {
	return db.session(ctx, func(q querier) error {
		return q.QueryRowContext(ctx, query).Scan(dest...)
	})
}
