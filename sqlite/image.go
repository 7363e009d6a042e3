package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fwojciec/lnreader"
)

// Ensure ImageService implements lnreader.ImageService.
var _ lnreader.ImageService = (*ImageService)(nil)

// ImageService implements lnreader.ImageService using SQLite.
type ImageService struct {
	db *DB
}

// NewImageService creates a new ImageService.
func NewImageService(db *DB) *ImageService {
	return &ImageService{db: db}
}

const imageColumns = `images.id, images.name, images.url, images.referer, images.local_path,
	images.last_update, images.last_check`

// FindImage looks an image up by URL, then by the page that referenced it.
func (s *ImageService) FindImage(ctx context.Context, urlOrReferer string) (*lnreader.Image, error) {
	var img *lnreader.Image
	err := s.db.session(ctx, func(q querier) error {
		var err error
		img, err = scanImage(q.QueryRowContext(ctx,
			`SELECT `+imageColumns+` FROM images WHERE url = ?`, urlOrReferer))
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		img, err = scanImage(q.QueryRowContext(ctx,
			`SELECT `+imageColumns+` FROM images WHERE referer = ? ORDER BY rowid ASC LIMIT 1`, urlOrReferer))
		if errors.Is(err, sql.ErrNoRows) {
			return lnreader.Errorf(lnreader.ENOTFOUND, "image %q not found", urlOrReferer)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// UpsertImage inserts or updates an image by URL and returns the stored row.
func (s *ImageService) UpsertImage(ctx context.Context, image *lnreader.Image) (*lnreader.Image, error) {
	if err := image.Validate(); err != nil {
		return nil, err
	}

	var stored *lnreader.Image
	err := s.db.tx(ctx, func(q querier) error {
		if _, err := upsertImage(ctx, q, image); err != nil {
			return err
		}
		var err error
		stored, err = scanImage(q.QueryRowContext(ctx,
			`SELECT `+imageColumns+` FROM images WHERE url = ?`, image.URL))
		return err
	})
	return stored, err
}

// upsertImage writes the image and returns its stored ID. An empty referer
// or local path never overwrites a known one.
func upsertImage(ctx context.Context, q querier, img *lnreader.Image) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `
		INSERT INTO images (id, name, url, referer, local_path, last_update, last_check)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			name = CASE WHEN excluded.name <> '' THEN excluded.name ELSE images.name END,
			referer = CASE WHEN excluded.referer <> '' THEN excluded.referer ELSE images.referer END,
			local_path = CASE WHEN excluded.local_path <> '' THEN excluded.local_path ELSE images.local_path END,
			last_update = excluded.last_update,
			last_check = excluded.last_check
		RETURNING id
	`, newID(), img.Name, img.URL, img.Referer, img.LocalPath,
		formatTime(img.LastUpdate), formatTime(img.LastCheck)).Scan(&id)
	return id, err
}

func scanImage(s scanner) (*lnreader.Image, error) {
	var img lnreader.Image
	var lastUpdate, lastCheck string

	if err := s.Scan(&img.ID, &img.Name, &img.URL, &img.Referer, &img.LocalPath,
		&lastUpdate, &lastCheck); err != nil {
		return nil, err
	}

	var err error
	if img.LastUpdate, err = parseTime(lastUpdate, "last_update"); err != nil {
		return nil, err
	}
	if img.LastCheck, err = parseTime(lastCheck, "last_check"); err != nil {
		return nil, err
	}
	return &img, nil
}
