package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fwojciec/lnreader"
)

// Ensure ContentService implements lnreader.ContentService.
var _ lnreader.ContentService = (*ContentService)(nil)

// ContentService implements lnreader.ContentService using SQLite.
type ContentService struct {
	db *DB
}

// NewContentService creates a new ContentService.
func NewContentService(db *DB) *ContentService {
	return &ContentService{db: db}
}

// FindContent retrieves downloaded content with its page and images.
func (s *ContentService) FindContent(ctx context.Context, page string) (*lnreader.NovelContent, error) {
	var content *lnreader.NovelContent
	err := s.db.session(ctx, func(q querier) error {
		var err error
		content, err = findContent(ctx, q, page)
		return err
	})
	return content, err
}

// UpsertContent writes the content body, its images and the owning page in
// one transaction. The owning page is flagged as downloaded.
func (s *ContentService) UpsertContent(ctx context.Context, content *lnreader.NovelContent) (*lnreader.NovelContent, error) {
	if err := content.Validate(); err != nil {
		return nil, err
	}
	for _, img := range content.Images {
		if err := img.Validate(); err != nil {
			return nil, err
		}
	}

	var stored *lnreader.NovelContent
	err := s.db.tx(ctx, func(q querier) error {
		owner := content.PageModel.Clone()
		owner.Page = content.Page
		owner.IsDownloaded = true
		if err := owner.Validate(); err != nil {
			return err
		}
		if _, err := upsertOwner(ctx, q, owner); err != nil {
			return err
		}

		var contentID string
		if err := q.QueryRowContext(ctx, `
			INSERT INTO contents (id, page, content, content_hash, last_x_scroll, last_y_scroll, last_zoom, last_update, last_check)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (page) DO UPDATE SET
				content = excluded.content,
				content_hash = excluded.content_hash,
				last_x_scroll = excluded.last_x_scroll,
				last_y_scroll = excluded.last_y_scroll,
				last_zoom = excluded.last_zoom,
				last_update = excluded.last_update,
				last_check = excluded.last_check
			RETURNING id
		`, newID(), content.Page, content.Content, content.ContentHash,
			content.LastXScroll, content.LastYScroll, content.LastZoom,
			formatTime(content.LastUpdate), formatTime(content.LastCheck)).Scan(&contentID); err != nil {
			return err
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM content_images WHERE content_id = ?`, contentID); err != nil {
			return err
		}
		for i, img := range content.Images {
			imageID, err := upsertImage(ctx, q, img)
			if err != nil {
				return err
			}
			if _, err := q.ExecContext(ctx, `
				INSERT INTO content_images (content_id, image_id, ord)
				VALUES (?, ?, ?)
				ON CONFLICT (content_id, image_id) DO NOTHING
			`, contentID, imageID, i); err != nil {
				return err
			}
		}

		var err error
		stored, err = findContent(ctx, q, content.Page)
		return err
	})
	return stored, err
}

// UpdateReadingState stores the scroll position and zoom of a chapter.
func (s *ContentService) UpdateReadingState(ctx context.Context, page string, x, y int, zoom float64) error {
	if zoom <= 0 {
		return lnreader.Errorf(lnreader.EINVALID, "zoom must be positive")
	}

	return s.db.session(ctx, func(q querier) error {
		result, err := q.ExecContext(ctx, `
			UPDATE contents SET last_x_scroll = ?, last_y_scroll = ?, last_zoom = ?
			WHERE page = ?
		`, x, y, zoom, page)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return lnreader.Errorf(lnreader.ENOTFOUND, "content %q not found", page)
		}
		return nil
	})
}

func findContent(ctx context.Context, q querier, page string) (*lnreader.NovelContent, error) {
	var c lnreader.NovelContent
	var lastUpdate, lastCheck string

	err := q.QueryRowContext(ctx, `
		SELECT id, page, content, content_hash, last_x_scroll, last_y_scroll, last_zoom, last_update, last_check
		FROM contents
		WHERE page = ?
	`, page).Scan(&c.ID, &c.Page, &c.Content, &c.ContentHash, &c.LastXScroll, &c.LastYScroll,
		&c.LastZoom, &lastUpdate, &lastCheck)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, lnreader.Errorf(lnreader.ENOTFOUND, "content %q not found", page)
	}
	if err != nil {
		return nil, err
	}

	if c.LastUpdate, err = parseTime(lastUpdate, "last_update"); err != nil {
		return nil, err
	}
	if c.LastCheck, err = parseTime(lastCheck, "last_check"); err != nil {
		return nil, err
	}

	if c.PageModel, err = findPage(ctx, q, page); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT `+imageColumns+` FROM images
		JOIN content_images ON content_images.image_id = images.id
		WHERE content_images.content_id = ?
		ORDER BY content_images.ord ASC
	`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		c.Images = append(c.Images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &c, nil
}
