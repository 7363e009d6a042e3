package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fwojciec/lnreader"
)

// Ensure PageService implements lnreader.PageService.
var _ lnreader.PageService = (*PageService)(nil)

// PageService implements lnreader.PageService using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

const pageColumns = `id, page, title, type, parent, ord, last_update, last_check,
	is_watched, is_downloaded, is_finished_read`

// FindCatalog returns all novels listed under the main page, ordered.
func (s *PageService) FindCatalog(ctx context.Context) ([]*lnreader.Page, error) {
	var pages []*lnreader.Page
	err := s.db.session(ctx, func(q querier) error {
		var err error
		pages, err = queryPages(ctx, q, `
			SELECT `+pageColumns+` FROM pages
			WHERE parent = ? AND type = ?
			ORDER BY ord ASC, title ASC
		`, lnreader.MainPage, lnreader.PageTypeNovel)
		return err
	})
	return pages, err
}

// FindWatched returns watched novels listed under the main page, ordered.
func (s *PageService) FindWatched(ctx context.Context) ([]*lnreader.Page, error) {
	var pages []*lnreader.Page
	err := s.db.session(ctx, func(q querier) error {
		var err error
		pages, err = queryPages(ctx, q, `
			SELECT `+pageColumns+` FROM pages
			WHERE parent = ? AND type = ? AND is_watched = 1
			ORDER BY ord ASC, title ASC
		`, lnreader.MainPage, lnreader.PageTypeNovel)
		return err
	})
	return pages, err
}

// FindPage retrieves a page by wiki key.
func (s *PageService) FindPage(ctx context.Context, page string) (*lnreader.Page, error) {
	var p *lnreader.Page
	err := s.db.session(ctx, func(q querier) error {
		var err error
		p, err = findPage(ctx, q, page)
		return err
	})
	return p, err
}

// FindChapters returns the pages whose parent is the given key, ordered.
func (s *PageService) FindChapters(ctx context.Context, parent string) ([]*lnreader.Page, error) {
	var pages []*lnreader.Page
	err := s.db.session(ctx, func(q querier) error {
		var err error
		pages, err = findChildren(ctx, q, parent)
		return err
	})
	return pages, err
}

// UpsertPage inserts or updates a page by key and returns the stored row.
func (s *PageService) UpsertPage(ctx context.Context, page *lnreader.Page) (*lnreader.Page, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	var stored *lnreader.Page
	err := s.db.tx(ctx, func(q querier) error {
		if _, err := upsertPage(ctx, q, page); err != nil {
			return err
		}
		var err error
		stored, err = findPage(ctx, q, page.Page)
		return err
	})
	return stored, err
}

// UpsertPages upserts a batch of pages in one transaction.
func (s *PageService) UpsertPages(ctx context.Context, pages []*lnreader.Page) error {
	for _, p := range pages {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	return s.db.tx(ctx, func(q querier) error {
		for _, p := range pages {
			if _, err := upsertPage(ctx, q, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeletePage removes a page. Novel details and downloaded content owned by
// the page are removed by cascade.
func (s *PageService) DeletePage(ctx context.Context, page string) error {
	return s.db.session(ctx, func(q querier) error {
		_, err := q.ExecContext(ctx, `DELETE FROM pages WHERE page = ?`, page)
		return err
	})
}

// Reset removes every mirrored record.
func (s *PageService) Reset(ctx context.Context) error {
	return s.db.tx(ctx, func(q querier) error {
		for _, table := range []string{"content_images", "images", "contents", "books", "novels", "pages"} {
			if _, err := q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		return nil
	})
}

// upsertPage writes every mutable field of the page and returns its stored ID.
func upsertPage(ctx context.Context, q querier, p *lnreader.Page) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `
		INSERT INTO pages (`+pageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (page) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			parent = excluded.parent,
			ord = excluded.ord,
			last_update = excluded.last_update,
			last_check = excluded.last_check,
			is_watched = excluded.is_watched,
			is_downloaded = excluded.is_downloaded,
			is_finished_read = excluded.is_finished_read
		RETURNING id
	`, newID(), p.Page, p.Title, string(p.Type), p.Parent, p.Order,
		formatTime(p.LastUpdate), formatTime(p.LastCheck),
		p.IsWatched, p.IsDownloaded, p.IsFinishedRead).Scan(&id)
	return id, err
}

// upsertChapter writes the structural fields of a chapter page. Reading
// state and timestamps of an existing chapter are left untouched.
func upsertChapter(ctx context.Context, q querier, p *lnreader.Page) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `
		INSERT INTO pages (`+pageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (page) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			parent = excluded.parent,
			ord = excluded.ord
		RETURNING id
	`, newID(), p.Page, p.Title, string(p.Type), p.Parent, p.Order,
		formatTime(p.LastUpdate), formatTime(p.LastCheck),
		p.IsWatched, p.IsDownloaded, p.IsFinishedRead).Scan(&id)
	return id, err
}

// upsertOwner writes the page owning a novel or chapter body. An existing
// row keeps its watched and finished flags, which belong to the reader and
// may have changed while the body was fetched. The downloaded flag is never
// cleared.
func upsertOwner(ctx context.Context, q querier, p *lnreader.Page) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, `
		INSERT INTO pages (`+pageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (page) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			parent = excluded.parent,
			ord = excluded.ord,
			last_update = excluded.last_update,
			last_check = excluded.last_check,
			is_downloaded = MAX(pages.is_downloaded, excluded.is_downloaded)
		RETURNING id
	`, newID(), p.Page, p.Title, string(p.Type), p.Parent, p.Order,
		formatTime(p.LastUpdate), formatTime(p.LastCheck),
		p.IsWatched, p.IsDownloaded, p.IsFinishedRead).Scan(&id)
	return id, err
}

func findPage(ctx context.Context, q querier, page string) (*lnreader.Page, error) {
	row := q.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE page = ?`, page)
	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, lnreader.Errorf(lnreader.ENOTFOUND, "page %q not found", page)
	}
	return p, err
}

func findChildren(ctx context.Context, q querier, parent string) ([]*lnreader.Page, error) {
	return queryPages(ctx, q, `
		SELECT `+pageColumns+` FROM pages
		WHERE parent = ?
		ORDER BY ord ASC
	`, parent)
}

func queryPages(ctx context.Context, q querier, query string, args ...any) ([]*lnreader.Page, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*lnreader.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func scanPage(s scanner) (*lnreader.Page, error) {
	var p lnreader.Page
	var typ, lastUpdate, lastCheck string

	if err := s.Scan(&p.ID, &p.Page, &p.Title, &typ, &p.Parent, &p.Order,
		&lastUpdate, &lastCheck, &p.IsWatched, &p.IsDownloaded, &p.IsFinishedRead); err != nil {
		return nil, err
	}
	p.Type = lnreader.PageType(typ)

	var err error
	if p.LastUpdate, err = parseTime(lastUpdate, "last_update"); err != nil {
		return nil, err
	}
	if p.LastCheck, err = parseTime(lastCheck, "last_check"); err != nil {
		return nil, err
	}
	return &p, nil
}
