package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fwojciec/lnreader"
)

// Ensure NovelService implements lnreader.NovelService.
var _ lnreader.NovelService = (*NovelService)(nil)

// NovelService implements lnreader.NovelService using SQLite.
type NovelService struct {
	db *DB

	// Divider joins the novel key and book title into a chapter parent key.
	Divider string
}

// NewNovelService creates a new NovelService.
func NewNovelService(db *DB) *NovelService {
	return &NovelService{db: db, Divider: lnreader.DefaultDivider}
}

// FindNovel retrieves the details of a novel with its books and chapters.
func (s *NovelService) FindNovel(ctx context.Context, page string) (*lnreader.NovelCollection, error) {
	var novel *lnreader.NovelCollection
	err := s.db.session(ctx, func(q querier) error {
		var err error
		novel, err = findNovel(ctx, q, page)
		return err
	})
	return novel, err
}

// UpsertNovel writes the owning page, the novel row and its books and
// chapters in one transaction. The stored book and chapter set is replaced:
// books missing from the collection are removed with their chapters, and
// chapters a kept book no longer lists are removed. Reader flags of the
// owning page are preserved.
func (s *NovelService) UpsertNovel(ctx context.Context, novel *lnreader.NovelCollection) (*lnreader.NovelCollection, error) {
	if err := novel.Validate(); err != nil {
		return nil, err
	}

	var stored *lnreader.NovelCollection
	err := s.db.tx(ctx, func(q querier) error {
		owner := novel.PageModel.Clone()
		owner.Page = novel.Page
		if _, err := upsertOwner(ctx, q, owner); err != nil {
			return err
		}

		var novelID string
		if err := q.QueryRowContext(ctx, `
			INSERT INTO novels (id, page, synopsis, cover_url, redirect_to, last_update, last_check)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (page) DO UPDATE SET
				synopsis = excluded.synopsis,
				cover_url = excluded.cover_url,
				redirect_to = excluded.redirect_to,
				last_update = excluded.last_update,
				last_check = excluded.last_check
			RETURNING id
		`, newID(), novel.Page, novel.Synopsis, novel.CoverURL, novel.RedirectTo,
			formatTime(novel.LastUpdate), formatTime(novel.LastCheck)).Scan(&novelID); err != nil {
			return err
		}

		existing, err := findBookParents(ctx, q, novelID)
		if err != nil {
			return err
		}

		kept := make(map[string]bool, len(novel.Books))
		for i, b := range novel.Books {
			parent := lnreader.ChapterParent(novel.Page, b.Title, s.Divider)
			if _, err := q.ExecContext(ctx, `
				INSERT INTO books (id, novel_id, title, ord, chapter_parent)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (novel_id, title) DO UPDATE SET
					ord = excluded.ord,
					chapter_parent = excluded.chapter_parent
			`, newID(), novelID, b.Title, i, parent); err != nil {
				return err
			}
			kept[b.Title] = true

			keys := make([]string, 0, len(b.Chapters))
			for j, c := range b.Chapters {
				chapter := c.Clone()
				chapter.Parent = parent
				chapter.Order = j
				if chapter.Type == "" {
					chapter.Type = lnreader.PageTypeContent
				}
				if err := chapter.Validate(); err != nil {
					return err
				}
				if _, err := upsertChapter(ctx, q, chapter); err != nil {
					return err
				}
				keys = append(keys, chapter.Page)
			}
			if err := deleteUnlisted(ctx, q, parent, keys); err != nil {
				return err
			}
		}

		for title, parent := range existing {
			if kept[title] {
				continue
			}
			if _, err := q.ExecContext(ctx, `DELETE FROM pages WHERE parent = ?`, parent); err != nil {
				return err
			}
			if _, err := q.ExecContext(ctx, `DELETE FROM books WHERE novel_id = ? AND title = ?`, novelID, title); err != nil {
				return err
			}
		}

		stored, err = findNovel(ctx, q, novel.Page)
		return err
	})
	return stored, err
}

// DeleteBook removes a book and the chapter pages listed under it.
func (s *NovelService) DeleteBook(ctx context.Context, id string) error {
	return s.db.tx(ctx, func(q querier) error {
		var parent string
		err := q.QueryRowContext(ctx, `SELECT chapter_parent FROM books WHERE id = ?`, id).Scan(&parent)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM pages WHERE parent = ?`, parent); err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
		return err
	})
}

func findNovel(ctx context.Context, q querier, page string) (*lnreader.NovelCollection, error) {
	var n lnreader.NovelCollection
	var lastUpdate, lastCheck string

	err := q.QueryRowContext(ctx, `
		SELECT id, page, synopsis, cover_url, redirect_to, last_update, last_check
		FROM novels
		WHERE page = ?
	`, page).Scan(&n.ID, &n.Page, &n.Synopsis, &n.CoverURL, &n.RedirectTo, &lastUpdate, &lastCheck)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, lnreader.Errorf(lnreader.ENOTFOUND, "novel %q not found", page)
	}
	if err != nil {
		return nil, err
	}

	if n.LastUpdate, err = parseTime(lastUpdate, "last_update"); err != nil {
		return nil, err
	}
	if n.LastCheck, err = parseTime(lastCheck, "last_check"); err != nil {
		return nil, err
	}

	if n.PageModel, err = findPage(ctx, q, page); err != nil {
		return nil, err
	}

	type bookRow struct {
		book   *lnreader.Book
		parent string
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, title, ord, chapter_parent FROM books
		WHERE novel_id = ?
		ORDER BY ord ASC
	`, n.ID)
	if err != nil {
		return nil, err
	}
	var books []bookRow
	for rows.Next() {
		var b lnreader.Book
		var parent string
		if err := rows.Scan(&b.ID, &b.Title, &b.Order, &parent); err != nil {
			rows.Close()
			return nil, err
		}
		books = append(books, bookRow{book: &b, parent: parent})
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, br := range books {
		if br.book.Chapters, err = findChildren(ctx, q, br.parent); err != nil {
			return nil, err
		}
		n.Books = append(n.Books, br.book)
	}

	return &n, nil
}

// deleteUnlisted removes the pages under parent whose key is not in keys.
func deleteUnlisted(ctx context.Context, q querier, parent string, keys []string) error {
	query := `DELETE FROM pages WHERE parent = ?`
	args := []any{parent}
	if len(keys) > 0 {
		query += ` AND page NOT IN (?` + strings.Repeat(`, ?`, len(keys)-1) + `)`
		for _, k := range keys {
			args = append(args, k)
		}
	}
	_, err := q.ExecContext(ctx, query, args...)
	return err
}

// findBookParents maps each stored book title of a novel to its chapter
// parent key.
func findBookParents(ctx context.Context, q querier, novelID string) (map[string]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT title, chapter_parent FROM books WHERE novel_id = ?`, novelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parents := make(map[string]string)
	for rows.Next() {
		var title, parent string
		if err := rows.Scan(&title, &parent); err != nil {
			return nil, err
		}
		parents[title] = parent
	}
	return parents, rows.Err()
}
