package lnreader

import (
	"context"
	"time"
)

// PageType classifies a wiki page.
type PageType string

// PageType constants.
const (
	PageTypeNovel   PageType = "novel"
	PageTypeContent PageType = "content"
	PageTypeOther   PageType = "other"
)

// Page represents a wiki page mirrored locally: the catalog root, a novel,
// or a chapter.
type Page struct {
	ID             string    `json:"id"`
	Page           string    `json:"page"`
	Title          string    `json:"title"`
	Type           PageType  `json:"type"`
	Parent         string    `json:"parent"`
	Order          int       `json:"order"`
	LastUpdate     time.Time `json:"lastUpdate"`
	LastCheck      time.Time `json:"lastCheck"`
	IsWatched      bool      `json:"isWatched"`
	IsDownloaded   bool      `json:"isDownloaded"`
	IsFinishedRead bool      `json:"isFinishedRead"`
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.Page == "" {
		return Errorf(EINVALID, "page key required")
	}
	if p.Order < 0 {
		return Errorf(EINVALID, "page %q order must not be negative", p.Page)
	}
	switch p.Type {
	case PageTypeNovel, PageTypeContent, PageTypeOther:
	default:
		return Errorf(EINVALID, "page %q has unknown type %q", p.Page, p.Type)
	}
	return nil
}

// Clone returns an independent copy of the page.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	other := *p
	return &other
}

// PageInfo holds page metadata reported by the wiki info API.
type PageInfo struct {
	Title      string
	LastUpdate time.Time
}

// PageService represents a service for managing mirrored pages.
type PageService interface {
	// FindCatalog returns all novels listed under MainPage, ordered.
	FindCatalog(ctx context.Context) ([]*Page, error)

	// FindWatched returns watched novels listed under MainPage, ordered.
	FindWatched(ctx context.Context) ([]*Page, error)

	// FindPage retrieves a page by wiki key.
	// Returns ENOTFOUND if the page does not exist.
	FindPage(ctx context.Context, page string) (*Page, error)

	// FindChapters returns the pages whose parent is the given key, ordered.
	FindChapters(ctx context.Context, parent string) ([]*Page, error)

	// UpsertPage inserts the page if its key is absent, otherwise updates
	// every mutable field while preserving the stored ID.
	UpsertPage(ctx context.Context, page *Page) (*Page, error)

	// UpsertPages upserts a batch of pages atomically.
	UpsertPages(ctx context.Context, pages []*Page) error

	// DeletePage removes a page and its downloaded content.
	// Deleting a missing page is a no-op.
	DeletePage(ctx context.Context, page string) error

	// Reset removes every mirrored record.
	Reset(ctx context.Context) error
}
