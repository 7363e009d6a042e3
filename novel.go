package lnreader

import (
	"context"
	"time"
)

// DefaultDivider separates the novel key and book title in a chapter's
// parent key.
const DefaultDivider = "%NOVEL_BOOK_DIVIDER%"

// ChapterParent returns the parent key shared by all chapters of a book.
func ChapterParent(novelPage, bookTitle, divider string) string {
	return novelPage + divider + bookTitle
}

// NovelCollection represents the detail page of a novel: synopsis, cover and
// the books with their chapters.
type NovelCollection struct {
	ID         string    `json:"id"`
	Page       string    `json:"page"`
	PageModel  *Page     `json:"pageModel"`
	Synopsis   string    `json:"synopsis"`
	CoverURL   string    `json:"coverUrl"`
	RedirectTo string    `json:"redirectTo"`
	Books      []*Book   `json:"books"`
	LastUpdate time.Time `json:"lastUpdate"`
	LastCheck  time.Time `json:"lastCheck"`
}

// Validate returns an error if the collection contains invalid fields.
// Book titles must be unique within a novel since a title derives the
// parent key of the book's chapters.
func (n *NovelCollection) Validate() error {
	if n.Page == "" {
		return Errorf(EINVALID, "novel page required")
	}
	if n.PageModel == nil {
		return Errorf(EINVALID, "novel %q page model required", n.Page)
	}
	seen := make(map[string]bool, len(n.Books))
	for _, b := range n.Books {
		if b == nil {
			return Errorf(EINVALID, "novel %q has a nil book", n.Page)
		}
		if seen[b.Title] {
			return Errorf(EINVALID, "novel %q lists book %q twice", n.Page, b.Title)
		}
		seen[b.Title] = true
	}
	return nil
}

// IsRedirect reports whether the fetched page was a wiki redirect.
func (n *NovelCollection) IsRedirect() bool {
	return n.RedirectTo != "" && n.RedirectTo != n.Page
}

// Chapters returns every chapter across all books in order.
func (n *NovelCollection) Chapters() []*Page {
	var chapters []*Page
	for _, b := range n.Books {
		chapters = append(chapters, b.Chapters...)
	}
	return chapters
}

// Book is a volume-level grouping of chapters within a novel.
type Book struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Order    int     `json:"order"`
	Chapters []*Page `json:"chapters"`
}

// Clone returns a deep copy of the book.
func (b *Book) Clone() *Book {
	other := &Book{ID: b.ID, Title: b.Title, Order: b.Order}
	for _, c := range b.Chapters {
		other.Chapters = append(other.Chapters, c.Clone())
	}
	return other
}

// NovelService represents a service for managing novel details.
type NovelService interface {
	// FindNovel retrieves the details of a novel by page key.
	// Returns ENOTFOUND if the novel has not been mirrored yet.
	FindNovel(ctx context.Context, page string) (*NovelCollection, error)

	// UpsertNovel writes the owning page, the novel and its books and
	// chapters in one transaction. Books no longer present are removed.
	UpsertNovel(ctx context.Context, novel *NovelCollection) (*NovelCollection, error)

	// DeleteBook removes a book and its chapters.
	// Deleting a missing book is a no-op.
	DeleteBook(ctx context.Context, id string) error
}
