package lnreader

import (
	"context"
	"time"
)

// NovelContent is the downloaded body of a chapter.
type NovelContent struct {
	ID          string    `json:"id"`
	Page        string    `json:"page"`
	PageModel   *Page     `json:"pageModel"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	Images      []*Image  `json:"images"`
	LastXScroll int       `json:"lastXScroll"`
	LastYScroll int       `json:"lastYScroll"`
	LastZoom    float64   `json:"lastZoom"`
	LastUpdate  time.Time `json:"lastUpdate"`
	LastCheck   time.Time `json:"lastCheck"`
}

// Validate returns an error if the content contains invalid fields.
func (c *NovelContent) Validate() error {
	if c.Page == "" {
		return Errorf(EINVALID, "content page required")
	}
	if c.PageModel == nil {
		return Errorf(EINVALID, "content %q page model required", c.Page)
	}
	return nil
}

// Image is an image referenced by a page. URL is the dedup key.
type Image struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Referer    string    `json:"referer"`
	LocalPath  string    `json:"localPath"`
	LastUpdate time.Time `json:"lastUpdate"`
	LastCheck  time.Time `json:"lastCheck"`
}

// Validate returns an error if the image contains invalid fields.
func (i *Image) Validate() error {
	if i.URL == "" {
		return Errorf(EINVALID, "image URL required")
	}
	return nil
}

// ContentService represents a service for managing downloaded chapters.
type ContentService interface {
	// FindContent retrieves downloaded content by chapter key.
	// Returns ENOTFOUND if the chapter has not been downloaded.
	FindContent(ctx context.Context, page string) (*NovelContent, error)

	// UpsertContent writes the content body, its images and the owning page
	// (flagged as downloaded) in one transaction.
	UpsertContent(ctx context.Context, content *NovelContent) (*NovelContent, error)

	// UpdateReadingState stores the scroll position and zoom of a chapter.
	// Returns ENOTFOUND if the chapter has not been downloaded.
	UpdateReadingState(ctx context.Context, page string, x, y int, zoom float64) error
}

// ImageService represents a service for managing downloaded images.
type ImageService interface {
	// FindImage looks an image up by URL, falling back to its referer.
	// Returns ENOTFOUND if neither matches.
	FindImage(ctx context.Context, urlOrReferer string) (*Image, error)

	// UpsertImage inserts or updates an image by URL.
	UpsertImage(ctx context.Context, image *Image) (*Image, error)
}
