package mock

import (
	"context"

	"github.com/fwojciec/lnreader"
)

// Compile-time interface verification.
var (
	_ lnreader.ContentService = (*ContentService)(nil)
	_ lnreader.ImageService   = (*ImageService)(nil)
)

// ContentService is a mock implementation of lnreader.ContentService.
type ContentService struct {
	FindContentFn        func(ctx context.Context, page string) (*lnreader.NovelContent, error)
	UpsertContentFn      func(ctx context.Context, content *lnreader.NovelContent) (*lnreader.NovelContent, error)
	UpdateReadingStateFn func(ctx context.Context, page string, x, y int, zoom float64) error
}

func (s *ContentService) FindContent(ctx context.Context, page string) (*lnreader.NovelContent, error) {
	return s.FindContentFn(ctx, page)
}

func (s *ContentService) UpsertContent(ctx context.Context, content *lnreader.NovelContent) (*lnreader.NovelContent, error) {
	return s.UpsertContentFn(ctx, content)
}

func (s *ContentService) UpdateReadingState(ctx context.Context, page string, x, y int, zoom float64) error {
	return s.UpdateReadingStateFn(ctx, page, x, y, zoom)
}

// ImageService is a mock implementation of lnreader.ImageService.
type ImageService struct {
	FindImageFn   func(ctx context.Context, urlOrReferer string) (*lnreader.Image, error)
	UpsertImageFn func(ctx context.Context, image *lnreader.Image) (*lnreader.Image, error)
}

func (s *ImageService) FindImage(ctx context.Context, urlOrReferer string) (*lnreader.Image, error) {
	return s.FindImageFn(ctx, urlOrReferer)
}

func (s *ImageService) UpsertImage(ctx context.Context, image *lnreader.Image) (*lnreader.Image, error) {
	return s.UpsertImageFn(ctx, image)
}
