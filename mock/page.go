package mock

import (
	"context"

	"github.com/fwojciec/lnreader"
)

var _ lnreader.PageService = (*PageService)(nil)

// PageService is a mock implementation of lnreader.PageService.
type PageService struct {
	FindCatalogFn  func(ctx context.Context) ([]*lnreader.Page, error)
	FindWatchedFn  func(ctx context.Context) ([]*lnreader.Page, error)
	FindPageFn     func(ctx context.Context, page string) (*lnreader.Page, error)
	FindChaptersFn func(ctx context.Context, parent string) ([]*lnreader.Page, error)
	UpsertPageFn   func(ctx context.Context, page *lnreader.Page) (*lnreader.Page, error)
	UpsertPagesFn  func(ctx context.Context, pages []*lnreader.Page) error
	DeletePageFn   func(ctx context.Context, page string) error
	ResetFn        func(ctx context.Context) error
}

func (s *PageService) FindCatalog(ctx context.Context) ([]*lnreader.Page, error) {
	return s.FindCatalogFn(ctx)
}

func (s *PageService) FindWatched(ctx context.Context) ([]*lnreader.Page, error) {
	return s.FindWatchedFn(ctx)
}

func (s *PageService) FindPage(ctx context.Context, page string) (*lnreader.Page, error) {
	return s.FindPageFn(ctx, page)
}

func (s *PageService) FindChapters(ctx context.Context, parent string) ([]*lnreader.Page, error) {
	return s.FindChaptersFn(ctx, parent)
}

func (s *PageService) UpsertPage(ctx context.Context, page *lnreader.Page) (*lnreader.Page, error) {
	return s.UpsertPageFn(ctx, page)
}

func (s *PageService) UpsertPages(ctx context.Context, pages []*lnreader.Page) error {
	return s.UpsertPagesFn(ctx, pages)
}

func (s *PageService) DeletePage(ctx context.Context, page string) error {
	return s.DeletePageFn(ctx, page)
}

func (s *PageService) Reset(ctx context.Context) error {
	return s.ResetFn(ctx)
}
