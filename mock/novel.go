package mock

import (
	"context"

	"github.com/fwojciec/lnreader"
)

var _ lnreader.NovelService = (*NovelService)(nil)

// NovelService is a mock implementation of lnreader.NovelService.
type NovelService struct {
	FindNovelFn   func(ctx context.Context, page string) (*lnreader.NovelCollection, error)
	UpsertNovelFn func(ctx context.Context, novel *lnreader.NovelCollection) (*lnreader.NovelCollection, error)
	DeleteBookFn  func(ctx context.Context, id string) error
}

func (s *NovelService) FindNovel(ctx context.Context, page string) (*lnreader.NovelCollection, error) {
	return s.FindNovelFn(ctx, page)
}

func (s *NovelService) UpsertNovel(ctx context.Context, novel *lnreader.NovelCollection) (*lnreader.NovelCollection, error) {
	return s.UpsertNovelFn(ctx, novel)
}

func (s *NovelService) DeleteBook(ctx context.Context, id string) error {
	return s.DeleteBookFn(ctx, id)
}
