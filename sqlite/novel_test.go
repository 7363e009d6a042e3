package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/fwojciec/lnreader"
	"github.com/fwojciec/lnreader/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNovel builds a novel with two chapters per book.
func testNovel(page string, books ...string) *lnreader.NovelCollection {
	novel := &lnreader.NovelCollection{
		Page:       page,
		PageModel:  novelPage(page, 0),
		Synopsis:   "A story.",
		CoverURL:   "https://www.baka-tsuki.org/project/images/cover.jpg",
		LastUpdate: touched,
		LastCheck:  checked,
	}
	for i, title := range books {
		b := &lnreader.Book{Title: title, Order: i}
		for j := range 2 {
			b.Chapters = append(b.Chapters, &lnreader.Page{
				Page:  fmt.Sprintf("%s:%s_Chapter%d", page, title, j+1),
				Title: fmt.Sprintf("Chapter %d", j+1),
				Type:  lnreader.PageTypeContent,
			})
		}
		novel.Books = append(novel.Books, b)
	}
	return novel
}

func TestNovelService_UpsertNovel(t *testing.T) {
	t.Parallel()

	t.Run("stores novel with books and chapters", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		ctx := context.Background()

		saved, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 1", "Volume 2"))
		require.NoError(t, err)

		assert.NotEmpty(t, saved.ID)
		assert.Equal(t, "A story.", saved.Synopsis)
		assert.Equal(t, "https://www.baka-tsuki.org/project/images/cover.jpg", saved.CoverURL)
		require.NotNil(t, saved.PageModel)
		assert.Equal(t, lnreader.PageTypeNovel, saved.PageModel.Type)
		assert.True(t, touched.Equal(saved.LastUpdate))

		require.Len(t, saved.Books, 2)
		assert.Equal(t, "Volume 1", saved.Books[0].Title)
		assert.Equal(t, "Volume 2", saved.Books[1].Title)
		assert.NotEmpty(t, saved.Books[0].ID)

		require.Len(t, saved.Books[1].Chapters, 2)
		ch := saved.Books[1].Chapters[0]
		assert.Equal(t, "Toradora!:Volume 2_Chapter1", ch.Page)
		assert.Equal(t, lnreader.ChapterParent("Toradora!", "Volume 2", lnreader.DefaultDivider), ch.Parent)
		assert.Equal(t, 0, ch.Order)
		assert.NotEmpty(t, ch.ID)
	})

	t.Run("removes books no longer listed", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		pages := sqlite.NewPageService(db)
		ctx := context.Background()

		_, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 1", "Volume 2"))
		require.NoError(t, err)

		saved, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 2"))
		require.NoError(t, err)

		require.Len(t, saved.Books, 1)
		assert.Equal(t, "Volume 2", saved.Books[0].Title)

		_, err = pages.FindPage(ctx, "Toradora!:Volume 1_Chapter1")
		assert.Equal(t, lnreader.ENOTFOUND, lnreader.ErrorCode(err))
	})

	t.Run("keeps IDs and reading state of existing chapters", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		contents := sqlite.NewContentService(db)
		ctx := context.Background()

		first, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 1"))
		require.NoError(t, err)

		_, err = contents.UpsertContent(ctx, chapterContent("Toradora!:Volume 1_Chapter1"))
		require.NoError(t, err)

		second, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 1"))
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Books[0].ID, second.Books[0].ID)
		assert.Equal(t, first.Books[0].Chapters[0].ID, second.Books[0].Chapters[0].ID)
		assert.True(t, second.Books[0].Chapters[0].IsDownloaded)
	})

	t.Run("removes chapters a kept book no longer lists", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		pages := sqlite.NewPageService(db)
		ctx := context.Background()

		_, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 1"))
		require.NoError(t, err)

		shorter := testNovel("Toradora!", "Volume 1")
		shorter.Books[0].Chapters = shorter.Books[0].Chapters[1:]
		saved, err := svc.UpsertNovel(ctx, shorter)
		require.NoError(t, err)

		require.Len(t, saved.Books, 1)
		require.Len(t, saved.Books[0].Chapters, 1)
		assert.Equal(t, "Toradora!:Volume 1_Chapter2", saved.Books[0].Chapters[0].Page)
		assert.Equal(t, 0, saved.Books[0].Chapters[0].Order)

		_, err = pages.FindPage(ctx, "Toradora!:Volume 1_Chapter1")
		assert.Equal(t, lnreader.ENOTFOUND, lnreader.ErrorCode(err))
	})

	t.Run("removes every chapter of a book listed empty", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		ctx := context.Background()

		_, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 1"))
		require.NoError(t, err)

		empty := testNovel("Toradora!", "Volume 1")
		empty.Books[0].Chapters = nil
		saved, err := svc.UpsertNovel(ctx, empty)
		require.NoError(t, err)

		require.Len(t, saved.Books, 1)
		assert.Empty(t, saved.Books[0].Chapters)
	})

	t.Run("rejects books sharing a title", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		ctx := context.Background()

		_, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 1", "Volume 2", "Volume 1"))
		require.Error(t, err)
		assert.Equal(t, lnreader.EINVALID, lnreader.ErrorCode(err))

		_, err = svc.FindNovel(ctx, "Toradora!")
		assert.Equal(t, lnreader.ENOTFOUND, lnreader.ErrorCode(err))
	})

	t.Run("keeps reader flags of the novel page", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		pages := sqlite.NewPageService(db)
		ctx := context.Background()

		stale := testNovel("Toradora!", "Volume 1")
		_, err := svc.UpsertNovel(ctx, stale)
		require.NoError(t, err)

		stored, err := pages.FindPage(ctx, "Toradora!")
		require.NoError(t, err)
		stored.IsWatched = true
		_, err = pages.UpsertPage(ctx, stored)
		require.NoError(t, err)

		stale.PageModel.Title = "Toradora! (updated)"
		saved, err := svc.UpsertNovel(ctx, stale)
		require.NoError(t, err)

		assert.True(t, saved.PageModel.IsWatched)
		assert.Equal(t, "Toradora! (updated)", saved.PageModel.Title)
	})

	t.Run("moves chapter between books", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		ctx := context.Background()

		_, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 1"))
		require.NoError(t, err)

		moved := testNovel("Toradora!", "Volume 2")
		moved.Books[0].Chapters = append(moved.Books[0].Chapters, &lnreader.Page{
			Page: "Toradora!:Volume 1_Chapter1",
			Type: lnreader.PageTypeContent,
		})
		saved, err := svc.UpsertNovel(ctx, moved)
		require.NoError(t, err)

		require.Len(t, saved.Books, 1)
		require.Len(t, saved.Books[0].Chapters, 3)
		assert.Equal(t, "Toradora!:Volume 1_Chapter1", saved.Books[0].Chapters[2].Page)
	})

	t.Run("uses configured divider", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		svc.Divider = "|"
		ctx := context.Background()

		saved, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 1"))
		require.NoError(t, err)

		assert.Equal(t, "Toradora!|Volume 1", saved.Books[0].Chapters[0].Parent)
	})

	t.Run("returns error for invalid novel", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)

		_, err := svc.UpsertNovel(context.Background(), &lnreader.NovelCollection{Page: "Toradora!"})
		require.Error(t, err)
		assert.Equal(t, lnreader.EINVALID, lnreader.ErrorCode(err))
	})

	t.Run("rolls back on invalid chapter", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		pages := sqlite.NewPageService(db)
		ctx := context.Background()

		novel := testNovel("Toradora!", "Volume 1")
		novel.Books[0].Chapters[1].Page = ""

		_, err := svc.UpsertNovel(ctx, novel)
		require.Error(t, err)
		assert.Equal(t, lnreader.EINVALID, lnreader.ErrorCode(err))

		_, err = pages.FindPage(ctx, "Toradora!")
		assert.Equal(t, lnreader.ENOTFOUND, lnreader.ErrorCode(err))
		_, err = svc.FindNovel(ctx, "Toradora!")
		assert.Equal(t, lnreader.ENOTFOUND, lnreader.ErrorCode(err))
	})
}

func TestNovelService_FindNovel(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for missing novel", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)

		_, err := svc.FindNovel(context.Background(), "Missing")
		require.Error(t, err)
		assert.Equal(t, lnreader.ENOTFOUND, lnreader.ErrorCode(err))
	})

	t.Run("catalog page alone is not a novel", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		ctx := context.Background()

		_, err := sqlite.NewPageService(db).UpsertPage(ctx, novelPage("Toradora!", 0))
		require.NoError(t, err)

		_, err = svc.FindNovel(ctx, "Toradora!")
		assert.Equal(t, lnreader.ENOTFOUND, lnreader.ErrorCode(err))
	})
}

func TestNovelService_DeleteBook(t *testing.T) {
	t.Parallel()

	t.Run("removes book and its chapters", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)
		pages := sqlite.NewPageService(db)
		ctx := context.Background()

		saved, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 1", "Volume 2"))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteBook(ctx, saved.Books[0].ID))

		found, err := svc.FindNovel(ctx, "Toradora!")
		require.NoError(t, err)
		require.Len(t, found.Books, 1)
		assert.Equal(t, "Volume 2", found.Books[0].Title)

		_, err = pages.FindPage(ctx, "Toradora!:Volume 1_Chapter2")
		assert.Equal(t, lnreader.ENOTFOUND, lnreader.ErrorCode(err))
		_, err = pages.FindPage(ctx, "Toradora!:Volume 2_Chapter2")
		assert.NoError(t, err)
	})

	t.Run("missing book is a no-op", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewNovelService(db)

		require.NoError(t, svc.DeleteBook(context.Background(), "missing"))
	})
}

func TestNovelService_DeleteNovelPage(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	svc := sqlite.NewNovelService(db)
	ctx := context.Background()

	_, err := svc.UpsertNovel(ctx, testNovel("Toradora!", "Volume 1"))
	require.NoError(t, err)

	require.NoError(t, sqlite.NewPageService(db).DeletePage(ctx, "Toradora!"))

	_, err = svc.FindNovel(ctx, "Toradora!")
	assert.Equal(t, lnreader.ENOTFOUND, lnreader.ErrorCode(err))

	var books int
	require.NoError(t, db.ScanRow(ctx, "SELECT COUNT(*) FROM books", &books))
	assert.Zero(t, books)
}
