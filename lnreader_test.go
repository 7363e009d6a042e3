package lnreader_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/lnreader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := lnreader.Errorf(lnreader.ENOTFOUND, "page %q not found", "Toradora!")

	assert.Equal(t, lnreader.ENOTFOUND, lnreader.ErrorCode(err))
	assert.Equal(t, `page "Toradora!" not found`, lnreader.ErrorMessage(err))
}

func TestWrapf(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := fmt.Errorf("fetch: %w", lnreader.Wrapf(lnreader.ETRANSIENT, cause, "fetch failed"))

	assert.Equal(t, lnreader.ETRANSIENT, lnreader.ErrorCode(err))
	assert.Equal(t, "fetch failed", lnreader.ErrorMessage(err))
	assert.ErrorIs(t, err, cause)
	assert.True(t, lnreader.IsTransient(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, lnreader.ErrorCode(nil))
	assert.Empty(t, lnreader.ErrorMessage(nil))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, lnreader.EINTERNAL, lnreader.ErrorCode(err))
	assert.Equal(t, "Internal error.", lnreader.ErrorMessage(err))
	assert.False(t, lnreader.IsTransient(err))
}

func TestParseWikiLink(t *testing.T) {
	t.Parallel()

	const prefix = "/project/index.php?title="

	tests := []struct {
		name string
		href string
		want lnreader.WikiLink
	}{
		{"relative link", "/project/index.php?title=Toradora!", lnreader.WikiLink{Page: "Toradora!"}},
		{"absolute link with anchor", "https://www.baka-tsuki.org/project/index.php?title=Toradora!#Volume_1", lnreader.WikiLink{Page: "Toradora!"}},
		{"script relative link", "index.php?title=Toradora!:Volume1", lnreader.WikiLink{Page: "Toradora!:Volume1"}},
		{"file link", "/project/index.php?title=File:Toradora_v01_cover.jpg", lnreader.WikiLink{Page: "File:Toradora_v01_cover.jpg", IsFile: true}},
		{"image namespace link with anchor", "/project/index.php?title=Image:Cover.png#file", lnreader.WikiLink{Page: "Image:Cover.png", IsFile: true}},
		{"external link", "https://example.com/x", lnreader.WikiLink{Page: "https://example.com/x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, lnreader.ParseWikiLink(tt.href, prefix))
		})
	}
}

func TestIsRedlink(t *testing.T) {
	t.Parallel()

	assert.True(t, lnreader.IsRedlink("Toradora!:Volume9&action=edit&redlink=1"))
	assert.False(t, lnreader.IsRedlink("Toradora!:Volume1"))
	assert.True(t, lnreader.IsUserPage("User:Someone"))
	assert.False(t, lnreader.IsUserPage("Toradora!"))
}

func TestConfig(t *testing.T) {
	t.Parallel()

	valid := func() lnreader.Config {
		cfg := lnreader.DefaultConfig()
		cfg.ImageRoot = "/tmp/images"
		return cfg
	}

	t.Run("default config with image root is valid", func(t *testing.T) {
		t.Parallel()
		cfg := valid()
		require.NoError(t, cfg.Validate())
	})

	t.Run("derives wiki URLs from base URL", func(t *testing.T) {
		t.Parallel()
		cfg := valid()

		assert.Equal(t, "https://www.baka-tsuki.org", cfg.Origin())
		assert.Equal(t, "/project/index.php?title=", cfg.LinkPrefix())
		assert.Equal(t, "/project/images/", cfg.ImagesPrefix())
		assert.Equal(t, "https://www.baka-tsuki.org/project/index.php?title=Toradora!", cfg.PageURL("Toradora!"))
		assert.Equal(t, "https://www.baka-tsuki.org/project/index.php?title=File:Cover.jpg", cfg.FileURL("File:Cover.jpg"))
		assert.Contains(t, cfg.PageInfoURL("Toradora!"), "prop=info")
		assert.Contains(t, cfg.ParseURL("Toradora!"), "action=parse")
		assert.Equal(t, 7*24*time.Hour, cfg.CheckInterval())
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			modify func(*lnreader.Config)
		}{
			{"relative base URL", func(c *lnreader.Config) { c.BaseURL = "/project" }},
			{"zero timeout", func(c *lnreader.Config) { c.Timeout = 0 }},
			{"negative retries", func(c *lnreader.Config) { c.ImageRetries = -1 }},
			{"negative interval", func(c *lnreader.Config) { c.CheckIntervalDays = -1 }},
			{"missing image root", func(c *lnreader.Config) { c.ImageRoot = "" }},
			{"empty divider", func(c *lnreader.Config) { c.Divider = "" }},
			{"negative rate", func(c *lnreader.Config) { c.RequestsPerSecond = -1 }},
		}
		for _, tt := range tests {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			require.Error(t, err, tt.name)
			assert.Equal(t, lnreader.EINVALID, lnreader.ErrorCode(err), tt.name)
		}
	})
}

func TestPage_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&lnreader.Page{Page: "Toradora!", Type: lnreader.PageTypeNovel}).Validate())
	assert.Error(t, (&lnreader.Page{Type: lnreader.PageTypeNovel}).Validate())
	assert.Error(t, (&lnreader.Page{Page: "Toradora!", Type: lnreader.PageTypeNovel, Order: -1}).Validate())
	assert.Error(t, (&lnreader.Page{Page: "Toradora!", Type: "bogus"}).Validate())
}

func TestPage_Clone(t *testing.T) {
	t.Parallel()

	orig := &lnreader.Page{Page: "Toradora!", Title: "Toradora!"}
	clone := orig.Clone()
	clone.Title = "changed"

	assert.Equal(t, "Toradora!", orig.Title)
	assert.Nil(t, (*lnreader.Page)(nil).Clone())
}

func TestNovelCollection(t *testing.T) {
	t.Parallel()

	novel := &lnreader.NovelCollection{
		Page:      "Toradora!",
		PageModel: &lnreader.Page{Page: "Toradora!", Type: lnreader.PageTypeNovel},
		Books: []*lnreader.Book{
			{Title: "Volume 1", Chapters: []*lnreader.Page{{Page: "a"}, {Page: "b"}}},
			{Title: "Volume 2", Chapters: []*lnreader.Page{{Page: "c"}}},
		},
	}

	require.NoError(t, novel.Validate())
	assert.Len(t, novel.Chapters(), 3)

	dup := *novel
	dup.Books = append([]*lnreader.Book{{Title: "Volume 2"}}, novel.Books...)
	err := dup.Validate()
	require.Error(t, err)
	assert.Equal(t, lnreader.EINVALID, lnreader.ErrorCode(err))
	assert.False(t, novel.IsRedirect())

	novel.RedirectTo = "Toradora"
	assert.True(t, novel.IsRedirect())

	assert.Equal(t, "Toradora!%NOVEL_BOOK_DIVIDER%Volume 1", lnreader.ChapterParent("Toradora!", "Volume 1", lnreader.DefaultDivider))

	clone := novel.Books[0].Clone()
	clone.Chapters[0].Page = "changed"
	assert.Equal(t, "a", novel.Books[0].Chapters[0].Page)
}

func TestProgressFunc_Notify(t *testing.T) {
	t.Parallel()

	var got []string
	fn := lnreader.ProgressFunc(func(msg string) { got = append(got, msg) })
	fn.Notify("Downloading Toradora!")
	lnreader.ProgressFunc(nil).Notify("ignored")

	assert.Equal(t, []string{"Downloading Toradora!"}, got)
}
