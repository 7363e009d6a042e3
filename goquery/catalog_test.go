package goquery_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/lnreader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogHTML(items ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="p-Light_Novels"><h3>Light Novels</h3><div class="body"><ul>`)
	for _, item := range items {
		b.WriteString(item)
	}
	b.WriteString(`</ul></div></div><div id="p-Teaser"><ul><li><a href="/project/index.php?title=Teaser">Teaser</a></li></ul></div></body></html>`)
	return b.String()
}

func TestParser_ParseCatalog(t *testing.T) {
	t.Parallel()

	t.Run("parses single relative entry", func(t *testing.T) {
		t.Parallel()

		p := newTestParser(t)
		html := catalogHTML(`<li><a href="index.php?title=Example_Novel">Example Novel</a></li>`)

		result, err := p.ParseCatalog(context.Background(), html, nil)

		require.NoError(t, err)
		require.Len(t, result.Pages, 1)
		page := result.Pages[0]
		assert.Equal(t, "Example_Novel", page.Page)
		assert.Equal(t, "Example Novel", page.Title)
		assert.Equal(t, lnreader.PageTypeNovel, page.Type)
		assert.Equal(t, 0, page.Order)
		assert.Equal(t, lnreader.MainPage, page.Parent)
		assert.Equal(t, lnreader.Epoch, page.LastUpdate)
		assert.Equal(t, fixedNow, page.LastCheck)
		assert.Empty(t, result.Warnings)
	})

	t.Run("returns N entries ordered with unique keys", func(t *testing.T) {
		t.Parallel()

		p := newTestParser(t)
		var items []string
		for i := 0; i < 5; i++ {
			items = append(items, fmt.Sprintf(`<li><a href="/project/index.php?title=Novel_%d">Novel %d</a></li>`, i, i))
		}

		result, err := p.ParseCatalog(context.Background(), catalogHTML(items...), nil)

		require.NoError(t, err)
		require.Len(t, result.Pages, 5)
		seen := make(map[string]bool)
		for i, page := range result.Pages {
			assert.Equal(t, i, page.Order)
			assert.False(t, seen[page.Page], "duplicate key %s", page.Page)
			seen[page.Page] = true
		}
	})

	t.Run("strips absolute wiki prefix", func(t *testing.T) {
		t.Parallel()

		p := newTestParser(t)
		html := catalogHTML(`<li><a href="https://www.baka-tsuki.org/project/index.php?title=Absolute_Novel">Absolute</a></li>`)

		result, err := p.ParseCatalog(context.Background(), html, nil)

		require.NoError(t, err)
		require.Len(t, result.Pages, 1)
		assert.Equal(t, "Absolute_Novel", result.Pages[0].Page)
	})

	t.Run("skips entries without link and keeps order contiguous", func(t *testing.T) {
		t.Parallel()

		p := newTestParser(t)
		html := catalogHTML(
			`<li><a href="/project/index.php?title=First">First</a></li>`,
			`<li>Coming soon</li>`,
			`<li><a href="/project/index.php?title=Second">Second</a></li>`,
		)

		result, err := p.ParseCatalog(context.Background(), html, nil)

		require.NoError(t, err)
		require.Len(t, result.Pages, 2)
		assert.Equal(t, 1, result.Pages[1].Order)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, lnreader.EPARSE, lnreader.ErrorCode(result.Warnings[0].Err))
	})

	t.Run("enriches entries through lookup", func(t *testing.T) {
		t.Parallel()

		p := newTestParser(t)
		updated := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
		lookup := func(_ context.Context, page string) (*lnreader.Page, error) {
			return &lnreader.Page{Page: page, LastUpdate: updated, IsWatched: true}, nil
		}

		result, err := p.ParseCatalog(context.Background(), catalogHTML(`<li><a href="/project/index.php?title=Known">Known</a></li>`), lookup)

		require.NoError(t, err)
		require.Len(t, result.Pages, 1)
		assert.Equal(t, updated, result.Pages[0].LastUpdate)
		assert.True(t, result.Pages[0].IsWatched)
	})

	t.Run("keeps epoch when lookup fails without aborting siblings", func(t *testing.T) {
		t.Parallel()

		p := newTestParser(t)
		updated := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
		lookup := func(_ context.Context, page string) (*lnreader.Page, error) {
			if page == "Broken" {
				return nil, errors.New("connection reset")
			}
			return &lnreader.Page{Page: page, LastUpdate: updated}, nil
		}
		html := catalogHTML(
			`<li><a href="/project/index.php?title=Broken">Broken</a></li>`,
			`<li><a href="/project/index.php?title=Fine">Fine</a></li>`,
		)

		result, err := p.ParseCatalog(context.Background(), html, lookup)

		require.NoError(t, err)
		require.Len(t, result.Pages, 2)
		assert.Equal(t, lnreader.Epoch, result.Pages[0].LastUpdate)
		assert.Equal(t, updated, result.Pages[1].LastUpdate)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "Broken", result.Warnings[0].Page)
	})

	t.Run("returns empty result without catalog container", func(t *testing.T) {
		t.Parallel()

		p := newTestParser(t)

		result, err := p.ParseCatalog(context.Background(), "<html><body><p>maintenance</p></body></html>", nil)

		require.NoError(t, err)
		assert.Empty(t, result.Pages)
	})

	t.Run("returns EPARSE for empty document", func(t *testing.T) {
		t.Parallel()

		p := newTestParser(t)

		_, err := p.ParseCatalog(context.Background(), "  ", nil)

		require.Error(t, err)
		assert.Equal(t, lnreader.EPARSE, lnreader.ErrorCode(err))
	})
}
