package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lnreader"
)

// catalogSelector locates the novel list on the catalog page.
const catalogSelector = "#p-Light_Novels"

// ParseCatalog extracts the novels listed on the catalog page. Each entry
// starts at the epoch and is enriched through lookup when one is given.
// A failing lookup or a malformed entry is recorded as a warning and never
// aborts the rest of the batch.
func (p *Parser) ParseCatalog(ctx context.Context, html string, lookup lnreader.PageLookup) (*lnreader.CatalogResult, error) {
	doc, err := newDocument(html, "catalog")
	if err != nil {
		return nil, err
	}

	result := &lnreader.CatalogResult{}
	stage := doc.Find(catalogSelector).First()
	if stage.Length() == 0 {
		return result, nil
	}

	now := p.now()
	seen := make(map[string]bool)
	stage.Find("li").Each(func(_ int, li *goquery.Selection) {
		page, err := p.catalogEntry(li)
		if err != nil {
			result.Warnings = append(result.Warnings, lnreader.ParseWarning{
				Page: strings.TrimSpace(li.Text()),
				Err:  err,
			})
			return
		}
		if seen[page.Page] {
			result.Warnings = append(result.Warnings, lnreader.ParseWarning{
				Page: page.Page,
				Err:  lnreader.Errorf(lnreader.EPARSE, "duplicate catalog entry %q", page.Page),
			})
			return
		}
		seen[page.Page] = true

		page.Order = len(result.Pages)
		page.LastCheck = now
		if lookup != nil {
			p.enrich(ctx, page, lookup, result)
		}
		result.Pages = append(result.Pages, page)
	})

	return result, nil
}

func (p *Parser) catalogEntry(li *goquery.Selection) (*lnreader.Page, error) {
	link := li.Find("a").First()
	href, ok := link.Attr("href")
	if link.Length() == 0 || !ok || strings.TrimSpace(href) == "" {
		return nil, lnreader.Errorf(lnreader.EPARSE, "catalog entry has no link")
	}
	key := p.pageKey(href)
	if key == "" {
		return nil, lnreader.Errorf(lnreader.EPARSE, "catalog link %q has no page key", href)
	}
	return &lnreader.Page{
		Page:       key,
		Title:      strings.TrimSpace(link.Text()),
		Type:       lnreader.PageTypeNovel,
		Parent:     lnreader.MainPage,
		LastUpdate: lnreader.Epoch,
	}, nil
}

// enrich copies the last update time and reader flags of an already known
// page onto a freshly parsed catalog entry.
func (p *Parser) enrich(ctx context.Context, page *lnreader.Page, lookup lnreader.PageLookup, result *lnreader.CatalogResult) {
	known, err := lookup(ctx, page.Page)
	if err != nil {
		result.Warnings = append(result.Warnings, lnreader.ParseWarning{Page: page.Page, Err: err})
		return
	}
	if known == nil {
		return
	}
	if !known.LastUpdate.IsZero() {
		page.LastUpdate = known.LastUpdate
	}
	page.IsWatched = known.IsWatched
	page.IsFinishedRead = known.IsFinishedRead
	page.IsDownloaded = known.IsDownloaded
}
