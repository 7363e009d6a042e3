package lnreader

import "context"

// PageLookup resolves the stored or remote state of a page. The catalog
// parser uses it to enrich entries with their last update time.
type PageLookup func(ctx context.Context, page string) (*Page, error)

// ParseWarning records a per-item failure that did not abort a batch parse.
type ParseWarning struct {
	Page string
	Err  error
}

// CatalogResult holds the novels parsed from the catalog page together with
// the warnings collected for individual entries.
type CatalogResult struct {
	Pages    []*Page
	Warnings []ParseWarning
}

// Parser turns wiki HTML into domain records. Implementations are pure:
// they perform no I/O beyond the injected PageLookup.
type Parser interface {
	// ParseCatalog extracts the novels listed on the catalog page.
	ParseCatalog(ctx context.Context, html string, lookup PageLookup) (*CatalogResult, error)

	// ParseNovelDetails extracts synopsis, cover, redirect and the
	// validated books of a novel detail page.
	ParseNovelDetails(html string, page *Page) (*NovelCollection, error)

	// ParseChapterContent extracts images from a chapter body and rewrites
	// their sources to local files. The returned content carries a copy of
	// page flagged as downloaded.
	ParseChapterContent(body string, page *Page) (*NovelContent, error)

	// ParseImagePage extracts the full resolution image URL from an image
	// description page.
	ParseImagePage(html string) (*Image, error)
}

// APIParser extracts values from the wiki's XML API responses.
type APIParser interface {
	// ParsePageInfo returns the title and last touched time of a page.
	ParsePageInfo(xml string) (*PageInfo, error)

	// ParseChapterBody returns the rendered HTML of a parse response.
	ParseChapterBody(xml string) (string, error)
}
