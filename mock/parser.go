package mock

import (
	"context"

	"github.com/fwojciec/lnreader"
)

// Compile-time interface verification.
var (
	_ lnreader.Parser    = (*Parser)(nil)
	_ lnreader.APIParser = (*APIParser)(nil)
)

// Parser is a mock implementation of lnreader.Parser.
type Parser struct {
	ParseCatalogFn        func(ctx context.Context, html string, lookup lnreader.PageLookup) (*lnreader.CatalogResult, error)
	ParseNovelDetailsFn   func(html string, page *lnreader.Page) (*lnreader.NovelCollection, error)
	ParseChapterContentFn func(body string, page *lnreader.Page) (*lnreader.NovelContent, error)
	ParseImagePageFn      func(html string) (*lnreader.Image, error)
}

func (p *Parser) ParseCatalog(ctx context.Context, html string, lookup lnreader.PageLookup) (*lnreader.CatalogResult, error) {
	return p.ParseCatalogFn(ctx, html, lookup)
}

func (p *Parser) ParseNovelDetails(html string, page *lnreader.Page) (*lnreader.NovelCollection, error) {
	return p.ParseNovelDetailsFn(html, page)
}

func (p *Parser) ParseChapterContent(body string, page *lnreader.Page) (*lnreader.NovelContent, error) {
	return p.ParseChapterContentFn(body, page)
}

func (p *Parser) ParseImagePage(html string) (*lnreader.Image, error) {
	return p.ParseImagePageFn(html)
}

// APIParser is a mock implementation of lnreader.APIParser.
type APIParser struct {
	ParsePageInfoFn    func(xml string) (*lnreader.PageInfo, error)
	ParseChapterBodyFn func(xml string) (string, error)
}

func (p *APIParser) ParsePageInfo(xml string) (*lnreader.PageInfo, error) {
	return p.ParsePageInfoFn(xml)
}

func (p *APIParser) ParseChapterBody(xml string) (string, error) {
	return p.ParseChapterBodyFn(xml)
}
