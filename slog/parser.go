package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lnreader"
)

// Ensure LoggingParser implements lnreader.Parser.
var _ lnreader.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with debug logging.
type LoggingParser struct {
	next   lnreader.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next lnreader.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// ParseCatalog delegates to the wrapped parser and logs the number of
// novels found and entries skipped.
func (p *LoggingParser) ParseCatalog(ctx context.Context, html string, lookup lnreader.PageLookup) (result *lnreader.CatalogResult, err error) {
	defer func(begin time.Time) {
		var novels, skipped int
		if result != nil {
			novels = len(result.Pages)
			skipped = len(result.Warnings)
		}
		p.logger.Info("parse catalog",
			"novels", novels,
			"skipped", skipped,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseCatalog(ctx, html, lookup)
}

// ParseNovelDetails delegates to the wrapped parser and logs the number of
// books and chapters found.
func (p *LoggingParser) ParseNovelDetails(html string, page *lnreader.Page) (novel *lnreader.NovelCollection, err error) {
	defer func(begin time.Time) {
		var books, chapters int
		if novel != nil {
			books = len(novel.Books)
			chapters = len(novel.Chapters())
		}
		p.logger.Info("parse novel",
			"page", page.Page,
			"books", books,
			"chapters", chapters,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseNovelDetails(html, page)
}

// ParseChapterContent delegates to the wrapped parser and logs the number
// of images found.
func (p *LoggingParser) ParseChapterContent(body string, page *lnreader.Page) (content *lnreader.NovelContent, err error) {
	defer func(begin time.Time) {
		var images int
		if content != nil {
			images = len(content.Images)
		}
		p.logger.Info("parse chapter",
			"page", page.Page,
			"images", images,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.ParseChapterContent(body, page)
}

// ParseImagePage delegates to the wrapped parser.
func (p *LoggingParser) ParseImagePage(html string) (*lnreader.Image, error) {
	return p.next.ParseImagePage(html)
}
