// Package crawl keeps the local mirror in sync with the wiki. It decides
// when cached records are served and when they are refreshed, and drives
// fetching, parsing, asset downloads and persistence in that order.
package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fwojciec/lnreader"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the default number of chapters downloaded concurrently
// by DownloadNovel.
const DefaultWorkers = 4

// Service coordinates the use cases of the mirror: catalog, novel details,
// chapter content and images. Each use case serves the cached record when
// it is fresh and otherwise fetches, parses and persists a new one.
type Service struct {
	Pages    lnreader.PageService
	Novels   lnreader.NovelService
	Contents lnreader.ContentService
	Images   lnreader.ImageService

	Parser  lnreader.Parser
	API     lnreader.APIParser
	Fetcher lnreader.Fetcher
	Assets  *AssetDownloader
	Retrier *Retrier

	// Connectivity gates catalog refreshes. Nil counts as online.
	Connectivity lnreader.Connectivity

	Config lnreader.Config
	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DownloadResult summarizes a DownloadNovel run.
type DownloadResult struct {
	Total      int
	Downloaded int
	Failed     int
}

// Catalog returns the novel list. The stored list is served unless the
// catalog root was never checked, or was last checked longer ago than the
// configured interval while the network is usable. A failed refresh leaves
// the stored list untouched.
func (s *Service) Catalog(ctx context.Context, notify lnreader.ProgressFunc) ([]*lnreader.Page, error) {
	main, err := s.Pages.FindPage(ctx, lnreader.MainPage)
	if err != nil && lnreader.ErrorCode(err) != lnreader.ENOTFOUND {
		return nil, err
	}

	var lastCheck time.Time
	if main != nil {
		lastCheck = main.LastCheck
	}
	if !IsStale(lastCheck, s.now(), s.Config.CheckInterval(), s.online(ctx)) {
		return s.Pages.FindCatalog(ctx)
	}
	return s.RefreshCatalog(ctx, notify)
}

// RefreshCatalog fetches the novel list from the wiki and stores it.
func (s *Service) RefreshCatalog(ctx context.Context, notify lnreader.ProgressFunc) ([]*lnreader.Page, error) {
	notify.Notify("Downloading novel list...")
	r := s.retrier(notify)

	result, err := FetchAndParse(ctx, r, s.Config.PageURL(lnreader.MainPage), s.Fetcher.Fetch,
		func(html string) (*lnreader.CatalogResult, error) {
			return s.Parser.ParseCatalog(ctx, html, s.lookup(r))
		}, s.Config.PageRetries)
	if err != nil {
		return nil, err
	}
	for _, w := range result.Warnings {
		s.logger().Warn("catalog entry", "page", w.Page, "err", w.Err)
	}

	now := s.now()
	main := &lnreader.Page{
		Page:       lnreader.MainPage,
		Title:      strings.ReplaceAll(lnreader.MainPage, "_", " "),
		Type:       lnreader.PageTypeOther,
		LastUpdate: lnreader.Epoch,
		LastCheck:  now,
	}
	if info, err := s.pageInfo(ctx, r, lnreader.MainPage); err != nil {
		s.logger().Warn("catalog page info", "page", lnreader.MainPage, "err", err)
	} else {
		main.Title = info.Title
		main.LastUpdate = info.LastUpdate
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.Pages.UpsertPages(ctx, append([]*lnreader.Page{main}, result.Pages...)); err != nil {
		return nil, err
	}

	pages, err := s.Pages.FindCatalog(ctx)
	if err != nil {
		return nil, err
	}
	notify.Notify(fmt.Sprintf("Found: %d novels.", len(pages)))
	return pages, nil
}

// Watched returns the watched novels of the catalog.
func (s *Service) Watched(ctx context.Context) ([]*lnreader.Page, error) {
	return s.Pages.FindWatched(ctx)
}

// Watch sets the watched flag of a stored page.
func (s *Service) Watch(ctx context.Context, page string, watched bool) (*lnreader.Page, error) {
	p, err := s.Pages.FindPage(ctx, page)
	if err != nil {
		return nil, err
	}
	p.IsWatched = watched
	return s.Pages.UpsertPage(ctx, p)
}

// Page returns the stored page, or its metadata from the info API when it
// is not stored yet. Pages resolved remotely are not persisted.
func (s *Service) Page(ctx context.Context, page string, notify lnreader.ProgressFunc) (*lnreader.Page, error) {
	p, err := s.Pages.FindPage(ctx, page)
	if err == nil {
		return p, nil
	} else if lnreader.ErrorCode(err) != lnreader.ENOTFOUND {
		return nil, err
	}

	info, err := s.pageInfo(ctx, s.retrier(notify), page)
	if err != nil {
		return nil, err
	}
	return &lnreader.Page{
		Page:       page,
		Title:      info.Title,
		Type:       lnreader.PageTypeOther,
		LastUpdate: info.LastUpdate,
		LastCheck:  s.now(),
	}, nil
}

// NovelDetails returns the stored details of a novel, fetching them when
// the novel has not been mirrored yet.
func (s *Service) NovelDetails(ctx context.Context, page string, notify lnreader.ProgressFunc) (*lnreader.NovelCollection, error) {
	novel, err := s.Novels.FindNovel(ctx, page)
	if err == nil {
		return novel, nil
	} else if lnreader.ErrorCode(err) != lnreader.ENOTFOUND {
		return nil, err
	}
	return s.RefreshNovelDetails(ctx, page, notify)
}

// RefreshNovelDetails fetches the details of a novel from the wiki and
// stores them. Failing to read the page timestamps falls back to the epoch.
// The cover is downloaded on a best-effort basis.
func (s *Service) RefreshNovelDetails(ctx context.Context, page string, notify lnreader.ProgressFunc) (*lnreader.NovelCollection, error) {
	r := s.retrier(notify)

	owner, err := s.storedOrNew(ctx, page, lnreader.PageTypeNovel)
	if err != nil {
		return nil, err
	}
	owner.Parent = lnreader.MainPage
	owner.Type = lnreader.PageTypeNovel

	novel, err := FetchAndParse(ctx, r, s.Config.PageURL(page), s.Fetcher.Fetch,
		func(html string) (*lnreader.NovelCollection, error) {
			return s.Parser.ParseNovelDetails(html, owner)
		}, s.Config.PageRetries)
	if err != nil {
		return nil, err
	}
	if novel.IsRedirect() {
		s.logger().Info("novel redirect", "page", page, "target", novel.RedirectTo)
	}

	now := s.now()
	lastUpdate := lnreader.Epoch
	if info, err := s.pageInfo(ctx, r, page); err != nil {
		s.logger().Warn("novel page info", "page", page, "err", err)
	} else {
		lastUpdate = info.LastUpdate
	}
	novel.PageModel.LastUpdate = lastUpdate
	novel.PageModel.LastCheck = now
	novel.LastUpdate = lastUpdate
	novel.LastCheck = now

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	saved, err := s.Novels.UpsertNovel(ctx, novel)
	if err != nil {
		return nil, err
	}

	if saved.CoverURL != "" {
		if _, err := s.downloadImage(ctx, saved.CoverURL, page, notify); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger().Warn("cover download", "page", page, "url", saved.CoverURL, "err", err)
		}
	}
	return saved, nil
}

// ChapterContent returns the stored content of a chapter, fetching it when
// the chapter has not been downloaded yet.
func (s *Service) ChapterContent(ctx context.Context, page string, notify lnreader.ProgressFunc) (*lnreader.NovelContent, error) {
	content, err := s.Contents.FindContent(ctx, page)
	if err == nil {
		return content, nil
	} else if lnreader.ErrorCode(err) != lnreader.ENOTFOUND {
		return nil, err
	}
	return s.RefreshChapterContent(ctx, page, notify)
}

// RefreshChapterContent fetches a chapter body through the parse API,
// downloads its images one after another and stores the result. A failed
// image is logged and skipped.
func (s *Service) RefreshChapterContent(ctx context.Context, page string, notify lnreader.ProgressFunc) (*lnreader.NovelContent, error) {
	r := s.retrier(notify)

	owner, err := s.storedOrNew(ctx, page, lnreader.PageTypeContent)
	if err != nil {
		return nil, err
	}
	title := owner.Title

	content, err := FetchAndParse(ctx, r, s.Config.ParseURL(page), s.Fetcher.Fetch,
		func(xml string) (*lnreader.NovelContent, error) {
			body, err := s.API.ParseChapterBody(xml)
			if err != nil {
				return nil, err
			}
			return s.Parser.ParseChapterContent(body, owner)
		}, s.Config.PageRetries)
	if err != nil {
		return nil, err
	}

	for _, img := range content.Images {
		notify.Notify("Start downloading: " + img.URL)
		saved, err := s.downloadImage(ctx, img.URL, page, notify)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger().Warn("image download", "page", page, "url", img.URL, "err", err)
			continue
		}
		img.LocalPath = saved.LocalPath
		img.LastUpdate = saved.LastUpdate
		img.LastCheck = saved.LastCheck
	}

	now := s.now()
	lastUpdate := lnreader.Epoch
	if info, err := s.pageInfo(ctx, r, page); err != nil {
		s.logger().Warn("chapter page info", "page", page, "err", err)
	} else {
		lastUpdate = info.LastUpdate
	}
	content.PageModel.Title = title
	content.PageModel.LastUpdate = lastUpdate
	content.PageModel.LastCheck = now
	content.LastUpdate = lastUpdate
	content.LastCheck = now
	content.ContentHash = ComputeHash(content.Content)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Contents.UpsertContent(ctx, content)
}

// NextChapter returns the stored chapter following chapter within its
// book. Returns ENOTFOUND for the last chapter or a page without a book.
func (s *Service) NextChapter(ctx context.Context, chapter *lnreader.Page) (*lnreader.Page, error) {
	if chapter.Parent == "" || chapter.Parent == lnreader.MainPage {
		return nil, lnreader.Errorf(lnreader.ENOTFOUND, "page %q is not a chapter", chapter.Page)
	}
	siblings, err := s.Pages.FindChapters(ctx, chapter.Parent)
	if err != nil {
		return nil, err
	}
	for _, p := range siblings {
		if p.Order > chapter.Order {
			return p, nil
		}
	}
	return nil, lnreader.Errorf(lnreader.ENOTFOUND, "no chapter after %q", chapter.Page)
}

// Image returns a stored image looked up by URL or referer. Otherwise
// urlOrKey is resolved to an image description page, whose full resolution
// file is downloaded and stored with urlOrKey as referer.
func (s *Service) Image(ctx context.Context, urlOrKey string, notify lnreader.ProgressFunc) (*lnreader.Image, error) {
	image, err := s.Images.FindImage(ctx, urlOrKey)
	if err == nil {
		return image, nil
	} else if lnreader.ErrorCode(err) != lnreader.ENOTFOUND {
		return nil, err
	}

	url := s.imagePageURL(urlOrKey)
	notify.Notify("Parsing File Page: " + url)

	ref, err := FetchAndParse(ctx, s.retrier(notify), url, s.Fetcher.Fetch, s.Parser.ParseImagePage, s.Config.ImageRetries)
	if err != nil {
		return nil, err
	}
	return s.downloadImage(ctx, ref.URL, urlOrKey, notify)
}

// DownloadNovel downloads every chapter of a novel that is not stored yet,
// using up to workers concurrent chapter downloads. A failed chapter is
// counted and logged without stopping the others.
func (s *Service) DownloadNovel(ctx context.Context, page string, workers int, notify lnreader.ProgressFunc) (*DownloadResult, error) {
	novel, err := s.NovelDetails(ctx, page, notify)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	chapters := novel.Chapters()
	result := &DownloadResult{Total: len(chapters)}
	var downloaded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, c := range chapters {
		g.Go(func() error {
			if _, err := s.ChapterContent(gctx, c.Page, notify); err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failed.Add(1)
				s.logger().Warn("chapter download", "page", c.Page, "err", err)
			} else {
				downloaded.Add(1)
			}
			done := downloaded.Load() + failed.Load()
			notify.Notify(fmt.Sprintf("Downloaded: %d of %d chapters.", done, result.Total))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result.Downloaded = int(downloaded.Load())
	result.Failed = int(failed.Load())
	return result, nil
}

// downloadImage downloads url and stores it with the given referer.
func (s *Service) downloadImage(ctx context.Context, url, referer string, notify lnreader.ProgressFunc) (*lnreader.Image, error) {
	image, err := s.Assets.Download(ctx, url, notify)
	if err != nil {
		return nil, err
	}
	image.Referer = referer
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Images.UpsertImage(ctx, image)
}

// lookup resolves catalog entries from the store first and the info API
// second.
func (s *Service) lookup(r *Retrier) lnreader.PageLookup {
	return func(ctx context.Context, page string) (*lnreader.Page, error) {
		p, err := s.Pages.FindPage(ctx, page)
		if err == nil {
			return p, nil
		} else if lnreader.ErrorCode(err) != lnreader.ENOTFOUND {
			return nil, err
		}
		info, err := s.pageInfo(ctx, r, page)
		if err != nil {
			return nil, err
		}
		return &lnreader.Page{Page: page, Title: info.Title, LastUpdate: info.LastUpdate}, nil
	}
}

func (s *Service) pageInfo(ctx context.Context, r *Retrier, page string) (*lnreader.PageInfo, error) {
	return FetchAndParse(ctx, r, s.Config.PageInfoURL(page), s.Fetcher.Fetch, s.API.ParsePageInfo, s.Config.PageRetries)
}

// storedOrNew returns the stored page or a new one of the given type.
func (s *Service) storedOrNew(ctx context.Context, page string, typ lnreader.PageType) (*lnreader.Page, error) {
	p, err := s.Pages.FindPage(ctx, page)
	if err == nil {
		return p, nil
	} else if lnreader.ErrorCode(err) != lnreader.ENOTFOUND {
		return nil, err
	}
	return &lnreader.Page{
		Page:       page,
		Title:      strings.ReplaceAll(page, "_", " "),
		Type:       typ,
		LastUpdate: lnreader.Epoch,
	}, nil
}

// imagePageURL turns an absolute URL, a site-relative path or a File: key
// into the URL of an image description page.
func (s *Service) imagePageURL(urlOrKey string) string {
	switch {
	case strings.HasPrefix(urlOrKey, "http://"), strings.HasPrefix(urlOrKey, "https://"):
		return urlOrKey
	case strings.HasPrefix(urlOrKey, "/"):
		return s.Config.Origin() + urlOrKey
	}
	link := lnreader.ParseWikiLink(urlOrKey, s.Config.LinkPrefix())
	if link.IsFile {
		return s.Config.PageURL(link.Page)
	}
	return s.Config.FileURL(link.Page)
}

func (s *Service) retrier(notify lnreader.ProgressFunc) *Retrier {
	if s.Retrier == nil {
		return &Retrier{Connectivity: s.Connectivity, Notify: notify}
	}
	return s.Retrier.WithNotify(notify)
}

func (s *Service) online(ctx context.Context) bool {
	if s.Connectivity == nil {
		return true
	}
	return s.Connectivity.Online(ctx)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}
