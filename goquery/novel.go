package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lnreader"
)

// maxSynopsisParagraphs caps the number of paragraphs kept as synopsis.
const maxSynopsisParagraphs = 10

// ParseNovelDetails extracts the redirect target, synopsis, cover and books
// of a novel detail page. Missing synopsis or cover degrade to empty
// values.
func (p *Parser) ParseNovelDetails(html string, page *lnreader.Page) (*lnreader.NovelCollection, error) {
	if page == nil || page.Page == "" {
		return nil, lnreader.Errorf(lnreader.EINVALID, "novel page required")
	}
	doc, err := newDocument(html, "novel "+page.Page)
	if err != nil {
		return nil, err
	}

	novel := &lnreader.NovelCollection{
		Page:      page.Page,
		PageModel: page.Clone(),
	}
	novel.RedirectTo = p.redirectTarget(doc)
	novel.Synopsis = parseSynopsis(doc)
	novel.CoverURL = p.parseCover(doc)
	novel.Books = ValidateBooks(p.parseBooks(doc, novel.Page, novel.RedirectTo))

	return novel, nil
}

// redirectTarget returns the page key of the canonical link, or empty if
// the document has none.
func (p *Parser) redirectTarget(doc *goquery.Document) string {
	var target string
	doc.Find("link[rel]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
		if !strings.Contains(link.AttrOr("rel", ""), "canonical") {
			return true
		}
		target = strings.TrimSpace(p.pageKey(link.AttrOr("href", "")))
		return false
	})
	return target
}

// parseSynopsis collects the first run of paragraphs after the synopsis
// heading, or at the top of the content block when there is no such
// heading.
func parseSynopsis(doc *goquery.Document) string {
	var start *goquery.Selection
	if heading := doc.Find("#Story_Synopsis").First(); heading.Length() > 0 {
		start = heading.Parent().Next()
	} else if content := doc.Find("#mw-content-text").First(); content.Length() > 0 {
		start = content.Children().First()
	}
	if start == nil || start.Length() == 0 {
		return ""
	}

	var paragraphs []string
	for el := start; el.Length() > 0; el = el.Next() {
		if goquery.NodeName(el) != "p" {
			if len(paragraphs) > 0 {
				break
			}
			continue
		}
		paragraphs = append(paragraphs, strings.TrimSpace(el.Text()))
		if len(paragraphs) == maxSynopsisParagraphs {
			break
		}
	}
	return strings.Join(paragraphs, "\n")
}

// parseCover returns the absolute source of the first thumbnail image.
func (p *Parser) parseCover(doc *goquery.Document) string {
	src := strings.TrimSpace(doc.Find(".thumbimage").First().AttrOr("src", ""))
	if src == "" {
		return ""
	}
	return p.absoluteURL(src)
}
