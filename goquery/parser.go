// Package goquery implements lnreader.Parser on top of goquery. It turns
// the wiki's rendered HTML into catalog entries, novel details, chapter
// content and image references without performing any I/O of its own.
package goquery

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lnreader"
)

// Ensure Parser implements lnreader.Parser at compile time.
var _ lnreader.Parser = (*Parser)(nil)

// Parser extracts domain records from wiki HTML.
type Parser struct {
	origin       *url.URL
	linkPrefix   string
	imagesPrefix string
	imageRoot    string
	divider      string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewParser creates a Parser for the wiki described by cfg.
func NewParser(cfg lnreader.Config) *Parser {
	origin, err := url.Parse(cfg.Origin())
	if err != nil || cfg.Origin() == "" {
		origin = &url.URL{}
	}
	divider := cfg.Divider
	if divider == "" {
		divider = lnreader.DefaultDivider
	}
	return &Parser{
		origin:       origin,
		linkPrefix:   cfg.LinkPrefix(),
		imagesPrefix: cfg.ImagesPrefix(),
		imageRoot:    cfg.ImageRoot,
		divider:      divider,
		Now:          time.Now,
	}
}

func (p *Parser) now() time.Time {
	if p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now().UTC()
}

// newDocument parses html, rejecting blank input.
func newDocument(html, what string) (*goquery.Document, error) {
	if strings.TrimSpace(html) == "" {
		return nil, lnreader.Errorf(lnreader.EPARSE, "empty %s document", what)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, lnreader.Wrapf(lnreader.EPARSE, err, "failed to parse %s HTML", what)
	}
	return doc, nil
}

// pageKey returns the wiki key an internal href points at.
func (p *Parser) pageKey(href string) string {
	return lnreader.PageKey(href, p.linkPrefix)
}

// absoluteURL resolves href against the wiki origin. Returns href unchanged
// if it cannot be parsed.
func (p *Parser) absoluteURL(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return p.origin.ResolveReference(ref).String()
}
