package goquery

import (
	"strings"

	"github.com/fwojciec/lnreader"
)

// ParseImagePage extracts the full resolution image URL from an image
// description page.
func (p *Parser) ParseImagePage(html string) (*lnreader.Image, error) {
	doc, err := newDocument(html, "image page")
	if err != nil {
		return nil, err
	}

	content := doc.Find("#mw-content-text").First()
	if content.Length() == 0 {
		return nil, lnreader.Errorf(lnreader.EPARSE, "image page has no content block")
	}
	href := strings.TrimSpace(content.Find(".fullMedia a[href]").First().AttrOr("href", ""))
	if href == "" {
		return nil, lnreader.Errorf(lnreader.EPARSE, "image page has no full media link")
	}

	abs := p.absoluteURL(href)
	return &lnreader.Image{
		Name: imageName(abs),
		URL:  abs,
	}, nil
}
