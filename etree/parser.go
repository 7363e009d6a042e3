// Package etree implements lnreader.APIParser for the wiki's XML API using
// the etree XML library.
package etree

import (
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/lnreader"
)

// TouchedLayout is the timestamp layout of the info API's touched attribute.
const TouchedLayout = "2006-01-02T15:04:05Z"

// Ensure Parser implements lnreader.APIParser at compile time.
var _ lnreader.APIParser = (*Parser)(nil)

// Parser reads MediaWiki API responses.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParsePageInfo returns the title and last touched time reported by an
// action=query&prop=info response.
func (p *Parser) ParsePageInfo(xml string) (*lnreader.PageInfo, error) {
	root, err := readRoot(xml, "page info")
	if err != nil {
		return nil, err
	}

	page := root.FindElement("//page")
	if page == nil {
		return nil, lnreader.Errorf(lnreader.EPARSE, "page info response has no page element")
	}
	if page.SelectAttr("missing") != nil || page.SelectAttr("invalid") != nil {
		return nil, lnreader.Errorf(lnreader.ENOTFOUND, "page %q does not exist", page.SelectAttrValue("title", ""))
	}

	touched := strings.TrimSpace(page.SelectAttrValue("touched", ""))
	lastUpdate, err := time.Parse(TouchedLayout, touched)
	if err != nil {
		return nil, lnreader.Wrapf(lnreader.EPARSE, err, "invalid touched timestamp %q", touched)
	}

	return &lnreader.PageInfo{
		Title:      page.SelectAttrValue("title", ""),
		LastUpdate: lastUpdate.UTC(),
	}, nil
}

// ParseChapterBody returns the rendered HTML carried by an action=parse
// response.
func (p *Parser) ParseChapterBody(xml string) (string, error) {
	root, err := readRoot(xml, "parse")
	if err != nil {
		return "", err
	}

	if e := root.FindElement("//error"); e != nil {
		return "", lnreader.Errorf(lnreader.ENOTFOUND, "wiki error %s: %s",
			e.SelectAttrValue("code", "unknown"), e.SelectAttrValue("info", ""))
	}

	text := root.FindElement("//parse/text")
	if text == nil {
		return "", lnreader.Errorf(lnreader.EPARSE, "parse response has no text element")
	}
	return text.Text(), nil
}

// readRoot parses an XML document and returns its root element.
func readRoot(xml, what string) (*etree.Element, error) {
	if strings.TrimSpace(xml) == "" {
		return nil, lnreader.Errorf(lnreader.EPARSE, "empty %s response", what)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return nil, lnreader.Wrapf(lnreader.EPARSE, err, "failed to parse %s XML", what)
	}
	root := doc.Root()
	if root == nil {
		return nil, lnreader.Errorf(lnreader.EPARSE, "empty %s XML", what)
	}
	return root, nil
}
