package goquery

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lnreader"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseChapterContent enumerates the images of a chapter body and rewrites
// wiki image sources to file URIs under the configured image root. The
// returned content carries a copy of page flagged as downloaded.
func (p *Parser) ParseChapterContent(body string, page *lnreader.Page) (*lnreader.NovelContent, error) {
	if page == nil || page.Page == "" {
		return nil, lnreader.Errorf(lnreader.EINVALID, "chapter page required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, lnreader.Errorf(lnreader.EPARSE, "empty body for chapter %q", page.Page)
	}

	fragment, err := parseFragment(body)
	if err != nil {
		return nil, lnreader.Wrapf(lnreader.EPARSE, err, "failed to parse body of chapter %q", page.Page)
	}

	model := page.Clone()
	model.IsDownloaded = true

	return &lnreader.NovelContent{
		Page:      page.Page,
		PageModel: model,
		Content:   p.rewriteImageSources(body),
		Images:    p.chapterImages(fragment, page.Page),
		LastZoom:  lnreader.DefaultZoom,
	}, nil
}

// parseFragment parses an HTML body fragment into a selection rooted at a
// synthetic container element.
func parseFragment(body string) (*goquery.Selection, error) {
	parent := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(body), parent)
	if err != nil {
		return nil, err
	}
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return goquery.NewDocumentFromNode(root).Selection, nil
}

// chapterImages builds one image reference per distinct image source.
func (p *Parser) chapterImages(fragment *goquery.Selection, referer string) []*lnreader.Image {
	var images []*lnreader.Image
	seen := make(map[string]bool)
	fragment.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" {
			return
		}
		abs := p.absoluteURL(src)
		if seen[abs] {
			return
		}
		seen[abs] = true
		images = append(images, &lnreader.Image{
			Name:    imageName(abs),
			URL:     abs,
			Referer: referer,
		})
	})
	return images
}

// rewriteImageSources points wiki-hosted image sources at the local mirror.
func (p *Parser) rewriteImageSources(body string) string {
	if p.imageRoot == "" {
		return body
	}
	local := "file://" + strings.TrimSuffix(filepath.ToSlash(p.imageRoot), "/") + p.imagesPrefix
	body = strings.ReplaceAll(body, `src="`+p.origin.String()+p.imagesPrefix, `src="`+local)
	return strings.ReplaceAll(body, `src="`+p.imagesPrefix, `src="`+local)
}

// imageName returns the file name of an image URL.
func imageName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return path.Base(rawURL)
	}
	name, err := url.PathUnescape(path.Base(u.Path))
	if err != nil {
		return path.Base(u.Path)
	}
	return name
}
