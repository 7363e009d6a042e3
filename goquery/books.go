package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lnreader"
)

// sectionMarkers are the heading anchor fragments that mark a chapter list
// section, besides the novel's own key and its redirect target.
var sectionMarkers = []string{"_by", "Full_Text", "Side_Stor"}

// sibling is one element following a section heading.
type sibling struct {
	tag string
	sel *goquery.Selection
}

// section is the ordered sequence of element siblings between a qualifying
// heading and the next one.
type section struct {
	heading  *goquery.Selection
	siblings []sibling
}

// bookStrategy extracts books from a section. ok is false when the strategy
// found no chapter at all.
type bookStrategy func(p *Parser, novel string, s section) (books []*lnreader.Book, ok bool)

// bookStrategies are tried in order; the first one that finds chapters wins.
var bookStrategies = []bookStrategy{
	subHeadingBooks,
	paragraphBooks,
	flatListBooks,
}

// parseBooks extracts the raw, unvalidated books of every qualifying
// section.
func (p *Parser) parseBooks(doc *goquery.Document, novel, redirect string) []*lnreader.Book {
	var books []*lnreader.Book
	doc.Find("h2").Each(func(_ int, h2 *goquery.Selection) {
		if !qualifies(h2, novel, redirect) {
			return
		}
		s := newSection(h2)
		for _, strategy := range bookStrategies {
			if found, ok := strategy(p, novel, s); ok {
				books = append(books, found...)
				break
			}
		}
	})
	return books
}

// qualifies reports whether a heading introduces a chapter list.
func qualifies(h2 *goquery.Selection, novel, redirect string) bool {
	ok := false
	h2.Find("span[id]").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		id := span.AttrOr("id", "")
		for _, marker := range sectionMarkers {
			if strings.Contains(id, marker) {
				ok = true
				return false
			}
		}
		if (novel != "" && strings.Contains(id, novel)) || (redirect != "" && strings.Contains(id, redirect)) {
			ok = true
			return false
		}
		return true
	})
	return ok
}

func newSection(h2 *goquery.Selection) section {
	s := section{heading: h2}
	for el := h2.Next(); el.Length() > 0; el = el.Next() {
		tag := goquery.NodeName(el)
		if tag == "h2" {
			break
		}
		s.siblings = append(s.siblings, sibling{tag: tag, sel: el})
	}
	return s
}

// subHeadingBooks starts a book at every h3 and collects list items up to
// the next h3.
func subHeadingBooks(p *Parser, novel string, s section) ([]*lnreader.Book, bool) {
	return groupedBooks(p, novel, s, "h3", false)
}

// paragraphBooks starts a book at every paragraph and collects list items
// up to the next paragraph. A book without list items falls back to the
// paragraph's own links.
func paragraphBooks(p *Parser, novel string, s section) ([]*lnreader.Book, bool) {
	return groupedBooks(p, novel, s, "p", true)
}

func groupedBooks(p *Parser, novel string, s section, startTag string, linkFallback bool) ([]*lnreader.Book, bool) {
	var books []*lnreader.Book
	var current *lnreader.Book
	var start *goquery.Selection
	chapters := 0

	flush := func() {
		if current == nil {
			return
		}
		if linkFallback && len(current.Chapters) == 0 {
			start.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
				current.Chapters = append(current.Chapters, p.chapter(novel, current, a, a.Text()))
			})
		}
		chapters += len(current.Chapters)
		books = append(books, current)
	}

	for _, sib := range s.siblings {
		switch {
		case sib.tag == startTag:
			flush()
			current = &lnreader.Book{
				Title: SanitizeTitle(sib.sel.Text()),
				Order: len(books),
			}
			start = sib.sel
		case current != nil && isChapterContainer(sib.tag, true):
			current.Chapters = append(current.Chapters, p.listChapters(novel, current, sib.sel, false)...)
		}
	}
	flush()

	return books, chapters > 0
}

// flatListBooks treats the whole section as one book titled by the heading,
// with every list item of every list as a chapter.
func flatListBooks(p *Parser, novel string, s section) ([]*lnreader.Book, bool) {
	book := &lnreader.Book{Title: SanitizeTitle(s.heading.Text())}
	for _, sib := range s.siblings {
		if isChapterContainer(sib.tag, false) {
			book.Chapters = append(book.Chapters, p.listChapters(novel, book, sib.sel, true)...)
		}
	}
	if len(book.Chapters) == 0 {
		return nil, false
	}
	return []*lnreader.Book{book}, true
}

// isChapterContainer reports whether a sibling can hold chapter list items.
// div wrappers only count below a sub-heading or paragraph.
func isChapterContainer(tag string, allowDiv bool) bool {
	switch tag {
	case "ul", "dl", "ol":
		return true
	case "div":
		return allowDiv
	}
	return false
}

// listChapters turns every list item with a link into a chapter. When
// itemTitle is set the chapter is titled by the whole item text rather
// than by the link text.
func (p *Parser) listChapters(novel string, book *lnreader.Book, container *goquery.Selection, itemTitle bool) []*lnreader.Page {
	var chapters []*lnreader.Page
	order := len(book.Chapters)
	container.Find("li").Each(func(_ int, li *goquery.Selection) {
		link := ownLink(li)
		if link.Length() == 0 {
			return
		}
		title := link.Text()
		if itemTitle {
			title = ownText(li)
		}
		c := p.chapter(novel, book, link, title)
		c.Order = order
		order++
		chapters = append(chapters, c)
	})
	return chapters
}

// ownLink returns the first link of a list item that does not belong to a
// nested list.
func ownLink(li *goquery.Selection) *goquery.Selection {
	return li.Find("a[href]").FilterFunction(func(_ int, a *goquery.Selection) bool {
		return a.ParentsUntilSelection(li).Filter("ul, ol, dl").Length() == 0
	}).First()
}

// ownText returns the text of a list item without its nested lists.
func ownText(li *goquery.Selection) string {
	clone := li.Clone()
	clone.Find("ul, ol, dl").Remove()
	return clone.Text()
}

func (p *Parser) chapter(novel string, book *lnreader.Book, link *goquery.Selection, title string) *lnreader.Page {
	return &lnreader.Page{
		Page:       p.pageKey(link.AttrOr("href", "")),
		Title:      SanitizeTitle(title),
		Type:       lnreader.PageTypeContent,
		Parent:     lnreader.ChapterParent(novel, book.Title, p.divider),
		Order:      len(book.Chapters),
		LastUpdate: lnreader.Epoch,
	}
}
