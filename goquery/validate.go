package goquery

import "github.com/fwojciec/lnreader"

// ValidateBooks drops chapters that point at redlinks or user pages, drops
// books left without chapters, and renumbers the surviving books and
// chapters from zero. Books sharing a title are merged into the first one,
// and a chapter listed twice is kept at its first position only. The input is left
// untouched. Applying ValidateBooks to its own output returns an equal
// result.
func ValidateBooks(books []*lnreader.Book) []*lnreader.Book {
	var merged []*lnreader.Book
	byTitle := make(map[string]*lnreader.Book)
	for _, book := range books {
		if book == nil {
			continue
		}
		if first, ok := byTitle[book.Title]; ok {
			first.Chapters = append(first.Chapters, book.Chapters...)
			continue
		}
		b := &lnreader.Book{ID: book.ID, Title: book.Title, Chapters: append([]*lnreader.Page(nil), book.Chapters...)}
		byTitle[book.Title] = b
		merged = append(merged, b)
	}

	var validated []*lnreader.Book
	seen := make(map[string]bool)
	for _, book := range merged {
		book.Chapters = validateChapters(book.Chapters, seen)
		if len(book.Chapters) == 0 {
			continue
		}
		book.Order = len(validated)
		validated = append(validated, book)
	}
	return validated
}

// validateChapters keeps the chapters not yet in seen and records them.
func validateChapters(chapters []*lnreader.Page, seen map[string]bool) []*lnreader.Page {
	var validated []*lnreader.Page
	for _, c := range chapters {
		if c == nil || c.Page == "" || lnreader.IsRedlink(c.Page) || lnreader.IsUserPage(c.Page) || seen[c.Page] {
			continue
		}
		seen[c.Page] = true
		chapter := c.Clone()
		chapter.Order = len(validated)
		validated = append(validated, chapter)
	}
	return validated
}
