package lnreader

import "strings"

// WikiLink is an internal wiki link with its anchor removed.
type WikiLink struct {
	Page   string
	IsFile bool
}

// PageKey strips the wiki's internal link prefix (see Config.LinkPrefix)
// from href. Absolute URLs and hrefs relative to the script directory are
// accepted. Anchors and query parameters following the key are kept, so a
// redlink stays recognizable. Hrefs that are not internal links are
// returned unchanged.
func PageKey(href, prefix string) string {
	href = strings.TrimSpace(href)
	if i := strings.Index(href, prefix); i >= 0 {
		return href[i+len(prefix):]
	}
	if i := strings.Index(href, "index.php?title="); i >= 0 {
		return href[i+len("index.php?title="):]
	}
	return href
}

// ParseWikiLink returns the page key of an internal link without its anchor
// and whether it points at an image description page (File: or Image:).
func ParseWikiLink(href, prefix string) WikiLink {
	key, _, _ := strings.Cut(PageKey(href, prefix), "#")
	return WikiLink{
		Page:   key,
		IsFile: strings.HasPrefix(key, "File:") || strings.HasPrefix(key, "Image:"),
	}
}

// IsRedlink reports whether a page key denotes a non-existent wiki page.
func IsRedlink(page string) bool {
	return strings.Contains(page, "redlink=1")
}

// IsUserPage reports whether a page key points into the user namespace.
func IsUserPage(page string) bool {
	return strings.Contains(page, "User:")
}
