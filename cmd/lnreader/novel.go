package main

import (
	"fmt"

	"github.com/fwojciec/lnreader"
)

// Run executes the novel command.
func (c *NovelCmd) Run(deps *Dependencies) error {
	var (
		novel *lnreader.NovelCollection
		err   error
	)
	if c.Refresh {
		novel, err = deps.Mirror.RefreshNovelDetails(deps.Ctx, c.Page, deps.notify())
	} else {
		novel, err = deps.Mirror.NovelDetails(deps.Ctx, c.Page, deps.notify())
	}
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintln(deps.Stdout, novel.Page)
	if novel.IsRedirect() {
		fmt.Fprintf(deps.Stdout, "Redirects to: %s\n", novel.RedirectTo)
	}
	if novel.Synopsis != "" {
		fmt.Fprintf(deps.Stdout, "\n%s\n", novel.Synopsis)
	}
	if novel.CoverURL != "" {
		fmt.Fprintf(deps.Stdout, "\nCover: %s\n", novel.CoverURL)
	}

	for _, b := range novel.Books {
		fmt.Fprintf(deps.Stdout, "\n%s  %s\n", b.ID, b.Title)
		for _, ch := range b.Chapters {
			mark := " "
			if ch.IsDownloaded {
				mark = "x"
			}
			fmt.Fprintf(deps.Stdout, "  [%s] %s  %s\n", mark, ch.Page, ch.Title)
		}
	}
	return nil
}
