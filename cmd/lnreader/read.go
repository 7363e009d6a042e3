package main

import (
	"fmt"

	"github.com/fwojciec/lnreader"
	"github.com/fwojciec/lnreader/crawl"
)

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	var (
		content *lnreader.NovelContent
		err     error
	)
	if c.Refresh {
		content, err = deps.Mirror.RefreshChapterContent(deps.Ctx, c.Page, deps.notify())
	} else {
		content, err = deps.Mirror.ChapterContent(deps.Ctx, c.Page, deps.notify())
	}
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintln(deps.Stdout, content.Content)
	fmt.Fprintf(deps.Stderr, "%s: %s, %d images\n",
		content.Page, crawl.FormatBytes(int64(len(content.Content))), len(content.Images))

	if content.PageModel != nil && content.PageModel.Parent != "" {
		next, err := deps.Mirror.NextChapter(deps.Ctx, content.PageModel)
		switch {
		case err == nil:
			fmt.Fprintf(deps.Stderr, "Next: %s\n", next.Page)
		case lnreader.ErrorCode(err) != lnreader.ENOTFOUND:
			return deps.fail(err)
		}
	}
	return nil
}
