package main

import (
	"fmt"

	"github.com/fwojciec/lnreader"
)

// Run executes the catalog command.
func (c *CatalogCmd) Run(deps *Dependencies) error {
	var (
		pages []*lnreader.Page
		err   error
	)
	switch {
	case c.Watched:
		pages, err = deps.Mirror.Watched(deps.Ctx)
	case c.Refresh:
		pages, err = deps.Mirror.RefreshCatalog(deps.Ctx, deps.notify())
	default:
		pages, err = deps.Mirror.Catalog(deps.Ctx, deps.notify())
	}
	if err != nil {
		return deps.fail(err)
	}

	if len(pages) == 0 {
		if c.Watched {
			fmt.Fprintln(deps.Stdout, "No watched novels. Use 'lnreader watch' to add one.")
		} else {
			fmt.Fprintln(deps.Stdout, "No novels found.")
		}
		return nil
	}

	for _, p := range pages {
		mark := " "
		if p.IsWatched {
			mark = "*"
		}
		fmt.Fprintf(deps.Stdout, "%s %s\n", mark, p.Page)
	}
	return nil
}
