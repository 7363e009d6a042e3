package main

import (
	"fmt"

	"github.com/fwojciec/lnreader"
)

// Run executes the reset command.
func (c *ResetCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return lnreader.Errorf(lnreader.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Pages.Reset(deps.Ctx); err != nil {
		return deps.fail(err)
	}
	if err := deps.Store.RemoveAll(); err != nil {
		return deps.fail(err)
	}

	fmt.Fprintln(deps.Stdout, "Removed every mirrored page and image")
	return nil
}
