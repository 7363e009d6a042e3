package main

import "fmt"

// Run executes the watch command.
func (c *WatchCmd) Run(deps *Dependencies) error {
	page, err := deps.Mirror.Watch(deps.Ctx, c.Page, !c.Off)
	if err != nil {
		return deps.fail(err)
	}
	if page.IsWatched {
		fmt.Fprintf(deps.Stdout, "Watching %q\n", page.Page)
	} else {
		fmt.Fprintf(deps.Stdout, "Stopped watching %q\n", page.Page)
	}
	return nil
}
