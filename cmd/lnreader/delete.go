package main

import "fmt"

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Pages.DeletePage(deps.Ctx, c.Page); err != nil {
		return deps.fail(err)
	}
	fmt.Fprintf(deps.Stdout, "Deleted page %q\n", c.Page)
	return nil
}

// Run executes the delete-book command.
func (c *DeleteBookCmd) Run(deps *Dependencies) error {
	if err := deps.Novels.DeleteBook(deps.Ctx, c.ID); err != nil {
		return deps.fail(err)
	}
	fmt.Fprintf(deps.Stdout, "Deleted book %q\n", c.ID)
	return nil
}
