package main

import (
	"fmt"
	"time"
)

// Run executes the info command.
func (c *InfoCmd) Run(deps *Dependencies) error {
	page, err := deps.Mirror.Page(deps.Ctx, c.Page, deps.notify())
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Page:        %s\n", page.Page)
	fmt.Fprintf(deps.Stdout, "Title:       %s\n", page.Title)
	fmt.Fprintf(deps.Stdout, "Type:        %s\n", page.Type)
	if page.Parent != "" {
		fmt.Fprintf(deps.Stdout, "Parent:      %s\n", page.Parent)
	}
	fmt.Fprintf(deps.Stdout, "Last update: %s\n", page.LastUpdate.Format(time.RFC3339))
	fmt.Fprintf(deps.Stdout, "Stored:      %t\n", page.ID != "")
	fmt.Fprintf(deps.Stdout, "Downloaded:  %t\n", page.IsDownloaded)
	return nil
}
