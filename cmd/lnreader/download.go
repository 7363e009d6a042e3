package main

import "fmt"

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	result, err := deps.Mirror.DownloadNovel(deps.Ctx, c.Page, c.Concurrency, deps.notify())
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Downloaded %d of %d chapters", result.Downloaded, result.Total)
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, " (%d failed, run again to retry)", result.Failed)
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}
