package main

import "fmt"

// Run executes the image command.
func (c *ImageCmd) Run(deps *Dependencies) error {
	img, err := deps.Mirror.Image(deps.Ctx, c.URL, deps.notify())
	if err != nil {
		return deps.fail(err)
	}
	fmt.Fprintln(deps.Stdout, img.LocalPath)
	return nil
}
