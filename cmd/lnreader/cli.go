package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fwojciec/lnreader"
	"github.com/fwojciec/lnreader/crawl"
	"github.com/fwojciec/lnreader/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Config lnreader.Config
	Pages  lnreader.PageService
	Novels lnreader.NovelService
	Store  *fs.ImageStore
	Mirror *crawl.Service

	mu sync.Mutex
}

// notify returns a ProgressFunc printing each message on its own line to
// Stderr. It is safe for concurrent use.
func (d *Dependencies) notify() lnreader.ProgressFunc {
	return func(message string) {
		d.mu.Lock()
		defer d.mu.Unlock()
		fmt.Fprintln(d.Stderr, message)
	}
}

// fail prints the user-facing message of err to Stderr and returns err.
func (d *Dependencies) fail(err error) error {
	fmt.Fprintf(d.Stderr, "error: %s\n", lnreader.ErrorMessage(err))
	return err
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log every fetch, download and parse"`

	Catalog    CatalogCmd    `cmd:"" help:"List the novels in the catalog"`
	Novel      NovelCmd      `cmd:"" help:"Show the books and chapters of a novel"`
	Read       ReadCmd       `cmd:"" help:"Print the content of a chapter"`
	Info       InfoCmd       `cmd:"" help:"Show what is known about a page"`
	Image      ImageCmd      `cmd:"" help:"Download an image by URL or wiki file key"`
	Watch      WatchCmd      `cmd:"" help:"Add a novel to the watch list"`
	Delete     DeleteCmd     `cmd:"" help:"Delete a page and its downloaded content"`
	DeleteBook DeleteBookCmd `cmd:"" name:"delete-book" help:"Delete a book and its chapters"`
	Download   DownloadCmd   `cmd:"" help:"Download every chapter of a novel"`
	Reset      ResetCmd      `cmd:"" help:"Delete every mirrored record and image"`
}

// CatalogCmd is the "catalog" subcommand.
type CatalogCmd struct {
	Watched bool `short:"w" help:"Only list watched novels"`
	Refresh bool `short:"r" help:"Refetch the catalog even when fresh"`
}

// NovelCmd is the "novel" subcommand.
type NovelCmd struct {
	Page    string `arg:"" help:"Novel page key"`
	Refresh bool   `short:"r" help:"Refetch the novel even when stored"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	Page    string `arg:"" help:"Chapter page key"`
	Refresh bool   `short:"r" help:"Refetch the chapter even when stored"`
}

// ImageCmd is the "image" subcommand.
type ImageCmd struct {
	URL string `arg:"" help:"Image URL or wiki file key"`
}

// WatchCmd is the "watch" subcommand.
type WatchCmd struct {
	Page string `arg:"" help:"Novel page key"`
	Off  bool   `help:"Remove the novel from the watch list"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Page string `arg:"" help:"Page key"`
}

// DeleteBookCmd is the "delete-book" subcommand.
type DeleteBookCmd struct {
	ID string `arg:"" help:"Book ID as shown by 'lnreader novel'"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	Page        string `arg:"" help:"Novel page key"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent chapter downloads"`
}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct {
	Force bool `help:"Confirm deletion"`
}

// InfoCmd is the "info" subcommand.
type InfoCmd struct {
	Page string `arg:"" help:"Page key"`
}
