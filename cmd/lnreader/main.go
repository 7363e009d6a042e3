package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/lnreader"
	"github.com/fwojciec/lnreader/crawl"
	"github.com/fwojciec/lnreader/env"
	"github.com/fwojciec/lnreader/etree"
	"github.com/fwojciec/lnreader/fs"
	"github.com/fwojciec/lnreader/goquery"
	lnhttp "github.com/fwojciec/lnreader/http"
	"github.com/fwojciec/lnreader/resty"
	lnslog "github.com/fwojciec/lnreader/slog"
	"github.com/fwojciec/lnreader/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is loaded from the environment by NewMain. Tests may replace it
	// before calling Run().
	Config lnreader.Config

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	configErr error
}

// NewMain returns a new instance of Main with configuration loaded from the
// environment. An invalid environment is reported by Run.
func NewMain() *Main {
	cfg, err := env.Load()
	return &Main{Config: cfg, configErr: err}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("lnreader"),
		kong.Description("Mirror a light novel wiki for offline reading"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'lnreader --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := m.configErr; err != nil {
		fmt.Fprintln(stderr, "Hint: Check the LNREADER_* environment variables")
		return err
	}
	if err := m.Config.Validate(); err != nil {
		fmt.Fprintln(stderr, "Hint: Check the LNREADER_* environment variables")
		return err
	}
	cfg := m.Config

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	m.DB = sqlite.NewDB(cfg.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set LNREADER_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cfg.DBPath, err)
	}
	defer m.Close()

	logger := newLogger(stderr, cli.Verbose)

	novels := sqlite.NewNovelService(m.DB)
	novels.Divider = cfg.Divider

	deps.Config = cfg
	deps.Pages = sqlite.NewPageService(m.DB)
	deps.Novels = novels
	deps.Store = fs.NewImageStore(cfg.ImageRoot)

	if kongCtx.Command() == "reset" {
		return kongCtx.Run(deps)
	}

	connectivity, err := lnhttp.NewConnectivity(cfg.BaseURL, lnhttp.DefaultDialTimeout)
	if err != nil {
		return err
	}

	var (
		fetcher       lnreader.Fetcher    = lnhttp.NewFetcher(lnhttp.WithTimeout(cfg.Timeout))
		downloader    lnreader.Downloader = resty.NewDownloader(resty.WithTimeout(cfg.Timeout), resty.WithReferer(cfg.Origin()))
		contentParser lnreader.Parser     = goquery.NewParser(cfg)
	)
	if cli.Verbose {
		fetcher = lnslog.NewLoggingFetcher(fetcher, logger)
		downloader = lnslog.NewLoggingDownloader(downloader, logger)
		contentParser = lnslog.NewLoggingParser(contentParser, logger)
	}
	defer fetcher.Close()

	retrier := &crawl.Retrier{
		Connectivity: connectivity,
		Limiter:      crawl.NewDomainLimiter(cfg.RequestsPerSecond),
		Delays:       crawl.DefaultRetryDelays(),
	}

	deps.Mirror = &crawl.Service{
		Pages:    deps.Pages,
		Novels:   novels,
		Contents: sqlite.NewContentService(m.DB),
		Images:   sqlite.NewImageService(m.DB),
		Parser:   contentParser,
		API:      etree.NewParser(),
		Fetcher:  fetcher,
		Assets: &crawl.AssetDownloader{
			Downloader: downloader,
			Retrier:    retrier,
			ImageRoot:  cfg.ImageRoot,
			Retries:    cfg.ImageRetries,
		},
		Retrier:      retrier,
		Connectivity: connectivity,
		Config:       cfg,
		Logger:       logger,
	}

	return kongCtx.Run(deps)
}

// newLogger returns a text logger on w. Without verbose only warnings and
// errors are written.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
