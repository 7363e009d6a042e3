package goquery_test

import (
	"testing"
	"time"

	"github.com/fwojciec/lnreader"
	"github.com/fwojciec/lnreader/goquery"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestParser(t *testing.T) *goquery.Parser {
	t.Helper()
	cfg := lnreader.DefaultConfig()
	cfg.ImageRoot = "/data/images"
	p := goquery.NewParser(cfg)
	p.Now = func() time.Time { return fixedNow }
	return p
}

func novelPage(key string) *lnreader.Page {
	return &lnreader.Page{
		Page:   key,
		Title:  key,
		Type:   lnreader.PageTypeNovel,
		Parent: lnreader.MainPage,
	}
}
