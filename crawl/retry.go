package crawl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fwojciec/lnreader"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
// Retries beyond the last delay reuse it.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retrier runs fetches under the connectivity precondition, the per-host
// rate limit and a bounded retry on transient transport errors.
type Retrier struct {
	Connectivity lnreader.Connectivity
	Limiter      lnreader.DomainLimiter
	Notify       lnreader.ProgressFunc
	// Delays between attempts. Nil retries immediately.
	Delays []time.Duration
}

// WithNotify returns a copy of r reporting retries to notify.
func (r *Retrier) WithNotify(notify lnreader.ProgressFunc) *Retrier {
	other := *r
	other.Notify = notify
	return &other
}

// Do calls attempt until it succeeds or fails permanently. A transient
// failure increments the retry counter and is reported through Notify;
// once the counter exceeds maxRetries the last error is returned, so at
// most maxRetries+1 attempts are made. Any other error is returned
// immediately.
func (r *Retrier) Do(ctx context.Context, rawURL string, maxRetries int, attempt func(ctx context.Context) error) error {
	if r.Connectivity != nil && !r.Connectivity.Online(ctx) {
		return lnreader.Errorf(lnreader.ENOCONN, "no network connection, cannot fetch %s", rawURL)
	}

	host := hostOf(rawURL)
	retry := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.Limiter != nil && host != "" {
			if err := r.Limiter.Wait(ctx, host); err != nil {
				return err
			}
		}

		err := attempt(ctx)
		if err == nil {
			return nil
		}
		if !lnreader.IsTransient(err) {
			return err
		}

		retry++
		if retry > maxRetries {
			return err
		}
		r.Notify.Notify(fmt.Sprintf("Retrying: %s (%d of %d)", rawURL, retry, maxRetries))

		if err := r.sleep(ctx, retry); err != nil {
			return err
		}
	}
}

func (r *Retrier) sleep(ctx context.Context, retry int) error {
	if len(r.Delays) == 0 {
		return nil
	}
	d := r.Delays[min(retry, len(r.Delays))-1]
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// FetchAndParse fetches url through r and hands the raw document to parse.
// Parse errors are returned as is and never retried.
func FetchAndParse[T any](ctx context.Context, r *Retrier, url string, fetch FetchFunc, parse func(string) (T, error), maxRetries int) (T, error) {
	var zero T
	var raw string
	err := r.Do(ctx, url, maxRetries, func(ctx context.Context) error {
		var err error
		raw, err = fetch(ctx, url)
		return err
	})
	if err != nil {
		return zero, err
	}
	return parse(raw)
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
