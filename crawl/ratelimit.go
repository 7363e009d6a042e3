package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/lnreader"
	"golang.org/x/time/rate"
)

var _ lnreader.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests per host. Each host gets its own token
// bucket with a burst of one, so the wiki and an image mirror are throttled
// independently.
type DomainLimiter struct {
	rps float64

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewDomainLimiter returns a limiter allowing rps requests per second to each
// host. A non-positive rps turns limiting off.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{rps: rps, hosts: map[string]*rate.Limiter{}}
}

// Wait blocks until a request to host may proceed or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}
	return d.bucket(host).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.hosts[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.hosts[host] = l
	}
	return l
}
