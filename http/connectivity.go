package http

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/fwojciec/lnreader"
)

// DefaultDialTimeout bounds the connectivity check.
const DefaultDialTimeout = 3 * time.Second

// Ensure Connectivity implements lnreader.Connectivity at compile time.
var _ lnreader.Connectivity = (*Connectivity)(nil)

// Connectivity checks the network by opening a TCP connection to the wiki
// host.
type Connectivity struct {
	address string
	timeout time.Duration
	dialer  net.Dialer
}

// NewConnectivity creates a Connectivity probing the host of baseURL.
func NewConnectivity(baseURL string, timeout time.Duration) (*Connectivity, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Hostname() == "" {
		return nil, lnreader.Errorf(lnreader.EINVALID, "base URL %q has no host", baseURL)
	}
	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	return &Connectivity{
		address: net.JoinHostPort(u.Hostname(), port),
		timeout: timeout,
	}, nil
}

// Online reports whether the wiki host accepts connections.
func (c *Connectivity) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
