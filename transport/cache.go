package transport

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/latticedb/raftfollower/raft"
)

// ClientCache lazily dials and caches one HTTPClient per follower address:
// many FollowerChannels for the same partition set can share one cache so
// reconnecting to a follower after a leader change doesn't require
// redialing every channel.
type ClientCache struct {
	httpClient *http.Client
	rateLimit  rate.Limit // 0 means unlimited
	clients    sync.Map   // addr string -> *HTTPClient
}

// NewClientCache builds a cache sharing one underlying *http.Client (and
// therefore one connection pool) across every follower it dials.
func NewClientCache(httpClient *http.Client) *ClientCache {
	return &ClientCache{httpClient: httpClient}
}

// WithRateLimit applies a per-follower rate limit to every client this
// cache creates from this point on. Existing cached clients are
// unaffected.
func (c *ClientCache) WithRateLimit(limit rate.Limit) *ClientCache {
	c.rateLimit = limit
	return c
}

// Client implements raft.Transport.
func (c *ClientCache) Client(addr string) (raft.Client, error) {
	if v, ok := c.clients.Load(addr); ok {
		return v.(*HTTPClient), nil
	}
	client := NewHTTPClient(addr, c.httpClient)
	if c.rateLimit > 0 {
		client.WithRateLimit(rate.NewLimiter(c.rateLimit, 1))
	}
	actual, _ := c.clients.LoadOrStore(addr, client)
	return actual.(*HTTPClient), nil
}

var _ raft.Transport = (*ClientCache)(nil)
