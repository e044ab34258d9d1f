// Package raft implements the leader-side per-follower replication channel
// of a Raft-style replicated log: one long-lived object per
// (partition_id, follower_addr) that coalesces submissions from the leader
// into a bounded stream of in-flight AppendLog RPCs, tracks the follower's
// match position, reconciles gaps, and tears down cleanly on shutdown.
package raft

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
)

const (
	// DefaultMaxBatch is the default cap on log entries per AppendLog RPC.
	DefaultMaxBatch = 128
	// DefaultMaxOutstanding is the default cap on coalesced waiters per
	// pending submission.
	DefaultMaxOutstanding = 1024
	// DefaultRPCTimeout is the default per-RPC deadline.
	DefaultRPCTimeout = 500 * time.Millisecond
)

// pendingRequest is the coalesced next submission. A nil *pendingRequest on
// FollowerChannel represents the "no pending submission" state, modeled
// here as an explicit optional rather than an all-zero sentinel.
type pendingRequest struct {
	term      uint64
	logID     uint64
	committed uint64
	prevTerm  uint64
	prevID    uint64
}

// FollowerChannel drives AppendLog and AskForVote RPCs against a single
// remote follower on behalf of its owning Partition. The zero value is not
// usable; construct with NewFollowerChannel.
type FollowerChannel struct {
	partition Partition
	transport Transport
	addr      string

	logger  *zap.Logger
	clock   clock.Clock
	metrics *ChannelMetrics

	maxBatch       int
	maxOutstanding int
	rpcTimeout     time.Duration

	mu   sync.Mutex
	cond *sync.Cond

	// Progress state. All fields below are guarded by mu.
	logTermToSend   uint64
	logIDToSend     uint64
	lastLogTermSent uint64
	lastLogIDSent   uint64
	committedLogID  uint64

	pendingReq     *pendingRequest
	requestOnGoing bool
	paused         bool
	stopped        bool

	livePromise    *promise
	cachingPromise *promise
}

// Option configures a FollowerChannel at construction time.
type Option func(*FollowerChannel)

// WithLogger sets the logger used for state-transition and fatal logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *FollowerChannel) { c.logger = l }
}

// WithClock injects a clock, primarily so tests can drive RPC timeout
// expiry deterministically with clock.NewMock().
func WithClock(cl clock.Clock) Option {
	return func(c *FollowerChannel) { c.clock = cl }
}

// WithMetrics attaches a metrics sink. If omitted a private, unregistered
// one is created so the channel always has somewhere to record to.
func WithMetrics(m *ChannelMetrics) Option {
	return func(c *FollowerChannel) { c.metrics = m }
}

// WithMaxBatch overrides DefaultMaxBatch.
func WithMaxBatch(n int) Option {
	return func(c *FollowerChannel) { c.maxBatch = n }
}

// WithMaxOutstanding overrides DefaultMaxOutstanding.
func WithMaxOutstanding(n int) Option {
	return func(c *FollowerChannel) { c.maxOutstanding = n }
}

// WithRPCTimeout overrides DefaultRPCTimeout.
func WithRPCTimeout(d time.Duration) Option {
	return func(c *FollowerChannel) { c.rpcTimeout = d }
}

// NewFollowerChannel constructs a channel for one follower at addr, owned
// by partition and dispatching RPCs through transport.
func NewFollowerChannel(partition Partition, transport Transport, addr string, opts ...Option) *FollowerChannel {
	c := &FollowerChannel{
		partition:      partition,
		transport:      transport,
		addr:           addr,
		logger:         zap.NewNop(),
		clock:          clock.New(),
		maxBatch:       DefaultMaxBatch,
		maxOutstanding: DefaultMaxOutstanding,
		rpcTimeout:     DefaultRPCTimeout,
		livePromise:    newPromise(),
		cachingPromise: newPromise(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.metrics == nil {
		c.metrics = NewChannelMetrics()
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Addr returns the follower address this channel is bound to.
func (c *FollowerChannel) Addr() string { return c.addr }

// setResponseLocked resolves both promise slots with the same outcome,
// installs a fresh caching promise, clears pending_req, clears
// request_on_going, and wakes WaitForStop. Must be called with mu held.
func (c *FollowerChannel) setResponseLocked(resp *AppendLogResponse, err error) {
	c.livePromise.resolve(resp, err)
	c.cachingPromise.resolve(resp, err)
	c.cachingPromise = newPromise()
	c.pendingReq = nil
	c.requestOnGoing = false
	c.metrics.requestOnGoing.Set(0)
	c.cond.Broadcast()
}

// failLocked is a convenience around setResponseLocked for the error
// branches of the RPC driver.
func (c *FollowerChannel) failLocked(code, msg string) {
	c.metrics.rpcOutcomes.WithLabelValues(code).Inc()
	c.setResponseLocked(&AppendLogResponse{ErrorCode: code}, newError(code, "raft.dispatch", msg))
}
