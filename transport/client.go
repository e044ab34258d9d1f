package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"golang.org/x/time/rate"

	"github.com/latticedb/raftfollower/raft"
)

// HTTPClient is a raft.Client that speaks the codec's gob+snappy framing
// over plain HTTP POSTs, the way the pack's raft.HTTPTransport speaks JSON
// over HTTP for join/leave/heartbeat.
type HTTPClient struct {
	addr       string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient returns a client bound to a single follower address. addr
// is a host:port pair; the follower's HTTPHandler is assumed mounted at
// its root.
func NewHTTPClient(addr string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{addr: addr, httpClient: httpClient}
}

// WithRateLimit caps the outbound RPC rate to this follower, complementing
// the channel-level MAX_OUTSTANDING bound with a per-connection floor on
// how fast retries or chained requests can hammer a struggling follower.
func (c *HTTPClient) WithRateLimit(l *rate.Limiter) *HTTPClient {
	c.limiter = l
	return c
}

func (c *HTTPClient) endpoint(p string) string {
	u := url.URL{Scheme: "http", Host: c.addr, Path: path.Join("/", p)}
	return u.String()
}

func (c *HTTPClient) AppendLog(ctx context.Context, req *raft.AppendLogRequest) (*raft.AppendLogResponse, error) {
	resp := new(raft.AppendLogResponse)
	if err := c.roundTrip(ctx, "append_log", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) AskForVote(ctx context.Context, req *raft.AskForVoteRequest) (*raft.AskForVoteResponse, error) {
	resp := new(raft.AskForVoteResponse)
	if err := c.roundTrip(ctx, "ask_for_vote", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, op string, req, resp interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	body, err := Encode(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(op), bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/x-raft-frame")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		if msg := httpResp.Header.Get("X-Raft-Error"); msg != "" {
			return fmt.Errorf("transport: %s: %s", op, msg)
		}
		return fmt.Errorf("transport: %s: unexpected status %d", op, httpResp.StatusCode)
	}

	frame, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return err
	}
	return Decode(frame, resp)
}
