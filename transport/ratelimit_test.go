package transport

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/latticedb/raftfollower/raft"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_RateLimitDelaysExcessRequests(t *testing.T) {
	h := &fakeHandler{appendResp: &raft.AppendLogResponse{ErrorCode: raft.ESucceeded}}
	srv := httptest.NewServer(NewHTTPHandler(h))
	defer srv.Close()

	client := NewHTTPClient(strings.TrimPrefix(srv.URL, "http://"), srv.Client()).
		WithRateLimit(rate.NewLimiter(rate.Limit(5), 1))

	start := time.Now()
	for i := 0; i < 2; i++ {
		_, err := client.AppendLog(context.Background(), &raft.AppendLogRequest{Space: 1})
		require.NoError(t, err)
	}
	elapsed := time.Since(start)

	// second request must wait roughly 1/5s for a token to refill.
	require.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
}

func TestHTTPClient_RateLimitRespectsContextCancellation(t *testing.T) {
	h := &fakeHandler{appendResp: &raft.AppendLogResponse{ErrorCode: raft.ESucceeded}}
	srv := httptest.NewServer(NewHTTPHandler(h))
	defer srv.Close()

	client := NewHTTPClient(strings.TrimPrefix(srv.URL, "http://"), srv.Client()).
		WithRateLimit(rate.NewLimiter(rate.Limit(0.001), 1))

	_, err := client.AppendLog(context.Background(), &raft.AppendLogRequest{Space: 1})
	require.NoError(t, err) // consumes the initial burst token

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.AppendLog(ctx, &raft.AppendLogRequest{Space: 1})
	require.Error(t, err)
}
