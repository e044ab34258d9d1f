package transport

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/latticedb/raftfollower/raft"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	appendResp *raft.AppendLogResponse
	appendErr  error
	voteResp   *raft.AskForVoteResponse
	voteErr    error
}

func (h *fakeHandler) AppendLog(ctx context.Context, req *raft.AppendLogRequest) (*raft.AppendLogResponse, error) {
	return h.appendResp, h.appendErr
}

func (h *fakeHandler) AskForVote(ctx context.Context, req *raft.AskForVoteRequest) (*raft.AskForVoteResponse, error) {
	return h.voteResp, h.voteErr
}

func TestHTTPClient_AppendLogRoundTrip(t *testing.T) {
	h := &fakeHandler{appendResp: &raft.AppendLogResponse{ErrorCode: raft.ESucceeded, LastLogID: 5}}
	srv := httptest.NewServer(NewHTTPHandler(h))
	defer srv.Close()

	client := NewHTTPClient(strings.TrimPrefix(srv.URL, "http://"), srv.Client())
	resp, err := client.AppendLog(context.Background(), &raft.AppendLogRequest{Space: 1})
	require.NoError(t, err)
	require.Equal(t, uint64(5), resp.LastLogID)
}

func TestHTTPClient_AppendLogSurfacesHandlerError(t *testing.T) {
	h := &fakeHandler{appendErr: errors.New("boom")}
	srv := httptest.NewServer(NewHTTPHandler(h))
	defer srv.Close()

	client := NewHTTPClient(strings.TrimPrefix(srv.URL, "http://"), srv.Client())
	_, err := client.AppendLog(context.Background(), &raft.AppendLogRequest{Space: 1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
}

func TestHTTPClient_AskForVoteRoundTrip(t *testing.T) {
	h := &fakeHandler{voteResp: &raft.AskForVoteResponse{VoteGranted: true, CurrentTerm: 7}}
	srv := httptest.NewServer(NewHTTPHandler(h))
	defer srv.Close()

	client := NewHTTPClient(strings.TrimPrefix(srv.URL, "http://"), srv.Client())
	resp, err := client.AskForVote(context.Background(), &raft.AskForVoteRequest{Term: 7})
	require.NoError(t, err)
	require.True(t, resp.VoteGranted)
}
