package transport

import (
	"context"
	"io"
	"net/http"
	"path"

	"github.com/latticedb/raftfollower/raft"
)

// Handler is implemented by whatever applies AppendLog/AskForVote RPCs on
// the follower side. Building a full follower (wal application, term
// bookkeeping) is out of scope here; HTTPHandler exists so the client and
// codec above have something real to round-trip against in tests.
type Handler interface {
	AppendLog(ctx context.Context, req *raft.AppendLogRequest) (*raft.AppendLogResponse, error)
	AskForVote(ctx context.Context, req *raft.AskForVoteRequest) (*raft.AskForVoteResponse, error)
}

// HTTPHandler serves a Handler over the same framing HTTPClient speaks,
// dispatching on path.Base and reporting failures via an X-Raft-Error
// header.
type HTTPHandler struct {
	h Handler
}

func NewHTTPHandler(h Handler) *HTTPHandler {
	return &HTTPHandler{h: h}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch path.Base(r.URL.Path) {
	case "append_log":
		h.serveAppendLog(w, r)
	case "ask_for_vote":
		h.serveAskForVote(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *HTTPHandler) serveAppendLog(w http.ResponseWriter, r *http.Request) {
	frame, err := io.ReadAll(r.Body)
	if err != nil {
		w.Header().Set("X-Raft-Error", err.Error())
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	req := new(raft.AppendLogRequest)
	if err := Decode(frame, req); err != nil {
		w.Header().Set("X-Raft-Error", err.Error())
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp, err := h.h.AppendLog(r.Context(), req)
	if err != nil {
		w.Header().Set("X-Raft-Error", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	out, err := Encode(resp)
	if err != nil {
		w.Header().Set("X-Raft-Error", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (h *HTTPHandler) serveAskForVote(w http.ResponseWriter, r *http.Request) {
	frame, err := io.ReadAll(r.Body)
	if err != nil {
		w.Header().Set("X-Raft-Error", err.Error())
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	req := new(raft.AskForVoteRequest)
	if err := Decode(frame, req); err != nil {
		w.Header().Set("X-Raft-Error", err.Error())
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp, err := h.h.AskForVote(r.Context(), req)
	if err != nil {
		w.Header().Set("X-Raft-Error", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	out, err := Encode(resp)
	if err != nil {
		w.Header().Set("X-Raft-Error", err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
