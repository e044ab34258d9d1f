package raft

import (
	"context"
	"sync"
)

// memLogIter walks a slice of LogEntry paired with per-entry terms, the way
// a real Wal segment iterator would walk a term-tagged append log.
type memLogIter struct {
	entries []LogEntry
	terms   []uint64
	pos     int
}

func (it *memLogIter) Valid() bool { return it.pos < len(it.entries) }
func (it *memLogIter) Next()       { it.pos++ }
func (it *memLogIter) Term() uint64 {
	if !it.Valid() {
		return 0
	}
	return it.terms[it.pos]
}
func (it *memLogIter) Entry() LogEntry { return it.entries[it.pos] }

// memWal is an in-memory Wal keyed by contiguous log id starting at 1,
// sufficient for exercising the Request Builder without a real store.
type memWal struct {
	entries []LogEntry
	terms   []uint64
}

func (w *memWal) append(term uint64, e LogEntry) {
	w.entries = append(w.entries, e)
	w.terms = append(w.terms, term)
}

func (w *memWal) Iterator(fromInclusive, toInclusive uint64) LogIter {
	if fromInclusive < 1 || fromInclusive > uint64(len(w.entries)) || fromInclusive > toInclusive {
		return &memLogIter{}
	}
	to := toInclusive
	if to > uint64(len(w.entries)) {
		to = uint64(len(w.entries))
	}
	return &memLogIter{
		entries: w.entries[fromInclusive-1 : to],
		terms:   w.terms[fromInclusive-1 : to],
	}
}

// fakePartition is a minimal Partition backed by a memWal.
type fakePartition struct {
	space, part uint64
	leaderAddr  string
	wal         *memWal
}

func (p *fakePartition) SpaceID() uint64     { return p.space }
func (p *fakePartition) PartitionID() uint64 { return p.part }
func (p *fakePartition) LeaderAddr() string  { return p.leaderAddr }
func (p *fakePartition) Wal() Wal            { return p.wal }

// fakeClient replays a scripted sequence of AppendLog outcomes, optionally
// blocking on a gate channel to let tests exercise the RPC timeout path.
type fakeClient struct {
	mu        sync.Mutex
	responses []func(*AppendLogRequest) (*AppendLogResponse, error)
	calls     []*AppendLogRequest
	gate      chan struct{} // if non-nil, AppendLog blocks until closed
}

func (c *fakeClient) AppendLog(ctx context.Context, req *AppendLogRequest) (*AppendLogResponse, error) {
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, req)
	if len(c.responses) == 0 {
		// A well-behaved follower reports how far it actually advanced,
		// which is bounded by how many entries this request carried, not
		// by the leader's ultimate target (LastLogID).
		advanced := req.LastLogIDSent + uint64(len(req.LogStrList))
		return &AppendLogResponse{ErrorCode: ESucceeded, LastLogID: advanced, LastLogTerm: req.LogTerm}, nil
	}
	fn := c.responses[0]
	c.responses = c.responses[1:]
	return fn(req)
}

func (c *fakeClient) AskForVote(ctx context.Context, req *AskForVoteRequest) (*AskForVoteResponse, error) {
	return &AskForVoteResponse{ErrorCode: ESucceeded, CurrentTerm: req.Term, VoteGranted: true}, nil
}

func (c *fakeClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// fakeTransport hands back a single fixed client for every address.
type fakeTransport struct {
	client  *fakeClient
	dialErr error
}

func (t *fakeTransport) Client(addr string) (Client, error) {
	if t.dialErr != nil {
		return nil, t.dialErr
	}
	return t.client, nil
}
