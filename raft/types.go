package raft

import "context"

// LogEntry is a single opaque command in the write-ahead log.
type LogEntry struct {
	ClusterID uint64
	Payload   []byte
}

// LogIter iterates a contiguous, inclusive range of a Wal.
// It is read-only and is expected to be short-lived: FollowerChannel opens
// one only while building a request, under its own lock.
type LogIter interface {
	// Valid reports whether the iterator currently points at an entry.
	Valid() bool
	// Next advances the iterator. It must not be called past the end.
	Next()
	// Term returns the term of the entry currently pointed to.
	Term() uint64
	// Entry returns the entry currently pointed to.
	Entry() LogEntry
}

// Wal is the leader's write-ahead log, consumed only as an iterator over an
// inclusive log-id range. FollowerChannel never mutates it.
type Wal interface {
	// Iterator returns an iterator over [fromInclusive, toInclusive].
	// An iterator that is immediately !Valid() means the range is empty.
	Iterator(fromInclusive, toInclusive uint64) LogIter
}

// Partition is the owning collaborator. FollowerChannel only reads from it;
// it never calls back into the Partition.
type Partition interface {
	SpaceID() uint64
	PartitionID() uint64
	LeaderAddr() string
	Wal() Wal
}

// AppendLogRequest is the wire request for one AppendLog RPC.
type AppendLogRequest struct {
	Space           uint64
	Part            uint64
	CurrentTerm     uint64
	LeaderAddr      string
	LastLogID       uint64 // log_id_to_send: highest log id the leader wants the follower to hold
	CommittedLogID  uint64
	LogTerm         uint64 // single term shared by every entry in LogStrList
	LastLogTermSent uint64 // prev_log_term, for follower-side continuity checks
	LastLogIDSent   uint64 // prev_log_id, for follower-side continuity checks
	LogStrList      []LogEntry
}

// AppendLogResponse is the wire response for one AppendLog RPC.
type AppendLogResponse struct {
	ErrorCode      string
	CurrentTerm    uint64
	LastLogID      uint64
	LastLogTerm    uint64
	CommittedLogID uint64
}

// AskForVoteRequest is the wire request for a vote solicitation.
type AskForVoteRequest struct {
	Term         uint64
	CandidateID  uint64
	LastLogIndex uint64
	LastLogTerm  uint64
}

// AskForVoteResponse is the wire response for a vote solicitation.
type AskForVoteResponse struct {
	ErrorCode   string
	CurrentTerm uint64
	VoteGranted bool
}

// Transport is the leader-side collaborator that actually puts requests on
// the wire. FollowerChannel looks up one client per follower address from a
// cache that must be safe for concurrent, multi-threaded lookup.
type Transport interface {
	// Client returns (or creates and caches) a client bound to addr.
	Client(addr string) (Client, error)
}

// Client issues RPCs against a single remote follower.
type Client interface {
	AppendLog(ctx context.Context, req *AppendLogRequest) (*AppendLogResponse, error)
	AskForVote(ctx context.Context, req *AskForVoteRequest) (*AskForVoteResponse, error)
}

// Future is returned to submitters. It resolves exactly once, in causal
// order with the RPC outcome that produced it.
type Future interface {
	// Wait blocks until the future resolves or ctx is done.
	Wait(ctx context.Context) (*AppendLogResponse, error)
}
