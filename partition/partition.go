// Package partition provides a minimal owner for a set of FollowerChannels,
// standing in for the leader-side partition object that raft.Partition
// treats as an external collaborator.
package partition

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/latticedb/raftfollower/raft"
)

// Partition owns one FollowerChannel per peer for a single (space, part)
// and fans submissions out to all of them via errgroup-based fan-out.
type Partition struct {
	space, part uint64
	leaderAddr  string
	wal         raft.Wal
	logger      *zap.Logger

	channels map[string]*raft.FollowerChannel
}

// New constructs a Partition. transport and wal are shared across every
// peer channel; addrs lists the follower addresses to replicate to.
func New(space, part uint64, leaderAddr string, wal raft.Wal, transport raft.Transport, addrs []string, logger *zap.Logger, opts ...raft.Option) *Partition {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Partition{
		space:      space,
		part:       part,
		leaderAddr: leaderAddr,
		wal:        wal,
		logger:     logger,
		channels:   make(map[string]*raft.FollowerChannel, len(addrs)),
	}
	for _, addr := range addrs {
		p.channels[addr] = raft.NewFollowerChannel(p, transport, addr, opts...)
	}
	return p
}

func (p *Partition) SpaceID() uint64     { return p.space }
func (p *Partition) PartitionID() uint64 { return p.part }
func (p *Partition) LeaderAddr() string  { return p.leaderAddr }
func (p *Partition) Wal() raft.Wal       { return p.wal }

// Channel returns the FollowerChannel for addr, or nil if addr is not a
// configured peer.
func (p *Partition) Channel(addr string) *raft.FollowerChannel { return p.channels[addr] }

// PeerCount returns the number of configured follower channels.
func (p *Partition) PeerCount() int { return len(p.channels) }

// Quorum is the reduced outcome of submitting one AppendLogs call to every
// peer: how many peers reported the submission as fully durable up to
// logID.
type Quorum struct {
	Acked int
	Total int
}

// HasMajority reports whether Acked forms a strict majority of Total,
// counting the leader itself as an implicit extra vote the way a Raft
// quorum calculation would.
func (q Quorum) HasMajority() bool {
	return (q.Acked+1)*2 > q.Total+1
}

// Submit drives AppendLogs against every peer channel concurrently and
// reduces the results into a Quorum. It does not implement term or
// commit-index safety — that is leader-level election and commit logic
// outside a replication channel's scope — so a peer erroring or lagging
// behind simply does not count toward the quorum this call reports.
func (p *Partition) Submit(ctx context.Context, term, logID, committedID, prevTerm, prevID uint64) Quorum {
	var g errgroup.Group
	results := make([]bool, 0, len(p.channels))
	resultCh := make(chan bool, len(p.channels))

	for addr, ch := range p.channels {
		addr, ch := addr, ch
		g.Go(func() error {
			fut := ch.AppendLogs(term, logID, committedID, prevTerm, prevID)
			resp, err := fut.Wait(ctx)
			if err != nil {
				p.logger.Debug("peer submission did not complete",
					zap.String("addr", addr), zap.Error(err))
				resultCh <- false
				return nil
			}
			resultCh <- resp.ErrorCode == raft.ESucceeded && resp.LastLogID >= logID
			return nil
		})
	}

	_ = g.Wait()
	close(resultCh)
	for ok := range resultCh {
		results = append(results, ok)
	}

	acked := 0
	for _, ok := range results {
		if ok {
			acked++
		}
	}
	return Quorum{Acked: acked, Total: len(p.channels)}
}

// AskForVote fans a vote request out to every peer and returns the raw
// per-peer responses; deciding an election from them is outside this
// package's scope.
func (p *Partition) AskForVote(ctx context.Context, req *raft.AskForVoteRequest) map[string]*raft.AskForVoteResponse {
	var g errgroup.Group
	type result struct {
		addr string
		resp *raft.AskForVoteResponse
	}
	resultCh := make(chan result, len(p.channels))

	for addr, ch := range p.channels {
		addr, ch := addr, ch
		g.Go(func() error {
			resp, err := ch.AskForVote(ctx, req)
			if err != nil {
				p.logger.Debug("vote request failed", zap.String("addr", addr), zap.Error(err))
				return nil
			}
			resultCh <- result{addr: addr, resp: resp}
			return nil
		})
	}

	_ = g.Wait()
	close(resultCh)

	votes := make(map[string]*raft.AskForVoteResponse, len(p.channels))
	for r := range resultCh {
		votes[r.addr] = r.resp
	}
	return votes
}

// StopAll stops every peer channel and waits for each to quiesce.
func (p *Partition) StopAll() {
	for _, ch := range p.channels {
		ch.Stop()
	}
	for _, ch := range p.channels {
		ch.WaitForStop()
	}
}
