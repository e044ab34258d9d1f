package raft

import "context"

// AskForVote is a thin pass-through to the follower's vote RPC. Unlike
// AppendLogs it does not touch Progress State or the promise pair: votes
// are not coalesced and carry no ordering requirement against replication
// traffic, so the channel does no more than route the call and translate a
// stopped channel into EHostStopped.
func (c *FollowerChannel) AskForVote(ctx context.Context, req *AskForVoteRequest) (*AskForVoteResponse, error) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return &AskForVoteResponse{ErrorCode: EHostStopped}, ErrClosed
	}
	addr := c.addr
	c.mu.Unlock()

	client, err := c.transport.Client(addr)
	if err != nil {
		return &AskForVoteResponse{ErrorCode: EException}, err
	}

	resp, err := client.AskForVote(ctx, req)
	if err != nil {
		return &AskForVoteResponse{ErrorCode: EException}, err
	}
	return resp, nil
}
