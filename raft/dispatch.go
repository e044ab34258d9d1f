package raft

import (
	"context"

	"go.uber.org/zap"
)

// dispatchResult is the outcome of one wire round-trip, carried across the
// suspension point in dispatch back into the locked classification step.
type dispatchResult struct {
	resp *AppendLogResponse
	err  error
}

// dispatch drives one AppendLog round-trip. It must never be called while
// holding mu: it performs the pre-dispatch status re-check itself, then
// issues the RPC and awaits its response entirely outside the lock.
func (c *FollowerChannel) dispatch(req *AppendLogRequest) {
	c.mu.Lock()
	if c.stopped {
		c.failLocked(EHostStopped, "stopped before dispatch")
		c.mu.Unlock()
		return
	}
	if c.paused {
		c.failLocked(ENotALeader, "paused before dispatch")
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	client, err := c.transport.Client(c.addr)
	if err != nil {
		c.handleResult(&dispatchResult{err: err})
		return
	}

	resultCh := make(chan dispatchResult, 1)
	go func() {
		resp, err := client.AppendLog(context.Background(), req)
		resultCh <- dispatchResult{resp: resp, err: err}
	}()

	timer := c.clock.Timer(c.rpcTimeout)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		c.handleResult(&res)
	case <-timer.C:
		c.handleResult(&dispatchResult{err: context.DeadlineExceeded})
	}
}

// handleResult classifies one RPC completion under the lock, mutating
// progress state and either chaining another RPC (dispatched outside the
// lock) or quiescing.
func (c *FollowerChannel) handleResult(res *dispatchResult) {
	c.mu.Lock()

	if res.err != nil {
		c.logger.Debug("append_log transport error", zap.String("addr", c.addr), zap.Error(res.err))
		c.failLocked(EException, res.err.Error())
		c.mu.Unlock()
		return
	}

	if c.stopped {
		c.failLocked(EHostStopped, "stopped while rpc was in flight")
		c.mu.Unlock()
		return
	}
	if c.paused {
		c.failLocked(ENotALeader, "paused while rpc was in flight")
		c.mu.Unlock()
		return
	}

	resp := res.resp
	var next *AppendLogRequest

	switch resp.ErrorCode {
	case ESucceeded, "":
		next = c.handleSucceededLocked(resp)

	case ELogGap:
		next = c.handleLogGapLocked(resp)

	default:
		c.logger.Debug("append_log follower error", zap.String("addr", c.addr), zap.String("code", resp.ErrorCode))
		c.failLocked(resp.ErrorCode, "follower returned an error response")
	}

	c.mu.Unlock()

	if next != nil {
		c.dispatch(next)
	}
}

// handleSucceededLocked implements the SUCCEEDED branch of RPC classification.
// Called with mu held; returns a non-nil request when another RPC must be
// dispatched once the caller releases mu.
func (c *FollowerChannel) handleSucceededLocked(resp *AppendLogResponse) *AppendLogRequest {
	if resp.LastLogID < c.lastLogIDSent {
		// Defensive rejection rather than silently regressing progress.
		c.logger.Error("follower reported a last_log_id behind what was already observed",
			zap.String("addr", c.addr),
			zap.Uint64("reported", resp.LastLogID),
			zap.Uint64("observed", c.lastLogIDSent))
		c.failLocked(EException, "last_log_id regressed")
		return nil
	}

	c.lastLogIDSent = resp.LastLogID
	c.lastLogTermSent = resp.LastLogTerm

	if c.lastLogIDSent < c.logIDToSend {
		// Batch cap truncated the send: more entries remain in the same
		// requested range. Chain without touching promises.
		return c.chainLocked()
	}

	// Submission fully delivered.
	deliveredResp := &AppendLogResponse{
		ErrorCode:      ESucceeded,
		CurrentTerm:    c.logTermToSend,
		LastLogID:      c.lastLogIDSent,
		LastLogTerm:    c.lastLogTermSent,
		CommittedLogID: c.committedLogID,
	}
	c.metrics.rpcOutcomes.WithLabelValues(ESucceeded).Inc()

	if c.pendingReq == nil {
		c.livePromise.resolve(deliveredResp, nil)
		c.requestOnGoing = false
		c.metrics.requestOnGoing.Set(0)
		c.cond.Broadcast()
		return nil
	}

	// Adopt the coalesced submission and rotate promises.
	c.livePromise.resolve(deliveredResp, nil)
	pr := c.pendingReq
	c.logTermToSend = pr.term
	c.logIDToSend = pr.logID
	c.committedLogID = pr.committed
	c.livePromise = c.cachingPromise
	c.cachingPromise = newPromise()
	c.pendingReq = nil

	return c.chainLocked()
}

// handleLogGapLocked implements the LOG_GAP branch: the follower is behind
// what the leader assumed. Progress is updated to the follower-reported
// baseline and a new request is chained; the submitter's future stays
// pending.
func (c *FollowerChannel) handleLogGapLocked(resp *AppendLogResponse) *AppendLogRequest {
	c.lastLogIDSent = resp.LastLogID
	c.lastLogTermSent = resp.LastLogTerm
	c.metrics.rpcOutcomes.WithLabelValues(ELogGap).Inc()
	return c.chainLocked()
}

// chainLocked builds the next request from the current progress state. If
// the Wal range is unexpectedly empty this is fatal: the channel stops
// itself, both promise slots resolve with the failure, and no further
// request is chained.
func (c *FollowerChannel) chainLocked() *AppendLogRequest {
	req, err := c.buildRequestLocked()
	if err != nil {
		c.logger.Error("wal has no entries for requested range; snapshot transfer required", zap.Error(err))
		c.stopped = true
		c.setResponseLocked(&AppendLogResponse{ErrorCode: EException}, err)
		return nil
	}
	return req
}
