package raft

import "go.uber.org/zap"

// AppendLogs is called by the leader's submit loop and returns a Future
// resolved with the eventual follower response for this submission —
// possibly shared with other, coalesced submissions.
//
// term is the leader's current term; logID is the highest log id the
// leader wants this follower to hold; committedID is the leader's
// advertised commit index; prevTerm/prevID are the term/id the leader
// believes the follower already has (its prev_log_term/prev_log_id).
func (c *FollowerChannel) AppendLogs(term, logID, committedID, prevTerm, prevID uint64) Future {
	c.mu.Lock()

	if c.stopped {
		c.mu.Unlock()
		return resolvedFuture(&AppendLogResponse{ErrorCode: EHostStopped}, ErrClosed)
	}
	if c.paused {
		c.mu.Unlock()
		return resolvedFuture(&AppendLogResponse{ErrorCode: ENotALeader}, newError(ENotALeader, "raft.AppendLogs", "partition is not leader"))
	}

	switch {
	case logID == c.logIDToSend && c.requestOnGoing:
		// Heartbeat / re-send: no state change, no wire traffic.
		c.mu.Unlock()
		return resolvedFuture(&AppendLogResponse{
			ErrorCode:      ESucceeded,
			CurrentTerm:    c.logTermToSend,
			LastLogID:      c.lastLogIDSent,
			LastLogTerm:    c.lastLogTermSent,
			CommittedLogID: c.committedLogID,
		}, nil)

	case logID < c.logIDToSend:
		// Stale submission already covered by a later or equal target.
		c.mu.Unlock()
		return resolvedFuture(&AppendLogResponse{
			ErrorCode:      ESucceeded,
			CurrentTerm:    c.logTermToSend,
			LastLogID:      c.lastLogIDSent,
			LastLogTerm:    c.lastLogTermSent,
			CommittedLogID: c.committedLogID,
		}, nil)

	case c.requestOnGoing:
		// logID > logIDToSend and an RPC is already in flight: coalesce or
		// reject for backpressure.
		if !c.cachingPromise.tryAddObserver(c.maxOutstanding) {
			c.metrics.submissionsRejected.Inc()
			c.mu.Unlock()
			return resolvedFuture(&AppendLogResponse{ErrorCode: ETooManyRequests},
				newError(ETooManyRequests, "raft.AppendLogs", "too many coalesced waiters"))
		}
		c.pendingReq = &pendingRequest{term: term, logID: logID, committed: committedID, prevTerm: prevTerm, prevID: prevID}
		c.metrics.submissionsCoalesced.Inc()
		fut := c.cachingPromise.future()
		c.mu.Unlock()
		return fut

	default:
		// logID > logIDToSend and idle: accept, rotate promises, build and
		// dispatch a fresh request.
		if prevTerm < c.lastLogTermSent || prevID < c.lastLogIDSent {
			c.mu.Unlock()
			return resolvedFuture(&AppendLogResponse{ErrorCode: EException},
				newError(EException, "raft.AppendLogs", "submission violates prev-sent monotonicity"))
		}

		c.logTermToSend = term
		c.logIDToSend = logID
		c.lastLogTermSent = prevTerm
		c.lastLogIDSent = prevID
		c.committedLogID = committedID

		c.livePromise = c.cachingPromise
		c.cachingPromise = newPromise()
		c.pendingReq = nil
		c.requestOnGoing = true
		c.metrics.submissionsAccepted.Inc()
		c.metrics.requestOnGoing.Set(1)

		fut := c.livePromise.future()

		req, err := c.buildRequestLocked()
		if err != nil {
			c.logger.Error("wal has no entries for requested range; snapshot transfer required", zap.Error(err))
			c.stopped = true
			c.setResponseLocked(&AppendLogResponse{ErrorCode: EException}, err)
			c.mu.Unlock()
			return fut
		}

		c.mu.Unlock()
		go c.dispatch(req)
		return fut
	}
}
