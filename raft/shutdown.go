package raft

// Pause marks the channel as not backing a leader partition. Submissions
// made while paused fail immediately with ENotALeader; an RPC already in
// flight is allowed to complete and its result is discarded by the
// dispatch driver's post-RPC paused check.
func (c *FollowerChannel) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

// Resume clears a prior Pause, allowing new submissions to be accepted
// again. It does not replay or resend anything: the next AppendLogs call
// drives progress from wherever it left off.
func (c *FollowerChannel) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
}

// Stop marks the channel closed to new submissions and returns without
// waiting for an in-flight RPC. If no request is on going it resolves both
// promise slots with EHostStopped itself; otherwise they are resolved with
// EHostStopped when the in-flight RPC completes and the driver's post-RPC
// stopped check fires. Call WaitForStop to block for that quiescence.
func (c *FollowerChannel) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	if !c.requestOnGoing {
		c.setResponseLocked(&AppendLogResponse{ErrorCode: EHostStopped}, ErrClosed)
	}
	c.mu.Unlock()
}

// WaitForStop blocks until Stop has been called and no RPC is in flight.
// dispatch's post-RPC stopped check guarantees request_on_going is driven
// to false and setResponseLocked's cond.Broadcast wakes waiters here.
func (c *FollowerChannel) WaitForStop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for !c.stopped || c.requestOnGoing {
		c.cond.Wait()
	}
}

// Stopped reports whether Stop has been called.
func (c *FollowerChannel) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}
