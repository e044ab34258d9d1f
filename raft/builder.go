package raft

// buildRequestLocked must be called with mu held, reads only from the Wal
// iterator (no suspension points allowed in this critical section), and
// produces one wire request for the range (last_log_id_sent, log_id_to_send].
//
// An empty iterator over a non-empty requested range is fatal: snapshot
// transfer would be required to recover and this library does not
// implement it (see DESIGN.md's Open Question decision). ErrLogGapFatal is
// returned in that case.
func (c *FollowerChannel) buildRequestLocked() (*AppendLogRequest, error) {
	from := c.lastLogIDSent + 1
	to := c.logIDToSend

	it := c.partition.Wal().Iterator(from, to)
	if !it.Valid() {
		return nil, ErrLogGapFatal
	}

	logTerm := it.Term()
	entries := make([]LogEntry, 0, c.maxBatch)
	for it.Valid() && it.Term() == logTerm && len(entries) < c.maxBatch {
		entries = append(entries, it.Entry())
		it.Next()
	}

	return &AppendLogRequest{
		Space:           c.partition.SpaceID(),
		Part:            c.partition.PartitionID(),
		CurrentTerm:     c.logTermToSend,
		LeaderAddr:      c.partition.LeaderAddr(),
		LastLogID:       c.logIDToSend,
		CommittedLogID:  c.committedLogID,
		LogTerm:         logTerm,
		LastLogTermSent: c.lastLogTermSent,
		LastLogIDSent:   c.lastLogIDSent,
		LogStrList:      entries,
	}, nil
}
