// Package wal implements the log storage FollowerChannel reads from when
// building AppendLog requests: raft.Wal / raft.LogIter, plus two concrete
// backings.
package wal

import (
	"sync"

	"github.com/latticedb/raftfollower/raft"
)

// record pairs one log entry with the term it was appended under.
type record struct {
	term  uint64
	entry raft.LogEntry
}

// MemWal is an in-memory, append-only log keyed by contiguous 1-based log
// ids: entries accumulate in a slice rather than being flushed to a file,
// since durability across process restarts is not this package's job for
// the in-memory variant.
type MemWal struct {
	mu      sync.RWMutex
	records []record
}

// NewMemWal returns an empty log.
func NewMemWal() *MemWal {
	return &MemWal{}
}

// Append adds one entry under term, assigning it the next contiguous log
// id, and returns that id.
func (w *MemWal) Append(term uint64, entry raft.LogEntry) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, record{term: term, entry: entry})
	return uint64(len(w.records))
}

// LastLogID returns the highest assigned log id, or 0 if empty.
func (w *MemWal) LastLogID() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return uint64(len(w.records))
}

// Iterator implements raft.Wal. The returned iterator holds a private
// snapshot of the requested range so concurrent appends never invalidate
// an iteration already in progress.
func (w *MemWal) Iterator(fromInclusive, toInclusive uint64) raft.LogIter {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if fromInclusive < 1 || fromInclusive > toInclusive || fromInclusive > uint64(len(w.records)) {
		return &memLogIter{}
	}
	to := toInclusive
	if to > uint64(len(w.records)) {
		to = uint64(len(w.records))
	}

	snapshot := make([]record, to-fromInclusive+1)
	copy(snapshot, w.records[fromInclusive-1:to])
	return &memLogIter{records: snapshot}
}

type memLogIter struct {
	records []record
	pos     int
}

func (it *memLogIter) Valid() bool { return it.pos < len(it.records) }
func (it *memLogIter) Next()       { it.pos++ }

func (it *memLogIter) Term() uint64 {
	if !it.Valid() {
		return 0
	}
	return it.records[it.pos].term
}

func (it *memLogIter) Entry() raft.LogEntry {
	return it.records[it.pos].entry
}
