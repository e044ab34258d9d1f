package wal

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/latticedb/raftfollower/raft"
)

// storedRecord is the gob-encoded value stored per log id in bbolt,
// carrying the term alongside the entry the way the in-memory record does.
type storedRecord struct {
	Term  uint64
	Entry raft.LogEntry
}

// BoltWal is a durable Wal backed by a single bbolt bucket per
// (space, partition), following the influxdb tree's one-bucket-per-
// collection convention. Log ids are stored as big-endian uint64 keys so
// bbolt's natural key ordering doubles as log-id ordering for range scans.
type BoltWal struct {
	db     *bbolt.DB
	bucket []byte
}

// OpenBoltWal opens (creating if necessary) the bucket for one partition
// inside an already-open bbolt database. Callers own the *bbolt.DB
// lifecycle; multiple BoltWal instances may share one DB across
// partitions.
func OpenBoltWal(db *bbolt.DB, space, part uint64) (*BoltWal, error) {
	bucket := bucketName(space, part)
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("wal: open bucket: %w", err)
	}
	return &BoltWal{db: db, bucket: bucket}, nil
}

func bucketName(space, part uint64) []byte {
	return []byte(fmt.Sprintf("wal/%d/%d", space, part))
}

func encodeKey(logID uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, logID)
	return b
}

// Append writes entry under term at the next contiguous log id and returns
// that id.
func (w *BoltWal) Append(term uint64, entry raft.LogEntry) (uint64, error) {
	var id uint64
	err := w.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(w.bucket)
		id = uint64(b.Stats().KeyN) + 1

		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(storedRecord{Term: term, Entry: entry}); err != nil {
			return err
		}
		return b.Put(encodeKey(id), buf.Bytes())
	})
	if err != nil {
		return 0, fmt.Errorf("wal: append: %w", err)
	}
	return id, nil
}

// LastLogID returns the highest log id stored, or 0 if empty.
func (w *BoltWal) LastLogID() (uint64, error) {
	var id uint64
	err := w.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(w.bucket).Cursor()
		k, _ := c.Last()
		if k == nil {
			return nil
		}
		id = binary.BigEndian.Uint64(k)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("wal: last log id: %w", err)
	}
	return id, nil
}

// Iterator implements raft.Wal by reading the requested range into memory
// inside a single read transaction, then handing back a self-contained
// iterator so its lifetime isn't tied to the bbolt transaction.
func (w *BoltWal) Iterator(fromInclusive, toInclusive uint64) raft.LogIter {
	if fromInclusive < 1 || fromInclusive > toInclusive {
		return &memLogIter{}
	}

	var records []record
	_ = w.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(w.bucket).Cursor()
		for k, v := c.Seek(encodeKey(fromInclusive)); k != nil; k, v = c.Next() {
			id := binary.BigEndian.Uint64(k)
			if id > toInclusive {
				break
			}
			var sr storedRecord
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&sr); err != nil {
				return err
			}
			records = append(records, record{term: sr.Term, entry: sr.Entry})
		}
		return nil
	})

	return &memLogIter{records: records}
}
