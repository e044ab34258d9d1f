package raft

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestWal() *memWal {
	w := &memWal{}
	w.append(1, LogEntry{ClusterID: 1, Payload: []byte("a")})
	w.append(1, LogEntry{ClusterID: 1, Payload: []byte("b")})
	w.append(2, LogEntry{ClusterID: 1, Payload: []byte("c")})
	w.append(2, LogEntry{ClusterID: 1, Payload: []byte("d")})
	return w
}

func newTestChannel(wal *memWal, client *fakeClient) *FollowerChannel {
	part := &fakePartition{space: 1, part: 2, leaderAddr: "leader:9999", wal: wal}
	transport := &fakeTransport{client: client}
	return NewFollowerChannel(part, transport, "follower:1234")
}

func TestBuildRequestLocked_StopsAtTermBoundary(t *testing.T) {
	c := newTestChannel(newTestWal(), &fakeClient{})
	c.mu.Lock()
	c.logIDToSend = 4
	c.lastLogIDSent = 0
	c.lastLogTermSent = 0
	req, err := c.buildRequestLocked()
	c.mu.Unlock()

	require.NoError(t, err)
	require.Equal(t, uint64(1), req.LogTerm)
	require.Len(t, req.LogStrList, 2)
	require.Equal(t, []byte("a"), req.LogStrList[0].Payload)
	require.Equal(t, []byte("b"), req.LogStrList[1].Payload)
}

func TestBuildRequestLocked_ResumesAtNextTerm(t *testing.T) {
	c := newTestChannel(newTestWal(), &fakeClient{})
	c.mu.Lock()
	c.logIDToSend = 4
	c.lastLogIDSent = 2
	c.lastLogTermSent = 1
	req, err := c.buildRequestLocked()
	c.mu.Unlock()

	require.NoError(t, err)
	require.Equal(t, uint64(2), req.LogTerm)
	require.Len(t, req.LogStrList, 2)
}

func TestBuildRequestLocked_RespectsMaxBatch(t *testing.T) {
	wal := &memWal{}
	for i := 0; i < 10; i++ {
		wal.append(1, LogEntry{ClusterID: 1, Payload: []byte{byte(i)}})
	}
	c := newTestChannel(wal, &fakeClient{})
	c.maxBatch = 3
	c.mu.Lock()
	c.logIDToSend = 10
	req, err := c.buildRequestLocked()
	c.mu.Unlock()

	require.NoError(t, err)
	require.Len(t, req.LogStrList, 3)
}

func TestBuildRequestLocked_EmptyRangeIsFatal(t *testing.T) {
	c := newTestChannel(newTestWal(), &fakeClient{})
	c.mu.Lock()
	c.logIDToSend = 100
	c.lastLogIDSent = 50
	_, err := c.buildRequestLocked()
	c.mu.Unlock()

	require.ErrorIs(t, err, ErrLogGapFatal)
}
