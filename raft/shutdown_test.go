package raft

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStop_ResolvesIdlePromisesImmediately(t *testing.T) {
	c := newTestChannel(newTestWal(), &fakeClient{})
	c.Stop()

	require.True(t, c.Stopped())

	c.mu.Lock()
	live := c.livePromise
	c.mu.Unlock()
	resp, err := live.future().Wait(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	require.Equal(t, EHostStopped, resp.ErrorCode)

	done := make(chan struct{})
	go func() {
		c.WaitForStop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitForStop never returned for an idle channel")
	}
}

func TestStop_WaitsForInFlightRPC(t *testing.T) {
	client := &fakeClient{gate: make(chan struct{})}
	c := newTestChannel(newTestWal(), client)

	fut := c.AppendLogs(1, 4, 0, 0, 0)
	waitUntilRequestOnGoing(t, c)

	// request_on_going is set before dispatch's goroutine runs; give it time
	// to pass its pre-dispatch status check and block in the client, so
	// that Stop really lands while the RPC is in flight.
	time.Sleep(10 * time.Millisecond)

	c.Stop()

	waitDone := make(chan struct{})
	go func() {
		c.WaitForStop()
		close(waitDone)
	}()

	select {
	case <-waitDone:
		t.Fatal("WaitForStop returned before the in-flight RPC completed")
	case <-time.After(50 * time.Millisecond):
	}

	close(client.gate)

	select {
	case <-waitDone:
	case <-time.After(time.Second):
		t.Fatal("WaitForStop never observed RPC completion")
	}

	resp, err := fut.Wait(context.Background())
	require.Error(t, err)
	require.Equal(t, EHostStopped, resp.ErrorCode)
}

func TestPauseResume_RejectsThenAcceptsAgain(t *testing.T) {
	c := newTestChannel(newTestWal(), &fakeClient{})
	c.Pause()

	resp, _ := c.AppendLogs(1, 4, 0, 0, 0).Wait(context.Background())
	require.Equal(t, ENotALeader, resp.ErrorCode)

	c.Resume()

	resp, err := c.AppendLogs(1, 4, 0, 0, 0).Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, ESucceeded, resp.ErrorCode)
}

func TestStop_IsIdempotent(t *testing.T) {
	c := newTestChannel(newTestWal(), &fakeClient{})
	c.Stop()
	c.Stop()
	require.True(t, c.Stopped())
}
