package raft

import (
	"fmt"
	"strings"
)

// Error codes carried on AppendLogResponse/AskForVoteResponse.ErrorCode and
// wrapped by Error below.
const (
	// ESucceeded is not really an error; it is the code carried on a
	// successful AppendLogResponse so classification can switch on a single
	// string field.
	ESucceeded = "succeeded"

	// ELogGap indicates the follower's tail is behind what the leader
	// assumed; recoverable inside the RPC driver by resending from the
	// follower-reported position.
	ELogGap = "log gap"

	// EHostStopped indicates the channel has been stopped and will not
	// accept or continue any RPC.
	EHostStopped = "host stopped"

	// ENotALeader indicates the owning Partition is not currently leader.
	ENotALeader = "not a leader"

	// EException collapses transport failures (timeouts, connection
	// errors, serialization errors) into a single submitter-visible code.
	EException = "exception"

	// ETooManyRequests indicates MAX_OUTSTANDING coalesced waiters is
	// already at capacity for this channel.
	ETooManyRequests = "too many requests"

	// EInternal marks a fatal condition this library cannot recover from,
	// as opposed to one of the RPC-classification codes above.
	EInternal = "internal error"
)

// Error is the follower channel's error type: a code for automated
// classification, an op describing where it happened, a human-readable
// message, and an optional wrapped cause for chaining.
type Error struct {
	Code string
	Op   string
	Msg  string
	Err  error
}

// newError builds an Error from the three fields every call site in this
// package actually sets.
func newError(code, op, msg string) *Error {
	return &Error{Code: code, Op: op, Msg: msg}
}

// Error implements the error interface, writing out the recursive chain of
// messages the way the code/op/msg triple is meant to be read: op first,
// then message, then any wrapped cause.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else if e.Err != nil {
		b.WriteString(e.Err.Error())
		return b.String()
	} else {
		b.WriteString(fmt.Sprintf("<%s>", e.Code))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorCode returns the code carried by err, walking the Err chain if the
// immediate error doesn't carry one. Returns EInternal for any non-Error.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	e, ok := err.(*Error)
	if !ok {
		return EInternal
	}
	if e == nil {
		return ""
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Err != nil {
		return ErrorCode(e.Err)
	}
	return EInternal
}

// ErrorOp returns the op carried by err, if any.
func ErrorOp(err error) string {
	if err == nil {
		return ""
	}
	e, ok := err.(*Error)
	if !ok || e == nil {
		return ""
	}
	if e.Op != "" {
		return e.Op
	}
	if e.Err != nil {
		return ErrorOp(e.Err)
	}
	return ""
}

// ErrorMessage returns the human-readable message carried by err, if any.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	e, ok := err.(*Error)
	if !ok || e == nil {
		return ""
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return ErrorMessage(e.Err)
	}
	return ""
}

// ErrLogGapFatal is returned by buildRequestLocked when the Wal iterator over the
// requested range is empty — snapshot transfer would be required to recover,
// and this library does not implement snapshot transfer (see DESIGN.md).
var ErrLogGapFatal = newError(EInternal, "raft.buildRequest",
	"wal has no entries in the requested range; snapshot transfer required but not implemented")

// ErrClosed is returned by AppendLogs and AskForVote on a stopped channel,
// and is the error Stop resolves idle promise slots with.
var ErrClosed = newError(EHostStopped, "raft.FollowerChannel", "channel is stopped")
