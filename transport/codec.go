// Package transport implements the wire encoding and HTTP client/server
// pair that carries AppendLog and AskForVote RPCs between a leader's
// FollowerChannel and a follower process.
package transport

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/snappy"
)

// frameChecksumMismatchError is returned by Decode when the trailing
// checksum does not match the decompressed payload.
type frameChecksumMismatchError struct {
	want, got uint64
}

func (e *frameChecksumMismatchError) Error() string {
	return fmt.Sprintf("transport: checksum mismatch: want %x, got %x", e.want, e.got)
}

// Encode gob-encodes v, snappy-compresses the result, and appends an
// xxhash checksum of the compressed frame so Decode can detect truncation
// or corruption before ever handing gob a malformed stream.
//
// gob is used rather than a generated protobuf codec: there is no .proto
// toolchain in this pack to generate one from, and the wire types
// (AppendLogRequest/Response, AskForVoteRequest/Response) are plain
// exported structs gob already round-trips without any struct tags.
func Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("transport: gob encode: %w", err)
	}

	compressed := snappy.Encode(nil, buf.Bytes())
	sum := xxhash.Sum64(compressed)

	out := make([]byte, len(compressed)+8)
	copy(out, compressed)
	putUint64(out[len(compressed):], sum)
	return out, nil
}

// Decode reverses Encode into v, which must be a pointer to the original
// type.
func Decode(frame []byte, v interface{}) error {
	if len(frame) < 8 {
		return io.ErrUnexpectedEOF
	}
	compressed := frame[:len(frame)-8]
	want := getUint64(frame[len(frame)-8:])
	got := xxhash.Sum64(compressed)
	if want != got {
		return &frameChecksumMismatchError{want: want, got: got}
	}

	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return fmt.Errorf("transport: snappy decode: %w", err)
	}

	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(v); err != nil {
		return fmt.Errorf("transport: gob decode: %w", err)
	}
	return nil
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}
