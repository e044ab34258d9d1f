package raft_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/latticedb/raftfollower/raft"
	"github.com/latticedb/raftfollower/raft/mocks"
)

type stubWal struct{}

func (stubWal) Iterator(fromInclusive, toInclusive uint64) raft.LogIter { return nil }

type stubPartition struct{ wal raft.Wal }

func (p stubPartition) SpaceID() uint64     { return 1 }
func (p stubPartition) PartitionID() uint64 { return 1 }
func (p stubPartition) LeaderAddr() string  { return "leader:9000" }
func (p stubPartition) Wal() raft.Wal       { return p.wal }

func TestFollowerChannel_AskForVote_UsesMockedClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().
		AskForVote(gomock.Any(), gomock.Any()).
		Return(&raft.AskForVoteResponse{ErrorCode: raft.ESucceeded, VoteGranted: true, CurrentTerm: 4}, nil)

	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().Client("follower:1234").Return(client, nil)

	c := raft.NewFollowerChannel(stubPartition{wal: stubWal{}}, transport, "follower:1234")

	resp, err := c.AskForVote(context.Background(), &raft.AskForVoteRequest{Term: 4, CandidateID: 1})
	require.NoError(t, err)
	require.True(t, resp.VoteGranted)
}

func TestFollowerChannel_AskForVote_TranslatesMockedDialError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().Client("follower:1234").Return(nil, errors.New("connection refused"))

	c := raft.NewFollowerChannel(stubPartition{wal: stubWal{}}, transport, "follower:1234")

	_, err := c.AskForVote(context.Background(), &raft.AskForVoteRequest{Term: 4})
	require.Error(t, err)
}
