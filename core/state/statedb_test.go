// Copyright 2026 The go-probe Authors
// This file is part of the go-probe library.
//
// The go-probe library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probe library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probe library. If not, see <http://www.gnu.org/licenses/>.

package state

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/core/rawdb"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/probedb/leveldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) (*StateDB, *leveldb.Database) {
	disk := leveldb.NewMemory()
	t.Cleanup(func() { disk.Close() })
	return New(NewDatabase(disk)), disk
}

func TestCreateRecord(t *testing.T) {
	s, _ := newTestState(t)
	addr := common.Address{1}

	id := &types.IdentityRegistry{Owner: common.Address{2}, AgentID: "agent-1", IsActive: true}
	require.NoError(t, s.CreateRecord(addr, id))
	assert.Equal(t, id, s.GetIdentity(addr))
	assert.Equal(t, types.KindIdentity, s.Kind(addr))

	// Typed getters never return a record of another kind.
	assert.Nil(t, s.GetReputation(addr))

	err := s.CreateRecord(addr, &types.IdentityRegistry{AgentID: "other"})
	require.ErrorIs(t, err, ErrRecordExists)
	assert.Equal(t, "agent-1", s.GetIdentity(addr).AgentID)
}

func TestCreateRecordCarriesBalance(t *testing.T) {
	s, _ := newTestState(t)
	addr := common.Address{1}

	s.AddBalance(addr, 500)
	require.NoError(t, s.CreateRecord(addr, &types.RewardPool{Agent: common.Address{9}}))
	assert.Equal(t, uint64(500), s.GetBalance(addr))
	assert.NotNil(t, s.GetRewardPool(addr))
}

func TestGetRecordReturnsCopy(t *testing.T) {
	s, _ := newTestState(t)
	addr := common.Address{1}
	require.NoError(t, s.CreateRecord(addr, &types.ReputationRegistry{Score: 5000}))

	rep := s.GetReputation(addr)
	rep.Score = 1
	assert.Equal(t, uint64(5000), s.GetReputation(addr).Score, "mutating a copy must not change state")

	require.NoError(t, s.SetRecord(addr, rep))
	assert.Equal(t, uint64(1), s.GetReputation(addr).Score)
}

func TestSetRecordKindMismatch(t *testing.T) {
	s, _ := newTestState(t)
	addr := common.Address{1}
	require.NoError(t, s.CreateRecord(addr, &types.ReputationRegistry{Score: 5000}))

	require.ErrorIs(t, s.SetRecord(addr, &types.RewardPool{}), ErrRecordMissing)
	require.ErrorIs(t, s.SetRecord(common.Address{2}, &types.RewardPool{}), ErrRecordMissing)
}

func TestSnapshotRevert(t *testing.T) {
	s, _ := newTestState(t)
	a, b := common.Address{1}, common.Address{2}

	s.AddBalance(a, 100)
	require.NoError(t, s.CreateRecord(b, &types.ReputationRegistry{Score: 5000}))
	s.Finalise()

	snap := s.Snapshot()
	s.SubBalance(a, 40)
	s.SetNonce(a, 7)
	rep := s.GetReputation(b)
	rep.Score = 6000
	require.NoError(t, s.SetRecord(b, rep))
	require.NoError(t, s.CreateRecord(common.Address{3}, &types.ConsumedMarker{}))

	s.RevertToSnapshot(snap)

	assert.Equal(t, uint64(100), s.GetBalance(a))
	assert.Zero(t, s.GetNonce(a))
	assert.Equal(t, uint64(5000), s.GetReputation(b).Score)
	assert.False(t, s.Exist(common.Address{3}))
}

func TestNestedSnapshots(t *testing.T) {
	s, _ := newTestState(t)
	a := common.Address{1}

	outer := s.Snapshot()
	s.AddBalance(a, 1)
	inner := s.Snapshot()
	s.AddBalance(a, 2)
	s.RevertToSnapshot(inner)
	assert.Equal(t, uint64(1), s.GetBalance(a))
	s.RevertToSnapshot(outer)
	assert.False(t, s.Exist(a))
}

func TestInvalidSnapshotId(t *testing.T) {
	s, _ := newTestState(t)
	assert.Panics(t, func() { s.RevertToSnapshot(3) })
}

func TestUndeclaredAccess(t *testing.T) {
	s, _ := newTestState(t)
	allowed, denied := common.Address{1}, common.Address{2}

	s.Prepare(common.Hash{0xaa}, 0, mapset.NewSet(allowed))
	s.AddBalance(allowed, 5)
	assert.NoError(t, s.AccessError())

	assert.Zero(t, s.GetBalance(denied))
	require.ErrorIs(t, s.AccessError(), ErrUndeclaredAccess)
	require.ErrorIs(t, s.CreateRecord(denied, &types.ConsumedMarker{}), ErrUndeclaredAccess)

	// A fresh transaction starts with a clean access state.
	s.Prepare(common.Hash{0xbb}, 1, nil)
	assert.NoError(t, s.AccessError())
	assert.Equal(t, uint64(5), s.GetBalance(allowed))
}

func TestCommitAndReload(t *testing.T) {
	s, disk := newTestState(t)
	owner := common.Address{0xf}
	id := common.Address{1}

	require.NoError(t, s.CreateRecord(id, &types.IdentityRegistry{Owner: owner, AgentID: "agent-1", IsActive: true}))
	s.AddBalance(owner, 42)
	s.SetNonce(owner, 1)

	batch := disk.NewBatch()
	written, err := s.Commit(batch)
	require.NoError(t, err)
	require.Len(t, written, 2)
	require.NoError(t, batch.Write())
	s.Database().Update(written)

	// A fresh view over the same database sees the committed accounts.
	fresh := New(s.Database())
	assert.Equal(t, "agent-1", fresh.GetIdentity(id).AgentID)
	assert.Equal(t, uint64(42), fresh.GetBalance(owner))
	assert.Equal(t, uint64(1), fresh.GetNonce(owner))
	assert.Equal(t, []common.Address{id}, rawdb.ReadOwnerIdentities(disk, owner))

	// Nothing is left to commit.
	again, err := s.Commit(disk.NewBatch())
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestRevertedCreationNotCommitted(t *testing.T) {
	s, disk := newTestState(t)
	snap := s.Snapshot()
	require.NoError(t, s.CreateRecord(common.Address{1}, &types.ConsumedMarker{}))
	s.RevertToSnapshot(snap)

	written, err := s.Commit(disk.NewBatch())
	require.NoError(t, err)
	assert.Empty(t, written)
}

func TestCorruptAccount(t *testing.T) {
	disk := leveldb.NewMemory()
	defer disk.Close()
	addr := common.Address{1}
	rawdb.WriteAccount(disk, addr, &types.StateAccount{Kind: types.KindIdentity, Data: []byte{0x01, 0x02}})

	s := New(NewDatabase(disk))
	assert.Nil(t, s.GetIdentity(addr))
	require.Error(t, s.Error())
	_, err := s.Commit(disk.NewBatch())
	require.Error(t, err)
}
