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

package core

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTask = common.HexToHash("0x6b2c1e9f3a8d4c5b7e0f1a2b3c4d5e6f708192a3b4c5d6e7f8091a2b3c4d5e6f")

// TestAgentLifecycle walks one agent through registration, a validation,
// the reputation update and the reward claim.
func TestAgentLifecycle(t *testing.T) {
	var (
		authority = newTestAccount(t)
		treasury  = newTestAccount(t)
		owner     = newTestAccount(t)
		validator = newTestAccount(t)
		funder    = newTestAccount(t)
	)
	l := newTestLedger(t, &Genesis{
		ChainID:   DefaultChainID,
		Authority: authority.addr,
		Alloc: GenesisAlloc{
			validator.addr: {Balance: 10_000_000},
			funder.addr:    {Balance: 1_000_000},
		},
	}, 4)

	l.mustSend(authority, initConfig(300, treasury.addr))
	reg := l.mustSend(owner, registerAgent("agent-1", "uri://a"))
	registeredAt := l.time

	agent := l.agent("agent-1")
	assert.Equal(t, owner.addr, agent.Identity.Owner)
	assert.Equal(t, "uri://a", agent.Identity.MetadataURI)
	assert.True(t, agent.Identity.IsActive)
	assert.Equal(t, registeredAt, agent.Identity.CreatedAt)
	assert.Equal(t, uint64(params.InitialReputationScore), agent.Reputation.Score)
	assert.Equal(t, registeredAt, agent.RewardPool.LastClaim)
	assert.Equal(t, uint64(2), reg.BatchNumber)

	sub := l.mustSend(validator, submitValidation("agent-1", testTask, true, "uri://e"))
	assert.Equal(t, uint64(30_000), sub.Value)
	assert.Equal(t, uint64(30_000), l.balance(treasury.addr))
	assert.Equal(t, uint64(10_000_000-30_000), l.balance(validator.addr))

	v, consumed, err := l.chain.GetValidation("agent-1", testTask)
	require.NoError(t, err)
	assert.False(t, consumed)
	assert.Equal(t, validator.addr, v.Validator)
	assert.True(t, v.Approved)
	assert.Equal(t, "uri://e", v.EvidenceURI)

	upd := l.mustSend(owner, updateReputation("agent-1", testTask))
	assert.Equal(t, uint64(100_000), upd.Value)

	agent = l.agent("agent-1")
	assert.Equal(t, uint64(5100), agent.Reputation.Score)
	assert.Equal(t, uint64(1), agent.Reputation.TotalTasks)
	assert.Equal(t, uint64(1), agent.Reputation.SuccessfulTasks)
	assert.Equal(t, uint64(100_000), agent.RewardPool.ClaimableAmount)

	_, consumed, err = l.chain.GetValidation("agent-1", testTask)
	require.NoError(t, err)
	assert.True(t, consumed)

	l.mustSend(funder, fundRewardPool("agent-1", 100_000))

	early := l.send(owner, claimRewards("agent-1"))
	require.True(t, early.Failed())
	assert.Equal(t, ErrRewardClaimTooEarly.Error(), early.Error)

	l.time = registeredAt + params.RewardClaimInterval - 1
	claim := l.send(owner, claimRewards("agent-1"))
	require.False(t, claim.Failed(), claim.Error)
	assert.Equal(t, uint64(100_000), claim.Value)
	assert.Equal(t, uint64(100_000), l.balance(owner.addr))

	agent = l.agent("agent-1")
	assert.Zero(t, agent.RewardPool.ClaimableAmount)
	assert.Equal(t, uint64(100_000), agent.RewardPool.TotalClaimed)
	assert.Equal(t, l.time, agent.RewardPool.LastClaim)
	assert.Zero(t, agent.PoolBalance)

	again := l.send(owner, claimRewards("agent-1"))
	assert.Equal(t, ErrNoRewardsAvailable.Error(), again.Error)

	cfg, err := l.chain.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.TotalAgents)
	assert.Equal(t, uint64(1), cfg.TotalValidations)
	assert.Equal(t, authority.addr, cfg.Authority)
}

func TestInitializeConfig(t *testing.T) {
	authority, other := newTestAccount(t), newTestAccount(t)
	l := newTestLedger(t, &Genesis{ChainID: DefaultChainID, Authority: authority.addr}, 1)

	r := l.send(authority, initConfig(params.MaxCommissionRate+1, common.Address{1}))
	assert.Equal(t, ErrInvalidCommissionRate.Error(), r.Error)

	r = l.send(other, initConfig(300, common.Address{1}))
	require.True(t, r.Failed())
	assert.Contains(t, r.Error, ErrUnauthorized.Error())

	l.mustSend(authority, initConfig(params.MaxCommissionRate, common.Address{1}))

	r = l.send(authority, initConfig(100, common.Address{2}))
	assert.Equal(t, ErrConfigAlreadyInitialized.Error(), r.Error)

	cfg, err := l.chain.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, uint16(params.MaxCommissionRate), cfg.CommissionRate)
	assert.Equal(t, common.Address{1}, cfg.Treasury)
}

func TestRegisterAgent(t *testing.T) {
	owner, other := newTestAccount(t), newTestAccount(t)
	l := newTestLedger(t, nil, 1)

	r := l.send(owner, registerAgent("agent-1", "uri://a"))
	assert.Equal(t, ErrConfigNotInitialized.Error(), r.Error)

	l.mustSend(owner, initConfig(0, common.Address{}))
	l.mustSend(owner, registerAgent("agent-1", "uri://a"))

	r = l.send(other, registerAgent("agent-1", "uri://b"))
	assert.Equal(t, ErrAgentAlreadyRegistered.Error(), r.Error)

	tests := []struct {
		agentID, uri string
		err          error
	}{
		{"", "uri://a", ErrEmptyAgentID},
		{strings.Repeat("a", params.MaxAgentIDLength+1), "uri://a", ErrAgentIDTooLong},
		{"agent-2", strings.Repeat("u", params.MaxMetadataURILength+1), ErrMetadataURITooLong},
	}
	for _, tt := range tests {
		r := l.send(other, registerAgent(tt.agentID, tt.uri))
		assert.Equal(t, tt.err.Error(), r.Error)
	}

	// Boundary lengths are accepted.
	maxID := strings.Repeat("a", params.MaxAgentIDLength)
	l.mustSend(other, registerAgent(maxID, strings.Repeat("u", params.MaxMetadataURILength)))

	cfg, err := l.chain.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), cfg.TotalAgents)

	agent := l.agent("agent-1")
	assert.Equal(t, owner.addr, agent.Identity.Owner)
	assert.Equal(t, "uri://a", agent.Identity.MetadataURI)

	owned, err := l.chain.AgentsByOwner(other.addr)
	require.NoError(t, err)
	require.Len(t, owned, 1)

	all, err := l.chain.Agents()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, maxID, all[0].Identity.AgentID)
	assert.Equal(t, "agent-1", all[1].Identity.AgentID)
}

func TestUpdateMetadata(t *testing.T) {
	owner, other := newTestAccount(t), newTestAccount(t)
	l := newTestLedger(t, nil, 1)
	l.mustSend(owner, initConfig(0, common.Address{}))
	l.mustSend(owner, registerAgent("agent-1", "uri://a"))

	r := l.send(other, types.TxData{Kind: types.UpdateMetadata, AgentID: "agent-1", MetadataURI: "uri://x"})
	assert.Equal(t, ErrUnauthorized.Error(), r.Error)

	for i := 0; i < 2; i++ {
		l.mustSend(owner, types.TxData{Kind: types.UpdateMetadata, AgentID: "agent-1", MetadataURI: "uri://b"})
		agent := l.agent("agent-1")
		assert.Equal(t, "uri://b", agent.Identity.MetadataURI)
		assert.Equal(t, l.time, agent.Identity.UpdatedAt)
		assert.Less(t, agent.Identity.CreatedAt, agent.Identity.UpdatedAt)
	}

	r = l.send(owner, types.TxData{Kind: types.UpdateMetadata, AgentID: "agent-1", MetadataURI: strings.Repeat("u", 201)})
	assert.Equal(t, ErrMetadataURITooLong.Error(), r.Error)

	r = l.send(owner, types.TxData{Kind: types.UpdateMetadata, AgentID: "missing", MetadataURI: "uri://b"})
	require.True(t, r.Failed())
	assert.Contains(t, r.Error, ErrAgentNotFound.Error())
}

func TestDeactivatedAgent(t *testing.T) {
	owner, validator := newTestAccount(t), newTestAccount(t)
	l := newTestLedger(t, nil, 1)
	l.mustSend(owner, initConfig(0, common.Address{}))
	l.mustSend(owner, registerAgent("agent-1", "uri://a"))
	l.mustSend(validator, submitValidation("agent-1", testTask, true, ""))

	r := l.send(validator, types.TxData{Kind: types.DeactivateAgent, AgentID: "agent-1"})
	assert.Equal(t, ErrUnauthorized.Error(), r.Error)

	l.mustSend(owner, types.TxData{Kind: types.DeactivateAgent, AgentID: "agent-1"})
	assert.False(t, l.agent("agent-1").Identity.IsActive)

	rejected := []struct {
		from testAccount
		data types.TxData
	}{
		{owner, types.TxData{Kind: types.UpdateMetadata, AgentID: "agent-1", MetadataURI: "uri://b"}},
		{owner, types.TxData{Kind: types.DeactivateAgent, AgentID: "agent-1"}},
		{validator, submitValidation("agent-1", common.Hash{9}, true, "")},
		{owner, updateReputation("agent-1", testTask)},
		{owner, claimRewards("agent-1")},
	}
	for _, tt := range rejected {
		r := l.send(tt.from, tt.data)
		assert.Equal(t, ErrAgentNotActive.Error(), r.Error, "%v", tt.data.Kind)
	}
	assert.Equal(t, uint64(5000), l.agent("agent-1").Reputation.Score)
}

func TestSubmitValidationDuplicate(t *testing.T) {
	owner, validator, treasury := newTestAccount(t), newTestAccount(t), newTestAccount(t)
	l := newTestLedger(t, &Genesis{
		ChainID: DefaultChainID,
		Alloc:   GenesisAlloc{validator.addr: {Balance: 5_000_000}},
	}, 1)
	l.mustSend(owner, initConfig(500, treasury.addr))
	l.mustSend(owner, registerAgent("agent-1", "uri://a"))

	l.mustSend(validator, submitValidation("agent-1", testTask, false, "uri://e"))
	r := l.send(validator, submitValidation("agent-1", testTask, true, "uri://f"))
	assert.Equal(t, ErrValidationAlreadyExists.Error(), r.Error)

	// Only the first submission was charged and recorded.
	assert.Equal(t, uint64(50_000), l.balance(treasury.addr))
	assert.Equal(t, uint64(5_000_000-50_000), l.balance(validator.addr))
	v, _, err := l.chain.GetValidation("agent-1", testTask)
	require.NoError(t, err)
	assert.False(t, v.Approved)

	r = l.send(validator, submitValidation("agent-1", common.Hash{1}, true, strings.Repeat("u", 201)))
	assert.Equal(t, ErrEvidenceURITooLong.Error(), r.Error)
}

func TestSubmitValidationInsufficientFunds(t *testing.T) {
	owner, validator, treasury, funder := newTestAccount(t), newTestAccount(t), newTestAccount(t), newTestAccount(t)
	l := newTestLedger(t, &Genesis{
		ChainID: DefaultChainID,
		Alloc:   GenesisAlloc{funder.addr: {Balance: 1_000_000}},
	}, 1)
	l.mustSend(owner, initConfig(300, treasury.addr))
	l.mustSend(owner, registerAgent("agent-1", "uri://a"))

	tx := l.sign(validator, 0, submitValidation("agent-1", testTask, true, ""))
	r := l.seal(1, tx)[0]
	require.True(t, r.Failed())
	assert.Contains(t, r.Error, ErrInsufficientFunds.Error())

	// The failed submission left neither a record nor a counter behind.
	_, _, err := l.chain.GetValidation("agent-1", testTask)
	assert.ErrorIs(t, err, ErrValidationNotFound)
	cfg, err := l.chain.GetConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.TotalValidations)
	assert.Equal(t, uint64(1), l.chain.Nonce(validator.addr))

	// Once funded, the same signed transaction cannot be sealed again.
	l.mustSend(funder, types.TxData{Kind: types.Transfer, To: validator.addr, Amount: 100_000})
	r = l.seal(1, tx)[0]
	require.True(t, r.Failed())
	assert.Contains(t, r.Error, ErrNonceTooLow.Error())
	assert.Zero(t, l.balance(treasury.addr))
	assert.Equal(t, uint64(100_000), l.balance(validator.addr))
	_, _, err = l.chain.GetValidation("agent-1", testTask)
	assert.ErrorIs(t, err, ErrValidationNotFound)

	pool := NewTxPool(DefaultTxPoolConfig, l.chain)
	defer pool.Stop()
	assert.ErrorIs(t, pool.Add(tx), ErrNonceTooLow)
}

func TestUpdateReputationConsumesOnce(t *testing.T) {
	owner, validator := newTestAccount(t), newTestAccount(t)
	l := newTestLedger(t, nil, 1)
	l.mustSend(owner, initConfig(0, common.Address{}))
	l.mustSend(owner, registerAgent("agent-1", "uri://a"))

	r := l.send(owner, updateReputation("agent-1", testTask))
	require.True(t, r.Failed())
	assert.Contains(t, r.Error, ErrValidationNotFound.Error())

	l.mustSend(validator, submitValidation("agent-1", testTask, false, ""))
	upd := l.mustSend(owner, updateReputation("agent-1", testTask))
	assert.Zero(t, upd.Value)

	r = l.send(owner, updateReputation("agent-1", testTask))
	assert.Equal(t, ErrValidationConsumed.Error(), r.Error)

	rep := l.agent("agent-1").Reputation
	assert.Equal(t, uint64(4950), rep.Score)
	assert.Equal(t, uint64(1), rep.TotalTasks)
	assert.Equal(t, uint64(1), rep.FailedTasks)
	assert.Zero(t, l.agent("agent-1").RewardPool.ClaimableAmount)
}

func TestClaimRewardsUnderfunded(t *testing.T) {
	owner, validator := newTestAccount(t), newTestAccount(t)
	l := newTestLedger(t, nil, 1)
	l.mustSend(owner, initConfig(0, common.Address{}))
	l.mustSend(owner, registerAgent("agent-1", "uri://a"))
	l.mustSend(validator, submitValidation("agent-1", testTask, true, ""))
	l.mustSend(owner, updateReputation("agent-1", testTask))

	l.time += params.RewardClaimInterval
	r := l.send(owner, claimRewards("agent-1"))
	require.True(t, r.Failed())
	assert.Contains(t, r.Error, ErrInsufficientFunds.Error())
	assert.Equal(t, uint64(100_000), l.agent("agent-1").RewardPool.ClaimableAmount)

	r = l.send(validator, claimRewards("agent-1"))
	assert.Equal(t, ErrUnauthorized.Error(), r.Error)
}

func TestFundAndTransfer(t *testing.T) {
	owner, funder, recipient := newTestAccount(t), newTestAccount(t), newTestAccount(t)
	l := newTestLedger(t, &Genesis{
		ChainID: DefaultChainID,
		Alloc:   GenesisAlloc{funder.addr: {Balance: 1000}},
	}, 1)
	l.mustSend(owner, initConfig(0, common.Address{}))
	l.mustSend(owner, registerAgent("agent-1", "uri://a"))

	r := l.send(funder, fundRewardPool("agent-1", 0))
	assert.Equal(t, ErrZeroAmount.Error(), r.Error)
	r = l.send(funder, fundRewardPool("agent-1", 1001))
	assert.Contains(t, r.Error, ErrInsufficientFunds.Error())

	l.mustSend(funder, fundRewardPool("agent-1", 400))
	assert.Equal(t, uint64(400), l.agent("agent-1").PoolBalance)

	l.mustSend(funder, types.TxData{Kind: types.Transfer, To: recipient.addr, Amount: 100})
	assert.Equal(t, uint64(100), l.balance(recipient.addr))
	assert.Equal(t, uint64(500), l.balance(funder.addr))

	r = l.send(funder, types.TxData{Kind: types.Transfer, To: IdentityAddress("agent-1"), Amount: 100})
	assert.Contains(t, r.Error, ErrInvalidInstruction.Error())
}

func TestFailedTransactionConsumesNonce(t *testing.T) {
	owner := newTestAccount(t)
	l := newTestLedger(t, nil, 1)
	l.mustSend(owner, initConfig(0, common.Address{}))
	assert.Equal(t, uint64(1), l.chain.Nonce(owner.addr))

	r := l.send(owner, registerAgent("", "uri://a"))
	require.True(t, r.Failed())
	assert.Equal(t, uint64(2), l.chain.Nonce(owner.addr))

	stale := l.sign(owner, 1, registerAgent("agent-1", ""))
	r = l.seal(1, stale)[0]
	assert.Contains(t, r.Error, ErrNonceTooLow.Error())
	assert.Equal(t, uint64(2), l.chain.Nonce(owner.addr))

	gap := l.sign(owner, 5, registerAgent("agent-1", ""))
	r = l.seal(1, gap)[0]
	assert.Contains(t, r.Error, ErrNonceTooHigh.Error())
	assert.Equal(t, uint64(2), l.chain.Nonce(owner.addr))

	stored := l.chain.GetReceipt(gap.Hash())
	require.NotNil(t, stored)
	assert.Equal(t, r.Error, stored.Error)
}

func TestInsertBatch(t *testing.T) {
	owner := newTestAccount(t)
	l := newTestLedger(t, nil, 1)

	txs := types.Transactions{
		l.sign(owner, 0, initConfig(0, common.Address{})),
		l.sign(owner, 1, registerAgent("agent-1", "uri://a")),
	}
	l.seal(10, txs...)

	head := l.chain.CurrentHeader()
	assert.Equal(t, uint64(1), head.Number)
	assert.Equal(t, uint64(testStartTime+10), head.Time)
	assert.Equal(t, l.chain.GetHeaderByNumber(0).Hash(), head.ParentHash)

	batch := l.chain.GetBatch(1)
	require.NotNil(t, batch)
	assert.Equal(t, head.Hash(), batch.Hash())
	assert.Equal(t, txs.Hashes(), batch.Transactions().Hashes())

	_, _, err := l.chain.InsertBatch(nil, testStartTime)
	assert.ErrorIs(t, err, ErrTimeRegression)

	// A reopened chain resumes from the stored head.
	reopened, err := NewBlockChain(l.db, nil)
	require.NoError(t, err)
	assert.Equal(t, head.Hash(), reopened.CurrentHeader().Hash())
	agent, err := reopened.GetAgent("agent-1")
	require.NoError(t, err)
	assert.Equal(t, owner.addr, agent.Identity.Owner)

	l.chain.Stop()
	_, _, err = l.chain.InsertBatch(nil, l.time+1)
	assert.ErrorIs(t, err, errChainStopped)
}

func TestChainHeadEvent(t *testing.T) {
	owner := newTestAccount(t)
	l := newTestLedger(t, nil, 1)

	ch := make(chan ChainHeadEvent, 1)
	sub := l.chain.SubscribeChainHeadEvent(ch)
	defer sub.Unsubscribe()

	l.send(owner, initConfig(0, common.Address{}))
	ev := <-ch
	assert.Equal(t, uint64(1), ev.Batch.NumberU64())
	require.Len(t, ev.Receipts, 1)
	assert.False(t, ev.Receipts[0].Failed())
}
