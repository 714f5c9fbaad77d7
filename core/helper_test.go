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
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/crypto"
	"github.com/probechain/agentledger/probedb/leveldb"
	"github.com/stretchr/testify/require"
)

const testStartTime = 1_700_000_000

type testAccount struct {
	key  *ecdsa.PrivateKey
	addr common.Address
}

func newTestAccount(t *testing.T) testAccount {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return testAccount{key: key, addr: crypto.PubkeyToAddress(key.PublicKey)}
}

// testLedger is a chain over an in-memory database with a clock that only
// moves when told to.
type testLedger struct {
	t     *testing.T
	db    *leveldb.Database
	chain *BlockChain
	time  uint64
}

func newTestLedger(t *testing.T, genesis *Genesis, workers int) *testLedger {
	t.Helper()
	db := leveldb.NewMemory()
	t.Cleanup(func() { db.Close() })

	if genesis == nil {
		genesis = DefaultGenesis()
	}
	genesis.Timestamp = testStartTime
	_, err := SetupGenesis(db, genesis)
	require.NoError(t, err)

	chain, err := NewBlockChain(db, &CacheConfig{StateCacheSize: 128, Workers: workers})
	require.NoError(t, err)
	return &testLedger{t: t, db: db, chain: chain, time: testStartTime}
}

// sign signs d for from with the given nonce.
func (l *testLedger) sign(from testAccount, nonce uint64, d types.TxData) *types.Transaction {
	d.Nonce = nonce
	return types.MustSignNewTx(from.key, l.chain.Signer(), &d)
}

// seal advances the clock and seals txs as the next batch.
func (l *testLedger) seal(advance uint64, txs ...*types.Transaction) types.Receipts {
	l.t.Helper()
	l.time += advance
	_, receipts, err := l.chain.InsertBatch(txs, l.time)
	require.NoError(l.t, err)
	require.Len(l.t, receipts, len(txs))
	return receipts
}

// send seals a single transaction from the sender's next nonce.
func (l *testLedger) send(from testAccount, d types.TxData) *types.Receipt {
	l.t.Helper()
	return l.seal(1, l.sign(from, l.chain.Nonce(from.addr), d))[0]
}

// mustSend is send requiring success.
func (l *testLedger) mustSend(from testAccount, d types.TxData) *types.Receipt {
	l.t.Helper()
	r := l.send(from, d)
	require.False(l.t, r.Failed(), "%v failed: %s", d.Kind, r.Error)
	return r
}

func (l *testLedger) balance(addr common.Address) uint64 {
	l.t.Helper()
	acc, err := l.chain.GetAccount(addr)
	require.NoError(l.t, err)
	return acc.Balance
}

func (l *testLedger) agent(agentID string) *Agent {
	l.t.Helper()
	agent, err := l.chain.GetAgent(agentID)
	require.NoError(l.t, err)
	return agent
}

func initConfig(rate uint16, treasury common.Address) types.TxData {
	return types.TxData{Kind: types.InitializeConfig, CommissionRate: rate, Treasury: treasury}
}

func registerAgent(agentID, uri string) types.TxData {
	return types.TxData{Kind: types.RegisterAgent, AgentID: agentID, MetadataURI: uri}
}

func submitValidation(agentID string, task common.Hash, approved bool, evidence string) types.TxData {
	return types.TxData{Kind: types.SubmitValidation, AgentID: agentID, TaskHash: task, Approved: approved, EvidenceURI: evidence}
}

func updateReputation(agentID string, task common.Hash) types.TxData {
	return types.TxData{Kind: types.UpdateReputation, AgentID: agentID, TaskHash: task}
}

func claimRewards(agentID string) types.TxData {
	return types.TxData{Kind: types.ClaimRewards, AgentID: agentID}
}

func fundRewardPool(agentID string, amount uint64) types.TxData {
	return types.TxData{Kind: types.FundRewardPool, AgentID: agentID, Amount: amount}
}
