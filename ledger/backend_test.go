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

package ledger

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/probechain/agentledger/core"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/crypto"
	"github.com/probechain/agentledger/internal/agentapi"
	"github.com/probechain/agentledger/probedb/leveldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerOverRPC(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	config := Defaults
	config.Genesis = &core.Genesis{
		ChainID: 99,
		Alloc:   core.GenesisAlloc{from: {Balance: 5_000_000}},
	}
	l, err := New(leveldb.NewMemory(), &config)
	require.NoError(t, err)
	defer l.Stop()

	server, err := agentapi.NewServer(l.APIBackend, l.APIs(), agentapi.DefaultConfig)
	require.NoError(t, err)
	defer server.Stop()
	srv := httptest.NewServer(server.Handler())
	defer srv.Close()
	client, err := agentapi.Dial(srv.URL)
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	status, err := client.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(99), uint64(status.ChainID))

	rate := hexutil.Uint64(300)
	task := common.Hash{0xaa}
	steps := []agentapi.TransactionArgs{
		{Kind: "initialize_config", CommissionRate: &rate, Treasury: &common.Address{0x77}},
		{Kind: "register_agent", AgentID: "agent-1", MetadataURI: "uri://a"},
		{Kind: "submit_validation", AgentID: "agent-1", TaskHash: &task, Approved: true},
		{Kind: "update_reputation", AgentID: "agent-1", TaskHash: &task},
		{Kind: "register_agent", AgentID: "team/agent-2", MetadataURI: "uri://b"},
	}
	var hashes []common.Hash
	for _, args := range steps {
		args.From = &from
		require.NoError(t, args.SetDefaults(ctx, client))
		d, err := args.ToTxData(uint64(status.ChainID))
		require.NoError(t, err)
		hash, err := client.SendTransaction(ctx, types.MustSignNewTx(key, l.BlockChain().Signer(), d))
		require.NoError(t, err)
		hashes = append(hashes, hash)
	}
	nonce, err := client.GetPoolNonce(ctx, from)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(steps)), nonce)

	batch, receipts, err := l.Miner().Seal()
	require.NoError(t, err)
	require.NotNil(t, batch)
	require.Len(t, receipts, len(steps))

	for i, hash := range hashes {
		r, err := client.TransactionReceipt(ctx, hash)
		require.NoError(t, err)
		assert.False(t, r.Failed(), "step %d: %s", i, r.Error)
	}
	agent, err := client.Agent(ctx, "agent-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(5100), agent.Reputation.Score)
	assert.Equal(t, uint64(100_000), agent.RewardPool.ClaimableAmount)

	agent, err = client.Agent(ctx, "team/agent-2")
	require.NoError(t, err)
	assert.Equal(t, "uri://b", agent.Identity.MetadataURI)
	owned, err := client.Agents(ctx, &from)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	v, err := client.Validation(ctx, "agent-1", task)
	require.NoError(t, err)
	assert.True(t, v.Consumed)

	cfg, err := client.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.TotalValidations)
}

func TestLedgerReopen(t *testing.T) {
	dir := t.TempDir()
	config := Defaults

	db, err := OpenDatabase(dir, &config, false)
	require.NoError(t, err)
	l, err := New(db, &config)
	require.NoError(t, err)
	head := l.BlockChain().CurrentHeader()
	require.NoError(t, l.Stop())
	require.NoError(t, l.Stop())

	db, err = OpenDatabase(dir, &config, false)
	require.NoError(t, err)
	config.Genesis = &core.Genesis{ChainID: 12345}
	_, err = New(db, &config)
	assert.ErrorIs(t, err, core.ErrGenesisMismatch)

	config.Genesis = nil
	l, err = New(db, &config)
	require.NoError(t, err)
	defer l.Stop()
	assert.Equal(t, head.Hash(), l.BlockChain().CurrentHeader().Hash())
	assert.Equal(t, uint64(core.DefaultChainID), l.APIBackend.ChainID())
}
