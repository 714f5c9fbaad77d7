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

	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/core"
	"github.com/probechain/agentledger/core/types"
)

// LedgerAPIBackend implements agentapi.Backend for the ledger service.
type LedgerAPIBackend struct {
	ledger *Ledger
}

func (b *LedgerAPIBackend) ChainID() uint64 {
	return b.ledger.blockchain.Signer().ChainID()
}

func (b *LedgerAPIBackend) CurrentHeader() *types.Header {
	return b.ledger.blockchain.CurrentHeader()
}

func (b *LedgerAPIBackend) SendTx(ctx context.Context, signedTx *types.Transaction) error {
	return b.ledger.txPool.Add(signedTx)
}

func (b *LedgerAPIBackend) GetPoolTransaction(hash common.Hash) *types.Transaction {
	return b.ledger.txPool.Get(hash)
}

func (b *LedgerAPIBackend) GetPoolNonce(ctx context.Context, addr common.Address) (uint64, error) {
	return b.ledger.txPool.Nonce(addr), nil
}

func (b *LedgerAPIBackend) GetReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return b.ledger.blockchain.GetReceipt(hash), nil
}

func (b *LedgerAPIBackend) GetConfig(ctx context.Context) (*types.GlobalConfig, error) {
	return b.ledger.blockchain.GetConfig()
}

func (b *LedgerAPIBackend) GetAgent(ctx context.Context, agentID string) (*core.Agent, error) {
	return b.ledger.blockchain.GetAgent(agentID)
}

func (b *LedgerAPIBackend) GetAgents(ctx context.Context) ([]*core.Agent, error) {
	return b.ledger.blockchain.Agents()
}

func (b *LedgerAPIBackend) GetAgentsByOwner(ctx context.Context, owner common.Address) ([]*core.Agent, error) {
	return b.ledger.blockchain.AgentsByOwner(owner)
}

func (b *LedgerAPIBackend) GetValidation(ctx context.Context, agentID string, taskHash common.Hash) (*types.ValidationRegistry, bool, error) {
	return b.ledger.blockchain.GetValidation(agentID, taskHash)
}

func (b *LedgerAPIBackend) GetAccount(ctx context.Context, addr common.Address) (*core.Account, error) {
	return b.ledger.blockchain.GetAccount(addr)
}
