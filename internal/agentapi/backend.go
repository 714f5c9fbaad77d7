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

// Package agentapi implements the JSON-RPC interface of the agent ledger.
package agentapi

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/core"
	"github.com/probechain/agentledger/core/types"
)

// Backend interface provides the common API services (that are provided by
// both full and light clients) with access to necessary functions.
type Backend interface {
	ChainID() uint64
	CurrentHeader() *types.Header

	// Transaction pool API
	SendTx(ctx context.Context, signedTx *types.Transaction) error
	GetPoolTransaction(txHash common.Hash) *types.Transaction
	GetPoolNonce(ctx context.Context, addr common.Address) (uint64, error)
	GetReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)

	// Ledger API
	GetConfig(ctx context.Context) (*types.GlobalConfig, error)
	GetAgent(ctx context.Context, agentID string) (*core.Agent, error)
	GetAgents(ctx context.Context) ([]*core.Agent, error)
	GetAgentsByOwner(ctx context.Context, owner common.Address) ([]*core.Agent, error)
	GetValidation(ctx context.Context, agentID string, taskHash common.Hash) (*types.ValidationRegistry, bool, error)
	GetAccount(ctx context.Context, addr common.Address) (*core.Account, error)
}
