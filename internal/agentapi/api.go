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

package agentapi

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/probechain/agentledger/core"
	"github.com/probechain/agentledger/core/types"
)

// Namespace is the RPC namespace of the ledger API.
const Namespace = "agent"

// GetAPIs returns the RPC services of the ledger API.
func GetAPIs(apiBackend Backend) []rpc.API {
	return []rpc.API{
		{
			Namespace: Namespace,
			Service:   NewPublicAgentAPI(apiBackend),
		}, {
			Namespace: Namespace,
			Service:   NewPublicTransactionPoolAPI(apiBackend),
		},
	}
}

// StatusResult is the response of agent_status.
type StatusResult struct {
	ChainID hexutil.Uint64 `json:"chainId"`
	Head    *types.Header  `json:"head"`
}

// ValidationResult is the response of agent_getValidation.
type ValidationResult struct {
	*types.ValidationRegistry
	Address  common.Address `json:"address"`
	Consumed bool           `json:"consumed"`
}

// AccountResult is the response of agent_getAccount.
type AccountResult struct {
	*core.Account
	NextNonce hexutil.Uint64 `json:"nextNonce"`
}

// PublicAgentAPI provides read access to the agent registry.
type PublicAgentAPI struct {
	b Backend
}

// NewPublicAgentAPI creates a new agent registry API.
func NewPublicAgentAPI(b Backend) *PublicAgentAPI {
	return &PublicAgentAPI{b}
}

// ChainId returns the chain id transactions must be signed for.
func (s *PublicAgentAPI) ChainId() hexutil.Uint64 {
	return hexutil.Uint64(s.b.ChainID())
}

// Status returns the chain id and the head of the ledger.
func (s *PublicAgentAPI) Status() *StatusResult {
	return &StatusResult{
		ChainID: hexutil.Uint64(s.b.ChainID()),
		Head:    s.b.CurrentHeader(),
	}
}

// GetConfig returns the global configuration.
func (s *PublicAgentAPI) GetConfig(ctx context.Context) (*types.GlobalConfig, error) {
	cfg, err := s.b.GetConfig(ctx)
	return cfg, wrapError(err)
}

// GetAgent returns the agent registered under agentID.
func (s *PublicAgentAPI) GetAgent(ctx context.Context, agentID string) (*core.Agent, error) {
	agent, err := s.b.GetAgent(ctx, agentID)
	return agent, wrapError(err)
}

// GetAgents returns every registered agent, or only those of owner.
func (s *PublicAgentAPI) GetAgents(ctx context.Context, owner *common.Address) ([]*core.Agent, error) {
	var (
		agents []*core.Agent
		err    error
	)
	if owner != nil {
		agents, err = s.b.GetAgentsByOwner(ctx, *owner)
	} else {
		agents, err = s.b.GetAgents(ctx)
	}
	if err != nil {
		return nil, wrapError(err)
	}
	if agents == nil {
		agents = []*core.Agent{}
	}
	return agents, nil
}

// GetValidation returns the validation of an agent's task and whether it
// has been consumed by a reputation update.
func (s *PublicAgentAPI) GetValidation(ctx context.Context, agentID string, task common.Hash) (*ValidationResult, error) {
	validation, consumed, err := s.b.GetValidation(ctx, agentID, task)
	if err != nil {
		return nil, wrapError(err)
	}
	return &ValidationResult{
		ValidationRegistry: validation,
		Address:            core.ValidationAddress(core.IdentityAddress(agentID), task),
		Consumed:           consumed,
	}, nil
}

// GetAccount returns the raw account at addr together with the next nonce
// it can use.
func (s *PublicAgentAPI) GetAccount(ctx context.Context, addr common.Address) (*AccountResult, error) {
	acc, err := s.b.GetAccount(ctx, addr)
	if err != nil {
		return nil, wrapError(err)
	}
	nonce, err := s.b.GetPoolNonce(ctx, addr)
	if err != nil {
		return nil, wrapError(err)
	}
	return &AccountResult{Account: acc, NextNonce: hexutil.Uint64(nonce)}, nil
}

// PublicTransactionPoolAPI exposes the transaction pool and receipts.
type PublicTransactionPoolAPI struct {
	b Backend
}

// NewPublicTransactionPoolAPI creates a new transaction pool API.
func NewPublicTransactionPoolAPI(b Backend) *PublicTransactionPoolAPI {
	return &PublicTransactionPoolAPI{b}
}

// SendRawTransaction adds a signed, RLP encoded transaction to the pool and
// returns its hash.
func (s *PublicTransactionPoolAPI) SendRawTransaction(ctx context.Context, input hexutil.Bytes) (common.Hash, error) {
	if len(input) > txMaxSize {
		return common.Hash{}, &apiError{code: errcodeInvalidInput, err: fmt.Errorf("%w: %d > %d", errOversizedTx, len(input), txMaxSize)}
	}
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(input); err != nil {
		return common.Hash{}, &apiError{code: errcodeInvalidInput, err: fmt.Errorf("invalid transaction: %w", err)}
	}
	if err := s.b.SendTx(ctx, tx); err != nil {
		return common.Hash{}, wrapError(err)
	}
	log.Debug("Submitted transaction", "hash", tx.Hash(), "kind", tx.Kind(), "nonce", tx.Nonce())
	return tx.Hash(), nil
}

// GetTransactionReceipt returns the receipt of a sealed transaction, or nil
// if it has not been sealed.
func (s *PublicTransactionPoolAPI) GetTransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	receipt, err := s.b.GetReceipt(ctx, hash)
	return receipt, wrapError(err)
}

// GetRawTransactionByHash returns the encoding of a transaction still waiting
// in the pool.
func (s *PublicTransactionPoolAPI) GetRawTransactionByHash(hash common.Hash) (hexutil.Bytes, error) {
	tx := s.b.GetPoolTransaction(hash)
	if tx == nil {
		return nil, nil
	}
	return tx.MarshalBinary()
}

// GetTransactionCount returns the next nonce of addr, pooled transactions
// included.
func (s *PublicTransactionPoolAPI) GetTransactionCount(ctx context.Context, addr common.Address) (hexutil.Uint64, error) {
	nonce, err := s.b.GetPoolNonce(ctx, addr)
	return hexutil.Uint64(nonce), wrapError(err)
}
