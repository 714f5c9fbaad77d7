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
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/probechain/agentledger/core"
	"github.com/probechain/agentledger/core/types"
)

// ErrNotFound is returned by TransactionReceipt for unsealed transactions.
var ErrNotFound = errors.New("not found")

// Client is a typed wrapper around the ledger's RPC API.
type Client struct {
	c *rpc.Client
}

// Dial connects a client to the given URL.
func Dial(rawurl string) (*Client, error) {
	return DialContext(context.Background(), rawurl)
}

// DialContext connects a client to the given URL with context.
func DialContext(ctx context.Context, rawurl string) (*Client, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return NewClient(c), nil
}

// NewClient creates a client that uses the given RPC client.
func NewClient(c *rpc.Client) *Client {
	return &Client{c}
}

// Close closes the underlying RPC connection.
func (c *Client) Close() {
	c.c.Close()
}

// Status returns the chain id and head of the ledger.
func (c *Client) Status(ctx context.Context) (*StatusResult, error) {
	var res StatusResult
	if err := c.c.CallContext(ctx, &res, "agent_status"); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetPoolNonce returns the next nonce of addr, pending transactions included.
func (c *Client) GetPoolNonce(ctx context.Context, addr common.Address) (uint64, error) {
	var nonce hexutil.Uint64
	err := c.c.CallContext(ctx, &nonce, "agent_getTransactionCount", addr)
	return uint64(nonce), err
}

// SendTransaction submits a signed transaction.
func (c *Client) SendTransaction(ctx context.Context, tx *types.Transaction) (common.Hash, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return common.Hash{}, err
	}
	var hash common.Hash
	err = c.c.CallContext(ctx, &hash, "agent_sendRawTransaction", hexutil.Bytes(raw))
	return hash, err
}

// TransactionReceipt returns the receipt of a sealed transaction.
func (c *Client) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	var r *types.Receipt
	err := c.c.CallContext(ctx, &r, "agent_getTransactionReceipt", hash)
	if err == nil && r == nil {
		return nil, ErrNotFound
	}
	return r, err
}

// WaitReceipt polls until the transaction is sealed or ctx ends.
func (c *Client) WaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		r, err := c.TransactionReceipt(ctx, hash)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Config returns the global configuration.
func (c *Client) Config(ctx context.Context) (*types.GlobalConfig, error) {
	var cfg types.GlobalConfig
	if err := c.c.CallContext(ctx, &cfg, "agent_getConfig"); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Agent returns the agent registered under agentID.
func (c *Client) Agent(ctx context.Context, agentID string) (*core.Agent, error) {
	var agent core.Agent
	if err := c.c.CallContext(ctx, &agent, "agent_getAgent", agentID); err != nil {
		return nil, err
	}
	return &agent, nil
}

// Agents returns all agents, or those of owner if it is non-nil.
func (c *Client) Agents(ctx context.Context, owner *common.Address) ([]*core.Agent, error) {
	var agents []*core.Agent
	err := c.c.CallContext(ctx, &agents, "agent_getAgents", owner)
	return agents, err
}

// Validation returns the validation of agentID's task.
func (c *Client) Validation(ctx context.Context, agentID string, task common.Hash) (*ValidationResult, error) {
	res := &ValidationResult{ValidationRegistry: new(types.ValidationRegistry)}
	if err := c.c.CallContext(ctx, res, "agent_getValidation", agentID, task); err != nil {
		return nil, err
	}
	return res, nil
}
