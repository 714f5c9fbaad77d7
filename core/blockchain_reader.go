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
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/core/rawdb"
	"github.com/probechain/agentledger/core/state"
	"github.com/probechain/agentledger/core/types"
)

// Agent is the combined view of an agent's identity, reputation and rewards.
type Agent struct {
	Address     common.Address            `json:"address"`
	Identity    *types.IdentityRegistry   `json:"identity"`
	Reputation  *types.ReputationRegistry `json:"reputation"`
	RewardPool  *types.RewardPool         `json:"rewardPool"`
	PoolBalance uint64                    `json:"poolBalance"`
}

// Account is the raw view of a ledger account.
type Account struct {
	Address common.Address   `json:"address"`
	Kind    types.RecordKind `json:"kind"`
	Nonce   uint64           `json:"nonce"`
	Balance uint64           `json:"balance"`
	Record  types.Record     `json:"record,omitempty"`
}

func readAgent(statedb *state.StateDB, addr common.Address) *Agent {
	identity := statedb.GetIdentity(addr)
	if identity == nil {
		return nil
	}
	pool := RewardPoolAddress(addr)
	return &Agent{
		Address:     addr,
		Identity:    identity,
		Reputation:  statedb.GetReputation(ReputationAddress(addr)),
		RewardPool:  statedb.GetRewardPool(pool),
		PoolBalance: statedb.GetBalance(pool),
	}
}

// GetConfig returns the global configuration.
func (bc *BlockChain) GetConfig() (cfg *types.GlobalConfig, err error) {
	err = bc.View(func(statedb *state.StateDB) error {
		if cfg = statedb.GetConfig(ConfigAddress()); cfg == nil {
			return ErrConfigNotInitialized
		}
		return nil
	})
	return cfg, err
}

// GetAgent returns the agent registered under agentID.
func (bc *BlockChain) GetAgent(agentID string) (agent *Agent, err error) {
	err = bc.View(func(statedb *state.StateDB) error {
		if agent = readAgent(statedb, IdentityAddress(agentID)); agent == nil {
			return ErrAgentNotFound
		}
		return nil
	})
	return agent, err
}

// GetValidation returns the validation of agentID's task.
func (bc *BlockChain) GetValidation(agentID string, taskHash common.Hash) (v *types.ValidationRegistry, consumed bool, err error) {
	err = bc.View(func(statedb *state.StateDB) error {
		addr := ValidationAddress(IdentityAddress(agentID), taskHash)
		if v = statedb.GetValidation(addr); v == nil {
			return ErrValidationNotFound
		}
		consumed = statedb.GetConsumedMarker(ConsumedAddress(addr)) != nil
		return nil
	})
	return v, consumed, err
}

// GetAccount returns the account at addr. Missing accounts are reported as
// empty general accounts.
func (bc *BlockChain) GetAccount(addr common.Address) (acc *Account, err error) {
	err = bc.View(func(statedb *state.StateDB) error {
		acc = &Account{
			Address: addr,
			Kind:    statedb.Kind(addr),
			Nonce:   statedb.GetNonce(addr),
			Balance: statedb.GetBalance(addr),
			Record:  statedb.GetRecord(addr),
		}
		return nil
	})
	return acc, err
}

// AgentsByOwner returns the agents owned by owner, ordered by agent id.
func (bc *BlockChain) AgentsByOwner(owner common.Address) (agents []*Agent, err error) {
	err = bc.View(func(statedb *state.StateDB) error {
		for _, addr := range rawdb.ReadOwnerIdentities(bc.db, owner) {
			if agent := readAgent(statedb, addr); agent != nil {
				agents = append(agents, agent)
			}
		}
		return nil
	})
	sortAgents(agents)
	return agents, err
}

// Agents returns every registered agent, ordered by agent id.
func (bc *BlockChain) Agents() (agents []*Agent, err error) {
	err = bc.View(func(statedb *state.StateDB) error {
		var addrs []common.Address
		err := rawdb.IterateAccounts(bc.db, func(addr common.Address, acc *types.StateAccount) bool {
			if acc.Kind == types.KindIdentity {
				addrs = append(addrs, addr)
			}
			return true
		})
		if err != nil {
			return err
		}
		for _, addr := range addrs {
			if agent := readAgent(statedb, addr); agent != nil {
				agents = append(agents, agent)
			}
		}
		return nil
	})
	sortAgents(agents)
	return agents, err
}

func sortAgents(agents []*Agent) {
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].Identity.AgentID < agents[j].Identity.AgentID
	})
}
