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
	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/crypto"
	"github.com/probechain/agentledger/params"
)

// ConfigAddress is the address of the singleton GlobalConfig record.
func ConfigAddress() common.Address {
	return crypto.CreateRecordAddress(params.ConfigSeed)
}

// IdentityAddress is the address of the identity registered under agentID.
func IdentityAddress(agentID string) common.Address {
	return crypto.CreateRecordAddress(params.IdentitySeed, []byte(agentID))
}

// ReputationAddress is the address of the reputation owned by identity.
func ReputationAddress(identity common.Address) common.Address {
	return crypto.CreateRecordAddress(params.ReputationSeed, identity.Bytes())
}

// RewardPoolAddress is the address of the reward pool owned by identity.
func RewardPoolAddress(identity common.Address) common.Address {
	return crypto.CreateRecordAddress(params.RewardPoolSeed, identity.Bytes())
}

// ValidationAddress is the address of the validation of one task of identity.
func ValidationAddress(identity common.Address, taskHash common.Hash) common.Address {
	return crypto.CreateRecordAddress(params.ValidationSeed, identity.Bytes(), taskHash.Bytes())
}

// ConsumedAddress is the address of the marker written once validation has
// been folded into a reputation.
func ConsumedAddress(validation common.Address) common.Address {
	return crypto.CreateRecordAddress(params.ConsumedSeed, validation.Bytes())
}

// AgentAddresses groups the records that make up one agent.
type AgentAddresses struct {
	Identity   common.Address
	Reputation common.Address
	RewardPool common.Address
}

// AgentAddressesOf derives the record addresses of agentID.
func AgentAddressesOf(agentID string) AgentAddresses {
	identity := IdentityAddress(agentID)
	return AgentAddresses{
		Identity:   identity,
		Reputation: ReputationAddress(identity),
		RewardPool: RewardPoolAddress(identity),
	}
}
