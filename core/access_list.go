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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/core/types"
)

// AccessList returns every address the transaction may read or write when
// sent by from. Transactions with disjoint access lists commute. treasury is
// the configured commission recipient, which never changes once set.
func AccessList(tx *types.Transaction, from, treasury common.Address) mapset.Set[common.Address] {
	set := mapset.NewSet(from)
	switch tx.Kind() {
	case types.InitializeConfig:
		set.Add(ConfigAddress())

	case types.RegisterAgent:
		addrs := AgentAddressesOf(tx.AgentID())
		set.Append(ConfigAddress(), addrs.Identity, addrs.Reputation, addrs.RewardPool)

	case types.UpdateMetadata, types.DeactivateAgent:
		set.Add(IdentityAddress(tx.AgentID()))

	case types.SubmitValidation:
		identity := IdentityAddress(tx.AgentID())
		set.Append(ConfigAddress(), identity, ValidationAddress(identity, tx.TaskHash()), treasury)

	case types.UpdateReputation:
		addrs := AgentAddressesOf(tx.AgentID())
		validation := ValidationAddress(addrs.Identity, tx.TaskHash())
		set.Append(addrs.Identity, addrs.Reputation, addrs.RewardPool, validation, ConsumedAddress(validation))

	case types.ClaimRewards, types.FundRewardPool:
		addrs := AgentAddressesOf(tx.AgentID())
		set.Append(addrs.Identity, addrs.RewardPool)

	case types.Transfer:
		set.Add(tx.To())
	}
	return set
}
