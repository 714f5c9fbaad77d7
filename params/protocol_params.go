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

package params

// Record namespaces. A record address is derived from one of these tags plus
// the seeds listed next to it.
const (
	ConfigSeed     = "config"      // ()
	IdentitySeed   = "identity"    // (agent_id)
	ReputationSeed = "reputation"  // (identity)
	RewardPoolSeed = "reward_pool" // (identity)
	ValidationSeed = "validation"  // (identity, task_hash)
	ConsumedSeed   = "consumed"    // (validation)
)

// Field bounds.
const (
	MaxAgentIDLength     = 64
	MaxMetadataURILength = 200
	MaxEvidenceURILength = 200
	TaskHashLength       = 32
)

// Economic parameters, in base units.
const (
	ValidationFee         uint64 = 1_000_000
	RegistrationFee       uint64 = 5_000_000 // reserved, not charged
	BaseReward            uint64 = 100_000
	DefaultCommissionRate uint16 = 300
	MaxCommissionRate     uint16 = 1000
	CommissionDenominator uint64 = 10_000

	// RewardClaimInterval is the minimum number of seconds between two
	// successful claims on the same reward pool.
	RewardClaimInterval uint64 = 86400
)

// Reputation score bounds.
const (
	InitialReputationScore uint64 = 5000
	MaxReputationScore     uint64 = 10_000
	MinReputationScore     uint64 = 0
)
