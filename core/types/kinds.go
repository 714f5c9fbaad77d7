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

package types

import "fmt"

// InstructionKind selects the handler a transaction is dispatched to.
type InstructionKind uint8

const (
	InitializeConfig InstructionKind = 0x01 // create the singleton config
	RegisterAgent    InstructionKind = 0x02 // create identity, reputation, reward pool
	UpdateMetadata   InstructionKind = 0x03
	SubmitValidation InstructionKind = 0x04
	UpdateReputation InstructionKind = 0x05 // consume one validation
	DeactivateAgent  InstructionKind = 0x06
	ClaimRewards     InstructionKind = 0x07

	FundRewardPool InstructionKind = 0x10
	Transfer       InstructionKind = 0x11
)

var instructionNames = map[InstructionKind]string{
	InitializeConfig: "initialize_config",
	RegisterAgent:    "register_agent",
	UpdateMetadata:   "update_metadata",
	SubmitValidation: "submit_validation",
	UpdateReputation: "update_reputation",
	DeactivateAgent:  "deactivate_agent",
	ClaimRewards:     "claim_rewards",
	FundRewardPool:   "fund_reward_pool",
	Transfer:         "transfer",
}

// Valid reports whether k names a known instruction.
func (k InstructionKind) Valid() bool {
	_, ok := instructionNames[k]
	return ok
}

func (k InstructionKind) String() string {
	if name, ok := instructionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("instruction(0x%02x)", uint8(k))
}

// ParseInstructionKind resolves an instruction by its name.
func ParseInstructionKind(name string) (InstructionKind, error) {
	for k, n := range instructionNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown instruction %q", name)
}

// RecordKind is the type tag of an account in the record store.
type RecordKind uint8

const (
	KindGeneral    RecordKind = iota // plain value-holding account
	KindConfig                       // GlobalConfig
	KindIdentity                     // IdentityRegistry
	KindReputation                   // ReputationRegistry
	KindValidation                   // ValidationRegistry
	KindRewardPool                   // RewardPool
	KindConsumed                     // ConsumedMarker
)

func (k RecordKind) String() string {
	switch k {
	case KindGeneral:
		return "general"
	case KindConfig:
		return "config"
	case KindIdentity:
		return "identity"
	case KindReputation:
		return "reputation"
	case KindValidation:
		return "validation"
	case KindRewardPool:
		return "reward_pool"
	case KindConsumed:
		return "consumed"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k RecordKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *RecordKind) UnmarshalText(input []byte) error {
	for kind := KindGeneral; kind <= KindConsumed; kind++ {
		if kind.String() == string(input) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown record kind %q", input)
}
