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

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// Record is the payload stored in a non-general account.
type Record interface {
	Kind() RecordKind
	Copy() Record
}

// GlobalConfig holds the protocol-wide parameters and aggregate counters.
type GlobalConfig struct {
	Authority        common.Address `json:"authority"`
	Treasury         common.Address `json:"treasury"`
	CommissionRate   uint16         `json:"commissionRate"`
	TotalAgents      uint64         `json:"totalAgents"`
	TotalValidations uint64         `json:"totalValidations"`
}

// IdentityRegistry is the identity of one agent.
type IdentityRegistry struct {
	Owner       common.Address `json:"owner"`
	AgentID     string         `json:"agentId"`
	MetadataURI string         `json:"metadataUri"`
	CreatedAt   uint64         `json:"createdAt"`
	UpdatedAt   uint64         `json:"updatedAt"`
	IsActive    bool           `json:"isActive"`
}

// ReputationRegistry tracks the score and task counters of one agent.
type ReputationRegistry struct {
	Agent           common.Address `json:"agent"`
	Score           uint64         `json:"score"`
	TotalTasks      uint64         `json:"totalTasks"`
	SuccessfulTasks uint64         `json:"successfulTasks"`
	FailedTasks     uint64         `json:"failedTasks"`
	LastUpdated     uint64         `json:"lastUpdated"`
	StakeAmount     uint64         `json:"stakeAmount"`
}

// ValidationRegistry is a validator's judgement of one task. It is never
// modified after creation.
type ValidationRegistry struct {
	Agent       common.Address `json:"agent"`
	Validator   common.Address `json:"validator"`
	TaskHash    common.Hash    `json:"taskHash"`
	Approved    bool           `json:"approved"`
	Timestamp   uint64         `json:"timestamp"`
	EvidenceURI string         `json:"evidenceUri"`
}

// RewardPool accrues the rewards of one agent. The claimable value itself is
// held as the balance of the pool's account.
type RewardPool struct {
	Agent           common.Address `json:"agent"`
	ClaimableAmount uint64         `json:"claimableAmount"`
	LastClaim       uint64         `json:"lastClaim"`
	TotalClaimed    uint64         `json:"totalClaimed"`
}

// ConsumedMarker records that a validation has been folded into a reputation.
type ConsumedMarker struct {
	Validation common.Address `json:"validation"`
	ConsumedAt uint64         `json:"consumedAt"`
}

func (c *GlobalConfig) Kind() RecordKind       { return KindConfig }
func (i *IdentityRegistry) Kind() RecordKind   { return KindIdentity }
func (r *ReputationRegistry) Kind() RecordKind { return KindReputation }
func (v *ValidationRegistry) Kind() RecordKind { return KindValidation }
func (p *RewardPool) Kind() RecordKind         { return KindRewardPool }
func (m *ConsumedMarker) Kind() RecordKind     { return KindConsumed }

func (c *GlobalConfig) Copy() Record       { cpy := *c; return &cpy }
func (i *IdentityRegistry) Copy() Record   { cpy := *i; return &cpy }
func (r *ReputationRegistry) Copy() Record { cpy := *r; return &cpy }
func (v *ValidationRegistry) Copy() Record { cpy := *v; return &cpy }
func (p *RewardPool) Copy() Record         { cpy := *p; return &cpy }
func (m *ConsumedMarker) Copy() Record     { cpy := *m; return &cpy }

var errUnknownRecordKind = errors.New("unknown record kind")

// NewRecord returns an empty record of the given kind.
func NewRecord(kind RecordKind) (Record, error) {
	switch kind {
	case KindConfig:
		return new(GlobalConfig), nil
	case KindIdentity:
		return new(IdentityRegistry), nil
	case KindReputation:
		return new(ReputationRegistry), nil
	case KindValidation:
		return new(ValidationRegistry), nil
	case KindRewardPool:
		return new(RewardPool), nil
	case KindConsumed:
		return new(ConsumedMarker), nil
	}
	return nil, fmt.Errorf("%w: %d", errUnknownRecordKind, kind)
}

// DecodeRecord decodes the RLP payload of a record of the given kind.
func DecodeRecord(kind RecordKind, data []byte) (Record, error) {
	rec, err := NewRecord(kind)
	if err != nil {
		return nil, err
	}
	if err := rlp.DecodeBytes(data, rec); err != nil {
		return nil, fmt.Errorf("decode %v record: %w", kind, err)
	}
	return rec, nil
}
