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
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/core/state"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/params"
)

// createRecord maps an occupied address to the given instruction error.
func (st *StateTransition) createRecord(addr common.Address, rec types.Record, occupied error) error {
	if err := st.state.CreateRecord(addr, rec); err != nil {
		if errors.Is(err, state.ErrRecordExists) {
			return occupied
		}
		return err
	}
	return nil
}

// config loads the global config.
func (st *StateTransition) config() (*types.GlobalConfig, error) {
	cfg := st.state.GetConfig(ConfigAddress())
	if cfg == nil {
		return nil, ErrConfigNotInitialized
	}
	return cfg, nil
}

// identity loads the identity of the message's agent.
func (st *StateTransition) identity() (common.Address, *types.IdentityRegistry, error) {
	addr := IdentityAddress(st.msg.AgentID())
	id := st.state.GetIdentity(addr)
	if id == nil {
		return addr, nil, fmt.Errorf("%w: %q", ErrAgentNotFound, st.msg.AgentID())
	}
	return addr, id, nil
}

// activeIdentity loads the identity and requires it to be active.
func (st *StateTransition) activeIdentity() (common.Address, *types.IdentityRegistry, error) {
	addr, id, err := st.identity()
	if err != nil {
		return addr, nil, err
	}
	if !id.IsActive {
		return addr, nil, ErrAgentNotActive
	}
	return addr, id, nil
}

// ownedIdentity loads the identity and requires the sender to own it and the
// identity to be active.
func (st *StateTransition) ownedIdentity() (common.Address, *types.IdentityRegistry, error) {
	addr, id, err := st.identity()
	if err != nil {
		return addr, nil, err
	}
	if id.Owner != st.msg.From() {
		return addr, nil, ErrUnauthorized
	}
	if !id.IsActive {
		return addr, nil, ErrAgentNotActive
	}
	return addr, id, nil
}

func (st *StateTransition) TransitionDbOfInitializeConfig() error {
	if err := validateCommissionRate(st.msg.CommissionRate()); err != nil {
		return err
	}
	if st.ctx.Authority != (common.Address{}) && st.msg.From() != st.ctx.Authority {
		return fmt.Errorf("%w: %v is not the protocol authority", ErrUnauthorized, st.msg.From().Hex())
	}
	cfg := &types.GlobalConfig{
		Authority:      st.msg.From(),
		Treasury:       st.msg.Treasury(),
		CommissionRate: st.msg.CommissionRate(),
	}
	if err := st.createRecord(ConfigAddress(), cfg, ErrConfigAlreadyInitialized); err != nil {
		return err
	}
	log.Info("Initialized config", "authority", cfg.Authority, "treasury", cfg.Treasury, "commission", cfg.CommissionRate)
	return nil
}

func (st *StateTransition) TransitionDbOfRegisterAgent() error {
	agentID := st.msg.AgentID()
	if err := validateAgentID(agentID); err != nil {
		return err
	}
	if err := validateMetadataURI(st.msg.MetadataURI()); err != nil {
		return err
	}
	cfg, err := st.config()
	if err != nil {
		return err
	}
	now := st.ctx.Time
	addrs := AgentAddressesOf(agentID)

	identity := &types.IdentityRegistry{
		Owner:       st.msg.From(),
		AgentID:     agentID,
		MetadataURI: st.msg.MetadataURI(),
		CreatedAt:   now,
		UpdatedAt:   now,
		IsActive:    true,
	}
	if err := st.createRecord(addrs.Identity, identity, ErrAgentAlreadyRegistered); err != nil {
		return err
	}
	reputation := &types.ReputationRegistry{
		Agent:       addrs.Identity,
		Score:       params.InitialReputationScore,
		LastUpdated: now,
	}
	if err := st.createRecord(addrs.Reputation, reputation, ErrAgentAlreadyRegistered); err != nil {
		return err
	}
	pool := &types.RewardPool{
		Agent:     addrs.Identity,
		LastClaim: now,
	}
	if err := st.createRecord(addrs.RewardPool, pool, ErrAgentAlreadyRegistered); err != nil {
		return err
	}

	var overflow bool
	if cfg.TotalAgents, overflow = math.SafeAdd(cfg.TotalAgents, 1); overflow {
		return ErrArithmeticOverflow
	}
	if err := st.state.SetRecord(ConfigAddress(), cfg); err != nil {
		return err
	}
	log.Debug("Registered agent", "id", agentID, "owner", identity.Owner, "identity", addrs.Identity)
	return nil
}

func (st *StateTransition) TransitionDbOfUpdateMetadata() error {
	if err := validateMetadataURI(st.msg.MetadataURI()); err != nil {
		return err
	}
	addr, id, err := st.ownedIdentity()
	if err != nil {
		return err
	}
	id.MetadataURI = st.msg.MetadataURI()
	id.UpdatedAt = st.ctx.Time
	return st.state.SetRecord(addr, id)
}

func (st *StateTransition) TransitionDbOfDeactivateAgent() error {
	addr, id, err := st.ownedIdentity()
	if err != nil {
		return err
	}
	id.IsActive = false
	id.UpdatedAt = st.ctx.Time
	if err := st.state.SetRecord(addr, id); err != nil {
		return err
	}
	log.Debug("Deactivated agent", "id", id.AgentID)
	return nil
}

// TransitionDbOfSubmitValidation records a validator's judgement and charges
// the commission. It returns the commission paid.
func (st *StateTransition) TransitionDbOfSubmitValidation() (uint64, error) {
	if err := validateEvidenceURI(st.msg.EvidenceURI()); err != nil {
		return 0, err
	}
	identityAddr, _, err := st.activeIdentity()
	if err != nil {
		return 0, err
	}
	cfg, err := st.config()
	if err != nil {
		return 0, err
	}
	validation := &types.ValidationRegistry{
		Agent:       identityAddr,
		Validator:   st.msg.From(),
		TaskHash:    st.msg.TaskHash(),
		Approved:    st.msg.Approved(),
		Timestamp:   st.ctx.Time,
		EvidenceURI: st.msg.EvidenceURI(),
	}
	validationAddr := ValidationAddress(identityAddr, st.msg.TaskHash())
	if err := st.createRecord(validationAddr, validation, ErrValidationAlreadyExists); err != nil {
		return 0, err
	}

	var overflow bool
	if cfg.TotalValidations, overflow = math.SafeAdd(cfg.TotalValidations, 1); overflow {
		return 0, ErrArithmeticOverflow
	}
	if err := st.state.SetRecord(ConfigAddress(), cfg); err != nil {
		return 0, err
	}

	var commission uint64
	if cfg.CommissionRate > 0 {
		if commission, err = CalculateCommission(cfg.CommissionRate); err != nil {
			return 0, err
		}
		if err := st.ctx.Transfer(st.state, st.msg.From(), cfg.Treasury, commission); err != nil {
			return 0, err
		}
	}
	log.Debug("Submitted validation", "agent", st.msg.AgentID(), "task", st.msg.TaskHash(), "approved", validation.Approved, "commission", commission)
	return commission, nil
}

// TransitionDbOfUpdateReputation folds one validation into the agent's
// reputation, exactly once, and returns the reward credited.
func (st *StateTransition) TransitionDbOfUpdateReputation() (uint64, error) {
	identityAddr, _, err := st.activeIdentity()
	if err != nil {
		return 0, err
	}
	validationAddr := ValidationAddress(identityAddr, st.msg.TaskHash())
	validation := st.state.GetValidation(validationAddr)
	if validation == nil {
		return 0, fmt.Errorf("%w: task %x", ErrValidationNotFound, st.msg.TaskHash())
	}
	if validation.Agent != identityAddr {
		return 0, fmt.Errorf("%w: validation belongs to %v", ErrUnauthorized, validation.Agent.Hex())
	}
	marker := &types.ConsumedMarker{Validation: validationAddr, ConsumedAt: st.ctx.Time}
	if err := st.createRecord(ConsumedAddress(validationAddr), marker, ErrValidationConsumed); err != nil {
		return 0, err
	}

	reputationAddr := ReputationAddress(identityAddr)
	reputation := st.state.GetReputation(reputationAddr)
	if reputation == nil {
		return 0, fmt.Errorf("%w: reputation of %q", ErrAgentNotFound, st.msg.AgentID())
	}
	reward, err := applyValidation(reputation, validation.Approved, st.ctx.Time)
	if err != nil {
		return 0, err
	}
	if err := st.state.SetRecord(reputationAddr, reputation); err != nil {
		return 0, err
	}
	if reward > 0 {
		poolAddr := RewardPoolAddress(identityAddr)
		pool := st.state.GetRewardPool(poolAddr)
		if pool == nil {
			return 0, fmt.Errorf("%w: reward pool of %q", ErrAgentNotFound, st.msg.AgentID())
		}
		var overflow bool
		if pool.ClaimableAmount, overflow = math.SafeAdd(pool.ClaimableAmount, reward); overflow {
			return 0, ErrArithmeticOverflow
		}
		if err := st.state.SetRecord(poolAddr, pool); err != nil {
			return 0, err
		}
	}
	log.Debug("Updated reputation", "agent", st.msg.AgentID(), "score", reputation.Score, "tasks", reputation.TotalTasks, "reward", reward)
	return reward, nil
}

// TransitionDbOfClaimRewards pays the whole claimable amount out of the
// reward pool's holding to the owner.
func (st *StateTransition) TransitionDbOfClaimRewards() (uint64, error) {
	identityAddr, id, err := st.ownedIdentity()
	if err != nil {
		return 0, err
	}
	poolAddr := RewardPoolAddress(identityAddr)
	pool := st.state.GetRewardPool(poolAddr)
	if pool == nil {
		return 0, fmt.Errorf("%w: reward pool of %q", ErrAgentNotFound, st.msg.AgentID())
	}
	if pool.ClaimableAmount == 0 {
		return 0, ErrNoRewardsAvailable
	}
	next, overflow := math.SafeAdd(pool.LastClaim, params.RewardClaimInterval)
	if overflow {
		return 0, ErrArithmeticOverflow
	}
	if st.ctx.Time < next {
		return 0, ErrRewardClaimTooEarly
	}
	amount := pool.ClaimableAmount
	if err := st.ctx.Transfer(st.state, poolAddr, id.Owner, amount); err != nil {
		return 0, err
	}
	if pool.TotalClaimed, overflow = math.SafeAdd(pool.TotalClaimed, amount); overflow {
		return 0, ErrArithmeticOverflow
	}
	pool.ClaimableAmount = 0
	pool.LastClaim = st.ctx.Time
	if err := st.state.SetRecord(poolAddr, pool); err != nil {
		return 0, err
	}
	log.Debug("Claimed rewards", "agent", id.AgentID, "amount", amount, "total", pool.TotalClaimed)
	return amount, nil
}

// TransitionDbOfFundRewardPool moves value from the sender into the reward
// pool's holding so that accrued rewards can be paid out.
func (st *StateTransition) TransitionDbOfFundRewardPool() (uint64, error) {
	if st.msg.Amount() == 0 {
		return 0, ErrZeroAmount
	}
	identityAddr, _, err := st.activeIdentity()
	if err != nil {
		return 0, err
	}
	if err := st.ctx.Transfer(st.state, st.msg.From(), RewardPoolAddress(identityAddr), st.msg.Amount()); err != nil {
		return 0, err
	}
	return st.msg.Amount(), nil
}

func (st *StateTransition) TransitionDbOfTransfer() (uint64, error) {
	if st.msg.Amount() == 0 {
		return 0, ErrZeroAmount
	}
	if st.state.Kind(st.msg.To()) != types.KindGeneral {
		return 0, fmt.Errorf("%w: transfer to %v record", ErrInvalidInstruction, st.state.Kind(st.msg.To()))
	}
	if err := st.ctx.Transfer(st.state, st.msg.From(), st.msg.To(), st.msg.Amount()); err != nil {
		return 0, err
	}
	return st.msg.Amount(), nil
}
