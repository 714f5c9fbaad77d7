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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/params"
)

func validateAgentID(agentID string) error {
	if len(agentID) == 0 {
		return ErrEmptyAgentID
	}
	if len(agentID) > params.MaxAgentIDLength {
		return ErrAgentIDTooLong
	}
	return nil
}

func validateMetadataURI(uri string) error {
	if len(uri) > params.MaxMetadataURILength {
		return ErrMetadataURITooLong
	}
	return nil
}

func validateEvidenceURI(uri string) error {
	if len(uri) > params.MaxEvidenceURILength {
		return ErrEvidenceURITooLong
	}
	return nil
}

func validateCommissionRate(rate uint16) error {
	if rate > params.MaxCommissionRate {
		return ErrInvalidCommissionRate
	}
	return nil
}

// ValidateTx performs the checks of tx that need no state. The handlers
// repeat them, so skipping this never admits an invalid transition.
func ValidateTx(tx *types.Transaction) error {
	switch tx.Kind() {
	case types.InitializeConfig:
		return validateTxOfInitializeConfig(tx)
	case types.RegisterAgent:
		return validateTxOfRegisterAgent(tx)
	case types.UpdateMetadata:
		return validateTxOfUpdateMetadata(tx)
	case types.SubmitValidation:
		return validateTxOfSubmitValidation(tx)
	case types.UpdateReputation, types.DeactivateAgent, types.ClaimRewards:
		return validateAgentID(tx.AgentID())
	case types.FundRewardPool:
		return validateTxOfFundRewardPool(tx)
	case types.Transfer:
		return validateTxOfTransfer(tx)
	}
	return fmt.Errorf("%w: %v", ErrInvalidInstruction, tx.Kind())
}

func validateTxOfInitializeConfig(tx *types.Transaction) error {
	return validateCommissionRate(tx.CommissionRate())
}

func validateTxOfRegisterAgent(tx *types.Transaction) error {
	if err := validateAgentID(tx.AgentID()); err != nil {
		return err
	}
	return validateMetadataURI(tx.MetadataURI())
}

func validateTxOfUpdateMetadata(tx *types.Transaction) error {
	if err := validateAgentID(tx.AgentID()); err != nil {
		return err
	}
	return validateMetadataURI(tx.MetadataURI())
}

func validateTxOfSubmitValidation(tx *types.Transaction) error {
	if err := validateAgentID(tx.AgentID()); err != nil {
		return err
	}
	return validateEvidenceURI(tx.EvidenceURI())
}

func validateTxOfFundRewardPool(tx *types.Transaction) error {
	if err := validateAgentID(tx.AgentID()); err != nil {
		return err
	}
	if tx.Amount() == 0 {
		return ErrZeroAmount
	}
	return nil
}

func validateTxOfTransfer(tx *types.Transaction) error {
	if tx.To() == (common.Address{}) {
		return fmt.Errorf("%w: transfer to zero address", ErrInvalidInstruction)
	}
	if tx.Amount() == 0 {
		return ErrZeroAmount
	}
	return nil
}
