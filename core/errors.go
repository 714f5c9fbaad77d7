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

import "errors"

// Instruction failures. Any of these aborts the transaction and discards all
// of its writes.
var (
	ErrAgentIDTooLong = errors.New("agent ID exceeds maximum length of 64 characters")

	ErrMetadataURITooLong = errors.New("metadata URI exceeds maximum length of 200 characters")

	ErrEvidenceURITooLong = errors.New("evidence URI exceeds maximum length of 200 characters")

	ErrAgentNotActive = errors.New("agent is not active")

	ErrUnauthorized = errors.New("unauthorized: caller is not the agent owner")

	// ErrInvalidReputationScore is returned when a stored score lies outside
	// [0, 10000].
	ErrInvalidReputationScore = errors.New("invalid reputation score")

	ErrValidationAlreadyExists = errors.New("validation already exists for this task hash")

	// ErrInsufficientReputation is reserved for reputation-gated instructions.
	ErrInsufficientReputation = errors.New("insufficient reputation score for this action")

	ErrInvalidCommissionRate = errors.New("commission rate exceeds maximum allowed (10%)")

	ErrRewardClaimTooEarly = errors.New("reward claim too early, must wait 24 hours")

	ErrNoRewardsAvailable = errors.New("no rewards available to claim")

	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	ErrAgentAlreadyRegistered = errors.New("agent already registered")
)

// Ledger failures outside the instruction taxonomy.
var (
	// ErrInsufficientFunds is returned if a value transfer exceeds the
	// balance of its source account.
	ErrInsufficientFunds = errors.New("insufficient funds for transfer")

	// ErrValidationConsumed is returned when a validation has already been
	// folded into its agent's reputation.
	ErrValidationConsumed = errors.New("validation already consumed")

	ErrValidationNotFound = errors.New("validation not found")

	ErrAgentNotFound = errors.New("agent not found")

	ErrEmptyAgentID = errors.New("agent ID must not be empty")

	ErrConfigNotInitialized = errors.New("config not initialized")

	ErrConfigAlreadyInitialized = errors.New("config already initialized")

	ErrInvalidInstruction = errors.New("invalid instruction")

	ErrZeroAmount = errors.New("amount must be positive")

	// ErrNonceTooLow is returned if the nonce of a transaction is lower than the
	// one present in the local chain.
	ErrNonceTooLow = errors.New("nonce too low")

	// ErrNonceTooHigh is returned if the nonce of a transaction is higher than the
	// next one expected based on the local chain.
	ErrNonceTooHigh = errors.New("nonce too high")

	// ErrNonceMax is returned if the nonce of a transaction sender account has
	// maximum allowed value and would become invalid if incremented.
	ErrNonceMax = errors.New("nonce has max value")
)
