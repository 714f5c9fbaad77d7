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

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/core/state"
	"github.com/probechain/agentledger/core/types"
)

/*
The State Transitioning Model

A state transition is a change made when a transaction is applied to the current world state.
The state transitioning model does all the necessary work to work out a valid new state root.

1) Nonce handling
2) Nonce increment
3) Instruction dispatch
4) Access and database error checks
*/
type StateTransition struct {
	ctx   BatchContext
	msg   types.Message
	state *state.StateDB
}

// NewStateTransition initialises and returns a new state transition object.
func NewStateTransition(ctx BatchContext, msg types.Message, statedb *state.StateDB) *StateTransition {
	return &StateTransition{
		ctx:   ctx,
		msg:   msg,
		state: statedb,
	}
}

// ApplyMessage computes the new state by applying the given message against
// the old state. It returns the value moved by the instruction.
//
// A message that passes the nonce check consumes its nonce even when the
// instruction fails; the instruction's own writes are reverted.
func ApplyMessage(ctx BatchContext, msg types.Message, statedb *state.StateDB) (uint64, error) {
	return NewStateTransition(ctx, msg, statedb).TransitionDb()
}

func (st *StateTransition) preCheck() error {
	stNonce := st.state.GetNonce(st.msg.From())
	if err := st.state.AccessError(); err != nil {
		return err
	}
	if msgNonce := st.msg.Nonce(); stNonce < msgNonce {
		return fmt.Errorf("%w: address %v, tx: %d state: %d", ErrNonceTooHigh,
			st.msg.From().Hex(), msgNonce, stNonce)
	} else if stNonce > msgNonce {
		return fmt.Errorf("%w: address %v, tx: %d state: %d", ErrNonceTooLow,
			st.msg.From().Hex(), msgNonce, stNonce)
	} else if _, overflow := math.SafeAdd(stNonce, 1); overflow {
		return fmt.Errorf("%w: address %v, nonce: %d", ErrNonceMax,
			st.msg.From().Hex(), stNonce)
	}
	return nil
}

// TransitionDb dispatches the message to its instruction handler. Any error
// is a transaction failure; none of them is fatal to the batch.
func (st *StateTransition) TransitionDb() (uint64, error) {
	if err := st.preCheck(); err != nil {
		return 0, err
	}
	st.state.SetNonce(st.msg.From(), st.msg.Nonce()+1)
	snap := st.state.Snapshot()

	value, err := st.dispatch()
	if err != nil {
		st.state.RevertToSnapshot(snap)
		return 0, err
	}
	log.Debug("Applied instruction", "kind", st.msg.Kind(), "from", st.msg.From(), "nonce", st.msg.Nonce(), "value", value)
	return value, nil
}

func (st *StateTransition) dispatch() (uint64, error) {
	var (
		value uint64
		err   error
	)
	switch st.msg.Kind() {
	case types.InitializeConfig:
		err = st.TransitionDbOfInitializeConfig()
	case types.RegisterAgent:
		err = st.TransitionDbOfRegisterAgent()
	case types.UpdateMetadata:
		err = st.TransitionDbOfUpdateMetadata()
	case types.SubmitValidation:
		value, err = st.TransitionDbOfSubmitValidation()
	case types.UpdateReputation:
		value, err = st.TransitionDbOfUpdateReputation()
	case types.DeactivateAgent:
		err = st.TransitionDbOfDeactivateAgent()
	case types.ClaimRewards:
		value, err = st.TransitionDbOfClaimRewards()
	case types.FundRewardPool:
		value, err = st.TransitionDbOfFundRewardPool()
	case types.Transfer:
		value, err = st.TransitionDbOfTransfer()
	default:
		err = fmt.Errorf("%w: %v", ErrInvalidInstruction, st.msg.Kind())
	}
	// An undeclared access shadows whatever the handler concluded from the
	// missing account.
	if aerr := st.state.AccessError(); aerr != nil {
		return 0, aerr
	}
	if dberr := st.state.Error(); dberr != nil {
		return 0, dberr
	}
	if err != nil {
		return 0, err
	}
	return value, nil
}
