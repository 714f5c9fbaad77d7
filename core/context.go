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
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/probechain/agentledger/core/state"
	"github.com/probechain/agentledger/core/types"
)

type (
	// CanTransferFunc is the signature of a transfer guard function
	CanTransferFunc func(*state.StateDB, common.Address, uint64) bool
	// TransferFunc is the signature of a transfer function
	TransferFunc func(*state.StateDB, common.Address, common.Address, uint64) error
)

// BatchContext provides the handlers with information about the batch being
// applied. Once created it is read-only and shared by all lanes.
type BatchContext struct {
	CanTransfer CanTransferFunc
	Transfer    TransferFunc

	Number uint64 // Batch number
	Time   uint64 // Unix seconds, the "now" of every handler

	// Authority is the only signer allowed to initialize the config. The
	// zero address leaves initialization open to the first caller.
	Authority common.Address
}

// NewBatchContext creates a new context for applying the batch with header.
func NewBatchContext(header *types.Header, authority common.Address) BatchContext {
	return BatchContext{
		CanTransfer: CanTransfer,
		Transfer:    Transfer,
		Number:      header.Number,
		Time:        header.Time,
		Authority:   authority,
	}
}

// CanTransfer checks whether there are enough funds in the address' account to make a transfer.
func CanTransfer(db *state.StateDB, addr common.Address, amount uint64) bool {
	return db.GetBalance(addr) >= amount
}

// Transfer moves amount from sender to recipient. Both sides are checked
// before either is written.
func Transfer(db *state.StateDB, sender, recipient common.Address, amount uint64) error {
	if !CanTransfer(db, sender, amount) {
		return fmt.Errorf("%w: address %v have %d want %d", ErrInsufficientFunds, sender.Hex(), db.GetBalance(sender), amount)
	}
	if sender == recipient {
		return nil
	}
	if _, overflow := math.SafeAdd(db.GetBalance(recipient), amount); overflow {
		return fmt.Errorf("%w: balance of %v", ErrArithmeticOverflow, recipient.Hex())
	}
	db.SubBalance(sender, amount)
	db.AddBalance(recipient, amount)
	return nil
}
