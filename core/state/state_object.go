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

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/probechain/agentledger/core/types"
)

// stateObject represents an account which is being modified.
//
// The usage pattern is as follows:
// First you need to obtain a state object.
// Account values can be accessed and modified through the object.
// Finally, call commit to encode the account for the disk database.
type stateObject struct {
	address common.Address
	db      *StateDB

	kind    types.RecordKind
	nonce   uint64
	balance uint64
	record  types.Record // nil for general accounts
}

// newObject creates a state object.
func newObject(db *StateDB, address common.Address, kind types.RecordKind, record types.Record) *stateObject {
	return &stateObject{
		address: address,
		db:      db,
		kind:    kind,
		record:  record,
	}
}

// decodeObject rebuilds a state object from its persisted form.
func decodeObject(db *StateDB, address common.Address, data *types.StateAccount) (*stateObject, error) {
	obj := newObject(db, address, data.Kind, nil)
	obj.nonce = data.Nonce
	obj.balance = data.Balance
	if data.Kind != types.KindGeneral {
		rec, err := types.DecodeRecord(data.Kind, data.Data)
		if err != nil {
			return nil, fmt.Errorf("account %x: %w", address, err)
		}
		obj.record = rec
	}
	return obj, nil
}

// account returns the persisted form of the object.
func (s *stateObject) account() (*types.StateAccount, error) {
	acc := &types.StateAccount{
		Kind:    s.kind,
		Nonce:   s.nonce,
		Balance: s.balance,
	}
	if s.record != nil {
		data, err := rlp.EncodeToBytes(s.record)
		if err != nil {
			return nil, err
		}
		acc.Data = data
	}
	return acc, nil
}

func (s *stateObject) SetBalance(amount uint64) {
	s.db.journal.append(balanceChange{
		account: &s.address,
		prev:    s.balance,
	})
	s.setBalance(amount)
}

func (s *stateObject) setBalance(amount uint64) {
	s.balance = amount
}

func (s *stateObject) SetNonce(nonce uint64) {
	s.db.journal.append(nonceChange{
		account: &s.address,
		prev:    s.nonce,
	})
	s.setNonce(nonce)
}

func (s *stateObject) setNonce(nonce uint64) {
	s.nonce = nonce
}

// SetRecord replaces the record payload. The previous payload is kept by the
// journal so it can be restored on revert.
func (s *stateObject) SetRecord(rec types.Record) {
	s.db.journal.append(recordChange{
		account: &s.address,
		prev:    s.record,
	})
	s.setRecord(rec)
}

func (s *stateObject) setRecord(rec types.Record) {
	s.record = rec
}

// Address returns the address of the account.
func (s *stateObject) Address() common.Address {
	return s.address
}

func (s *stateObject) Kind() types.RecordKind { return s.kind }
func (s *stateObject) Nonce() uint64          { return s.nonce }
func (s *stateObject) Balance() uint64        { return s.balance }
