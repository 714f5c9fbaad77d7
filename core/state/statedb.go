// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package state provides a journaled, all-or-nothing view over the record store.
package state

import (
	"errors"
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/core/rawdb"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/probedb"
)

var (
	// ErrRecordExists is returned when creating a record at an occupied address.
	ErrRecordExists = errors.New("record already exists")

	// ErrRecordMissing is returned when updating a record that does not exist
	// or has a different kind.
	ErrRecordMissing = errors.New("record missing")

	// ErrUndeclaredAccess is returned when a transaction touches an address
	// outside its declared access set.
	ErrUndeclaredAccess = errors.New("access to undeclared account")

	errCorruptAccount = errors.New("corrupt account encoding")
)

type revision struct {
	id           int
	journalIndex int
}

// StateDB is the in-memory working copy of the record store used while
// applying transactions. Every mutation goes through the journal, so any
// transaction can be reverted to a snapshot.
type StateDB struct {
	db Database

	// This map holds 'live' objects, which will get modified while processing a state transition.
	stateObjects      map[common.Address]*stateObject
	stateObjectsDirty map[common.Address]struct{}

	// DB error.
	// State objects are used by the consensus core which are unable to deal
	// with database-level errors. Any error that occurs during a database read
	// is memoized here and will eventually be returned by StateDB.Commit.
	dbErr error

	// Per-transaction access control. A nil set leaves access unrestricted.
	declared  mapset.Set[common.Address]
	accessErr error
	thash     common.Hash
	txIndex   int

	// Journal of state modifications. This is the backbone of
	// Snapshot and RevertToSnapshot.
	journal        *journal
	validRevisions []revision
	nextRevisionId int
}

// New creates a new state over the persisted accounts of db.
func New(db Database) *StateDB {
	return &StateDB{
		db:                db,
		stateObjects:      make(map[common.Address]*stateObject),
		stateObjectsDirty: make(map[common.Address]struct{}),
		journal:           newJournal(),
	}
}

// setError remembers the first non-nil error it is called with.
func (s *StateDB) setError(err error) {
	if s.dbErr == nil {
		s.dbErr = err
	}
}

// Error returns the memoized database failure, if any.
func (s *StateDB) Error() error {
	return s.dbErr
}

// Database retrieves the backing store of the state.
func (s *StateDB) Database() Database {
	return s.db
}

// Prepare sets the current transaction hash and index and the set of
// addresses it declared. Passing a nil set disables access checks.
func (s *StateDB) Prepare(thash common.Hash, ti int, declared mapset.Set[common.Address]) {
	s.thash = thash
	s.txIndex = ti
	s.declared = declared
	s.accessErr = nil
}

// TxIndex returns the index of the transaction being applied.
func (s *StateDB) TxIndex() int {
	return s.txIndex
}

// AccessError returns the first undeclared access of the current transaction.
func (s *StateDB) AccessError() error {
	return s.accessErr
}

func (s *StateDB) checkAccess(addr common.Address) bool {
	if s.declared == nil || s.declared.Contains(addr) {
		return true
	}
	if s.accessErr == nil {
		s.accessErr = fmt.Errorf("%w: %x in tx %x", ErrUndeclaredAccess, addr, s.thash)
	}
	return false
}

// Exist reports whether the given account address exists in the state.
func (s *StateDB) Exist(addr common.Address) bool {
	return s.getStateObject(addr) != nil
}

// Kind returns the record kind stored at addr; missing accounts are general.
func (s *StateDB) Kind(addr common.Address) types.RecordKind {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.Kind()
	}
	return types.KindGeneral
}

// GetBalance retrieves the balance from the given address or 0 if object not found
func (s *StateDB) GetBalance(addr common.Address) uint64 {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.Balance()
	}
	return 0
}

// GetNonce retrieves the nonce from the given address or 0 if object not found
func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.Nonce()
	}
	return 0
}

// AddBalance adds amount to the account associated with addr. Callers check
// the sum for overflow.
func (s *StateDB) AddBalance(addr common.Address, amount uint64) {
	if obj := s.GetOrNewStateObject(addr); obj != nil {
		obj.SetBalance(obj.Balance() + amount)
	}
}

// SubBalance subtracts amount from the account associated with addr. Callers
// check the balance first.
func (s *StateDB) SubBalance(addr common.Address, amount uint64) {
	if obj := s.GetOrNewStateObject(addr); obj != nil {
		obj.SetBalance(obj.Balance() - amount)
	}
}

func (s *StateDB) SetBalance(addr common.Address, amount uint64) {
	if obj := s.GetOrNewStateObject(addr); obj != nil {
		obj.SetBalance(amount)
	}
}

func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	if obj := s.GetOrNewStateObject(addr); obj != nil {
		obj.SetNonce(nonce)
	}
}

// CreateRecord creates a record at addr. Creation fails if a record already
// occupies the address. A general account found there is converted and its
// balance is carried over, so value sent ahead of creation does not disappear.
func (s *StateDB) CreateRecord(addr common.Address, rec types.Record) error {
	if !s.checkAccess(addr) {
		return s.accessErr
	}
	prev := s.getStateObject(addr)
	if prev != nil && prev.Kind() != types.KindGeneral {
		return fmt.Errorf("%w: %v at %x", ErrRecordExists, prev.Kind(), addr)
	}
	newobj := newObject(s, addr, rec.Kind(), rec.Copy())
	if prev == nil {
		s.journal.append(createObjectChange{account: &addr})
	} else {
		s.journal.append(resetObjectChange{prev: prev})
		newobj.setBalance(prev.Balance())
	}
	s.setStateObject(newobj)
	return nil
}

// GetRecord returns a copy of the record stored at addr, or nil.
func (s *StateDB) GetRecord(addr common.Address) types.Record {
	obj := s.getStateObject(addr)
	if obj == nil || obj.record == nil {
		return nil
	}
	return obj.record.Copy()
}

// SetRecord replaces the record stored at addr. The record must keep its kind.
func (s *StateDB) SetRecord(addr common.Address, rec types.Record) error {
	obj := s.getStateObject(addr)
	if obj == nil || obj.record == nil || obj.Kind() != rec.Kind() {
		if err := s.AccessError(); err != nil {
			return err
		}
		return fmt.Errorf("%w: %v at %x", ErrRecordMissing, rec.Kind(), addr)
	}
	obj.SetRecord(rec.Copy())
	return nil
}

func getRecord[T types.Record](s *StateDB, addr common.Address, kind types.RecordKind) T {
	var zero T
	obj := s.getStateObject(addr)
	if obj == nil || obj.Kind() != kind || obj.record == nil {
		return zero
	}
	return obj.record.Copy().(T)
}

// GetConfig returns a copy of the config record at addr, or nil.
func (s *StateDB) GetConfig(addr common.Address) *types.GlobalConfig {
	return getRecord[*types.GlobalConfig](s, addr, types.KindConfig)
}

// GetIdentity returns a copy of the identity record at addr, or nil.
func (s *StateDB) GetIdentity(addr common.Address) *types.IdentityRegistry {
	return getRecord[*types.IdentityRegistry](s, addr, types.KindIdentity)
}

// GetReputation returns a copy of the reputation record at addr, or nil.
func (s *StateDB) GetReputation(addr common.Address) *types.ReputationRegistry {
	return getRecord[*types.ReputationRegistry](s, addr, types.KindReputation)
}

// GetValidation returns a copy of the validation record at addr, or nil.
func (s *StateDB) GetValidation(addr common.Address) *types.ValidationRegistry {
	return getRecord[*types.ValidationRegistry](s, addr, types.KindValidation)
}

// GetRewardPool returns a copy of the reward pool record at addr, or nil.
func (s *StateDB) GetRewardPool(addr common.Address) *types.RewardPool {
	return getRecord[*types.RewardPool](s, addr, types.KindRewardPool)
}

// GetConsumedMarker returns a copy of the consumed marker at addr, or nil.
func (s *StateDB) GetConsumedMarker(addr common.Address) *types.ConsumedMarker {
	return getRecord[*types.ConsumedMarker](s, addr, types.KindConsumed)
}

//
// Setting, updating & deleting state object methods.
//

// getStateObject retrieves a state object given by the address, returning nil
// if the object is not found, could not be loaded, or lies outside the
// declared access set of the current transaction.
func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	if !s.checkAccess(addr) {
		return nil
	}
	// Prefer live objects if any is available
	if obj := s.stateObjects[addr]; obj != nil {
		return obj
	}
	data, err := s.db.Account(addr)
	if err != nil {
		s.setError(fmt.Errorf("getStateObject (%x) error: %w", addr.Bytes(), err))
		return nil
	}
	if data == nil {
		return nil
	}
	obj, err := decodeObject(s, addr, data)
	if err != nil {
		s.setError(err)
		return nil
	}
	s.setStateObject(obj)
	return obj
}

func (s *StateDB) setStateObject(object *stateObject) {
	s.stateObjects[object.Address()] = object
}

// GetOrNewStateObject retrieves a state object or create a new general account if nil.
func (s *StateDB) GetOrNewStateObject(addr common.Address) *stateObject {
	if !s.checkAccess(addr) {
		return nil
	}
	obj := s.getStateObject(addr)
	if obj == nil {
		obj = newObject(s, addr, types.KindGeneral, nil)
		s.journal.append(createObjectChange{account: &addr})
		s.setStateObject(obj)
	}
	return obj
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	id := s.nextRevisionId
	s.nextRevisionId++
	s.validRevisions = append(s.validRevisions, revision{id, s.journal.length()})
	return id
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	// Find the snapshot in the stack of valid snapshots.
	idx := sort.Search(len(s.validRevisions), func(i int) bool {
		return s.validRevisions[i].id >= revid
	})
	if idx == len(s.validRevisions) || s.validRevisions[idx].id != revid {
		panic(fmt.Errorf("revision id %v cannot be reverted", revid))
	}
	snapshot := s.validRevisions[idx].journalIndex

	// Replay the journal to undo changes and remove invalidated snapshots
	s.journal.revert(s, snapshot)
	s.validRevisions = s.validRevisions[:idx]
}

// Finalise marks every account touched by the journal as dirty and clears the
// journal. Changes made before Finalise can no longer be reverted.
func (s *StateDB) Finalise() {
	for addr := range s.journal.dirties {
		if _, exist := s.stateObjects[addr]; !exist {
			continue
		}
		s.stateObjectsDirty[addr] = struct{}{}
	}
	s.clearJournal()
}

func (s *StateDB) clearJournal() {
	s.journal = newJournal()
	s.validRevisions = s.validRevisions[:0]
}

// Commit writes the dirty accounts into w and returns them keyed by address,
// so the caller can refresh the database cache once w has been flushed.
func (s *StateDB) Commit(w probedb.KeyValueWriter) (map[common.Address]*types.StateAccount, error) {
	if s.dbErr != nil {
		return nil, fmt.Errorf("commit aborted due to earlier error: %v", s.dbErr)
	}
	s.Finalise()

	written := make(map[common.Address]*types.StateAccount, len(s.stateObjectsDirty))
	for addr := range s.stateObjectsDirty {
		obj := s.stateObjects[addr]
		account, err := obj.account()
		if err != nil {
			return nil, err
		}
		rawdb.WriteAccount(w, addr, account)
		if id, ok := obj.record.(*types.IdentityRegistry); ok {
			rawdb.WriteOwnerIndex(w, id.Owner, addr)
		}
		written[addr] = account
	}
	if len(written) > 0 {
		log.Debug("Committed state", "accounts", len(written))
	}
	s.stateObjectsDirty = make(map[common.Address]struct{})
	return written, nil
}
