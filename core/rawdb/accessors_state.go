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

package rawdb

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/probedb"
)

// ReadAccountRLP retrieves the raw encoding of the account at addr.
func ReadAccountRLP(db probedb.KeyValueReader, addr common.Address) []byte {
	data, _ := db.Get(accountKey(addr))
	return data
}

// ReadAccount retrieves the account at addr, or nil if none is stored.
func ReadAccount(db probedb.KeyValueReader, addr common.Address) *types.StateAccount {
	data := ReadAccountRLP(db, addr)
	if len(data) == 0 {
		return nil
	}
	account := new(types.StateAccount)
	if err := rlp.DecodeBytes(data, account); err != nil {
		log.Error("Invalid account RLP", "address", addr, "err", err)
		return nil
	}
	return account
}

// HasAccount checks whether an account is stored at addr.
func HasAccount(db probedb.KeyValueReader, addr common.Address) bool {
	ok, _ := db.Has(accountKey(addr))
	return ok
}

// WriteAccount stores the account at addr.
func WriteAccount(db probedb.KeyValueWriter, addr common.Address, account *types.StateAccount) {
	data, err := rlp.EncodeToBytes(account)
	if err != nil {
		log.Crit("Failed to RLP encode account", "err", err)
	}
	if err := db.Put(accountKey(addr), data); err != nil {
		log.Crit("Failed to store account", "err", err)
	}
}

// IterateAccounts calls fn for every stored account in address order until fn
// returns false.
func IterateAccounts(db probedb.Iteratee, fn func(common.Address, *types.StateAccount) bool) error {
	it := db.NewIterator(accountPrefix, nil)
	defer it.Release()

	for it.Next() {
		key := it.Key()
		if len(key) != len(accountPrefix)+common.AddressLength {
			continue
		}
		account := new(types.StateAccount)
		if err := rlp.DecodeBytes(it.Value(), account); err != nil {
			return err
		}
		if !fn(common.BytesToAddress(key[len(accountPrefix):]), account) {
			break
		}
	}
	return it.Error()
}

// WriteOwnerIndex records that owner registered the identity at identity.
func WriteOwnerIndex(db probedb.KeyValueWriter, owner, identity common.Address) {
	if err := db.Put(ownerIndexKey(owner, identity), nil); err != nil {
		log.Crit("Failed to store owner index", "err", err)
	}
}

// ReadOwnerIdentities returns the identity addresses registered by owner.
func ReadOwnerIdentities(db probedb.Iteratee, owner common.Address) []common.Address {
	prefix := ownerIndexPrefixKey(owner)
	it := db.NewIterator(prefix, nil)
	defer it.Release()

	var identities []common.Address
	for it.Next() {
		key := it.Key()
		if len(key) != len(prefix)+common.AddressLength {
			continue
		}
		identities = append(identities, common.BytesToAddress(key[len(prefix):]))
	}
	return identities
}
