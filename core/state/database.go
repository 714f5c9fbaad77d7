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
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
	"github.com/probechain/agentledger/core/rawdb"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/params"
	"github.com/probechain/agentledger/probedb"
)

// Database wraps access to the persisted accounts. It is safe for concurrent
// readers; Update must be serialized with writes to the disk database.
type Database interface {
	// Account retrieves the persisted account at addr, nil if none exists.
	Account(addr common.Address) (*types.StateAccount, error)

	// Update refreshes cached accounts after their batch was written to disk.
	Update(accounts map[common.Address]*types.StateAccount)

	// DiskDB returns the underlying key-value disk database.
	DiskDB() probedb.KeyValueStore
}

// NewDatabase creates a backing store for state. The returned database is safe
// for concurrent use and retains recently read accounts in memory.
func NewDatabase(db probedb.KeyValueStore) Database {
	return NewDatabaseWithCache(db, params.DefaultStateCacheSize)
}

// NewDatabaseWithCache creates a backing store for state holding up to size
// accounts in its read cache.
func NewDatabaseWithCache(db probedb.KeyValueStore, size int) Database {
	cache, _ := lru.New(size)
	return &cachingDB{
		disk:  db,
		cache: cache,
	}
}

type cachingDB struct {
	disk  probedb.KeyValueStore
	cache *lru.Cache
}

// Account retrieves the persisted account at addr.
func (db *cachingDB) Account(addr common.Address) (*types.StateAccount, error) {
	if cached, ok := db.cache.Get(addr); ok {
		return copyAccount(cached.(*types.StateAccount)), nil
	}
	if !rawdb.HasAccount(db.disk, addr) {
		return nil, nil
	}
	account := rawdb.ReadAccount(db.disk, addr)
	if account == nil {
		return nil, errCorruptAccount
	}
	db.cache.Add(addr, copyAccount(account))
	return account, nil
}

// Update refreshes cached accounts.
func (db *cachingDB) Update(accounts map[common.Address]*types.StateAccount) {
	for addr, account := range accounts {
		db.cache.Add(addr, copyAccount(account))
	}
}

// DiskDB retrieves the low level key-value database.
func (db *cachingDB) DiskDB() probedb.KeyValueStore {
	return db.disk
}

func copyAccount(a *types.StateAccount) *types.StateAccount {
	cpy := *a
	cpy.Data = common.CopyBytes(a.Data)
	return &cpy
}
