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
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/core/rawdb"
	"github.com/probechain/agentledger/core/state"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/params"
	"github.com/probechain/agentledger/probedb"
)

var (
	// ErrTimeRegression is returned when a batch is older than its parent.
	ErrTimeRegression = errors.New("batch timestamp older than parent")

	errChainStopped = errors.New("blockchain is stopped")
)

// CacheConfig contains the tuning knobs of the ledger.
type CacheConfig struct {
	StateCacheSize int // Number of decoded accounts kept in memory
	Workers        int // Maximum number of lanes applied concurrently
}

// DefaultCacheConfig are the cache settings used when none are given.
var DefaultCacheConfig = &CacheConfig{
	StateCacheSize: params.DefaultStateCacheSize,
	Workers:        4,
}

// BlockChain is the sealed sequence of batches on top of a key-value store.
// Batches are inserted one at a time; readers see either the state before or
// after a batch, never a part of one.
type BlockChain struct {
	db        probedb.KeyValueStore
	stateDB   state.Database
	genesis   *Genesis
	signer    types.Signer
	processor *StateProcessor

	chainHeadFeed event.Feed
	scope         event.SubscriptionScope

	chainmu sync.RWMutex // guards batch insertion against readers
	head    atomic.Pointer[types.Header]
	stopped atomic.Bool
}

// NewBlockChain opens the ledger stored in db. The database must have been
// initialised with SetupGenesis.
func NewBlockChain(db probedb.KeyValueStore, cacheConfig *CacheConfig) (*BlockChain, error) {
	if cacheConfig == nil {
		cacheConfig = DefaultCacheConfig
	}
	genesis, err := ReadGenesis(db)
	if err != nil {
		return nil, err
	}
	number := rawdb.ReadHeadBatchNumber(db)
	if number == nil {
		return nil, ErrNoGenesis
	}
	head := rawdb.ReadHeader(db, *number)
	if head == nil {
		return nil, fmt.Errorf("missing head header #%d", *number)
	}
	bc := &BlockChain{
		db:      db,
		stateDB: state.NewDatabaseWithCache(db, cacheConfig.StateCacheSize),
		genesis: genesis,
		signer:  types.NewSigner(uint64(genesis.ChainID)),
	}
	bc.processor = NewStateProcessor(bc.stateDB, bc.signer, cacheConfig.Workers)
	bc.head.Store(head)

	log.Info("Loaded ledger", "chainid", bc.signer.ChainID(), "head", head.Number, "authority", genesis.Authority)
	return bc, nil
}

// Stop rejects further batches. Reads keep working until the database closes.
func (bc *BlockChain) Stop() {
	if !bc.stopped.CompareAndSwap(false, true) {
		return
	}
	bc.scope.Close()

	bc.chainmu.Lock()
	defer bc.chainmu.Unlock()
	log.Info("Blockchain stopped", "head", bc.CurrentHeader().Number)
}

func (bc *BlockChain) Genesis() *Genesis            { return bc.genesis }
func (bc *BlockChain) Signer() types.Signer         { return bc.signer }
func (bc *BlockChain) CurrentHeader() *types.Header { return bc.head.Load() }

// GetHeaderByNumber retrieves a sealed header, or nil if none exists.
func (bc *BlockChain) GetHeaderByNumber(number uint64) *types.Header {
	return rawdb.ReadHeader(bc.db, number)
}

// GetBatch retrieves a sealed batch with its transactions.
func (bc *BlockChain) GetBatch(number uint64) *types.Batch {
	header := rawdb.ReadHeader(bc.db, number)
	if header == nil {
		return nil
	}
	return types.NewBatch(header, rawdb.ReadBatchTransactions(bc.db, number))
}

// GetReceipt retrieves the receipt of an applied transaction.
func (bc *BlockChain) GetReceipt(hash common.Hash) *types.Receipt {
	return rawdb.ReadReceipt(bc.db, hash)
}

// SubscribeChainHeadEvent registers a subscription of ChainHeadEvent.
func (bc *BlockChain) SubscribeChainHeadEvent(ch chan<- ChainHeadEvent) event.Subscription {
	return bc.scope.Track(bc.chainHeadFeed.Subscribe(ch))
}

// InsertBatch seals txs into the next batch with timestamp time and applies
// them. Individual transaction failures are reported in the receipts; an
// error means nothing was written.
func (bc *BlockChain) InsertBatch(txs types.Transactions, time uint64) (*types.Batch, types.Receipts, error) {
	batch, receipts, err := bc.insertBatch(txs, time)
	if err != nil {
		return nil, nil, err
	}
	bc.chainHeadFeed.Send(ChainHeadEvent{Batch: batch, Receipts: receipts})
	return batch, receipts, nil
}

func (bc *BlockChain) insertBatch(txs types.Transactions, time uint64) (*types.Batch, types.Receipts, error) {
	bc.chainmu.Lock()
	defer bc.chainmu.Unlock()

	if bc.stopped.Load() {
		return nil, nil, errChainStopped
	}
	parent := bc.CurrentHeader()
	if time < parent.Time {
		return nil, nil, fmt.Errorf("%w: %d < %d", ErrTimeRegression, time, parent.Time)
	}
	batch := types.NewBatch(&types.Header{
		ParentHash: parent.Hash(),
		Number:     parent.Number + 1,
		Time:       time,
	}, txs)
	header := batch.Header()

	dbBatch := bc.db.NewBatch()
	receipts, written, err := bc.processor.Process(NewBatchContext(header, bc.genesis.Authority), txs, dbBatch)
	if err != nil {
		return nil, nil, err
	}
	rawdb.WriteBatchTransactions(dbBatch, header.Number, txs)
	rawdb.WriteReceipts(dbBatch, receipts)
	rawdb.WriteHeader(dbBatch, header)
	rawdb.WriteHeadBatchNumber(dbBatch, header.Number)
	if err := dbBatch.Write(); err != nil {
		return nil, nil, err
	}
	bc.stateDB.Update(written)
	bc.head.Store(header)

	var failed int
	for _, r := range receipts {
		if r.Failed() {
			failed++
		}
	}
	log.Info("Sealed new batch", "number", header.Number, "hash", batch.Hash(), "txs", len(txs), "failed", failed, "accounts", len(written))
	return batch, receipts, nil
}

// View runs fn against the current state. No batch is inserted while fn
// runs; fn must not retain the StateDB.
func (bc *BlockChain) View(fn func(*state.StateDB) error) error {
	bc.chainmu.RLock()
	defer bc.chainmu.RUnlock()

	statedb := state.New(bc.stateDB)
	if err := fn(statedb); err != nil {
		return err
	}
	return statedb.Error()
}

// Nonce returns the next nonce expected from addr.
func (bc *BlockChain) Nonce(addr common.Address) (nonce uint64) {
	bc.View(func(statedb *state.StateDB) error {
		nonce = statedb.GetNonce(addr)
		return nil
	})
	return nonce
}
