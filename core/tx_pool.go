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
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/params"
)

var (
	// ErrAlreadyKnown is returned if the transaction is already contained
	// within the pool.
	ErrAlreadyKnown = errors.New("already known")

	// ErrNonceConflict is returned if the pool already holds a different
	// transaction with the same sender and nonce.
	ErrNonceConflict = errors.New("nonce already pooled")

	// ErrTxPoolOverflow is returned if the transaction pool is full.
	ErrTxPoolOverflow = errors.New("txpool is full")
)

// TxPoolConfig are the configuration parameters of the transaction pool.
type TxPoolConfig struct {
	GlobalSlots uint64 // Maximum number of transactions held
}

// DefaultTxPoolConfig contains the default configurations for the transaction
// pool.
var DefaultTxPoolConfig = TxPoolConfig{
	GlobalSlots: params.DefaultTxPoolSize,
}

// sanitize checks the provided user configurations and changes anything
// that's unreasonable or unworkable.
func (config *TxPoolConfig) sanitize() TxPoolConfig {
	conf := *config
	if conf.GlobalSlots < 1 {
		log.Warn("Sanitizing invalid txpool global slots", "provided", conf.GlobalSlots, "updated", DefaultTxPoolConfig.GlobalSlots)
		conf.GlobalSlots = DefaultTxPoolConfig.GlobalSlots
	}
	return conf
}

// txPoolChain is the part of the chain the pool reads nonces from.
type txPoolChain interface {
	Signer() types.Signer
	Nonce(addr common.Address) uint64
}

// TxPool holds signed transactions until the worker seals them. Transactions
// of one sender are released in nonce order, starting at the sender's
// current nonce; later ones wait for the gap to fill.
type TxPool struct {
	config TxPoolConfig
	chain  txPoolChain
	signer types.Signer

	mu      sync.Mutex
	all     map[common.Hash]*types.Transaction
	queue   map[common.Address]map[uint64]*types.Transaction
	senders []common.Address // in order of first arrival

	txFeed event.Feed
	scope  event.SubscriptionScope
}

// NewTxPool creates a new transaction pool reading nonces from chain.
func NewTxPool(config TxPoolConfig, chain txPoolChain) *TxPool {
	config = (&config).sanitize()
	return &TxPool{
		config: config,
		chain:  chain,
		signer: chain.Signer(),
		all:    make(map[common.Hash]*types.Transaction),
		queue:  make(map[common.Address]map[uint64]*types.Transaction),
	}
}

// Stop terminates the transaction pool subscriptions.
func (pool *TxPool) Stop() {
	pool.scope.Close()
	log.Info("Transaction pool stopped")
}

// SubscribeNewTxsEvent registers a subscription of NewTxsEvent and
// starts sending event to the given channel.
func (pool *TxPool) SubscribeNewTxsEvent(ch chan<- NewTxsEvent) event.Subscription {
	return pool.scope.Track(pool.txFeed.Subscribe(ch))
}

// validateTx checks whether a transaction is valid according to the static
// rules and the sender's current nonce.
func (pool *TxPool) validateTx(tx *types.Transaction) (common.Address, error) {
	from, err := pool.signer.Sender(tx)
	if err != nil {
		return common.Address{}, err
	}
	if err := ValidateTx(tx); err != nil {
		return common.Address{}, err
	}
	if next := pool.chain.Nonce(from); tx.Nonce() < next {
		return common.Address{}, fmt.Errorf("%w: address %v, tx: %d state: %d", ErrNonceTooLow, from.Hex(), tx.Nonce(), next)
	}
	return from, nil
}

// Add enqueues a single transaction into the pool if it is valid.
func (pool *TxPool) Add(tx *types.Transaction) error {
	from, err := pool.validateTx(tx)
	if err != nil {
		log.Trace("Discarding invalid transaction", "hash", tx.Hash(), "err", err)
		return err
	}
	pool.mu.Lock()
	hash := tx.Hash()
	if pool.all[hash] != nil {
		pool.mu.Unlock()
		return ErrAlreadyKnown
	}
	if uint64(len(pool.all)) >= pool.config.GlobalSlots {
		pool.mu.Unlock()
		return ErrTxPoolOverflow
	}
	list := pool.queue[from]
	if list == nil {
		list = make(map[uint64]*types.Transaction)
		pool.queue[from] = list
		pool.senders = append(pool.senders, from)
	}
	if list[tx.Nonce()] != nil {
		pool.mu.Unlock()
		return ErrNonceConflict
	}
	list[tx.Nonce()] = tx
	pool.all[hash] = tx
	pool.mu.Unlock()

	log.Debug("Pooled new transaction", "hash", hash, "from", from, "kind", tx.Kind(), "nonce", tx.Nonce())
	pool.txFeed.Send(NewTxsEvent{Txs: []*types.Transaction{tx}})
	return nil
}

// Get returns a pooled transaction, or nil.
func (pool *TxPool) Get(hash common.Hash) *types.Transaction {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	return pool.all[hash]
}

// Nonce returns the next nonce of addr, counting the run of pooled
// transactions that directly follows its state nonce.
func (pool *TxPool) Nonce(addr common.Address) uint64 {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	nonce, list := pool.chain.Nonce(addr), pool.queue[addr]
	for list[nonce] != nil {
		nonce++
	}
	return nonce
}

// Len returns the number of pooled transactions.
func (pool *TxPool) Len() int {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	return len(pool.all)
}

// Pending removes and returns every transaction that is executable against
// the current state: for each sender, the run of consecutive nonces starting
// at its state nonce. Senders are ordered by first arrival. Transactions whose
// nonce has already been used are dropped.
func (pool *TxPool) Pending() types.Transactions {
	pool.mu.Lock()
	defer pool.mu.Unlock()

	var (
		pending types.Transactions
		senders = pool.senders[:0]
	)
	for _, from := range pool.senders {
		list := pool.queue[from]
		next := pool.chain.Nonce(from)

		nonces := make([]uint64, 0, len(list))
		for nonce := range list {
			nonces = append(nonces, nonce)
		}
		sort.Slice(nonces, func(i, j int) bool { return nonces[i] < nonces[j] })

		for _, nonce := range nonces {
			switch {
			case nonce < next:
				log.Trace("Removing stale transaction", "hash", list[nonce].Hash(), "nonce", nonce)
			case nonce == next:
				pending = append(pending, list[nonce])
				next++
			default:
				continue
			}
			delete(pool.all, list[nonce].Hash())
			delete(list, nonce)
		}
		if len(list) == 0 {
			delete(pool.queue, from)
			continue
		}
		senders = append(senders, from)
	}
	pool.senders = senders
	return pending
}
