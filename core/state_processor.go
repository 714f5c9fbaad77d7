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
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/core/state"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/probedb"
	"golang.org/x/sync/errgroup"
)

// StateProcessor applies batches of transactions on top of the committed
// state. Transactions are grouped into lanes whose access lists are pairwise
// disjoint; lanes run concurrently, each over its own StateDB, and the
// transactions of a lane run in batch order. The outcome equals applying the
// batch sequentially.
type StateProcessor struct {
	db      state.Database
	signer  types.Signer
	workers int
}

// NewStateProcessor initialises a new StateProcessor running at most workers
// lanes at a time.
func NewStateProcessor(db state.Database, signer types.Signer, workers int) *StateProcessor {
	if workers < 1 {
		workers = 1
	}
	return &StateProcessor{db: db, signer: signer, workers: workers}
}

// lane is a run of transactions that may conflict with each other.
type lane struct {
	txs      []int // indices into the batch, ascending
	access   mapset.Set[common.Address]
	declared []mapset.Set[common.Address] // per transaction, nil when unchecked
	statedb  *state.StateDB
}

// Process applies txs and writes the resulting accounts into w. It returns a
// receipt per transaction and the written accounts. Failed transactions leave
// no trace besides their receipt; an error is returned only when the state
// cannot be read or committed.
func (p *StateProcessor) Process(ctx BatchContext, txs types.Transactions, w probedb.KeyValueWriter) (types.Receipts, map[common.Address]*types.StateAccount, error) {
	var (
		receipts = make(types.Receipts, len(txs))
		senders  = make([]common.Address, len(txs))
		valid    = make([]bool, len(txs))
	)
	for i, tx := range txs {
		from, err := p.signer.Sender(tx)
		if err != nil {
			receipts[i] = failedReceipt(ctx, tx, common.Address{}, i, err)
			continue
		}
		senders[i], valid[i] = from, true
	}
	lanes := p.partition(txs, senders, valid)

	var g errgroup.Group
	g.SetLimit(p.workers)
	for _, l := range lanes {
		l := l
		g.Go(func() error {
			l.statedb = state.New(p.db)
			for j, i := range l.txs {
				receipts[i] = ApplyTransaction(ctx, l.statedb, txs[i], senders[i], i, l.declared[j])
			}
			return l.statedb.Error()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	written := make(map[common.Address]*types.StateAccount)
	for _, l := range lanes {
		accounts, err := l.statedb.Commit(w)
		if err != nil {
			return nil, nil, err
		}
		for addr, acc := range accounts {
			written[addr] = acc
		}
	}
	log.Debug("Processed batch", "number", ctx.Number, "txs", len(txs), "lanes", len(lanes), "accounts", len(written))
	return receipts, written, nil
}

// partition groups the valid transactions into independent lanes.
func (p *StateProcessor) partition(txs types.Transactions, senders []common.Address, valid []bool) []*lane {
	// Config initialisation changes the treasury every submission declares,
	// so such a batch runs as one unchecked lane.
	for i, tx := range txs {
		if valid[i] && tx.Kind() == types.InitializeConfig {
			l := &lane{access: mapset.NewSet[common.Address]()}
			for j := range txs {
				if valid[j] {
					l.txs = append(l.txs, j)
					l.declared = append(l.declared, nil)
				}
			}
			return []*lane{l}
		}
	}
	var treasury common.Address
	if cfg := state.New(p.db).GetConfig(ConfigAddress()); cfg != nil {
		treasury = cfg.Treasury
	}

	var lanes []*lane
	for i, tx := range txs {
		if !valid[i] {
			continue
		}
		access := AccessList(tx, senders[i], treasury)

		// Collect every lane this transaction conflicts with and fold them
		// into the first one.
		var (
			target *lane
			kept   = lanes[:0]
		)
		for _, l := range lanes {
			if l.access.Intersect(access).Cardinality() == 0 {
				kept = append(kept, l)
				continue
			}
			if target == nil {
				target = l
				kept = append(kept, l)
				continue
			}
			target.merge(l)
		}
		lanes = kept
		if target == nil {
			target = &lane{access: mapset.NewSet[common.Address]()}
			lanes = append(lanes, target)
		}
		target.access = target.access.Union(access)
		target.txs = append(target.txs, i)
		target.declared = append(target.declared, access)
	}
	return lanes
}

// merge moves the transactions of o into l, keeping batch order.
func (l *lane) merge(o *lane) {
	type entry struct {
		tx       int
		declared mapset.Set[common.Address]
	}
	entries := make([]entry, 0, len(l.txs)+len(o.txs))
	for j, i := range l.txs {
		entries = append(entries, entry{i, l.declared[j]})
	}
	for j, i := range o.txs {
		entries = append(entries, entry{i, o.declared[j]})
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].tx < entries[b].tx })

	l.txs, l.declared = l.txs[:0], l.declared[:0]
	for _, e := range entries {
		l.txs = append(l.txs, e.tx)
		l.declared = append(l.declared, e.declared)
	}
	l.access = l.access.Union(o.access)
}

// ApplyTransaction attempts to apply a transaction to the given state
// database. A failed transaction keeps only its nonce increment, and only if
// the nonce matched; the receipt carries the error.
func ApplyTransaction(ctx BatchContext, statedb *state.StateDB, tx *types.Transaction, from common.Address, index int, declared mapset.Set[common.Address]) *types.Receipt {
	statedb.Prepare(tx.Hash(), index, declared)

	value, err := ApplyMessage(ctx, types.NewMessage(from, tx), statedb)
	if err != nil {
		statedb.Finalise()
		log.Debug("Transaction failed", "hash", tx.Hash(), "kind", tx.Kind(), "err", err)
		return failedReceipt(ctx, tx, from, index, err)
	}
	statedb.Finalise()
	return &types.Receipt{
		TxHash:           tx.Hash(),
		From:             from,
		Kind:             tx.Kind(),
		Status:           types.ReceiptStatusSuccessful,
		Value:            value,
		BatchNumber:      ctx.Number,
		TransactionIndex: uint64(index),
	}
}

func failedReceipt(ctx BatchContext, tx *types.Transaction, from common.Address, index int, err error) *types.Receipt {
	return &types.Receipt{
		TxHash:           tx.Hash(),
		From:             from,
		Kind:             tx.Kind(),
		Status:           types.ReceiptStatusFailed,
		Error:            err.Error(),
		BatchNumber:      ctx.Number,
		TransactionIndex: uint64(index),
	}
}
