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

package miner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/core"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/params"
)

const (
	// txChanSize is the size of channel listening to NewTxsEvent.
	txChanSize = 4096

	// minRecommitInterval is the minimal time interval between two sealed
	// batches.
	minRecommitInterval = 100 * time.Millisecond
)

// Config is the configuration parameters of the sealing worker.
type Config struct {
	Recommit    time.Duration // Interval at which pending transactions are sealed
	MaxBatchTxs int           // Seal early once this many transactions wait; 0 disables
}

// DefaultConfig contains the default settings of the sealing worker.
var DefaultConfig = Config{
	Recommit:    params.DefaultRecommitInterval,
	MaxBatchTxs: 1024,
}

// Backend wraps all methods required for sealing.
type Backend interface {
	BlockChain() *core.BlockChain
	TxPool() *core.TxPool
}

// Worker drains the transaction pool into sealed batches. The batch time is
// the wall clock at sealing, never earlier than the parent batch.
type Worker struct {
	config Config
	chain  *core.BlockChain
	pool   *core.TxPool
	now    func() time.Time

	txsCh  chan core.NewTxsEvent
	exitCh chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex // serialises sealing
	running atomic.Bool
}

// New creates a worker sealing transactions of backend's pool. The worker
// idles until Start is called.
func New(backend Backend, config Config) *Worker {
	if config.Recommit < minRecommitInterval {
		log.Warn("Sanitizing recommit interval", "provided", config.Recommit, "updated", minRecommitInterval)
		config.Recommit = minRecommitInterval
	}
	return &Worker{
		config: config,
		chain:  backend.BlockChain(),
		pool:   backend.TxPool(),
		now:    time.Now,
		txsCh:  make(chan core.NewTxsEvent, txChanSize),
		exitCh: make(chan struct{}),
	}
}

// Start launches the sealing loop.
func (w *Worker) Start() {
	if !w.running.CompareAndSwap(false, true) {
		return
	}
	sub := w.pool.SubscribeNewTxsEvent(w.txsCh)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer sub.Unsubscribe()
		w.loop(sub.Err())
	}()
	log.Info("Sealing worker started", "recommit", w.config.Recommit, "maxtxs", w.config.MaxBatchTxs)
}

// Stop terminates the sealing loop. Transactions still pooled are sealed
// once more before returning. The worker cannot be restarted.
func (w *Worker) Stop() {
	if !w.running.CompareAndSwap(true, false) {
		return
	}
	close(w.exitCh)
	w.wg.Wait()
	if _, _, err := w.Seal(); err != nil {
		log.Error("Failed to seal final batch", "err", err)
	}
	log.Info("Sealing worker stopped")
}

// IsRunning returns an indicator whether the worker is running or not.
func (w *Worker) IsRunning() bool {
	return w.running.Load()
}

func (w *Worker) loop(subErr <-chan error) {
	timer := time.NewTimer(w.config.Recommit)
	defer timer.Stop()

	commit := func() {
		if _, _, err := w.Seal(); err != nil {
			log.Error("Failed to seal batch", "err", err)
		}
		timer.Reset(w.config.Recommit)
	}
	for {
		select {
		case <-timer.C:
			commit()

		case <-w.txsCh:
			if w.config.MaxBatchTxs > 0 && w.pool.Len() >= w.config.MaxBatchTxs {
				commit()
			}

		case <-w.exitCh:
			return
		case <-subErr:
			return
		}
	}
}

// Seal drains the executable pool transactions into a new batch. It returns
// nil without error when nothing is pending.
func (w *Worker) Seal() (*types.Batch, types.Receipts, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	txs := w.pool.Pending()
	if len(txs) == 0 {
		return nil, nil, nil
	}
	now := uint64(w.now().Unix())
	if parent := w.chain.CurrentHeader(); now < parent.Time {
		now = parent.Time
	}
	start := time.Now()
	batch, receipts, err := w.chain.InsertBatch(txs, now)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("Commit new sealing work", "number", batch.NumberU64(), "txs", len(txs), "elapsed", time.Since(start))
	return batch, receipts, nil
}
