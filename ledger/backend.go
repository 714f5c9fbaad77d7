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

package ledger

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/probechain/agentledger/core"
	"github.com/probechain/agentledger/internal/agentapi"
	"github.com/probechain/agentledger/miner"
	"github.com/probechain/agentledger/probedb"
	"github.com/probechain/agentledger/probedb/leveldb"
)

// Ledger implements the agent ledger service.
type Ledger struct {
	config *Config

	// Handlers
	txPool     *core.TxPool
	blockchain *core.BlockChain
	miner      *miner.Worker

	// DB interfaces
	chainDb probedb.KeyValueStore // Ledger database

	APIBackend *LedgerAPIBackend

	lock    sync.Mutex
	stopped bool
}

// OpenDatabase opens the ledger database below datadir. An empty datadir
// gives an ephemeral in-memory database.
func OpenDatabase(datadir string, config *Config, readonly bool) (probedb.KeyValueStore, error) {
	if datadir == "" {
		log.Warn("No data directory set, using ephemeral memory database")
		return leveldb.NewMemory(), nil
	}
	return leveldb.New(filepath.Join(datadir, "chaindata"), config.DatabaseCache, config.DatabaseHandles, readonly)
}

// New creates the ledger service over chainDb, writing the configured
// genesis if the database is empty.
func New(chainDb probedb.KeyValueStore, config *Config) (*Ledger, error) {
	if config.Workers < 1 {
		log.Warn("Sanitizing invalid lane workers", "provided", config.Workers, "updated", Defaults.Workers)
		config.Workers = Defaults.Workers
	}
	genesis, err := core.SetupGenesis(chainDb, config.Genesis)
	if err != nil {
		return nil, err
	}
	log.Info("Initialised ledger", "chainid", uint64(genesis.ChainID), "authority", genesis.Authority)

	l := &Ledger{
		config:  config,
		chainDb: chainDb,
	}
	l.blockchain, err = core.NewBlockChain(chainDb, &core.CacheConfig{
		StateCacheSize: config.StateCacheSize,
		Workers:        config.Workers,
	})
	if err != nil {
		return nil, err
	}
	l.txPool = core.NewTxPool(config.TxPool, l.blockchain)
	l.miner = miner.New(l, config.Miner)
	l.APIBackend = &LedgerAPIBackend{ledger: l}
	return l, nil
}

func (l *Ledger) BlockChain() *core.BlockChain   { return l.blockchain }
func (l *Ledger) TxPool() *core.TxPool           { return l.txPool }
func (l *Ledger) Miner() *miner.Worker           { return l.miner }
func (l *Ledger) ChainDb() probedb.KeyValueStore { return l.chainDb }
func (l *Ledger) Config() *Config                { return l.config }

// APIs returns the RPC services the ledger offers.
func (l *Ledger) APIs() []rpc.API {
	return agentapi.GetAPIs(l.APIBackend)
}

// Start begins sealing pooled transactions.
func (l *Ledger) Start() error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.stopped {
		return errors.New("ledger already stopped")
	}
	l.miner.Start()
	return nil
}

// Stop seals what is still pooled, then terminates all internal goroutines
// and closes the database.
func (l *Ledger) Stop() error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.stopped {
		return nil
	}
	l.stopped = true
	l.miner.Stop()
	l.txPool.Stop()
	l.blockchain.Stop()
	return l.chainDb.Close()
}
