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

// Package ledger implements the agent ledger service.
package ledger

import (
	"github.com/probechain/agentledger/core"
	"github.com/probechain/agentledger/miner"
	"github.com/probechain/agentledger/params"
)

// Defaults contains default settings for a local ledger.
var Defaults = Config{
	DatabaseCache:   params.DefaultDatabaseCache,
	DatabaseHandles: params.DefaultDatabaseHandles,
	StateCacheSize:  params.DefaultStateCacheSize,
	Workers:         4,
	TxPool:          core.DefaultTxPoolConfig,
	Miner:           miner.DefaultConfig,
}

// Config contains configuration options of the ledger service.
type Config struct {
	// The genesis written on first start. If nil, the default genesis is used;
	// a database initialised before keeps its stored genesis.
	Genesis *core.Genesis `toml:",omitempty"`

	// Database options
	DatabaseCache   int
	DatabaseHandles int `toml:"-"`

	// State options
	StateCacheSize int
	Workers        int // Maximum number of lanes applied concurrently

	// Transaction pool options
	TxPool core.TxPoolConfig

	// Sealing options
	Miner miner.Config
}
