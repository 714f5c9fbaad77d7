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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/core/rawdb"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/probedb"
)

// DefaultChainID is the chain id of a ledger created without a genesis file.
const DefaultChainID = 8004

var (
	errGenesisNoConfig = errors.New("genesis has no chain id")

	// ErrGenesisMismatch is returned when the stored genesis differs from the
	// one supplied.
	ErrGenesisMismatch = errors.New("database contains incompatible genesis")

	// ErrNoGenesis is returned when opening a ledger that was never initialised.
	ErrNoGenesis = errors.New("genesis not found in database")
)

// Genesis specifies the initial state of the ledger.
type Genesis struct {
	ChainID   math.HexOrDecimal64 `json:"chainId"`
	Timestamp math.HexOrDecimal64 `json:"timestamp"`
	Authority common.Address      `json:"authority"`
	Alloc     GenesisAlloc        `json:"alloc"`
}

// GenesisAlloc specifies the initial balances that are part of the genesis.
type GenesisAlloc map[common.Address]GenesisAccount

// GenesisAccount is an account in the state of the genesis.
type GenesisAccount struct {
	Balance math.HexOrDecimal64 `json:"balance"`
}

// DefaultGenesis returns an open ledger without allocations: the first caller
// may initialize the config.
func DefaultGenesis() *Genesis {
	return &Genesis{ChainID: DefaultChainID}
}

// ToHeader returns the batch header of the genesis.
func (g *Genesis) ToHeader() *types.Header {
	return &types.Header{Number: 0, Time: uint64(g.Timestamp)}
}

// Commit writes the genesis state and header to db.
func (g *Genesis) Commit(db probedb.KeyValueStore) (*types.Header, error) {
	if g.ChainID == 0 {
		return nil, errGenesisNoConfig
	}
	spec, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	batch := db.NewBatch()
	for addr, account := range g.Alloc {
		rawdb.WriteAccount(batch, addr, &types.StateAccount{
			Kind:    types.KindGeneral,
			Balance: uint64(account.Balance),
		})
	}
	header := g.ToHeader()
	rawdb.WriteHeader(batch, header)
	rawdb.WriteHeadBatchNumber(batch, header.Number)
	rawdb.WriteGenesis(batch, spec)
	if err := batch.Write(); err != nil {
		return nil, err
	}
	return header, nil
}

// ReadGenesis loads the genesis stored in db.
func ReadGenesis(db probedb.KeyValueReader) (*Genesis, error) {
	spec := rawdb.ReadGenesis(db)
	if len(spec) == 0 {
		return nil, ErrNoGenesis
	}
	genesis := new(Genesis)
	if err := json.Unmarshal(spec, genesis); err != nil {
		return nil, fmt.Errorf("invalid stored genesis: %w", err)
	}
	return genesis, nil
}

// SetupGenesis writes genesis into db unless the database was already
// initialised. A nil genesis stands for DefaultGenesis. Re-initialising with
// a different genesis fails with ErrGenesisMismatch.
//
//	                     genesis == nil       genesis != nil
//	                  +------------------------------------------
//	db has no genesis |  default genesis   |  genesis
//	db has genesis    |  from DB           |  genesis (if compatible)
func SetupGenesis(db probedb.KeyValueStore, genesis *Genesis) (*Genesis, error) {
	stored, err := ReadGenesis(db)
	if errors.Is(err, ErrNoGenesis) {
		if genesis == nil {
			log.Info("Writing default genesis")
			genesis = DefaultGenesis()
		} else {
			log.Info("Writing custom genesis", "chainid", uint64(genesis.ChainID), "alloc", len(genesis.Alloc))
		}
		if _, err := genesis.Commit(db); err != nil {
			return nil, err
		}
		return genesis, nil
	}
	if err != nil {
		return nil, err
	}
	if genesis != nil {
		want, _ := json.Marshal(genesis)
		have, _ := json.Marshal(stored)
		if !bytes.Equal(want, have) {
			return stored, ErrGenesisMismatch
		}
	}
	return stored, nil
}
