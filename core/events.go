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

import "github.com/probechain/agentledger/core/types"

// NewTxsEvent is posted when a transaction enters the transaction pool.
type NewTxsEvent struct{ Txs []*types.Transaction }

// ChainHeadEvent is posted when a batch has been sealed.
type ChainHeadEvent struct {
	Batch    *types.Batch
	Receipts types.Receipts
}
