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

package types

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/probechain/agentledger/crypto"
)

// Header describes one sealed batch of transactions.
type Header struct {
	ParentHash common.Hash `json:"parentHash"`
	Number     uint64      `json:"number"`
	Time       uint64      `json:"timestamp"`
	TxHash     common.Hash `json:"transactionsRoot"`
	TxCount    uint64      `json:"transactionCount"`
}

// Hash returns the keccak256 hash of the header's RLP encoding.
func (h *Header) Hash() common.Hash {
	return rlpHash(h)
}

// String returns the number and abbreviated hash, for log output.
func (h *Header) String() string {
	return hexutil.EncodeUint64(h.Number) + "/" + h.Hash().TerminalString()
}

// DeriveTxHash commits to the ordered list of transaction hashes.
func DeriveTxHash(txs Transactions) common.Hash {
	if len(txs) == 0 {
		return common.Hash{}
	}
	d := crypto.NewKeccakState()
	var idx [8]byte
	for i, tx := range txs {
		binary.BigEndian.PutUint64(idx[:], uint64(i))
		d.Write(idx[:])
		h := tx.Hash()
		d.Write(h[:])
	}
	var out common.Hash
	d.Read(out[:])
	return out
}

// Batch is a header plus the transactions it sealed.
type Batch struct {
	header       *Header
	transactions Transactions
}

// NewBatch assembles a batch; the header's TxHash and TxCount are derived from txs.
func NewBatch(header *Header, txs Transactions) *Batch {
	cpy := *header
	cpy.TxHash = DeriveTxHash(txs)
	cpy.TxCount = uint64(len(txs))
	return &Batch{header: &cpy, transactions: append(Transactions(nil), txs...)}
}

func (b *Batch) Header() *Header            { cpy := *b.header; return &cpy }
func (b *Batch) Transactions() Transactions { return b.transactions }
func (b *Batch) NumberU64() uint64          { return b.header.Number }
func (b *Batch) Time() uint64               { return b.header.Time }
func (b *Batch) Hash() common.Hash          { return b.header.Hash() }
