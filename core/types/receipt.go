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
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// ReceiptStatusFailed is the status code of a transaction if execution failed.
	ReceiptStatusFailed = uint64(0)

	// ReceiptStatusSuccessful is the status code of a transaction if execution succeeded.
	ReceiptStatusSuccessful = uint64(1)
)

// Receipt is the outcome of one transaction.
type Receipt struct {
	TxHash common.Hash
	From   common.Address
	Kind   InstructionKind
	Status uint64
	Error  string

	// Value moved by the instruction: commission paid, reward credited,
	// amount claimed, funded or transferred.
	Value uint64

	// Inclusion information, filled in by the processor.
	BatchNumber      uint64
	TransactionIndex uint64
}

// Failed reports whether the transaction was rejected.
func (r *Receipt) Failed() bool { return r.Status == ReceiptStatusFailed }

type receiptMarshaling struct {
	TxHash           common.Hash    `json:"transactionHash"`
	From             common.Address `json:"from"`
	Kind             string         `json:"kind"`
	Status           hexutil.Uint64 `json:"status"`
	Error            string         `json:"error,omitempty"`
	Value            hexutil.Uint64 `json:"value"`
	BatchNumber      hexutil.Uint64 `json:"batchNumber"`
	TransactionIndex hexutil.Uint64 `json:"transactionIndex"`
}

// MarshalJSON marshals as JSON.
func (r Receipt) MarshalJSON() ([]byte, error) {
	return json.Marshal(receiptMarshaling{
		TxHash:           r.TxHash,
		From:             r.From,
		Kind:             r.Kind.String(),
		Status:           hexutil.Uint64(r.Status),
		Error:            r.Error,
		Value:            hexutil.Uint64(r.Value),
		BatchNumber:      hexutil.Uint64(r.BatchNumber),
		TransactionIndex: hexutil.Uint64(r.TransactionIndex),
	})
}

// UnmarshalJSON unmarshals from JSON.
func (r *Receipt) UnmarshalJSON(input []byte) error {
	var dec receiptMarshaling
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	kind, err := ParseInstructionKind(dec.Kind)
	if err != nil {
		return err
	}
	*r = Receipt{
		TxHash:           dec.TxHash,
		From:             dec.From,
		Kind:             kind,
		Status:           uint64(dec.Status),
		Error:            dec.Error,
		Value:            uint64(dec.Value),
		BatchNumber:      uint64(dec.BatchNumber),
		TransactionIndex: uint64(dec.TransactionIndex),
	}
	return nil
}

// Receipts is a list of receipts in batch order.
type Receipts []*Receipt

// Len returns the number of receipts in this list.
func (rs Receipts) Len() int { return len(rs) }
