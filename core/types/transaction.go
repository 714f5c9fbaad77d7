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
	"errors"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/probechain/agentledger/crypto"
)

var ErrInvalidSig = errors.New("invalid transaction v, r, s values")

// TxData is the consensus content of a ledger transaction. Fields not used by
// the instruction named in Kind are left zero.
type TxData struct {
	ChainID uint64
	Nonce   uint64
	Kind    InstructionKind

	AgentID        string
	MetadataURI    string
	TaskHash       common.Hash
	Approved       bool
	EvidenceURI    string
	CommissionRate uint16
	Treasury       common.Address
	To             common.Address
	Amount         uint64

	Sig []byte // 65 byte recoverable signature over SigHash
}

// unsignedTx is TxData without the signature, used to compute the signing hash.
type unsignedTx struct {
	ChainID        uint64
	Nonce          uint64
	Kind           InstructionKind
	AgentID        string
	MetadataURI    string
	TaskHash       common.Hash
	Approved       bool
	EvidenceURI    string
	CommissionRate uint16
	Treasury       common.Address
	To             common.Address
	Amount         uint64
}

// Transaction is a signed instruction submitted to the ledger.
type Transaction struct {
	inner TxData

	// caches
	hash atomic.Pointer[common.Hash]
	from atomic.Pointer[common.Address]
}

// NewTx creates a new transaction from a copy of d.
func NewTx(d *TxData) *Transaction {
	cpy := *d
	cpy.Sig = common.CopyBytes(d.Sig)
	return &Transaction{inner: cpy}
}

// EncodeRLP implements rlp.Encoder
func (tx *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &tx.inner)
}

// DecodeRLP implements rlp.Decoder
func (tx *Transaction) DecodeRLP(s *rlp.Stream) error {
	var inner TxData
	if err := s.Decode(&inner); err != nil {
		return err
	}
	tx.inner = inner
	tx.hash.Store(nil)
	tx.from.Store(nil)
	return nil
}

// MarshalBinary returns the canonical encoding of the transaction.
func (tx *Transaction) MarshalBinary() ([]byte, error) {
	return rlp.EncodeToBytes(tx)
}

// UnmarshalBinary decodes the canonical encoding of transactions.
func (tx *Transaction) UnmarshalBinary(b []byte) error {
	return rlp.DecodeBytes(b, tx)
}

func (tx *Transaction) ChainID() uint64          { return tx.inner.ChainID }
func (tx *Transaction) Nonce() uint64            { return tx.inner.Nonce }
func (tx *Transaction) Kind() InstructionKind    { return tx.inner.Kind }
func (tx *Transaction) AgentID() string          { return tx.inner.AgentID }
func (tx *Transaction) MetadataURI() string      { return tx.inner.MetadataURI }
func (tx *Transaction) TaskHash() common.Hash    { return tx.inner.TaskHash }
func (tx *Transaction) Approved() bool           { return tx.inner.Approved }
func (tx *Transaction) EvidenceURI() string      { return tx.inner.EvidenceURI }
func (tx *Transaction) CommissionRate() uint16   { return tx.inner.CommissionRate }
func (tx *Transaction) Treasury() common.Address { return tx.inner.Treasury }
func (tx *Transaction) To() common.Address       { return tx.inner.To }
func (tx *Transaction) Amount() uint64           { return tx.inner.Amount }
func (tx *Transaction) RawSignature() []byte     { return common.CopyBytes(tx.inner.Sig) }
func (tx *Transaction) Signed() bool             { return len(tx.inner.Sig) == crypto.SignatureLength }

// Data returns a copy of the transaction content.
func (tx *Transaction) Data() TxData {
	cpy := tx.inner
	cpy.Sig = common.CopyBytes(tx.inner.Sig)
	return cpy
}

// Hash returns the transaction hash.
func (tx *Transaction) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return *hash
	}
	h := rlpHash(&tx.inner)
	tx.hash.Store(&h)
	return h
}

// SigHash returns the hash to be signed by the sender.
func (tx *Transaction) SigHash() common.Hash {
	d := &tx.inner
	return rlpHash(&unsignedTx{
		ChainID:        d.ChainID,
		Nonce:          d.Nonce,
		Kind:           d.Kind,
		AgentID:        d.AgentID,
		MetadataURI:    d.MetadataURI,
		TaskHash:       d.TaskHash,
		Approved:       d.Approved,
		EvidenceURI:    d.EvidenceURI,
		CommissionRate: d.CommissionRate,
		Treasury:       d.Treasury,
		To:             d.To,
		Amount:         d.Amount,
	})
}

// WithSignature returns a new transaction carrying the given signature.
func (tx *Transaction) WithSignature(sig []byte) (*Transaction, error) {
	if len(sig) != crypto.SignatureLength {
		return nil, ErrInvalidSig
	}
	cpy := NewTx(&tx.inner)
	cpy.inner.Sig = common.CopyBytes(sig)
	return cpy, nil
}

// Transactions is a list of transactions applied as one batch.
type Transactions []*Transaction

// Len returns the length of s.
func (s Transactions) Len() int { return len(s) }

// Hashes returns the hashes of all transactions in s.
func (s Transactions) Hashes() []common.Hash {
	hashes := make([]common.Hash, len(s))
	for i, tx := range s {
		hashes[i] = tx.Hash()
	}
	return hashes
}

func rlpHash(x interface{}) common.Hash {
	data, _ := rlp.EncodeToBytes(x)
	return crypto.Keccak256Hash(data)
}
