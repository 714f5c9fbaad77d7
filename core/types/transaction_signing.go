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
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/crypto"
)

var ErrInvalidChainID = errors.New("invalid chain id for signer")

// Signer signs and recovers transactions for one chain.
type Signer struct {
	chainID uint64
}

// NewSigner returns a signer bound to chainID.
func NewSigner(chainID uint64) Signer {
	return Signer{chainID: chainID}
}

// ChainID returns the chain the signer is bound to.
func (s Signer) ChainID() uint64 { return s.chainID }

// Sender returns the address derived from the signature of tx. The result is
// cached in the transaction.
func (s Signer) Sender(tx *Transaction) (common.Address, error) {
	if tx.ChainID() != s.chainID {
		return common.Address{}, ErrInvalidChainID
	}
	if from := tx.from.Load(); from != nil {
		return *from, nil
	}
	if !tx.Signed() {
		return common.Address{}, ErrInvalidSig
	}
	addr, err := crypto.RecoverAddress(tx.SigHash().Bytes(), tx.inner.Sig)
	if err != nil {
		return common.Address{}, err
	}
	tx.from.Store(&addr)
	return addr, nil
}

// SignTx signs the transaction using the given signer and private key.
func SignTx(tx *Transaction, s Signer, prv *ecdsa.PrivateKey) (*Transaction, error) {
	if tx.ChainID() != s.chainID {
		return nil, ErrInvalidChainID
	}
	sig, err := crypto.Sign(tx.SigHash().Bytes(), prv)
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(sig)
}

// SignNewTx creates a transaction and signs it.
func SignNewTx(prv *ecdsa.PrivateKey, s Signer, d *TxData) (*Transaction, error) {
	d.ChainID = s.chainID
	return SignTx(NewTx(d), s, prv)
}

// MustSignNewTx creates a transaction and signs it.
// This panics if the transaction cannot be signed.
func MustSignNewTx(prv *ecdsa.PrivateKey, s Signer, d *TxData) *Transaction {
	tx, err := SignNewTx(prv, s, d)
	if err != nil {
		panic(err)
	}
	return tx
}
