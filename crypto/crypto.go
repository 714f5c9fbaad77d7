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

package crypto

import (
	"crypto/ecdsa"
	"hash"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// SignatureLength indicates the byte length required to carry a signature with recovery id.
const SignatureLength = ethcrypto.SignatureLength

// DigestLength sets the signature digest exact length
const DigestLength = ethcrypto.DigestLength

// KeccakState wraps sha3.state. In addition to the usual hash methods, it also supports
// Read to get a variable amount of data from the hash state. Read is faster than Sum
// because it doesn't copy the internal state, but also modifies the internal state.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

// NewKeccakState creates a new KeccakState
func NewKeccakState() KeccakState {
	return sha3.NewLegacyKeccak256().(KeccakState)
}

// Keccak256 calculates and returns the Keccak256 hash of the input data.
func Keccak256(data ...[]byte) []byte {
	b := make([]byte, 32)
	d := NewKeccakState()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(b)
	return b
}

// Keccak256Hash calculates and returns the Keccak256 hash of the input data,
// converting it to an internal Hash data structure.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := NewKeccakState()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(h[:])
	return h
}

// CreateRecordAddress derives the address of a record from its namespace and
// seeds. The list is RLP encoded before hashing, so seed boundaries are part
// of the preimage and ("ab","c") never collides with ("a","bc").
func CreateRecordAddress(namespace string, seeds ...[]byte) common.Address {
	items := make([]interface{}, 0, len(seeds)+1)
	items = append(items, []byte(namespace))
	for _, s := range seeds {
		items = append(items, s)
	}
	data, _ := rlp.EncodeToBytes(items)
	return common.BytesToAddress(Keccak256(data)[12:])
}

// GenerateKey creates a new secp256k1 private key.
func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ethcrypto.GenerateKey()
}

// Sign calculates a recoverable ECDSA signature over a 32 byte digest.
func Sign(digest []byte, prv *ecdsa.PrivateKey) ([]byte, error) {
	return ethcrypto.Sign(digest, prv)
}

// RecoverAddress returns the address of the key that produced sig over digest.
func RecoverAddress(digest, sig []byte) (common.Address, error) {
	pub, err := ethcrypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, err
	}
	return ethcrypto.PubkeyToAddress(*pub), nil
}

// PubkeyToAddress returns the account address of a public key.
func PubkeyToAddress(p ecdsa.PublicKey) common.Address {
	return ethcrypto.PubkeyToAddress(p)
}

// HexToECDSA parses a hex encoded secp256k1 private key.
func HexToECDSA(hexkey string) (*ecdsa.PrivateKey, error) {
	return ethcrypto.HexToECDSA(hexkey)
}
