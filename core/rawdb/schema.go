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

// Package rawdb contains a collection of low level database accessors.
package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

// The fields below define the low level database schema prefixing.
var (
	// headBatchKey tracks the latest sealed batch header's hash.
	headBatchKey = []byte("LastBatch")

	// genesisKey stores the genesis definition the database was created with.
	genesisKey = []byte("GenesisSpec")

	accountPrefix    = []byte("a") // accountPrefix + address -> account
	ownerIndexPrefix = []byte("o") // ownerIndexPrefix + owner + identity -> nil
	headerPrefix     = []byte("h") // headerPrefix + num (uint64 big endian) -> header
	batchTxsPrefix   = []byte("b") // batchTxsPrefix + num (uint64 big endian) -> transactions
	receiptPrefix    = []byte("r") // receiptPrefix + tx hash -> receipt
	headerHashSuffix = []byte("n") // headerPrefix + num + headerHashSuffix -> hash
)

// encodeBatchNumber encodes a batch number as big endian uint64
func encodeBatchNumber(number uint64) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, number)
	return enc
}

// accountKey = accountPrefix + address
func accountKey(addr common.Address) []byte {
	return append(append([]byte{}, accountPrefix...), addr.Bytes()...)
}

// ownerIndexKey = ownerIndexPrefix + owner + identity
func ownerIndexKey(owner, identity common.Address) []byte {
	key := append(append([]byte{}, ownerIndexPrefix...), owner.Bytes()...)
	return append(key, identity.Bytes()...)
}

// ownerIndexPrefixKey = ownerIndexPrefix + owner
func ownerIndexPrefixKey(owner common.Address) []byte {
	return append(append([]byte{}, ownerIndexPrefix...), owner.Bytes()...)
}

// headerKey = headerPrefix + num (uint64 big endian)
func headerKey(number uint64) []byte {
	return append(append([]byte{}, headerPrefix...), encodeBatchNumber(number)...)
}

// headerHashKey = headerPrefix + num (uint64 big endian) + headerHashSuffix
func headerHashKey(number uint64) []byte {
	return append(headerKey(number), headerHashSuffix...)
}

// batchTxsKey = batchTxsPrefix + num (uint64 big endian)
func batchTxsKey(number uint64) []byte {
	return append(append([]byte{}, batchTxsPrefix...), encodeBatchNumber(number)...)
}

// receiptKey = receiptPrefix + hash
func receiptKey(hash common.Hash) []byte {
	return append(append([]byte{}, receiptPrefix...), hash.Bytes()...)
}
