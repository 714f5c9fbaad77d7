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

package rawdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/probedb"
)

// ReadHeadBatchNumber retrieves the number of the current head batch.
func ReadHeadBatchNumber(db probedb.KeyValueReader) *uint64 {
	data, _ := db.Get(headBatchKey)
	if len(data) != 8 {
		return nil
	}
	number := binary.BigEndian.Uint64(data)
	return &number
}

// WriteHeadBatchNumber stores the number of the current head batch.
func WriteHeadBatchNumber(db probedb.KeyValueWriter, number uint64) {
	if err := db.Put(headBatchKey, encodeBatchNumber(number)); err != nil {
		log.Crit("Failed to store last batch's number", "err", err)
	}
}

// ReadHeader retrieves the batch header at number.
func ReadHeader(db probedb.KeyValueReader, number uint64) *types.Header {
	data, _ := db.Get(headerKey(number))
	if len(data) == 0 {
		return nil
	}
	header := new(types.Header)
	if err := rlp.DecodeBytes(data, header); err != nil {
		log.Error("Invalid batch header RLP", "number", number, "err", err)
		return nil
	}
	return header
}

// ReadCanonicalHash retrieves the hash of the batch header at number.
func ReadCanonicalHash(db probedb.KeyValueReader, number uint64) common.Hash {
	data, _ := db.Get(headerHashKey(number))
	return common.BytesToHash(data)
}

// WriteHeader stores a batch header and its hash.
func WriteHeader(db probedb.KeyValueWriter, header *types.Header) {
	data, err := rlp.EncodeToBytes(header)
	if err != nil {
		log.Crit("Failed to RLP encode header", "err", err)
	}
	if err := db.Put(headerKey(header.Number), data); err != nil {
		log.Crit("Failed to store header", "err", err)
	}
	if err := db.Put(headerHashKey(header.Number), header.Hash().Bytes()); err != nil {
		log.Crit("Failed to store header hash", "err", err)
	}
}

// ReadBatchTransactions retrieves the transactions sealed in batch number.
func ReadBatchTransactions(db probedb.KeyValueReader, number uint64) types.Transactions {
	data, _ := db.Get(batchTxsKey(number))
	if len(data) == 0 {
		return nil
	}
	var txs types.Transactions
	if err := rlp.DecodeBytes(data, &txs); err != nil {
		log.Error("Invalid batch transactions RLP", "number", number, "err", err)
		return nil
	}
	return txs
}

// WriteBatchTransactions stores the transactions sealed in batch number.
func WriteBatchTransactions(db probedb.KeyValueWriter, number uint64, txs types.Transactions) {
	data, err := rlp.EncodeToBytes(txs)
	if err != nil {
		log.Crit("Failed to RLP encode batch transactions", "err", err)
	}
	if err := db.Put(batchTxsKey(number), data); err != nil {
		log.Crit("Failed to store batch transactions", "err", err)
	}
}

// ReadReceipt retrieves the receipt of the transaction with the given hash.
func ReadReceipt(db probedb.KeyValueReader, hash common.Hash) *types.Receipt {
	data, _ := db.Get(receiptKey(hash))
	if len(data) == 0 {
		return nil
	}
	receipt := new(types.Receipt)
	if err := rlp.DecodeBytes(data, receipt); err != nil {
		log.Error("Invalid receipt RLP", "hash", hash, "err", err)
		return nil
	}
	return receipt
}

// WriteReceipts stores all the receipts of one batch.
func WriteReceipts(db probedb.KeyValueWriter, receipts types.Receipts) {
	for _, receipt := range receipts {
		data, err := rlp.EncodeToBytes(receipt)
		if err != nil {
			log.Crit("Failed to RLP encode receipt", "err", err)
		}
		if err := db.Put(receiptKey(receipt.TxHash), data); err != nil {
			log.Crit("Failed to store receipt", "err", err)
		}
	}
}

// ReadGenesis retrieves the genesis definition stored at initialisation.
func ReadGenesis(db probedb.KeyValueReader) []byte {
	data, _ := db.Get(genesisKey)
	return data
}

// WriteGenesis stores the genesis definition.
func WriteGenesis(db probedb.KeyValueWriter, spec []byte) {
	if err := db.Put(genesisKey, spec); err != nil {
		log.Crit("Failed to store genesis definition", "err", err)
	}
}
