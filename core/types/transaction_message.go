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
	"github.com/ethereum/go-ethereum/common"
)

// Message is a transaction whose sender has been authenticated. Handlers only
// ever see messages.
type Message struct {
	from common.Address
	tx   *Transaction
}

// AsMessage authenticates tx with the given signer.
func (tx *Transaction) AsMessage(s Signer) (Message, error) {
	from, err := s.Sender(tx)
	if err != nil {
		return Message{}, err
	}
	return Message{from: from, tx: tx}, nil
}

// NewMessage builds a message for a sender that was authenticated elsewhere.
func NewMessage(from common.Address, tx *Transaction) Message {
	return Message{from: from, tx: tx}
}

func (m Message) From() common.Address      { return m.from }
func (m Message) Hash() common.Hash         { return m.tx.Hash() }
func (m Message) Nonce() uint64             { return m.tx.Nonce() }
func (m Message) Kind() InstructionKind     { return m.tx.Kind() }
func (m Message) AgentID() string           { return m.tx.AgentID() }
func (m Message) MetadataURI() string       { return m.tx.MetadataURI() }
func (m Message) TaskHash() common.Hash     { return m.tx.TaskHash() }
func (m Message) Approved() bool            { return m.tx.Approved() }
func (m Message) EvidenceURI() string       { return m.tx.EvidenceURI() }
func (m Message) CommissionRate() uint16    { return m.tx.CommissionRate() }
func (m Message) Treasury() common.Address  { return m.tx.Treasury() }
func (m Message) To() common.Address        { return m.tx.To() }
func (m Message) Amount() uint64            { return m.tx.Amount() }
func (m Message) Transaction() *Transaction { return m.tx }
