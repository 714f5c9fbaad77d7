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

package agentapi

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/probechain/agentledger/core/types"
)

// NonceSource resolves the next nonce of a signer.
type NonceSource interface {
	GetPoolNonce(ctx context.Context, addr common.Address) (uint64, error)
}

// TransactionArgs represents the arguments to construct a new transaction.
type TransactionArgs struct {
	From           *common.Address `json:"from"`
	Kind           string          `json:"kind"`
	Nonce          *hexutil.Uint64 `json:"nonce"`
	AgentID        string          `json:"agentId,omitempty"`
	MetadataURI    string          `json:"metadataUri,omitempty"`
	TaskHash       *common.Hash    `json:"taskHash,omitempty"`
	Approved       bool            `json:"approved,omitempty"`
	EvidenceURI    string          `json:"evidenceUri,omitempty"`
	CommissionRate *hexutil.Uint64 `json:"commissionRate,omitempty"`
	Treasury       *common.Address `json:"treasury,omitempty"`
	To             *common.Address `json:"to,omitempty"`
	Amount         *hexutil.Uint64 `json:"amount,omitempty"`
}

// from retrieves the transaction sender address.
func (args *TransactionArgs) from() common.Address {
	if args.From == nil {
		return common.Address{}
	}
	return *args.From
}

// SetDefaults fills in the nonce and checks that the fields the instruction
// needs are present.
func (args *TransactionArgs) SetDefaults(ctx context.Context, b NonceSource) error {
	kind, err := types.ParseInstructionKind(args.Kind)
	if err != nil {
		return err
	}
	switch kind {
	case types.InitializeConfig:
		err = args.setDefaultsOfInitializeConfig()
	case types.RegisterAgent, types.UpdateMetadata, types.DeactivateAgent, types.ClaimRewards:
		err = args.requireAgent()
	case types.SubmitValidation, types.UpdateReputation:
		err = args.setDefaultsOfValidation()
	case types.FundRewardPool:
		if err = args.requireAgent(); err == nil {
			err = args.requireAmount()
		}
	case types.Transfer:
		err = args.setDefaultsOfTransfer()
	}
	if err != nil {
		return err
	}
	if args.Nonce == nil {
		if args.From == nil {
			return errors.New(`"from" is required to look up the nonce`)
		}
		nonce, err := b.GetPoolNonce(ctx, args.from())
		if err != nil {
			return err
		}
		args.Nonce = (*hexutil.Uint64)(&nonce)
	}
	return nil
}

func (args *TransactionArgs) setDefaultsOfInitializeConfig() error {
	if args.Treasury == nil {
		return errors.New(`"treasury" must be specified`)
	}
	if args.CommissionRate == nil {
		return errors.New(`"commissionRate" must be specified`)
	}
	if uint64(*args.CommissionRate) > 0xffff {
		return fmt.Errorf("commission rate %d out of range", uint64(*args.CommissionRate))
	}
	return nil
}

func (args *TransactionArgs) setDefaultsOfValidation() error {
	if err := args.requireAgent(); err != nil {
		return err
	}
	if args.TaskHash == nil {
		return errors.New(`"taskHash" must be specified`)
	}
	return nil
}

func (args *TransactionArgs) setDefaultsOfTransfer() error {
	if args.To == nil {
		return errors.New(`"to" must be specified`)
	}
	return args.requireAmount()
}

func (args *TransactionArgs) requireAgent() error {
	if args.AgentID == "" {
		return errors.New(`"agentId" must be specified`)
	}
	return nil
}

func (args *TransactionArgs) requireAmount() error {
	if args.Amount == nil || *args.Amount == 0 {
		return errors.New(`"amount" must be specified and greater than 0`)
	}
	return nil
}

// ToTxData converts the arguments to transaction content. SetDefaults must
// have been called.
func (args *TransactionArgs) ToTxData(chainID uint64) (*types.TxData, error) {
	kind, err := types.ParseInstructionKind(args.Kind)
	if err != nil {
		return nil, err
	}
	if args.Nonce == nil {
		return nil, errors.New("nonce not set")
	}
	d := &types.TxData{
		ChainID:     chainID,
		Nonce:       uint64(*args.Nonce),
		Kind:        kind,
		AgentID:     args.AgentID,
		MetadataURI: args.MetadataURI,
		Approved:    args.Approved,
		EvidenceURI: args.EvidenceURI,
	}
	if args.TaskHash != nil {
		d.TaskHash = *args.TaskHash
	}
	if args.CommissionRate != nil {
		d.CommissionRate = uint16(*args.CommissionRate)
	}
	if args.Treasury != nil {
		d.Treasury = *args.Treasury
	}
	if args.To != nil {
		d.To = *args.To
	}
	if args.Amount != nil {
		d.Amount = uint64(*args.Amount)
	}
	return d, nil
}
