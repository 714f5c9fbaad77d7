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

package main

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/accounts"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/internal/agentapi"
	"gopkg.in/urfave/cli.v1"
)

var (
	nonceFlag = cli.Uint64Flag{
		Name:  "nonce",
		Usage: "Transaction nonce (default = next nonce of the sender)",
	}
	agentFlag = cli.StringFlag{
		Name:  "agent",
		Usage: "Agent id",
	}
	metadataFlag = cli.StringFlag{
		Name:  "metadata",
		Usage: "Metadata URI of the agent",
	}
	taskFlag = cli.StringFlag{
		Name:  "task",
		Usage: "Hex encoded 32 byte task hash",
	}
	approvedFlag = cli.BoolFlag{
		Name:  "approved",
		Usage: "Approve the task",
	}
	evidenceFlag = cli.StringFlag{
		Name:  "evidence",
		Usage: "Evidence URI of the validation",
	}
	commissionFlag = cli.UintFlag{
		Name:  "commission",
		Usage: "Commission rate in basis points",
	}
	treasuryFlag = cli.StringFlag{
		Name:  "treasury",
		Usage: "Treasury address receiving commissions",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "Recipient of a transfer",
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "Amount to fund or transfer",
	}
	waitFlag = cli.DurationFlag{
		Name:  "wait",
		Usage: "Time to wait for the receipt when sending over --rpc",
		Value: 30 * time.Second,
	}

	txCommand = cli.Command{
		Action:    sendTx,
		Name:      "tx",
		Usage:     "Sign and submit a ledger instruction",
		ArgsUsage: "<instruction>",
		Category:  "LEDGER COMMANDS",
		Flags: append([]cli.Flag{
			fromFlag,
			passwordFileFlag,
			nonceFlag,
			agentFlag,
			metadataFlag,
			taskFlag,
			approvedFlag,
			evidenceFlag,
			commissionFlag,
			treasuryFlag,
			toFlag,
			amountFlag,
			waitFlag,
		}, ledgerFlags...),
		Description: `
The tx command signs an instruction with the key of --from and submits it to
the ledger at --rpc. Without --rpc the instruction is applied to the local
database in a batch of its own. The receipt is printed as JSON.

Instructions: initialize_config, register_agent, update_metadata,
submit_validation, update_reputation, deactivate_agent, claim_rewards,
fund_reward_pool, transfer.`,
	}
)

// txArgsFromFlags assembles the transaction arguments of the tx command.
func txArgsFromFlags(ctx *cli.Context) (*agentapi.TransactionArgs, error) {
	kind := ctx.Args().First()
	if kind == "" {
		return nil, errors.New("instruction must be given as argument")
	}
	if _, err := types.ParseInstructionKind(kind); err != nil {
		return nil, err
	}
	from, err := addressFlag(ctx, fromFlag.Name)
	if err != nil {
		return nil, err
	}
	if from == nil {
		return nil, errors.New("--from is required")
	}
	args := &agentapi.TransactionArgs{
		From:        from,
		Kind:        kind,
		AgentID:     ctx.String(agentFlag.Name),
		MetadataURI: ctx.String(metadataFlag.Name),
		Approved:    ctx.Bool(approvedFlag.Name),
		EvidenceURI: ctx.String(evidenceFlag.Name),
	}
	if ctx.IsSet(nonceFlag.Name) {
		nonce := hexutil.Uint64(ctx.Uint64(nonceFlag.Name))
		args.Nonce = &nonce
	}
	if task := ctx.String(taskFlag.Name); task != "" {
		b, err := hexutil.Decode(task)
		if err != nil || len(b) != common.HashLength {
			return nil, fmt.Errorf("invalid task hash %q", task)
		}
		h := common.BytesToHash(b)
		args.TaskHash = &h
	}
	if ctx.IsSet(commissionFlag.Name) {
		rate := hexutil.Uint64(ctx.Uint(commissionFlag.Name))
		args.CommissionRate = &rate
	}
	if ctx.IsSet(amountFlag.Name) {
		amount := hexutil.Uint64(ctx.Uint64(amountFlag.Name))
		args.Amount = &amount
	}
	if args.Treasury, err = addressFlag(ctx, treasuryFlag.Name); err != nil {
		return nil, err
	}
	if args.To, err = addressFlag(ctx, toFlag.Name); err != nil {
		return nil, err
	}
	return args, nil
}

func addressFlag(ctx *cli.Context, name string) (*common.Address, error) {
	hex := ctx.String(name)
	if hex == "" {
		return nil, nil
	}
	if !common.IsHexAddress(hex) {
		return nil, fmt.Errorf("invalid --%s address %q", name, hex)
	}
	addr := common.HexToAddress(hex)
	return &addr, nil
}

func sendTx(ctx *cli.Context) error {
	args, err := txArgsFromFlags(ctx)
	if err != nil {
		return err
	}
	keyfile, err := accounts.FindKeyFile(keyStoreDir(ctx), *args.From)
	if err != nil {
		return err
	}
	password, err := getPassphrase(ctx)
	if err != nil {
		return err
	}
	key, err := accounts.LoadKey(keyfile, password)
	if err != nil {
		return fmt.Errorf("failed to unlock %v: %v", args.From.Hex(), err)
	}

	var receipt *types.Receipt
	if endpoint := ctx.GlobalString(rpcFlag.Name); endpoint != "" {
		receipt, err = sendRemote(ctx, endpoint, args, key)
	} else {
		receipt, err = sendLocal(ctx, args, key)
	}
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	if receipt.Failed() {
		return fmt.Errorf("transaction failed: %s", receipt.Error)
	}
	return nil
}

func sendRemote(ctx *cli.Context, endpoint string, args *agentapi.TransactionArgs, key *ecdsa.PrivateKey) (*types.Receipt, error) {
	client, err := agentapi.Dial(endpoint)
	if err != nil {
		return nil, err
	}
	defer client.Close()
	bctx, cancel := context.WithTimeout(context.Background(), ctx.Duration(waitFlag.Name))
	defer cancel()

	status, err := client.Status(bctx)
	if err != nil {
		return nil, err
	}
	chainID := uint64(status.ChainID)
	if err := args.SetDefaults(bctx, client); err != nil {
		return nil, err
	}
	d, err := args.ToTxData(chainID)
	if err != nil {
		return nil, err
	}
	tx, err := types.SignNewTx(key, types.NewSigner(chainID), d)
	if err != nil {
		return nil, err
	}
	hash, err := client.SendTransaction(bctx, tx)
	if err != nil {
		return nil, err
	}
	log.Info("Submitted transaction", "hash", hash, "kind", args.Kind, "nonce", tx.Nonce())
	return client.WaitReceipt(bctx, hash)
}

func sendLocal(ctx *cli.Context, args *agentapi.TransactionArgs, key *ecdsa.PrivateKey) (*types.Receipt, error) {
	l, _, err := openLedger(ctx)
	if err != nil {
		return nil, err
	}
	defer l.Stop()

	bctx := context.Background()
	b := l.APIBackend
	if err := args.SetDefaults(bctx, b); err != nil {
		return nil, err
	}
	d, err := args.ToTxData(b.ChainID())
	if err != nil {
		return nil, err
	}
	tx, err := types.SignNewTx(key, l.BlockChain().Signer(), d)
	if err != nil {
		return nil, err
	}
	if err := b.SendTx(bctx, tx); err != nil {
		return nil, err
	}
	if _, _, err := l.Miner().Seal(); err != nil {
		return nil, err
	}
	receipt, err := b.GetReceipt(bctx, tx.Hash())
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, fmt.Errorf("transaction %v was not sealed", tx.Hash())
	}
	return receipt, nil
}
