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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/olekukonko/tablewriter"
	"github.com/probechain/agentledger/core"
	"github.com/probechain/agentledger/core/types"
	"github.com/probechain/agentledger/internal/agentapi"
	"github.com/probechain/agentledger/ledger"
	"gopkg.in/urfave/cli.v1"
)

var (
	initCommand = cli.Command{
		Action:    initGenesis,
		Name:      "init",
		Usage:     "Bootstrap and initialize a new ledger",
		ArgsUsage: "<genesisPath>",
		Category:  "LEDGER COMMANDS",
		Description: `
The init command initializes a new ledger from a genesis file. The authority
named in the genesis is the only account allowed to initialize the config.

It expects the genesis file as argument.`,
	}
	inspectCommand = cli.Command{
		Name:     "inspect",
		Usage:    "Show ledger records",
		Category: "LEDGER COMMANDS",
		Description: `
The inspect commands read the local database, or the ledger served at the
--rpc endpoint if one is given.`,
		Subcommands: []cli.Command{
			{
				Action: inspectConfig,
				Name:   "config",
				Usage:  "Show the global configuration",
			},
			{
				Action:    inspectAgent,
				Name:      "agent",
				Usage:     "Show one agent",
				ArgsUsage: "<agentId>",
			},
			{
				Action: inspectAgents,
				Name:   "agents",
				Usage:  "List registered agents",
				Flags: []cli.Flag{
					cli.StringFlag{Name: "owner", Usage: "Only list the agents of this owner"},
				},
			},
		},
	}
)

// initGenesis will initialise the given JSON format genesis file and writes it
// as the zero'd batch (i.e. genesis) or will fail hard if it can't succeed.
func initGenesis(ctx *cli.Context) error {
	genesisPath := ctx.Args().First()
	if len(genesisPath) == 0 {
		return errors.New("must supply path to genesis JSON file")
	}
	file, err := os.Open(genesisPath)
	if err != nil {
		return fmt.Errorf("failed to read genesis file: %v", err)
	}
	defer file.Close()

	genesis := new(core.Genesis)
	if err := json.NewDecoder(file).Decode(genesis); err != nil {
		return fmt.Errorf("invalid genesis file: %v", err)
	}
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	db, err := ledger.OpenDatabase(cfg.Node.DataDir, &cfg.Ledger, false)
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := core.SetupGenesis(db, genesis); err != nil {
		return fmt.Errorf("failed to write genesis: %v", err)
	}
	log.Info("Successfully wrote genesis state", "chainid", uint64(genesis.ChainID), "authority", genesis.Authority)
	return nil
}

// ledgerReader is the read side shared by the local database and the HTTP
// client.
type ledgerReader interface {
	Config(ctx context.Context) (*types.GlobalConfig, error)
	Agent(ctx context.Context, agentID string) (*core.Agent, error)
	Agents(ctx context.Context, owner *common.Address) ([]*core.Agent, error)
}

type localReader struct {
	b agentapi.Backend
}

func (r localReader) Config(ctx context.Context) (*types.GlobalConfig, error) {
	return r.b.GetConfig(ctx)
}

func (r localReader) Agent(ctx context.Context, agentID string) (*core.Agent, error) {
	return r.b.GetAgent(ctx, agentID)
}

func (r localReader) Agents(ctx context.Context, owner *common.Address) ([]*core.Agent, error) {
	if owner != nil {
		return r.b.GetAgentsByOwner(ctx, *owner)
	}
	return r.b.GetAgents(ctx)
}

// withReader runs fn against the --rpc endpoint, or against a ledger opened
// on the local database.
func withReader(ctx *cli.Context, fn func(ledgerReader) error) error {
	if endpoint := ctx.GlobalString(rpcFlag.Name); endpoint != "" {
		client, err := agentapi.Dial(endpoint)
		if err != nil {
			return err
		}
		defer client.Close()
		return fn(client)
	}
	l, _, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer l.Stop()
	return fn(localReader{l.APIBackend})
}

// openLedger creates the ledger service over the local database.
func openLedger(ctx *cli.Context) (*ledger.Ledger, *gagentConfig, error) {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	db, err := ledger.OpenDatabase(cfg.Node.DataDir, &cfg.Ledger, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %v", err)
	}
	l, err := ledger.New(db, &cfg.Ledger)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return l, &cfg, nil
}

func inspectConfig(ctx *cli.Context) error {
	return withReader(ctx, func(r ledgerReader) error {
		cfg, err := r.Config(context.Background())
		if err != nil {
			return err
		}
		table := newTable(ctx.App.Writer, "FIELD", "VALUE")
		table.Append([]string{"Authority", cfg.Authority.Hex()})
		table.Append([]string{"Treasury", cfg.Treasury.Hex()})
		table.Append([]string{"CommissionRate", strconv.FormatUint(uint64(cfg.CommissionRate), 10)})
		table.Append([]string{"TotalAgents", strconv.FormatUint(cfg.TotalAgents, 10)})
		table.Append([]string{"TotalValidations", strconv.FormatUint(cfg.TotalValidations, 10)})
		table.Render()
		return nil
	})
}

func inspectAgent(ctx *cli.Context) error {
	agentID := ctx.Args().First()
	if agentID == "" {
		return errors.New("must supply an agent id")
	}
	return withReader(ctx, func(r ledgerReader) error {
		agent, err := r.Agent(context.Background(), agentID)
		if err != nil {
			return err
		}
		table := newTable(ctx.App.Writer, "FIELD", "VALUE")
		table.Append([]string{"Identity", agent.Address.Hex()})
		table.Append([]string{"AgentID", agent.Identity.AgentID})
		table.Append([]string{"Owner", agent.Identity.Owner.Hex()})
		table.Append([]string{"MetadataURI", agent.Identity.MetadataURI})
		table.Append([]string{"Active", strconv.FormatBool(agent.Identity.IsActive)})
		table.Append([]string{"CreatedAt", strconv.FormatUint(agent.Identity.CreatedAt, 10)})
		table.Append([]string{"UpdatedAt", strconv.FormatUint(agent.Identity.UpdatedAt, 10)})
		if rep := agent.Reputation; rep != nil {
			table.Append([]string{"Score", strconv.FormatUint(rep.Score, 10)})
			table.Append([]string{"TotalTasks", strconv.FormatUint(rep.TotalTasks, 10)})
			table.Append([]string{"SuccessfulTasks", strconv.FormatUint(rep.SuccessfulTasks, 10)})
			table.Append([]string{"FailedTasks", strconv.FormatUint(rep.FailedTasks, 10)})
			table.Append([]string{"SuccessRate", strconv.FormatUint(rep.SuccessRate(), 10) + "%"})
		}
		if pool := agent.RewardPool; pool != nil {
			table.Append([]string{"Claimable", strconv.FormatUint(pool.ClaimableAmount, 10)})
			table.Append([]string{"TotalClaimed", strconv.FormatUint(pool.TotalClaimed, 10)})
			table.Append([]string{"LastClaim", strconv.FormatUint(pool.LastClaim, 10)})
		}
		table.Append([]string{"PoolBalance", strconv.FormatUint(agent.PoolBalance, 10)})
		table.Render()
		return nil
	})
}

func inspectAgents(ctx *cli.Context) error {
	var owner *common.Address
	if hex := ctx.String("owner"); hex != "" {
		if !common.IsHexAddress(hex) {
			return fmt.Errorf("invalid owner address %q", hex)
		}
		addr := common.HexToAddress(hex)
		owner = &addr
	}
	return withReader(ctx, func(r ledgerReader) error {
		agents, err := r.Agents(context.Background(), owner)
		if err != nil {
			return err
		}
		table := newTable(ctx.App.Writer, "AGENT", "OWNER", "ACTIVE", "SCORE", "TASKS", "CLAIMABLE")
		for _, agent := range agents {
			var score, tasks, claimable uint64
			if agent.Reputation != nil {
				score, tasks = agent.Reputation.Score, agent.Reputation.TotalTasks
			}
			if agent.RewardPool != nil {
				claimable = agent.RewardPool.ClaimableAmount
			}
			table.Append([]string{
				agent.Identity.AgentID,
				agent.Identity.Owner.Hex(),
				strconv.FormatBool(agent.Identity.IsActive),
				strconv.FormatUint(score, 10),
				strconv.FormatUint(tasks, 10),
				strconv.FormatUint(claimable, 10),
			})
		}
		table.Render()
		return nil
	})
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}
