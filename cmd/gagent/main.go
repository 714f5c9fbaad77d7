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

// gagent is the command line client of the agent ledger.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/params"
	"gopkg.in/urfave/cli.v1"
)

const clientIdentifier = "gagent"

var (
	globalFlags = []cli.Flag{
		configFileFlag,
		dataDirFlag,
		keyStoreDirFlag,
		verbosityFlag,
		rpcFlag,
	}
	ledgerFlags = []cli.Flag{
		cacheFlag,
		workersFlag,
		txPoolSlotsFlag,
		recommitFlag,
	}
	apiFlags = []cli.Flag{
		httpHostFlag,
		httpPortFlag,
		httpCORSFlag,
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = clientIdentifier
	app.Usage = "the agent reputation ledger command line interface"
	app.Version = params.VersionWithMeta
	app.Flags = globalFlags
	app.Commands = []cli.Command{
		initCommand,
		accountCommand,
		txCommand,
		serveCommand,
		inspectCommand,
		dumpConfigCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
	app.Before = setupLogging
	return app
}

func setupLogging(ctx *cli.Context) error {
	lvl := log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name))
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, false)))
	return nil
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
