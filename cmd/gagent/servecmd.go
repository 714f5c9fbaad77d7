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
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/internal/agentapi"
	"gopkg.in/urfave/cli.v1"
)

var serveCommand = cli.Command{
	Action:   serve,
	Name:     "serve",
	Usage:    "Run the ledger and serve the JSON-RPC API over HTTP",
	Flags:    append(append([]cli.Flag{}, ledgerFlags...), apiFlags...),
	Category: "LEDGER COMMANDS",
	Description: `
The serve command seals submitted transactions into batches and serves the
ledger API until interrupted.`,
}

func serve(ctx *cli.Context) error {
	l, cfg, err := openLedger(ctx)
	if err != nil {
		return err
	}
	if err := l.Start(); err != nil {
		l.Stop()
		return err
	}
	var srv *agentapi.Server
	if cfg.API.HTTPHost != "" {
		if srv, err = agentapi.NewServer(l.APIBackend, l.APIs(), cfg.API); err != nil {
			l.Stop()
			return err
		}
		if err := srv.Start(); err != nil {
			l.Stop()
			return err
		}
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)
	<-sigc
	log.Info("Got interrupt, shutting down...")

	if srv != nil {
		srv.Stop()
	}
	return l.Stop()
}
