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
	"path/filepath"
	"strings"

	"github.com/probechain/agentledger/internal/agentapi"
	"github.com/probechain/agentledger/ledger"
	"gopkg.in/urfave/cli.v1"
)

var (
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the database and keystore",
		Value: defaultDataDir(),
	}
	keyStoreDirFlag = cli.StringFlag{
		Name:  "keystore",
		Usage: "Directory for the keystore (default = inside the datadir)",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=detail",
		Value: 3,
	}
	rpcFlag = cli.StringFlag{
		Name:  "rpc",
		Usage: "HTTP endpoint of a running ledger; the local database is used if empty",
	}

	// Ledger settings
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Usage: "Megabytes of memory allocated to the database",
		Value: ledger.Defaults.DatabaseCache,
	}
	workersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "Maximum number of transaction lanes applied concurrently",
		Value: ledger.Defaults.Workers,
	}
	txPoolSlotsFlag = cli.Uint64Flag{
		Name:  "txpool.globalslots",
		Usage: "Maximum number of pooled transactions",
		Value: ledger.Defaults.TxPool.GlobalSlots,
	}
	recommitFlag = cli.DurationFlag{
		Name:  "recommit",
		Usage: "Time interval to seal pooled transactions",
		Value: ledger.Defaults.Miner.Recommit,
	}

	// API settings
	httpHostFlag = cli.StringFlag{
		Name:  "http.addr",
		Usage: "HTTP-RPC server listening interface",
		Value: agentapi.DefaultConfig.HTTPHost,
	}
	httpPortFlag = cli.IntFlag{
		Name:  "http.port",
		Usage: "HTTP-RPC server listening port",
		Value: agentapi.DefaultConfig.HTTPPort,
	}
	httpCORSFlag = cli.StringFlag{
		Name:  "http.corsdomain",
		Usage: "Comma separated list of domains from which to accept cross origin requests",
	}

	// Account settings
	passwordFileFlag = cli.StringFlag{
		Name:  "password",
		Usage: "Password file to use for non-interactive password input",
	}
	lightKDFFlag = cli.BoolFlag{
		Name:  "lightkdf",
		Usage: "Reduce key-derivation RAM & CPU usage at some expense of KDF strength",
	}
	fromFlag = cli.StringFlag{
		Name:  "from",
		Usage: "Address of the signing account",
	}
)

// defaultDataDir is the default data directory to use for the databases and
// other persistence requirements.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".gagent")
}

// keyStoreDir resolves the keystore directory from the flags.
func keyStoreDir(ctx *cli.Context) string {
	if dir := ctx.GlobalString(keyStoreDirFlag.Name); dir != "" {
		return dir
	}
	return filepath.Join(ctx.GlobalString(dataDirFlag.Name), "keystore")
}

// splitAndTrim splits input separated by a comma and trims excessive white
// space from the substrings.
func splitAndTrim(input string) (ret []string) {
	for _, r := range strings.Split(input, ",") {
		if r = strings.TrimSpace(r); r != "" {
			ret = append(ret, r)
		}
	}
	return ret
}

// setLedgerConfig applies ledger related command line flags to the config.
func setLedgerConfig(ctx *cli.Context, cfg *ledger.Config) {
	if ctx.IsSet(cacheFlag.Name) {
		cfg.DatabaseCache = ctx.Int(cacheFlag.Name)
	}
	if ctx.IsSet(workersFlag.Name) {
		cfg.Workers = ctx.Int(workersFlag.Name)
	}
	if ctx.IsSet(txPoolSlotsFlag.Name) {
		cfg.TxPool.GlobalSlots = ctx.Uint64(txPoolSlotsFlag.Name)
	}
	if ctx.IsSet(recommitFlag.Name) {
		cfg.Miner.Recommit = ctx.Duration(recommitFlag.Name)
	}
}

// setAPIConfig applies HTTP related command line flags to the config.
func setAPIConfig(ctx *cli.Context, cfg *agentapi.Config) {
	if ctx.IsSet(httpHostFlag.Name) {
		cfg.HTTPHost = ctx.String(httpHostFlag.Name)
	}
	if ctx.IsSet(httpPortFlag.Name) {
		cfg.HTTPPort = ctx.Int(httpPortFlag.Name)
	}
	if ctx.IsSet(httpCORSFlag.Name) {
		cfg.CORSOrigins = splitAndTrim(ctx.String(httpCORSFlag.Name))
	}
}
