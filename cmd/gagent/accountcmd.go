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
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/probechain/agentledger/accounts"
	"gopkg.in/urfave/cli.v1"
)

var accountCommand = cli.Command{
	Name:     "account",
	Usage:    "Manage accounts",
	Category: "ACCOUNT COMMANDS",
	Description: `
Manage accounts, list all existing accounts, create a new account or import a
private key.

Keys are stored encrypted in the keystore directory, which defaults to
<DATADIR>/keystore.`,
	Subcommands: []cli.Command{
		{
			Name:   "list",
			Usage:  "Print summary of existing accounts",
			Action: accountList,
		},
		{
			Name:   "new",
			Usage:  "Create a new account",
			Action: accountCreate,
			Flags:  []cli.Flag{passwordFileFlag, lightKDFFlag},
		},
		{
			Name:      "import",
			Usage:     "Import a hex encoded private key into a new account",
			ArgsUsage: "<keyFile>",
			Action:    accountImport,
			Flags:     []cli.Flag{passwordFileFlag, lightKDFFlag},
		},
	},
}

// getPassphrase reads the first line of the password file. Without one the
// key is stored unprotected.
func getPassphrase(ctx *cli.Context) (string, error) {
	path := ctx.String(passwordFileFlag.Name)
	if path == "" {
		log.Warn("No password file given, key is not password protected")
		return "", nil
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read password file: %v", err)
	}
	lines := strings.Split(string(text), "\n")
	return strings.TrimRight(lines[0], "\r"), nil
}

func accountList(ctx *cli.Context) error {
	accs, err := accounts.List(keyStoreDir(ctx))
	if err != nil {
		return err
	}
	for i, acc := range accs {
		fmt.Fprintf(ctx.App.Writer, "Account #%d: {%x} %s\n", i, acc.Address, acc.Path)
	}
	return nil
}

func accountCreate(ctx *cli.Context) error {
	password, err := getPassphrase(ctx)
	if err != nil {
		return err
	}
	acc, err := accounts.NewAccount(keyStoreDir(ctx), password, ctx.Bool(lightKDFFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to create account: %v", err)
	}
	fmt.Fprintf(ctx.App.Writer, "Public address of the key:   %s\n", acc.Address.Hex())
	fmt.Fprintf(ctx.App.Writer, "Path of the secret key file: %s\n", acc.Path)
	return nil
}

func accountImport(ctx *cli.Context) error {
	keyfile := ctx.Args().First()
	if len(keyfile) == 0 {
		return errors.New("keyfile must be given as argument")
	}
	hexkey, err := os.ReadFile(keyfile)
	if err != nil {
		return fmt.Errorf("failed to read key file: %v", err)
	}
	password, err := getPassphrase(ctx)
	if err != nil {
		return err
	}
	acc, err := accounts.ImportKey(keyStoreDir(ctx), strings.TrimSpace(string(hexkey)), password, ctx.Bool(lightKDFFlag.Name))
	if err != nil {
		return fmt.Errorf("could not import key: %v", err)
	}
	fmt.Fprintf(ctx.App.Writer, "Address: {%x}\n", acc.Address)
	return nil
}
