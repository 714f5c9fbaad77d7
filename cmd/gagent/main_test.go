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
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey     = "289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"
	testAddress = "0x970E8128AB834E8EAC17Ab8E3812F010678CF791"
	treasury    = "0x7777777777777777777777777777777777777777"
)

// runApp runs the command line with args and returns what it printed.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run(append([]string{clientIdentifier, "--verbosity", "0"}, args...))
	return out.String(), err
}

func TestLedgerCommands(t *testing.T) {
	dir := t.TempDir()
	datadir := filepath.Join(dir, "data")
	password := writeFile(t, dir, "password", "secret\n")
	keyfile := writeFile(t, dir, "key", testKey+"\n")
	genesis := writeFile(t, dir, "genesis.json", `{
		"chainId": "0x4d",
		"timestamp": "1700000000",
		"authority": "`+testAddress+`",
		"alloc": {"`+testAddress+`": {"balance": "10000000"}}
	}`)

	out, err := runApp(t, "--datadir", datadir, "account", "import", "--lightkdf", "--password", password, keyfile)
	require.NoError(t, err)
	assert.Contains(t, out, "970e8128ab834e8eac17ab8e3812f010678cf791")

	out, err = runApp(t, "--datadir", datadir, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Account #0: {970e8128ab834e8eac17ab8e3812f010678cf791}")

	_, err = runApp(t, "--datadir", datadir, "init", genesis)
	require.NoError(t, err)

	tx := func(args ...string) (*types.Receipt, error) {
		base := []string{"--datadir", datadir, "tx", "--from", testAddress, "--password", password}
		out, err := runApp(t, append(base, args...)...)
		if out == "" {
			return nil, err
		}
		receipt := new(types.Receipt)
		require.NoError(t, json.Unmarshal([]byte(out), receipt))
		return receipt, err
	}

	receipt, err := tx("--commission", "300", "--treasury", treasury, "initialize_config")
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
	assert.Equal(t, common.HexToAddress(testAddress), receipt.From)

	receipt, err = tx("--agent", "agent-1", "--metadata", "uri://agent-1", "register_agent")
	require.NoError(t, err)
	assert.Equal(t, types.RegisterAgent, receipt.Kind)

	task := "0x" + common.Bytes2Hex(bytes.Repeat([]byte{0xaa}, 32))
	receipt, err = tx("--agent", "agent-1", "--task", task, "--approved", "submit_validation")
	require.NoError(t, err)
	assert.Equal(t, uint64(30_000), receipt.Value)

	receipt, err = tx("--agent", "agent-1", "--task", task, "update_reputation")
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000), receipt.Value)

	// The validation has been consumed already.
	receipt, err = tx("--agent", "agent-1", "--task", task, "update_reputation")
	require.Error(t, err)
	require.NotNil(t, receipt)
	assert.True(t, receipt.Failed())

	out, err = runApp(t, "--datadir", datadir, "inspect", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "300")
	assert.Contains(t, out, common.HexToAddress(treasury).Hex())

	out, err = runApp(t, "--datadir", datadir, "inspect", "agent", "agent-1")
	require.NoError(t, err)
	assert.Contains(t, out, "uri://agent-1")
	assert.Contains(t, out, "5100")
	assert.Regexp(t, `SuccessRate\s*\|\s*100%`, out)

	out, err = runApp(t, "--datadir", datadir, "inspect", "agents", "--owner", testAddress)
	require.NoError(t, err)
	assert.Contains(t, out, "agent-1")
}

func TestTxCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := runApp(t, "--datadir", dir, "tx", "--from", testAddress, "bogus")
	assert.ErrorContains(t, err, `unknown instruction "bogus"`)

	_, err = runApp(t, "--datadir", dir, "tx", "register_agent")
	assert.ErrorContains(t, err, "--from is required")

	_, err = runApp(t, "--datadir", dir, "tx", "--from", testAddress, "--task", "0x01", "submit_validation")
	assert.ErrorContains(t, err, "invalid task hash")

	_, err = runApp(t, "--datadir", dir, "tx", "--from", testAddress, "register_agent")
	assert.ErrorContains(t, err, "no key file")
}
