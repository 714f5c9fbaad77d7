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

// Package accounts manages the encrypted signing keys of ledger participants.
package accounts

import (
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/probechain/agentledger/crypto"
)

// ErrNoKeyFile is returned when no key file in a directory matches an address.
var ErrNoKeyFile = errors.New("no key file for address")

// Account is a signing key stored on disk.
type Account struct {
	Address common.Address `json:"address"`
	Path    string         `json:"path"`
}

func scryptParams(light bool) (int, int) {
	if light {
		return keystore.LightScryptN, keystore.LightScryptP
	}
	return keystore.StandardScryptN, keystore.StandardScryptP
}

// NewAccount generates a key and stores it encrypted with passphrase in dir.
func NewAccount(dir, passphrase string, light bool) (Account, error) {
	n, p := scryptParams(light)
	acc, err := keystore.StoreKey(dir, passphrase, n, p)
	if err != nil {
		return Account{}, err
	}
	return Account{Address: acc.Address, Path: acc.URL.Path}, nil
}

// ImportKey stores the hex encoded private key encrypted with passphrase in dir.
func ImportKey(dir, hexkey, passphrase string, light bool) (Account, error) {
	key, err := crypto.HexToECDSA(hexkey)
	if err != nil {
		return Account{}, fmt.Errorf("invalid private key: %w", err)
	}
	n, p := scryptParams(light)
	acc, err := keystore.NewKeyStore(dir, n, p).ImportECDSA(key, passphrase)
	if err != nil {
		return Account{}, err
	}
	return Account{Address: acc.Address, Path: acc.URL.Path}, nil
}

// LoadKey decrypts the key file at path.
func LoadKey(path, passphrase string) (*ecdsa.PrivateKey, error) {
	keyjson, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(keyjson, passphrase)
	if err != nil {
		return nil, err
	}
	return key.PrivateKey, nil
}

// FindKeyFile returns the key file in dir holding the key of addr.
func FindKeyFile(dir string, addr common.Address) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if a, err := keyFileAddress(path); err == nil && a == addr {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w %v in %s", ErrNoKeyFile, addr.Hex(), dir)
}

// List returns the accounts of all key files in dir.
func List(dir string) ([]Account, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var accs []Account
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if a, err := keyFileAddress(path); err == nil {
			accs = append(accs, Account{Address: a, Path: path})
		}
	}
	return accs, nil
}

// keyFileAddress reads the address field of a key file without decrypting it.
func keyFileAddress(path string) (common.Address, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.Address{}, err
	}
	var key struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(data, &key); err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(key.Address) {
		return common.Address{}, fmt.Errorf("invalid address in %s", path)
	}
	return common.HexToAddress(key.Address), nil
}
