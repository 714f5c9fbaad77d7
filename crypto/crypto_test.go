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

package crypto

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func TestKeccak256Hash(t *testing.T) {
	msg := []byte("abc")
	exp := hexutil.MustDecode("0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45")
	if h := Keccak256Hash(msg); !bytes.Equal(h[:], exp) {
		t.Fatalf("hash mismatch: have %x, want %x", h, exp)
	}
	if h := Keccak256(msg); !bytes.Equal(h, exp) {
		t.Fatalf("hash mismatch: have %x, want %x", h, exp)
	}
}

func TestCreateRecordAddress(t *testing.T) {
	a := CreateRecordAddress("identity", []byte("agent-1"))
	b := CreateRecordAddress("identity", []byte("agent-1"))
	require.Equal(t, a, b, "derivation must be deterministic")

	require.NotEqual(t, a, CreateRecordAddress("identity", []byte("agent-2")))
	require.NotEqual(t, a, CreateRecordAddress("reputation", []byte("agent-1")))

	// Seed boundaries are part of the preimage.
	require.NotEqual(t,
		CreateRecordAddress("validation", []byte("ab"), []byte("c")),
		CreateRecordAddress("validation", []byte("a"), []byte("bc")),
	)
}

func TestSignAndRecover(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	digest := Keccak256([]byte("payload"))
	sig, err := Sign(digest, key)
	require.NoError(t, err)
	require.Len(t, sig, SignatureLength)

	addr, err := RecoverAddress(digest, sig)
	require.NoError(t, err)
	require.Equal(t, PubkeyToAddress(key.PublicKey), addr)
}
