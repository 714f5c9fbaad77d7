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

package leveldb

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

func newTestDatabase(t *testing.T) *Database {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return &Database{db: db}
}

func TestPutGetDelete(t *testing.T) {
	db := newTestDatabase(t)
	defer db.Close()

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	ok, err := db.Has([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)

	v, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), v)

	require.NoError(t, db.Delete([]byte("k")))
	_, err = db.Get([]byte("k"))
	require.ErrorIs(t, err, leveldb.ErrNotFound)
}

func TestBatchWrite(t *testing.T) {
	db := newTestDatabase(t)
	defer db.Close()

	b := db.NewBatch()
	b.Put([]byte("a"), []byte("1"))
	b.Put([]byte("b"), []byte("2"))
	require.Equal(t, 4, b.ValueSize())

	if ok, _ := db.Has([]byte("a")); ok {
		t.Fatal("batch contents visible before write")
	}
	require.NoError(t, b.Write())
	if ok, _ := db.Has([]byte("b")); !ok {
		t.Fatal("batch contents missing after write")
	}
	b.Reset()
	require.Zero(t, b.ValueSize())
}

func TestIteratorPrefix(t *testing.T) {
	db := NewMemory()
	defer db.Close()

	for _, k := range []string{"a1", "b1", "b2", "b3", "c1"} {
		require.NoError(t, db.Put([]byte(k), []byte(k)))
	}
	it := db.NewIterator([]byte("b"), []byte("2"))
	defer it.Release()

	var keys []string
	for it.Next() {
		if !bytes.Equal(it.Key(), it.Value()) {
			t.Fatalf("key/value mismatch: %s != %s", it.Key(), it.Value())
		}
		keys = append(keys, string(it.Key()))
	}
	require.NoError(t, it.Error())
	require.Equal(t, []string{"b2", "b3"}, keys)
}
