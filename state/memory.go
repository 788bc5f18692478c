// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"sort"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"golang.org/x/exp/maps"
)

var _ Mutable = (*Memory)(nil)

// Memory is a map backed [Mutable] used by tests and the simulator.
type Memory struct {
	l       sync.RWMutex
	storage map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{storage: make(map[string][]byte)}
}

func (m *Memory) GetValue(_ context.Context, key []byte) ([]byte, error) {
	m.l.RLock()
	defer m.l.RUnlock()

	v, ok := m.storage[string(key)]
	if !ok {
		return nil, database.ErrNotFound
	}
	return v, nil
}

func (m *Memory) Insert(_ context.Context, key []byte, value []byte) error {
	m.l.Lock()
	defer m.l.Unlock()

	m.storage[string(key)] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key []byte) error {
	m.l.Lock()
	defer m.l.Unlock()

	delete(m.storage, string(key))
	return nil
}

func (m *Memory) Len() int {
	m.l.RLock()
	defer m.l.RUnlock()

	return len(m.storage)
}

// Keys returns all stored keys in ascending byte order.
func (m *Memory) Keys() [][]byte {
	m.l.RLock()
	ks := maps.Keys(m.storage)
	m.l.RUnlock()

	sort.Strings(ks)
	out := make([][]byte, len(ks))
	for i, k := range ks {
		out[i] = []byte(k)
	}
	return out
}
