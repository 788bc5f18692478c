// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/cfmm/state"
)

var _ state.Immutable = (*TState)(nil)

// TState buffers committed view changes on top of a base store until they
// are flushed.
type TState struct {
	l           sync.RWMutex
	base        state.Immutable
	changedKeys map[string]maybe.Maybe[[]byte]
	ops         int
}

// New returns a new instance of TState reading through to [base].
//
// [changedSize] is an estimate of the number of keys that will be changed.
func New(base state.Immutable, changedSize int) *TState {
	return &TState{
		base:        base,
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

func (ts *TState) getChangedValue(_ context.Context, key string) ([]byte, bool, bool) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	if v, ok := ts.changedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	return nil, false, false
}

// GetValue returns the committed value for [key], falling back to the base
// store.
func (ts *TState) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	v, changed, exists := ts.getChangedValue(ctx, string(key))
	if changed {
		if !exists {
			return nil, database.ErrNotFound
		}
		return v, nil
	}
	return ts.base.GetValue(ctx, key)
}

func (ts *TState) getBaseValue(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := ts.base.GetValue(ctx, []byte(key))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// PendingChanges returns the number of keys changed since the last flush.
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// OpIndex returns the number of operations committed by views.
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// Flush writes all committed changes to [mu] in key order and clears the
// buffer.
func (ts *TState) Flush(ctx context.Context, mu state.Mutable) error {
	ts.l.Lock()
	defer ts.l.Unlock()

	ks := maps.Keys(ts.changedKeys)
	sort.Strings(ks)
	for _, k := range ks {
		v := ts.changedKeys[k]
		if v.IsNothing() {
			if err := mu.Remove(ctx, []byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := mu.Insert(ctx, []byte(k), v.Value()); err != nil {
			return err
		}
	}
	ts.changedKeys = make(map[string]maybe.Maybe[[]byte], len(ks))
	return nil
}
