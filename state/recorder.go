// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
)

var _ Mutable = (*Recorder)(nil)

// Recorder runs an operation against [Immutable] state without changing it
// and records which keys the operation touched and with what [Permissions].
// Writes are kept in memory and are visible to later reads.
type Recorder struct {
	state Immutable
	// nil marks a key missing from [state]
	base    map[string][]byte
	changes map[string][]byte
	keys    Keys
}

func NewRecorder(db Immutable) *Recorder {
	return &Recorder{
		state:   db,
		base:    make(map[string][]byte),
		changes: make(map[string][]byte),
		keys:    make(Keys),
	}
}

func (r *Recorder) baseValue(ctx context.Context, key string) ([]byte, error) {
	if v, ok := r.base[key]; ok {
		return v, nil
	}
	v, err := r.state.GetValue(ctx, []byte(key))
	switch {
	case err == nil:
		r.base[key] = v
		return v, nil
	case errors.Is(err, database.ErrNotFound):
		r.base[key] = nil
		return nil, nil
	default:
		return nil, err
	}
}

// Insert requires [Allocate] when the key does not exist yet.
func (r *Recorder) Insert(ctx context.Context, key []byte, value []byte) error {
	k := string(key)
	v, err := r.baseValue(ctx, k)
	if err != nil {
		return err
	}
	if v == nil {
		r.keys.Add(k, Allocate|Write)
	} else {
		r.keys.Add(k, Write)
	}
	r.changes[k] = value
	return nil
}

func (r *Recorder) Remove(_ context.Context, key []byte) error {
	k := string(key)
	r.keys.Add(k, Write)
	r.changes[k] = nil
	return nil
}

func (r *Recorder) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	k := string(key)
	v, err := r.baseValue(ctx, k)
	if err != nil {
		return nil, err
	}
	r.keys.Add(k, Read)
	if changed, ok := r.changes[k]; ok {
		v = changed
	}
	if v == nil {
		return nil, database.ErrNotFound
	}
	return v, nil
}

// GetStateKeys returns every key touched so far.
func (r *Recorder) GetStateKeys() Keys {
	return r.keys
}
