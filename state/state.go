// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import "context"

// Immutable is read access to a key/value store. A missing key returns
// [database.ErrNotFound].
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Batch buffers writes until [Batch.Write] applies them together.
type Batch interface {
	Mutable

	Write() error
}

// Batcher is a [Mutable] that can group writes.
type Batcher interface {
	Mutable

	NewBatch() Batch
}
