// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrClosed = errors.New("subscription closed")

	_ Subscription[struct{}]        = (*Recorder[struct{}])(nil)
	_ SubscriptionFactory[struct{}] = (*Recorder[struct{}])(nil)
)

// Recorder keeps every accepted event in order.
type Recorder[T any] struct {
	l      sync.Mutex
	events []T
	closed bool
}

func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

// New returns the recorder itself so that a single log can be shared.
func (r *Recorder[T]) New() (Subscription[T], error) {
	return r, nil
}

func (r *Recorder[T]) Accept(_ context.Context, t T) error {
	r.l.Lock()
	defer r.l.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.events = append(r.events, t)
	return nil
}

func (r *Recorder[T]) Close() error {
	r.l.Lock()
	defer r.l.Unlock()

	r.closed = true
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder[T]) Events() []T {
	r.l.Lock()
	defer r.l.Unlock()

	out := make([]T, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder[T]) Len() int {
	r.l.Lock()
	defer r.l.Unlock()

	return len(r.events)
}

// Reset drops every recorded event.
func (r *Recorder[T]) Reset() {
	r.l.Lock()
	defer r.l.Unlock()

	r.events = nil
}
