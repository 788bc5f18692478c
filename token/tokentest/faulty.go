// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tokentest

import (
	"context"
	"errors"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/token"
)

var ErrInjected = errors.New("injected token failure")

var _ token.Token = (*Faulty)(nil)

// Faulty wraps a [token.Token] and fails transfers touching [Reject] and,
// with [FailMint], every mint.
type Faulty struct {
	token.Token

	Reject   map[codec.Address]bool
	FailMint bool

	transfers int
}

func (f *Faulty) Transfer(ctx context.Context, from codec.Address, to codec.Address, amount int128.Int) error {
	f.transfers++
	if f.Reject[from] || f.Reject[to] {
		return ErrInjected
	}
	return f.Token.Transfer(ctx, from, to, amount)
}

func (f *Faulty) Mint(ctx context.Context, to codec.Address, amount int128.Int) error {
	if f.FailMint {
		return ErrInjected
	}
	return f.Token.Mint(ctx, to, amount)
}

// Transfers returns the number of attempted transfers.
func (f *Faulty) Transfers() int {
	return f.transfers
}

// FaultyFactory wraps every token produced by [base] whose address is in
// [faults] with the matching [Faulty] settings.
func FaultyFactory(base token.Factory, faults map[codec.Address]*Faulty) token.Factory {
	return func(mu state.Mutable, addr codec.Address, invoker codec.Address) token.Token {
		t := base(mu, addr, invoker)
		f, ok := faults[addr]
		if !ok {
			return t
		}
		f.Token = t
		return f
	}
}
