// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package token is the fungible token surface consumed by pools.
package token

import (
	"context"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/state"
)

//go:generate go run go.uber.org/mock/mockgen -package=tokentest -destination=tokentest/mock_token.go -mock_names=Token=MockToken github.com/ava-labs/cfmm/token Token

// Token is a handle on a single fungible token, bound to the account that
// invokes it. Only the token admin may mint or burn.
type Token interface {
	Address() codec.Address

	// Initialize creates the token with zero supply. It fails if the token
	// already exists.
	Initialize(ctx context.Context, admin codec.Address, decimals uint8, name string, symbol string) error

	Transfer(ctx context.Context, from codec.Address, to codec.Address, amount int128.Int) error
	Mint(ctx context.Context, to codec.Address, amount int128.Int) error
	Burn(ctx context.Context, from codec.Address, amount int128.Int) error

	BalanceOf(ctx context.Context, account codec.Address) (int128.Int, error)
	TotalSupply(ctx context.Context) (int128.Int, error)
	Decimals(ctx context.Context) (uint8, error)
	Name(ctx context.Context) (string, error)
	Symbol(ctx context.Context) (string, error)
}

// Factory returns a [Token] handle for [addr] over [mu], acting as [invoker].
type Factory func(mu state.Mutable, addr codec.Address, invoker codec.Address) Token
