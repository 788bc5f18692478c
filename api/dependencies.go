// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"context"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/cfmm/auth"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pool"
)

var _ Pool = (*pool.Pool)(nil)

type Pool interface {
	Address() codec.Address
	TokenA(ctx context.Context) (codec.Address, error)
	TokenB(ctx context.Context) (codec.Address, error)
	ShareToken(ctx context.Context) (codec.Address, error)
	Reserves(ctx context.Context) (int128.Int, int128.Int, error)
	TotalShares(ctx context.Context) (int128.Int, error)
	Balance(ctx context.Context, token codec.Address, account codec.Address) (int128.Int, error)

	Deposit(
		ctx context.Context,
		actor auth.Auth,
		to codec.Address,
		desiredA int128.Int,
		minA int128.Int,
		desiredB int128.Int,
		minB int128.Int,
	) (*pool.DepositResult, error)
	Swap(
		ctx context.Context,
		actor auth.Auth,
		to codec.Address,
		buyA bool,
		out int128.Int,
		inMax int128.Int,
	) (*pool.SwapResult, error)
	Withdraw(
		ctx context.Context,
		actor auth.Auth,
		to codec.Address,
		shares int128.Int,
		minA int128.Int,
		minB int128.Int,
	) (*pool.WithdrawResult, error)

	QuoteDeposit(ctx context.Context, desiredA int128.Int, desiredB int128.Int) (*pool.DepositResult, error)
	QuoteSwap(ctx context.Context, buyA bool, out int128.Int) (*pool.SwapResult, error)
	QuoteWithdraw(ctx context.Context, shares int128.Int) (*pool.WithdrawResult, error)
}

// Backend is what the API handlers are built from.
type Backend interface {
	Tracer() trace.Tracer
	Logger() logging.Logger
	Pool() Pool
}
