// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cfmm/auth/authtest"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/pool/pooltest"
)

var errBadSignature = errors.New("bad signature")

func TestOperationErrors(t *testing.T) {
	ctx := context.Background()

	unchanged := func(a, b, total int64) func(context.Context, *testing.T, *pooltest.TestPool) {
		return func(_ context.Context, t *testing.T, tp *pooltest.TestPool) {
			tp.RequireState(t, i(a), i(b), i(total))
		}
	}

	overflowing := pooltest.NewTestPool(t)
	overflowing.Fund(t, alice, int128.MaxValue, int128.MaxValue)

	oneSided := pooltest.NewTestPool(t)
	oneSided.Fund(t, alice, i(0), i(1000))

	tests := []pooltest.OperationTest{
		{
			Name:        "initialize twice",
			Pool:        pooltest.NewTestPool(t),
			Operation:   pooltest.Initialize(pooltest.TokenA, pooltest.TokenB),
			ExpectedErr: pool.ErrAlreadyInitialized,
		},
		{
			Name:        "initialize unordered",
			Pool:        pooltest.NewTestPool(t, pooltest.Uninitialized()),
			Operation:   pooltest.Initialize(pooltest.TokenB, pooltest.TokenA),
			ExpectedErr: pool.ErrTokenOrder,
		},
		{
			Name:        "initialize identical",
			Pool:        pooltest.NewTestPool(t, pooltest.Uninitialized()),
			Operation:   pooltest.Initialize(pooltest.TokenA, pooltest.TokenA),
			ExpectedErr: pool.ErrTokenOrder,
		},
		{
			Name:        "deposit before initialize",
			Pool:        pooltest.NewTestPool(t, pooltest.Uninitialized()),
			Operation:   pooltest.Deposit(alice, i(10), i(0), i(10), i(0)),
			ExpectedErr: pool.ErrNotInitialized,
		},
		{
			Name:        "swap before initialize",
			Pool:        pooltest.NewTestPool(t, pooltest.Uninitialized()),
			Operation:   pooltest.Swap(alice, true, i(1), i(10)),
			ExpectedErr: pool.ErrNotInitialized,
		},
		{
			Name:        "deposit nothing",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Deposit(alice, i(0), i(0), i(0), i(0)),
			ExpectedErr: pool.ErrZeroAmount,
			Assertion:   unchanged(1000, 1000, 1000),
		},
		{
			Name:        "deposit negative",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Deposit(alice, i(-5), i(0), i(10), i(0)),
			ExpectedErr: pool.ErrZeroAmount,
		},
		{
			Name:        "bootstrap with one side",
			Pool:        oneSided,
			Operation:   pooltest.Deposit(alice, i(0), i(0), i(1000), i(0)),
			ExpectedErr: pool.ErrZeroAmount,
		},
		{
			Name:        "deposit rounds to zero shares",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Deposit(bob, i(1), i(0), i(0), i(0)),
			ExpectedErr: pool.ErrZeroAmount,
		},
		{
			Name:        "deposit below minimum",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Deposit(alice, i(500), i(500), i(400), i(0)),
			ExpectedErr: pool.ErrInsufficientInput,
			Assertion:   unchanged(1000, 1000, 1000),
		},
		{
			Name:        "deposit without funds",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Deposit(bob, i(10), i(0), i(10), i(0)),
			ExpectedErr: pool.ErrTokenTransferFailed,
			Assertion:   unchanged(1000, 1000, 1000),
		},
		{
			Name:        "bootstrap overflow",
			Pool:        overflowing,
			Operation:   pooltest.Deposit(alice, int128.MaxValue, i(0), int128.MaxValue, i(0)),
			ExpectedErr: pool.ErrArithmeticOverflow,
			Assertion:   unchanged(0, 0, 0),
		},
		{
			Name:        "swap zero",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Swap(carol, true, i(0), i(10)),
			ExpectedErr: pool.ErrZeroAmount,
		},
		{
			Name:        "swap empty pool",
			Pool:        pooltest.NewTestPool(t),
			Operation:   pooltest.Swap(carol, false, i(1), int128.MaxValue),
			ExpectedErr: pool.ErrReserveExhausted,
		},
		{
			Name:        "swap beyond reserve",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Swap(carol, false, i(1001), int128.MaxValue),
			ExpectedErr: pool.ErrReserveExhausted,
		},
		{
			Name:        "swap without funds",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Swap(carol, false, i(100), i(200)),
			ExpectedErr: pool.ErrTokenTransferFailed,
			Assertion:   unchanged(1000, 1000, 1000),
		},
		{
			Name:        "withdraw zero",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Withdraw(alice, i(0), i(0), i(0)),
			ExpectedErr: pool.ErrZeroAmount,
		},
		{
			Name:        "withdraw from empty pool",
			Pool:        pooltest.NewTestPool(t),
			Operation:   pooltest.Withdraw(alice, i(1), i(0), i(0)),
			ExpectedErr: pool.ErrZeroAmount,
		},
		{
			Name:        "withdraw more than held",
			Pool:        topped(t),
			Operation:   pooltest.Withdraw(bob, i(501), i(0), i(0)),
			ExpectedErr: pool.ErrTokenTransferFailed,
			Assertion:   unchanged(1500, 1500, 1500),
		},
		{
			Name:        "withdraw more than supply",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Withdraw(alice, i(1001), i(0), i(0)),
			ExpectedErr: pool.ErrTokenTransferFailed,
		},
		{
			Name:        "withdraw below minimum",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Withdraw(alice, i(100), i(101), i(0)),
			ExpectedErr: pool.ErrInsufficientOutput,
			Assertion:   unchanged(1000, 1000, 1000),
		},
		{
			Name: "deposit for someone else",
			Pool: seeded(t, 1000, 1000),
			Operation: func(ctx context.Context, p *pool.Pool) (any, error) {
				return p.Deposit(ctx, authtest.Direct(bob), alice, i(10), i(0), i(10), i(0))
			},
			ExpectedErr: pool.ErrUnauthorized,
		},
		{
			Name: "swap with failed verification",
			Pool: seeded(t, 1000, 1000),
			Operation: func(ctx context.Context, p *pool.Pool) (any, error) {
				actor := &authtest.MockAuth{ActorAddr: carol, VerifyError: errBadSignature}
				return p.Swap(ctx, actor, carol, true, i(1), i(10))
			},
			ExpectedErr: errBadSignature,
		},
		{
			Name: "withdraw without credential",
			Pool: seeded(t, 1000, 1000),
			Operation: func(ctx context.Context, p *pool.Pool) (any, error) {
				return p.Withdraw(ctx, nil, alice, i(1), i(0), i(0))
			},
			ExpectedErr: pool.ErrUnauthorized,
			Assertion:   unchanged(1000, 1000, 1000),
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestUnauthorizedWrapsVerifyError(t *testing.T) {
	require := require.New(t)
	tp := seeded(t, 1000, 1000)

	actor := &authtest.MockAuth{ActorAddr: alice, VerifyError: errBadSignature}
	_, err := tp.Withdraw(context.Background(), actor, alice, i(1), i(0), i(0))
	require.ErrorIs(err, pool.ErrUnauthorized)
	require.ErrorIs(err, errBadSignature)
}

func TestAccessorsBeforeInitialize(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	tp := pooltest.NewTestPool(t, pooltest.Uninitialized())

	_, err := tp.TokenA(ctx)
	require.ErrorIs(err, pool.ErrNotInitialized)
	_, err = tp.TokenB(ctx)
	require.ErrorIs(err, pool.ErrNotInitialized)
	_, err = tp.ShareToken(ctx)
	require.ErrorIs(err, pool.ErrNotInitialized)
	_, _, err = tp.Reserves(ctx)
	require.ErrorIs(err, pool.ErrNotInitialized)
	_, err = tp.TotalShares(ctx)
	require.ErrorIs(err, pool.ErrNotInitialized)
}
