// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cfmm/auth/authtest"
	"github.com/ava-labs/cfmm/codectest"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/pool/pooltest"
)

var (
	i = int128.NewInt

	alice = codectest.NewRandomAddress()
	bob   = codectest.NewRandomAddress()
	carol = codectest.NewRandomAddress()
)

// seeded returns a pool where alice deposited (a, b).
func seeded(t testing.TB, a, b int64, opts ...pooltest.Option) *pooltest.TestPool {
	tp := pooltest.NewTestPool(t, opts...)
	tp.Fund(t, alice, i(a), i(b))
	_, err := tp.Deposit(context.Background(), authtest.Direct(alice), alice, i(a), i(0), i(b), i(0))
	require.NoError(t, err)
	return tp
}

// topped returns scenario 2: alice deposited 1000/1000 and bob 500/500.
func topped(t testing.TB) *pooltest.TestPool {
	tp := seeded(t, 1000, 1000)
	tp.Fund(t, bob, i(500), i(500))
	_, err := tp.Deposit(context.Background(), authtest.Direct(bob), bob, i(500), i(500), i(500), i(500))
	require.NoError(t, err)
	return tp
}

func TestScenarios(t *testing.T) {
	ctx := context.Background()

	fresh := pooltest.NewTestPool(t)
	fresh.Fund(t, alice, i(1000), i(1000))

	topUp := seeded(t, 1000, 1000)
	topUp.Fund(t, bob, i(500), i(500))

	swapPool := seeded(t, 1000, 1000)
	swapPool.Fund(t, carol, i(200), i(0))

	slippagePool := seeded(t, 1000, 1000)
	slippagePool.Fund(t, carol, i(200), i(0))

	tests := []pooltest.OperationTest{
		{
			Name:           "bootstrap",
			Pool:           fresh,
			Operation:      pooltest.Deposit(alice, i(1000), i(1000), i(1000), i(1000)),
			ExpectedOutput: &pool.DepositResult{AmountA: i(1000), AmountB: i(1000), Shares: i(1000)},
			Assertion: func(_ context.Context, t *testing.T, tp *pooltest.TestPool) {
				tp.RequireState(t, i(1000), i(1000), i(1000))
				require.Equal(t, i(1000), tp.Shares(t, alice))
				tp.RequireInvariants(t, alice)
			},
		},
		{
			Name:           "proportional top up",
			Pool:           topUp,
			Operation:      pooltest.Deposit(bob, i(500), i(500), i(500), i(500)),
			ExpectedOutput: &pool.DepositResult{AmountA: i(500), AmountB: i(500), Shares: i(500)},
			Assertion: func(_ context.Context, t *testing.T, tp *pooltest.TestPool) {
				tp.RequireState(t, i(1500), i(1500), i(1500))
				tp.RequireInvariants(t, alice, bob)
			},
		},
		{
			Name:           "swap a for b",
			Pool:           swapPool,
			Operation:      pooltest.Swap(carol, false, i(100), i(200)),
			ExpectedOutput: &pool.SwapResult{AmountIn: i(112), AmountOut: i(100)},
			Assertion: func(_ context.Context, t *testing.T, tp *pooltest.TestPool) {
				tp.RequireState(t, i(1112), i(900), i(1000))
				require.Equal(t, i(88), tp.BalanceOf(t, pooltest.TokenA, carol))
				require.Equal(t, i(100), tp.BalanceOf(t, pooltest.TokenB, carol))
				tp.RequireInvariants(t, alice)
			},
		},
		{
			Name:        "swap slippage rejection",
			Pool:        slippagePool,
			Operation:   pooltest.Swap(carol, false, i(100), i(111)),
			ExpectedErr: pool.ErrSlippageExceeded,
			Assertion: func(_ context.Context, t *testing.T, tp *pooltest.TestPool) {
				tp.RequireState(t, i(1000), i(1000), i(1000))
				require.Equal(t, i(200), tp.BalanceOf(t, pooltest.TokenA, carol))
			},
		},
		{
			Name:           "withdraw proportional",
			Pool:           topped(t),
			Operation:      pooltest.Withdraw(alice, i(300), i(0), i(0)),
			ExpectedOutput: &pool.WithdrawResult{AmountA: i(300), AmountB: i(300)},
			Assertion: func(_ context.Context, t *testing.T, tp *pooltest.TestPool) {
				tp.RequireState(t, i(1200), i(1200), i(1200))
				require.Equal(t, i(700), tp.Shares(t, alice))
				require.Equal(t, i(300), tp.BalanceOf(t, pooltest.TokenA, alice))
				tp.RequireInvariants(t, alice, bob)
			},
		},
		{
			Name:        "reserve exhaustion guard",
			Pool:        seeded(t, 1000, 1000),
			Operation:   pooltest.Swap(carol, true, i(1000), int128.MaxValue),
			ExpectedErr: pool.ErrReserveExhausted,
		},
	}

	for _, tt := range tests {
		tt.Run(ctx, t)
	}
}

func TestSwapDeepReserves(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	deep := int128.MustParse("1000000000000000000000000000000000000")
	tp := pooltest.NewTestPool(t)
	tp.Fund(t, alice, deep, i(100))
	_, err := tp.Deposit(ctx, authtest.Direct(alice), alice, deep, i(0), i(100), i(0))
	require.NoError(err)
	tp.Fund(t, carol, deep, i(10))

	// buy b with a
	result, err := tp.Swap(ctx, authtest.Direct(carol), carol, false, i(1), deep)
	require.NoError(err)
	require.Equal(&pool.SwapResult{
		AmountIn:  int128.MustParse("10131404313951956880743239820471516"),
		AmountOut: i(1),
	}, result)

	// buy a with b
	result, err = tp.Swap(ctx, authtest.Direct(carol), carol, true, int128.MustParse("1000000000000000000000000000000"), i(10))
	require.NoError(err)
	require.Equal(i(1), result.AmountIn)

	tp.RequireState(t,
		int128.MustParse("1010130404313951956880743239820471516"),
		i(100),
		int128.MustParse("10000000000000000000"),
	)
	tp.RequireInvariants(t, alice, carol)
}
