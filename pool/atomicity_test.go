// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool_test

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/cfmm/auth/authtest"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/pool/pooltest"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/storage"
	"github.com/ava-labs/cfmm/token"
	"github.com/ava-labs/cfmm/token/tokentest"
	"github.com/ava-labs/cfmm/trace"
)

func faulty(faults map[codec.Address]*tokentest.Faulty) pooltest.Option {
	return pooltest.WithTokens(func(base token.Factory) token.Factory {
		return tokentest.FaultyFactory(base, faults)
	})
}

func TestFailedTransferRollsBack(t *testing.T) {
	ctx := context.Background()
	poolAddr, err := storage.PoolAddress(pooltest.TokenA, pooltest.TokenB)
	require.NoError(t, err)
	shareAddr := storage.ShareTokenAddress(poolAddr)

	tests := []struct {
		name string
		// faults armed once the pool is seeded
		faults map[codec.Address]tokentest.Faulty
		op     pooltest.Operation
	}{
		{
			name: "deposit second leg",
			faults: map[codec.Address]tokentest.Faulty{
				pooltest.TokenB: {Reject: map[codec.Address]bool{bob: true}},
			},
			op: pooltest.Deposit(bob, i(100), i(0), i(100), i(0)),
		},
		{
			name: "deposit share mint",
			faults: map[codec.Address]tokentest.Faulty{
				shareAddr: {FailMint: true},
			},
			op: pooltest.Deposit(bob, i(100), i(0), i(100), i(0)),
		},
		{
			name: "swap payout",
			faults: map[codec.Address]tokentest.Faulty{
				pooltest.TokenB: {Reject: map[codec.Address]bool{bob: true}},
			},
			op: pooltest.Swap(bob, false, i(10), i(100)),
		},
		{
			name: "withdraw second leg",
			faults: map[codec.Address]tokentest.Faulty{
				pooltest.TokenB: {Reject: map[codec.Address]bool{alice: true}},
			},
			op: pooltest.Withdraw(alice, i(100), i(0), i(0)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			armed := make(map[codec.Address]*tokentest.Faulty, len(tt.faults))
			for addr := range tt.faults {
				armed[addr] = &tokentest.Faulty{}
			}
			tp := pooltest.NewTestPool(t, faulty(armed))
			tp.Fund(t, alice, i(1000), i(1000))
			_, err := tp.Deposit(ctx, authtest.Direct(alice), alice, i(1000), i(0), i(1000), i(0))
			require.NoError(err)
			tp.Fund(t, bob, i(500), i(500))
			for addr, f := range tt.faults {
				a := armed[addr]
				a.Reject = f.Reject
				a.FailMint = f.FailMint
			}
			events := tp.Events.Len()

			_, err = tt.op(ctx, tp.Pool)
			require.ErrorIs(err, pool.ErrTokenTransferFailed)
			require.ErrorIs(err, tokentest.ErrInjected)

			for _, a := range armed {
				// disarm so balances can be read back
				a.Reject, a.FailMint = nil, false
			}
			tp.RequireState(t, i(1000), i(1000), i(1000))
			require.Equal(i(500), tp.BalanceOf(t, pooltest.TokenA, bob))
			require.Equal(i(500), tp.BalanceOf(t, pooltest.TokenB, bob))
			require.Equal(int128.Zero, tp.Shares(t, bob))
			require.Equal(i(1000), tp.Shares(t, alice))
			require.Equal(events, tp.Events.Len())
			tp.RequireInvariants(t, alice, bob)
		})
	}
}

func TestSwapCallsTokens(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	tp := seeded(t, 1000, 1000)
	tp.Fund(t, bob, i(0), i(200))

	mockA := tokentest.NewMockToken(ctrl)
	tokens := func(mu state.Mutable, addr codec.Address, invoker codec.Address) token.Token {
		if addr == pooltest.TokenA {
			return mockA
		}
		return token.NewLedger(mu, addr, invoker)
	}
	p, err := pool.New(logging.NoLog{}, trace.Noop(), prometheus.NewRegistry(), tp.DB, tokens, tp.Address(), pool.NewDefaultConfig())
	require.NoError(err)

	// Buying 100 A costs 112 B, paid by bob before he is sent A.
	gomock.InOrder(
		mockA.EXPECT().Transfer(gomock.Any(), tp.Address(), bob, i(100)).Return(tokentest.ErrInjected),
		mockA.EXPECT().Transfer(gomock.Any(), tp.Address(), bob, i(100)).Return(nil),
	)

	_, err = p.Swap(ctx, authtest.Direct(bob), bob, true, i(100), i(112))
	require.ErrorIs(err, pool.ErrTokenTransferFailed)
	require.Equal(i(200), tp.BalanceOf(t, pooltest.TokenB, bob))
	tp.RequireState(t, i(1000), i(1000), i(1000))

	result, err := p.Swap(ctx, authtest.Direct(bob), bob, true, i(100), i(112))
	require.NoError(err)
	require.Equal(&pool.SwapResult{AmountIn: i(112), AmountOut: i(100)}, result)
	require.Equal(i(88), tp.BalanceOf(t, pooltest.TokenB, bob))
	tp.RequireState(t, i(900), i(1112), i(1000))
}
