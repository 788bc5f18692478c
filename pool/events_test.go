// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cfmm/auth/authtest"
	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/pool/pooltest"
)

func TestEventsFollowCommits(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	tp := topped(t)
	tp.Fund(t, carol, i(200), i(0))
	_, err := tp.Swap(ctx, authtest.Direct(carol), carol, false, i(100), i(99))
	require.ErrorIs(err, pool.ErrSlippageExceeded)
	_, err = tp.Swap(ctx, authtest.Direct(carol), carol, false, i(100), i(200))
	require.NoError(err)
	_, err = tp.Withdraw(ctx, authtest.Direct(bob), bob, i(500), i(0), i(0))
	require.NoError(err)

	events := tp.Events.Events()
	require.Len(events, 4)
	want := []*pool.Event{
		{Type: pool.DepositEventType, Deposit: &pool.DepositEvent{Caller: alice, AmountA: i(1000), AmountB: i(1000)}},
		{Type: pool.DepositEventType, Deposit: &pool.DepositEvent{Caller: bob, AmountA: i(500), AmountB: i(500)}},
		{Type: pool.SwapEventType, Swap: &pool.SwapEvent{Caller: carol, BuyA: false, AmountIn: events[2].Swap.AmountIn, AmountOut: i(100)}},
		{Type: pool.WithdrawEventType, Withdraw: &pool.WithdrawEvent{Caller: bob, Shares: i(500), AmountA: events[3].Withdraw.AmountA, AmountB: events[3].Withdraw.AmountB}},
	}
	for idx, e := range events {
		require.Equal(tp.Address(), e.Pool)
		want[idx].Pool = tp.Address()
		require.Equal(want[idx], e)
		require.Equal(want[idx].Caller(), e.Caller())

		b, err := e.Marshal()
		require.NoError(err)
		parsed, err := pool.UnmarshalEvent(b)
		require.NoError(err)
		require.Equal(e, parsed)
	}
	// (1500 + 108) * 500 / 1500 and (1500 - 100) * 500 / 1500, truncated
	require.Equal(i(108), events[2].Swap.AmountIn)
	require.Equal(i(536), events[3].Withdraw.AmountA)
	require.Equal(i(466), events[3].Withdraw.AmountB)
}

func TestUnmarshalEventErrors(t *testing.T) {
	e := &pool.Event{
		Type:     pool.WithdrawEventType,
		Pool:     pooltest.TokenA,
		Withdraw: &pool.WithdrawEvent{Caller: alice, Shares: i(1), AmountA: i(2), AmountB: i(3)},
	}
	valid, err := e.Marshal()
	require.NoError(t, err)

	tests := []struct {
		name string
		b    []byte
		err  error
	}{
		{"unknown type", append([]byte{9}, valid[1:]...), pool.ErrUnknownEvent},
		{"truncated", valid[:len(valid)-1], pool.ErrCorruptEvent},
		{"trailing", append(append([]byte{}, valid...), 0), pool.ErrCorruptEvent},
		{"missing caller", valid[:1+33], pool.ErrCorruptEvent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pool.UnmarshalEvent(tt.b)
			require.ErrorIs(t, err, tt.err)
		})
	}

	_, err = (&pool.Event{Type: 7}).Marshal()
	require.ErrorIs(t, err, pool.ErrUnknownEvent)
}
