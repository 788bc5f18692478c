// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/codectest"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/keys"
	"github.com/ava-labs/cfmm/state"
)

func TestPoolSlots(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewMemory()
	pool := codectest.NewRandomAddress()
	tokenA, tokenB := codectest.NewOrderedAddresses()

	initialized, err := IsInitialized(ctx, mu, pool)
	require.NoError(err)
	require.False(initialized)

	_, err = GetTokenA(ctx, mu, pool)
	require.ErrorIs(err, ErrSlotNotSet)
	_, err = GetReserveA(ctx, mu, pool)
	require.ErrorIs(err, ErrSlotNotSet)

	require.NoError(SetTokenA(ctx, mu, pool, tokenA))
	require.NoError(SetTokenB(ctx, mu, pool, tokenB))
	require.NoError(SetReserveA(ctx, mu, pool, int128.Zero))
	require.NoError(SetReserveB(ctx, mu, pool, int128.NewInt(1500)))

	initialized, err = IsInitialized(ctx, mu, pool)
	require.NoError(err)
	require.True(initialized)

	a, err := GetTokenA(ctx, mu, pool)
	require.NoError(err)
	require.Equal(tokenA, a)
	b, err := GetTokenB(ctx, mu, pool)
	require.NoError(err)
	require.Equal(tokenB, b)

	// A set zero is distinct from unset
	rA, err := GetReserveA(ctx, mu, pool)
	require.NoError(err)
	require.True(rA.IsZero())
	rB, err := GetReserveB(ctx, mu, pool)
	require.NoError(err)
	require.Equal(int128.NewInt(1500), rB)
	_, err = GetTotalShares(ctx, mu, pool)
	require.ErrorIs(err, ErrSlotNotSet)

	// Setters overwrite
	require.NoError(SetReserveB(ctx, mu, pool, int128.NewInt(7)))
	rB, err = GetReserveB(ctx, mu, pool)
	require.NoError(err)
	require.Equal(int128.NewInt(7), rB)

	// Slots are scoped by pool
	_, err = GetTokenA(ctx, mu, codectest.NewRandomAddress())
	require.ErrorIs(err, ErrSlotNotSet)
}

func TestPoolSlotKey(t *testing.T) {
	require := require.New(t)
	pool := codectest.NewRandomAddress()

	seen := map[string]struct{}{}
	for d := TokenA; d <= ReserveB; d++ {
		k := PoolSlotKey(pool, d)
		require.Equal(byte(d), k[1+codec.AddressLen])
		chunks, ok := keys.MaxChunks(k)
		require.True(ok)
		require.Equal(PoolSlotChunks, chunks)
		seen[string(k)] = struct{}{}
	}
	require.Len(seen, 6)
	require.Len(PoolKeys(pool, state.Read), 6)

	require.Equal(uint8(0), uint8(TokenA))
	require.Equal(uint8(5), uint8(ReserveB))
	require.Equal("TotalShares", TotalShares.String())
	require.False(DataKey(6).Valid())
	require.ErrorIs(setSlot(context.TODO(), state.NewMemory(), pool, DataKey(6), nil), ErrInvalidDataKey)
}

func TestCorruptSlot(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewMemory()
	pool := codectest.NewRandomAddress()

	require.NoError(mu.Insert(ctx, PoolSlotKey(pool, ReserveA), []byte{1, 2, 3}))
	_, err := GetReserveA(ctx, mu, pool)
	require.ErrorIs(err, ErrCorruptValue)
	require.NoError(mu.Insert(ctx, PoolSlotKey(pool, TokenShare), []byte{1}))
	_, err = GetTokenShare(ctx, mu, pool)
	require.ErrorIs(err, ErrCorruptValue)
}

func TestPoolAddress(t *testing.T) {
	require := require.New(t)
	tokenA, tokenB := codectest.NewOrderedAddresses()

	p1, err := PoolAddress(tokenA, tokenB)
	require.NoError(err)
	p2, err := PoolAddress(tokenA, tokenB)
	require.NoError(err)
	require.Equal(p1, p2)
	require.NotEqual(ShareTokenAddress(p1), p1)

	_, err = PoolAddress(tokenA, tokenA)
	require.ErrorIs(err, ErrIdenticalAddresses)
}

func TestTokenAddress(t *testing.T) {
	tests := []struct {
		name  string
		left  [2]string
		right [2]string
		same  bool
	}{
		{name: "same metadata", left: [2]string{"Token A", "TKA"}, right: [2]string{"Token A", "TKA"}, same: true},
		{name: "shifted boundary", left: [2]string{"ab", "c"}, right: [2]string{"a", "bc"}},
		{name: "empty symbol", left: [2]string{"abc", ""}, right: [2]string{"", "abc"}},
		{name: "swapped fields", left: [2]string{"TKA", "Token A"}, right: [2]string{"Token A", "TKA"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := TokenAddress(tt.left[0], tt.left[1])
			right := TokenAddress(tt.right[0], tt.right[1])
			if tt.same {
				require.Equal(t, left, right)
				return
			}
			require.NotEqual(t, left, right)
		})
	}
}

func TestTokenInfo(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewMemory()
	token := TokenAddress("Token A", "TKA")
	admin := codectest.NewRandomAddress()

	_, err := GetTokenInfo(ctx, mu, token)
	require.ErrorIs(err, ErrTokenNotFound)

	info := &TokenInfo{
		Name:        "Token A",
		Symbol:      "TKA",
		Decimals:    7,
		TotalSupply: int128.MustParse("170141183460469231731687303715884105727"),
		Admin:       admin,
	}
	require.NoError(SetTokenInfo(ctx, mu, token, info))
	got, err := GetTokenInfo(ctx, mu, token)
	require.NoError(err)
	require.Equal(info, got)

	require.ErrorIs(SetTokenInfo(ctx, mu, token, &TokenInfo{Decimals: MaxTokenDecimals + 1}), ErrInvalidTokenInfo)

	_, err = UnmarshalTokenInfo([]byte{0, 1})
	require.ErrorIs(err, ErrCorruptValue)
}

func TestTokenBalance(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewMemory()
	token := codectest.NewRandomAddress()
	account := codectest.NewRandomAddress()

	bal, err := GetTokenBalance(ctx, mu, token, account)
	require.NoError(err)
	require.True(bal.IsZero())

	require.NoError(SetTokenBalance(ctx, mu, token, account, int128.NewInt(10)))
	bal, err = GetTokenBalance(ctx, mu, token, account)
	require.NoError(err)
	require.Equal(int128.NewInt(10), bal)
	require.Equal(1, mu.Len())

	require.NoError(SetTokenBalance(ctx, mu, token, account, int128.Zero))
	require.Zero(mu.Len())
}
