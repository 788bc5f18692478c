// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cfmm/codectest"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/storage"
)

func TestLedgerLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewMemory()
	addr := storage.TokenAddress("Token A", "TKA")
	admin := codectest.NewRandomAddress()
	alice := codectest.NewRandomAddress()
	bob := codectest.NewRandomAddress()

	tk := NewLedger(mu, addr, admin)
	require.Equal(addr, tk.Address())

	// Nothing exists before initialize
	_, err := tk.TotalSupply(ctx)
	require.ErrorIs(err, storage.ErrTokenNotFound)
	require.ErrorIs(tk.Transfer(ctx, alice, bob, int128.One), storage.ErrTokenNotFound)

	require.NoError(tk.Initialize(ctx, admin, 7, "Token A", "TKA"))
	require.ErrorIs(tk.Initialize(ctx, admin, 7, "Token A", "TKA"), ErrAlreadyInitialized)

	decimals, err := tk.Decimals(ctx)
	require.NoError(err)
	require.Equal(uint8(7), decimals)
	name, err := tk.Name(ctx)
	require.NoError(err)
	require.Equal("Token A", name)
	symbol, err := tk.Symbol(ctx)
	require.NoError(err)
	require.Equal("TKA", symbol)

	require.NoError(tk.Mint(ctx, alice, int128.NewInt(1000)))
	require.NoError(tk.Transfer(ctx, alice, bob, int128.NewInt(400)))
	require.NoError(tk.Burn(ctx, bob, int128.NewInt(100)))

	balance, err := tk.BalanceOf(ctx, alice)
	require.NoError(err)
	require.Equal(int128.NewInt(600), balance)
	balance, err = tk.BalanceOf(ctx, bob)
	require.NoError(err)
	require.Equal(int128.NewInt(300), balance)
	supply, err := tk.TotalSupply(ctx)
	require.NoError(err)
	require.Equal(int128.NewInt(900), supply)
}

func TestLedgerErrors(t *testing.T) {
	ctx := context.TODO()
	admin := codectest.NewRandomAddress()
	alice := codectest.NewRandomAddress()
	bob := codectest.NewRandomAddress()

	setup := func(t *testing.T) state.Mutable {
		mu := state.NewMemory()
		tk := NewLedger(mu, storage.TokenAddress("T", "T"), admin)
		require.NoError(t, tk.Initialize(ctx, admin, 0, "T", "T"))
		require.NoError(t, tk.Mint(ctx, alice, int128.NewInt(10)))
		return mu
	}

	tests := []struct {
		name string
		op   func(Token) error
		err  error
	}{
		{
			name: "transfer more than balance",
			op: func(tk Token) error {
				return tk.Transfer(ctx, alice, bob, int128.NewInt(11))
			},
			err: ErrInsufficientBalance,
		},
		{
			name: "transfer negative",
			op: func(tk Token) error {
				return tk.Transfer(ctx, alice, bob, int128.NewInt(-1))
			},
			err: ErrNegativeAmount,
		},
		{
			name: "burn more than balance",
			op: func(tk Token) error {
				return tk.Burn(ctx, alice, int128.NewInt(11))
			},
			err: ErrInsufficientBalance,
		},
		{
			name: "mint past max",
			op: func(tk Token) error {
				return tk.Mint(ctx, bob, int128.MaxValue)
			},
			err: ErrSupplyOverflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			mu := setup(t)
			tk := NewLedger(mu, storage.TokenAddress("T", "T"), admin)
			require.ErrorIs(tt.op(tk), tt.err)

			// Nothing moved
			balance, err := tk.BalanceOf(ctx, alice)
			require.NoError(err)
			require.Equal(int128.NewInt(10), balance)
			supply, err := tk.TotalSupply(ctx)
			require.NoError(err)
			require.Equal(int128.NewInt(10), supply)
		})
	}
}

func TestLedgerAdminOnly(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewMemory()
	addr := storage.TokenAddress("Share", "POOL")
	admin := codectest.NewRandomAddress()
	mallory := codectest.NewRandomAddress()

	require.NoError(NewLedger(mu, addr, admin).Initialize(ctx, admin, 7, "Share", "POOL"))

	tk := NewLedger(mu, addr, mallory)
	require.ErrorIs(tk.Mint(ctx, mallory, int128.One), ErrUnauthorized)
	require.ErrorIs(tk.Burn(ctx, admin, int128.Zero), ErrUnauthorized)
}
