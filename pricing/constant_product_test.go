// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cfmm/int128"
)

func n(v int64) int128.Int {
	return int128.NewInt(v)
}

func TestDepositAmounts(t *testing.T) {
	tests := []struct {
		name               string
		reserveA, reserveB int64
		desiredA, desiredB int64
		a, b               int64
	}{
		{"empty pool takes desired", 0, 0, 1000, 10, 1000, 10},
		{"balanced", 1000, 1000, 500, 500, 500, 500},
		{"limited by b", 1000, 2000, 500, 600, 300, 600},
		{"limited by a", 1000, 2000, 100, 900, 100, 200},
		{"truncates", 3, 7, 2, 100, 2, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			c := NewConstantProduct(n(tt.reserveA), n(tt.reserveB), int128.One)
			a, b, err := c.DepositAmounts(n(tt.desiredA), n(tt.desiredB))
			require.NoError(err)
			require.Equal(n(tt.a), a)
			require.Equal(n(tt.b), b)
		})
	}
}

func TestDepositShares(t *testing.T) {
	require := require.New(t)

	// Bootstrap
	shares, err := NewConstantProduct(int128.Zero, int128.Zero, int128.Zero).DepositShares(n(1000), n(1000))
	require.NoError(err)
	require.Equal(n(1000), shares)

	// Proportional top-up
	shares, err = NewConstantProduct(n(1000), n(1000), n(1000)).DepositShares(n(500), n(500))
	require.NoError(err)
	require.Equal(n(500), shares)

	// Min of both claims
	shares, err = NewConstantProduct(n(1000), n(2000), n(1000)).DepositShares(n(500), n(600))
	require.NoError(err)
	require.Equal(n(300), shares)

	_, err = NewConstantProduct(int128.Zero, int128.Zero, int128.Zero).DepositShares(int128.MaxValue, n(2))
	require.ErrorIs(err, int128.ErrOverflow)
}

func TestSwapInput(t *testing.T) {
	tests := []struct {
		name string
		buyA bool
		out  int64
		in   int64
		err  error
	}{
		{"sell a for b", false, 100, 112, nil},
		{"sell b for a", true, 100, 112, nil},
		{"one unit", false, 1, 2, nil},
		{"zero out", false, 0, 0, ErrZeroOutput},
		{"negative out", true, -5, 0, ErrZeroOutput},
		{"drain", true, 1000, 0, ErrReserveExhausted},
		{"over drain", false, 1001, 0, ErrReserveExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			c := NewConstantProduct(n(1000), n(1000), n(1000))
			in, err := c.SwapInput(tt.buyA, n(tt.out))
			require.ErrorIs(err, tt.err)
			if tt.err == nil {
				require.Equal(n(tt.in), in)
			}
		})
	}
}

func TestCheckSwap(t *testing.T) {
	require := require.New(t)

	// 1000*1000 -> 1112*900
	require.NoError(CheckSwap(n(1000), n(1000), n(1112), n(900), n(112)))
	// Paying one unit less than quoted breaks the fee adjusted product
	require.ErrorIs(CheckSwap(n(1000), n(1000), n(1111), n(900), n(111)), ErrInvariantViolated)

	// reserves near the top of the range scale past 128 bits
	deep := int128.MustParse("1000000000000000000000000000000000000")
	in := int128.MustParse("10131404313951956880743239820471516")
	require.NoError(CheckSwap(deep, n(100), int128.MustParse("1010131404313951956880743239820471516"), n(99), in))
	require.ErrorIs(CheckSwap(deep, n(100), deep, n(99), int128.Zero), ErrInvariantViolated)
}

func TestWithdrawAmounts(t *testing.T) {
	require := require.New(t)

	c := NewConstantProduct(n(1500), n(1500), n(1500))
	a, b, err := c.WithdrawAmounts(n(300))
	require.NoError(err)
	require.Equal(n(300), a)
	require.Equal(n(300), b)

	c = NewConstantProduct(n(1112), n(900), n(1000))
	a, b, err = c.WithdrawAmounts(n(333))
	require.NoError(err)
	require.Equal(n(370), a)
	require.Equal(n(299), b)

	// All shares take everything
	a, b, err = c.WithdrawAmounts(n(1000))
	require.NoError(err)
	require.Equal(n(1112), a)
	require.Equal(n(900), b)

	_, _, err = NewConstantProduct(int128.Zero, int128.Zero, int128.Zero).WithdrawAmounts(n(1))
	require.ErrorIs(err, ErrReservesZero)
}
