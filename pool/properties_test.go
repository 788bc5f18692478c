// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/ava-labs/cfmm/auth/authtest"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/pool/pooltest"
	"github.com/ava-labs/cfmm/pricing"
)

const funding = 1_000_000_000_000

var holders = []codec.Address{alice, bob, carol}

type poolMachine struct {
	tp *pooltest.TestPool

	reserveA    int128.Int
	reserveB    int128.Int
	totalShares int128.Int
}

func (m *poolMachine) refresh(t *rapid.T) {
	var err error
	m.reserveA, m.reserveB, err = m.tp.Reserves(context.Background())
	require.NoError(t, err)
	m.totalShares, err = m.tp.TotalShares(context.Background())
	require.NoError(t, err)
}

// requireUnchanged checks a failed operation left the pool as it was.
func (m *poolMachine) requireUnchanged(t *rapid.T, err error, allowed ...error) {
	for _, target := range allowed {
		if errors.Is(err, target) {
			m.tp.RequireState(t, m.reserveA, m.reserveB, m.totalShares)
			return
		}
	}
	t.Fatalf("unexpected error: %v", err)
}

func bigMul(x, y int128.Int) *big.Int {
	return new(big.Int).Mul(x.ToBig(), y.ToBig())
}

func (m *poolMachine) deposit(t *rapid.T) {
	ctx := context.Background()
	holder := rapid.SampledFrom(holders).Draw(t, "holder")
	a := int128.NewInt(rapid.Int64Range(0, 1_000_000_000).Draw(t, "a"))
	b := int128.NewInt(rapid.Int64Range(0, 1_000_000_000).Draw(t, "b"))

	result, err := m.tp.Deposit(ctx, authtest.Direct(holder), holder, a, int128.Zero, b, int128.Zero)
	if err != nil {
		m.requireUnchanged(t, err, pool.ErrZeroAmount, pool.ErrTokenTransferFailed)
		return
	}
	oldA, oldB := m.reserveA, m.reserveB
	m.refresh(t)
	require.True(t, result.AmountA.Lte(a) && result.AmountB.Lte(b))
	if oldA.IsZero() && oldB.IsZero() {
		return
	}
	// newA*oldB - oldA*newB lies in (-oldB, oldA): only truncation moves
	// the price.
	d := new(big.Int).Sub(bigMul(m.reserveA, oldB), bigMul(oldA, m.reserveB))
	require.Negative(t, d.Cmp(oldA.ToBig()), "price moved up by more than truncation")
	require.Positive(t, d.Cmp(new(big.Int).Neg(oldB.ToBig())), "price moved down by more than truncation")
}

func (m *poolMachine) swap(t *rapid.T) {
	ctx := context.Background()
	holder := rapid.SampledFrom(holders).Draw(t, "holder")
	buyA := rapid.Bool().Draw(t, "buyA")
	reserveOut := m.reserveB
	if buyA {
		reserveOut = m.reserveA
	}
	limit, _ := reserveOut.Uint64()
	out := int128.FromUint64(rapid.Uint64Range(0, limit).Draw(t, "out"))

	result, err := m.tp.Swap(ctx, authtest.Direct(holder), holder, buyA, out, int128.MaxValue)
	if err != nil {
		m.requireUnchanged(t, err, pool.ErrZeroAmount, pool.ErrReserveExhausted, pool.ErrTokenTransferFailed)
		return
	}
	oldA, oldB, oldTotal := m.reserveA, m.reserveB, m.totalShares
	m.refresh(t)
	require.Equal(t, oldTotal, m.totalShares)

	oldIn, oldOut, newIn, newOut := oldA, oldB, m.reserveA, m.reserveB
	if buyA {
		oldIn, oldOut, newIn, newOut = oldB, oldA, m.reserveB, m.reserveA
	}
	require.NoError(t, pricing.CheckSwap(oldIn, oldOut, newIn, newOut, result.AmountIn))
	require.Equal(t, 1, int128.CmpProducts(m.reserveA, m.reserveB, oldA, oldB), "product must grow")
}

func (m *poolMachine) withdraw(t *rapid.T) {
	ctx := context.Background()
	holder := rapid.SampledFrom(holders).Draw(t, "holder")
	held, _ := m.tp.Shares(t, holder).Uint64()
	shares := int128.FromUint64(rapid.Uint64Range(0, held+1).Draw(t, "shares"))

	result, err := m.tp.Withdraw(ctx, authtest.Direct(holder), holder, shares, int128.Zero, int128.Zero)
	if err != nil {
		m.requireUnchanged(t, err, pool.ErrZeroAmount, pool.ErrTokenTransferFailed)
		return
	}
	oldA, oldB, oldTotal := m.reserveA, m.reserveB, m.totalShares
	m.refresh(t)
	// out*S <= shares*r < (out+1)*S
	for _, c := range []struct{ out, reserve int128.Int }{{result.AmountA, oldA}, {result.AmountB, oldB}} {
		paid := bigMul(c.out, oldTotal)
		owed := bigMul(shares, c.reserve)
		require.LessOrEqual(t, paid.Cmp(owed), 0)
		require.Positive(t, new(big.Int).Add(paid, oldTotal.ToBig()).Cmp(owed))
	}
}

func TestPoolProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tp := pooltest.NewTestPool(t)
		for _, h := range holders {
			tp.Fund(t, h, int128.NewInt(funding), int128.NewInt(funding))
		}
		m := &poolMachine{tp: tp}
		m.refresh(t)

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for s := 0; s < steps; s++ {
			switch rapid.IntRange(0, 2).Draw(t, "op") {
			case 0:
				m.deposit(t)
			case 1:
				m.swap(t)
			default:
				m.withdraw(t)
			}
			tp.RequireInvariants(t, holders...)
		}
	})
}

func TestNoFreeShares(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		a := rapid.Int64Range(1, 1_000_000).Draw(t, "a")
		b := rapid.Int64Range(1, 1_000_000).Draw(t, "b")
		tp := pooltest.NewTestPool(t)
		tp.Fund(t, alice, int128.NewInt(a), int128.NewInt(b))
		_, err := tp.Deposit(ctx, authtest.Direct(alice), alice, int128.NewInt(a), int128.Zero, int128.NewInt(b), int128.Zero)
		if err != nil {
			// isqrt(a*b) is positive for positive a and b
			t.Fatalf("bootstrap failed: %v", err)
		}

		_, err = tp.Deposit(ctx, authtest.Direct(bob), bob, int128.Zero, int128.Zero, int128.Zero, int128.Zero)
		require.ErrorIs(t, err, pool.ErrZeroAmount)
		_, err = tp.Swap(ctx, authtest.Direct(bob), bob, rapid.Bool().Draw(t, "buyA"), int128.Zero, int128.MaxValue)
		require.ErrorIs(t, err, pool.ErrZeroAmount)
		tp.RequireInvariants(t, alice, bob)
	})
}
