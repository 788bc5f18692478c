// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pricing implements the constant product curve. Every function is
// pure: it reads reserves and returns amounts without moving tokens.
package pricing

import (
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/int128"
)

var (
	feeNumerator   = int128.NewInt(consts.FeeNumerator)
	feeDenominator = int128.NewInt(consts.FeeDenominator)
)

// ConstantProduct is a snapshot of pool reserves and share supply.
type ConstantProduct struct {
	ReserveA    int128.Int
	ReserveB    int128.Int
	TotalShares int128.Int
}

func NewConstantProduct(reserveA, reserveB, totalShares int128.Int) *ConstantProduct {
	return &ConstantProduct{
		ReserveA:    reserveA,
		ReserveB:    reserveB,
		TotalShares: totalShares,
	}
}

// Empty reports whether no liquidity has been provided yet.
func (c *ConstantProduct) Empty() bool {
	return c.ReserveA.IsZero() && c.ReserveB.IsZero()
}

// DepositAmounts returns the largest pair (a, b) with a <= desiredA,
// b <= desiredB that matches the current reserve ratio. An empty pool
// accepts the desired amounts as given.
func (c *ConstantProduct) DepositAmounts(desiredA, desiredB int128.Int) (int128.Int, int128.Int, error) {
	if c.Empty() {
		return desiredA, desiredB, nil
	}
	if c.ReserveA.IsZero() || c.ReserveB.IsZero() {
		return int128.Zero, int128.Zero, ErrReservesZero
	}
	optimalB, err := int128.MulDivFloor(desiredA, c.ReserveB, c.ReserveA)
	if err != nil {
		return int128.Zero, int128.Zero, err
	}
	if optimalB.Lte(desiredB) {
		return desiredA, optimalB, nil
	}
	optimalA, err := int128.MulDivFloor(desiredB, c.ReserveA, c.ReserveB)
	if err != nil {
		return int128.Zero, int128.Zero, err
	}
	return optimalA, desiredB, nil
}

// DepositShares returns the shares minted for depositing (a, b). The first
// deposit mints isqrt(a*b); later deposits mint the smaller of the two
// proportional claims.
func (c *ConstantProduct) DepositShares(a, b int128.Int) (int128.Int, error) {
	if c.TotalShares.IsZero() {
		k, err := int128.CheckedMul(a, b)
		if err != nil {
			return int128.Zero, err
		}
		return int128.Sqrt(k)
	}
	if c.ReserveA.IsZero() || c.ReserveB.IsZero() {
		return int128.Zero, ErrReservesZero
	}
	sharesA, err := int128.MulDivFloor(a, c.TotalShares, c.ReserveA)
	if err != nil {
		return int128.Zero, err
	}
	sharesB, err := int128.MulDivFloor(b, c.TotalShares, c.ReserveB)
	if err != nil {
		return int128.Zero, err
	}
	return int128.Min(sharesA, sharesB), nil
}

// Reserves returns (in, out) for a swap direction. Buying A pays B.
func (c *ConstantProduct) Reserves(buyA bool) (int128.Int, int128.Int) {
	if buyA {
		return c.ReserveB, c.ReserveA
	}
	return c.ReserveA, c.ReserveB
}

// SwapInput returns the input, fee included, required to receive exactly
// [out]:
//
//	in = reserveIn * out * 1000 / ((reserveOut - out) * 997) + 1
func (c *ConstantProduct) SwapInput(buyA bool, out int128.Int) (int128.Int, error) {
	if !out.IsPositive() {
		return int128.Zero, ErrZeroOutput
	}
	reserveIn, reserveOut := c.Reserves(buyA)
	if out.Gte(reserveOut) {
		return int128.Zero, ErrReserveExhausted
	}
	if reserveIn.IsZero() {
		return int128.Zero, ErrReservesZero
	}
	num, err := int128.CheckedMul(out, feeDenominator)
	if err != nil {
		return int128.Zero, err
	}
	remaining, err := int128.CheckedSub(reserveOut, out)
	if err != nil {
		return int128.Zero, err
	}
	denom, err := int128.CheckedMul(remaining, feeNumerator)
	if err != nil {
		return int128.Zero, err
	}
	in, err := int128.MulDivFloor(reserveIn, num, denom)
	if err != nil {
		return int128.Zero, err
	}
	return int128.CheckedAdd(in, int128.One)
}

// CheckSwap verifies the fee adjusted product did not decrease:
//
//	(newIn*1000 - in*3) * newOut*1000 >= oldIn*oldOut*1000^2
//
// The comparison is exact, so it never rejects a swap for overflow.
func CheckSwap(oldIn, oldOut, newIn, newOut, in int128.Int) error {
	if int128.CmpAdjustedProducts(newIn, in, newOut, oldIn, oldOut, consts.FeeDenominator, consts.FeeDenominator-consts.FeeNumerator) < 0 {
		return ErrInvariantViolated
	}
	return nil
}

// WithdrawAmounts returns the truncated proportional payout of [shares].
func (c *ConstantProduct) WithdrawAmounts(shares int128.Int) (int128.Int, int128.Int, error) {
	if c.TotalShares.IsZero() {
		return int128.Zero, int128.Zero, ErrReservesZero
	}
	outA, err := int128.MulDivFloor(shares, c.ReserveA, c.TotalShares)
	if err != nil {
		return int128.Zero, int128.Zero, err
	}
	outB, err := int128.MulDivFloor(shares, c.ReserveB, c.TotalShares)
	if err != nil {
		return int128.Zero, int128.Zero, err
	}
	return outA, outB, nil
}
