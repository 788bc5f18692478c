// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package int128

import (
	"math/big"

	"github.com/holiman/uint256"
)

// CheckedAdd returns x + y.
func CheckedAdd(x, y Int) (Int, error) {
	var z uint256.Int
	z.Add(&x.v, &y.v)
	return fromWord(&z)
}

// CheckedSub returns x - y.
func CheckedSub(x, y Int) (Int, error) {
	var z uint256.Int
	z.Sub(&x.v, &y.v)
	return fromWord(&z)
}

// CheckedMul returns x * y.
func CheckedMul(x, y Int) (Int, error) {
	var z uint256.Int
	z.Mul(&x.v, &y.v)
	return fromWord(&z)
}

// MulDivFloor returns floor(x * y / d). The product is never truncated.
func MulDivFloor(x, y, d Int) (Int, error) {
	q, r, err := mulDiv(x, y, d)
	if err != nil {
		return Zero, err
	}
	if !r.IsZero() && r.Sign() != d.Sign() {
		q.Sub(&q, uint256.NewInt(1))
	}
	return fromWord(&q)
}

// MulDivCeil returns ceil(x * y / d). The product is never truncated.
func MulDivCeil(x, y, d Int) (Int, error) {
	q, r, err := mulDiv(x, y, d)
	if err != nil {
		return Zero, err
	}
	if !r.IsZero() && r.Sign() == d.Sign() {
		q.Add(&q, uint256.NewInt(1))
	}
	return fromWord(&q)
}

// mulDiv returns the truncated quotient and remainder of x*y/d. The remainder
// carries the sign of the product.
func mulDiv(x, y, d Int) (uint256.Int, uint256.Int, error) {
	var q, r uint256.Int
	if d.IsZero() {
		return q, r, ErrDivisionByZero
	}
	// |x*y| <= 2^254 so the product fits a signed 256-bit word.
	var p uint256.Int
	p.Mul(&x.v, &y.v)
	q.SDiv(&p, &d.v)
	r.SMod(&p, &d.v)
	return q, r, nil
}

// Sqrt returns floor(sqrt(n)).
//
// https://github.com/Uniswap/v2-core/blob/ee547b17853e71ed4e0101ccfd52e70d5acded58/contracts/libraries/Math.sol#L10
func Sqrt(n Int) (Int, error) {
	if n.IsNegative() {
		return Zero, ErrNegative
	}
	y := n.v
	if y.GtUint64(3) {
		z := y
		var x uint256.Int
		x.Rsh(&y, 1)
		x.AddUint64(&x, 1)
		for x.Lt(&z) {
			z = x
			var t uint256.Int
			t.Div(&y, &x)
			t.Add(&t, &x)
			x.Rsh(&t, 1)
		}
		return Int{v: z}, nil
	} else if !y.IsZero() {
		return One, nil
	}
	return Zero, nil
}

// Min returns the smaller of x and y.
func Min(x, y Int) Int {
	if x.Lt(y) {
		return x
	}
	return y
}

// CmpProducts compares x1*y1 with x2*y2. Both products are exact.
func CmpProducts(x1, y1, x2, y2 Int) int {
	var p, q uint256.Int
	p.Mul(&x1.v, &y1.v)
	q.Mul(&x2.v, &y2.v)
	switch {
	case p.Slt(&q):
		return -1
	case p.Sgt(&q):
		return 1
	default:
		return 0
	}
}

// CmpAdjustedProducts compares (x1*scale - f*cut) * y1 * scale with
// x2 * y2 * scale^2. Both sides are exact for any 128-bit operands, which
// can need more than 256 bits.
func CmpAdjustedProducts(x1, f, y1, x2, y2 Int, scale, cut uint64) int {
	s := new(big.Int).SetUint64(scale)
	lhs := new(big.Int).Mul(x1.ToBig(), s)
	lhs.Sub(lhs, new(big.Int).Mul(f.ToBig(), new(big.Int).SetUint64(cut)))
	lhs.Mul(lhs, y1.ToBig())
	lhs.Mul(lhs, s)

	rhs := new(big.Int).Mul(x2.ToBig(), y2.ToBig())
	rhs.Mul(rhs, s)
	rhs.Mul(rhs, s)
	return lhs.Cmp(rhs)
}
