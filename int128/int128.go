// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package int128 implements checked signed 128-bit arithmetic.
//
// Values are held as 256-bit two's complement words so that the product of
// any two 128-bit operands is exact before it is divided or range checked.
// Every operation that can leave the 128-bit range returns [ErrOverflow]
// instead of wrapping.
package int128

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/ava-labs/cfmm/consts"
)

// Int is a signed 128-bit integer. The zero value is 0.
type Int struct {
	v uint256.Int
}

var (
	Zero = Int{}
	One  = FromUint64(1)

	maxWord = func() uint256.Int {
		var z uint256.Int
		z.Lsh(uint256.NewInt(1), 127)
		z.Sub(&z, uint256.NewInt(1))
		return z
	}()
	minWord = func() uint256.Int {
		var z uint256.Int
		z.Lsh(uint256.NewInt(1), 127)
		z.Neg(&z)
		return z
	}()
	twoTo128 = func() uint256.Int {
		var z uint256.Int
		z.Lsh(uint256.NewInt(1), 128)
		return z
	}()

	MaxValue = Int{v: maxWord}
	MinValue = Int{v: minWord}
)

// NewInt returns x as an Int.
func NewInt(x int64) Int {
	var z Int
	if x < 0 {
		// uint64(-x) is correct for math.MinInt64 as well
		z.v.SetUint64(uint64(-x))
		z.v.Neg(&z.v)
		return z
	}
	z.v.SetUint64(uint64(x))
	return z
}

// FromUint64 returns x as an Int.
func FromUint64(x uint64) Int {
	var z Int
	z.v.SetUint64(x)
	return z
}

func fromWord(w *uint256.Int) (Int, error) {
	if w.Sgt(&maxWord) || w.Slt(&minWord) {
		return Zero, ErrOverflow
	}
	return Int{v: *w}, nil
}

// Sign returns -1, 0 or +1.
func (x Int) Sign() int {
	return x.v.Sign()
}

func (x Int) IsZero() bool {
	return x.v.IsZero()
}

// IsPositive reports x > 0.
func (x Int) IsPositive() bool {
	return x.Sign() > 0
}

// IsNegative reports x < 0.
func (x Int) IsNegative() bool {
	return x.Sign() < 0
}

// Cmp returns -1 if x < y, 0 if x == y and +1 if x > y.
func (x Int) Cmp(y Int) int {
	switch {
	case x.v.Slt(&y.v):
		return -1
	case x.v.Sgt(&y.v):
		return 1
	default:
		return 0
	}
}

func (x Int) Eq(y Int) bool  { return x.Cmp(y) == 0 }
func (x Int) Lt(y Int) bool  { return x.Cmp(y) < 0 }
func (x Int) Lte(y Int) bool { return x.Cmp(y) <= 0 }
func (x Int) Gt(y Int) bool  { return x.Cmp(y) > 0 }
func (x Int) Gte(y Int) bool { return x.Cmp(y) >= 0 }

// Neg returns -x. Fails for [MinValue].
func (x Int) Neg() (Int, error) {
	var z uint256.Int
	z.Neg(&x.v)
	return fromWord(&z)
}

// ToBig returns x as a [big.Int].
func (x Int) ToBig() *big.Int {
	if x.IsNegative() {
		var abs uint256.Int
		abs.Neg(&x.v)
		b := abs.ToBig()
		return b.Neg(b)
	}
	return x.v.ToBig()
}

// Float64 returns the nearest float64 to x.
func (x Int) Float64() float64 {
	f, _ := new(big.Float).SetInt(x.ToBig()).Float64()
	return f
}

// Uint64 returns x as a uint64 and whether the conversion was exact.
func (x Int) Uint64() (uint64, bool) {
	if x.IsNegative() || !x.v.IsUint64() {
		return 0, false
	}
	return x.v.Uint64(), true
}

// Bytes returns the 16 byte big-endian two's complement encoding of x.
func (x Int) Bytes() []byte {
	b := x.v.Bytes32()
	out := make([]byte, consts.Int128Len)
	copy(out, b[32-consts.Int128Len:])
	return out
}

// FromBytes decodes the output of [Int.Bytes].
func FromBytes(b []byte) (Int, error) {
	if len(b) != consts.Int128Len {
		return Zero, fmt.Errorf("%w: expected %d bytes, found %d", ErrInvalidEncoding, consts.Int128Len, len(b))
	}
	var z Int
	z.v.SetBytes(b)
	if b[0]&0x80 != 0 {
		// sign extend into the upper 128 bits
		z.v.Sub(&z.v, &twoTo128)
	}
	return z, nil
}

// String returns the decimal form of x.
func (x Int) String() string {
	return x.ToBig().String()
}

// Parse reads a base 10 integer.
func Parse(s string) (Int, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidString, s)
	}
	return FromBig(b)
}

// MustParse is [Parse] for constants and tests.
func MustParse(s string) Int {
	x, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return x
}

// FromBig converts b, failing if it is outside the 128-bit range.
func FromBig(b *big.Int) (Int, error) {
	abs := new(big.Int).Abs(b)
	if abs.BitLen() > 128 {
		return Zero, ErrOverflow
	}
	w, _ := uint256.FromBig(abs)
	if b.Sign() < 0 {
		w.Neg(w)
	}
	return fromWord(w)
}
