// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "errors"

var (
	ErrReservesZero      = errors.New("reserves are zero")
	ErrZeroOutput        = errors.New("zero output")
	ErrReserveExhausted  = errors.New("output exhausts reserve")
	ErrInvariantViolated = errors.New("product invariant violated")
)
