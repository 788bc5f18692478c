// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package int128

import "errors"

var (
	ErrOverflow        = errors.New("int128 overflow")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrNegative        = errors.New("negative operand")
	ErrInvalidEncoding = errors.New("invalid int128 encoding")
	ErrInvalidString   = errors.New("invalid int128 string")
)
