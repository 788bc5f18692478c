// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

import (
	"errors"

	"github.com/ava-labs/cfmm/pool"
	"github.com/ava-labs/cfmm/token"
)

var (
	ErrInvalidPlan     = errors.New("invalid plan")
	ErrInvalidStep     = errors.New("invalid step")
	ErrUnknownOp       = errors.New("unknown op")
	ErrUnknownAccount  = errors.New("unknown account")
	ErrUnknownToken    = errors.New("unknown token")
	ErrUnknownError    = errors.New("unknown error name")
	ErrInvalidOperator = errors.New("invalid operator")
	ErrAssertionFailed = errors.New("assertion failed")
	ErrUnexpectedError = errors.New("step failed unexpectedly")
	ErrMissingError    = errors.New("step succeeded but was expected to fail")
	ErrWrongError      = errors.New("step failed with a different error")
)

// ErrorNames maps the names a plan can expect to the errors they match.
var ErrorNames = map[string]error{
	"not_initialized":      pool.ErrNotInitialized,
	"already_initialized":  pool.ErrAlreadyInitialized,
	"token_order":          pool.ErrTokenOrder,
	"zero_amount":          pool.ErrZeroAmount,
	"insufficient_input":   pool.ErrInsufficientInput,
	"insufficient_output":  pool.ErrInsufficientOutput,
	"slippage_exceeded":    pool.ErrSlippageExceeded,
	"reserve_exhausted":    pool.ErrReserveExhausted,
	"arithmetic_overflow":  pool.ErrArithmeticOverflow,
	"unauthorized":         pool.ErrUnauthorized,
	"token_transfer":       pool.ErrTokenTransferFailed,
	"minimum_liquidity":    pool.ErrMinimumLiquidity,
	"insufficient_balance": token.ErrInsufficientBalance,
}
