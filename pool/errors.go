// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"errors"
	"fmt"

	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pricing"
)

var (
	ErrNotInitialized      = errors.New("pool not initialized")
	ErrAlreadyInitialized  = errors.New("pool already initialized")
	ErrTokenOrder          = errors.New("token a must sort strictly before token b")
	ErrZeroAmount          = errors.New("zero amount")
	ErrInsufficientInput   = errors.New("deposit amounts below minimum")
	ErrInsufficientOutput  = errors.New("withdraw amounts below minimum")
	ErrSlippageExceeded    = errors.New("required input exceeds maximum")
	ErrReserveExhausted    = errors.New("output would exhaust reserve")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrTokenTransferFailed = errors.New("token transfer failed")
	ErrMinimumLiquidity    = errors.New("initial shares do not exceed minimum liquidity")
)

// mathErr maps arithmetic and pricing failures onto pool errors.
func mathErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, int128.ErrOverflow),
		errors.Is(err, int128.ErrDivisionByZero),
		errors.Is(err, int128.ErrNegative):
		return fmt.Errorf("%w: %w", ErrArithmeticOverflow, err)
	case errors.Is(err, pricing.ErrReserveExhausted):
		return fmt.Errorf("%w: %w", ErrReserveExhausted, err)
	case errors.Is(err, pricing.ErrZeroOutput):
		return fmt.Errorf("%w: %w", ErrZeroAmount, err)
	case errors.Is(err, pricing.ErrReservesZero):
		return fmt.Errorf("%w: %w", ErrZeroAmount, err)
	default:
		return err
	}
}

func transferErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTokenTransferFailed, err)
}
