// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"context"

	"github.com/ava-labs/cfmm/int128"
)

// QuoteDeposit prices a deposit against the current reserves without
// moving any tokens. Minimums are not enforced.
func (p *Pool) QuoteDeposit(ctx context.Context, desiredA int128.Int, desiredB int128.Int) (*DepositResult, error) {
	if err := checkDepositAmounts(desiredA, int128.Zero, desiredB, int128.Zero); err != nil {
		return nil, err
	}
	s, err := p.read(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := p.planDeposit(s, desiredA, int128.Zero, desiredB, int128.Zero)
	if err != nil {
		return nil, err
	}
	return &plan.DepositResult, nil
}

// QuoteSwap returns the input required to receive exactly [out].
func (p *Pool) QuoteSwap(ctx context.Context, buyA bool, out int128.Int) (*SwapResult, error) {
	s, err := p.read(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := planSwap(s, buyA, out, int128.MaxValue)
	if err != nil {
		return nil, err
	}
	return &SwapResult{AmountIn: plan.in, AmountOut: out}, nil
}

// QuoteWithdraw returns the payout for redeeming [shares].
func (p *Pool) QuoteWithdraw(ctx context.Context, shares int128.Int) (*WithdrawResult, error) {
	s, err := p.read(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := planWithdraw(s, shares, int128.Zero, int128.Zero)
	if err != nil {
		return nil, err
	}
	return &plan.WithdrawResult, nil
}
