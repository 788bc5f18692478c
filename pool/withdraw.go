// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ava-labs/cfmm/auth"
	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/token"
	"github.com/ava-labs/cfmm/tstate"
)

type WithdrawResult struct {
	AmountA int128.Int `json:"amountA"`
	AmountB int128.Int `json:"amountB"`
}

type withdrawPlan struct {
	WithdrawResult

	next snapshot
}

func planWithdraw(s *snapshot, shares int128.Int, minA int128.Int, minB int128.Int) (*withdrawPlan, error) {
	if !shares.IsPositive() {
		return nil, ErrZeroAmount
	}
	if s.totalShares.IsZero() {
		return nil, fmt.Errorf("%w: pool has no shares", ErrZeroAmount)
	}
	if shares.Gt(s.totalShares) {
		return nil, fmt.Errorf("%w: %w: %s exceeds supply %s", ErrTokenTransferFailed, token.ErrInsufficientBalance, shares, s.totalShares)
	}
	outA, outB, err := s.curve().WithdrawAmounts(shares)
	if err != nil {
		return nil, mathErr(err)
	}
	if outA.Lt(minA) || outB.Lt(minB) {
		return nil, fmt.Errorf("%w: (%s, %s) below (%s, %s)", ErrInsufficientOutput, outA, outB, minA, minB)
	}

	plan := &withdrawPlan{next: *s}
	plan.AmountA, plan.AmountB = outA, outB
	if plan.next.reserveA, err = int128.CheckedSub(s.reserveA, outA); err != nil {
		return nil, mathErr(err)
	}
	if plan.next.reserveB, err = int128.CheckedSub(s.reserveB, outB); err != nil {
		return nil, mathErr(err)
	}
	if plan.next.totalShares, err = int128.CheckedSub(s.totalShares, shares); err != nil {
		return nil, mathErr(err)
	}
	return plan, nil
}

// Withdraw burns [shares] held by [to] and pays out the proportional slice
// of both reserves.
func (p *Pool) Withdraw(
	ctx context.Context,
	actor auth.Auth,
	to codec.Address,
	shares int128.Int,
	minA int128.Int,
	minB int128.Int,
) (*WithdrawResult, error) {
	action := &WithdrawAction{
		Pool:   p.addr,
		To:     to,
		Shares: shares,
		MinA:   minA,
		MinB:   minB,
	}
	var result *WithdrawResult
	err := p.execute(ctx, "Withdraw", []codec.Address{to}, func(ctx context.Context, view *tstate.TStateView) (*Event, error) {
		if err := authorize(ctx, actor, to, action.Bytes()); err != nil {
			return nil, err
		}
		s, err := p.load(ctx, view)
		if err != nil {
			return nil, err
		}
		plan, err := planWithdraw(s, shares, minA, minB)
		if err != nil {
			return nil, err
		}
		held, err := p.shares.BalanceOf(ctx, view, to)
		if err != nil {
			return nil, err
		}
		if held.Lt(shares) {
			return nil, fmt.Errorf("%w: %w: %s holds %s shares", ErrTokenTransferFailed, token.ErrInsufficientBalance, to, held)
		}

		if plan.AmountA.IsPositive() {
			if err := p.tokens(view, s.tokenA, p.addr).Transfer(ctx, p.addr, to, plan.AmountA); err != nil {
				return nil, transferErr(err)
			}
		}
		if plan.AmountB.IsPositive() {
			if err := p.tokens(view, s.tokenB, p.addr).Transfer(ctx, p.addr, to, plan.AmountB); err != nil {
				return nil, transferErr(err)
			}
		}
		if err := p.shares.Burn(ctx, view, to, shares); err != nil {
			return nil, transferErr(err)
		}
		if err := p.store(ctx, view, &plan.next); err != nil {
			return nil, err
		}

		result = &plan.WithdrawResult
		return &Event{
			Type: WithdrawEventType,
			Withdraw: &WithdrawEvent{
				Caller:  to,
				Shares:  shares,
				AmountA: plan.AmountA,
				AmountB: plan.AmountB,
			},
		}, nil
	},
		attribute.Stringer("to", to),
		attribute.Stringer("shares", shares),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}
