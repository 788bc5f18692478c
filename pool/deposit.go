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
	"github.com/ava-labs/cfmm/tstate"
)

type DepositResult struct {
	AmountA int128.Int `json:"amountA"`
	AmountB int128.Int `json:"amountB"`
	Shares  int128.Int `json:"shares"`
}

type depositPlan struct {
	DepositResult

	// shares minted to the zero address on bootstrap
	locked int128.Int
	next   snapshot
}

func checkDepositAmounts(desiredA, minA, desiredB, minB int128.Int) error {
	if desiredA.IsNegative() || desiredB.IsNegative() || minA.IsNegative() || minB.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrZeroAmount)
	}
	if desiredA.IsZero() && desiredB.IsZero() {
		return ErrZeroAmount
	}
	return nil
}

// planDeposit prices a deposit of up to (desiredA, desiredB) against [s].
func (p *Pool) planDeposit(s *snapshot, desiredA, minA, desiredB, minB int128.Int) (*depositPlan, error) {
	curve := s.curve()
	a, b, err := curve.DepositAmounts(desiredA, desiredB)
	if err != nil {
		return nil, mathErr(err)
	}
	if a.Lt(minA) || b.Lt(minB) {
		return nil, fmt.Errorf("%w: (%s, %s) below (%s, %s)", ErrInsufficientInput, a, b, minA, minB)
	}
	minted, err := curve.DepositShares(a, b)
	if err != nil {
		return nil, mathErr(err)
	}
	if !minted.IsPositive() {
		return nil, fmt.Errorf("%w: deposit mints no shares", ErrZeroAmount)
	}

	plan := &depositPlan{locked: int128.Zero, next: *s}
	plan.AmountA, plan.AmountB, plan.Shares = a, b, minted
	if s.totalShares.IsZero() && p.config.MinimumLiquidity.IsPositive() {
		if minted.Lte(p.config.MinimumLiquidity) {
			return nil, fmt.Errorf("%w: %s <= %s", ErrMinimumLiquidity, minted, p.config.MinimumLiquidity)
		}
		plan.locked = p.config.MinimumLiquidity
		if plan.Shares, err = int128.CheckedSub(minted, plan.locked); err != nil {
			return nil, mathErr(err)
		}
	}
	if plan.next.reserveA, err = int128.CheckedAdd(s.reserveA, a); err != nil {
		return nil, mathErr(err)
	}
	if plan.next.reserveB, err = int128.CheckedAdd(s.reserveB, b); err != nil {
		return nil, mathErr(err)
	}
	if plan.next.totalShares, err = int128.CheckedAdd(s.totalShares, minted); err != nil {
		return nil, mathErr(err)
	}
	return plan, nil
}

// Deposit adds liquidity on behalf of [to], who must be the actor behind
// [actor]. At most desiredA of A and desiredB of B are pulled from [to].
func (p *Pool) Deposit(
	ctx context.Context,
	actor auth.Auth,
	to codec.Address,
	desiredA int128.Int,
	minA int128.Int,
	desiredB int128.Int,
	minB int128.Int,
) (*DepositResult, error) {
	action := &DepositAction{
		Pool:     p.addr,
		To:       to,
		DesiredA: desiredA,
		MinA:     minA,
		DesiredB: desiredB,
		MinB:     minB,
	}
	var result *DepositResult
	err := p.execute(ctx, "Deposit", []codec.Address{to}, func(ctx context.Context, view *tstate.TStateView) (*Event, error) {
		if err := authorize(ctx, actor, to, action.Bytes()); err != nil {
			return nil, err
		}
		if err := checkDepositAmounts(desiredA, minA, desiredB, minB); err != nil {
			return nil, err
		}
		s, err := p.load(ctx, view)
		if err != nil {
			return nil, err
		}
		plan, err := p.planDeposit(s, desiredA, minA, desiredB, minB)
		if err != nil {
			return nil, err
		}

		if plan.AmountA.IsPositive() {
			if err := p.tokens(view, s.tokenA, to).Transfer(ctx, to, p.addr, plan.AmountA); err != nil {
				return nil, transferErr(err)
			}
		}
		if plan.AmountB.IsPositive() {
			if err := p.tokens(view, s.tokenB, to).Transfer(ctx, to, p.addr, plan.AmountB); err != nil {
				return nil, transferErr(err)
			}
		}
		if plan.locked.IsPositive() {
			if err := p.shares.Mint(ctx, view, codec.EmptyAddress, plan.locked); err != nil {
				return nil, transferErr(err)
			}
		}
		if err := p.shares.Mint(ctx, view, to, plan.Shares); err != nil {
			return nil, transferErr(err)
		}
		if err := p.store(ctx, view, &plan.next); err != nil {
			return nil, err
		}

		result = &plan.DepositResult
		return &Event{
			Type: DepositEventType,
			Deposit: &DepositEvent{
				Caller:  to,
				AmountA: plan.AmountA,
				AmountB: plan.AmountB,
			},
		}, nil
	},
		attribute.Stringer("to", to),
		attribute.Stringer("desiredA", desiredA),
		attribute.Stringer("desiredB", desiredB),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}
