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
	"github.com/ava-labs/cfmm/pricing"
	"github.com/ava-labs/cfmm/tstate"
)

type SwapResult struct {
	AmountIn  int128.Int `json:"amountIn"`
	AmountOut int128.Int `json:"amountOut"`
}

type swapPlan struct {
	in   int128.Int
	next snapshot
}

func planSwap(s *snapshot, buyA bool, out int128.Int, inMax int128.Int) (*swapPlan, error) {
	if !out.IsPositive() {
		return nil, ErrZeroAmount
	}
	in, err := s.curve().SwapInput(buyA, out)
	if err != nil {
		return nil, mathErr(err)
	}
	if in.Gt(inMax) {
		return nil, fmt.Errorf("%w: requires %s, max %s", ErrSlippageExceeded, in, inMax)
	}

	oldIn, oldOut := s.curve().Reserves(buyA)
	newIn, err := int128.CheckedAdd(oldIn, in)
	if err != nil {
		return nil, mathErr(err)
	}
	newOut, err := int128.CheckedSub(oldOut, out)
	if err != nil {
		return nil, mathErr(err)
	}
	if err := pricing.CheckSwap(oldIn, oldOut, newIn, newOut, in); err != nil {
		return nil, mathErr(err)
	}

	plan := &swapPlan{in: in, next: *s}
	if buyA {
		plan.next.reserveB, plan.next.reserveA = newIn, newOut
	} else {
		plan.next.reserveA, plan.next.reserveB = newIn, newOut
	}
	return plan, nil
}

// Swap sends exactly [out] of A (buyA) or B to [to] and pulls the required
// input, at most [inMax], of the other token.
func (p *Pool) Swap(
	ctx context.Context,
	actor auth.Auth,
	to codec.Address,
	buyA bool,
	out int128.Int,
	inMax int128.Int,
) (*SwapResult, error) {
	action := &SwapAction{
		Pool:  p.addr,
		To:    to,
		BuyA:  buyA,
		Out:   out,
		InMax: inMax,
	}
	var result *SwapResult
	err := p.execute(ctx, "Swap", []codec.Address{to}, func(ctx context.Context, view *tstate.TStateView) (*Event, error) {
		if err := authorize(ctx, actor, to, action.Bytes()); err != nil {
			return nil, err
		}
		s, err := p.load(ctx, view)
		if err != nil {
			return nil, err
		}
		plan, err := planSwap(s, buyA, out, inMax)
		if err != nil {
			return nil, err
		}

		tokenIn, tokenOut := s.tokens(buyA)
		if err := p.tokens(view, tokenIn, to).Transfer(ctx, to, p.addr, plan.in); err != nil {
			return nil, transferErr(err)
		}
		if err := p.tokens(view, tokenOut, p.addr).Transfer(ctx, p.addr, to, out); err != nil {
			return nil, transferErr(err)
		}
		if err := p.store(ctx, view, &plan.next); err != nil {
			return nil, err
		}

		result = &SwapResult{AmountIn: plan.in, AmountOut: out}
		return &Event{
			Type: SwapEventType,
			Swap: &SwapEvent{
				Caller:    to,
				BuyA:      buyA,
				AmountIn:  plan.in,
				AmountOut: out,
			},
		}, nil
	},
		attribute.Stringer("to", to),
		attribute.Bool("buyA", buyA),
		attribute.Stringer("out", out),
	)
	if err != nil {
		return nil, err
	}
	return result, nil
}
