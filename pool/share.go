// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"context"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/storage"
	"github.com/ava-labs/cfmm/token"
)

// ShareController holds the pool's authority over its share token. Every
// call acts as the pool.
type ShareController struct {
	tokens token.Factory
	pool   codec.Address
	addr   codec.Address
}

func NewShareController(tokens token.Factory, pool codec.Address) *ShareController {
	return &ShareController{
		tokens: tokens,
		pool:   pool,
		addr:   storage.ShareTokenAddress(pool),
	}
}

func (s *ShareController) Address() codec.Address {
	return s.addr
}

func (s *ShareController) token(mu state.Mutable) token.Token {
	return s.tokens(mu, s.addr, s.pool)
}

// Initialize creates the share token with the pool as admin.
func (s *ShareController) Initialize(ctx context.Context, mu state.Mutable) error {
	return s.token(mu).Initialize(ctx, s.pool, consts.ShareTokenDecimals, consts.ShareTokenName, consts.ShareTokenSymbol)
}

func (s *ShareController) Mint(ctx context.Context, mu state.Mutable, to codec.Address, amount int128.Int) error {
	return s.token(mu).Mint(ctx, to, amount)
}

func (s *ShareController) Burn(ctx context.Context, mu state.Mutable, from codec.Address, amount int128.Int) error {
	return s.token(mu).Burn(ctx, from, amount)
}

func (s *ShareController) BalanceOf(ctx context.Context, mu state.Mutable, account codec.Address) (int128.Int, error) {
	return s.token(mu).BalanceOf(ctx, account)
}

func (s *ShareController) TotalSupply(ctx context.Context, mu state.Mutable) (int128.Int, error) {
	return s.token(mu).TotalSupply(ctx)
}
