// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"context"
	"errors"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/pricing"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/storage"
)

type snapshot struct {
	tokenA codec.Address
	tokenB codec.Address
	share  codec.Address

	totalShares int128.Int
	reserveA    int128.Int
	reserveB    int128.Int
}

func (s *snapshot) curve() *pricing.ConstantProduct {
	return pricing.NewConstantProduct(s.reserveA, s.reserveB, s.totalShares)
}

// tokens returns (in, out) token addresses for a swap direction.
func (s *snapshot) tokens(buyA bool) (codec.Address, codec.Address) {
	if buyA {
		return s.tokenB, s.tokenA
	}
	return s.tokenA, s.tokenB
}

func notInitialized(err error) error {
	if errors.Is(err, storage.ErrSlotNotSet) {
		return ErrNotInitialized
	}
	return err
}

func (p *Pool) load(ctx context.Context, im state.Immutable) (*snapshot, error) {
	var (
		s   snapshot
		err error
	)
	if s.tokenA, err = storage.GetTokenA(ctx, im, p.addr); err != nil {
		return nil, notInitialized(err)
	}
	if s.tokenB, err = storage.GetTokenB(ctx, im, p.addr); err != nil {
		return nil, notInitialized(err)
	}
	if s.share, err = storage.GetTokenShare(ctx, im, p.addr); err != nil {
		return nil, notInitialized(err)
	}
	if s.totalShares, err = storage.GetTotalShares(ctx, im, p.addr); err != nil {
		return nil, notInitialized(err)
	}
	if s.reserveA, err = storage.GetReserveA(ctx, im, p.addr); err != nil {
		return nil, notInitialized(err)
	}
	if s.reserveB, err = storage.GetReserveB(ctx, im, p.addr); err != nil {
		return nil, notInitialized(err)
	}
	return &s, nil
}

// store writes the mutable slots of [s].
func (p *Pool) store(ctx context.Context, mu state.Mutable, s *snapshot) error {
	if err := storage.SetTotalShares(ctx, mu, p.addr, s.totalShares); err != nil {
		return err
	}
	if err := storage.SetReserveA(ctx, mu, p.addr, s.reserveA); err != nil {
		return err
	}
	return storage.SetReserveB(ctx, mu, p.addr, s.reserveB)
}

func (p *Pool) read(ctx context.Context) (*snapshot, error) {
	p.l.RLock()
	defer p.l.RUnlock()

	return p.load(ctx, p.db)
}

func (p *Pool) TokenA(ctx context.Context) (codec.Address, error) {
	s, err := p.read(ctx)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return s.tokenA, nil
}

func (p *Pool) TokenB(ctx context.Context) (codec.Address, error) {
	s, err := p.read(ctx)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return s.tokenB, nil
}

func (p *Pool) ShareToken(ctx context.Context) (codec.Address, error) {
	s, err := p.read(ctx)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return s.share, nil
}

// Reserves returns (reserveA, reserveB).
func (p *Pool) Reserves(ctx context.Context) (int128.Int, int128.Int, error) {
	s, err := p.read(ctx)
	if err != nil {
		return int128.Zero, int128.Zero, err
	}
	return s.reserveA, s.reserveB, nil
}

func (p *Pool) TotalShares(ctx context.Context) (int128.Int, error) {
	s, err := p.read(ctx)
	if err != nil {
		return int128.Zero, err
	}
	return s.totalShares, nil
}

// Balance returns the balance of [account] in any token kept in the
// pool's store, including the share token.
func (p *Pool) Balance(ctx context.Context, tokenAddr codec.Address, account codec.Address) (int128.Int, error) {
	p.l.RLock()
	defer p.l.RUnlock()

	return p.tokens(p.db, tokenAddr, account).BalanceOf(ctx, account)
}
