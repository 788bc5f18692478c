// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/storage"
)

var (
	_ Token   = (*Ledger)(nil)
	_ Factory = NewLedger
)

// Ledger keeps token metadata and balances directly in state.
type Ledger struct {
	mu      state.Mutable
	addr    codec.Address
	invoker codec.Address
}

func NewLedger(mu state.Mutable, addr codec.Address, invoker codec.Address) Token {
	return &Ledger{mu: mu, addr: addr, invoker: invoker}
}

func (l *Ledger) Address() codec.Address {
	return l.addr
}

func (l *Ledger) Initialize(ctx context.Context, admin codec.Address, decimals uint8, name string, symbol string) error {
	_, err := storage.GetTokenInfo(ctx, l.mu, l.addr)
	switch {
	case err == nil:
		return ErrAlreadyInitialized
	case !errors.Is(err, storage.ErrTokenNotFound):
		return err
	}
	return storage.SetTokenInfo(ctx, l.mu, l.addr, &storage.TokenInfo{
		Name:     name,
		Symbol:   symbol,
		Decimals: decimals,
		Admin:    admin,
	})
}

func (l *Ledger) Transfer(ctx context.Context, from codec.Address, to codec.Address, amount int128.Int) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}
	if _, err := storage.GetTokenInfo(ctx, l.mu, l.addr); err != nil {
		return err
	}
	fromBalance, err := storage.GetTokenBalance(ctx, l.mu, l.addr, from)
	if err != nil {
		return err
	}
	if fromBalance.Lt(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from, fromBalance, amount)
	}
	if from == to {
		return nil
	}
	toBalance, err := storage.GetTokenBalance(ctx, l.mu, l.addr, to)
	if err != nil {
		return err
	}
	newToBalance, err := int128.CheckedAdd(toBalance, amount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSupplyOverflow, err)
	}
	newFromBalance, err := int128.CheckedSub(fromBalance, amount)
	if err != nil {
		return err
	}
	if err := storage.SetTokenBalance(ctx, l.mu, l.addr, from, newFromBalance); err != nil {
		return err
	}
	return storage.SetTokenBalance(ctx, l.mu, l.addr, to, newToBalance)
}

func (l *Ledger) adminInfo(ctx context.Context, amount int128.Int) (*storage.TokenInfo, error) {
	if amount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	info, err := storage.GetTokenInfo(ctx, l.mu, l.addr)
	if err != nil {
		return nil, err
	}
	if info.Admin != l.invoker {
		return nil, ErrUnauthorized
	}
	return info, nil
}

func (l *Ledger) Mint(ctx context.Context, to codec.Address, amount int128.Int) error {
	info, err := l.adminInfo(ctx, amount)
	if err != nil {
		return err
	}
	info.TotalSupply, err = int128.CheckedAdd(info.TotalSupply, amount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSupplyOverflow, err)
	}
	balance, err := storage.GetTokenBalance(ctx, l.mu, l.addr, to)
	if err != nil {
		return err
	}
	// balance <= supply so this cannot overflow once supply did not
	balance, err = int128.CheckedAdd(balance, amount)
	if err != nil {
		return err
	}
	if err := storage.SetTokenInfo(ctx, l.mu, l.addr, info); err != nil {
		return err
	}
	return storage.SetTokenBalance(ctx, l.mu, l.addr, to, balance)
}

func (l *Ledger) Burn(ctx context.Context, from codec.Address, amount int128.Int) error {
	info, err := l.adminInfo(ctx, amount)
	if err != nil {
		return err
	}
	balance, err := storage.GetTokenBalance(ctx, l.mu, l.addr, from)
	if err != nil {
		return err
	}
	if balance.Lt(amount) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from, balance, amount)
	}
	balance, err = int128.CheckedSub(balance, amount)
	if err != nil {
		return err
	}
	info.TotalSupply, err = int128.CheckedSub(info.TotalSupply, amount)
	if err != nil {
		return err
	}
	if err := storage.SetTokenInfo(ctx, l.mu, l.addr, info); err != nil {
		return err
	}
	return storage.SetTokenBalance(ctx, l.mu, l.addr, from, balance)
}

func (l *Ledger) BalanceOf(ctx context.Context, account codec.Address) (int128.Int, error) {
	return storage.GetTokenBalance(ctx, l.mu, l.addr, account)
}

func (l *Ledger) TotalSupply(ctx context.Context) (int128.Int, error) {
	info, err := storage.GetTokenInfo(ctx, l.mu, l.addr)
	if err != nil {
		return int128.Zero, err
	}
	return info.TotalSupply, nil
}

func (l *Ledger) Decimals(ctx context.Context) (uint8, error) {
	info, err := storage.GetTokenInfo(ctx, l.mu, l.addr)
	if err != nil {
		return 0, err
	}
	return info.Decimals, nil
}

func (l *Ledger) Name(ctx context.Context) (string, error) {
	info, err := storage.GetTokenInfo(ctx, l.mu, l.addr)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func (l *Ledger) Symbol(ctx context.Context) (string, error) {
	info, err := storage.GetTokenInfo(ctx, l.mu, l.addr)
	if err != nil {
		return "", err
	}
	return info.Symbol, nil
}
