// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package genesis describes the two tokens a node trades and their initial
// holders.
package genesis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/storage"
	"github.com/ava-labs/cfmm/token"
	"github.com/ava-labs/cfmm/utils"
)

type CustomAllocation struct {
	Address string     `json:"address"` // bech32
	Balance int128.Int `json:"balance"`
}

type Token struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	// Admin may mint and burn after genesis. An empty admin fixes the
	// supply at the allocated total.
	Admin            string              `json:"admin"`
	CustomAllocation []*CustomAllocation `json:"customAllocation"`
}

// Address derives the token address from its symbol.
func (t *Token) Address() codec.Address {
	return codec.CreateAddress(consts.TokenID, utils.ToID([]byte(t.Symbol)))
}

func (t *Token) admin() (codec.Address, error) {
	if len(t.Admin) == 0 {
		return codec.EmptyAddress, nil
	}
	return codec.ParseAddressBech32(consts.HRP, t.Admin)
}

type Genesis struct {
	Tokens [2]*Token `json:"tokens"`
}

func NewDefaultGenesis(customAllocations []*CustomAllocation) *Genesis {
	return &Genesis{
		Tokens: [2]*Token{
			{
				Name:             "Token A",
				Symbol:           "TKA",
				Decimals:         9,
				CustomAllocation: customAllocations,
			},
			{
				Name:             "Token B",
				Symbol:           "TKB",
				Decimals:         9,
				CustomAllocation: customAllocations,
			},
		},
	}
}

func Load(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal genesis %s: %w", string(b), err)
	}
	if err := g.Verify(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Genesis) Verify() error {
	for i, t := range g.Tokens {
		if t == nil {
			return fmt.Errorf("%w: token %d", ErrMissingToken, i)
		}
		if _, err := t.admin(); err != nil {
			return fmt.Errorf("%w: admin %s", err, t.Admin)
		}
		for _, alloc := range t.CustomAllocation {
			if alloc.Balance.IsNegative() {
				return fmt.Errorf("%w: %s has %s", ErrNegativeBalance, alloc.Address, alloc.Balance)
			}
		}
	}
	if g.Tokens[0].Symbol == g.Tokens[1].Symbol {
		return fmt.Errorf("%w: %s", ErrDuplicateToken, g.Tokens[0].Symbol)
	}
	return nil
}

// Pair returns both token addresses in pool order.
func (g *Genesis) Pair() (codec.Address, codec.Address) {
	a, b := g.Tokens[0].Address(), g.Tokens[1].Address()
	if b.Less(a) {
		return b, a
	}
	return a, b
}

// PoolAddress is the address of the pool trading the pair.
func (g *Genesis) PoolAddress() (codec.Address, error) {
	a, b := g.Pair()
	return storage.PoolAddress(a, b)
}

// InitializeState creates both tokens and credits every allocation.
func (g *Genesis) InitializeState(ctx context.Context, tracer trace.Tracer, mu state.Mutable) error {
	ctx, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	for _, t := range g.Tokens {
		admin, err := t.admin()
		if err != nil {
			return err
		}
		minter := token.NewLedger(mu, t.Address(), admin)
		if err := minter.Initialize(ctx, admin, t.Decimals, t.Name, t.Symbol); err != nil {
			return fmt.Errorf("%w: token %s", err, t.Symbol)
		}
		for _, alloc := range t.CustomAllocation {
			to, err := codec.ParseAddressBech32(consts.HRP, alloc.Address)
			if err != nil {
				return fmt.Errorf("%w: %s", err, alloc.Address)
			}
			if !alloc.Balance.IsPositive() {
				continue
			}
			if err := minter.Mint(ctx, to, alloc.Balance); err != nil {
				return fmt.Errorf("%w: addr=%s, bal=%s", err, alloc.Address, alloc.Balance)
			}
		}
	}
	return nil
}
