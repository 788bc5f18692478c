// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/cfmm/codec"
	"github.com/ava-labs/cfmm/consts"
	"github.com/ava-labs/cfmm/int128"
	"github.com/ava-labs/cfmm/keys"
	"github.com/ava-labs/cfmm/state"
	"github.com/ava-labs/cfmm/utils"
)

const maxTokenInfoSize = int(TokenInfoChunks) * 64

// TokenInfo is the metadata record of a ledger token.
type TokenInfo struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply int128.Int
	Admin       codec.Address
}

func TokenInfoKey(token codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen, 1+codec.AddressLen+consts.Uint16Len)
	k[0] = tokenInfoPrefix
	copy(k[1:], token[:])
	return keys.EncodeChunks(k, TokenInfoChunks)
}

func TokenBalanceKey(token codec.Address, account codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen+codec.AddressLen, 1+codec.AddressLen+codec.AddressLen+consts.Uint16Len)
	k[0] = tokenBalancePrefix
	copy(k[1:], token[:])
	copy(k[1+codec.AddressLen:], account[:])
	return keys.EncodeChunks(k, TokenBalanceChunks)
}

// TokenAddress derives a token address from its metadata. Each field is
// length prefixed so distinct (name, symbol) pairs never share an address.
func TokenAddress(name string, symbol string) codec.Address {
	size := 2*consts.Uint16Len + len(name) + len(symbol)
	p := codec.NewWriter(size, size)
	p.PackString(name)
	p.PackString(symbol)
	return codec.CreateAddress(consts.TokenID, utils.ToID(p.Bytes()))
}

func (t *TokenInfo) Marshal() ([]byte, error) {
	if len(t.Name) > MaxTokenNameSize || len(t.Symbol) > MaxTokenSymbolSize || t.Decimals > MaxTokenDecimals {
		return nil, ErrInvalidTokenInfo
	}
	p := codec.NewWriter(consts.Uint16Len*2+len(t.Name)+len(t.Symbol)+consts.ByteLen+consts.Int128Len+codec.AddressLen, maxTokenInfoSize)
	p.PackString(t.Name)
	p.PackString(t.Symbol)
	p.PackByte(t.Decimals)
	p.PackFixedBytes(t.TotalSupply.Bytes())
	p.PackAddress(t.Admin)
	return p.Bytes(), p.Err()
}

func UnmarshalTokenInfo(b []byte) (*TokenInfo, error) {
	var (
		t      TokenInfo
		supply []byte
	)
	p := codec.NewReader(b, maxTokenInfoSize)
	t.Name = p.UnpackString(false)
	t.Symbol = p.UnpackString(false)
	t.Decimals = p.UnpackByte()
	p.UnpackFixedBytes(consts.Int128Len, &supply)
	p.UnpackAddress(false, &t.Admin)
	if err := p.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptValue, err)
	}
	if !p.Empty() {
		return nil, fmt.Errorf("%w: trailing bytes", ErrCorruptValue)
	}
	total, err := int128.FromBytes(supply)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptValue, err)
	}
	t.TotalSupply = total
	return &t, nil
}

func SetTokenInfo(ctx context.Context, mu state.Mutable, token codec.Address, info *TokenInfo) error {
	v, err := info.Marshal()
	if err != nil {
		return err
	}
	return mu.Insert(ctx, TokenInfoKey(token), v)
}

// GetTokenInfo returns [ErrTokenNotFound] if [token] was never initialized.
func GetTokenInfo(ctx context.Context, im state.Immutable, token codec.Address) (*TokenInfo, error) {
	v, err := im.GetValue(ctx, TokenInfoKey(token))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, token)
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalTokenInfo(v)
}

// GetTokenBalance returns zero for accounts that never held [token].
func GetTokenBalance(ctx context.Context, im state.Immutable, token codec.Address, account codec.Address) (int128.Int, error) {
	v, err := im.GetValue(ctx, TokenBalanceKey(token, account))
	if errors.Is(err, database.ErrNotFound) {
		return int128.Zero, nil
	}
	if err != nil {
		return int128.Zero, err
	}
	balance, err := int128.FromBytes(v)
	if err != nil {
		return int128.Zero, fmt.Errorf("%w: %w", ErrCorruptValue, err)
	}
	return balance, nil
}

// SetTokenBalance removes the key when [balance] is zero.
func SetTokenBalance(ctx context.Context, mu state.Mutable, token codec.Address, account codec.Address, balance int128.Int) error {
	k := TokenBalanceKey(token, account)
	if balance.IsZero() {
		return mu.Remove(ctx, k)
	}
	return mu.Insert(ctx, k, balance.Bytes())
}
